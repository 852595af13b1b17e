package secrets

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zalando/go-keyring"
)

const (
	// KeyringService groups the app's secrets in the OS keychain.
	KeyringService = "jobalert"
)

// ErrNoToken means no source produced a bot token.
var ErrNoToken = errors.New("telegram bot token not found (set JOBALERT_TELEGRAM_TOKEN, run `jobalert secrets set-token`, or set notify.telegram.token)")

// TokenAccount is the keychain account holding the bot token for a chat.
func TokenAccount(chatID string) string {
	return fmt.Sprintf("telegram:%s", strings.TrimSpace(chatID))
}

func GetToken(chatID string) (string, error) {
	if strings.TrimSpace(chatID) == "" {
		return "", errors.New("chat id is empty")
	}
	tok, err := keyring.Get(KeyringService, TokenAccount(chatID))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(tok), nil
}

func SetToken(chatID, token string) error {
	if strings.TrimSpace(chatID) == "" {
		return errors.New("chat id is empty")
	}
	if strings.TrimSpace(token) == "" {
		return errors.New("token is empty")
	}
	return keyring.Set(KeyringService, TokenAccount(chatID), strings.TrimSpace(token))
}

func DeleteToken(chatID string) error {
	if strings.TrimSpace(chatID) == "" {
		return errors.New("chat id is empty")
	}
	return keyring.Delete(KeyringService, TokenAccount(chatID))
}

// placeholder values shipped in sample configs
func isPlaceholder(s string) bool {
	s = strings.TrimSpace(s)
	return s == "" || strings.HasPrefix(strings.ToUpper(s), "YOUR_")
}

// ResolveToken picks the bot token: explicit value (flag or environment),
// then the keychain, then the config file. Placeholders count as unset.
func ResolveToken(explicit, chatID, fromConfig string) (token, source string, err error) {
	if !isPlaceholder(explicit) {
		return strings.TrimSpace(explicit), "env", nil
	}
	if tok, kerr := GetToken(chatID); kerr == nil && !isPlaceholder(tok) {
		return tok, "keychain", nil
	}
	if !isPlaceholder(fromConfig) {
		return strings.TrimSpace(fromConfig), "config", nil
	}
	return "", "", ErrNoToken
}
