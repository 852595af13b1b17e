package notify

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// TelegramSender posts HTML messages with link previews off. ChatID is either
// a numeric chat id or an @channel name.
type TelegramSender struct {
	bot     *tgbotapi.BotAPI
	chatID  int64
	channel string
}

// NewTelegramSender checks the token against the Bot API (getMe) before use.
func NewTelegramSender(token, chatID string, timeout time.Duration) (*TelegramSender, error) {
	return newTelegramSender(token, chatID, tgbotapi.APIEndpoint, &http.Client{Timeout: timeout})
}

func newTelegramSender(token, chatID, endpoint string, hc *http.Client) (*TelegramSender, error) {
	bot, err := tgbotapi.NewBotAPIWithClient(token, endpoint, hc)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram bot: %w", err)
	}

	t := &TelegramSender{bot: bot}
	chatID = strings.TrimSpace(chatID)
	if id, perr := strconv.ParseInt(chatID, 10, 64); perr == nil {
		t.chatID = id
	} else if strings.HasPrefix(chatID, "@") {
		t.channel = chatID
	} else {
		return nil, fmt.Errorf("telegram chat id %q is neither numeric nor an @channel", chatID)
	}
	return t, nil
}

func (t *TelegramSender) Send(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var msg tgbotapi.MessageConfig
	if t.channel != "" {
		msg = tgbotapi.NewMessageToChannel(t.channel, text)
	} else {
		msg = tgbotapi.NewMessage(t.chatID, text)
	}
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true

	if _, err := t.bot.Send(msg); err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}
	return nil
}
