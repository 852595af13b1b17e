package cli

import (
	"bufio"
	"errors"
	"strings"

	"jobalert/internal/secrets"

	"github.com/spf13/cobra"
)

func (a *app) newSecretsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "secrets",
		Short: "Keep the Telegram bot token in the OS keychain",
	}

	var chatID, token string

	chat := func() (string, error) {
		if chatID != "" {
			return chatID, nil
		}
		cfg, _, err := a.loadConfig()
		if err != nil {
			return "", err
		}
		if cfg.Notify.Telegram.ChatID == "" {
			return "", errors.New("no chat id: pass --chat-id or set notify.telegram.chat_id")
		}
		return cfg.Notify.Telegram.ChatID, nil
	}

	set := &cobra.Command{
		Use:   "set-token",
		Short: "Store the bot token for the configured chat (reads stdin without --token)",
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := chat()
			if err != nil {
				return err
			}
			tok := token
			if tok == "" {
				printf(cmd.ErrOrStderr(), "bot token: ")
				line, rerr := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if rerr != nil && line == "" {
					return errors.New("no token on stdin")
				}
				tok = strings.TrimSpace(line)
			}
			if err := secrets.SetToken(id, tok); err != nil {
				return err
			}
			printf(cmd.OutOrStdout(), "✓ token stored in keychain as %s/%s\n", secrets.KeyringService, secrets.TokenAccount(id))
			return nil
		},
	}
	set.Flags().StringVar(&token, "token", "", "bot token (visible in shell history; prefer stdin)")

	del := &cobra.Command{
		Use:   "delete-token",
		Short: "Remove the stored bot token",
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := chat()
			if err != nil {
				return err
			}
			if err := secrets.DeleteToken(id); err != nil {
				return err
			}
			printf(cmd.OutOrStdout(), "✓ token removed\n")
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&chatID, "chat-id", "", "chat the token belongs to (default: notify.telegram.chat_id)")
	cmd.AddCommand(set, del)
	return cmd
}
