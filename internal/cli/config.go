package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func (a *app) newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage jobalert configuration",
		Long: `Manage the jobalert configuration file.

The file lives at <data dir>/config.yml unless --config or JOBALERT_CONFIG
points elsewhere. Greenhouse and Lever company lists may be kept in a
companies.yml next to it.`,
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := a.loadConfig()
			if err != nil {
				return err
			}
			if cfg.Notify.Telegram.Token != "" {
				cfg.Notify.Telegram.Token = "<redacted>"
			}
			b, err := yaml.Marshal(cfg)
			if err != nil {
				return fmt.Errorf("error marshaling config: %w", err)
			}
			path, _, _ := a.configPath()
			printf(cmd.OutOrStdout(), "# %s\n%s", path, b)
			return nil
		},
	}

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration file if none exists",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, created, err := a.configPath()
			if err != nil {
				return err
			}
			if !created {
				printf(cmd.OutOrStdout(), "config already exists: %s\n", path)
				return nil
			}
			printf(cmd.OutOrStdout(), "✓ Created default configuration: %s\n", path)
			printf(cmd.OutOrStdout(), "\nSet notify.telegram.chat_id, then store the bot token with:\n  jobalert secrets set-token\n")
			return nil
		},
	}

	validate := &cobra.Command{
		Use:   "validate",
		Short: "Check the configuration and report problems",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, res, err := a.loadConfig()
			out := cmd.OutOrStdout()
			for _, w := range res.Warnings {
				printf(out, "warning: %s\n", w)
			}
			if err != nil {
				return err
			}
			printf(out, "config OK\n")
			return nil
		},
	}

	cmd.AddCommand(show, initCmd, validate)
	return cmd
}

