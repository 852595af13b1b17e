package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"jobalert/internal/config"
	"jobalert/internal/logger"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Version is set at build time with -ldflags "-X jobalert/internal/cli.Version=...".
var Version = "dev"

const companiesFile = "companies.yml"

// app carries the settings shared by every subcommand.
type app struct {
	v *viper.Viper
}

// NewRootCmd builds the command tree. Each call gets its own viper instance.
func NewRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	root := &cobra.Command{
		Use:   "jobalert",
		Short: "jobalert - scrape job boards and send new matches to Telegram",
		Long: `jobalert searches job boards for configured keywords and locations,
scores every listing against your reject/boost/penalty tables, and sends
the postings it has not sent before to a Telegram chat.

Run it from cron or a CI schedule; each invocation is one pass.

Configuration hierarchy (highest to lowest priority):
1. CLI flags
2. Environment variables (JOBALERT_*)
3. Config file (<data dir>/config.yml)
4. Defaults`,
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	pf := root.PersistentFlags()
	pf.String("config", "", "config file (default: <data dir>/config.yml)")
	pf.String("data-dir", ".", "directory holding config, ledger and lock file")
	pf.String("log-level", "", "override log.level (trace, debug, info, warn, error)")

	_ = a.v.BindPFlag("config", pf.Lookup("config"))
	_ = a.v.BindPFlag("data_dir", pf.Lookup("data-dir"))
	_ = a.v.BindPFlag("log_level", pf.Lookup("log-level"))

	// JOBALERT_CONFIG, JOBALERT_DATA_DIR, JOBALERT_TELEGRAM_TOKEN, ...
	a.v.SetEnvPrefix("JOBALERT")
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()
	_ = a.v.BindEnv("telegram_token")
	_ = a.v.BindEnv("telegram_chat_id")

	root.AddCommand(
		a.newRunCmd(),
		a.newProbeCmd(),
		a.newConfigCmd(),
		a.newLedgerCmd(),
		a.newSecretsCmd(),
		newVersionCmd(),
	)
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "jobalert %s\n", Version)
		},
	}
}

func (a *app) dataDir() string {
	d := strings.TrimSpace(a.v.GetString("data_dir"))
	if d == "" {
		return "."
	}
	return d
}

// configPath returns the explicit config path, or the one in the data dir,
// writing defaults there on first use.
func (a *app) configPath() (path string, created bool, err error) {
	if p := strings.TrimSpace(a.v.GetString("config")); p != "" {
		return p, false, nil
	}
	if err := os.MkdirAll(a.dataDir(), 0o755); err != nil {
		return "", false, fmt.Errorf("create data dir: %w", err)
	}
	return config.EnsureUserConfig(a.dataDir())
}

// loadConfig reads, overlays, applies environment overrides, normalizes and
// validates. Validation errors are returned; warnings come back for logging.
func (a *app) loadConfig() (config.Config, config.Validation, error) {
	path, _, err := a.configPath()
	if err != nil {
		return config.Config{}, config.Validation{}, err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, config.Validation{}, fmt.Errorf("load config %s: %w", path, err)
	}
	if err := config.OverlayCompanies(&cfg, filepath.Join(filepath.Dir(path), companiesFile)); err != nil {
		return cfg, config.Validation{}, fmt.Errorf("load %s: %w", companiesFile, err)
	}

	if id := strings.TrimSpace(a.v.GetString("telegram_chat_id")); id != "" {
		cfg.Notify.Telegram.ChatID = id
	}
	if lvl := strings.TrimSpace(a.v.GetString("log_level")); lvl != "" {
		cfg.Log.Level = strings.ToLower(lvl)
	}

	cfg, res := config.NormalizeAndValidate(cfg)
	return cfg, res, res.Err()
}

func (a *app) logger(cfg config.Config, component string) zerolog.Logger {
	return logger.New(logger.Options{
		Level:     cfg.Log.Level,
		Format:    cfg.Log.Format,
		Component: component,
	})
}

func logWarnings(log zerolog.Logger, res config.Validation) {
	for _, w := range res.Warnings {
		log.Warn().Msg(w)
	}
}

func printf(w io.Writer, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
