package cli

import (
	"errors"
	"fmt"

	"jobalert/internal/config"
	"jobalert/internal/ledger"
	"jobalert/internal/notify"
	"jobalert/internal/poll"
	"jobalert/internal/rank"
	"jobalert/internal/scrape"
	"jobalert/internal/scrape/util"
	"jobalert/internal/secrets"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

func (a *app) newRunCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run one pass: scrape, rank, notify, record",
		Long: `Run walks every keyword and location against the enabled sources,
drops postings already notified, ranks the rest by score and sends them to
Telegram. Only postings inside messages that were delivered are recorded
in the ledger, so a failed send is retried on the next run.

With --dry-run the messages are printed to stdout and the ledger is not
written.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, dryRun)
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print messages instead of sending; do not touch the ledger")
	return cmd
}

func (a *app) run(cmd *cobra.Command, dryRun bool) error {
	cfg, res, err := a.loadConfig()
	if err != nil {
		return err
	}
	log := a.logger(cfg, "run")
	logWarnings(log, res)

	lock, err := ledger.Lock(a.dataDir())
	if err != nil {
		return err
	}
	defer func() { _ = lock.Unlock() }()

	ctx := cmd.Context()

	sender, err := a.sender(cmd, cfg, dryRun, log)
	if err != nil {
		return err
	}

	store, err := ledger.Open(ctx, cfg.Ledger, a.dataDir())
	if err != nil {
		return fmt.Errorf("open ledger: %w", err)
	}
	defer func() { _ = store.Close() }()

	scorer := rank.FromConfig(cfg)
	get := scrape.NewGetter(cfg.HTTP, log)

	sum, err := poll.RunOnce(ctx, poll.Deps{
		Space: scrape.Space{
			Keywords:  cfg.Search.Keywords,
			Locations: cfg.Search.Locations,
		},
		Extractors: scrape.Build(cfg, get, scorer, log),
		Store:      store,
		Dispatcher: &notify.Dispatcher{
			Sender:        sender,
			Pacer:         util.NewPacer(cfg.Notify.SendDelay),
			MaxChars:      cfg.Notify.MaxChars,
			MaxPerMessage: cfg.Notify.MaxPerMessage,
			SignOff:       cfg.Notify.SignOff,
			Log:           log.With().Str("component", "notify").Logger(),
		},
		MaxJobs: cfg.Notify.MaxJobsOrDefault(),
		DryRun:  dryRun,
		Log:     log,
	})

	out := cmd.ErrOrStderr()
	if dryRun {
		out = cmd.OutOrStdout()
	}
	printf(out, "new: %d  notified: %d  messages: %d  failed: %d  fetch errors: %d\n",
		sum.New, sum.Notified, sum.Messages, sum.Failed, sum.FetchErrs)
	return err
}

func (a *app) sender(cmd *cobra.Command, cfg config.Config, dryRun bool, log zerolog.Logger) (notify.Sender, error) {
	if dryRun {
		return &notify.WriterSender{W: cmd.OutOrStdout()}, nil
	}

	chatID := cfg.Notify.Telegram.ChatID
	if chatID == "" {
		return nil, errors.New("notify.telegram.chat_id is not set (config file or JOBALERT_TELEGRAM_CHAT_ID)")
	}
	token, from, err := secrets.ResolveToken(a.v.GetString("telegram_token"), chatID, cfg.Notify.Telegram.Token)
	if err != nil {
		return nil, err
	}
	log.Debug().Str("from", from).Msg("telegram token resolved")

	return notify.NewTelegramSender(token, chatID, cfg.HTTP.Timeout)
}
