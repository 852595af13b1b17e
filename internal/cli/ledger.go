package cli

import (
	"fmt"
	"time"

	"jobalert/internal/ledger"

	"github.com/spf13/cobra"
)

func (a *app) newLedgerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "Inspect or prune the seen-jobs ledger",
	}

	stats := &cobra.Command{
		Use:   "stats",
		Short: "Print how many postings have been notified",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := a.loadConfig()
			if err != nil {
				return err
			}
			store, err := ledger.Open(cmd.Context(), cfg.Ledger, a.dataDir())
			if err != nil {
				return fmt.Errorf("open ledger: %w", err)
			}
			defer func() { _ = store.Close() }()

			set, err := store.Load(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			printf(out, "backend: %s\nentries: %d\n", cfg.Ledger.Backend, set.Len())

			var oldest time.Time
			for _, fp := range set.Sorted() {
				if at, _ := set.FirstSeen(fp); !at.IsZero() && (oldest.IsZero() || at.Before(oldest)) {
					oldest = at
				}
			}
			if !oldest.IsZero() {
				printf(out, "oldest: %s\n", oldest.Format(time.RFC3339))
			}
			return nil
		},
	}

	var olderThan time.Duration
	prune := &cobra.Command{
		Use:   "prune",
		Short: "Forget postings first seen before --older-than (sqlite and postgres only)",
		Long: `Prune deletes ledger entries older than the given age. A pruned posting
that is still listed upstream will be notified again.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if olderThan <= 0 {
				return fmt.Errorf("--older-than must be positive")
			}
			cfg, _, err := a.loadConfig()
			if err != nil {
				return err
			}

			lock, err := ledger.Lock(a.dataDir())
			if err != nil {
				return err
			}
			defer func() { _ = lock.Unlock() }()

			store, err := ledger.Open(cmd.Context(), cfg.Ledger, a.dataDir())
			if err != nil {
				return fmt.Errorf("open ledger: %w", err)
			}
			defer func() { _ = store.Close() }()

			p, ok := store.(ledger.Pruner)
			if !ok {
				return fmt.Errorf("the %s ledger keeps no timestamps and cannot be pruned", cfg.Ledger.Backend)
			}
			n, err := p.Prune(cmd.Context(), time.Now().Add(-olderThan))
			if err != nil {
				return err
			}
			printf(cmd.OutOrStdout(), "pruned %d entries\n", n)
			return nil
		},
	}
	prune.Flags().DurationVar(&olderThan, "older-than", 0, "age cutoff, e.g. 720h")

	cmd.AddCommand(stats, prune)
	return cmd
}
