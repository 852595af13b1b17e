package cli

import (
	"fmt"
	"text/tabwriter"

	"jobalert/internal/rank"
	"jobalert/internal/scrape"
	"jobalert/internal/scrape/types"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

type probeResult struct {
	name string
	res  types.Result
	err  error
}

func (a *app) newProbeCmd() *cobra.Command {
	var keyword, location string

	cmd := &cobra.Command{
		Use:   "probe",
		Short: "Fetch one query from every enabled source and print counts",
		Long: `Probe runs the first keyword and location (or the ones given) against each
enabled source at the same time and reports how many listings were read,
kept, skipped and rejected. Use it to spot a source whose markup changed.
Nothing is sent and the ledger is not read.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, res, err := a.loadConfig()
			if err != nil {
				return err
			}
			log := a.logger(cfg, "probe")
			logWarnings(log, res)

			q := types.Query{Keyword: keyword, Location: location}
			if q.Keyword == "" {
				q.Keyword = cfg.Search.Keywords[0]
			}
			if q.Location == "" {
				q.Location = cfg.Search.Locations[0]
			}

			get := scrape.NewGetter(cfg.HTTP, log)
			exs := scrape.Build(cfg, get, rank.FromConfig(cfg), log)
			results := make([]probeResult, len(exs))

			// failures are reported per source, never cancel the others
			var g errgroup.Group
			for i, ex := range exs {
				g.Go(func() error {
					r, ferr := ex.Fetch(cmd.Context(), q)
					results[i] = probeResult{name: ex.Name(), res: r, err: ferr}
					return nil
				})
			}
			_ = g.Wait()

			out := cmd.OutOrStdout()
			printf(out, "query: %q in %q\n\n", q.Keyword, q.Location)
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "SOURCE\tPARSED\tKEPT\tSKIPPED\tREJECTED\tERROR")
			failed := 0
			for _, r := range results {
				errText := "-"
				if r.err != nil {
					errText = r.err.Error()
					failed++
				}
				fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\t%s\n",
					r.name, r.res.Parsed, len(r.res.Postings), r.res.Skipped, r.res.Rejected, errText)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			if failed > 0 && failed == len(results) {
				return fmt.Errorf("every source failed")
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&keyword, "keyword", "", "keyword to probe (default: first configured)")
	cmd.Flags().StringVar(&location, "location", "", "location to probe (default: first configured)")
	return cmd
}
