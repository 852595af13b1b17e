package poll

import (
	"context"
	"fmt"
	"time"

	"jobalert/internal/domain"
	"jobalert/internal/ledger"
	"jobalert/internal/notify"
	"jobalert/internal/rank"
	"jobalert/internal/scrape"
	"jobalert/internal/scrape/types"

	"github.com/rs/zerolog"
)

// Deps is everything one run needs, built by the caller from config.
type Deps struct {
	Space      scrape.Space
	Extractors []types.Extractor
	Store      ledger.Store
	Dispatcher *notify.Dispatcher
	MaxJobs    int  // ranked list cap, 0 keeps all
	DryRun     bool // dispatch but do not commit the ledger
	Now        func() time.Time
	Log        zerolog.Logger
}

// Summary describes a finished run.
type Summary struct {
	Candidates int // relevant postings across all calls, before dedup
	New        int // not in the ledger, deduplicated
	Ranked     int // after truncation
	Notified   int // inside messages that were sent
	Messages   int
	Failed     int // messages not sent
	FetchErrs  int
	Sources    []scrape.SourceStats
	Took       time.Duration
}

const saveTimeout = 30 * time.Second

// RunOnce walks the search space, ranks what is new, dispatches it and
// commits the delivered fingerprints. Only a ledger save failure is returned;
// everything else degrades and is logged.
func RunOnce(ctx context.Context, d Deps) (Summary, error) {
	now := time.Now
	if d.Now != nil {
		now = d.Now
	}
	log := d.Log
	start := now()

	set, err := d.Store.Load(ctx)
	if err != nil || set == nil {
		log.Warn().Err(err).Msg("ledger unreadable, treating as empty")
		set = ledger.NewSet()
	}
	log.Info().Int("seen", set.Len()).Msg("ledger loaded")

	col := scrape.Walk(ctx, d.Space, d.Extractors, set, log)

	ranked := make([]domain.Posting, len(col.Postings))
	copy(ranked, col.Postings)
	rank.Sort(ranked)
	ranked = rank.Truncate(ranked, d.MaxJobs)

	rep := d.Dispatcher.Dispatch(ctx, ranked, len(col.Postings))

	at := now()
	for _, p := range rep.Delivered {
		set.Add(p.Fingerprint, at)
	}

	sum := Summary{
		New:       len(col.Postings),
		Ranked:    len(ranked),
		Notified:  len(rep.Delivered),
		Messages:  rep.Messages,
		Failed:    rep.Failed,
		FetchErrs: col.Failed(),
		Sources:   col.Sources,
	}
	for _, s := range col.Sources {
		sum.Candidates += s.Kept + s.Known + s.Duplicates
	}

	if d.DryRun {
		sum.Took = now().Sub(start)
		log.Info().Int("would_commit", len(rep.Delivered)).Msg("dry run, ledger left untouched")
		return sum, nil
	}

	// deliveries already happened, so the commit outlives a cancelled run
	sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), saveTimeout)
	defer cancel()
	if err := d.Store.Save(sctx, set); err != nil {
		sum.Took = now().Sub(start)
		log.Error().Err(err).Int("uncommitted", len(rep.Delivered)).
			Msg("ledger save failed, these postings will be sent again next run")
		return sum, fmt.Errorf("save ledger: %w", err)
	}

	sum.Took = now().Sub(start)
	log.Info().
		Int("candidates", sum.Candidates).
		Int("new", sum.New).
		Int("notified", sum.Notified).
		Int("messages", sum.Messages).
		Int("failed", sum.Failed).
		Dur("took", sum.Took).
		Msg("run complete")
	return sum, nil
}
