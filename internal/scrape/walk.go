package scrape

import (
	"context"

	"jobalert/internal/domain"
	"jobalert/internal/scrape/types"

	"github.com/rs/zerolog"
)

// Space is the cross product of keywords and locations walked in one run.
type Space struct {
	Keywords  []string
	Locations []string
}

// Seen answers whether a fingerprint was already notified in an earlier run.
type Seen interface {
	Has(fp domain.Fingerprint) bool
}

// SourceStats counts what one extractor produced over the whole walk.
type SourceStats struct {
	Name       string
	Calls      int
	Failed     int
	Parsed     int
	Skipped    int
	Rejected   int
	Known      int // already in the ledger
	Duplicates int // found earlier in this run
	Kept       int
}

// Collected is the deduplicated candidate list in discovery order.
type Collected struct {
	Postings []domain.Posting
	Sources  []SourceStats
}

// Failed reports how many extractor calls returned an error.
func (c Collected) Failed() int {
	n := 0
	for _, s := range c.Sources {
		n += s.Failed
	}
	return n
}

// Walk calls every extractor for every keyword and location, in that nesting
// order. Extractors that ignore the location are called once per keyword with
// the first location. A failed call is logged and contributes nothing.
// Postings already in seen, or already collected, are dropped.
func Walk(ctx context.Context, space Space, extractors []types.Extractor, seen Seen, log zerolog.Logger) Collected {
	c := Collected{Sources: make([]SourceStats, len(extractors))}
	for i, ex := range extractors {
		c.Sources[i].Name = ex.Name()
	}

	locations := space.Locations
	if len(locations) == 0 {
		locations = []string{""}
	}
	inRun := make(map[domain.Fingerprint]struct{})

	for _, kw := range space.Keywords {
		for li, loc := range locations {
			for ei, ex := range extractors {
				if li > 0 && !ex.UsesLocation() {
					continue
				}
				if err := ctx.Err(); err != nil {
					log.Warn().Err(err).Msg("walk interrupted")
					return c
				}

				q := types.Query{Keyword: kw, Location: loc}
				st := &c.Sources[ei]
				st.Calls++

				res, err := ex.Fetch(ctx, q)
				if err != nil {
					st.Failed++
					log.Warn().Err(err).
						Str("source", ex.Name()).
						Str("keyword", kw).
						Str("location", loc).
						Msg("fetch failed, treating as empty")
					continue
				}
				st.Parsed += res.Parsed
				st.Skipped += res.Skipped
				st.Rejected += res.Rejected

				kept := 0
				for _, p := range res.Postings {
					if seen != nil && seen.Has(p.Fingerprint) {
						st.Known++
						continue
					}
					if _, dup := inRun[p.Fingerprint]; dup {
						st.Duplicates++
						continue
					}
					inRun[p.Fingerprint] = struct{}{}
					c.Postings = append(c.Postings, p)
					kept++
				}
				st.Kept += kept

				log.Info().
					Str("source", ex.Name()).
					Str("keyword", kw).
					Str("location", loc).
					Int("parsed", res.Parsed).
					Int("relevant", len(res.Postings)).
					Int("new", kept).
					Msgf("[%s] %s", ex.Name(), kw)
			}
		}
	}
	return c
}
