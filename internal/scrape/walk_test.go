package scrape

import (
	"context"
	"errors"
	"testing"

	"jobalert/internal/config"
	"jobalert/internal/domain"
	"jobalert/internal/fingerprint"
	"jobalert/internal/rank"
	"jobalert/internal/scrape/types"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeExtractor serves canned listings per keyword and records its calls.
type fakeExtractor struct {
	name        string
	usesLoc     bool
	scorer      rank.Scorer
	listings    map[string][]types.Listing
	failKeyword string
	calls       []types.Query
}

func (f *fakeExtractor) Name() string       { return f.name }
func (f *fakeExtractor) UsesLocation() bool { return f.usesLoc }

func (f *fakeExtractor) Fetch(_ context.Context, q types.Query) (types.Result, error) {
	f.calls = append(f.calls, q)
	if q.Keyword == f.failKeyword {
		return types.Result{}, errors.New("connection refused")
	}
	res := types.Result{Source: domain.Source(f.name)}
	for _, l := range f.listings[q.Keyword] {
		res.Admit(f.scorer, q, l)
	}
	return res, nil
}

type seenSet map[domain.Fingerprint]bool

func (s seenSet) Has(fp domain.Fingerprint) bool { return s[fp] }

func testScorer() rank.Scorer {
	return rank.Scorer{
		Reject:   []string{"senior"},
		Boost:    []config.Rule{{Tag: "backend", Weight: 1, Any: []string{"backend"}}},
		MinScore: 1,
	}
}

func TestWalk_RejectedListingNeverCollected(t *testing.T) {
	ex := &fakeExtractor{
		name:    "fake",
		usesLoc: true,
		scorer:  testScorer(),
		listings: map[string][]types.Listing{
			"backend developer": {
				{Title: "Backend Developer", Company: "Acme", URL: "https://x/1"},
				{Title: "Senior Backend Developer", Company: "Acme", URL: "https://x/2"},
			},
		},
	}
	space := Space{Keywords: []string{"backend developer"}, Locations: []string{"United Arab Emirates"}}

	c := Walk(context.Background(), space, []types.Extractor{ex}, nil, zerolog.Nop())

	require.Len(t, c.Postings, 1)
	assert.Equal(t, "Backend Developer", c.Postings[0].Title)
	assert.Equal(t, 1, c.Postings[0].Score)
	assert.Equal(t, "United Arab Emirates", c.Postings[0].Location)
	assert.Equal(t, 1, c.Sources[0].Rejected)
}

func TestWalk_CallOrderAndLocationIgnoringSources(t *testing.T) {
	withLoc := &fakeExtractor{name: "a", usesLoc: true, scorer: testScorer()}
	noLoc := &fakeExtractor{name: "b", scorer: testScorer()}
	space := Space{Keywords: []string{"k1", "k2"}, Locations: []string{"L1", "L2", "L3"}}

	Walk(context.Background(), space, []types.Extractor{withLoc, noLoc}, nil, zerolog.Nop())

	assert.Equal(t, []types.Query{
		{Keyword: "k1", Location: "L1"}, {Keyword: "k1", Location: "L2"}, {Keyword: "k1", Location: "L3"},
		{Keyword: "k2", Location: "L1"}, {Keyword: "k2", Location: "L2"}, {Keyword: "k2", Location: "L3"},
	}, withLoc.calls)
	assert.Equal(t, []types.Query{
		{Keyword: "k1", Location: "L1"}, {Keyword: "k2", Location: "L1"},
	}, noLoc.calls)
}

func TestWalk_DedupAgainstLedgerAndRun(t *testing.T) {
	listings := []types.Listing{
		{Title: "Backend Developer", Company: "Acme", URL: "https://x/1"},
		{Title: "Backend Engineer", Company: "Globex", URL: "https://x/2"},
	}
	a := &fakeExtractor{name: "a", usesLoc: true, scorer: testScorer(),
		listings: map[string][]types.Listing{"backend": listings}}
	// same posting under different case on another source
	b := &fakeExtractor{name: "b", scorer: testScorer(),
		listings: map[string][]types.Listing{"backend": {
			{Title: "BACKEND DEVELOPER ", Company: "acme", URL: "https://y/1"},
			{Title: "Backend Lead", Company: "Initech", URL: "https://y/2"},
		}}}

	seen := seenSet{fingerprint.Of("Backend Engineer", "Globex"): true}
	space := Space{Keywords: []string{"backend"}, Locations: []string{"L1", "L2"}}

	c := Walk(context.Background(), space, []types.Extractor{a, b}, seen, zerolog.Nop())

	titles := make([]string, 0, len(c.Postings))
	for _, p := range c.Postings {
		titles = append(titles, p.Title)
	}
	assert.Equal(t, []string{"Backend Developer", "Backend Lead"}, titles)

	assert.Equal(t, 2, c.Sources[0].Calls)
	assert.Equal(t, 2, c.Sources[0].Known)      // Globex seen in both locations
	assert.Equal(t, 1, c.Sources[0].Duplicates) // Acme again at L2
	assert.Equal(t, 1, c.Sources[1].Duplicates)
}

func TestWalk_FailedCallDegradesToEmpty(t *testing.T) {
	ex := &fakeExtractor{name: "a", usesLoc: true, scorer: testScorer(), failKeyword: "k1",
		listings: map[string][]types.Listing{"k2": {{Title: "Backend Dev", Company: "Acme", URL: "https://x/1"}}}}
	space := Space{Keywords: []string{"k1", "k2"}, Locations: []string{"L1"}}

	c := Walk(context.Background(), space, []types.Extractor{ex}, nil, zerolog.Nop())

	assert.Len(t, c.Postings, 1)
	assert.Equal(t, 1, c.Failed())
	assert.Len(t, ex.calls, 2)
}

func TestWalk_StopsOnCancelledContext(t *testing.T) {
	ex := &fakeExtractor{name: "a", usesLoc: true, scorer: testScorer()}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := Walk(ctx, Space{Keywords: []string{"k"}, Locations: []string{"L"}}, []types.Extractor{ex}, nil, zerolog.Nop())
	assert.Empty(t, c.Postings)
	assert.Empty(t, ex.calls)
}

func TestBuild_EnabledSourcesInOrder(t *testing.T) {
	cfg := config.Default()
	cfg.Sources.Greenhouse.Enabled = true
	cfg.Sources.Greenhouse.Companies = []config.Company{{Slug: "acme"}}
	cfg.Sources.Lever.Enabled = true // no companies, left out
	cfg.Sources.SmartRecruiters.Enabled = true
	cfg.Sources.SmartRecruiters.Companies = []config.Company{{Slug: "initech"}}

	get := NewGetter(cfg.HTTP, zerolog.Nop())
	exs := Build(cfg, get, rank.FromConfig(cfg), zerolog.Nop())

	names := make([]string, 0, len(exs))
	for _, e := range exs {
		names = append(names, e.Name())
	}
	assert.Equal(t, []string{"bayt", "linkedin", "greenhouse", "smartrecruiters"}, names)
}
