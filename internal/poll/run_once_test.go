package poll

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"jobalert/internal/config"
	"jobalert/internal/domain"
	"jobalert/internal/fingerprint"
	"jobalert/internal/ledger"
	"jobalert/internal/notify"
	"jobalert/internal/rank"
	"jobalert/internal/scrape"
	"jobalert/internal/scrape/types"
	"jobalert/internal/scrape/util"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// staticExtractor returns the same listings for every query.
type staticExtractor struct {
	scorer   rank.Scorer
	listings []types.Listing
}

func (s *staticExtractor) Name() string       { return "static" }
func (s *staticExtractor) UsesLocation() bool { return false }

func (s *staticExtractor) Fetch(_ context.Context, q types.Query) (types.Result, error) {
	res := types.Result{Source: domain.SourceLinkedIn}
	for _, l := range s.listings {
		res.Admit(s.scorer, q, l)
	}
	return res, nil
}

type recordingSender struct {
	sent []string
	fail bool
}

func (r *recordingSender) Send(_ context.Context, text string) error {
	if r.fail {
		return errors.New("network unreachable")
	}
	r.sent = append(r.sent, text)
	return nil
}

type brokenStore struct {
	loadErr, saveErr error
	saved            *ledger.Set
}

func (b *brokenStore) Load(context.Context) (*ledger.Set, error) { return nil, b.loadErr }
func (b *brokenStore) Save(_ context.Context, s *ledger.Set) error {
	b.saved = s
	return b.saveErr
}
func (b *brokenStore) Close() error { return nil }

var upstream = []types.Listing{
	{Title: "Backend Developer", Company: "Acme", URL: "https://x/1"},
	{Title: "Senior Backend Developer", Company: "Acme", URL: "https://x/2"},
	{Title: "Golang Backend Engineer", Company: "Globex", URL: "https://x/3"},
	{Title: "Backend Intern", Company: "Initech", URL: "https://x/4"},
}

func testScorer() rank.Scorer {
	return rank.Scorer{
		Reject: []string{"senior"},
		Boost: []config.Rule{
			{Tag: "backend", Weight: 1, Any: []string{"backend"}},
			{Tag: "golang", Weight: 3, Any: []string{"golang"}},
		},
		MinScore: 1,
	}
}

func deps(store ledger.Store, sender notify.Sender, maxJobs int) Deps {
	return Deps{
		Space:      scrape.Space{Keywords: []string{"backend developer"}, Locations: []string{"United Arab Emirates"}},
		Extractors: []types.Extractor{&staticExtractor{scorer: testScorer(), listings: upstream}},
		Store:      store,
		Dispatcher: &notify.Dispatcher{
			Sender:        sender,
			Pacer:         util.NoPacing(),
			MaxChars:      3900,
			MaxPerMessage: 10,
			Log:           zerolog.Nop(),
		},
		MaxJobs: maxJobs,
		Log:     zerolog.Nop(),
	}
}

func TestRunOnce_SecondRunIsQuiet(t *testing.T) {
	store := ledger.NewJSONStore(filepath.Join(t.TempDir(), "seen_jobs.json"))
	sender := &recordingSender{}
	ctx := context.Background()

	sum, err := RunOnce(ctx, deps(store, sender, 20))
	require.NoError(t, err)
	assert.Equal(t, 3, sum.New)
	assert.Equal(t, 3, sum.Notified)
	require.Len(t, sender.sent, 1)
	assert.NotContains(t, sender.sent[0], "Senior")

	// ranked by score, ties keep discovery order
	first := strings.Index(sender.sent[0], "Golang Backend Engineer")
	second := strings.Index(sender.sent[0], "Backend Developer</b>")
	third := strings.Index(sender.sent[0], "Backend Intern")
	assert.True(t, first < second && second < third)

	sum, err = RunOnce(ctx, deps(store, sender, 20))
	require.NoError(t, err)
	assert.Equal(t, 0, sum.New)
	assert.Equal(t, 3, sum.Candidates)
	require.Len(t, sender.sent, 2)
	assert.Contains(t, sender.sent[1], "No new jobs found today")
}

func TestRunOnce_FailedDispatchReoffers(t *testing.T) {
	store := ledger.NewJSONStore(filepath.Join(t.TempDir(), "seen_jobs.json"))
	ctx := context.Background()

	sum, err := RunOnce(ctx, deps(store, &recordingSender{fail: true}, 20))
	require.NoError(t, err)
	assert.Equal(t, 0, sum.Notified)
	assert.Equal(t, 1, sum.Failed)

	set, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, set.Len())

	ok := &recordingSender{}
	sum, err = RunOnce(ctx, deps(store, ok, 20))
	require.NoError(t, err)
	assert.Equal(t, 3, sum.Notified)
}

func TestRunOnce_TruncatedPostingsComeBack(t *testing.T) {
	store := ledger.NewJSONStore(filepath.Join(t.TempDir(), "seen_jobs.json"))
	ctx := context.Background()

	sender := &recordingSender{}
	sum, err := RunOnce(ctx, deps(store, sender, 2))
	require.NoError(t, err)
	assert.Equal(t, 3, sum.New)
	assert.Equal(t, 2, sum.Notified)
	assert.Contains(t, sender.sent[0], "... and 1 more next run.")

	sum, err = RunOnce(ctx, deps(store, sender, 2))
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Notified)
	assert.Contains(t, sender.sent[1], "Backend Intern")
}

func TestRunOnce_DryRunLeavesLedger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seen_jobs.json")
	store := ledger.NewJSONStore(path)
	d := deps(store, &recordingSender{}, 20)
	d.DryRun = true

	sum, err := RunOnce(context.Background(), d)
	require.NoError(t, err)
	assert.Equal(t, 3, sum.Notified)

	set, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, set.Len())
}

func TestRunOnce_LedgerErrors(t *testing.T) {
	store := &brokenStore{loadErr: errors.New("permission denied"), saveErr: errors.New("disk full")}

	sum, err := RunOnce(context.Background(), deps(store, &recordingSender{}, 20))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.Equal(t, 3, sum.Notified)
	require.NotNil(t, store.saved)
	assert.True(t, store.saved.Has(fingerprint.Of("Backend Developer", "Acme")))
}

func TestRunOnce_CommitsOnlyDelivered(t *testing.T) {
	store := ledger.NewJSONStore(filepath.Join(t.TempDir(), "seen_jobs.json"))
	d := deps(store, &recordingSender{}, 20)
	d.Dispatcher.MaxPerMessage = 1
	calls := 0
	d.Dispatcher.Sender = senderFunc(func(_ context.Context, _ string) error {
		calls++
		if calls == 2 {
			return errors.New("429 too many requests")
		}
		return nil
	})
	d.Now = func() time.Time { return time.Date(2026, 10, 18, 6, 0, 0, 0, time.UTC) }

	sum, err := RunOnce(context.Background(), d)
	require.NoError(t, err)
	assert.Equal(t, 2, sum.Notified)

	set, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.True(t, set.Has(fingerprint.Of("Golang Backend Engineer", "Globex")))
	assert.False(t, set.Has(fingerprint.Of("Backend Developer", "Acme")))
	assert.True(t, set.Has(fingerprint.Of("Backend Intern", "Initech")))
}

type senderFunc func(ctx context.Context, text string) error

func (f senderFunc) Send(ctx context.Context, text string) error { return f(ctx, text) }
