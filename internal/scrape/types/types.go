package types

import (
	"context"

	"jobalert/internal/domain"
	"jobalert/internal/fingerprint"
	"jobalert/internal/rank"
)

// Query is one point of the search space.
type Query struct {
	Keyword  string
	Location string
}

// Extractor pulls candidate postings for a query from one upstream site.
// A transport failure comes back as an error; broken listings are counted in
// the Result instead.
type Extractor interface {
	Name() string
	// UsesLocation reports whether Query.Location changes the request.
	UsesLocation() bool
	Fetch(ctx context.Context, q Query) (Result, error)
}

// Result holds the postings kept from one page plus what happened to the rest.
type Result struct {
	Source   domain.Source
	Postings []domain.Posting
	Parsed   int // listings looked at
	Skipped  int // no title or link
	Rejected int // failed relevance
}

// Listing is what an extractor managed to read from one listing before scoring.
type Listing struct {
	Title    string
	Company  string
	Location string
	URL      string
}

// Admit scores l and keeps it when relevant, filling in defaults and the
// fingerprint. Listings without title or URL are counted as skipped.
func (r *Result) Admit(s rank.Scorer, q Query, l Listing) bool {
	r.Parsed++
	if l.Title == "" || l.URL == "" {
		r.Skipped++
		return false
	}
	if l.Company == "" {
		l.Company = domain.UnknownCompany
	}
	if l.Location == "" {
		l.Location = q.Location
	}

	score, tags := s.Score(l.Title, "")
	if score < s.MinScore {
		r.Rejected++
		return false
	}

	r.Postings = append(r.Postings, domain.Posting{
		Title:       l.Title,
		Company:     l.Company,
		Location:    l.Location,
		URL:         l.URL,
		Source:      r.Source,
		Score:       score,
		Tags:        tags,
		Fingerprint: fingerprint.Of(l.Title, l.Company),
	})
	return true
}

// Skip records a listing that could not be read at all.
func (r *Result) Skip() {
	r.Parsed++
	r.Skipped++
}
