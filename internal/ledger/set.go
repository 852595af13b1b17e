package ledger

import (
	"sort"
	"time"

	"jobalert/internal/domain"
)

// Set is the in-memory seen-set for one run. It remembers which fingerprints
// were added since it was loaded so the SQL stores can write only those.
type Set struct {
	first map[domain.Fingerprint]time.Time
	added []domain.Fingerprint
}

func NewSet() *Set {
	return &Set{first: make(map[domain.Fingerprint]time.Time)}
}

// restore puts a persisted entry back without marking it as added.
func (s *Set) restore(fp domain.Fingerprint, at time.Time) {
	s.first[fp] = at
}

func (s *Set) Has(fp domain.Fingerprint) bool {
	_, ok := s.first[fp]
	return ok
}

// Add records fp as seen at `at`. It reports false when fp was already present.
func (s *Set) Add(fp domain.Fingerprint, at time.Time) bool {
	if s.Has(fp) {
		return false
	}
	s.first[fp] = at.UTC()
	s.added = append(s.added, fp)
	return true
}

func (s *Set) Len() int { return len(s.first) }

// Added returns the fingerprints added since load, in insertion order.
func (s *Set) Added() []domain.Fingerprint {
	out := make([]domain.Fingerprint, len(s.added))
	copy(out, s.added)
	return out
}

// FirstSeen is the zero time for entries loaded from the JSON file.
func (s *Set) FirstSeen(fp domain.Fingerprint) (time.Time, bool) {
	t, ok := s.first[fp]
	return t, ok
}

func (s *Set) Sorted() []domain.Fingerprint {
	out := make([]domain.Fingerprint, 0, len(s.first))
	for fp := range s.first {
		out = append(out, fp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
