package rank

import (
	"testing"

	"jobalert/internal/domain"

	"github.com/stretchr/testify/assert"
)

func postings(scores ...int) []domain.Posting {
	out := make([]domain.Posting, len(scores))
	for i, s := range scores {
		out[i] = domain.Posting{Title: string(rune('a' + i)), Score: s}
	}
	return out
}

func titles(ps []domain.Posting) string {
	s := ""
	for _, p := range ps {
		s += p.Title
	}
	return s
}

func TestSort_DescendingAndStable(t *testing.T) {
	ps := postings(1, 3, 1, 2, 3)
	Sort(ps)
	assert.Equal(t, "bedac", titles(ps))

	// same input, same order
	again := postings(1, 3, 1, 2, 3)
	Sort(again)
	assert.Equal(t, titles(ps), titles(again))
}

func TestTruncate(t *testing.T) {
	ps := postings(5, 4, 3)
	assert.Len(t, Truncate(ps, 2), 2)
	assert.Len(t, Truncate(ps, 10), 3)
	assert.Len(t, Truncate(ps, 0), 3)
	assert.Empty(t, Truncate(nil, 2))
}
