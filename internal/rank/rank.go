package rank

import (
	"sort"

	"jobalert/internal/domain"
)

// Sort orders postings by score, highest first. Equal scores keep discovery order.
func Sort(postings []domain.Posting) {
	sort.SliceStable(postings, func(i, j int) bool {
		return postings[i].Score > postings[j].Score
	})
}

// Truncate keeps the first n postings. n <= 0 keeps everything.
func Truncate(postings []domain.Posting, n int) []domain.Posting {
	if n <= 0 || len(postings) <= n {
		return postings
	}
	return postings[:n]
}
