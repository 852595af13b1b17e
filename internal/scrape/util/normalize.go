package util

import "strings"

func CleanText(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	s = strings.Join(strings.Fields(s), " ")
	return strings.TrimSpace(s)
}

// NormalizeLocation cleans a location string and drops repeated parts
// ("Dubai, Dubai, United Arab Emirates").
func NormalizeLocation(loc string) string {
	loc = CleanText(loc)
	if loc == "" {
		return ""
	}

	loc = strings.TrimPrefix(loc, "Location:")
	loc = strings.TrimSpace(loc)

	parts := strings.Split(loc, ",")
	seen := map[string]bool{}
	var out []string
	for _, p := range parts {
		p = CleanText(p)
		if p == "" {
			continue
		}
		k := strings.ToLower(p)
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, p)
	}
	return strings.Join(out, ", ")
}

// ContainsFold reports whether text mentions every word of keyword,
// ignoring case. Used by the board sources, which list every opening
// regardless of the search term.
func ContainsFold(text, keyword string) bool {
	low := strings.ToLower(text)
	words := strings.Fields(strings.ToLower(keyword))
	if len(words) == 0 {
		return false
	}
	for _, w := range words {
		if !strings.Contains(low, w) {
			return false
		}
	}
	return true
}
