// internal/rank/scorer.go
package rank

import (
	"strings"

	"jobalert/internal/config"
)

// RejectScore is returned for any text containing a reject term.
const RejectScore = -1000

type Scorer struct {
	Reject   []string
	Boost    []config.Rule
	Penalty  []config.Rule
	MinScore int
}

func FromConfig(cfg config.Config) Scorer {
	return Scorer{
		Reject:   cfg.Scoring.Reject,
		Boost:    cfg.Scoring.Boost,
		Penalty:  cfg.Scoring.Penalty,
		MinScore: cfg.Scoring.MinScore,
	}
}

// Score rates title plus description. A reject term short-circuits to
// RejectScore; otherwise each boost or penalty rule adds its weight once if
// any of its terms is a substring. The tags of the fired boost rules come back
// alongside.
func (s Scorer) Score(title, description string) (int, []string) {
	text := strings.ToLower(title + " " + description)

	for _, r := range s.Reject {
		n := strings.ToLower(r)
		if n != "" && strings.Contains(text, n) {
			return RejectScore, nil
		}
	}

	score := 0
	var tags []string

	applyRules := func(rules []config.Rule, tag bool) {
		for _, r := range rules {
			for _, needle := range r.Any {
				n := strings.ToLower(needle)
				if n != "" && strings.Contains(text, n) {
					score += r.Weight
					if tag {
						tags = append(tags, r.Tag)
					}
					break
				}
			}
		}
	}

	applyRules(s.Boost, true)
	applyRules(s.Penalty, false)

	return score, uniq(tags)
}

func (s Scorer) IsRelevant(title, description string) bool {
	score, _ := s.Score(title, description)
	return score >= s.MinScore
}

func uniq(in []string) []string {
	seen := map[string]bool{}
	out := make([]string, 0, len(in))
	for _, t := range in {
		if t != "" && !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	return out
}
