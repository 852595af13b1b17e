package util

import "github.com/PuerkitoBio/goquery"

var locationSelectors = []string{
	".location",
	".job__location",
	".location--small",
	"[data-testid='job-location']",
	"[data-testid='location']",
}

// FindLocation returns the first non-empty location inside sel.
func FindLocation(sel *goquery.Selection) string {
	for _, css := range locationSelectors {
		if t := CleanText(sel.Find(css).First().Text()); t != "" {
			return NormalizeLocation(t)
		}
	}
	return ""
}
