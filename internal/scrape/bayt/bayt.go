package bayt

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"jobalert/internal/domain"
	"jobalert/internal/rank"
	"jobalert/internal/scrape/types"
	"jobalert/internal/scrape/util"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"
)

const DefaultBaseURL = "https://www.bayt.com"

type Config struct {
	BaseURL     string
	Country     string // path segment: uae, qatar, oman, saudi-arabia
	MaxListings int
}

// Scraper reads the Bayt.com search page for a keyword. The country is fixed
// by config, so the queried location does not change the request.
type Scraper struct {
	cfg    Config
	get    *util.Getter
	scorer rank.Scorer
	log    zerolog.Logger
}

func New(cfg Config, get *util.Getter, scorer rank.Scorer, log zerolog.Logger) *Scraper {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Country == "" {
		cfg.Country = "uae"
	}
	if cfg.MaxListings <= 0 {
		cfg.MaxListings = 20
	}
	return &Scraper{cfg: cfg, get: get, scorer: scorer, log: log}
}

func (s *Scraper) Name() string { return "bayt" }

func (s *Scraper) UsesLocation() bool { return false }

// SearchURL is /en/<country>/jobs/<keyword-slug>-jobs/.
func (s *Scraper) SearchURL(keyword string) string {
	slug := strings.Join(strings.Fields(strings.ToLower(keyword)), "-")
	return fmt.Sprintf("%s/en/%s/jobs/%s-jobs/",
		strings.TrimRight(s.cfg.BaseURL, "/"), url.PathEscape(s.cfg.Country), url.PathEscape(slug))
}

func (s *Scraper) Fetch(ctx context.Context, q types.Query) (types.Result, error) {
	res := types.Result{Source: domain.SourceBayt}

	pageURL := s.SearchURL(q.Keyword)
	doc, err := s.get.Document(ctx, pageURL)
	if err != nil {
		return res, fmt.Errorf("bayt search %q: %w", q.Keyword, err)
	}

	doc.Find(`li[class*="has-pointer-d"]`).EachWithBreak(func(i int, li *goquery.Selection) bool {
		if i >= s.cfg.MaxListings {
			return false
		}
		res.Admit(s.scorer, q, s.parseListing(pageURL, li))
		return true
	})

	s.log.Debug().
		Str("url", pageURL).
		Int("parsed", res.Parsed).
		Int("skipped", res.Skipped).
		Int("rejected", res.Rejected).
		Int("kept", len(res.Postings)).
		Msg("bayt page read")
	return res, nil
}

func (s *Scraper) parseListing(pageURL string, li *goquery.Selection) types.Listing {
	title := li.Find("h2").First()

	link := title.Find("a[href]").First()
	if link.Length() == 0 {
		link = li.Find("a[href]").First()
	}
	href, _ := link.Attr("href")

	return types.Listing{
		Title:    util.CleanText(title.Text()),
		Company:  util.CleanText(li.Find("b.t-default").First().Text()),
		Location: util.NormalizeLocation(li.Find("span.t-mute").First().Text()),
		URL:      util.AbsURL(pageURL, href),
	}
}
