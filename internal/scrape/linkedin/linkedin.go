package linkedin

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

const DefaultBaseURL = "https://www.linkedin.com"

type Config struct {
	BaseURL      string
	PostedWithin string // f_TPR, "r86400" is the last 24h
	Experience   string // f_E, "1,2" is internship + entry level
	MaxListings  int
}

// Scraper reads LinkedIn's public (logged-out) job search page.
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
	if cfg.MaxListings <= 0 {
		cfg.MaxListings = 20
	}
	return &Scraper{cfg: cfg, get: get, scorer: scorer, log: log}
}

func (s *Scraper) Name() string { return "linkedin" }

func (s *Scraper) UsesLocation() bool { return true }

func (s *Scraper) SearchURL(q types.Query) string {
	v := url.Values{}
	v.Set("keywords", q.Keyword)
	if q.Location != "" {
		v.Set("location", q.Location)
	}
	if s.cfg.PostedWithin != "" {
		v.Set("f_TPR", s.cfg.PostedWithin)
	}
	if s.cfg.Experience != "" {
		v.Set("f_E", s.cfg.Experience)
	}
	return strings.TrimRight(s.cfg.BaseURL, "/") + "/jobs/search/?" + v.Encode()
}

func (s *Scraper) Fetch(ctx context.Context, q types.Query) (types.Result, error) {
	res := types.Result{Source: domain.SourceLinkedIn}

	pageURL := s.SearchURL(q)
	doc, err := s.get.Document(ctx, pageURL)
	if err != nil {
		return res, fmt.Errorf("linkedin search %q in %q: %w", q.Keyword, q.Location, err)
	}

	doc.Find("div.base-card").EachWithBreak(func(i int, card *goquery.Selection) bool {
		if i >= s.cfg.MaxListings {
			return false
		}
		href, _ := card.Find("a.base-card__full-link").First().Attr("href")
		res.Admit(s.scorer, q, types.Listing{
			Title:    util.CleanText(card.Find("h3.base-search-card__title").First().Text()),
			Company:  util.CleanText(card.Find("h4.base-search-card__subtitle").First().Text()),
			Location: util.NormalizeLocation(card.Find("span.job-search-card__location").First().Text()),
			URL:      util.StripQuery(util.AbsURL(pageURL, href)),
		})
		return true
	})

	s.log.Debug().
		Str("url", pageURL).
		Int("parsed", res.Parsed).
		Int("skipped", res.Skipped).
		Int("rejected", res.Rejected).
		Int("kept", len(res.Postings)).
		Msg("linkedin page read")
	return res, nil
}
