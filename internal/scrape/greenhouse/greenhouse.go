package greenhouse

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"jobalert/internal/domain"
	"jobalert/internal/rank"
	"jobalert/internal/scrape/types"
	"jobalert/internal/scrape/util"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"
)

const DefaultBaseURL = "https://boards.greenhouse.io"

type Config struct {
	BaseURL     string
	Companies   []Company // list of boards
	MaxListings int       // per board
}

type Company struct {
	Slug string // boards.greenhouse.io/<slug>
	Name string // display name
}

// Scraper lists openings on company Greenhouse boards and keeps the ones
// whose title mentions the keyword. Boards have no location filter.
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

func (s *Scraper) Name() string { return "greenhouse" }

func (s *Scraper) UsesLocation() bool { return false }

func (s *Scraper) Fetch(ctx context.Context, q types.Query) (types.Result, error) {
	res := types.Result{Source: domain.SourceGreenhouse}

	var errs []error
	for _, co := range s.cfg.Companies {
		if err := s.fetchCompany(ctx, co, q, &res); err != nil {
			// one board being down does not fail the others
			s.log.Warn().Err(err).Str("board", co.Slug).Msg("greenhouse board skipped")
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 && len(errs) == len(s.cfg.Companies) {
		return res, fmt.Errorf("greenhouse: every board failed: %w", errors.Join(errs...))
	}
	return res, nil
}

func (s *Scraper) fetchCompany(ctx context.Context, co Company, q types.Query, res *types.Result) error {
	base := strings.TrimRight(s.cfg.BaseURL, "/")
	boardURL := fmt.Sprintf("%s/%s", base, co.Slug)

	doc, err := s.get.Document(ctx, boardURL)
	if err != nil {
		return fmt.Errorf("greenhouse get board %s: %w", co.Slug, err)
	}

	name := co.Name
	if name == "" {
		name = co.Slug
	}

	// Boards link openings as /<slug>/jobs/<id>.
	seen := map[string]bool{}
	matched := 0
	doc.Find("a[href]").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		if matched >= s.cfg.MaxListings {
			return false
		}
		href, _ := a.Attr("href")
		abs := util.CanonicalURL(util.AbsURL(boardURL+"/", href))
		if abs == "" || !strings.Contains(abs, "/jobs/") || extractJobID(abs) == "" {
			return true
		}
		if seen[abs] {
			return true
		}
		seen[abs] = true

		title := util.CleanText(a.Text())
		if !util.ContainsFold(title, q.Keyword) {
			return true
		}
		matched++

		container := a.Closest(".opening")
		if container.Length() == 0 {
			container = a.Parent()
		}
		res.Admit(s.scorer, q, types.Listing{
			Title:    title,
			Company:  name,
			Location: util.FindLocation(container),
			URL:      abs,
		})
		return true
	})
	return nil
}

func extractJobID(u string) string {
	// crude but effective: split on /jobs/ and take next chunk of digits
	parts := strings.Split(u, "/jobs/")
	if len(parts) < 2 {
		return ""
	}
	tail := parts[1]
	id := ""
	for _, r := range tail {
		if r >= '0' && r <= '9' {
			id += string(r)
		} else {
			break
		}
	}
	return id
}
