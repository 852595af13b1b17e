package smartrecruiters

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"jobalert/internal/domain"
	"jobalert/internal/rank"
	"jobalert/internal/scrape/types"
	"jobalert/internal/scrape/util"

	"github.com/rs/zerolog"
)

const (
	DefaultBaseURL = "https://api.smartrecruiters.com"
	jobsHost       = "https://jobs.smartrecruiters.com"
)

type Config struct {
	BaseURL     string
	Companies   []Company
	MaxListings int // per company, also the API page size
}

type Company struct {
	// Slug is the SmartRecruiters company identifier used in URLs, e.g.
	// https://jobs.smartrecruiters.com/<slug>
	Slug string
	Name string
}

// Scraper searches each company's public postings with the keyword and keeps
// the ones whose title mentions it.
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

func (s *Scraper) Name() string { return "smartrecruiters" }

func (s *Scraper) UsesLocation() bool { return false }

// Response schema (public API):
// { "content": [...], "totalFound": N, "offset": O, "limit": L }
type postingsResponse struct {
	Content    []posting `json:"content"`
	TotalFound int       `json:"totalFound"`
}

type posting struct {
	ID       string `json:"id"`
	UUID     string `json:"uuid"`
	Name     string `json:"name"`
	Ref      string `json:"ref"`
	Location struct {
		City    string `json:"city"`
		Region  string `json:"region"`
		Country string `json:"country"`
		Remote  bool   `json:"remote"`
	} `json:"location"`
}

func (s *Scraper) Fetch(ctx context.Context, q types.Query) (types.Result, error) {
	res := types.Result{Source: domain.SourceSmartRecruiters}

	var errs []error
	for _, co := range s.cfg.Companies {
		if err := s.fetchCompany(ctx, co, q, &res); err != nil {
			s.log.Warn().Err(err).Str("company", co.Slug).Msg("smartrecruiters company skipped")
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 && len(errs) == len(s.cfg.Companies) {
		return res, fmt.Errorf("smartrecruiters: every company failed: %w", errors.Join(errs...))
	}
	return res, nil
}

func (s *Scraper) fetchCompany(ctx context.Context, co Company, q types.Query, res *types.Result) error {
	slug := strings.TrimSpace(co.Slug)
	if slug == "" {
		return fmt.Errorf("empty slug")
	}

	// Example: https://api.smartrecruiters.com/v1/companies/<slug>/postings?q=golang&limit=20
	params := url.Values{}
	params.Set("q", q.Keyword)
	params.Set("limit", fmt.Sprint(s.cfg.MaxListings))
	u := fmt.Sprintf("%s/v1/companies/%s/postings?%s",
		strings.TrimRight(s.cfg.BaseURL, "/"), url.PathEscape(slug), params.Encode())

	body, err := s.get.Get(ctx, u)
	if err != nil {
		return fmt.Errorf("smartrecruiters get %s: %w", slug, err)
	}

	var pr postingsResponse
	if err := json.Unmarshal(body, &pr); err != nil {
		return fmt.Errorf("smartrecruiters decode %s: %w", slug, err)
	}

	name := co.Name
	if name == "" {
		name = slug
	}

	for i, p := range pr.Content {
		if i >= s.cfg.MaxListings {
			break
		}
		title := util.CleanText(p.Name)
		// q also matches descriptions; keep the title-only rule of the other boards
		if title != "" && !util.ContainsFold(title, q.Keyword) {
			continue
		}

		var jobURL string
		if id := strings.TrimSpace(firstNonEmpty(p.ID, p.UUID, p.Ref)); id != "" {
			jobURL = fmt.Sprintf("%s/%s/%s", jobsHost, url.PathEscape(slug), url.PathEscape(id))
		}

		loc := strings.Join(nonEmpty(p.Location.City, p.Location.Region, p.Location.Country), ", ")
		if loc == "" && p.Location.Remote {
			loc = "Remote"
		}

		res.Admit(s.scorer, q, types.Listing{
			Title:    title,
			Company:  name,
			Location: util.NormalizeLocation(loc),
			URL:      jobURL,
		})
	}
	return nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func nonEmpty(vals ...string) []string {
	out := make([]string, 0, len(vals))
	for _, v := range vals {
		v = strings.TrimSpace(v)
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
