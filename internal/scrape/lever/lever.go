package lever

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"jobalert/internal/domain"
	"jobalert/internal/rank"
	"jobalert/internal/scrape/types"
	"jobalert/internal/scrape/util"

	"github.com/rs/zerolog"
)

const DefaultBaseURL = "https://api.lever.co"

type Config struct {
	BaseURL     string
	Companies   []Company
	MaxListings int // per company
}

type Company struct {
	Slug string // api.lever.co/v0/postings/<slug>
	Name string
}

// Scraper reads the public Lever postings API for each configured company and
// keeps postings whose title mentions the keyword.
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

func (s *Scraper) Name() string { return "lever" }

func (s *Scraper) UsesLocation() bool { return false }

type leverPosting struct {
	ID         string `json:"id"`
	Text       string `json:"text"` // title
	HostedURL  string `json:"hostedUrl"`
	Categories struct {
		Location string `json:"location"`
		Team     string `json:"team"`
	} `json:"categories"`
}

func (s *Scraper) Fetch(ctx context.Context, q types.Query) (types.Result, error) {
	res := types.Result{Source: domain.SourceLever}

	var errs []error
	for _, co := range s.cfg.Companies {
		if err := s.fetchCompany(ctx, co, q, &res); err != nil {
			s.log.Warn().Err(err).Str("company", co.Slug).Msg("lever company skipped")
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 && len(errs) == len(s.cfg.Companies) {
		return res, fmt.Errorf("lever: every company failed: %w", errors.Join(errs...))
	}
	return res, nil
}

func (s *Scraper) fetchCompany(ctx context.Context, co Company, q types.Query, res *types.Result) error {
	apiURL := fmt.Sprintf("%s/v0/postings/%s?mode=json", strings.TrimRight(s.cfg.BaseURL, "/"), co.Slug)

	body, err := s.get.Get(ctx, apiURL)
	if err != nil {
		return fmt.Errorf("lever get %s: %w", co.Slug, err)
	}

	var postings []leverPosting
	if err := json.Unmarshal(body, &postings); err != nil {
		return fmt.Errorf("lever decode %s: %w", co.Slug, err)
	}

	name := co.Name
	if name == "" {
		name = co.Slug
	}

	matched := 0
	for _, p := range postings {
		if matched >= s.cfg.MaxListings {
			break
		}
		title := util.CleanText(p.Text)
		if title != "" && !util.ContainsFold(title, q.Keyword) {
			continue
		}
		matched++
		res.Admit(s.scorer, q, types.Listing{
			Title:    title,
			Company:  name,
			Location: util.NormalizeLocation(p.Categories.Location),
			URL:      strings.TrimSpace(p.HostedURL),
		})
	}
	return nil
}
