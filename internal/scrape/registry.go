package scrape

import (
	"jobalert/internal/config"
	"jobalert/internal/rank"
	"jobalert/internal/scrape/bayt"
	"jobalert/internal/scrape/greenhouse"
	"jobalert/internal/scrape/lever"
	"jobalert/internal/scrape/linkedin"
	"jobalert/internal/scrape/smartrecruiters"
	"jobalert/internal/scrape/types"
	"jobalert/internal/scrape/util"

	"github.com/rs/zerolog"
)

// NewGetter builds the shared page getter from the http section.
func NewGetter(cfg config.HTTP, log zerolog.Logger) *util.Getter {
	return util.NewGetter(util.GetterOptions{
		Timeout:       cfg.Timeout,
		UserAgent:     cfg.UserAgent,
		MaxBodyBytes:  cfg.MaxBodyBytes,
		Pacer:         util.NewPacer(cfg.Pace),
		RespectRobots: cfg.RespectRobots,
		Logger:        log,
	})
}

// Build returns the enabled extractors in a fixed order: bayt, linkedin,
// greenhouse, lever, smartrecruiters. Board sources without companies are
// left out.
func Build(cfg config.Config, get *util.Getter, scorer rank.Scorer, log zerolog.Logger) []types.Extractor {
	src := cfg.Sources
	perPage := cfg.HTTP.MaxListings

	var out []types.Extractor
	if src.Bayt.Enabled {
		out = append(out, bayt.New(bayt.Config{
			Country:     src.Bayt.Country,
			MaxListings: perPage,
		}, get, scorer, log.With().Str("source", "bayt").Logger()))
	}
	if src.LinkedIn.Enabled {
		out = append(out, linkedin.New(linkedin.Config{
			PostedWithin: src.LinkedIn.PostedWithin,
			Experience:   src.LinkedIn.Experience,
			MaxListings:  perPage,
		}, get, scorer, log.With().Str("source", "linkedin").Logger()))
	}
	if src.Greenhouse.Enabled && len(src.Greenhouse.Companies) > 0 {
		out = append(out, greenhouse.New(greenhouse.Config{
			Companies:   mapGreenhouseCompanies(src.Greenhouse.Companies),
			MaxListings: perPage,
		}, get, scorer, log.With().Str("source", "greenhouse").Logger()))
	}
	if src.Lever.Enabled && len(src.Lever.Companies) > 0 {
		out = append(out, lever.New(lever.Config{
			Companies:   mapLeverCompanies(src.Lever.Companies),
			MaxListings: perPage,
		}, get, scorer, log.With().Str("source", "lever").Logger()))
	}
	if src.SmartRecruiters.Enabled && len(src.SmartRecruiters.Companies) > 0 {
		out = append(out, smartrecruiters.New(smartrecruiters.Config{
			Companies:   mapSmartRecruitersCompanies(src.SmartRecruiters.Companies),
			MaxListings: perPage,
		}, get, scorer, log.With().Str("source", "smartrecruiters").Logger()))
	}
	return out
}

func mapGreenhouseCompanies(in []config.Company) []greenhouse.Company {
	out := make([]greenhouse.Company, 0, len(in))
	for _, c := range in {
		out = append(out, greenhouse.Company{
			Slug: c.Slug,
			Name: c.Name,
		})
	}
	return out
}

func mapLeverCompanies(in []config.Company) []lever.Company {
	out := make([]lever.Company, 0, len(in))
	for _, c := range in {
		out = append(out, lever.Company{
			Slug: c.Slug,
			Name: c.Name,
		})
	}
	return out
}

func mapSmartRecruitersCompanies(in []config.Company) []smartrecruiters.Company {
	out := make([]smartrecruiters.Company, 0, len(in))
	for _, c := range in {
		out = append(out, smartrecruiters.Company{
			Slug: c.Slug,
			Name: c.Name,
		})
	}
	return out
}
