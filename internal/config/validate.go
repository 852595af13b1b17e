package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

type Validation struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

func (v *Validation) addErr(format string, args ...any) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}
func (v *Validation) addWarn(format string, args ...any) {
	v.Warnings = append(v.Warnings, fmt.Sprintf(format, args...))
}
func (v Validation) OK() bool { return len(v.Errors) == 0 }

// Err folds the collected errors into one, or nil.
func (v Validation) Err() error {
	if v.OK() {
		return nil
	}
	return errors.New("config validation failed:\n- " + strings.Join(v.Errors, "\n- "))
}

var structValidator = newStructValidator()

// newStructValidator reports fields by their yaml names.
func newStructValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// NormalizeAndValidate returns a normalized copy of cfg plus everything
// wrong (errors) or suspicious (warnings) about it.
func NormalizeAndValidate(cfg Config) (Config, Validation) {
	out := Normalize(cfg)
	var res Validation

	if err := structValidator.Struct(out); err != nil {
		var ves validator.ValidationErrors
		if !errors.As(err, &ves) {
			res.addErr("%v", err)
			return out, res
		}
		for _, fe := range ves {
			res.addErr("%s failed %q (value %v)", fieldPath(fe), ruleText(fe), fe.Value())
		}
	}

	// ---- cross-field rules ----

	s := out.Sources
	if !s.Bayt.Enabled && !s.LinkedIn.Enabled && !s.Greenhouse.Enabled && !s.Lever.Enabled && !s.SmartRecruiters.Enabled {
		res.addErr("no sources enabled: enable at least one of bayt, linkedin, greenhouse, lever, smartrecruiters")
	}
	if s.Bayt.Enabled && s.Bayt.Country == "" {
		res.addErr("sources.bayt.country is required when bayt is enabled")
	}
	if s.Greenhouse.Enabled && len(s.Greenhouse.Companies) == 0 {
		res.addWarn("sources.greenhouse is enabled with no companies; it will find nothing")
	}
	if s.Lever.Enabled && len(s.Lever.Companies) == 0 {
		res.addWarn("sources.lever is enabled with no companies; it will find nothing")
	}
	if s.SmartRecruiters.Enabled && len(s.SmartRecruiters.Companies) == 0 {
		res.addWarn("sources.smartrecruiters is enabled with no companies; it will find nothing")
	}

	for i, r := range out.Scoring.Boost {
		if r.Weight <= 0 {
			res.addErr("scoring.boost[%d] (%s) weight must be > 0", i, r.Tag)
		}
	}
	for i, r := range out.Scoring.Penalty {
		if r.Weight >= 0 {
			res.addErr("scoring.penalty[%d] (%s) weight must be < 0", i, r.Tag)
		}
	}
	if out.Scoring.MinScore <= 0 && len(out.Scoring.Boost) == 0 {
		res.addWarn("scoring.min_score is %d with no boost rules; every non-rejected title passes", out.Scoring.MinScore)
	}

	if out.Notify.MaxJobs > 0 && out.Notify.MaxJobs < out.Notify.MaxPerMessage {
		res.addWarn("notify.max_jobs (%d) is below max_jobs_per_message (%d)", out.Notify.MaxJobs, out.Notify.MaxPerMessage)
	}
	if out.HTTP.Pace > 0 && out.HTTP.Pace < 500*time.Millisecond {
		res.addWarn("http.pace is very low (%s) and may trigger rate limits", out.HTTP.Pace)
	}

	switch out.Ledger.Backend {
	case "json", "sqlite":
		if out.Ledger.Path == "" {
			res.addErr("ledger.path is required for the %s backend", out.Ledger.Backend)
		}
	case "postgres":
		if out.Ledger.DSN == "" {
			res.addErr("ledger.dsn is required for the postgres backend")
		}
	}
	if out.Ledger.Backend == "json" && out.Ledger.TTL > 0 {
		res.addWarn("ledger.ttl is ignored by the json backend (entries carry no timestamps)")
	}

	if strings.TrimSpace(out.Notify.Telegram.Token) != "" {
		res.addWarn("notify.telegram.token is stored in the config file; prefer JOBALERT_TELEGRAM_TOKEN or the keychain")
	}

	return out, res
}

// Validate is NormalizeAndValidate for callers that only want the verdict.
func Validate(cfg Config) error {
	_, res := NormalizeAndValidate(cfg)
	return res.Err()
}

// Normalize trims list entries and drops blanks and case-insensitive repeats.
func Normalize(cfg Config) Config {
	out := cfg

	trimList := func(xs []string) []string {
		seen := map[string]bool{}
		var ys []string
		for _, x := range xs {
			x = strings.TrimSpace(x)
			if x == "" {
				continue
			}
			key := strings.ToLower(x)
			if seen[key] {
				continue
			}
			seen[key] = true
			ys = append(ys, x)
		}
		return ys
	}

	out.Search.Keywords = trimList(cfg.Search.Keywords)
	out.Search.Locations = trimList(cfg.Search.Locations)
	out.Scoring.Reject = trimList(cfg.Scoring.Reject)
	out.Sources.Bayt.Country = strings.ToLower(strings.TrimSpace(cfg.Sources.Bayt.Country))
	out.Notify.Telegram.ChatID = strings.TrimSpace(cfg.Notify.Telegram.ChatID)

	normRules := func(rules []Rule) []Rule {
		res := make([]Rule, 0, len(rules))
		for _, r := range rules {
			// Terms stay verbatim: "sr " relies on its trailing space.
			var kept []string
			for _, t := range r.Any {
				if strings.TrimSpace(t) != "" {
					kept = append(kept, t)
				}
			}
			r.Any = kept
			if r.Tag == "" && len(kept) > 0 {
				r.Tag = strings.TrimSpace(kept[0])
			}
			res = append(res, r)
		}
		return res
	}
	out.Scoring.Boost = normRules(cfg.Scoring.Boost)
	out.Scoring.Penalty = normRules(cfg.Scoring.Penalty)

	return out
}

func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		ns = ns[i+1:]
	}
	return ns
}

func ruleText(fe validator.FieldError) string {
	if fe.Param() == "" {
		return fe.Tag()
	}
	return fe.Tag() + "=" + fe.Param()
}
