// internal/config/config.go
package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Rule struct {
	Tag    string   `yaml:"tag,omitempty"`
	Weight int      `yaml:"weight"`
	Any    []string `yaml:"any" validate:"min=1,dive,required"`
}

type Company struct {
	Slug string `yaml:"slug" validate:"required"`
	Name string `yaml:"name,omitempty"`
}

type Search struct {
	Keywords  []string `yaml:"keywords" validate:"min=1,dive,required"`
	Locations []string `yaml:"locations" validate:"min=1,dive,required"`
}

type Scoring struct {
	MinScore int      `yaml:"min_score"`
	Reject   []string `yaml:"reject"`
	Boost    []Rule   `yaml:"boost" validate:"dive"`
	Penalty  []Rule   `yaml:"penalty" validate:"dive"`
}

type Sources struct {
	Bayt struct {
		Enabled bool   `yaml:"enabled"`
		Country string `yaml:"country"`
	} `yaml:"bayt"`

	LinkedIn struct {
		Enabled      bool   `yaml:"enabled"`
		PostedWithin string `yaml:"posted_within"` // f_TPR, e.g. r86400
		Experience   string `yaml:"experience"`    // f_E, e.g. 1,2
	} `yaml:"linkedin"`

	Greenhouse struct {
		Enabled   bool      `yaml:"enabled"`
		Companies []Company `yaml:"companies" validate:"dive"`
	} `yaml:"greenhouse"`

	Lever struct {
		Enabled   bool      `yaml:"enabled"`
		Companies []Company `yaml:"companies" validate:"dive"`
	} `yaml:"lever"`

	SmartRecruiters struct {
		Enabled   bool      `yaml:"enabled"`
		Companies []Company `yaml:"companies" validate:"dive"`
	} `yaml:"smartrecruiters"`
}

type HTTP struct {
	Timeout       time.Duration `yaml:"timeout" validate:"gt=0"`
	UserAgent     string        `yaml:"user_agent" validate:"required"`
	MaxListings   int           `yaml:"max_listings" validate:"gt=0"`
	MaxBodyBytes  int64         `yaml:"max_body_bytes" validate:"gt=0"`
	Pace          time.Duration `yaml:"pace" validate:"gte=0"`
	RespectRobots bool          `yaml:"respect_robots"`
}

type Telegram struct {
	Token  string `yaml:"token,omitempty"`
	ChatID string `yaml:"chat_id"`
}

type Notify struct {
	Telegram      Telegram      `yaml:"telegram"`
	MaxChars      int           `yaml:"max_chars" validate:"gte=200,lte=4096"`
	SendDelay     time.Duration `yaml:"send_delay" validate:"gte=0"`
	MaxPerMessage int           `yaml:"max_jobs_per_message" validate:"gt=0"`
	MaxJobs       int           `yaml:"max_jobs" validate:"gte=0"` // 0 means 2 x max_jobs_per_message
	SignOff       string        `yaml:"sign_off"`
}

type Ledger struct {
	Backend string        `yaml:"backend" validate:"oneof=json sqlite postgres"`
	Path    string        `yaml:"path"`
	DSN     string        `yaml:"dsn,omitempty"`
	TTL     time.Duration `yaml:"ttl" validate:"gte=0"` // 0 keeps entries forever
}

type Log struct {
	Level  string `yaml:"level" validate:"oneof=trace debug info warn error"`
	Format string `yaml:"format" validate:"oneof=console json"`
}

type Config struct {
	Search  Search  `yaml:"search"`
	Scoring Scoring `yaml:"scoring"`
	Sources Sources `yaml:"sources"`
	HTTP    HTTP    `yaml:"http"`
	Notify  Notify  `yaml:"notify"`
	Ledger  Ledger  `yaml:"ledger"`
	Log     Log     `yaml:"log"`
}

// MaxJobsOrDefault is the ranked-list cap applied before dispatch.
func (n Notify) MaxJobsOrDefault() int {
	if n.MaxJobs > 0 {
		return n.MaxJobs
	}
	return 2 * n.MaxPerMessage
}

// Load reads path on top of Default, so a partial file keeps the defaults
// for everything it leaves out.
func Load(path string) (Config, error) {
	cfg := Default()
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	err = yaml.Unmarshal(b, &cfg)
	return cfg, err
}
