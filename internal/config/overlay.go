// config/overlay.go
package config

import (
	"errors"
	"os"

	"gopkg.in/yaml.v3"
)

// CompaniesFile is the optional companies.yml next to config.yml. Board lists
// grow long, so they can live apart from the main settings.
type CompaniesFile struct {
	Greenhouse []Company `yaml:"greenhouse"`
	Lever      []Company `yaml:"lever"`

	SmartRecruiters []Company `yaml:"smartrecruiters"`
}

// OverlayCompanies replaces the board company lists with the ones
// in companiesPath. A missing file is not an error.
func OverlayCompanies(cfg *Config, companiesPath string) error {
	b, err := os.ReadFile(companiesPath)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}

	var cf CompaniesFile
	if err := yaml.Unmarshal(b, &cf); err != nil {
		return err
	}

	if len(cf.Greenhouse) > 0 {
		cfg.Sources.Greenhouse.Companies = cf.Greenhouse
	}
	if len(cf.Lever) > 0 {
		cfg.Sources.Lever.Companies = cf.Lever
	}
	if len(cf.SmartRecruiters) > 0 {
		cfg.Sources.SmartRecruiters.Companies = cf.SmartRecruiters
	}
	return nil
}
