package server

import (
	"errors"
	"fmt"
	"os"

	"github.com/jacksonlee411/employee-grid/modules/employee/infrastructure/persistence"
	"github.com/jacksonlee411/employee-grid/modules/employee/services"
	"gopkg.in/yaml.v3"
)

// GridConfig holds the tunables of the employee grid. Zero values fall back
// to the built-in defaults.
type GridConfig struct {
	SeedEmployees  int                          `yaml:"seed_employees"`
	MaxPageSize    int                          `yaml:"max_page_size"`
	RequiredFields []services.RequiredFieldRule `yaml:"required_fields"`
	RowStyles      services.RowStyles           `yaml:"row_styles"`
}

func DefaultGridConfig() GridConfig {
	return GridConfig{
		SeedEmployees:  persistence.DefaultSeedEmployees,
		MaxPageSize:    100,
		RequiredFields: services.DefaultRequiredFieldRules,
		RowStyles:      services.DefaultRowStyles(),
	}
}

func ParseGridConfigYAML(b []byte) (GridConfig, error) {
	var cfg GridConfig
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return GridConfig{}, err
	}
	if cfg.SeedEmployees < 0 {
		return GridConfig{}, errors.New("grid config: seed_employees must not be negative")
	}
	if cfg.MaxPageSize < 0 {
		return GridConfig{}, errors.New("grid config: max_page_size must not be negative")
	}

	def := DefaultGridConfig()
	if cfg.SeedEmployees == 0 {
		cfg.SeedEmployees = def.SeedEmployees
	}
	if cfg.MaxPageSize == 0 {
		cfg.MaxPageSize = def.MaxPageSize
	}
	if len(cfg.RequiredFields) == 0 {
		cfg.RequiredFields = def.RequiredFields
	}
	if len(cfg.RowStyles) == 0 {
		cfg.RowStyles = def.RowStyles
	}
	if err := cfg.RowStyles.Validate(); err != nil {
		return GridConfig{}, fmt.Errorf("grid config: %w", err)
	}
	return cfg, nil
}

func LoadGridConfig(path string) (GridConfig, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return GridConfig{}, err
	}
	return ParseGridConfigYAML(b)
}
