package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if IMPACT_CONFIG is set
//  3. env (prefix IMPACT_)
func Load(_ context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv("IMPACT_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: IMPACT_ADDR, IMPACT_SNAPSHOT_PATH, ...
	// Keys keep their underscores to match the koanf tags on the struct.
	envProvider := env.Provider("IMPACT_", ".", func(s string) string {
		s = strings.ToLower(s)
		return strings.TrimPrefix(s, "impact_")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// validate enforces the structural invariants the engine assumes.
func (c *Config) validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	if c.FetchWorkers <= 0 {
		return fmt.Errorf("%w: fetch_workers must be positive", ErrInvalidConfig)
	}
	if len(c.Cohorts) == 0 {
		return fmt.Errorf("%w: at least one cohort is required", ErrInvalidConfig)
	}
	if len(c.Tables) == 0 {
		return fmt.Errorf("%w: at least one table is required", ErrInvalidConfig)
	}
	// Field queries must be non-empty ordered candidate lists.
	for field, candidates := range c.FieldAliases {
		if len(candidates) == 0 {
			return fmt.Errorf("%w: field %q has an empty alias list", ErrInvalidConfig, field)
		}
	}
	return nil
}
