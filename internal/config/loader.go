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

const (
	envPrefix = "CREASE_"
	envFile   = "CREASE_CONFIG"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New(ctx))
//  2. file (YAML) if CREASE_CONFIG is set
//  3. env (prefix CREASE_, "__" separates nested keys)
func Load(ctx context.Context) (*Config, error) {
	base := New(ctx)

	k := koanf.New(".")

	if path := os.Getenv(envFile); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
		}
	}

	// CREASE_MAX_RANKING_LIMIT -> max_ranking_limit
	// CREASE_SCORING__PRESSURE_RUN_RATE -> scoring.pressure_run_rate
	envProvider := env.Provider(envPrefix, ".", func(s string) string {
		s = strings.TrimPrefix(s, envPrefix)
		s = strings.ToLower(s)
		return strings.ReplaceAll(s, "__", ".")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %w", ErrLoadConfig, err)
	}
	// the file path itself is not a config key
	k.Delete("config")

	cfg := *base
	resetLists(k, &cfg)
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// resetLists drops default list values that a loaded layer replaces, so a
// shorter list from a file does not keep trailing default entries.
func resetLists(k *koanf.Koanf, cfg *Config) {
	s := &cfg.Scoring
	lists := map[string]func(){
		"scoring.phases":                func() { s.Phases = nil },
		"scoring.non_bowler_dismissals": func() { s.NonBowlerDismissals = nil },
		"scoring.spinners":              func() { s.Spinners = nil },
		"scoring.batter_roles":          func() { s.BatterRoles = nil },
		"scoring.bowler_roles":          func() { s.BowlerRoles = nil },
		"scoring.batter_scores":         func() { s.BatterScores = nil },
		"scoring.bowler_scores":         func() { s.BowlerScores = nil },
		"scoring.batter_venues":         func() { s.BatterVenues = nil },
		"scoring.bowler_venues":         func() { s.BowlerVenues = nil },
		"scoring.roster.slots":          func() { s.Roster.Slots = nil },
		"scoring.roster.backfill":       func() { s.Roster.Backfill = nil },
	}
	for key, reset := range lists {
		if k.Exists(key) {
			reset()
		}
	}
}

// Validate checks process settings and the scoring tables.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	if c.DataDir == "" {
		return fmt.Errorf("%w: data_dir must not be empty", ErrInvalidConfig)
	}
	if c.MaxRankingLimit <= 0 {
		return fmt.Errorf("%w: max_ranking_limit must be positive", ErrInvalidConfig)
	}
	if err := c.Settings().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}
