// Package config defines process configuration and its loading.
//
// Conventions:
// - New(ctx) returns a Config holding every default.
// - Scoring tables live under the "scoring" key and convert to analysis.Settings.
// - Errors returned from Load wrap ErrLoadConfig or ErrInvalidConfig.
package config

import (
	"context"

	"github.com/okian/crease/internal/domain/analysis"
	"github.com/okian/crease/internal/domain/phase"
	"github.com/okian/crease/internal/domain/role"
	"github.com/okian/crease/internal/domain/scoring"
	"github.com/okian/crease/internal/domain/selection"
	"github.com/okian/crease/internal/domain/stats"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// Serve keeps the process running with the read API after analysis.
	Serve bool `koanf:"serve"`

	// DataDir holds the match files to analyse.
	DataDir string `koanf:"data_dir"`

	// DedupeSize bounds the match identities remembered during ingestion.
	DedupeSize int `koanf:"dedupe_size"`

	// StrictIngest fails the load on the first unreadable match file instead
	// of skipping it.
	StrictIngest bool `koanf:"strict_ingest"`

	// MaxRankingLimit caps GET /rankings?limit.
	MaxRankingLimit int `koanf:"max_ranking_limit"`

	// Scoring holds every tunable of the scoring pipeline.
	Scoring Scoring `koanf:"scoring"`
}

// Scoring mirrors analysis.Settings in configuration form.
type Scoring struct {
	Phases []phase.Boundary `koanf:"phases"`

	// PressureRunRate is the run rate above which a ball counts as high pressure.
	PressureRunRate  float64 `koanf:"pressure_run_rate"`
	CollapseWickets  int     `koanf:"collapse_wickets"`
	PositionMinBalls int     `koanf:"position_min_balls"`

	// BowlerBalls is "legal" or "all".
	BowlerBalls         string   `koanf:"bowler_balls"`
	NonBowlerDismissals []string `koanf:"non_bowler_dismissals"`

	BatterEligibility stats.BatterEligibility `koanf:"batter_eligibility"`
	BowlerEligibility stats.BowlerEligibility `koanf:"bowler_eligibility"`

	Spinners    []string    `koanf:"spinners"`
	BatterRoles []role.Rule `koanf:"batter_roles"`
	BowlerRoles []role.Rule `koanf:"bowler_roles"`

	BatterScores []scoring.Composite `koanf:"batter_scores"`
	BowlerScores []scoring.Composite `koanf:"bowler_scores"`

	AllRounder      scoring.AllRounderWeights `koanf:"allrounder"`
	BowlerShortlist analysis.Shortlist        `koanf:"bowler_shortlist"`

	BatterVenues []scoring.Adjustment `koanf:"batter_venues"`
	BowlerVenues []scoring.Adjustment `koanf:"bowler_venues"`

	Roster selection.Plan `koanf:"roster"`
}

// New creates a Config holding the defaults. Context is accepted first to
// match the loader's signature; it is currently unused.
func New(_ context.Context) *Config {
	d := analysis.DefaultSettings()
	return &Config{
		LogLevel:        "info",
		LogFormat:       "text",
		Addr:            ":9080",
		Serve:           false,
		DataDir:         "data",
		DedupeSize:      50_000,
		StrictIngest:    false,
		MaxRankingLimit: 100,
		Scoring: Scoring{
			Phases:              d.Phases,
			PressureRunRate:     d.Batting.PressureRunRate,
			CollapseWickets:     d.Batting.CollapseWickets,
			PositionMinBalls:    d.Batting.PositionMinBalls,
			BowlerBalls:         string(d.Bowling.BallPolicy),
			NonBowlerDismissals: d.Bowling.NonBowlerDismissals,
			BatterEligibility:   d.BatterEligibility,
			BowlerEligibility:   d.BowlerEligibility,
			Spinners:            d.Spinners,
			BatterRoles:         d.BatterRules,
			BowlerRoles:         d.BowlerRules,
			BatterScores:        d.BatterScores,
			BowlerScores:        d.BowlerScores,
			AllRounder:          d.AllRounder,
			BowlerShortlist:     d.BowlerShortlist,
			BatterVenues:        d.BatterAdjustment,
			BowlerVenues:        d.BowlerAdjustment,
			Roster:              d.Plan,
		},
	}
}

// Settings converts the scoring section into analysis settings.
func (c *Config) Settings() analysis.Settings {
	s := c.Scoring
	return analysis.Settings{
		Phases: s.Phases,
		Batting: stats.BattingOptions{
			PressureRunRate:  s.PressureRunRate,
			CollapseWickets:  s.CollapseWickets,
			PositionMinBalls: s.PositionMinBalls,
		},
		Bowling: stats.BowlingOptions{
			BallPolicy:          stats.BallPolicy(s.BowlerBalls),
			NonBowlerDismissals: s.NonBowlerDismissals,
		},
		BatterEligibility: s.BatterEligibility,
		BowlerEligibility: s.BowlerEligibility,
		BatterRules:       s.BatterRoles,
		BowlerRules:       s.BowlerRoles,
		Spinners:          s.Spinners,
		BatterScores:      s.BatterScores,
		BowlerScores:      s.BowlerScores,
		AllRounder:        s.AllRounder,
		BowlerShortlist:   s.BowlerShortlist,
		BatterAdjustment:  s.BatterVenues,
		BowlerAdjustment:  s.BowlerVenues,
		Plan:              s.Roster,
	}
}
