package config_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/okian/crease/internal/config"
	"github.com/okian/crease/internal/domain/stats"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()

		convey.Convey("When loading config with defaults only", func() {
			clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
				convey.So(cfg.DataDir, convey.ShouldEqual, "data")
				convey.So(cfg.MaxRankingLimit, convey.ShouldEqual, 100)
				convey.So(cfg.Scoring.Phases, convey.ShouldHaveLength, 3)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("CREASE_ADDR", ":8080")
			_ = os.Setenv("CREASE_DATA_DIR", "/srv/matches")
			_ = os.Setenv("CREASE_MAX_RANKING_LIMIT", "25")
			_ = os.Setenv("CREASE_SERVE", "true")
			_ = os.Setenv("CREASE_STRICT_INGEST", "true")
			_ = os.Setenv("CREASE_SCORING__PRESSURE_RUN_RATE", "10.5")
			_ = os.Setenv("CREASE_SCORING__BATTER_ELIGIBILITY__MIN_BALLS", "80")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.DataDir, convey.ShouldEqual, "/srv/matches")
				convey.So(cfg.MaxRankingLimit, convey.ShouldEqual, 25)
				convey.So(cfg.Serve, convey.ShouldBeTrue)
				convey.So(cfg.StrictIngest, convey.ShouldBeTrue)
				convey.So(cfg.Scoring.PressureRunRate, convey.ShouldEqual, 10.5)
				convey.So(cfg.Scoring.BatterEligibility.MinBalls, convey.ShouldEqual, 80)
				convey.So(cfg.Scoring.BatterEligibility.MinMatches, convey.ShouldEqual, 3)
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			yamlContent := `
addr: ":9090"
log_format: json
scoring:
  bowler_balls: all
  spinners: ["R Ashwin"]
  phases:
    - {max_over: 5, label: Powerplay}
    - {max_over: 15, label: Middle}
    - {max_over: 19, label: Death}
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("CREASE_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from YAML file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.LogFormat, convey.ShouldEqual, "json")
				convey.So(cfg.Scoring.BowlerBalls, convey.ShouldEqual, string(stats.AllBalls))
				convey.So(cfg.Scoring.Phases, convey.ShouldHaveLength, 3)
				convey.So(cfg.Scoring.Phases[1].MaxOver, convey.ShouldEqual, 15)
			})

			convey.Convey("Then a shorter list replaces the default list", func() {
				convey.So(cfg.Scoring.Spinners, convey.ShouldResemble, []string{"R Ashwin"})
			})

			convey.Convey("Then untouched sections keep their defaults", func() {
				convey.So(cfg.Scoring.BatterScores, convey.ShouldResemble, config.New(ctx).Scoring.BatterScores)
				convey.So(cfg.DataDir, convey.ShouldEqual, "data")
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			yamlContent := `
addr: ":9090"
max_ranking_limit: 50
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("CREASE_CONFIG", tmpFile)
			_ = os.Setenv("CREASE_ADDR", ":8080") // This should override the file
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")        // Overridden by env
				convey.So(cfg.MaxRankingLimit, convey.ShouldEqual, 50) // From file
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			tmpFile := createTempConfigFile(`invalid: yaml: content: [`)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("CREASE_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv("CREASE_CONFIG", "/non/existent/file.yaml")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with empty addr", func() {
			_ = os.Setenv("CREASE_ADDR", "")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "addr must not be empty")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with invalid numeric environment variables", func() {
			_ = os.Setenv("CREASE_MAX_RANKING_LIMIT", "not_a_number")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}

func TestConfigLoaderScoringValidation(t *testing.T) {
	convey.Convey("Given scoring overrides that break the pipeline", t, func() {
		ctx := context.Background()

		cases := map[string]string{
			"unknown ball policy": `
scoring:
  bowler_balls: some
`,
			"phases not covering the innings": `
scoring:
  phases:
    - {max_over: 5, label: Powerplay}
    - {max_over: 15, label: Middle}
    - {max_over: 17, label: Death}
`,
			"weights not summing to one": `
scoring:
  bowler_scores:
    - name: composite
      terms:
        - {metric: wickets, weight: 0.5}
`,
			"roster slot on an unknown score": `
scoring:
  roster:
    slots:
      - {name: opener, pool: batting, role: Opener, score: nope, quota: 2}
`,
		}
		for name, yamlContent := range cases {
			convey.Convey("When the file has "+name, func() {
				tmpFile := createTempConfigFile(yamlContent)
				defer func() { _ = os.Remove(tmpFile) }()

				_ = os.Setenv("CREASE_CONFIG", tmpFile)
				defer clearConfigEnvVars()

				cfg, err := config.Load(ctx)

				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		}
	})
}

// Helper functions.

func clearConfigEnvVars() {
	envVars := []string{
		"CREASE_CONFIG",
		"CREASE_ADDR",
		"CREASE_DATA_DIR",
		"CREASE_SERVE",
		"CREASE_STRICT_INGEST",
		"CREASE_MAX_RANKING_LIMIT",
		"CREASE_SCORING__PRESSURE_RUN_RATE",
		"CREASE_SCORING__BATTER_ELIGIBILITY__MIN_BALLS",
	}
	for _, envVar := range envVars {
		_ = os.Unsetenv(envVar)
	}
}

func createTempConfigFile(content string) string {
	tmpFile, err := os.CreateTemp("", "crease-config-*.yaml")
	if err != nil {
		panic(err)
	}

	if _, err := tmpFile.WriteString(content); err != nil {
		panic(err)
	}

	if err := tmpFile.Close(); err != nil {
		panic(err)
	}

	return tmpFile.Name()
}
