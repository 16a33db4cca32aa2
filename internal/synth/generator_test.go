package synth_test

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/crease/internal/adapters/ingest"
	"github.com/okian/crease/internal/domain/analysis"
	"github.com/okian/crease/internal/domain/model"
	"github.com/okian/crease/internal/domain/role"
	"github.com/okian/crease/internal/domain/scoring"
	"github.com/okian/crease/internal/synth"
	"github.com/okian/crease/pkg/logger"
)

func TestGenerate(t *testing.T) {
	Convey("Given the default config", t, func() {
		cfg := synth.DefaultConfig()

		Convey("When generating twice", func() {
			a, err := synth.Generate(cfg)
			So(err, ShouldBeNil)
			b, err := synth.Generate(cfg)
			So(err, ShouldBeNil)

			Convey("Then the scorecards are identical", func() {
				So(a, ShouldHaveLength, cfg.Matches)
				So(a, ShouldResemble, b)
			})

			Convey("Then ids are stable and unique", func() {
				seen := map[string]bool{}
				for i, c := range a {
					So(c.ID, ShouldEqual, synth.MatchID(cfg.Event, cfg.Season, i+1))
					So(seen[c.ID], ShouldBeFalse)
					seen[c.ID] = true
				}
			})

			Convey("Then every scorecard flattens into a sound match", func() {
				for _, c := range a {
					So(c.File.Innings, ShouldHaveLength, 2)
					So(c.File.Info.Teams, ShouldHaveLength, 2)
					rows, err := model.Flatten([]model.Match{c.File.Match(c.ID)})
					So(err, ShouldBeNil)
					So(len(rows), ShouldBeGreaterThan, 0)
					for _, inn := range c.File.Innings {
						So(len(inn.Overs), ShouldBeLessThanOrEqualTo, 20)
						for _, ov := range inn.Overs {
							legal := 0
							for _, d := range ov.Deliveries {
								if d.Extras == nil || (d.Extras.Wides == 0 && d.Extras.NoBalls == 0) {
									legal++
								}
								So(d.Runs.Total, ShouldBeGreaterThanOrEqualTo, d.Runs.Batter)
							}
							So(legal, ShouldBeLessThanOrEqualTo, 6)
						}
					}
				}
			})
		})

		Convey("When the seed changes", func() {
			a, _ := synth.Generate(cfg)
			cfg.Seed = 99
			b, err := synth.Generate(cfg)
			So(err, ShouldBeNil)
			So(a, ShouldNotResemble, b)
		})
	})

	Convey("Given broken configs", t, func() {
		broken := map[string]func(*synth.Config){
			"one team":       func(c *synth.Config) { c.Teams = c.Teams[:1] },
			"duplicate team": func(c *synth.Config) { c.Teams = []string{"A", "A"} },
			"no venues":      func(c *synth.Config) { c.Venues = nil },
			"negative":       func(c *synth.Config) { c.Matches = -1 },
			"spinners":       func(c *synth.Config) { c.Spinners = 6 },
		}
		for name, mutate := range broken {
			cfg := synth.DefaultConfig()
			mutate(&cfg)
			_, err := synth.Generate(cfg)
			So(name+": "+boolString(errors.Is(err, synth.ErrInvalidConfig)), ShouldEqual, name+": true")
		}
	})
}

func boolString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

func TestSquads(t *testing.T) {
	Convey("Given two spinners per squad", t, func() {
		cfg := synth.DefaultConfig()
		squads := synth.Squads(cfg)

		So(squads, ShouldHaveLength, len(cfg.Teams))
		So(squads[0].Attack(), ShouldHaveLength, 5)
		So(synth.Spinners(squads), ShouldHaveLength, 2*len(cfg.Teams))
	})
}

func TestWriteDirRoundTrip(t *testing.T) {
	_ = logger.Init(logger.WithWriter(io.Discard))
	ctx := context.Background()

	Convey("Given a generated season on disk", t, func() {
		dir := filepath.Join(t.TempDir(), "matches")
		cfg := synth.DefaultConfig()
		paths, err := synth.WriteDir(ctx, dir, cfg)
		So(err, ShouldBeNil)
		So(paths, ShouldHaveLength, cfg.Matches)

		Convey("When the directory is ingested and analysed", func() {
			batch, err := ingest.LoadDir(ctx, dir, ingest.WithStrict(true))
			So(err, ShouldBeNil)
			So(batch.Matches, ShouldHaveLength, cfg.Matches)
			So(batch.Duplicates, ShouldBeEmpty)

			s := analysis.DefaultSettings()
			s.Spinners = synth.Spinners(synth.Squads(cfg))
			res, err := analysis.Run(ctx, batch.Deliveries, s)
			So(err, ShouldBeNil)

			Convey("Then the season produces ranked populations", func() {
				So(res.Summary.Matches, ShouldEqual, cfg.Matches)
				So(res.Summary.EligibleBatters, ShouldBeGreaterThan, 0)
				So(res.Summary.EligibleBowlers, ShouldBeGreaterThan, 0)
				kinds := map[string]bool{}
				for _, r := range res.Default().Bowling.Rows {
					kinds[r.Kind] = true
				}
				So(kinds[role.Spinner], ShouldBeTrue)
				So(kinds[role.Pace], ShouldBeTrue)
			})

			Convey("Then the default roster locks a spinner and two pacers", func() {
				r := res.Rosters[scoring.DefaultContext]
				So(r.Count("spinner"), ShouldEqual, 1)
				So(r.Count("pace"), ShouldEqual, 2)
				So(len(r.Picks), ShouldBeLessThanOrEqualTo, r.Target)
			})
		})

		Convey("When the same season is written again", func() {
			again, err := synth.WriteDir(ctx, dir, cfg)
			So(err, ShouldBeNil)
			So(again, ShouldResemble, paths)
			entries, _ := os.ReadDir(dir)
			So(entries, ShouldHaveLength, cfg.Matches)
		})
	})

	Convey("Given a cancelled context", t, func() {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := synth.WriteDir(cctx, t.TempDir(), synth.DefaultConfig())
		So(errors.Is(err, context.Canceled), ShouldBeTrue)
	})
}
