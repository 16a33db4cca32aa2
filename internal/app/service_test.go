package service_test

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/crease/internal/adapters/repository"
	service "github.com/okian/crease/internal/app"
	"github.com/okian/crease/internal/domain/analysis"
	"github.com/okian/crease/internal/domain/metric"
	"github.com/okian/crease/internal/domain/model"
	"github.com/okian/crease/internal/domain/scoring"
	"github.com/okian/crease/internal/synth"
	"github.com/okian/crease/pkg/logger"
)

func init() {
	if err := logger.Init(logger.WithWriter(io.Discard)); err != nil {
		panic(err)
	}
}

func seasonDir(t *testing.T) (string, analysis.Settings) {
	t.Helper()
	cfg := synth.DefaultConfig()
	dir := filepath.Join(t.TempDir(), "matches")
	if _, err := synth.WriteDir(context.Background(), dir, cfg); err != nil {
		t.Fatal(err)
	}
	s := analysis.DefaultSettings()
	s.Spinners = synth.Spinners(synth.Squads(cfg))
	return dir, s
}

func TestService_New(t *testing.T) {
	Convey("Given a new service with default options", t, func() {
		svc := service.New()
		ctx := context.Background()

		Convey("Then nothing is published yet", func() {
			So(svc, ShouldNotBeNil)
			_, err := svc.TopN(ctx, repository.Query{Pool: metric.Batting}, 5)
			So(errors.Is(err, repository.ErrNoSnapshot), ShouldBeTrue)
			_, err = svc.Roster(ctx, "")
			So(errors.Is(err, repository.ErrNoSnapshot), ShouldBeTrue)
		})

		Convey("Then stats report no runs", func() {
			stats := svc.GetStats()
			So(stats["runs"], ShouldEqual, 0)
			So(stats["data_dir"], ShouldEqual, "data")
			_, ok := stats["last_run"]
			So(ok, ShouldBeFalse)
			_, ok = stats["summary"]
			So(ok, ShouldBeFalse)
		})
	})
}

func TestService_LoadAndAnalyze(t *testing.T) {
	ctx := context.Background()

	Convey("Given a service pointed at a generated season", t, func() {
		dir, settings := seasonDir(t)
		svc := service.New(
			service.WithDataDir(dir),
			service.WithSettings(settings),
			service.WithDedupeSize(1_000),
			service.WithStrictIngest(true),
		)

		Convey("When loading and analysing", func() {
			res, err := svc.LoadAndAnalyze(ctx)
			So(err, ShouldBeNil)
			So(res.Summary.Matches, ShouldEqual, synth.DefaultConfig().Matches)

			Convey("Then the batting table is queryable", func() {
				top, err := svc.TopN(ctx, repository.Query{Pool: metric.Batting}, 3)
				So(err, ShouldBeNil)
				So(len(top), ShouldBeGreaterThan, 0)
				So(top[0].Rank, ShouldEqual, 1)

				e, err := svc.Rank(ctx, repository.Query{Pool: metric.Batting}, top[0].Player)
				So(err, ShouldBeNil)
				So(e, ShouldResemble, top[0])

				_, err = svc.Rank(ctx, repository.Query{Pool: metric.Batting}, "nobody")
				So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
			})

			Convey("Then every context has a roster", func() {
				for _, cx := range res.Summary.Contexts {
					r, err := svc.Roster(ctx, cx)
					So(err, ShouldBeNil)
					So(r.Target, ShouldEqual, settings.Plan.Target)
				}
				def, err := svc.Roster(ctx, "")
				So(err, ShouldBeNil)
				So(def, ShouldResemble, res.Rosters[scoring.DefaultContext])
			})

			Convey("Then stats describe the run", func() {
				stats := svc.GetStats()
				So(stats["runs"], ShouldEqual, 1)
				So(stats["matches"], ShouldEqual, synth.DefaultConfig().Matches)
				So(stats["duplicates"], ShouldEqual, 0)
				So(stats["last_run"], ShouldNotBeEmpty)
				So(stats["summary"], ShouldResemble, res.Summary)
			})

			Convey("Then a second load republishes the same result", func() {
				again, err := svc.LoadAndAnalyze(ctx)
				So(err, ShouldBeNil)
				So(again.Summary, ShouldResemble, res.Summary)
				So(svc.GetStats()["runs"], ShouldEqual, 2)
			})
		})

		Convey("When a copy of a match sits under another name", func() {
			entries, err := os.ReadDir(dir)
			So(err, ShouldBeNil)
			raw, err := os.ReadFile(filepath.Join(dir, entries[0].Name()))
			So(err, ShouldBeNil)
			So(os.WriteFile(filepath.Join(dir, "zz-copy.json"), raw, 0o600), ShouldBeNil)

			res, err := svc.LoadAndAnalyze(ctx)
			So(err, ShouldBeNil)

			Convey("Then it is counted once", func() {
				So(res.Summary.Matches, ShouldEqual, synth.DefaultConfig().Matches)
				So(svc.GetStats()["duplicates"], ShouldEqual, 1)
			})
		})
	})

	Convey("Given a service pointed at a missing directory", t, func() {
		svc := service.New(service.WithDataDir(filepath.Join(t.TempDir(), "absent")))

		Convey("Then loading fails and nothing is published", func() {
			_, err := svc.LoadAndAnalyze(ctx)
			So(err, ShouldNotBeNil)
			_, err = svc.Roster(ctx, "")
			So(errors.Is(err, repository.ErrNoSnapshot), ShouldBeTrue)
		})
	})
}

func TestService_Analyze(t *testing.T) {
	ctx := context.Background()

	Convey("Given a published run", t, func() {
		dir, settings := seasonDir(t)
		svc := service.New(service.WithDataDir(dir), service.WithSettings(settings))
		first, err := svc.LoadAndAnalyze(ctx)
		So(err, ShouldBeNil)

		Convey("When a later run is cancelled", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()
			_, err := svc.Analyze(cctx, []model.Delivery{{MatchID: "x", Batter: "a", Bowler: "b"}})

			Convey("Then the earlier result stays published", func() {
				So(errors.Is(err, context.Canceled), ShouldBeTrue)
				r, err := svc.Roster(ctx, "")
				So(err, ShouldBeNil)
				So(r, ShouldResemble, first.Rosters[scoring.DefaultContext])
			})
		})

		Convey("When analysing no deliveries", func() {
			res, err := svc.Analyze(ctx, nil)

			Convey("Then an empty result replaces the old one", func() {
				So(err, ShouldBeNil)
				So(res.Summary.Matches, ShouldEqual, 0)
				top, err := svc.TopN(ctx, repository.Query{Pool: metric.Batting}, 10)
				So(err, ShouldBeNil)
				So(top, ShouldBeEmpty)
			})
		})
	})
}
