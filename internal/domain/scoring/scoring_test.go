package scoring_test

import (
	"errors"
	"fmt"
	"math"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/crease/internal/domain/metric"
	"github.com/okian/crease/internal/domain/normalize"
	"github.com/okian/crease/internal/domain/phase"
	"github.com/okian/crease/internal/domain/scoring"
)

func player(name string, kv ...float64) metric.Static {
	keys := []string{"strike_rate", "economy", "overs@Death", "wicket_rate"}
	vals := map[string]float64{}
	for i, v := range kv {
		vals[keys[i]] = v
	}
	return metric.Static{Name: name, Values: vals}
}

func candidates(srcs ...metric.Static) []scoring.Candidate {
	out := make([]scoring.Candidate, len(srcs))
	for i, s := range srcs {
		out[i] = scoring.Candidate{Source: s, Role: "Middle"}
	}
	return out
}

func TestCompositeValidation(t *testing.T) {
	Convey("Given the stock weight tables", t, func() {
		Convey("Then every table validates and sums to one", func() {
			So(scoring.ValidateAll(metric.Batting, scoring.BatterComposites(phase.Middle, phase.Middle)), ShouldBeNil)
			So(scoring.ValidateAll(metric.Batting, scoring.BatterComposites(phase.EarlyMiddle, phase.LateMiddle)), ShouldBeNil)
			So(scoring.ValidateAll(metric.Bowling, scoring.BowlerComposites()), ShouldBeNil)
			for _, set := range [][]scoring.Composite{scoring.BatterComposites(phase.Middle, phase.Middle), scoring.BowlerComposites()} {
				for _, c := range set {
					var sum float64
					for _, term := range c.Terms {
						sum += term.Weight
					}
					So(sum, ShouldAlmostEqual, 1.0, scoring.WeightTolerance)
				}
			}
		})

		Convey("Then the stock venue profiles validate", func() {
			for _, a := range scoring.BatterVenueAdjustments() {
				So(a.Validate(metric.Batting), ShouldBeNil)
			}
			for _, a := range scoring.BowlerVenueAdjustments() {
				So(a.Validate(metric.Bowling), ShouldBeNil)
			}
		})
	})

	Convey("Given malformed tables", t, func() {
		base := scoring.Composite{Name: "c", Terms: []scoring.Term{{Metric: "strike_rate", Weight: 0.5}, {Metric: "wicket_rate", Weight: 0.5}}}
		So(base.Validate(metric.Batting), ShouldBeNil)

		Convey("When weights do not sum to one", func() {
			c := base
			c.Terms = []scoring.Term{{Metric: "strike_rate", Weight: 0.5}, {Metric: "wicket_rate", Weight: 0.4}}
			So(errors.Is(c.Validate(metric.Batting), scoring.ErrInvalidComposite), ShouldBeTrue)
		})

		Convey("When a weight is not positive", func() {
			c := base
			c.Terms = []scoring.Term{{Metric: "strike_rate", Weight: 1.2}, {Metric: "wicket_rate", Weight: -0.2}}
			So(errors.Is(c.Validate(metric.Batting), scoring.ErrInvalidComposite), ShouldBeTrue)
		})

		Convey("When a lower-is-better metric is not reoriented", func() {
			c := scoring.Composite{Name: "c", Terms: []scoring.Term{{Metric: "economy", Weight: 1}}}
			So(errors.Is(c.Validate(metric.Bowling), scoring.ErrInvalidComposite), ShouldBeTrue)
			c.Terms[0].Transform = normalize.Inverse
			So(c.Validate(metric.Bowling), ShouldBeNil)
		})

		Convey("When the method is unknown", func() {
			c := base
			c.Method = "rank"
			So(errors.Is(c.Validate(metric.Batting), normalize.ErrUnknownMethod), ShouldBeTrue)
		})

		Convey("When a metric appears in two terms", func() {
			c := base
			c.Terms = []scoring.Term{{Metric: "strike_rate", Weight: 0.5}, {Metric: "strike_rate", Weight: 0.5, Transform: normalize.Complement}}
			err := c.Validate(metric.Batting)
			So(errors.Is(err, scoring.ErrInvalidComposite), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "duplicate term")

			a := scoring.Adjustment{Context: "venue:x", Base: "c", Method: normalize.MinMaxMethod, Terms: c.Terms}
			So(errors.Is(a.Validate(metric.Batting), scoring.ErrInvalidAdjustment), ShouldBeTrue)
		})

		Convey("When names repeat", func() {
			So(errors.Is(scoring.ValidateAll(metric.Batting, []scoring.Composite{base, base}), scoring.ErrInvalidComposite), ShouldBeTrue)
		})
	})
}

func TestScore(t *testing.T) {
	sr := scoring.Composite{Name: "sr", Method: normalize.MinMaxMethod, Terms: []scoring.Term{{Metric: "strike_rate", Weight: 1}}}

	Convey("Given a small population", t, func() {
		pop := candidates(player("A", 200, 7), player("B", 120, 9), player("C", 150, 6))

		Convey("When scored on strike rate", func() {
			table, err := scoring.Score(metric.Batting, pop, []scoring.Composite{sr})
			So(err, ShouldBeNil)

			Convey("Then the best player gets the full weight", func() {
				a, _ := table.Find("A")
				So(a.Normalized[scoring.Key("sr", "strike_rate")], ShouldEqual, 1)
				So(a.Score("sr"), ShouldEqual, 1)
				So(a.Raw["strike_rate"], ShouldEqual, 200)
				b, _ := table.Find("B")
				So(b.Score("sr"), ShouldEqual, 0)
			})

			Convey("Then ranking is descending", func() {
				ranked := table.Ranked("sr", false)
				So(ranked[0].Player, ShouldEqual, "A")
				So(ranked[1].Player, ShouldEqual, "C")
				So(ranked[2].Player, ShouldEqual, "B")
				So(table.Rows[0].Player, ShouldEqual, "A")
				So(table.Rows[1].Player, ShouldEqual, "B")
			})
		})

		Convey("When an inverse term orients economy", func() {
			econ := scoring.Composite{Name: "econ", Terms: []scoring.Term{{Metric: "economy", Weight: 1, Transform: normalize.Inverse}}}
			table, err := scoring.Score(metric.Bowling, pop, []scoring.Composite{econ})
			So(err, ShouldBeNil)
			c, _ := table.Find("C")
			So(c.Score("econ"), ShouldEqual, 1)
		})

		Convey("When a composite reads an unknown metric", func() {
			bad := scoring.Composite{Name: "bad", Terms: []scoring.Term{{Metric: "nope", Weight: 1}}}
			_, err := scoring.Score(metric.Batting, pop, []scoring.Composite{bad})
			So(errors.Is(err, metric.ErrUnknownMetric), ShouldBeTrue)
		})
	})

	Convey("Given a single eligible player", t, func() {
		pop := candidates(player("solo", 180, 7))
		z := sr
		z.Name, z.Method = "srz", normalize.ZScoreMethod

		table, err := scoring.Score(metric.Batting, pop, []scoring.Composite{sr, z})
		So(err, ShouldBeNil)

		Convey("Then both methods yield zero", func() {
			row := table.Rows[0]
			So(row.Normalized[scoring.Key("sr", "strike_rate")], ShouldEqual, 0)
			So(row.Normalized[scoring.Key("srz", "strike_rate")], ShouldEqual, 0)
		})
	})

	Convey("Given missing phase data", t, func() {
		pop := candidates(player("A", math.NaN()), player("B", 100), player("C", 50))
		table, err := scoring.Score(metric.Batting, pop, []scoring.Composite{sr})
		So(err, ShouldBeNil)

		Convey("Then NaN contributes as zero and stays out of the population", func() {
			a, _ := table.Find("A")
			So(a.Raw["strike_rate"], ShouldEqual, 0)
			So(a.Score("sr"), ShouldEqual, 0)
			b, _ := table.Find("B")
			So(b.Score("sr"), ShouldEqual, 1)
			c, _ := table.Find("C")
			So(c.Score("sr"), ShouldEqual, 0)
		})
	})

	Convey("Given missing phase data on a reoriented term", t, func() {
		dots := func(name string, v float64) scoring.Candidate {
			return scoring.Candidate{
				Source: metric.Static{Name: name, Values: map[string]float64{"dot_pct@EarlyMiddle": v}},
				Role:   "Anchor",
			}
		}
		pop := []scoring.Candidate{dots("NoEarlyBalls", math.NaN()), dots("Good", 20), dots("Bad", 50)}

		for _, tr := range []normalize.Transform{normalize.Negate, normalize.Complement, normalize.Inverse} {
			anchor := scoring.Composite{
				Name:   "anchor",
				Method: normalize.MinMaxMethod,
				Terms:  []scoring.Term{{Metric: "dot_pct@EarlyMiddle", Weight: 1, Transform: tr}},
			}
			table, err := scoring.Score(metric.Batting, pop, []scoring.Composite{anchor})
			So(err, ShouldBeNil)

			missing, _ := table.Find("NoEarlyBalls")
			good, _ := table.Find("Good")
			bad, _ := table.Find("Bad")
			So(string(tr)+": "+fmtScore(missing.Score("anchor")), ShouldEqual, string(tr)+": 0.000")
			So(missing.Normalized[scoring.Key("anchor", "dot_pct@EarlyMiddle")], ShouldEqual, 0)
			So(good.Score("anchor"), ShouldEqual, 1)
			So(bad.Score("anchor"), ShouldEqual, 0)
		}
	})

	Convey("Given a qualified composite", t, func() {
		death := scoring.Composite{
			Name:      "death",
			Method:    normalize.MinMaxMethod,
			Terms:     []scoring.Term{{Metric: "wicket_rate", Weight: 1}},
			Qualifier: []metric.Condition{{Metric: "overs@Death", Op: metric.GE, Value: 4}},
		}
		pop := candidates(
			player("A", 0, 0, 5, 1),
			player("B", 0, 0, 6, 2),
			player("C", 0, 0, 1, 9),
		)
		table, err := scoring.Score(metric.Bowling, pop, []scoring.Composite{death})
		So(err, ShouldBeNil)

		Convey("Then only qualifiers are normalized and others score zero", func() {
			b, _ := table.Find("B")
			So(b.Score("death"), ShouldEqual, 1)
			c, _ := table.Find("C")
			So(c.Score("death"), ShouldEqual, 0)
			So(c.Qualified("death"), ShouldBeFalse)
			_, has := c.Normalized[scoring.Key("death", "wicket_rate")]
			So(has, ShouldBeFalse)
		})
	})

	Convey("Given tied scores", t, func() {
		pop := candidates(player("Zed", 100), player("Amy", 100), player("Low", 50))
		table, _ := scoring.Score(metric.Batting, pop, []scoring.Composite{sr})

		Convey("Then population order or name breaks the tie", func() {
			So(table.Ranked("sr", false)[0].Player, ShouldEqual, "Zed")
			So(table.Ranked("sr", true)[0].Player, ShouldEqual, "Amy")
		})
	})
}

func TestAdjust(t *testing.T) {
	Convey("Given a scored table and a venue profile", t, func() {
		comp := scoring.Composite{Name: "composite", Terms: []scoring.Term{{Metric: "strike_rate", Weight: 1}}}
		pop := candidates(player("A", 200, 9), player("B", 100, 6))
		table, err := scoring.Score(metric.Bowling, pop, []scoring.Composite{comp})
		So(err, ShouldBeNil)

		adj := scoring.Adjustment{Context: "Colombo", Base: "composite", Terms: []scoring.Term{
			{Metric: "economy", Weight: 0.3, Transform: normalize.Inverse},
		}}

		Convey("When adjusted", func() {
			out, err := scoring.Adjust(table, adj)
			So(err, ShouldBeNil)

			Convey("Then the bonus is added on top of the base", func() {
				a, _ := out.Find("A")
				b, _ := out.Find("B")
				So(a.Score("composite"), ShouldEqual, 1)
				So(b.Score("composite"), ShouldAlmostEqual, 0.3, 1e-12)
				So(b.Normalized[scoring.Key("composite@Colombo", "economy")], ShouldEqual, 1)
			})

			Convey("Then the input table is untouched", func() {
				b, _ := table.Find("B")
				So(b.Score("composite"), ShouldEqual, 0)
			})
		})

		Convey("When the base score is unknown", func() {
			adj.Base = "missing"
			_, err := scoring.Adjust(table, adj)
			So(errors.Is(err, scoring.ErrUnknownScore), ShouldBeTrue)
		})

		Convey("When the context is the default", func() {
			adj.Context = scoring.DefaultContext
			_, err := scoring.Adjust(table, adj)
			So(errors.Is(err, scoring.ErrInvalidAdjustment), ShouldBeTrue)
		})

		Convey("Then contexts are listed once each", func() {
			all := append(scoring.BatterVenueAdjustments(), scoring.BatterVenueAdjustments()...)
			So(scoring.Contexts(all), ShouldResemble, []string{scoring.Ahmedabad, scoring.Colombo})
			So(scoring.ForContext(all, scoring.Colombo), ShouldHaveLength, 2)
		})
	})
}

func TestAllRounders(t *testing.T) {
	Convey("Given batting and bowling tables", t, func() {
		comp := scoring.Composite{Name: "composite", Terms: []scoring.Term{{Metric: "strike_rate", Weight: 1}}}
		bat, _ := scoring.Score(metric.Batting, candidates(player("A", 100), player("B", 80), player("C", 0), player("OnlyBat", 50)), []scoring.Composite{comp})
		bowl, _ := scoring.Score(metric.Bowling, candidates(player("C", 100), player("A", 90), player("B", 0)), []scoring.Composite{comp})

		table, err := scoring.AllRounders(bat, bowl, scoring.DefaultAllRounderWeights())
		So(err, ShouldBeNil)

		Convey("Then only dual-eligible players appear", func() {
			So(table.Rows, ShouldHaveLength, 3)
			_, ok := table.Find("OnlyBat")
			So(ok, ShouldBeFalse)
		})

		Convey("Then the indices blend 65/35", func() {
			a, _ := table.Find("A")
			So(a.Score(scoring.BatAllRounder), ShouldAlmostEqual, 0.65*1+0.35*0.9, 1e-12)
			So(a.Score(scoring.BowlAllRounder), ShouldAlmostEqual, 0.65*0.9+0.35*1, 1e-12)
		})

		Convey("Then a missing score is rejected", func() {
			w := scoring.DefaultAllRounderWeights()
			w.BattingScore = "opener"
			_, err := scoring.AllRounders(bat, bowl, w)
			So(errors.Is(err, scoring.ErrUnknownScore), ShouldBeTrue)
		})
	})
}

func fmtScore(v float64) string { return fmt.Sprintf("%.3f", v) }
