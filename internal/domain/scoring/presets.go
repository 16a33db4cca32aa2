package scoring

import (
	"github.com/okian/crease/internal/domain/metric"
	"github.com/okian/crease/internal/domain/normalize"
)

// Venue context keys used by the stock adjustments.
const (
	Ahmedabad = "Narendra Modi Stadium, Ahmedabad"
	Colombo   = "R Premadasa Stadium, Colombo"
)

func term(name string, w float64) Term { return Term{Metric: name, Weight: w} }

func termT(name string, w float64, t normalize.Transform) Term {
	return Term{Metric: name, Weight: w, Transform: t}
}

// BatterComposites returns the stock batting weight tables. early and late
// name the phases that anchors and middle-order hitters are judged on; with a
// three-phase scheme both are "Middle".
func BatterComposites(early, late string) []Composite {
	return []Composite{
		{Name: "composite", Method: normalize.MinMaxMethod, Terms: []Term{
			term("strike_rate", 0.25),
			term("runs_per_match", 0.25),
			termT("dot_pct", 0.15, normalize.Negate),
			term("boundary_pct", 0.15),
			term("share@Death", 0.10),
			term("pressure_sr", 0.05),
			term("clutch_runs", 0.05),
		}},
		{Name: "opener", Method: normalize.MinMaxMethod, Terms: []Term{
			term("strike_rate@Powerplay", 0.40),
			term("strike_rate", 0.30),
			term("consistency", 0.20),
			term("collapse_sr", 0.10),
		}},
		{Name: "anchor", Method: normalize.MinMaxMethod, Terms: []Term{
			term(metric.Join("rotation_pct", early), 0.35),
			termT(metric.Join("dot_pct", early), 0.30, normalize.Negate),
			term("consistency", 0.20),
			termT("strike_rate", 0.15, normalize.Negate),
		}},
		{Name: "middle", Method: normalize.MinMaxMethod, Terms: []Term{
			term(metric.Join("strike_rate", late), 0.40),
			term(metric.Join("boundary_pct", late), 0.30),
			term("consistency", 0.20),
			term("pressure_sr", 0.10),
		}},
		{Name: "finisher", Method: normalize.MinMaxMethod, Terms: []Term{
			term("strike_rate@Death", 0.45),
			term("boundary_pct@Death", 0.30),
			term("strike_rate", 0.15),
			term("pressure_sr", 0.10),
		}},
		{Name: "value", Method: normalize.ZScoreMethod, Terms: []Term{
			term("phase_impact", 0.60),
			term("run_share", 0.25),
			term("strike_rate@Death", 0.15),
		}},
	}
}

// BowlerComposites returns the stock bowling weight tables.
func BowlerComposites() []Composite {
	return []Composite{
		{Name: "composite", Method: normalize.MinMaxMethod, Terms: []Term{
			term("wickets_per_match", 0.30),
			termT("economy", 0.25, normalize.Inverse),
			term("dot_pct", 0.20),
			term("death_wickets", 0.15),
			term("wickets", 0.10),
		}},
		{Name: "impact", Method: normalize.MinMaxMethod, Terms: []Term{
			term("wicket_rate", 0.40),
			termT("economy", 0.35, normalize.Inverse),
			term("dot_pct", 0.25),
		}},
		{
			Name:   "death",
			Method: normalize.ZScoreMethod,
			Terms: []Term{
				term("wicket_rate@Death", 0.50),
				termT("economy@Death", 0.50, normalize.Negate),
			},
			Qualifier: []metric.Condition{{Metric: "overs@Death", Op: metric.GE, Value: 4}},
		},
		{Name: "value", Method: normalize.ZScoreMethod, Terms: []Term{
			term("econ_impact", 0.60),
			term("wicket_rate", 0.40),
		}},
	}
}

// BatterVenueAdjustments are the stock venue profiles for batting.
func BatterVenueAdjustments() []Adjustment {
	return []Adjustment{
		{Context: Ahmedabad, Base: "composite", Method: normalize.MinMaxMethod, Terms: []Term{
			term("boundary_pct", 0.25),
			term("pressure_sr", 0.15),
			term("clutch_runs", 0.10),
		}},
		{Context: Colombo, Base: "composite", Method: normalize.MinMaxMethod, Terms: []Term{
			termT("dot_pct", 0.25, normalize.Negate),
			term("runs_per_match", 0.15),
		}},
	}
}

// BowlerVenueAdjustments are the stock venue profiles for bowling.
func BowlerVenueAdjustments() []Adjustment {
	return []Adjustment{
		{Context: Ahmedabad, Base: "composite", Method: normalize.MinMaxMethod, Terms: []Term{
			term("wickets_per_match", 0.25),
			term("death_wickets", 0.15),
		}},
		{Context: Colombo, Base: "composite", Method: normalize.MinMaxMethod, Terms: []Term{
			termT("economy", 0.30, normalize.Inverse),
			term("dot_pct", 0.15),
		}},
	}
}
