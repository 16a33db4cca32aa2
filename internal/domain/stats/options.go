// Package stats aggregates deliveries into per-player batting and bowling
// metrics.
package stats

import "github.com/okian/crease/internal/domain/phase"

// BallPolicy selects which deliveries count toward a bowler's balls.
type BallPolicy string

const (
	// LegalBalls counts only deliveries that are neither wides nor no-balls.
	LegalBalls BallPolicy = "legal"
	// AllBalls counts every delivery bowled.
	AllBalls BallPolicy = "all"
)

// Valid reports whether p is a known policy.
func (p BallPolicy) Valid() bool {
	return p == LegalBalls || p == AllBalls
}

// BattingOptions tune situational batting metrics.
type BattingOptions struct {
	// PressureRunRate marks a ball as high pressure when the innings run rate
	// so far exceeds it.
	PressureRunRate float64
	// CollapseWickets marks a ball as a collapse situation when at least this
	// many wickets have fallen.
	CollapseWickets int
	// PositionMinBalls is the minimum legal balls faced in an innings for it to
	// count toward average batting position.
	PositionMinBalls int
}

// DefaultBattingOptions returns the stock situational thresholds.
func DefaultBattingOptions() BattingOptions {
	return BattingOptions{
		PressureRunRate:  9,
		CollapseWickets:  2,
		PositionMinBalls: 5,
	}
}

// BowlingOptions tune bowling aggregation.
type BowlingOptions struct {
	BallPolicy BallPolicy
	// NonBowlerDismissals are wicket kinds not credited to the bowler.
	NonBowlerDismissals []string
}

// DefaultBowlingOptions counts legal balls and excludes run outs and
// retirements from bowler wickets.
func DefaultBowlingOptions() BowlingOptions {
	return BowlingOptions{
		BallPolicy: LegalBalls,
		NonBowlerDismissals: []string{
			"run out",
			"retired hurt",
			"retired out",
			"obstructing the field",
		},
	}
}

// EmptyBatter is a batter with no deliveries under scheme. Its Metric method
// answers every name a populated batter would.
func EmptyBatter(name string, scheme phase.Scheme) Batter {
	return Batter{Name: name, phases: newPhaseSet(scheme.Labels())}
}

// EmptyBowler is the bowling counterpart of EmptyBatter.
func EmptyBowler(name string, scheme phase.Scheme) Bowler {
	return Bowler{Name: name, phases: newPhaseSet(scheme.Labels())}
}
