package analysis

import (
	"context"
	"fmt"
	"time"

	"github.com/okian/crease/internal/domain/metric"
	"github.com/okian/crease/internal/domain/model"
	"github.com/okian/crease/internal/domain/role"
	"github.com/okian/crease/internal/domain/scoring"
	"github.com/okian/crease/internal/domain/selection"
	"github.com/okian/crease/internal/domain/stats"
)

// Stage names reported to observers.
const (
	StageAggregate = "aggregate"
	StageEligible  = "eligibility"
	StageRoles     = "roles"
	StageScore     = "score"
	StageSelect    = "select"
)

// Tables are the scored populations for one context.
type Tables struct {
	Batting     scoring.Table `json:"batting"`
	Bowling     scoring.Table `json:"bowling"`
	AllRounders scoring.Table `json:"allrounders"`
}

// Table returns the table for pool.
func (t Tables) Table(pool metric.Pool) (scoring.Table, bool) {
	switch pool {
	case metric.Batting:
		return t.Batting, true
	case metric.Bowling:
		return t.Bowling, true
	case metric.AllRounders:
		return t.AllRounders, true
	}
	return scoring.Table{}, false
}

func (t Tables) byPool() map[metric.Pool]scoring.Table {
	return map[metric.Pool]scoring.Table{
		metric.Batting:     t.Batting,
		metric.Bowling:     t.Bowling,
		metric.AllRounders: t.AllRounders,
	}
}

// Summary counts the populations of a run.
type Summary struct {
	Deliveries      int      `json:"deliveries"`
	Matches         int      `json:"matches"`
	Batters         int      `json:"batters"`
	Bowlers         int      `json:"bowlers"`
	EligibleBatters int      `json:"eligible_batters"`
	EligibleBowlers int      `json:"eligible_bowlers"`
	AllRounders     int      `json:"allrounders"`
	Phases          []string `json:"phases"`
	Contexts        []string `json:"contexts"`
}

// Result is everything a run produces. Contexts always includes
// scoring.DefaultContext, whose tables are the unadjusted scores.
type Result struct {
	Contexts map[string]Tables           `json:"contexts"`
	Rosters  map[string]selection.Roster `json:"rosters"`
	Summary  Summary                     `json:"summary"`
}

// Default returns the unadjusted tables.
func (r *Result) Default() Tables { return r.Contexts[scoring.DefaultContext] }

// Option customizes Run.
type Option func(*runOptions)

type runOptions struct {
	observe func(stage string, d time.Duration)
}

// WithStageObserver reports the duration of every stage.
func WithStageObserver(fn func(stage string, d time.Duration)) Option {
	return func(o *runOptions) {
		if fn != nil {
			o.observe = fn
		}
	}
}

// Run executes the pipeline: aggregate, filter, attach baselines, classify,
// score, adjust per context and select a roster per context. Each stage
// builds new values from the previous one.
func Run(ctx context.Context, deliveries []model.Delivery, s Settings, opts ...Option) (*Result, error) {
	o := runOptions{observe: func(string, time.Duration) {}}
	for _, opt := range opts {
		opt(&o)
	}
	c, err := s.compile()
	if err != nil {
		return nil, err
	}
	stage := func(name string, start time.Time) error {
		o.observe(name, time.Since(start))
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("analysis %s: %w", name, err)
		}
		return nil
	}

	start := time.Now()
	batters := stats.AggregateBatters(deliveries, c.scheme, s.Batting)
	bowlers := stats.AggregateBowlers(deliveries, c.scheme, s.Bowling)
	if err := stage(StageAggregate, start); err != nil {
		return nil, err
	}

	start = time.Now()
	eligibleBat, err := stats.FilterBatters(batters, s.BatterEligibility, func(b stats.Batter) (string, error) {
		return c.batRoles.Classify(b)
	})
	if err != nil {
		return nil, fmt.Errorf("batter eligibility: %w", err)
	}
	eligibleBowl := stats.FilterBowlers(bowlers, s.BowlerEligibility)

	batBase := stats.BattingBaselines(eligibleBat)
	for i := range eligibleBat {
		eligibleBat[i] = eligibleBat[i].WithBaselines(batBase)
	}
	bowlBase := stats.BowlingBaselines(eligibleBowl)
	for i := range eligibleBowl {
		eligibleBowl[i] = eligibleBowl[i].WithBaselines(bowlBase)
	}
	if err := stage(StageEligible, start); err != nil {
		return nil, err
	}

	start = time.Now()
	batCands := make([]scoring.Candidate, len(eligibleBat))
	for i, b := range eligibleBat {
		label, err := c.batRoles.Classify(b)
		if err != nil {
			return nil, err
		}
		batCands[i] = scoring.Candidate{Source: b, Role: label}
	}
	bowlCands := make([]scoring.Candidate, len(eligibleBowl))
	for i, b := range eligibleBowl {
		label, err := c.bowRoles.Classify(b)
		if err != nil {
			return nil, err
		}
		bowlCands[i] = scoring.Candidate{Source: b, Role: label, Kind: role.BowlingType(b.Name, c.spinners)}
	}
	if err := stage(StageRoles, start); err != nil {
		return nil, err
	}

	start = time.Now()
	batTable, err := scoring.Score(metric.Batting, batCands, s.BatterScores)
	if err != nil {
		return nil, fmt.Errorf("batting scores: %w", err)
	}
	bowlTable, err := scoring.Score(metric.Bowling, bowlCands, s.BowlerScores)
	if err != nil {
		return nil, fmt.Errorf("bowling scores: %w", err)
	}

	contexts := append([]string{scoring.DefaultContext},
		scoring.Contexts(append(append([]scoring.Adjustment(nil), s.BatterAdjustment...), s.BowlerAdjustment...))...)

	res := &Result{
		Contexts: make(map[string]Tables, len(contexts)),
		Rosters:  make(map[string]selection.Roster, len(contexts)),
	}
	for _, cx := range contexts {
		bat, err := adjustAll(batTable, scoring.ForContext(s.BatterAdjustment, cx))
		if err != nil {
			return nil, err
		}
		bowl, err := adjustAll(bowlTable, scoring.ForContext(s.BowlerAdjustment, cx))
		if err != nil {
			return nil, err
		}
		ar, err := scoring.AllRounders(bat, shortlist(bowl, s.BowlerShortlist, s.Plan.TieBreak == selection.ByName), s.AllRounder)
		if err != nil {
			return nil, fmt.Errorf("all-rounders %s: %w", cx, err)
		}
		res.Contexts[cx] = Tables{Batting: bat, Bowling: bowl, AllRounders: ar}
	}
	if err := stage(StageScore, start); err != nil {
		return nil, err
	}

	start = time.Now()
	for _, cx := range contexts {
		roster, err := selection.Select(s.Plan, res.Contexts[cx].byPool())
		if err != nil {
			return nil, fmt.Errorf("select %s: %w", cx, err)
		}
		res.Rosters[cx] = roster
	}
	if err := stage(StageSelect, start); err != nil {
		return nil, err
	}

	res.Summary = Summary{
		Deliveries:      len(deliveries),
		Matches:         countMatches(deliveries),
		Batters:         len(batters),
		Bowlers:         len(bowlers),
		EligibleBatters: len(eligibleBat),
		EligibleBowlers: len(eligibleBowl),
		AllRounders:     len(res.Default().AllRounders.Rows),
		Phases:          c.scheme.Labels(),
		Contexts:        contexts,
	}
	return res, nil
}

func adjustAll(t scoring.Table, adjs []scoring.Adjustment) (scoring.Table, error) {
	for _, a := range adjs {
		var err error
		if t, err = scoring.Adjust(t, a); err != nil {
			return scoring.Table{}, err
		}
	}
	return t, nil
}

// shortlist keeps the top bowlers by the shortlist score, in population order.
func shortlist(t scoring.Table, sl Shortlist, byName bool) scoring.Table {
	if sl.Size <= 0 || len(t.Rows) <= sl.Size {
		return t
	}
	keep := make(map[string]struct{}, sl.Size)
	for _, r := range t.Ranked(sl.Score, byName)[:sl.Size] {
		keep[r.Player] = struct{}{}
	}
	return t.Filter(func(r scoring.Row) bool {
		_, ok := keep[r.Player]
		return ok
	})
}

func countMatches(ds []model.Delivery) int {
	seen := make(map[string]struct{})
	for _, d := range ds {
		seen[d.MatchID] = struct{}{}
	}
	return len(seen)
}
