// Package analysis runs the scoring pipeline end to end over a delivery
// sequence.
package analysis

import (
	"errors"
	"fmt"

	"github.com/okian/crease/internal/domain/metric"
	"github.com/okian/crease/internal/domain/phase"
	"github.com/okian/crease/internal/domain/role"
	"github.com/okian/crease/internal/domain/scoring"
	"github.com/okian/crease/internal/domain/selection"
	"github.com/okian/crease/internal/domain/stats"
)

// ErrInvalidSettings wraps every settings validation failure.
var ErrInvalidSettings = errors.New("invalid analysis settings")

// Shortlist optionally limits the bowlers considered for all-rounder indices
// to the top Size by Score. Size 0 disables it.
type Shortlist struct {
	Size  int    `koanf:"size"`
	Score string `koanf:"score"`
}

// Settings is every tunable of a run.
type Settings struct {
	Phases []phase.Boundary

	Batting stats.BattingOptions
	Bowling stats.BowlingOptions

	BatterEligibility stats.BatterEligibility
	BowlerEligibility stats.BowlerEligibility

	BatterRules []role.Rule
	BowlerRules []role.Rule
	Spinners    []string

	BatterScores []scoring.Composite
	BowlerScores []scoring.Composite

	AllRounder       scoring.AllRounderWeights
	BowlerShortlist  Shortlist
	BatterAdjustment []scoring.Adjustment
	BowlerAdjustment []scoring.Adjustment

	Plan selection.Plan
}

// DefaultSettings is the three-phase configuration with the elite quotas.
func DefaultSettings() Settings {
	return Settings{
		Phases:  phase.ThreePhase().Boundaries(),
		Batting: stats.DefaultBattingOptions(),
		Bowling: stats.DefaultBowlingOptions(),
		BatterEligibility: stats.BatterEligibility{
			MinMatches: 3,
			MinBalls:   60,
			MinBallsByRole: map[string]int{
				role.Opener:   80,
				role.Anchor:   80,
				role.Middle:   60,
				role.Finisher: 40,
			},
		},
		BowlerEligibility: stats.BowlerEligibility{MinMatches: 3, MinOvers: 8},
		BatterRules:       role.BatterThreePhase(),
		BowlerRules:       role.Bowler(),
		Spinners:          DefaultSpinners(),
		BatterScores:      scoring.BatterComposites(phase.Middle, phase.Middle),
		BowlerScores:      scoring.BowlerComposites(),
		AllRounder:        scoring.DefaultAllRounderWeights(),
		BatterAdjustment:  scoring.BatterVenueAdjustments(),
		BowlerAdjustment:  scoring.BowlerVenueAdjustments(),
		Plan:              selection.ElitePlan(),
	}
}

// FourPhaseSettings splits the middle overs and uses the matching batting
// cascade and composites.
func FourPhaseSettings() Settings {
	s := DefaultSettings()
	s.Phases = phase.FourPhase().Boundaries()
	s.BatterRules = role.BatterFourPhase()
	s.BatterScores = scoring.BatterComposites(phase.EarlyMiddle, phase.LateMiddle)
	s.BatterEligibility.MinBallsByRole[role.MiddleHitter] = 60
	return s
}

// DefaultSpinners is the stock spin list.
func DefaultSpinners() []string {
	return []string{
		"Shadab Khan", "Abrar Ahmed", "Mohammad Nawaz", "MRJ Watt",
		"MA Leask", "Harmeet Singh", "CV Varun", "AR Patel",
	}
}

// compiled holds validated, ready-to-use forms of Settings.
type compiled struct {
	scheme   phase.Scheme
	batRoles *role.Classifier
	bowRoles *role.Classifier
	spinners map[string]struct{}
}

// Validate checks every table before any computation.
func (s Settings) Validate() error {
	_, err := s.compile()
	return err
}

func (s Settings) compile() (compiled, error) {
	var c compiled
	fail := func(err error) (compiled, error) {
		return compiled{}, fmt.Errorf("%w: %w", ErrInvalidSettings, err)
	}

	scheme, err := phase.NewScheme(s.Phases)
	if err != nil {
		return fail(err)
	}
	c.scheme = scheme
	if !s.Bowling.BallPolicy.Valid() {
		return fail(fmt.Errorf("bowler ball policy %q", s.Bowling.BallPolicy))
	}
	if s.Batting.PositionMinBalls < 0 || s.Batting.CollapseWickets < 0 {
		return fail(errors.New("negative batting threshold"))
	}
	if c.batRoles, err = role.NewClassifier(s.BatterRules); err != nil {
		return fail(err)
	}
	if c.bowRoles, err = role.NewClassifier(s.BowlerRules); err != nil {
		return fail(err)
	}
	c.spinners = role.SpinnerSet(s.Spinners)

	bat := stats.EmptyBatter("probe", scheme)
	bowl := stats.EmptyBowler("probe", scheme)
	if err := probe(bat, c.batRoles.Metrics()); err != nil {
		return fail(fmt.Errorf("batter rules: %w", err))
	}
	if err := probe(bowl, c.bowRoles.Metrics()); err != nil {
		return fail(fmt.Errorf("bowler rules: %w", err))
	}

	if err := checkComposites(metric.Batting, bat, s.BatterScores); err != nil {
		return fail(err)
	}
	if err := checkComposites(metric.Bowling, bowl, s.BowlerScores); err != nil {
		return fail(err)
	}
	if err := checkAdjustments(metric.Batting, bat, s.BatterAdjustment, s.BatterScores); err != nil {
		return fail(err)
	}
	if err := checkAdjustments(metric.Bowling, bowl, s.BowlerAdjustment, s.BowlerScores); err != nil {
		return fail(err)
	}

	if err := s.AllRounder.Validate(); err != nil {
		return fail(err)
	}
	if !hasComposite(s.BatterScores, s.AllRounder.BattingScore) || !hasComposite(s.BowlerScores, s.AllRounder.BowlingScore) {
		return fail(fmt.Errorf("%w: all-rounder blend %q/%q", scoring.ErrUnknownScore, s.AllRounder.BattingScore, s.AllRounder.BowlingScore))
	}
	if s.BowlerShortlist.Size < 0 {
		return fail(fmt.Errorf("shortlist size %d", s.BowlerShortlist.Size))
	}
	if s.BowlerShortlist.Size > 0 && !hasComposite(s.BowlerScores, s.BowlerShortlist.Score) {
		return fail(fmt.Errorf("%w: shortlist %q", scoring.ErrUnknownScore, s.BowlerShortlist.Score))
	}

	if err := s.checkPlan(c); err != nil {
		return fail(err)
	}
	return c, nil
}

func (s Settings) checkPlan(c compiled) error {
	if err := s.Plan.Validate(); err != nil {
		return err
	}
	scoreOK := func(pool metric.Pool, score string) bool {
		switch pool {
		case metric.Batting:
			return hasComposite(s.BatterScores, score)
		case metric.Bowling:
			return hasComposite(s.BowlerScores, score)
		case metric.AllRounders:
			return score == scoring.BatAllRounder || score == scoring.BowlAllRounder
		}
		return false
	}
	for _, slot := range s.Plan.Slots {
		if !scoreOK(slot.Pool, slot.Score) {
			return fmt.Errorf("slot %s: %w: %s/%s", slot.Name, scoring.ErrUnknownScore, slot.Pool, slot.Score)
		}
		var labels []string
		switch slot.Pool {
		case metric.Batting:
			labels = c.batRoles.Labels()
		case metric.Bowling:
			labels = c.bowRoles.Labels()
		case metric.AllRounders:
			labels = []string{scoring.AllRounderRole}
		}
		if slot.Role != "" && !contains(labels, slot.Role) {
			return fmt.Errorf("slot %s: role %q is never assigned in pool %s", slot.Name, slot.Role, slot.Pool)
		}
		if slot.Kind != "" && slot.Kind != role.Spinner && slot.Kind != role.Pace {
			return fmt.Errorf("slot %s: kind %q", slot.Name, slot.Kind)
		}
	}
	for _, b := range s.Plan.Backfill {
		if !scoreOK(b.Pool, b.Score) {
			return fmt.Errorf("backfill: %w: %s/%s", scoring.ErrUnknownScore, b.Pool, b.Score)
		}
	}
	return nil
}

func checkComposites(pool metric.Pool, src metric.Source, comps []scoring.Composite) error {
	if err := scoring.ValidateAll(pool, comps); err != nil {
		return err
	}
	for _, c := range comps {
		names := make([]string, 0, len(c.Terms)+len(c.Qualifier))
		for _, t := range c.Terms {
			names = append(names, t.Metric)
		}
		for _, q := range c.Qualifier {
			names = append(names, q.Metric)
		}
		if err := probe(src, names); err != nil {
			return fmt.Errorf("%s composite %s: %w", pool, c.Name, err)
		}
	}
	return nil
}

func checkAdjustments(pool metric.Pool, src metric.Source, adjs []scoring.Adjustment, comps []scoring.Composite) error {
	for _, a := range adjs {
		if err := a.Validate(pool); err != nil {
			return err
		}
		if !hasComposite(comps, a.Base) {
			return fmt.Errorf("%s adjustment %s: %w %q", pool, a.Context, scoring.ErrUnknownScore, a.Base)
		}
		names := make([]string, len(a.Terms))
		for i, t := range a.Terms {
			names[i] = t.Metric
		}
		if err := probe(src, names); err != nil {
			return fmt.Errorf("%s adjustment %s: %w", pool, a.Context, err)
		}
	}
	return nil
}

func probe(src metric.Source, names []string) error {
	for _, n := range names {
		if _, err := src.Metric(n); err != nil {
			return err
		}
	}
	return nil
}

func hasComposite(comps []scoring.Composite, name string) bool {
	for _, c := range comps {
		if c.Name == name {
			return true
		}
	}
	return false
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
