package stats

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/okian/crease/internal/domain/metric"
	"github.com/okian/crease/internal/domain/model"
	"github.com/okian/crease/internal/domain/phase"
)

// Batter is one batter's aggregate over a delivery sequence.
type Batter struct {
	Name       string
	Matches    int
	Innings    int
	Balls      int // legal balls faced
	Runs       int // off the bat, no-ball hits included
	Fours      int
	Sixes      int
	Dots       int
	Rotations  int
	Dismissals int

	PressureRuns  int
	PressureBalls int
	CollapseRuns  int
	CollapseBalls int
	WonRuns       int

	phases     phaseSet
	matchSR    []float64
	shares     []float64
	positions  []float64
	baselines  Baselines
	hasBaseSet bool
}

// Player implements metric.Source.
func (b Batter) Player() string { return b.Name }

// Phase returns the tally for a phase label.
func (b Batter) Phase(label string) Line { return b.phases.lines[label] }

// Boundaries is fours plus sixes.
func (b Batter) Boundaries() int { return b.Fours + b.Sixes }

// StrikeRate is runs per 100 legal balls.
func (b Batter) StrikeRate() float64 { return ratio(float64(b.Runs), float64(b.Balls), 100) }

// Consistency is 1/(1+sd) of per-match strike rates; 0 with fewer than two
// matches.
func (b Batter) Consistency() float64 {
	if len(b.matchSR) < 2 {
		return 0
	}
	sd := stat.StdDev(b.matchSR, nil)
	if math.IsNaN(sd) {
		return 0
	}
	return 1 / (1 + sd)
}

// PhaseImpact sums (phase strike rate - baseline) weighted by phase balls.
// It is 0 until baselines are attached.
func (b Batter) PhaseImpact() float64 {
	if !b.hasBaseSet {
		return 0
	}
	var total float64
	for _, label := range b.phases.labels {
		l := b.phases.lines[label]
		if l.Balls == 0 {
			continue
		}
		sr := float64(l.Runs) / float64(l.Balls) * 100
		total += (sr - b.baselines[label]) * float64(l.Balls)
	}
	return total
}

// WithBaselines returns a copy of b measured against base.
func (b Batter) WithBaselines(base Baselines) Batter {
	b.baselines = base
	b.hasBaseSet = true
	return b
}

// Metric implements metric.Source.
func (b Batter) Metric(name string) (float64, error) {
	if v, handled, err := b.phases.resolvePhase(name, b.Balls, false); handled {
		return v, err
	}
	balls := float64(b.Balls)
	switch name {
	case "matches":
		return float64(b.Matches), nil
	case "innings":
		return float64(b.Innings), nil
	case "balls":
		return balls, nil
	case "runs":
		return float64(b.Runs), nil
	case "fours":
		return float64(b.Fours), nil
	case "sixes":
		return float64(b.Sixes), nil
	case "boundaries":
		return float64(b.Boundaries()), nil
	case "dismissals":
		return float64(b.Dismissals), nil
	case "strike_rate":
		return b.StrikeRate(), nil
	case "runs_per_match":
		return ratio(float64(b.Runs), float64(b.Matches), 1), nil
	case "boundary_pct":
		return ratio(float64(b.Boundaries()), balls, 100), nil
	case "dot_pct":
		return ratio(float64(b.Dots), balls, 100), nil
	case "rotation_pct":
		return ratio(float64(b.Rotations), balls, 100), nil
	case "dismissal_rate":
		return ratio(float64(b.Dismissals), balls, 100), nil
	case "consistency":
		return b.Consistency(), nil
	case "pressure_runs":
		return float64(b.PressureRuns), nil
	case "pressure_sr":
		return ratio(float64(b.PressureRuns), float64(b.PressureBalls), 100), nil
	case "collapse_sr":
		return ratio(float64(b.CollapseRuns), float64(b.CollapseBalls), 100), nil
	case "clutch_runs":
		return float64(b.phases.lines[b.phases.last()].Runs), nil
	case "win_ratio":
		return ratio(float64(b.WonRuns), float64(b.Runs), 1), nil
	case "run_share":
		if len(b.shares) == 0 {
			return 0, nil
		}
		return stat.Mean(b.shares, nil), nil
	case "avg_position":
		if len(b.positions) == 0 {
			return math.NaN(), nil
		}
		return stat.Mean(b.positions, nil), nil
	case "phase_impact":
		return b.PhaseImpact(), nil
	}
	return 0, metric.Unknown(name)
}

type inningsKey struct {
	match   string
	innings int
}

type batterAcc struct {
	Batter
	matches    map[string]*Line
	matchOrder []string
	innings    map[inningsKey]*Line
	innOrder   []inningsKey
}

// AggregateBatters builds one Batter per distinct striker, in order of first
// appearance.
func AggregateBatters(deliveries []model.Delivery, scheme phase.Scheme, opts BattingOptions) []Batter {
	labels := scheme.Labels()
	accs := make(map[string]*batterAcc)
	var order []string

	teamRuns := make(map[inningsKey]int)
	lineup := make(map[inningsKey][]string)

	for _, d := range deliveries {
		key := inningsKey{match: d.MatchID, innings: d.Innings}
		teamRuns[key] += d.BatterRuns
		lineup[key] = appendMissing(lineup[key], d.Batter, d.NonStriker)

		acc, ok := accs[d.Batter]
		if !ok {
			acc = &batterAcc{
				Batter:  Batter{Name: d.Batter, phases: newPhaseSet(labels)},
				matches: make(map[string]*Line),
				innings: make(map[inningsKey]*Line),
			}
			accs[d.Batter] = acc
		}
		if len(acc.innOrder) == 0 {
			// first ball on strike; an earlier run out as non-striker does not count
			order = append(order, d.Batter)
		}
		acc.record(d, key, scheme, opts)

		if d.Wicket != nil && d.Wicket.PlayerOut != "" {
			// the dismissed player may be the non-striker
			if out, ok := accs[d.Wicket.PlayerOut]; ok {
				out.Dismissals++
			} else {
				pending := &batterAcc{
					Batter:  Batter{Name: d.Wicket.PlayerOut, phases: newPhaseSet(labels), Dismissals: 1},
					matches: make(map[string]*Line),
					innings: make(map[inningsKey]*Line),
				}
				accs[d.Wicket.PlayerOut] = pending
			}
		}
	}

	out := make([]Batter, 0, len(order))
	for _, name := range order {
		acc := accs[name]
		b := acc.Batter
		b.Matches = len(acc.matchOrder)
		b.Innings = len(acc.innOrder)
		for _, m := range acc.matchOrder {
			if l := acc.matches[m]; l.Balls > 0 {
				b.matchSR = append(b.matchSR, float64(l.Runs)/float64(l.Balls)*100)
			}
		}
		for _, k := range acc.innOrder {
			l := acc.innings[k]
			b.shares = append(b.shares, ratio(float64(l.Runs), float64(teamRuns[k]), 1))
			if l.Balls >= opts.PositionMinBalls {
				b.positions = append(b.positions, float64(indexOf(lineup[k], name)+1))
			}
		}
		out = append(out, b)
	}
	return out
}

func (a *batterAcc) record(d model.Delivery, key inningsKey, scheme phase.Scheme, opts BattingOptions) {
	if _, ok := a.matches[d.MatchID]; !ok {
		a.matches[d.MatchID] = &Line{}
		a.matchOrder = append(a.matchOrder, d.MatchID)
	}
	if _, ok := a.innings[key]; !ok {
		a.innings[key] = &Line{}
		a.innOrder = append(a.innOrder, key)
	}

	if d.Extras.Wides > 0 {
		// a wide is not faced
		return
	}

	var l Line
	l.Runs = d.BatterRuns
	if d.IsLegal() {
		l.Balls = 1
	}
	if d.IsBoundary() {
		l.Boundaries = 1
		if d.BatterRuns == 4 {
			a.Fours++
		} else {
			a.Sixes++
		}
	}
	if d.IsDot() {
		l.Dots = 1
	}
	if d.IsRotation() {
		l.Rotations = 1
	}

	a.Balls += l.Balls
	a.Runs += l.Runs
	a.Dots += l.Dots
	a.Rotations += l.Rotations
	a.phases.add(scheme.Classify(d.Over), l)

	m := a.matches[d.MatchID]
	m.Runs += l.Runs
	m.Balls += l.Balls
	inn := a.innings[key]
	inn.Runs += l.Runs
	inn.Balls += l.Balls

	if d.RunRateSoFar() > opts.PressureRunRate {
		a.PressureRuns += l.Runs
		a.PressureBalls += l.Balls
	}
	if d.WicketsFallen >= opts.CollapseWickets {
		a.CollapseRuns += l.Runs
		a.CollapseBalls += l.Balls
	}
	if d.WonMatch() {
		a.WonRuns += l.Runs
	}
}

func appendMissing(list []string, names ...string) []string {
	for _, n := range names {
		if n != "" && indexOf(list, n) < 0 {
			list = append(list, n)
		}
	}
	return list
}

func indexOf(list []string, name string) int {
	for i, n := range list {
		if n == name {
			return i
		}
	}
	return -1
}
