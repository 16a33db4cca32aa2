package stats

import (
	"github.com/okian/crease/internal/domain/metric"
	"github.com/okian/crease/internal/domain/model"
	"github.com/okian/crease/internal/domain/phase"
)

// Bowler is one bowler's aggregate over a delivery sequence.
type Bowler struct {
	Name    string
	Matches int
	Balls   int // per BallPolicy
	Runs    int // conceded, extras included
	Wickets int
	Dots    int

	phases     phaseSet
	baselines  Baselines
	hasBaseSet bool
}

// Player implements metric.Source.
func (b Bowler) Player() string { return b.Name }

// Phase returns the tally for a phase label.
func (b Bowler) Phase(label string) Line { return b.phases.lines[label] }

// Overs is balls divided by six.
func (b Bowler) Overs() float64 { return float64(b.Balls) / 6 }

// Economy is runs conceded per over.
func (b Bowler) Economy() float64 { return ratio(float64(b.Runs), float64(b.Balls), 6) }

// EconImpact sums (baseline economy - phase economy) weighted by phase balls.
// It is 0 until baselines are attached.
func (b Bowler) EconImpact() float64 {
	if !b.hasBaseSet {
		return 0
	}
	var total float64
	for _, label := range b.phases.labels {
		l := b.phases.lines[label]
		if l.Balls == 0 {
			continue
		}
		econ := float64(l.Runs) / float64(l.Balls) * 6
		total += (b.baselines[label] - econ) * float64(l.Balls)
	}
	return total
}

// WithBaselines returns a copy of b measured against base.
func (b Bowler) WithBaselines(base Baselines) Bowler {
	b.baselines = base
	b.hasBaseSet = true
	return b
}

// Metric implements metric.Source.
func (b Bowler) Metric(name string) (float64, error) {
	if v, handled, err := b.phases.resolvePhase(name, b.Balls, true); handled {
		return v, err
	}
	balls := float64(b.Balls)
	switch name {
	case "matches":
		return float64(b.Matches), nil
	case "balls":
		return balls, nil
	case "overs":
		return b.Overs(), nil
	case "runs":
		return float64(b.Runs), nil
	case "wickets":
		return float64(b.Wickets), nil
	case "dots":
		return float64(b.Dots), nil
	case "economy":
		return b.Economy(), nil
	case "wicket_rate":
		return ratio(float64(b.Wickets), balls, 6), nil
	case "wickets_per_match":
		return ratio(float64(b.Wickets), float64(b.Matches), 1), nil
	case "dot_pct":
		return ratio(float64(b.Dots), balls, 100), nil
	case "death_wickets":
		return float64(b.phases.lines[b.phases.last()].Wickets), nil
	case "econ_impact":
		return b.EconImpact(), nil
	}
	return 0, metric.Unknown(name)
}

// AggregateBowlers builds one Bowler per distinct bowler, in order of first
// appearance.
func AggregateBowlers(deliveries []model.Delivery, scheme phase.Scheme, opts BowlingOptions) []Bowler {
	labels := scheme.Labels()
	excluded := make(map[string]struct{}, len(opts.NonBowlerDismissals))
	for _, k := range opts.NonBowlerDismissals {
		excluded[k] = struct{}{}
	}

	accs := make(map[string]*Bowler)
	seenMatch := make(map[string]map[string]struct{})
	var order []string

	for _, d := range deliveries {
		b, ok := accs[d.Bowler]
		if !ok {
			b = &Bowler{Name: d.Bowler, phases: newPhaseSet(labels)}
			accs[d.Bowler] = b
			seenMatch[d.Bowler] = make(map[string]struct{})
			order = append(order, d.Bowler)
		}
		if _, ok := seenMatch[d.Bowler][d.MatchID]; !ok {
			seenMatch[d.Bowler][d.MatchID] = struct{}{}
			b.Matches++
		}

		var l Line
		l.Runs = d.TotalRuns
		if opts.BallPolicy == AllBalls || d.IsLegal() {
			l.Balls = 1
		}
		if d.IsLegal() && d.TotalRuns == 0 {
			l.Dots = 1
		}
		if d.Wicket != nil {
			if _, skip := excluded[d.Wicket.Kind]; !skip {
				l.Wickets = 1
			}
		}

		b.Balls += l.Balls
		b.Runs += l.Runs
		b.Dots += l.Dots
		b.Wickets += l.Wickets
		b.phases.add(scheme.Classify(d.Over), l)
	}

	out := make([]Bowler, 0, len(order))
	for _, name := range order {
		out = append(out, *accs[name])
	}
	return out
}
