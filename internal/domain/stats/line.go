package stats

import (
	"math"

	"github.com/okian/crease/internal/domain/metric"
)

// Line is the tally for one player in one phase.
type Line struct {
	Balls      int
	Runs       int
	Boundaries int
	Dots       int
	Rotations  int
	Wickets    int
}

func (l Line) add(o Line) Line {
	return Line{
		Balls:      l.Balls + o.Balls,
		Runs:       l.Runs + o.Runs,
		Boundaries: l.Boundaries + o.Boundaries,
		Dots:       l.Dots + o.Dots,
		Rotations:  l.Rotations + o.Rotations,
		Wickets:    l.Wickets + o.Wickets,
	}
}

// ratio returns num/den*scale, or 0 when den is zero.
func ratio(num, den, scale float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den * scale
}

// phaseRatio is ratio with NaN for an empty phase, so rule predicates on a
// phase the player never appeared in do not fire.
func phaseRatio(num, den, scale float64) float64 {
	if den == 0 {
		return math.NaN()
	}
	return num / den * scale
}

// phaseSet keeps per-phase lines in scheme order.
type phaseSet struct {
	labels []string
	lines  map[string]Line
}

func newPhaseSet(labels []string) phaseSet {
	return phaseSet{labels: labels, lines: make(map[string]Line, len(labels))}
}

func (p phaseSet) add(label string, l Line) {
	p.lines[label] = p.lines[label].add(l)
}

func (p phaseSet) has(label string) bool {
	for _, l := range p.labels {
		if l == label {
			return true
		}
	}
	return false
}

func (p phaseSet) last() string {
	if len(p.labels) == 0 {
		return ""
	}
	return p.labels[len(p.labels)-1]
}

// lineMetric resolves a phase metric; ok is false for an unknown base or phase.
func (p phaseSet) lineMetric(base, label string, total int, bowling bool) (float64, bool) {
	if !p.has(label) {
		return 0, false
	}
	l := p.lines[label]
	balls := float64(l.Balls)
	switch base {
	case "balls":
		return balls, true
	case "runs":
		return float64(l.Runs), true
	case "wickets":
		return float64(l.Wickets), true
	case "overs":
		return balls / 6, true
	case "share":
		return ratio(balls, float64(total), 1), true
	case "dot_pct":
		return phaseRatio(float64(l.Dots), balls, 100), true
	}
	if bowling {
		switch base {
		case "economy":
			return phaseRatio(float64(l.Runs), balls, 6), true
		case "wicket_rate":
			return phaseRatio(float64(l.Wickets), balls, 6), true
		}
		return 0, false
	}
	switch base {
	case "strike_rate":
		return phaseRatio(float64(l.Runs), balls, 100), true
	case "boundary_pct":
		return phaseRatio(float64(l.Boundaries), balls, 100), true
	case "rotation_pct":
		return phaseRatio(float64(l.Rotations), balls, 100), true
	}
	return 0, false
}

// resolvePhase splits name and, for phase metrics, answers from the set.
func (p phaseSet) resolvePhase(name string, total int, bowling bool) (v float64, handled bool, err error) {
	base, label := metric.Split(name)
	if label == "" {
		return 0, false, nil
	}
	v, ok := p.lineMetric(base, label, total, bowling)
	if !ok {
		return 0, true, metric.Unknown(name)
	}
	return v, true, nil
}
