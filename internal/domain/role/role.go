// Package role assigns a single role label to a player with an ordered rule
// cascade.
package role

import (
	"errors"
	"fmt"

	"github.com/okian/crease/internal/domain/metric"
)

// Batting roles.
const (
	Opener       = "Opener"
	Anchor       = "Anchor"
	Middle       = "Middle"
	MiddleHitter = "MiddleHitter"
	Finisher     = "Finisher"
)

// Bowling roles.
const (
	PowerplayBowler = "Powerplay"
	MiddleBowler    = "Middle"
	DeathBowler     = "Death"
)

// Bowling types.
const (
	Spinner = "Spinner"
	Pace    = "Pace"
)

// ErrInvalidRules is returned for rule lists that cannot label every player.
var ErrInvalidRules = errors.New("invalid role rules")

// Rule labels a player when every condition holds. A rule without conditions
// matches everyone.
type Rule struct {
	Label string             `koanf:"label"`
	When  []metric.Condition `koanf:"when"`
}

// Classifier evaluates rules top-down; the first match wins.
type Classifier struct {
	rules []Rule
}

// NewClassifier validates rules. The last rule must be a catch-all so every
// player gets exactly one label.
func NewClassifier(rules []Rule) (*Classifier, error) {
	if len(rules) == 0 {
		return nil, fmt.Errorf("%w: no rules", ErrInvalidRules)
	}
	for i, r := range rules {
		if r.Label == "" {
			return nil, fmt.Errorf("%w: rule %d has no label", ErrInvalidRules, i)
		}
		for _, c := range r.When {
			if err := c.Validate(); err != nil {
				return nil, fmt.Errorf("%w: rule %q: %v", ErrInvalidRules, r.Label, err)
			}
		}
	}
	if last := rules[len(rules)-1]; len(last.When) != 0 {
		return nil, fmt.Errorf("%w: last rule %q is not a catch-all", ErrInvalidRules, last.Label)
	}
	cp := make([]Rule, len(rules))
	copy(cp, rules)
	return &Classifier{rules: cp}, nil
}

// Classify returns the label of the first rule src satisfies.
func (c *Classifier) Classify(src metric.Source) (string, error) {
	for _, r := range c.rules {
		ok, err := metric.All(src, r.When)
		if err != nil {
			return "", fmt.Errorf("classify %s: %w", src.Player(), err)
		}
		if ok {
			return r.Label, nil
		}
	}
	// unreachable with a validated rule list
	return c.rules[len(c.rules)-1].Label, nil
}

// Labels returns the distinct labels in rule order.
func (c *Classifier) Labels() []string {
	seen := make(map[string]struct{}, len(c.rules))
	out := make([]string, 0, len(c.rules))
	for _, r := range c.rules {
		if _, ok := seen[r.Label]; ok {
			continue
		}
		seen[r.Label] = struct{}{}
		out = append(out, r.Label)
	}
	return out
}

// Metrics returns every metric name the rules read.
func (c *Classifier) Metrics() []string {
	var out []string
	for _, r := range c.rules {
		for _, cond := range r.When {
			out = append(out, cond.Metric)
		}
	}
	return out
}

func gt(name string, v float64) metric.Condition {
	return metric.Condition{Metric: name, Op: metric.GT, Value: v}
}

func lt(name string, v float64) metric.Condition {
	return metric.Condition{Metric: name, Op: metric.LT, Value: v}
}

// BatterThreePhase is the batting cascade for the 0-5/6-14/15-19 scheme.
func BatterThreePhase() []Rule {
	return []Rule{
		{Label: Opener, When: []metric.Condition{gt("share@Powerplay", 0.45)}},
		{Label: Finisher, When: []metric.Condition{gt("share@Death", 0.35)}},
		{Label: Anchor, When: []metric.Condition{lt("strike_rate", 125), gt("runs_per_match", 25)}},
		{Label: Middle},
	}
}

// BatterFourPhase judges anchors on early-middle strike rate and separates
// late-middle hitters.
func BatterFourPhase() []Rule {
	return []Rule{
		{Label: Opener, When: []metric.Condition{gt("share@Powerplay", 0.45)}},
		{Label: Finisher, When: []metric.Condition{gt("share@Death", 0.35)}},
		{Label: Anchor, When: []metric.Condition{lt("strike_rate@EarlyMiddle", 125), gt("runs_per_match", 25)}},
		{Label: MiddleHitter, When: []metric.Condition{gt("strike_rate@LateMiddle", 140)}},
		{Label: Middle},
	}
}

// Bowler is the bowling cascade.
func Bowler() []Rule {
	return []Rule{
		{Label: DeathBowler, When: []metric.Condition{gt("share@Death", 0.30)}},
		{Label: PowerplayBowler, When: []metric.Condition{gt("share@Powerplay", 0.35)}},
		{Label: MiddleBowler},
	}
}

// BowlingType splits bowlers by membership in the injected spinner set.
func BowlingType(name string, spinners map[string]struct{}) string {
	if _, ok := spinners[name]; ok {
		return Spinner
	}
	return Pace
}

// SpinnerSet builds a lookup set from names.
func SpinnerSet(names []string) map[string]struct{} {
	out := make(map[string]struct{}, len(names))
	for _, n := range names {
		out[n] = struct{}{}
	}
	return out
}
