package scoring

import (
	"fmt"

	"github.com/okian/crease/internal/domain/metric"
	"github.com/okian/crease/internal/domain/normalize"
)

// DefaultContext is the context key that leaves scores unadjusted.
const DefaultContext = "default"

// Adjustment adds bonus terms to a base score for one context:
// adjusted = base + sum(bonus * normalized metric).
type Adjustment struct {
	Context string           `koanf:"context"`
	Base    string           `koanf:"base"`
	Method  normalize.Method `koanf:"method"`
	Terms   []Term           `koanf:"terms"`
}

// Validate checks the bonus terms for players of pool. Bonuses need not sum
// to 1.
func (a Adjustment) Validate(pool metric.Pool) error {
	if a.Context == "" || a.Context == DefaultContext {
		return fmt.Errorf("%w: context %q", ErrInvalidAdjustment, a.Context)
	}
	if a.Base == "" {
		return fmt.Errorf("%w: %s: no base score", ErrInvalidAdjustment, a.Context)
	}
	if !a.Method.Valid() {
		return fmt.Errorf("%w: %s: unknown method %q", ErrInvalidAdjustment, a.Context, a.Method)
	}
	seen := make(map[string]bool, len(a.Terms))
	for _, t := range a.Terms {
		if err := validateTerm(pool, t); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidAdjustment, a.Context, err)
		}
		if seen[t.Metric] {
			return fmt.Errorf("%w: %s: duplicate term %q", ErrInvalidAdjustment, a.Context, t.Metric)
		}
		seen[t.Metric] = true
	}
	return nil
}

// Adjust returns a copy of t whose base score is replaced by the adjusted
// score. Bonus metrics are normalized over the rows that qualified for the
// base score; other rows are copied unchanged.
func Adjust(t Table, a Adjustment) (Table, error) {
	if err := a.Validate(t.Pool); err != nil {
		return Table{}, err
	}
	if !t.HasScore(a.Base) {
		return Table{}, fmt.Errorf("%w: %s: %w %q", ErrInvalidAdjustment, a.Context, ErrUnknownScore, a.Base)
	}

	rows := make([]Row, len(t.Rows))
	var members []int
	for i, r := range t.Rows {
		rows[i] = r.clone()
		if r.Qualified(a.Base) {
			members = append(members, i)
		}
	}

	prefix := a.Base + "@" + a.Context
	for _, term := range a.Terms {
		normed, err := normalizeTerm(rows, members, term, a.Method)
		if err != nil {
			return Table{}, fmt.Errorf("adjust %s: %w", a.Context, err)
		}
		key := Key(prefix, term.Metric)
		for k, i := range members {
			rows[i].Normalized[key] = normed[k]
			rows[i].Scores[a.Base] += term.Weight * normed[k]
		}
	}
	return Table{Pool: t.Pool, Rows: rows, scores: t.ScoreNames()}, nil
}

// ForContext returns the adjustments that apply to context.
func ForContext(adjs []Adjustment, context string) []Adjustment {
	var out []Adjustment
	for _, a := range adjs {
		if a.Context == context {
			out = append(out, a)
		}
	}
	return out
}

// Contexts lists distinct adjustment contexts in declaration order.
func Contexts(adjs []Adjustment) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, a := range adjs {
		if _, ok := seen[a.Context]; ok {
			continue
		}
		seen[a.Context] = struct{}{}
		out = append(out, a.Context)
	}
	return out
}
