// Package scoring blends normalized metrics into weighted composite scores.
package scoring

import (
	"errors"
	"fmt"
	"math"

	"github.com/okian/crease/internal/domain/metric"
	"github.com/okian/crease/internal/domain/normalize"
)

// WeightTolerance is the allowed drift of a weight table's sum from 1.
const WeightTolerance = 1e-6

// Sentinel kinds.
var (
	ErrInvalidComposite  = errors.New("invalid composite")
	ErrInvalidAdjustment = errors.New("invalid adjustment")
	ErrUnknownScore      = errors.New("unknown score")
)

// Term is one weighted input of a composite.
type Term struct {
	Metric    string              `koanf:"metric"`
	Weight    float64             `koanf:"weight"`
	Transform normalize.Transform `koanf:"transform"`
}

// Composite is a named weight table.
type Composite struct {
	Name   string           `koanf:"name"`
	Method normalize.Method `koanf:"method"`
	Terms  []Term           `koanf:"terms"`
	// Qualifier restricts the composite to players meeting every condition;
	// the rest score 0 and are left out of normalization.
	Qualifier []metric.Condition `koanf:"qualifier"`
}

// Validate checks the table for players of pool.
func (c Composite) Validate(pool metric.Pool) error {
	if c.Name == "" {
		return fmt.Errorf("%w: unnamed", ErrInvalidComposite)
	}
	if !c.Method.Valid() {
		return fmt.Errorf("%w: %s: %w %q", ErrInvalidComposite, c.Name, normalize.ErrUnknownMethod, c.Method)
	}
	if len(c.Terms) == 0 {
		return fmt.Errorf("%w: %s: no terms", ErrInvalidComposite, c.Name)
	}
	var sum float64
	seen := make(map[string]bool, len(c.Terms))
	for _, t := range c.Terms {
		if err := validateTerm(pool, t); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidComposite, c.Name, err)
		}
		// normalized values are stored per metric
		if seen[t.Metric] {
			return fmt.Errorf("%w: %s: duplicate term %q", ErrInvalidComposite, c.Name, t.Metric)
		}
		seen[t.Metric] = true
		sum += t.Weight
	}
	if math.Abs(sum-1) > WeightTolerance {
		return fmt.Errorf("%w: %s: weights sum to %g", ErrInvalidComposite, c.Name, sum)
	}
	for _, q := range c.Qualifier {
		if err := q.Validate(); err != nil {
			return fmt.Errorf("%w: %s: qualifier: %v", ErrInvalidComposite, c.Name, err)
		}
	}
	return nil
}

func validateTerm(pool metric.Pool, t Term) error {
	if t.Metric == "" {
		return errors.New("term without metric")
	}
	if !(t.Weight > 0) {
		return fmt.Errorf("%s: weight %g is not positive", t.Metric, t.Weight)
	}
	if !t.Transform.Valid() {
		return fmt.Errorf("%s: %w: %q", t.Metric, normalize.ErrUnknownTransform, t.Transform)
	}
	if metric.LowerIsBetter(pool, t.Metric) && !t.Transform.Reorients() {
		return fmt.Errorf("%s: lower is better, needs inverse, negate or complement", t.Metric)
	}
	return nil
}

// ValidateAll checks every composite and that names are unique.
func ValidateAll(pool metric.Pool, composites []Composite) error {
	seen := make(map[string]struct{}, len(composites))
	for _, c := range composites {
		if err := c.Validate(pool); err != nil {
			return err
		}
		if _, dup := seen[c.Name]; dup {
			return fmt.Errorf("%w: duplicate name %q", ErrInvalidComposite, c.Name)
		}
		seen[c.Name] = struct{}{}
	}
	return nil
}

// Key names a normalized term value within a row.
func Key(composite, metricName string) string {
	return composite + "." + metricName
}
