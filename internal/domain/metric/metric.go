// Package metric defines how players expose named statistics and how rules
// compare against them.
package metric

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// Sentinel kinds.
var (
	ErrUnknownMetric = errors.New("unknown metric")
	ErrInvalidOp     = errors.New("invalid comparison operator")
)

// PhaseSep joins a metric name and a phase label, as in "strike_rate@Death".
const PhaseSep = "@"

// Source is anything that can report a player's raw metrics by name.
type Source interface {
	Player() string
	Metric(name string) (float64, error)
}

// Split separates "name@Phase" into its parts; phase is "" for whole-innings metrics.
func Split(name string) (base, phase string) {
	if i := strings.Index(name, PhaseSep); i >= 0 {
		return name[:i], name[i+len(PhaseSep):]
	}
	return name, ""
}

// Join builds a phase metric name.
func Join(base, phase string) string {
	if phase == "" {
		return base
	}
	return base + PhaseSep + phase
}

// Unknown wraps ErrUnknownMetric for name.
func Unknown(name string) error {
	return fmt.Errorf("%w: %q", ErrUnknownMetric, name)
}

// Op is a comparison operator.
type Op string

const (
	GT Op = ">"
	GE Op = ">="
	LT Op = "<"
	LE Op = "<="
)

// Valid reports whether op is supported.
func (o Op) Valid() bool {
	switch o {
	case GT, GE, LT, LE:
		return true
	}
	return false
}

// Condition compares a named metric against a constant.
type Condition struct {
	Metric string  `koanf:"metric"`
	Op     Op      `koanf:"op"`
	Value  float64 `koanf:"value"`
}

func (c Condition) String() string {
	return fmt.Sprintf("%s %s %g", c.Metric, c.Op, c.Value)
}

// Validate checks the operator and that a metric is named.
func (c Condition) Validate() error {
	if c.Metric == "" {
		return fmt.Errorf("%w: empty metric in condition", ErrUnknownMetric)
	}
	if !c.Op.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidOp, c.Op)
	}
	return nil
}

// Eval evaluates the condition for src. A NaN metric never satisfies a
// condition.
func (c Condition) Eval(src Source) (bool, error) {
	v, err := src.Metric(c.Metric)
	if err != nil {
		return false, err
	}
	if math.IsNaN(v) {
		return false, nil
	}
	switch c.Op {
	case GT:
		return v > c.Value, nil
	case GE:
		return v >= c.Value, nil
	case LT:
		return v < c.Value, nil
	case LE:
		return v <= c.Value, nil
	}
	return false, fmt.Errorf("%w: %q", ErrInvalidOp, c.Op)
}

// All evaluates conditions in order and reports whether every one holds.
func All(src Source, conds []Condition) (bool, error) {
	for _, c := range conds {
		ok, err := c.Eval(src)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

// Pool names a player population.
type Pool string

const (
	Batting     Pool = "batting"
	Bowling     Pool = "bowling"
	AllRounders Pool = "allrounders"
)

// lowerIsBetter lists base metrics, per pool, where a smaller value is the
// better performance.
var lowerIsBetter = map[Pool]map[string]bool{
	Batting: {
		"dot_pct":        true,
		"dismissal_rate": true,
	},
	Bowling: {
		"economy":       true,
		"runs_conceded": true,
		"runs":          true,
	},
}

// LowerIsBetter reports whether the base of name is oriented low-good in pool.
func LowerIsBetter(pool Pool, name string) bool {
	base, _ := Split(name)
	return lowerIsBetter[pool][base]
}

// Static is a fixed metric map, useful for tests and for derived tables.
type Static struct {
	Name   string
	Values map[string]float64
}

// Player returns the player name.
func (s Static) Player() string { return s.Name }

// Metric returns the stored value or ErrUnknownMetric.
func (s Static) Metric(name string) (float64, error) {
	v, ok := s.Values[name]
	if !ok {
		return 0, Unknown(name)
	}
	return v, nil
}
