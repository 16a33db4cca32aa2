// Package normalize rescales a population's metric values so they can be
// blended with fixed weights.
package normalize

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Sentinel kinds.
var (
	ErrUnknownMethod    = errors.New("unknown normalization method")
	ErrUnknownTransform = errors.New("unknown transform")
)

// Method selects a normalization strategy.
type Method string

const (
	MinMaxMethod Method = "minmax"
	ZScoreMethod Method = "zscore"
)

// Apply normalizes xs with the method.
func (m Method) Apply(xs []float64) ([]float64, error) {
	switch m {
	case MinMaxMethod, "":
		return MinMax(xs), nil
	case ZScoreMethod:
		return ZScore(xs), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownMethod, m)
}

// Valid reports whether m is known; the empty method means min-max.
func (m Method) Valid() bool {
	return m == "" || m == MinMaxMethod || m == ZScoreMethod
}

// MinMax maps xs onto [0,1]. A constant, single-element or empty input maps to
// all zeros.
func MinMax(xs []float64) []float64 {
	clean := sanitize(xs)
	out := make([]float64, len(clean))
	if len(clean) < 2 {
		return out
	}
	lo, hi := floats.Min(clean), floats.Max(clean)
	span := hi - lo
	if span == 0 {
		return out
	}
	for i, x := range clean {
		out[i] = (x - lo) / span
	}
	return out
}

// ZScore centres xs on the mean in units of the sample standard deviation.
// Zero or undefined deviation maps to all zeros.
func ZScore(xs []float64) []float64 {
	clean := sanitize(xs)
	out := make([]float64, len(clean))
	if len(clean) < 2 {
		return out
	}
	mean, sd := stat.MeanStdDev(clean, nil)
	if sd == 0 || math.IsNaN(sd) || math.IsInf(sd, 0) {
		return out
	}
	for i, x := range clean {
		out[i] = (x - mean) / sd
	}
	return out
}

// sanitize copies xs with NaN and infinities replaced by 0.
func sanitize(xs []float64) []float64 {
	out := make([]float64, len(xs))
	for i, x := range xs {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			continue
		}
		out[i] = x
	}
	return out
}

// Transform reorients a raw value before normalization so that higher means
// better.
type Transform string

const (
	None       Transform = ""
	Inverse    Transform = "inverse"
	Negate     Transform = "negate"
	Complement Transform = "complement"
)

// Valid reports whether t is known.
func (t Transform) Valid() bool {
	switch t {
	case None, Inverse, Negate, Complement:
		return true
	}
	return false
}

// Apply transforms x. Inverse of 0 is 0.
func (t Transform) Apply(x float64) float64 {
	switch t {
	case Inverse:
		if x == 0 {
			return 0
		}
		return 1 / x
	case Negate:
		return -x
	case Complement:
		return 1 - x
	}
	return x
}

// Reorients reports whether t flips the ordering of its input.
func (t Transform) Reorients() bool {
	return t == Inverse || t == Negate || t == Complement
}
