// Package phase maps over numbers to named innings phases.
package phase

import (
	"errors"
	"fmt"
)

// LastOver is the final over index of a twenty-over innings.
const LastOver = 19

// Common labels.
const (
	Powerplay   = "Powerplay"
	Middle      = "Middle"
	EarlyMiddle = "EarlyMiddle"
	LateMiddle  = "LateMiddle"
	Death       = "Death"
)

// ErrInvalidScheme is returned for cutoff tables that do not partition the innings.
var ErrInvalidScheme = errors.New("invalid phase scheme")

// Boundary closes a phase: every over up to and including MaxOver that is not
// claimed by an earlier boundary belongs to Label.
type Boundary struct {
	MaxOver int    `koanf:"max_over"`
	Label   string `koanf:"label"`
}

// Scheme is an ordered, validated list of boundaries.
type Scheme struct {
	bounds []Boundary
}

// NewScheme validates bounds and returns a scheme. Cutoffs must be strictly
// ascending and non-negative, labels non-empty and unique, and the last cutoff
// must reach LastOver so the scheme has no gaps.
func NewScheme(bounds []Boundary) (Scheme, error) {
	if len(bounds) == 0 {
		return Scheme{}, fmt.Errorf("%w: no boundaries", ErrInvalidScheme)
	}
	seen := make(map[string]struct{}, len(bounds))
	prev := -1
	for i, b := range bounds {
		if b.Label == "" {
			return Scheme{}, fmt.Errorf("%w: boundary %d has no label", ErrInvalidScheme, i)
		}
		if _, dup := seen[b.Label]; dup {
			return Scheme{}, fmt.Errorf("%w: duplicate label %q", ErrInvalidScheme, b.Label)
		}
		seen[b.Label] = struct{}{}
		if b.MaxOver <= prev {
			return Scheme{}, fmt.Errorf("%w: cutoff %d for %q is not above %d", ErrInvalidScheme, b.MaxOver, b.Label, prev)
		}
		prev = b.MaxOver
	}
	if prev < LastOver {
		return Scheme{}, fmt.Errorf("%w: last cutoff %d leaves overs up to %d unlabelled", ErrInvalidScheme, prev, LastOver)
	}
	out := make([]Boundary, len(bounds))
	copy(out, bounds)
	return Scheme{bounds: out}, nil
}

// MustScheme is NewScheme for static tables; it panics on error.
func MustScheme(bounds []Boundary) Scheme {
	s, err := NewScheme(bounds)
	if err != nil {
		panic(err)
	}
	return s
}

// ThreePhase is the 0-5 / 6-14 / 15-19 split.
func ThreePhase() Scheme {
	return MustScheme([]Boundary{
		{MaxOver: 5, Label: Powerplay},
		{MaxOver: 14, Label: Middle},
		{MaxOver: 19, Label: Death},
	})
}

// FourPhase splits the middle overs at 9.
func FourPhase() Scheme {
	return MustScheme([]Boundary{
		{MaxOver: 5, Label: Powerplay},
		{MaxOver: 9, Label: EarlyMiddle},
		{MaxOver: 14, Label: LateMiddle},
		{MaxOver: 19, Label: Death},
	})
}

// Classify returns the phase of a 0-based over. Negative overs fall in the
// first phase and overs past the last cutoff in the last one.
func (s Scheme) Classify(over int) string {
	for _, b := range s.bounds {
		if over <= b.MaxOver {
			return b.Label
		}
	}
	if len(s.bounds) == 0 {
		return ""
	}
	return s.bounds[len(s.bounds)-1].Label
}

// Labels returns phase labels in innings order.
func (s Scheme) Labels() []string {
	out := make([]string, len(s.bounds))
	for i, b := range s.bounds {
		out[i] = b.Label
	}
	return out
}

// Has reports whether label is one of the scheme's phases.
func (s Scheme) Has(label string) bool {
	for _, b := range s.bounds {
		if b.Label == label {
			return true
		}
	}
	return false
}

// Boundaries returns a copy of the cutoff table.
func (s Scheme) Boundaries() []Boundary {
	out := make([]Boundary, len(s.bounds))
	copy(out, s.bounds)
	return out
}
