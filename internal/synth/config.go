// Package synth generates deterministic T20 scorecards in the on-disk format
// read by the ingest adapter. It feeds local runs and end-to-end tests.
package synth

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidConfig is returned when a Config cannot produce matches.
var ErrInvalidConfig = errors.New("invalid synth config")

// Config controls a generated season.
type Config struct {
	Matches int      // number of fixtures
	Teams   []string // at least two; fixtures cycle through every pairing
	Venues  []string // picked per fixture
	Event   string
	Season  string
	Start   time.Time // date of the first fixture; one fixture per day
	Seed    uint64

	// Spinners per squad; the rest of the attack is pace.
	Spinners int
}

// DefaultConfig returns a four-team season of twelve fixtures.
func DefaultConfig() Config {
	return Config{
		Matches:  12,
		Teams:    []string{"Falcons", "Kites", "Herons", "Swifts"},
		Venues:   []string{"Narendra Modi Stadium, Ahmedabad", "R Premadasa Stadium, Colombo", "Sharjah Cricket Stadium"},
		Event:    "Crease Invitational",
		Season:   "2025",
		Start:    time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC),
		Seed:     1,
		Spinners: 2,
	}
}

func (c Config) validate() error {
	switch {
	case c.Matches < 0:
		return fmt.Errorf("%w: matches must not be negative", ErrInvalidConfig)
	case len(c.Teams) < 2:
		return fmt.Errorf("%w: need at least two teams", ErrInvalidConfig)
	case len(c.Venues) == 0:
		return fmt.Errorf("%w: need at least one venue", ErrInvalidConfig)
	case c.Spinners < 0 || c.Spinners > attackSize:
		return fmt.Errorf("%w: spinners must be within 0..%d", ErrInvalidConfig, attackSize)
	}
	seen := make(map[string]struct{}, len(c.Teams))
	for _, t := range c.Teams {
		if t == "" {
			return fmt.Errorf("%w: empty team name", ErrInvalidConfig)
		}
		if _, dup := seen[t]; dup {
			return fmt.Errorf("%w: duplicate team %q", ErrInvalidConfig, t)
		}
		seen[t] = struct{}{}
	}
	return nil
}
