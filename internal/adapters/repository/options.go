package repository

import (
	"time"

	"github.com/okian/crease/internal/domain/selection"
)

// Option applies a configuration option to the SnapshotStore.
type Option func(*SnapshotStore)

// WithClock sets the time source used to stamp snapshots.
func WithClock(now func() time.Time) Option {
	return func(s *SnapshotStore) {
		if now != nil {
			s.now = now
		}
	}
}

// WithTieBreak sets how equal scores are ordered in published tables. It
// should match the roster plan so rankings and picks agree.
func WithTieBreak(tb selection.TieBreak) Option {
	return func(s *SnapshotStore) {
		s.byName = tb == selection.ByName
	}
}
