// Package repository holds the published analysis result and answers ranking
// queries against it.
package repository

import (
	"context"

	"github.com/okian/crease/internal/domain/analysis"
	"github.com/okian/crease/internal/domain/metric"
	"github.com/okian/crease/internal/domain/selection"
	"github.com/okian/crease/internal/domain/types"
)

// Query names one ranked table: a context, a pool and a score. An empty
// Context means the default context; an empty Score means the table's first
// score.
type Query struct {
	Context string
	Pool    metric.Pool
	Score   string
}

// Store provides read access to the latest published result.
type Store interface {
	// Publish replaces the current result.
	Publish(ctx context.Context, res *analysis.Result) error

	// TopN returns the top-n entries of a table.
	TopN(ctx context.Context, q Query, n int) ([]types.Entry, error)

	// Rank returns one player's entry in a table.
	// Returns ErrNotFound if the player is not in the table.
	Rank(ctx context.Context, q Query, player string) (types.Entry, error)

	// Count returns the number of players in a table.
	Count(ctx context.Context, q Query) (int, error)

	// Roster returns the roster selected for a context.
	Roster(ctx context.Context, cx string) (selection.Roster, error)

	// Summary returns the counts of the published run.
	Summary(ctx context.Context) (analysis.Summary, error)
}
