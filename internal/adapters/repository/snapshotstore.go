package repository

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/okian/crease/internal/domain/analysis"
	"github.com/okian/crease/internal/domain/scoring"
	"github.com/okian/crease/internal/domain/selection"
	"github.com/okian/crease/internal/domain/types"
	"github.com/okian/crease/pkg/metrics"
)

// Snapshot is an immutable, query-ready view of one analysis result.
type Snapshot struct {
	PublishedAt time.Time
	Summary     analysis.Summary

	tables  map[tableKey]*ranked
	scores  map[tableKey][]string // context/pool -> score names, score left empty
	rosters map[string]selection.Roster
}

type tableKey struct {
	context string
	pool    string
	score   string
}

// ranked is one table ordered for one score.
type ranked struct {
	entries []types.Entry
	index   map[string]int // player -> position in entries
}

// SnapshotStore publishes results atomically. Readers never block a publish
// and always see a complete snapshot.
type SnapshotStore struct {
	snapshot atomic.Pointer[Snapshot]
	now      func() time.Time
	byName   bool
}

// NewSnapshotStore creates an empty store.
func NewSnapshotStore(opts ...Option) *SnapshotStore {
	s := &SnapshotStore{now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Publish builds a snapshot from res and swaps it in.
func (s *SnapshotStore) Publish(ctx context.Context, res *analysis.Result) error {
	if res == nil {
		return fmt.Errorf("publish: %w", ErrNoSnapshot)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	snap := &Snapshot{
		PublishedAt: s.now(),
		Summary:     res.Summary,
		tables:      make(map[tableKey]*ranked),
		scores:      make(map[tableKey][]string),
		rosters:     make(map[string]selection.Roster, len(res.Rosters)),
	}
	for cx, tables := range res.Contexts {
		for _, t := range []scoring.Table{tables.Batting, tables.Bowling, tables.AllRounders} {
			pool := string(t.Pool)
			names := t.ScoreNames()
			snap.scores[tableKey{context: cx, pool: pool}] = names
			for _, score := range names {
				snap.tables[tableKey{context: cx, pool: pool, score: score}] = rank(t, score, s.byName)
			}
		}
	}
	for cx, r := range res.Rosters {
		snap.rosters[cx] = r
	}
	s.snapshot.Store(snap)
	metrics.RecordSnapshotPublished(snap.PublishedAt.Unix())
	return nil
}

func rank(t scoring.Table, score string, byName bool) *ranked {
	rows := t.Ranked(score, byName)
	out := &ranked{
		entries: make([]types.Entry, len(rows)),
		index:   make(map[string]int, len(rows)),
	}
	for i, r := range rows {
		out.entries[i] = types.Entry{Player: r.Player, Role: r.Role, Kind: r.Kind, Score: r.Score(score)}
		out.index[r.Player] = i
	}
	types.AssignRanks(out.entries)
	return out
}

// Current returns the published snapshot, or nil.
func (s *SnapshotStore) Current() *Snapshot {
	return s.snapshot.Load()
}

func (s *SnapshotStore) table(q Query) (*ranked, error) {
	snap := s.snapshot.Load()
	if snap == nil {
		return nil, ErrNoSnapshot
	}
	cx := q.Context
	if cx == "" {
		cx = scoring.DefaultContext
	}
	score := q.Score
	if score == "" {
		names, ok := snap.scores[tableKey{context: cx, pool: string(q.Pool)}]
		if !ok || len(names) == 0 {
			return nil, fmt.Errorf("%w: %s/%s", ErrUnknownTable, cx, q.Pool)
		}
		score = names[0]
	}
	t, ok := snap.tables[tableKey{context: cx, pool: string(q.Pool), score: score}]
	if !ok {
		return nil, fmt.Errorf("%w: %s/%s/%s", ErrUnknownTable, cx, q.Pool, score)
	}
	return t, nil
}

// TopN returns the top n entries ordered by score desc.
func (s *SnapshotStore) TopN(_ context.Context, q Query, n int) ([]types.Entry, error) {
	start := time.Now()
	defer func() {
		metrics.RecordRepositoryQueryLatency(float64(time.Since(start).Microseconds()) / 1000)
	}()

	if n < 1 {
		metrics.RecordErrorByComponent("repository", "invalid_limit")
		return nil, ErrInvalidLimit
	}
	t, err := s.table(q)
	if err != nil {
		return nil, err
	}
	if n > len(t.entries) {
		n = len(t.entries)
	}
	out := make([]types.Entry, n)
	copy(out, t.entries[:n])
	return out, nil
}

// Rank returns the entry for player.
func (s *SnapshotStore) Rank(_ context.Context, q Query, player string) (types.Entry, error) {
	start := time.Now()
	defer func() {
		metrics.RecordRepositoryQueryLatency(float64(time.Since(start).Microseconds()) / 1000)
	}()

	t, err := s.table(q)
	if err != nil {
		return types.Entry{}, err
	}
	i, ok := t.index[player]
	if !ok {
		metrics.RecordErrorByComponent("repository", "not_found")
		return types.Entry{}, fmt.Errorf("%w: %s", ErrNotFound, player)
	}
	return t.entries[i], nil
}

// Count returns the number of players in a table.
func (s *SnapshotStore) Count(_ context.Context, q Query) (int, error) {
	t, err := s.table(q)
	if err != nil {
		return 0, err
	}
	return len(t.entries), nil
}

// Roster returns the roster for a context; empty means the default context.
func (s *SnapshotStore) Roster(_ context.Context, cx string) (selection.Roster, error) {
	snap := s.snapshot.Load()
	if snap == nil {
		return selection.Roster{}, ErrNoSnapshot
	}
	if cx == "" {
		cx = scoring.DefaultContext
	}
	r, ok := snap.rosters[cx]
	if !ok {
		return selection.Roster{}, fmt.Errorf("%w: roster %s", ErrUnknownTable, cx)
	}
	return r, nil
}

// Summary returns the counts of the published run.
func (s *SnapshotStore) Summary(_ context.Context) (analysis.Summary, error) {
	snap := s.snapshot.Load()
	if snap == nil {
		return analysis.Summary{}, ErrNoSnapshot
	}
	return snap.Summary, nil
}
