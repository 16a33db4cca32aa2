// Package ingest loads ball-by-ball scorecards from a directory of JSON files
// and flattens them into deliveries.
package ingest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/okian/crease/internal/domain/dedupe"
	"github.com/okian/crease/internal/domain/model"
	"github.com/okian/crease/pkg/logger"
	"github.com/okian/crease/pkg/metrics"
)

// Batch is the outcome of one directory scan.
type Batch struct {
	Matches    []model.Match
	Deliveries []model.Delivery
	// Duplicates lists files skipped because their match was already loaded.
	Duplicates []string
}

// Option customizes LoadDir.
type Option func(*loader)

type loader struct {
	deduper dedupe.Deduper
	strict  bool
}

// WithDeduper supplies the identity tracker. Sharing one across scans skips
// matches loaded by an earlier scan.
func WithDeduper(d dedupe.Deduper) Option {
	return func(l *loader) {
		if d != nil {
			l.deduper = d
		}
	}
}

// WithStrict makes any undecodable or malformed file fail the scan. By
// default such files are logged and skipped.
func WithStrict(strict bool) Option {
	return func(l *loader) {
		l.strict = strict
	}
}

// LoadDir reads every *.json file in dir in name order. The match id is the
// file name without its extension.
func LoadDir(ctx context.Context, dir string, opts ...Option) (*Batch, error) {
	l := &loader{deduper: dedupe.NewInMemoryDeduper()}
	for _, opt := range opts {
		opt(l)
	}
	log := logger.Named("ingest")

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrReadDir, dir, err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() && strings.EqualFold(filepath.Ext(e.Name()), ".json") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	b := &Batch{}
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		id := strings.TrimSuffix(name, filepath.Ext(name))
		m, rows, err := l.loadFile(ctx, filepath.Join(dir, name), id)
		switch {
		case err == nil && m == nil:
			b.Duplicates = append(b.Duplicates, name)
			metrics.RecordMatchDuplicate()
			log.Debug(ctx, "duplicate match skipped", logger.String("file", name))
		case err != nil:
			metrics.RecordMatchRejected()
			if l.strict {
				return nil, err
			}
			log.Warn(ctx, "match file skipped", logger.String("file", name), logger.Error(err))
		default:
			b.Matches = append(b.Matches, *m)
			b.Deliveries = append(b.Deliveries, rows...)
			metrics.RecordMatchIngested(len(rows))
		}
	}
	log.Info(ctx, "match directory loaded",
		logger.String("dir", dir),
		logger.Int("matches", len(b.Matches)),
		logger.Int("deliveries", len(b.Deliveries)),
		logger.Int("duplicates", len(b.Duplicates)))
	return b, nil
}

// loadFile returns a nil match without error for a duplicate.
func (l *loader) loadFile(ctx context.Context, path, id string) (*model.Match, []model.Delivery, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %s: %w", ErrDecodeFile, path, err)
	}
	m, err := decode(id, raw)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %s: %w", ErrDecodeFile, path, err)
	}
	key := Identity(m.Info)
	if l.deduper.SeenAndRecord(ctx, key) {
		return nil, nil, nil
	}
	rows, err := model.Flatten([]model.Match{m})
	if err != nil {
		l.deduper.Forget(ctx, key)
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	return &m, rows, nil
}

// Identity keys a match by event, match number, first date and teams, so the
// same fixture stored under two file names is recognised.
func Identity(info model.MatchInfo) string {
	teams := append([]string(nil), info.Teams...)
	sort.Strings(teams)
	date := ""
	if len(info.Dates) > 0 {
		date = info.Dates[0]
	}
	return strings.Join([]string{info.EventName, strconv.Itoa(info.MatchNumber), date, strings.Join(teams, "|")}, "/")
}
