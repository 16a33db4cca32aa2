// Package service runs the scoring pipeline over loaded matches, publishes the
// result and implements the dependencies required by the HTTP API.
package service

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/okian/crease/internal/adapters/ingest"
	"github.com/okian/crease/internal/adapters/repository"
	"github.com/okian/crease/internal/domain/analysis"
	"github.com/okian/crease/internal/domain/dedupe"
	"github.com/okian/crease/internal/domain/metric"
	"github.com/okian/crease/internal/domain/model"
	"github.com/okian/crease/internal/domain/selection"
	"github.com/okian/crease/internal/domain/types"
	"github.com/okian/crease/pkg/logger"
	"github.com/okian/crease/pkg/metrics"
)

// Service owns the published result.
type Service struct {
	mu sync.RWMutex

	store    *repository.SnapshotStore
	settings analysis.Settings

	// Configuration
	dataDir    string
	dedupeSize int
	strict     bool

	// State
	runs         int
	lastRun      time.Time
	lastDuration time.Duration
	lastBatch    batchStats

	logger logger.Logger
}

type batchStats struct {
	matches    int
	deliveries int
	duplicates int
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithSettings sets the analysis settings.
func WithSettings(s analysis.Settings) Option {
	return func(svc *Service) {
		svc.settings = s
	}
}

// WithDataDir sets the directory scanned by LoadAndAnalyze.
func WithDataDir(dir string) Option {
	return func(s *Service) {
		if dir != "" {
			s.dataDir = dir
		}
	}
}

// WithDedupeSize bounds the match identities remembered per load.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithStrictIngest fails a load on the first bad match file.
func WithStrictIngest(strict bool) Option {
	return func(s *Service) {
		s.strict = strict
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a Service with the default settings.
func New(opts ...Option) *Service {
	s := &Service{
		settings:   analysis.DefaultSettings(),
		dataDir:    "data",
		dedupeSize: 50_000,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	s.store = repository.NewSnapshotStore(repository.WithTieBreak(s.settings.Plan.TieBreak))
	return s
}

// LoadAndAnalyze scans the data directory and analyses what it finds.
func (s *Service) LoadAndAnalyze(ctx context.Context) (*analysis.Result, error) {
	batch, err := ingest.LoadDir(ctx, s.dataDir,
		ingest.WithDeduper(dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.dedupeSize))),
		ingest.WithStrict(s.strict),
	)
	if err != nil {
		metrics.RecordAnalysisError()
		return nil, fmt.Errorf("load %s: %w", s.dataDir, err)
	}
	s.mu.Lock()
	s.lastBatch = batchStats{
		matches:    len(batch.Matches),
		deliveries: len(batch.Deliveries),
		duplicates: len(batch.Duplicates),
	}
	s.mu.Unlock()
	return s.Analyze(ctx, batch.Deliveries)
}

// Analyze runs the pipeline over deliveries and publishes the result. The
// previous result stays published if the run fails.
func (s *Service) Analyze(ctx context.Context, deliveries []model.Delivery) (*analysis.Result, error) {
	start := time.Now()
	res, err := analysis.Run(ctx, deliveries, s.settings,
		analysis.WithStageObserver(func(stage string, d time.Duration) {
			metrics.RecordStageDuration(stage, float64(d.Microseconds())/1000)
			s.logger.Debug(ctx, "stage finished", logger.String("stage", stage), logger.Duration("took", d))
		}))
	if err != nil {
		metrics.RecordAnalysisError()
		s.logger.Error(ctx, "analysis failed", logger.Error(err))
		return nil, err
	}
	if err := s.store.Publish(ctx, res); err != nil {
		metrics.RecordAnalysisError()
		return nil, fmt.Errorf("publish: %w", err)
	}
	took := time.Since(start)

	sum := res.Summary
	metrics.RecordAnalysisRun()
	metrics.UpdatePlayers(string(metric.Batting), "aggregated", sum.Batters)
	metrics.UpdatePlayers(string(metric.Batting), "eligible", sum.EligibleBatters)
	metrics.UpdatePlayers(string(metric.Bowling), "aggregated", sum.Bowlers)
	metrics.UpdatePlayers(string(metric.Bowling), "eligible", sum.EligibleBowlers)
	metrics.UpdatePlayers(string(metric.AllRounders), "eligible", sum.AllRounders)
	for _, cx := range sum.Contexts {
		r := res.Rosters[cx]
		metrics.UpdateRoster(cx, len(r.Picks), r.Shortfall)
		if r.Shortfall > 0 {
			s.logger.Warn(ctx, "roster short of target",
				logger.String("context", cx),
				logger.Int("picked", len(r.Picks)),
				logger.Int("target", r.Target),
				logger.Int("shortfall", r.Shortfall))
		}
	}

	s.mu.Lock()
	s.runs++
	s.lastRun = start
	s.lastDuration = took
	s.mu.Unlock()

	s.logger.Info(ctx, "analysis published",
		logger.Int("deliveries", sum.Deliveries),
		logger.Int("matches", sum.Matches),
		logger.Int("eligible_batters", sum.EligibleBatters),
		logger.Int("eligible_bowlers", sum.EligibleBowlers),
		logger.Int("allrounders", sum.AllRounders),
		logger.Strings("contexts", sum.Contexts),
		logger.Duration("took", took))
	return res, nil
}

// TopN returns the top n entries of a table.
func (s *Service) TopN(ctx context.Context, q repository.Query, n int) ([]types.Entry, error) {
	return s.store.TopN(ctx, q, n)
}

// Rank returns one player's entry in a table.
func (s *Service) Rank(ctx context.Context, q repository.Query, player string) (types.Entry, error) {
	return s.store.Rank(ctx, q, player)
}

// Roster returns the roster selected for a context.
func (s *Service) Roster(ctx context.Context, cx string) (selection.Roster, error) {
	return s.store.Roster(ctx, cx)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]any {
	s.mu.RLock()
	stats := map[string]any{
		"data_dir":   s.dataDir,
		"runs":       s.runs,
		"matches":    s.lastBatch.matches,
		"duplicates": s.lastBatch.duplicates,
	}
	if s.runs > 0 {
		stats["last_run"] = s.lastRun.UTC().Format(time.RFC3339)
		stats["last_duration_ms"] = s.lastDuration.Milliseconds()
	}
	s.mu.RUnlock()

	if sum, err := s.store.Summary(context.Background()); err == nil {
		stats["summary"] = sum
	}

	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	goroutines := runtime.NumGoroutine()
	stats["goroutines"] = goroutines
	stats["heap_bytes"] = ms.HeapAlloc
	metrics.UpdateSystemMemoryUsage(ms.HeapAlloc)
	metrics.UpdateSystemGoroutineCount(goroutines)
	if ms.NumGC > 0 {
		metrics.RecordSystemGCPauseTime(float64(ms.PauseNs[(ms.NumGC+255)%256]) / 1e6)
	}
	return stats
}
