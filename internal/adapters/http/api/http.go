// Package api serves the published scoring results over read-only HTTP.
package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	jsoniter "github.com/json-iterator/go"

	"github.com/okian/crease/internal/adapters/repository"
	"github.com/okian/crease/internal/domain/metric"
	"github.com/okian/crease/internal/domain/selection"
	"github.com/okian/crease/internal/domain/types"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Dependencies required by HTTP handlers.
type Dependencies interface {
	TopN(ctx context.Context, q repository.Query, n int) ([]Entry, error)
	Rank(ctx context.Context, q repository.Query, player string) (Entry, error)
	Roster(ctx context.Context, cx string) (selection.Roster, error)
}

// Entry mirrors the read shape returned by ranking queries.
type Entry = types.Entry

// Server wires HTTP routes for the read API.
type Server struct {
	healthHandler   *HealthHandler
	statsHandler    *StatsHandler
	rankingsHandler *RankingsHandler
	rankHandler     *RankHandler
	rosterHandler   *RosterHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxLimit int) *Server {
	return &Server{
		healthHandler:   NewHealthHandler(),
		statsHandler:    NewStatsHandler(statsProvider),
		rankingsHandler: NewRankingsHandler(deps, maxLimit),
		rankHandler:     NewRankHandler(deps),
		rosterHandler:   NewRosterHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("GET /stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("GET /rankings/{table}", MetricsMiddleware(s.rankingsHandler.HandleGetRankings, "rankings"))
	mux.HandleFunc("GET /rank/{table}/{player}", MetricsMiddleware(s.rankHandler.HandleGetRank, "rank"))
	mux.HandleFunc("GET /roster", MetricsMiddleware(s.rosterHandler.HandleGetRoster, "roster"))
}

// parseTable reads "pool" or "pool.score" with the context from the query.
func parseTable(r *http.Request) (repository.Query, error) {
	table := r.PathValue("table")
	poolName, score, _ := strings.Cut(table, ".")
	pool := metric.Pool(poolName)
	switch pool {
	case metric.Batting, metric.Bowling, metric.AllRounders:
	default:
		return repository.Query{}, fmt.Errorf("%w: unknown pool %q", ErrBadRequest, poolName)
	}
	return repository.Query{
		Context: r.URL.Query().Get("context"),
		Pool:    pool,
		Score:   score,
	}, nil
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	status, code := statusFor(err)
	writeJSON(w, status, errorResponse{Code: code, Message: err.Error()})
}
