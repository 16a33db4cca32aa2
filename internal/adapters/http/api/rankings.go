package api

import (
	"net/http"
	"strconv"
)

const defaultLimit = 10

// RankingsHandler handles ranked table requests.
type RankingsHandler struct {
	deps     Dependencies
	maxLimit int
}

// NewRankingsHandler creates a rankings handler capped at maxLimit rows.
func NewRankingsHandler(deps Dependencies, maxLimit int) *RankingsHandler {
	return &RankingsHandler{deps: deps, maxLimit: maxLimit}
}

type rankingsResponse struct {
	Table   string  `json:"table"`
	Context string  `json:"context,omitempty"`
	Entries []Entry `json:"entries"`
}

// HandleGetRankings handles GET /rankings/{table}?limit=N&context=C requests.
func (h *RankingsHandler) HandleGetRankings(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_rankings"
	q, err := parseTable(r)
	if err != nil {
		writeError(w, Wrap(op, err))
		return
	}
	n := defaultLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err = strconv.Atoi(raw); err != nil || n < 1 {
			writeError(w, NewKindf(op, ErrBadRequest, "limit %q", raw))
			return
		}
	}
	if n > h.maxLimit {
		writeError(w, NewKindf(op, ErrLimitExceeded, "limit %d above %d", n, h.maxLimit))
		return
	}
	entries, err := h.deps.TopN(r.Context(), q, n)
	if err != nil {
		writeError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, rankingsResponse{Table: r.PathValue("table"), Context: q.Context, Entries: entries})
}
