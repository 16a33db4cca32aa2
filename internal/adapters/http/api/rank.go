package api

import (
	"net/http"
	"strings"
)

// RankHandler handles single-player rank requests.
type RankHandler struct {
	deps Dependencies
}

// NewRankHandler creates a new rank handler.
func NewRankHandler(deps Dependencies) *RankHandler {
	return &RankHandler{deps: deps}
}

// HandleGetRank handles GET /rank/{table}/{player} requests.
func (h *RankHandler) HandleGetRank(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_rank"
	q, err := parseTable(r)
	if err != nil {
		writeError(w, Wrap(op, err))
		return
	}
	player := strings.TrimSpace(r.PathValue("player"))
	if player == "" {
		writeError(w, NewKind(op, ErrBadRequest))
		return
	}
	entry, err := h.deps.Rank(r.Context(), q, player)
	if err != nil {
		writeError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, entry)
}
