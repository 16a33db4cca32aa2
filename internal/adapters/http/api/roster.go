package api

import (
	"net/http"
)

// RosterHandler serves the selected roster per context.
type RosterHandler struct {
	deps Dependencies
}

// NewRosterHandler creates a new roster handler.
func NewRosterHandler(deps Dependencies) *RosterHandler {
	return &RosterHandler{deps: deps}
}

// HandleGetRoster handles GET /roster?context=C requests.
func (h *RosterHandler) HandleGetRoster(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_roster"
	roster, err := h.deps.Roster(r.Context(), r.URL.Query().Get("context"))
	if err != nil {
		writeError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, roster)
}
