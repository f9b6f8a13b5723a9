package api

import (
	"net/http"
	"strconv"

	"github.com/ayusman/gesteasy/internal/store"
)

// Limits for GET /api/events.
const (
	DefaultEventLimit = 50
	MaxEventLimit     = 500
)

// EventHandler serves recorded gesture events and sessions.
type EventHandler struct {
	store *store.Store
}

// NewEventHandler creates a new EventHandler with the given store.
func NewEventHandler(s *store.Store) *EventHandler {
	return &EventHandler{store: s}
}

type listEventsResponse struct {
	Events []*store.Event `json:"events"`
}

type listSessionsResponse struct {
	Sessions []*store.Session `json:"sessions"`
}

// ServeEvents handles GET /api/events?limit=N[&session=ID].
func (h *EventHandler) ServeEvents(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var (
		events []*store.Event
		err    error
	)
	if session := r.URL.Query().Get("session"); session != "" {
		events, err = h.store.Events().BySession(session)
	} else {
		limit, perr := parseLimit(r.URL.Query().Get("limit"))
		if perr != nil {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		events, err = h.store.Events().Recent(limit)
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list events")
		return
	}

	if events == nil {
		events = []*store.Event{}
	}
	writeJSON(w, http.StatusOK, listEventsResponse{Events: events})
}

// ServeSessions handles GET /api/sessions.
func (h *EventHandler) ServeSessions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	sessions, err := h.store.Sessions().List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list sessions")
		return
	}
	if sessions == nil {
		sessions = []*store.Session{}
	}
	writeJSON(w, http.StatusOK, listSessionsResponse{Sessions: sessions})
}

func parseLimit(raw string) (int, error) {
	if raw == "" {
		return DefaultEventLimit, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, strconv.ErrSyntax
	}
	return min(n, MaxEventLimit), nil
}
