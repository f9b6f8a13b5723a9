package api

import (
	"encoding/json"
	"net/http"

	"github.com/ayusman/gesteasy/internal/gesture"
)

// Status is a snapshot of the gesture pipeline.
type Status struct {
	Active     bool          `json:"active"`
	Suppressed bool          `json:"suppressed"`
	Phase      gesture.Phase `json:"phase"`
	SessionID  string        `json:"session_id,omitempty"`
}

// Controller toggles gesture mode and reports pipeline state.
type Controller interface {
	SetActive(active bool) error
	NotePointerClick()
	Status() Status
}

// ModeHandler serves /api/mode and /api/pointer-click.
type ModeHandler struct {
	ctrl Controller
}

// NewModeHandler creates a ModeHandler for ctrl.
func NewModeHandler(ctrl Controller) *ModeHandler {
	return &ModeHandler{ctrl: ctrl}
}

type setModeRequest struct {
	Active *bool `json:"active"`
}

// ServeMode handles GET and PUT /api/mode.
func (h *ModeHandler) ServeMode(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, h.ctrl.Status())
	case http.MethodPut:
		var req setModeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid JSON")
			return
		}
		if req.Active == nil {
			writeError(w, http.StatusBadRequest, "active is required")
			return
		}
		if err := h.ctrl.SetActive(*req.Active); err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to set gesture mode")
			return
		}
		writeJSON(w, http.StatusOK, h.ctrl.Status())
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// ServePointerClick handles POST /api/pointer-click, reported by the UI
// whenever a real pointer click lands so gesture frames can be suppressed.
func (h *ModeHandler) ServePointerClick(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	h.ctrl.NotePointerClick()
	writeJSON(w, http.StatusOK, h.ctrl.Status())
}
