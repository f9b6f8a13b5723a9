package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/ayusman/gesteasy/internal/gesture"
	"github.com/ayusman/gesteasy/internal/plugin"
	"github.com/ayusman/gesteasy/internal/store"
)

// PluginResolver validates plugin/action pairs. *plugin.Manager satisfies it.
type PluginResolver interface {
	Resolve(name, action string) (*plugin.Plugin, error)
}

// BindingHandler handles HTTP requests for binding resources.
type BindingHandler struct {
	store   *store.Store
	plugins PluginResolver
}

// NewBindingHandler creates a new BindingHandler. plugins may be nil, in
// which case plugin and action names are not validated.
func NewBindingHandler(s *store.Store, plugins PluginResolver) *BindingHandler {
	return &BindingHandler{store: s, plugins: plugins}
}

// ServeHTTP routes /api/bindings and /api/bindings/{id}.
func (h *BindingHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id := itemID(r.URL.Path, "/api/bindings")

	if id == "" {
		switch r.Method {
		case http.MethodGet:
			h.list(w, r)
		case http.MethodPost:
			h.create(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.get(w, r, id)
	case http.MethodPut:
		h.update(w, r, id)
	case http.MethodDelete:
		h.delete(w, r, id)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

type createBindingRequest struct {
	Event      string          `json:"event"`
	PluginName string          `json:"plugin"`
	ActionName string          `json:"action"`
	Config     json.RawMessage `json:"config"`
}

type updateBindingRequest struct {
	Event      string          `json:"event"`
	PluginName string          `json:"plugin"`
	ActionName string          `json:"action"`
	Config     json.RawMessage `json:"config"`
	Enabled    *bool           `json:"enabled"`
}

type listBindingsResponse struct {
	Bindings []*store.Binding `json:"bindings"`
}

// parseBindableEvent accepts only events that can carry a binding.
func parseBindableEvent(s string) (gesture.Event, error) {
	e, err := gesture.ParseEvent(s)
	if err != nil {
		return gesture.None, err
	}
	if e == gesture.None {
		return gesture.None, errors.New("event none cannot be bound")
	}
	return e, nil
}

func (h *BindingHandler) validatePlugin(w http.ResponseWriter, name, action string) bool {
	if h.plugins == nil {
		return true
	}
	_, err := h.plugins.Resolve(name, action)
	switch {
	case err == nil:
		return true
	case errors.Is(err, plugin.ErrPluginNotFound):
		writeError(w, http.StatusBadRequest, "Plugin not found")
	case errors.Is(err, plugin.ErrActionNotSupported):
		writeError(w, http.StatusBadRequest, "Action not supported by plugin")
	default:
		writeError(w, http.StatusInternalServerError, "Failed to verify plugin")
	}
	return false
}

// list handles GET /api/bindings and returns all bindings.
func (h *BindingHandler) list(w http.ResponseWriter, r *http.Request) {
	bindings, err := h.store.Bindings().List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list bindings")
		return
	}
	if bindings == nil {
		bindings = []*store.Binding{}
	}
	writeJSON(w, http.StatusOK, listBindingsResponse{Bindings: bindings})
}

// get handles GET /api/bindings/{id} and returns a single binding.
func (h *BindingHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	binding, err := h.store.Bindings().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Binding not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get binding")
		return
	}

	writeJSON(w, http.StatusOK, binding)
}

// create handles POST /api/bindings and creates a new binding.
func (h *BindingHandler) create(w http.ResponseWriter, r *http.Request) {
	var req createBindingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	event, err := parseBindableEvent(req.Event)
	if err != nil {
		writeError(w, http.StatusBadRequest, "event must be click or confirm-navigate")
		return
	}
	if req.PluginName == "" {
		writeError(w, http.StatusBadRequest, "plugin is required")
		return
	}
	if req.ActionName == "" {
		writeError(w, http.StatusBadRequest, "action is required")
		return
	}
	if !h.validatePlugin(w, req.PluginName, req.ActionName) {
		return
	}

	binding := &store.Binding{
		ID:         uuid.New().String(),
		Event:      event,
		PluginName: req.PluginName,
		ActionName: req.ActionName,
		Config:     req.Config,
		Enabled:    true,
	}

	if err := h.store.Bindings().Create(binding); err != nil {
		if errors.Is(err, store.ErrDuplicateEvent) {
			writeError(w, http.StatusConflict, "Event already has a binding")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to create binding")
		return
	}

	writeJSON(w, http.StatusCreated, binding)
}

// update handles PUT /api/bindings/{id} and updates an existing binding.
func (h *BindingHandler) update(w http.ResponseWriter, r *http.Request, id string) {
	binding, err := h.store.Bindings().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Binding not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get binding")
		return
	}

	var req updateBindingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Event != "" {
		event, err := parseBindableEvent(req.Event)
		if err != nil {
			writeError(w, http.StatusBadRequest, "event must be click or confirm-navigate")
			return
		}
		binding.Event = event
	}
	if req.PluginName != "" {
		binding.PluginName = req.PluginName
	}
	if req.ActionName != "" {
		binding.ActionName = req.ActionName
	}
	if req.Config != nil {
		binding.Config = req.Config
	}
	if req.Enabled != nil {
		binding.Enabled = *req.Enabled
	}
	if !h.validatePlugin(w, binding.PluginName, binding.ActionName) {
		return
	}

	if err := h.store.Bindings().Update(binding); err != nil {
		if errors.Is(err, store.ErrDuplicateEvent) {
			writeError(w, http.StatusConflict, "Event already has a binding")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to update binding")
		return
	}

	writeJSON(w, http.StatusOK, binding)
}

// delete handles DELETE /api/bindings/{id} and removes a binding.
func (h *BindingHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.store.Bindings().Delete(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Binding not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete binding")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
