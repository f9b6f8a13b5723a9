// Package server provides the HTTP server for the gesteasy control surface.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ayusman/gesteasy/internal/plugin"
	"github.com/ayusman/gesteasy/internal/server/api"
	"github.com/ayusman/gesteasy/internal/store"
)

// Plugins is the subset of *plugin.Manager the server needs.
type Plugins interface {
	Resolve(name, action string) (*plugin.Plugin, error)
	List() []*plugin.Plugin
}

// Config holds the server configuration.
type Config struct {
	StaticDir  string
	Store      *store.Store
	Controller api.Controller
	Plugins    Plugins
	Hub        *Hub
}

// Server represents the HTTP server for the gesteasy application.
type Server struct {
	config Config
	mux    *http.ServeMux
	start  time.Time
}

// New creates a new Server with the given configuration.
func New(config Config) *Server {
	s := &Server{
		config: config,
		mux:    http.NewServeMux(),
		start:  time.Now(),
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes for the server.
func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)

	if s.config.Controller != nil {
		modeHandler := api.NewModeHandler(s.config.Controller)
		s.mux.HandleFunc("/api/mode", modeHandler.ServeMode)
		s.mux.HandleFunc("/api/pointer-click", modeHandler.ServePointerClick)
	}

	if s.config.Store != nil {
		eventHandler := api.NewEventHandler(s.config.Store)
		s.mux.HandleFunc("/api/events", eventHandler.ServeEvents)
		s.mux.HandleFunc("/api/sessions", eventHandler.ServeSessions)

		bindingHandler := api.NewBindingHandler(s.config.Store, s.config.Plugins)
		s.mux.Handle("/api/bindings", bindingHandler)
		s.mux.Handle("/api/bindings/", bindingHandler)
	}

	if s.config.Plugins != nil {
		s.mux.Handle("/api/plugins", api.NewPluginHandler(s.config.Plugins))
	}

	if s.config.Hub != nil {
		s.mux.Handle("/api/ws", s.config.Hub)
	}

	// Serve static files if StaticDir is configured
	if s.config.StaticDir != "" {
		fs := http.FileServer(http.Dir(s.config.StaticDir))
		s.mux.Handle("/", fs)
	}
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// handleHealth handles GET requests to /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := map[string]interface{}{
		"status": "ok",
		"uptime": time.Since(s.start).String(),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

// ListenAndServe starts the HTTP server on the given address.
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s)
}
