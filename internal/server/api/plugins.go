package api

import (
	"net/http"

	"github.com/ayusman/gesteasy/internal/plugin"
)

// PluginLister lists discovered plugins. *plugin.Manager satisfies it.
type PluginLister interface {
	List() []*plugin.Plugin
}

type listPluginsResponse struct {
	Plugins []plugin.Manifest `json:"plugins"`
}

// PluginHandler serves GET /api/plugins.
type PluginHandler struct {
	plugins PluginLister
}

// NewPluginHandler creates a PluginHandler.
func NewPluginHandler(plugins PluginLister) *PluginHandler {
	return &PluginHandler{plugins: plugins}
}

func (h *PluginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	plugins := h.plugins.List()
	response := listPluginsResponse{Plugins: make([]plugin.Manifest, 0, len(plugins))}
	for _, p := range plugins {
		response.Plugins = append(response.Plugins, p.Manifest)
	}
	writeJSON(w, http.StatusOK, response)
}
