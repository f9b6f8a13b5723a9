package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestPluginHandler_List(t *testing.T) {
	h := NewPluginHandler(pointerPlugins())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/plugins", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	var response listPluginsResponse
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(response.Plugins) != 1 || response.Plugins[0].Name != "pointer" {
		t.Fatalf("unexpected plugins %+v", response.Plugins)
	}
	if len(response.Plugins[0].Actions) != 3 {
		t.Errorf("expected 3 actions, got %v", response.Plugins[0].Actions)
	}
}

func TestPluginHandler_MethodNotAllowed(t *testing.T) {
	h := NewPluginHandler(fakePlugins{})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/plugins", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected status %d, got %d", http.StatusMethodNotAllowed, rec.Code)
	}
}
