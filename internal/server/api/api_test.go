package api

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/ayusman/gesteasy/internal/gesture"
	"github.com/ayusman/gesteasy/internal/plugin"
	"github.com/ayusman/gesteasy/internal/store"
)

// newTestStore creates a new Store with a temporary database for testing.
func newTestStore(t *testing.T) *store.Store {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "gesteasy-api-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	t.Cleanup(func() {
		os.RemoveAll(tmpDir)
	})

	s, err := store.New(filepath.Join(tmpDir, "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() {
		s.Close()
	})

	return s
}

type fakeController struct {
	mu       sync.Mutex
	active   bool
	clicks   int
	setErr   error
	sessions int
}

func (c *fakeController) SetActive(active bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.setErr != nil {
		return c.setErr
	}
	if active && !c.active {
		c.sessions++
	}
	c.active = active
	return nil
}

func (c *fakeController) NotePointerClick() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.clicks++
}

func (c *fakeController) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Status{Active: c.active, Suppressed: c.clicks > 0, Phase: gesture.PhaseIdle}
}

type fakePlugins map[string]*plugin.Plugin

func (f fakePlugins) Resolve(name, action string) (*plugin.Plugin, error) {
	p, ok := f[name]
	if !ok {
		return nil, plugin.ErrPluginNotFound
	}
	if !p.Supports(action) {
		return nil, plugin.ErrActionNotSupported
	}
	return p, nil
}

func (f fakePlugins) List() []*plugin.Plugin {
	out := make([]*plugin.Plugin, 0, len(f))
	for _, p := range f {
		out = append(out, p)
	}
	return out
}

func pointerPlugins() fakePlugins {
	return fakePlugins{
		"pointer": {Manifest: plugin.Manifest{
			Name:    "pointer",
			Version: "1.0.0",
			Actions: []string{"move", "click", "keystroke"},
		}},
	}
}
