package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSettingsURL(t *testing.T) {
	tests := []struct {
		addr, want string
	}{
		{":8080", "http://localhost:8080"},
		{"127.0.0.1:9000", "http://127.0.0.1:9000"},
	}
	for _, tt := range tests {
		if got := settingsURL(tt.addr); got != tt.want {
			t.Errorf("settingsURL(%q) = %q, want %q", tt.addr, got, tt.want)
		}
	}
}

func TestFindWebDir_DataDir(t *testing.T) {
	t.Chdir(t.TempDir())

	dataDir := t.TempDir()
	if got := findWebDir(dataDir); got != "" {
		t.Errorf("findWebDir() = %q, want empty", got)
	}

	web := filepath.Join(dataDir, "web")
	if err := os.MkdirAll(web, 0755); err != nil {
		t.Fatalf("failed to create web dir: %v", err)
	}
	if got := findWebDir(dataDir); got != web {
		t.Errorf("findWebDir() = %q, want %q", got, web)
	}
}
