package plugin

import (
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// writeManifest creates dir/name/plugin.json and returns the plugin directory.
func writeManifest(t *testing.T, dir string, manifest Manifest) string {
	t.Helper()

	pluginDir := filepath.Join(dir, manifest.Name)
	if err := os.MkdirAll(pluginDir, 0755); err != nil {
		t.Fatalf("failed to create plugin dir: %v", err)
	}

	manifestBytes, err := json.Marshal(manifest)
	if err != nil {
		t.Fatalf("failed to marshal manifest: %v", err)
	}
	if err := os.WriteFile(filepath.Join(pluginDir, "plugin.json"), manifestBytes, 0644); err != nil {
		t.Fatalf("failed to write manifest: %v", err)
	}
	return pluginDir
}

// scriptPlugin writes a shell script plugin and returns it.
func scriptPlugin(t *testing.T, name, script string, actions ...string) *Plugin {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("skipping test on Windows")
	}

	dir := t.TempDir()
	pluginDir := writeManifest(t, dir, Manifest{
		Name:       name,
		Version:    "1.0.0",
		Executable: name + ".sh",
		Actions:    actions,
	})

	scriptPath := filepath.Join(pluginDir, name+".sh")
	if err := os.WriteFile(scriptPath, []byte("#!/bin/sh\n"+script), 0755); err != nil {
		t.Fatalf("failed to write script: %v", err)
	}

	return &Plugin{
		Manifest:   Manifest{Name: name, Version: "1.0.0", Executable: name + ".sh", Actions: actions},
		Path:       pluginDir,
		Executable: scriptPath,
	}
}
