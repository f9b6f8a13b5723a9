// Package plugin discovers and runs external action plugins. A plugin is an
// executable that reads one JSON Request on stdin and writes one JSON
// Response on stdout.
package plugin

import (
	"encoding/json"
	"slices"
)

// Manifest describes a plugin's metadata and capabilities.
type Manifest struct {
	Name         string          `json:"name"`
	Version      string          `json:"version"`
	Description  string          `json:"description"`
	Executable   string          `json:"executable"`
	Actions      []string        `json:"actions"`
	ConfigSchema json.RawMessage `json:"configSchema,omitempty"`
}

// Cursor is the projected cursor position at the time of the event.
type Cursor struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Request represents a request sent to a plugin for execution.
type Request struct {
	Action    string          `json:"action"`
	Event     string          `json:"event"`
	SessionID string          `json:"session_id,omitempty"`
	Cursor    *Cursor         `json:"cursor,omitempty"`
	Config    json.RawMessage `json:"config"`
	Params    json.RawMessage `json:"params,omitempty"`
}

// Response represents the response from a plugin execution.
type Response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Plugin represents a discovered plugin with its manifest and location.
type Plugin struct {
	Manifest   Manifest
	Path       string
	Executable string
}

// Supports reports whether the plugin declares action.
func (p *Plugin) Supports(action string) bool {
	return slices.Contains(p.Manifest.Actions, action)
}
