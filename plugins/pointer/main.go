// Package main provides a pointer plugin. It moves the system pointer to the
// gesture cursor, clicks, and sends keystrokes. Linux uses xdotool and macOS
// uses cliclick plus AppleScript.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strconv"
	"strings"
)

// Request represents the input from the plugin executor.
type Request struct {
	Action    string          `json:"action"`
	Event     string          `json:"event"`
	SessionID string          `json:"session_id"`
	Cursor    *Cursor         `json:"cursor"`
	Config    json.RawMessage `json:"config"`
}

// Cursor is the gesture cursor in screen pixels.
type Cursor struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Response represents the output to the plugin executor.
type Response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// KeystrokeConfig defines parameters for the keystroke action.
type KeystrokeConfig struct {
	Key       string   `json:"key"`
	Modifiers []string `json:"modifiers"` // command, option, control, shift
}

// modifierMap maps user-friendly modifier names to AppleScript equivalents.
var modifierMap = map[string]string{
	"command": "command down",
	"cmd":     "command down",
	"option":  "option down",
	"alt":     "option down",
	"control": "control down",
	"ctrl":    "control down",
	"shift":   "shift down",
}

var errNoCursor = errors.New("event has no cursor position")

func main() {
	var req Request
	if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
		writeErrorResponse(fmt.Sprintf("failed to decode request: %v", err))
		return
	}

	var err error
	switch req.Action {
	case "move":
		err = move(req.Cursor)
	case "click":
		if err = move(req.Cursor); err == nil {
			err = click()
		}
	case "keystroke":
		err = handleKeystroke(req.Config)
	default:
		err = fmt.Errorf("unknown action: %s", req.Action)
	}

	if err != nil {
		writeErrorResponse(fmt.Sprintf("action %s failed: %v", req.Action, err))
		return
	}
	writeSuccessResponse()
}

func move(c *Cursor) error {
	if c == nil {
		return errNoCursor
	}
	x, y := strconv.Itoa(int(c.X)), strconv.Itoa(int(c.Y))

	switch runtime.GOOS {
	case "darwin":
		return run("cliclick", "m:"+x+","+y)
	default:
		return run("xdotool", "mousemove", x, y)
	}
}

func click() error {
	switch runtime.GOOS {
	case "darwin":
		return run("cliclick", "c:.")
	default:
		return run("xdotool", "click", "1")
	}
}

func handleKeystroke(config json.RawMessage) error {
	var p KeystrokeConfig
	if err := json.Unmarshal(config, &p); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}
	if p.Key == "" {
		return fmt.Errorf("key is required")
	}

	if runtime.GOOS == "darwin" {
		return run("osascript", "-e", buildKeystrokeScript(p.Key, p.Modifiers))
	}
	return run("xdotool", "key", buildXdotoolChord(p.Key, p.Modifiers))
}

// buildKeystrokeScript generates an AppleScript for the given key and modifiers.
func buildKeystrokeScript(key string, modifiers []string) string {
	var appleModifiers []string
	for _, mod := range modifiers {
		if appleMod, ok := modifierMap[strings.ToLower(mod)]; ok {
			appleModifiers = append(appleModifiers, appleMod)
		}
	}

	if len(appleModifiers) == 0 {
		return fmt.Sprintf(`tell application "System Events" to keystroke "%s"`, key)
	}
	return fmt.Sprintf(`tell application "System Events" to keystroke "%s" using {%s}`,
		key, strings.Join(appleModifiers, ", "))
}

// buildXdotoolChord generates an xdotool key chord such as "ctrl+shift+Return".
func buildXdotoolChord(key string, modifiers []string) string {
	parts := make([]string, 0, len(modifiers)+1)
	for _, mod := range modifiers {
		switch strings.ToLower(mod) {
		case "command", "cmd":
			parts = append(parts, "super")
		case "option", "alt":
			parts = append(parts, "alt")
		case "control", "ctrl":
			parts = append(parts, "ctrl")
		case "shift":
			parts = append(parts, "shift")
		}
	}
	if strings.EqualFold(key, "enter") {
		key = "Return"
	}
	return strings.Join(append(parts, key), "+")
}

func run(name string, args ...string) error {
	output, err := exec.Command(name, args...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s: %w: %s", name, err, string(output))
	}
	return nil
}

// writeErrorResponse writes an error response to stdout.
func writeErrorResponse(errMsg string) {
	json.NewEncoder(os.Stdout).Encode(Response{Success: false, Error: errMsg})
}

// writeSuccessResponse writes a success response to stdout.
func writeSuccessResponse() {
	json.NewEncoder(os.Stdout).Encode(Response{Success: true})
}
