// Package tray provides a system tray interface for toggling gesture mode.
package tray

import (
	"sync"

	"github.com/getlantern/systray"
)

// Tray represents the system tray application.
type Tray struct {
	onToggle   func(active bool)
	onSettings func()
	onQuit     func()
	active     bool
	lastEvent  string
	mu         sync.RWMutex

	// Menu items stored for later updates
	menuToggle    *systray.MenuItem
	menuLastEvent *systray.MenuItem
}

// New creates a new Tray reflecting the given gesture mode.
func New(active bool) *Tray {
	return &Tray{
		active: active,
	}
}

// OnToggle sets the callback function to be called when gesture mode is toggled.
func (t *Tray) OnToggle(fn func(active bool)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onToggle = fn
}

// OnSettings sets the callback function to be called when the settings menu item is clicked.
func (t *Tray) OnSettings(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onSettings = fn
}

// OnQuit sets the callback function to be called when the quit menu item is clicked.
func (t *Tray) OnQuit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onQuit = fn
}

// Run starts the system tray application.
// This function blocks until systray.Quit() is called.
func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

// Quit stops the tray loop started by Run.
func (t *Tray) Quit() {
	systray.Quit()
}

// onReady is called when the system tray is ready.
// It sets up the menu structure.
func (t *Tray) onReady() {
	systray.SetTitle("Gesteasy")
	systray.SetTooltip("Gesteasy hand gesture control")

	t.mu.Lock()
	t.menuToggle = systray.AddMenuItem(toggleTitle(t.active), "Toggle gesture mode")
	systray.AddSeparator()

	t.menuLastEvent = systray.AddMenuItem(lastEventTitle(t.lastEvent), "Last gesture event")
	t.menuLastEvent.Disable()
	t.mu.Unlock()
	systray.AddSeparator()

	menuSettings := systray.AddMenuItem("Open Settings...", "Open settings in browser")
	systray.AddSeparator()

	menuQuit := systray.AddMenuItem("Quit", "Quit Gesteasy")

	// Handle menu item clicks in a separate goroutine
	go func() {
		for {
			select {
			case <-t.menuToggle.ClickedCh:
				t.handleToggle()
			case <-menuSettings.ClickedCh:
				t.handleSettings()
			case <-menuQuit.ClickedCh:
				t.handleQuit()
				return
			}
		}
	}()
}

func (t *Tray) onExit() {}

// handleToggle handles the toggle menu item click.
func (t *Tray) handleToggle() {
	t.mu.Lock()
	t.active = !t.active
	active := t.active
	if t.menuToggle != nil {
		t.menuToggle.SetTitle(toggleTitle(active))
	}
	callback := t.onToggle
	t.mu.Unlock()

	// Call the callback outside the lock to prevent deadlocks
	if callback != nil {
		callback(active)
	}
}

// handleSettings handles the settings menu item click.
func (t *Tray) handleSettings() {
	t.mu.RLock()
	callback := t.onSettings
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}
}

// handleQuit handles the quit menu item click.
func (t *Tray) handleQuit() {
	t.mu.RLock()
	callback := t.onQuit
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}

	systray.Quit()
}

// SetActive reflects a gesture mode change made elsewhere, such as through
// the HTTP API. It does not invoke the toggle callback.
func (t *Tray) SetActive(active bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.active = active
	if t.menuToggle != nil {
		t.menuToggle.SetTitle(toggleTitle(active))
	}
}

// SetLastEvent updates the last event display in the menu.
func (t *Tray) SetLastEvent(name string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.lastEvent = name
	if t.menuLastEvent != nil {
		t.menuLastEvent.SetTitle(lastEventTitle(name))
	}
}

// IsActive returns the gesture mode shown in the tray.
func (t *Tray) IsActive() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.active
}

// LastEvent returns the last event name shown in the tray.
func (t *Tray) LastEvent() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.lastEvent
}

func toggleTitle(active bool) string {
	if active {
		return "● Gesture mode on"
	}
	return "○ Gesture mode off"
}

func lastEventTitle(name string) string {
	if name == "" {
		return "Last: none"
	}
	return "Last: " + name
}
