// Package app runs the frame loop that drives the gesture pipeline and
// connects its events to storage, plugins and live clients.
package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/ayusman/gesteasy/internal/capture"
	"github.com/ayusman/gesteasy/internal/detector"
	"github.com/ayusman/gesteasy/internal/gesture"
	"github.com/ayusman/gesteasy/internal/landmark"
	"github.com/ayusman/gesteasy/internal/pipeline"
	"github.com/ayusman/gesteasy/internal/plugin"
	"github.com/ayusman/gesteasy/internal/server"
	"github.com/ayusman/gesteasy/internal/server/api"
	"github.com/ayusman/gesteasy/internal/store"
)

// DefaultPluginQueue is the number of plugin jobs buffered before new ones
// are dropped.
const DefaultPluginQueue = 8

// Persisted values of store.SettingGestureMode.
const (
	modeOn  = "on"
	modeOff = "off"
)

// Broadcaster receives one message per processed frame. *server.Hub
// satisfies it.
type Broadcaster interface {
	Broadcast(msg server.FrameMessage)
}

// Config holds configuration options for the application.
type Config struct {
	Store    *store.Store
	Pipeline pipeline.Config
	Camera   capture.Camera
	Detector detector.Detector

	// Plugins resolves bindings to plugins and Runner executes them. Both
	// are optional; without them events are recorded but not acted on.
	Plugins plugin.Resolver
	Runner  plugin.Runner

	Hub           Broadcaster
	FrameInterval time.Duration
	StartActive   bool
	Clock         pipeline.Clock
}

// App owns the pipeline driver and the frame loop.
type App struct {
	config     Config
	clock      pipeline.Clock
	driver     *pipeline.Driver
	dispatcher *plugin.Dispatcher

	// mu serialises all driver access and guards sessionID.
	mu        sync.Mutex
	sessionID string

	cbMu         sync.RWMutex
	onEvent      func(store.Event)
	onModeChange func(active bool)

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New validates the pipeline configuration and creates an App.
func New(config Config) (*App, error) {
	if config.Camera == nil {
		return nil, errors.New("app: camera is required")
	}
	if config.Detector == nil {
		return nil, errors.New("app: detector is required")
	}
	if config.FrameInterval <= 0 {
		config.FrameInterval = time.Second / capture.DefaultFPS
	}
	clock := config.Clock
	if clock == nil {
		clock = time.Now
	}

	driver, err := pipeline.NewDriver(config.Pipeline, clock)
	if err != nil {
		return nil, err
	}

	a := &App{
		config: config,
		clock:  clock,
		driver: driver,
	}
	if config.Plugins != nil && config.Runner != nil {
		a.dispatcher = plugin.NewDispatcher(config.Plugins, config.Runner, DefaultPluginQueue, nil)
	}
	return a, nil
}

// OnEvent registers a callback invoked after every emitted event has been
// recorded.
func (a *App) OnEvent(fn func(store.Event)) {
	a.cbMu.Lock()
	defer a.cbMu.Unlock()
	a.onEvent = fn
}

// OnModeChange registers a callback invoked whenever gesture mode changes.
func (a *App) OnModeChange(fn func(active bool)) {
	a.cbMu.Lock()
	defer a.cbMu.Unlock()
	a.onModeChange = fn
}

// Start closes sessions left open by a previous run, restores the persisted
// gesture mode, opens the camera and launches the frame loop.
func (a *App) Start(ctx context.Context) error {
	if a.cancel != nil {
		return nil
	}

	active := a.config.StartActive
	if st := a.config.Store; st != nil {
		n, err := st.Sessions().CloseDangling(a.clock())
		if err != nil {
			return fmt.Errorf("close dangling sessions: %w", err)
		}
		if n > 0 {
			log.Printf("Closed %d session(s) left open by a previous run", n)
		}

		mode, err := st.Settings().Get(store.SettingGestureMode)
		switch {
		case err == nil:
			active = mode == modeOn
		case !errors.Is(err, store.ErrNotFound):
			return fmt.Errorf("load gesture mode: %w", err)
		}
	}

	if err := a.config.Camera.Open(); err != nil {
		return fmt.Errorf("open camera: %w", err)
	}

	if err := a.SetActive(active); err != nil {
		a.config.Camera.Close()
		return err
	}

	ctx, a.cancel = context.WithCancel(ctx)
	if a.dispatcher != nil {
		a.dispatcher.Start(ctx)
	}

	a.wg.Add(1)
	go a.run(ctx)

	log.Printf("Frame loop started (interval %s, gesture mode %t)", a.config.FrameInterval, active)
	return nil
}

// Stop halts the frame loop, ends the open session and releases the camera
// and detector.
func (a *App) Stop() {
	if a.cancel != nil {
		a.cancel()
		a.wg.Wait()
		if a.dispatcher != nil {
			a.dispatcher.Wait()
		}
		a.cancel = nil
	}

	a.mu.Lock()
	if err := a.endSession(); err != nil {
		log.Printf("Error ending session: %v", err)
	}
	a.mu.Unlock()

	if err := a.config.Camera.Close(); err != nil {
		log.Printf("Error closing camera: %v", err)
	}
	if err := a.config.Detector.Close(); err != nil {
		log.Printf("Error closing detector: %v", err)
	}

	log.Println("Frame loop stopped")
}

// SetActive turns gesture mode on or off. Turning it on starts a new
// session; turning it off ends it. The mode is persisted so it survives a
// restart.
func (a *App) SetActive(active bool) error {
	a.mu.Lock()
	changed, err := a.setActiveLocked(active)
	a.mu.Unlock()
	if err != nil {
		return err
	}

	if changed {
		a.cbMu.RLock()
		fn := a.onModeChange
		a.cbMu.RUnlock()
		if fn != nil {
			fn(active)
		}
	}
	return nil
}

func (a *App) setActiveLocked(active bool) (bool, error) {
	if a.driver.Active() == active {
		return false, nil
	}

	st := a.config.Store
	if active {
		if st != nil {
			sess, err := st.Sessions().Start(a.clock())
			if err != nil {
				return false, fmt.Errorf("start session: %w", err)
			}
			a.sessionID = sess.ID
		}
	} else if err := a.endSession(); err != nil {
		return false, err
	}

	a.driver.SetActive(active)

	if st != nil {
		mode := modeOff
		if active {
			mode = modeOn
		}
		if err := st.Settings().Set(store.SettingGestureMode, mode); err != nil {
			log.Printf("Error persisting gesture mode: %v", err)
		}
	}
	return true, nil
}

// endSession closes the current session. Callers hold a.mu.
func (a *App) endSession() error {
	if a.sessionID == "" || a.config.Store == nil {
		a.sessionID = ""
		return nil
	}
	id := a.sessionID
	a.sessionID = ""
	if err := a.config.Store.Sessions().End(id, a.clock()); err != nil && !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("end session: %w", err)
	}
	return nil
}

// NotePointerClick suppresses gesture frames after a real pointer click.
func (a *App) NotePointerClick() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.driver.NotePointerClick()
}

// Status reports the current gesture mode and debounce phase.
func (a *App) Status() api.Status {
	a.mu.Lock()
	defer a.mu.Unlock()
	return api.Status{
		Active:     a.driver.Active(),
		Suppressed: a.driver.Suppressed(),
		Phase:      a.driver.Phase(),
		SessionID:  a.sessionID,
	}
}

func (a *App) run(ctx context.Context) {
	defer a.wg.Done()

	ticker := time.NewTicker(a.config.FrameInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			a.step()
		}
	}
}

// step processes a single frame. The camera is only read when the driver
// asks for landmarks, so no frames are grabbed while gesture mode is off or
// suppressed.
func (a *App) step() pipeline.Result {
	a.mu.Lock()
	result, err := a.driver.Step(a.detect)
	active := a.driver.Active()
	phase := a.driver.Phase()
	sessionID := a.sessionID
	a.mu.Unlock()

	if err != nil && !errors.Is(err, pipeline.ErrBusy) {
		log.Printf("Frame error: %v", err)
	}

	if a.config.Hub != nil {
		a.config.Hub.Broadcast(frameMessage(result, active, phase, a.clock()))
	}

	if result.Event != gesture.None {
		a.handleEvent(result, sessionID)
	}
	return result
}

func (a *App) detect() ([]landmark.Hand, error) {
	frame, err := a.config.Camera.ReadFrame()
	if err != nil {
		return nil, fmt.Errorf("read frame: %w", err)
	}
	defer frame.Close()

	return a.config.Detector.Detect(frame)
}

func frameMessage(r pipeline.Result, active bool, phase gesture.Phase, now time.Time) server.FrameMessage {
	msg := server.FrameMessage{
		HasCursor: r.HasCursor,
		Match:     r.Match,
		Event:     r.Event,
		Phase:     phase,
		Active:    active,
		Timestamp: now.UnixMilli(),
	}
	if r.HasCursor {
		pos := r.Cursor
		msg.Cursor = &pos
	}
	return msg
}

// handleEvent records the event and dispatches its binding, if any.
func (a *App) handleEvent(r pipeline.Result, sessionID string) {
	log.Printf("Gesture event: %s (cursor %.0f,%.0f)", r.Event, r.Cursor.X, r.Cursor.Y)

	e := store.Event{
		SessionID: sessionID,
		Kind:      r.Event,
		CursorX:   r.Cursor.X,
		CursorY:   r.Cursor.Y,
		HasCursor: r.HasCursor,
		CreatedAt: a.clock(),
	}

	st := a.config.Store
	if st != nil && sessionID != "" {
		if err := st.Events().Record(&e); err != nil {
			log.Printf("Error recording event: %v", err)
		}
	}

	a.cbMu.RLock()
	fn := a.onEvent
	a.cbMu.RUnlock()
	if fn != nil {
		fn(e)
	}

	if st == nil || a.dispatcher == nil {
		return
	}

	binding, err := st.Bindings().GetByEvent(r.Event)
	if err != nil {
		log.Printf("Error loading binding for %s: %v", r.Event, err)
		return
	}
	if binding == nil || !binding.Enabled {
		return
	}

	req := plugin.Request{
		Action:    binding.ActionName,
		Event:     r.Event.String(),
		SessionID: sessionID,
		Config:    binding.Config,
	}
	if r.HasCursor {
		req.Cursor = &plugin.Cursor{X: r.Cursor.X, Y: r.Cursor.Y}
	}
	a.dispatcher.Submit(plugin.Job{Plugin: binding.PluginName, Request: req})
}
