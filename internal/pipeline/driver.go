// Package pipeline wires smoothing, geometry, classification and debouncing
// into a per-frame driver.
//
// A Driver is invoked once per frame by an external scheduler. It owns all
// cross-frame state for one gesture session and is not safe for concurrent
// use: callers must confine it to one goroutine or serialise access.
package pipeline

import (
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/ayusman/gesteasy/internal/cursor"
	"github.com/ayusman/gesteasy/internal/filter"
	"github.com/ayusman/gesteasy/internal/geometry"
	"github.com/ayusman/gesteasy/internal/gesture"
	"github.com/ayusman/gesteasy/internal/landmark"
)

// ErrBusy is returned when the driver is re-entered while a frame is in flight.
var ErrBusy = errors.New("pipeline busy")

// Clock returns the current time. It must be monotonic across calls.
type Clock func() time.Time

// DetectFunc runs the landmark source for the current frame.
type DetectFunc func() ([]landmark.Hand, error)

// Result is the outcome of one frame.
type Result struct {
	Cursor    cursor.Position   `json:"cursor"`
	HasCursor bool              `json:"has_cursor"`
	Geometry  geometry.Sample   `json:"geometry"`
	Match     gesture.MatchKind `json:"match"`
	Event     gesture.Event     `json:"event"`
	// Skipped is set when the frame short-circuited because gesture mode was
	// off or a pointer click suppression was in effect.
	Skipped bool `json:"skipped"`
}

// session is the state created when gesture mode is enabled.
type session struct {
	x       *filter.Kalman
	y       *filter.Kalman
	machine *gesture.Machine
}

// Driver runs the landmark-to-intent pipeline one frame at a time.
type Driver struct {
	cfg       Config
	clock     Clock
	projector cursor.Projector

	session         *session
	suppressedUntil time.Time
	busy            atomic.Bool
}

// NewDriver validates cfg and returns an inactive driver. A nil clock uses
// time.Now.
func NewDriver(cfg Config, clock Clock) (*Driver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if clock == nil {
		clock = time.Now
	}

	return &Driver{
		cfg:   cfg,
		clock: clock,
		projector: cursor.NewProjector(
			cursor.Size{Width: float64(cfg.SourceWidth), Height: float64(cfg.SourceHeight)},
			cursor.Size{Width: float64(cfg.SurfaceWidth), Height: float64(cfg.SurfaceHeight)},
		),
	}, nil
}

// SetActive turns gesture mode on or off. Turning it on creates fresh filter
// and debounce state; turning it off discards them, including any partial
// accumulation, without emitting anything. Setting the current value again
// is a no-op.
func (d *Driver) SetActive(active bool) {
	if !active {
		d.session = nil
		return
	}
	if d.session != nil {
		return
	}

	x := filter.NewKalman(d.cfg.ProcessNoise, d.cfg.MeasurementNoise)
	y := filter.NewKalman(d.cfg.ProcessNoise, d.cfg.MeasurementNoise)
	if d.cfg.SeedFromFirstMeasurement {
		x.SeedFromFirst()
		y.SeedFromFirst()
	}

	d.session = &session{
		x:       x,
		y:       y,
		machine: gesture.NewMachine(d.cfg.Timing()),
	}
}

// Active reports whether gesture mode is on.
func (d *Driver) Active() bool {
	return d.session != nil
}

// NotePointerClick records that a real pointer click just happened. Frames
// are skipped entirely for the click suppression window.
func (d *Driver) NotePointerClick() {
	d.suppressedUntil = d.clock().Add(d.cfg.ClickSuppress)
}

// Suppressed reports whether a pointer click suppression is in effect.
func (d *Driver) Suppressed() bool {
	return d.clock().Before(d.suppressedUntil)
}

// Busy reports whether a frame is currently being processed.
func (d *Driver) Busy() bool {
	return d.busy.Load()
}

// Phase returns the debounce phase, or idle when gesture mode is off.
func (d *Driver) Phase() gesture.Phase {
	if d.session == nil {
		return gesture.PhaseIdle
	}
	return d.session.machine.Phase()
}

// GestureState returns a copy of the debounce state, or the zero state when
// gesture mode is off.
func (d *Driver) GestureState() gesture.State {
	if d.session == nil {
		return gesture.State{}
	}
	return d.session.machine.State()
}

// Step runs one frame, calling detect only when gesture mode is on and no
// suppression is in effect. A detect error is treated as "no hand" for this
// frame and returned wrapped alongside the result so the caller can log it.
func (d *Driver) Step(detect DetectFunc) (Result, error) {
	if !d.busy.CompareAndSwap(false, true) {
		return Result{Skipped: true}, ErrBusy
	}
	defer d.busy.Store(false)

	if d.gated() {
		return Result{Skipped: true}, nil
	}

	hands, err := detect()
	if err != nil {
		return d.process(nil), fmt.Errorf("detect hands: %w", err)
	}
	return d.process(landmark.First(hands)), nil
}

// Process runs one frame for an already-detected hand. A nil hand means no
// hand was detected.
func (d *Driver) Process(hand *landmark.Hand) (Result, error) {
	if !d.busy.CompareAndSwap(false, true) {
		return Result{Skipped: true}, ErrBusy
	}
	defer d.busy.Store(false)

	if d.gated() {
		return Result{Skipped: true}, nil
	}
	return d.process(hand), nil
}

func (d *Driver) gated() bool {
	return d.session == nil || d.Suppressed()
}

func (d *Driver) process(hand *landmark.Hand) Result {
	now := d.clock()
	s := d.session

	if hand == nil {
		s.machine.Step(gesture.NoMatch, false, now)
		return Result{Match: gesture.NoMatch, Event: gesture.None}
	}

	tip := hand.IndexTip()
	x := s.x.Update(tip.X)
	y := s.y.Update(tip.Y)

	sample := geometry.Measure(hand)
	kind := d.cfg.Thresholds.ClassifySample(sample)

	return Result{
		Cursor:    d.projector.Project(x, y),
		HasCursor: true,
		Geometry:  sample,
		Match:     kind,
		Event:     s.machine.Step(kind, true, now),
	}
}
