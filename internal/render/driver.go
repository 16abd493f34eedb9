package render

import (
	"fmt"
	"io"
	"log"
	"sync"
	"time"
)

// MaxFrameDelta caps dt so a stalled host does not produce a huge jump.
const MaxFrameDelta = 0.25

// Scene is what the driver animates.
type Scene interface {
	Frame(dt float64, s Surface) error
	Release()
}

// State is the driver's animation state.
type State int

const (
	StateIdle State = iota
	StateAnimating
)

func (s State) String() string {
	if s == StateAnimating {
		return "animating"
	}
	return "idle"
}

// DriverConfig configures a Driver.
type DriverConfig struct {
	Log *log.Logger
	// Clock defaults to time.Now.
	Clock func() time.Time
}

// Driver keeps exactly one frame callback in flight while animating and
// attached to a host.
type Driver struct {
	scene Scene
	log   *log.Logger
	now   func() time.Time

	mu         sync.Mutex
	host       Host
	state      State
	pending    bool
	generation uint64
	last       time.Time
	frames     uint64
	failures   uint64
}

// NewDriver creates an idle, detached driver for scene.
func NewDriver(scene Scene, cfg DriverConfig) *Driver {
	if cfg.Log == nil {
		cfg.Log = log.New(io.Discard, "", 0)
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	return &Driver{scene: scene, log: cfg.Log, now: cfg.Clock}
}

// Attach binds the driver to host, replacing any previous host without
// releasing the scene.
func (d *Driver) Attach(host Host) {
	d.mu.Lock()
	d.host = host
	d.generation++
	d.pending = false
	d.last = time.Time{}
	d.mu.Unlock()
	d.arm()
}

// Detach stops re-arming callbacks and releases the scene's GPU resources.
// It must run on the render goroutine.
func (d *Driver) Detach() {
	d.mu.Lock()
	attached := d.host != nil
	d.host = nil
	d.generation++
	d.pending = false
	d.mu.Unlock()
	if attached {
		d.releaseScene()
	}
}

func (d *Driver) releaseScene() {
	defer func() {
		if r := recover(); r != nil {
			d.log.Printf("release panic: %v", r)
		}
	}()
	d.scene.Release()
}

// SetAnimating switches between Idle and Animating. Resuming resets the
// frame clock so the first frame after a pause sees dt = 0.
func (d *Driver) SetAnimating(on bool) {
	d.mu.Lock()
	switch {
	case on && d.state != StateAnimating:
		d.state = StateAnimating
		d.last = time.Time{}
	case !on:
		d.state = StateIdle
	}
	d.mu.Unlock()
	if on {
		d.arm()
	}
}

// Toggle flips the animation state and returns the new one.
func (d *Driver) Toggle() State {
	on := d.State() != StateAnimating
	d.SetAnimating(on)
	if on {
		return StateAnimating
	}
	return StateIdle
}

// State returns the current animation state.
func (d *Driver) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// Attached reports whether a host is bound.
func (d *Driver) Attached() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.host != nil
}

// Stats returns how many frames ran and how many of them failed.
func (d *Driver) Stats() (frames, failures uint64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.frames, d.failures
}

func (d *Driver) arm() {
	d.mu.Lock()
	if d.host == nil || d.state != StateAnimating || d.pending {
		d.mu.Unlock()
		return
	}
	d.pending = true
	host := d.host
	gen := d.generation
	d.mu.Unlock()

	host.RequestFrame(func(s Surface) { d.onFrame(gen, s) })
}

func (d *Driver) onFrame(gen uint64, s Surface) {
	d.mu.Lock()
	if gen != d.generation {
		d.mu.Unlock()
		return
	}
	d.pending = false
	if d.host == nil || d.state != StateAnimating {
		d.mu.Unlock()
		return
	}
	now := d.now()
	dt := 0.0
	if !d.last.IsZero() {
		dt = now.Sub(d.last).Seconds()
	}
	d.last = now
	d.mu.Unlock()

	if dt < 0 {
		dt = 0
	}
	if dt > MaxFrameDelta {
		dt = MaxFrameDelta
	}

	err := d.runScene(dt, s)

	d.mu.Lock()
	d.frames++
	if err != nil {
		d.failures++
	}
	d.mu.Unlock()
	if err != nil {
		d.log.Printf("frame error: %v", err)
	}
	d.arm()
}

func (d *Driver) runScene(dt float64, s Surface) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("frame panic: %v", r)
		}
	}()
	return d.scene.Frame(dt, s)
}
