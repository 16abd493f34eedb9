// Package render drives the per-frame loop: a Driver re-arms one frame
// callback at a time on whichever Host owns the drawing surface.
package render

import (
	"context"
	"errors"
	"io"
	"log"
	"sync"
	"time"
)

// ErrHostQuit is returned by Run when the user closes the host window.
var ErrHostQuit = errors.New("render: host closed")

// Surface is the drawable area handed to a frame callback.
type Surface struct {
	Width  int
	Height int
}

// Empty reports whether the surface has no drawable area.
func (s Surface) Empty() bool { return s.Width <= 0 || s.Height <= 0 }

// FrameFunc is invoked once on the host's render goroutine.
type FrameFunc func(Surface)

// Host schedules frame callbacks. A request replaces any pending one and is
// delivered at most once.
type Host interface {
	RequestFrame(fn FrameFunc)
}

// HostConfig is shared by every host implementation.
type HostConfig struct {
	Title  string
	Width  int
	Height int
	FPS    float64
	Log    *log.Logger
	// OnPointer receives surface-relative pointer positions.
	OnPointer func(x, y float64)
	// BeforeClose runs on the render goroutine before the host tears down
	// its drawing context.
	BeforeClose func()
}

func (c *HostConfig) normalize() {
	if c.Title == "" {
		c.Title = "vibeshader"
	}
	if c.Width <= 0 {
		c.Width = 1280
	}
	if c.Height <= 0 {
		c.Height = 720
	}
	if c.FPS <= 0 {
		c.FPS = 60
	}
	if c.Log == nil {
		c.Log = log.New(io.Discard, "", 0)
	}
}

func (c HostConfig) interval() time.Duration {
	return time.Duration(float64(time.Second) / c.FPS)
}

// frameSlot holds the single pending callback of a host.
type frameSlot struct {
	mu      sync.Mutex
	pending FrameFunc
}

func (s *frameSlot) put(fn FrameFunc) {
	s.mu.Lock()
	s.pending = fn
	s.mu.Unlock()
}

func (s *frameSlot) take() FrameFunc {
	s.mu.Lock()
	fn := s.pending
	s.pending = nil
	s.mu.Unlock()
	return fn
}

// TickerHost delivers frame callbacks from a time.Ticker with no window.
// It backs headless runs.
type TickerHost struct {
	cfg  HostConfig
	slot frameSlot

	sizeMu sync.RWMutex
	size   Surface
}

// NewTickerHost creates a headless host with a fixed virtual surface.
func NewTickerHost(cfg HostConfig) *TickerHost {
	cfg.normalize()
	return &TickerHost{cfg: cfg, size: Surface{Width: cfg.Width, Height: cfg.Height}}
}

func (h *TickerHost) RequestFrame(fn FrameFunc) { h.slot.put(fn) }

// Resize changes the virtual surface seen by later callbacks.
func (h *TickerHost) Resize(width, height int) {
	h.sizeMu.Lock()
	h.size = Surface{Width: width, Height: height}
	h.sizeMu.Unlock()
}

// Surface returns the current virtual surface.
func (h *TickerHost) Surface() Surface {
	h.sizeMu.RLock()
	defer h.sizeMu.RUnlock()
	return h.size
}

// Step delivers the pending callback, if any, on the calling goroutine.
// It reports whether a callback ran.
func (h *TickerHost) Step() bool {
	fn := h.slot.take()
	if fn == nil {
		return false
	}
	fn(h.Surface())
	return true
}

// Run delivers callbacks at the configured rate until ctx is done.
func (h *TickerHost) Run(ctx context.Context) error {
	ticker := time.NewTicker(h.cfg.interval())
	defer ticker.Stop()
	defer func() {
		if h.cfg.BeforeClose != nil {
			h.cfg.BeforeClose()
		}
	}()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			h.Step()
		}
	}
}
