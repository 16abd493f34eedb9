// Package engine assembles the parameter set, signal conditioner, palette
// and shader binder into the scene the render driver animates.
package engine

import (
	"errors"
	"io"
	"log"
	"sync/atomic"

	"github.com/guidoenr/vibeshader/internal/conditioner"
	"github.com/guidoenr/vibeshader/internal/palette"
	"github.com/guidoenr/vibeshader/internal/params"
	"github.com/guidoenr/vibeshader/internal/render"
	"github.com/guidoenr/vibeshader/internal/shader"
)

// Config configures an Engine.
type Config struct {
	Log *log.Logger
	// Compiler builds the GPU program. Nil disables drawing while the
	// conditioner keeps running.
	Compiler shader.Compiler
	// Lookup overrides the built-in Levels store as the channel source.
	Lookup conditioner.ChannelLookup
	// Initial parameter values; zero value means params.Defaults.
	Initial *params.Values
}

// Status is a read-only view of the last frame, safe to read from any
// goroutine.
type Status struct {
	Params      params.Values     `json:"params"`
	Bindings    map[string]string `json:"bindings"`
	Theme       string            `json:"theme"`
	PaletteKind string            `json:"paletteKind"`
	Hue         float64           `json:"hue"`
	TargetHue   float64           `json:"targetHue"`
	Mid         float64           `json:"mid"`
	Treble      float64           `json:"treble"`
	Peak        float64           `json:"peak"`
	Time        float64           `json:"time"`
	BeatCount   uint64            `json:"beatCount"`
	Direction   float64           `json:"spinDirection"`
	ZoomScale   float64           `json:"zoomScale"`
	Saturation  float64           `json:"saturation"`
	Frames      uint64            `json:"frames"`
	Drawing     bool              `json:"drawing"`
	Width       int               `json:"width"`
	Height      int               `json:"height"`
}

// Engine is the procedural animation engine. Audio pushes, pointer moves
// and parameter writes may come from any goroutine; Frame and Release must
// run on the goroutine that owns the GPU context.
type Engine struct {
	log      *log.Logger
	params   *params.Set
	bindings *params.Bindings
	levels   *conditioner.Levels
	lookup   conditioner.ChannelLookup
	cond     *conditioner.Conditioner
	palette  *palette.Resolver
	binder   *shader.Binder

	paletteDirty atomic.Bool
	frames       uint64
	status       atomic.Pointer[Status]
}

// New creates an engine with default bindings and a resolved palette.
func New(cfg Config) *Engine {
	if cfg.Log == nil {
		cfg.Log = log.New(io.Discard, "", 0)
	}
	e := &Engine{
		log:      cfg.Log,
		params:   params.New(len(palette.Swatches)),
		bindings: params.NewBindings(),
		levels:   conditioner.NewLevels(),
		cond:     conditioner.New(),
		palette:  palette.NewResolver(),
		binder:   shader.NewBinder(cfg.Compiler, cfg.Log),
	}
	e.lookup = cfg.Lookup
	if e.lookup == nil {
		e.lookup = e.levels
	}
	if cfg.Initial != nil {
		e.params.Apply(*cfg.Initial)
	}
	e.params.OnPaletteChange(func() { e.paletteDirty.Store(true) })
	e.syncPalette()
	e.publish(conditioner.Output{ZoomScale: 1, SpinDirection: 1}, render.Surface{})
	return e
}

// SetBands pushes mid, treble and peak, each in [0,10].
func (e *Engine) SetBands(mid, treble, peak float64) { e.levels.SetBands(mid, treble, peak) }

// SetTracks pushes melody, chords and bass intensities in [0,1].
func (e *Engine) SetTracks(melody, chords, bass float64) { e.levels.SetTracks(melody, chords, bass) }

// SetVibe pushes the aggregate intensity in [0,1].
func (e *Engine) SetVibe(v float64) { e.levels.SetVibe(v) }

// Pulse latches a beat consumed by the next frame.
func (e *Engine) Pulse(strength float64) { e.cond.Pulse(strength) }

// Levels exposes the built-in audio store.
func (e *Engine) Levels() *conditioner.Levels { return e.levels }

// Params exposes the parameter set for direct writes.
func (e *Engine) Params() *params.Set { return e.params }

// SetBinding routes effect to channel.
func (e *Engine) SetBinding(effect params.Effect, channel params.Channel) {
	e.bindings.Set(effect, channel)
}

// Binding returns the channel feeding effect.
func (e *Engine) Binding(effect params.Effect) params.Channel { return e.bindings.Get(effect) }

// ResetBindings restores the default routing.
func (e *Engine) ResetBindings() { e.bindings.Reset() }

func (e *Engine) SetTheme(name string)     { e.params.SetTheme(name) }
func (e *Engine) SetMainColor(index int)   { e.params.SetMainColor(index) }
func (e *Engine) SetAccentColor(index int) { e.params.SetAccentColor(index) }

// PointerMoved records a surface-relative pointer position.
func (e *Engine) PointerMoved(x, y float64) { e.cond.PointerMoved(x, y) }

// Frame advances the engine by dt seconds and draws onto s. Empty surfaces
// and an unavailable program skip the draw without failing the frame.
func (e *Engine) Frame(dt float64, s render.Surface) error {
	if e.paletteDirty.Swap(false) {
		e.syncPalette()
	}
	values := e.params.Snapshot()
	out := e.cond.Advance(dt, conditioner.Input{
		Params:   values,
		Bindings: e.bindings,
		Lookup:   e.lookup,
		Width:    s.Width,
		Height:   s.Height,
	})
	colors := e.palette.Advance(dt)

	err := e.binder.Draw(shader.Uniforms{
		Width:            s.Width,
		Height:           s.Height,
		Time:             float32(out.Time),
		SpinTime:         float32(out.SpinTime),
		Colour1:          colors.Primary,
		Colour2:          colors.Secondary,
		Colour3:          colors.Background,
		Contrast:         float32(out.Contrast),
		SpinAmount:       float32(out.SpinAmount),
		ParallaxX:        float32(out.ParallaxX),
		ParallaxY:        float32(out.ParallaxY),
		ZoomScale:        float32(out.ZoomScale),
		MelodySaturation: float32(out.Saturation),
	})
	e.frames++
	e.publish(out, s)

	if errors.Is(err, shader.ErrEmptySurface) || errors.Is(err, shader.ErrNoProgram) {
		return nil
	}
	return err
}

// Release deletes GPU resources. The next Frame compiles again.
func (e *Engine) Release() { e.binder.Release() }

// Snapshot returns the status published by the last frame.
func (e *Engine) Snapshot() Status {
	st := *e.status.Load()
	st.Params = e.params.Snapshot()
	st.Bindings = e.bindings.Map()
	return st
}

// Palette returns the resolved colours of the last frame. Render goroutine
// only.
func (e *Engine) Palette() palette.Colors { return e.palette.Colors() }

func (e *Engine) syncPalette() {
	e.palette.Configure(e.params.Theme(), e.params.MainColor(), e.params.AccentColor())
}

func (e *Engine) publish(out conditioner.Output, s render.Surface) {
	mid, treble, peak := e.levels.Bands()
	hue, target := e.palette.Hue()
	e.status.Store(&Status{
		Theme:       e.palette.Theme(),
		PaletteKind: e.palette.Kind().String(),
		Hue:         hue,
		TargetHue:   target,
		Mid:         mid,
		Treble:      treble,
		Peak:        peak,
		Time:        out.Time,
		BeatCount:   out.BeatCount,
		Direction:   out.SpinDirection,
		ZoomScale:   out.ZoomScale,
		Saturation:  out.Saturation,
		Frames:      e.frames,
		Drawing:     e.binder.Ready(),
		Width:       s.Width,
		Height:      s.Height,
	})
}
