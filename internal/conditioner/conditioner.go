// Package conditioner turns bursty audio levels and pointer input into the
// stable per-frame scalars the shader consumes.
package conditioner

import (
	"math"
	"sync/atomic"

	"github.com/guidoenr/vibeshader/internal/params"
)

// Tuning constants. Per-frame factors are expressed at a 60 Hz cadence and
// rescaled by dt so a late frame decays by the same wall-clock amount.
const (
	referenceRate = 60.0

	BeatThreshold   = 0.3
	ImpulseGain     = 60.0
	RotationDecay   = 0.5
	ZoomThreshold   = 0.5
	PunchGain       = 0.6
	PunchDecay      = 0.85
	SaturationDecay = 0.95
	ParallaxDecay   = 0.85

	flickerDepth = 0.35
	twirlDepth   = 0.25
	zoomDepth    = 0.15
)

// Input is everything a frame needs besides the conditioner's own state.
type Input struct {
	Params   params.Values
	Bindings *params.Bindings
	Lookup   ChannelLookup
	Width    int
	Height   int
}

// Output is the conditioned view of one frame.
type Output struct {
	Time                float64
	SpinTime            float64
	Contrast            float64
	SpinAmount          float64
	RotationVelocity    float64
	AccumulatedRotation float64
	SpinDirection       float64
	BeatCount           uint64
	ZoomPunch           float64
	ZoomScale           float64
	Saturation          float64
	ParallaxX           float64
	ParallaxY           float64
}

// Conditioner owns the per-frame integrators. Advance must only be called
// from the render goroutine; Pulse and PointerMoved may be called from any
// goroutine.
type Conditioner struct {
	pulse    atomicFloat
	pointerX atomicFloat
	pointerY atomicFloat
	pointing atomic.Bool

	elapsed    float64
	spinTime   float64
	velocity   float64
	rotation   float64
	direction  float64
	beats      uint64
	lastBeat   float64
	punch      float64
	saturation float64
	parallaxX  float64
	parallaxY  float64
}

// New returns a conditioner at rest.
func New() *Conditioner {
	c := &Conditioner{}
	c.Reset()
	return c
}

// Reset returns every integrator to its neutral value.
func (c *Conditioner) Reset() {
	c.pulse.store(0)
	c.pointing.Store(false)
	c.elapsed = 0
	c.spinTime = 0
	c.velocity = 0
	c.rotation = 0
	c.direction = 1
	c.beats = 0
	c.lastBeat = 0
	c.punch = 0
	c.saturation = 0
	c.parallaxX = 0
	c.parallaxY = 0
}

// Pulse latches a one-shot beat of the given strength. It is consumed by
// the next call to Advance. Stronger pending pulses are kept.
func (c *Conditioner) Pulse(strength float64) {
	strength = clamp(strength, 0, 1)
	if strength > c.pulse.load() {
		c.pulse.store(strength)
	}
}

// PointerMoved records a raw surface-relative pointer position.
func (c *Conditioner) PointerMoved(x, y float64) {
	if math.IsNaN(x) || math.IsNaN(y) {
		return
	}
	c.pointerX.store(x)
	c.pointerY.store(y)
	c.pointing.Store(true)
}

// Advance integrates one frame of dt seconds.
func (c *Conditioner) Advance(dt float64, in Input) Output {
	if math.IsNaN(dt) || math.IsInf(dt, 0) || dt < 0 {
		dt = 0
	}
	lookup := in.Lookup
	if lookup == nil {
		lookup = Silent
	}
	channel := func(e params.Effect) float64 {
		if in.Bindings == nil {
			return 0
		}
		ch := in.Bindings.Get(e)
		if ch == params.ChannelNone {
			return 0
		}
		return clamp(lookup.Level(ch), 0, 1)
	}

	p := in.Params
	intensity := p.Intensity
	frames := dt * referenceRate

	c.elapsed += dt * p.TimeSpeed
	c.spinTime += dt * p.TimeSpeed * p.SpinSpeed * (1 + channel(params.EffectSpin)*intensity)

	// A zero-length frame leaves the latched pulse for the next real one.
	if dt > 0 {
		beat := math.Max(c.pulse.swap(0), channel(params.EffectBeatPulse))
		if beat > BeatThreshold && c.lastBeat <= BeatThreshold {
			c.beats++
			if c.beats%2 == 0 {
				c.direction = -c.direction
			}
		}
		c.lastBeat = beat

		c.velocity += beat * ImpulseGain * c.direction * dt
		c.velocity *= math.Pow(RotationDecay, frames)
		c.rotation += c.velocity * dt

		if zoom := channel(params.EffectZoomThump); zoom > ZoomThreshold {
			c.punch += (zoom - ZoomThreshold) * 2 * PunchGain * intensity
		}
		c.punch *= math.Pow(PunchDecay, frames)
	}

	satK := math.Pow(SaturationDecay, frames)
	c.saturation = ema(c.saturation, channel(params.EffectColorSaturation)*intensity, satK)

	targetX, targetY := c.parallaxTarget(p.Parallax, in.Width, in.Height)
	parK := math.Pow(ParallaxDecay, frames)
	c.parallaxX = ema(c.parallaxX, targetX, parK)
	c.parallaxY = ema(c.parallaxY, targetY, parK)

	contrast := p.Contrast * (1 + flickerDepth*channel(params.EffectShadowFlicker)*intensity)
	spinAmount := p.SpinAmount + twirlDepth*channel(params.EffectTwirl)*intensity

	return Output{
		Time:                c.elapsed,
		SpinTime:            c.spinTime + c.rotation,
		Contrast:            clamp(contrast, params.MinContrast, params.MaxContrast),
		SpinAmount:          clamp(spinAmount, params.MinSpinAmount, params.MaxSpinAmount),
		RotationVelocity:    c.velocity,
		AccumulatedRotation: c.rotation,
		SpinDirection:       c.direction,
		BeatCount:           c.beats,
		ZoomPunch:           c.punch,
		ZoomScale:           1 - zoomDepth*math.Min(c.punch, 1),
		Saturation:          c.saturation,
		ParallaxX:           c.parallaxX,
		ParallaxY:           c.parallaxY,
	}
}

// parallaxTarget normalises the pointer into [-1,1] per axis, inverted so
// the backdrop drifts away from the pointer, and scales it by strength.
func (c *Conditioner) parallaxTarget(strength float64, width, height int) (float64, float64) {
	if !c.pointing.Load() || width <= 0 || height <= 0 {
		return 0, 0
	}
	nx := -(c.pointerX.load()/float64(width)*2 - 1)
	ny := -(c.pointerY.load()/float64(height)*2 - 1)
	return clamp(nx, -1, 1) * strength, clamp(ny, -1, 1) * strength
}
