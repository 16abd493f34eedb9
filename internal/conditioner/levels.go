package conditioner

import (
	"math"
	"sync/atomic"

	"github.com/guidoenr/vibeshader/internal/params"
)

const (
	// BandMax is the upper bound of a raw band level.
	BandMax = 10.0
	// bandDamping is the EMA weight kept from the previous band value.
	bandDamping = 0.7
)

// ChannelLookup resolves an audio channel to its current level in [0,1].
type ChannelLookup interface {
	Level(c params.Channel) float64
}

// LookupFunc adapts a plain function to ChannelLookup.
type LookupFunc func(c params.Channel) float64

func (f LookupFunc) Level(c params.Channel) float64 { return f(c) }

// Silent is a lookup that reports zero for every channel.
var Silent = LookupFunc(func(params.Channel) float64 { return 0 })

// Levels stores the latest audio levels pushed by the audio subsystem.
// Pushes happen at the audio cadence on their own goroutine; the render
// loop only reads. Band smoothing runs on push, so a single pusher is
// assumed for SetBands.
type Levels struct {
	mid    atomicFloat
	treble atomicFloat
	peak   atomicFloat

	melody atomicFloat
	chords atomicFloat
	bass   atomicFloat
	vibe   atomicFloat
}

// NewLevels returns a store with every channel at zero.
func NewLevels() *Levels {
	return &Levels{}
}

// SetBands pushes one sample of the three spectral bands. Each raw value is
// clamped to [0, BandMax] before smoothing.
func (l *Levels) SetBands(mid, treble, peak float64) {
	l.mid.store(ema(l.mid.load(), clamp(mid, 0, BandMax), bandDamping))
	l.treble.store(ema(l.treble.load(), clamp(treble, 0, BandMax), bandDamping))
	l.peak.store(ema(l.peak.load(), clamp(peak, 0, BandMax), bandDamping))
}

// SetTracks pushes per-instrument intensities, each clamped to [0,1].
func (l *Levels) SetTracks(melody, chords, bass float64) {
	l.melody.store(clamp(melody, 0, 1))
	l.chords.store(clamp(chords, 0, 1))
	l.bass.store(clamp(bass, 0, 1))
}

// SetVibe pushes the aggregate intensity, clamped to [0,1].
func (l *Levels) SetVibe(v float64) {
	l.vibe.store(clamp(v, 0, 1))
}

// Bands returns the smoothed band values in [0, BandMax].
func (l *Levels) Bands() (mid, treble, peak float64) {
	return l.mid.load(), l.treble.load(), l.peak.load()
}

// Tracks returns the last pushed track intensities.
func (l *Levels) Tracks() (melody, chords, bass float64) {
	return l.melody.load(), l.chords.load(), l.bass.load()
}

// Level implements ChannelLookup. Bands are scaled down by BandMax so every
// channel reads in [0,1].
func (l *Levels) Level(c params.Channel) float64 {
	switch c {
	case params.ChannelMelody:
		return l.melody.load()
	case params.ChannelChords:
		return l.chords.load()
	case params.ChannelBass:
		return l.bass.load()
	case params.ChannelVibe:
		return l.vibe.load()
	case params.ChannelMid:
		return l.mid.load() / BandMax
	case params.ChannelTreble:
		return l.treble.load() / BandMax
	case params.ChannelPeak:
		return l.peak.load() / BandMax
	default:
		return 0
	}
}

// Reset zeroes every stored level.
func (l *Levels) Reset() {
	for _, f := range []*atomicFloat{&l.mid, &l.treble, &l.peak, &l.melody, &l.chords, &l.bass, &l.vibe} {
		f.store(0)
	}
}

type atomicFloat struct {
	bits atomic.Uint64
}

func (f *atomicFloat) load() float64   { return math.Float64frombits(f.bits.Load()) }
func (f *atomicFloat) store(v float64) { f.bits.Store(math.Float64bits(v)) }

func (f *atomicFloat) swap(v float64) float64 {
	return math.Float64frombits(f.bits.Swap(math.Float64bits(v)))
}

func ema(prev, input, k float64) float64 {
	return prev*k + input*(1-k)
}

func clamp(v, minVal, maxVal float64) float64 {
	if math.IsNaN(v) || v < minVal {
		return minVal
	}
	if v > maxVal {
		return maxVal
	}
	return v
}
