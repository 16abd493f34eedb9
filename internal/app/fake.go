package app

import (
	"math"
	"math/rand"

	"github.com/guidoenr/vibeshader/internal/analyzer"
)

// fakeGenerator produces plausible music-like levels when no capture
// device is used.
type fakeGenerator struct {
	rng       *rand.Rand
	phaseBass float64
	phaseMid  float64
	phaseHigh float64
	beatClock float64
}

// beatPeriod is 120 BPM.
const beatPeriod = 0.5

func newFakeGenerator(seed int64) *fakeGenerator {
	return &fakeGenerator{rng: rand.New(rand.NewSource(seed))}
}

func (f *fakeGenerator) Next(delta float64) analyzer.Levels {
	f.phaseBass += delta * 0.7
	f.phaseMid += delta * 1.2
	f.phaseHigh += delta * 2.1
	f.beatClock += delta

	bass := clamp01(0.5 + 0.5*math.Sin(f.phaseBass) + f.rng.Float64()*0.1)
	mid := clamp01(0.4 + 0.4*math.Sin(f.phaseMid+0.5) + f.rng.Float64()*0.1)
	treble := clamp01(0.3 + 0.3*math.Sin(f.phaseHigh+1.0) + f.rng.Float64()*0.1)
	melody := clamp01(0.5 + 0.4*math.Sin(f.phaseHigh*0.5+2.0))
	chords := clamp01(0.5 + 0.3*math.Sin(f.phaseMid*0.8+1.0))

	beat := 0.0
	if f.beatClock >= beatPeriod {
		f.beatClock -= beatPeriod
		beat = 0.6 + f.rng.Float64()*0.4
	}

	return analyzer.Levels{
		Mid:    mid * analyzer.BandScale,
		Treble: treble * analyzer.BandScale,
		Peak:   math.Max(bass, math.Max(mid, treble)) * analyzer.BandScale,
		Melody: melody,
		Chords: chords,
		Bass:   bass,
		Vibe:   (melody + chords + bass) / 3,
		Beat:   beat,
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
