package conditioner

import (
	"math"
	"testing"

	"github.com/guidoenr/vibeshader/internal/params"
)

const frameDT = 1.0 / 60.0

func quietInput() Input {
	b := params.NewBindings()
	for _, e := range params.Effects() {
		b.Set(e, params.ChannelNone)
	}
	return Input{
		Params:   params.Defaults(),
		Bindings: b,
		Lookup:   Silent,
		Width:    800,
		Height:   600,
	}
}

func fixedLookup(levels map[params.Channel]float64) ChannelLookup {
	return LookupFunc(func(c params.Channel) float64 { return levels[c] })
}

func TestSinglePulseDecaysRotation(t *testing.T) {
	c := New()
	in := quietInput()

	c.Pulse(1.0)
	var prev Output
	for i := 0; i < 10; i++ {
		out := c.Advance(frameDT, in)
		if i > 0 && math.Abs(out.RotationVelocity) >= math.Abs(prev.RotationVelocity) {
			t.Fatalf("frame %d: |velocity| %v did not drop below %v", i, out.RotationVelocity, prev.RotationVelocity)
		}
		prev = out
	}
	if prev.AccumulatedRotation == 0 {
		t.Fatalf("expected non-zero accumulated rotation")
	}
	if prev.BeatCount != 1 {
		t.Fatalf("beat count=%d want=1", prev.BeatCount)
	}
}

func TestSpinDirectionFlipsEverySecondBeat(t *testing.T) {
	c := New()
	in := quietInput()

	wantDirections := []float64{1, -1, -1, 1, 1, -1}
	for i, want := range wantDirections {
		c.Pulse(0.9)
		out := c.Advance(frameDT, in)
		if out.SpinDirection != want {
			t.Fatalf("beat %d: direction=%v want=%v", i+1, out.SpinDirection, want)
		}
		// a quiet frame re-arms edge detection
		c.Advance(frameDT, in)
	}
}

func TestSubThresholdBeatsNeverFlip(t *testing.T) {
	c := New()
	in := quietInput()
	for i := 0; i < 20; i++ {
		c.Pulse(BeatThreshold)
		out := c.Advance(frameDT, in)
		if out.SpinDirection != 1 || out.BeatCount != 0 {
			t.Fatalf("sub-threshold pulse counted: direction=%v beats=%d", out.SpinDirection, out.BeatCount)
		}
		c.Advance(frameDT, in)
	}
}

func TestSustainedBeatCountsOnce(t *testing.T) {
	c := New()
	in := quietInput()
	in.Bindings.Set(params.EffectBeatPulse, params.ChannelBass)
	in.Lookup = fixedLookup(map[params.Channel]float64{params.ChannelBass: 0.8})

	var out Output
	for i := 0; i < 30; i++ {
		out = c.Advance(frameDT, in)
	}
	if out.BeatCount != 1 {
		t.Fatalf("sustained level produced %d beats, want 1", out.BeatCount)
	}
}

func TestZoomPunchNonNegativeAndSettles(t *testing.T) {
	c := New()
	in := quietInput()
	in.Bindings.Set(params.EffectZoomThump, params.ChannelBass)

	loud := fixedLookup(map[params.Channel]float64{params.ChannelBass: 1.0})
	in.Lookup = loud
	var peak float64
	for i := 0; i < 3; i++ {
		out := c.Advance(frameDT, in)
		if out.ZoomPunch < 0 {
			t.Fatalf("negative punch %v", out.ZoomPunch)
		}
		peak = out.ZoomPunch
	}
	if peak <= 0 {
		t.Fatalf("expected a punch, got %v", peak)
	}

	in.Lookup = Silent
	var out Output
	for i := 0; i < 20; i++ {
		out = c.Advance(frameDT, in)
		if out.ZoomPunch < 0 {
			t.Fatalf("negative punch %v at frame %d", out.ZoomPunch, i)
		}
	}
	if out.ZoomPunch > peak*0.05 {
		t.Fatalf("punch %v did not settle from peak %v within 20 frames", out.ZoomPunch, peak)
	}
	if out.ZoomScale <= 0 || out.ZoomScale > 1 {
		t.Fatalf("zoom scale %v outside (0,1]", out.ZoomScale)
	}
}

func TestZoomBelowThresholdDoesNothing(t *testing.T) {
	c := New()
	in := quietInput()
	in.Bindings.Set(params.EffectZoomThump, params.ChannelBass)
	in.Lookup = fixedLookup(map[params.Channel]float64{params.ChannelBass: 0.5})
	out := c.Advance(frameDT, in)
	if out.ZoomPunch != 0 || out.ZoomScale != 1 {
		t.Fatalf("punch=%v scale=%v want 0 and 1", out.ZoomPunch, out.ZoomScale)
	}
}

func TestUnboundEffectsIgnoreAudio(t *testing.T) {
	c := New()
	in := quietInput()
	in.Lookup = fixedLookup(map[params.Channel]float64{
		params.ChannelMelody: 1, params.ChannelChords: 1, params.ChannelBass: 1,
		params.ChannelMid: 1, params.ChannelTreble: 1, params.ChannelPeak: 1, params.ChannelVibe: 1,
	})
	var out Output
	for i := 0; i < 30; i++ {
		out = c.Advance(frameDT, in)
	}
	if out.ZoomPunch != 0 || out.Saturation != 0 || out.RotationVelocity != 0 || out.BeatCount != 0 {
		t.Fatalf("unbound effects reacted: %+v", out)
	}
	if out.Contrast != in.Params.Contrast || out.SpinAmount != in.Params.SpinAmount {
		t.Fatalf("contrast/spin modulated without binding: %+v", out)
	}
}

func TestNilLookupAndBindingsAreSilent(t *testing.T) {
	c := New()
	out := c.Advance(frameDT, Input{Params: params.Defaults()})
	if out.Saturation != 0 || out.ZoomPunch != 0 {
		t.Fatalf("expected silence, got %+v", out)
	}
}

func TestSaturationFollowsMelodySlowly(t *testing.T) {
	c := New()
	in := quietInput()
	in.Bindings.Set(params.EffectColorSaturation, params.ChannelMelody)
	in.Lookup = fixedLookup(map[params.Channel]float64{params.ChannelMelody: 1})

	first := c.Advance(frameDT, in)
	if first.Saturation <= 0 || first.Saturation > 0.06 {
		t.Fatalf("first frame saturation %v, want a small step", first.Saturation)
	}
	var out Output
	for i := 0; i < 300; i++ {
		out = c.Advance(frameDT, in)
	}
	if math.Abs(out.Saturation-in.Params.Intensity) > 1e-3 {
		t.Fatalf("saturation=%v want ~%v", out.Saturation, in.Params.Intensity)
	}
}

func TestParallaxInvertsAndDamps(t *testing.T) {
	c := New()
	in := quietInput()
	in.Params.Parallax = 1

	c.PointerMoved(800, 0) // right edge, top edge
	first := c.Advance(frameDT, in)
	if first.ParallaxX >= 0 || first.ParallaxY <= 0 {
		t.Fatalf("expected inverted offset, got x=%v y=%v", first.ParallaxX, first.ParallaxY)
	}
	if math.Abs(first.ParallaxX) > 0.2 {
		t.Fatalf("offset jumped to %v on the first frame", first.ParallaxX)
	}
	var out Output
	for i := 0; i < 200; i++ {
		out = c.Advance(frameDT, in)
	}
	if math.Abs(out.ParallaxX+1) > 1e-3 || math.Abs(out.ParallaxY-1) > 1e-3 {
		t.Fatalf("parallax converged to (%v,%v) want (-1,1)", out.ParallaxX, out.ParallaxY)
	}

	c.PointerMoved(5000, -5000)
	for i := 0; i < 200; i++ {
		out = c.Advance(frameDT, in)
	}
	if out.ParallaxX < -1 || out.ParallaxY > 1 {
		t.Fatalf("offset escaped [-1,1]: (%v,%v)", out.ParallaxX, out.ParallaxY)
	}
}

func TestZeroDeltaHoldsState(t *testing.T) {
	c := New()
	in := quietInput()
	a := c.Advance(frameDT, in)
	b := c.Advance(0, in)
	n := c.Advance(math.NaN(), in)
	if b.Time != a.Time || n.Time != a.Time {
		t.Fatalf("time moved on zero/NaN dt: %v %v %v", a.Time, b.Time, n.Time)
	}
}

func TestZeroDeltaKeepsPendingPulse(t *testing.T) {
	c := New()
	in := quietInput()
	in.Bindings.Set(params.EffectZoomThump, params.ChannelBass)
	in.Lookup = fixedLookup(map[params.Channel]float64{params.ChannelBass: 1})

	c.Pulse(1.0)
	held := c.Advance(0, in)
	if held.BeatCount != 0 || held.ZoomPunch != 0 || held.RotationVelocity != 0 {
		t.Fatalf("zero dt advanced beat state: %+v", held)
	}

	var out Output
	for i := 0; i < 10; i++ {
		out = c.Advance(frameDT, in)
	}
	if out.BeatCount != 1 {
		t.Fatalf("beat count=%d want=1", out.BeatCount)
	}
	if out.AccumulatedRotation == 0 {
		t.Fatalf("pulse before a zero dt frame was lost")
	}
}

func TestModulationStaysInRange(t *testing.T) {
	c := New()
	in := quietInput()
	in.Bindings.Reset()
	in.Params.Intensity = params.MaxIntensity
	in.Params.Contrast = params.MaxContrast
	in.Params.SpinAmount = params.MaxSpinAmount
	in.Lookup = fixedLookup(map[params.Channel]float64{params.ChannelMid: 1, params.ChannelTreble: 1})
	out := c.Advance(frameDT, in)
	if out.Contrast > params.MaxContrast || out.SpinAmount > params.MaxSpinAmount {
		t.Fatalf("modulated values out of range: %+v", out)
	}
}
