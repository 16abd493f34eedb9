package conditioner

import (
	"math"
	"testing"

	"github.com/guidoenr/vibeshader/internal/params"
)

func TestBandSmoothingConverges(t *testing.T) {
	const pushes = 20
	for _, raw := range []float64{0, 0.5, 1, 3, 7.25, 10} {
		l := NewLevels()
		for i := 0; i < pushes; i++ {
			l.SetBands(raw, raw, raw)
		}
		// 0.7^20 leaves under 1e-3 of the step, so the bound scales with raw.
		tol := 1e-3 * math.Max(1, raw)
		mid, treble, peak := l.Bands()
		for _, got := range []float64{mid, treble, peak} {
			if math.Abs(got-raw) > tol {
				t.Fatalf("raw=%v smoothed=%v after %d pushes", raw, got, pushes)
			}
		}
		// steady state: further pushes keep it there
		l.SetBands(raw, raw, raw)
		if again, _, _ := l.Bands(); math.Abs(again-raw) > math.Abs(mid-raw)+1e-12 {
			t.Fatalf("raw=%v drifted away: %v -> %v", raw, mid, again)
		}
	}
}

func TestBandSmoothingStepIsDamped(t *testing.T) {
	l := NewLevels()
	l.SetBands(10, 0, 0)
	mid, _, _ := l.Bands()
	if math.Abs(mid-3) > 1e-9 {
		t.Fatalf("first push mid=%v want 3", mid)
	}
}

func TestBandsClampRawInput(t *testing.T) {
	l := NewLevels()
	for i := 0; i < 60; i++ {
		l.SetBands(50, -4, math.NaN())
	}
	mid, treble, peak := l.Bands()
	if mid > BandMax || treble != 0 || peak != 0 {
		t.Fatalf("bands not clamped: mid=%v treble=%v peak=%v", mid, treble, peak)
	}
	if got := l.Level(params.ChannelMid); got > 1 {
		t.Fatalf("mid channel=%v exceeds 1", got)
	}
}

func TestLevelLookup(t *testing.T) {
	l := NewLevels()
	l.SetTracks(0.2, 0.4, 1.7)
	l.SetVibe(0.9)

	cases := map[params.Channel]float64{
		params.ChannelNone:   0,
		params.ChannelMelody: 0.2,
		params.ChannelChords: 0.4,
		params.ChannelBass:   1,
		params.ChannelVibe:   0.9,
		params.Channel(77):   0,
	}
	for ch, want := range cases {
		if got := l.Level(ch); math.Abs(got-want) > 1e-9 {
			t.Fatalf("level(%s)=%v want=%v", ch, got, want)
		}
	}

	l.Reset()
	if got := l.Level(params.ChannelBass); got != 0 {
		t.Fatalf("reset left bass=%v", got)
	}
}
