package analyzer

import (
	"math"
	"testing"
)

func TestAverage(t *testing.T) {
	vals := []float64{0.2, 0.4, 0.6, 0.8}
	want := 0.5
	if got := average(vals); math.Abs(got-want) > 1e-6 {
		t.Fatalf("average=%f want=%f", got, want)
	}
}

func TestNextPow2(t *testing.T) {
	cases := map[int]int{
		0:   1,
		1:   1,
		2:   2,
		3:   4,
		5:   8,
		16:  16,
		31:  32,
		257: 512,
	}
	for input, want := range cases {
		if got := nextPow2(input); got != want {
			t.Fatalf("nextPow2(%d)=%d want=%d", input, got, want)
		}
	}
}

func TestDynamicsWithLowPeakReturnsValue(t *testing.T) {
	if got := dynamics(0.5, 0.0); got != 0.5 {
		t.Fatalf("dynamics for zero peak: got=%f want=0.5", got)
	}
}

func sine(freq, rate float64, n int, amp float32) []float32 {
	out := make([]float32, n)
	for i := range out {
		out[i] = amp * float32(math.Sin(2*math.Pi*freq*float64(i)/rate))
	}
	return out
}

func TestSilenceProducesNothing(t *testing.T) {
	a := New(Config{SampleRate: 48_000})
	l := a.Analyze(make([]float32, 1024))
	if l != (Levels{}) {
		t.Fatalf("silence produced %+v", l)
	}
	if got := a.Analyze(nil); got != (Levels{}) {
		t.Fatalf("empty block produced %+v", got)
	}
}

func TestLevelsStayInRange(t *testing.T) {
	a := New(Config{SampleRate: 48_000})
	for _, freq := range []float64{60, 440, 1500, 5000} {
		for i := 0; i < 20; i++ {
			l := a.Analyze(sine(freq, 48_000, 2048, 1))
			for name, v := range map[string]float64{"mid": l.Mid, "treble": l.Treble, "peak": l.Peak} {
				if v < 0 || v > BandScale {
					t.Fatalf("%s=%v out of [0,%v] at %v Hz", name, v, BandScale, freq)
				}
			}
			for name, v := range map[string]float64{"melody": l.Melody, "chords": l.Chords, "bass": l.Bass, "vibe": l.Vibe, "beat": l.Beat} {
				if v < 0 || v > 1 {
					t.Fatalf("%s=%v out of [0,1] at %v Hz", name, v, freq)
				}
			}
		}
	}
}

func TestToneLandsInItsBand(t *testing.T) {
	a := New(Config{SampleRate: 48_000})
	var low, high Levels
	for i := 0; i < 10; i++ {
		low = a.Analyze(sine(80, 48_000, 2048, 0.8))
	}
	b := New(Config{SampleRate: 48_000})
	for i := 0; i < 10; i++ {
		high = b.Analyze(sine(4000, 48_000, 2048, 0.8))
	}
	if low.Bass <= low.Melody {
		t.Fatalf("80 Hz tone: bass=%v melody=%v", low.Bass, low.Melody)
	}
	if high.Treble <= low.Treble {
		t.Fatalf("4 kHz tone treble=%v not above 80 Hz tone treble=%v", high.Treble, low.Treble)
	}
}

func TestBassOnsetIsABeat(t *testing.T) {
	a := New(Config{SampleRate: 48_000})
	a.Analyze(make([]float32, 2048))
	l := a.Analyze(sine(80, 48_000, 2048, 1))
	if l.Beat <= 0.3 {
		t.Fatalf("beat=%v on bass onset", l.Beat)
	}
}

type recordingSink struct {
	bands, tracks [3]float64
	vibe, pulse   float64
	pulses        int
}

func (s *recordingSink) SetBands(m, t, p float64)  { s.bands = [3]float64{m, t, p} }
func (s *recordingSink) SetTracks(m, c, b float64) { s.tracks = [3]float64{m, c, b} }
func (s *recordingSink) SetVibe(v float64)         { s.vibe = v }
func (s *recordingSink) Pulse(v float64)           { s.pulse = v; s.pulses++ }

func TestPushForwardsEverything(t *testing.T) {
	s := &recordingSink{}
	Levels{Mid: 1, Treble: 2, Peak: 3, Melody: 0.1, Chords: 0.2, Bass: 0.3, Vibe: 0.4}.Push(s)
	if s.bands != [3]float64{1, 2, 3} || s.tracks != [3]float64{0.1, 0.2, 0.3} || s.vibe != 0.4 {
		t.Fatalf("sink=%+v", s)
	}
	if s.pulses != 0 {
		t.Fatalf("zero beat pulsed")
	}
	Levels{Beat: 0.7}.Push(s)
	if s.pulses != 1 || s.pulse != 0.7 {
		t.Fatalf("beat not forwarded")
	}
}

func TestGate(t *testing.T) {
	l := Gate(Levels{Mid: 0.5, Treble: 10, Bass: 0.05, Vibe: 0.55}, 0.1)
	if l.Mid != 0 || l.Bass != 0 {
		t.Fatalf("values under the floor survived: %+v", l)
	}
	if l.Treble != 10 {
		t.Fatalf("full band gated: %v", l.Treble)
	}
	if math.Abs(l.Vibe-0.5) > 1e-9 {
		t.Fatalf("vibe=%v", l.Vibe)
	}
}

func TestClamp(t *testing.T) {
	if clamp(2, 0, 1) != 1 {
		t.Fatalf("expected clamp high to be 1")
	}
	if clamp(-1, 0, 1) != 0 {
		t.Fatalf("expected clamp low to be 0")
	}
}
