package params

import (
	"math"
	"testing"
)

func TestSettersClampToRange(t *testing.T) {
	s := New(8)

	cases := []struct {
		name     string
		set      func(float64)
		get      func() float64
		min, max float64
	}{
		{"contrast", s.SetContrast, s.Contrast, MinContrast, MaxContrast},
		{"spin amount", s.SetSpinAmount, s.SpinAmount, MinSpinAmount, MaxSpinAmount},
		{"intensity", s.SetIntensity, s.Intensity, MinIntensity, MaxIntensity},
		{"parallax", s.SetParallax, s.Parallax, MinParallax, MaxParallax},
		{"time speed", s.SetTimeSpeed, s.TimeSpeed, MinTimeSpeed, MaxTimeSpeed},
		{"spin speed", s.SetSpinSpeed, s.SpinSpeed, MinSpinSpeed, MaxSpinSpeed},
	}

	inputs := []float64{-1000, -1, 0, 0.25, 0.5, 1, 2.5, 7.9, 100, math.Inf(1), math.Inf(-1), math.NaN()}
	for _, tc := range cases {
		for _, in := range inputs {
			tc.set(in)
			got := tc.get()
			if got < tc.min || got > tc.max || math.IsNaN(got) {
				t.Fatalf("%s: set(%v) stored %v outside [%v,%v]", tc.name, in, got, tc.min, tc.max)
			}
		}
	}
}

func TestSetContrastHighClampsToMax(t *testing.T) {
	s := New(8)
	s.SetContrast(100)
	if got := s.Contrast(); got != 8.0 {
		t.Fatalf("contrast=%v want=8", got)
	}
	s.SetContrast(0.1)
	if got := s.Contrast(); got != 0.5 {
		t.Fatalf("contrast=%v want=0.5", got)
	}
	s.SetContrast(2)
	if got := s.Contrast(); got != 2 {
		t.Fatalf("in-range contrast changed: got=%v", got)
	}
}

func TestColorIndexClampsToSwatchCount(t *testing.T) {
	s := New(4)
	s.SetMainColor(10)
	if got := s.MainColor(); got != 3 {
		t.Fatalf("main color=%d want=3", got)
	}
	s.SetAccentColor(-2)
	if got := s.AccentColor(); got != 0 {
		t.Fatalf("accent color=%d want=0", got)
	}
}

func TestPaletteHookFiresOnlyForPaletteSetters(t *testing.T) {
	s := New(8)
	calls := 0
	s.OnPaletteChange(func() { calls++ })

	s.SetContrast(2)
	s.SetSpinAmount(0.5)
	s.SetParallax(0.3)
	if calls != 0 {
		t.Fatalf("non-palette setters fired hook %d times", calls)
	}

	s.SetTheme("ocean")
	s.SetMainColor(2)
	s.SetAccentColor(3)
	if calls != 3 {
		t.Fatalf("palette hook calls=%d want=3", calls)
	}
}

func TestSnapshotRoundTripsApply(t *testing.T) {
	s := New(8)
	want := Values{
		Contrast:    2,
		SpinAmount:  0.7,
		Intensity:   1.5,
		Parallax:    0.4,
		TimeSpeed:   2,
		SpinSpeed:   3,
		MainColor:   5,
		AccentColor: 6,
		Theme:       "neon",
	}
	s.Apply(want)
	if got := s.Snapshot(); got != want {
		t.Fatalf("snapshot=%+v want=%+v", got, want)
	}
}
