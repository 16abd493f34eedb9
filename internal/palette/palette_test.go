package palette

import (
	"math"
	"testing"
)

func TestFollowHueTakesShortArc(t *testing.T) {
	h := 350.0
	for i := 0; i < 40; i++ {
		next := FollowHue(h, 10, HueFollowRate)
		if next < 0 || next >= 360 {
			t.Fatalf("hue %v left [0,360)", next)
		}
		if next > 10 && next < 350 {
			t.Fatalf("step %d went the long way: %v -> %v", i, h, next)
		}
		h = next
	}
	if math.Abs(h-10) > 0.5 {
		t.Fatalf("hue %v did not approach 10", h)
	}

	if got := FollowHue(350, 10, HueFollowRate); math.Abs(got-352) > 1e-9 {
		t.Fatalf("first step=%v want 352", got)
	}
	if got := FollowHue(10, 350, HueFollowRate); math.Abs(got-8) > 1e-9 {
		t.Fatalf("reverse step=%v want 8", got)
	}
}

func TestHueStaysNormalized(t *testing.T) {
	r := NewResolver()
	r.Configure(ThemeDynamic, 0, 0)
	r.SetTargetHue(-30)
	if _, target := r.Hue(); target != 330 {
		t.Fatalf("target=%v want 330", target)
	}
	r.SetTargetHue(725)
	if _, target := r.Hue(); target != 5 {
		t.Fatalf("target=%v want 5", target)
	}
	for i := 0; i < 5000; i++ {
		r.Advance(1.0 / 60.0)
		cur, target := r.Hue()
		if cur < 0 || cur >= 360 || target < 0 || target >= 360 {
			t.Fatalf("hue escaped range: current=%v target=%v", cur, target)
		}
	}
}

func TestFixedThemeRoundTrip(t *testing.T) {
	r := NewResolver()
	r.Configure(ThemeSunset, 0, 1)
	want := r.Colors()

	r.Configure(ThemeDynamic, 0, 1)
	for i := 0; i < 120; i++ {
		r.Advance(1.0 / 60.0)
	}
	if r.Colors() == want {
		t.Fatalf("dynamic mode kept the fixed colours")
	}

	r.Configure(ThemeSunset, 0, 1)
	if got := r.Colors(); got != want {
		t.Fatalf("round trip changed colours: got %+v want %+v", got, want)
	}
}

func TestReactiveUsesSwatches(t *testing.T) {
	r := NewResolver()
	r.Configure(ThemeReactive, 2, 4)
	c := r.Colors()
	if c.Primary != Swatches[2] || c.Secondary != Swatches[4] || c.Background != ReactiveBackground {
		t.Fatalf("reactive colours=%+v", c)
	}
	before, _ := r.Hue()
	r.Advance(1)
	if after, _ := r.Hue(); after != before {
		t.Fatalf("reactive theme advanced hue %v -> %v", before, after)
	}

	r.Configure(ThemeReactive, 99, -1)
	c = r.Colors()
	if c.Primary != Swatches[len(Swatches)-1] || c.Secondary != Swatches[0] {
		t.Fatalf("indices not clamped: %+v", c)
	}
}

func TestDynamicColoursAreComplementary(t *testing.T) {
	r := NewResolver()
	r.Configure(ThemeDynamic, 0, 0)
	r.SetHue(0)
	c := r.Colors()
	// hue 0 is red; its complement is cyan
	if c.Primary[0] <= c.Primary[1] || c.Secondary[1] <= c.Secondary[0] {
		t.Fatalf("unexpected hue colours: %+v", c)
	}
	for i := 0; i < 3; i++ {
		if c.Background[i] > 0.2 {
			t.Fatalf("background too bright: %+v", c.Background)
		}
	}
}

func TestUnknownThemeFallsBack(t *testing.T) {
	r := NewResolver()
	r.Configure("plaid", 0, 1)
	if r.Theme() != DefaultTheme || r.Kind() != KindFixed {
		t.Fatalf("theme=%q kind=%s", r.Theme(), r.Kind())
	}
	if KindOf("Dynamic") != KindDynamicHue || KindOf("reactive") != KindReactive {
		t.Fatalf("kind lookup failed")
	}
	if len(ThemeNames()) != len(fixedThemes)+2 {
		t.Fatalf("theme names=%v", ThemeNames())
	}
}
