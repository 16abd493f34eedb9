// Package palette resolves the three shader colours from the active theme.
package palette

import (
	"math"
	"sort"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/lucasb-eyer/go-colorful"
)

// Kind is the closed set of palette behaviours.
type Kind int

const (
	KindFixed Kind = iota
	KindReactive
	KindDynamicHue
)

func (k Kind) String() string {
	switch k {
	case KindReactive:
		return "reactive"
	case KindDynamicHue:
		return "dynamic"
	default:
		return "fixed"
	}
}

// Colors is the primary, secondary and background RGBA triple.
type Colors struct {
	Primary    mgl32.Vec4
	Secondary  mgl32.Vec4
	Background mgl32.Vec4
}

// Theme names understood by the resolver.
const (
	ThemeClassic  = "classic"
	ThemeOcean    = "ocean"
	ThemeSunset   = "sunset"
	ThemeForest   = "forest"
	ThemeNeon     = "neon"
	ThemeMono     = "mono"
	ThemeReactive = "reactive"
	ThemeDynamic  = "dynamic"

	DefaultTheme = ThemeClassic
)

// Hue follower tuning.
const (
	HueSpeed       = 24.0 // degrees per second the target advances
	HueFollowRate  = 0.1  // fraction of the remaining arc closed per 1/60 s
	hueSaturation  = 0.75
	hueValue       = 0.9
	backSaturation = 0.35
	backValue      = 0.12
)

func rgba(r, g, b uint8) mgl32.Vec4 {
	return mgl32.Vec4{float32(r) / 255, float32(g) / 255, float32(b) / 255, 1}
}

var fixedThemes = map[string]Colors{
	ThemeClassic: {rgba(0xde, 0x44, 0x3b), rgba(0x00, 0x6b, 0xb4), rgba(0x16, 0x23, 0x25)},
	ThemeOcean:   {rgba(0x1f, 0x9e, 0xc9), rgba(0x2c, 0xe0, 0xb5), rgba(0x06, 0x18, 0x2b)},
	ThemeSunset:  {rgba(0xff, 0x7a, 0x3d), rgba(0xd6, 0x2f, 0x7a), rgba(0x2a, 0x10, 0x24)},
	ThemeForest:  {rgba(0x4c, 0xa8, 0x4f), rgba(0xc8, 0xb8, 0x4a), rgba(0x0f, 0x1e, 0x12)},
	ThemeNeon:    {rgba(0xff, 0x2e, 0xd1), rgba(0x2e, 0xf6, 0xff), rgba(0x0b, 0x05, 0x1a)},
	ThemeMono:    {rgba(0xd8, 0xd8, 0xd8), rgba(0x78, 0x78, 0x78), rgba(0x12, 0x12, 0x12)},
}

// Swatches are the user-selectable colours of the reactive theme.
var Swatches = []mgl32.Vec4{
	rgba(0xde, 0x44, 0x3b), // red
	rgba(0x00, 0x6b, 0xb4), // blue
	rgba(0x4c, 0xa8, 0x4f), // green
	rgba(0xf2, 0xb1, 0x34), // amber
	rgba(0x8e, 0x44, 0xad), // purple
	rgba(0x1a, 0xbc, 0x9c), // teal
	rgba(0xff, 0x6f, 0x91), // pink
	rgba(0xec, 0xf0, 0xf1), // white
}

// ReactiveBackground is the fixed dark backdrop of the reactive theme.
var ReactiveBackground = mgl32.Vec4{0.05, 0.05, 0.08, 1}

// ThemeNames returns every known theme sorted by name.
func ThemeNames() []string {
	names := make([]string, 0, len(fixedThemes)+2)
	for name := range fixedThemes {
		names = append(names, name)
	}
	names = append(names, ThemeReactive, ThemeDynamic)
	sort.Strings(names)
	return names
}

// KindOf reports the palette behaviour of a theme name.
func KindOf(theme string) Kind {
	switch NormalizeTheme(theme) {
	case ThemeReactive:
		return KindReactive
	case ThemeDynamic:
		return KindDynamicHue
	default:
		return KindFixed
	}
}

// NormalizeTheme lower-cases name and resolves aliases. Unknown names map
// to DefaultTheme.
func NormalizeTheme(name string) string {
	key := strings.ToLower(strings.TrimSpace(name))
	switch key {
	case ThemeReactive, ThemeDynamic:
		return key
	case "hue", "cycle", "rainbow":
		return ThemeDynamic
	}
	if _, ok := fixedThemes[key]; ok {
		return key
	}
	return DefaultTheme
}

// Resolver owns PaletteState. It is used from the render goroutine only.
type Resolver struct {
	theme   string
	kind    Kind
	main    int
	accent  int
	colors  Colors
	current float64
	target  float64
}

// NewResolver starts on the default theme.
func NewResolver() *Resolver {
	r := &Resolver{}
	r.Configure(DefaultTheme, 0, 1)
	return r
}

// Configure selects a theme and the two reactive swatch indices, then
// recomputes the colours. Unknown themes fall back to DefaultTheme.
func (r *Resolver) Configure(theme string, main, accent int) {
	r.theme = NormalizeTheme(theme)
	r.kind = KindOf(r.theme)
	r.main = clampIndex(main)
	r.accent = clampIndex(accent)
	r.resolve()
}

// Theme returns the normalised active theme name.
func (r *Resolver) Theme() string { return r.theme }

// Kind returns the behaviour of the active theme.
func (r *Resolver) Kind() Kind { return r.kind }

// Colors returns the current colour triple.
func (r *Resolver) Colors() Colors { return r.colors }

// Hue returns the current and target hue in degrees.
func (r *Resolver) Hue() (current, target float64) { return r.current, r.target }

// SetTargetHue points the hue follower at deg, normalised into [0,360).
func (r *Resolver) SetTargetHue(deg float64) {
	r.target = normalizeHue(deg)
}

// SetHue jumps both current and target hue to deg.
func (r *Resolver) SetHue(deg float64) {
	r.current = normalizeHue(deg)
	r.target = r.current
	if r.kind == KindDynamicHue {
		r.resolve()
	}
}

// Advance moves the dynamic hue by dt seconds. Fixed and reactive themes
// are untouched.
func (r *Resolver) Advance(dt float64) Colors {
	if r.kind != KindDynamicHue || math.IsNaN(dt) || dt <= 0 {
		return r.colors
	}
	r.target = normalizeHue(r.target + HueSpeed*dt)
	r.current = FollowHue(r.current, r.target, 1-math.Pow(1-HueFollowRate, dt*60))
	r.resolve()
	return r.colors
}

func (r *Resolver) resolve() {
	switch r.kind {
	case KindReactive:
		r.colors = Colors{
			Primary:    Swatches[r.main],
			Secondary:  Swatches[r.accent],
			Background: ReactiveBackground,
		}
	case KindDynamicHue:
		r.colors = Colors{
			Primary:    hsv(r.current, hueSaturation, hueValue),
			Secondary:  hsv(r.current+180, hueSaturation, hueValue),
			Background: hsv(r.current, backSaturation, backValue),
		}
	default:
		r.colors = fixedThemes[r.theme]
	}
}

// FollowHue moves current toward target along the shorter arc by the
// given fraction of the remaining angle. The result is in [0,360).
func FollowHue(current, target, fraction float64) float64 {
	current, target = normalizeHue(current), normalizeHue(target)
	delta := math.Mod(target-current+540, 360) - 180
	return normalizeHue(current + delta*fraction)
}

func normalizeHue(deg float64) float64 {
	if math.IsNaN(deg) || math.IsInf(deg, 0) {
		return 0
	}
	h := math.Mod(deg, 360)
	if h < 0 {
		h += 360
	}
	if h >= 360 {
		h = 0
	}
	return h
}

func hsv(h, s, v float64) mgl32.Vec4 {
	c := colorful.Hsv(normalizeHue(h), s, v).Clamped()
	return mgl32.Vec4{float32(c.R), float32(c.G), float32(c.B), 1}
}

func clampIndex(i int) int {
	if i < 0 {
		return 0
	}
	if i >= len(Swatches) {
		return len(Swatches) - 1
	}
	return i
}
