package params

import (
	"math"
	"sync"
	"sync/atomic"
)

// Valid ranges for every tunable control.
const (
	MinContrast = 0.5
	MaxContrast = 8.0

	MinSpinAmount = 0.0
	MaxSpinAmount = 1.0

	MinIntensity = 0.0
	MaxIntensity = 2.0

	MinParallax = 0.0
	MaxParallax = 1.0

	MinTimeSpeed = 0.0
	MaxTimeSpeed = 3.0

	MinSpinSpeed = 0.0
	MaxSpinSpeed = 5.0
)

// Values is a plain copy of the parameter set, read once per frame.
type Values struct {
	Contrast    float64 `json:"contrast"`
	SpinAmount  float64 `json:"spinAmount"`
	Intensity   float64 `json:"intensity"`
	Parallax    float64 `json:"parallax"`
	TimeSpeed   float64 `json:"timeSpeed"`
	SpinSpeed   float64 `json:"spinSpeed"`
	MainColor   int     `json:"mainColor"`
	AccentColor int     `json:"accentColor"`
	Theme       string  `json:"theme"`
}

// Defaults returns the calm starting point used by a fresh visual.
func Defaults() Values {
	return Values{
		Contrast:    3.5,
		SpinAmount:  0.25,
		Intensity:   1.0,
		Parallax:    0.2,
		TimeSpeed:   1.0,
		SpinSpeed:   1.0,
		MainColor:   0,
		AccentColor: 1,
		Theme:       "classic",
	}
}

// Set holds the shader-facing controls. Setters may be called from any
// goroutine; each field is a single atomic scalar so the render loop never
// blocks on configuration.
type Set struct {
	contrast   atomicFloat
	spinAmount atomicFloat
	intensity  atomicFloat
	parallax   atomicFloat
	timeSpeed  atomicFloat
	spinSpeed  atomicFloat

	mainColor   atomic.Int64
	accentColor atomic.Int64
	colorCount  int

	themeMu sync.RWMutex
	theme   string

	hookMu          sync.RWMutex
	onPaletteChange func()
}

// New creates a Set initialised from Defaults. colorCount bounds the two
// reactive color indices; values below 1 are treated as 1.
func New(colorCount int) *Set {
	if colorCount < 1 {
		colorCount = 1
	}
	s := &Set{colorCount: colorCount}
	s.Apply(Defaults())
	return s
}

// Apply writes every field of v through the clamping setters.
func (s *Set) Apply(v Values) {
	s.SetContrast(v.Contrast)
	s.SetSpinAmount(v.SpinAmount)
	s.SetIntensity(v.Intensity)
	s.SetParallax(v.Parallax)
	s.SetTimeSpeed(v.TimeSpeed)
	s.SetSpinSpeed(v.SpinSpeed)
	s.storeColor(&s.mainColor, v.MainColor)
	s.storeColor(&s.accentColor, v.AccentColor)
	if v.Theme != "" {
		s.themeMu.Lock()
		s.theme = v.Theme
		s.themeMu.Unlock()
	}
	s.paletteChanged()
}

// OnPaletteChange registers fn to run after any palette-affecting write.
func (s *Set) OnPaletteChange(fn func()) {
	s.hookMu.Lock()
	s.onPaletteChange = fn
	s.hookMu.Unlock()
}

func (s *Set) SetContrast(v float64) {
	s.contrast.store(clamp(v, MinContrast, MaxContrast))
}

func (s *Set) SetSpinAmount(v float64) {
	s.spinAmount.store(clamp(v, MinSpinAmount, MaxSpinAmount))
}

// SetIntensity sets the global audio-reactivity scale.
func (s *Set) SetIntensity(v float64) {
	s.intensity.store(clamp(v, MinIntensity, MaxIntensity))
}

func (s *Set) SetParallax(v float64) {
	s.parallax.store(clamp(v, MinParallax, MaxParallax))
}

// SetTimeSpeed sets the base clock multiplier.
func (s *Set) SetTimeSpeed(v float64) {
	s.timeSpeed.store(clamp(v, MinTimeSpeed, MaxTimeSpeed))
}

func (s *Set) SetSpinSpeed(v float64) {
	s.spinSpeed.store(clamp(v, MinSpinSpeed, MaxSpinSpeed))
}

// SetMainColor selects the primary swatch for the reactive theme.
func (s *Set) SetMainColor(index int) {
	s.storeColor(&s.mainColor, index)
	s.paletteChanged()
}

// SetAccentColor selects the secondary swatch for the reactive theme.
func (s *Set) SetAccentColor(index int) {
	s.storeColor(&s.accentColor, index)
	s.paletteChanged()
}

// SetTheme stores the theme name. Validation is left to the palette
// resolver, which falls back to its default theme for unknown names.
func (s *Set) SetTheme(name string) {
	s.themeMu.Lock()
	s.theme = name
	s.themeMu.Unlock()
	s.paletteChanged()
}

func (s *Set) Contrast() float64   { return s.contrast.load() }
func (s *Set) SpinAmount() float64 { return s.spinAmount.load() }
func (s *Set) Intensity() float64  { return s.intensity.load() }
func (s *Set) Parallax() float64   { return s.parallax.load() }
func (s *Set) TimeSpeed() float64  { return s.timeSpeed.load() }
func (s *Set) SpinSpeed() float64  { return s.spinSpeed.load() }
func (s *Set) MainColor() int      { return int(s.mainColor.Load()) }
func (s *Set) AccentColor() int    { return int(s.accentColor.Load()) }

func (s *Set) Theme() string {
	s.themeMu.RLock()
	defer s.themeMu.RUnlock()
	return s.theme
}

// Snapshot returns a copy of every field.
func (s *Set) Snapshot() Values {
	return Values{
		Contrast:    s.Contrast(),
		SpinAmount:  s.SpinAmount(),
		Intensity:   s.Intensity(),
		Parallax:    s.Parallax(),
		TimeSpeed:   s.TimeSpeed(),
		SpinSpeed:   s.SpinSpeed(),
		MainColor:   s.MainColor(),
		AccentColor: s.AccentColor(),
		Theme:       s.Theme(),
	}
}

func (s *Set) storeColor(dst *atomic.Int64, index int) {
	if index < 0 {
		index = 0
	}
	if index > s.colorCount-1 {
		index = s.colorCount - 1
	}
	dst.Store(int64(index))
}

func (s *Set) paletteChanged() {
	s.hookMu.RLock()
	fn := s.onPaletteChange
	s.hookMu.RUnlock()
	if fn != nil {
		fn()
	}
}

type atomicFloat struct {
	bits atomic.Uint64
}

func (f *atomicFloat) load() float64   { return math.Float64frombits(f.bits.Load()) }
func (f *atomicFloat) store(v float64) { f.bits.Store(math.Float64bits(v)) }

// clamp maps NaN to minVal so a bad write still leaves a renderable value.
func clamp(v, minVal, maxVal float64) float64 {
	if math.IsNaN(v) || v < minVal {
		return minVal
	}
	if v > maxVal {
		return maxVal
	}
	return v
}
