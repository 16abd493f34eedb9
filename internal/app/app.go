package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"math/rand"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/guidoenr/vibeshader/internal/analyzer"
	"github.com/guidoenr/vibeshader/internal/audio"
	"github.com/guidoenr/vibeshader/internal/engine"
	"github.com/guidoenr/vibeshader/internal/palette"
	"github.com/guidoenr/vibeshader/internal/params"
	"github.com/guidoenr/vibeshader/internal/render"
	"github.com/guidoenr/vibeshader/internal/shader"
	"github.com/guidoenr/vibeshader/internal/web"
	"golang.org/x/sync/errgroup"
)

// Config configures the application runtime.
type Config struct {
	DeviceName   string
	BufferSize   int
	DisableAudio bool
	NoiseFloor   float64
	Width        int
	Height       int
	TargetFPS    float64
	Headless     bool
	Initial      params.Values
	WebAddr      string
	Keyboard     bool
	ProfilePath  string
	Log          *log.Logger
}

type hostRunner interface {
	render.Host
	Run(ctx context.Context) error
}

// App ties together audio capture, analysis, the engine and its host.
type App struct {
	cfg      Config
	log      *log.Logger
	engine   *engine.Engine
	driver   *render.Driver
	host     hostRunner
	capture  *audio.Capture
	analyzer *analyzer.Analyzer
	fake     *fakeGenerator
	server   *web.Server
	prof     *profiler
	rng      *rand.Rand

	fpsBits atomic.Uint64
}

// New constructs the application using the provided configuration.
func New(cfg Config) (*App, error) {
	if cfg.TargetFPS <= 0 {
		cfg.TargetFPS = 60
	}
	if cfg.Log == nil {
		cfg.Log = log.New(os.Stdout, "", log.LstdFlags)
	}
	if cfg.Width <= 0 {
		cfg.Width = 1280
	}
	if cfg.Height <= 0 {
		cfg.Height = 720
	}
	if cfg.Initial == (params.Values{}) {
		cfg.Initial = params.Defaults()
	}

	var compiler shader.Compiler = &shader.NullCompiler{}
	if !cfg.Headless {
		c, err := shader.GPUCompiler()
		if err != nil {
			return nil, fmt.Errorf("shader backend: %w", err)
		}
		compiler = c
	}

	a := &App{
		cfg: cfg,
		log: cfg.Log,
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	initial := cfg.Initial
	a.engine = engine.New(engine.Config{Log: cfg.Log, Compiler: compiler, Initial: &initial})
	a.prof = newProfiler(cfg.ProfilePath, cfg.Log)
	a.driver = render.NewDriver(a, render.DriverConfig{Log: cfg.Log})

	hostCfg := render.HostConfig{
		Title:       "vibeshader",
		Width:       cfg.Width,
		Height:      cfg.Height,
		FPS:         cfg.TargetFPS,
		Log:         cfg.Log,
		OnPointer:   a.engine.PointerMoved,
		BeforeClose: a.driver.Detach,
	}
	if cfg.Headless {
		a.host = render.NewTickerHost(hostCfg)
	} else {
		host, err := render.NewSDLHost(hostCfg)
		if err != nil {
			return nil, fmt.Errorf("window host: %w", err)
		}
		a.host = host
	}

	if cfg.DisableAudio {
		a.fake = newFakeGenerator(time.Now().UnixNano())
		a.log.Println("audio disabled, using synthetic generator")
	} else {
		capture, err := audio.NewCapture(audio.Config{
			DeviceName: cfg.DeviceName,
			BufferSize: cfg.BufferSize,
			Channels:   2,
		})
		if err != nil {
			return nil, fmt.Errorf("audio capture: %w", err)
		}
		a.capture = capture
		a.analyzer = analyzer.New(analyzer.Config{SampleRate: capture.SampleRate(), HistorySize: 60})
		if info := capture.Device(); info != nil {
			a.log.Printf("audio capture started on \"%s\" @ %.0f Hz", info.Name, capture.SampleRate())
		}
	}

	if cfg.WebAddr != "" {
		a.server = web.NewServer(a, web.Config{Log: cfg.Log})
	}
	return a, nil
}

// Run animates until ctx is cancelled, the window closes or the user quits.
// It must be called from the goroutine that may own the GPU context.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	a.driver.Attach(a.host)
	a.driver.SetAnimating(true)

	var g errgroup.Group
	g.Go(func() error {
		a.feedAudio(ctx)
		return nil
	})
	if a.server != nil {
		g.Go(func() error {
			if err := a.server.Run(ctx, a.cfg.WebAddr); err != nil {
				a.log.Printf("%v", err)
			}
			return nil
		})
	}

	if a.cfg.Keyboard {
		a.startInputListener(ctx, cancel)
	}

	err := a.host.Run(ctx)
	cancel()
	_ = g.Wait()
	if errors.Is(err, render.ErrHostQuit) {
		return nil
	}
	return err
}

// Close releases held resources.
func (a *App) Close() error {
	var errs []error
	if a.capture != nil {
		errs = append(errs, a.capture.Close())
	}
	errs = append(errs, a.prof.Close())
	return errors.Join(errs...)
}

// Frame implements render.Scene, metering the engine.
func (a *App) Frame(dt float64, s render.Surface) error {
	start := time.Now()
	err := a.engine.Frame(dt, s)
	a.prof.frame(dt, time.Since(start))
	if dt > 0 {
		prev := math.Float64frombits(a.fpsBits.Load())
		fps := 1 / dt
		if prev > 0 {
			fps = prev*0.9 + fps*0.1
		}
		a.fpsBits.Store(math.Float64bits(fps))
	}
	return err
}

// Release implements render.Scene.
func (a *App) Release() { a.engine.Release() }

// Engine, SetAnimating, Animating and FPS implement web.Controller.
func (a *App) Engine() *engine.Engine { return a.engine }
func (a *App) SetAnimating(on bool)   { a.driver.SetAnimating(on) }
func (a *App) Animating() bool        { return a.driver.State() == render.StateAnimating }
func (a *App) FPS() float64           { return math.Float64frombits(a.fpsBits.Load()) }

// feedAudio pushes one analysis result per frame interval into the engine.
func (a *App) feedAudio(ctx context.Context) {
	interval := time.Duration(float64(time.Second) / a.cfg.TargetFPS)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			delta := now.Sub(last).Seconds()
			last = now
			a.pushLevels(delta).Push(a.engine)
		}
	}
}

func (a *App) pushLevels(delta float64) analyzer.Levels {
	if a.capture != nil && a.analyzer != nil {
		levels := a.analyzer.Analyze(a.capture.Samples(2048))
		return analyzer.Gate(levels, a.cfg.NoiseFloor)
	}
	if a.fake != nil {
		return a.fake.Next(delta)
	}
	return analyzer.Levels{}
}

func (a *App) toggleAnimation() {
	state := a.driver.Toggle()
	a.log.Printf("animation %s", state)
}

func (a *App) cycleTheme() {
	names := palette.ThemeNames()
	current := palette.NormalizeTheme(a.engine.Params().Theme())
	next := names[0]
	for i, name := range names {
		if name == current {
			next = names[(i+1)%len(names)]
			break
		}
	}
	a.engine.SetTheme(next)
	a.log.Printf("theme -> %s", next)
}

func (a *App) randomizeVisuals() {
	p := a.engine.Params()
	theme := pickRandom(palette.ThemeNames(), p.Theme(), a.rng)
	a.engine.SetTheme(theme)
	a.engine.SetMainColor(a.rng.Intn(len(palette.Swatches)))
	a.engine.SetAccentColor(a.rng.Intn(len(palette.Swatches)))
	p.SetContrast(lerp(2, 6, a.rng.Float64()))
	p.SetSpinAmount(lerp(0.1, 0.6, a.rng.Float64()))
	p.SetSpinSpeed(lerp(0.5, 2, a.rng.Float64()))

	a.log.Printf("Randomize visuals -> theme=%s contrast=%.2f spin=%.2f", theme, p.Contrast(), p.SpinAmount())
}

func lerp(lo, hi, t float64) float64 { return lo + (hi-lo)*t }

func pickRandom(options []string, current string, rng *rand.Rand) string {
	candidates := make([]string, 0, len(options))
	for _, o := range options {
		if !strings.EqualFold(o, current) {
			candidates = append(candidates, o)
		}
	}
	if len(candidates) == 0 {
		return current
	}
	return candidates[rng.Intn(len(candidates))]
}
