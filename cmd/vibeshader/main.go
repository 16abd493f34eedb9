package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/guidoenr/vibeshader/internal/app"
	"github.com/guidoenr/vibeshader/internal/audio"
	"github.com/guidoenr/vibeshader/internal/palette"
	"github.com/guidoenr/vibeshader/internal/params"
	"github.com/guidoenr/vibeshader/internal/render"
	"golang.org/x/term"
)

func init() {
	// SDL and OpenGL need the main OS thread on some platforms.
	runtime.LockOSThread()
}

func main() {
	defaults := params.Defaults()
	var (
		deviceName = flag.String("audio-device", "", "Optional PortAudio device name (substring match)")
		width      = flag.Int("width", 1280, "Window width")
		height     = flag.Int("height", 720, "Window height")
		targetFPS  = flag.Float64("fps", 60, "Target frames per second")
		bufferSize = flag.Int("buffer-size", 4096, "Capture ring size in samples")
		noiseFloor = flag.Float64("noise-floor", 0.05, "Ignore audio levels below this fraction")
		noAudio    = flag.Bool("no-audio", false, "Run with synthetic audio (for testing)")
		headless   = flag.Bool("headless", false, "Run the engine without a window")
		debug      = flag.Bool("debug", false, "Enable verbose logging")
		theme      = flag.String("theme", defaults.Theme, fmt.Sprintf("Color theme (%v)", palette.ThemeNames()))
		contrast   = flag.Float64("contrast", defaults.Contrast, "Shader contrast (0.5-8)")
		spin       = flag.Float64("spin", defaults.SpinAmount, "Spin amount (0-1)")
		intensity  = flag.Float64("intensity", defaults.Intensity, "Audio reactivity (0-2)")
		parallax   = flag.Float64("parallax", defaults.Parallax, "Pointer parallax strength (0-1)")
		webAddr    = flag.String("web", "", "Serve the control API on this address, e.g. :8080")
		profile    = flag.String("profile", "", "Append per-frame timings as CSV to this file")
		listDevs   = flag.Bool("list-audio-devices", false, "List available audio input devices and exit")
	)
	flag.Parse()

	if *width <= 0 || *height <= 0 {
		log.Fatalf("invalid dimensions: width=%d height=%d", *width, *height)
	}
	if *targetFPS <= 0 {
		log.Fatalf("fps must be positive (got %.2f)", *targetFPS)
	}
	if !*headless && !render.SupportsSDL() {
		log.Fatalf("this build has no window backend; rebuild with -tags sdl or pass -headless")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger := log.New(os.Stdout, "[vibeshader] ", log.LstdFlags)
	if !*debug {
		logger.SetOutput(os.Stderr)
		logger.SetFlags(0)
	}

	needAudio := !*noAudio || *listDevs
	if needAudio {
		if err := audio.Initialize(); err != nil {
			logger.Fatalf("failed to initialize PortAudio: %v", err)
		}
		defer audio.Terminate()
	}

	if *listDevs {
		devices, err := audio.ListDevices()
		if err != nil {
			logger.Fatalf("list devices: %v", err)
		}
		fmt.Printf("\n=== Audio Input Devices ===\n\n")
		for _, dev := range devices {
			if dev.MaxInput == 0 {
				continue
			}
			markers := ""
			if dev.IsDefaultInput {
				markers += " (default)"
			}
			fmt.Printf("- %s [%s]%s\n    inputs:%d outputs:%d sample:%.0f Hz\n",
				dev.Name, dev.HostAPI, markers, dev.MaxInput, dev.MaxOutput, dev.DefaultSampleHz)
		}
		if dev, err := audio.FindDevice(""); err == nil {
			fmt.Printf("\nAuto-detected input: %s (%.0f Hz, %d channels)\n", dev.Name, dev.DefaultSampleRate, dev.MaxInputChannels)
		}
		return
	}

	initial := defaults
	initial.Theme = *theme
	initial.Contrast = *contrast
	initial.SpinAmount = *spin
	initial.Intensity = *intensity
	initial.Parallax = *parallax

	a, err := app.New(app.Config{
		DeviceName:   *deviceName,
		BufferSize:   *bufferSize,
		DisableAudio: *noAudio,
		NoiseFloor:   *noiseFloor,
		Width:        *width,
		Height:       *height,
		TargetFPS:    *targetFPS,
		Headless:     *headless,
		Initial:      initial,
		WebAddr:      *webAddr,
		Keyboard:     term.IsTerminal(int(os.Stdin.Fd())),
		ProfilePath:  *profile,
		Log:          logger,
	})
	if err != nil {
		logger.Fatalf("failed to create app: %v", err)
	}
	defer func() {
		if err := a.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "cleanup error: %v\n", err)
		}
	}()

	if err := a.Run(ctx); err != nil {
		if ctx.Err() != nil {
			return
		}
		logger.Fatalf("runtime error: %v", err)
	}
}
