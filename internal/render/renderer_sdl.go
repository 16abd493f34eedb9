//go:build sdl

package render

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/veandco/go-sdl2/sdl"
)

// SDLHost owns an SDL window with an OpenGL 3.3 core context. Frame
// callbacks run on the goroutine that called Run, which is locked to its
// OS thread for the lifetime of the context.
type SDLHost struct {
	cfg  HostConfig
	slot frameSlot
}

// NewSDLHost prepares a window host. Nothing is created until Run.
func NewSDLHost(cfg HostConfig) (*SDLHost, error) {
	cfg.normalize()
	return &SDLHost{cfg: cfg}, nil
}

func (h *SDLHost) RequestFrame(fn FrameFunc) { h.slot.put(fn) }

// Run opens the window and pumps events and frames until ctx is done or the
// window is closed, in which case ErrHostQuit is returned.
func (h *SDLHost) Run(ctx context.Context) error {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
		return fmt.Errorf("sdl init: %w", err)
	}
	defer sdl.Quit()

	_ = sdl.GLSetAttribute(sdl.GL_CONTEXT_MAJOR_VERSION, 3)
	_ = sdl.GLSetAttribute(sdl.GL_CONTEXT_MINOR_VERSION, 3)
	_ = sdl.GLSetAttribute(sdl.GL_CONTEXT_PROFILE_MASK, sdl.GL_CONTEXT_PROFILE_CORE)
	_ = sdl.GLSetAttribute(sdl.GL_DOUBLEBUFFER, 1)

	window, err := sdl.CreateWindow(
		h.cfg.Title,
		sdl.WINDOWPOS_CENTERED, sdl.WINDOWPOS_CENTERED,
		int32(h.cfg.Width), int32(h.cfg.Height),
		sdl.WINDOW_OPENGL|sdl.WINDOW_SHOWN|sdl.WINDOW_RESIZABLE|sdl.WINDOW_ALLOW_HIGHDPI,
	)
	if err != nil {
		return fmt.Errorf("create window: %w", err)
	}
	defer window.Destroy()

	glctx, err := window.GLCreateContext()
	if err != nil {
		return fmt.Errorf("create gl context: %w", err)
	}
	defer sdl.GLDeleteContext(glctx)

	if err := gl.Init(); err != nil {
		return fmt.Errorf("gl init: %w", err)
	}
	_ = sdl.GLSetSwapInterval(1)
	h.cfg.Log.Printf("OpenGL %s", gl.GoStr(gl.GetString(gl.VERSION)))

	defer func() {
		if h.cfg.BeforeClose != nil {
			h.cfg.BeforeClose()
		}
	}()

	ticker := time.NewTicker(h.cfg.interval())
	defer ticker.Stop()

	for {
		for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
			switch e := event.(type) {
			case *sdl.QuitEvent:
				return ErrHostQuit
			case *sdl.KeyboardEvent:
				if e.Type == sdl.KEYDOWN && e.Keysym.Sym == sdl.K_ESCAPE {
					return ErrHostQuit
				}
			case *sdl.MouseMotionEvent:
				h.pointer(window, e.X, e.Y)
			}
		}

		if fn := h.slot.take(); fn != nil {
			w, ht := window.GLGetDrawableSize()
			fn(Surface{Width: int(w), Height: int(ht)})
			window.GLSwap()
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// pointer converts window coordinates into drawable pixels, which differ
// on high-density displays.
func (h *SDLHost) pointer(window *sdl.Window, x, y int32) {
	if h.cfg.OnPointer == nil {
		return
	}
	ww, wh := window.GetSize()
	dw, dh := window.GLGetDrawableSize()
	sx, sy := 1.0, 1.0
	if ww > 0 && wh > 0 {
		sx = float64(dw) / float64(ww)
		sy = float64(dh) / float64(wh)
	}
	h.cfg.OnPointer(float64(x)*sx, float64(y)*sy)
}

// SupportsSDL reports whether the SDL host is compiled in.
func SupportsSDL() bool { return true }
