//go:build !sdl

package render

import (
	"context"
	"errors"
)

var errNoSDL = errors.New("SDL backend not enabled; rebuild with -tags sdl")

// SDLHost is unavailable in this build.
type SDLHost struct{}

func NewSDLHost(cfg HostConfig) (*SDLHost, error) { return nil, errNoSDL }

func (h *SDLHost) RequestFrame(fn FrameFunc) {}

func (h *SDLHost) Run(ctx context.Context) error { return errNoSDL }

// SupportsSDL reports whether the SDL host is compiled in.
func SupportsSDL() bool { return false }
