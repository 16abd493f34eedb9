//go:build !sdl

package shader

import "errors"

// GPUCompiler returns the compiler for the current build.
func GPUCompiler() (Compiler, error) {
	return nil, errors.New("GPU backend not enabled; rebuild with -tags sdl")
}

// SupportsGPU reports whether this build carries a real GPU backend.
func SupportsGPU() bool { return false }
