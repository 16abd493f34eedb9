package shader

import (
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/go-gl/mathgl/mgl32"
)

var (
	// ErrEmptySurface is returned when the surface has no area; the frame
	// is skipped without touching the GPU.
	ErrEmptySurface = errors.New("shader: empty surface")
	// ErrNoProgram is returned while the program failed to compile.
	ErrNoProgram = errors.New("shader: program unavailable")
)

// Program is a compiled, linked GPU program bound to a full-surface quad.
type Program interface {
	// Begin makes the program current for a width x height surface.
	Begin(width, height int)
	SetFloat(name string, v float32)
	SetVec2(name string, v mgl32.Vec2)
	SetVec4(name string, v mgl32.Vec4)
	// Draw fills the surface once.
	Draw()
	// Delete releases every GPU resource held by the program.
	Delete()
}

// Compiler builds a Program from vertex and fragment sources.
type Compiler interface {
	Compile(vertex, fragment string) (Program, error)
}

// Binder compiles the swirl program once and uploads Uniforms every frame.
// All methods must run on the goroutine that owns the GPU context.
type Binder struct {
	compiler Compiler
	log      *log.Logger
	program  Program
	failure  error
	draws    uint64
}

// NewBinder wraps compiler. A nil logger discards output.
func NewBinder(compiler Compiler, logger *log.Logger) *Binder {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Binder{compiler: compiler, log: logger}
}

// Draw uploads u and issues one full-surface draw.
func (b *Binder) Draw(u Uniforms) error {
	if u.Width <= 0 || u.Height <= 0 {
		return ErrEmptySurface
	}
	if err := b.ensureProgram(); err != nil {
		return err
	}
	b.program.Begin(u.Width, u.Height)
	u.apply(b.program)
	b.program.Draw()
	b.draws++
	return nil
}

// Ready reports whether a program is compiled and usable.
func (b *Binder) Ready() bool { return b.program != nil }

// Draws returns how many frames reached the GPU.
func (b *Binder) Draws() uint64 { return b.draws }

// Release deletes the program. A later Draw compiles again, which also
// clears a previous compile failure.
func (b *Binder) Release() {
	if b.program != nil {
		b.program.Delete()
		b.program = nil
	}
	b.failure = nil
}

func (b *Binder) ensureProgram() error {
	if b.program != nil {
		return nil
	}
	if b.failure != nil {
		return b.failure
	}
	if b.compiler == nil {
		b.failure = fmt.Errorf("%w: no compiler", ErrNoProgram)
		b.log.Printf("shader disabled: %v", b.failure)
		return b.failure
	}
	program, err := b.compiler.Compile(VertexSource, FragmentSource)
	if err != nil {
		b.failure = fmt.Errorf("%w: %v", ErrNoProgram, err)
		b.log.Printf("shader compile failed, drawing disabled: %v", err)
		return b.failure
	}
	b.program = program
	return nil
}
