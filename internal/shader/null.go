package shader

import (
	"sync"

	"github.com/go-gl/mathgl/mgl32"
)

// NullCompiler builds programs that record their inputs instead of drawing.
// It backs headless runs and tests.
type NullCompiler struct {
	// Err, when set, is returned from every Compile.
	Err error

	mu       sync.Mutex
	compiles int
	live     int
	last     *NullProgram
}

// Compile returns a fresh NullProgram or c.Err.
func (c *NullCompiler) Compile(vertex, fragment string) (Program, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.compiles++
	if c.Err != nil {
		return nil, c.Err
	}
	p := &NullProgram{owner: c, Floats: map[string]float32{}, Vec2s: map[string]mgl32.Vec2{}, Vec4s: map[string]mgl32.Vec4{}}
	c.live++
	c.last = p
	return p, nil
}

// Compiles returns how many times Compile ran.
func (c *NullCompiler) Compiles() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.compiles
}

// Live returns how many compiled programs have not been deleted.
func (c *NullCompiler) Live() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.live
}

// Last returns the most recently compiled program.
func (c *NullCompiler) Last() *NullProgram {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.last
}

// NullProgram stores the last value written to each uniform.
type NullProgram struct {
	owner   *NullCompiler
	Floats  map[string]float32
	Vec2s   map[string]mgl32.Vec2
	Vec4s   map[string]mgl32.Vec4
	Width   int
	Height  int
	Draws   int
	Deleted bool
}

func (p *NullProgram) Begin(width, height int) {
	p.Width = width
	p.Height = height
}

func (p *NullProgram) SetFloat(name string, v float32)   { p.Floats[name] = v }
func (p *NullProgram) SetVec2(name string, v mgl32.Vec2) { p.Vec2s[name] = v }
func (p *NullProgram) SetVec4(name string, v mgl32.Vec4) { p.Vec4s[name] = v }
func (p *NullProgram) Draw()                             { p.Draws++ }

func (p *NullProgram) Delete() {
	if p.Deleted {
		return
	}
	p.Deleted = true
	p.owner.mu.Lock()
	p.owner.live--
	p.owner.mu.Unlock()
}
