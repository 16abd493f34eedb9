//go:build sdl

package shader

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

// GLCompiler compiles programs on the OpenGL 3.3 core context that is
// current on the calling goroutine. gl.Init must already have run.
type GLCompiler struct{}

// GPUCompiler returns the compiler for the current build.
func GPUCompiler() (Compiler, error) { return GLCompiler{}, nil }

// SupportsGPU reports whether this build carries a real GPU backend.
func SupportsGPU() bool { return true }

func (GLCompiler) Compile(vertex, fragment string) (Program, error) {
	vs, err := compileStage(vertex, gl.VERTEX_SHADER)
	if err != nil {
		return nil, err
	}
	defer gl.DeleteShader(vs)

	fs, err := compileStage(fragment, gl.FRAGMENT_SHADER)
	if err != nil {
		return nil, err
	}
	defer gl.DeleteShader(fs)

	id := gl.CreateProgram()
	gl.AttachShader(id, vs)
	gl.AttachShader(id, fs)
	gl.LinkProgram(id)

	var status int32
	gl.GetProgramiv(id, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		msg := programLog(id)
		gl.DeleteProgram(id)
		return nil, fmt.Errorf("link program: %s", msg)
	}

	p := &glProgram{id: id, locations: make(map[string]int32, len(UniformNames))}
	for _, name := range UniformNames {
		p.locations[name] = gl.GetUniformLocation(id, gl.Str(name+"\x00"))
	}
	p.createQuad()
	return p, nil
}

func compileStage(source string, kind uint32) (uint32, error) {
	shader := gl.CreateShader(kind)
	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
		msg := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(msg))
		gl.DeleteShader(shader)
		stage := "vertex"
		if kind == gl.FRAGMENT_SHADER {
			stage = "fragment"
		}
		return 0, fmt.Errorf("compile %s shader: %s", stage, strings.TrimRight(msg, "\x00"))
	}
	return shader, nil
}

func programLog(id uint32) string {
	var logLength int32
	gl.GetProgramiv(id, gl.INFO_LOG_LENGTH, &logLength)
	msg := strings.Repeat("\x00", int(logLength+1))
	gl.GetProgramInfoLog(id, logLength, nil, gl.Str(msg))
	return strings.TrimRight(msg, "\x00")
}

type glProgram struct {
	id        uint32
	vao       uint32
	vbo       uint32
	locations map[string]int32
}

// createQuad uploads a triangle strip covering clip space.
func (p *glProgram) createQuad() {
	vertices := []float32{
		-1, -1,
		1, -1,
		-1, 1,
		1, 1,
	}
	gl.GenVertexArrays(1, &p.vao)
	gl.GenBuffers(1, &p.vbo)

	gl.BindVertexArray(p.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, p.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, gl.Ptr(vertices), gl.STATIC_DRAW)
	gl.VertexAttribPointer(0, 2, gl.FLOAT, false, 2*4, gl.PtrOffset(0))
	gl.EnableVertexAttribArray(0)
	gl.BindVertexArray(0)
}

func (p *glProgram) Begin(width, height int) {
	gl.Viewport(0, 0, int32(width), int32(height))
	gl.UseProgram(p.id)
}

func (p *glProgram) SetFloat(name string, v float32) {
	if loc := p.locations[name]; loc >= 0 {
		gl.Uniform1f(loc, v)
	}
}

func (p *glProgram) SetVec2(name string, v mgl32.Vec2) {
	if loc := p.locations[name]; loc >= 0 {
		gl.Uniform2f(loc, v[0], v[1])
	}
}

func (p *glProgram) SetVec4(name string, v mgl32.Vec4) {
	if loc := p.locations[name]; loc >= 0 {
		gl.Uniform4f(loc, v[0], v[1], v[2], v[3])
	}
}

func (p *glProgram) Draw() {
	gl.BindVertexArray(p.vao)
	gl.DrawArrays(gl.TRIANGLE_STRIP, 0, 4)
	gl.BindVertexArray(0)
}

func (p *glProgram) Delete() {
	if p.vbo != 0 {
		gl.DeleteBuffers(1, &p.vbo)
		p.vbo = 0
	}
	if p.vao != 0 {
		gl.DeleteVertexArrays(1, &p.vao)
		p.vao = 0
	}
	if p.id != 0 {
		gl.DeleteProgram(p.id)
		p.id = 0
	}
}
