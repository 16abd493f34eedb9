// Package shader holds the swirl fragment program and binds per-frame
// uniforms to whichever GPU backend the host provides.
package shader

import (
	_ "embed"

	"github.com/go-gl/mathgl/mgl32"
)

//go:embed shaders/fullscreen.vert
var VertexSource string

//go:embed shaders/swirl.frag
var FragmentSource string

// Uniform names declared by swirl.frag.
const (
	UniformResolution       = "u_resolution"
	UniformTime             = "u_time"
	UniformSpinTime         = "u_spin_time"
	UniformColour1          = "u_colour_1"
	UniformColour2          = "u_colour_2"
	UniformColour3          = "u_colour_3"
	UniformContrast         = "u_contrast"
	UniformSpinAmount       = "u_spin_amount"
	UniformParallaxX        = "u_parallax_x"
	UniformParallaxY        = "u_parallax_y"
	UniformZoomScale        = "u_zoom_scale"
	UniformMelodySaturation = "u_melody_saturation"
)

// UniformNames lists every uniform the program expects.
var UniformNames = []string{
	UniformResolution,
	UniformTime,
	UniformSpinTime,
	UniformColour1,
	UniformColour2,
	UniformColour3,
	UniformContrast,
	UniformSpinAmount,
	UniformParallaxX,
	UniformParallaxY,
	UniformZoomScale,
	UniformMelodySaturation,
}

// Uniforms is the frame-scoped projection of engine state into program
// inputs. It is rebuilt every frame and never stored.
type Uniforms struct {
	Width            int
	Height           int
	Time             float32
	SpinTime         float32
	Colour1          mgl32.Vec4
	Colour2          mgl32.Vec4
	Colour3          mgl32.Vec4
	Contrast         float32
	SpinAmount       float32
	ParallaxX        float32
	ParallaxY        float32
	ZoomScale        float32
	MelodySaturation float32
}

func (u Uniforms) apply(p Program) {
	p.SetVec2(UniformResolution, mgl32.Vec2{float32(u.Width), float32(u.Height)})
	p.SetFloat(UniformTime, u.Time)
	p.SetFloat(UniformSpinTime, u.SpinTime)
	p.SetVec4(UniformColour1, u.Colour1)
	p.SetVec4(UniformColour2, u.Colour2)
	p.SetVec4(UniformColour3, u.Colour3)
	p.SetFloat(UniformContrast, u.Contrast)
	p.SetFloat(UniformSpinAmount, u.SpinAmount)
	p.SetFloat(UniformParallaxX, u.ParallaxX)
	p.SetFloat(UniformParallaxY, u.ParallaxY)
	p.SetFloat(UniformZoomScale, u.ZoomScale)
	p.SetFloat(UniformMelodySaturation, u.MelodySaturation)
}
