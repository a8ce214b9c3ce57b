package lumen

import (
	"math"
	"time"

	"github.com/san-kum/lumitree/internal/topology"
)

// Color is a linear RGB triple. Components are nominally in [0,1] but may
// exceed that range while layers accumulate.
type Color struct {
	R, G, B float64
}

// RGB builds a Color.
func RGB(r, g, b float64) Color { return Color{r, g, b} }

// Gray returns a color with all components set to v.
func Gray(v float64) Color { return Color{v, v, v} }

func (c Color) Add(o Color) Color { return Color{c.R + o.R, c.G + o.G, c.B + o.B} }

func (c Color) Mul(o Color) Color { return Color{c.R * o.R, c.G * o.G, c.B * o.B} }

func (c Color) Scale(f float64) Color { return Color{c.R * f, c.G * f, c.B * f} }

// Lerp returns c*(1-p) + o*p.
func (c Color) Lerp(o Color, p float64) Color {
	return Color{
		c.R*(1-p) + o.R*p,
		c.G*(1-p) + o.G*p,
		c.B*(1-p) + o.B*p,
	}
}

// IsValid reports whether no component is NaN or infinite.
func (c Color) IsValid() bool {
	for _, v := range [3]float64{c.R, c.G, c.B} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Frame is the per-LED accumulator for one render pass.
type Frame []Color

func NewFrame(n int) Frame { return make(Frame, n) }

// Clear resets every LED to black.
func (f Frame) Clear() {
	for i := range f {
		f[i] = Color{}
	}
}

func (f Frame) Clone() Frame {
	c := make(Frame, len(f))
	copy(c, f)
	return c
}

// AddAll adds c to every LED.
func (f Frame) AddAll(c Color) {
	for i := range f {
		f[i] = f[i].Add(c)
	}
}

// ScaleAll multiplies every LED by s.
func (f Frame) ScaleAll(s float64) {
	for i := range f {
		f[i] = f[i].Scale(s)
	}
}

// Blend sets f = f*p + start*(1-p) component-wise. p is not clamped.
func (f Frame) Blend(start Frame, p float64) {
	for i := range f {
		f[i] = start[i].Lerp(f[i], p)
	}
}

// Layer is one composable render unit. Render mutates frame in place,
// typically adding or multiplying its contribution into what previous layers
// left there. Internal animation state persists across calls.
type Layer interface {
	Render(m *topology.Model, p *Params, frame Frame) error
}

// LayerFunc adapts a function to the Layer interface.
type LayerFunc func(m *topology.Model, p *Params, frame Frame) error

func (fn LayerFunc) Render(m *topology.Model, p *Params, frame Frame) error {
	return fn(m, p, frame)
}

// Clock abstracts wall time so pacing and fades can be driven in tests.
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

type systemClock struct{}

func (systemClock) Now() time.Time        { return time.Now() }
func (systemClock) Sleep(d time.Duration) { time.Sleep(d) }

// SystemClock is the real wall clock.
var SystemClock Clock = systemClock{}
