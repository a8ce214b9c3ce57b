package layers

import (
	"math/rand"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/san-kum/lumitree/internal/lumen"
	"github.com/san-kum/lumitree/internal/topology"
)

func hsv(h, s, v float64) lumen.Color {
	c := colorful.Hsv(h*360, s, v)
	return lumen.Color{R: c.R, G: c.G, B: c.B}
}

// RGB paints each LED with its normalized position as a color cube.
type RGB struct{}

func (RGB) Render(m *topology.Model, _ *lumen.Params, frame lumen.Frame) error {
	for i := range frame {
		c := m.Center(i)
		frame[i] = lumen.Color{R: c[0], G: c[1], B: c[2]}
	}
	return nil
}

// Blinky adds white on every other frame. Useful for checking frame timing.
type Blinky struct {
	on bool
}

func (b *Blinky) Render(_ *topology.Model, _ *lumen.Params, frame lumen.Frame) error {
	b.on = !b.on
	if b.on {
		frame.AddAll(lumen.Gray(1))
	}
	return nil
}

// ColorBlinky adds a random saturated hue on every other frame.
type ColorBlinky struct {
	on  bool
	rng *rand.Rand
}

func NewColorBlinky(rng *rand.Rand) *ColorBlinky { return &ColorBlinky{rng: rng} }

func (b *ColorBlinky) Render(_ *topology.Model, _ *lumen.Params, frame lumen.Frame) error {
	b.on = !b.on
	c := hsv(b.rng.Float64(), 1, 1)
	if b.on {
		frame.AddAll(c)
	}
	return nil
}

// Snowstorm adds independent gray noise per LED.
type Snowstorm struct {
	rng *rand.Rand
}

func NewSnowstorm(rng *rand.Rand) *Snowstorm { return &Snowstorm{rng: rng} }

func (s *Snowstorm) Render(_ *topology.Model, _ *lumen.Params, frame lumen.Frame) error {
	for i := range frame {
		frame[i] = frame[i].Add(lumen.Gray(s.rng.Float64()))
	}
	return nil
}

// TechnicolorSnowstorm adds independent noise per LED and channel.
type TechnicolorSnowstorm struct {
	rng *rand.Rand
}

func NewTechnicolorSnowstorm(rng *rand.Rand) *TechnicolorSnowstorm {
	return &TechnicolorSnowstorm{rng: rng}
}

func (s *TechnicolorSnowstorm) Render(_ *topology.Model, _ *lumen.Params, frame lumen.Frame) error {
	for i := range frame {
		frame[i] = frame[i].Add(lumen.RGB(s.rng.Float64(), s.rng.Float64(), s.rng.Float64()))
	}
	return nil
}

// WhiteOut adds full white everywhere.
type WhiteOut struct{}

func (WhiteOut) Render(_ *topology.Model, _ *lumen.Params, frame lumen.Frame) error {
	frame.AddAll(lumen.Gray(1))
	return nil
}

// Solid adds a fixed color everywhere.
type Solid struct {
	Color lumen.Color
}

func (s Solid) Render(_ *topology.Model, _ *lumen.Params, frame lumen.Frame) error {
	frame.AddAll(s.Color)
	return nil
}

// Multiplier renders two layers into scratch frames and adds their product.
type Multiplier struct {
	a, b       lumen.Layer
	tmpA, tmpB lumen.Frame
}

func NewMultiplier(a, b lumen.Layer) *Multiplier { return &Multiplier{a: a, b: b} }

func (l *Multiplier) Render(m *topology.Model, p *lumen.Params, frame lumen.Frame) error {
	if len(l.tmpA) != len(frame) {
		l.tmpA = lumen.NewFrame(len(frame))
		l.tmpB = lumen.NewFrame(len(frame))
	}
	l.tmpA.Clear()
	l.tmpB.Clear()
	if err := l.a.Render(m, p, l.tmpA); err != nil {
		return err
	}
	if err := l.b.Render(m, p, l.tmpB); err != nil {
		return err
	}
	for i := range frame {
		frame[i] = frame[i].Add(l.tmpA[i].Mul(l.tmpB[i]))
	}
	return nil
}
