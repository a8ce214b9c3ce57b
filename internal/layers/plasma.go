package layers

import (
	"math"

	"github.com/san-kum/lumitree/internal/lumen"
	"github.com/san-kum/lumitree/internal/topology"
)

const (
	plasmaOctaves   = 3
	plasmaTimeConst = -1.5
)

// Plasma is a slowly rising cloud of smoothed noise. Without a color it
// modulates the brightness of what is already in the frame; with one it adds
// that color scaled by the noise.
type Plasma struct {
	Color *lumen.Color
	Zoom  float64

	noise *perlin
}

func NewPlasma(color *lumen.Color, zoom float64, seed int64) *Plasma {
	if zoom <= 0 {
		zoom = 0.6
	}
	return &Plasma{Color: color, Zoom: zoom, noise: newPerlin(seed)}
}

func (l *Plasma) Render(m *topology.Model, p *lumen.Params, frame lumen.Frame) error {
	s := l.Zoom
	z0 := math.Mod(p.Time*plasmaTimeConst, noiseTile)

	for i := range frame {
		c := m.Center(i)
		n := (l.noise.Octaves(c[0]*s, c[1]*s, c[2]*s+z0, plasmaOctaves) + 0.35) * 1.2
		if l.Color == nil {
			frame[i] = frame[i].Scale(n)
		} else {
			frame[i] = frame[i].Add(l.Color.Scale(n))
		}
	}
	return nil
}

// ZoomingPlasma zooms the plasma in as the reading rises.
type ZoomingPlasma struct {
	plasma *Plasma
}

func NewZoomingPlasma(color *lumen.Color, seed int64) *ZoomingPlasma {
	return &ZoomingPlasma{plasma: NewPlasma(color, 0.6, seed)}
}

func (z *ZoomingPlasma) Zoom() float64 { return z.plasma.Zoom }

func (z *ZoomingPlasma) RenderResponsive(m *topology.Model, p *lumen.Params, frame lumen.Frame, level lumen.Level) error {
	if level.Known {
		z.plasma.Zoom = 2.1 - level.Value*2
	}
	return z.plasma.Render(m, p, frame)
}
