package lumen

import "math"

// DefaultGammaSamples is the lookup table resolution over [0,1].
const DefaultGammaSamples = 101

// Gamma applies out = clamp(in, 0, 1)^gamma per channel using a precomputed
// table with linear interpolation between entries.
type Gamma struct {
	gamma float64
	lut   []float64
	n     int
}

func NewGamma(gamma float64) *Gamma {
	return NewGammaTable(gamma, DefaultGammaSamples)
}

// NewGammaTable builds a table with n entries spanning [0,1] inclusive.
func NewGammaTable(gamma float64, n int) *Gamma {
	if n < 2 {
		n = 2
	}
	g := &Gamma{gamma: gamma, lut: make([]float64, n), n: n}
	for i := 0; i < n; i++ {
		x := float64(i) / float64(n-1)
		g.lut[i] = math.Pow(x, gamma)
	}
	return g
}

func (g *Gamma) Value() float64 { return g.gamma }

// Correct maps one channel value through the table.
func (g *Gamma) Correct(v float64) float64 {
	if v <= 0 || math.IsNaN(v) {
		return g.lut[0]
	}
	if v >= 1 {
		return g.lut[g.n-1]
	}

	idx := v * float64(g.n-1)
	i := int(idx)
	frac := idx - float64(i)

	return g.lut[i]*(1-frac) + g.lut[i+1]*frac
}

// Apply corrects every LED in place.
func (g *Gamma) Apply(f Frame) {
	for i, c := range f {
		f[i] = Color{g.Correct(c.R), g.Correct(c.G), g.Correct(c.B)}
	}
}
