package layers

import (
	"math"
	"math/rand"

	"github.com/san-kum/lumitree/internal/lumen"
	"github.com/san-kum/lumitree/internal/topology"
)

const (
	rainPeriod  = 2 * math.Pi
	rainSpeed   = 2.0
	rainHeight  = 1.0 / 3
	rainSamples = 100
)

var (
	rainColor  = lumen.RGB(90.0/255, 210.0/255, 90.0/255)
	rainBright = lumen.RGB(140.0/255, 234.0/255, 191.0/255)
)

// DigitalRain scrolls green streaks up each tree, each tree offset in phase,
// with a random flicker.
type DigitalRain struct {
	offsets []float64
	table   []lumen.Color
	rng     *rand.Rand
}

func NewDigitalRain(rng *rand.Rand) *DigitalRain {
	l := &DigitalRain{rng: rng, table: make([]lumen.Color, rainSamples+1)}
	for i := range l.table {
		l.table[i] = rainShade(float64(i) * rainPeriod / rainSamples)
	}
	return l
}

func rainShade(v float64) lumen.Color {
	switch {
	case v < math.Pi/4:
		return rainBright
	case v < math.Pi:
		s := math.Sin(v)
		return rainColor.Scale(s * s)
	default:
		return lumen.Color{}
	}
}

func (l *DigitalRain) shade(v float64) lumen.Color {
	x := math.Max(v, 0) / rainPeriod * rainSamples
	i := int(x)
	if i >= rainSamples {
		return l.table[rainSamples]
	}
	return l.table[i].Lerp(l.table[i+1], x-float64(i))
}

func (l *DigitalRain) Render(m *topology.Model, p *lumen.Params, frame lumen.Frame) error {
	if n := numTrees(m); len(l.offsets) != n {
		l.offsets = make([]float64, n)
		for i, j := range l.rng.Perm(n) {
			l.offsets[i] = rainPeriod * float64(j) / float64(n)
		}
	}

	for i := range frame {
		d := (m.Center(i)[2]+0.5*m.Distance(i))/rainHeight + p.Time*rainSpeed + l.offsets[treeOf(m, i)%len(l.offsets)]
		c := l.shade(math.Mod(d, rainPeriod))
		frame[i] = frame[i].Add(c.Scale(0.75 + 0.25*l.rng.Float64()))
	}
	return nil
}
