package layers

import (
	"math"
	"math/rand"

	"github.com/san-kum/lumitree/internal/lumen"
	"github.com/san-kum/lumitree/internal/topology"
)

// GreenHighRedLow shades everything from red (low) to green (high), or blue
// when there is no reading.
type GreenHighRedLow struct{}

func (GreenHighRedLow) RenderResponsive(_ *topology.Model, _ *lumen.Params, frame lumen.Frame, level lumen.Level) error {
	if !level.Known {
		frame.AddAll(lumen.RGB(0, 0, 1))
		return nil
	}
	frame.AddAll(lumen.RGB(1-level.Value, level.Value, 0))
	return nil
}

// BrainStatic darkens LEDs at random. A calmer reading means less static.
type BrainStatic struct {
	MinFactor float64
	rng       *rand.Rand
}

func NewBrainStatic(minFactor float64, rng *rand.Rand) *BrainStatic {
	return &BrainStatic{MinFactor: minFactor, rng: rng}
}

func (b *BrainStatic) RenderResponsive(_ *topology.Model, _ *lumen.Params, frame lumen.Frame, level lumen.Level) error {
	r := 1 - level.Or(0)
	for i := range frame {
		frame[i] = frame[i].Scale(1 - b.rng.Float64()*r*b.MinFactor)
	}
	return nil
}

// NoData pulses the root edges dim blue while no reading has arrived and
// draws nothing once the headset reports.
type NoData struct {
	Color  lumen.Color
	Period float64
}

func (n NoData) RenderResponsive(m *topology.Model, p *lumen.Params, frame lumen.Frame, level lumen.Level) error {
	if level.Known {
		return nil
	}
	period := n.Period
	if period <= 0 {
		period = 2
	}
	br := 0.5 + 0.5*math.Sin(2*math.Pi*p.Time/period)
	for _, e := range m.Roots() {
		frame[e] = frame[e].Add(n.Color.Scale(br))
	}
	return nil
}
