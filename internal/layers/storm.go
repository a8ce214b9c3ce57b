package layers

import (
	"math"
	"math/rand"

	"github.com/san-kum/lumitree/internal/lumen"
	"github.com/san-kum/lumitree/internal/topology"
)

const (
	boltPulseIntensity = 0.08
	boltPulseFrequency = 10.0
	boltFadeTime       = 0.25
	boltBranchFactor   = 0.4
)

var boltColor = lumen.RGB(230.0/255, 230.0/255, 1)

type bolt struct {
	start       float64
	pulseTime   float64
	edges       []int
	intensities []float64
}

func newBolt(m *topology.Model, t float64, rng *rand.Rand) *bolt {
	b := &bolt{start: t, pulseTime: 0.25 + rng.Float64()*0.1}

	leader := 1 - boltPulseIntensity
	branch := leader * boltBranchFactor
	roots := m.Roots()
	e := roots[rng.Intn(len(roots))]
	b.edges = append(b.edges, e)
	b.intensities = append(b.intensities, leader)

	// Outward strictly increases distance, so the path always terminates.
	for next := m.Outward(e); len(next) > 0; next = m.Outward(e) {
		pick := next[rng.Intn(len(next))]
		for _, o := range next {
			b.edges = append(b.edges, o)
			if o == pick {
				b.intensities = append(b.intensities, leader)
			} else {
				b.intensities = append(b.intensities, branch)
			}
		}
		e = pick
	}
	return b
}

func (b *bolt) alive(t float64) bool { return t < b.start+b.pulseTime+boltFadeTime }

func (b *bolt) draw(frame lumen.Frame, t float64) {
	dt := t - b.start
	for k, e := range b.edges {
		var v float64
		if dt < b.pulseTime {
			v = b.intensities[k] + math.Cos(2*math.Pi*dt*boltPulseFrequency)*boltPulseIntensity
		} else {
			v = b.intensities[k] * (1 - (dt-b.pulseTime)/boltFadeTime)
		}
		frame[e] = frame[e].Add(boltColor.Scale(v))
	}
}

// LightningStorm strikes bolts from the roots as a Poisson process. The
// strike rate grows with the square of the reading.
type LightningStorm struct {
	MinRate float64
	MaxRate float64

	rate    float64
	bolts   []*bolt
	last    float64
	started bool
	rng     *rand.Rand
}

func NewLightningStorm(minRate, maxRate float64, rng *rand.Rand) *LightningStorm {
	l := &LightningStorm{MinRate: minRate, MaxRate: maxRate, rng: rng}
	l.setRate(0.5)
	return l
}

func (l *LightningStorm) Rate() float64 { return l.rate }

func (l *LightningStorm) setRate(level float64) {
	l.rate = l.MinRate + level*level*(l.MaxRate-l.MinRate)
}

func (l *LightningStorm) RenderResponsive(m *topology.Model, p *lumen.Params, frame lumen.Frame, level lumen.Level) error {
	if level.Known {
		l.setRate(level.Value)
	}
	if !l.started {
		l.started = true
		l.last = p.Time
	}

	alive := l.bolts[:0]
	for _, b := range l.bolts {
		if b.alive(p.Time) {
			alive = append(alive, b)
		}
	}
	l.bolts = alive

	if len(m.Roots()) > 0 && (p.Time-l.last)*l.rate > l.rng.Float64() {
		l.bolts = append(l.bolts, newBolt(m, p.Time, l.rng))
	}
	l.last = p.Time

	for _, b := range l.bolts {
		b.draw(frame, p.Time)
	}
	return nil
}

type raindrop struct {
	first    int
	second   []int
	third    []int
	start    float64
	duration float64
	delay    float64
	color    lumen.Color
}

func newRaindrop(m *topology.Model, edge int, t, duration float64) *raindrop {
	d := &raindrop{
		first:    edge,
		second:   m.Adjacent(edge),
		start:    t,
		duration: duration,
		delay:    duration / 12,
		color:    lumen.Gray(1),
	}
	seen := map[int]bool{edge: true}
	for _, e := range d.second {
		seen[e] = true
	}
	for _, e := range d.second {
		for _, o := range m.Adjacent(e) {
			if !seen[o] {
				seen[o] = true
				d.third = append(d.third, o)
			}
		}
	}
	return d
}

func (d *raindrop) done(t float64) bool { return t-d.start > d.duration+2*d.delay }

func (d *raindrop) colorAt(t, delay, attenuate float64) lumen.Color {
	dt := t - d.start - delay
	if dt <= 0 || dt >= d.duration {
		return lumen.Color{}
	}
	return d.color.Scale(math.Sin(math.Pi*dt/d.duration) * (1 - attenuate))
}

func (d *raindrop) draw(frame lumen.Frame, t float64) {
	frame[d.first] = frame[d.first].Add(d.colorAt(t, 0, 0))
	c2 := d.colorAt(t, d.delay, 0.6)
	for _, e := range d.second {
		frame[e] = frame[e].Add(c2)
	}
	c3 := d.colorAt(t, 2*d.delay, 0.8)
	for _, e := range d.third {
		frame[e] = frame[e].Add(c3)
	}
}

// Rain drops points of light that ripple into their neighbors. Drops arrive
// every DropEvery seconds on average with no reading, and up to ten times
// faster at a full reading.
type Rain struct {
	DropEvery float64
	Duration  float64

	drops   []*raindrop
	last    float64
	started bool
	rng     *rand.Rand
}

func NewRain(dropEvery float64, rng *rand.Rand) *Rain {
	if dropEvery <= 0 {
		dropEvery = 5
	}
	return &Rain{DropEvery: dropEvery, Duration: 1, rng: rng}
}

func (r *Rain) interval(level lumen.Level) float64 {
	if !level.Known {
		return r.DropEvery
	}
	fastest := r.DropEvery / 10
	return fastest + (1-level.Value)*(r.DropEvery-fastest)
}

func (r *Rain) RenderResponsive(m *topology.Model, p *lumen.Params, frame lumen.Frame, level lumen.Level) error {
	if !r.started {
		r.started = true
		r.last = p.Time
	}

	alive := r.drops[:0]
	for _, d := range r.drops {
		if !d.done(p.Time) {
			alive = append(alive, d)
		}
	}
	r.drops = alive

	if m.NumLEDs() > 0 && (p.Time-r.last)/r.interval(level) > r.rng.Float64() {
		r.drops = append(r.drops, newRaindrop(m, r.rng.Intn(m.NumLEDs()), p.Time, r.Duration))
		r.last = p.Time
	}
	for _, d := range r.drops {
		d.draw(frame, p.Time)
	}
	return nil
}
