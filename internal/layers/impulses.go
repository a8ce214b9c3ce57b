package layers

import (
	"math"
	"math/rand"

	"github.com/san-kum/lumitree/internal/lumen"
	"github.com/san-kum/lumitree/internal/topology"
)

// Impulses are oscillating points of light that crawl outward from the roots.
type Impulses struct {
	positions   []int // -1 when dead
	phases      []float64
	frequencies []float64
	rng         *rand.Rand
}

func NewImpulses(count int, rng *rand.Rand) *Impulses {
	if count < 1 {
		count = 10
	}
	l := &Impulses{
		positions:   make([]int, count),
		phases:      make([]float64, count),
		frequencies: make([]float64, count),
		rng:         rng,
	}
	for i := range l.positions {
		l.positions[i] = -1
	}
	return l
}

func (l *Impulses) Render(m *topology.Model, p *lumen.Params, frame lumen.Frame) error {
	roots := m.Roots()
	for i, pos := range l.positions {
		if pos < 0 {
			if len(roots) > 0 && l.rng.Float64() < 0.05 {
				l.positions[i] = roots[l.rng.Intn(len(roots))]
				l.phases[i] = l.rng.Float64() * 2 * math.Pi
				l.frequencies[i] = 2 + l.rng.Float64()*8
			}
			continue
		}

		br := math.Max(0, math.Sin(l.phases[i]+l.frequencies[i]*p.Time))
		frame[pos] = frame[pos].Add(lumen.Gray(br))

		if l.rng.Float64() < 0.2 {
			if next := m.Outward(pos); len(next) > 0 {
				l.positions[i] = next[l.rng.Intn(len(next))]
			} else {
				l.positions[i] = -1
			}
		}
	}
	return nil
}

type motion int

const (
	motionOut motion = iota
	motionIn
	motionLoop
)

// Loop walks between these two hierarchy depths along the edges matching
// loopPatterns.
const (
	loopLow  = 4
	loopHigh = 5
)

var loopPatterns = []string{"*.*.*.*.*", "*.*.*.*.1.2", "*.*.*.*.2.1"}

type impulse struct {
	color  lumen.Color
	edge   int
	prev   int
	motion motion
	dead   bool
}

// ImpulseWalkers are pulses that travel out to the tips, sometimes loop
// around the upper branches, and bounce back in. A higher reading spawns
// more of them with more color.
type ImpulseWalkers struct {
	MaxPulses     int
	StepInterval  float64
	SpawnChance   float64
	MaxSaturation float64
	Brightness    float64
	LoopChance    float64
	BounceChance  float64

	pulses   []*impulse
	lastStep float64
	started  bool
	rng      *rand.Rand
}

func NewImpulseWalkers(maxPulses int, rng *rand.Rand) *ImpulseWalkers {
	if maxPulses < 1 {
		maxPulses = 40
	}
	return &ImpulseWalkers{
		MaxPulses:     maxPulses,
		StepInterval:  0.05,
		SpawnChance:   0.25,
		MaxSaturation: 0.25,
		Brightness:    0.95,
		LoopChance:    0.1,
		BounceChance:  0.2,
		rng:           rng,
	}
}

func (l *ImpulseWalkers) Pulses() int { return len(l.pulses) }

func (l *ImpulseWalkers) RenderResponsive(m *topology.Model, p *lumen.Params, frame lumen.Frame, level lumen.Level) error {
	if level.Known {
		l.SpawnChance = level.Value * 0.95
		l.MaxSaturation = level.Value * 0.5
	}

	l.step(m, p)
	for _, pulse := range l.pulses {
		frame[pulse.edge] = frame[pulse.edge].Add(pulse.color)
	}
	return nil
}

func (l *ImpulseWalkers) step(m *topology.Model, p *lumen.Params) {
	if !l.started {
		l.started = true
		l.lastStep = p.Time
		return
	}
	if p.Time < l.lastStep+l.StepInterval {
		return
	}
	l.lastStep = p.Time

	alive := l.pulses[:0]
	for _, pulse := range l.pulses {
		l.move(m, pulse)
		if !pulse.dead {
			alive = append(alive, pulse)
		}
	}
	l.pulses = alive

	roots := m.Roots()
	if len(roots) == 0 {
		return
	}
	for len(l.pulses) < l.MaxPulses && l.rng.Float64() <= l.SpawnChance {
		c := lumen.Gray(l.Brightness)
		if l.MaxSaturation > 0 {
			c = hsv(l.rng.Float64(), l.rng.Float64()*l.MaxSaturation, l.Brightness)
		}
		edge := roots[l.rng.Intn(len(roots))]
		l.pulses = append(l.pulses, &impulse{color: c, edge: edge, prev: -1})
	}
}

// move advances one pulse. A pulse with nowhere to go may bounce once and
// reverse direction; otherwise it dies.
func (l *ImpulseWalkers) move(m *topology.Model, pulse *impulse) {
	l.maybeLoop(m, pulse)

	for attempt := 0; attempt < 2; attempt++ {
		if moves := l.candidates(m, pulse); len(moves) > 0 {
			pulse.prev = pulse.edge
			pulse.edge = moves[l.rng.Intn(len(moves))]
			return
		}
		if attempt > 0 || l.rng.Float64() >= l.BounceChance {
			break
		}
		switch pulse.motion {
		case motionOut:
			pulse.motion = motionIn
		case motionIn:
			pulse.motion = motionOut
		default:
			pulse.dead = true
			return
		}
	}
	pulse.dead = true
}

func (l *ImpulseWalkers) maybeLoop(m *topology.Model, pulse *impulse) {
	if !m.HasAddresses() || l.rng.Float64() >= l.LoopChance {
		return
	}
	h := m.Height(pulse.edge)
	switch {
	case pulse.motion == motionOut && h == loopLow:
		pulse.motion = motionLoop
	case pulse.motion == motionIn && h == loopHigh:
		pulse.motion = motionLoop
	case pulse.motion == motionLoop && h == loopHigh:
		pulse.motion = motionOut
	case pulse.motion == motionLoop && h == loopLow:
		pulse.motion = motionIn
	}
}

func (l *ImpulseWalkers) candidates(m *topology.Model, pulse *impulse) []int {
	here := rankOf(m, pulse.edge)
	var out []int

	switch pulse.motion {
	case motionLoop:
		node := l.leadingNode(m, pulse)
		for _, e := range m.EdgesAtNode(node) {
			if e == pulse.edge {
				continue
			}
			if _, ok := topology.MatchAny(m.Address(e), loopPatterns...); ok {
				out = append(out, e)
			}
		}
	case motionOut:
		for _, e := range m.Adjacent(pulse.edge) {
			if rankOf(m, e) > here {
				out = append(out, e)
			}
		}
	case motionIn:
		for _, e := range m.Adjacent(pulse.edge) {
			if rankOf(m, e) < here {
				out = append(out, e)
			}
		}
	}
	return out
}

// leadingNode is the endpoint of the current edge not shared with the
// previous one.
func (l *ImpulseWalkers) leadingNode(m *topology.Model, pulse *impulse) int {
	cur := m.Edge(pulse.edge)
	if pulse.prev < 0 {
		return cur[1]
	}
	prev := m.Edge(pulse.prev)
	if cur[0] == prev[0] || cur[0] == prev[1] {
		return cur[1]
	}
	return cur[0]
}
