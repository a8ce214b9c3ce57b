package layers

import (
	"math"
	"math/rand"

	"github.com/san-kum/lumitree/internal/lumen"
	"github.com/san-kum/lumitree/internal/topology"
)

const (
	fireflyCycle = 1.5
	fireflyNudge = 0.15
	fireflyExp   = 2.0
)

// firefly is one pulse-coupled oscillator. Its activation rises with phase
// and it blinks when activation reaches 1.
type firefly struct {
	offset    float64
	blinkTime float64
}

func (f *firefly) phi(t float64) float64 {
	return math.Mod(t+f.offset, fireflyCycle)/fireflyCycle + 0.01
}

func activation(phi float64) float64 { return math.Pow(phi, 1/fireflyExp) }

func reversePhi(a float64) float64 { return math.Pow(a, fireflyExp) }

// update reports whether the firefly crossed its blink threshold at time t.
func (f *firefly) update(t float64) bool {
	if activation(f.phi(t)) >= 1 {
		f.blinkTime = t
		return true
	}
	return false
}

// nudge moves the firefly closer to its next blink.
func (f *firefly) nudge(t float64) {
	p := f.phi(t)
	a := activation(p)
	if a >= 1 {
		return
	}
	p2 := reversePhi(math.Min(a+fireflyNudge, 1))
	f.offset += math.Max(p2-p, 0) * fireflyCycle
	f.update(t)
}

// FireflySwarm gives every LED a firefly. A blink nudges the outward
// neighbors, so the swarm synchronizes from the base up.
type FireflySwarm struct {
	Color lumen.Color

	flies []firefly
	rng   *rand.Rand
}

func NewFireflySwarm(color lumen.Color, rng *rand.Rand) *FireflySwarm {
	return &FireflySwarm{Color: color, rng: rng}
}

func (l *FireflySwarm) Render(m *topology.Model, p *lumen.Params, frame lumen.Frame) error {
	if len(l.flies) != m.NumLEDs() {
		l.flies = make([]firefly, m.NumLEDs())
		for i := range l.flies {
			l.flies[i].offset = l.rng.Float64() * fireflyCycle
			l.flies[i].blinkTime = math.Inf(-1)
		}
	}

	roots := m.Roots()
	for e := range l.flies {
		if !l.flies[e].update(p.Time) {
			continue
		}
		// The first root keeps the trees in step with each other.
		if len(roots) > 0 && e == roots[0] {
			for _, r := range roots[1:] {
				l.flies[r].nudge(p.Time)
			}
		}
		for _, o := range m.Outward(e) {
			l.flies[o].nudge(p.Time)
		}
	}

	dur := fireflyCycle / 2
	for e := range l.flies {
		if dt := p.Time - l.flies[e].blinkTime; dt < dur {
			frame[e] = frame[e].Add(l.Color.Scale(math.Sin(math.Pi * dt / dur)))
		}
	}
	return nil
}
