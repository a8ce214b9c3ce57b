package layers

import (
	"fmt"
	"math/rand"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/san-kum/lumitree/internal/lumen"
	"github.com/san-kum/lumitree/internal/topology"
)

// driftSteps is the number of precomputed steps per color transition.
const driftSteps = 255

// drift cycles through a color list, interpolating in HSV space. Each
// transition takes switchTime seconds.
type drift struct {
	colors     int
	switchTime float64
	active     int
	lastSwitch float64
	started    bool
	steps      [][]lumen.Color // [transition][step]
}

func newDrift(colors []lumen.Color, switchTime float64) (*drift, error) {
	if len(colors) == 0 {
		return nil, fmt.Errorf("%w: drifter needs at least one color", ErrInvalidSpec)
	}
	if len(colors) > 1 && switchTime <= 0 {
		return nil, fmt.Errorf("%w: drifter needs a positive switch time", ErrInvalidSpec)
	}
	if switchTime <= 0 {
		switchTime = 1
	}

	d := &drift{colors: len(colors), switchTime: switchTime, steps: make([][]lumen.Color, len(colors))}
	for i := range colors {
		a := colorful.Color{R: colors[i].R, G: colors[i].G, B: colors[i].B}
		n := colors[d.next(i)]
		b := colorful.Color{R: n.R, G: n.G, B: n.B}
		d.steps[i] = make([]lumen.Color, driftSteps)
		for s := 0; s < driftSteps; s++ {
			c := a.BlendHsv(b, float64(s)/driftSteps).Clamped()
			d.steps[i][s] = lumen.Color{R: c.R, G: c.G, B: c.B}
		}
	}
	return d, nil
}

func (d *drift) next(i int) int { return (i + 1) % d.colors }

// update latches the start time and rolls over to the next color pair once
// the current transition completes. It returns progress through the active
// transition.
func (d *drift) update(t float64) float64 {
	if !d.started {
		d.started = true
		d.lastSwitch = t
	}
	p := (t - d.lastSwitch) / d.switchTime
	if p >= 1 {
		d.active = d.next(d.active)
		d.lastSwitch = t
		p = 0
	}
	return p
}

// color returns the blend at proportion p in [0,2): below 1 it is within the
// active transition, above 1 within the following one.
func (d *drift) color(p float64) lumen.Color {
	idx := d.active
	for p >= 1 {
		idx = d.next(idx)
		p--
	}
	if p < 0 {
		p = 0
	}
	step := int(p*(driftSteps-1) + 0.5)
	return d.steps[idx][step]
}

// HomogenousDrifter drifts the whole structure through the colors together.
type HomogenousDrifter struct {
	d *drift
}

func NewHomogenousDrifter(colors []lumen.Color, switchTime float64) (*HomogenousDrifter, error) {
	d, err := newDrift(colors, switchTime)
	if err != nil {
		return nil, err
	}
	return &HomogenousDrifter{d: d}, nil
}

func (l *HomogenousDrifter) Render(_ *topology.Model, p *lumen.Params, frame lumen.Frame) error {
	frame.AddAll(l.d.color(l.d.update(p.Time)))
	return nil
}

// TreeDrifter runs each tree a shuffled fraction of a transition out of
// phase with the others.
type TreeDrifter struct {
	d      *drift
	phases []float64
	rng    *rand.Rand
}

func NewTreeDrifter(colors []lumen.Color, switchTime float64, rng *rand.Rand) (*TreeDrifter, error) {
	d, err := newDrift(colors, switchTime)
	if err != nil {
		return nil, err
	}
	return &TreeDrifter{d: d, rng: rng}, nil
}

func (l *TreeDrifter) Render(m *topology.Model, p *lumen.Params, frame lumen.Frame) error {
	prog := l.d.update(p.Time)
	if n := numTrees(m); len(l.phases) != n {
		l.phases = make([]float64, n)
		for i, j := range l.rng.Perm(n) {
			l.phases[i] = float64(j) / float64(n)
		}
	}

	colors := make([]lumen.Color, len(l.phases))
	for t, ph := range l.phases {
		colors[t] = l.d.color(prog + ph)
	}
	for i := range frame {
		frame[i] = frame[i].Add(colors[treeOf(m, i)%len(colors)])
	}
	return nil
}

// OutwardDrifter lets lower levels lead the upper ones through the colors.
type OutwardDrifter struct {
	Offset float64

	d *drift
}

func NewOutwardDrifter(colors []lumen.Color, switchTime float64) (*OutwardDrifter, error) {
	d, err := newDrift(colors, switchTime)
	if err != nil {
		return nil, err
	}
	return &OutwardDrifter{Offset: 0.5, d: d}, nil
}

func (l *OutwardDrifter) Render(m *topology.Model, p *lumen.Params, frame lumen.Frame) error {
	prog := l.d.update(p.Time)
	levels := numLevels(m)
	maxDist := maxDistance(m)

	colors := make([]lumen.Color, levels)
	for lv := range colors {
		colors[lv] = l.d.color(prog + l.Offset*(1-float64(lv)/float64(levels)))
	}
	for i := range frame {
		lv := levelOf(m, i, levels, maxDist)
		if lv >= levels {
			lv = levels - 1
		}
		frame[i] = frame[i].Add(colors[lv])
	}
	return nil
}
