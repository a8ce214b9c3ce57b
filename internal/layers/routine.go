package layers

import (
	"github.com/san-kum/lumitree/internal/lumen"
	"github.com/san-kum/lumitree/internal/topology"
)

// Routine is an ordered list of layers rendered together as one look. Order
// is significant: each layer sees what the previous ones accumulated.
type Routine struct {
	Name   string
	Layers []*Safe
}

func NewRoutine(name string, layers ...*Safe) *Routine {
	return &Routine{Name: name, Layers: layers}
}

func (r *Routine) Render(m *topology.Model, p *lumen.Params, frame lumen.Frame) error {
	for _, l := range r.Layers {
		l.Render(m, p, frame)
	}
	return nil
}

// Active returns how many layers are still enabled.
func (r *Routine) Active() int {
	n := 0
	for _, l := range r.Layers {
		if !l.Disabled() {
			n++
		}
	}
	return n
}

func (r *Routine) String() string { return r.Name }
