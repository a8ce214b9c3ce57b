package render

import (
	"time"

	"github.com/san-kum/lumitree/internal/lumen"
	"github.com/san-kum/lumitree/internal/topology"
)

// Fade is a timed blend from one scene to another. Once Done reports true
// the end scene alone is canonical and the fade can be discarded.
type Fade interface {
	lumen.Layer
	Done() bool
	Start() lumen.Layer
	End() lumen.Layer
}

// LinearFade cross-fades start into end over duration. The clock starts on
// the first Render call, not at construction.
type LinearFade struct {
	start    lumen.Layer
	end      lumen.Layer
	duration time.Duration
	clock    lumen.Clock

	t0      time.Time
	started bool
	done    bool
	scratch lumen.Frame
}

// NewLinearFade builds a fade. A nil start fades in from black.
func NewLinearFade(start, end lumen.Layer, duration time.Duration, clock lumen.Clock) *LinearFade {
	if clock == nil {
		clock = lumen.SystemClock
	}
	return &LinearFade{start: start, end: end, duration: duration, clock: clock}
}

func (f *LinearFade) Start() lumen.Layer { return f.start }
func (f *LinearFade) End() lumen.Layer   { return f.end }
func (f *LinearFade) Done() bool         { return f.done }

// Progress returns the blend weight of the end scene, clamped to [0,1].
func (f *LinearFade) Progress() float64 {
	if f.done {
		return 1
	}
	if !f.started {
		return 0
	}
	return min(f.weight(), 1)
}

func (f *LinearFade) weight() float64 {
	if f.duration <= 0 {
		return 1
	}
	return float64(f.clock.Now().Sub(f.t0)) / float64(f.duration)
}

func (f *LinearFade) Render(m *topology.Model, p *lumen.Params, frame lumen.Frame) error {
	if !f.started {
		f.started = true
		f.t0 = f.clock.Now()
	}

	err := renderScene(f.end, m, p, frame)
	if f.done {
		return err
	}

	w := f.weight()
	if w >= 1 {
		f.done = true
		return err
	}

	if len(f.scratch) != len(frame) {
		f.scratch = lumen.NewFrame(len(frame))
	}
	f.scratch.Clear()
	if serr := renderScene(f.start, m, p, f.scratch); err == nil {
		err = serr
	}
	frame.Blend(f.scratch, w)
	return err
}

// TwoStepFade fades a to b, then b to c, each over half the duration.
type TwoStepFade struct {
	first  *LinearFade
	second *LinearFade
}

func NewTwoStepFade(a, b, c lumen.Layer, duration time.Duration, clock lumen.Clock) *TwoStepFade {
	half := duration / 2
	return &TwoStepFade{
		first:  NewLinearFade(a, b, half, clock),
		second: NewLinearFade(b, c, half, clock),
	}
}

func (f *TwoStepFade) Start() lumen.Layer { return f.first.Start() }
func (f *TwoStepFade) End() lumen.Layer   { return f.second.End() }
func (f *TwoStepFade) Done() bool         { return f.second.Done() }

// Step returns 1 while the first half runs and 2 after.
func (f *TwoStepFade) Step() int {
	if f.first.Done() {
		return 2
	}
	return 1
}

func (f *TwoStepFade) Render(m *topology.Model, p *lumen.Params, frame lumen.Frame) error {
	if !f.first.Done() {
		return f.first.Render(m, p, frame)
	}
	return f.second.Render(m, p, frame)
}

func renderScene(s lumen.Layer, m *topology.Model, p *lumen.Params, frame lumen.Frame) error {
	if s == nil {
		return nil
	}
	return s.Render(m, p, frame)
}
