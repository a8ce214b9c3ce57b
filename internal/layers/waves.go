package layers

import (
	"math"

	"github.com/san-kum/lumitree/internal/lumen"
	"github.com/san-kum/lumitree/internal/topology"
)

const waveWidth = 0.4

// Waves sends wavefronts outward from the base. A higher reading shortens
// the pause between waves.
type Waves struct {
	Color     lumen.Color
	Speed     float64
	MaxPeriod float64
	MinPeriod float64

	period    float64
	startedAt float64
	drawing   bool
}

func NewWaves(color lumen.Color, period, speed float64) *Waves {
	return &Waves{
		Color:     color,
		Speed:     speed,
		MaxPeriod: period,
		MinPeriod: -1,
		period:    period,
	}
}

// Period returns the current pause between wave starts.
func (w *Waves) Period() float64 { return w.period }

func (w *Waves) RenderResponsive(m *topology.Model, p *lumen.Params, frame lumen.Frame, level lumen.Level) error {
	center := (p.Time - w.startedAt) * w.Speed

	switch {
	case center < math.Pi/2:
		w.drawing = true
		for i := range frame {
			a := math.Min(math.Abs(m.Distance(i)-center)*math.Pi/2/waveWidth, math.Pi/2)
			frame[i] = frame[i].Add(w.Color.Scale(math.Cos(a)))
		}
	case w.drawing && level.Known:
		w.drawing = false
		w.period = w.MinPeriod + (w.MaxPeriod-w.MinPeriod)*(1-level.Value)
	case center > w.period:
		w.startedAt = p.Time
	}
	return nil
}

// ThrobbingBrainStem is a fast wave that fades out linearly within the first
// few levels of the structure.
type ThrobbingBrainStem struct {
	waves  *Waves
	levels int

	model *topology.Model
	scale []float64
	tmp   lumen.Frame
}

func NewThrobbingBrainStem(color lumen.Color, levels int, period, speed float64) *ThrobbingBrainStem {
	if levels < 1 {
		levels = 6
	}
	return &ThrobbingBrainStem{waves: NewWaves(color, period, speed), levels: levels}
}

func (t *ThrobbingBrainStem) RenderResponsive(m *topology.Model, p *lumen.Params, frame lumen.Frame, level lumen.Level) error {
	if m != t.model {
		t.model = m
		t.scale = make([]float64, m.NumLEDs())
		t.tmp = lumen.NewFrame(m.NumLEDs())
		maxDist := maxDistance(m)
		n := numLevels(m)
		for i := range t.scale {
			h := float64(levelOf(m, i, n, maxDist))
			t.scale[i] = math.Max(0, 1-h/float64(t.levels))
		}
	}

	t.tmp.Clear()
	if err := t.waves.RenderResponsive(m, p, t.tmp, level); err != nil {
		return err
	}
	for i := range frame {
		frame[i] = frame[i].Add(t.tmp[i].Scale(t.scale[i]))
	}
	return nil
}
