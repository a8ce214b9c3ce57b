// Package metrics holds the small running measurements the animation loop
// and the bench command report.
package metrics

import (
	"github.com/guptarohit/asciigraph"
)

// DefaultHistory bounds how many readings a metric keeps for plotting.
const DefaultHistory = 120

type Metric interface {
	Name() string
	Value() float64
	Reset()
}

// history is a bounded list of readings, oldest first.
type history struct {
	limit  int
	values []float64
}

func (h *history) push(v float64) {
	if h.limit <= 0 {
		h.limit = DefaultHistory
	}
	if len(h.values) == h.limit {
		copy(h.values, h.values[1:])
		h.values = h.values[:h.limit-1]
	}
	h.values = append(h.values, v)
}

func (h *history) snapshot() []float64 {
	out := make([]float64, len(h.values))
	copy(out, h.values)
	return out
}

// Plot renders data as an ASCII chart. It returns "" when there is nothing
// to draw.
func Plot(caption string, data []float64, width, height int) string {
	if len(data) == 0 {
		return ""
	}
	if len(data) == 1 {
		data = []float64{data[0], data[0]}
	}
	return asciigraph.Plot(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
	)
}
