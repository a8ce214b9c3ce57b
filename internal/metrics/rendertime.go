package metrics

import "time"

// RenderTime tracks how long frames take to render, in milliseconds.
type RenderTime struct {
	name    string
	sum     float64
	max     float64
	samples int
	hist    history
}

func NewRenderTime() *RenderTime {
	return &RenderTime{name: "render_ms", hist: history{limit: DefaultHistory}}
}

func (r *RenderTime) Name() string { return r.name }

func (r *RenderTime) Observe(d time.Duration) {
	ms := float64(d) / float64(time.Millisecond)
	r.sum += ms
	r.max = max(r.max, ms)
	r.samples++
	r.hist.push(ms)
}

// Value returns the mean render time.
func (r *RenderTime) Value() float64 {
	if r.samples == 0 {
		return 0
	}
	return r.sum / float64(r.samples)
}

func (r *RenderTime) Max() float64 { return r.max }

func (r *RenderTime) Samples() int { return r.samples }

func (r *RenderTime) History() []float64 { return r.hist.snapshot() }

func (r *RenderTime) Reset() {
	r.sum = 0
	r.max = 0
	r.samples = 0
	r.hist.values = nil
}
