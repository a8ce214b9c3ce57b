package layers

import (
	"time"

	"github.com/san-kum/lumitree/internal/lumen"
	"github.com/san-kum/lumitree/internal/topology"
)

const (
	// LevelFade is how long the response level takes to glide to a new
	// target. Headsets report about once a second.
	LevelFade = time.Second

	maxReadings = 256
)

// ResponsiveRenderer is implemented by effects that react to a biosignal
// response level. level is unknown until the first usable sample arrives.
type ResponsiveRenderer interface {
	RenderResponsive(m *topology.Model, p *lumen.Params, frame lumen.Frame, level lumen.Level) error
}

// ResponsiveOptions configures how a Responsive derives its level.
type ResponsiveOptions struct {
	Channel lumen.Channel
	// Smooth is the averaging window applied to incoming readings.
	Smooth time.Duration
	// MinLevel skips rendering while the known level is below it.
	MinLevel float64
	Inverse  bool
	Clock    lumen.Clock
}

type reading struct {
	value float64
	at    time.Time
}

// Responsive turns the latest biosignal sample into a smoothed, faded
// response level and hands it to the wrapped renderer.
type Responsive struct {
	inner ResponsiveRenderer
	opts  ResponsiveOptions

	readings   []reading // newest first
	lastSample *lumen.Sample

	level     lumen.Level
	fading    bool
	fadingTo  float64
	fadeStart time.Time
}

func NewResponsive(inner ResponsiveRenderer, opts ResponsiveOptions) *Responsive {
	if opts.Clock == nil {
		opts.Clock = lumen.SystemClock
	}
	return &Responsive{
		inner:    inner,
		opts:     opts,
		readings: make([]reading, 0, 16),
	}
}

func (r *Responsive) Inner() ResponsiveRenderer { return r.inner }

func (r *Responsive) Render(m *topology.Model, p *lumen.Params, frame lumen.Frame) error {
	level := r.update(p.Sample())

	if level.Known && r.opts.Inverse {
		level.Value = 1 - level.Value
	}
	if level.Known && level.Value < r.opts.MinLevel {
		return nil
	}
	return r.inner.RenderResponsive(m, p, frame, level)
}

// Level returns the current un-inverted response level without consuming a
// new sample.
func (r *Responsive) Level() lumen.Level {
	return r.current(r.opts.Clock.Now())
}

func (r *Responsive) update(s *lumen.Sample) lumen.Level {
	now := r.opts.Clock.Now()

	if s != nil && s != r.lastSample && s.On {
		r.lastSample = s
		if r.fading {
			r.endFade()
		}
		r.push(reading{value: s.Value(r.opts.Channel), at: now})
		r.startFade(r.mean(), now)
	}

	return r.current(now)
}

func (r *Responsive) current(now time.Time) lumen.Level {
	if !r.fading {
		return r.level
	}
	progress := now.Sub(r.fadeStart).Seconds() / LevelFade.Seconds()
	if progress >= 1 {
		r.endFade()
		return r.level
	}
	if progress < 0 {
		progress = 0
	}
	return lumen.Known(progress*r.fadingTo + (1-progress)*r.level.Value)
}

func (r *Responsive) startFade(target float64, now time.Time) {
	if !r.level.Known {
		r.level = lumen.Known(target)
		return
	}
	r.fading = true
	r.fadingTo = target
	r.fadeStart = now
}

func (r *Responsive) endFade() {
	r.level = lumen.Known(r.fadingTo)
	r.fading = false
}

// push prepends rd and drops readings beyond the smoothing window. The first
// reading at or past the window edge is kept so the window is always covered.
func (r *Responsive) push(rd reading) {
	r.readings = append(r.readings, reading{})
	copy(r.readings[1:], r.readings)
	r.readings[0] = rd

	for i := range r.readings {
		if rd.at.Sub(r.readings[i].at) >= r.opts.Smooth {
			r.readings = r.readings[:i+1]
			break
		}
	}
	if len(r.readings) > maxReadings {
		r.readings = r.readings[:maxReadings]
	}
}

func (r *Responsive) mean() float64 {
	sum := 0.0
	for _, rd := range r.readings {
		sum += rd.value
	}
	return sum / float64(len(r.readings))
}
