package biosignal

import (
	"context"
	"time"

	"github.com/san-kum/lumitree/internal/lumen"
)

type ReplayOptions struct {
	// Speed scales playback; 2 plays twice as fast. Zero means 1.
	Speed float64
	Loop  bool
}

// Replay plays back recorded samples, paced by the gaps between their
// timestamps. Each emitted sample is a fresh copy stamped with the replay
// time so consumers see it as new.
type Replay struct {
	samples []lumen.Sample
	opts    ReplayOptions
	next    int
	now     func() time.Time
}

func NewReplay(samples []lumen.Sample, opts ReplayOptions) *Replay {
	if opts.Speed <= 0 {
		opts.Speed = 1
	}
	return &Replay{samples: samples, opts: opts, now: time.Now}
}

func (r *Replay) Name() string { return "replay" }

func (r *Replay) Len() int { return len(r.samples) }

func (r *Replay) Next(ctx context.Context) (*lumen.Sample, error) {
	var gap time.Duration
	switch {
	case r.next >= len(r.samples):
		if !r.opts.Loop || len(r.samples) == 0 {
			return nil, ErrExhausted
		}
		r.next = 0
		gap = r.seamGap()
	case r.next > 0:
		gap = r.samples[r.next].Timestamp.Sub(r.samples[r.next-1].Timestamp)
	}
	if err := wait(ctx, time.Duration(float64(gap)/r.opts.Speed)); err != nil {
		return nil, err
	}

	s := r.samples[r.next]
	r.next++
	s.Timestamp = r.now()
	return &s, nil
}

// seamGap is the pause between the last sample and the first when looping:
// the mean recorded gap, or DefaultInterval when the recording has no
// usable spacing.
func (r *Replay) seamGap() time.Duration {
	n := len(r.samples)
	if n < 2 {
		return DefaultInterval
	}
	mean := r.samples[n-1].Timestamp.Sub(r.samples[0].Timestamp) / time.Duration(n-1)
	if mean <= 0 {
		return DefaultInterval
	}
	return mean
}
