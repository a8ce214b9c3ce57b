package biosignal

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/san-kum/lumitree/internal/lumen"
)

const (
	DefaultMinBackoff = time.Second
	DefaultMaxBackoff = 5 * time.Second
)

// SampleWriter receives every sample the poller publishes.
type SampleWriter interface {
	Write(s *lumen.Sample) error
}

type PollerOptions struct {
	MinBackoff time.Duration
	MaxBackoff time.Duration
	// Writers also receive each sample, e.g. a session recording.
	Writers []SampleWriter
	Logger  *slog.Logger
}

// Poller reads a Source and publishes each sample into Params. It is the
// only writer of the sample slot.
type Poller struct {
	src    Source
	params *lumen.Params
	opts   PollerOptions
	logger *slog.Logger
	count  int
}

func NewPoller(src Source, params *lumen.Params, opts PollerOptions) *Poller {
	if opts.MinBackoff <= 0 {
		opts.MinBackoff = DefaultMinBackoff
	}
	if opts.MaxBackoff < opts.MinBackoff {
		opts.MaxBackoff = max(DefaultMaxBackoff, opts.MinBackoff)
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Poller{
		src:    src,
		params: params,
		opts:   opts,
		logger: opts.Logger.With("component", "biosignal", "source", src.Name()),
	}
}

// Run polls until ctx ends or a finite source is exhausted. Read errors
// are retried with doubling backoff.
func (p *Poller) Run(ctx context.Context) error {
	delay := p.opts.MinBackoff
	failing := false
	for {
		s, err := p.src.Next(ctx)
		switch {
		case err == nil:
		case ctx.Err() != nil:
			return ctx.Err()
		case errors.Is(err, ErrExhausted):
			p.logger.Info("source exhausted", "samples", p.count)
			return nil
		default:
			if !failing {
				p.logger.Warn("headset read failed; retrying", "error", err, "retry_in", delay)
				failing = true
			}
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return ctx.Err()
			}
			if next := delay * 2; next <= p.opts.MaxBackoff {
				delay = next
			} else {
				delay = p.opts.MaxBackoff
			}
			continue
		}

		if failing {
			p.logger.Info("headset readings resumed")
			failing = false
		}
		delay = p.opts.MinBackoff
		p.publish(s)
	}
}

func (p *Poller) publish(s *lumen.Sample) {
	p.params.SetSample(s)
	p.count++
	p.logger.Debug("sample", "attention", s.Attention, "meditation", s.Meditation, "on", s.On, "poor_signal", s.PoorSignal)
	for _, w := range p.opts.Writers {
		if err := w.Write(s); err != nil {
			p.logger.Warn("sample writer failed", "error", err)
		}
	}
}

// Count returns how many samples have been published.
func (p *Poller) Count() int { return p.count }
