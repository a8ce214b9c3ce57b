// Package swapper switches the renderer between the headset-on and
// headset-off playlists as the wearer puts the headset on or takes it off.
package swapper

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/san-kum/lumitree/internal/lumen"
	"github.com/san-kum/lumitree/internal/render"
)

const (
	DefaultFade     = 4 * time.Second
	DefaultHold     = 3 * time.Second
	DefaultInterval = 250 * time.Millisecond
)

// Submitter accepts renderer commands. *render.Renderer satisfies it.
type Submitter interface {
	Submit(cmd render.Command) error
}

type Options struct {
	On         string
	Off        string
	Transition string
	Fade       time.Duration
	// Hold is how long the headset state must stay unchanged before a swap.
	Hold     time.Duration
	Interval time.Duration
	Clock    lumen.Clock
	Logger   *slog.Logger
}

type Swapper struct {
	target Submitter
	params *lumen.Params
	opts   Options
	logger *slog.Logger

	applied   bool
	candidate bool
	since     time.Time
	swaps     int
}

func New(target Submitter, params *lumen.Params, opts Options) *Swapper {
	if opts.On == "" {
		opts.On = "on"
	}
	if opts.Off == "" {
		opts.Off = "off"
	}
	if opts.Fade <= 0 {
		opts.Fade = DefaultFade
	}
	if opts.Hold < 0 {
		opts.Hold = DefaultHold
	}
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.Clock == nil {
		opts.Clock = lumen.SystemClock
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Swapper{
		target: target,
		params: params,
		opts:   opts,
		logger: opts.Logger.With("component", "swapper"),
	}
}

// Run checks the headset state every Interval until ctx ends.
func (s *Swapper) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.opts.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.Check()
		}
	}
}

// Check looks at the latest sample and requests a fade once a changed
// headset state has held for Hold. It reports whether a fade was requested.
func (s *Swapper) Check() bool {
	now := s.opts.Clock.Now()
	sample := s.params.Sample()
	on := sample != nil && sample.On

	if on != s.candidate || s.since.IsZero() {
		if on != s.candidate {
			s.logger.Debug("headset state changed", "on", on)
		}
		s.candidate = on
		s.since = now
	}
	if s.candidate == s.applied || now.Sub(s.since) < s.opts.Hold {
		return false
	}

	playlist := s.opts.Off
	if s.candidate {
		playlist = s.opts.On
	}
	if err := s.swap(playlist); err != nil {
		s.logger.Warn("swap request dropped; will retry", "playlist", playlist, "error", err)
		return false
	}
	s.applied = s.candidate
	s.swaps++
	s.logger.Info("swapping playlists", "playlist", playlist, "headset_on", s.applied, "fade", s.opts.Fade)
	return true
}

func (s *Swapper) swap(playlist string) error {
	cmds := []render.Command{render.Advance{Playlist: playlist}}
	if s.opts.Transition != "" {
		cmds = append(cmds, render.Advance{Playlist: s.opts.Transition})
	}
	cmds = append(cmds, render.FadeTo{Playlist: playlist, Via: s.opts.Transition, Duration: s.opts.Fade})

	// The fade is what matters; the advances only pick fresh routines.
	var errs []error
	for i, cmd := range cmds {
		err := s.target.Submit(cmd)
		if err == nil {
			continue
		}
		if i == len(cmds)-1 {
			return err
		}
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		s.logger.Debug("routine advance dropped", "error", errors.Join(errs...))
	}
	return nil
}

// Applied reports the headset state the renderer was last switched to.
func (s *Swapper) Applied() bool { return s.applied }

func (s *Swapper) Swaps() int { return s.swaps }
