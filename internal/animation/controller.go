// Package animation runs the paced render loop that drives the sculpture.
package animation

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/san-kum/lumitree/internal/lumen"
	"github.com/san-kum/lumitree/internal/metrics"
	"github.com/san-kum/lumitree/internal/sink"
	"github.com/san-kum/lumitree/internal/topology"
)

const (
	// HardwareScale maps a frame component in [0,1] to the sink range.
	HardwareScale    = 255.0
	DefaultFPSPeriod = 500 * time.Millisecond
)

var ErrNoSink = errors.New("animation: no pixel sink")

// FrameStats describes one finished iteration of the loop.
type FrameStats struct {
	Index      int
	Time       float64
	RenderTime time.Duration
	// FPS is the latest measured rate, updated once per FPS period.
	FPS     float64
	SinkErr error
}

type Observer interface {
	ObserveFrame(s FrameStats)
}

type ObserverFunc func(FrameStats)

func (f ObserverFunc) ObserveFrame(s FrameStats) { f(s) }

type Options struct {
	Channel   int
	FPSPeriod time.Duration
	// MaxFrames stops the loop after that many frames; zero runs until
	// the context is cancelled.
	MaxFrames int
	Clock     lumen.Clock
	Logger    *slog.Logger
}

// Controller owns Params.Time and the frame buffers. Only the goroutine
// calling Run or Step may touch them.
type Controller struct {
	model    *topology.Model
	params   *lumen.Params
	renderer lumen.Layer
	sink     sink.PixelSink
	opts     Options

	frame lumen.Frame
	hw    []lumen.Color
	index int

	fps        *metrics.FrameRate
	renderTime *metrics.RenderTime
	delivery   *metrics.Delivery
	observers  []Observer
	sinkDown   bool
	logger     *slog.Logger
}

func New(m *topology.Model, p *lumen.Params, renderer lumen.Layer, out sink.PixelSink, opts Options) (*Controller, error) {
	if out == nil {
		return nil, ErrNoSink
	}
	if opts.FPSPeriod <= 0 {
		opts.FPSPeriod = DefaultFPSPeriod
	}
	if opts.Clock == nil {
		opts.Clock = lumen.SystemClock
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Controller{
		model:      m,
		params:     p,
		renderer:   renderer,
		sink:       out,
		opts:       opts,
		frame:      lumen.NewFrame(m.NumLEDs()),
		hw:         make([]lumen.Color, m.NumLEDs()),
		fps:        metrics.NewFrameRate(opts.FPSPeriod),
		renderTime: metrics.NewRenderTime(),
		delivery:   metrics.NewDelivery(),
		logger:     opts.Logger.With("component", "animation"),
	}, nil
}

func (c *Controller) AddObserver(o Observer) { c.observers = append(c.observers, o) }

// Run steps the loop until ctx is cancelled or MaxFrames is reached.
// Cancellation is observed between frames only.
func (c *Controller) Run(ctx context.Context) error {
	c.logger.Info("animation started",
		"leds", c.model.NumLEDs(),
		"target_fps", c.params.TargetFrameRate,
		"channel", c.opts.Channel,
	)
	for c.opts.MaxFrames == 0 || c.index < c.opts.MaxFrames {
		select {
		case <-ctx.Done():
			c.logger.Info("animation stopped", "frames", c.index)
			return ctx.Err()
		default:
		}
		c.Step()
	}
	c.logger.Info("animation finished", "frames", c.index)
	return nil
}

// Step runs one iteration: pace, render, convert and push.
func (c *Controller) Step() FrameStats {
	c.AdvanceTime()

	start := c.opts.Clock.Now()
	c.frame.Clear()
	if err := c.renderer.Render(c.model, c.params, c.frame); err != nil {
		c.logger.Warn("render failed", "error", err)
	}
	elapsed := c.opts.Clock.Now().Sub(start)
	c.renderTime.Observe(elapsed)

	for i, px := range c.frame {
		c.hw[i] = px.Scale(HardwareScale)
	}
	err := c.sink.PutPixels(c.opts.Channel, c.hw)
	c.delivery.Observe(err)
	c.noteSink(err)

	if fps, ok := c.fps.Tick(c.opts.Clock.Now()); ok {
		c.logger.Debug("frame rate", "fps", fps, "render_ms", c.renderTime.Value(), "delivery", c.delivery.Value())
	}

	stats := FrameStats{
		Index:      c.index,
		Time:       c.params.Time,
		RenderTime: elapsed,
		FPS:        c.fps.Value(),
		SinkErr:    err,
	}
	c.index++
	for _, o := range c.observers {
		o.ObserveFrame(stats)
	}
	return stats
}

// AdvanceTime moves the animation clock one ideal frame forward, sleeping
// off any time left in the frame. After a stall longer than two frames the
// clock snaps to now instead of catching up.
func (c *Controller) AdvanceTime() {
	now := seconds(c.opts.Clock.Now())
	dt := now - c.params.Time
	ideal := 1 / c.params.TargetFrameRate

	if dt > 2*ideal {
		c.params.Time = now
		return
	}
	c.params.Time += ideal
	if dt < ideal {
		c.opts.Clock.Sleep(time.Duration((ideal - dt) * float64(time.Second)))
	}
}

// noteSink logs sink state changes, not each dropped frame.
func (c *Controller) noteSink(err error) {
	switch {
	case err != nil && !c.sinkDown:
		c.sinkDown = true
		c.logger.Warn("pixel sink failing; frames dropped", "error", err)
	case err == nil && c.sinkDown:
		c.sinkDown = false
		c.logger.Info("pixel sink recovered", "dropped", c.delivery.Dropped())
	}
}

func (c *Controller) Frames() int                     { return c.index }
func (c *Controller) FrameRate() *metrics.FrameRate   { return c.fps }
func (c *Controller) RenderTime() *metrics.RenderTime { return c.renderTime }
func (c *Controller) Delivery() *metrics.Delivery     { return c.delivery }

// Frame returns the last rendered frame in [0,1] range.
func (c *Controller) Frame() lumen.Frame { return c.frame }

func seconds(t time.Time) float64 {
	return float64(t.UnixNano()) / float64(time.Second)
}
