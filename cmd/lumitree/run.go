package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"

	"github.com/gofrs/flock"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/san-kum/lumitree/internal/animation"
	"github.com/san-kum/lumitree/internal/biosignal"
	"github.com/san-kum/lumitree/internal/config"
	"github.com/san-kum/lumitree/internal/lumen"
	"github.com/san-kum/lumitree/internal/render"
	"github.com/san-kum/lumitree/internal/sink"
	"github.com/san-kum/lumitree/internal/storage"
	"github.com/san-kum/lumitree/internal/swapper"
	"github.com/san-kum/lumitree/internal/topology"
	"github.com/san-kum/lumitree/internal/viz"
)

func runAnimation(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cfg.Sink.Kind == "preview" && !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		return errors.New("preview sink needs a terminal on stdout")
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	if cfg.Sink.Kind == "preview" {
		// Log lines would tear the preview; keep errors only.
		cfg.Logging.Level = "error"
		if logger, err = newLogger(cfg); err != nil {
			return err
		}
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return err
	}
	lock := flock.New(filepath.Join(dataDir, fmt.Sprintf("lumitree-%d.lock", cfg.Sink.Channel)))
	ok, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return fmt.Errorf("another lumitree is already driving channel %d (lock %s)", cfg.Sink.Channel, lock.Path())
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			logger.Warn("failed to release run lock", "error", err)
		}
	}()

	model, err := buildModel(cfg)
	if err != nil {
		return err
	}
	reg := newRegistry(cfg, logger)
	playlists, err := buildPlaylists(cfg, reg)
	if err != nil {
		return err
	}
	renderer, err := render.New(playlists, cfg.Active, render.Options{Gamma: cfg.Animation.Gamma, Logger: logger})
	if err != nil {
		return err
	}
	params := lumen.NewParams(cfg.Animation.TargetFPS)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		out     sink.PixelSink
		preview *viz.Preview
	)
	switch cfg.Sink.Kind {
	case "opc":
		opc := sink.NewOPC(sink.OPCOptions{
			Server:     cfg.Sink.Server,
			MinBackoff: seconds(cfg.Sink.MinBackoff),
			MaxBackoff: seconds(cfg.Sink.MaxBackoff),
			Logger:     logger,
		})
		defer opc.Close()
		out = opc
	case "preview":
		preview = viz.NewPreview(model, viz.Options{
			Submit:     renderer.Submit,
			Playlists:  renderer.Names(),
			TargetFPS:  cfg.Animation.TargetFPS,
			StatusFunc: statusOf(renderer, params),
		})
		out = preview
	default:
		out = sink.Null{}
	}

	ctrl, err := animation.New(model, params, renderer, out, animation.Options{
		Channel:   cfg.Sink.Channel,
		FPSPeriod: seconds(cfg.Animation.FPSLogPeriod),
		MaxFrames: maxFrames,
		Logger:    logger,
	})
	if err != nil {
		return err
	}
	if preview != nil {
		ctrl.AddObserver(preview)
	}

	var wg sync.WaitGroup
	errs := make(chan error, 4)
	spawn := func(name string, fn func(context.Context) error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := fn(ctx); err != nil && !errors.Is(err, context.Canceled) {
				errs <- fmt.Errorf("%s: %w", name, err)
				cancel()
			}
		}()
	}

	src, err := buildSource(cfg)
	if err != nil {
		return err
	}
	if src != nil {
		opts := biosignal.PollerOptions{Logger: logger}
		if cfg.Biosignal.Record {
			rec, err := sessionStore(cfg).Begin(src.Name(), "recorded during run")
			if err != nil {
				return err
			}
			defer closeRecording(rec, logger)
			opts.Writers = append(opts.Writers, rec)
		}
		spawn("biosignal", biosignal.NewPoller(src, params, opts).Run)
	}
	if cfg.Swapper.Enabled {
		sw := swapper.New(renderer, params, swapper.Options{
			On:         cfg.Swapper.On,
			Off:        cfg.Swapper.Off,
			Transition: cfg.Swapper.Transition,
			Fade:       seconds(cfg.Swapper.Fade),
			Hold:       seconds(cfg.Swapper.Hold),
			Logger:     logger,
		})
		spawn("swapper", sw.Run)
	}

	spawn("animation", func(ctx context.Context) error {
		err := ctrl.Run(ctx)
		if err == nil {
			// Frame limit reached; stop everything else.
			cancel()
		}
		return err
	})
	if preview != nil {
		spawn("preview", func(ctx context.Context) error {
			err := preview.Run(ctx)
			cancel()
			return err
		})
	}

	wg.Wait()
	close(errs)
	var all []error
	for err := range errs {
		all = append(all, err)
	}
	if len(all) == 0 {
		logger.Info("shutdown complete", "frames", ctrl.Frames(), "fps", ctrl.FrameRate().Value())
	}
	return errors.Join(all...)
}

// statusOf reads renderer state for the preview. It runs on the animation
// goroutine, which owns the renderer.
func statusOf(r *render.Renderer, p *lumen.Params) func() viz.Status {
	return func() viz.Status {
		st := viz.Status{Playlist: r.Active(), Target: r.Target()}
		if sel := r.Selection(r.Active()); sel != nil {
			st.Routine = sel.Name
		}
		if s := p.Sample(); s != nil {
			st.Sample = s.String()
		}
		return st
	}
}

func closeRecording(rec *storage.Recording, logger *slog.Logger) {
	if err := rec.Close(); err != nil {
		logger.Warn("failed to close recording", "session", rec.ID(), "error", err)
		return
	}
	meta := rec.Metadata()
	logger.Info("session recorded", "session", meta.ID, "samples", meta.Samples)
}

// modelFor is shared by commands that only need the structure.
func modelFor(cmd *cobra.Command) (*config.Config, *topology.Model, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	m, err := buildModel(cfg)
	if err != nil {
		return nil, nil, err
	}
	return cfg, m, nil
}
