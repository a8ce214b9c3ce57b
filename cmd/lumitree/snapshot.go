package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/lumitree/internal/biosignal"
	"github.com/san-kum/lumitree/internal/export"
	"github.com/san-kum/lumitree/internal/logging"
	"github.com/san-kum/lumitree/internal/lumen"
	"github.com/san-kum/lumitree/internal/render"
	"github.com/san-kum/lumitree/internal/viz"
)

// snapshotPlaylist plays a playlist headless for --at simulated seconds
// and writes the last frame as an svg.
func snapshotPlaylist(cmd *cobra.Command, args []string) error {
	cfg, m, err := modelFor(cmd)
	if err != nil {
		return err
	}
	pls, err := buildPlaylists(cfg, newRegistry(cfg, logging.Discard()))
	if err != nil {
		return err
	}
	r, err := render.New(pls, args[0], render.Options{Gamma: cfg.Animation.Gamma, Logger: logging.Discard()})
	if err != nil {
		return err
	}

	params := lumen.NewParams(cfg.Animation.TargetFPS)
	fake := biosignal.NewFake(biosignal.FakeOptions{Seed: 1})
	frame := lumen.NewFrame(m.NumLEDs())
	dt := 1 / params.TargetFrameRate
	params.Time = float64(time.Now().Unix())

	frames := max(1, int(snapshotAt*params.TargetFrameRate))
	perSample := max(1, int(params.TargetFrameRate))
	for i := 0; i < frames; i++ {
		if i%perSample == 0 {
			s, _ := fake.Next(context.Background())
			params.SetSample(s)
		}
		params.Time += dt
		frame.Clear()
		_ = r.Render(m, params, frame)
	}

	cam := viz.NewCamera(viz.Centroid(m))
	cam.Rotate(snapshotYaw * math.Pi / 180)
	if err := os.WriteFile(snapshotOut, []byte(export.FrameSVG(m, frame, cam, snapshotSize)), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s (%s, routine %s, t=%.1fs)\n", snapshotOut, args[0], r.Selection(args[0]).Name, float64(frames)*dt)
	return nil
}
