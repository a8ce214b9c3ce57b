package main

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/san-kum/lumitree/internal/biosignal"
	"github.com/san-kum/lumitree/internal/layers"
	"github.com/san-kum/lumitree/internal/logging"
	"github.com/san-kum/lumitree/internal/lumen"
	"github.com/san-kum/lumitree/internal/metrics"
	"github.com/san-kum/lumitree/internal/topology"
)

var benchHeader = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))

// benchRoutines renders each routine for a fixed number of frames with a
// simulated clock and fake biosignal, reporting render cost only.
func benchRoutines(cmd *cobra.Command, args []string) error {
	cfg, m, err := modelFor(cmd)
	if err != nil {
		return err
	}
	specs, err := cfg.PlaylistSpecs()
	if err != nil {
		return err
	}
	names := make([]string, 0, len(specs))
	for name := range specs {
		if len(args) == 1 && args[0] != name {
			continue
		}
		names = append(names, name)
	}
	if len(names) == 0 {
		return fmt.Errorf("no playlist named %q", args[0])
	}
	sort.Strings(names)

	fmt.Println(benchHeader.Render(fmt.Sprintf("benchmarking %d leds, %d frames per routine", m.NumLEDs(), benchFrames)))
	rows := [][]string{}
	var plots []string
	for _, name := range names {
		reg := newRegistry(cfg, logging.Discard())
		for i, rs := range specs[name].Routines {
			routine, err := reg.BuildRoutine(rs)
			if err != nil {
				return fmt.Errorf("playlist %s: %w", name, err)
			}
			rt, disabled := benchRoutine(m, routine, cfg.Animation.TargetFPS, benchFrames)
			fps := 0.0
			if rt.Value() > 0 {
				fps = 1000 / rt.Value()
			}
			rows = append(rows, []string{
				name, strconv.Itoa(i), routine.Name,
				fmt.Sprintf("%.3f", rt.Value()),
				fmt.Sprintf("%.3f", rt.Max()),
				fmt.Sprintf("%.0f", fps),
				strconv.Itoa(disabled),
			})
			if benchPlot {
				plots = append(plots, metrics.Plot(fmt.Sprintf("%s/%s render ms", name, routine.Name), rt.History(), 60, 6))
			}
		}
	}
	fmt.Println(renderTable(
		[]string{"PLAYLIST", "#", "ROUTINE", "MEAN MS", "MAX MS", "HEADROOM FPS", "DISABLED"},
		rows,
		[]columnAlignment{alignLeft, alignRight, alignLeft, alignRight, alignRight, alignRight, alignRight},
	))
	for _, p := range plots {
		fmt.Println(p)
		fmt.Println()
	}
	return nil
}

func benchRoutine(m *topology.Model, r *layers.Routine, fps float64, frames int) (*metrics.RenderTime, int) {
	params := lumen.NewParams(fps)
	fake := biosignal.NewFake(biosignal.FakeOptions{Seed: 1})
	frame := lumen.NewFrame(m.NumLEDs())
	rt := metrics.NewRenderTime()
	dt := 1 / params.TargetFrameRate
	params.Time = float64(time.Now().Unix())

	perSample := max(1, int(params.TargetFrameRate))
	for i := 0; i < frames; i++ {
		if i%perSample == 0 {
			s, _ := fake.Next(context.Background())
			params.SetSample(s)
		}
		params.Time += dt
		frame.Clear()
		start := time.Now()
		_ = r.Render(m, params, frame)
		rt.Observe(time.Since(start))
	}
	disabled := 0
	for _, l := range r.Layers {
		if l.Disabled() {
			disabled++
		}
	}
	return rt, disabled
}
