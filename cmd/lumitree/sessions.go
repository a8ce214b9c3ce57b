package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/lumitree/internal/biosignal"
	"github.com/san-kum/lumitree/internal/export"
	"github.com/san-kum/lumitree/internal/lumen"
	"github.com/san-kum/lumitree/internal/metrics"
)

func recordSession(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	src, err := buildSource(cfg)
	if err != nil {
		return err
	}
	if src == nil {
		return errors.New("biosignal source is disabled; nothing to record")
	}

	rec, err := sessionStore(cfg).Begin(src.Name(), recordNote)
	if err != nil {
		return err
	}
	defer closeRecording(rec, logger)
	logger.Info("recording session", "session", rec.ID(), "source", src.Name())

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if recordSeconds > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, seconds(recordSeconds))
		defer cancel()
	}

	params := lumen.NewParams(0)
	poller := biosignal.NewPoller(src, params, biosignal.PollerOptions{
		Logger:  logger,
		Writers: []biosignal.SampleWriter{rec},
	})
	err = poller.Run(ctx)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	return err
}

func listSessions(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	sessions, err := sessionStore(cfg).List()
	if err != nil {
		return err
	}
	if len(sessions) == 0 {
		fmt.Println("no sessions recorded")
		return nil
	}
	rows := make([][]string, 0, len(sessions))
	for _, s := range sessions {
		rows = append(rows, []string{
			s.ID,
			s.Started.Local().Format(time.DateTime),
			s.Duration().Round(time.Second).String(),
			strconv.Itoa(s.Samples),
			strconv.Itoa(s.BadSamples),
			s.Source,
			s.Note,
		})
	}
	fmt.Println(renderTable(
		[]string{"ID", "STARTED", "DURATION", "SAMPLES", "OFF", "SOURCE", "NOTE"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignRight},
	))
	return nil
}

func exportSession(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	return sessionStore(cfg).ExportJSON(os.Stdout, args[0])
}

func plotSession(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	samples, err := sessionStore(cfg).LoadSamples(args[0])
	if err != nil {
		return err
	}
	var attention, meditation []float64
	for _, s := range samples {
		if !s.On {
			continue
		}
		attention = append(attention, s.Attention)
		meditation = append(meditation, s.Meditation)
	}
	if len(attention) == 0 {
		fmt.Println("session has no samples with the headset on")
		return nil
	}
	if plotSVG != "" {
		svg := export.SeriesSVG([]export.Series{
			{Name: "attention", Color: "#ff8c00", Values: attention},
			{Name: "meditation", Color: "#1e90ff", Values: meditation},
		}, 800, 240)
		if err := os.WriteFile(plotSVG, []byte(svg), 0644); err != nil {
			return err
		}
		fmt.Println("wrote", plotSVG)
		return nil
	}
	fmt.Println(metrics.Plot("attention", attention, 80, 10))
	fmt.Println()
	fmt.Println(metrics.Plot("meditation", meditation, 80, 10))
	return nil
}

func removeSession(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := sessionStore(cfg).Remove(args[0]); err != nil {
		return err
	}
	fmt.Println("removed", args[0])
	return nil
}
