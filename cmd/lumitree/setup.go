package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/lumitree/internal/biosignal"
	"github.com/san-kum/lumitree/internal/config"
	"github.com/san-kum/lumitree/internal/layers"
	"github.com/san-kum/lumitree/internal/logging"
	"github.com/san-kum/lumitree/internal/lumen"
	"github.com/san-kum/lumitree/internal/render"
	"github.com/san-kum/lumitree/internal/storage"
	"github.com/san-kum/lumitree/internal/topology"
)

// loadConfig reads the config file if given and applies flags that were
// set explicitly on cmd.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	changed := func(name string) bool {
		return flags.Lookup(name) != nil && flags.Changed(name)
	}
	if changed("log-level") {
		cfg.Logging.Level = logLevel
	}
	if changed("log-format") {
		cfg.Logging.Format = logFormat
	}
	if changed("fps") {
		cfg.Animation.TargetFPS = targetFPS
	}
	if changed("gamma") {
		cfg.Animation.Gamma = gamma
	}
	if changed("seed") {
		cfg.Animation.Seed = seed
	}
	if changed("sink") {
		cfg.Sink.Kind = sinkKind
	}
	if changed("server") {
		cfg.Sink.Server = server
	}
	if changed("channel") {
		cfg.Sink.Channel = channel
	}
	if changed("preset") {
		cfg.Preset = preset
		cfg.Playlists = nil
	}
	if changed("source") {
		cfg.Biosignal.Kind = source
	}
	if changed("replay") {
		cfg.Biosignal.Kind = "replay"
		cfg.Biosignal.Replay = replayID
	}
	if changed("bad-data") {
		cfg.Biosignal.BadData = badData
	}
	if changed("record") {
		cfg.Biosignal.Record = record
	}
	if changed("graph") {
		cfg.Topology.Graph = graphPath
	}
	if changed("addresses") {
		cfg.Topology.Addresses = addrPath
	}
	if changed("no-swap") {
		cfg.Swapper.Enabled = !noSwap
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) (*slog.Logger, error) {
	return logging.New(logging.Options{Level: cfg.Logging.Level, Format: cfg.Logging.Format})
}

func buildModel(cfg *config.Config) (*topology.Model, error) {
	t := cfg.Topology
	if t.Graph != "" {
		return topology.Load(t.Graph, t.Addresses)
	}
	g, addrs := topology.Synthesize(t.Trees, t.Depth, t.Branching)
	return topology.New(g, addrs)
}

func newRegistry(cfg *config.Config, logger *slog.Logger) *layers.Registry {
	s := cfg.Animation.Seed
	if s == 0 {
		s = time.Now().UnixNano()
	}
	return layers.NewRegistry(layers.Options{
		MaxErrors: cfg.Animation.MaxLayerErrors,
		Seed:      s,
		Logger:    logger,
	})
}

func buildPlaylists(cfg *config.Config, reg *layers.Registry) (map[string]*render.Playlist, error) {
	specs, err := cfg.PlaylistSpecs()
	if err != nil {
		return nil, err
	}
	out := make(map[string]*render.Playlist, len(specs))
	for name, spec := range specs {
		pl, err := reg.BuildPlaylist(spec)
		if err != nil {
			return nil, fmt.Errorf("playlist %s: %w", name, err)
		}
		out[name] = pl
	}
	return out, nil
}

func sessionStore(cfg *config.Config) *storage.Store {
	dir := cfg.Biosignal.RecordDir
	if dir == "" {
		dir = config.DefaultRecordDir
	}
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(dataDir, dir)
	}
	return storage.New(dir)
}

// buildSource returns nil when biosignal input is disabled.
func buildSource(cfg *config.Config) (biosignal.Source, error) {
	b := cfg.Biosignal
	switch b.Kind {
	case "none":
		return nil, nil
	case "fake":
		return biosignal.NewFake(biosignal.FakeOptions{
			Interval: seconds(b.Interval),
			BadData:  b.BadData,
			Seed:     cfg.Animation.Seed,
		}), nil
	case "replay":
		samples, err := loadReplay(cfg, b.Replay)
		if err != nil {
			return nil, err
		}
		return biosignal.NewReplay(samples, biosignal.ReplayOptions{Speed: b.Speed, Loop: b.Loop}), nil
	default:
		return nil, fmt.Errorf("unknown biosignal source %q", b.Kind)
	}
}

// loadReplay accepts a session id or a path to a samples csv.
func loadReplay(cfg *config.Config, ref string) ([]lumen.Sample, error) {
	if strings.HasSuffix(ref, ".csv") {
		f, err := os.Open(ref)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return storage.ReadSamples(f)
	}
	return sessionStore(cfg).LoadSamples(ref)
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
