package config

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/lumitree/internal/layers"
	"github.com/san-kum/lumitree/internal/lumen"
)

const (
	DefaultTargetFPS    = lumen.DefaultFrameRate
	DefaultGamma        = 2.2
	DefaultFPSLogPeriod = 0.5
	DefaultServer       = "localhost:7890"
	DefaultPreset       = "show"
	DefaultRecordDir    = "sessions"
)

var ErrInvalid = errors.New("config: invalid")

type Config struct {
	Animation AnimationConfig `yaml:"animation"`
	Topology  TopologyConfig  `yaml:"topology"`
	Sink      SinkConfig      `yaml:"sink"`
	Biosignal BiosignalConfig `yaml:"biosignal"`
	Swapper   SwapperConfig   `yaml:"swapper"`
	Logging   LoggingConfig   `yaml:"logging"`

	// Preset names a built-in playlist set used when Playlists is empty.
	Preset    string                         `yaml:"preset"`
	Playlists map[string]layers.PlaylistSpec `yaml:"playlists,omitempty"`
	// Active is the playlist shown at startup.
	Active string `yaml:"active"`
}

type AnimationConfig struct {
	TargetFPS      float64 `yaml:"target_fps"`
	Gamma          float64 `yaml:"gamma"`
	FPSLogPeriod   float64 `yaml:"fps_log_period"`
	MaxLayerErrors int     `yaml:"max_layer_errors"`
	Seed           int64   `yaml:"seed"`
}

// TopologyConfig points at the structure files. With Graph empty a
// synthetic structure is generated.
type TopologyConfig struct {
	Graph     string `yaml:"graph"`
	Addresses string `yaml:"addresses"`
	Trees     int    `yaml:"trees"`
	Depth     int    `yaml:"depth"`
	Branching int    `yaml:"branching"`
}

type SinkConfig struct {
	Kind       string  `yaml:"kind"`
	Server     string  `yaml:"server"`
	Channel    int     `yaml:"channel"`
	MinBackoff float64 `yaml:"min_backoff"`
	MaxBackoff float64 `yaml:"max_backoff"`
}

type BiosignalConfig struct {
	Kind     string  `yaml:"kind"`
	Replay   string  `yaml:"replay"`
	Speed    float64 `yaml:"speed"`
	Loop     bool    `yaml:"loop"`
	Interval float64 `yaml:"interval"`
	BadData  bool    `yaml:"bad_data"`
	// RecordDir holds session recordings; empty disables recording
	// during run.
	RecordDir string `yaml:"record_dir"`
	Record    bool   `yaml:"record"`
}

type SwapperConfig struct {
	Enabled    bool    `yaml:"enabled"`
	Fade       float64 `yaml:"fade"`
	Hold       float64 `yaml:"hold"`
	On         string  `yaml:"on"`
	Off        string  `yaml:"off"`
	Transition string  `yaml:"transition"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func DefaultConfig() *Config {
	return &Config{
		Animation: AnimationConfig{
			TargetFPS:      DefaultTargetFPS,
			Gamma:          DefaultGamma,
			FPSLogPeriod:   DefaultFPSLogPeriod,
			MaxLayerErrors: layers.DefaultMaxErrors,
		},
		Topology: TopologyConfig{Trees: 6, Depth: 4, Branching: 2},
		Sink: SinkConfig{
			Kind:       "opc",
			Server:     DefaultServer,
			MinBackoff: 0.5,
			MaxBackoff: 10,
		},
		Biosignal: BiosignalConfig{
			Kind:      "fake",
			Speed:     1,
			Interval:  1,
			RecordDir: DefaultRecordDir,
		},
		Swapper: SwapperConfig{
			Enabled:    true,
			Fade:       4,
			Hold:       3,
			On:         "on",
			Off:        "off",
			Transition: "transition",
		},
		Logging: LoggingConfig{Level: "info", Format: "console"},
		Preset:  DefaultPreset,
		Active:  "off",
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// PlaylistSpecs returns the configured playlists, falling back to the
// named preset.
func (c *Config) PlaylistSpecs() (map[string]layers.PlaylistSpec, error) {
	if len(c.Playlists) > 0 {
		return c.Playlists, nil
	}
	p, ok := Presets[c.Preset]
	if !ok {
		return nil, fmt.Errorf("%w: unknown preset %q (have %v)", ErrInvalid, c.Preset, ListPresets())
	}
	return p, nil
}

// Validate checks values that would otherwise fail deep inside startup.
func (c *Config) Validate() error {
	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
	}

	if c.Animation.TargetFPS <= 0 {
		bad("animation.target_fps must be positive, got %v", c.Animation.TargetFPS)
	}
	if c.Animation.Gamma <= 0 {
		bad("animation.gamma must be positive, got %v", c.Animation.Gamma)
	}
	if c.Animation.MaxLayerErrors < 1 {
		bad("animation.max_layer_errors must be at least 1, got %d", c.Animation.MaxLayerErrors)
	}
	if c.Topology.Graph == "" && (c.Topology.Trees < 1 || c.Topology.Depth < 1 || c.Topology.Branching < 1) {
		bad("topology: synthetic trees, depth and branching must be at least 1")
	}
	if c.Topology.Addresses != "" && c.Topology.Graph == "" {
		bad("topology.addresses requires topology.graph")
	}

	switch c.Sink.Kind {
	case "opc", "preview", "null":
	default:
		bad("sink.kind %q is not one of opc, preview, null", c.Sink.Kind)
	}
	if c.Sink.Channel < 0 || c.Sink.Channel > 255 {
		bad("sink.channel %d out of range 0-255", c.Sink.Channel)
	}
	if c.Sink.MinBackoff <= 0 || c.Sink.MaxBackoff < c.Sink.MinBackoff {
		bad("sink backoff must satisfy 0 < min_backoff <= max_backoff")
	}

	switch c.Biosignal.Kind {
	case "fake", "none":
	case "replay":
		if c.Biosignal.Replay == "" {
			bad("biosignal.replay is required for kind replay")
		}
	default:
		bad("biosignal.kind %q is not one of fake, replay, none", c.Biosignal.Kind)
	}
	if c.Biosignal.Record && c.Biosignal.RecordDir == "" {
		bad("biosignal.record needs biosignal.record_dir")
	}

	switch c.Logging.Level {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		bad("logging.level %q is not one of debug, info, warn, error", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "", "console", "json":
	default:
		bad("logging.format %q is not one of console, json", c.Logging.Format)
	}

	specs, err := c.PlaylistSpecs()
	if err != nil {
		errs = append(errs, err)
		return errors.Join(errs...)
	}
	if _, ok := specs[c.Active]; !ok {
		bad("active playlist %q not defined (have %v)", c.Active, names(specs))
	}
	if c.Swapper.Enabled {
		for _, n := range []string{c.Swapper.On, c.Swapper.Off, c.Swapper.Transition} {
			if n == "" {
				continue
			}
			if _, ok := specs[n]; !ok {
				bad("swapper playlist %q not defined", n)
			}
		}
	}
	return errors.Join(errs...)
}

func names(m map[string]layers.PlaylistSpec) []string {
	out := make([]string, 0, len(m))
	for n := range m {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
