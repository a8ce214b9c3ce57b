package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/lumitree/internal/layers"
)

func TestDefaultConfigValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.Animation.TargetFPS != DefaultTargetFPS || cfg.Active != "off" {
		t.Errorf("unexpected defaults: %+v", cfg.Animation)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lumitree.yaml")
	cfg := DefaultConfig()
	cfg.Sink.Kind = "null"
	cfg.Playlists = GetPreset("test")
	if err := Save(path, cfg); err != nil {
		t.Fatal(err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.Sink.Kind != "null" || len(got.Playlists) != 3 || !got.Playlists["transition"].Shuffle {
		t.Errorf("loaded %+v", got)
	}
	if err := got.Validate(); err != nil {
		t.Errorf("validate: %v", err)
	}
}

func TestLoadKeepsDefaultsForMissingKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	doc := "sink:\n  kind: preview\npreset: test\n"
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Sink.Kind != "preview" || cfg.Preset != "test" {
		t.Errorf("sink=%q preset=%q", cfg.Sink.Kind, cfg.Preset)
	}
	if cfg.Sink.Server != DefaultServer || cfg.Animation.Gamma != DefaultGamma {
		t.Errorf("defaults lost: %+v %+v", cfg.Sink, cfg.Animation)
	}
}

func TestLoadRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	os.WriteFile(path, []byte("animation: [1, 2"), 0644)
	if _, err := Load(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestValidateErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"fps", func(c *Config) { c.Animation.TargetFPS = 0 }, "target_fps"},
		{"gamma", func(c *Config) { c.Animation.Gamma = -1 }, "gamma"},
		{"max errors", func(c *Config) { c.Animation.MaxLayerErrors = 0 }, "max_layer_errors"},
		{"sink kind", func(c *Config) { c.Sink.Kind = "serial" }, "sink.kind"},
		{"channel", func(c *Config) { c.Sink.Channel = 300 }, "sink.channel"},
		{"backoff", func(c *Config) { c.Sink.MaxBackoff = 0.1 }, "backoff"},
		{"replay path", func(c *Config) { c.Biosignal.Kind = "replay" }, "biosignal.replay"},
		{"source kind", func(c *Config) { c.Biosignal.Kind = "bluetooth" }, "biosignal.kind"},
		{"preset", func(c *Config) { c.Preset = "nope" }, "unknown preset"},
		{"active", func(c *Config) { c.Active = "party" }, "active playlist"},
		{"swapper", func(c *Config) { c.Swapper.Transition = "fizz" }, "swapper playlist"},
		{"log level", func(c *Config) { c.Logging.Level = "loud" }, "logging.level"},
		{"addresses", func(c *Config) { c.Topology.Addresses = "a.json" }, "requires topology.graph"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if !errors.Is(err, ErrInvalid) {
				t.Fatalf("err = %v, want ErrInvalid", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestPresetsBuild(t *testing.T) {
	for _, name := range ListPresets() {
		t.Run(name, func(t *testing.T) {
			reg := layers.NewRegistry(layers.Options{Seed: 1})
			for pl, spec := range GetPreset(name) {
				if _, err := reg.BuildPlaylist(spec); err != nil {
					t.Errorf("playlist %s: %v", pl, err)
				}
			}
		})
	}
}

func TestPlaylistSpecsPrefersExplicit(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Playlists = map[string]layers.PlaylistSpec{"solo": {Routines: []layers.RoutineSpec{routine(layer("rgb"))}}}
	specs, err := cfg.PlaylistSpecs()
	if err != nil || len(specs) != 1 {
		t.Errorf("specs=%v err=%v", specs, err)
	}
}
