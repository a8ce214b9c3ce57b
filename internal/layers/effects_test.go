package layers

import (
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/san-kum/lumitree/internal/lumen"
	"github.com/san-kum/lumitree/internal/topology"
)

func forest(t *testing.T, withAddresses bool) *topology.Model {
	t.Helper()
	g, addrs := topology.Synthesize(6, 3, 2)
	if !withAddresses {
		addrs = nil
	}
	m, err := topology.New(g, addrs)
	if err != nil {
		t.Fatalf("topology.New: %v", err)
	}
	return m
}

func specFor(typ string) Spec {
	s := Spec{Type: typ}
	switch typ {
	case "homogenous-drifter", "tree-drifter", "outward-drifter":
		s.Colors = [][]float64{{1, 0, 1}, {0.5, 0.5, 1}, {0, 0, 1}}
	case "multiplier":
		s.Layers = []Spec{{Type: "rgb"}, {Type: "snowstorm"}}
	}
	return s
}

func TestEveryBuiltinRenders(t *testing.T) {
	for _, withAddr := range []bool{true, false} {
		m := forest(t, withAddr)
		clk := newFakeClock()
		reg := NewRegistry(Options{Seed: 42, Clock: clk})

		for _, typ := range reg.Types() {
			t.Run(typ, func(t *testing.T) {
				l, err := reg.BuildSafe(specFor(typ))
				if err != nil {
					t.Fatalf("build: %v", err)
				}
				params := lumen.NewParams(60)
				frame := lumen.NewFrame(m.NumLEDs())
				for i := 0; i < 240; i++ {
					if i%60 == 30 {
						params.SetSample(&lumen.Sample{Attention: float64(i%7) / 7, Meditation: 0.5, On: true})
					}
					frame.Clear()
					frame.AddAll(lumen.Gray(0.1))
					l.Render(m, params, frame)
					params.Time += 1.0 / 60
					clk.Sleep(time.Second / 60)
				}
				if l.Disabled() || l.Failures() > 0 {
					t.Fatalf("layer failed: %v", l.LastError())
				}
				if len(frame) != m.NumLEDs() {
					t.Fatalf("frame length changed to %d", len(frame))
				}
				for i, c := range frame {
					if !c.IsValid() {
						t.Fatalf("led %d invalid: %+v", i, c)
					}
				}
			})
		}
	}
}

func TestRegistryErrors(t *testing.T) {
	reg := NewRegistry(Options{Seed: 1})
	tests := []struct {
		name string
		spec Spec
		want error
	}{
		{"unknown", Spec{Type: "disco"}, ErrUnknownLayer},
		{"multiplier arity", Spec{Type: "multiplier", Layers: []Spec{{Type: "rgb"}}}, ErrInvalidSpec},
		{"bad color", Spec{Type: "solid", Color: []float64{1, 2}}, ErrInvalidSpec},
		{"empty drifter", Spec{Type: "tree-drifter"}, ErrInvalidSpec},
		{"bad channel", Spec{Type: "waves", RespondTo: "alpha"}, lumen.ErrInvalidChannel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := reg.Build(tt.spec); !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestRegistryResponsiveOverrides(t *testing.T) {
	reg := NewRegistry(Options{Seed: 1})
	smooth := 4.0
	inverse := false
	l, err := reg.Build(Spec{Type: "rain", RespondTo: "meditation", Smooth: &smooth, Inverse: &inverse, MinLevel: 0.2})
	if err != nil {
		t.Fatal(err)
	}
	r, ok := l.(*Responsive)
	if !ok {
		t.Fatalf("rain built as %T, want *Responsive", l)
	}
	if r.opts.Channel != lumen.Meditation || r.opts.Smooth != 4*time.Second || r.opts.Inverse || r.opts.MinLevel != 0.2 {
		t.Errorf("options = %+v", r.opts)
	}

	l, _ = reg.Build(Spec{Type: "rain"})
	if r := l.(*Responsive); !r.opts.Inverse || r.opts.Smooth != time.Second {
		t.Errorf("rain defaults = %+v", r.opts)
	}
}

func TestBuildPlaylist(t *testing.T) {
	reg := NewRegistry(Options{Seed: 1})
	pl, err := reg.BuildPlaylist(PlaylistSpec{
		Routines: []RoutineSpec{
			{Name: "calm", Layers: []Spec{{Type: "tree-drifter", Colors: [][]float64{{1, 0, 0}}}, {Type: "plasma"}}},
			{Layers: []Spec{{Type: "white-out"}}},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	if pl.Len() != 2 || pl.Selection().Name != "calm" || len(pl.Selection().Layers) != 2 {
		t.Fatalf("unexpected playlist: %v", pl.Items())
	}
	pl.Advance()
	if pl.Selection().Name != "white-out" {
		t.Errorf("unnamed routine should take its first layer's name, got %q", pl.Selection().Name)
	}

	if _, err := reg.BuildPlaylist(PlaylistSpec{Routines: []RoutineSpec{{Name: "empty"}}}); !errors.Is(err, ErrInvalidSpec) {
		t.Errorf("empty routine err = %v", err)
	}
}

func TestWavesPeriodFollowsLevel(t *testing.T) {
	m := forest(t, true)
	w := NewWaves(lumen.Gray(1), 5, 1.5)
	p := lumen.NewParams(60)
	frame := lumen.NewFrame(m.NumLEDs())

	for p.Time = 0; p.Time < 1.2; p.Time += 0.05 {
		w.RenderResponsive(m, p, frame, lumen.Known(1))
	}
	if w.Period() != -1 {
		t.Errorf("full level period = %v, want minimum", w.Period())
	}

	w = NewWaves(lumen.Gray(1), 5, 1.5)
	for p.Time = 0; p.Time < 1.2; p.Time += 0.05 {
		w.RenderResponsive(m, p, frame, lumen.Unknown)
	}
	if w.Period() != 5 {
		t.Errorf("unknown level changed period to %v", w.Period())
	}
}

func TestLightningRateSquare(t *testing.T) {
	l := NewLightningStorm(0.5, 8, rand.New(rand.NewSource(1)))
	if l.Rate() != 0.5+0.25*7.5 {
		t.Errorf("initial rate = %v", l.Rate())
	}
	m := forest(t, true)
	l.RenderResponsive(m, lumen.NewParams(60), lumen.NewFrame(m.NumLEDs()), lumen.Known(1))
	if l.Rate() != 8 {
		t.Errorf("rate = %v, want 8", l.Rate())
	}
}

func TestImpulseWalkersBounded(t *testing.T) {
	m := forest(t, true)
	w := NewImpulseWalkers(5, rand.New(rand.NewSource(3)))
	p := lumen.NewParams(60)
	frame := lumen.NewFrame(m.NumLEDs())
	for i := 0; i < 500; i++ {
		w.RenderResponsive(m, p, frame, lumen.Known(1))
		if w.Pulses() > 5 {
			t.Fatalf("pulses = %d exceeds max", w.Pulses())
		}
		p.Time += 0.02
	}
}

func TestNoDataOnlyWithoutReading(t *testing.T) {
	m := forest(t, true)
	nd := NoData{Color: lumen.Gray(1), Period: 4}
	p := lumen.NewParams(60)
	p.Time = 1 // sin peak

	frame := lumen.NewFrame(m.NumLEDs())
	nd.RenderResponsive(m, p, frame, lumen.Unknown)
	if frame[m.Roots()[0]].R == 0 {
		t.Error("expected roots lit without data")
	}

	frame.Clear()
	nd.RenderResponsive(m, p, frame, lumen.Known(0.5))
	for i, c := range frame {
		if c != (lumen.Color{}) {
			t.Fatalf("led %d lit with data present", i)
		}
	}
}

func TestPerlinRange(t *testing.T) {
	n := newPerlin(9)
	for i := 0; i < 1000; i++ {
		x := float64(i) * 0.137
		v := n.Octaves(x, x*0.5, x*0.25, 3)
		if v < -1.1 || v > 1.1 {
			t.Fatalf("noise(%v) = %v out of range", x, v)
		}
	}
	if n.Noise(1, 2, 3) != 0 {
		t.Error("noise at lattice points should be zero")
	}
}
