package animation

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/san-kum/lumitree/internal/layers"
	"github.com/san-kum/lumitree/internal/lumen"
	"github.com/san-kum/lumitree/internal/sink"
	"github.com/san-kum/lumitree/internal/topology"
)

type fakeClock struct {
	now   time.Time
	slept time.Duration
}

func newFakeClock() *fakeClock { return &fakeClock{now: time.Unix(1000, 0)} }

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Sleep(d time.Duration) {
	c.slept += d
	c.now = c.now.Add(d)
}

type failingSink struct{ calls int }

func (s *failingSink) PutPixels(int, []lumen.Color) error {
	s.calls++
	return sink.ErrDisconnected
}

func testModel(t *testing.T) *topology.Model {
	t.Helper()
	g, addrs := topology.Synthesize(2, 2, 2)
	m, err := topology.New(g, addrs)
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func newController(t *testing.T, clk *fakeClock, out sink.PixelSink, opts Options) (*Controller, *lumen.Params) {
	t.Helper()
	p := lumen.NewParams(50)
	opts.Clock = clk
	c, err := New(testModel(t), p, layers.Solid{Color: lumen.Gray(0.5)}, out, opts)
	if err != nil {
		t.Fatal(err)
	}
	return c, p
}

func near(a, b float64) bool { return math.Abs(a-b) < 1e-6 }

func TestAdvanceTime(t *testing.T) {
	clk := newFakeClock()
	c, p := newController(t, clk, sink.Null{}, Options{})

	// Startup is a stall: the clock snaps to now without sleeping.
	c.AdvanceTime()
	if !near(p.Time, 1000) || clk.slept != 0 {
		t.Fatalf("after snap time=%v slept=%v", p.Time, clk.slept)
	}

	// An instant frame advances by the ideal step and sleeps it off.
	c.AdvanceTime()
	if !near(p.Time, 1000.02) || !near(clk.slept.Seconds(), 0.02) {
		t.Fatalf("time=%v slept=%v", p.Time, clk.slept)
	}

	// A slow frame inside two ideal steps still advances by exactly one.
	clk.slept = 0
	clk.now = clk.now.Add(30 * time.Millisecond)
	c.AdvanceTime()
	if !near(p.Time, 1000.04) || clk.slept != 0 {
		t.Errorf("slow frame time=%v slept=%v", p.Time, clk.slept)
	}

	// A long stall drops the debt.
	clk.now = clk.now.Add(time.Second)
	c.AdvanceTime()
	if !near(p.Time, seconds(clk.now)) {
		t.Errorf("stall time=%v, want %v", p.Time, seconds(clk.now))
	}
}

func TestStepConvertsToHardwareRange(t *testing.T) {
	rec := sink.NewRecorder()
	c, _ := newController(t, newFakeClock(), rec, Options{Channel: 2})

	stats := c.Step()
	if stats.Index != 0 || stats.SinkErr != nil {
		t.Fatalf("stats = %+v", stats)
	}
	px := rec.Last(2)
	if len(px) != c.model.NumLEDs() {
		t.Fatalf("got %d pixels, want %d", len(px), c.model.NumLEDs())
	}
	for i, v := range px {
		if v.R != 127.5 || v.G != 127.5 || v.B != 127.5 {
			t.Fatalf("pixel %d = %v", i, v)
		}
	}
}

func TestRunStopsAfterMaxFrames(t *testing.T) {
	rec := sink.NewRecorder()
	c, _ := newController(t, newFakeClock(), rec, Options{MaxFrames: 30})

	var seen int
	c.AddObserver(ObserverFunc(func(FrameStats) { seen++ }))
	if err := c.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if c.Frames() != 30 || rec.Count() != 30 || seen != 30 {
		t.Errorf("frames=%d puts=%d observed=%d", c.Frames(), rec.Count(), seen)
	}
	if fps := c.FrameRate().Value(); math.Abs(fps-50) > 1e-3 {
		t.Errorf("measured fps = %v, want 50", fps)
	}
}

func TestSinkFailureDoesNotStopLoop(t *testing.T) {
	out := &failingSink{}
	c, _ := newController(t, newFakeClock(), out, Options{MaxFrames: 10})
	if err := c.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if out.calls != 10 || c.Delivery().Value() != 0 {
		t.Errorf("calls=%d delivery=%v", out.calls, c.Delivery().Value())
	}
}

func TestRunCancelled(t *testing.T) {
	c, _ := newController(t, newFakeClock(), sink.Null{}, Options{})
	ctx, cancel := context.WithCancel(context.Background())

	c.AddObserver(ObserverFunc(func(s FrameStats) {
		if s.Index == 4 {
			cancel()
		}
	}))
	if err := c.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
	if c.Frames() != 5 {
		t.Errorf("frames = %d, want 5", c.Frames())
	}
}

func TestNewRequiresSink(t *testing.T) {
	if _, err := New(testModel(t), lumen.NewParams(0), layers.Solid{}, nil, Options{}); !errors.Is(err, ErrNoSink) {
		t.Errorf("err = %v, want ErrNoSink", err)
	}
}
