package metrics

import (
	"errors"
	"math"
	"strings"
	"testing"
	"time"
)

func TestFrameRate(t *testing.T) {
	f := NewFrameRate(500 * time.Millisecond)
	start := time.Unix(0, 0)
	step := 10 * time.Millisecond

	var reported []float64
	for i := 0; i <= 100; i++ {
		if fps, ok := f.Tick(start.Add(time.Duration(i) * step)); ok {
			reported = append(reported, fps)
		}
	}
	if len(reported) != 2 {
		t.Fatalf("reported %d readings, want 2: %v", len(reported), reported)
	}
	for _, fps := range reported {
		if math.Abs(fps-100) > 1e-9 {
			t.Errorf("fps = %v, want 100", fps)
		}
	}
	if len(f.History()) != 2 || f.Value() != reported[1] {
		t.Errorf("history = %v value = %v", f.History(), f.Value())
	}

	f.Reset()
	if f.Value() != 0 || len(f.History()) != 0 {
		t.Error("reset did not clear")
	}
}

func TestRenderTime(t *testing.T) {
	r := NewRenderTime()
	for _, d := range []time.Duration{2 * time.Millisecond, 4 * time.Millisecond, 6 * time.Millisecond} {
		r.Observe(d)
	}
	if r.Value() != 4 || r.Max() != 6 || r.Samples() != 3 {
		t.Errorf("mean=%v max=%v n=%d", r.Value(), r.Max(), r.Samples())
	}
	r.Reset()
	if r.Value() != 0 {
		t.Errorf("expected 0 after reset, got %v", r.Value())
	}
}

func TestHistoryBounded(t *testing.T) {
	h := history{limit: 3}
	for i := 0; i < 5; i++ {
		h.push(float64(i))
	}
	got := h.snapshot()
	if len(got) != 3 || got[0] != 2 || got[2] != 4 {
		t.Errorf("history = %v", got)
	}
}

func TestDelivery(t *testing.T) {
	d := NewDelivery()
	if d.Value() != 1 {
		t.Errorf("empty delivery = %v", d.Value())
	}
	d.Observe(nil)
	d.Observe(errors.New("down"))
	if d.Value() != 0.5 || d.Dropped() != 1 {
		t.Errorf("value=%v dropped=%d", d.Value(), d.Dropped())
	}
}

func TestPlot(t *testing.T) {
	if Plot("x", nil, 10, 3) != "" {
		t.Error("empty data should plot nothing")
	}
	if out := Plot("fps", []float64{59, 60, 58}, 20, 4); !strings.Contains(out, "fps") {
		t.Errorf("plot missing caption:\n%s", out)
	}
}
