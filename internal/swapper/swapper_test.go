package swapper

import (
	"testing"
	"time"

	"github.com/san-kum/lumitree/internal/lumen"
	"github.com/san-kum/lumitree/internal/render"
)

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time        { return c.now }
func (c *fakeClock) Sleep(d time.Duration) { c.now = c.now.Add(d) }

type recorder struct {
	cmds []render.Command
	full bool
}

func (r *recorder) Submit(cmd render.Command) error {
	if r.full {
		return render.ErrQueueFull
	}
	r.cmds = append(r.cmds, cmd)
	return nil
}

func setup() (*Swapper, *recorder, *lumen.Params, *fakeClock) {
	clk := &fakeClock{now: time.Unix(100, 0)}
	rec := &recorder{}
	p := lumen.NewParams(0)
	s := New(rec, p, Options{Transition: "transition", Hold: 2 * time.Second, Fade: time.Second, Clock: clk})
	return s, rec, p, clk
}

func TestSwapAfterHold(t *testing.T) {
	s, rec, p, clk := setup()

	if s.Check() {
		t.Fatal("no sample should not swap away from off")
	}
	p.SetSample(&lumen.Sample{On: true, Attention: 0.5})
	if s.Check() {
		t.Fatal("swapped before hold elapsed")
	}
	clk.Sleep(time.Second)
	if s.Check() {
		t.Fatal("swapped before hold elapsed")
	}
	clk.Sleep(time.Second)
	if !s.Check() {
		t.Fatal("expected swap after hold")
	}

	want := []render.Command{
		render.Advance{Playlist: "on"},
		render.Advance{Playlist: "transition"},
		render.FadeTo{Playlist: "on", Via: "transition", Duration: time.Second},
	}
	if len(rec.cmds) != len(want) {
		t.Fatalf("commands = %v", rec.cmds)
	}
	for i := range want {
		if rec.cmds[i] != want[i] {
			t.Errorf("command %d = %v, want %v", i, rec.cmds[i], want[i])
		}
	}

	clk.Sleep(5 * time.Second)
	if s.Check() || s.Swaps() != 1 {
		t.Error("stable state should not swap again")
	}
}

func TestFlickerDoesNotSwap(t *testing.T) {
	s, rec, p, clk := setup()
	for i := 0; i < 10; i++ {
		p.SetSample(&lumen.Sample{On: i%2 == 0})
		s.Check()
		clk.Sleep(time.Second)
	}
	if len(rec.cmds) != 0 {
		t.Errorf("flickering headset produced %v", rec.cmds)
	}
}

func TestSwapBackOff(t *testing.T) {
	s, rec, p, clk := setup()
	p.SetSample(&lumen.Sample{On: true})
	s.Check()
	clk.Sleep(2 * time.Second)
	s.Check()

	p.SetSample(&lumen.Sample{On: false, PoorSignal: 200})
	s.Check()
	clk.Sleep(2 * time.Second)
	if !s.Check() || s.Applied() {
		t.Fatal("expected swap back to off")
	}
	last := rec.cmds[len(rec.cmds)-1].(render.FadeTo)
	if last.Playlist != "off" {
		t.Errorf("last fade = %v", last)
	}
}

func TestQueueFullRetries(t *testing.T) {
	s, rec, p, clk := setup()
	p.SetSample(&lumen.Sample{On: true})
	s.Check()
	clk.Sleep(2 * time.Second)

	rec.full = true
	if s.Check() || s.Applied() {
		t.Fatal("a dropped fade must not count as applied")
	}
	rec.full = false
	if !s.Check() || !s.Applied() {
		t.Error("expected retry to succeed")
	}
}
