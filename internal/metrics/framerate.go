package metrics

import "time"

// FrameRate counts frames and turns them into a rate once per window.
type FrameRate struct {
	name    string
	window  time.Duration
	start   time.Time
	frames  int
	current float64
	hist    history
}

func NewFrameRate(window time.Duration) *FrameRate {
	if window <= 0 {
		window = 500 * time.Millisecond
	}
	return &FrameRate{name: "fps", window: window, hist: history{limit: DefaultHistory}}
}

func (f *FrameRate) Name() string { return f.name }

// Tick records one frame finished at now. The first tick only marks the
// start of the window. When a full window has elapsed it returns the
// measured rate and true.
func (f *FrameRate) Tick(now time.Time) (float64, bool) {
	if f.start.IsZero() {
		f.start = now
		return 0, false
	}
	f.frames++
	elapsed := now.Sub(f.start)
	if elapsed < f.window {
		return 0, false
	}
	f.current = float64(f.frames) / elapsed.Seconds()
	f.hist.push(f.current)
	f.frames = 0
	f.start = now
	return f.current, true
}

// Value returns the most recent measured rate.
func (f *FrameRate) Value() float64 { return f.current }

// History returns the recent rate readings, oldest first.
func (f *FrameRate) History() []float64 { return f.hist.snapshot() }

func (f *FrameRate) Reset() {
	f.start = time.Time{}
	f.frames = 0
	f.current = 0
	f.hist.values = nil
}
