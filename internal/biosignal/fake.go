package biosignal

import (
	"context"
	"math"
	"math/rand"
	"time"

	"github.com/san-kum/lumitree/internal/lumen"
)

const (
	DefaultInterval = time.Second
	walkStep        = 0.08
	// badChance is the per-sample chance of the fake headset slipping off.
	badChance  = 0.05
	badMinRun  = 3
	badMaxRun  = 8
	levelFloor = 0.01
)

type FakeOptions struct {
	// Interval paces samples. Zero emits them back to back; negative
	// selects DefaultInterval.
	Interval time.Duration
	// BadData makes the headset drop off now and then, reporting
	// On=false with a poor signal for a few samples.
	BadData bool
	Seed    int64
}

// Fake is a random-walk headset that needs no hardware.
type Fake struct {
	opts       FakeOptions
	rng        *rand.Rand
	attention  float64
	meditation float64
	badLeft    int
	now        func() time.Time
}

func NewFake(opts FakeOptions) *Fake {
	if opts.Interval < 0 {
		opts.Interval = DefaultInterval
	}
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))
	return &Fake{
		opts:       opts,
		rng:        rng,
		attention:  rng.Float64(),
		meditation: rng.Float64(),
		now:        time.Now,
	}
}

func (f *Fake) Name() string { return "fake" }

func (f *Fake) Next(ctx context.Context) (*lumen.Sample, error) {
	if err := wait(ctx, f.opts.Interval); err != nil {
		return nil, err
	}

	f.attention = f.walk(f.attention)
	f.meditation = f.walk(f.meditation)

	if f.opts.BadData && f.badLeft == 0 && f.rng.Float64() < badChance {
		f.badLeft = badMinRun + f.rng.Intn(badMaxRun-badMinRun+1)
	}
	if f.badLeft > 0 {
		f.badLeft--
		return &lumen.Sample{PoorSignal: PoorSignalOff, Timestamp: f.now()}, nil
	}
	return &lumen.Sample{
		Attention:  f.attention,
		Meditation: f.meditation,
		On:         true,
		PoorSignal: f.rng.Intn(30),
		Timestamp:  f.now(),
	}, nil
}

// walk nudges v and quantizes it to the headset's 1-100 scale.
func (f *Fake) walk(v float64) float64 {
	v += (f.rng.Float64()*2 - 1) * walkStep
	v = math.Max(levelFloor, math.Min(1, v))
	return math.Round(v*100) / 100
}
