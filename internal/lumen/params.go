package lumen

import (
	"fmt"
	"strings"
	"sync/atomic"
	"time"
)

// DefaultFrameRate is the target frame rate used when none is configured.
const DefaultFrameRate = 59.0

// Channel selects which biosignal scalar a responsive layer follows.
type Channel int

const (
	Attention Channel = iota
	Meditation
)

func (c Channel) String() string {
	switch c {
	case Attention:
		return "attention"
	case Meditation:
		return "meditation"
	default:
		return fmt.Sprintf("channel(%d)", int(c))
	}
}

// ParseChannel maps "attention" or "meditation" to a Channel.
func ParseChannel(s string) (Channel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "attention", "":
		return Attention, nil
	case "meditation":
		return Meditation, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidChannel, s)
	}
}

// Sample is one biosignal reading. Attention and Meditation are normalized
// to [0,1]. A Sample is immutable once published.
type Sample struct {
	Attention  float64
	Meditation float64
	On         bool
	PoorSignal int
	Timestamp  time.Time
}

// Value returns the scalar for channel c.
func (s *Sample) Value(c Channel) float64 {
	if c == Meditation {
		return s.Meditation
	}
	return s.Attention
}

func (s *Sample) String() string {
	return fmt.Sprintf("A: %.2f M: %.2f On: %t Signal: %d", s.Attention, s.Meditation, s.On, s.PoorSignal)
}

type samplePair struct {
	current  *Sample
	previous *Sample
}

// Params is the per-frame context handed to every layer.
type Params struct {
	// Time is the animation clock in seconds. Only the animation loop writes it.
	Time float64
	// TargetFrameRate is the desired frames per second.
	TargetFrameRate float64

	samples atomic.Pointer[samplePair]
}

func NewParams(targetFrameRate float64) *Params {
	if targetFrameRate <= 0 {
		targetFrameRate = DefaultFrameRate
	}
	return &Params{TargetFrameRate: targetFrameRate}
}

// SetSample publishes s as the latest reading; the prior latest becomes the
// previous sample. Safe to call from a polling goroutine.
func (p *Params) SetSample(s *Sample) {
	for {
		old := p.samples.Load()
		next := &samplePair{current: s}
		if old != nil {
			next.previous = old.current
		}
		if p.samples.CompareAndSwap(old, next) {
			return
		}
	}
}

// Sample returns the latest reading, or nil before the first one.
func (p *Params) Sample() *Sample {
	if pair := p.samples.Load(); pair != nil {
		return pair.current
	}
	return nil
}

// PreviousSample returns the reading before the latest, or nil.
func (p *Params) PreviousSample() *Sample {
	if pair := p.samples.Load(); pair != nil {
		return pair.previous
	}
	return nil
}

// Level is a response level in [0,1] that may be unknown.
type Level struct {
	Value float64
	Known bool
}

// Unknown is the level reported before any sample arrives.
var Unknown = Level{}

func Known(v float64) Level { return Level{Value: v, Known: true} }

// Or returns the level value, or fallback when unknown.
func (l Level) Or(fallback float64) float64 {
	if l.Known {
		return l.Value
	}
	return fallback
}

func (l Level) String() string {
	if !l.Known {
		return "unknown"
	}
	return fmt.Sprintf("%.3f", l.Value)
}
