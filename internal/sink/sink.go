// Package sink delivers finished frames to LED hardware.
package sink

import (
	"errors"
	"sync"

	"github.com/san-kum/lumitree/internal/lumen"
)

var (
	ErrDisconnected = errors.New("sink: disconnected")
	ErrClosed       = errors.New("sink: closed")
)

// PixelSink accepts one frame of hardware-range pixels (0-255 per
// component). A failed put drops that frame; the caller keeps going.
type PixelSink interface {
	PutPixels(channel int, pixels []lumen.Color) error
}

// Null discards every frame.
type Null struct{}

func (Null) PutPixels(int, []lumen.Color) error { return nil }

// Recorder keeps the last frame put on each channel. It is safe for
// concurrent use and is mostly useful in tests and benchmarks.
type Recorder struct {
	mu     sync.Mutex
	frames map[int][]lumen.Color
	count  int
}

func NewRecorder() *Recorder {
	return &Recorder{frames: make(map[int][]lumen.Color)}
}

func (r *Recorder) PutPixels(channel int, pixels []lumen.Color) error {
	cp := make([]lumen.Color, len(pixels))
	copy(cp, pixels)
	r.mu.Lock()
	r.frames[channel] = cp
	r.count++
	r.mu.Unlock()
	return nil
}

// Last returns the most recent frame for channel, or nil.
func (r *Recorder) Last(channel int) []lumen.Color {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frames[channel]
}

// Count returns how many frames have been put in total.
func (r *Recorder) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count
}

// Multi fans a frame out to several sinks. Every sink is tried; the
// errors are joined.
type Multi []PixelSink

func (m Multi) PutPixels(channel int, pixels []lumen.Color) error {
	var errs []error
	for _, s := range m {
		if err := s.PutPixels(channel, pixels); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
