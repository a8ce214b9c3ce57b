// Package biosignal reads headset samples and publishes them into the
// shared render parameters.
package biosignal

import (
	"context"
	"errors"
	"time"

	"github.com/san-kum/lumitree/internal/lumen"
)

// ErrExhausted is returned by finite sources once every sample is read.
var ErrExhausted = errors.New("biosignal: source exhausted")

// PoorSignalOff is the poor-signal reading a headset reports when nobody
// is wearing it.
const PoorSignalOff = 200

// Source yields samples, blocking until the next one is ready.
type Source interface {
	Name() string
	Next(ctx context.Context) (*lumen.Sample, error)
}

// wait sleeps for d unless ctx ends first.
func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
