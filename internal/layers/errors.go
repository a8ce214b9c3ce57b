package layers

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownLayer indicates a layer spec naming a type the registry lacks.
	ErrUnknownLayer = errors.New("layers: unknown layer type")

	// ErrInvalidSpec indicates a layer spec with missing or out-of-range fields.
	ErrInvalidSpec = errors.New("layers: invalid layer spec")

	// ErrPanic marks a render failure caused by a recovered panic.
	ErrPanic = errors.New("layers: render panicked")
)

// RenderError records one failed render of a named layer.
type RenderError struct {
	Layer string
	Count int
	Err   error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("layer %s failed (%d consecutive): %v", e.Layer, e.Count, e.Err)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}

func specErr(typ, format string, args ...any) error {
	return fmt.Errorf("%w: %s: %s", ErrInvalidSpec, typ, fmt.Sprintf(format, args...))
}
