package layers

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/san-kum/lumitree/internal/lumen"
	"github.com/san-kum/lumitree/internal/topology"
)

// DefaultMaxErrors is the consecutive failure count after which a layer is
// disabled for good.
const DefaultMaxErrors = 5

// Safe isolates one layer's failures from the shared render loop. Errors and
// panics are logged and counted; after maxErrors consecutive failures the
// layer is skipped for the rest of the process.
type Safe struct {
	name      string
	layer     lumen.Layer
	maxErrors int
	failures  int
	disabled  bool
	lastErr   error
	logger    *slog.Logger
}

// NewSafe wraps layer. A maxErrors below 1 selects DefaultMaxErrors and a nil
// logger discards output.
func NewSafe(name string, layer lumen.Layer, maxErrors int, logger *slog.Logger) *Safe {
	if maxErrors < 1 {
		maxErrors = DefaultMaxErrors
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Safe{
		name:      name,
		layer:     layer,
		maxErrors: maxErrors,
		logger:    logger.With("component", "layers", "layer", name),
	}
}

func (s *Safe) Name() string       { return s.name }
func (s *Safe) Layer() lumen.Layer { return s.layer }
func (s *Safe) Disabled() bool     { return s.disabled }
func (s *Safe) Failures() int      { return s.failures }

// LastError returns the most recent RenderError, or nil.
func (s *Safe) LastError() error { return s.lastErr }

// Render invokes the wrapped layer unless it has been disabled. It never
// returns an error; failures are absorbed here.
func (s *Safe) Render(m *topology.Model, p *lumen.Params, frame lumen.Frame) error {
	if s.disabled {
		return nil
	}

	err := s.invoke(m, p, frame)
	if err == nil {
		s.failures = 0
		return nil
	}

	s.failures++
	s.lastErr = &RenderError{Layer: s.name, Count: s.failures, Err: err}
	s.logger.Warn("layer render failed", "count", s.failures, "error", err)

	if s.failures >= s.maxErrors {
		s.disabled = true
		s.logger.Error("disabling layer", "max_errors", s.maxErrors)
	}
	return nil
}

func (s *Safe) invoke(m *topology.Model, p *lumen.Params, frame lumen.Frame) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrPanic, r)
		}
	}()
	return s.layer.Render(m, p, frame)
}
