package topology

import (
	"errors"
	"fmt"
)

// ErrStructure indicates malformed or non-contiguous topology input.
var ErrStructure = errors.New("topology: invalid structure")

// StructureError describes which part of the topology input was rejected.
type StructureError struct {
	Field  string
	Key    string
	Reason string
}

func (e *StructureError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("topology: %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("topology: %s[%s]: %s", e.Field, e.Key, e.Reason)
}

func (e *StructureError) Unwrap() error {
	return ErrStructure
}

func structureErr(field, key, format string, args ...any) error {
	return &StructureError{Field: field, Key: key, Reason: fmt.Sprintf(format, args...)}
}
