package lumen

import "errors"

// Domain errors for rendering operations.
var (
	// ErrFrameSize indicates a frame whose length differs from the LED count.
	ErrFrameSize = errors.New("lumen: frame length does not match LED count")

	// ErrInvalidChannel indicates an unknown biosignal channel name.
	ErrInvalidChannel = errors.New("lumen: unknown biosignal channel")
)
