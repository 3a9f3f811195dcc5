package core

import "errors"

var (
	// ErrUnsupportedChannelCount is returned by transforms that need at
	// least three colour channels. The buffer is left untouched.
	ErrUnsupportedChannelCount = errors.New("unsupported channel count")

	// ErrInsufficientCapacity is returned when a payload does not fit in the
	// byte plane. The buffer is left untouched.
	ErrInsufficientCapacity = errors.New("insufficient capacity")

	// ErrInvalidDimensions is returned for negative dimensions, planes
	// whose size overflows int, and byte slices of the wrong length.
	ErrInvalidDimensions = errors.New("invalid dimensions")

	// ErrCorruptHeader is returned when an embedded length header announces
	// more bits than the buffer holds.
	ErrCorruptHeader = errors.New("corrupt message header")
)
