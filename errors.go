package binarystream

import "errors"

var (
	// ErrInvalidWidth is returned when a requested bit width is outside 1..MaxWidth.
	ErrInvalidWidth = errors.New("binarystream: bit width out of range")
	// ErrClosed is returned by operations on a closed stream.
	ErrClosed = errors.New("binarystream: stream is closed")
)
