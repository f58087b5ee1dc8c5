package sim

import "errors"

var (
	// ErrUnsupportedFormat is returned for descriptor files with an unknown extension.
	ErrUnsupportedFormat = errors.New("sim: unsupported descriptor format")

	// ErrInvalidDescriptor is returned when a descriptor fails validation.
	ErrInvalidDescriptor = errors.New("sim: invalid descriptor")

	// ErrDeviceClosed is returned when closing a device twice.
	ErrDeviceClosed = errors.New("sim: device already closed")
)
