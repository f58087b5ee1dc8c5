package metadata

import "errors"

// Sentinel errors for metadata operations.
var (
	// ErrLocked is returned when updating a locked container.
	ErrLocked = errors.New("metadata: container is locked")

	// ErrTypeMismatch is returned when a known tag is updated with the wrong type.
	ErrTypeMismatch = errors.New("metadata: type mismatch")

	// ErrInvalidType is returned when decoding an entry with an unknown type.
	ErrInvalidType = errors.New("metadata: invalid entry type")
)
