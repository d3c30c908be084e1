package artifact

import "errors"

var (
	// ErrNotFound is returned when the named artifact does not exist.
	ErrNotFound = errors.New("artifact: not found")

	// ErrInvalidRoot is returned when a FileStore root is empty or points at
	// an existing non-directory.
	ErrInvalidRoot = errors.New("artifact: invalid store root")

	// ErrUnknownType is returned when an artifact Type has no codec.
	ErrUnknownType = errors.New("artifact: unknown artifact type")
)
