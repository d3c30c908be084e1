package folder

import "errors"

var (
	// ErrInvalidFormat is returned for name formats that do not contain
	// exactly one '$', contain more than one '*', or have unbalanced
	// brackets.
	ErrInvalidFormat = errors.New("folder: invalid name format")

	// ErrNotFound is returned when no entry carries the requested number or
	// a name does not match the format.
	ErrNotFound = errors.New("folder: entry not found")

	// ErrMissingName is returned when a format contains a mandatory '*'
	// wildcard but no name was given, or a name was given without a '*' in
	// the format.
	ErrMissingName = errors.New("folder: name and format wildcard mismatch")
)
