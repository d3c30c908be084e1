package manager

import "errors"

var (
	// ErrInvalidRun is returned when root location, run name or file name
	// format are missing.
	ErrInvalidRun = errors.New("manager: invalid run specification")

	// ErrNoVersion is returned by DatasetVersion when the run name does not
	// start with a version.
	ErrNoVersion = errors.New("manager: run name carries no version")
)
