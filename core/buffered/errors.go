package buffered

import "errors"

var (
	// ErrAlreadyIterating is returned by BeginIteration when a producer is
	// already running. Only one live iteration is permitted per Loader.
	ErrAlreadyIterating = errors.New("buffered: iteration already in progress")

	// ErrNotIterating is returned by Next when no iteration is in progress,
	// i.e. after the end of the sequence was reached or before BeginIteration
	// was called.
	ErrNotIterating = errors.New("buffered: no iteration in progress")

	// ErrEndOfSequence signals that the underlying source is exhausted.
	// It marks normal termination of an iteration, not a failure.
	ErrEndOfSequence = errors.New("buffered: end of sequence")

	// ErrNotSized is returned by Len when the underlying source does not
	// report its length.
	ErrNotSized = errors.New("buffered: source does not report a length")

	// ErrManagerClosed is returned by Save after Shutdown has been called.
	ErrManagerClosed = errors.New("buffered: manager is shut down")
)
