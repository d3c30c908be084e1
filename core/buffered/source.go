package buffered

import "iter"

// Source produces a lazy, finite sequence of samples in a single forward
// pass. A Loader starts one pass per BeginIteration call, so a Source that
// should support re-iteration must return a fresh sequence from each Samples
// call. Sources are only ever pulled from one goroutine at a time and do not
// need to be thread-safe.
type Source[T any] interface {
	// Samples returns the sample sequence. A non-nil error yielded by the
	// sequence terminates the pass and is re-raised to the consumer.
	Samples() iter.Seq2[T, error]
}

// Sized is optionally implemented by sources that know how many samples a
// full pass yields.
type Sized interface {
	Len() int
}

// Sink consumes samples to be persisted. Persist is invoked once per saved
// sample from a single goroutine, in the exact order Save was called.
type Sink[T any] interface {
	Persist(sample T) error
}

// DataManager is the collaborator contract wrapped by a Manager: sequential
// read access, a persist operation, and config/statistics round-trips.
type DataManager[T, C, S any] interface {
	Source[T]
	Sink[T]

	LoadConfig() (C, error)
	SaveConfig(config C) error
	LoadStats() (S, error)
	SaveStats(stats S) error
}

// message is the envelope flowing through the internal buffers. Exactly one
// of the three cases is set: a regular sample, a captured background error,
// or the end marker. Using a dedicated end field keeps the marker distinct
// from any legitimate sample value.
type message[T any] struct {
	sample T
	err    error
	end    bool
}
