package buffered

import (
	"errors"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"sync"

	"github.com/mlfoundry/expkit/core/logger"
)

// DefaultLoadBufferSize is the default prefetch depth of a Loader.
const DefaultLoadBufferSize = 5000

// Loader presents a lazy sequence of samples backed by a prefetching
// background producer. Once the pipeline is warm, the consumer no longer
// gates on the per-item latency of the underlying source.
//
// A Loader owns its buffer and producer goroutine exclusively; the wrapped
// Source is a borrowed collaborator.
type Loader[T any] struct {
	source Source[T]
	logger *slog.Logger
	size   int

	mu        sync.Mutex
	buf       chan message[T]
	stop      chan struct{}
	done      chan struct{}
	iterating bool
}

// NewLoader creates a Loader around the given source.
//
// Example:
//
//	loader := buffered.NewLoader[Sample](source,
//		buffered.WithLoadBufferSize(1000),
//		buffered.WithLoaderLogger(logger),
//	)
//	defer loader.Shutdown()
func NewLoader[T any](source Source[T], opts ...LoaderOption) *Loader[T] {
	options := &loaderOptions{
		size:   DefaultLoadBufferSize,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(options)
	}

	return &Loader[T]{
		source: source,
		logger: options.logger,
		size:   options.size,
		buf:    make(chan message[T], options.size),
	}
}

// BeginIteration spawns a new producer goroutine bound to the source and the
// internal buffer, and returns the iteration handle. The producer starts
// prefetching immediately and runs concurrently with the caller.
//
// Returns ErrAlreadyIterating if a producer is already running: at most one
// live iteration is permitted per Loader.
func (l *Loader[T]) BeginIteration() (*Iterator[T], error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.iterating {
		return nil, ErrAlreadyIterating
	}

	l.stop = make(chan struct{})
	l.done = make(chan struct{})
	l.iterating = true

	go l.produce(l.buf, l.stop, l.done)
	l.logger.Debug("producer started", logger.BufferSize(l.size))

	return &Iterator[T]{loader: l}, nil
}

// Samples exposes the buffered iteration as a sequence, which also makes a
// Loader usable anywhere a Source is expected. Each call starts a fresh
// iteration and yields until the source is exhausted; a source failure is
// yielded as the final element. Breaking out of the sequence early shuts the
// producer down.
func (l *Loader[T]) Samples() iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		it, err := l.BeginIteration()
		if err != nil {
			var zero T
			yield(zero, err)
			return
		}
		for {
			sample, err := it.Next()
			if errors.Is(err, ErrEndOfSequence) {
				return
			}
			if !yield(sample, err) {
				l.Shutdown()
				return
			}
			if err != nil {
				return
			}
		}
	}
}

// Len reports how many samples a full pass over the underlying source
// yields, or ErrNotSized if the source does not implement Sized.
func (l *Loader[T]) Len() (int, error) {
	if s, ok := l.source.(Sized); ok {
		return s.Len(), nil
	}
	return 0, ErrNotSized
}

// Shutdown cancels a running producer, waits for it to terminate and clears
// the buffer, leaving the Loader ready for a fresh BeginIteration. It is
// idempotent and must be called when done with the Loader so that no
// goroutine outlives it.
func (l *Loader[T]) Shutdown() {
	l.mu.Lock()
	if !l.iterating {
		l.mu.Unlock()
		l.drain()
		return
	}

	close(l.stop)
	done := l.done
	l.iterating = false
	l.stop = nil
	l.done = nil
	l.mu.Unlock()

	<-done
	l.drain()
	l.logger.Debug("loader shut down")
}

// produce is the producer goroutine body: it pulls samples from the source
// and pushes them onto the buffer until the source is exhausted or
// cancellation is requested.
func (l *Loader[T]) produce(buf chan<- message[T], stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	for sample, err := range l.source.Samples() {
		if err != nil {
			// Carry the failure through the buffer so the consumer sees it
			// synchronously on the next Next call instead of blocking
			// forever on a silently dead producer.
			select {
			case buf <- message[T]{err: err}:
			case <-stop:
			}
			l.logger.Debug("producer stopped on source error", logger.Error(err))
			return
		}

		// Cancellation is observed once per loop step, after pulling and
		// before pushing. Selecting on stop here also keeps a push to a
		// full buffer interruptible, so Shutdown cannot deadlock on a
		// blocked producer.
		select {
		case buf <- message[T]{sample: sample}:
		case <-stop:
			return
		}
	}

	select {
	case buf <- message[T]{end: true}:
	case <-stop:
	}
}

// finish is called by the iterator once the end marker or an error envelope
// was consumed: the producer has pushed its last message, so joining is
// non-blocking for all practical purposes.
func (l *Loader[T]) finish(done <-chan struct{}) {
	<-done

	l.mu.Lock()
	l.iterating = false
	l.stop = nil
	l.done = nil
	l.mu.Unlock()
}

func (l *Loader[T]) drain() {
	for {
		select {
		case <-l.buf:
		default:
			return
		}
	}
}

// Iterator is the consumer-side handle of one iteration pass.
type Iterator[T any] struct {
	loader *Loader[T]
}

// Next returns the next sample. It pops from the internal buffer and blocks
// only while the buffer is empty; this is the sole suspension point of the
// consumer. When the source is exhausted the producer is joined and
// ErrEndOfSequence is returned; a failure captured inside the producer is
// re-raised here. Calling Next again after either outcome, without a fresh
// BeginIteration, returns ErrNotIterating.
func (it *Iterator[T]) Next() (T, error) {
	var zero T

	l := it.loader
	l.mu.Lock()
	if !l.iterating {
		l.mu.Unlock()
		return zero, ErrNotIterating
	}
	buf, done := l.buf, l.done
	l.mu.Unlock()

	msg := <-buf
	switch {
	case msg.end:
		l.finish(done)
		return zero, ErrEndOfSequence
	case msg.err != nil:
		l.finish(done)
		return zero, fmt.Errorf("buffered: load sample: %w", msg.err)
	default:
		return msg.sample, nil
	}
}
