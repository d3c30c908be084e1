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

// DefaultSaveBufferSize is the default number of samples that may be queued
// for persistence before Save blocks.
const DefaultSaveBufferSize = 1

// Manager wraps a DataManager with asynchronous read and write paths. Reads
// go through an owned Loader; writes are queued on a bounded buffer and
// flushed by a background persister goroutine. Config and statistics access
// is forwarded to the wrapped manager unchanged.
//
// A Manager itself satisfies DataManager, so buffering can be layered in
// front of any existing manager transparently.
type Manager[T, C, S any] struct {
	dm      DataManager[T, C, S]
	loader  *Loader[T]
	logger  *slog.Logger
	saveBuf chan message[T]

	mu        sync.Mutex
	persister chan struct{}
	closed    bool
	saveErr   error
}

// NewManager creates a Manager around the given data manager.
//
// Example:
//
//	manager := buffered.NewManager[Sample, Config, Stats](dm,
//		buffered.WithSaveBufferSize(4),
//	)
//	defer manager.Shutdown()
func NewManager[T, C, S any](dm DataManager[T, C, S], opts ...ManagerOption) *Manager[T, C, S] {
	options := &managerOptions{
		loadSize: DefaultLoadBufferSize,
		saveSize: DefaultSaveBufferSize,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(options)
	}

	return &Manager[T, C, S]{
		dm: dm,
		loader: NewLoader[T](dm,
			WithLoadBufferSize(options.loadSize),
			WithLoaderLogger(options.logger),
		),
		logger:  options.logger,
		saveBuf: make(chan message[T], options.saveSize),
	}
}

// BeginIteration starts a buffered iteration over the wrapped manager's
// samples. See Loader.BeginIteration.
func (m *Manager[T, C, S]) BeginIteration() (*Iterator[T], error) {
	return m.loader.BeginIteration()
}

// Samples exposes the buffered iteration as a sequence. See Loader.Samples.
func (m *Manager[T, C, S]) Samples() iter.Seq2[T, error] {
	return m.loader.Samples()
}

// Len reports the wrapped manager's sample count, or ErrNotSized.
func (m *Manager[T, C, S]) Len() (int, error) {
	return m.loader.Len()
}

// Save queues a sample for background persistence and returns immediately;
// it blocks only while the save buffer is full. The persister goroutine is
// created lazily on the first call.
//
// If a previous background persist failed, Save reports that failure instead
// of queuing the sample, so write errors are never silently dropped. After
// Shutdown, Save returns ErrManagerClosed.
func (m *Manager[T, C, S]) Save(sample T) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return ErrManagerClosed
	}
	if err := m.saveErr; err != nil {
		m.saveErr = nil
		m.mu.Unlock()
		return err
	}
	if m.persister == nil {
		m.persister = make(chan struct{})
		go m.persist(m.saveBuf, m.persister)
		m.logger.Debug("persister started", logger.BufferSize(cap(m.saveBuf)))
	}
	m.mu.Unlock()

	m.saveBuf <- message[T]{sample: sample}
	return nil
}

// Persist makes Manager satisfy Sink by delegating to Save.
func (m *Manager[T, C, S]) Persist(sample T) error {
	return m.Save(sample)
}

// LoadConfig forwards to the wrapped manager without buffering.
func (m *Manager[T, C, S]) LoadConfig() (C, error) {
	return m.dm.LoadConfig()
}

// SaveConfig forwards to the wrapped manager without buffering.
func (m *Manager[T, C, S]) SaveConfig(config C) error {
	return m.dm.SaveConfig(config)
}

// LoadStats forwards to the wrapped manager without buffering.
func (m *Manager[T, C, S]) LoadStats() (S, error) {
	return m.dm.LoadStats()
}

// SaveStats forwards to the wrapped manager without buffering.
func (m *Manager[T, C, S]) SaveStats(stats S) error {
	return m.dm.SaveStats(stats)
}

// Shutdown stops the read pipeline, then flushes every queued save before
// joining the persister goroutine. It blocks until all previously queued
// samples reached the wrapped manager and returns any persistence failure
// captured along the way. Shutdown is idempotent; once it returns, further
// Save calls are rejected with ErrManagerClosed.
func (m *Manager[T, C, S]) Shutdown() error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	done := m.persister
	m.persister = nil
	m.mu.Unlock()

	m.loader.Shutdown()

	if done != nil {
		// Wakes a persister waiting on an empty buffer and marks that no
		// more saves will arrive.
		m.saveBuf <- message[T]{end: true}
		<-done
	}
	m.drainSaves()

	m.mu.Lock()
	err := m.saveErr
	m.saveErr = nil
	m.mu.Unlock()

	m.logger.Debug("manager shut down")
	if err != nil {
		return fmt.Errorf("buffered: flush pending saves: %w", err)
	}
	return nil
}

// persist is the persister goroutine body: it pops queued samples and hands
// them to the wrapped manager in FIFO order until the end marker arrives.
func (m *Manager[T, C, S]) persist(buf <-chan message[T], done chan<- struct{}) {
	defer close(done)

	for msg := range buf {
		if msg.end {
			return
		}
		if err := m.dm.Persist(msg.sample); err != nil {
			// Captured rather than swallowed: surfaces on the next Save or
			// on Shutdown. Remaining queued samples are still attempted,
			// they are independent of the failed one.
			m.mu.Lock()
			m.saveErr = errors.Join(m.saveErr, fmt.Errorf("buffered: persist sample: %w", err))
			m.mu.Unlock()
			m.logger.Error("persist failed", logger.Error(err))
		}
	}
}

func (m *Manager[T, C, S]) drainSaves() {
	for {
		select {
		case <-m.saveBuf:
		default:
			return
		}
	}
}
