// Package buffered provides background-buffered reading and writing of dataset
// samples. It decouples the cadence of a consumer from the per-item latency of
// the underlying sample source, and makes saving asynchronous up to a
// configurable buffer capacity.
//
// The package has two layered components:
//
//   - Loader wraps any Source with a producer goroutine that prefetches samples
//     into a bounded buffer. The consumer pulls from the buffer and only blocks
//     when it is empty.
//   - Manager composes a Loader with a symmetric save pipeline: samples passed
//     to Save are pushed onto a bounded buffer and persisted by a background
//     goroutine, so Save only blocks when the buffer is full. Config and
//     statistics access is forwarded to the wrapped DataManager unchanged.
//
// # Basic Usage
//
//	import "github.com/mlfoundry/expkit/core/buffered"
//
//	loader := buffered.NewLoader[Sample](source,
//		buffered.WithLoadBufferSize(1000),
//	)
//	defer loader.Shutdown()
//
//	it, err := loader.BeginIteration()
//	if err != nil {
//		return err
//	}
//	for {
//		sample, err := it.Next()
//		if errors.Is(err, buffered.ErrEndOfSequence) {
//			break
//		}
//		if err != nil {
//			return err
//		}
//		process(sample)
//	}
//
// Or, with a Manager wrapping a full dataset manager:
//
//	manager := buffered.NewManager[Sample, Config, Stats](dataManager)
//	for i := range samples {
//		if err := manager.Save(samples[i]); err != nil {
//			return err
//		}
//	}
//	// Flushes all queued saves before returning.
//	if err := manager.Shutdown(); err != nil {
//		return err
//	}
//
// # Concurrency Model
//
// Each direction of an active pipeline is served by exactly one long-lived
// background goroutine: a producer for reads and a persister for writes. Both
// are created lazily (the producer on BeginIteration, the persister on the
// first Save) and are bound 1:1 to their buffer. The underlying Source and
// Sink are only ever called from a single goroutine, so they do not need to
// be thread-safe themselves.
//
// Only one iteration may be live per Loader at a time; calling BeginIteration
// while a producer is running returns ErrAlreadyIterating.
//
// Failures inside a background goroutine are never swallowed: a Source error
// is re-raised from the next call to Next, and a Sink error is surfaced from
// a subsequent Save or from Shutdown.
//
// Shutdown must be called when done to guarantee no goroutine outlives the
// component. It is idempotent, and a Loader is reusable for a fresh iteration
// afterwards.
package buffered
