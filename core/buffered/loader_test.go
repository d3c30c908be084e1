package buffered_test

import (
	"errors"
	"fmt"
	"iter"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mlfoundry/expkit/core/buffered"
)

// sliceSource yields a fixed slice of ints and counts how many samples were
// pulled from it, so tests can observe prefetch depth.
type sliceSource struct {
	samples []int
	failAt  int // index at which to yield an error; -1 disables

	mu    sync.Mutex
	pulls int
}

func newSliceSource(samples ...int) *sliceSource {
	return &sliceSource{samples: samples, failAt: -1}
}

func (s *sliceSource) Samples() iter.Seq2[int, error] {
	return func(yield func(int, error) bool) {
		for i, v := range s.samples {
			s.mu.Lock()
			s.pulls++
			s.mu.Unlock()

			if i == s.failAt {
				yield(0, errors.New("corrupt sample"))
				return
			}
			if !yield(v, nil) {
				return
			}
		}
	}
}

func (s *sliceSource) Len() int { return len(s.samples) }

func (s *sliceSource) Pulls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pulls
}

// unsizedSource wraps a source while hiding its length.
type unsizedSource struct {
	inner buffered.Source[int]
}

func (s unsizedSource) Samples() iter.Seq2[int, error] { return s.inner.Samples() }

// collect drains one full iteration pass.
func collect(t *testing.T, loader *buffered.Loader[int]) []int {
	t.Helper()

	it, err := loader.BeginIteration()
	require.NoError(t, err)

	var got []int
	for {
		v, err := it.Next()
		if errors.Is(err, buffered.ErrEndOfSequence) {
			return got
		}
		require.NoError(t, err)
		got = append(got, v)
	}
}

func TestLoader_OrderPreservation(t *testing.T) {
	t.Parallel()

	samples := make([]int, 20)
	for i := range samples {
		samples[i] = i
	}

	for _, size := range []int{1, 3, len(samples), len(samples) + 10} {
		t.Run(fmt.Sprintf("capacity %d", size), func(t *testing.T) {
			t.Parallel()

			loader := buffered.NewLoader[int](newSliceSource(samples...),
				buffered.WithLoadBufferSize(size),
			)
			defer loader.Shutdown()

			assert.Equal(t, samples, collect(t, loader))
		})
	}
}

func TestLoader_BoundedPrefetch(t *testing.T) {
	t.Parallel()

	const k = 3
	source := newSliceSource(0, 1, 2, 3, 4, 5, 6, 7, 8, 9)
	loader := buffered.NewLoader[int](source, buffered.WithLoadBufferSize(k))
	defer loader.Shutdown()

	it, err := loader.BeginIteration()
	require.NoError(t, err)

	// The producer fills the buffer and blocks holding one more sample.
	require.Eventually(t, func() bool { return source.Pulls() == k+1 },
		time.Second, time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, k+1, source.Pulls())

	// Consuming one item frees exactly one slot.
	v, err := it.Next()
	require.NoError(t, err)
	assert.Equal(t, 0, v)
	require.Eventually(t, func() bool { return source.Pulls() == k+2 },
		time.Second, time.Millisecond)
}

func TestLoader_PrefetchAllWhenBufferCovers(t *testing.T) {
	t.Parallel()

	source := newSliceSource(0, 1, 2, 3, 4, 5, 6, 7, 8, 9)
	loader := buffered.NewLoader[int](source, buffered.WithLoadBufferSize(15))
	defer loader.Shutdown()

	it, err := loader.BeginIteration()
	require.NoError(t, err)

	_, err = it.Next()
	require.NoError(t, err)

	// Buffer capacity exceeds the source length, so the producer runs to
	// completion without ever blocking.
	require.Eventually(t, func() bool { return source.Pulls() == 10 },
		time.Second, time.Millisecond)
}

func TestLoader_ShutdownIsIdempotent(t *testing.T) {
	t.Parallel()

	source := newSliceSource(0, 1, 2, 3, 4, 5, 6, 7, 8, 9)
	loader := buffered.NewLoader[int](source, buffered.WithLoadBufferSize(2))

	it, err := loader.BeginIteration()
	require.NoError(t, err)

	// Partially consume, then abandon the iteration.
	_, err = it.Next()
	require.NoError(t, err)

	loader.Shutdown()
	loader.Shutdown()

	// The loader is reusable after shutdown: a fresh pass sees the full
	// sequence again.
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, collect(t, loader))
}

func TestLoader_ReIteration(t *testing.T) {
	t.Parallel()

	source := newSliceSource(1, 2, 3)
	loader := buffered.NewLoader[int](source)
	defer loader.Shutdown()

	assert.Equal(t, []int{1, 2, 3}, collect(t, loader))
	assert.Equal(t, []int{1, 2, 3}, collect(t, loader))
}

func TestLoader_DoubleIterationRejected(t *testing.T) {
	t.Parallel()

	loader := buffered.NewLoader[int](newSliceSource(1, 2, 3))
	defer loader.Shutdown()

	_, err := loader.BeginIteration()
	require.NoError(t, err)

	_, err = loader.BeginIteration()
	assert.ErrorIs(t, err, buffered.ErrAlreadyIterating)
}

func TestLoader_NextAfterEndOfSequence(t *testing.T) {
	t.Parallel()

	loader := buffered.NewLoader[int](newSliceSource(1))
	defer loader.Shutdown()

	it, err := loader.BeginIteration()
	require.NoError(t, err)

	_, err = it.Next()
	require.NoError(t, err)
	_, err = it.Next()
	require.ErrorIs(t, err, buffered.ErrEndOfSequence)

	_, err = it.Next()
	assert.ErrorIs(t, err, buffered.ErrNotIterating)
}

func TestLoader_SourceErrorSurfaced(t *testing.T) {
	t.Parallel()

	source := newSliceSource(1, 2, 3, 4)
	source.failAt = 2
	loader := buffered.NewLoader[int](source)
	defer loader.Shutdown()

	it, err := loader.BeginIteration()
	require.NoError(t, err)

	v, err := it.Next()
	require.NoError(t, err)
	assert.Equal(t, 1, v)
	v, err = it.Next()
	require.NoError(t, err)
	assert.Equal(t, 2, v)

	// The failure happened inside the producer goroutine but is re-raised
	// synchronously here instead of leaving the consumer blocked.
	_, err = it.Next()
	require.Error(t, err)
	assert.ErrorContains(t, err, "corrupt sample")

	// The producer is gone; a fresh iteration works.
	source.failAt = -1
	assert.Equal(t, []int{1, 2, 3, 4}, collect(t, loader))
}

func TestLoader_Len(t *testing.T) {
	t.Parallel()

	t.Run("sized source", func(t *testing.T) {
		t.Parallel()

		loader := buffered.NewLoader[int](newSliceSource(1, 2, 3))
		n, err := loader.Len()
		require.NoError(t, err)
		assert.Equal(t, 3, n)
	})

	t.Run("unsized source", func(t *testing.T) {
		t.Parallel()

		loader := buffered.NewLoader[int](unsizedSource{inner: newSliceSource(1, 2, 3)})
		_, err := loader.Len()
		assert.ErrorIs(t, err, buffered.ErrNotSized)
	})
}

func TestLoader_Samples(t *testing.T) {
	t.Parallel()

	t.Run("full pass", func(t *testing.T) {
		t.Parallel()

		loader := buffered.NewLoader[int](newSliceSource(1, 2, 3))
		defer loader.Shutdown()

		var got []int
		for v, err := range loader.Samples() {
			require.NoError(t, err)
			got = append(got, v)
		}
		assert.Equal(t, []int{1, 2, 3}, got)
	})

	t.Run("early break shuts the producer down", func(t *testing.T) {
		t.Parallel()

		loader := buffered.NewLoader[int](newSliceSource(1, 2, 3, 4, 5))
		defer loader.Shutdown()

		for v, err := range loader.Samples() {
			require.NoError(t, err)
			if v == 2 {
				break
			}
		}

		// A fresh iteration must be possible right away.
		_, err := loader.BeginIteration()
		require.NoError(t, err)
		loader.Shutdown()
	})

	t.Run("loader is a source", func(t *testing.T) {
		t.Parallel()

		inner := buffered.NewLoader[int](newSliceSource(1, 2, 3))
		defer inner.Shutdown()
		outer := buffered.NewLoader[int](inner, buffered.WithLoadBufferSize(1))
		defer outer.Shutdown()

		assert.Equal(t, []int{1, 2, 3}, collect(t, outer))
	})
}
