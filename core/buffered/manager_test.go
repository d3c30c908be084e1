package buffered_test

import (
	"errors"
	"iter"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mlfoundry/expkit/core/buffered"
)

type testConfig struct {
	Name string
}

type testStats struct {
	Count int
}

// fakeManager is an in-memory DataManager that records persisted samples in
// order and can be told to fail on specific values.
type fakeManager struct {
	samples []int
	failOn  int           // sample value whose persist fails; -1 disables
	gate    chan struct{} // if set, Persist blocks until the gate is closed

	config testConfig
	stats  testStats

	mu        sync.Mutex
	persisted []int
}

func newFakeManager(samples ...int) *fakeManager {
	return &fakeManager{samples: samples, failOn: -1}
}

func (f *fakeManager) Samples() iter.Seq2[int, error] {
	return func(yield func(int, error) bool) {
		for _, v := range f.samples {
			if !yield(v, nil) {
				return
			}
		}
	}
}

func (f *fakeManager) Len() int { return len(f.samples) }

func (f *fakeManager) Persist(sample int) error {
	if f.gate != nil {
		<-f.gate
	}
	if sample == f.failOn {
		return errors.New("disk full")
	}

	f.mu.Lock()
	f.persisted = append(f.persisted, sample)
	f.mu.Unlock()
	return nil
}

func (f *fakeManager) Persisted() []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]int, len(f.persisted))
	copy(out, f.persisted)
	return out
}

func (f *fakeManager) LoadConfig() (testConfig, error) { return f.config, nil }
func (f *fakeManager) SaveConfig(c testConfig) error   { f.config = c; return nil }
func (f *fakeManager) LoadStats() (testStats, error)   { return f.stats, nil }
func (f *fakeManager) SaveStats(s testStats) error     { f.stats = s; return nil }

func TestManager_SaveOrderingAndCompleteness(t *testing.T) {
	t.Parallel()

	fake := newFakeManager()
	manager := buffered.NewManager[int, testConfig, testStats](fake,
		buffered.WithSaveBufferSize(4),
	)

	want := make([]int, 100)
	for i := range want {
		want[i] = i
		require.NoError(t, manager.Save(i))
	}

	// Shutdown blocks until every queued sample reached the sink.
	require.NoError(t, manager.Shutdown())
	assert.Equal(t, want, fake.Persisted())
}

func TestManager_SaveBlocksOnlyWhenBufferFull(t *testing.T) {
	t.Parallel()

	fake := newFakeManager()
	fake.gate = make(chan struct{})
	manager := buffered.NewManager[int, testConfig, testStats](fake,
		buffered.WithSaveBufferSize(1),
	)

	// First sample is picked up by the persister (blocked in Persist),
	// second fills the buffer. Both return immediately.
	require.NoError(t, manager.Save(1))
	require.NoError(t, manager.Save(2))

	// Third save has no free slot and must block until the persister
	// drains the buffer.
	unblocked := make(chan struct{})
	go func() {
		defer close(unblocked)
		_ = manager.Save(3)
	}()

	select {
	case <-unblocked:
		t.Fatal("Save returned although the save buffer was full")
	case <-time.After(50 * time.Millisecond):
	}

	close(fake.gate)
	select {
	case <-unblocked:
	case <-time.After(time.Second):
		t.Fatal("Save did not unblock after the persister drained the buffer")
	}

	require.NoError(t, manager.Shutdown())
	assert.Equal(t, []int{1, 2, 3}, fake.Persisted())
}

func TestManager_SaveAfterShutdown(t *testing.T) {
	t.Parallel()

	manager := buffered.NewManager[int, testConfig, testStats](newFakeManager())
	require.NoError(t, manager.Shutdown())

	assert.ErrorIs(t, manager.Save(1), buffered.ErrManagerClosed)
}

func TestManager_ShutdownIsIdempotent(t *testing.T) {
	t.Parallel()

	fake := newFakeManager()
	manager := buffered.NewManager[int, testConfig, testStats](fake)

	require.NoError(t, manager.Save(7))
	require.NoError(t, manager.Shutdown())
	require.NoError(t, manager.Shutdown())
	assert.Equal(t, []int{7}, fake.Persisted())
}

func TestManager_SinkErrorSurfaced(t *testing.T) {
	t.Parallel()

	t.Run("on a subsequent save", func(t *testing.T) {
		t.Parallel()

		fake := newFakeManager()
		fake.failOn = 2
		manager := buffered.NewManager[int, testConfig, testStats](fake)
		defer manager.Shutdown() //nolint:errcheck

		require.NoError(t, manager.Save(1))
		require.NoError(t, manager.Save(2))

		// The persist failure happened in the background; it surfaces on a
		// later Save once the persister recorded it.
		require.Eventually(t, func() bool {
			err := manager.Save(3)
			if err != nil {
				assert.ErrorContains(t, err, "disk full")
				return true
			}
			return false
		}, time.Second, time.Millisecond)
	})

	t.Run("on shutdown", func(t *testing.T) {
		t.Parallel()

		fake := newFakeManager()
		fake.failOn = 2
		manager := buffered.NewManager[int, testConfig, testStats](fake)

		require.NoError(t, manager.Save(1))
		require.NoError(t, manager.Save(2))

		err := manager.Shutdown()
		require.Error(t, err)
		assert.ErrorContains(t, err, "disk full")

		// Samples queued after the failed one were still flushed.
		assert.Equal(t, []int{1}, fake.Persisted())
	})
}

func TestManager_Iterate(t *testing.T) {
	t.Parallel()

	fake := newFakeManager(10, 20, 30)
	manager := buffered.NewManager[int, testConfig, testStats](fake,
		buffered.WithManagerLoadBufferSize(2),
	)
	defer manager.Shutdown() //nolint:errcheck

	it, err := manager.BeginIteration()
	require.NoError(t, err)

	var got []int
	for {
		v, err := it.Next()
		if errors.Is(err, buffered.ErrEndOfSequence) {
			break
		}
		require.NoError(t, err)
		got = append(got, v)
	}
	assert.Equal(t, []int{10, 20, 30}, got)

	n, err := manager.Len()
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestManager_SamplesSequence(t *testing.T) {
	t.Parallel()

	fake := newFakeManager(1, 2, 3)
	manager := buffered.NewManager[int, testConfig, testStats](fake)
	defer manager.Shutdown() //nolint:errcheck

	var got []int
	for v, err := range manager.Samples() {
		require.NoError(t, err)
		got = append(got, v)
	}
	assert.Equal(t, []int{1, 2, 3}, got)
}

// MockDataManager verifies that config and statistics calls are forwarded
// unchanged.
type MockDataManager struct {
	mock.Mock
}

func (m *MockDataManager) Samples() iter.Seq2[int, error] {
	return func(yield func(int, error) bool) {}
}

func (m *MockDataManager) Persist(sample int) error {
	args := m.Called(sample)
	return args.Error(0)
}

func (m *MockDataManager) LoadConfig() (testConfig, error) {
	args := m.Called()
	return args.Get(0).(testConfig), args.Error(1)
}

func (m *MockDataManager) SaveConfig(c testConfig) error {
	args := m.Called(c)
	return args.Error(0)
}

func (m *MockDataManager) LoadStats() (testStats, error) {
	args := m.Called()
	return args.Get(0).(testStats), args.Error(1)
}

func (m *MockDataManager) SaveStats(s testStats) error {
	args := m.Called(s)
	return args.Error(0)
}

func TestManager_ConfigPassThrough(t *testing.T) {
	t.Parallel()

	mockDM := new(MockDataManager)
	defer mockDM.AssertExpectations(t)

	mockDM.On("LoadConfig").Return(testConfig{Name: "mnist-v2"}, nil)
	mockDM.On("SaveConfig", testConfig{Name: "mnist-v3"}).Return(nil)
	mockDM.On("LoadStats").Return(testStats{}, errors.New("no stats yet"))
	mockDM.On("SaveStats", testStats{Count: 42}).Return(nil)

	manager := buffered.NewManager[int, testConfig, testStats](mockDM)
	defer manager.Shutdown() //nolint:errcheck

	cfg, err := manager.LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "mnist-v2", cfg.Name)

	require.NoError(t, manager.SaveConfig(testConfig{Name: "mnist-v3"}))

	_, err = manager.LoadStats()
	assert.ErrorContains(t, err, "no stats yet")

	require.NoError(t, manager.SaveStats(testStats{Count: 42}))
}

func TestManager_AsSink(t *testing.T) {
	t.Parallel()

	fake := newFakeManager()
	manager := buffered.NewManager[int, testConfig, testStats](fake)

	var sink buffered.Sink[int] = manager
	require.NoError(t, sink.Persist(5))
	require.NoError(t, manager.Shutdown())
	assert.Equal(t, []int{5}, fake.Persisted())
}
