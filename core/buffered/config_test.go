package buffered_test

import (
	"testing"

	"github.com/caarlos0/env/v11"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mlfoundry/expkit/core/buffered"
)

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := buffered.DefaultConfig()
	assert.Equal(t, buffered.DefaultLoadBufferSize, cfg.LoadBufferSize)
	assert.Equal(t, buffered.DefaultSaveBufferSize, cfg.SaveBufferSize)
}

func TestConfig_EnvParsing(t *testing.T) {
	t.Setenv("EXPKIT_LOAD_BUFFER_SIZE", "64")
	t.Setenv("EXPKIT_SAVE_BUFFER_SIZE", "8")

	var cfg buffered.Config
	require.NoError(t, env.Parse(&cfg))
	assert.Equal(t, 64, cfg.LoadBufferSize)
	assert.Equal(t, 8, cfg.SaveBufferSize)
}

func TestNewFromConfig(t *testing.T) {
	t.Parallel()

	cfg := buffered.Config{LoadBufferSize: 2, SaveBufferSize: 2}

	t.Run("loader", func(t *testing.T) {
		t.Parallel()

		loader := buffered.NewLoaderFromConfig[int](cfg, newSliceSource(1, 2, 3))
		defer loader.Shutdown()
		assert.Equal(t, []int{1, 2, 3}, collect(t, loader))
	})

	t.Run("manager", func(t *testing.T) {
		t.Parallel()

		fake := newFakeManager()
		manager := buffered.NewManagerFromConfig[int, testConfig, testStats](cfg, fake)
		require.NoError(t, manager.Save(9))
		require.NoError(t, manager.Shutdown())
		assert.Equal(t, []int{9}, fake.Persisted())
	})
}
