package config_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mlfoundry/expkit/core/artifact"
	"github.com/mlfoundry/expkit/core/config"
	"github.com/mlfoundry/expkit/pkg/version"
)

// optimizer is an int-backed enum with a text representation, the kind of
// field that needs type hooks to survive a map round-trip.
type optimizer int

const (
	optimizerSGD optimizer = iota
	optimizerAdam
)

func (o optimizer) MarshalText() ([]byte, error) {
	switch o {
	case optimizerSGD:
		return []byte("sgd"), nil
	case optimizerAdam:
		return []byte("adam"), nil
	}
	return nil, fmt.Errorf("unknown optimizer %d", o)
}

func (o *optimizer) UnmarshalText(text []byte) error {
	switch string(text) {
	case "sgd":
		*o = optimizerSGD
	case "adam":
		*o = optimizerAdam
	default:
		return fmt.Errorf("unknown optimizer %q", text)
	}
	return nil
}

type datasetConfig struct {
	Name      string          `json:"name"`
	Epochs    int             `json:"epochs"`
	Optimizer optimizer       `json:"optimizer"`
	Timeout   time.Duration   `json:"timeout"`
	Version   version.Version `json:"version"`
}

func TestToMap(t *testing.T) {
	t.Parallel()

	m, err := config.ToMap(datasetConfig{
		Name:      "ffhq-256",
		Epochs:    20,
		Optimizer: optimizerAdam,
		Timeout:   30 * time.Second,
		Version:   version.MustParse("1.2"),
	})
	require.NoError(t, err)

	assert.Equal(t, "ffhq-256", m["name"])
	assert.Equal(t, 20, m["epochs"])
	assert.Equal(t, "adam", m["optimizer"])
	assert.Equal(t, "30s", m["timeout"])
	assert.Equal(t, "1.2", m["version"])
}

func TestFromMap(t *testing.T) {
	t.Parallel()

	var cfg datasetConfig
	require.NoError(t, config.FromMap(map[string]any{
		"name":      "ffhq-256",
		"epochs":    20,
		"optimizer": "adam",
		"timeout":   "30s",
		"version":   "v1.2",
	}, &cfg))

	assert.Equal(t, "ffhq-256", cfg.Name)
	assert.Equal(t, 20, cfg.Epochs)
	assert.Equal(t, optimizerAdam, cfg.Optimizer)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.True(t, version.MustParse("1.2").Equal(cfg.Version))
}

func TestFromMap_InvalidEnum(t *testing.T) {
	t.Parallel()

	var cfg datasetConfig
	err := config.FromMap(map[string]any{"optimizer": "rmsprop"}, &cfg)
	require.Error(t, err)
	assert.ErrorContains(t, err, "rmsprop")
}

func TestSaveFetch(t *testing.T) {
	t.Parallel()

	for _, typ := range []artifact.Type{artifact.TypeJSON, artifact.TypeYAML} {
		t.Run(string(typ), func(t *testing.T) {
			t.Parallel()

			store, err := artifact.NewFileStore(t.TempDir(),
				artifact.WithCodec(typ.Codec()),
			)
			require.NoError(t, err)

			in := datasetConfig{
				Name:      "celeba-hq",
				Epochs:    5,
				Optimizer: optimizerSGD,
				Timeout:   time.Minute,
				Version:   version.MustParse("2.0"),
			}
			require.NoError(t, config.Save(t.Context(), store, "config", in))

			var out datasetConfig
			require.NoError(t, config.Fetch(t.Context(), store, "config", &out))
			assert.Equal(t, in.Name, out.Name)
			assert.Equal(t, in.Epochs, out.Epochs)
			assert.Equal(t, in.Optimizer, out.Optimizer)
			assert.Equal(t, in.Timeout, out.Timeout)
			assert.True(t, in.Version.Equal(out.Version))
		})
	}
}
