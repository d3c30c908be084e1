package manager

import (
	"log/slog"

	"github.com/mlfoundry/expkit/core/artifact"
)

type options struct {
	shuffle      bool
	create       bool
	artifactType artifact.Type
	sampleCodec  artifact.Codec
	logger       *slog.Logger
}

// Option configures a SampleManager.
type Option func(*options)

// WithShuffle loads sample files in random order instead of numbering
// order.
func WithShuffle() Option {
	return func(o *options) {
		o.shuffle = true
	}
}

// WithCreateIfMissing creates the run folder when it does not exist yet.
func WithCreateIfMissing() Option {
	return func(o *options) {
		o.create = true
	}
}

// WithArtifactType sets the format of the config and stats artifacts.
// Default is JSON.
func WithArtifactType(t artifact.Type) Option {
	return func(o *options) {
		if t.Valid() {
			o.artifactType = t
		}
	}
}

// WithSampleCodec sets the codec for the sample files themselves. Default
// is JSON; use artifact.GobCodec or a gzip variant for binary samples.
func WithSampleCodec(codec artifact.Codec) Option {
	return func(o *options) {
		if codec != nil {
			o.sampleCodec = codec
		}
	}
}

// WithLogger configures structured logging of dataset operations. Logging
// is discarded by default.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}
