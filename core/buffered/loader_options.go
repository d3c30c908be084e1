package buffered

import "log/slog"

type loaderOptions struct {
	size   int
	logger *slog.Logger
}

// LoaderOption configures a Loader.
type LoaderOption func(*loaderOptions)

// WithLoadBufferSize sets how many samples the producer may prefetch before
// it blocks. Default is DefaultLoadBufferSize. Larger buffers trade memory
// for a deeper prefetch.
func WithLoadBufferSize(size int) LoaderOption {
	return func(o *loaderOptions) {
		if size > 0 {
			o.size = size
		}
	}
}

// WithLoaderLogger configures structured logging of the producer lifecycle.
// Logging is discarded by default.
func WithLoaderLogger(logger *slog.Logger) LoaderOption {
	return func(o *loaderOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}
