package buffered

import "log/slog"

type managerOptions struct {
	loadSize int
	saveSize int
	logger   *slog.Logger
}

// ManagerOption configures a Manager.
type ManagerOption func(*managerOptions)

// WithManagerLoadBufferSize sets the prefetch depth of the owned Loader.
// Default is DefaultLoadBufferSize.
func WithManagerLoadBufferSize(size int) ManagerOption {
	return func(o *managerOptions) {
		if size > 0 {
			o.loadSize = size
		}
	}
}

// WithSaveBufferSize sets how many samples may be queued for persistence
// before Save blocks. Default is DefaultSaveBufferSize. Raise it when the
// caller produces bursts faster than the wrapped manager can persist.
func WithSaveBufferSize(size int) ManagerOption {
	return func(o *managerOptions) {
		if size > 0 {
			o.saveSize = size
		}
	}
}

// WithManagerLogger configures structured logging of the producer and
// persister lifecycle. Logging is discarded by default.
func WithManagerLogger(logger *slog.Logger) ManagerOption {
	return func(o *managerOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}
