package buffered

// Config holds buffer sizing for the read and write pipelines. Designed for
// environment-based configuration using popular env parsing libraries.
type Config struct {
	// LoadBufferSize bounds memory use and prefetch depth of the read path.
	LoadBufferSize int `env:"EXPKIT_LOAD_BUFFER_SIZE" envDefault:"5000"`
	// SaveBufferSize bounds write amplification before Save blocks.
	SaveBufferSize int `env:"EXPKIT_SAVE_BUFFER_SIZE" envDefault:"1"`
}

// DefaultConfig returns the defaults used when no configuration is supplied.
func DefaultConfig() Config {
	return Config{
		LoadBufferSize: DefaultLoadBufferSize,
		SaveBufferSize: DefaultSaveBufferSize,
	}
}

// NewLoaderFromConfig creates a Loader from configuration. Additional
// options override config values.
func NewLoaderFromConfig[T any](cfg Config, source Source[T], opts ...LoaderOption) *Loader[T] {
	allOpts := append([]LoaderOption{
		WithLoadBufferSize(cfg.LoadBufferSize),
	}, opts...)

	return NewLoader(source, allOpts...)
}

// NewManagerFromConfig creates a Manager from configuration. Additional
// options override config values.
func NewManagerFromConfig[T, C, S any](cfg Config, dm DataManager[T, C, S], opts ...ManagerOption) *Manager[T, C, S] {
	allOpts := append([]ManagerOption{
		WithManagerLoadBufferSize(cfg.LoadBufferSize),
		WithSaveBufferSize(cfg.SaveBufferSize),
	}, opts...)

	return NewManager(dm, allOpts...)
}
