package config

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var (
	cache   sync.Map // reflect.Type -> parsed config value
	envOnce sync.Once
)

// Load parses environment variables into cfg using caarlos0/env struct tags.
// A .env file in the working directory is loaded once per process before the
// first parse. Each configuration type is parsed only once; later calls for
// the same type return the cached value.
func Load[T any](cfg *T) error {
	envOnce.Do(func() {
		// Missing .env files are fine, the environment itself decides.
		_ = godotenv.Load()
	})

	key := reflect.TypeOf(*cfg)
	if cached, ok := cache.Load(key); ok {
		*cfg = cached.(T)
		return nil
	}

	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("config: parse environment for %s: %w", key, err)
	}

	actual, _ := cache.LoadOrStore(key, *cfg)
	*cfg = actual.(T)
	return nil
}

// MustLoad is like Load but panics on failure. Useful during startup where
// a missing required variable should abort immediately.
func MustLoad[T any](cfg *T) {
	if err := Load(cfg); err != nil {
		panic(err)
	}
}
