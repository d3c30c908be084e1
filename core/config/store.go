package config

import (
	"context"

	"github.com/mlfoundry/expkit/core/artifact"
)

// Save converts the config struct to a map and stores it as a named
// artifact.
func Save(ctx context.Context, store artifact.Store, name string, cfg any) error {
	m, err := ToMap(cfg)
	if err != nil {
		return err
	}
	return store.Save(ctx, name, m)
}

// Fetch loads a named artifact and decodes it into the config struct
// pointed to by target.
func Fetch(ctx context.Context, store artifact.Store, name string, target any) error {
	var m map[string]any
	if err := store.Load(ctx, name, &m); err != nil {
		return err
	}
	return FromMap(m, target)
}
