package artifact

import "context"

// Store provides named artifact persistence. Implementations must be safe
// for concurrent use.
type Store interface {
	// Save serializes v and stores it under the given name.
	Save(ctx context.Context, name string, v any) error
	// Load reads the named artifact into the value pointed to by v.
	// Returns ErrNotFound if the artifact does not exist.
	Load(ctx context.Context, name string, v any) error
	// Exists reports whether the named artifact is present.
	Exists(ctx context.Context, name string) (bool, error)
	// Delete removes the named artifact. Deleting a missing artifact is not
	// an error.
	Delete(ctx context.Context, name string) error
}
