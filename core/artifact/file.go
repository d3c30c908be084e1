package artifact

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/mlfoundry/expkit/core/logger"
)

// Compile-time check that FileStore implements the Store interface.
var _ Store = (*FileStore)(nil)

// FileStore keeps artifacts as files in a local directory. Writes are
// atomic: data is written to a uniquely named temporary file in the same
// directory and renamed into place.
type FileStore struct {
	root   string
	codec  Codec
	logger *slog.Logger
}

// FileStoreOption configures a FileStore.
type FileStoreOption func(*FileStore)

// WithCodec sets the serialization format. Default is JSON.
func WithCodec(codec Codec) FileStoreOption {
	return func(s *FileStore) {
		if codec != nil {
			s.codec = codec
		}
	}
}

// WithFileStoreLogger configures structured logging of store operations.
// Logging is discarded by default.
func WithFileStoreLogger(logger *slog.Logger) FileStoreOption {
	return func(s *FileStore) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewFileStore creates a store rooted at the given directory, creating it if
// necessary.
func NewFileStore(root string, opts ...FileStoreOption) (*FileStore, error) {
	if root == "" {
		return nil, ErrInvalidRoot
	}
	if info, err := os.Stat(root); err == nil && !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrInvalidRoot, root)
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("artifact: create store root: %w", err)
	}

	s := &FileStore{
		root:   root,
		codec:  JSONCodec{},
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Root returns the directory the store operates on.
func (s *FileStore) Root() string { return s.root }

// Path returns the full file path the named artifact is stored at.
func (s *FileStore) Path(name string) string {
	return filepath.Join(s.root, name+"."+s.codec.Ext())
}

// Save implements Store.
func (s *FileStore) Save(ctx context.Context, name string, v any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := s.codec.Marshal(v)
	if err != nil {
		return fmt.Errorf("artifact: marshal %s: %w", name, err)
	}

	path := s.Path(name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("artifact: create directory for %s: %w", name, err)
	}

	// Unique temp name keeps concurrent writers of the same artifact from
	// clobbering each other's in-flight data.
	tmp := filepath.Join(filepath.Dir(path), ".tmp-"+uuid.NewString())
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("artifact: write %s: %w", name, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("artifact: move %s into place: %w", name, err)
	}

	s.logger.Debug("artifact saved", logger.Artifact(name), logger.Path(path))
	return nil
}

// Load implements Store.
func (s *FileStore) Load(ctx context.Context, name string, v any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := os.ReadFile(s.Path(name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return fmt.Errorf("artifact: read %s: %w", name, err)
	}

	if err := s.codec.Unmarshal(data, v); err != nil {
		return fmt.Errorf("artifact: unmarshal %s: %w", name, err)
	}
	return nil
}

// Exists implements Store.
func (s *FileStore) Exists(ctx context.Context, name string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	_, err := os.Stat(s.Path(name))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("artifact: stat %s: %w", name, err)
}

// Delete implements Store.
func (s *FileStore) Delete(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := os.Remove(s.Path(name)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("artifact: delete %s: %w", name, err)
	}
	return nil
}
