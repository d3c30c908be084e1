package manager

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"iter"
	"log/slog"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/mlfoundry/expkit/core/artifact"
	"github.com/mlfoundry/expkit/core/buffered"
	"github.com/mlfoundry/expkit/core/config"
	"github.com/mlfoundry/expkit/core/folder"
	"github.com/mlfoundry/expkit/core/logger"
	"github.com/mlfoundry/expkit/pkg/version"
)

// Compile-time check that SampleManager satisfies the buffered DataManager
// contract.
var _ buffered.DataManager[struct{}, struct{}, struct{}] = (*SampleManager[struct{}, struct{}, struct{}])(nil)

// SampleManager manages a dataset whose samples lie individually in a run
// folder, named after a numbered file format such as "sample-$.json".
// C and S are the dataset config and statistics types stored alongside the
// samples as config and stats artifacts.
type SampleManager[T, C, S any] struct {
	root       string
	run        string
	fileFormat string

	data    *folder.Folder
	store   *artifact.FileStore
	codec   artifact.Codec
	shuffle bool
	logger  *slog.Logger
}

// NewSampleManager opens the dataset at <root>/<run>.
//
// Example:
//
//	dm, err := manager.NewSampleManager[Sample, DatasetConfig, DatasetStats](
//		"datasets/ffhq", "v1-cropped", "sample-$.json",
//		manager.WithSampleCodec(artifact.GobCodec{}),
//	)
func NewSampleManager[T, C, S any](root, run, fileFormat string, opts ...Option) (*SampleManager[T, C, S], error) {
	if root == "" || run == "" || fileFormat == "" {
		return nil, fmt.Errorf("%w: root, run and file format are required", ErrInvalidRun)
	}

	o := &options{
		artifactType: artifact.TypeJSON,
		sampleCodec:  artifact.JSONCodec{},
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(o)
	}

	var folderOpts []folder.Option
	if o.create {
		folderOpts = append(folderOpts, folder.WithCreateIfMissing())
	}
	data, err := folder.New(filepath.Join(root, run), folderOpts...)
	if err != nil {
		return nil, err
	}
	// Surfaces malformed file formats at construction instead of on the
	// first iteration.
	if _, err := data.Numbers(fileFormat); err != nil {
		return nil, err
	}

	store, err := artifact.NewFileStore(data.Location(),
		artifact.WithCodec(o.artifactType.Codec()),
		artifact.WithFileStoreLogger(o.logger),
	)
	if err != nil {
		return nil, err
	}

	return &SampleManager[T, C, S]{
		root:       root,
		run:        run,
		fileFormat: fileFormat,
		data:       data,
		store:      store,
		codec:      o.sampleCodec,
		shuffle:    o.shuffle,
		logger:     o.logger,
	}, nil
}

// Samples iterates over all sample files in numbering order, or in random
// order when the manager was created with WithShuffle. Each call starts a
// fresh pass, so the manager can back repeated buffered iterations.
func (m *SampleManager[T, C, S]) Samples() iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		var zero T

		names, err := m.data.Names(m.fileFormat)
		if err != nil {
			yield(zero, err)
			return
		}
		if m.shuffle {
			rand.Shuffle(len(names), func(i, j int) {
				names[i], names[j] = names[j], names[i]
			})
		}

		for _, name := range names {
			var sample T
			if err := m.readSample(name, &sample); err != nil {
				yield(zero, err)
				return
			}
			if !yield(sample, nil) {
				return
			}
		}
	}
}

// Len reports how many sample files the run folder currently holds.
func (m *SampleManager[T, C, S]) Len() int {
	names, err := m.data.Names(m.fileFormat)
	if err != nil {
		return 0
	}
	return len(names)
}

// Persist stores a sample under the next free number.
func (m *SampleManager[T, C, S]) Persist(sample T) error {
	name, err := m.data.NextName(m.fileFormat, "", false)
	if err != nil {
		return err
	}
	if err := m.writeSample(name, sample); err != nil {
		return err
	}

	m.logger.Debug("sample persisted",
		logger.Run(m.run),
		logger.File(name))
	return nil
}

// SaveSample is an alias for Persist, mirroring the read-side LoadSample.
func (m *SampleManager[T, C, S]) SaveSample(sample T) error {
	return m.Persist(sample)
}

// LoadSample reads the sample file carrying the given number.
func (m *SampleManager[T, C, S]) LoadSample(number int) (T, error) {
	var sample T

	name, err := m.data.NameByNumber(m.fileFormat, number)
	if err != nil {
		return sample, err
	}
	if err := m.readSample(name, &sample); err != nil {
		return sample, err
	}
	return sample, nil
}

// LoadConfig reads the dataset config artifact.
func (m *SampleManager[T, C, S]) LoadConfig() (C, error) {
	var cfg C
	if err := config.Fetch(context.Background(), m.store, "config", &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// SaveConfig stores the dataset config artifact.
func (m *SampleManager[T, C, S]) SaveConfig(cfg C) error {
	return config.Save(context.Background(), m.store, "config", cfg)
}

// LoadStats reads the dataset statistics artifact.
func (m *SampleManager[T, C, S]) LoadStats() (S, error) {
	var stats S
	if err := config.Fetch(context.Background(), m.store, "stats", &stats); err != nil {
		return stats, err
	}
	return stats, nil
}

// SaveStats stores the dataset statistics artifact.
func (m *SampleManager[T, C, S]) SaveStats(stats S) error {
	return config.Save(context.Background(), m.store, "stats", stats)
}

// RunName returns the run this manager operates on.
func (m *SampleManager[T, C, S]) RunName() string { return m.run }

// Location returns the full path of the run folder.
func (m *SampleManager[T, C, S]) Location() string { return m.data.Location() }

// FileNameByID renders the sample file name for a number, whether or not
// the file exists.
func (m *SampleManager[T, C, S]) FileNameByID(number int) (string, error) {
	return folder.Substitute(m.fileFormat, number, "")
}

// DatasetVersion parses the version prefix of the run name. For run names
// like "v1.0-cropped" everything after the first dash is ignored.
func (m *SampleManager[T, C, S]) DatasetVersion() (version.Version, error) {
	name, _, _ := strings.Cut(m.run, "-")
	v, err := version.Parse(name)
	if err != nil {
		return version.Version{}, fmt.Errorf("%w: %q", ErrNoVersion, m.run)
	}
	return v, nil
}

func (m *SampleManager[T, C, S]) readSample(name string, sample any) error {
	data, err := os.ReadFile(filepath.Join(m.data.Location(), name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", folder.ErrNotFound, name)
		}
		return fmt.Errorf("manager: read sample %s: %w", name, err)
	}
	if err := m.codec.Unmarshal(data, sample); err != nil {
		return fmt.Errorf("manager: decode sample %s: %w", name, err)
	}
	return nil
}

func (m *SampleManager[T, C, S]) writeSample(name string, sample any) error {
	data, err := m.codec.Marshal(sample)
	if err != nil {
		return fmt.Errorf("manager: encode sample %s: %w", name, err)
	}

	path := filepath.Join(m.data.Location(), name)
	tmp := filepath.Join(m.data.Location(), ".tmp-"+uuid.NewString())
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("manager: write sample %s: %w", name, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("manager: move sample %s into place: %w", name, err)
	}
	return nil
}
