package folder

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

// Entry is one numbered file or directory inside a Folder.
type Entry struct {
	Number int
	Name   string
}

// Folder wraps a directory of numbered files or run folders.
type Folder struct {
	location string
}

// Option configures a Folder.
type Option func(*options)

type options struct {
	create bool
}

// WithCreateIfMissing creates the directory when it does not exist yet.
func WithCreateIfMissing() Option {
	return func(o *options) {
		o.create = true
	}
}

// New creates a Folder at the given location.
func New(location string, opts ...Option) (*Folder, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	if o.create {
		if err := os.MkdirAll(location, 0o755); err != nil {
			return nil, fmt.Errorf("folder: create %s: %w", location, err)
		}
	}
	return &Folder{location: location}, nil
}

// Location returns the directory this Folder operates on.
func (f *Folder) Location() string { return f.location }

// Cd returns a Folder for the given sub directory.
func (f *Folder) Cd(sub string) *Folder {
	return &Folder{location: filepath.Join(f.location, sub)}
}

// Ls lists the names of all entries in the folder. A missing directory
// yields an empty list.
func (f *Folder) Ls() ([]string, error) {
	entries, err := os.ReadDir(f.location)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("folder: read %s: %w", f.location, err)
	}

	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name()
	}
	return names, nil
}

// MkDir creates a sub directory. Fails if it already exists.
func (f *Folder) MkDir(name string) error {
	if err := os.Mkdir(filepath.Join(f.location, name), 0o755); err != nil {
		return fmt.Errorf("folder: mkdir %s: %w", name, err)
	}
	return nil
}

// RmDir removes a sub directory and everything in it.
func (f *Folder) RmDir(name string) error {
	if err := os.RemoveAll(filepath.Join(f.location, name)); err != nil {
		return fmt.Errorf("folder: rmdir %s: %w", name, err)
	}
	return nil
}

// Exists reports whether the named entry is present in the folder.
func (f *Folder) Exists(name string) bool {
	_, err := os.Stat(filepath.Join(f.location, name))
	return err == nil
}

// List returns all entries matching the name format, sorted by their
// number. Numeric sorting avoids the usual string-order trap where
// sample-10 comes before sample-2.
func (f *Folder) List(format string) ([]Entry, error) {
	re, err := compileFormat(format)
	if err != nil {
		return nil, err
	}

	names, err := f.Ls()
	if err != nil {
		return nil, err
	}

	var entries []Entry
	for _, name := range names {
		if n, ok := extractNumber(re, name); ok {
			entries = append(entries, Entry{Number: n, Name: name})
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Number < entries[j].Number })
	return entries, nil
}

// Names returns the names of all entries matching the format, sorted by
// number.
func (f *Folder) Names(format string) ([]string, error) {
	entries, err := f.List(format)
	if err != nil {
		return nil, err
	}

	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name
	}
	return names, nil
}

// Numbers returns the numberings of all entries matching the format, in
// ascending order.
func (f *Folder) Numbers(format string) ([]int, error) {
	entries, err := f.List(format)
	if err != nil {
		return nil, err
	}

	numbers := make([]int, len(entries))
	for i, e := range entries {
		numbers[i] = e.Number
	}
	return numbers, nil
}

// NameByNumber returns the existing entry carrying the given number, or
// ErrNotFound.
func (f *Folder) NameByNumber(format string, number int) (string, error) {
	entries, err := f.List(format)
	if err != nil {
		return "", err
	}

	for _, e := range entries {
		if e.Number == number {
			return e.Name, nil
		}
	}
	return "", fmt.Errorf("%w: no entry numbered %d for format %q", ErrNotFound, number, format)
}

// NumberByName extracts the numbering from a name. The entry does not have
// to exist on disk.
func (f *Folder) NumberByName(format, name string) (int, error) {
	re, err := compileFormat(format)
	if err != nil {
		return 0, err
	}

	n, ok := extractNumber(re, name)
	if !ok {
		return 0, fmt.Errorf("%w: %q does not match format %q", ErrNotFound, name, format)
	}
	return n, nil
}

// NextName generates a name with a numbering one larger than the highest
// currently present, starting at 1 for an empty folder. When createDir is
// set the corresponding directory is created as well; a collision with a
// concurrently created run triggers a retry with the next number.
func (f *Folder) NextName(format, name string, createDir bool) (string, error) {
	for {
		numbers, err := f.Numbers(format)
		if err != nil {
			return "", err
		}

		nextID := 1
		if len(numbers) > 0 {
			if maxID := numbers[len(numbers)-1]; maxID > 0 {
				nextID = maxID + 1
			}
		}

		next, err := Substitute(format, nextID, name)
		if err != nil {
			return "", err
		}
		if !createDir {
			return next, nil
		}

		err = os.Mkdir(filepath.Join(f.location, next), 0o755)
		if err == nil {
			return next, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return "", fmt.Errorf("folder: mkdir %s: %w", next, err)
		}
	}
}
