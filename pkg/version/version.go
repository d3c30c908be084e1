// Package version models dotted multi-level versions similar to SemVer, as
// used for dataset and model run names: v1.0, 0.0.1, 1.22.333. The numbers
// between the dots are referred to as levels; level 0 is the leftmost.
package version

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidVersion is returned when parsing a string that is not a dotted
// sequence of non-negative numbers, optionally prefixed with 'v'.
var ErrInvalidVersion = errors.New("version: invalid version specifier")

// Version is a dotted multi-level version value.
type Version struct {
	levels []int
}

// Parse reads a version from its string form. A leading 'v' is accepted and
// dropped.
func Parse(s string) (Version, error) {
	raw := strings.TrimPrefix(s, "v")

	parts := strings.Split(raw, ".")
	levels := make([]int, len(parts))
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return Version{}, fmt.Errorf("%w: %q", ErrInvalidVersion, s)
		}
		levels[i] = n
	}
	return Version{levels: levels}, nil
}

// MustParse is like Parse but panics on invalid input. Intended for
// constants and tests.
func MustParse(s string) Version {
	v, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return v
}

// IsValid reports whether s parses as a version.
func IsValid(s string) bool {
	_, err := Parse(s)
	return err == nil
}

// New creates a version from explicit level values.
func New(levels ...int) (Version, error) {
	if len(levels) == 0 {
		return Version{}, fmt.Errorf("%w: no levels given", ErrInvalidVersion)
	}
	for _, l := range levels {
		if l < 0 {
			return Version{}, fmt.Errorf("%w: negative level %d", ErrInvalidVersion, l)
		}
	}
	return Version{levels: append([]int(nil), levels...)}, nil
}

// FromZero creates an all-zero version with the given number of levels,
// e.g. FromZero(3) == "0.0.0".
func FromZero(nLevels int) Version {
	return Version{levels: make([]int, nLevels)}
}

// FromOne creates an initial version with a single 1 at bumpLevel and zeros
// elsewhere, e.g. FromOne(2, 0) == "1.0". Negative bump levels count from
// the end.
func FromOne(nLevels, bumpLevel int) Version {
	levels := make([]int, nLevels)
	levels[normalizeLevel(bumpLevel, nLevels)] = 1
	return Version{levels: levels}
}

// NumLevels returns how many levels the version has.
func (v Version) NumLevels() int { return len(v.levels) }

// Levels returns a copy of all level values.
func (v Version) Levels() []int {
	return append([]int(nil), v.levels...)
}

// Level returns the value at the given level. Negative levels count from
// the end, so Level(-1) is the least significant one.
func (v Version) Level(level int) int {
	return v.levels[normalizeLevel(level, len(v.levels))]
}

// Bump returns a version with the given level increased by one and all
// lower levels reset to zero:
//
//	MustParse("1.2.3").Bump(0)  == "2.0.0"
//	MustParse("1.2.3").Bump(1)  == "1.3.0"
//	MustParse("1.2.3").Bump(-1) == "1.2.4"
func (v Version) Bump(level int) Version {
	idx := normalizeLevel(level, len(v.levels))

	levels := v.Levels()
	levels[idx]++
	for i := idx + 1; i < len(levels); i++ {
		levels[i] = 0
	}
	return Version{levels: levels}
}

// Compare orders two versions level by level. It returns -1 when v is
// older than other, +1 when newer and 0 when equal. Versions with fewer
// levels compare as if padded with zeros, so "1.0" equals "1.0.0".
func (v Version) Compare(other Version) int {
	n := max(len(v.levels), len(other.levels))
	for i := 0; i < n; i++ {
		a, b := 0, 0
		if i < len(v.levels) {
			a = v.levels[i]
		}
		if i < len(other.levels) {
			b = other.levels[i]
		}
		if a != b {
			if a < b {
				return -1
			}
			return 1
		}
	}
	return 0
}

// Less reports whether v is older than other.
func (v Version) Less(other Version) bool { return v.Compare(other) < 0 }

// Equal reports whether both versions denote the same value.
func (v Version) Equal(other Version) bool { return v.Compare(other) == 0 }

// String renders the version without a 'v' prefix.
func (v Version) String() string {
	parts := make([]string, len(v.levels))
	for i, l := range v.levels {
		parts[i] = strconv.Itoa(l)
	}
	return strings.Join(parts, ".")
}

// MarshalText implements encoding.TextMarshaler.
func (v Version) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (v *Version) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// normalizeLevel maps negative indices onto the valid range, mirroring the
// level semantics of Level and Bump.
func normalizeLevel(level, n int) int {
	return ((level % n) + n) % n
}
