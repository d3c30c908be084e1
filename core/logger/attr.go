package logger

import (
	"log/slog"
	"runtime"
	"strconv"
	"time"
)

// Attribute helpers use the empty Attr pattern for nil safety.
// This allows calls like log.Info("msg", logger.Error(err)) without explicit
// nil checks, following the principle of making zero values useful.

// Group creates a group of attributes under a single key.
func Group(name string, attrs ...slog.Attr) slog.Attr {
	return slog.Attr{Key: name, Value: slog.GroupValue(attrs...)}
}

// ============================================================================
// Error Handling
// ============================================================================

// Errors groups multiple non-nil errors under the key "errors".
// Uses index-based keys to preserve error order. Returns empty Attr for all
// nil errors.
func Errors(errs ...error) slog.Attr {
	count := 0
	for _, err := range errs {
		if err != nil {
			count++
		}
	}
	if count == 0 {
		return slog.Attr{}
	}

	as := make([]slog.Attr, 0, count)
	for i, err := range errs {
		if err != nil {
			as = append(as, slog.Any(strconv.Itoa(i), err))
		}
	}
	return slog.Attr{Key: "errors", Value: slog.GroupValue(as...)}
}

// Error creates an attribute for a single error under the key "error".
// Returns empty Attr for nil errors, enabling safe usage without nil checks.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// ============================================================================
// Performance and Timing
// ============================================================================

// Duration creates an attribute for a duration.
func Duration(d time.Duration) slog.Attr {
	return slog.Duration("duration", d)
}

// Elapsed calculates and logs the duration since the start time.
func Elapsed(start time.Time) slog.Attr {
	return slog.Duration("elapsed", time.Since(start))
}

// ============================================================================
// Experiment Bookkeeping
// ============================================================================

// Run creates an attribute for experiment or dataset run names.
func Run(name string) slog.Attr {
	if name == "" {
		return slog.Attr{}
	}
	return slog.String("run", name)
}

// Sample creates an attribute for sample numbers.
func Sample(number int) slog.Attr {
	return slog.Int("sample", number)
}

// Artifact creates an attribute for artifact names.
func Artifact(name string) slog.Attr {
	if name == "" {
		return slog.Attr{}
	}
	return slog.String("artifact", name)
}

// File creates an attribute for file names.
func File(name string) slog.Attr {
	if name == "" {
		return slog.Attr{}
	}
	return slog.String("file", name)
}

// Path creates an attribute for filesystem paths.
func Path(path string) slog.Attr {
	return slog.String("path", path)
}

// Bucket creates an attribute for object storage bucket names.
func Bucket(name string) slog.Attr {
	return slog.String("bucket", name)
}

// ObjectKey creates an attribute for object storage keys.
func ObjectKey(key string) slog.Attr {
	return slog.String("key", key)
}

// BufferSize creates an attribute for queue and buffer capacities.
func BufferSize(n int) slog.Attr {
	return slog.Int("buffer_size", n)
}

// Bytes creates an attribute for payload sizes.
func Bytes(n int) slog.Attr {
	return slog.Int("bytes", n)
}

// ============================================================================
// Generic Metadata
// ============================================================================

// Component creates an attribute for component names.
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// Count creates a generic counter attribute.
func Count(key string, n int) slog.Attr {
	return slog.Int(key, n)
}

// Version creates an attribute for version information.
func Version(v string) slog.Attr {
	return slog.String("version", v)
}

// Key creates a generic key-value attribute.
func Key(key string, value any) slog.Attr {
	if value == nil {
		return slog.Attr{}
	}
	return slog.Any(key, value)
}

// ============================================================================
// Debugging
// ============================================================================

// Stack captures and returns the current stack trace.
func Stack() slog.Attr {
	const size = 64 << 10
	buf := make([]byte, size)
	buf = buf[:runtime.Stack(buf, false)]
	return slog.String("stack", string(buf))
}

// Caller returns information about the calling function.
func Caller() slog.Attr {
	_, file, line, ok := runtime.Caller(1)
	if !ok {
		return slog.Attr{}
	}
	return slog.String("caller", file+":"+strconv.Itoa(line))
}
