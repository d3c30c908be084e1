// Package logger provides structured logging attribute helpers built on Go's
// standard slog package, covering the recurring fields of experiment
// bookkeeping: runs, samples, artifacts, buffers, and errors.
//
// # Features
//
//   - Built on Go's standard slog for compatibility and performance
//   - Type-safe attribute creation with nil safety
//   - Domain attributes for runs, samples, artifacts, and object storage
//   - Debugging helpers for stack traces and caller information
//
// # Basic Usage
//
//	import "github.com/mlfoundry/expkit/core/logger"
//
//	log.Info("sample persisted",
//		logger.Run("v1-cropped"),
//		logger.Sample(42),
//	)
//
//	// Nil errors produce an empty attribute, so no nil check is needed:
//	log.Error("save failed", logger.Error(err))
package logger
