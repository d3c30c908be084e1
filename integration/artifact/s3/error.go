package s3

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"github.com/mlfoundry/expkit/core/artifact"
)

var (
	// ErrInvalidConfig is returned when the store configuration is missing
	// required fields.
	ErrInvalidConfig = errors.New("s3: invalid store configuration")
	// ErrBucketNotFound is returned when the configured bucket does not exist.
	ErrBucketNotFound = errors.New("s3: bucket not found")
	// ErrAccessDenied is returned when the credentials lack permission for an
	// operation.
	ErrAccessDenied = errors.New("s3: access denied")
	// ErrServiceUnavailable is returned for throttling and availability
	// errors. Retryable.
	ErrServiceUnavailable = errors.New("s3: service unavailable")
	// ErrOperationTimeout is returned when an operation exceeds its deadline.
	ErrOperationTimeout = errors.New("s3: operation timed out")
	// ErrOperationCanceled is returned when the caller cancels an operation.
	ErrOperationCanceled = errors.New("s3: operation canceled")
)

// classifyError converts S3 errors to domain errors. Missing objects map to
// artifact.ErrNotFound so callers can treat local and remote stores alike.
func classifyError(err error, operation string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %s", ErrOperationTimeout, operation)
	}
	if errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %s", ErrOperationCanceled, operation)
	}

	var nsk *types.NoSuchKey
	if errors.As(err, &nsk) {
		return fmt.Errorf("%w: %s", artifact.ErrNotFound, operation)
	}
	// HeadObject reports missing keys as NotFound instead of NoSuchKey.
	var nf *types.NotFound
	if errors.As(err, &nf) {
		return fmt.Errorf("%w: %s", artifact.ErrNotFound, operation)
	}
	var nsb *types.NoSuchBucket
	if errors.As(err, &nsb) {
		return ErrBucketNotFound
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "AccessDenied":
			return fmt.Errorf("%w: %s", ErrAccessDenied, operation)
		case "SlowDown", "ServiceUnavailable":
			return fmt.Errorf("%w: %s", ErrServiceUnavailable, operation)
		case "NoSuchKey", "NotFound":
			return fmt.Errorf("%w: %s", artifact.ErrNotFound, operation)
		case "NoSuchBucket":
			return ErrBucketNotFound
		default:
			return fmt.Errorf("s3: %s failed (code: %s): %w", operation, apiErr.ErrorCode(), err)
		}
	}

	return fmt.Errorf("s3: %s failed: %w", operation, err)
}
