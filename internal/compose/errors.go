package compose

import (
	"errors"
	"fmt"
)

// emptyServiceSetError indicates a compose document whose services mapping
// contains no entries.
type emptyServiceSetError struct{}

func (e *emptyServiceSetError) Error() string {
	return "no services found in compose file"
}

// IsEmptyServiceSetError checks if an error indicates an empty services mapping.
func IsEmptyServiceSetError(err error) bool {
	var target *emptyServiceSetError
	return errors.As(err, &target)
}

// invalidShapeError indicates a compose document whose structure does not
// match what normalization expects.
type invalidShapeError struct {
	path   string
	reason string
}

func (e *invalidShapeError) Error() string {
	if e.path == "" {
		return fmt.Sprintf("invalid compose structure: %s", e.reason)
	}
	return fmt.Sprintf("invalid compose structure at %s: %s", e.path, e.reason)
}

// IsInvalidShapeError checks if an error indicates a malformed compose document.
func IsInvalidShapeError(err error) bool {
	var target *invalidShapeError
	return errors.As(err, &target)
}

// envFileError indicates that an environment file could not be read.
type envFileError struct {
	path  string
	cause error
}

func (e *envFileError) Error() string {
	return fmt.Sprintf("failed to read environment file %s: %v", e.path, e.cause)
}

func (e *envFileError) Unwrap() error {
	return e.cause
}

// IsEnvFileError checks if an error indicates an unreadable environment file.
func IsEnvFileError(err error) bool {
	var target *envFileError
	return errors.As(err, &target)
}

// validationError indicates that a normalized document was rejected by the
// compose loader.
type validationError struct {
	cause error
}

func (e *validationError) Error() string {
	return fmt.Sprintf("compose validation failed: %v", e.cause)
}

func (e *validationError) Unwrap() error {
	return e.cause
}

// IsValidationError checks if an error indicates a compose validation failure.
func IsValidationError(err error) bool {
	var target *validationError
	return errors.As(err, &target)
}
