package execx

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// externalToolError indicates an external command that exited non-zero or
// produced output the caller could not use.
type externalToolError struct {
	tool   string
	reason string
	cause  error
}

func (e *externalToolError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.tool, e.reason, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.tool, e.reason)
}

func (e *externalToolError) Unwrap() error {
	return e.cause
}

// NewExternalToolError wraps a failure of an external command.
func NewExternalToolError(tool, reason string, cause error) error {
	return &externalToolError{tool: tool, reason: reason, cause: cause}
}

// IsExternalToolError checks if an error is an externalToolError.
func IsExternalToolError(err error) bool {
	var terr *externalToolError
	return errors.As(err, &terr)
}

// Stderr extracts the captured standard error from a failed Output call,
// falling back to the error text when nothing was captured.
func Stderr(err error) string {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && len(exitErr.Stderr) > 0 {
		return strings.TrimSpace(string(exitErr.Stderr))
	}
	return err.Error()
}
