package quadlet

import (
	"errors"
	"fmt"
)

// malformedRecordError indicates compiler output that does not follow the
// record framing.
type malformedRecordError struct {
	reason string
}

func (e *malformedRecordError) Error() string {
	return fmt.Sprintf("malformed quadlet record: %s", e.reason)
}

// IsMalformedRecordError checks if an error indicates unparseable compiler output.
func IsMalformedRecordError(err error) bool {
	var target *malformedRecordError
	return errors.As(err, &target)
}

// dependencyCycleError indicates pod references that cannot be ordered.
type dependencyCycleError struct {
	unit  string
	cause error
}

func (e *dependencyCycleError) Error() string {
	return fmt.Sprintf("unit %q creates a dependency cycle: %v", e.unit, e.cause)
}

func (e *dependencyCycleError) Unwrap() error {
	return e.cause
}

// IsDependencyCycleError checks if an error indicates circular pod references.
func IsDependencyCycleError(err error) bool {
	var target *dependencyCycleError
	return errors.As(err, &target)
}
