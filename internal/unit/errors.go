package unit

import (
	"errors"
	"fmt"
)

// emptyUnitSetError indicates that an input decoded to zero unit
// descriptions.
type emptyUnitSetError struct{}

func (e *emptyUnitSetError) Error() string {
	return "no units found in input"
}

// IsEmptyUnitSetError checks if the error reports an empty unit set.
func IsEmptyUnitSetError(err error) bool {
	var emptyErr *emptyUnitSetError
	return errors.As(err, &emptyErr)
}

// reservedNameError indicates a logical unit name carrying a systemd unit
// suffix, which would collide with the names the synthesizer assigns.
type reservedNameError struct {
	name   string
	suffix string
}

func (e *reservedNameError) Error() string {
	return fmt.Sprintf("unit name %q ends with reserved suffix %q", e.name, e.suffix)
}

// IsReservedNameError checks if the error reports a reserved unit name.
func IsReservedNameError(err error) bool {
	var reservedErr *reservedNameError
	return errors.As(err, &reservedErr)
}

// invalidShapeError indicates a decoded value whose structure cannot be
// expressed as unit documents.
type invalidShapeError struct {
	path   string
	reason string
}

func (e *invalidShapeError) Error() string {
	if e.path == "" {
		return fmt.Sprintf("invalid unit structure: %s", e.reason)
	}
	return fmt.Sprintf("invalid unit structure at %s: %s", e.path, e.reason)
}

// IsInvalidShapeError checks if the error reports an inexpressible input
// structure.
func IsInvalidShapeError(err error) bool {
	var shapeErr *invalidShapeError
	return errors.As(err, &shapeErr)
}

// duplicateNameError indicates two documents inserted under the same unit
// name.
type duplicateNameError struct {
	name string
}

func (e *duplicateNameError) Error() string {
	return fmt.Sprintf("duplicate unit name %q", e.name)
}

// IsDuplicateNameError checks if the error reports a duplicate unit name.
func IsDuplicateNameError(err error) bool {
	var dupErr *duplicateNameError
	return errors.As(err, &dupErr)
}

// parseError indicates unit syntax that could not be read.
type parseError struct {
	cause error
}

func (e *parseError) Error() string {
	return fmt.Sprintf("parsing unit file: %v", e.cause)
}

func (e *parseError) Unwrap() error {
	return e.cause
}

// IsParseError checks if the error reports unreadable unit syntax.
func IsParseError(err error) bool {
	var pErr *parseError
	return errors.As(err, &pErr)
}
