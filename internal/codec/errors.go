package codec

import (
	"errors"
	"fmt"
)

// decodeError indicates that input bytes could not be promoted into the
// dynamic form.
type decodeError struct {
	encoding string
	path     string
	reason   string
	cause    error
}

func (e *decodeError) Error() string {
	msg := fmt.Sprintf("decode %s", e.encoding)
	if e.path != "" {
		msg += fmt.Sprintf(" at %s", e.path)
	}
	if e.reason != "" {
		msg += ": " + e.reason
	}
	if e.cause != nil {
		msg += fmt.Sprintf(": %v", e.cause)
	}
	return msg
}

func (e *decodeError) Unwrap() error {
	return e.cause
}

// IsDecodeError checks if an error is a decodeError.
func IsDecodeError(err error) bool {
	var derr *decodeError
	return errors.As(err, &derr)
}

// encodeError indicates that a dynamic value cannot be represented in the
// destination encoding.
type encodeError struct {
	encoding string
	path     string
	kind     Kind
	reason   string
}

func (e *encodeError) Error() string {
	msg := fmt.Sprintf("encode %s", e.encoding)
	if e.path != "" {
		msg += fmt.Sprintf(" at %s", e.path)
	}
	return fmt.Sprintf("%s: %s value %s", msg, e.kind, e.reason)
}

// IsEncodeError checks if an error is an encodeError.
func IsEncodeError(err error) bool {
	var eerr *encodeError
	return errors.As(err, &eerr)
}

// unknownEncodingError indicates that no codec is registered under a name.
type unknownEncodingError struct {
	name string
}

func (e *unknownEncodingError) Error() string {
	return fmt.Sprintf("unknown encoding: %s", e.name)
}

// IsUnknownEncodingError checks if an error is an unknownEncodingError.
func IsUnknownEncodingError(err error) bool {
	var uerr *unknownEncodingError
	return errors.As(err, &uerr)
}

func newDecodeError(encoding, path, reason string, cause error) error {
	return &decodeError{encoding: encoding, path: path, reason: reason, cause: cause}
}

func newEncodeError(encoding, path string, kind Kind, reason string) error {
	return &encodeError{encoding: encoding, path: path, kind: kind, reason: reason}
}
