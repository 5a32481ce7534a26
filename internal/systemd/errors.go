package systemd

import (
	"errors"
	"fmt"
	"strings"
)

// verificationError reports unit files rejected by systemd-analyze. It gates
// activation but callers treat it as a report rather than a fatal failure.
type verificationError struct {
	failed []string
}

func (e *verificationError) Error() string {
	return fmt.Sprintf("%d unit files failed verification: %s", len(e.failed), strings.Join(e.failed, ", "))
}

// IsVerificationError checks if an error is a verificationError.
func IsVerificationError(err error) bool {
	var verr *verificationError
	return errors.As(err, &verr)
}
