// Package systemd drives verification and activation of generated unit
// files through the systemd command line tools.
package systemd

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/trly/unit-ops/internal/confirm"
	"github.com/trly/unit-ops/internal/execx"
	"github.com/trly/unit-ops/internal/log"
)

// Service wraps systemd-analyze and systemctl behind gated operations. In
// user mode every invocation targets the user manager instead of the system
// one.
type Service struct {
	runner   execx.Runner
	gate     confirm.Gate
	logger   log.Logger
	userMode bool
	caser    cases.Caser
	out      io.Writer
}

// NewService creates a Service.
func NewService(runner execx.Runner, gate confirm.Gate, logger log.Logger, userMode bool) *Service {
	return &Service{
		runner:   runner,
		gate:     gate,
		logger:   logger,
		userMode: userMode,
		caser:    cases.Title(language.English),
		out:      os.Stdout,
	}
}

// ActivateUnits verifies the given unit files and, when all of them pass,
// walks the user through reloading systemd and enabling them. Timer units
// are enabled directly; service units only when no sibling timer among the
// given files schedules them. Verification failures offer deletion of the
// rejected files and return a verification error instead of activating.
func (s *Service) ActivateUnits(ctx context.Context, paths []string) error {
	var failed []string
	for _, path := range paths {
		ok, err := s.verifyUnit(ctx, path)
		if err != nil {
			return err
		}
		if !ok {
			failed = append(failed, path)
		}
	}

	if len(failed) > 0 {
		remove, err := s.gate.Confirm("Delete the failed files?", false)
		if err != nil {
			return err
		}
		if remove {
			for _, path := range failed {
				if err := os.Remove(path); err != nil {
					s.logger.Error("Could not delete unit file", "path", path, "error", err)
				}
			}
		}
		s.logger.Info("Skipping activation due to invalid files")
		return &verificationError{failed: failed}
	}

	activate, err := s.gate.Confirm("Activate the new service files? (Ensure your files have been created in the correct directories!)", true)
	if err != nil {
		return err
	}
	if !activate {
		return nil
	}

	if err := s.systemctl(ctx, "daemon-reload"); err != nil {
		return err
	}

	for _, path := range paths {
		name := filepath.Base(path)
		switch {
		case strings.HasSuffix(name, ".timer"):
		case strings.HasSuffix(name, ".service") && !hasSiblingTimer(paths, name):
		default:
			continue
		}
		s.logger.Info("Enabling unit", "kind", s.caser.String(unitKind(name)), "unit", name)
		if err := s.systemctl(ctx, "enable", "--now", name); err != nil {
			return err
		}
	}
	return nil
}

// verifyUnit runs systemd-analyze verify on one file. A non-zero exit is a
// verification failure, not a fatal error.
func (s *Service) verifyUnit(ctx context.Context, path string) (bool, error) {
	args := []string{"verify", path}
	if s.userMode {
		args = append([]string{"--user"}, args...)
	}

	out, err := s.runner.CombinedOutput(ctx, "systemd-analyze", args...)
	if err == nil {
		return true, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		s.logger.Error("Unit failed verification",
			"kind", s.caser.String(unitKind(filepath.Base(path))),
			"unit", filepath.Base(path),
			"output", strings.TrimSpace(string(out)))
		return false, nil
	}
	return false, execx.NewExternalToolError("systemd-analyze", "could not verify "+path, err)
}

// systemctl invokes systemctl with the given arguments, prepending --user in
// user mode. Non-zero exits are fatal.
func (s *Service) systemctl(ctx context.Context, args ...string) error {
	full := args
	if s.userMode {
		full = append([]string{"--user"}, args...)
	}

	out, err := s.runner.CombinedOutput(ctx, "systemctl", full...)
	if err != nil {
		reason := strings.Join(args, " ") + " failed"
		if trimmed := strings.TrimSpace(string(out)); trimmed != "" {
			reason += ": " + trimmed
		}
		return execx.NewExternalToolError("systemctl", reason, err)
	}
	return nil
}

// hasSiblingTimer reports whether a timer scheduling the given service unit
// is among the written files.
func hasSiblingTimer(paths []string, service string) bool {
	timer := strings.TrimSuffix(service, ".service") + ".timer"
	for _, path := range paths {
		if filepath.Base(path) == timer {
			return true
		}
	}
	return false
}

func unitKind(name string) string {
	return strings.TrimPrefix(filepath.Ext(name), ".")
}
