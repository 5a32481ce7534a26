// Package execx provides a testable abstraction for command execution.
package execx

import (
	"context"
	"os"
	"os/exec"
)

// Runner defines an interface for executing external commands.
type Runner interface {
	// CombinedOutput runs a command and returns stdout and stderr mixed.
	CombinedOutput(ctx context.Context, name string, args ...string) ([]byte, error)
	// Output runs a command and returns stdout alone, for callers that
	// parse it. On failure stderr is available via exec.ExitError.
	Output(ctx context.Context, name string, args ...string) ([]byte, error)
	// OutputEnv behaves like Output with extra environment entries
	// appended to the inherited environment.
	OutputEnv(ctx context.Context, env []string, name string, args ...string) ([]byte, error)
	// LookPath reports the full path of an executable, or an error when
	// it is not installed.
	LookPath(name string) (string, error)
}

// RealRunner implements Runner using os/exec.
type RealRunner struct{}

// NewRealRunner creates a new RealRunner.
func NewRealRunner() *RealRunner {
	return &RealRunner{}
}

// CombinedOutput executes a command and returns its combined stdout and stderr output.
func (r *RealRunner) CombinedOutput(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	return cmd.CombinedOutput()
}

// Output executes a command and returns its stdout.
func (r *RealRunner) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	return cmd.Output()
}

// OutputEnv executes a command with extra environment entries and returns its stdout.
func (r *RealRunner) OutputEnv(ctx context.Context, env []string, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Env = append(os.Environ(), env...)
	return cmd.Output()
}

// LookPath searches for an executable in PATH.
func (r *RealRunner) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}
