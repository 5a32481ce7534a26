// Package fakerunner provides a fake implementation of execx.Runner for testing.
package fakerunner

import (
	"context"
	"fmt"
	"strings"
)

// Runner is a fake implementation of execx.Runner for testing.
type Runner struct {
	outputs  map[string][]byte
	errors   map[string]error
	defaults map[string][]byte
	missing  map[string]bool
	calls    []Call
}

// Call represents a captured command execution call.
type Call struct {
	Name string
	Args []string
	Env  []string
}

// New creates a new fake runner.
func New() *Runner {
	return &Runner{
		outputs:  make(map[string][]byte),
		errors:   make(map[string]error),
		defaults: make(map[string][]byte),
		missing:  make(map[string]bool),
		calls:    []Call{},
	}
}

// SetOutput sets the output for a specific command.
func (r *Runner) SetOutput(name string, args []string, output []byte) {
	key := r.makeKey(name, args)
	r.outputs[key] = output
}

// SetError sets the error for a specific command.
func (r *Runner) SetError(name string, args []string, err error) {
	key := r.makeKey(name, args)
	r.errors[key] = err
}

// SetDefaultOutput sets the output for every invocation of an executable
// whose exact argument list has no pinned output, useful when an argument
// is unpredictable such as a temporary file path.
func (r *Runner) SetDefaultOutput(name string, output []byte) {
	r.defaults[name] = output
}

// SetMissing marks an executable as not installed for LookPath.
func (r *Runner) SetMissing(name string) {
	r.missing[name] = true
}

// CombinedOutput implements execx.Runner.
func (r *Runner) CombinedOutput(_ context.Context, name string, args ...string) ([]byte, error) {
	return r.respond(name, args, nil)
}

// Output implements execx.Runner.
func (r *Runner) Output(_ context.Context, name string, args ...string) ([]byte, error) {
	return r.respond(name, args, nil)
}

// OutputEnv implements execx.Runner.
func (r *Runner) OutputEnv(_ context.Context, env []string, name string, args ...string) ([]byte, error) {
	return r.respond(name, args, env)
}

// LookPath implements execx.Runner.
func (r *Runner) LookPath(name string) (string, error) {
	if r.missing[name] {
		return "", fmt.Errorf("exec: %q: executable file not found in $PATH", name)
	}
	return "/usr/bin/" + name, nil
}

func (r *Runner) respond(name string, args []string, env []string) ([]byte, error) {
	r.calls = append(r.calls, Call{Name: name, Args: args, Env: env})

	key := r.makeKey(name, args)

	if err, exists := r.errors[key]; exists {
		return nil, err
	}

	if output, exists := r.outputs[key]; exists {
		return output, nil
	}

	if output, exists := r.defaults[name]; exists {
		return output, nil
	}

	// Default behavior - return empty output and no error
	return []byte{}, nil
}

// GetCalls returns all captured command calls.
func (r *Runner) GetCalls() []Call {
	return r.calls
}

// Reset clears all stored outputs, errors, and calls.
func (r *Runner) Reset() {
	r.outputs = make(map[string][]byte)
	r.errors = make(map[string]error)
	r.defaults = make(map[string][]byte)
	r.missing = make(map[string]bool)
	r.calls = []Call{}
}

func (r *Runner) makeKey(name string, args []string) string {
	return fmt.Sprintf("%s %s", name, strings.Join(args, " "))
}
