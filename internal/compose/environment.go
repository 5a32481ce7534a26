package compose

import (
	"os"
	"strings"

	"github.com/trly/unit-ops/internal/confirm"
)

// Environment is a snapshot of variable bindings used for variable
// substitution. Sourcing a .env file updates the snapshot, never the real
// process environment, so a run's behavior does not depend on ambient state.
type Environment struct {
	vars map[string]string
}

// NewEnvironment builds an environment from the given bindings. The map is
// copied, so later mutations of the argument do not affect the snapshot.
func NewEnvironment(vars map[string]string) *Environment {
	env := &Environment{vars: make(map[string]string, len(vars))}
	for key, value := range vars {
		env.vars[key] = value
	}
	return env
}

// Snapshot captures the current process environment.
func Snapshot() *Environment {
	env := &Environment{vars: make(map[string]string)}
	for _, entry := range os.Environ() {
		if key, value, ok := strings.Cut(entry, "="); ok {
			env.vars[key] = value
		}
	}
	return env
}

// Lookup returns the value bound to key.
func (e *Environment) Lookup(key string) (string, bool) {
	value, ok := e.vars[key]
	return value, ok
}

// Set binds key to value.
func (e *Environment) Set(key, value string) {
	e.vars[key] = value
}

// SourceFile merges KEY=VALUE lines from a .env file into the snapshot.
// Lines without a '=' are skipped. Keys that are already bound are protected:
// overwriting one requires confirmation and defaults to keeping the existing
// value.
func (e *Environment) SourceFile(path string, gate confirm.Gate) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return &envFileError{path: path, cause: err}
	}

	for _, line := range strings.Split(strings.ReplaceAll(string(content), "\r\n", "\n"), "\n") {
		key, value, ok := strings.Cut(line, "=")
		if !ok || key == "" {
			continue
		}
		if existing, bound := e.vars[key]; bound {
			overwrite, err := gate.Confirm(
				"Environment variable '"+key+"' is already set to '"+existing+"'. Overwrite with '"+value+"' for variable substitution?",
				false,
			)
			if err != nil {
				return err
			}
			if !overwrite {
				continue
			}
		}
		e.vars[key] = value
	}
	return nil
}
