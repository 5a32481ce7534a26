package systemd

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trly/unit-ops/internal/execx"
	"github.com/trly/unit-ops/internal/log"
	"github.com/trly/unit-ops/internal/testutil/fakegate"
	"github.com/trly/unit-ops/internal/testutil/fakerunner"
)

// callLines flattens captured calls into "name arg..." strings for
// order-sensitive assertions.
func callLines(calls []fakerunner.Call) []string {
	lines := make([]string, 0, len(calls))
	for _, call := range calls {
		lines = append(lines, strings.Join(append([]string{call.Name}, call.Args...), " "))
	}
	return lines
}

// exitFailure simulates a command that ran but exited non-zero.
func exitFailure() error {
	return &exec.ExitError{ProcessState: &os.ProcessState{}}
}

// TestService_ActivateUnitsEnablesTimersAndServices verifies the full happy
// path: verify each file, reload, enable everything eligible.
func TestService_ActivateUnitsEnablesTimersAndServices(t *testing.T) {
	runner := fakerunner.New()
	gate := fakegate.NewDefaults()
	svc := NewService(runner, gate, log.Nop(), false)

	paths := []string{"/run/units/app.service", "/run/units/backup.timer"}
	require.NoError(t, svc.ActivateUnits(context.Background(), paths))

	assert.Equal(t, []string{
		"systemd-analyze verify /run/units/app.service",
		"systemd-analyze verify /run/units/backup.timer",
		"systemctl daemon-reload",
		"systemctl enable --now app.service",
		"systemctl enable --now backup.timer",
	}, callLines(runner.GetCalls()))
	assert.Equal(t, []string{
		"Activate the new service files? (Ensure your files have been created in the correct directories!)",
	}, gate.GetPrompts())
}

// TestService_ActivateUnitsSkipsServiceWithSiblingTimer verifies a service
// scheduled by a timer is not enabled on its own.
func TestService_ActivateUnitsSkipsServiceWithSiblingTimer(t *testing.T) {
	runner := fakerunner.New()
	svc := NewService(runner, fakegate.NewDefaults(), log.Nop(), false)

	paths := []string{"/run/units/mytimer.service", "/run/units/mytimer.timer"}
	require.NoError(t, svc.ActivateUnits(context.Background(), paths))

	assert.Equal(t, []string{
		"systemd-analyze verify /run/units/mytimer.service",
		"systemd-analyze verify /run/units/mytimer.timer",
		"systemctl daemon-reload",
		"systemctl enable --now mytimer.timer",
	}, callLines(runner.GetCalls()))
}

// TestService_ActivateUnitsDeclined verifies declining the activation prompt
// stops after verification.
func TestService_ActivateUnitsDeclined(t *testing.T) {
	runner := fakerunner.New()
	gate := fakegate.New(false)
	svc := NewService(runner, gate, log.Nop(), false)

	require.NoError(t, svc.ActivateUnits(context.Background(), []string{"/run/units/app.service"}))

	assert.Equal(t, []string{"systemd-analyze verify /run/units/app.service"}, callLines(runner.GetCalls()))
	assert.Len(t, gate.GetPrompts(), 1)
}

// TestService_ActivateUnitsVerificationFailure verifies a rejected unit file
// blocks activation and is kept by default.
func TestService_ActivateUnitsVerificationFailure(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.service")
	require.NoError(t, os.WriteFile(path, []byte("[Service]\n"), 0o644))

	runner := fakerunner.New()
	runner.SetError("systemd-analyze", []string{"verify", path}, exitFailure())
	gate := fakegate.NewDefaults()
	svc := NewService(runner, gate, log.Nop(), false)

	err := svc.ActivateUnits(context.Background(), []string{path})
	require.Error(t, err)
	assert.True(t, IsVerificationError(err))

	_, statErr := os.Stat(path)
	assert.NoError(t, statErr, "failed file must survive the default answer")
	assert.Equal(t, []string{"Delete the failed files?"}, gate.GetPrompts())
	assert.Equal(t, []string{"systemd-analyze verify " + path}, callLines(runner.GetCalls()))
}

// TestService_ActivateUnitsDeletesFailedFiles verifies the gated cleanup of
// rejected unit files.
func TestService_ActivateUnitsDeletesFailedFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.service")
	require.NoError(t, os.WriteFile(path, []byte("[Service]\n"), 0o644))

	runner := fakerunner.New()
	runner.SetError("systemd-analyze", []string{"verify", path}, exitFailure())
	gate := fakegate.NewDefaults()
	gate.SetAnswer("Delete the failed files?", true)
	svc := NewService(runner, gate, log.Nop(), false)

	err := svc.ActivateUnits(context.Background(), []string{path})
	require.Error(t, err)
	assert.True(t, IsVerificationError(err))

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

// TestService_ActivateUnitsUserMode verifies --user reaches both tools.
func TestService_ActivateUnitsUserMode(t *testing.T) {
	runner := fakerunner.New()
	svc := NewService(runner, fakegate.NewDefaults(), log.Nop(), true)

	require.NoError(t, svc.ActivateUnits(context.Background(), []string{"/run/units/tick.timer"}))

	assert.Equal(t, []string{
		"systemd-analyze --user verify /run/units/tick.timer",
		"systemctl --user daemon-reload",
		"systemctl --user enable --now tick.timer",
	}, callLines(runner.GetCalls()))
}

// TestService_ActivateUnitsVerifierUnavailable verifies a missing verifier is
// fatal, unlike a verification failure.
func TestService_ActivateUnitsVerifierUnavailable(t *testing.T) {
	runner := fakerunner.New()
	runner.SetError("systemd-analyze", []string{"verify", "/run/units/app.service"},
		errors.New(`exec: "systemd-analyze": executable file not found in $PATH`))
	gate := fakegate.NewDefaults()
	svc := NewService(runner, gate, log.Nop(), false)

	err := svc.ActivateUnits(context.Background(), []string{"/run/units/app.service"})
	require.Error(t, err)
	assert.True(t, execx.IsExternalToolError(err))
	assert.False(t, IsVerificationError(err))
	assert.Empty(t, gate.GetPrompts())
}

// TestService_ActivateUnitsReloadFailure verifies a failing daemon-reload
// aborts before any unit is enabled.
func TestService_ActivateUnitsReloadFailure(t *testing.T) {
	runner := fakerunner.New()
	runner.SetError("systemctl", []string{"daemon-reload"}, exitFailure())
	svc := NewService(runner, fakegate.NewDefaults(), log.Nop(), false)

	err := svc.ActivateUnits(context.Background(), []string{"/run/units/backup.timer"})
	require.Error(t, err)
	assert.True(t, execx.IsExternalToolError(err))

	assert.Equal(t, []string{
		"systemd-analyze verify /run/units/backup.timer",
		"systemctl daemon-reload",
	}, callLines(runner.GetCalls()))
}
