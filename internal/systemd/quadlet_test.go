package systemd

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trly/unit-ops/internal/execx"
	"github.com/trly/unit-ops/internal/log"
	"github.com/trly/unit-ops/internal/testutil/fakegate"
	"github.com/trly/unit-ops/internal/testutil/fakerunner"
)

func newQuadletService(runner *fakerunner.Runner, gate *fakegate.Gate, userMode bool) (*Service, *bytes.Buffer) {
	svc := NewService(runner, gate, log.Nop(), userMode)
	buf := &bytes.Buffer{}
	svc.out = buf
	return svc, buf
}

// TestService_ActivateQuadletsPrintsDryRun verifies the generator preview is
// shown before anything is touched.
func TestService_ActivateQuadletsPrintsDryRun(t *testing.T) {
	dir := "/etc/containers/systemd"
	runner := fakerunner.New()
	runner.SetOutput(generatorPath, []string{"--dryrun"}, []byte("# stack-pod.service\n[Service]\n"))
	gate := fakegate.New(false)
	svc, buf := newQuadletService(runner, gate, false)

	require.NoError(t, svc.ActivateQuadlets(context.Background(), dir, dir, []string{"stack.pod"}))

	assert.Contains(t, buf.String(), "Generated systemd unit files (dry run):")
	assert.Contains(t, buf.String(), "# stack-pod.service")

	calls := runner.GetCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, []string{"QUADLET_UNIT_DIRS=" + dir}, calls[0].Env)
	assert.Equal(t, []string{"Reload systemd and restart the services?"}, gate.GetPrompts())
}

// TestService_ActivateQuadletsCreatesSymlinks verifies written files are
// linked into the generator search directory.
func TestService_ActivateQuadletsCreatesSymlinks(t *testing.T) {
	outputDir := t.TempDir()
	targetDir := filepath.Join(t.TempDir(), "systemd")
	names := []string{"stack.pod", "stack-app.container"}
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(outputDir, name), []byte("[Pod]\n"), 0o644))
	}

	runner := fakerunner.New()
	gate := fakegate.NewDefaults()
	gate.SetAnswer("Reload systemd and restart the services?", false)
	svc, _ := newQuadletService(runner, gate, false)

	require.NoError(t, svc.ActivateQuadlets(context.Background(), outputDir, targetDir, names))

	for _, name := range names {
		dst := filepath.Join(targetDir, name)
		info, err := os.Lstat(dst)
		require.NoError(t, err)
		assert.NotZero(t, info.Mode()&os.ModeSymlink)
		link, err := os.Readlink(dst)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(outputDir, name), link)
	}
	assert.Equal(t, []string{
		"Create symlinks in '" + targetDir + "'?",
		"Reload systemd and restart the services?",
	}, gate.GetPrompts())
}

// TestService_ActivateQuadletsReplacesExistingEntries verifies stale files in
// the target directory give way to fresh links.
func TestService_ActivateQuadletsReplacesExistingEntries(t *testing.T) {
	outputDir := t.TempDir()
	targetDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(targetDir, "stack.pod"), []byte("stale"), 0o644))

	runner := fakerunner.New()
	gate := fakegate.NewDefaults()
	gate.SetAnswer("Reload systemd and restart the services?", false)
	svc, _ := newQuadletService(runner, gate, false)

	require.NoError(t, svc.ActivateQuadlets(context.Background(), outputDir, targetDir, []string{"stack.pod"}))

	link, err := os.Readlink(filepath.Join(targetDir, "stack.pod"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(outputDir, "stack.pod"), link)
}

// TestService_ActivateQuadletsSymlinksDeclined verifies declining leaves the
// target directory untouched.
func TestService_ActivateQuadletsSymlinksDeclined(t *testing.T) {
	outputDir := t.TempDir()
	targetDir := filepath.Join(t.TempDir(), "systemd")

	runner := fakerunner.New()
	gate := fakegate.New(false)
	svc, _ := newQuadletService(runner, gate, false)

	require.NoError(t, svc.ActivateQuadlets(context.Background(), outputDir, targetDir, []string{"stack.pod"}))

	_, err := os.Stat(targetDir)
	assert.True(t, os.IsNotExist(err))
	assert.Len(t, gate.GetPrompts(), 2)
}

// TestService_ActivateQuadletsRestartsPodsInOrder verifies only pod units are
// restarted, in the order given.
func TestService_ActivateQuadletsRestartsPodsInOrder(t *testing.T) {
	dir := "/etc/containers/systemd"
	runner := fakerunner.New()
	svc, _ := newQuadletService(runner, fakegate.New(true), false)

	names := []string{"bookstack.pod", "bookstack-app.container", "second.pod"}
	require.NoError(t, svc.ActivateQuadlets(context.Background(), dir, dir, names))

	assert.Equal(t, []string{
		generatorPath + " --dryrun",
		"systemctl daemon-reload",
		"systemctl restart bookstack-pod.service",
		"systemctl restart second-pod.service",
	}, callLines(runner.GetCalls()))
}

// TestService_ActivateQuadletsGeneratorFailure verifies a failing dry run is
// fatal and nothing is offered afterwards.
func TestService_ActivateQuadletsGeneratorFailure(t *testing.T) {
	dir := "/etc/containers/systemd"
	runner := fakerunner.New()
	runner.SetError(generatorPath, []string{"--dryrun"}, errors.New("exit status 1"))
	gate := fakegate.NewDefaults()
	svc, buf := newQuadletService(runner, gate, false)

	err := svc.ActivateQuadlets(context.Background(), dir, dir, []string{"stack.pod"})
	require.Error(t, err)
	assert.True(t, execx.IsExternalToolError(err))
	assert.Empty(t, gate.GetPrompts())
	assert.Empty(t, buf.String())
}

// TestService_ActivateQuadletsUserMode verifies the generator and systemctl
// both run against the user manager.
func TestService_ActivateQuadletsUserMode(t *testing.T) {
	dir := "/home/user/.config/containers/systemd"
	runner := fakerunner.New()
	svc, _ := newQuadletService(runner, fakegate.New(true), true)

	require.NoError(t, svc.ActivateQuadlets(context.Background(), dir, dir, []string{"stack.pod"}))

	assert.Equal(t, []string{
		generatorPath + " --dryrun --user",
		"systemctl --user daemon-reload",
		"systemctl --user restart stack-pod.service",
	}, callLines(runner.GetCalls()))
}
