package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trly/unit-ops/internal/compose"
	"github.com/trly/unit-ops/internal/execx"
)

const podletRecords = `# myproj.pod
[Pod]
PodName=myproj

---

# app.container
[Container]
Image=docker.io/library/nginx:latest
Pod=myproj.pod
`

// runQuadlet executes the quadlet command and returns what it wrote to the
// command's output stream.
func runQuadlet(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	cmd := (&QuadletCommand{}).GetCobraCommand()
	SetupCommandContext(cmd, app)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

// TestQuadletCommand_PrintsCompiledUnits normalizes a compose file, compiles
// it through podlet, applies the generation rules, and prints the result.
func TestQuadletCommand_PrintsCompiledUnits(t *testing.T) {
	app, runner, _ := newTestApp(t)
	runner.SetDefaultOutput("podlet", []byte(podletRecords))
	input := writeFile(t, "compose.yaml", "services:\n  app:\n    image: docker.io/library/nginx:latest\n")

	out, err := runQuadlet(t, app, input)

	require.NoError(t, err)
	assert.Contains(t, out, "# myproj.pod")
	assert.Contains(t, out, "WantedBy=default.target")
	assert.Contains(t, out, "# app.container")
	assert.Contains(t, out, "After=local-fs.target network-online.target systemd-networkd-wait-online.service")
	assert.Contains(t, out, "AutoUpdate=registry")
}

// TestQuadletCommand_WritesAndActivates writes the generated units, links
// them into the quadlet directory, and restarts the pod service.
func TestQuadletCommand_WritesAndActivates(t *testing.T) {
	app, runner, _ := newTestApp(t)
	runner.SetDefaultOutput("podlet", []byte(podletRecords))
	input := writeFile(t, "compose.yaml", "services:\n  app:\n    image: docker.io/library/nginx:latest\n")
	outputDir := t.TempDir()

	_, err := runQuadlet(t, app, input, "--output", outputDir)

	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(outputDir, "myproj.pod"))
	assert.FileExists(t, filepath.Join(outputDir, "app.container"))

	targetDir := app.Config.EffectiveQuadletDir()
	link := filepath.Join(targetDir, "myproj.pod")
	info, err := os.Lstat(link)
	require.NoError(t, err)
	assert.NotZero(t, info.Mode()&os.ModeSymlink)

	lines := commandLines(runner.GetCalls())
	assert.Contains(t, lines, "systemctl daemon-reload")
	assert.Contains(t, lines, "systemctl restart myproj-pod.service")
	assert.NotContains(t, lines, "systemctl restart app-container.service",
		"containers restart through their pod")
}

// TestQuadletCommand_PodletMissing fails with a tool error when podlet is
// not installed.
func TestQuadletCommand_PodletMissing(t *testing.T) {
	app, runner, _ := newTestApp(t)
	runner.SetMissing("podlet")
	input := writeFile(t, "compose.yaml", "services:\n  app:\n    image: docker.io/library/nginx:latest\n")

	_, err := runQuadlet(t, app, input)

	require.Error(t, err)
	assert.True(t, execx.IsExternalToolError(err))
	assert.Contains(t, err.Error(), "podlet")
}

// TestQuadletCommand_EmptyServices rejects compose input with no services.
func TestQuadletCommand_EmptyServices(t *testing.T) {
	app, _, _ := newTestApp(t)
	input := writeFile(t, "compose.yaml", "services: {}\n")

	_, err := runQuadlet(t, app, input)

	require.Error(t, err)
}

// TestQuadletCommand_ValidationFailure stops before compiling when the
// normalized document does not satisfy the compose schema.
func TestQuadletCommand_ValidationFailure(t *testing.T) {
	app, runner, _ := newTestApp(t)
	input := writeFile(t, "compose.yaml", "services:\n  app: just a string\n")

	_, err := runQuadlet(t, app, input)

	require.Error(t, err)
	assert.True(t, compose.IsValidationError(err))
	assert.Empty(t, commandLines(runner.GetCalls()), "podlet must not run on invalid input")
}

// TestQuadletCommand_SkipValidate bypasses the schema check and compiles the
// document as written.
func TestQuadletCommand_SkipValidate(t *testing.T) {
	app, runner, _ := newTestApp(t)
	runner.SetDefaultOutput("podlet", []byte(podletRecords))
	input := writeFile(t, "compose.yaml", "services:\n  app: just a string\n")

	out, err := runQuadlet(t, app, input, "--skip-validate")

	require.NoError(t, err)
	assert.Contains(t, out, "# myproj.pod")
}
