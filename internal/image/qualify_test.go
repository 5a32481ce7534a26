package image

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trly/unit-ops/internal/execx"
	"github.com/trly/unit-ops/internal/log"
	"github.com/trly/unit-ops/internal/testutil/fakerunner"
)

// TestNeedsQualification tests the slash-count heuristic.
func TestNeedsQualification(t *testing.T) {
	assert.True(t, NeedsQualification("nginx"))
	assert.True(t, NeedsQualification("library/nginx"))
	assert.False(t, NeedsQualification("docker.io/library/nginx"))
	assert.False(t, NeedsQualification("quay.io/podman/hello:latest"))
}

// TestQualify_ParsesManifestRef tests extraction of the qualified name from
// manifest inspection output.
func TestQualify_ParsesManifestRef(t *testing.T) {
	runner := fakerunner.New()
	runner.SetOutput("docker", []string{"manifest", "inspect", "--verbose", "nginx"},
		[]byte(`[{"Ref": "docker.io/library/nginx:latest@sha256:abc123", "Descriptor": {}}]`))

	qualifier := NewQualifier(runner, log.Nop())
	name, err := qualifier.Qualify(context.Background(), "nginx")
	require.NoError(t, err)
	assert.Equal(t, "docker.io/library/nginx:latest", name)

	calls := runner.GetCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, "docker", calls[0].Name)
}

// TestQualify_CommandFailure tests that a failing inspection surfaces as an
// external tool error.
func TestQualify_CommandFailure(t *testing.T) {
	runner := fakerunner.New()
	runner.SetError("docker", []string{"manifest", "inspect", "--verbose", "ghost"},
		errors.New("manifest unknown"))

	qualifier := NewQualifier(runner, log.Nop())
	_, err := qualifier.Qualify(context.Background(), "ghost")
	require.Error(t, err)
	assert.True(t, execx.IsExternalToolError(err))
}

// TestQualify_UnparseableOutput tests degradation on non-array output.
func TestQualify_UnparseableOutput(t *testing.T) {
	runner := fakerunner.New()
	runner.SetOutput("docker", []string{"manifest", "inspect", "--verbose", "single"},
		[]byte(`{"Ref": "not an array"}`))

	qualifier := NewQualifier(runner, log.Nop())
	_, err := qualifier.Qualify(context.Background(), "single")
	require.Error(t, err)
	assert.True(t, execx.IsExternalToolError(err))
}

// TestQualify_MissingRef tests degradation when the Ref field is absent.
func TestQualify_MissingRef(t *testing.T) {
	runner := fakerunner.New()
	runner.SetOutput("docker", []string{"manifest", "inspect", "--verbose", "norf"},
		[]byte(`[{"Descriptor": {}}]`))

	qualifier := NewQualifier(runner, log.Nop())
	_, err := qualifier.Qualify(context.Background(), "norf")
	require.Error(t, err)
	assert.True(t, execx.IsExternalToolError(err))
}

// TestQualify_RefWithoutDigest tests degradation when the ref carries no
// digest suffix.
func TestQualify_RefWithoutDigest(t *testing.T) {
	runner := fakerunner.New()
	runner.SetOutput("docker", []string{"manifest", "inspect", "--verbose", "plain"},
		[]byte(`[{"Ref": "docker.io/library/plain:latest"}]`))

	qualifier := NewQualifier(runner, log.Nop())
	_, err := qualifier.Qualify(context.Background(), "plain")
	require.Error(t, err)
	assert.True(t, execx.IsExternalToolError(err))
}
