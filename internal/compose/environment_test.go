package compose

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trly/unit-ops/internal/testutil/fakegate"
)

func writeEnvFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

// TestNewEnvironment_CopiesBindings verifies the snapshot is isolated from its source map.
func TestNewEnvironment_CopiesBindings(t *testing.T) {
	source := map[string]string{"TAG": "1.0"}
	env := NewEnvironment(source)
	source["TAG"] = "mutated"

	value, ok := env.Lookup("TAG")
	require.True(t, ok)
	assert.Equal(t, "1.0", value)
}

// TestEnvironment_SetAndLookup verifies basic binding semantics.
func TestEnvironment_SetAndLookup(t *testing.T) {
	env := NewEnvironment(nil)

	_, ok := env.Lookup("TAG")
	assert.False(t, ok)

	env.Set("TAG", "2.0")
	value, ok := env.Lookup("TAG")
	require.True(t, ok)
	assert.Equal(t, "2.0", value)
}

// TestEnvironment_SourceFileMergesNewKeys verifies fresh keys merge without prompting.
func TestEnvironment_SourceFileMergesNewKeys(t *testing.T) {
	path := writeEnvFile(t, "TAG=1.0\nPORT=8080\n")
	env := NewEnvironment(nil)
	gate := fakegate.NewDefaults()

	require.NoError(t, env.SourceFile(path, gate))

	tag, _ := env.Lookup("TAG")
	port, _ := env.Lookup("PORT")
	assert.Equal(t, "1.0", tag)
	assert.Equal(t, "8080", port)
	assert.Empty(t, gate.GetPrompts())
}

// TestEnvironment_SourceFileProtectsExistingKeys verifies the default answer keeps existing values.
func TestEnvironment_SourceFileProtectsExistingKeys(t *testing.T) {
	path := writeEnvFile(t, "TAG=2.0\n")
	env := NewEnvironment(map[string]string{"TAG": "1.0"})
	gate := fakegate.NewDefaults()

	require.NoError(t, env.SourceFile(path, gate))

	value, _ := env.Lookup("TAG")
	assert.Equal(t, "1.0", value)
	require.Len(t, gate.GetPrompts(), 1)
	assert.Equal(t, "Environment variable 'TAG' is already set to '1.0'. Overwrite with '2.0' for variable substitution?", gate.GetPrompts()[0])
}

// TestEnvironment_SourceFileOverwriteConfirmed verifies a yes answer replaces the value.
func TestEnvironment_SourceFileOverwriteConfirmed(t *testing.T) {
	path := writeEnvFile(t, "TAG=2.0\n")
	env := NewEnvironment(map[string]string{"TAG": "1.0"})

	require.NoError(t, env.SourceFile(path, fakegate.New(true)))

	value, _ := env.Lookup("TAG")
	assert.Equal(t, "2.0", value)
}

// TestEnvironment_SourceFileSkipsMalformedLines verifies lines without '=' are ignored.
func TestEnvironment_SourceFileSkipsMalformedLines(t *testing.T) {
	path := writeEnvFile(t, "TAG=1.0\nnot a pair\n\nEMPTY=\nQUOTED=a=b=c\r\n")
	env := NewEnvironment(nil)

	require.NoError(t, env.SourceFile(path, fakegate.NewDefaults()))

	tag, _ := env.Lookup("TAG")
	assert.Equal(t, "1.0", tag)

	empty, ok := env.Lookup("EMPTY")
	require.True(t, ok)
	assert.Equal(t, "", empty)

	quoted, _ := env.Lookup("QUOTED")
	assert.Equal(t, "a=b=c", quoted)

	_, ok = env.Lookup("not a pair")
	assert.False(t, ok)
}

// TestEnvironment_SourceFileMissingFile verifies an unreadable file is a typed error.
func TestEnvironment_SourceFileMissingFile(t *testing.T) {
	env := NewEnvironment(nil)
	err := env.SourceFile(filepath.Join(t.TempDir(), "absent.env"), fakegate.NewDefaults())
	require.Error(t, err)
	assert.True(t, IsEnvFileError(err))
}
