package unit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSection_AppendKeepsRepeatedKeys tests that repeated keys stay separate
// entries in order.
func TestSection_AppendKeepsRepeatedKeys(t *testing.T) {
	sec := &Section{}
	sec.Append("After", "network.target")
	sec.Append("After", "local-fs.target")

	assert.Equal(t, []string{"network.target", "local-fs.target"}, sec.Values("After"))
	assert.Equal(t, 2, sec.Len())
}

// TestSection_SetReplacesInPlace tests that Set keeps the original position
// of an existing key.
func TestSection_SetReplacesInPlace(t *testing.T) {
	sec := &Section{}
	sec.Append("Description", "old")
	sec.Append("ExecStart", "/bin/true")

	sec.Set("Description", "new")

	entries := sec.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, Entry{Key: "Description", Value: "new"}, entries[0])
	assert.Equal(t, Entry{Key: "ExecStart", Value: "/bin/true"}, entries[1])
}

// TestSection_SetAppendsWhenAbsent tests that Set falls back to appending.
func TestSection_SetAppendsWhenAbsent(t *testing.T) {
	sec := &Section{}
	sec.Append("ExecStart", "/bin/true")

	sec.Set("Restart", "always")

	val, ok := sec.Get("Restart")
	require.True(t, ok)
	assert.Equal(t, "always", val)
	assert.Equal(t, 2, sec.Len())
}

// TestSection_SetDefaultDoesNotOverwrite tests that SetDefault only fills
// missing keys.
func TestSection_SetDefaultDoesNotOverwrite(t *testing.T) {
	sec := &Section{}
	sec.Append("Type", "notify")

	sec.SetDefault("Type", "oneshot")
	sec.SetDefault("Restart", "no")

	typ, _ := sec.Get("Type")
	assert.Equal(t, "notify", typ)
	restart, _ := sec.Get("Restart")
	assert.Equal(t, "no", restart)
}

// TestDocument_SectionGetOrInsert tests the mutable get-or-insert handle.
func TestDocument_SectionGetOrInsert(t *testing.T) {
	doc := NewDocument()

	doc.Section("Unit").Append("Description", "demo")
	doc.Section("Unit").Append("After", "network.target")

	assert.Equal(t, []string{"Unit"}, doc.Names())
	sec, ok := doc.Get("Unit")
	require.True(t, ok)
	assert.Equal(t, 2, sec.Len())
}

// TestDocument_SerializePreservesOrder tests that section and key order
// survive rendering, including repeated keys.
func TestDocument_SerializePreservesOrder(t *testing.T) {
	doc := NewDocument()
	doc.Section("Unit").Append("Description", "demo")
	doc.Section("Unit").Append("After", "network.target")
	doc.Section("Unit").Append("After", "local-fs.target")
	doc.Section("Service").Append("ExecStart", "/bin/true")

	expected := `[Unit]
Description=demo
After=network.target
After=local-fs.target

[Service]
ExecStart=/bin/true
`
	assert.Equal(t, expected, doc.String())
}

// TestDocument_SerializeSkipsEmptySections tests that a section without
// entries produces no output block.
func TestDocument_SerializeSkipsEmptySections(t *testing.T) {
	doc := NewDocument()
	doc.Section("Unit")
	doc.Section("Service").Append("ExecStart", "/bin/true")

	assert.NotContains(t, doc.String(), "[Unit]")
	assert.Contains(t, doc.String(), "[Service]")
}

// TestParseDocument_RoundTrip tests that parsing serialized output yields
// the same document.
func TestParseDocument_RoundTrip(t *testing.T) {
	doc := NewDocument()
	doc.Section("Unit").Append("Description", "demo")
	doc.Section("Service").Append("ExecStart", "/bin/one")
	doc.Section("Service").Append("ExecStartPost", "/bin/two")

	parsed, err := ParseDocument(doc.Serialize())
	require.NoError(t, err)

	assert.Equal(t, doc.Names(), parsed.Names())
	assert.Equal(t, doc.String(), parsed.String())
}

// TestParseDocument_FoldsRepeatedSectionBlocks tests that a section split
// over several blocks reads back as one section.
func TestParseDocument_FoldsRepeatedSectionBlocks(t *testing.T) {
	input := `[Unit]
Description=demo

[Service]
ExecStart=/bin/true

[Unit]
After=network.target
`
	doc, err := ParseDocument([]byte(input))
	require.NoError(t, err)

	assert.Equal(t, []string{"Unit", "Service"}, doc.Names())
	sec, _ := doc.Get("Unit")
	assert.Equal(t, 2, sec.Len())
}

// TestDocument_CloneIsIndependent tests that mutating a clone leaves the
// source untouched.
func TestDocument_CloneIsIndependent(t *testing.T) {
	doc := NewDocument()
	doc.Section("Service").Append("ExecStart", "/bin/true")

	clone := doc.Clone()
	clone.Section("Service").Set("ExecStart", "/bin/false")
	clone.Section("Install").Append("WantedBy", "default.target")

	val, _ := doc.Section("Service").Get("ExecStart")
	assert.Equal(t, "/bin/true", val)
	_, ok := doc.Get("Install")
	assert.False(t, ok)
}

// TestSet_InsertRejectsDuplicates tests unit name uniqueness within a set.
func TestSet_InsertRejectsDuplicates(t *testing.T) {
	set := NewSet()
	require.NoError(t, set.Insert("app.service", NewDocument()))

	err := set.Insert("app.service", NewDocument())
	require.Error(t, err)
	assert.True(t, IsDuplicateNameError(err))
}

// TestSet_NamesKeepInsertionOrder tests deterministic iteration order.
func TestSet_NamesKeepInsertionOrder(t *testing.T) {
	set := NewSet()
	require.NoError(t, set.Insert("b.service", NewDocument()))
	require.NoError(t, set.Insert("a.service", NewDocument()))

	assert.Equal(t, []string{"b.service", "a.service"}, set.Names())
}
