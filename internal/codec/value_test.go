package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestValue_ZeroIsNull tests that the zero Value reads as null.
func TestValue_ZeroIsNull(t *testing.T) {
	var v Value
	assert.Equal(t, KindNull, v.Kind())
	assert.True(t, v.IsNull())
}

// TestMapping_PutKeepsPosition tests in-place replacement versus append.
func TestMapping_PutKeepsPosition(t *testing.T) {
	m := Mapping().Put("a", Int(1)).Put("b", Int(2)).Put("c", Int(3))
	m = m.Put("b", Int(20))

	assert.Equal(t, []string{"a", "b", "c"}, m.Keys())
	b, ok := m.Get("b")
	require.True(t, ok)
	i, _ := b.AsInt()
	assert.Equal(t, int64(20), i)
}

// TestMapping_PutDoesNotAliasOldCopies tests the functional update
// guarantee.
func TestMapping_PutDoesNotAliasOldCopies(t *testing.T) {
	base := Mapping().Put("a", Int(1))
	updated := base.Put("a", Int(2)).Put("b", Int(3))

	a, _ := base.Get("a")
	i, _ := a.AsInt()
	assert.Equal(t, int64(1), i)
	assert.Equal(t, 1, base.Len())
	assert.Equal(t, 2, updated.Len())
}

// TestMapping_RenameKey tests position-preserving renames.
func TestMapping_RenameKey(t *testing.T) {
	m := Mapping().Put("first", Int(1)).Put("second", Int(2))

	renamed, ok := m.RenameKey("first", "app")
	require.True(t, ok)
	assert.Equal(t, []string{"app", "second"}, renamed.Keys())

	_, ok = m.RenameKey("missing", "x")
	assert.False(t, ok)
}

// TestSequence_SetIndex tests element replacement bounds handling.
func TestSequence_SetIndex(t *testing.T) {
	s := Sequence(Int(1), Int(2))
	s2 := s.SetIndex(1, Int(20))

	i, _ := s2.Items()[1].AsInt()
	assert.Equal(t, int64(20), i)
	i, _ = s.Items()[1].AsInt()
	assert.Equal(t, int64(2), i)

	assert.Equal(t, s, s.SetIndex(5, Int(0)))
}

// TestValue_Text tests canonical scalar text forms.
func TestValue_Text(t *testing.T) {
	cases := []struct {
		v    Value
		want string
	}{
		{Bool(true), "true"},
		{Int(-7), "-7"},
		{Uint(18446744073709551615), "18446744073709551615"},
		{Float(2.5), "2.5"},
		{String("plain"), "plain"},
	}
	for _, tc := range cases {
		got, ok := tc.v.Text()
		require.True(t, ok)
		assert.Equal(t, tc.want, got)
	}

	_, ok := Null().Text()
	assert.False(t, ok)
	_, ok = Sequence().Text()
	assert.False(t, ok)
	_, ok = Mapping().Text()
	assert.False(t, ok)
}

// TestValue_EqualMappingOrderInsensitive tests semantic mapping equality.
func TestValue_EqualMappingOrderInsensitive(t *testing.T) {
	a := Mapping().Put("x", Int(1)).Put("y", Int(2))
	b := Mapping().Put("y", Int(2)).Put("x", Int(1))
	assert.True(t, a.Equal(b))

	c := Mapping().Put("x", Int(1)).Put("y", Int(3))
	assert.False(t, a.Equal(c))
}

// TestValue_EqualSequenceOrderSensitive tests that element order matters.
func TestValue_EqualSequenceOrderSensitive(t *testing.T) {
	a := Sequence(Int(1), Int(2))
	b := Sequence(Int(2), Int(1))
	assert.False(t, a.Equal(b))
}
