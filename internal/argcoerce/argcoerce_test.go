package argcoerce

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Scalars(t *testing.T) {
	out, err := Parse([]string{`"hello"`, `42`, `true`, `null`})
	require.NoError(t, err)
	require.Len(t, out, 4)
	assert.Equal(t, "hello", out[0])
	assert.Equal(t, float64(42), out[1])
	assert.Equal(t, true, out[2])
	assert.Nil(t, out[3])
}

func TestParse_InvalidJSON(t *testing.T) {
	_, err := Parse([]string{`{not json`})
	assert.Error(t, err)
}

func TestParse_ArrayBecomesComparableSeq(t *testing.T) {
	out, err := Parse([]string{`[1, 2, 3]`})
	require.NoError(t, err)

	seq, ok := out[0].(Seq)
	require.True(t, ok)
	assert.Equal(t, 3, seq.Len())
	assert.Equal(t, float64(2), seq.At(1))

	// Two freezes of equal arrays must be usable as actual Go map keys, not
	// merely reflect.DeepEqual-equal: Seq is a named string type, so both
	// == comparison and map-key hashing work directly.
	out2, err := Parse([]string{`[1, 2, 3]`})
	require.NoError(t, err)
	assert.Equal(t, out[0], out2[0])
	assert.True(t, out[0].(Seq) == out2[0].(Seq))

	dedup := map[any]bool{out[0]: true}
	assert.True(t, dedup[out2[0]], "Seq must hash and compare equal across independent Parse calls")
}

func TestParse_ObjectBecomesOrderIndependentMapping(t *testing.T) {
	a, err := Parse([]string{`{"b": 2, "a": 1}`})
	require.NoError(t, err)
	b, err := Parse([]string{`{"a": 1, "b": 2}`})
	require.NoError(t, err)

	assert.Equal(t, a[0], b[0], "key order must not affect the frozen form")
	assert.True(t, a[0].(Mapping) == b[0].(Mapping), "Mapping must be usable with == regardless of source key order")

	m := a[0].(Mapping)
	assert.Equal(t, []string{"a", "b"}, m.Keys())
	v, ok := m.Get("a")
	require.True(t, ok)
	assert.Equal(t, float64(1), v)

	_, ok = m.Get("missing")
	assert.False(t, ok)
}

func TestParse_NestedStructures(t *testing.T) {
	out, err := Parse([]string{`{"items": [1, {"x": true}]}`})
	require.NoError(t, err)

	m := out[0].(Mapping)
	items, ok := m.Get("items")
	require.True(t, ok)

	seq := items.(Seq)
	assert.Equal(t, 2, seq.Len())
	inner := seq.At(1).(Mapping)
	v, ok := inner.Get("x")
	require.True(t, ok)
	assert.Equal(t, true, v)
}
