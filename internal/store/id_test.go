package store

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewAutoIDIsSixteenHexDigits(t *testing.T) {
	id := newAutoID()
	require.Len(t, id, 16)
	for _, c := range id {
		require.True(t, (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f'), "unexpected character %q", c)
	}
}

func TestNewAutoIDIsUnique(t *testing.T) {
	require.NotEqual(t, newAutoID(), newAutoID())
}

func TestBatchIDShape(t *testing.T) {
	prefix := batchPrefix()
	require.Equal(t, prefix+"_1", batchID(prefix, 1))
	require.Equal(t, prefix+"_30", batchID(prefix, 30))
}

func TestIdOfStringAndNumeric(t *testing.T) {
	id, ok := idOf(map[string]interface{}{"id": "abc"})
	require.True(t, ok)
	require.Equal(t, "abc", id)

	id, ok = idOf(map[string]interface{}{"id": 42.0})
	require.True(t, ok)
	require.Equal(t, "42", id)

	_, ok = idOf(map[string]interface{}{"id": ""})
	require.False(t, ok)

	_, ok = idOf(map[string]interface{}{})
	require.False(t, ok)
}

func TestCommonPrefix(t *testing.T) {
	require.Equal(t, "ab_", commonPrefix([]string{"ab_1", "ab_2", "ab_30"}))
	require.Equal(t, "", commonPrefix([]string{"x", "y"}))
}
