package search

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrecompileEmpty(t *testing.T) {
	payload, err := Precompile(nil)
	require.NoError(t, err)
	assert.Empty(t, payload)
	assert.Empty(t, WrapJS(payload))
}

func TestPrecompileAndWrap(t *testing.T) {
	entries := []Entry{
		{"module": "a", "qualname": "a.Run", "kind": "function"},
		{"module": "b", "qualname": "b", "kind": "module"},
	}
	payload, err := Precompile(entries)
	require.NoError(t, err)

	var decoded []Entry
	require.NoError(t, json.Unmarshal(payload, &decoded))
	assert.Equal(t, entries, decoded)

	js := string(WrapJS(payload))
	assert.Contains(t, js, "window.docgenSearchIndex = ")
	assert.Contains(t, js, `"a.Run"`)
}
