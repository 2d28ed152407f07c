// Package search assembles the deployable search payload from per-module
// index fragments. Entries are treated as opaque structured records: this
// package concatenates, compiles and wraps them, but never ranks or
// interprets their fields beyond the identifier used for dedup-free
// ordering.
package search

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Entry is one searchable record describing a documentable symbol, as
// emitted by the search extractor. Field sets vary by symbol kind, so the
// record stays schemaless.
type Entry map[string]any

// Precompile compiles the concatenated entry list into the deployable index
// payload. An empty entry list yields an empty payload, which callers treat
// as "write nothing".
func Precompile(entries []Entry) ([]byte, error) {
	if len(entries) == 0 {
		return nil, nil
	}
	payload, err := json.Marshal(entries)
	if err != nil {
		return nil, fmt.Errorf("failed to precompile search index: %w", err)
	}
	return payload, nil
}

// WrapJS wraps a precompiled payload into the search.js artifact consumed by
// the site's client-side search. An empty payload wraps to nothing.
func WrapJS(payload []byte) []byte {
	if len(payload) == 0 {
		return nil
	}
	var buf bytes.Buffer
	buf.WriteString("// Generated search index. Do not edit.\n")
	buf.WriteString("window.docgenSearchIndex = ")
	buf.Write(payload)
	buf.WriteString(";\n")
	return buf.Bytes()
}
