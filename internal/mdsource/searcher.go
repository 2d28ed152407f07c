package mdsource

import (
	"git.home.luguber.info/inful/docgen/internal/docmodel"
	"git.home.luguber.info/inful/docgen/internal/search"
)

// Searcher extracts search-index fragments from modules. It is enabled or
// disabled globally via configuration; when disabled no index work happens
// at all.
type Searcher struct {
	enabled bool
}

// NewSearcher creates a searcher with the given global enablement.
func NewSearcher(enabled bool) *Searcher {
	return &Searcher{enabled: enabled}
}

// Enabled reports whether any search indexing should happen.
func (s *Searcher) Enabled() bool { return s.enabled }

// ExtractEntries produces the fragment for exactly one module: a record for
// the module itself plus one per member passing the visibility predicate.
func (s *Searcher) ExtractEntries(name string, mod *docmodel.Module, isPublic func(docmodel.Member) bool, docFormat string) ([]search.Entry, error) {
	entries := []search.Entry{{
		"module":   name,
		"qualname": name,
		"kind":     "module",
		"doc":      mod.Doc,
		"format":   docFormat,
	}}
	for _, member := range mod.Members {
		if !isPublic(member) {
			continue
		}
		entries = append(entries, search.Entry{
			"module":   name,
			"qualname": name + "." + member.Name,
			"kind":     member.Kind,
			"doc":      member.Doc,
			"format":   docFormat,
		})
	}
	return entries, nil
}
