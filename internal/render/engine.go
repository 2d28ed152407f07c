// Package render defines the contracts of the external documentation
// engine and search extractor, and binds the generic disk cache to the two
// artifact types the builder persists: rendered HTML pages and per-module
// search-index fragments.
package render

import (
	"git.home.luguber.info/inful/docgen/internal/docmodel"
	"git.home.luguber.info/inful/docgen/internal/search"
)

// Options are the engine-global rendering switches, applied once before any
// rendering happens.
type Options struct {
	Math    bool // enable math rendering
	Mermaid bool // enable diagram rendering
}

// Engine abstracts the documentation rendering engine. RenderModule gets
// the full module map as render context so cross-module links resolve.
//
// VisibilityFilter is an expensive one-time operation: it instantiates the
// engine's template context and returns the "is this symbol public"
// predicate bound to it. Callers must bind it once and reuse the predicate
// across lookups rather than deriving it per module.
type Engine interface {
	Configure(opts Options)
	RenderModule(mod *docmodel.Module, all map[string]*docmodel.Module) ([]byte, error)
	RenderIndex(all map[string]*docmodel.Module) ([]byte, error)
	VisibilityFilter(all map[string]*docmodel.Module) (func(docmodel.Member) bool, error)
}

// Searcher abstracts the search-fragment extractor. Enabled gates all index
// work globally; when false no fragments are computed or cached and no
// search artifact is written.
type Searcher interface {
	Enabled() bool
	ExtractEntries(name string, mod *docmodel.Module, isPublic func(docmodel.Member) bool, docFormat string) ([]search.Entry, error)
}
