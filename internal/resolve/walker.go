package resolve

import (
	"iter"

	"git.home.luguber.info/inful/docgen/internal/util/sets"
)

// Registry exposes the host environment's module introspection facilities.
// It answers what exists, not whether it imports cleanly; candidates from
// the Registry may still fail to import.
type Registry interface {
	// Standard returns the implicit top-level module set.
	Standard() []string
	// Submodules returns the direct submodule names of name (fully
	// qualified), in a stable order.
	Submodules(name string) []string
}

// Walk expands the parsed specs into a lazy stream of candidate names: each
// included name followed by a depth-first walk of its submodule tree. Names
// matched by an exclusion spec are neither yielded nor descended into, and
// every name is yielded at most once.
//
// The stream is produced once per build and consumed incrementally by Load,
// so large inputs surface progress before the walk completes.
func Walk(reg Registry, specs Specs) iter.Seq[string] {
	return func(yield func(string) bool) {
		seen := sets.New[string]()
		var descend func(name string) bool
		descend = func(name string) bool {
			if seen.Has(name) || specs.Excludes(name) {
				return true
			}
			seen.Add(name)
			if !yield(name) {
				return false
			}
			for _, sub := range reg.Submodules(name) {
				if !descend(sub) {
					return false
				}
			}
			return true
		}
		for _, name := range specs.Include {
			if !descend(name) {
				return
			}
		}
	}
}
