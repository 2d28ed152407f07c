// Package resolve expands module specs into candidate names and loads them
// into the final ordered module set used by the site builder.
//
// Resolution runs in two phases. Walk turns the input spec list into a lazy
// depth-first stream of fully-qualified candidate names, honoring exclusion
// specs. Load consumes that stream one candidate at a time, imports each
// through the host Importer, and prunes the descendants of anything that
// fails to import so broken subtrees are skipped without retrying.
package resolve

import (
	"strings"

	"git.home.luguber.info/inful/docgen/internal/docmodel"
	"git.home.luguber.info/inful/docgen/internal/util/sets"
)

// ExcludePrefix marks a spec token as an exclusion ("!pkg.sub").
const ExcludePrefix = "!"

// Specs is the parsed form of an input spec list: the names to include, in
// input order, and the set of excluded name prefixes.
type Specs struct {
	Include  []string
	Excluded sets.Set[string]
}

// ParseSpecs splits raw spec tokens into includes and exclusions. Includes
// keep their input order with duplicates dropped; a trailing dot on an
// exclusion ("!pkg.sub.") is normalized away, since exclusion already covers
// the whole descendant subtree.
func ParseSpecs(tokens []string) Specs {
	specs := Specs{Excluded: sets.New[string]()}
	seen := sets.New[string]()
	for _, tok := range tokens {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		if name, ok := strings.CutPrefix(tok, ExcludePrefix); ok {
			specs.Excluded.Add(strings.TrimSuffix(name, "."))
			continue
		}
		if seen.Has(tok) {
			continue
		}
		seen.Add(tok)
		specs.Include = append(specs.Include, tok)
	}
	return specs
}

// Excludes reports whether name is matched by an exclusion spec: either an
// exact match or a dotted descendant of one.
func (s Specs) Excludes(name string) bool {
	if s.Excluded.Has(name) {
		return true
	}
	for excluded := range s.Excluded {
		if docmodel.IsDescendant(name, excluded) {
			return true
		}
	}
	return false
}
