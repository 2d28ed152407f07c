// Package docmodel defines the in-memory representation of a documentable
// module as produced by the resolver and consumed by rendering and search.
//
// Modules are identified by a unique dotted full name ("pkg.sub"). They live
// for the duration of one build run and are never persisted themselves; only
// artifacts derived from them (rendered pages, index fragments) are cached.
package docmodel

import "strings"

// Member is a single documentable symbol within a module.
type Member struct {
	Name     string `json:"name"`
	Kind     string `json:"kind"` // "function", "type", "constant", ...
	Doc      string `json:"doc"`
	Exported bool   `json:"exported"`
}

// Module is one resolved, importable documentable unit.
type Module struct {
	Fullname string
	Doc      string // markdown body of the module-level documentation
	Members  []Member
}

// Name returns the final dotted segment of the module's full name.
func (m *Module) Name() string {
	if i := strings.LastIndex(m.Fullname, "."); i >= 0 {
		return m.Fullname[i+1:]
	}
	return m.Fullname
}

// Nested reports whether the module is a submodule of another module.
func (m *Module) Nested() bool {
	return strings.Contains(m.Fullname, ".")
}

// Ancestors returns every proper dotted prefix of name, shortest first.
// For "a.b.c" it returns ["a", "a.b"]; a top-level name has none.
func Ancestors(name string) []string {
	parts := strings.Split(name, ".")
	prefixes := make([]string, 0, len(parts)-1)
	for i := 1; i < len(parts); i++ {
		prefixes = append(prefixes, strings.Join(parts[:i], "."))
	}
	return prefixes
}

// IsDescendant reports whether name is nested (strictly) under prefix.
func IsDescendant(name, prefix string) bool {
	return strings.HasPrefix(name, prefix+".")
}
