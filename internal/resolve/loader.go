package resolve

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"git.home.luguber.info/inful/docgen/internal/docmodel"
	"git.home.luguber.info/inful/docgen/internal/util/sets"
)

// ErrImport marks a recoverable import failure. Importer implementations
// wrap import-time errors with it; anything not matching ErrImport aborts
// the whole load pass.
var ErrImport = errors.New("module import failed")

// Importer resolves a candidate name into an in-memory Module.
type Importer interface {
	Import(name string) (*docmodel.Module, error)
}

// Loaded is one entry of the final ordered module set.
type Loaded struct {
	Name   string
	Module *docmodel.Module
}

// Loader drives candidate loading with failure pruning.
type Loader struct {
	registry Registry
	importer Importer
	logger   *slog.Logger
}

// NewLoader creates a loader over the given registry and importer.
func NewLoader(reg Registry, imp Importer) *Loader {
	return &Loader{
		registry: reg,
		importer: imp,
		logger:   slog.Default(),
	}
}

// WithLogger sets a custom logger.
func (l *Loader) WithLogger(logger *slog.Logger) *Loader {
	l.logger = logger
	return l
}

// Load walks the specs and imports every candidate, pruning broken
// subtrees. When importing a name fails with ErrImport, the name itself and
// every ancestor dotted prefix are marked invalid; candidates covered by an
// invalid prefix are skipped without a second import attempt, and entries
// that loaded before a sibling proved an ancestor invalid are dropped
// afterwards. Any non-import error aborts immediately.
//
// The result orders all top-level modules before all nested ones, each tier
// lexicographic by full name.
func (l *Loader) Load(specTokens []string) ([]Loaded, error) {
	specs := ParseSpecs(specTokens)
	loaded := map[string]*docmodel.Module{}
	invalid := sets.New[string]()

	for name := range Walk(l.registry, specs) {
		if covered(name, invalid) {
			l.logger.Debug("Skipping candidate under invalid prefix", "module", name)
			continue
		}
		mod, err := l.importer.Import(name)
		if err != nil {
			if !errors.Is(err, ErrImport) {
				return nil, fmt.Errorf("loading %s: %w", name, err)
			}
			invalid.Add(name)
			invalid.AddAll(docmodel.Ancestors(name)...)
			l.logger.Debug("Pruning unimportable module", "module", name, "error", err)
			continue
		}
		loaded[name] = mod
	}

	result := make([]Loaded, 0, len(loaded))
	for name, mod := range loaded {
		if covered(name, invalid) {
			l.logger.Debug("Dropping module under retroactively invalid prefix", "module", name)
			continue
		}
		result = append(result, Loaded{Name: name, Module: mod})
	}
	sort.Slice(result, func(i, j int) bool {
		ni, nj := result[i].Module.Nested(), result[j].Module.Nested()
		if ni != nj {
			return !ni // top-level modules sort before nested ones
		}
		return result[i].Name < result[j].Name
	})
	return result, nil
}

// covered reports whether name or any of its ancestor prefixes is invalid.
func covered(name string, invalid sets.Set[string]) bool {
	if invalid.Has(name) {
		return true
	}
	for _, prefix := range docmodel.Ancestors(name) {
		if invalid.Has(prefix) {
			return true
		}
	}
	return false
}

// ModuleMap builds the name-keyed map view of an ordered load result.
func ModuleMap(modules []Loaded) map[string]*docmodel.Module {
	all := make(map[string]*docmodel.Module, len(modules))
	for _, m := range modules {
		all[m.Name] = m.Module
	}
	return all
}
