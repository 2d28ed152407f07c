package render

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"git.home.luguber.info/inful/docgen/internal/cache"
	"git.home.luguber.info/inful/docgen/internal/docmodel"
	"git.home.luguber.info/inful/docgen/internal/search"
)

// IndexKey identifies one search-fragment cache entry. The name is carried
// alongside the module because extraction scopes the fragment to the name
// the module was loaded under, not just the module's own identity.
type IndexKey struct {
	Name   string
	Module *docmodel.Module
}

// IndexCache memoizes per-module search-index fragments as JSON files
// mirroring the dotted-name hierarchy ("pkg.sub" at pkg/sub.json).
//
// Construction performs the one expensive step up front: binding the
// engine's visibility predicate. Every Compute shares that predicate, so the
// template-context setup cost is paid once per cache lifetime rather than
// once per module.
type IndexCache struct {
	*cache.Cache[IndexKey, []search.Entry]
}

type indexStrategy struct {
	searcher  Searcher
	isPublic  func(docmodel.Member) bool
	docFormat string
}

// NewIndexCache creates the fragment cache rooted at dir, binding the
// visibility predicate against the full module map.
func NewIndexCache(dir string, engine Engine, searcher Searcher, all map[string]*docmodel.Module, docFormat string) (*IndexCache, error) {
	isPublic, err := engine.VisibilityFilter(all)
	if err != nil {
		return nil, fmt.Errorf("failed to bind visibility predicate: %w", err)
	}
	strategy := &indexStrategy{searcher: searcher, isPublic: isPublic, docFormat: docFormat}
	c, err := cache.New[IndexKey, []search.Entry](dir, strategy)
	if err != nil {
		return nil, err
	}
	return &IndexCache{Cache: c}, nil
}

func (s *indexStrategy) KeyPath(key IndexKey) string {
	return strings.ReplaceAll(key.Name, ".", "/") + ".json"
}

func (s *indexStrategy) Save(path string, value []search.Entry) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to serialize search fragment: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

func (s *indexStrategy) Load(path string) ([]search.Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var entries []search.Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse search fragment %s: %w", path, err)
	}
	return entries, nil
}

func (s *indexStrategy) Compute(key IndexKey) ([]search.Entry, error) {
	return s.searcher.ExtractEntries(key.Name, key.Module, s.isPublic, s.docFormat)
}
