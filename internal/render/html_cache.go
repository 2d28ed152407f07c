package render

import (
	"os"
	"strings"

	"git.home.luguber.info/inful/docgen/internal/cache"
	"git.home.luguber.info/inful/docgen/internal/docmodel"
)

// HTMLCache memoizes rendered module pages on disk. A module named
// "pkg.sub" is stored at pkg/sub.html under the cache root, so the cached
// tree mirrors the dotted-name hierarchy.
type HTMLCache struct {
	*cache.Cache[*docmodel.Module, []byte]
}

type htmlStrategy struct {
	engine Engine
	all    map[string]*docmodel.Module
}

// NewHTMLCache creates the page cache rooted at dir. The full module map is
// captured as render context so cross-module links resolve during Compute.
func NewHTMLCache(dir string, engine Engine, all map[string]*docmodel.Module) (*HTMLCache, error) {
	c, err := cache.New[*docmodel.Module, []byte](dir, &htmlStrategy{engine: engine, all: all})
	if err != nil {
		return nil, err
	}
	return &HTMLCache{Cache: c}, nil
}

// PagePath returns the site-relative path of a module's rendered page.
func PagePath(fullname string) string {
	return strings.ReplaceAll(fullname, ".", "/") + ".html"
}

func (s *htmlStrategy) KeyPath(key *docmodel.Module) string {
	return PagePath(key.Fullname)
}

func (s *htmlStrategy) Save(path string, value []byte) error {
	return os.WriteFile(path, value, 0o644)
}

func (s *htmlStrategy) Load(path string) ([]byte, error) {
	return os.ReadFile(path)
}

func (s *htmlStrategy) Compute(key *docmodel.Module) ([]byte, error) {
	return s.engine.RenderModule(key, s.all)
}
