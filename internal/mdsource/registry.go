// Package mdsource implements the docgen collaborator contracts over a
// local markdown source tree.
//
// A module named "pkg.sub" lives in the directory <root>/pkg/sub. The
// directory holds module.md with the module-level documentation and one
// markdown file per member, each carrying a small YAML frontmatter block
// (kind, exported) followed by the member's doc body. Nested directories
// are submodules. A directory without a readable module.md is present in
// the registry but fails to import, which is what drives the resolver's
// failure pruning.
package mdsource

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/docgen/internal/docmodel"
	"git.home.luguber.info/inful/docgen/internal/resolve"
)

// ModuleFile is the filename of the module-level documentation inside a
// module directory.
const ModuleFile = "module.md"

// Source is the markdown-tree Registry and Importer.
type Source struct {
	root string
}

// NewSource creates a source over the given root directory.
func NewSource(root string) *Source {
	return &Source{root: root}
}

// dir maps a dotted module name onto its directory under the root.
func (s *Source) dir(name string) string {
	return filepath.Join(s.root, filepath.FromSlash(strings.ReplaceAll(name, ".", "/")))
}

// Standard returns the top-level module names: every directory directly
// under the source root, sorted.
func (s *Source) Standard() []string {
	return s.childDirs(s.root, "")
}

// Submodules returns the fully-qualified direct submodules of name, sorted.
func (s *Source) Submodules(name string) []string {
	return s.childDirs(s.dir(name), name+".")
}

func (s *Source) childDirs(dir, prefix string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var names []string
	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		names = append(names, prefix+entry.Name())
	}
	sort.Strings(names)
	return names
}

// Import reads a module directory into its in-memory representation.
// Missing directories, a missing module.md and malformed member files are
// all import failures wrapped with resolve.ErrImport so the loader prunes
// them; other I/O failures are fatal.
func (s *Source) Import(name string) (*docmodel.Module, error) {
	dir := s.dir(name)
	doc, err := os.ReadFile(filepath.Join(dir, ModuleFile))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", resolve.ErrImport, name, err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read module directory %s: %w", dir, err)
	}
	mod := &docmodel.Module{Fullname: name, Doc: string(doc)}
	for _, entry := range entries {
		if entry.IsDir() || entry.Name() == ModuleFile || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}
		member, err := readMember(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", resolve.ErrImport, name, err)
		}
		mod.Members = append(mod.Members, member)
	}
	sort.Slice(mod.Members, func(i, j int) bool { return mod.Members[i].Name < mod.Members[j].Name })
	return mod, nil
}

// memberHeader is the YAML frontmatter of a member file.
type memberHeader struct {
	Kind     string `yaml:"kind"`
	Exported bool   `yaml:"exported"`
}

var frontmatterDelim = []byte("---\n")

func readMember(path string) (docmodel.Member, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return docmodel.Member{}, err
	}
	rest, ok := bytes.CutPrefix(raw, frontmatterDelim)
	if !ok {
		return docmodel.Member{}, fmt.Errorf("member file %s has no frontmatter", path)
	}
	header, body, ok := bytes.Cut(rest, frontmatterDelim)
	if !ok {
		return docmodel.Member{}, fmt.Errorf("member file %s has unterminated frontmatter", path)
	}
	var meta memberHeader
	if err := yaml.Unmarshal(header, &meta); err != nil {
		return docmodel.Member{}, fmt.Errorf("member file %s has malformed frontmatter: %w", path, err)
	}
	if meta.Kind == "" {
		meta.Kind = "function"
	}
	return docmodel.Member{
		Name:     strings.TrimSuffix(filepath.Base(path), ".md"),
		Kind:     meta.Kind,
		Doc:      strings.TrimSpace(string(body)),
		Exported: meta.Exported,
	}, nil
}
