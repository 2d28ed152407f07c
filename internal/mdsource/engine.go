package mdsource

import (
	"bytes"
	"fmt"
	"html/template"
	"sort"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"git.home.luguber.info/inful/docgen/internal/docmodel"
	"git.home.luguber.info/inful/docgen/internal/render"
)

const pageLayout = `<!doctype html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
{{- if .Math}}
<script type="module" src="assets/math.js"></script>
{{- end}}
{{- if .Mermaid}}
<script type="module" src="assets/mermaid.js"></script>
{{- end}}
</head>
<body>
<nav>{{range .Nav}}<a href="{{.Href}}">{{.Name}}</a> {{end}}</nav>
<main>{{.Body}}</main>
</body>
</html>
`

type navLink struct {
	Name string
	Href string
}

type pageData struct {
	Title   string
	Math    bool
	Mermaid bool
	Nav     []navLink
	Body    template.HTML
}

// Engine renders module markdown into standalone HTML pages with goldmark.
type Engine struct {
	opts   render.Options
	md     goldmark.Markdown
	layout *template.Template
}

// NewEngine creates the markdown rendering engine.
func NewEngine() *Engine {
	return &Engine{
		md: goldmark.New(goldmark.WithExtensions(extension.GFM)),
	}
}

// Configure applies the global rendering options. Must be called before any
// rendering.
func (e *Engine) Configure(opts render.Options) {
	e.opts = opts
}

// layoutTemplate parses the page layout on first use. This is the expensive
// template-context setup that VisibilityFilter fronts for index extraction.
func (e *Engine) layoutTemplate() (*template.Template, error) {
	if e.layout != nil {
		return e.layout, nil
	}
	tmpl, err := template.New("page").Parse(pageLayout)
	if err != nil {
		return nil, fmt.Errorf("failed to parse page layout: %w", err)
	}
	e.layout = tmpl
	return tmpl, nil
}

func (e *Engine) renderPage(title string, body []byte, nav []navLink) ([]byte, error) {
	tmpl, err := e.layoutTemplate()
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	err = tmpl.Execute(&buf, pageData{
		Title:   title,
		Math:    e.opts.Math,
		Mermaid: e.opts.Mermaid,
		Nav:     nav,
		Body:    template.HTML(body),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to render page %s: %w", title, err)
	}
	return buf.Bytes(), nil
}

// RenderModule renders one module's page. The full module map provides the
// navigation context so links to sibling modules resolve.
func (e *Engine) RenderModule(mod *docmodel.Module, all map[string]*docmodel.Module) ([]byte, error) {
	var body bytes.Buffer
	if err := e.md.Convert([]byte(mod.Doc), &body); err != nil {
		return nil, fmt.Errorf("failed to render module %s: %w", mod.Fullname, err)
	}
	for _, member := range mod.Members {
		fmt.Fprintf(&body, "<section id=%q><h2>%s %s</h2>", member.Name, member.Kind, member.Name)
		if err := e.md.Convert([]byte(member.Doc), &body); err != nil {
			return nil, fmt.Errorf("failed to render member %s.%s: %w", mod.Fullname, member.Name, err)
		}
		body.WriteString("</section>")
	}
	return e.renderPage(mod.Fullname, body.Bytes(), navLinks(all, mod.Fullname))
}

// RenderIndex renders the aggregate landing page. An empty module map
// yields empty output, which callers treat as "write nothing".
func (e *Engine) RenderIndex(all map[string]*docmodel.Module) ([]byte, error) {
	if len(all) == 0 {
		return nil, nil
	}
	var body bytes.Buffer
	body.WriteString("<h1>Module index</h1><ul>")
	for _, link := range navLinks(all, "") {
		fmt.Fprintf(&body, "<li><a href=%q>%s</a></li>", link.Href, link.Name)
	}
	body.WriteString("</ul>")
	return e.renderPage("Module index", body.Bytes(), nil)
}

// VisibilityFilter instantiates the page template context once and returns
// the member visibility predicate bound to it.
func (e *Engine) VisibilityFilter(all map[string]*docmodel.Module) (func(docmodel.Member) bool, error) {
	if _, err := e.layoutTemplate(); err != nil {
		return nil, err
	}
	return func(m docmodel.Member) bool { return m.Exported }, nil
}

func navLinks(all map[string]*docmodel.Module, self string) []navLink {
	names := make([]string, 0, len(all))
	for name := range all {
		if name != self {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	links := make([]navLink, len(names))
	for i, name := range names {
		links[i] = navLink{Name: name, Href: render.PagePath(name)}
	}
	return links
}
