// Package content reads the markdown page tree the navigation points into.
// It never writes; the tree belongs to the site generator.
package content

import (
	"bytes"
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/ZacxDev/langbook/nav"
	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/ast"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v2"
)

var indexFiles = []string{"README.md", "index.md"}

type Tree struct {
	fs afero.Fs
}

func NewTree(fs afero.Fs) *Tree {
	return &Tree{fs: fs}
}

// OpenDir returns the tree rooted at dir on the local disk.
func OpenDir(dir string) *Tree {
	return NewTree(afero.NewBasePathFs(afero.NewOsFs(), dir))
}

// Candidates lists the files that may serve route, in lookup order.
func Candidates(route string) []string {
	p := route
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	p = strings.TrimPrefix(p, "/")

	switch {
	case p == "" || strings.HasSuffix(p, "/"):
		files := make([]string, 0, len(indexFiles))
		for _, index := range indexFiles {
			files = append(files, path.Join(p, index))
		}
		return files
	case strings.HasSuffix(p, ".html"):
		return []string{strings.TrimSuffix(p, ".html") + ".md"}
	case strings.HasSuffix(p, ".md"):
		return []string{p}
	default:
		files := []string{p + ".md"}
		for _, index := range indexFiles {
			files = append(files, path.Join(p, index))
		}
		return files
	}
}

// Lookup returns the page file serving route.
func (t *Tree) Lookup(route string) (string, bool) {
	for _, candidate := range Candidates(route) {
		info, err := t.fs.Stat(candidate)
		if err == nil && !info.IsDir() {
			return candidate, true
		}
	}
	return "", false
}

// Check reports every route without a page behind it.
func (t *Tree) Check(routes []nav.Route) []nav.Diagnostic {
	var diags []nav.Diagnostic
	for _, r := range routes {
		if _, ok := t.Lookup(r.Path); ok {
			continue
		}
		diags = append(diags, nav.Diagnostic{
			Kind:     nav.ErrDanglingLink,
			Severity: nav.SeverityWarning,
			Route:    r.Path,
			Trail:    r.Trail,
			Message:  fmt.Sprintf("no page found, looked for %s", strings.Join(Candidates(r.Path), ", ")),
		})
	}
	return diags
}

type Page struct {
	Source      string
	FrontMatter map[string]interface{}
	Body        []byte
}

// Page reads and splits the page serving route.
func (t *Tree) Page(route string) (*Page, error) {
	source, ok := t.Lookup(route)
	if !ok {
		return nil, errors.Wrapf(os.ErrNotExist, "no page for %s", route)
	}

	data, err := afero.ReadFile(t.fs, source)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	frontMatter, body, err := splitFrontMatter(data)
	if err != nil {
		return nil, errors.Wrapf(err, "error parsing frontmatter of %s", source)
	}

	return &Page{Source: source, FrontMatter: frontMatter, Body: body}, nil
}

// Title implements nav.TitleSource.
func (t *Tree) Title(route string) (string, bool) {
	page, err := t.Page(route)
	if err != nil {
		return "", false
	}
	title := page.Title()
	return title, title != ""
}

// Title prefers the front matter title over the first level-1 heading.
func (p *Page) Title() string {
	if title, ok := p.FrontMatter["title"].(string); ok && title != "" {
		return title
	}

	var title string
	ast.WalkFunc(p.document(), func(node ast.Node, entering bool) ast.WalkStatus {
		heading, ok := node.(*ast.Heading)
		if !ok || !entering || heading.Level != 1 {
			return ast.GoToNext
		}
		title = strings.TrimSpace(nodeText(heading))
		return ast.Terminate
	})
	return title
}

func (p *Page) HTML() []byte {
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags | html.HrefTargetBlank})
	return markdown.Render(p.document(), renderer)
}

func (p *Page) document() ast.Node {
	return markdown.Parse(p.Body, parser.NewWithExtensions(parser.CommonExtensions|parser.AutoHeadingIDs))
}

func nodeText(node ast.Node) string {
	var buf bytes.Buffer
	ast.WalkFunc(node, func(n ast.Node, entering bool) ast.WalkStatus {
		if !entering {
			return ast.GoToNext
		}
		switch n.(type) {
		case *ast.Text, *ast.Code:
			if leaf := n.AsLeaf(); leaf != nil {
				buf.Write(leaf.Literal)
			}
		}
		return ast.GoToNext
	})
	return buf.String()
}

// splitFrontMatter separates a leading "---" delimited YAML block from the
// markdown body. Pages without one have empty front matter.
func splitFrontMatter(data []byte) (map[string]interface{}, []byte, error) {
	normalized := bytes.ReplaceAll(data, []byte("\r\n"), []byte("\n"))
	if !bytes.HasPrefix(normalized, []byte("---\n")) {
		return map[string]interface{}{}, normalized, nil
	}

	rest := normalized[len("---\n"):]
	var header, body []byte
	switch {
	case bytes.HasPrefix(rest, []byte("---\n")):
		body = rest[len("---\n"):]
	default:
		end := bytes.Index(rest, []byte("\n---\n"))
		if end < 0 {
			if !bytes.HasSuffix(rest, []byte("\n---")) {
				return nil, nil, errors.New("front matter is not closed")
			}
			end = len(rest) - len("\n---")
			header, body = rest[:end], nil
		} else {
			header, body = rest[:end], rest[end+len("\n---\n"):]
		}
	}

	frontMatter := map[string]interface{}{}
	if err := yaml.Unmarshal(header, &frontMatter); err != nil {
		return nil, nil, err
	}
	return frontMatter, body, nil
}
