package nav

import (
	"path"
	"strconv"
	"strings"

	"github.com/ZacxDev/langbook/config"
	"go.uber.org/multierr"
)

// NavEntry is a node of the navbar: a leaf carrying Link or a submenu
// carrying Children, never both.
type NavEntry struct {
	Label    string     `json:"text"`
	Icon     string     `json:"icon,omitempty"`
	Link     string     `json:"link,omitempty"`
	Children []NavEntry `json:"children,omitempty"`
}

func (e NavEntry) IsLeaf() bool {
	return len(e.Children) == 0
}

// TitleSource supplies labels for entries written as a bare path.
type TitleSource interface {
	Title(route string) (string, bool)
}

type Options struct {
	Titles    TitleSource
	LinkStyle string
}

// BuildNavbar validates the navbar descriptors and resolves their links.
// Entries keep the manifest order. Every malformed node is reported.
func BuildNavbar(items []config.NavItem, opts Options) ([]NavEntry, error) {
	b := &navbarBuilder{opts: opts}
	entries := b.entries(RootChain("/"), nil, items)
	if b.err != nil {
		return nil, b.err
	}
	return entries, nil
}

type navbarBuilder struct {
	opts Options
	err  error
}

func (b *navbarBuilder) entries(chain Chain, trail []string, items []config.NavItem) []NavEntry {
	entries := make([]NavEntry, 0, len(items))
	for i, item := range items {
		entry, ok := b.entry(chain, extend(trail, itemName(item.Text, item.Link, i)), item)
		if ok {
			entries = append(entries, entry)
		}
	}
	return entries
}

func (b *navbarBuilder) entry(chain Chain, trail []string, item config.NavItem) (NavEntry, bool) {
	if err := checkShape(trail, item.Link != "", item.HasChildren, len(item.Children)); err != nil {
		b.err = multierr.Append(b.err, err)
		return NavEntry{}, false
	}
	if IsExternal(item.Prefix) {
		b.err = multierr.Append(b.err, malformed(trail, "prefix %q must be a site path", item.Prefix))
		return NavEntry{}, false
	}

	chain = chain.Descend(item.Prefix)
	if item.HasChildren {
		if item.Text == "" {
			b.err = multierr.Append(b.err, malformed(trail, "submenu has no text"))
			return NavEntry{}, false
		}
		children := b.entries(chain, trail, item.Children)
		return NavEntry{Label: item.Text, Icon: item.Icon, Children: children}, true
	}

	link, form := chain.Resolve(item.Link)
	label := item.Text
	if label == "" {
		label = lookupLabel(b.opts.Titles, link, form)
	}
	return NavEntry{Label: label, Icon: item.Icon, Link: link}, true
}

// checkShape enforces the leaf/branch discriminant shared by the navbar and
// the sidebar.
func checkShape(trail []string, hasLink, hasChildren bool, childCount int) error {
	switch {
	case hasLink && hasChildren:
		return malformed(trail, "entry has both a link and children")
	case !hasLink && !hasChildren:
		return malformed(trail, "entry has neither a link nor children")
	case hasChildren && childCount == 0:
		return malformed(trail, "entry has an empty children list")
	}
	return nil
}

func lookupLabel(titles TitleSource, link string, form LinkForm) string {
	if form == FormExternal {
		return link
	}
	if titles != nil {
		if title, ok := titles.Title(link); ok && title != "" {
			return title
		}
	}
	return fallbackLabel(link)
}

// fallbackLabel derives a label from the last path segment.
func fallbackLabel(link string) string {
	p, _ := splitSuffix(link)
	base := path.Base(strings.TrimSuffix(p, "/"))
	base = strings.TrimSuffix(base, ".html")
	if base == "" || base == "/" || base == "." {
		return link
	}
	return base
}

func itemName(text, link string, index int) string {
	switch {
	case text != "":
		return text
	case link != "":
		return link
	default:
		return "#" + strconv.Itoa(index)
	}
}

func extend(trail []string, name string) []string {
	next := make([]string, len(trail), len(trail)+1)
	copy(next, trail)
	return append(next, name)
}

// NavbarRoutes lists the internal leaves of the navbar in display order.
func NavbarRoutes(entries []NavEntry) []Route {
	return navbarRoutes(nil, nil, entries)
}

func navbarRoutes(routes []Route, trail []string, entries []NavEntry) []Route {
	for _, e := range entries {
		if !e.IsLeaf() {
			routes = navbarRoutes(routes, extend(trail, e.Label), e.Children)
			continue
		}
		if IsExternal(e.Link) {
			continue
		}
		routes = append(routes, Route{Path: e.Link, Label: e.Label, Trail: extend(trail, e.Label)})
	}
	return routes
}
