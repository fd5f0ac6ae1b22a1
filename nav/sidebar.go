package nav

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ZacxDev/langbook/config"
	"go.uber.org/multierr"
)

// SidebarNode is either a *SidebarSection or a *SidebarLeaf.
type SidebarNode interface {
	sidebarNode()
}

type SidebarSection struct {
	Label string `json:"text"`
	Icon  string `json:"icon,omitempty"`
	// Prefix is the accumulated absolute prefix of the section. Children
	// links are already resolved, so it is not part of the wire format.
	Prefix      string        `json:"-"`
	Collapsible bool          `json:"collapsible,omitempty"`
	Children    []SidebarNode `json:"children"`
}

type SidebarLeaf struct {
	Label string `json:"text"`
	Icon  string `json:"icon,omitempty"`
	Link  string `json:"link"`
}

func (*SidebarSection) sidebarNode() {}
func (*SidebarLeaf) sidebarNode()    {}

// Scope is the sidebar shown while the visitor is under Prefix.
type Scope struct {
	Prefix string
	Items  []SidebarNode
}

type Sidebar struct {
	Scopes []Scope
}

// Route is a resolved internal leaf of the sidebar or navbar.
type Route struct {
	Path  string
	Label string
	Scope string
	Trail []string
}

// ScopeFor returns the scope with the longest prefix containing p.
func (s Sidebar) ScopeFor(p string) (Scope, bool) {
	var (
		best  Scope
		found bool
	)
	for _, scope := range s.Scopes {
		if !Under(p, scope.Prefix) && Clean(p) != strings.TrimSuffix(scope.Prefix, "/") {
			continue
		}
		if !found || len(scope.Prefix) > len(best.Prefix) {
			best, found = scope, true
		}
	}
	return best, found
}

// Routes lists every internal leaf in sidebar order.
func (s Sidebar) Routes() []Route {
	var routes []Route
	for _, scope := range s.Scopes {
		routes = collectRoutes(routes, scope.Prefix, []string{scope.Prefix}, scope.Items)
	}
	return routes
}

func collectRoutes(routes []Route, scope string, trail []string, nodes []SidebarNode) []Route {
	for _, node := range nodes {
		switch n := node.(type) {
		case *SidebarSection:
			routes = collectRoutes(routes, scope, extend(trail, n.Label), n.Children)
		case *SidebarLeaf:
			if IsExternal(n.Link) {
				continue
			}
			routes = append(routes, Route{Path: n.Link, Label: n.Label, Scope: scope, Trail: extend(trail, n.Label)})
		}
	}
	return routes
}

// MarshalJSON writes the sidebar as an object keyed by scope, in manifest
// order.
func (s Sidebar) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, scope := range s.Scopes {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(scope.Prefix)
		if err != nil {
			return nil, err
		}
		items := scope.Items
		if items == nil {
			items = []SidebarNode{}
		}
		value, err := json.Marshal(items)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// BuildSidebar validates the sidebar descriptors and resolves every leaf to
// its final absolute path. Leaves must resolve to distinct paths across the
// whole sidebar.
func BuildSidebar(scopes config.SidebarScopes, opts Options) (Sidebar, []Diagnostic, error) {
	b := &sidebarBuilder{
		opts:   opts,
		routes: make(map[string][]string),
		scopes: make(map[string]string),
	}

	sidebar := Sidebar{Scopes: make([]Scope, 0, len(scopes))}
	for _, s := range scopes {
		key := CleanPrefix(s.Scope)
		if prev, ok := b.scopes[key]; ok {
			b.err = multierr.Append(b.err, &EntryError{
				Kind:   ErrDuplicateScope,
				Trail:  []string{s.Scope},
				Detail: fmt.Sprintf("scope %s is already declared as %q", key, prev),
			})
			continue
		}
		b.scopes[key] = s.Scope

		items := b.nodes(key, RootChain(key), []string{key}, s.Items)
		sidebar.Scopes = append(sidebar.Scopes, Scope{Prefix: key, Items: items})
	}

	if b.err != nil {
		return Sidebar{}, nil, b.err
	}
	return sidebar, b.diags, nil
}

type sidebarBuilder struct {
	opts   Options
	routes map[string][]string
	scopes map[string]string
	diags  []Diagnostic
	err    error
}

func (b *sidebarBuilder) nodes(scope string, chain Chain, trail []string, items []config.SidebarItem) []SidebarNode {
	nodes := make([]SidebarNode, 0, len(items))
	for i, item := range items {
		node := b.node(scope, chain, extend(trail, itemName(item.Text, item.Link, i)), item)
		if node != nil {
			nodes = append(nodes, node)
		}
	}
	return nodes
}

func (b *sidebarBuilder) node(scope string, chain Chain, trail []string, item config.SidebarItem) SidebarNode {
	if err := checkShape(trail, item.Link != "", item.HasChildren, len(item.Children)); err != nil {
		b.err = multierr.Append(b.err, err)
		return nil
	}
	if IsExternal(item.Prefix) {
		b.err = multierr.Append(b.err, malformed(trail, "prefix %q must be a site path", item.Prefix))
		return nil
	}

	chain = chain.Descend(item.Prefix)
	if item.HasChildren {
		if item.Text == "" {
			b.err = multierr.Append(b.err, malformed(trail, "section has no text"))
			return nil
		}
		return &SidebarSection{
			Label:       item.Text,
			Icon:        item.Icon,
			Prefix:      chain.Current(),
			Collapsible: item.Collapsible,
			Children:    b.nodes(scope, chain, trail, item.Children),
		}
	}

	link, form := chain.Resolve(item.Link)
	label := item.Text
	if label == "" {
		label = lookupLabel(b.opts.Titles, link, form)
	}
	if form == FormExternal {
		return &SidebarLeaf{Label: label, Icon: item.Icon, Link: link}
	}

	key := PageKey(link)
	if prev, ok := b.routes[key]; ok {
		b.err = multierr.Append(b.err, &EntryError{
			Kind:   ErrDuplicateRoute,
			Trail:  trail,
			Detail: fmt.Sprintf("%s is already linked from %s", link, strings.Join(prev, " > ")),
		})
		return nil
	}
	b.routes[key] = trail

	b.checkStyle(chain, trail, item.Link, link, form)
	if !Under(link, scope) {
		b.diags = append(b.diags, Diagnostic{
			Kind:     ErrOutOfScope,
			Severity: SeverityWarning,
			Route:    link,
			Trail:    trail,
			Message:  fmt.Sprintf("link leaves the %s sidebar", scope),
		})
	}

	return &SidebarLeaf{Label: label, Icon: item.Icon, Link: link}
}

// checkStyle validates a leaf against the single link convention chosen for
// the site. Pre-qualified links always get a warning: they resolve, but
// only because the prefix was detected and not doubled.
func (b *sidebarBuilder) checkStyle(chain Chain, trail []string, raw, resolved string, form LinkForm) {
	var message string
	switch {
	case form == FormPrequalified:
		message = fmt.Sprintf("%q repeats the inherited prefix %s, write %q", raw, chain.Current(), strings.TrimPrefix(resolved, chain.Current()))
		if b.opts.LinkStyle == config.LinkStyleQualified {
			message = fmt.Sprintf("%q repeats the inherited prefix %s, write %q", raw, chain.Current(), resolved)
		}
	case b.opts.LinkStyle == config.LinkStyleQualified && form == FormRelative:
		message = fmt.Sprintf("%q is relative to %s, write %q", raw, chain.Current(), resolved)
	case b.opts.LinkStyle != config.LinkStyleQualified && form == FormAbsolute && len(chain) > 1:
		if Under(resolved, chain.Current()) {
			message = fmt.Sprintf("%q is fully qualified inside %s, write %q", raw, chain.Current(), strings.TrimPrefix(resolved, chain.Current()))
		}
	}
	if message == "" {
		return
	}

	b.diags = append(b.diags, Diagnostic{
		Kind:     ErrLinkStyle,
		Severity: SeverityWarning,
		Route:    resolved,
		Trail:    trail,
		Message:  message,
	})
}
