package handlers

import (
	"github.com/ZacxDev/langbook/nav"
)

// navItem and sidebarRow flatten the navigation trees for the layout, which
// cannot recurse.
type navItem struct {
	Label  string
	Link   string
	Active bool
	Rows   []sidebarRow
}

type sidebarRow struct {
	Label   string
	Link    string
	Depth   int
	Section bool
	Active  bool
}

func navItems(entries []nav.NavEntry, current string) []navItem {
	items := make([]navItem, 0, len(entries))
	for _, e := range entries {
		item := navItem{Label: e.Label, Link: e.Link, Active: isActive(e.Link, current)}
		if !e.IsLeaf() {
			item.Rows = navRows(nil, e.Children, 0, current)
			for _, row := range item.Rows {
				item.Active = item.Active || row.Active
			}
		}
		items = append(items, item)
	}
	return items
}

func navRows(rows []sidebarRow, entries []nav.NavEntry, depth int, current string) []sidebarRow {
	for _, e := range entries {
		rows = append(rows, sidebarRow{
			Label:   e.Label,
			Link:    e.Link,
			Depth:   depth,
			Section: !e.IsLeaf(),
			Active:  isActive(e.Link, current),
		})
		if !e.IsLeaf() {
			rows = navRows(rows, e.Children, depth+1, current)
		}
	}
	return rows
}

func sidebarRows(rows []sidebarRow, nodes []nav.SidebarNode, depth int, current string) []sidebarRow {
	for _, node := range nodes {
		switch n := node.(type) {
		case *nav.SidebarSection:
			rows = append(rows, sidebarRow{Label: n.Label, Depth: depth, Section: true})
			rows = sidebarRows(rows, n.Children, depth+1, current)
		case *nav.SidebarLeaf:
			rows = append(rows, sidebarRow{Label: n.Label, Link: n.Link, Depth: depth, Active: isActive(n.Link, current)})
		}
	}
	return rows
}

func isActive(link, current string) bool {
	if link == "" || nav.IsExternal(link) {
		return false
	}
	return nav.Clean(nav.PagePath(link)) == nav.Clean(current)
}

type diagnosticView struct {
	Severity string   `json:"severity"`
	Code     string   `json:"code"`
	Route    string   `json:"route"`
	Trail    []string `json:"trail"`
	Message  string   `json:"message"`
}

func diagnosticViews(diags []nav.Diagnostic) []diagnosticView {
	views := make([]diagnosticView, 0, len(diags))
	for _, d := range diags {
		views = append(views, diagnosticView{
			Severity: d.Severity.String(),
			Code:     d.Code(),
			Route:    d.Route,
			Trail:    d.Trail,
			Message:  d.Message,
		})
	}
	return views
}
