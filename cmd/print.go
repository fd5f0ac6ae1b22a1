package cmd

import (
	"fmt"
	"io"

	"github.com/ZacxDev/langbook/nav"
	"github.com/fatih/color"
	"github.com/samber/lo"
	"github.com/xlab/treeprint"
)

var (
	faint   = color.New(color.Faint).SprintFunc()
	warning = color.New(color.FgYellow).SprintFunc()
	failure = color.New(color.FgRed).SprintFunc()
	success = color.New(color.FgGreen).SprintFunc()
)

func printDiagnostics(w io.Writer, diags []nav.Diagnostic, strict bool) {
	if len(diags) == 0 {
		fmt.Fprintln(w, success("✓ navigation is valid"))
		return
	}

	tree := treeprint.NewWithRoot(fmt.Sprintf("%d diagnostics", len(diags)))
	grouped := lo.GroupBy(diags, func(d nav.Diagnostic) string {
		return d.Code()
	})
	codes := lo.Uniq(lo.Map(diags, func(d nav.Diagnostic, _ int) string {
		return d.Code()
	}))

	paint := warning
	if strict {
		paint = failure
	}
	for _, code := range codes {
		branch := tree.AddBranch(paint(code))
		for _, d := range grouped[code] {
			branch.AddNode(fmt.Sprintf("%s %s", d.Route, faint(d.Message)))
		}
	}
	fmt.Fprintln(w, tree.String())
}

func printNavbar(w io.Writer, entries []nav.NavEntry) {
	tree := treeprint.NewWithRoot(color.New(color.Bold).Sprint("navbar"))
	addNavEntries(tree, entries)
	fmt.Fprintln(w, tree.String())
}

func addNavEntries(tree treeprint.Tree, entries []nav.NavEntry) {
	for _, e := range entries {
		if e.IsLeaf() {
			tree.AddNode(fmt.Sprintf("%s %s", e.Label, faint(e.Link)))
			continue
		}
		addNavEntries(tree.AddBranch(e.Label), e.Children)
	}
}

func printSidebar(w io.Writer, sidebar nav.Sidebar) {
	for _, scope := range sidebar.Scopes {
		tree := treeprint.NewWithRoot(color.New(color.Bold).Sprintf("sidebar %s", scope.Prefix))
		addSidebarNodes(tree, scope.Items)
		fmt.Fprintln(w, tree.String())
	}
}

func addSidebarNodes(tree treeprint.Tree, nodes []nav.SidebarNode) {
	for _, node := range nodes {
		switch n := node.(type) {
		case *nav.SidebarSection:
			addSidebarNodes(tree.AddBranch(fmt.Sprintf("%s %s", n.Label, faint(n.Prefix))), n.Children)
		case *nav.SidebarLeaf:
			tree.AddNode(fmt.Sprintf("%s %s", n.Label, faint(n.Link)))
		}
	}
}
