package config

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseManifest_NavbarShorthandAndBranches(t *testing.T) {
	t.Parallel()

	m, err := ParseManifest([]byte(`
navbar:
  - /
  - text: Guide
    prefix: /guide/
    children: [intro, {text: Setup, link: setup}]
  - text: Empty
    children: []
  - text: Home
    link: /
`))
	require.NoError(t, err)
	require.Len(t, m.Navbar, 4)

	assert.Equal(t, NavItem{Link: "/", Shorthand: true}, m.Navbar[0])

	guide := m.Navbar[1]
	assert.Equal(t, "Guide", guide.Text)
	assert.Equal(t, "/guide/", guide.Prefix)
	assert.True(t, guide.HasChildren)
	require.Len(t, guide.Children, 2)
	assert.True(t, guide.Children[0].Shorthand)
	assert.Equal(t, "intro", guide.Children[0].Link)
	assert.Equal(t, "Setup", guide.Children[1].Text)

	assert.True(t, m.Navbar[2].HasChildren)
	assert.Empty(t, m.Navbar[2].Children)

	assert.False(t, m.Navbar[3].HasChildren)
	assert.Equal(t, "/", m.Navbar[3].Link)
}

func TestParseManifest_SidebarKeepsOrder(t *testing.T) {
	t.Parallel()

	m, err := ParseManifest([]byte(`
sidebar:
  /zeta/:
    - zeta-intro
  /alpha/:
    - text: Alpha
      prefix: alpha/
      collapsible: true
      children:
        - {text: One, link: one}
        - two
`))
	require.NoError(t, err)
	require.Len(t, m.Sidebar, 2)
	assert.Equal(t, "/zeta/", m.Sidebar[0].Scope)
	assert.Equal(t, "/alpha/", m.Sidebar[1].Scope)

	require.Len(t, m.Sidebar[0].Items, 1)
	assert.Equal(t, SidebarItem{Link: "zeta-intro", Shorthand: true}, m.Sidebar[0].Items[0])

	section := m.Sidebar[1].Items[0]
	assert.Equal(t, "Alpha", section.Text)
	assert.Equal(t, "alpha/", section.Prefix)
	assert.True(t, section.Collapsible)
	assert.True(t, section.HasChildren)
	require.Len(t, section.Children, 2)
	assert.Equal(t, "one", section.Children[0].Link)
	assert.Equal(t, "two", section.Children[1].Link)
}

func TestParseManifest_HeadTags(t *testing.T) {
	t.Parallel()

	m, err := ParseManifest([]byte(`
site:
  title: Book
  head:
    - tag: meta
      attrs:
        name: viewport
        content: width=device-width
    - tag: script
      content: console.log(1)
`))
	require.NoError(t, err)
	require.Len(t, m.Site.Head, 2)
	assert.Equal(t, "meta", m.Site.Head[0].Tag)
	assert.Equal(t, []Attr{{Key: "name", Value: "viewport"}, {Key: "content", Value: "width=device-width"}}, m.Site.Head[0].Attrs)
	assert.Equal(t, "console.log(1)", m.Site.Head[1].Content)
	assert.Empty(t, m.Site.Head[1].Attrs)
}

func TestParseManifest_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		input         string
		errorContains string
	}{
		{
			name:          "unknown link style",
			input:         "site:\n  link_style: mixed\n",
			errorContains: `unknown link_style "mixed"`,
		},
		{
			name:          "unknown site field",
			input:         "site:\n  titel: Book\n",
			errorContains: "titel",
		},
		{
			name:          "children is not a list",
			input:         "navbar:\n  - text: Guide\n    children: nope\n",
			errorContains: "parsing manifest",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := ParseManifest([]byte(tt.input))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errorContains)
		})
	}
}

func TestParseManifest_DefaultLinkStyle(t *testing.T) {
	t.Parallel()

	m, err := ParseManifest([]byte("site:\n  title: Book\n"))
	require.NoError(t, err)
	assert.Equal(t, LinkStyleRelative, m.Site.LinkStyle)
}

func TestLoadManifest(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "manifest.yaml", []byte("navbar: [/]\n"), 0o644))

	m, err := LoadManifest(fs, "manifest.yaml")
	require.NoError(t, err)
	require.Len(t, m.Navbar, 1)

	_, err = LoadManifest(fs, "missing.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading manifest missing.yaml")
}

func TestLoadManifest_RepositoryManifest(t *testing.T) {
	t.Parallel()

	m, err := LoadManifest(afero.NewOsFs(), "../manifest.yaml")
	require.NoError(t, err)

	assert.Equal(t, "zh-CN", m.Site.Lang)
	assert.Equal(t, "/langbook/", m.Site.Base)
	require.Len(t, m.Sidebar, 1)
	assert.Equal(t, "/categories/frontend/web/", m.Sidebar[0].Scope)
	require.Len(t, m.Navbar, 6)
	assert.True(t, m.Navbar[0].Shorthand)
}
