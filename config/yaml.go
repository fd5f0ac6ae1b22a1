package config

// config/yaml.go

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v2"
)

const (
	LinkStyleRelative  = "relative"
	LinkStyleQualified = "qualified"
)

type SiteManifest struct {
	Site    SiteConfig    `yaml:"site"`
	Navbar  []NavItem     `yaml:"navbar"`
	Sidebar SidebarScopes `yaml:"sidebar"`
}

type SiteConfig struct {
	Title          string     `yaml:"title"`
	Description    string     `yaml:"description"`
	Lang           string     `yaml:"lang"`
	Base           string     `yaml:"base"`
	ShouldPrefetch bool       `yaml:"should_prefetch"`
	PWA            bool       `yaml:"pwa"`
	LinkStyle      string     `yaml:"link_style"`
	Analytics      *Analytics `yaml:"analytics"`
	Head           []HeadTag  `yaml:"head"`
}

type Analytics struct {
	Provider string `yaml:"provider"`
	ID       string `yaml:"id"`
}

// HeadTag is one element injected into every page head.
type HeadTag struct {
	Tag     string
	Attrs   []Attr
	Content string
}

type Attr struct {
	Key   string
	Value string
}

func (h *HeadTag) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var raw struct {
		Tag     string        `yaml:"tag"`
		Attrs   yaml.MapSlice `yaml:"attrs"`
		Content string        `yaml:"content"`
	}
	if err := unmarshal(&raw); err != nil {
		return err
	}

	tag := HeadTag{Tag: raw.Tag, Content: raw.Content}
	for _, item := range raw.Attrs {
		key, ok := item.Key.(string)
		if !ok {
			return errors.Errorf("head tag %q: attribute name %v must be a string", raw.Tag, item.Key)
		}
		value := ""
		if item.Value != nil {
			value = fmt.Sprint(item.Value)
		}
		tag.Attrs = append(tag.Attrs, Attr{Key: key, Value: value})
	}

	*h = tag
	return nil
}

// NavItem is a navbar entry as written in the manifest. A bare string is a
// shorthand leaf whose label comes from the linked page.
type NavItem struct {
	Text     string
	Icon     string
	Link     string
	Prefix   string
	Children []NavItem

	// HasChildren is set when a children key was present, even if empty.
	HasChildren bool
	Shorthand   bool
}

func (n *NavItem) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var link string
	if err := unmarshal(&link); err == nil {
		*n = NavItem{Link: link, Shorthand: true}
		return nil
	}

	var raw struct {
		Text     string     `yaml:"text"`
		Icon     string     `yaml:"icon"`
		Link     string     `yaml:"link"`
		Prefix   string     `yaml:"prefix"`
		Children *[]NavItem `yaml:"children"`
	}
	if err := unmarshal(&raw); err != nil {
		return err
	}

	*n = NavItem{
		Text:   raw.Text,
		Icon:   raw.Icon,
		Link:   raw.Link,
		Prefix: raw.Prefix,
	}
	if raw.Children != nil {
		n.Children = *raw.Children
		n.HasChildren = true
	}
	return nil
}

type SidebarItem struct {
	Text        string
	Icon        string
	Link        string
	Prefix      string
	Collapsible bool
	Children    []SidebarItem

	HasChildren bool
	Shorthand   bool
}

func (s *SidebarItem) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var link string
	if err := unmarshal(&link); err == nil {
		*s = SidebarItem{Link: link, Shorthand: true}
		return nil
	}

	var raw struct {
		Text        string         `yaml:"text"`
		Icon        string         `yaml:"icon"`
		Link        string         `yaml:"link"`
		Prefix      string         `yaml:"prefix"`
		Collapsible bool           `yaml:"collapsible"`
		Children    *[]SidebarItem `yaml:"children"`
	}
	if err := unmarshal(&raw); err != nil {
		return err
	}

	*s = SidebarItem{
		Text:        raw.Text,
		Icon:        raw.Icon,
		Link:        raw.Link,
		Prefix:      raw.Prefix,
		Collapsible: raw.Collapsible,
	}
	if raw.Children != nil {
		s.Children = *raw.Children
		s.HasChildren = true
	}
	return nil
}

// SidebarScope binds a path prefix to the sections shown under it.
type SidebarScope struct {
	Scope string
	Items []SidebarItem
}

// SidebarScopes keeps the manifest order of the sidebar mapping. Duplicate
// keys are kept so the sidebar builder can report them.
type SidebarScopes []SidebarScope

func (s *SidebarScopes) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var raw yaml.MapSlice
	if err := unmarshal(&raw); err != nil {
		return err
	}

	scopes := make(SidebarScopes, 0, len(raw))
	for _, entry := range raw {
		key, ok := entry.Key.(string)
		if !ok {
			return errors.Errorf("sidebar scope %v must be a string", entry.Key)
		}

		body, err := yaml.Marshal(entry.Value)
		if err != nil {
			return errors.Wrapf(err, "sidebar scope %q", key)
		}

		var items []SidebarItem
		if err := yaml.UnmarshalStrict(body, &items); err != nil {
			return errors.Wrapf(err, "sidebar scope %q", key)
		}
		scopes = append(scopes, SidebarScope{Scope: key, Items: items})
	}

	*s = scopes
	return nil
}

func LoadManifest(fs afero.Fs, filename string) (*SiteManifest, error) {
	data, err := afero.ReadFile(fs, filename)
	if err != nil {
		return nil, errors.Wrapf(err, "reading manifest %s", filename)
	}

	return ParseManifest(data)
}

func ParseManifest(data []byte) (*SiteManifest, error) {
	var manifest SiteManifest
	if err := yaml.UnmarshalStrict(data, &manifest); err != nil {
		return nil, errors.Wrap(err, "parsing manifest")
	}

	if manifest.Site.LinkStyle == "" {
		manifest.Site.LinkStyle = LinkStyleRelative
	}
	if manifest.Site.LinkStyle != LinkStyleRelative && manifest.Site.LinkStyle != LinkStyleQualified {
		return nil, errors.Errorf("unknown link_style %q, expected %q or %q",
			manifest.Site.LinkStyle, LinkStyleRelative, LinkStyleQualified)
	}

	return &manifest, nil
}
