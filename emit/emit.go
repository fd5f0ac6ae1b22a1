// Package emit writes the assembled site in the configuration format of the
// external generator (vuepress with vuepress-theme-hope).
package emit

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ZacxDev/langbook/nav"
	"github.com/ZacxDev/langbook/site"
	"github.com/evanw/esbuild/pkg/api"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"go.uber.org/multierr"
)

const (
	NavbarFile  = "navbar.ts"
	SidebarFile = "sidebar.ts"
	ConfigFile  = "config.ts"
	SiteFile    = "site.json"
)

type File struct {
	Name     string
	Contents []byte
}

// Files renders every generator file for s.
func Files(s *site.Site) ([]File, error) {
	navbar, err := Navbar(s.Navbar)
	if err != nil {
		return nil, err
	}
	sidebar, err := Sidebar(s.Sidebar)
	if err != nil {
		return nil, err
	}
	config, err := Config(s.Metadata)
	if err != nil {
		return nil, err
	}
	meta, err := SiteJSON(s.Metadata)
	if err != nil {
		return nil, err
	}
	return []File{navbar, sidebar, config, meta}, nil
}

func Navbar(entries []nav.NavEntry) (File, error) {
	if entries == nil {
		entries = []nav.NavEntry{}
	}
	body, err := marshal(entries)
	if err != nil {
		return File{}, errors.Wrap(err, "encoding navbar")
	}

	var buf bytes.Buffer
	buf.WriteString("import { navbar } from \"vuepress-theme-hope\";\n\n")
	fmt.Fprintf(&buf, "export default navbar(%s);\n", body)
	return File{Name: NavbarFile, Contents: buf.Bytes()}, nil
}

// Sidebar writes every leaf with its resolved absolute link, so the emitted
// file carries no prefixes.
func Sidebar(s nav.Sidebar) (File, error) {
	body, err := marshal(s)
	if err != nil {
		return File{}, errors.Wrap(err, "encoding sidebar")
	}

	var buf bytes.Buffer
	buf.WriteString("import { sidebar } from \"vuepress-theme-hope\";\n\n")
	fmt.Fprintf(&buf, "export default sidebar(%s);\n", body)
	return File{Name: SidebarFile, Contents: buf.Bytes()}, nil
}

func Config(meta site.Metadata) (File, error) {
	head := meta.Head
	if head == nil {
		head = []site.HeadTag{}
	}

	fields := []struct {
		key   string
		value interface{}
	}{
		{"base", meta.Base},
		{"lang", meta.Lang},
		{"title", meta.Title},
		{"description", meta.Description},
		{"head", head},
		{"shouldPrefetch", meta.ShouldPrefetch},
	}

	var buf bytes.Buffer
	buf.WriteString("import { defineUserConfig } from \"vuepress\";\n\n")
	buf.WriteString("import theme from \"./theme.js\";\n\n")
	buf.WriteString("export default defineUserConfig({\n")
	for _, f := range fields {
		value, err := marshal(f.value)
		if err != nil {
			return File{}, errors.Wrapf(err, "encoding %s", f.key)
		}
		fmt.Fprintf(&buf, "  %s: %s,\n", f.key, indent(value, "  "))
		if f.key == "description" {
			buf.WriteString("  theme,\n")
		}
	}
	buf.WriteString("});\n")
	return File{Name: ConfigFile, Contents: buf.Bytes()}, nil
}

// SiteJSON carries the flags the theme configuration reads, e.g. pwa.
func SiteJSON(meta site.Metadata) (File, error) {
	body, err := marshal(map[string]interface{}{
		"title":          meta.Title,
		"description":    meta.Description,
		"lang":           meta.Lang,
		"base":           meta.Base,
		"pwa":            meta.PWA,
		"shouldPrefetch": meta.ShouldPrefetch,
	})
	if err != nil {
		return File{}, errors.Wrap(err, "encoding site metadata")
	}
	return File{Name: SiteFile, Contents: append(body, '\n')}, nil
}

// Check parses a TypeScript file with esbuild so a broken file never reaches
// the generator.
func Check(f File) error {
	if filepath.Ext(f.Name) != ".ts" {
		return nil
	}

	result := api.Transform(string(f.Contents), api.TransformOptions{
		Loader:     api.LoaderTS,
		Sourcefile: f.Name,
		Format:     api.FormatESModule,
	})
	if len(result.Errors) == 0 {
		return nil
	}

	messages := api.FormatMessages(result.Errors, api.FormatMessagesOptions{Kind: api.ErrorMessage})
	return errors.Errorf("%s does not parse:\n%s", f.Name, strings.Join(messages, ""))
}

// Write writes files into dir. Nothing is written unless every file passes
// Check.
func Write(fs afero.Fs, dir string, files []File) error {
	var checkErr error
	for _, f := range files {
		checkErr = multierr.Append(checkErr, Check(f))
	}
	if checkErr != nil {
		return checkErr
	}

	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return errors.WithStack(err)
	}
	for _, f := range files {
		if err := afero.WriteFile(fs, filepath.Join(dir, f.Name), f.Contents, 0o644); err != nil {
			return errors.Wrapf(err, "failed to write %s", f.Name)
		}
	}
	return nil
}

func marshal(v interface{}) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func indent(b []byte, prefix string) string {
	return strings.ReplaceAll(string(b), "\n", "\n"+prefix)
}
