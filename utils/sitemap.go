package utils

import (
	"encoding/xml"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/spf13/afero"
)

const sitemapXmlns = "http://www.sitemaps.org/schemas/sitemap/0.9"

type Sitemap struct {
	XMLName xml.Name `xml:"urlset"`
	Xmlns   string   `xml:"xmlns,attr"`
	Urls    []Url    `xml:"url"`
}

type Url struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod,omitempty"`
	ChangeFreq string `xml:"changefreq,omitempty"`
	Priority   string `xml:"priority,omitempty"`
}

// GenerateSitemaps writes sitemap.xml into dir.
func GenerateSitemaps(fs afero.Fs, dir, origin, base string, routes []string, now time.Time) error {
	xmlOutput, err := GenerateSitemapContent(origin, base, routes, now)
	if err != nil {
		return err
	}

	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return errors.WithStack(err)
	}
	content := append([]byte(xml.Header), xmlOutput...)
	return errors.WithStack(afero.WriteFile(fs, filepath.Join(dir, "sitemap.xml"), content, 0o644))
}

// GenerateSitemapContent lists every route once, in the given order. Routes
// are site paths; origin and base are prepended. Fragments are dropped.
func GenerateSitemapContent(origin, base string, routes []string, now time.Time) ([]byte, error) {
	sitemap := Sitemap{
		Xmlns: sitemapXmlns,
	}

	origin = strings.TrimSuffix(origin, "/")
	base = strings.TrimSuffix(base, "/")
	lastMod := now.Format("2006-01-02")

	locs := lo.Uniq(lo.Map(routes, func(route string, _ int) string {
		if i := strings.IndexAny(route, "?#"); i >= 0 {
			route = route[:i]
		}
		return origin + base + route
	}))
	for _, loc := range locs {
		sitemap.Urls = append(sitemap.Urls, Url{
			Loc:     loc,
			LastMod: lastMod,
		})
	}

	xmlOutput, err := xml.MarshalIndent(sitemap, "", "  ")
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return xmlOutput, nil
}
