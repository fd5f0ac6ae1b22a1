package utils

import (
	"encoding/xml"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var buildDate = time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC)

func TestGenerateSitemapContent(t *testing.T) {
	t.Parallel()

	routes := []string{
		"/",
		"/categories/frontend/web/css/grid",
		"/categories/frontend/web/css/grid#areas",
		"/faq/?tab=1",
		"/categories/frontend/web/javascript/closure",
		"/faq/",
	}

	out, err := GenerateSitemapContent("https://flow-zy.github.io/", "/langbook/", routes, buildDate)
	require.NoError(t, err)

	var sitemap Sitemap
	require.NoError(t, xml.Unmarshal(out, &sitemap))
	assert.Equal(t, sitemapXmlns, sitemap.Xmlns)

	locs := make([]string, 0, len(sitemap.Urls))
	for _, u := range sitemap.Urls {
		locs = append(locs, u.Loc)
		assert.Equal(t, "2026-10-19", u.LastMod)
	}
	assert.Equal(t, []string{
		"https://flow-zy.github.io/langbook/",
		"https://flow-zy.github.io/langbook/categories/frontend/web/css/grid",
		"https://flow-zy.github.io/langbook/faq/",
		"https://flow-zy.github.io/langbook/categories/frontend/web/javascript/closure",
	}, locs)
}

func TestGenerateSitemapContent_RootBase(t *testing.T) {
	t.Parallel()

	out, err := GenerateSitemapContent("https://example.com", "/", []string{"/guide/"}, buildDate)
	require.NoError(t, err)
	assert.Contains(t, string(out), "<loc>https://example.com/guide/</loc>")
}

func TestGenerateSitemaps(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	require.NoError(t, GenerateSitemaps(fs, "out", "https://example.com", "/", []string{"/"}, buildDate))

	data, err := afero.ReadFile(fs, "out/sitemap.xml")
	require.NoError(t, err)
	assert.Contains(t, string(data), xml.Header)
	assert.Contains(t, string(data), `<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">`)
}
