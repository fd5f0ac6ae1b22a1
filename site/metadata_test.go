package site

import (
	"encoding/json"
	"testing"

	"github.com/ZacxDev/langbook/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssembleMetadata(t *testing.T) {
	t.Parallel()

	meta, err := AssembleMetadata(config.SiteConfig{
		Title:          "编程学习指南",
		Description:    "一站式编程学习平台",
		Lang:           "zh-CN",
		Base:           "langbook",
		ShouldPrefetch: true,
		Head: []config.HeadTag{
			{Tag: "link", Attrs: []config.Attr{{Key: "rel", Value: "icon"}, {Key: "href", Value: "/langbook/favicon.ico"}}},
			{Tag: "META", Attrs: []config.Attr{{Key: "http-equiv", Value: "X-UA-Compatible"}, {Key: "content", Value: "IE=edge"}}},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "编程学习指南", meta.Title)
	assert.Equal(t, "zh-CN", meta.Lang)
	assert.Equal(t, "/langbook/", meta.Base)
	assert.True(t, meta.ShouldPrefetch)
	assert.False(t, meta.PWA)
	require.Len(t, meta.Head, 2)
	assert.Equal(t, "link", meta.Head[0].Name)
	assert.Equal(t, "meta", meta.Head[1].Name)
	assert.Equal(t, "href", meta.Head[0].Attrs[1].Key)
}

func TestAssembleMetadata_Defaults(t *testing.T) {
	t.Parallel()

	meta, err := AssembleMetadata(config.SiteConfig{Title: "Book"})
	require.NoError(t, err)
	assert.Equal(t, "en-US", meta.Lang)
	assert.Equal(t, "/", meta.Base)
	assert.Empty(t, meta.Head)
}

func TestAssembleMetadata_Analytics(t *testing.T) {
	t.Parallel()

	meta, err := AssembleMetadata(config.SiteConfig{
		Analytics: &config.Analytics{Provider: "baidu", ID: "b3d8b609cfe33e63eac094170889cb8d"},
		Head:      []config.HeadTag{{Tag: "meta", Attrs: []config.Attr{{Key: "name", Value: "author"}}}},
	})
	require.NoError(t, err)
	require.Len(t, meta.Head, 2)
	assert.Equal(t, "script", meta.Head[0].Name, "analytics loader comes first")
	assert.Contains(t, meta.Head[0].Content, "https://hm.baidu.com/hm.js?b3d8b609cfe33e63eac094170889cb8d")

	meta, err = AssembleMetadata(config.SiteConfig{
		Analytics: &config.Analytics{Provider: "google", ID: "G-ABC123"},
	})
	require.NoError(t, err)
	require.Len(t, meta.Head, 2)
	assert.Equal(t, "https://www.googletagmanager.com/gtag/js?id=G-ABC123", meta.Head[0].Attrs[1].Value)
	assert.Contains(t, meta.Head[1].Content, "gtag('config', 'G-ABC123');")
}

func TestAssembleMetadata_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cfg     config.SiteConfig
		wantErr error
		message string
	}{
		{
			name:    "duplicate attribute",
			cfg:     config.SiteConfig{Head: []config.HeadTag{{Tag: "meta", Attrs: []config.Attr{{Key: "name", Value: "a"}, {Key: "NAME", Value: "b"}}}}},
			wantErr: ErrMalformedTag,
			message: `attribute "NAME" is set twice`,
		},
		{
			name:    "invalid attribute name",
			cfg:     config.SiteConfig{Head: []config.HeadTag{{Tag: "meta", Attrs: []config.Attr{{Key: "na me", Value: "a"}}}}},
			wantErr: ErrMalformedTag,
			message: `invalid attribute name "na me"`,
		},
		{
			name:    "not a head element",
			cfg:     config.SiteConfig{Head: []config.HeadTag{{Tag: "div"}}},
			wantErr: ErrMalformedTag,
			message: `"div" is not a head element`,
		},
		{
			name:    "invalid tag name",
			cfg:     config.SiteConfig{Head: []config.HeadTag{{Tag: "<script>"}}},
			wantErr: ErrMalformedTag,
			message: "is not a head element",
		},
		{
			name:    "void element with content",
			cfg:     config.SiteConfig{Head: []config.HeadTag{{Tag: "meta", Content: "x"}}},
			wantErr: ErrMalformedTag,
			message: "<meta> cannot have content",
		},
		{
			name:    "bad lang",
			cfg:     config.SiteConfig{Lang: "not a language"},
			wantErr: ErrMalformedMetadata,
			message: "BCP 47",
		},
		{
			name:    "external base",
			cfg:     config.SiteConfig{Base: "https://example.com/langbook/"},
			wantErr: ErrMalformedMetadata,
			message: "must be a path",
		},
		{
			name:    "unknown analytics provider",
			cfg:     config.SiteConfig{Analytics: &config.Analytics{Provider: "matomo", ID: "1"}},
			wantErr: ErrMalformedMetadata,
			message: `unknown analytics provider "matomo"`,
		},
		{
			name:    "bad analytics id",
			cfg:     config.SiteConfig{Analytics: &config.Analytics{Provider: "baidu", ID: `x"+alert(1)+"`}},
			wantErr: ErrMalformedMetadata,
			message: "analytics id",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := AssembleMetadata(tt.cfg)
			require.ErrorIs(t, err, tt.wantErr)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestAssembleMetadata_CollectsAllErrors(t *testing.T) {
	t.Parallel()

	_, err := AssembleMetadata(config.SiteConfig{
		Lang: "??",
		Head: []config.HeadTag{{Tag: "div"}, {Tag: "meta", Content: "x"}},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedMetadata)
	assert.ErrorIs(t, err, ErrMalformedTag)
	assert.Contains(t, err.Error(), "head[0]")
	assert.Contains(t, err.Error(), "head[1]")
}

func TestHeadTag_MarshalJSON(t *testing.T) {
	t.Parallel()

	tags := []HeadTag{
		{Name: "meta", Attrs: []config.Attr{{Key: "name", Value: "viewport"}, {Key: "content", Value: "width=device-width"}}},
		{Name: "script", Content: "var _hmt = [];"},
	}

	out, err := json.Marshal(tags)
	require.NoError(t, err)
	assert.Equal(t,
		`[["meta",{"name":"viewport","content":"width=device-width"}],["script",{},"var _hmt = [];"]]`,
		string(out))
}

func TestRenderHead(t *testing.T) {
	t.Parallel()

	tags := []HeadTag{
		{Name: "meta", Attrs: []config.Attr{{Key: "content", Value: `default-src 'self' "x"`}}},
		{Name: "title", Content: "A & B"},
		{Name: "script", Content: "if (a < b) {}"},
	}

	assert.Equal(t,
		"<meta content=\"default-src &#39;self&#39; &#34;x&#34;\">\n"+
			"<title>A &amp; B</title>\n"+
			"<script>if (a < b) {}</script>",
		string(RenderHead(tags)))
}
