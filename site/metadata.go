package site

import (
	"encoding/json"
	"fmt"
	"html"
	"html/template"
	"regexp"
	"strings"

	"github.com/ZacxDev/langbook/config"
	"github.com/ZacxDev/langbook/nav"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"golang.org/x/text/language"
)

var (
	ErrMalformedTag      = errors.New("malformed head tag")
	ErrMalformedMetadata = errors.New("malformed site metadata")
)

const defaultLang = "en-US"

var (
	tagNameRegex = regexp.MustCompile(`^[a-z][a-z0-9-]*$`)
	attrKeyRegex = regexp.MustCompile(`^[A-Za-z_:][-A-Za-z0-9_:.]*$`)

	headElements = map[string]bool{
		"base": true, "link": true, "meta": true, "noscript": true,
		"script": true, "style": true, "title": true,
	}
	voidElements = map[string]bool{"base": true, "link": true, "meta": true}
)

// Metadata is everything the generator needs besides the navigation.
type Metadata struct {
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Lang           string    `json:"lang"`
	Base           string    `json:"base"`
	Head           []HeadTag `json:"head"`
	ShouldPrefetch bool      `json:"shouldPrefetch"`
	PWA            bool      `json:"pwa"`
}

type HeadTag struct {
	Name    string
	Attrs   []config.Attr
	Content string
}

// MarshalJSON writes the generator's tuple form: [name, attrs] or
// [name, attrs, content].
func (h HeadTag) MarshalJSON() ([]byte, error) {
	name, err := json.Marshal(h.Name)
	if err != nil {
		return nil, err
	}

	var buf strings.Builder
	buf.WriteByte('[')
	buf.Write(name)
	buf.WriteString(",{")
	for i, attr := range h.Attrs {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, _ := json.Marshal(attr.Key)
		value, _ := json.Marshal(attr.Value)
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	if h.Content != "" {
		content, err := json.Marshal(h.Content)
		if err != nil {
			return nil, err
		}
		buf.WriteByte(',')
		buf.Write(content)
	}
	buf.WriteByte(']')
	return []byte(buf.String()), nil
}

func (h HeadTag) HTML() template.HTML {
	var buf strings.Builder
	buf.WriteString("<" + h.Name)
	for _, attr := range h.Attrs {
		fmt.Fprintf(&buf, ` %s="%s"`, attr.Key, html.EscapeString(attr.Value))
	}
	buf.WriteString(">")
	if voidElements[h.Name] {
		return template.HTML(buf.String())
	}

	if h.Name == "title" {
		buf.WriteString(html.EscapeString(h.Content))
	} else {
		buf.WriteString(h.Content)
	}
	buf.WriteString("</" + h.Name + ">")
	return template.HTML(buf.String())
}

// RenderHead renders the head tags in order, one per line.
func RenderHead(tags []HeadTag) template.HTML {
	lines := make([]string, 0, len(tags))
	for _, tag := range tags {
		lines = append(lines, string(tag.HTML()))
	}
	return template.HTML(strings.Join(lines, "\n"))
}

// AssembleMetadata merges the site settings with the head tags.
func AssembleMetadata(cfg config.SiteConfig) (Metadata, error) {
	var err error

	meta := Metadata{
		Title:          cfg.Title,
		Description:    cfg.Description,
		Lang:           cfg.Lang,
		ShouldPrefetch: cfg.ShouldPrefetch,
		PWA:            cfg.PWA,
	}

	if meta.Lang == "" {
		meta.Lang = defaultLang
	}
	if _, parseErr := language.Parse(meta.Lang); parseErr != nil {
		err = multierr.Append(err, errors.Wrapf(ErrMalformedMetadata, "lang %q is not a BCP 47 tag", meta.Lang))
	}

	if nav.IsExternal(cfg.Base) {
		err = multierr.Append(err, errors.Wrapf(ErrMalformedMetadata, "base %q must be a path", cfg.Base))
	} else {
		meta.Base = nav.CleanPrefix(cfg.Base)
	}

	if cfg.Analytics != nil {
		tags, analyticsErr := analyticsTags(*cfg.Analytics)
		err = multierr.Append(err, analyticsErr)
		meta.Head = append(meta.Head, tags...)
	}

	for i, tag := range cfg.Head {
		head, tagErr := headTag(i, tag)
		if tagErr != nil {
			err = multierr.Append(err, tagErr)
			continue
		}
		meta.Head = append(meta.Head, head)
	}

	if err != nil {
		return Metadata{}, err
	}
	return meta, nil
}

func headTag(index int, tag config.HeadTag) (HeadTag, error) {
	name := strings.ToLower(tag.Tag)
	if !tagNameRegex.MatchString(name) || !headElements[name] {
		return HeadTag{}, errors.Wrapf(ErrMalformedTag, "head[%d]: %q is not a head element", index, tag.Tag)
	}
	if voidElements[name] && tag.Content != "" {
		return HeadTag{}, errors.Wrapf(ErrMalformedTag, "head[%d]: <%s> cannot have content", index, name)
	}

	seen := make(map[string]bool, len(tag.Attrs))
	for _, attr := range tag.Attrs {
		if !attrKeyRegex.MatchString(attr.Key) {
			return HeadTag{}, errors.Wrapf(ErrMalformedTag, "head[%d] <%s>: invalid attribute name %q", index, name, attr.Key)
		}
		key := strings.ToLower(attr.Key)
		if seen[key] {
			return HeadTag{}, errors.Wrapf(ErrMalformedTag, "head[%d] <%s>: attribute %q is set twice", index, name, attr.Key)
		}
		seen[key] = true
	}

	return HeadTag{Name: name, Attrs: tag.Attrs, Content: tag.Content}, nil
}

const baiduLoader = `var _hmt = _hmt || [];
(function() {
  var hm = document.createElement("script");
  hm.src = "https://hm.baidu.com/hm.js?%s";
  var s = document.getElementsByTagName("script")[0];
  s.parentNode.insertBefore(hm, s);
})();`

const gtagLoader = `window.dataLayer = window.dataLayer || [];
function gtag(){dataLayer.push(arguments);}
gtag('js', new Date());
gtag('config', '%s');`

var analyticsIDRegex = regexp.MustCompile(`^[A-Za-z0-9-]+$`)

func analyticsTags(a config.Analytics) ([]HeadTag, error) {
	if !analyticsIDRegex.MatchString(a.ID) {
		return nil, errors.Wrapf(ErrMalformedMetadata, "analytics id %q is invalid", a.ID)
	}

	switch a.Provider {
	case "baidu":
		return []HeadTag{{Name: "script", Content: fmt.Sprintf(baiduLoader, a.ID)}}, nil
	case "google":
		return []HeadTag{
			{Name: "script", Attrs: []config.Attr{
				{Key: "async", Value: ""},
				{Key: "src", Value: "https://www.googletagmanager.com/gtag/js?id=" + a.ID},
			}},
			{Name: "script", Content: fmt.Sprintf(gtagLoader, a.ID)},
		}, nil
	default:
		return nil, errors.Wrapf(ErrMalformedMetadata, "unknown analytics provider %q", a.Provider)
	}
}
