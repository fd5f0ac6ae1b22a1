package nav

import (
	"path"
	"slices"
	"strings"
)

// LinkForm tells how a link was written relative to the section holding it.
type LinkForm int

const (
	// FormRelative links are joined to the nearest prefix.
	FormRelative LinkForm = iota
	// FormPrequalified links are relative but already carry part of the
	// inherited prefix, e.g. "css/grid" inside the "/css/" section.
	FormPrequalified
	FormAbsolute
	FormExternal
)

func (f LinkForm) String() string {
	switch f {
	case FormRelative:
		return "relative"
	case FormPrequalified:
		return "pre-qualified"
	case FormAbsolute:
		return "absolute"
	default:
		return "external"
	}
}

// IsExternal reports whether link points outside the site: it carries a URL
// scheme (https:, mailto:) or is protocol-relative.
func IsExternal(link string) bool {
	if strings.HasPrefix(link, "//") {
		return true
	}

	i := strings.Index(link, ":")
	if i <= 0 || strings.ContainsAny(link[:i], "/?#") {
		return false
	}
	for j, r := range link[:i] {
		isLetter := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
		if j == 0 && !isLetter {
			return false
		}
		if !isLetter && !(r >= '0' && r <= '9') && r != '+' && r != '-' && r != '.' {
			return false
		}
	}
	return true
}

func splitSuffix(link string) (string, string) {
	if i := strings.IndexAny(link, "?#"); i >= 0 {
		return link[:i], link[i:]
	}
	return link, ""
}

// Clean normalizes an internal link to an absolute path. A trailing slash,
// query and fragment survive.
func Clean(link string) string {
	p, suffix := splitSuffix(link)
	dir := strings.HasSuffix(p, "/") || p == ""
	cleaned := path.Clean("/" + p)
	if dir && cleaned != "/" {
		cleaned += "/"
	}
	return cleaned + suffix
}

// CleanPrefix normalizes a prefix to "/segment/" form.
func CleanPrefix(prefix string) string {
	p, _ := splitSuffix(prefix)
	cleaned := path.Clean("/" + p)
	if cleaned != "/" {
		cleaned += "/"
	}
	return cleaned
}

// PagePath drops the query and fragment of link.
func PagePath(link string) string {
	p, _ := splitSuffix(link)
	return p
}

// PageKey identifies the page an internal link opens. "grid", "grid.html"
// and "grid.md" open the same page, as do "flex/" and "flex/README.md".
// The fragment stays part of the key.
func PageKey(link string) string {
	p, suffix := splitSuffix(Clean(link))
	if strings.HasSuffix(p, "/") {
		return p + suffix
	}

	dir, file := path.Split(p)
	for _, ext := range []string{".html", ".md"} {
		if strings.HasSuffix(file, ext) {
			file = strings.TrimSuffix(file, ext)
			break
		}
	}
	if strings.EqualFold(file, "README") || file == "index" {
		return dir + suffix
	}
	return dir + file + suffix
}

// Under reports whether link lies inside prefix, which must end in "/".
func Under(link, prefix string) bool {
	p, _ := splitSuffix(link)
	return strings.HasPrefix(p, prefix)
}

func join(base, rel string) string {
	return Clean(base + "/" + rel)
}

// Chain is the stack of accumulated prefixes from the root of a tree down to
// the section being walked. The first element is always "/".
type Chain []string

func RootChain(scope string) Chain {
	c := Chain{"/"}
	if s := CleanPrefix(scope); s != "/" {
		c = append(c, s)
	}
	return c
}

func (c Chain) Current() string {
	return c[len(c)-1]
}

// Resolve returns the final path of link inside the current section.
//
// Relative links are first tried against each ancestor prefix, nearest
// first. If one of those joins already lands inside the current prefix the
// link was written pre-qualified and is not prefixed a second time.
func (c Chain) Resolve(link string) (string, LinkForm) {
	switch {
	case IsExternal(link):
		return link, FormExternal
	case strings.HasPrefix(link, "/"):
		return Clean(link), FormAbsolute
	}

	current := c.Current()
	for i := len(c) - 2; i >= 0; i-- {
		if candidate := join(c[i], link); Under(candidate, current) {
			return candidate, FormPrequalified
		}
	}
	return join(current, link), FormRelative
}

// Descend returns the chain for the children of a section declaring prefix.
// An empty prefix keeps the current one.
func (c Chain) Descend(prefix string) Chain {
	if prefix == "" {
		return c
	}

	resolved, _ := c.Resolve(prefix)
	next := CleanPrefix(resolved)
	if next == c.Current() {
		return c
	}
	return append(slices.Clone(c), next)
}
