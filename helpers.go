package metaedge

import (
	"net/url"
	"path"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"

	"github.com/eringen/metaedge/metatags"
)

const maxDescriptionRunes = 160

var stripPolicy = bluemonday.StrictPolicy()

// BuildURL joins a base URL with path segments, ensuring a trailing slash.
func BuildURL(base string, pathSegments ...string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	u.Path = path.Join(u.Path, path.Join(pathSegments...))
	if len(pathSegments) > 0 && !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return u.String()
}

// canonicalURL rebuilds an absolute URL from the site origin and a logical
// path. Directory-style paths get a trailing slash; file paths keep theirs.
func canonicalURL(site, p string) string {
	p = path.Clean("/" + strings.TrimSpace(p))
	if p != "/" && path.Ext(p) == "" {
		p += "/"
	}
	return strings.TrimRight(site, "/") + p
}

// pathOf returns the path component of an existing canonical URL.
func pathOf(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return ""
	}
	return u.Path
}

// absoluteURL resolves an image or asset reference against the site origin.
func absoluteURL(site, ref string) string {
	ref = strings.TrimSpace(ref)
	switch {
	case ref == "":
		return ""
	case strings.HasPrefix(ref, "http://"), strings.HasPrefix(ref, "https://"):
		return ref
	case strings.HasPrefix(ref, "//"):
		return "https:" + ref
	}
	return strings.TrimRight(site, "/") + "/" + strings.TrimLeft(ref, "/")
}

// originOf returns scheme://host of raw, or "".
func originOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ""
	}
	return u.Scheme + "://" + u.Host
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

// plainText strips markup and entities from CMS HTML and collapses whitespace.
func plainText(s string) string {
	if s == "" {
		return ""
	}
	s = metatags.Unescape(stripPolicy.Sanitize(s))
	s = strings.Join(strings.Fields(s), " ")
	for _, marker := range []string{"[…]", "[...]", "…"} {
		s = strings.TrimSpace(strings.TrimSuffix(s, marker))
	}
	return s
}

// summarize turns an excerpt into a description of at most 160 characters,
// cutting at a word boundary where one is close.
func summarize(s string) string {
	s = plainText(s)
	if utf8.RuneCountInString(s) <= maxDescriptionRunes {
		return s
	}
	runes := []rune(s)
	cut := string(runes[:maxDescriptionRunes-3])
	if i := strings.LastIndex(cut, " "); i > len(cut)/2 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, " ,.;:") + "..."
}

// twitterHandle normalizes a social handle to "@name".
func twitterHandle(h string) string {
	h = strings.TrimSpace(h)
	if h == "" {
		return ""
	}
	return "@" + strings.TrimLeft(h, "@")
}
