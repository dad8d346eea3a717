// Package metatags inspects and patches the <head> of an already rendered
// HTML document using text operations only. Documents come from a known
// template, so each tag kind is located with a single pattern instead of a
// full parse.
package metatags

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// Tag kinds recognised by Inspect and Merge.
const (
	Title       = "title"
	Description = "description"
	Author      = "author"
	Publisher   = "publisher"
	Canonical   = "canonical"
	Robots      = "robots"
	Googlebot   = "googlebot"

	OGType        = "og:type"
	OGTitle       = "og:title"
	OGDescription = "og:description"
	OGURL         = "og:url"
	OGImage       = "og:image"
	OGImageAlt    = "og:image:alt"
	OGImageWidth  = "og:image:width"
	OGImageHeight = "og:image:height"
	OGSiteName    = "og:site_name"
	OGLocale      = "og:locale"

	ArticlePublished = "article:published_time"
	ArticleModified  = "article:modified_time"

	TwitterCard        = "twitter:card"
	TwitterSite        = "twitter:site"
	TwitterCreator     = "twitter:creator"
	TwitterTitle       = "twitter:title"
	TwitterDescription = "twitter:description"
	TwitterURL         = "twitter:url"
	TwitterImage       = "twitter:image"
)

// order is the fixed insertion order for tags that are not yet present.
var order = []string{
	Description, Author, Publisher, Robots, Canonical,
	OGType, OGTitle, OGDescription, OGURL, OGImage, OGImageAlt, OGImageWidth, OGImageHeight, OGSiteName, OGLocale,
	ArticlePublished, ArticleModified,
	TwitterCard, TwitterSite, TwitterCreator, TwitterTitle, TwitterDescription, TwitterURL, TwitterImage,
	Googlebot,
}

// normalized kinds always carry the freshly computed value, whatever the
// template had.
var normalized = map[string]bool{
	Title:      true,
	Canonical:  true,
	OGURL:      true,
	TwitterURL: true,
}

// IsNormalized reports whether kind is always rewritten from the resolved
// resource rather than kept from the template.
func IsNormalized(kind string) bool { return normalized[kind] }

// Kinds returns every recognised kind in insertion order, title first.
func Kinds() []string {
	return append([]string{Title}, order...)
}

// ogProperty reports whether kind is written with property= rather than name=.
func ogProperty(kind string) bool {
	return strings.HasPrefix(kind, "og:") || strings.HasPrefix(kind, "article:")
}

var (
	titlePattern   = regexp.MustCompile(`(?is)<title\b([^>]*)>(.*?)</title\s*>`)
	headEndPattern = regexp.MustCompile(`(?i)</head\s*>`)
	linkPattern    = regexp.MustCompile(`(?is)<link\b[^>]*>`)

	// Values may be double-quoted, single-quoted or bare. The leading group
	// keeps data-content= and similar from matching.
	contentAttr = attrPattern("content")
	hrefAttr    = attrPattern("href")

	kindPatterns = func() map[string]*regexp.Regexp {
		m := map[string]*regexp.Regexp{
			Canonical: regexp.MustCompile(`(?is)<link\b[^>]*?\srel\s*=\s*` + attrIs("canonical")),
		}
		for _, kind := range order {
			if kind == Canonical {
				continue
			}
			m[kind] = regexp.MustCompile(`(?is)<meta\b[^>]*?\s(?:name|property)\s*=\s*` + attrIs(kind))
		}
		return m
	}()
)

func attrPattern(name string) *regexp.Regexp {
	return regexp.MustCompile(`(?is)(^|\s)` + name + `\s*=\s*(?:"([^"]*)"|'([^']*)'|([^\s"'>]+))`)
}

// attrIs matches an attribute value equal to v through the end of the tag.
func attrIs(v string) string {
	q := regexp.QuoteMeta(v)
	return `(?:["']` + q + `["'][^>]*|` + q + `(?:[\s/][^>]*)?)>`
}

// Presence describes one tag kind in a document.
type Presence struct {
	Exists   bool
	NonEmpty bool
	Content  string // entity-decoded, trimmed
}

// Document is the result of Inspect: the presence of every recognised kind.
type Document struct {
	tags    map[string]Presence
	hasHead bool
}

// Inspect scans the head section once per kind and records what the template
// already carries. Tags after the last </head> are ignored.
func Inspect(doc string) Document {
	head, _, ok := splitHead(doc)
	d := Document{
		tags:    make(map[string]Presence, len(order)+1),
		hasHead: ok,
	}
	doc = head
	if m := titlePattern.FindStringSubmatch(doc); m != nil {
		d.tags[Title] = presence(m[2])
	}
	for kind, re := range kindPatterns {
		tag := re.FindString(doc)
		if tag == "" {
			continue
		}
		attr := contentAttr
		if kind == Canonical {
			attr = hrefAttr
		}
		d.tags[kind] = presence(attrValue(attr, tag))
	}
	return d
}

func presence(raw string) Presence {
	v := strings.TrimSpace(Unescape(raw))
	return Presence{Exists: true, NonEmpty: v != "", Content: v}
}

func attrValue(re *regexp.Regexp, tag string) string {
	m := re.FindStringSubmatch(tag)
	if m == nil {
		return ""
	}
	for _, v := range m[2:] {
		if v != "" {
			return v
		}
	}
	return ""
}

// splitHead cuts doc at its last </head>. Without one the whole document is
// returned as head.
func splitHead(doc string) (head, tail string, ok bool) {
	ends := headEndPattern.FindAllStringIndex(doc, -1)
	if len(ends) == 0 {
		return doc, "", false
	}
	at := ends[len(ends)-1][0]
	return doc[:at], doc[at:], true
}

// Get returns the presence of kind.
func (d Document) Get(kind string) Presence { return d.tags[kind] }

// Has reports whether kind exists syntactically.
func (d Document) Has(kind string) bool { return d.tags[kind].Exists }

// Value returns the trimmed existing content of kind, or "".
func (d Document) Value(kind string) string { return d.tags[kind].Content }

// HasHead reports whether the document has a closing </head>.
func (d Document) HasHead() bool { return d.hasHead }

// Escape attribute-escapes v (& < > " ').
func Escape(v string) string { return html.EscapeString(v) }

// Unescape decodes entities in an existing attribute or text value.
func Unescape(v string) string { return html.UnescapeString(v) }
