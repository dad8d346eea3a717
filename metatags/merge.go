package metatags

import (
	"encoding/json"
	"errors"
	"regexp"
	"strconv"
	"strings"
)

// ErrNoHead is returned when the document has no closing </head>. The
// document is returned unchanged alongside it.
var ErrNoHead = errors.New("metatags: </head> not found")

// JSONLDID marks the structured-data block owned by Merge.
const JSONLDID = "metaedge-jsonld"

var jsonLDPattern = regexp.MustCompile(`(?is)<script\b[^>]*\bid\s*=\s*["']` + JSONLDID + `["'][^>]*>.*?</script\s*>`)

// OpenGraph is the og:* block of a Set.
type OpenGraph struct {
	Type          string
	Title         string
	Description   string
	URL           string
	Image         string
	ImageAlt      string
	ImageWidth    int
	ImageHeight   int
	SiteName      string
	Locale        string
	PublishedTime string
	ModifiedTime  string
}

// Twitter is the twitter:* block of a Set.
type Twitter struct {
	Card        string
	Site        string
	Creator     string
	Title       string
	Description string
	URL         string
	Image       string
}

// Hint is a resource-hint <link> element.
type Hint struct {
	Rel  string // preconnect, dns-prefetch, preload
	Href string
	As   string
}

// Set is the desired state of a document's <head>. Empty fields are left
// untouched in the document.
type Set struct {
	Title       string
	Description string
	Canonical   string
	Author      string
	Publisher   string
	Robots      string
	OG          OpenGraph
	Twitter     Twitter

	// StructuredData is marshalled into the JSON-LD block. Nil skips it.
	StructuredData any
	Hints          []Hint
}

// values flattens the set into kind -> value.
func (s Set) values() map[string]string {
	v := map[string]string{
		Title:              s.Title,
		Description:        s.Description,
		Author:             s.Author,
		Publisher:          s.Publisher,
		Robots:             s.Robots,
		Canonical:          s.Canonical,
		OGType:             s.OG.Type,
		OGTitle:            s.OG.Title,
		OGDescription:      s.OG.Description,
		OGURL:              s.OG.URL,
		OGImage:            s.OG.Image,
		OGImageAlt:         s.OG.ImageAlt,
		OGSiteName:         s.OG.SiteName,
		OGLocale:           s.OG.Locale,
		ArticlePublished:   s.OG.PublishedTime,
		ArticleModified:    s.OG.ModifiedTime,
		TwitterCard:        s.Twitter.Card,
		TwitterSite:        s.Twitter.Site,
		TwitterCreator:     s.Twitter.Creator,
		TwitterTitle:       s.Twitter.Title,
		TwitterDescription: s.Twitter.Description,
		TwitterURL:         s.Twitter.URL,
		TwitterImage:       s.Twitter.Image,
	}
	if s.OG.ImageWidth > 0 {
		v[OGImageWidth] = strconv.Itoa(s.OG.ImageWidth)
	}
	if s.OG.ImageHeight > 0 {
		v[OGImageHeight] = strconv.Itoa(s.OG.ImageHeight)
	}
	return v
}

// Merge patches the head section of doc so that every non-empty field of
// desired is present exactly once. Present tags are replaced in place; absent
// tags are inserted before the last </head> in a fixed order, followed by the
// JSON-LD block and resource hints. Everything from the last </head> on is
// copied through unchanged.
func Merge(doc string, desired Set) (string, error) {
	head, tail, ok := splitHead(doc)
	if !ok {
		return doc, ErrNoHead
	}

	values := desired.values()
	var insert []string

	if title := strings.TrimSpace(values[Title]); title != "" {
		var ok bool
		head, ok = replaceTitle(head, title)
		if !ok {
			insert = append(insert, "<title>"+Escape(title)+"</title>")
		}
	}

	for _, kind := range order {
		value := strings.TrimSpace(values[kind])
		if value == "" {
			continue
		}
		var ok bool
		head, ok = replaceTag(head, kind, value)
		if !ok {
			insert = append(insert, renderTag(kind, value))
		}
	}

	if desired.StructuredData != nil {
		block, err := jsonLD(desired.StructuredData)
		if err != nil {
			return doc, err
		}
		if loc := jsonLDPattern.FindStringIndex(head); loc != nil {
			head = head[:loc[0]] + block + jsonLDPattern.ReplaceAllString(head[loc[1]:], "")
		} else {
			insert = append(insert, block)
		}
	}

	for _, h := range desired.Hints {
		if h.Href == "" || hasLink(head, h.Href) {
			continue
		}
		insert = append(insert, renderHint(h))
	}

	var b strings.Builder
	b.Grow(len(doc) + 64*len(insert))
	b.WriteString(head)
	for _, tag := range insert {
		b.WriteString(tag)
		b.WriteByte('\n')
	}
	b.WriteString(tail)
	return b.String(), nil
}

func replaceTitle(doc, title string) (string, bool) {
	loc := titlePattern.FindStringSubmatchIndex(doc)
	if loc == nil {
		return doc, false
	}
	attrs := doc[loc[2]:loc[3]]
	return doc[:loc[0]] + "<title" + attrs + ">" + Escape(title) + "</title>" + doc[loc[1]:], true
}

// replaceTag rewrites the first occurrence of kind and drops any duplicates.
func replaceTag(doc, kind, value string) (string, bool) {
	re := kindPatterns[kind]
	seen := false
	out := re.ReplaceAllStringFunc(doc, func(tag string) string {
		if seen {
			return ""
		}
		seen = true
		return setAttr(tag, kind, value)
	})
	return out, seen
}

// setAttr swaps the value of the tag's content (or href) attribute, keeping
// every other attribute as the template wrote it.
func setAttr(tag, kind, value string) string {
	re, name := contentAttr, "content"
	if kind == Canonical {
		re, name = hrefAttr, "href"
	}
	escaped := Escape(value)
	// loc[3] is the end of the leading whitespace group.
	if loc := re.FindStringSubmatchIndex(tag); loc != nil {
		return tag[:loc[3]] + name + `="` + escaped + `"` + tag[loc[1]:]
	}
	end := strings.LastIndex(tag, ">")
	if end > 0 && tag[end-1] == '/' {
		end--
	}
	return strings.TrimRight(tag[:end], " ") + " " + name + `="` + escaped + `"` + tag[end:]
}

func renderTag(kind, value string) string {
	v := Escape(value)
	switch {
	case kind == Canonical:
		return `<link rel="canonical" href="` + v + `">`
	case ogProperty(kind):
		return `<meta property="` + kind + `" content="` + v + `">`
	default:
		return `<meta name="` + kind + `" content="` + v + `">`
	}
}

func renderHint(h Hint) string {
	var b strings.Builder
	b.WriteString(`<link rel="`)
	b.WriteString(Escape(h.Rel))
	b.WriteString(`"`)
	if h.As != "" {
		b.WriteString(` as="`)
		b.WriteString(Escape(h.As))
		b.WriteString(`"`)
	}
	b.WriteString(` href="`)
	b.WriteString(Escape(h.Href))
	b.WriteString(`">`)
	return b.String()
}

func hasLink(head, href string) bool {
	for _, tag := range linkPattern.FindAllString(head, -1) {
		if Unescape(attrValue(hrefAttr, tag)) == href {
			return true
		}
	}
	return false
}

// jsonLD renders v as a script block. encoding/json escapes <, > and & so
// record text cannot close the script element.
func jsonLD(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return `<script type="application/ld+json" id="` + JSONLDID + `">` + string(b) + `</script>`, nil
}
