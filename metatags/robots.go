package metatags

import (
	"regexp"
)

var (
	indexDirective   = regexp.MustCompile(`(?i)(^|[\s,])index\b`)
	noIndexDirective = regexp.MustCompile(`(?i)\bnoindex\b`)
)

// NoIndex flips the robots and googlebot directives of doc from index to
// noindex, keeping every other directive. A robots tag is inserted when the
// template has none. Only the head section is touched, and documents without
// </head> are returned unchanged.
func NoIndex(doc string) string {
	head, tail, ok := splitHead(doc)
	if !ok {
		return doc
	}
	found := false
	for _, kind := range []string{Robots, Googlebot} {
		head = kindPatterns[kind].ReplaceAllStringFunc(head, func(tag string) string {
			found = found || kind == Robots
			value := Unescape(attrValue(contentAttr, tag))
			return setAttr(tag, kind, noIndexValue(value))
		})
	}
	doc = head + tail
	if found {
		return doc
	}
	out, err := Merge(doc, Set{Robots: "noindex"})
	if err != nil {
		return doc
	}
	return out
}

func noIndexValue(v string) string {
	if v == "" {
		return "noindex"
	}
	flipped := indexDirective.ReplaceAllString(v, "${1}noindex")
	if !noIndexDirective.MatchString(flipped) {
		flipped = "noindex, " + flipped
	}
	return flipped
}
