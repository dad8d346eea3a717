package metaedge

import (
	"context"
	"net/http"
	"net/url"

	"github.com/eringen/metaedge/metatags"
)

// Page is an origin response handed to a Rewriter, plus the URL the client
// actually requested.
type Page struct {
	URL    *url.URL
	Status int
	Header http.Header
	Body   []byte

	// PreviewToken comes from the preview session cookie, if any.
	PreviewToken string
}

// Result is the outcome of a rewrite. When Modified is false the origin
// response is sent untouched.
type Result struct {
	Status   int
	Body     []byte
	Modified bool

	// NotFound asks the server to answer 404 with Location set.
	NotFound bool
	Location string

	// Private marks draft content that must not be cached publicly.
	Private bool
}

// Rewriter enriches the <head> of one class of page. Implementations hold
// only immutable configuration and are safe for concurrent use.
type Rewriter interface {
	Rewrite(ctx context.Context, p Page) (Result, error)
}

func unchanged(p Page) Result {
	return Result{Status: p.Status, Body: p.Body}
}

func rewritten(p Page, body string) Result {
	return Result{Status: p.Status, Body: []byte(body), Modified: true}
}

// noIndex answers a bare template request: only the robots directives change.
func noIndex(p Page) Result {
	return rewritten(p, metatags.NoIndex(string(p.Body)))
}

// pageMeta is the resolved metadata of one page before it becomes a
// metatags.Set.
type pageMeta struct {
	title       string // <title>
	headline    string // og:title and twitter:title
	description string
	canonical   string
	ogType      string
	author      string
	publisher   string
	robots      string

	image       string
	imageAlt    string
	imageWidth  int
	imageHeight int

	published string
	modified  string

	schema any
	hints  []metatags.Hint
}

func (m pageMeta) set(cfg SiteConfig) metatags.Set {
	card := "summary"
	if m.image != "" {
		card = "summary_large_image"
	}
	return metatags.Set{
		Title:       m.title,
		Description: m.description,
		Canonical:   m.canonical,
		Author:      m.author,
		Publisher:   m.publisher,
		Robots:      m.robots,
		OG: metatags.OpenGraph{
			Type:          m.ogType,
			Title:         m.headline,
			Description:   m.description,
			URL:           m.canonical,
			Image:         m.image,
			ImageAlt:      m.imageAlt,
			ImageWidth:    m.imageWidth,
			ImageHeight:   m.imageHeight,
			SiteName:      cfg.Name,
			Locale:        cfg.Locale,
			PublishedTime: m.published,
			ModifiedTime:  m.modified,
		},
		Twitter: metatags.Twitter{
			Card:        card,
			Site:        twitterHandle(cfg.Twitter),
			Title:       m.headline,
			Description: m.description,
			URL:         m.canonical,
			Image:       m.image,
		},
		StructuredData: m.schema,
		Hints:          m.hints,
	}
}

// defaultImage is the site-wide social image as an absolute URL.
func defaultImage(cfg SiteConfig) string {
	return absoluteURL(cfg.URL, cfg.Image)
}

// boilerplate is the last description fallback.
func boilerplate(cfg SiteConfig) string {
	return "Read the latest from " + cfg.Name + "."
}

// imageHints preconnects to an off-site image host and preloads the image.
func imageHints(cfg SiteConfig, image string, preload bool) []metatags.Hint {
	if image == "" {
		return nil
	}
	var hints []metatags.Hint
	if origin := originOf(image); origin != "" && origin != originOf(cfg.URL) {
		hints = append(hints, metatags.Hint{Rel: "preconnect", Href: origin})
	}
	if preload {
		hints = append(hints, metatags.Hint{Rel: "preload", As: "image", Href: image})
	}
	return hints
}

// merge applies m to the page body. A document without </head> is a
// template error and leaves the page unmodified.
func merge(p Page, cfg SiteConfig, m pageMeta) (Result, error) {
	out, err := metatags.Merge(string(p.Body), m.set(cfg))
	if err != nil {
		return unchanged(p), err
	}
	return rewritten(p, out), nil
}
