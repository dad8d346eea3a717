package metaedge

import (
	"context"

	"github.com/eringen/metaedge/metatags"
)

// GenericRewriter fills in defaults for any other HTML page. It never calls
// the content API.
type GenericRewriter struct {
	cfg SiteConfig
}

// NewGenericRewriter creates a GenericRewriter.
func NewGenericRewriter(cfg SiteConfig) *GenericRewriter {
	return &GenericRewriter{cfg: cfg}
}

func (r *GenericRewriter) Rewrite(_ context.Context, p Page) (Result, error) {
	cfg := r.cfg
	doc := metatags.Inspect(string(p.Body))

	logical := p.URL.Path
	if v := pathOf(doc.Value(metatags.Canonical)); v != "" {
		logical = v
	}
	canonical := canonicalURL(cfg.URL, logical)

	title := firstNonEmpty(doc.Value(metatags.Title), cfg.Name)
	headline := firstNonEmpty(doc.Value(metatags.OGTitle), title)
	description := firstNonEmpty(doc.Value(metatags.Description), cfg.Description, boilerplate(cfg))

	m := pageMeta{
		title:       title,
		headline:    headline,
		description: description,
		canonical:   canonical,
		ogType:      firstNonEmpty(doc.Value(metatags.OGType), "website"),
		author:      firstNonEmpty(doc.Value(metatags.Author), cfg.Name),
		publisher:   firstNonEmpty(doc.Value(metatags.Publisher), cfg.Name),
		image:       absoluteURL(cfg.URL, firstNonEmpty(doc.Value(metatags.OGImage), cfg.Image)),
		imageAlt:    doc.Value(metatags.OGImageAlt),
	}
	m.hints = imageHints(cfg, m.image, false)
	m.schema = webPageSchema(cfg, headline, description, canonical, m.image)
	return merge(p, cfg, m)
}
