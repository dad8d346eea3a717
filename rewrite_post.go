package metaedge

import (
	"context"
	"strings"

	"github.com/eringen/metaedge/content"
	"github.com/eringen/metaedge/metatags"
)

// PostRewriter enriches the single-post template with the resolved record.
type PostRewriter struct {
	cfg    SiteConfig
	client *content.Client
}

// NewPostRewriter creates a PostRewriter.
func NewPostRewriter(cfg SiteConfig, client *content.Client) *PostRewriter {
	return &PostRewriter{cfg: cfg, client: client}
}

func (r *PostRewriter) Rewrite(ctx context.Context, p Page) (Result, error) {
	target := resolvePost(p.URL, r.cfg.Routes)
	if !target.Preview && p.PreviewToken != "" {
		target.Preview = true
		target.Token = p.PreviewToken
	}
	if target.Bare {
		return noIndex(p), nil
	}
	if target.Slug == "" {
		return unchanged(p), nil
	}

	q := content.BySlug(target.Slug)
	if target.Preview {
		q = q.WithPreview(target.Token)
	}
	rec, err := r.client.Post(ctx, q)
	if err != nil {
		return unchanged(p), err
	}

	doc := metatags.Inspect(string(p.Body))
	m := r.meta(doc, rec, target)
	res, err := merge(p, r.cfg, m)
	res.Private = target.Preview
	return res, err
}

func (r *PostRewriter) meta(doc metatags.Document, rec content.Record, target PostTarget) pageMeta {
	cfg := r.cfg
	slug := firstNonEmpty(rec.Slug, target.Slug)
	canonical := BuildURL(cfg.URL, strings.Trim(cfg.Routes.Blog, "/"), slug)

	headline := firstNonEmpty(plainText(rec.Title), doc.Value(metatags.OGTitle), cfg.Name)
	description := firstNonEmpty(
		doc.Value(metatags.Description),
		summarize(rec.Excerpt),
		summarize(rec.Content),
		categoryDescription(rec),
		cfg.Description,
		boilerplate(cfg),
	)
	author := firstNonEmpty(doc.Value(metatags.Author), rec.Author, cfg.Name)
	publisher := firstNonEmpty(doc.Value(metatags.Publisher), cfg.Name)

	m := pageMeta{
		title:       headline + " | " + cfg.Name,
		headline:    headline,
		description: description,
		canonical:   canonical,
		ogType:      "article",
		author:      author,
		publisher:   publisher,
		published:   rec.Date.ISO(),
		modified:    rec.Modified.ISO(),
	}
	if headline == cfg.Name {
		m.title = cfg.Name
	}

	featured := false
	switch existing := doc.Value(metatags.OGImage); {
	case existing != "":
		m.image = absoluteURL(cfg.URL, existing)
	case rec.HasImage():
		img := rec.FeaturedImage
		m.image = absoluteURL(cfg.URL, img.URL)
		m.imageAlt = firstNonEmpty(plainText(img.Alt), headline)
		m.imageWidth = img.Width
		m.imageHeight = img.Height
		featured = true
	default:
		m.image = defaultImage(cfg)
	}
	m.hints = imageHints(cfg, m.image, featured)

	if target.Preview {
		m.robots = "noindex, nofollow"
	}
	m.schema = blogPostingSchema(cfg, rec, headline, description, canonical, m.image, author)
	return m
}

// categoryDescription is the summarized description of the record's first
// category.
func categoryDescription(rec content.Record) string {
	if len(rec.Categories) == 0 {
		return ""
	}
	return summarize(rec.Categories[0].Description)
}
