package metaedge

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/eringen/metaedge/content"
	"github.com/eringen/metaedge/metatags"
)

// CategoryRewriter enriches the category template and the blog listing.
type CategoryRewriter struct {
	cfg    SiteConfig
	client *content.Client
}

// NewCategoryRewriter creates a CategoryRewriter.
func NewCategoryRewriter(cfg SiteConfig, client *content.Client) *CategoryRewriter {
	return &CategoryRewriter{cfg: cfg, client: client}
}

func (r *CategoryRewriter) Rewrite(ctx context.Context, p Page) (Result, error) {
	if isListing(p.URL.Path, r.cfg.Routes) {
		return r.listing(ctx, p)
	}

	target := resolveCategory(p.URL, r.cfg.Routes)
	if target.Bare {
		return noIndex(p), nil
	}
	if target.Slug == "" {
		return unchanged(p), nil
	}

	cat, err := r.client.FindCategory(ctx, target.Slug)
	if errors.Is(err, content.ErrNotFound) {
		return Result{
			Status:   404,
			NotFound: true,
			Location: BuildURL(r.cfg.URL, strings.Trim(r.cfg.Routes.Error, "/")),
		}, nil
	}
	if err != nil {
		return unchanged(p), err
	}

	doc := metatags.Inspect(string(p.Body))
	image, fetched, err := r.fallbackImage(ctx, doc, content.ByCategory(strconv.FormatInt(cat.ID, 10), 1, 1))
	if err != nil {
		return unchanged(p), err
	}

	cfg := r.cfg
	name := firstNonEmpty(plainText(cat.Name), cat.Slug)
	canonical := BuildURL(cfg.URL, strings.Trim(categoryPrefix, "/"), cat.Slug)
	description := firstNonEmpty(
		doc.Value(metatags.Description),
		summarize(cat.Description),
		cfg.Description,
		boilerplate(cfg),
	)
	m := pageMeta{
		title:       name + " | " + cfg.Name,
		headline:    name,
		description: description,
		canonical:   canonical,
		ogType:      "website",
		author:      firstNonEmpty(doc.Value(metatags.Author), cfg.Name),
		publisher:   firstNonEmpty(doc.Value(metatags.Publisher), cfg.Name),
	}
	applyImage(&m, cfg, image)
	m.hints = imageHints(cfg, m.image, fetched)
	m.schema = collectionSchema(cfg, cat, name, description, canonical, m.image)
	return merge(p, cfg, m)
}

func (r *CategoryRewriter) listing(ctx context.Context, p Page) (Result, error) {
	doc := metatags.Inspect(string(p.Body))
	image, fetched, err := r.fallbackImage(ctx, doc, content.LatestPosts(1))
	if err != nil {
		return unchanged(p), err
	}

	cfg := r.cfg
	canonical := BuildURL(cfg.URL, strings.Trim(cfg.Routes.Blog, "/"))
	title := firstNonEmpty(doc.Value(metatags.Title), "Blog | "+cfg.Name)
	headline := firstNonEmpty(doc.Value(metatags.OGTitle), title)
	description := firstNonEmpty(doc.Value(metatags.Description), cfg.Description, boilerplate(cfg))
	m := pageMeta{
		title:       title,
		headline:    headline,
		description: description,
		canonical:   canonical,
		ogType:      "website",
		author:      firstNonEmpty(doc.Value(metatags.Author), cfg.Name),
		publisher:   firstNonEmpty(doc.Value(metatags.Publisher), cfg.Name),
	}
	applyImage(&m, cfg, image)
	m.hints = imageHints(cfg, m.image, fetched)
	m.schema = blogSchema(cfg, headline, description, canonical, m.image)
	return merge(p, cfg, m)
}

// fallbackImage returns the existing og:image, or, only when the template has
// no og:image tag at all, the featured image of the first record matching q.
// A present but empty tag does not trigger the lookup.
func (r *CategoryRewriter) fallbackImage(ctx context.Context, doc metatags.Document, q content.Query) (*content.Image, bool, error) {
	if doc.Has(metatags.OGImage) {
		if v := doc.Value(metatags.OGImage); v != "" {
			return &content.Image{URL: v}, false, nil
		}
		return nil, false, nil
	}
	records, err := r.client.Fetch(ctx, q)
	if err != nil {
		return nil, false, err
	}
	for _, rec := range records {
		if rec.HasImage() {
			return rec.FeaturedImage, true, nil
		}
	}
	return nil, false, nil
}

func applyImage(m *pageMeta, cfg SiteConfig, img *content.Image) {
	if img == nil {
		m.image = defaultImage(cfg)
		return
	}
	m.image = absoluteURL(cfg.URL, img.URL)
	m.imageAlt = plainText(img.Alt)
	m.imageWidth = img.Width
	m.imageHeight = img.Height
}
