package metaedge

import (
	"github.com/eringen/metaedge/content"
)

func organization(cfg SiteConfig) map[string]any {
	m := map[string]any{
		"@type": "Organization",
		"name":  cfg.Name,
		"url":   BuildURL(cfg.URL),
	}
	if cfg.Image != "" {
		m["logo"] = absoluteURL(cfg.URL, cfg.Image)
	}
	return m
}

func website(cfg SiteConfig) map[string]any {
	return map[string]any{
		"@type": "WebSite",
		"name":  cfg.Name,
		"url":   BuildURL(cfg.URL),
	}
}

// blogPostingSchema returns a BlogPosting schema for a single post.
func blogPostingSchema(cfg SiteConfig, rec content.Record, headline, description, pageURL, image, author string) map[string]any {
	data := map[string]any{
		"@context":    "https://schema.org",
		"@type":       "BlogPosting",
		"headline":    headline,
		"description": description,
		"url":         pageURL,
		"mainEntityOfPage": map[string]string{
			"@type": "WebPage",
			"@id":   pageURL,
		},
		"author": map[string]string{
			"@type": "Person",
			"name":  author,
		},
		"publisher": organization(cfg),
	}
	if image != "" {
		data["image"] = image
	}
	if v := rec.Date.ISO(); v != "" {
		data["datePublished"] = v
	}
	if v := rec.Modified.ISO(); v != "" {
		data["dateModified"] = v
	}
	if len(rec.Categories) > 0 && rec.Categories[0].Name != "" {
		data["articleSection"] = plainText(rec.Categories[0].Name)
	}
	return data
}

// collectionSchema describes a category archive.
func collectionSchema(cfg SiteConfig, cat content.Category, name, description, pageURL, image string) map[string]any {
	data := map[string]any{
		"@context":    "https://schema.org",
		"@type":       "CollectionPage",
		"name":        name,
		"description": description,
		"url":         pageURL,
		"isPartOf":    website(cfg),
		"about": map[string]any{
			"@type": "Thing",
			"name":  plainText(cat.Name),
		},
	}
	if image != "" {
		data["image"] = image
	}
	if cat.Count > 0 {
		data["numberOfItems"] = cat.Count
	}
	return data
}

// blogSchema describes the blog listing page.
func blogSchema(cfg SiteConfig, name, description, pageURL, image string) map[string]any {
	data := map[string]any{
		"@context":    "https://schema.org",
		"@type":       "Blog",
		"name":        name,
		"description": description,
		"url":         pageURL,
		"publisher":   organization(cfg),
	}
	if image != "" {
		data["image"] = image
	}
	return data
}

// webPageSchema describes any other page of the site.
func webPageSchema(cfg SiteConfig, name, description, pageURL, image string) map[string]any {
	data := map[string]any{
		"@context":    "https://schema.org",
		"@type":       "WebPage",
		"name":        name,
		"description": description,
		"url":         pageURL,
		"isPartOf":    website(cfg),
	}
	if image != "" {
		data["image"] = image
	}
	return data
}
