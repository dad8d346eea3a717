package metaedge

import (
	"net/url"
	"path"
	"strings"

	"github.com/eringen/metaedge/content"
)

// PostTarget is what a post request resolves to. Slug is empty when the
// request does not name a valid post.
type PostTarget struct {
	Slug    string
	Bare    bool // the bare template itself was requested
	Preview bool
	Token   string
}

// CategoryTarget is what a category request resolves to.
type CategoryTarget struct {
	Slug string
	Bare bool
}

// templateName returns the file stem of a template path: "/blog/post.html" -> "post".
func templateName(p string) string {
	return strings.TrimSuffix(path.Base(p), path.Ext(p))
}

// lastSegment returns the trailing path segment without a .html suffix.
func lastSegment(p string) string {
	p = strings.Trim(p, "/")
	if p == "" {
		return ""
	}
	seg := path.Base(p)
	return strings.TrimSuffix(seg, ".html")
}

// resolvePost reads the slug from ?slug= first and the trailing path segment
// second. Invalid slugs resolve to an empty target.
func resolvePost(u *url.URL, routes Routes) PostTarget {
	q := u.Query()
	var t PostTarget
	if q.Get("preview") == "true" {
		t.Preview = true
		t.Token = q.Get("token")
	}

	slug := strings.TrimSpace(q.Get("slug"))
	if slug == "" {
		slug = lastSegment(u.Path)
	}
	if slug == "" || slug == templateName(routes.Post) {
		t.Bare = true
		return t
	}
	if !content.ValidSlug(slug) {
		return PostTarget{}
	}
	t.Slug = slug
	return t
}

// resolveCategory reads the slug from ?category= (or ?c=) first and a
// /c/{slug} path second.
func resolveCategory(u *url.URL, routes Routes) CategoryTarget {
	q := u.Query()
	slug := strings.TrimSpace(q.Get("category"))
	if slug == "" {
		slug = strings.TrimSpace(q.Get("c"))
	}
	if slug == "" {
		if rest, ok := strings.CutPrefix(u.Path, categoryPrefix); ok {
			slug = strings.Trim(rest, "/")
		} else {
			slug = lastSegment(u.Path)
		}
	}
	if slug == "" || slug == templateName(routes.Category) {
		return CategoryTarget{Bare: true}
	}
	if !content.ValidSlug(slug) {
		return CategoryTarget{}
	}
	return CategoryTarget{Slug: slug}
}

// isListing reports whether p is the blog listing page.
func isListing(p string, routes Routes) bool {
	p = cleanPath(p)
	blog := cleanPath(routes.Blog)
	return p == blog || p == blog+"/index.html"
}
