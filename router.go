package metaedge

import (
	"path"
	"strings"

	"github.com/eringen/metaedge/content"
)

// categoryPrefix is the short public path for category archives.
const categoryPrefix = "/c/"

// Route kinds.
const (
	RoutePost     = "post"
	RouteCategory = "category"
	RouteListing  = "listing"
	RouteGeneric  = "generic"
)

// Route is the rewriter chosen for a request path. Template is the origin
// path that serves the page shell; empty means the request path itself.
type Route struct {
	Kind     string
	Template string
	Rewriter Rewriter
}

// Router maps request paths to rewriters. It is immutable after NewRouter.
type Router struct {
	routes   Routes
	post     *PostRewriter
	category *CategoryRewriter
	generic  *GenericRewriter
}

// NewRouter builds the rewriters for cfg around one content client.
func NewRouter(cfg SiteConfig, client *content.Client) *Router {
	return &Router{
		routes:   cfg.Routes,
		post:     NewPostRewriter(cfg, client),
		category: NewCategoryRewriter(cfg, client),
		generic:  NewGenericRewriter(cfg),
	}
}

// Match returns the route for p. Excluded paths report false and are served
// by the origin untouched.
func (r *Router) Match(p string) (Route, bool) {
	p = cleanPath(p)
	if r.excluded(p) {
		return Route{}, false
	}
	switch {
	case r.isListing(p):
		return Route{Kind: RouteListing, Template: r.routes.Listing, Rewriter: r.category}, true
	case r.isCategory(p):
		return Route{Kind: RouteCategory, Template: r.routes.Category, Rewriter: r.category}, true
	case r.isPost(p):
		return Route{Kind: RoutePost, Template: r.routes.Post, Rewriter: r.post}, true
	}
	return Route{Kind: RouteGeneric, Rewriter: r.generic}, true
}

// claims lists every specific route kind whose pattern accepts p.
func (r *Router) claims(p string) []string {
	p = cleanPath(p)
	if r.excluded(p) {
		return nil
	}
	var kinds []string
	if r.isListing(p) {
		kinds = append(kinds, RouteListing)
	}
	if r.isCategory(p) {
		kinds = append(kinds, RouteCategory)
	}
	if r.isPost(p) {
		kinds = append(kinds, RoutePost)
	}
	return kinds
}

// cleanPath drops a trailing slash so /blog/x and /blog/x/ match alike.
func cleanPath(p string) string {
	p = path.Clean("/" + p)
	if p != "/" {
		p = strings.TrimSuffix(p, "/")
	}
	return p
}

func (r *Router) excluded(p string) bool {
	errPage := cleanPath(r.routes.Error)
	if p == errPage || p == errPage+".html" || p == errPage+"/index.html" {
		return true
	}
	for _, prefix := range []string{"/api", "/public", "/assets", "/preview"} {
		if p == prefix || strings.HasPrefix(p, prefix+"/") {
			return true
		}
	}
	switch path.Ext(p) {
	case "", ".html", ".htm":
		return false
	}
	return true
}

func (r *Router) isListing(p string) bool {
	return isListing(p, r.routes)
}

func (r *Router) isCategory(p string) bool {
	tmpl := cleanPath(r.routes.Category)
	if p == tmpl || p == stem(tmpl) {
		return true
	}
	rest, ok := strings.CutPrefix(p, categoryPrefix)
	return ok && rest != "" && !strings.Contains(rest, "/")
}

func (r *Router) isPost(p string) bool {
	if r.isListing(p) || r.isCategory(p) {
		return false
	}
	tmpl := cleanPath(r.routes.Post)
	if p == tmpl || p == stem(tmpl) {
		return true
	}
	return path.Dir(p) == cleanPath(r.routes.Blog)
}

func stem(p string) string {
	return strings.TrimSuffix(p, path.Ext(p))
}
