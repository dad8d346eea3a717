package metaedge

import "testing"

func testRouter() *Router {
	cfg := SiteConfig{}
	cfg.setDefaults()
	return NewRouter(cfg, nil)
}

func TestRouterMatch(t *testing.T) {
	r := testRouter()
	tests := []struct {
		path     string
		kind     string
		template string
	}{
		{"/blog/post", RoutePost, "/blog/post.html"},
		{"/blog/post.html", RoutePost, "/blog/post.html"},
		{"/blog/hello-world", RoutePost, "/blog/post.html"},
		{"/blog/hello-world/", RoutePost, "/blog/post.html"},
		{"/blog/category", RouteCategory, "/blog/category.html"},
		{"/blog/category.html", RouteCategory, "/blog/category.html"},
		{"/c/news", RouteCategory, "/blog/category.html"},
		{"/c/news/", RouteCategory, "/blog/category.html"},
		{"/blog", RouteListing, "/blog/"},
		{"/blog/", RouteListing, "/blog/"},
		{"/blog/index.html", RouteListing, "/blog/"},
		{"/", RouteGeneric, ""},
		{"/about/", RouteGeneric, ""},
		{"/pricing.html", RouteGeneric, ""},
		{"/blog/2024/hello", RouteGeneric, ""},
		{"/c/news/extra", RouteGeneric, ""},
	}
	for _, tt := range tests {
		route, ok := r.Match(tt.path)
		if !ok {
			t.Errorf("%s: not matched", tt.path)
			continue
		}
		if route.Kind != tt.kind || route.Template != tt.template {
			t.Errorf("%s: got %s %q, want %s %q", tt.path, route.Kind, route.Template, tt.kind, tt.template)
		}
		if route.Rewriter == nil {
			t.Errorf("%s: nil rewriter", tt.path)
		}
	}
}

func TestRouterExclusions(t *testing.T) {
	r := testRouter()
	for _, p := range []string{
		"/404", "/404/", "/404.html",
		"/api/resource", "/public/app.css", "/assets/logo.svg",
		"/preview/", "/preview/exit/",
		"/social.jpg", "/feed.xml", "/blog/post.json",
	} {
		if route, ok := r.Match(p); ok {
			t.Errorf("%s: matched %s, want excluded", p, route.Kind)
		}
	}
}

func TestRoutesDoNotOverlap(t *testing.T) {
	r := testRouter()
	paths := []string{
		"/", "/blog", "/blog/", "/blog/index.html",
		"/blog/post", "/blog/post.html", "/blog/category", "/blog/category.html",
		"/blog/hello", "/blog/hello/", "/blog/hello.html", "/blog/c",
		"/c/news", "/c/category", "/c/post", "/c/news/x", "/c",
		"/about", "/blog/a/b", "/404", "/api/resource",
	}
	for _, p := range paths {
		if kinds := r.claims(p); len(kinds) > 1 {
			t.Errorf("%s claimed by %v", p, kinds)
		}
	}
}

func TestRouterCustomRoutes(t *testing.T) {
	cfg := SiteConfig{Routes: Routes{Blog: "/news/"}}
	cfg.setDefaults()
	r := NewRouter(cfg, nil)

	route, ok := r.Match("/news/launch/")
	if !ok || route.Kind != RoutePost || route.Template != "/news/post.html" {
		t.Errorf("got %+v", route)
	}
	if route, _ := r.Match("/news"); route.Kind != RouteListing {
		t.Errorf("/news: %s, want listing", route.Kind)
	}
}
