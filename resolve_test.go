package metaedge

import (
	"net/url"
	"testing"
)

func mustURL(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatal(err)
	}
	return u
}

func TestResolvePost(t *testing.T) {
	routes := Routes{}
	routes.setDefaults()
	tests := []struct {
		raw  string
		want PostTarget
	}{
		{"/blog/hello-world/", PostTarget{Slug: "hello-world"}},
		{"/blog/hello-world.html", PostTarget{Slug: "hello-world"}},
		{"/blog/post.html?slug=from_query", PostTarget{Slug: "from_query"}},
		{"/blog/other/?slug=query-wins", PostTarget{Slug: "query-wins"}},
		{"/blog/post.html", PostTarget{Bare: true}},
		{"/blog/post", PostTarget{Bare: true}},
		{"/blog/my-post!/", PostTarget{}},
		{"/blog/post.html?slug=a%20b", PostTarget{}},
		{"/blog/draft/?preview=true&token=t1", PostTarget{Slug: "draft", Preview: true, Token: "t1"}},
		{"/blog/draft/?preview=1&token=t1", PostTarget{Slug: "draft"}},
	}
	for _, tt := range tests {
		if got := resolvePost(mustURL(t, tt.raw), routes); got != tt.want {
			t.Errorf("%s: got %+v, want %+v", tt.raw, got, tt.want)
		}
	}
}

func TestResolveCategory(t *testing.T) {
	routes := Routes{}
	routes.setDefaults()
	tests := []struct {
		raw  string
		want CategoryTarget
	}{
		{"/c/news/", CategoryTarget{Slug: "news"}},
		{"/c/News", CategoryTarget{Slug: "News"}},
		{"/blog/category.html?category=news", CategoryTarget{Slug: "news"}},
		{"/blog/category.html?c=news", CategoryTarget{Slug: "news"}},
		{"/blog/category.html", CategoryTarget{Bare: true}},
		{"/blog/category", CategoryTarget{Bare: true}},
		{"/c/bad.slug!/", CategoryTarget{}},
	}
	for _, tt := range tests {
		if got := resolveCategory(mustURL(t, tt.raw), routes); got != tt.want {
			t.Errorf("%s: got %+v, want %+v", tt.raw, got, tt.want)
		}
	}
}

func TestIsListing(t *testing.T) {
	routes := Routes{}
	routes.setDefaults()
	for p, want := range map[string]bool{
		"/blog":            true,
		"/blog/":           true,
		"/blog/index.html": true,
		"/blog/post.html":  false,
		"/":                false,
	} {
		if got := isListing(p, routes); got != want {
			t.Errorf("isListing(%q) = %v, want %v", p, got, want)
		}
	}
}
