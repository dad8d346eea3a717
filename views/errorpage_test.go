package views

import (
	"bytes"
	"context"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

func render(t *testing.T, site Site, code int, location string) *goquery.Document {
	t.Helper()
	var buf bytes.Buffer
	if err := ErrorPage(site, code, location).Render(context.Background(), &buf); err != nil {
		t.Fatalf("Render: %v", err)
	}
	doc, err := goquery.NewDocumentFromReader(&buf)
	if err != nil {
		t.Fatal(err)
	}
	return doc
}

func TestErrorPage(t *testing.T) {
	doc := render(t, Site{Name: "Fish & Chips", URL: "https://example.com"}, 404, "https://example.com/404/")

	if got := doc.Find("title").Text(); got != "404 Not Found | Fish & Chips" {
		t.Errorf("title = %q", got)
	}
	if v, _ := doc.Find(`meta[name="robots"]`).Attr("content"); v != "noindex" {
		t.Errorf("robots = %q", v)
	}
	if v, _ := doc.Find(`meta[http-equiv="refresh"]`).Attr("content"); v != "0; url=https://example.com/404/" {
		t.Errorf("refresh = %q", v)
	}
	if href, _ := doc.Find("a").Attr("href"); href != "https://example.com" {
		t.Errorf("home link = %q", href)
	}
}

func TestErrorPageWithoutLocation(t *testing.T) {
	doc := render(t, Site{Name: "Blog"}, 500, "")
	if doc.Find(`meta[http-equiv="refresh"]`).Length() != 0 {
		t.Error("unexpected refresh without location")
	}
	if got := doc.Find("h1").Text(); got != "500 Internal Server Error" {
		t.Errorf("h1 = %q", got)
	}
}
