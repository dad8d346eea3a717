package metaedge

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const (
	testSite   = "https://example.com"
	testSecret = "let-me-in"
)

const postTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Post template</title>
<meta name="description" content="Post template description">
</head>
<body><article id="post"></article></body>
</html>
`

const categoryTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Category template</title>
</head>
<body><section id="posts"></section></body>
</html>
`

const listingTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Blog | Example</title>
<meta name="description" content="Notes from the team.">
<meta property="og:image" content="">
</head>
<body><section id="posts"></section></body>
</html>
`

const aboutPage = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>About us</title>
<link rel="canonical" href="https://staging.example.com/about">
</head>
<body><h1>About</h1></body>
</html>
`

const notFoundPage = `<!DOCTYPE html><html><head><title>Not found</title></head><body>404</body></html>`

type contentStub struct {
	resourceHits atomic.Int32
	tokenHits    atomic.Int32

	mu      sync.Mutex
	queries []string
}

func (s *contentStub) lastQuery() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.queries) == 0 {
		return ""
	}
	return s.queries[len(s.queries)-1]
}

// newContentStub serves a small fixed content API.
func newContentStub(t *testing.T) (*httptest.Server, *contentStub) {
	t.Helper()
	stub := &contentStub{}
	mux := http.NewServeMux()
	mux.HandleFunc("/resource", func(w http.ResponseWriter, r *http.Request) {
		stub.resourceHits.Add(1)
		stub.mu.Lock()
		stub.queries = append(stub.queries, r.URL.RawQuery)
		stub.mu.Unlock()

		q := r.URL.Query()
		if q.Get("preview") == "true" && r.Header.Get("Authorization") != "Bearer bearer-123" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		switch {
		case q.Get("categories") == "true":
			_, _ = w.Write([]byte(`[{"id":7,"slug":"news","name":"News","description":"Company news and announcements.","count":3}]`))
		case q.Get("slug") == "hello-world":
			_, _ = w.Write([]byte(`[{"id":1,"slug":"hello-world","title":"Hello &amp; World",` +
				`"excerpt":"<p>A first post about things.</p>","content":"<p>Body</p>",` +
				`"date":"2024-05-01T10:00:00","modified":"2024-05-02T10:00:00","author":"Ada",` +
				`"categories":[{"id":7,"slug":"news","name":"News"}],` +
				`"featured_image":{"url":"https://cdn.example.net/hello.jpg","width":1200,"height":630,"alt":"Hello"}}]`))
		case q.Get("slug") == "from-category":
			_, _ = w.Write([]byte(`[{"id":5,"slug":"from-category","title":"Filed",` +
				`"categories":[{"id":7,"slug":"news","name":"News","description":"<p>Company news and announcements.</p>"}]}]`))
		case q.Get("slug") == "no-image":
			_, _ = w.Write([]byte(`[{"id":2,"slug":"no-image","title":"Plain","excerpt":"","content":""}]`))
		case q.Get("slug") == "slow":
			select {
			case <-time.After(2 * time.Second):
			case <-r.Context().Done():
				return
			}
			_, _ = w.Write([]byte(`[]`))
		case q.Get("slug") == "broken":
			w.WriteHeader(http.StatusInternalServerError)
		case q.Get("category") == "7":
			_, _ = w.Write([]byte(`[{"id":3,"slug":"launch","title":"Launch",` +
				`"featured_image":{"url":"https://cdn.example.net/news.jpg"}}]`))
		case q.Get("list") != "":
			_, _ = w.Write([]byte(`[{"id":4,"slug":"latest","title":"Latest",` +
				`"featured_image":{"url":"https://cdn.example.net/latest.jpg"}}]`))
		default:
			_, _ = w.Write([]byte(`[]`))
		}
	})
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		stub.tokenHits.Add(1)
		_, _ = w.Write([]byte(`{"token":"bearer-123"}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, stub
}

// newOriginDir writes a static site build to a temp dir.
func newOriginDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"blog/post.html":     postTemplate,
		"blog/category.html": categoryTemplate,
		"blog/index.html":    listingTemplate,
		"about/index.html":   aboutPage,
		"404/index.html":     notFoundPage,
		"assets/app.js":      "console.log('app')\n",
	}
	for name, body := range files {
		p := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return dir
}

// writeOrigin replaces one file of the origin build.
func writeOrigin(t *testing.T, cfg SiteConfig, name, body string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(cfg.OriginDir, name), []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func testConfig(t *testing.T, apiURL string) SiteConfig {
	t.Helper()
	return SiteConfig{
		Name:            "Example",
		URL:             testSite,
		Description:     "Example site",
		Twitter:         "example",
		ContentAPIURL:   apiURL,
		PreviewSecret:   testSecret,
		PreviewUsername: "svc",
		PreviewPassword: "pw",
		SessionSecret:   "0123456789abcdef0123456789abcdef",
		FetchTimeout:    time.Second,
		OriginDir:       newOriginDir(t),
	}
}

func newTestHandler(t *testing.T, cfg SiteConfig, opts ...Option) http.Handler {
	t.Helper()
	app := New(cfg, opts...)
	h, err := app.Handler()
	if err != nil {
		t.Fatalf("Handler: %v", err)
	}
	t.Cleanup(func() { _ = app.Close() })
	return h
}

func get(t *testing.T, h http.Handler, target string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	req.Host = "example.com"
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func parseBody(t *testing.T, body string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return doc
}

func metaContent(doc *goquery.Document, selector string) (string, int) {
	sel := doc.Find(selector)
	v, _ := sel.First().Attr("content")
	return v, sel.Length()
}
