// Package metaedge sits in front of a static or proxied marketing site and
// rewrites the <head> of blog, category and generic pages with SEO, Open Graph,
// Twitter Card and JSON-LD metadata drawn from a content API.
//
// Enrichment never blocks a page: when the content API is slow, wrong or
// down, the origin response is served unchanged.
package metaedge

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"sync"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"

	"github.com/eringen/metaedge/content"
	"github.com/eringen/metaedge/views"
)

// App wires the content client, the router and the origin into an Echo
// server.
type App struct {
	Config  SiteConfig
	Echo    *echo.Echo
	Content *content.Client
	Router  *Router

	errorView func(code int) templ.Component
	origin    echo.HandlerFunc
	setupOnce sync.Once
	setupErr  error
}

// New creates an App for cfg. Missing config values get defaults.
func New(cfg SiteConfig, opts ...Option) *App {
	cfg.setDefaults()

	e := echo.New()
	e.HideBanner = true

	a := &App{
		Config: cfg,
		Echo:   e,
	}
	for _, opt := range opts {
		opt(a)
	}

	if a.Content == nil {
		a.Content = content.NewClient(cfg.ContentAPIURL,
			content.WithTimeout(cfg.FetchTimeout),
			content.WithPreview(cfg.PreviewSecret, cfg.PreviewTokenURL, cfg.PreviewUsername, cfg.PreviewPassword),
		)
	}
	if a.errorView == nil {
		site := views.Site{Name: cfg.Name, URL: cfg.URL}
		errorPage := BuildURL(cfg.URL, cfg.Routes.Error)
		a.errorView = func(code int) templ.Component {
			if code == http.StatusNotFound {
				return views.ErrorPage(site, code, errorPage)
			}
			return views.ErrorPage(site, code, "")
		}
	}
	a.Router = NewRouter(cfg, a.Content)
	return a
}

func (a *App) setup() error {
	a.setupOnce.Do(func() {
		origin, err := newOrigin(a.Config)
		if err != nil {
			a.setupErr = err
			return
		}
		a.origin = origin
		a.setupMiddleware()
		a.setupRoutes()
	})
	return a.setupErr
}

// Handler returns the fully configured HTTP handler.
func (a *App) Handler() (http.Handler, error) {
	if err := a.setup(); err != nil {
		return nil, err
	}
	return a.Echo, nil
}

// Start configures middleware and routes and serves on Config.Addr.
func (a *App) Start() error {
	if err := a.setup(); err != nil {
		return err
	}
	if !a.Content.Enabled() {
		a.Echo.Logger.Warn("metaedge: CONTENT_API_URL not set; pages are served without enrichment")
	}
	if err := a.Echo.Start(a.Config.Addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (a *App) setupRoutes() {
	e := a.Echo

	e.GET("/healthz", a.handleHealthz)
	e.GET("/api/resource", a.handleResource)
	e.GET("/api/resource/", a.handleResource)

	if a.previewEnabled() {
		e.GET("/preview/", a.handlePreview)
		e.GET("/preview/exit/", a.handlePreviewExit)
	}

	e.GET("/*", a.origin, a.rewriteMiddleware)
	e.HEAD("/*", a.origin)
}

// RewriteDocument runs the router and the matching rewriter over body as if it
// had been served for rawURL. Excluded paths and failed rewrites return body
// unchanged along with the error, if any.
func (a *App) RewriteDocument(ctx context.Context, rawURL string, body []byte) (Result, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return Result{Status: http.StatusOK, Body: body}, fmt.Errorf("metaedge: parse url: %w", err)
	}
	page := Page{URL: u, Status: http.StatusOK, Header: http.Header{}, Body: body}
	route, ok := a.Router.Match(u.Path)
	if !ok {
		return unchanged(page), nil
	}
	res, err := route.Rewriter.Rewrite(ctx, page)
	if err != nil {
		return unchanged(page), err
	}
	return res, nil
}

// Close releases idle connections to the content API.
func (a *App) Close() error {
	a.Content.Close()
	return a.Echo.Close()
}

// EnvOr returns the value of the environment variable key, or fallback if empty.
func EnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// MustEnv returns the value of the environment variable key, or fatally exits if empty.
func MustEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		log.Fatalf("metaedge: required environment variable %s is not set", key)
	}
	return v
}
