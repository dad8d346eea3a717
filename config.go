package metaedge

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/a-h/templ"
	"gopkg.in/yaml.v3"

	"github.com/eringen/metaedge/content"
)

// SiteConfig holds all configuration for a metaedge deployment.
type SiteConfig struct {
	Name        string `yaml:"name"`        // Site title (default "Blog")
	URL         string `yaml:"url"`         // Canonical origin (default "http://localhost:3000")
	Description string `yaml:"description"` // Default description for pages without one
	Twitter     string `yaml:"twitter"`     // Social handle for twitter:site, e.g. "@example"
	Locale      string `yaml:"locale"`      // og:locale (default "en_US")
	Image       string `yaml:"image"`       // Default social image path (default "/social.jpg")

	ContentAPIURL   string        `yaml:"content_api_url"`   // Content resource API base
	PreviewSecret   string        `yaml:"preview_secret"`    // Shared preview token
	PreviewUsername string        `yaml:"preview_username"`  // Token exchange credentials
	PreviewPassword string        `yaml:"preview_password"`  //
	PreviewTokenURL string        `yaml:"preview_token_url"` // Token endpoint (default {api}/token)
	FetchTimeout    time.Duration `yaml:"fetch_timeout"`     // Per-request API timeout (default 4s)

	OriginDir string `yaml:"origin_dir"` // Static build directory (default "dist")
	OriginURL string `yaml:"origin_url"` // Upstream origin; overrides OriginDir when set

	Addr          string `yaml:"addr"`           // Listen address (default ":3000")
	SessionSecret string `yaml:"session_secret"` // Enables the preview session cookie
	CookieSecure  bool   `yaml:"cookie_secure"`  // Set true for HTTPS

	Routes Routes `yaml:"routes"`
}

// Routes names the template paths the router maps requests onto.
type Routes struct {
	Blog     string `yaml:"blog"`     // Listing root (default "/blog")
	Post     string `yaml:"post"`     // Post template file (default "/blog/post.html")
	Category string `yaml:"category"` // Category template file (default "/blog/category.html")
	Listing  string `yaml:"listing"`  // Listing template path (default "/blog/")
	Error    string `yaml:"error"`    // Error page (default "/404/")
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "Blog"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	c.URL = strings.TrimRight(c.URL, "/")
	if c.Locale == "" {
		c.Locale = "en_US"
	}
	if c.Image == "" {
		c.Image = "/social.jpg"
	}
	if c.FetchTimeout == 0 {
		c.FetchTimeout = 4 * time.Second
	}
	if c.OriginDir == "" {
		c.OriginDir = "dist"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	c.Routes.setDefaults()
}

func (r *Routes) setDefaults() {
	if r.Blog == "" {
		r.Blog = "/blog"
	}
	r.Blog = "/" + strings.Trim(r.Blog, "/")
	if r.Post == "" {
		r.Post = r.Blog + "/post.html"
	}
	if r.Category == "" {
		r.Category = r.Blog + "/category.html"
	}
	if r.Listing == "" {
		r.Listing = r.Blog + "/"
	}
	if r.Error == "" {
		r.Error = "/404/"
	}
}

// LoadConfig reads an optional YAML file and overlays environment variables.
// An empty path skips the file.
func LoadConfig(path string) (SiteConfig, error) {
	var cfg SiteConfig
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("metaedge: read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("metaedge: parse config %s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return cfg, err
	}
	cfg.setDefaults()
	return cfg, nil
}

func (c *SiteConfig) applyEnv() error {
	envString(&c.Name, "SITE_NAME")
	envString(&c.URL, "SITE_URL")
	envString(&c.Description, "SITE_DESCRIPTION")
	envString(&c.Twitter, "SITE_TWITTER")
	envString(&c.Locale, "SITE_LOCALE")
	envString(&c.Image, "SITE_IMAGE")
	envString(&c.ContentAPIURL, "CONTENT_API_URL")
	envString(&c.PreviewSecret, "PREVIEW_SECRET")
	envString(&c.PreviewUsername, "PREVIEW_USERNAME")
	envString(&c.PreviewPassword, "PREVIEW_PASSWORD")
	envString(&c.PreviewTokenURL, "PREVIEW_TOKEN_URL")
	envString(&c.OriginDir, "ORIGIN_DIR")
	envString(&c.OriginURL, "ORIGIN_URL")
	envString(&c.Addr, "ADDR")
	envString(&c.SessionSecret, "SESSION_SECRET")
	if v := os.Getenv("COOKIE_SECURE"); v != "" {
		c.CookieSecure = strings.EqualFold(v, "true")
	}
	if v := os.Getenv("FETCH_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("metaedge: FETCH_TIMEOUT: %w", err)
		}
		c.FetchTimeout = d
	}
	return nil
}

func envString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// Option configures additional App behavior.
type Option func(*App)

// WithContentClient replaces the content API client built from SiteConfig.
func WithContentClient(c *content.Client) Option {
	return func(a *App) {
		a.Content = c
	}
}

// WithErrorView sets the component rendered for 404 and 5xx responses.
func WithErrorView(fn func(code int) templ.Component) Option {
	return func(a *App) {
		a.errorView = fn
	}
}
