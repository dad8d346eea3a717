package metaedge

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"SITE_NAME", "SITE_URL", "SITE_DESCRIPTION", "SITE_TWITTER", "SITE_LOCALE", "SITE_IMAGE",
		"CONTENT_API_URL", "PREVIEW_SECRET", "PREVIEW_USERNAME", "PREVIEW_PASSWORD", "PREVIEW_TOKEN_URL",
		"ORIGIN_DIR", "ORIGIN_URL", "ADDR", "SESSION_SECRET", "COOKIE_SECURE", "FETCH_TIMEOUT",
	} {
		t.Setenv(k, "")
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Name != "Blog" || cfg.URL != "http://localhost:3000" || cfg.Image != "/social.jpg" {
		t.Errorf("site defaults = %+v", cfg)
	}
	if cfg.FetchTimeout != 4*time.Second || cfg.OriginDir != "dist" || cfg.Addr != ":3000" {
		t.Errorf("server defaults = %+v", cfg)
	}
	want := Routes{Blog: "/blog", Post: "/blog/post.html", Category: "/blog/category.html", Listing: "/blog/", Error: "/404/"}
	if cfg.Routes != want {
		t.Errorf("routes = %+v, want %+v", cfg.Routes, want)
	}
}

func TestLoadConfigFileAndEnv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "metaedge.yaml")
	yaml := `name: Acme
url: https://acme.test/
twitter: acme
fetch_timeout: 2s
routes:
  blog: /journal
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SITE_NAME", "Acme Corp")
	t.Setenv("COOKIE_SECURE", "true")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Name != "Acme Corp" {
		t.Errorf("Name = %q, env should win", cfg.Name)
	}
	if cfg.URL != "https://acme.test" {
		t.Errorf("URL = %q", cfg.URL)
	}
	if cfg.FetchTimeout != 2*time.Second {
		t.Errorf("FetchTimeout = %s", cfg.FetchTimeout)
	}
	if !cfg.CookieSecure {
		t.Error("CookieSecure not set from env")
	}
	if cfg.Routes.Post != "/journal/post.html" || cfg.Routes.Listing != "/journal/" {
		t.Errorf("routes = %+v", cfg.Routes)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	clearEnv(t)
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
	t.Setenv("FETCH_TIMEOUT", "soon")
	if _, err := LoadConfig(""); err == nil {
		t.Error("expected error for bad FETCH_TIMEOUT")
	}
}

func TestEnvOr(t *testing.T) {
	t.Setenv("METAEDGE_TEST_VALUE", "")
	if got := EnvOr("METAEDGE_TEST_VALUE", "fallback"); got != "fallback" {
		t.Errorf("EnvOr = %q", got)
	}
	t.Setenv("METAEDGE_TEST_VALUE", "set")
	if got := EnvOr("METAEDGE_TEST_VALUE", "fallback"); got != "set" {
		t.Errorf("EnvOr = %q", got)
	}
}
