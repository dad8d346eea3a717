package metaedge

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// newOrigin returns the handler that serves page shells: a reverse proxy when
// OriginURL is set, the static build directory otherwise.
func newOrigin(cfg SiteConfig) (echo.HandlerFunc, error) {
	if cfg.OriginURL == "" {
		return echo.WrapHandler(http.FileServer(http.Dir(cfg.OriginDir))), nil
	}
	target, err := url.Parse(cfg.OriginURL)
	if err != nil || target.Scheme == "" || target.Host == "" {
		return nil, fmt.Errorf("metaedge: invalid origin URL %q", cfg.OriginURL)
	}
	proxy := middleware.ProxyWithConfig(middleware.ProxyConfig{
		Balancer: middleware.NewRoundRobinBalancer([]*middleware.ProxyTarget{{URL: target}}),
	})
	return proxy(func(echo.Context) error { return echo.ErrNotFound }), nil
}
