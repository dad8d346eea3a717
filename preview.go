package metaedge

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/eringen/metaedge/content"
)

func (a *App) previewEnabled() bool {
	return a.Config.PreviewSecret != "" && a.Config.SessionSecret != ""
}

// handlePreview checks the shared token, remembers it in the preview session
// and sends the editor to the public URL of the draft.
func (a *App) handlePreview(c echo.Context) error {
	if !a.previewEnabled() {
		return echo.ErrNotFound
	}
	token := c.QueryParam("token")
	if !a.Content.CheckPreviewToken(token) {
		return unauthorized(c, "Invalid preview token")
	}
	slug := strings.TrimSpace(c.QueryParam("slug"))
	if slug != "" && !content.ValidSlug(slug) {
		return apiError(c, http.StatusBadRequest, "Bad Request", "Invalid slug")
	}
	if err := setPreviewSession(c, token); err != nil {
		return err
	}
	if slug == "" {
		return c.Redirect(http.StatusSeeOther, a.Config.Routes.Blog+"/")
	}
	return c.Redirect(http.StatusSeeOther, a.Config.Routes.Blog+"/"+slug+"/")
}

func (a *App) handlePreviewExit(c echo.Context) error {
	if !a.previewEnabled() {
		return echo.ErrNotFound
	}
	if err := clearPreviewSession(c); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, a.Config.Routes.Blog+"/")
}
