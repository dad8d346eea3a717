package metaedge

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/eringen/metaedge/content"
)

const apiCacheControl = "public, s-maxage=3600, stale-while-revalidate=86400"

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// handleResource relays content API queries to the browser.
func (a *App) handleResource(c echo.Context) error {
	q, err := resourceQuery(c)
	if err != nil {
		return apiError(c, http.StatusBadRequest, "Bad Request", err.Error())
	}

	raw, err := a.Content.Raw(c.Request().Context(), q)
	var auth *content.AuthError
	switch {
	case err == nil:
	case errors.As(err, &auth):
		return apiError(c, auth.StatusCode(), "Unauthorized", auth.Message)
	case errors.Is(err, content.ErrValidation):
		return apiError(c, http.StatusBadRequest, "Bad Request", err.Error())
	case errors.Is(err, content.ErrNotFound):
		return apiError(c, http.StatusNotFound, "Not Found", "Unknown category")
	default:
		c.Logger().Errorf("metaedge: resource %s: %v", c.QueryString(), err)
		return apiError(c, http.StatusInternalServerError, "Internal Server Error", "Failed to fetch content")
	}

	if q.Preview {
		c.Response().Header().Set(echo.HeaderCacheControl, "private, no-store")
	} else {
		c.Response().Header().Set(echo.HeaderCacheControl, apiCacheControl)
	}
	return c.JSONBlob(http.StatusOK, raw)
}

// resourceQuery maps the public query grammar onto a content.Query. Without
// any selector it lists the latest posts.
func resourceQuery(c echo.Context) (content.Query, error) {
	list, err := intParam(c, "list")
	if err != nil {
		return content.Query{}, err
	}
	offset, err := intParam(c, "offset")
	if err != nil {
		return content.Query{}, err
	}

	var q content.Query
	switch {
	case c.QueryParam("slug") != "":
		q = content.BySlug(c.QueryParam("slug"))
	case c.QueryParam("categories") == "true":
		q = content.AllCategories()
	case c.QueryParam("category") != "":
		q = content.Query{Category: c.QueryParam("category"), PageSize: list, Offset: offset}
	default:
		if list == 0 {
			list = content.DefaultPageSize
		}
		q = content.Query{Latest: list, Offset: offset}
	}
	if c.QueryParam("preview") == "true" {
		q = q.WithPreview(c.QueryParam("token"))
	}
	return q, nil
}

func intParam(c echo.Context, name string) (int, error) {
	v := strings.TrimSpace(c.QueryParam(name))
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, &content.ValidationError{Field: name, Value: v}
	}
	return n, nil
}

func unauthorized(c echo.Context, msg string) error {
	return apiError(c, http.StatusUnauthorized, "Unauthorized", msg)
}

func apiError(c echo.Context, code int, title, msg string) error {
	c.Response().Header().Set(echo.HeaderCacheControl, "no-store")
	return c.JSON(code, errorBody{Error: title, Message: msg})
}

func (a *App) handleHealthz(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status":  "ok",
		"content": a.Content.Enabled(),
	})
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	he, ok := err.(*echo.HTTPError)
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code == http.StatusNotFound || code >= 500 {
		if code >= 500 {
			c.Logger().Errorf("server error: %v", err)
		}
		c.Response().Header().Set(echo.HeaderCacheControl, "no-store")
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = RenderStatus(c, code, a.errorView(code))
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}
