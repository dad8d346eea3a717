package metaedge

import (
	"bytes"
	"mime"
	"net/http"

	"github.com/labstack/echo/v4"
)

// captureWriter buffers the origin response so it can be rewritten or
// replayed unchanged.
type captureWriter struct {
	header http.Header
	status int
	body   bytes.Buffer
}

func newCaptureWriter() *captureWriter {
	return &captureWriter{header: make(http.Header)}
}

func (w *captureWriter) Header() http.Header { return w.header }

func (w *captureWriter) WriteHeader(code int) {
	if w.status == 0 {
		w.status = code
	}
}

func (w *captureWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	return w.body.Write(b)
}

// Flush satisfies http.Flusher for origins that stream.
func (w *captureWriter) Flush() {}

// headers the origin must not see: the shell is always fetched in full and
// uncompressed so it can be inspected.
var originStripHeaders = []string{
	"If-Modified-Since",
	"If-None-Match",
	"If-Range",
	"Range",
	echo.HeaderAcceptEncoding,
}

// rewriteMiddleware routes a GET request, fetches the page shell from the
// origin and lets the matching rewriter enrich its <head>. Any failure falls
// back to the origin response.
func (a *App) rewriteMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := c.Request()
		if req.Method != http.MethodGet {
			return next(c)
		}
		route, ok := a.Router.Match(req.URL.Path)
		if !ok {
			return next(c)
		}

		requested := *req.URL
		originReq := req.Clone(req.Context())
		if route.Template != "" {
			originReq.URL.Path = route.Template
			originReq.URL.RawPath = ""
			originReq.RequestURI = ""
		}
		for _, h := range originStripHeaders {
			originReq.Header.Del(h)
		}

		capture := newCaptureWriter()
		res := c.Response()
		c.SetRequest(originReq)
		c.SetResponse(echo.NewResponse(capture, c.Echo()))
		err := next(c)
		c.SetRequest(req)
		c.SetResponse(res)
		if err != nil {
			return err
		}

		page := Page{
			URL:          &requested,
			Status:       capture.status,
			Header:       capture.header,
			Body:         capture.body.Bytes(),
			PreviewToken: a.previewToken(c),
		}
		if page.Status == 0 {
			page.Status = http.StatusOK
		}
		if page.Status != http.StatusOK || !isHTML(page.Header) {
			return replay(c, page)
		}

		result, err := route.Rewriter.Rewrite(req.Context(), page)
		if err != nil {
			c.Logger().Warnf("metaedge: %s rewrite %s: %v", route.Kind, requested.Path, err)
			return replay(c, page)
		}
		if result.NotFound {
			h := c.Response().Header()
			h.Set(echo.HeaderLocation, result.Location)
			h.Set(echo.HeaderCacheControl, "no-store")
			return RenderStatus(c, http.StatusNotFound, a.errorView(http.StatusNotFound))
		}
		if !result.Modified {
			return replay(c, page)
		}
		return writeRewritten(c, page, result)
	}
}

// replay writes the captured origin response back unchanged.
func replay(c echo.Context, p Page) error {
	h := c.Response().Header()
	for k, v := range p.Header {
		h[k] = v
	}
	h.Del(echo.HeaderContentLength)
	c.Response().WriteHeader(p.Status)
	_, err := c.Response().Write(p.Body)
	return err
}

func writeRewritten(c echo.Context, p Page, r Result) error {
	h := c.Response().Header()
	for k, v := range p.Header {
		h[k] = v
	}
	for _, k := range []string{echo.HeaderContentLength, "ETag", echo.HeaderLastModified} {
		h.Del(k)
	}
	h.Set(echo.HeaderContentType, "text/html; charset=utf-8")
	if r.Private {
		h.Set(echo.HeaderCacheControl, "private, no-store")
	} else {
		h.Set(echo.HeaderCacheControl, "public, max-age=3600")
	}
	c.Response().WriteHeader(r.Status)
	_, err := c.Response().Write(r.Body)
	return err
}

func isHTML(h http.Header) bool {
	mt, _, err := mime.ParseMediaType(h.Get(echo.HeaderContentType))
	return err == nil && mt == echo.MIMETextHTML
}
