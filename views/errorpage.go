package views

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/a-h/templ"
)

// ErrorPage renders the minimal page served when the origin's own error page
// cannot be used. A non-empty location adds a meta refresh to it.
func ErrorPage(site Site, code int, location string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		title := fmt.Sprintf("%d %s", code, http.StatusText(code))
		name := templ.EscapeString(site.Name)

		_, err := io.WriteString(w, "<!DOCTYPE html>\n<html lang=\"en\"><head><meta charset=\"utf-8\">")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(w, "<title>%s | %s</title><meta name=\"robots\" content=\"noindex\">",
			templ.EscapeString(title), name)
		if err != nil {
			return err
		}
		if location != "" {
			_, err = fmt.Fprintf(w, "<meta http-equiv=\"refresh\" content=\"0; url=%s\">", templ.EscapeString(location))
			if err != nil {
				return err
			}
		}
		home := site.URL
		if home == "" {
			home = "/"
		}
		_, err = fmt.Fprintf(w, "</head><body><main><h1>%s</h1><p><a href=\"%s\">%s</a></p></main></body></html>\n",
			templ.EscapeString(title), templ.EscapeString(home), name)
		return err
	})
}
