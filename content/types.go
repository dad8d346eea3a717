package content

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"
)

// Record is a single post as returned by the content API. It is an immutable
// per-request snapshot.
type Record struct {
	ID            int64         `json:"id"`
	Slug          string        `json:"slug"`
	Title         string        `json:"title"`
	Excerpt       string        `json:"excerpt"`
	Content       string        `json:"content"`
	Date          Timestamp     `json:"date"`
	Modified      Timestamp     `json:"modified"`
	Author        string        `json:"author"`
	Link          string        `json:"link"`
	Categories    []CategoryRef `json:"categories"`
	FeaturedImage *Image        `json:"featured_image"`
}

// CategoryRef is the short category form embedded in a Record.
type CategoryRef struct {
	ID          int64  `json:"id"`
	Slug        string `json:"slug"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Category is a taxonomy entry returned by a categories query.
type Category struct {
	ID          int64  `json:"id"`
	Slug        string `json:"slug"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Count       int    `json:"count"`
}

// Image is a featured image reference.
type Image struct {
	URL    string      `json:"url"`
	Width  int         `json:"width"`
	Height int         `json:"height"`
	Alt    string      `json:"alt"`
	Sizes  []ImageSize `json:"sizes"`
}

// ImageSize is one responsive variant of an Image.
type ImageSize struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// HasImage reports whether the record carries a usable featured image.
func (r Record) HasImage() bool {
	return r.FeaturedImage != nil && strings.TrimSpace(r.FeaturedImage.URL) != ""
}

// Timestamp accepts RFC 3339 and the zone-less layout some CMSes emit.
// Unparseable values decode to the zero time instead of failing the record.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		t.Time = time.Time{}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		t.Time = time.Time{}
		return nil
	}
	t.Time = parseTimestamp(s)
	return nil
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Format(time.RFC3339))
}

// ISO returns the RFC 3339 form, or "" for the zero time.
func (t Timestamp) ISO() string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}

func parseTimestamp(v string) time.Time {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}
	}
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, v); err == nil {
			return ts
		}
	}
	return time.Time{}
}
