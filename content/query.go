package content

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

var (
	slugPattern    = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
	numericPattern = regexp.MustCompile(`^[0-9]+$`)
)

// ValidSlug reports whether s is a well-formed post or category slug.
func ValidSlug(s string) bool {
	return slugPattern.MatchString(s)
}

// Query selects records from the content API. Exactly one of Slug, Category,
// ListCategories or Latest must be set.
type Query struct {
	Slug           string
	Category       string // slug or numeric id
	Page           int
	PageSize       int
	Offset         int
	ListCategories bool
	Latest         int

	Preview bool
	Token   string
}

// BySlug selects a single post.
func BySlug(slug string) Query { return Query{Slug: slug} }

// ByCategory selects one page of posts in a category.
func ByCategory(category string, page, pageSize int) Query {
	return Query{Category: category, Page: page, PageSize: pageSize}
}

// LatestPosts selects the n most recent posts.
func LatestPosts(n int) Query { return Query{Latest: n} }

// AllCategories selects the category list.
func AllCategories() Query { return Query{ListCategories: true} }

// WithPreview returns a copy of q that requests draft content with token.
func (q Query) WithPreview(token string) Query {
	q.Preview = true
	q.Token = token
	return q
}

func clampPageSize(n int) int {
	switch {
	case n == 0:
		return DefaultPageSize
	case n < 1:
		return 1
	case n > MaxPageSize:
		return MaxPageSize
	}
	return n
}

// normalize validates q and fills pagination defaults.
func (q Query) normalize() (Query, error) {
	q.Slug = strings.TrimSpace(q.Slug)
	q.Category = strings.TrimSpace(q.Category)

	selectors := 0
	if q.Slug != "" {
		selectors++
	}
	if q.Category != "" {
		selectors++
	}
	if q.ListCategories {
		selectors++
	}
	if q.Latest != 0 {
		selectors++
	}
	if selectors != 1 {
		return q, &ValidationError{Field: "query", Value: q.describe()}
	}

	if q.Slug != "" && !ValidSlug(q.Slug) {
		return q, &ValidationError{Field: "slug", Value: q.Slug}
	}
	if q.Category != "" && !ValidSlug(q.Category) {
		return q, &ValidationError{Field: "category", Value: q.Category}
	}

	if q.Category != "" {
		q.PageSize = clampPageSize(q.PageSize)
		if q.Page >= 1 {
			q.Offset = (q.Page - 1) * q.PageSize
		}
	}
	if q.Latest != 0 {
		q.Latest = clampPageSize(q.Latest)
	}
	if q.Offset < 0 {
		q.Offset = 0
	}
	return q, nil
}

// values renders the API query string. categoryID replaces a category slug.
func (q Query) values(categoryID string) url.Values {
	v := url.Values{}
	switch {
	case q.Slug != "":
		v.Set("slug", q.Slug)
	case q.ListCategories:
		v.Set("categories", "true")
	case q.Category != "":
		v.Set("list", strconv.Itoa(q.PageSize))
		v.Set("offset", strconv.Itoa(q.Offset))
		v.Set("category", categoryID)
	case q.Latest != 0:
		v.Set("list", strconv.Itoa(q.Latest))
		if q.Offset > 0 {
			v.Set("offset", strconv.Itoa(q.Offset))
		}
	}
	if q.Preview {
		v.Set("preview", "true")
	}
	return v
}

func (q Query) describe() string {
	parts := []string{}
	if q.Slug != "" {
		parts = append(parts, "slug="+q.Slug)
	}
	if q.Category != "" {
		parts = append(parts, "category="+q.Category)
	}
	if q.ListCategories {
		parts = append(parts, "categories")
	}
	if q.Latest != 0 {
		parts = append(parts, "latest="+strconv.Itoa(q.Latest))
	}
	return strings.Join(parts, "&")
}
