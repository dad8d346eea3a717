// Package content is a read-only client for the content resource API that
// backs the site's blog: posts by slug, by category page, the latest posts,
// and the category list. Preview queries exchange service credentials for a
// bearer token before any draft content is requested.
package content

import (
	"bytes"
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const (
	defaultTimeout = 4 * time.Second
	maxBodyBytes   = 8 << 20
)

// Client issues queries to the content API. It holds no per-request state and
// is safe for concurrent use.
type Client struct {
	baseURL  string
	tokenURL string
	http     *http.Client

	previewSecret string
	username      string
	password      string
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout bounds every request made by the client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithPreview enables preview queries. secret is the shared token callers
// must present; username and password are exchanged at tokenURL for a bearer
// token. An empty tokenURL defaults to {base}/token.
func WithPreview(secret, tokenURL, username, password string) Option {
	return func(c *Client) {
		c.previewSecret = secret
		c.tokenURL = strings.TrimSpace(tokenURL)
		c.username = username
		c.password = password
	}
}

// NewClient constructs a Client for the API rooted at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	c := &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.tokenURL == "" && baseURL != "" {
		c.tokenURL = baseURL + "/token"
	}
	return c
}

// Close releases idle connections.
func (c *Client) Close() {
	if c != nil {
		c.http.CloseIdleConnections()
	}
}

// Enabled reports whether a base URL is configured.
func (c *Client) Enabled() bool {
	return c != nil && c.baseURL != ""
}

// Fetch runs a post query (slug, category page or latest) and decodes the
// resulting records.
func (c *Client) Fetch(ctx context.Context, q Query) ([]Record, error) {
	if q.ListCategories {
		return nil, &ValidationError{Field: "query", Value: "categories"}
	}
	raw, err := c.Raw(ctx, q)
	if err != nil {
		return nil, err
	}
	var records []Record
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, &UpstreamError{Op: "decode records", Err: err}
	}
	return records, nil
}

// Post returns the single record for slug, or ErrNotFound.
func (c *Client) Post(ctx context.Context, q Query) (Record, error) {
	records, err := c.Fetch(ctx, q)
	if err != nil {
		return Record{}, err
	}
	if len(records) == 0 {
		return Record{}, ErrNotFound
	}
	return records[0], nil
}

// Categories returns every category.
func (c *Client) Categories(ctx context.Context) ([]Category, error) {
	raw, err := c.Raw(ctx, AllCategories())
	if err != nil {
		return nil, err
	}
	var cats []Category
	if err := json.Unmarshal(raw, &cats); err != nil {
		return nil, &UpstreamError{Op: "decode categories", Err: err}
	}
	return cats, nil
}

// FindCategory lists categories and matches slug case-insensitively.
func (c *Client) FindCategory(ctx context.Context, slug string) (Category, error) {
	if !ValidSlug(slug) {
		return Category{}, &ValidationError{Field: "category", Value: slug}
	}
	cats, err := c.Categories(ctx)
	if err != nil {
		return Category{}, err
	}
	for _, cat := range cats {
		if strings.EqualFold(cat.Slug, slug) {
			return cat, nil
		}
	}
	return Category{}, ErrNotFound
}

// Raw runs q and returns the JSON array body untouched. It is what the data
// API endpoint relays to browsers.
func (c *Client) Raw(ctx context.Context, q Query) (json.RawMessage, error) {
	q, err := q.normalize()
	if err != nil {
		return nil, err
	}
	if !c.Enabled() {
		return nil, &UpstreamError{Op: "fetch", Err: errors.New("content API not configured")}
	}

	bearer, err := c.authorize(ctx, q)
	if err != nil {
		return nil, err
	}

	categoryID := q.Category
	if q.Category != "" && !numericPattern.MatchString(q.Category) {
		cat, err := c.FindCategory(ctx, q.Category)
		if err != nil {
			return nil, err
		}
		categoryID = strconv.FormatInt(cat.ID, 10)
	}

	return c.get(ctx, q.values(categoryID).Encode(), bearer)
}

// authorize checks the shared preview secret and exchanges credentials for a
// bearer token. Non-preview queries need no token.
func (c *Client) authorize(ctx context.Context, q Query) (string, error) {
	if !q.Preview {
		return "", nil
	}
	if !c.CheckPreviewToken(q.Token) {
		return "", &AuthError{Message: "Invalid preview token"}
	}
	return c.issueToken(ctx)
}

// CheckPreviewToken compares token with the shared preview secret in
// constant time. It is false when preview is not configured.
func (c *Client) CheckPreviewToken(token string) bool {
	if c == nil || c.previewSecret == "" || token == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(token), []byte(c.previewSecret)) == 1
}

func (c *Client) issueToken(ctx context.Context) (string, error) {
	if c.tokenURL == "" || c.username == "" {
		return "", &UpstreamError{Op: "issue token", Err: errors.New("preview credentials not configured")}
	}
	body, err := json.Marshal(map[string]string{
		"username": c.username,
		"password": c.password,
	})
	if err != nil {
		return "", &UpstreamError{Op: "issue token", Err: err}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tokenURL, bytes.NewReader(body))
	if err != nil {
		return "", &UpstreamError{Op: "issue token", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", &UpstreamError{Op: "issue token", Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &UpstreamError{Op: "issue token", Status: resp.StatusCode}
	}

	var payload struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&payload); err != nil {
		return "", &UpstreamError{Op: "issue token", Err: err}
	}
	if strings.TrimSpace(payload.Token) == "" {
		return "", &UpstreamError{Op: "issue token", Err: errors.New("empty token")}
	}
	return payload.Token, nil
}

func (c *Client) get(ctx context.Context, rawQuery, bearer string) (json.RawMessage, error) {
	endpoint := c.baseURL + "/resource?" + rawQuery
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &UpstreamError{Op: "fetch", Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &UpstreamError{Op: "fetch", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, &AuthError{Message: "Preview token rejected"}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &UpstreamError{Op: "fetch", Status: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &UpstreamError{Op: "read", Err: err}
	}
	if err := checkArray(body); err != nil {
		return nil, &UpstreamError{Op: "decode", Err: err}
	}
	return json.RawMessage(body), nil
}

// checkArray verifies body is a JSON array without decoding its elements.
func checkArray(body []byte) error {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return fmt.Errorf("expected JSON array")
	}
	if !json.Valid(trimmed) {
		return fmt.Errorf("malformed JSON")
	}
	return nil
}
