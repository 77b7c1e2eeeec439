// Package api is a read-only client for the public PokeAPI REST surface.
// It covers exactly the three endpoints the catalog needs: the paginated
// creature list, per-creature detail, and the type label list.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultBaseURL is the public PokeAPI v2 root.
const DefaultBaseURL = "https://pokeapi.co/api/v2"

// ErrNotFound is returned by Get when the upstream reports 404 for a name.
var ErrNotFound = errors.New("resource not found")

// Client talks to the upstream REST API. It performs no retries, no
// client-side rate limiting, and no caching; callers layer those on top.
type Client struct {
	baseURL string
	hc      *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the upstream root URL (no trailing slash).
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(u, "/")
	}
}

// WithHTTPClient substitutes the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.hc = hc
	}
}

// WithTimeout sets the per-request timeout on the underlying HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.hc.Timeout = d
	}
}

// NewClient creates a Client for the given options, defaulting to the
// public PokeAPI with a 30 second request timeout.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		hc:      &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// List fetches the first limit entries of the creature catalog.
func (c *Client) List(ctx context.Context, limit int) ([]PageItem, error) {
	u := fmt.Sprintf("%s/pokemon?limit=%d", c.baseURL, limit)

	var page listPage
	if err := c.getJSON(ctx, u, &page); err != nil {
		return nil, fmt.Errorf("api: listing pokemon: %w", err)
	}
	return page.Results, nil
}

// Get fetches the detail payload for a single creature. The key may be a
// short name, a numeric ID, or a full resource URL as returned by List.
func (c *Client) Get(ctx context.Context, nameOrURL string) (*Pokemon, error) {
	u := nameOrURL
	if !isResourceURL(nameOrURL) {
		u = c.baseURL + "/pokemon/" + url.PathEscape(strings.ToLower(nameOrURL))
	}

	var p Pokemon
	if err := c.getJSON(ctx, u, &p); err != nil {
		return nil, fmt.Errorf("api: fetching %q: %w", nameOrURL, err)
	}
	return &p, nil
}

// Types fetches the available category labels.
func (c *Client) Types(ctx context.Context) ([]NamedResource, error) {
	var page typePage
	if err := c.getJSON(ctx, c.baseURL+"/type", &page); err != nil {
		return nil, fmt.Errorf("api: listing types: %w", err)
	}
	return page.Results, nil
}

// getJSON performs a GET and decodes the 2xx body into out.
func (c *Client) getJSON(ctx context.Context, u string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.hc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, resp.Body)
		return ErrNotFound
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		_, _ = io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("unexpected status %s", resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

// isResourceURL reports whether key is a full resource URL rather than a name.
func isResourceURL(key string) bool {
	return strings.HasPrefix(key, "http://") || strings.HasPrefix(key, "https://")
}
