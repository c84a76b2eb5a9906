// Copyright (c) 2025 Arc Engineering
// SPDX-License-Identifier: MIT

package library

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/tidwall/gjson"
)

// DefaultGoogleBooksEndpoint is the Google Books volumes search endpoint.
const DefaultGoogleBooksEndpoint = "https://www.googleapis.com/books/v1/volumes"

// Defaults applied to fields a volume does not carry.
const (
	UnknownValue = "Unknown"
	DefaultGenre = "General"
)

const maxResponseBytes = 8 << 20

// GoogleBooks is a MetadataSource backed by the Google Books API.
// Successful responses are cached per query.
type GoogleBooks struct {
	endpoint  string
	apiKey    string
	userAgent string
	client    *http.Client
	cache     *cache.Cache
}

// GoogleBooksOption configures a GoogleBooks source.
type GoogleBooksOption func(*GoogleBooks)

// WithAPIKey sends key as the "key" query parameter.
func WithAPIKey(key string) GoogleBooksOption {
	return func(g *GoogleBooks) { g.apiKey = key }
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) GoogleBooksOption {
	return func(g *GoogleBooks) { g.userAgent = ua }
}

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(c *http.Client) GoogleBooksOption {
	return func(g *GoogleBooks) { g.client = c }
}

// WithCacheTTL sets how long results are cached. Zero disables caching.
func WithCacheTTL(ttl time.Duration) GoogleBooksOption {
	return func(g *GoogleBooks) {
		if ttl <= 0 {
			g.cache = nil
			return
		}
		g.cache = cache.New(ttl, 2*ttl)
	}
}

// NewGoogleBooks creates a source querying endpoint with the given request timeout.
func NewGoogleBooks(endpoint string, timeout time.Duration, opts ...GoogleBooksOption) *GoogleBooks {
	if endpoint == "" {
		endpoint = DefaultGoogleBooksEndpoint
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	g := &GoogleBooks{
		endpoint:  endpoint,
		userAgent: "arc-shelf/1.0",
		client:    &http.Client{Timeout: timeout},
		cache:     cache.New(10*time.Minute, 20*time.Minute),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Fetch queries the API and maps each returned volume to a record.
// Every failure is an *ImportError.
func (g *GoogleBooks) Fetch(ctx context.Context, query string) ([]Record, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, &ImportError{Query: query, Err: errors.New("empty query")}
	}

	if g.cache != nil {
		if v, ok := g.cache.Get(query); ok {
			return slices.Clone(v.([]Record)), nil
		}
	}

	records, err := g.fetch(ctx, query)
	if err != nil {
		return nil, err
	}

	if g.cache != nil {
		g.cache.SetDefault(query, slices.Clone(records))
	}
	return records, nil
}

func (g *GoogleBooks) fetch(ctx context.Context, query string) ([]Record, error) {
	u, err := url.Parse(g.endpoint)
	if err != nil {
		return nil, &ImportError{Query: query, Err: fmt.Errorf("parse endpoint: %w", err)}
	}
	q := u.Query()
	q.Set("q", query)
	if g.apiKey != "" {
		q.Set("key", g.apiKey)
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, &ImportError{Query: query, Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("User-Agent", g.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, &ImportError{Query: query, Err: fmt.Errorf("query volumes: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &ImportError{
			Query:      query,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("%s: %s", resp.Status, strings.TrimSpace(string(body))),
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &ImportError{Query: query, Err: fmt.Errorf("read response: %w", err)}
	}
	records, err := ParseVolumes(body)
	if err != nil {
		return nil, &ImportError{Query: query, Err: err}
	}
	return records, nil
}

// ParseVolumes maps a volumes search response to records. A response
// without "items" yields no records.
func ParseVolumes(body []byte) ([]Record, error) {
	if !gjson.ValidBytes(body) {
		return nil, errors.New("decode response: invalid JSON")
	}

	var records []Record
	gjson.GetBytes(body, "items").ForEach(func(_, item gjson.Result) bool {
		records = append(records, volumeRecord(item.Get("volumeInfo")))
		return true
	})
	return records, nil
}

func volumeRecord(info gjson.Result) Record {
	r := Record{
		Title:  UnknownValue,
		Author: UnknownValue,
		Genre:  DefaultGenre,
		Year:   UnknownValue,
	}

	if t := info.Get("title"); t.Exists() {
		r.Title = t.String()
	}

	if a := info.Get("authors"); a.Exists() {
		var names []string
		for _, n := range a.Array() {
			names = append(names, n.String())
		}
		r.Author = strings.Join(names, ", ")
	}

	if cats := info.Get("categories").Array(); len(cats) > 0 {
		r.Genre = cats[0].String()
	}

	if d := info.Get("publishedDate"); d.Exists() {
		r.Year, _, _ = strings.Cut(d.String(), "-")
	}

	return r
}
