// Copyright (c) 2025 Arc Engineering
// SPDX-License-Identifier: MIT

package library

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const volumesResponse = `{
  "kind": "books#volumes",
  "totalItems": 3,
  "items": [
    {"volumeInfo": {
      "title": "Sapiens",
      "authors": ["Yuval Noah Harari"],
      "categories": ["History", "Anthropology"],
      "publishedDate": "2015-02-10"
    }},
    {"volumeInfo": {
      "title": "Good Omens",
      "authors": ["Terry Pratchett", "Neil Gaiman"],
      "publishedDate": "1990"
    }},
    {"volumeInfo": {}}
  ]
}`

func TestParseVolumes(t *testing.T) {
	records, err := ParseVolumes([]byte(volumesResponse))
	require.NoError(t, err)
	assert.Equal(t, []Record{
		{Title: "Sapiens", Author: "Yuval Noah Harari", Genre: "History", Year: "2015"},
		{Title: "Good Omens", Author: "Terry Pratchett, Neil Gaiman", Genre: "General", Year: "1990"},
		{Title: "Unknown", Author: "Unknown", Genre: "General", Year: "Unknown"},
	}, records)
}

func TestParseVolumesWithoutItems(t *testing.T) {
	records, err := ParseVolumes([]byte(`{"kind":"books#volumes","totalItems":0}`))
	require.NoError(t, err)
	assert.Empty(t, records)

	_, err = ParseVolumes([]byte(`{"items": [`))
	assert.Error(t, err)
}

func TestGoogleBooksFetch(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		assert.Equal(t, "frank herbert", r.URL.Query().Get("q"))
		assert.Equal(t, "secret", r.URL.Query().Get("key"))
		assert.Equal(t, "arc-shelf-test", r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(volumesResponse))
	}))
	defer srv.Close()

	g := NewGoogleBooks(srv.URL, time.Second, WithAPIKey("secret"), WithUserAgent("arc-shelf-test"))

	records, err := g.Fetch(context.Background(), "  frank herbert ")
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "Sapiens", records[0].Title)

	// Second call is served from cache.
	again, err := g.Fetch(context.Background(), "frank herbert")
	require.NoError(t, err)
	assert.Equal(t, records, again)
	assert.Equal(t, int32(1), hits.Load())
}

func TestGoogleBooksFetchWithoutCache(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte(`{"items":[]}`))
	}))
	defer srv.Close()

	g := NewGoogleBooks(srv.URL, time.Second, WithCacheTTL(0))
	for range 2 {
		records, err := g.Fetch(context.Background(), "dune")
		require.NoError(t, err)
		assert.Empty(t, records)
	}
	assert.Equal(t, int32(2), hits.Load())
}

func TestGoogleBooksFetchStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	g := NewGoogleBooks(srv.URL, time.Second)
	_, err := g.Fetch(context.Background(), "dune")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrImportFailed)

	var ie *ImportError
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, http.StatusTooManyRequests, ie.StatusCode)
}

func TestGoogleBooksFetchUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	g := NewGoogleBooks(url, time.Second)
	_, err := g.Fetch(context.Background(), "dune")
	assert.ErrorIs(t, err, ErrImportFailed)
}

func TestGoogleBooksFetchEmptyQuery(t *testing.T) {
	g := NewGoogleBooks("http://127.0.0.1:0", time.Second)
	_, err := g.Fetch(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrImportFailed)
}

func TestCatalogImportFromGoogleBooks(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(volumesResponse))
	}))
	defer srv.Close()

	c, store := openMemory(t, dune)
	res, err := c.Import(context.Background(), NewGoogleBooks(srv.URL, time.Second), "anything")
	require.NoError(t, err)
	assert.Len(t, res.Added, 3)
	assert.Equal(t, 4, c.Len())
	assert.Equal(t, 3, store.Saves())
}
