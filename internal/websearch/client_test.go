// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package websearch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

const resultsPage = `
<div class="result results_links web-result">
  <h2 class="result__title">
    <a rel="nofollow" class="result__a" href="//duckduckgo.com/l/?uddg=https%3A%2F%2Fexample.com%2Fgo&amp;rut=abc">Go <b>Programming</b></a>
  </h2>
  <a class="result__snippet" href="#">Go is an &amp; open source language.</a>
</div>
<div class="result results_links web-result">
  <h2 class="result__title">
    <a rel="nofollow" class="result__a" href="https://go.dev/doc/">Go Documentation</a>
  </h2>
  <a class="result__snippet" href="#">Official   docs
  and tutorials.</a>
</div>
`

func testClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(Options{
		Endpoint:  srv.URL + "/html/",
		RateEvery: time.Millisecond,
		Burst:     10,
	})
}

func TestSearchExtractsResults(t *testing.T) {
	var gotQuery, gotUA string
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		gotUA = r.Header.Get("User-Agent")
		w.Write([]byte(resultsPage))
	}))

	block, sources := c.Search(context.Background(), "go language")

	if gotQuery != "go language" {
		t.Errorf("query = %q", gotQuery)
	}
	if !strings.Contains(gotUA, "Chrome") {
		t.Errorf("User-Agent = %q", gotUA)
	}

	if len(sources) != 2 {
		t.Fatalf("got %d sources: %+v", len(sources), sources)
	}
	if sources[0].Title != "Go Programming" {
		t.Errorf("title = %q, want tags stripped", sources[0].Title)
	}
	if sources[0].URL != "https://example.com/go" {
		t.Errorf("redirect not unwrapped: %q", sources[0].URL)
	}
	if sources[1].URL != "https://go.dev/doc/" {
		t.Errorf("direct URL mangled: %q", sources[1].URL)
	}

	if !strings.Contains(block, "Web Search Data") {
		t.Errorf("block missing banner: %q", block)
	}
	if !strings.Contains(block, "- Source: Go Programming\n  Content: Go is an & open source language.\n\n") {
		t.Errorf("block missing formatted entry: %q", block)
	}
	if !strings.Contains(block, "Content: Official docs and tutorials.") {
		t.Errorf("whitespace not collapsed: %q", block)
	}
}

func TestSearchRespectsMaxResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(resultsPage))
	}))
	t.Cleanup(srv.Close)

	c := New(Options{
		Endpoint:   srv.URL + "/html/",
		MaxResults: 1,
		RateEvery:  time.Millisecond,
	})
	_, sources := c.Search(context.Background(), "go")
	if len(sources) != 1 {
		t.Errorf("got %d sources, want 1", len(sources))
	}
}

func TestSearchFailuresDegradeToFallback(t *testing.T) {
	t.Run("http error", func(t *testing.T) {
		c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "nope", http.StatusForbidden)
		}))
		block, sources := c.Search(context.Background(), "anything")
		if block != Fallback || sources != nil {
			t.Errorf("got %q, %v", block, sources)
		}
	})

	t.Run("empty page", func(t *testing.T) {
		c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("<html><body>no results markup</body></html>"))
		}))
		block, sources := c.Search(context.Background(), "anything")
		if block != Fallback || sources != nil {
			t.Errorf("got %q, %v", block, sources)
		}
	})

	t.Run("unreachable server", func(t *testing.T) {
		c := New(Options{
			Endpoint:  "http://127.0.0.1:1/html/",
			Timeout:   200 * time.Millisecond,
			RateEvery: time.Millisecond,
		})
		block, sources := c.Search(context.Background(), "anything")
		if block != Fallback || sources != nil {
			t.Errorf("got %q, %v", block, sources)
		}
	})
}

func TestSearchOfflineSkipsNetwork(t *testing.T) {
	requests := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
	}))
	t.Cleanup(srv.Close)

	c := New(Options{Endpoint: srv.URL, Offline: true})
	block, sources := c.Search(context.Background(), "anything")
	if block != Fallback || sources != nil {
		t.Errorf("got %q, %v", block, sources)
	}
	if requests != 0 {
		t.Errorf("offline client made %d requests", requests)
	}
}

func TestSearchCancelledContext(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(resultsPage))
	}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	block, sources := c.Search(ctx, "anything")
	if block != Fallback || sources != nil {
		t.Errorf("got %q, %v", block, sources)
	}
}

func TestNormalizeURL(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"//duckduckgo.com/l/?uddg=https%3A%2F%2Fexample.com%2Fa%20b", "https://example.com/a b"},
		{"//cdn.example.com/page", "https://cdn.example.com/page"},
		{"https://example.com/x", "https://example.com/x"},
		{"/html/?q=next", "https://duckduckgo.com/html/?q=next"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := normalizeURL(tc.in); got != tc.want {
			t.Errorf("normalizeURL(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
