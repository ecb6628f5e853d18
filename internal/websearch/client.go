// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package websearch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/jeranaias/mia-companion/internal/model"
)

// =============================================================================
// PARSING PATTERNS (compiled once at startup)
// =============================================================================

var (
	titleRegex   = regexp.MustCompile(`(?s)<a[^>]+class="result__a"[^>]+href="([^"]+)"[^>]*>(.+?)</a>`)
	snippetRegex = regexp.MustCompile(`(?s)<a[^>]+class="result__snippet"[^>]*>(.+?)</a>`)

	tagRegex        = regexp.MustCompile(`<[^>]*>`)
	whitespaceRegex = regexp.MustCompile(`\s+`)
)

// Fallback is the context block used when retrieval yields nothing.
const Fallback = "No search results found on the web."

// maxBodyBytes bounds how much of the results page is read.
const maxBodyBytes = 5 * 1024 * 1024

// =============================================================================
// CLIENT
// =============================================================================

// Options configures a Client. Zero values fall back to working defaults.
type Options struct {
	// Endpoint is the HTML search results page.
	Endpoint string
	// Timeout bounds one outbound request.
	Timeout time.Duration
	// MaxResults caps extracted results (clamped to 1-10).
	MaxResults int
	// UserAgent is sent on every request.
	UserAgent string
	// RateEvery spaces outbound queries; Burst allows short spikes.
	RateEvery time.Duration
	Burst     int
	// Offline disables retrieval entirely.
	Offline bool
}

// Client performs best-effort web retrieval.
type Client struct {
	endpoint   string
	maxResults int
	userAgent  string
	offline    bool

	httpClient *http.Client
	limiter    *rate.Limiter
}

// New returns a retrieval client.
func New(opts Options) *Client {
	if opts.Endpoint == "" {
		opts.Endpoint = "https://html.duckduckgo.com/html/"
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.MaxResults < 1 {
		opts.MaxResults = 5
	}
	if opts.MaxResults > 10 {
		opts.MaxResults = 10
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	}
	if opts.RateEvery <= 0 {
		opts.RateEvery = 5 * time.Second
	}
	if opts.Burst < 1 {
		opts.Burst = 1
	}

	return &Client{
		endpoint:   opts.Endpoint,
		maxResults: opts.MaxResults,
		userAgent:  opts.UserAgent,
		offline:    opts.Offline,
		limiter:    rate.NewLimiter(rate.Every(opts.RateEvery), opts.Burst),
		httpClient: &http.Client{
			Timeout: opts.Timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 5 {
					return errors.New("too many redirects")
				}
				return nil
			},
		},
	}
}

// Search queries the endpoint and returns a rendered context block plus the
// extracted sources. It never returns an error: offline mode, transport
// failures, bad status codes and empty result pages all yield the fallback
// block and no sources.
func (c *Client) Search(ctx context.Context, query string) (string, []model.Source) {
	if c.offline || strings.TrimSpace(query) == "" {
		return Fallback, nil
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return Fallback, nil
	}

	body, err := c.fetch(ctx, query)
	if err != nil {
		return Fallback, nil
	}

	results := parseResults(body, c.maxResults)
	if len(results) == 0 {
		return Fallback, nil
	}

	var block strings.Builder
	fmt.Fprintf(&block, "\nWeb Search Data (Current Date: %d):\n", time.Now().Year())
	sources := make([]model.Source, 0, len(results))
	for _, r := range results {
		sources = append(sources, model.Source{Title: r.title, URL: r.url})
		fmt.Fprintf(&block, "- Source: %s\n  Content: %s\n\n", r.title, r.snippet)
	}
	return block.String(), sources
}

func (c *Client) fetch(ctx context.Context, query string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?q="+url.QueryEscape(query), nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("DNT", "1")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("search returned %s", resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// =============================================================================
// HTML EXTRACTION
// =============================================================================

type result struct {
	title   string
	url     string
	snippet string
}

// parseResults extracts up to max title/URL/snippet triples. Results with an
// empty title or an unusable URL are skipped.
func parseResults(html string, max int) []result {
	titleMatches := titleRegex.FindAllStringSubmatch(html, 30)
	snippetMatches := snippetRegex.FindAllStringSubmatch(html, 30)

	var results []result
	for i, match := range titleMatches {
		if len(match) < 3 {
			continue
		}

		cleanURL := normalizeURL(strings.ReplaceAll(match[1], "&amp;", "&"))
		title := cleanHTML(match[2])
		if title == "" || cleanURL == "" {
			continue
		}

		snippet := ""
		if i < len(snippetMatches) && len(snippetMatches[i]) >= 2 {
			snippet = cleanHTML(snippetMatches[i][1])
		}

		results = append(results, result{title: title, url: cleanURL, snippet: snippet})
		if len(results) >= max {
			break
		}
	}
	return results
}

// normalizeURL turns the raw href into an absolute URL. Redirect wrappers
// carrying an uddg parameter are unwrapped to the real destination;
// scheme-relative links get https; site-relative links are resolved against
// the results host.
func normalizeURL(raw string) string {
	if raw == "" {
		return ""
	}

	if strings.Contains(raw, "uddg=") {
		wrapped := raw
		if strings.HasPrefix(wrapped, "//") {
			wrapped = "https:" + wrapped
		}
		if parsed, err := url.Parse(wrapped); err == nil {
			if actual := parsed.Query().Get("uddg"); actual != "" {
				return actual
			}
		}
	}

	switch {
	case strings.HasPrefix(raw, "//"):
		return "https:" + raw
	case strings.Contains(raw, "http"):
		return raw
	default:
		return "https://duckduckgo.com" + raw
	}
}

// cleanHTML strips tags, decodes common entities and collapses whitespace.
func cleanHTML(s string) string {
	text := tagRegex.ReplaceAllString(s, "")
	text = decodeEntities(text)
	text = whitespaceRegex.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

var htmlEntities = map[string]string{
	"&nbsp;":   " ",
	"&amp;":    "&",
	"&lt;":     "<",
	"&gt;":     ">",
	"&quot;":   "\"",
	"&#39;":    "'",
	"&apos;":   "'",
	"&mdash;":  "--",
	"&ndash;":  "-",
	"&hellip;": "...",
	"&rsquo;":  "'",
	"&lsquo;":  "'",
	"&ldquo;":  "\"",
	"&rdquo;":  "\"",
}

func decodeEntities(s string) string {
	for entity, replacement := range htmlEntities {
		s = strings.ReplaceAll(s, entity, replacement)
	}
	return s
}
