// Package fetch is the boundary to the document-fetching layer.
//
// Only plain structured data crosses this boundary: a fetched Document holds
// strings, never live DOM handles or date values. All date and locale logic
// stays on the orchestrator's side.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Document is one fetched page.
type Document struct {
	URL  string // Final URL after redirects
	HTML string // Raw markup
	Text string // Trimmed text content of the main content region
}

// Fetcher retrieves a document at a URL.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (*Document, error)
}

// HTTPFetcher fetches documents over plain HTTP, without script execution.
type HTTPFetcher struct {
	client    *http.Client
	userAgent string
	maxBytes  int64
	selector  string
}

// NewHTTPFetcher creates an HTTPFetcher. selector names the main content
// region whose text becomes Document.Text.
func NewHTTPFetcher(timeout time.Duration, userAgent string, maxBytes int64, selector string) *HTTPFetcher {
	return &HTTPFetcher{
		client: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("stopped after 3 redirects")
				}
				return nil
			},
		},
		userAgent: userAgent,
		maxBytes:  maxBytes,
		selector:  selector,
	}
}

// Fetch retrieves the URL and extracts the content region's text.
func (f *HTTPFetcher) Fetch(ctx context.Context, rawURL string) (*Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("fetch %s: unexpected status %d %s", rawURL, resp.StatusCode, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	markup := string(body)
	text, err := regionText(markup, f.selector)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", rawURL, err)
	}

	return &Document{
		URL:  resp.Request.URL.String(),
		HTML: markup,
		Text: text,
	}, nil
}

// regionText extracts the visible text of the content region.
func regionText(markup, selector string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return "", fmt.Errorf("parse document: %w", err)
	}

	region := doc.Find(selector).First()
	if region.Length() == 0 {
		return "", fmt.Errorf("content region %q not found", selector)
	}

	return strings.TrimSpace(visibleText(region.Nodes[0])), nil
}

// visibleText collects text nodes, skipping non-content elements.
func visibleText(n *html.Node) string {
	var buf strings.Builder

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "iframe":
				return
			}
		}

		if n.Type == html.TextNode {
			text := strings.TrimSpace(n.Data)
			if text != "" {
				buf.WriteString(text)
				buf.WriteString(" ")
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(n)
	return buf.String()
}
