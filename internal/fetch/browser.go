package fetch

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
)

// Browser fetches documents through a headless browser. One browser tab is
// reused across fetches (the crawl is strictly sequential), and session
// cookies are cleared before every navigation so no personalized state leaks
// between pages.
type Browser struct {
	ctx      context.Context
	cancels  []context.CancelFunc
	selector string
	timeout  time.Duration
}

// NewBrowser starts a headless browser. Callers must Close it.
func NewBrowser(selector string, timeout time.Duration) (*Browser, error) {
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(),
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
		)...,
	)

	browserCtx, cancelCtx := chromedp.NewContext(allocCtx)

	// Start the browser process up front so the first Fetch doesn't pay for it.
	if err := chromedp.Run(browserCtx); err != nil {
		cancelCtx()
		cancelAlloc()
		return nil, fmt.Errorf("start browser: %w", err)
	}

	return &Browser{
		ctx:      browserCtx,
		cancels:  []context.CancelFunc{cancelCtx, cancelAlloc},
		selector: selector,
		timeout:  timeout,
	}, nil
}

// Fetch navigates to the URL, waits for the content region to become visible
// and returns its text and markup.
func (b *Browser) Fetch(ctx context.Context, rawURL string) (*Document, error) {
	runCtx, cancel := context.WithTimeout(b.ctx, b.timeout)
	defer cancel()

	// Respect caller cancellation on top of the per-fetch timeout.
	go func() {
		select {
		case <-ctx.Done():
			cancel()
		case <-runCtx.Done():
		}
	}()

	var text, markup string
	err := chromedp.Run(runCtx,
		network.ClearBrowserCookies(),
		chromedp.Navigate(rawURL),
		chromedp.WaitVisible(b.selector, chromedp.ByQuery),
		chromedp.Text(b.selector, &text, chromedp.ByQuery),
		chromedp.OuterHTML(b.selector, &markup, chromedp.ByQuery),
	)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", rawURL, err)
	}

	return &Document{
		URL:  rawURL,
		HTML: markup,
		Text: strings.TrimSpace(text),
	}, nil
}

// Close shuts the browser down.
func (b *Browser) Close() {
	for _, cancel := range b.cancels {
		cancel()
	}
}
