package fetch

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/temoto/robotstxt"
	"golang.org/x/time/rate"
)

// Gate throttles navigations and checks robots.txt for the crawled host.
// The crawl is single-threaded, but listing and post fetches share one gate
// so the overall request rate to the archive stays bounded.
type Gate struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	robots   map[string]*robotstxt.RobotsData
	rps      rate.Limit
	burst    int

	client    *http.Client
	userAgent string
}

// NewGate creates a politeness gate with a per-host rate limit.
func NewGate(userAgent string, requestsPerSecond float64, burst int, timeout time.Duration) *Gate {
	if burst <= 0 {
		burst = 1
	}

	return &Gate{
		limiters:  make(map[string]*rate.Limiter),
		robots:    make(map[string]*robotstxt.RobotsData),
		rps:       rate.Limit(requestsPerSecond),
		burst:     burst,
		client:    &http.Client{Timeout: timeout},
		userAgent: userAgent,
	}
}

// Wait blocks until the host's rate limit admits one more request.
func (g *Gate) Wait(ctx context.Context, rawURL string) error {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("parse URL: %w", err)
	}
	return g.limiter(parsed.Host).Wait(ctx)
}

// Allowed reports whether robots.txt permits fetching the URL. An unreachable
// robots.txt allows the fetch.
func (g *Gate) Allowed(ctx context.Context, rawURL string) bool {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}

	data, err := g.robotsData(ctx, parsed)
	if err != nil {
		return true
	}
	return data.TestAgent(parsed.Path, g.userAgent)
}

func (g *Gate) limiter(host string) *rate.Limiter {
	g.mu.Lock()
	defer g.mu.Unlock()

	if l, ok := g.limiters[host]; ok {
		return l
	}
	l := rate.NewLimiter(g.rps, g.burst)
	g.limiters[host] = l
	return l
}

func (g *Gate) robotsData(ctx context.Context, parsed *url.URL) (*robotstxt.RobotsData, error) {
	g.mu.Lock()
	data, ok := g.robots[parsed.Host]
	g.mu.Unlock()
	if ok {
		return data, nil
	}

	robotsURL := fmt.Sprintf("%s://%s/robots.txt", parsed.Scheme, parsed.Host)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", g.userAgent)

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	data, err = robotstxt.FromResponse(resp)
	if err != nil {
		return nil, err
	}

	g.mu.Lock()
	g.robots[parsed.Host] = data
	g.mu.Unlock()

	return data, nil
}
