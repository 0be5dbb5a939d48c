package pipeline

import (
	"context"
	"fmt"
	"regexp"

	"github.com/mikeshiyan/orks-losses/internal/fetch"
)

// Resolver picks the authoritative daily report among a day's candidate
// posts: candidates are fetched strictly in listing order and the first one
// whose text carries the validation marker wins.
type Resolver struct {
	fetcher fetch.Fetcher
	gate    *fetch.Gate
	marker  *regexp.Regexp
}

// Resolved is the winning post for a day.
type Resolved struct {
	URL  string
	Text string
}

// NewResolver creates a Resolver. gate may be nil to skip throttling.
func NewResolver(fetcher fetch.Fetcher, gate *fetch.Gate, markerPattern string) (*Resolver, error) {
	marker, err := regexp.Compile(markerPattern)
	if err != nil {
		return nil, fmt.Errorf("validation marker pattern: %w", err)
	}

	return &Resolver{
		fetcher: fetcher,
		gate:    gate,
		marker:  marker,
	}, nil
}

// Resolve fetches candidates in order and returns the first validated post,
// or nil if none validates. A fetch failure aborts resolution: the crawl has
// no retry policy, so the error surfaces to the driver as-is.
func (r *Resolver) Resolve(ctx context.Context, candidates []string) (*Resolved, error) {
	for _, rawURL := range candidates {
		if r.gate != nil {
			if err := r.gate.Wait(ctx, rawURL); err != nil {
				return nil, err
			}
		}

		doc, err := r.fetcher.Fetch(ctx, rawURL)
		if err != nil {
			return nil, err
		}

		if r.marker.MatchString(doc.Text) {
			return &Resolved{URL: rawURL, Text: doc.Text}, nil
		}
	}

	return nil, nil
}
