// Package pipeline orchestrates the incremental crawl: compute the missing
// date range, index the archive listing once, then for each missing day
// resolve a validated post, extract category values and append one row.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/mikeshiyan/orks-losses/internal/archive"
	"github.com/mikeshiyan/orks-losses/internal/dates"
	"github.com/mikeshiyan/orks-losses/internal/extract"
	"github.com/mikeshiyan/orks-losses/internal/fetch"
	"github.com/mikeshiyan/orks-losses/internal/llm"
	"github.com/mikeshiyan/orks-losses/internal/model"
	"github.com/mikeshiyan/orks-losses/internal/store"
)

// Pipeline is the crawl driver. It is strictly sequential: one document
// loaded at a time, one day fully processed before the next begins, because
// the fetch session carries state that must not interleave across days.
type Pipeline struct {
	cfg       *model.Config
	store     *store.TSV
	fetcher   fetch.Fetcher // Listing fetches, uncached
	gate      *fetch.Gate   // Nil when rate limiting is disabled
	resolver  *Resolver
	extractor *extract.CategoryExtractor
	builder   *archive.Builder
	diag      *llm.Diagnostics // Optional, nil when disabled
	out       io.Writer
	closers   []func()
}

// New wires a Pipeline from configuration. Callers must Close it.
func New(cfg *model.Config) (*Pipeline, error) {
	p := &Pipeline{
		cfg:       cfg,
		store:     store.New(cfg.Store.Path),
		extractor: extract.NewCategoryExtractor(cfg.Extract.SuffixPattern),
		builder:   archive.NewBuilder(cfg.Source.ContentSelector, cfg.Source.PostKeyword, cfg.Source.MonthLocale),
		out:       os.Stdout,
	}

	var fetcher fetch.Fetcher
	if cfg.Fetch.Browser {
		browser, err := fetch.NewBrowser(cfg.Source.ContentSelector, cfg.Fetch.Timeout)
		if err != nil {
			return nil, err
		}
		p.closers = append(p.closers, browser.Close)
		fetcher = browser
	} else {
		fetcher = fetch.NewHTTPFetcher(cfg.Fetch.Timeout, cfg.Fetch.UserAgent, cfg.Fetch.MaxBodyBytes, cfg.Source.ContentSelector)
	}
	p.fetcher = fetcher

	// Post fetches go through the cache so a rerun after a failed day can
	// revalidate already-seen posts cheaply. The listing is always fresh.
	postFetcher := fetcher
	if cfg.Cache.Enabled {
		postFetcher = &fetch.CachingFetcher{
			Inner: fetcher,
			Cache: fetch.NewPageCache(cfg.Cache.Dir, cfg.Cache.TTL),
		}
	}

	var gate *fetch.Gate
	if cfg.Fetch.RequestsPerSecond > 0 {
		gate = fetch.NewGate(cfg.Fetch.UserAgent, cfg.Fetch.RequestsPerSecond, cfg.Fetch.Burst, cfg.Fetch.Timeout)
	}
	p.gate = gate

	resolver, err := NewResolver(postFetcher, gate, cfg.Source.ValidationMarker)
	if err != nil {
		return nil, err
	}
	p.resolver = resolver

	if cfg.LLM.Enabled {
		diag, err := llm.New(cfg.LLM.APIKey, cfg.LLM.BaseURL, cfg.LLM.Model)
		if err != nil {
			return nil, err
		}
		p.diag = diag
	}

	return p, nil
}

// Close releases the fetch layer.
func (p *Pipeline) Close() {
	for _, closer := range p.closers {
		closer()
	}
}

// Run executes one incremental crawl. It returns nil when the store was
// already current or the whole missing range was appended, and an error on
// the first day whose data cannot be found.
func (p *Pipeline) Run(ctx context.Context) error {
	categories, lastDate, err := p.store.LoadHeader()
	if err != nil {
		return err
	}

	next, err := dates.NextMissingDate(lastDate)
	if err != nil {
		return fmt.Errorf("%s: %w: %v", p.cfg.Store.Path, model.ErrMalformedStore, err)
	}
	today := dates.Today()

	if next.After(today) {
		fmt.Fprintln(p.out, "Up-to-date")
		return nil
	}

	if p.gate != nil && p.cfg.Fetch.RespectRobots && !p.gate.Allowed(ctx, p.cfg.Source.ArchiveURL) {
		return fmt.Errorf("robots.txt disallows crawling %s", p.cfg.Source.ArchiveURL)
	}

	// One listing fetch covers the whole missing range.
	listing, err := p.fetcher.Fetch(ctx, p.cfg.Source.ArchiveURL)
	if err != nil {
		return fmt.Errorf("fetch listing: %w", err)
	}

	index, err := p.builder.Build(listing.HTML, p.cfg.Source.ArchiveURL, dates.Format(next))
	if err != nil {
		return fmt.Errorf("build day index: %w", err)
	}

	for day := next; !day.After(today); day = dates.Advance(day) {
		if err := p.processDay(ctx, dates.Format(day), index, categories); err != nil {
			return err
		}
	}

	fmt.Fprintln(p.out, "OK")
	return nil
}

func (p *Pipeline) processDay(ctx context.Context, ymd string, index model.DayIndex, categories []string) error {
	fmt.Fprintf(p.out, "- %s -\n", ymd)

	resolved, err := p.resolver.Resolve(ctx, index[ymd])
	if err != nil {
		return fmt.Errorf("resolve %s: %w", ymd, err)
	}
	if resolved == nil {
		return &model.UnresolvedDayError{Date: ymd}
	}

	result, err := p.extractor.Extract(resolved.Text, categories)
	if err != nil {
		return fmt.Errorf("extract %s: %w", ymd, err)
	}

	fmt.Fprintln(p.out, resolved.URL)
	fmt.Fprintln(p.out, "A post remainder:", result.Remainder)

	if p.diag != nil {
		if review, err := p.diag.ReviewRemainder(ctx, ymd, result.Remainder); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: remainder review failed: %v\n", err)
		} else if review != "" && review != "NONE" {
			fmt.Fprintf(os.Stderr, "Possible uncaptured figures for %s:\n%s\n", ymd, review)
		}
	}

	if p.cfg.Output.DryRun {
		return nil
	}

	return p.store.Append(model.LossRecord{
		Date:      ymd,
		Values:    result.Values,
		SourceURL: resolved.URL,
	})
}
