package model

import "time"

// Config holds the full runtime configuration for a crawl
type Config struct {
	Source  SourceConfig  `yaml:"source"`
	Store   StoreConfig   `yaml:"store"`
	Fetch   FetchConfig   `yaml:"fetch"`
	Cache   CacheConfig   `yaml:"cache"`
	Extract ExtractConfig `yaml:"extract"`
	LLM     LLMConfig     `yaml:"llm"`
	Output  OutputConfig  `yaml:"output"`
}

// SourceConfig describes the upstream archive being scraped
type SourceConfig struct {
	ArchiveURL       string `yaml:"archive_url"`       // Entry page of the news archive listing
	ContentSelector  string `yaml:"content_selector"`  // Selector of the main content region on both listing and post pages
	PostKeyword      string `yaml:"post_keyword"`      // Substring marking a listing entry as a loss report (case-insensitive)
	ValidationMarker string `yaml:"validation_marker"` // Regexp a post must match to count as the authoritative daily report
	MonthLocale      string `yaml:"month_locale"`      // Locale the listing renders month names in (e.g., uk_UA)
}

// StoreConfig describes the persisted TSV record
type StoreConfig struct {
	Path string `yaml:"path"`
}

// FetchConfig controls the document fetching layer
type FetchConfig struct {
	Browser           bool          `yaml:"browser"`             // Use a headless browser instead of plain HTTP
	Timeout           time.Duration `yaml:"timeout"`             // Per-fetch timeout
	UserAgent         string        `yaml:"user_agent"`          // HTTP User-Agent (also used for robots.txt matching)
	MaxBodyBytes      int64         `yaml:"max_body_bytes"`      // Max response bytes to read (HTTP fetcher)
	RequestsPerSecond float64       `yaml:"requests_per_second"` // Politeness rate limit per host
	Burst             int           `yaml:"burst"`               // Rate limiter burst
	RespectRobots     bool          `yaml:"respect_robots"`      // Check robots.txt before crawling
}

// CacheConfig controls caching of fetched post documents
type CacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	Dir     string        `yaml:"dir"` // Disk cache directory ("" = memory only)
	TTL     time.Duration `yaml:"ttl"`
}

// ExtractConfig controls category value extraction
type ExtractConfig struct {
	// SuffixPattern is appended to each escaped category name to form the full
	// match pattern. Its first capture group must be the numeric value.
	SuffixPattern string `yaml:"suffix_pattern"`
}

// LLMConfig controls the optional remainder diagnostics (never affects extraction)
type LLMConfig struct {
	Enabled bool   `yaml:"enabled"`
	Model   string `yaml:"model"`
	APIKey  string `yaml:"-"`
	BaseURL string `yaml:"base_url,omitempty"`
}

// OutputConfig controls progress reporting and dry runs
type OutputConfig struct {
	Verbose bool `yaml:"verbose"`
	DryRun  bool `yaml:"dry_run"`
}

// DefaultConfig returns the configuration matching the original data source
func DefaultConfig() *Config {
	return &Config{
		Source: SourceConfig{
			ArchiveURL:       "https://www.mil.gov.ua/archive?page=1",
			ContentSelector:  "#aticle-content",
			PostKeyword:      "втрат",
			ValidationMarker: `\sз 24\.02\s`,
			MonthLocale:      "uk_UA",
		},
		Store: StoreConfig{
			Path: "orks-losses.tsv",
		},
		Fetch: FetchConfig{
			Browser:           true,
			Timeout:           60 * time.Second,
			UserAgent:         "orks-losses/1.0 (+https://github.com/mikeshiyan/orks-losses)",
			MaxBodyBytes:      2_000_000,
			RequestsPerSecond: 0.5,
			Burst:             1,
			RespectRobots:     true,
		},
		Cache: CacheConfig{
			Enabled: true,
			Dir:     "",
			TTL:     12 * time.Hour,
		},
		Extract: ExtractConfig{
			SuffixPattern: `\s*[-–‒]\s*(?:близько |до |понад )?(\d+)( \(\+\d+\))?( од(иниц[іья])?| осіб( ліквідовано)?)?[.,]?\s+`,
		},
		LLM: LLMConfig{
			Enabled: false,
			Model:   "gpt-4o-mini",
		},
		Output: OutputConfig{},
	}
}
