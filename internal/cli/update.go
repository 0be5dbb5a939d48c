package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mikeshiyan/orks-losses/internal/model"
	"github.com/mikeshiyan/orks-losses/internal/pipeline"
)

var (
	storePath    string
	sourceURL    string
	runTimeout   time.Duration
	fetchTimeout time.Duration
	userAgent    string
	maxBytes     int64
	noBrowser    bool
	noCache      bool
	cacheDir     string
	noRobots     bool
	rps          float64
	dryRun       bool
	llmEnabled   bool
	llmModel     string
)

// updateCmd represents the update command
var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Append every day missing between the last recorded date and today",
	Long: `Update crawls the archive listing once, then processes every missing
day in order: resolve the authoritative loss-report post, extract one value
per category, append one row to the store.

The run stops on the first day whose data cannot be found; progress up to
that day is already durable, so rerunning resumes correctly.

Example:
  orks-losses update
  orks-losses update --store orks-losses.tsv --dry-run
  orks-losses update --no-browser --no-cache`,
	Args: cobra.NoArgs,
	RunE: runUpdate,
}

func init() {
	rootCmd.AddCommand(updateCmd)

	updateCmd.Flags().StringVar(&storePath, "store", "", "path of the TSV store (default from config)")
	updateCmd.Flags().StringVar(&sourceURL, "source", "", "archive listing URL (default from config)")
	updateCmd.Flags().DurationVar(&runTimeout, "timeout", 30*time.Minute, "overall run timeout")
	updateCmd.Flags().DurationVar(&fetchTimeout, "fetch-timeout", 60*time.Second, "per-fetch timeout")
	updateCmd.Flags().StringVar(&userAgent, "ua", "", "HTTP User-Agent (default from config)")
	updateCmd.Flags().Int64Var(&maxBytes, "max-bytes", 2_000_000, "max response bytes to read (HTTP fetcher)")
	updateCmd.Flags().BoolVar(&noBrowser, "no-browser", false, "fetch over plain HTTP instead of a headless browser")
	updateCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the fetched-document cache")
	updateCmd.Flags().StringVar(&cacheDir, "cache-dir", "", "disk cache directory (empty = memory only)")
	updateCmd.Flags().BoolVar(&noRobots, "no-robots", false, "skip the robots.txt check")
	updateCmd.Flags().Float64Var(&rps, "rps", 0.5, "politeness rate limit, requests per second per host")
	updateCmd.Flags().BoolVar(&dryRun, "dry-run", false, "resolve and extract but do not append")

	updateCmd.Flags().BoolVar(&llmEnabled, "llm", false, "review extraction remainders with an LLM (diagnostics only)")
	updateCmd.Flags().StringVar(&llmModel, "llm-model", "gpt-4o-mini", "LLM model name")
}

func runUpdate(cmd *cobra.Command, args []string) error {
	cfg := buildConfig(cmd)

	if cfg.LLM.Enabled {
		cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
		if cfg.LLM.APIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Store: %s\n", cfg.Store.Path)
		fmt.Fprintf(os.Stderr, "Source: %s\n", cfg.Source.ArchiveURL)
		fmt.Fprintf(os.Stderr, "Browser: %v\n", cfg.Fetch.Browser)
		fmt.Fprintf(os.Stderr, "Cache: %v\n", cfg.Cache.Enabled)
		fmt.Fprintln(os.Stderr)
	}

	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	p, err := pipeline.New(cfg)
	if err != nil {
		return fmt.Errorf("initialize pipeline: %w", err)
	}
	defer p.Close()

	return p.Run(ctx)
}

// buildConfig layers flag values over the config file over the defaults.
func buildConfig(cmd *cobra.Command) *model.Config {
	cfg := model.DefaultConfig()

	// Config file values (viper) override defaults.
	if v := viper.GetString("store.path"); v != "" {
		cfg.Store.Path = v
	}
	if v := viper.GetString("source.archive_url"); v != "" {
		cfg.Source.ArchiveURL = v
	}
	if v := viper.GetString("fetch.user_agent"); v != "" {
		cfg.Fetch.UserAgent = v
	}
	if v := viper.GetString("cache.dir"); v != "" {
		cfg.Cache.Dir = v
	}

	// Flags override everything.
	if storePath != "" {
		cfg.Store.Path = storePath
	}
	if sourceURL != "" {
		cfg.Source.ArchiveURL = sourceURL
	}
	if userAgent != "" {
		cfg.Fetch.UserAgent = userAgent
	}
	if cacheDir != "" {
		cfg.Cache.Dir = cacheDir
	}
	if cmd.Flags().Changed("fetch-timeout") {
		cfg.Fetch.Timeout = fetchTimeout
	}
	if cmd.Flags().Changed("max-bytes") {
		cfg.Fetch.MaxBodyBytes = maxBytes
	}
	if cmd.Flags().Changed("rps") {
		cfg.Fetch.RequestsPerSecond = rps
	}

	cfg.Fetch.Browser = !noBrowser
	cfg.Cache.Enabled = !noCache
	cfg.Fetch.RespectRobots = !noRobots
	cfg.Output.Verbose = verbose
	cfg.Output.DryRun = dryRun
	cfg.LLM.Enabled = llmEnabled
	cfg.LLM.Model = llmModel

	return cfg
}
