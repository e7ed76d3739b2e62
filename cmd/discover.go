package cmd

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/guidewise/guidewise/internal/config"
	"github.com/guidewise/guidewise/internal/discovery"
	"github.com/guidewise/guidewise/internal/extract"
	"github.com/guidewise/guidewise/internal/generate"
	"github.com/guidewise/guidewise/internal/guide"
	"github.com/guidewise/guidewise/internal/log"
	"github.com/guidewise/guidewise/internal/safety"
	"github.com/guidewise/guidewise/internal/search"
)

var (
	discoverContinuous bool
	discoverInterval   time.Duration
	discoverBatch      int
)

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Search the web for new guides and queue drafts for review",
	Long: `Discover runs the guide discovery pipeline: sample troubleshooting
topics, search the web, screen the results for safety, generate draft guides
with the configured model, reject duplicates, and append survivors to the
pending review queue.

One cycle runs by default; --continuous repeats at the configured interval
until interrupted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup()
		if err != nil {
			return err
		}
		if discoverInterval > 0 {
			cfg.CycleInterval = discoverInterval
		}
		if discoverBatch > 0 {
			cfg.BatchSize = discoverBatch
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		orchestrator, err := buildPipeline(ctx, cfg, logger)
		if err != nil {
			return err
		}
		return orchestrator.Run(ctx, discoverContinuous)
	},
}

func init() {
	discoverCmd.Flags().BoolVar(&discoverContinuous, "continuous", false,
		"keep running cycles at the configured interval")
	discoverCmd.Flags().DurationVar(&discoverInterval, "interval", 0,
		"override the cycle interval (e.g. 30m)")
	discoverCmd.Flags().IntVar(&discoverBatch, "batch", 0,
		"override how many queries one cycle issues")
	rootCmd.AddCommand(discoverCmd)
}

// buildPipeline wires the discovery pipeline from configuration. The static
// fetcher is tried before the headless browser on article pages; the search
// results page always goes through the browser, since the engine serves it
// empty without a JavaScript runtime.
func buildPipeline(ctx context.Context, cfg *config.Config, logger log.Logger) (*discovery.Orchestrator, error) {
	staticFetcher := extract.NewStaticFetcher(cfg.NavigationTimeout, logger)
	browserFetcher := extract.NewBrowserFetcher(cfg.NavigationTimeout, logger)

	extractor, err := extract.New([]extract.Fetcher{staticFetcher, browserFetcher}, logger)
	if err != nil {
		return nil, err
	}

	fallback, err := search.NewFallback(browserFetcher, extractor, logger)
	if err != nil {
		return nil, err
	}

	filter, err := safety.New(cfg.DenyTerms, logger)
	if err != nil {
		return nil, err
	}

	return discovery.New(discovery.Options{
		Primary:   search.NewTavily(cfg.TavilyAPIKey, cfg.SearchTimeout, logger),
		Fallback:  fallback,
		Generator: generate.New(ctx, cfg.GeminiAPIKey, cfg.ModelName, logger),
		Filter:    filter,
		Corpus:    guide.NewCorpusStore(cfg.CorpusPath, logger),
		Pending:   guide.NewPendingStore(cfg.PendingPath, logger),

		Topics:    cfg.Topics,
		SiteHints: cfg.SiteHints,

		BatchSize:         cfg.BatchSize,
		QueryDelay:        cfg.QueryDelay,
		GenerationTimeout: cfg.GenerationTimeout,
		CycleInterval:     cfg.CycleInterval,

		Logger: logger,
	})
}
