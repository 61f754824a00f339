package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"sjsage522/offerwatch/config"
	"sjsage522/offerwatch/helpers"
	"sjsage522/offerwatch/internal/browser"
	"sjsage522/offerwatch/internal/pipeline"
	"sjsage522/offerwatch/internal/report"
	"sjsage522/offerwatch/internal/scraper"
	"sjsage522/offerwatch/internal/snapshot"
	"sjsage522/offerwatch/logger"
	"sjsage522/offerwatch/services/cache"
	"sjsage522/offerwatch/services/publisher"
)

func main() {
	// Load environment variables
	godotenv.Load()

	// Initialize logger first
	logger.Init()

	var (
		noHeadless bool
		timeoutMs  int
		static     bool
		dataDir    string
	)

	rootCmd := &cobra.Command{
		Use:          "offerwatch",
		Short:        "Scrapes the outlet offers page and reports what changed since the last run",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.LoadConfig()
			if noHeadless {
				cfg.Headless = false
			}
			if static {
				cfg.UseBrowser = false
			}
			if cmd.Flags().Changed("timeout") {
				cfg.OperationTimeout = time.Duration(timeoutMs) * time.Millisecond
			}
			if cmd.Flags().Changed("data-dir") {
				cfg.DataDir = dataDir
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return run(cmd.Context(), cfg)
		},
	}

	rootCmd.Flags().BoolVar(&noHeadless, "no-headless", false, "show the browser window")
	rootCmd.Flags().IntVar(&timeoutMs, "timeout", 30000, "operation timeout in milliseconds")
	rootCmd.Flags().BoolVar(&static, "static", false, "fetch the page over plain HTTP instead of a browser")
	rootCmd.Flags().StringVar(&dataDir, "data-dir", ".", "directory for snapshot state files")

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run wires the collaborators for a single cycle and executes it
func run(ctx context.Context, cfg config.Config) error {
	log := logger.ForPipeline()
	log.Info().
		Str("url", cfg.OffersURL).
		Bool("headless", cfg.Headless).
		Bool("browser", cfg.UseBrowser).
		Dur("timeout", cfg.OperationTimeout).
		Msg("Starting run")

	sc, err := scraper.NewScraper(cfg.OffersURL, scraper.DefaultSelectors(), newFetchFunc(&cfg))
	if err != nil {
		return err
	}

	store := snapshot.NewStore(cfg.DataDir)
	reporter := report.NewReporter(os.Stdout)
	runner := pipeline.NewRunner(&cfg, sc, store, reporter)

	if cfg.MemcacheAddr != "" {
		runner = runner.WithCache(cache.NewMemcacheService(cfg.MemcacheAddr))
		log.Info().Str("addr", cfg.MemcacheAddr).Msg("Run-frequency guard enabled")
	}
	if cfg.RedisAddr != "" {
		pub := publisher.NewRedisPublisher(ctx, cfg.RedisAddr, cfg.RedisDB, cfg.RedisStream, cfg.RedisStreamMaxLength)
		defer pub.Close()
		runner = runner.WithPublisher(pub)
		log.Info().Str("addr", cfg.RedisAddr).Str("stream", cfg.RedisStream).Msg("Change-event publishing enabled")
	}

	return runner.Run(ctx)
}

// newFetchFunc picks browser rendering or the plain HTTP fallback
func newFetchFunc(cfg *config.Config) scraper.FetchFunc {
	if !cfg.UseBrowser {
		return func(ctx context.Context) (io.Reader, error) {
			return helpers.FetchWithRandomHeaders(ctx, cfg.OffersURL)
		}
	}

	renderer := browser.NewRenderer(cfg.OffersURL, cfg.Headless, cfg.OperationTimeout, browser.Stabilizer{
		Delay:      cfg.ScrollDelay,
		IdleRounds: cfg.ScrollIdleRounds,
	})
	return func(ctx context.Context) (io.Reader, error) {
		html, err := renderer.Render(ctx)
		if err != nil {
			return nil, err
		}
		return strings.NewReader(html), nil
	}
}
