// Package cmd defines and implements the CLI commands for the patchvault executable.
package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/jbalsam/patchvault/internal/clock/system"
	"github.com/jbalsam/patchvault/internal/extract"
	"github.com/jbalsam/patchvault/internal/fetch"
	"github.com/jbalsam/patchvault/internal/hash/sha256"
	"github.com/jbalsam/patchvault/internal/id/uuid"
	"github.com/jbalsam/patchvault/internal/pipeline"
)

// newScrapeCmd creates and configures the 'scrape' subcommand.
// It fetches each patch-notes URL, parses its sections, and stores one
// JSON record per version.
func newScrapeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scrape [url ...]",
		Short: "Fetches and archives patch-notes pages",
		Long: `Fetches every patch-notes URL from the configured URL file, parses the
section structure, and stores one JSON record per version. URLs given on
the command line are scraped instead of the file.`,

		Args: cobra.ArbitraryArgs,
		RunE: runScrapeCommand,
	}

	cmd.Flags().String("url-file", "", "file with one patch-notes URL per line")
	cmd.Flags().Bool("overwrite", false, "replace records that already exist")
	cmd.Flags().Bool("headful", false, "render pages in a visible browser window")
	cobra.CheckErr(viper.BindPFlag("scraper.url_file", cmd.Flags().Lookup("url-file")))
	cobra.CheckErr(viper.BindPFlag("scraper.overwrite", cmd.Flags().Lookup("overwrite")))
	cobra.CheckErr(viper.BindPFlag("render.headful", cmd.Flags().Lookup("headful")))

	return cmd
}

func runScrapeCommand(cmd *cobra.Command, args []string) error {
	appInstance, err := resolveApp(cmd.Context())
	if err != nil {
		return err
	}
	logger := appInstance.GetLogger()

	fetchCfg, err := fetch.LoadConfig(viper.GetViper())
	if err != nil {
		return fmt.Errorf("load fetch config: %w", err)
	}
	runCfg, err := pipeline.LoadConfig(viper.GetViper())
	if err != nil {
		return fmt.Errorf("load pipeline config: %w", err)
	}
	runCfg.Topic = appInstance.GetTopic()

	urls := args
	if len(urls) == 0 {
		urls, err = pipeline.LoadURLs(runCfg.URLFile)
		if err != nil {
			return err
		}
	}

	fetcher, renderer, err := buildScrapeFetcher(fetchCfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := renderer.Close(cmd.Context()); cerr != nil {
			logger.Warn("Failed to close renderer", zap.Error(cerr))
		}
	}()

	extractor := extract.NewExtractor(extract.ExtractorConfig{
		TitleSelector: viper.GetString("extract.title_selector"),
		DateSelector:  viper.GetString("extract.date_selector"),
	}, system.New())

	pipe := pipeline.New(
		fetcher,
		extractor,
		extract.NewChain(),
		appInstance.GetStore(),
		appInstance.GetRecorder(),
		appInstance.GetPublisher(),
		sha256.New(),
		system.New(),
		uuid.New(),
		runCfg,
		logger.Named("pipeline"),
	)

	summary := pipe.Run(cmd.Context(), urls)
	appInstance.GetRuns().Set(summary)

	cmd.Printf("Finished: %d/%d successful.\n", summary.Succeeded, summary.Total)
	return nil
}

// buildScrapeFetcher assembles the static fetcher, retry wrapper, renderer,
// and promotion detector into the routing fetcher the pipeline uses. The
// returned renderer is nil when rendering is off; Close on it is safe.
func buildScrapeFetcher(cfg fetch.Config, logger *zap.Logger) (fetch.Fetcher, *fetch.ChromedpRenderer, error) {
	static, err := fetch.NewStaticFetcher(cfg, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("init fetcher: %w", err)
	}
	retrying := fetch.NewRetryingFetcher(static, fetch.NewExponentialRetryPolicy(cfg.RetryMaxAttempts), logger)

	renderer, err := buildRenderer(cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	detector := fetch.NewHeuristicDetector(
		cfg.DetectorMinHTMLBytes,
		cfg.DetectorSignals,
		cfg.DetectorKeywords,
	)

	// A nil *ChromedpRenderer must become a nil interface so the router
	// takes the static path instead of calling through it.
	var rend fetch.Renderer
	if renderer != nil {
		rend = renderer
	}
	return fetch.NewRouter(retrying, rend, detector, logger), renderer, nil
}

func buildRenderer(cfg fetch.Config, logger *zap.Logger) (*fetch.ChromedpRenderer, error) {
	if !cfg.RenderEnabled || cfg.RenderMaxConcurrency <= 0 {
		return nil, nil
	}
	renderer, err := fetch.NewChromedpRenderer(cfg, logger)
	switch {
	case err == nil:
		return renderer, nil
	case errors.Is(err, fetch.ErrRendererDisabled):
		logger.Warn("Renderer disabled despite feature flag; staying on the static path")
		return nil, nil
	default:
		return nil, fmt.Errorf("init renderer: %w", err)
	}
}
