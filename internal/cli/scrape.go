package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lexwatch/judgment-scraper/internal/config"
	"github.com/lexwatch/judgment-scraper/internal/logger"
	"github.com/lexwatch/judgment-scraper/internal/pipeline"
	"github.com/lexwatch/judgment-scraper/internal/scraper"
	"github.com/lexwatch/judgment-scraper/internal/storage"
	"github.com/lexwatch/judgment-scraper/internal/worker"
)

type scrapeFlags struct {
	keywordsFile string
	format       string
	csv          bool
	delivery     deliveryFlags
}

func newScrapeCmd(a *app) *cobra.Command {
	var f scrapeFlags

	cmd := &cobra.Command{
		Use:   "scrape [keyword...]",
		Short: "Search judgments for each keyword, store them and export a workbook",
		Example: `  judgments scrape "anticipatory bail"
  judgments scrape --keywords-file keywords.txt --max-links 20 --csv
  judgments scrape bail --engine http --format json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScrape(cmd, a, &f, args)
		},
	}

	cmd.Flags().StringVar(&f.keywordsFile, "keywords-file", "", "File with one keyword per line")
	cmd.Flags().StringVar(&f.format, "format", "text", "Output format: text or json")
	cmd.Flags().BoolVar(&f.csv, "csv", false, "Also write a CSV file next to the workbook")
	f.delivery.register(cmd)

	cmd.Flags().Int("max-links", 10, "Maximum results per keyword (1-50)")
	cmd.Flags().Bool("headless", true, "Run the browser without a window")
	cmd.Flags().String("engine", config.EngineBrowser, "Page renderer: browser or http")
	cmd.Flags().String("out-dir", ".", "Directory for exported files")
	cmd.Flags().Int("concurrency", 1, "Keywords fetched in parallel")

	a.bind(cmd.Flags(), "max_links", "max-links")
	a.bind(cmd.Flags(), "headless", "headless")
	a.bind(cmd.Flags(), "engine", "engine")
	a.bind(cmd.Flags(), "out_dir", "out-dir")
	a.bind(cmd.Flags(), "concurrency", "concurrency")

	return cmd
}

func runScrape(cmd *cobra.Command, a *app, f *scrapeFlags, args []string) error {
	format, err := parseFormat(f.format)
	if err != nil {
		return err
	}

	keywords, err := collectKeywords(args, f.keywordsFile)
	if err != nil {
		return err
	}

	cfg, err := a.load()
	if err != nil {
		return err
	}
	if err := f.delivery.validate(cfg); err != nil {
		return err
	}

	fetcher, closeFetcher := newFetcher(cfg)
	defer func() {
		if err := closeFetcher(); err != nil {
			logger.Warn("Closing browser failed", logger.Fields{"error": err.Error()})
		}
	}()

	store, err := storage.New(cfg.DBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	batch := worker.NewBatch(fetcher, worker.BatchOptions{
		Concurrency: cfg.Concurrency,
		MaxLinks:    cfg.MaxLinks,
		Timeout:     cfg.FetchTimeout,
		Limiter:     worker.NewLimiter(cfg.RatePerSecond, 1),
		Host:        cfg.BaseURL,
	})

	report, err := pipeline.NewRunner(batch, store).Run(cmd.Context(), keywords)
	if err != nil {
		return err
	}

	result := &ScrapeResult{Report: report}
	if total, err := store.Count(cmd.Context()); err == nil {
		result.StoredTotal = total
	}

	if len(report.Fetched) > 0 {
		artifacts, err := writeArtifacts(cfg.OutDir, a.now(), report.Fetched, f.csv)
		if err != nil {
			return err
		}
		result.Artifacts = artifacts.paths()

		if err := f.delivery.deliver(cmd.Context(), a, cfg, artifacts.xlsx); err != nil {
			if werr := WriteScrapeResult(a.stdout, result, format); werr != nil {
				logger.Error("Writing output failed", nil, werr)
			}
			return err
		}
	}

	if err := WriteScrapeResult(a.stdout, result, format); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	switch failed := report.FailedCount(); {
	case failed == len(report.Keywords):
		return &exitError{code: ExitError, err: errors.New("all keywords failed")}
	case failed > 0:
		return &exitError{code: ExitPartial, err: fmt.Errorf("%d of %d keywords failed", failed, len(report.Keywords))}
	}
	return nil
}

// collectKeywords merges positional keywords with those from file.
func collectKeywords(args []string, file string) ([]string, error) {
	var keywords []string
	for _, arg := range args {
		if kw := strings.TrimSpace(arg); kw != "" {
			keywords = append(keywords, kw)
		}
	}

	if file != "" {
		fromFile, err := worker.ReadKeywordsFile(file)
		if err != nil {
			return nil, err
		}
		keywords = append(keywords, fromFile...)
	}

	if len(keywords) == 0 {
		return nil, errors.New("no keywords: pass them as arguments or with --keywords-file")
	}
	return keywords, nil
}

// newFetcher builds the fetch chain for cfg. The returned func releases the
// browser driver, if one was started.
func newFetcher(cfg *config.Config) (scraper.Fetcher, func() error) {
	var (
		renderer scraper.Renderer
		closer   = func() error { return nil }
	)

	switch cfg.Engine {
	case config.EngineHTTP:
		renderer = scraper.NewHTTPRenderer(cfg.UserAgent, cfg.FetchTimeout)
	default:
		browser := scraper.NewBrowserRenderer(scraper.BrowserOptions{
			Headless:    cfg.Headless,
			UserAgent:   cfg.UserAgent,
			IdleTimeout: cfg.IdleTimeout,
			Install:     cfg.InstallBrowser,
		})
		renderer = browser
		closer = browser.Close
	}

	opts := scraper.Options{BaseURL: cfg.BaseURL, DocType: cfg.DocType}
	if cfg.RespectRobots {
		opts.Robots = scraper.NewRobotsChecker(cfg.UserAgent, cfg.FetchTimeout)
	}

	var fetcher scraper.Fetcher = scraper.New(renderer, opts)
	if cfg.CacheTTL > 0 {
		fetcher = scraper.NewCachedFetcher(fetcher, cfg.CacheTTL)
	}
	return fetcher, closer
}
