package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"

	"jobex-scraper/internal/cache"
	"jobex-scraper/internal/config"
	"jobex-scraper/internal/httpclient"
	"jobex-scraper/internal/logging"
	"jobex-scraper/internal/runner"
	"jobex-scraper/internal/scraper"
	"jobex-scraper/internal/scraper/engines"
	"jobex-scraper/internal/scraper/sites"
)

func main() {
	configPath := os.Getenv("JOBEX_CONFIG")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	// Load configuration
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := logging.InitializeLogging(cfg); err != nil {
		log.Fatalf("Failed to initialize logging: %v", err)
	}
	defer logging.CloseLogging()

	logger := logging.GetGlobalLogger().WithField("run_id", uuid.NewString())
	logger.Info("Starting job count scraper", map[string]interface{}{
		"engine": cfg.Scraper.Engine,
		"sites":  cfg.Scraper.Sites,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Info("Run interrupted")
			return
		}
		logger.WithError(err).Error("Run failed")
		logging.CloseLogging()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger logging.Logger) error {
	client, err := httpclient.New(httpclient.Options{
		UserAgent: cfg.Scraper.UserAgent,
		Timeout:   cfg.HTTP.Timeout,
		ProxyURL:  cfg.HTTP.ProxyURL,
		RateLimit: cfg.HTTP.RateLimit,
	})
	if err != nil {
		return err
	}

	session, err := engines.Start(cfg, client, logger)
	if err != nil {
		return err
	}
	defer func() {
		logger.Info("Stopping page engine")
		if err := session.Stop(); err != nil {
			logger.WithError(err).Error("Error stopping page engine")
		}
	}()

	scrapers, err := sites.Registry(cfg.Scraper.Sites, session, client, sites.Options{
		NavigationTimeout: cfg.Scraper.NavigationTimeout,
		RequestTimeout:    cfg.Scraper.RequestTimeout,
		Logger:            logger,
	})
	if err != nil {
		return err
	}

	if cfg.Cache.Enabled {
		store, err := cache.NewRedisStore(ctx, cfg)
		if err != nil {
			logger.WithError(err).Warn("Count cache unavailable, scraping without it")
		} else {
			defer store.Close()
			scrapers = wrapAll(scrapers, store, cfg, logger)
		}
	}

	_, err = runner.New(scrapers, runner.Options{
		Pacing: cfg.Scraper.PacingDelay,
		Logger: logger,
	}).Run(ctx, cfg.Scraper.Titles)
	return err
}

func wrapAll(scrapers []scraper.Scraper, store cache.Store, cfg *config.Config, logger logging.Logger) []scraper.Scraper {
	wrapped := make([]scraper.Scraper, len(scrapers))
	for i, s := range scrapers {
		wrapped[i] = cache.Wrap(s, store, cfg.Cache.TTL, logger)
	}
	return wrapped
}
