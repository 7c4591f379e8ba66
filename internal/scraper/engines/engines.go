package engines

import (
	"fmt"

	"jobex-scraper/internal/config"
	"jobex-scraper/internal/httpclient"
	"jobex-scraper/internal/logging"
	"jobex-scraper/internal/scraper"
	"jobex-scraper/internal/scraper/engines/headed"
	"jobex-scraper/internal/scraper/engines/static"
)

// Session is a running page engine
type Session interface {
	scraper.PageProvider

	// Stop releases the engine; it may be called once
	Stop() error
}

// Start starts the engine named by cfg.Scraper.Engine
func Start(cfg *config.Config, client *httpclient.Client, logger logging.Logger) (Session, error) {
	switch cfg.Scraper.Engine {
	case "headed":
		session, err := headed.Start(headed.Options{
			Bin:       cfg.Browser.Bin,
			Headless:  cfg.Browser.HeadlessMode,
			NoSandbox: cfg.Browser.NoSandbox,
			UserAgent: cfg.Scraper.UserAgent,
		}, logger)
		if err != nil {
			return nil, err
		}
		return session, nil
	case "static":
		return static.New(client), nil
	default:
		return nil, fmt.Errorf("unsupported page engine: %s (supported: %v)", cfg.Scraper.Engine, SupportedEngines())
	}
}

// SupportedEngines returns the engine names Start accepts
func SupportedEngines() []string {
	return []string{"headed", "static"}
}
