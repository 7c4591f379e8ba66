package sites

import (
	"fmt"
	"strings"
	"time"

	"jobex-scraper/internal/httpclient"
	"jobex-scraper/internal/logging"
	"jobex-scraper/internal/scraper"
)

// Options carries the settings shared by every adapter
type Options struct {
	NavigationTimeout time.Duration
	RequestTimeout    time.Duration
	Logger            logging.Logger
}

func (o Options) withDefaults() Options {
	if o.NavigationTimeout <= 0 {
		o.NavigationTimeout = 45 * time.Second
	}
	if o.RequestTimeout <= 0 {
		o.RequestTimeout = 20 * time.Second
	}
	if o.Logger == nil {
		o.Logger = logging.GetGlobalLogger()
	}
	return o
}

// Registry builds the named scrapers in order. DOM adapters share pages, the
// API adapter shares client.
func Registry(names []string, pages scraper.PageProvider, client *httpclient.Client, opts Options) ([]scraper.Scraper, error) {
	seen := make(map[string]bool, len(names))
	scrapers := make([]scraper.Scraper, 0, len(names))

	for _, raw := range names {
		name := strings.ToLower(strings.TrimSpace(raw))
		if seen[name] {
			return nil, fmt.Errorf("site %q listed twice", name)
		}
		seen[name] = true

		switch name {
		case "indeed":
			scrapers = append(scrapers, NewIndeed(pages, opts))
		case "trademe":
			scrapers = append(scrapers, NewTradeMe(pages, opts))
		case "seek":
			scrapers = append(scrapers, NewSeek(client, opts))
		case "jora":
			scrapers = append(scrapers, NewJora())
		default:
			return nil, fmt.Errorf("unsupported site: %s (supported: %s)", raw, strings.Join(SupportedSites(), ", "))
		}
	}

	return scrapers, nil
}

// SupportedSites returns the site names Registry accepts
func SupportedSites() []string {
	return []string{"indeed", "trademe", "seek", "jora"}
}
