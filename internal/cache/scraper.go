// Package cache short-circuits repeated scrapes of the same (site, title) pair
// within a TTL. Only present counts are stored; absences and failures are
// always scraped again.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"jobex-scraper/internal/logging"
	"jobex-scraper/internal/scraper"
	"jobex-scraper/pkg/models"
)

const keyPrefix = "jobex:count:"

// Key returns the store key for a site and title. The title is hashed exactly
// as given, matching the query the adapter sends.
func Key(site, title string) string {
	sum := sha256.Sum256([]byte(title))
	return keyPrefix + site + ":" + hex.EncodeToString(sum[:8])
}

// Scraper decorates another scraper with a read-through cache
type Scraper struct {
	inner  scraper.Scraper
	store  Store
	ttl    time.Duration
	logger logging.Logger
}

// Wrap puts s behind store. Store failures are logged and otherwise ignored.
func Wrap(s scraper.Scraper, store Store, ttl time.Duration, logger logging.Logger) *Scraper {
	if logger == nil {
		logger = logging.GetGlobalLogger()
	}
	return &Scraper{
		inner:  s,
		store:  store,
		ttl:    ttl,
		logger: logger.WithField("site", s.Name()),
	}
}

func (c *Scraper) Name() string {
	return c.inner.Name()
}

func (c *Scraper) JobCount(ctx context.Context, title string) (models.JobCount, error) {
	key := Key(c.inner.Name(), title)

	n, ok, err := c.store.Get(ctx, key)
	switch {
	case err != nil:
		c.logger.WithError(err).Warn("Cache lookup failed", map[string]interface{}{"title": title})
	case ok:
		c.logger.Debug("Cache hit", map[string]interface{}{"title": title, "count": n})
		return models.CountOf(n), nil
	}

	count, err := c.inner.JobCount(ctx, title)
	if err != nil || !count.Found {
		return count, err
	}

	if err := c.store.Set(ctx, key, count.Value, c.ttl); err != nil {
		c.logger.WithError(err).Warn("Cache write failed", map[string]interface{}{"title": title})
	}
	return count, nil
}
