// Package runner drives every configured scraper over a list of job titles.
package runner

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"jobex-scraper/internal/logging"
	"jobex-scraper/internal/scraper"
	"jobex-scraper/pkg/models"
)

// Options configures a Runner
type Options struct {
	// Pacing is the minimum time spent on each title
	Pacing time.Duration
	Logger logging.Logger
	// Out receives one result line per scrape; defaults to stdout
	Out io.Writer
}

// Runner scrapes titles one at a time against each scraper in order
type Runner struct {
	scrapers []scraper.Scraper
	pacing   time.Duration
	logger   logging.Logger
	out      io.Writer
}

// New creates a runner over scrapers
func New(scrapers []scraper.Scraper, opts Options) *Runner {
	if opts.Logger == nil {
		opts.Logger = logging.GetGlobalLogger()
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	return &Runner{
		scrapers: scrapers,
		pacing:   opts.Pacing,
		logger:   opts.Logger,
		out:      opts.Out,
	}
}

// FormatResult renders the output line for a result. Failures print the same
// as an absent count.
func FormatResult(r models.ScrapeResult) string {
	count := r.Count
	if r.Failed() {
		count = models.NoCount
	}
	return fmt.Sprintf("Job count for %s: %s", r.Title, count)
}

// Run scrapes every title. The pacing timer starts with the title's first
// scrape and the next title waits for both the timer and the scrapes.
// It stops early only when ctx is cancelled.
func (r *Runner) Run(ctx context.Context, titles []string) (models.Summary, error) {
	var summary models.Summary
	started := time.Now()

	r.logger.Info("Starting run", map[string]interface{}{
		"titles":   len(titles),
		"scrapers": len(r.scrapers),
		"pacing":   r.pacing.String(),
	})

	for i, title := range titles {
		if err := ctx.Err(); err != nil {
			summary.Elapsed = time.Since(started)
			return summary, err
		}

		pace := time.NewTimer(r.pacing)
		summary.Titles++

		for _, s := range r.scrapers {
			if ctx.Err() != nil {
				break
			}
			result := r.scrape(ctx, s, title)
			kind := scraper.KindOf(result.Err).String()
			summary.Record(result, kind)
			r.report(result, kind)
		}

		if i == len(titles)-1 {
			pace.Stop()
			break
		}

		select {
		case <-pace.C:
		case <-ctx.Done():
			pace.Stop()
			summary.Elapsed = time.Since(started)
			return summary, ctx.Err()
		}
	}

	summary.Elapsed = time.Since(started)
	r.logger.Info("Run complete", map[string]interface{}{
		"titles":   summary.Titles,
		"found":    summary.Found,
		"absent":   summary.Absent,
		"failed":   summary.Failed,
		"failures": summary.Failures,
		"elapsed":  summary.Elapsed.String(),
	})
	return summary, nil
}

func (r *Runner) scrape(ctx context.Context, s scraper.Scraper, title string) models.ScrapeResult {
	start := time.Now()
	count, err := s.JobCount(ctx, title)
	return models.ScrapeResult{
		Site:     s.Name(),
		Title:    title,
		Count:    count,
		Err:      err,
		Duration: time.Since(start),
	}
}

func (r *Runner) report(result models.ScrapeResult, kind string) {
	fields := map[string]interface{}{
		"site":        result.Site,
		"title":       result.Title,
		"duration_ms": result.Duration.Milliseconds(),
	}

	switch {
	case result.Failed():
		fields["kind"] = kind
		r.logger.WithError(result.Err).Warn("Scrape failed", fields)
	case result.Count.Found:
		fields["count"] = result.Count.Value
		r.logger.Info("Scrape complete", fields)
	default:
		r.logger.Info("No count shown", fields)
	}

	if _, err := fmt.Fprintln(r.out, FormatResult(result)); err != nil {
		r.logger.WithError(err).Error("Failed to write result")
	}
}
