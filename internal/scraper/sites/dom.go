package sites

import (
	"context"
	"fmt"
	"time"

	"jobex-scraper/internal/logging"
	"jobex-scraper/internal/scraper"
	"jobex-scraper/pkg/models"
)

// ReadMode selects what is read from the located element
type ReadMode int

const (
	ReadInnerHTML ReadMode = iota
	ReadText
)

// DOMSite describes where a rendered search page shows its count
type DOMSite struct {
	Name string
	// SearchURL is a printf template with a single %s for the encoded query
	SearchURL string
	Encode    scraper.Encoder
	// Path is the selector chain, outermost container first
	Path  []string
	Read  ReadMode
	Parse scraper.Parser
}

var indeedSite = DOMSite{
	Name:      "indeed",
	SearchURL: "https://nz.indeed.com/jobs?q=%s",
	Encode:    scraper.EncodePlus,
	Path:      []string{"div.jobsearch-JobCountAndSortPane-jobCount", "span"},
	Read:      ReadInnerHTML,
	Parse:     scraper.ParseLeadingToken,
}

var tradeMeSite = DOMSite{
	Name:      "trademe",
	SearchURL: "https://www.trademe.co.nz/a/jobs/search?search_string=%s",
	Encode:    scraper.EncodePercent20,
	Path:      []string{"h3.tm-search-header-result-count__heading"},
	Read:      ReadText,
	Parse:     scraper.ParseFirstDigitRun,
}

// DOMScraper reads a job count out of a rendered search page.
// It holds no per-call state; each call gets its own page.
type DOMScraper struct {
	site    DOMSite
	pages   scraper.PageProvider
	timeout time.Duration
	logger  logging.Logger
}

// NewDOMScraper creates a scraper for site backed by pages
func NewDOMScraper(site DOMSite, pages scraper.PageProvider, opts Options) *DOMScraper {
	opts = opts.withDefaults()
	return &DOMScraper{
		site:    site,
		pages:   pages,
		timeout: opts.NavigationTimeout,
		logger:  opts.Logger.WithField("site", site.Name),
	}
}

// NewIndeed reads the leading token of Indeed's "1234 jobs" phrase
func NewIndeed(pages scraper.PageProvider, opts Options) *DOMScraper {
	return NewDOMScraper(indeedSite, pages, opts)
}

// NewTradeMe extracts the first number from Trade Me's result heading
func NewTradeMe(pages scraper.PageProvider, opts Options) *DOMScraper {
	return NewDOMScraper(tradeMeSite, pages, opts)
}

func (s *DOMScraper) Name() string {
	return s.site.Name
}

// SearchURL returns the search page for title
func (s *DOMScraper) SearchURL(title string) string {
	return fmt.Sprintf(s.site.SearchURL, s.site.Encode(title))
}

// JobCount navigates a fresh page to the search URL and reads the count.
// An empty count element is an absent count, not an error; whitespace is
// left to the parser.
func (s *DOMScraper) JobCount(ctx context.Context, title string) (models.JobCount, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	page, err := s.pages.CreatePage(ctx)
	if err != nil {
		return models.NoCount, s.wrap(err)
	}
	defer func() {
		if err := page.Close(); err != nil {
			s.logger.WithError(err).Debug("Failed to close page")
		}
	}()

	url := s.SearchURL(title)
	s.logger.Debug("Navigating to search page", map[string]interface{}{"url": url})

	if err := page.Navigate(ctx, url); err != nil {
		return models.NoCount, s.wrap(err)
	}

	text, err := s.readCount(ctx, page)
	if err != nil {
		return models.NoCount, s.wrap(err)
	}

	if text == "" {
		return models.NoCount, nil
	}

	n, err := s.site.Parse(text)
	if err != nil {
		return models.NoCount, s.wrap(err)
	}
	return models.CountOf(n), nil
}

// readCount walks the selector path and reads the innermost element
func (s *DOMScraper) readCount(ctx context.Context, page scraper.Page) (string, error) {
	el, err := page.Element(ctx, s.site.Path[0])
	if err != nil {
		return "", err
	}
	for _, selector := range s.site.Path[1:] {
		if el, err = el.Element(ctx, selector); err != nil {
			return "", err
		}
	}

	if s.site.Read == ReadText {
		return el.Text(ctx)
	}
	return el.InnerHTML(ctx)
}

func (s *DOMScraper) wrap(err error) error {
	return fmt.Errorf("%s: %w", s.site.Name, err)
}
