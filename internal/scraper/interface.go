package scraper

import (
	"context"

	"jobex-scraper/pkg/models"
)

// Scraper defines the interface every job site adapter satisfies
type Scraper interface {
	// Name returns the site identifier used in configuration and logs
	Name() string

	// JobCount returns the number of postings the site lists for title.
	// A zero-value models.JobCount with a nil error means the site showed no count.
	JobCount(ctx context.Context, title string) (models.JobCount, error)
}

// PageProvider hands out fresh pages. Every page belongs to the caller until closed.
type PageProvider interface {
	CreatePage(ctx context.Context) (Page, error)
}

// Page is a single navigable document
type Page interface {
	// Navigate loads url and returns once the navigation response has settled
	Navigate(ctx context.Context, url string) error

	// Element returns the first match for selector, or an ErrElementNotFound error.
	// It does not wait for the element to appear.
	Element(ctx context.Context, selector string) (Element, error)

	// Close releases the page
	Close() error
}

// Element is a node located in a Page
type Element interface {
	Element(ctx context.Context, selector string) (Element, error)
	Text(ctx context.Context) (string, error)
	InnerHTML(ctx context.Context) (string, error)
}
