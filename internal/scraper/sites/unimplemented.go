package sites

import (
	"context"

	"jobex-scraper/internal/scraper"
	"jobex-scraper/pkg/models"
)

// Unimplemented stands in for a site with no adapter yet. It always fails
// with ErrNotImplemented so callers can skip the site and carry on.
type Unimplemented struct {
	name string
}

// NewUnimplemented creates a placeholder adapter for name
func NewUnimplemented(name string) *Unimplemented {
	return &Unimplemented{name: name}
}

// NewJora is the Jora placeholder
func NewJora() *Unimplemented {
	return NewUnimplemented("jora")
}

func (u *Unimplemented) Name() string {
	return u.name
}

func (u *Unimplemented) JobCount(ctx context.Context, title string) (models.JobCount, error) {
	return models.NoCount, scraper.NewError(scraper.ErrNotImplemented, u.name, "no adapter for this site yet", nil)
}
