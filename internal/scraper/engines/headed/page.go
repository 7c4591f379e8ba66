package headed

import (
	"context"
	"fmt"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"

	"jobex-scraper/internal/scraper"
)

// rodPage adapts a rod page to scraper.Page
type rodPage struct {
	page *rod.Page
}

// Navigate loads url and blocks until the network has gone almost idle, so no
// DOM read can observe the pre-render document
func (p *rodPage) Navigate(ctx context.Context, url string) error {
	page := p.page.Context(ctx)

	wait := page.WaitNavigation(proto.PageLifecycleEventNameNetworkAlmostIdle)
	if err := page.Navigate(url); err != nil {
		return scraper.NewError(scraper.ErrNavigation, "", fmt.Sprintf("failed to navigate to %s", url), err)
	}
	wait()

	if err := ctx.Err(); err != nil {
		return scraper.NewError(scraper.ErrNavigation, "", fmt.Sprintf("navigation to %s did not settle", url), err)
	}
	return nil
}

func (p *rodPage) Element(ctx context.Context, selector string) (scraper.Element, error) {
	has, el, err := p.page.Context(ctx).Has(selector)
	return wrapElement(selector, has, el, err)
}

func (p *rodPage) Close() error {
	return p.page.Close()
}

// rodElement adapts a rod element to scraper.Element
type rodElement struct {
	el *rod.Element
}

func (e *rodElement) Element(ctx context.Context, selector string) (scraper.Element, error) {
	has, el, err := e.el.Context(ctx).Has(selector)
	return wrapElement(selector, has, el, err)
}

func (e *rodElement) Text(ctx context.Context) (string, error) {
	text, err := e.el.Context(ctx).Text()
	if err != nil {
		return "", scraper.NewError(scraper.ErrNavigation, "", "failed to read element text", err)
	}
	return text, nil
}

func (e *rodElement) InnerHTML(ctx context.Context) (string, error) {
	v, err := e.el.Context(ctx).Property("innerHTML")
	if err != nil {
		return "", scraper.NewError(scraper.ErrNavigation, "", "failed to read element html", err)
	}
	if v.Nil() {
		return "", nil
	}
	return v.Str(), nil
}

func wrapElement(selector string, has bool, el *rod.Element, err error) (scraper.Element, error) {
	if err != nil {
		return nil, scraper.NewError(scraper.ErrNavigation, "", fmt.Sprintf("query %q failed", selector), err)
	}
	if !has {
		return nil, scraper.NewError(scraper.ErrElementNotFound, "", selector, nil)
	}
	return &rodElement{el: el}, nil
}
