// Package static provides a page engine that fetches documents over plain HTTP
// and queries them with goquery. No JavaScript runs, so it only suits sites that
// render their counts server side.
package static

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"

	"github.com/PuerkitoBio/goquery"

	"jobex-scraper/internal/httpclient"
	"jobex-scraper/internal/scraper"
)

// maxDocumentBytes bounds how much of a response is parsed
const maxDocumentBytes = 8 << 20

// Session hands out goquery-backed pages sharing one HTTP client
type Session struct {
	client *httpclient.Client

	mu      sync.RWMutex
	stopped bool
}

// New creates a static session
func New(client *httpclient.Client) *Session {
	return &Session{client: client}
}

func (s *Session) CreatePage(ctx context.Context) (scraper.Page, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.stopped {
		return nil, scraper.NewError(scraper.ErrSession, "", "session stopped", nil)
	}
	return &page{client: s.client}, nil
}

// Stop marks the session stopped; a second call is an error
func (s *Session) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return scraper.NewError(scraper.ErrSession, "", "session already stopped", nil)
	}
	s.stopped = true
	return nil
}

type page struct {
	client *httpclient.Client
	doc    *goquery.Document
}

func (p *page) Navigate(ctx context.Context, url string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return scraper.NewError(scraper.ErrNavigation, "", "building request", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return scraper.NewError(scraper.ErrNavigation, "", fmt.Sprintf("failed to load %s", url), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return scraper.NewError(scraper.ErrNavigation, "", fmt.Sprintf("%s returned status %d", url, resp.StatusCode), nil)
	}

	doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, maxDocumentBytes))
	if err != nil {
		return scraper.NewError(scraper.ErrNavigation, "", "parsing HTML", err)
	}
	p.doc = doc
	return nil
}

func (p *page) Element(ctx context.Context, selector string) (scraper.Element, error) {
	if p.doc == nil {
		return nil, scraper.NewError(scraper.ErrNavigation, "", "page has not been navigated", nil)
	}
	return find(p.doc.Selection, selector)
}

// Close drops the parsed document
func (p *page) Close() error {
	p.doc = nil
	return nil
}

type element struct {
	sel *goquery.Selection
}

func (e *element) Element(ctx context.Context, selector string) (scraper.Element, error) {
	return find(e.sel, selector)
}

func (e *element) Text(ctx context.Context) (string, error) {
	return e.sel.Text(), nil
}

func (e *element) InnerHTML(ctx context.Context) (string, error) {
	html, err := e.sel.Html()
	if err != nil {
		return "", scraper.NewError(scraper.ErrParse, "", "rendering inner HTML", err)
	}
	return html, nil
}

func find(root *goquery.Selection, selector string) (scraper.Element, error) {
	match := root.Find(selector).First()
	if match.Length() == 0 {
		return nil, scraper.NewError(scraper.ErrElementNotFound, "", selector, nil)
	}
	return &element{sel: match}, nil
}
