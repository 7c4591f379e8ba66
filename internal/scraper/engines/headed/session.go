package headed

import (
	"context"
	"fmt"
	"os"
	"sync"
	"sync/atomic"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"

	"jobex-scraper/internal/logging"
	"jobex-scraper/internal/scraper"
)

const (
	viewportWidth  = 1920
	viewportHeight = 1080
)

// Options configures the browser launch
type Options struct {
	Bin       string // empty means discover a system Chrome, then let rod download one
	Headless  bool
	NoSandbox bool
	UserAgent string
}

// Session owns one running browser and the worker draining its event stream.
// Pages are created fresh per call and belong to the caller.
type Session struct {
	launcher  *launcher.Launcher
	browser   *rod.Browser
	userAgent string
	logger    logging.Logger

	// mu is held for reading while a page is created and for writing by Stop
	mu      sync.RWMutex
	stopped bool

	// shutdown closes the browser and waits for its process to exit
	shutdown func() error
	cancel   context.CancelFunc
	done     chan struct{}

	events atomic.Int64
	pages  atomic.Int64
}

// Stats is a snapshot of session activity
type Stats struct {
	Events int64
	Pages  int64
}

// Start launches the browser and the event drain worker
func Start(opts Options, logger logging.Logger) (*Session, error) {
	logger = logger.WithField("component", "browser_session")

	l := launcher.New().
		Headless(opts.Headless).
		NoSandbox(opts.NoSandbox).
		Set("window-size", fmt.Sprintf("%d,%d", viewportWidth, viewportHeight)).
		Set("disable-blink-features", "AutomationControlled").
		Set("disable-background-timer-throttling").
		Set("disable-renderer-backgrounding").
		Set("disable-gpu").
		Set("disable-dev-shm-usage")

	bin := opts.Bin
	if bin == "" {
		bin = getSystemChromePath()
	}
	if bin != "" {
		l = l.Bin(bin)
		logger.Debug("Using system Chrome browser", map[string]interface{}{"chrome_path": bin})
	} else {
		logger.Warn("System Chrome not found, rod will download a browser")
	}

	controlURL, err := l.Launch()
	if err != nil {
		return nil, scraper.NewError(scraper.ErrSession, "", "failed to launch browser", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		cancel()
		l.Kill()
		l.Cleanup()
		return nil, scraper.NewError(scraper.ErrSession, "", "failed to connect to browser", err)
	}

	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	s := &Session{
		launcher:  l,
		browser:   browser,
		userAgent: userAgent,
		logger:    logger,
		cancel:    cancel,
		done:      make(chan struct{}),
	}
	s.shutdown = s.closeBrowser

	go s.drain(browser.Event())

	logger.Info("Browser session started", map[string]interface{}{"headless": opts.Headless})
	return s, nil
}

// drain consumes the event stream until it closes or the browser detaches.
// It never restarts the browser.
func (s *Session) drain(events <-chan *rod.Message) {
	defer close(s.done)

	detached := proto.InspectorDetached{}.ProtoEvent()
	for msg := range events {
		s.events.Add(1)
		if msg.Method == detached {
			s.logger.Debug("Browser detached, event worker exiting")
			return
		}
	}
}

// CreatePage opens a blank page with the stealth identity applied
func (s *Session) CreatePage(ctx context.Context) (scraper.Page, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.stopped {
		return nil, scraper.NewError(scraper.ErrSession, "", "session stopped", nil)
	}

	page, err := stealth.Page(s.browser.Context(ctx))
	if err != nil {
		return nil, scraper.NewError(scraper.ErrSession, "", "failed to create stealth page", err)
	}
	// rebind to the session lifetime so Close works after ctx ends
	page = page.Context(s.browser.GetContext())

	if err := s.applyIdentity(page); err != nil {
		_ = page.Close()
		return nil, err
	}

	s.pages.Add(1)
	return &rodPage{page: page}, nil
}

func (s *Session) applyIdentity(page *rod.Page) error {
	err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{
		UserAgent:      s.userAgent,
		AcceptLanguage: "en-NZ,en;q=0.9",
	})
	if err != nil {
		return scraper.NewError(scraper.ErrSession, "", "failed to set user agent", err)
	}

	err = page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             viewportWidth,
		Height:            viewportHeight,
		DeviceScaleFactor: 1,
	})
	if err != nil {
		return scraper.NewError(scraper.ErrSession, "", "failed to set viewport", err)
	}
	return nil
}

// Stop closes the browser, waits for its process to exit and joins the event
// worker, in that order. A session can be stopped once.
func (s *Session) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return scraper.NewError(scraper.ErrSession, "", "session already stopped", nil)
	}
	s.stopped = true

	err := s.shutdown()

	s.cancel()
	<-s.done

	stats := s.Stats()
	s.logger.Info("Browser session stopped", map[string]interface{}{
		"events": stats.Events,
		"pages":  stats.Pages,
	})
	return err
}

func (s *Session) closeBrowser() error {
	var err error
	if closeErr := s.browser.Close(); closeErr != nil {
		err = scraper.NewError(scraper.ErrSession, "", "failed to close browser", closeErr)
		s.launcher.Kill()
	}

	// blocks until the process has exited
	s.launcher.Cleanup()
	return err
}

// Stats returns counters for the session
func (s *Session) Stats() Stats {
	return Stats{Events: s.events.Load(), Pages: s.pages.Load()}
}

const defaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/16.6 Safari/605.1.15"

// getSystemChromePath finds a system-installed Chrome/Chromium browser
func getSystemChromePath() string {
	if chromePath := os.Getenv("CHROME_PATH"); chromePath != "" {
		if _, err := os.Stat(chromePath); err == nil {
			return chromePath
		}
	}

	if path, found := launcher.LookPath(); found {
		return path
	}
	return ""
}
