package httpclient

import (
	"crypto/tls"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Options configures the shared client
type Options struct {
	UserAgent string
	Timeout   time.Duration
	ProxyURL  string
	// RateLimit is requests per minute per host; zero disables pacing
	RateLimit int
}

func (o Options) withDefaults() Options {
	if o.Timeout == 0 {
		o.Timeout = 30 * time.Second
	}
	return o
}

// Client wraps http.Client with a fixed identity and per-host pacing.
// It is safe for concurrent use and is shared by every adapter.
type Client struct {
	inner     *http.Client
	userAgent string
	rateLimit int
	limiters  map[string]*rate.Limiter
	mu        sync.Mutex
}

// New creates a Client with the given options
func New(opts Options) (*Client, error) {
	opts = opts.withDefaults()

	transport := &http.Transport{
		TLSClientConfig: &tls.Config{MinVersion: tls.VersionTLS12},
		Proxy:           http.ProxyFromEnvironment,
	}

	if opts.ProxyURL != "" {
		proxyURL, err := url.Parse(opts.ProxyURL)
		if err != nil {
			return nil, fmt.Errorf("httpclient: invalid proxy URL: %w", err)
		}
		transport.Proxy = http.ProxyURL(proxyURL)
	}

	return &Client{
		inner:     &http.Client{Transport: transport, Timeout: opts.Timeout},
		userAgent: opts.UserAgent,
		rateLimit: opts.RateLimit,
		limiters:  make(map[string]*rate.Limiter),
	}, nil
}

// Do waits for the host's pacing slot, then executes req.
// Identity headers are only set when the caller left them empty.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	c.setHeaders(req)

	if limiter := c.limiterFor(req.URL.Host); limiter != nil {
		if err := limiter.Wait(req.Context()); err != nil {
			return nil, fmt.Errorf("httpclient: waiting for %s: %w", req.URL.Host, err)
		}
	}

	resp, err := c.inner.Do(req)
	if err != nil {
		return nil, fmt.Errorf("httpclient: request failed: %w", err)
	}
	return resp, nil
}

func (c *Client) setHeaders(req *http.Request) {
	if req.Header.Get("User-Agent") == "" && c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", "text/html,application/xhtml+xml,application/json;q=0.9,*/*;q=0.8")
	}
	if req.Header.Get("Accept-Language") == "" {
		req.Header.Set("Accept-Language", "en-NZ,en;q=0.9")
	}
}

func (c *Client) limiterFor(host string) *rate.Limiter {
	if c.rateLimit <= 0 {
		return nil
	}

	host = strings.ToLower(host)

	c.mu.Lock()
	defer c.mu.Unlock()

	if l, ok := c.limiters[host]; ok {
		return l
	}
	l := rate.NewLimiter(rate.Every(time.Minute/time.Duration(c.rateLimit)), 1)
	c.limiters[host] = l
	return l
}
