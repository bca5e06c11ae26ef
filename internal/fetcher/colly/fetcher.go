// Package collyfetcher implements scraper.Fetcher using gocolly.
package collyfetcher

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gocolly/colly/v2"

	"github.com/truthlens/truthlens/internal/scraper"
)

// Config controls collector behavior.
type Config struct {
	PoliteUserAgent  string
	StealthUserAgent string
	Timeout          time.Duration
}

// Fetcher performs single-page GETs with the identity profile requested per
// fetch. Robots handling is disabled at the collector; the robots policy
// lives upstream in the scraper pipeline so tiers can decide it per attempt.
type Fetcher struct {
	cfg           Config
	transport     http.RoundTripper
	baseCollector *colly.Collector
}

type collectorHooks interface {
	OnRequest(colly.RequestCallback)
	OnResponse(colly.ResponseCallback)
	OnError(colly.ErrorCallback)
}

// New builds a Fetcher.
func New(cfg Config) *Fetcher {
	c := colly.NewCollector()
	// colly v2.1.0's Async(...) option sets Async=true regardless of its
	// argument; assign the field directly to keep the collector synchronous.
	c.Async = false
	c.IgnoreRobotsTxt = true
	// Tier escalation re-requests the same URL with a different identity.
	c.AllowURLRevisit = true

	transport := newHTTPTransport()
	c.WithTransport(transport)

	return &Fetcher{
		cfg:           cfg,
		transport:     transport,
		baseCollector: c,
	}
}

// Fetch executes a single HTTP GET using Colly.
//
// Non-2xx responses surface as *scraper.UpstreamError carrying the upstream
// status; transport and timeout failures carry status 500.
func (f *Fetcher) Fetch(ctx context.Context, request scraper.FetchRequest) (scraper.FetchResponse, error) {
	var (
		result   scraper.FetchResponse
		fetchErr error
		status   int
	)
	start := time.Now()
	collector := f.buildCollector(request, start, &result, &fetchErr, &status)

	if err := f.runCollector(ctx, collector, request.URL, &fetchErr); err != nil {
		if status == 0 {
			status = http.StatusInternalServerError
		}
		result.Duration = time.Since(start)
		return result, &scraper.UpstreamError{Status: status, Cause: err}
	}
	return result, nil
}

func (f *Fetcher) buildCollector(
	request scraper.FetchRequest,
	start time.Time,
	result *scraper.FetchResponse,
	fetchErr *error,
	status *int,
) *colly.Collector {
	collector := f.baseCollector.Clone()
	collector.IgnoreRobotsTxt = true
	collector.UserAgent = f.userAgent(request.Identity)

	timeout := f.cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	collector.SetRequestTimeout(timeout)
	collector.WithTransport(f.transport)

	f.configureCollectorHooks(collector, request, start, result, fetchErr, status)
	return collector
}

func (f *Fetcher) configureCollectorHooks(
	hooks collectorHooks,
	request scraper.FetchRequest,
	start time.Time,
	result *scraper.FetchResponse,
	fetchErr *error,
	status *int,
) {
	hooks.OnRequest(func(r *colly.Request) {
		for key, value := range identityHeaders(request.Identity) {
			r.Headers.Set(key, value)
		}
	})

	hooks.OnResponse(func(r *colly.Response) {
		*result = scraper.FetchResponse{
			URL:        r.Request.URL.String(),
			StatusCode: r.StatusCode,
			Headers:    r.Headers.Clone(),
			Body:       append([]byte(nil), r.Body...),
			Duration:   time.Since(start),
		}
	})

	hooks.OnError(func(r *colly.Response, err error) {
		if r != nil {
			*status = r.StatusCode
		}
		*fetchErr = err
	})
}

func (f *Fetcher) runCollector(ctx context.Context, collector *colly.Collector, url string, fetchErr *error) error {
	done := make(chan error, 1)
	go func() {
		done <- collector.Visit(url)
	}()

	select {
	case <-ctx.Done():
		return fmt.Errorf("colly fetch canceled: %w", ctx.Err())
	case err := <-done:
		if err != nil {
			return fmt.Errorf("colly visit failed: %w", err)
		}
		if *fetchErr != nil {
			return fmt.Errorf("colly response failed: %w", *fetchErr)
		}
		return nil
	}
}

func (f *Fetcher) userAgent(identity scraper.Identity) string {
	if identity == scraper.IdentityStealth {
		return f.cfg.StealthUserAgent
	}
	return f.cfg.PoliteUserAgent
}

// identityHeaders returns the extra header set for the identity. The polite
// profile declares nothing beyond its user agent; the stealth profile
// mimics a desktop browser.
func identityHeaders(identity scraper.Identity) map[string]string {
	if identity != scraper.IdentityStealth {
		return nil
	}
	return map[string]string{
		"Accept":                    "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8",
		"Accept-Language":           "en-US,en;q=0.5",
		"Upgrade-Insecure-Requests": "1",
	}
}

func newHTTPTransport() *http.Transport {
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   15 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
	}
}
