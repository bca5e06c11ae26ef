package scraper

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/truthlens/truthlens/internal/cache"
	"github.com/truthlens/truthlens/internal/metrics"
)

const pageCachePrefix = "scrape:"

// Options configures a Service.
type Options struct {
	// PageTTL bounds how long a successful fetch result is cached.
	PageTTL time.Duration
	// PerHostRPS and PerHostBurst tune the politeness limiter.
	PerHostRPS   float64
	PerHostBurst int
}

// Service orchestrates tiered fetches across the robots policy cache, the
// fetch client and the result cache.
//
// Tiers run strictly in sequence, each to its own timeout: Standard
// (robots honored, polite identity), Relaxed (robots ignored, polite
// identity, entered only after a robots denial) and Stealth (robots
// ignored, browser-like identity, entered after any other fetch failure).
type Service struct {
	fetcher Fetcher
	robots  RobotsPolicy
	store   cache.Store
	limiter *hostLimiter
	pageTTL time.Duration
	logger  *zap.Logger
}

// New builds a Service. store may be a cache.Noop when no backend is
// configured; every cache operation then degrades to a miss.
func New(fetcher Fetcher, robots RobotsPolicy, store cache.Store, opts Options, logger *zap.Logger) *Service {
	ttl := opts.PageTTL
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Service{
		fetcher: fetcher,
		robots:  robots,
		store:   store,
		limiter: newHostLimiter(opts.PerHostRPS, opts.PerHostBurst),
		pageTTL: ttl,
		logger:  logger,
	}
}

// Scrape fetches req.URL through the tier state machine and returns the
// extracted page.
//
// A robots denial at the standard tier is retried with robots ignored
// unless req.NoEscalate is set; every other failure escalates straight to
// the stealth tier. Only a failure that survives the stealth tier is
// surfaced to the caller.
func (s *Service) Scrape(ctx context.Context, req Request) (PageResult, error) {
	log := s.logger.With(
		zap.String("scrape_id", uuid.NewString()),
		zap.String("url", req.URL),
	)

	result, err := s.attempt(ctx, req.URL, req.IgnoreRobots, IdentityPolite, log)
	if err == nil {
		return result, nil
	}

	var robotsErr *RobotsDisallowedError
	if errors.As(err, &robotsErr) && !req.IgnoreRobots {
		if req.NoEscalate {
			return PageResult{}, err
		}
		log.Info("robots denied standard fetch; retrying with robots relaxed")
		result, err = s.attempt(ctx, req.URL, true, IdentityPolite, log)
		if err == nil {
			return result, nil
		}
	}

	log.Warn("host block detected; initiating stealth fetch", zap.Error(err))
	result, err = s.attempt(ctx, req.URL, true, IdentityStealth, log)
	if err == nil {
		return result, nil
	}

	var upstream *UpstreamError
	if errors.As(err, &upstream) {
		upstream.Persistent = true
		return PageResult{}, upstream
	}
	return PageResult{}, err
}

// attempt runs a single tier: cache check, robots check, rate-limited
// fetch, extraction, cache write.
func (s *Service) attempt(ctx context.Context, rawURL string, ignoreRobots bool, identity Identity, log *zap.Logger) (PageResult, error) {
	key := pageCacheKey(rawURL, identity)
	if encoded, ok := s.store.Get(key); ok {
		var cached PageResult
		if err := json.Unmarshal([]byte(encoded), &cached); err == nil {
			metrics.ObserveCacheRequest("page", true)
			log.Debug("page cache hit", zap.String("mode", cached.Mode))
			return cached, nil
		}
		log.Warn("page cache entry corrupt; refetching", zap.String("key", key))
	}
	metrics.ObserveCacheRequest("page", false)

	if !ignoreRobots && !s.robots.Allowed(ctx, rawURL) {
		metrics.ObserveFetchAttempt(rawURL, identity.String(), "robots_disallowed", 0)
		return PageResult{}, &RobotsDisallowedError{URL: rawURL}
	}

	if err := s.limiter.Wait(ctx, rawURL); err != nil {
		return PageResult{}, err
	}

	resp, err := s.fetcher.Fetch(ctx, FetchRequest{URL: rawURL, Identity: identity})
	if err != nil {
		metrics.ObserveFetchAttempt(rawURL, identity.String(), "error", resp.Duration)
		log.Warn("fetch failed", zap.String("identity", identity.String()), zap.Error(err))
		return PageResult{}, err
	}
	metrics.ObserveFetchAttempt(rawURL, identity.String(), "success", resp.Duration)

	title, metaDescription, snippet := extractContent(string(resp.Body))
	result := PageResult{
		URL:             rawURL,
		Title:           title,
		MetaDescription: metaDescription,
		Content:         snippet,
		Mode:            identity.Mode(),
	}

	if encoded, err := json.Marshal(result); err == nil {
		s.store.Set(key, string(encoded), s.pageTTL)
	} else {
		log.Warn("encode page result for cache", zap.Error(err))
	}
	return result, nil
}

func pageCacheKey(rawURL string, identity Identity) string {
	return pageCachePrefix + rawURL + ":" + strings.ToLower(identity.Mode())
}
