package scraper

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/temoto/robotstxt"
	"go.uber.org/zap"

	"github.com/truthlens/truthlens/internal/cache"
	"github.com/truthlens/truthlens/internal/metrics"
)

const robotsCachePrefix = "robots:"

// PolicyCache resolves and caches per-origin robots.txt rules.
//
// It is fail-open everywhere: a missing, unparsable or unfetchable
// robots.txt is treated as an empty rule set, so robots-fetch errors never
// block crawling. The raw rule text is cached per origin regardless of
// fetch outcome, bounding repeated-failure cost.
type PolicyCache struct {
	store     cache.Store
	client    *http.Client
	ttl       time.Duration
	userAgent string
	logger    *zap.Logger
}

// NewPolicyCache builds a PolicyCache reading through store with the given
// TTL. timeout bounds each robots.txt fetch.
func NewPolicyCache(store cache.Store, timeout, ttl time.Duration, userAgent string, logger *zap.Logger) *PolicyCache {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &PolicyCache{
		store:     store,
		client:    &http.Client{Timeout: timeout},
		ttl:       ttl,
		userAgent: userAgent,
		logger:    logger,
	}
}

// Allowed reports whether rawURL may be fetched under the origin's robots
// directives for the configured user agent.
func (p *PolicyCache) Allowed(ctx context.Context, rawURL string) bool {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return false
	}
	data := p.rules(ctx, parsed)
	group := data.FindGroup(p.userAgent)
	if group == nil {
		return true
	}
	target := parsed.EscapedPath()
	if target == "" {
		target = "/"
	}
	if parsed.RawQuery != "" {
		target += "?" + parsed.RawQuery
	}
	return group.Test(target)
}

// rules returns the parsed robots data for the URL's origin, reading
// through the cache. It never fails: every error path degrades to an empty
// rule set.
func (p *PolicyCache) rules(ctx context.Context, parsed *url.URL) *robotstxt.RobotsData {
	origin := parsed.Scheme + "://" + strings.ToLower(parsed.Host)
	key := robotsCachePrefix + origin

	text, hit := p.store.Get(key)
	metrics.ObserveCacheRequest("robots", hit)
	if !hit {
		text = p.fetchRuleText(ctx, origin)
		p.store.Set(key, text, p.ttl)
	}

	data, err := robotstxt.FromString(text)
	if err != nil {
		p.logger.Warn("robots.txt unparsable; allowing access",
			zap.String("origin", origin), zap.Error(err))
		data, _ = robotstxt.FromString("")
	}
	return data
}

// fetchRuleText retrieves {origin}/robots.txt, returning "" (allow-all) on
// any non-200 response or transport failure.
func (p *PolicyCache) fetchRuleText(ctx context.Context, origin string) string {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, origin+"/robots.txt", nil)
	if err != nil {
		return ""
	}
	req.Header.Set("User-Agent", p.userAgent)
	resp, err := p.client.Do(req)
	if err != nil {
		metrics.ObserveRobotsFetchFailure()
		p.logger.Warn("robots.txt fetch failed; treating as allow-all",
			zap.String("origin", origin), zap.Error(err))
		return ""
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			p.logger.Debug("close robots response body", zap.Error(cerr))
		}
	}()
	if resp.StatusCode != http.StatusOK {
		return ""
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		metrics.ObserveRobotsFetchFailure()
		p.logger.Warn("robots.txt read failed; treating as allow-all",
			zap.String("origin", origin), zap.Error(err))
		return ""
	}
	return string(body)
}
