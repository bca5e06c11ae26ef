// Package cmd defines and implements the CLI commands for the truthlens executable.
package cmd

import (
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/truthlens/truthlens/internal/ai"
	"github.com/truthlens/truthlens/internal/cache"
	"github.com/truthlens/truthlens/internal/config"
	collyfetcher "github.com/truthlens/truthlens/internal/fetcher/colly"
	"github.com/truthlens/truthlens/internal/logging"
	"github.com/truthlens/truthlens/internal/metrics"
	"github.com/truthlens/truthlens/internal/scraper"
	"github.com/truthlens/truthlens/internal/verify"
)

var cfgFile string

// newRootCmd creates and configures the root command.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "truthlens",
		Short: "Credibility verification for web pages and raw text.",
		Long: `truthlens fetches remote documents politely (robots.txt aware, with
identity-tier escalation and caching) or accepts raw text, and produces a
credibility verdict: a bounded score, a qualitative verdict, a
hallucination-risk level, supporting evidence and an optional corrected
rewrite.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path")

	cmd.AddCommand(newFetchCmd())
	cmd.AddCommand(newVerifyCmd())
	return cmd
}

// Execute is the main entry point.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// services holds the wired, long-lived collaborators shared by commands.
type services struct {
	cfg      config.Config
	logger   *zap.Logger
	scraper  *scraper.Service
	verifier *ai.Service
	closers  []func()
}

// newServices loads configuration and constructs the fetch pipeline and
// verification stack. It fails fast on configuration errors; cache backend
// construction failures degrade to an uncached pipeline.
func newServices() (*services, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logger, err := logging.New(cfg.Logging.Development)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	zap.ReplaceGlobals(logger)
	metrics.Init()

	svc := &services{cfg: cfg, logger: logger}

	var store cache.Store
	switch cfg.Cache.Backend {
	case "memcached":
		mc, err := cache.NewMemcached(cfg.Cache.Servers, cfg.CacheTimeout(), logger)
		if err != nil {
			logger.Warn("memcached unavailable; running uncached", zap.Error(err))
			store = cache.NewNoop()
		} else {
			store = mc
			svc.closers = append(svc.closers, mc.Close)
		}
	case "memory":
		store = cache.NewMemory()
	default:
		store = cache.NewNoop()
	}

	robots := scraper.NewPolicyCache(store, cfg.RobotsTimeout(), cfg.Cache.RobotsTTL, cfg.Scraper.UserAgent, logger)
	fetcher := collyfetcher.New(collyfetcher.Config{
		PoliteUserAgent:  cfg.Scraper.UserAgent,
		StealthUserAgent: cfg.Scraper.StealthUserAgent,
		Timeout:          cfg.FetchTimeout(),
	})
	svc.scraper = scraper.New(fetcher, robots, store, scraper.Options{
		PageTTL:      cfg.Cache.PageTTL,
		PerHostRPS:   cfg.Scraper.PerHostRequestsPerSec,
		PerHostBurst: cfg.Scraper.PerHostBurst,
	}, logger)

	engine := verify.NewEngine(verify.DefaultRules(), logger)
	svc.verifier = ai.New(cfg.AI, engine, logger)

	if cfg.Metrics.Enabled {
		go func() {
			addr := fmt.Sprintf(":%d", cfg.Metrics.Port)
			mux := http.NewServeMux()
			mux.Handle("/metrics", metrics.Handler())
			logger.Info("starting metrics listener", zap.String("addr", addr))
			if err := http.ListenAndServe(addr, mux); err != nil {
				logger.Error("metrics listener failed", zap.Error(err))
			}
		}()
	}

	return svc, nil
}

// Close shuts down backend clients and flushes the logger.
func (s *services) Close() {
	for _, closer := range s.closers {
		closer()
	}
	if s.logger != nil {
		// Best effort; stderr sync failures on shutdown are not actionable.
		_ = s.logger.Sync()
	}
}
