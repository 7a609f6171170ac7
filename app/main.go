package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/publicvector/databreach-rss/app/api"
	"github.com/publicvector/databreach-rss/app/blog"
	"github.com/publicvector/databreach-rss/app/breach"
	"github.com/publicvector/databreach-rss/app/cfg"
	"github.com/publicvector/databreach-rss/app/collector"
	"github.com/publicvector/databreach-rss/app/config"
	"github.com/publicvector/databreach-rss/app/database"
	"github.com/publicvector/databreach-rss/app/scheduler"
	"github.com/publicvector/databreach-rss/app/site"
)

func main() {
	appCfg, err := cfg.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if appCfg == nil {
		// Help was shown, exit gracefully
		return
	}

	if appCfg.Debug {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}

	slog.Info("Starting Breach RSS", "version", appCfg.Version)

	db, err := database.NewConnection(appCfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	version, dirty, err := database.RunMigrations(db)
	if err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	slog.Info("Database ready", "path", appCfg.DBPath, "migration_version", version, "dirty", dirty)

	caseRepo := database.NewCaseRepository(db)

	loader := config.NewLoader(appCfg.SourcesDir)
	sources, err := loader.LoadAll()
	if err != nil {
		log.Fatalf("Failed to load source definitions: %v", err)
	}
	slog.Info("Source definitions loaded", "dir", appCfg.SourcesDir, "sources", len(sources))

	fetchTimeout := time.Duration(appCfg.FetchTimeout) * time.Second
	collectors := collector.Build(sources, fetchTimeout, appCfg.UserAgent)
	if len(collectors) == 0 {
		slog.Warn("No enabled collectors, the feed will be empty")
	}
	runner := collector.NewRunner(collectors, appCfg.WorkerCount, fetchTimeout)

	blogCache, err := blog.NewCache(appCfg.CacheDir)
	if err != nil {
		log.Fatalf("Failed to initialize blog cache: %v", err)
	}
	slog.Info("Blog cache loaded", "dir", appCfg.CacheDir, "posts", blogCache.Len())

	blogGenerator, err := buildBlogGenerator(appCfg, blogCache)
	if err != nil {
		log.Fatalf("Failed to initialize blog generator: %v", err)
	}

	snapshot := api.NewSnapshot()
	if err := snapshot.Hydrate(caseRepo, blogCache); err != nil {
		slog.Warn("Failed to hydrate snapshot from archive", "error", err)
	}

	var siteBuilder scheduler.SiteBuilder
	if appCfg.OutputDir != "" {
		siteBuilder = site.NewBuilder(appCfg.OutputDir)
	}

	sched := scheduler.NewScheduler(runner, blogGenerator, caseRepo, snapshot, siteBuilder)

	if appCfg.OneShot {
		slog.Info("Running one-shot collection")
		if _, err := sched.RunOnce(context.Background()); err != nil {
			log.Fatalf("Collection run failed: %v", err)
		}
		slog.Info("One-shot collection complete", "output", appCfg.OutputDir)
		return
	}

	sched.Start()
	defer sched.Stop()

	handler := api.NewHandler(snapshot, caseRepo, blogCache, sched)
	server := api.NewServer(handler, appCfg.APIAccessKey)

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("HTTP server starting", "port", appCfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("Server error", "error", err)
	}

	slog.Info("Shutting down gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	// Scheduler is stopped via defer
	slog.Info("Shutdown complete")
}

// buildBlogGenerator wires the generation pipeline. Without an API key the
// service still serves previously cached posts but generates nothing new.
func buildBlogGenerator(appCfg *cfg.Cfg, cache *blog.Cache) (scheduler.BlogGenerator, error) {
	if appCfg.AnthropicAPIKey == "" {
		slog.Warn("ANTHROPIC_API_KEY not set, blog generation disabled")
		return &cachedOnlyGenerator{cache: cache}, nil
	}

	writer, err := blog.NewAnthropicWriter(appCfg.AnthropicAPIKey, appCfg.BlogModel, appCfg.ContactBoilerplate)
	if err != nil {
		return nil, err
	}

	limiter, err := blog.NewRateLimiter(appCfg.BlogRateLimit)
	if err != nil {
		return nil, err
	}

	extractor := blog.NewExtractor(time.Duration(appCfg.FetchTimeout)*time.Second, appCfg.UserAgent)

	return blog.NewGenerator(cache, extractor, limiter, writer.Generate), nil
}

// cachedOnlyGenerator serves previously generated posts without making any
// generation calls.
type cachedOnlyGenerator struct {
	cache *blog.Cache
}

func (g *cachedOnlyGenerator) RunBatch(ctx context.Context, cases []*breach.Case, limit int) blog.BatchResult {
	result := blog.BatchResult{Total: len(cases)}
	for _, c := range cases {
		if post := g.cache.Get(c.ID); post != nil {
			result.Posts = append(result.Posts, post)
			result.Cached++
		}
	}
	return result
}
