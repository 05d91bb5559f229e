package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/alorle/tvtube-proxy/circuitbreaker"
	"github.com/alorle/tvtube-proxy/config"
	"github.com/alorle/tvtube-proxy/internal/adapter/driven"
	"github.com/alorle/tvtube-proxy/internal/adapter/driver"
	"github.com/alorle/tvtube-proxy/internal/application"
	"github.com/alorle/tvtube-proxy/internal/enrichment"
	"github.com/alorle/tvtube-proxy/internal/settings"
	"github.com/alorle/tvtube-proxy/logging"
	"github.com/alorle/tvtube-proxy/metrics"
	"github.com/alorle/tvtube-proxy/rewriter"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	// Create structured logger, mirrored to the webhook when configured
	var webhook *logging.Webhook
	if cfg.Logging.WebhookURL != "" {
		webhook = logging.NewWebhook(logging.WebhookConfig{
			URL:      cfg.Logging.WebhookURL,
			Username: cfg.Logging.WebhookUsername,
		})
	}
	logger := logging.New(os.Stdout, logging.ParseLevel(cfg.Resilience.LogLevel), webhook)
	slog.SetDefault(logger)

	logger.Info("starting tvtube-proxy",
		"addr", cfg.ListenAddr(),
		"upstream_url", cfg.Upstream.URL,
		"branding_url", cfg.Branding.URL,
		"settings_file", cfg.Settings.File,
		"log_level", cfg.Resilience.LogLevel,
		"log_webhook", webhook != nil,
	)

	upstreamURL, err := url.Parse(cfg.Upstream.URL)
	if err != nil {
		log.Fatalf("invalid upstream URL: %v", err)
	}

	// Lookups and the settings watcher live as long as the process
	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	settingsStore, err := settings.Open(cfg.Settings.File, logger)
	if err != nil {
		log.Fatalf("failed to load settings: %v", err)
	}
	go func() {
		if err := settingsStore.Watch(ctx); err != nil {
			logger.Warn("settings hot reload disabled", "error", err)
		}
	}()

	// Create driven adapters (caches and external services)
	segmentStore := driven.NewSegmentMemoryStore(cfg.Segments.MaxVideos)
	upstream := driven.NewUpstreamHTTPAdapter(cfg.Upstream.URL, cfg.Upstream.Timeout, logger)

	brandingBreaker := circuitbreaker.New(circuitbreaker.Config{
		Name:             "branding",
		FailureThreshold: cfg.Resilience.CBFailureThreshold,
		Timeout:          cfg.Resilience.CBTimeout,
		HalfOpenRequests: cfg.Resilience.CBHalfOpenRequests,
		Logger:           logger,
		IsFailure:        driven.IsBrandingFailure,
		OnStateChange: func(name string, from, to circuitbreaker.State) {
			metrics.SetCircuitBreakerState(name, to.String())
		},
	})
	metrics.SetCircuitBreakerState("branding", brandingBreaker.State().String())

	brandingService := driven.NewBrandingHTTPAdapter(cfg.Branding.URL, driven.BrandingHTTPOptions{
		Timeout:   cfg.Branding.Timeout,
		CacheTTL:  cfg.Branding.CacheTTL,
		CacheSize: cfg.Branding.CacheSize,
		Breaker:   brandingBreaker,
	}, logger)

	enricher := enrichment.NewEnricher(ctx, brandingService, enrichment.Options{
		ThumbnailURL:  cfg.Branding.ThumbnailURL,
		MaxConcurrent: int64(cfg.Branding.MaxConcurrent),
		Timeout:       cfg.Branding.Timeout,
	}, logger)

	pipeline := rewriter.New(settingsStore, segmentStore, enricher, logger)

	// Create application services
	interceptService := application.NewInterceptService(pipeline, cfg.Branding.AwaitWindow, logger)
	healthService := application.NewHealthService(upstream, brandingService)
	segmentService := application.NewSegmentService(segmentStore, logger)

	go monitor(ctx, healthService, brandingService, cfg.Resilience.HealthCheckInterval, logger)

	// Create HTTP handlers
	doc, err := driver.LoadOpenAPI()
	if err != nil {
		log.Fatalf("failed to load admin API document: %v", err)
	}
	validate := driver.NewRequestValidator(doc, logger)

	healthHandler := driver.NewHealthHTTPHandler(healthService)
	segmentHandler := driver.NewSegmentHTTPHandler(segmentService)
	settingsHandler := driver.NewSettingsHTTPHandler(settingsStore)
	proxyHandler := driver.NewProxyHTTPHandler(upstreamURL, interceptService, int64(cfg.Resilience.RewriteMaxBodySize), logger)

	// Admin routes at fixed paths, everything else goes upstream
	rootMux := http.NewServeMux()
	rootMux.Handle("/health", validate(healthHandler))
	rootMux.Handle("/settings", validate(settingsHandler))
	rootMux.Handle("/segments/", validate(segmentHandler))
	rootMux.Handle("/openapi.json", driver.NewOpenAPIHandler(doc))
	rootMux.Handle("/metrics", promhttp.Handler())
	rootMux.Handle("/", proxyHandler)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.ListenAddr(),
		Handler:      rootMux,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("http server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("shutdown signal received, shutting down gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}
	stop()

	logger.Info("server stopped")

	if webhook != nil {
		if err := webhook.Close(shutdownCtx); err != nil {
			log.Printf("log webhook not drained: %v", err)
		}
	}
}

// monitor logs dependency health and drops stale branding answers every
// interval until ctx is done.
func monitor(ctx context.Context, service *application.HealthService, brandingService *driven.BrandingHTTPAdapter, interval time.Duration, logger *slog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			brandingService.PurgeExpired()

			status := service.Check(ctx)
			if status.Status != "ok" {
				logger.Warn("dependency health degraded",
					"upstream", status.Upstream.Status,
					"upstream_error", status.Upstream.Error,
					"branding", status.Branding.Status,
					"branding_error", status.Branding.Error,
				)
			}
		}
	}
}
