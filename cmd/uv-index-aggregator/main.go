package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	httpapi "github.com/uvwatch/uv-index-aggregator/internal/api/http"
	"github.com/uvwatch/uv-index-aggregator/internal/cache"
	"github.com/uvwatch/uv-index-aggregator/internal/config"
	"github.com/uvwatch/uv-index-aggregator/internal/geo"
	"github.com/uvwatch/uv-index-aggregator/internal/scheduler"
	"github.com/uvwatch/uv-index-aggregator/internal/timezone"
	"github.com/uvwatch/uv-index-aggregator/internal/uv"
	"github.com/uvwatch/uv-index-aggregator/internal/uv/providers"
)

func main() {
	// Load configuration (reads .env if present).
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	// Provider registry. Keyed providers without credentials stay
	// registered but disabled, so the response can list them as such.
	provs := []uv.Provider{
		providers.NewOpenMeteoProvider(httpClient),
		providers.NewOpenUVProvider(httpClient, cfg.OpenUVAPIKey),
		providers.NewWeatherbitProvider(httpClient, cfg.WeatherbitAPIKey),
		providers.NewVisualCrossingProvider(httpClient, cfg.VisualCrossingAPIKey),
	}

	// Coordinate->IANA zone lookup; loads the embedded polygon data once.
	resolver, err := timezone.NewResolver()
	if err != nil {
		log.Fatalf("failed to initialize timezone resolver: %v", err)
	}

	// Response cache with TTL and single-flight deduplication.
	respCache := cache.New(cfg.CacheTTL, cfg.CacheMaxEntries)

	// Core service orchestrating the provider fan-out.
	service := uv.NewService(provs, respCache, resolver, cfg.ProviderTimeout)

	// Optional city->coordinate lookup for the HTTP layer.
	geocoder := geo.NewResolver(cfg.GeocoderAPIKey)

	// Scheduler keeping configured coordinates warm in the cache.
	sched := scheduler.New(cfg.PrewarmCoords, cfg.PrewarmInterval, service)
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	// Basic app configuration
	app := fiber.New(fiber.Config{
		AppName:               "uv-index-aggregator",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Centralized error response
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	// Global middleware
	app.Use(logger.New())
	app.Use(recover.New())

	// Basic health endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "uv-index-aggregator",
		})
	})

	// API routes.
	httpapi.RegisterRoutes(app, service, geocoder)

	// Start server with graceful shutdown
	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
}
