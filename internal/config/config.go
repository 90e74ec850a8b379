package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/uvwatch/uv-index-aggregator/internal/uv"
)

type AppConfig struct {
	OpenUVAPIKey         string
	WeatherbitAPIKey     string
	VisualCrossingAPIKey string
	GeocoderAPIKey       string

	// HTTPTimeout bounds a single outbound HTTP exchange; ProviderTimeout
	// bounds a whole provider fetch including retries.
	HTTPTimeout     time.Duration
	ProviderTimeout time.Duration

	// Response cache behaviour.
	CacheTTL        time.Duration
	CacheMaxEntries int

	// Coordinates whose forecast the scheduler keeps warm, and how often.
	PrewarmCoords   []uv.Coordinate
	PrewarmInterval time.Duration

	Port string
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	cfg := &AppConfig{}

	cfg.OpenUVAPIKey = os.Getenv("OPENUV_API_KEY")
	cfg.WeatherbitAPIKey = os.Getenv("WEATHERBIT_API_KEY")
	cfg.VisualCrossingAPIKey = os.Getenv("VISUALCROSSING_API_KEY")
	cfg.GeocoderAPIKey = os.Getenv("GEOCODER_API_KEY")

	var err error
	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", "10s"); err != nil {
		return nil, err
	}
	if cfg.ProviderTimeout, err = getenvDuration("PROVIDER_TIMEOUT", "5s"); err != nil {
		return nil, err
	}

	// Upstream forecasts change slowly; minutes-scale TTL is plenty.
	if cfg.CacheTTL, err = getenvDuration("CACHE_TTL", "10m"); err != nil {
		return nil, err
	}
	cfg.CacheMaxEntries = getenvInt("CACHE_MAX_ENTRIES", 256)

	coords, err := parseCoords(os.Getenv("PREWARM_COORDS"))
	if err != nil {
		return nil, err
	}
	cfg.PrewarmCoords = coords

	if interval := os.Getenv("PREWARM_INTERVAL"); interval != "" {
		if cfg.PrewarmInterval, err = getenvDuration("PREWARM_INTERVAL", ""); err != nil {
			return nil, err
		}
	} else {
		cfg.PrewarmInterval = cfg.CacheTTL
	}

	cfg.Port = getenvDefault("PORT", "8080")

	return cfg, nil
}

// parseCoords parses "lat,lon;lat,lon" pairs.
func parseCoords(raw string) ([]uv.Coordinate, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}

	var coords []uv.Coordinate
	for _, pair := range strings.Split(raw, ";") {
		parts := strings.Split(strings.TrimSpace(pair), ",")
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid PREWARM_COORDS entry %q", pair)
		}
		lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid latitude in PREWARM_COORDS entry %q", pair)
		}
		lon, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid longitude in PREWARM_COORDS entry %q", pair)
		}
		coords = append(coords, uv.Coordinate{Lat: lat, Lon: lon})
	}

	return coords, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvDuration(key, def string) (time.Duration, error) {
	v := getenvDefault(key, def)
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
