package uv

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"
)

// ErrNoProvidersEnabled is returned when the registry holds no provider
// that could be called at all. This is a configuration error, unlike
// individual provider failures which only degrade the response.
var ErrNoProvidersEnabled = errors.New("no uv providers enabled")

// ZoneResolver maps a coordinate (or an explicitly requested zone) to an
// IANA timezone name.
type ZoneResolver interface {
	Resolve(lat, lon float64, requested string) (string, error)
}

// ResponseCache stores assembled responses under a request key with TTL
// and single-flight semantics: concurrent identical keys share one
// compute, and every waiter receives the same value or the same error.
type ResponseCache interface {
	GetOrCompute(key string, compute func() (any, error)) (any, error)
}

// Service orchestrates the concurrent provider fan-out and derives the
// consensus series and daily summary from the merged results.
type Service struct {
	providers       []Provider
	cache           ResponseCache
	zones           ZoneResolver
	providerTimeout time.Duration
}

// NewService creates a Service. The provider list is fixed at startup;
// providerTimeout bounds each individual provider call.
func NewService(providers []Provider, cache ResponseCache, zones ZoneResolver, providerTimeout time.Duration) *Service {
	return &Service{
		providers:       providers,
		cache:           cache,
		zones:           zones,
		providerTimeout: providerTimeout,
	}
}

// CacheKey builds the canonical cache key for a request. Coordinates are
// rounded to four decimals so nearby lookups share an entry.
func CacheKey(coord Coordinate, date, tz string) string {
	return fmt.Sprintf("%.4f,%.4f,%s,%s", coord.Lat, coord.Lon, date, tz)
}

// Aggregate returns the consensus forecast for one coordinate, date and
// timezone. An empty date defaults to today in UTC; tz may be an explicit
// IANA name, "auto", or empty for auto-detection. Identical concurrent
// requests collapse into a single provider fan-out through the cache.
func (s *Service) Aggregate(ctx context.Context, coord Coordinate, date, tz string) (*AggregatedResponse, error) {
	if date == "" {
		date = time.Now().UTC().Format("2006-01-02")
	}

	zone, err := s.zones.Resolve(coord.Lat, coord.Lon, tz)
	if err != nil {
		// Open ocean or unmapped territory; degrade to UTC instead of
		// failing the request.
		log.Printf("timezone resolution failed for lat=%.4f lon=%.4f: %v; falling back to UTC", coord.Lat, coord.Lon, err)
		zone = "UTC"
	}

	key := CacheKey(coord, date, zone)
	v, err := s.cache.GetOrCompute(key, func() (any, error) {
		return s.fanOut(ctx, coord, date, zone)
	})
	if err != nil {
		return nil, err
	}
	return v.(*AggregatedResponse), nil
}

// fanOut calls every provider concurrently, merges their series into the
// per-hour matrix, and assembles the response. Provider failures degrade
// the output; only a registry with nothing enabled is an error.
func (s *Service) fanOut(ctx context.Context, coord Coordinate, date, zone string) (*AggregatedResponse, error) {
	enabled := 0
	for _, p := range s.providers {
		if p.Enabled() {
			enabled++
		}
	}
	if enabled == 0 {
		return nil, ErrNoProvidersEnabled
	}

	var (
		mu       sync.Mutex
		wg       sync.WaitGroup
		matrix   = make(Matrix)
		statuses = make([]ProviderStatus, len(s.providers))
	)

	for i, p := range s.providers {
		wg.Add(1)
		go func(i int, p Provider) {
			defer wg.Done()

			// Disabled providers short-circuit inside Fetch without a
			// network call and report their "disabled" reason here.
			callCtx, cancel := context.WithTimeout(ctx, s.providerTimeout)
			defer cancel()

			series, err := p.Fetch(callCtx, coord, date, zone)
			if err != nil {
				// Partial availability is the normal case; record and move on.
				log.Printf("provider %s fetch failed for %s %s: %v", p.Name(), date, zone, err)
				statuses[i] = ProviderStatus{Name: p.Name(), Error: err.Error()}
				return
			}
			statuses[i] = ProviderStatus{Name: p.Name()}

			mu.Lock()
			defer mu.Unlock()
			for _, pt := range series {
				bucket := pt.Time.UTC().Truncate(time.Hour)
				if matrix[bucket] == nil {
					matrix[bucket] = make(map[string]float64)
				}
				matrix[bucket][p.Name()] = pt.UV
			}
		}(i, p)
	}

	// Every provider call settles (success, failure, or timeout) before
	// the consensus runs; no partial merge triggers early computation.
	wg.Wait()

	hourly := ComputeConsensus(matrix)

	return &AggregatedResponse{
		Coordinate: coord,
		Date:       date,
		Timezone:   zone,
		Providers:  statuses,
		Hourly:     hourly,
		Summary:    Summarize(hourly),
	}, nil
}

// ProviderStatuses reports each registered provider's name and whether
// it is enabled, for the status endpoint.
func (s *Service) ProviderStatuses() map[string]bool {
	out := make(map[string]bool, len(s.providers))
	for _, p := range s.providers {
		out[p.Name()] = p.Enabled()
	}
	return out
}
