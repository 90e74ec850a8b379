package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
)

// BackoffConfig controls exponential backoff between retries.
type BackoffConfig struct {
	MaxRetries      int
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

var defaultBackoff = BackoffConfig{
	MaxRetries:      3,
	InitialInterval: 500 * time.Millisecond,
	MaxInterval:     5 * time.Second,
}

var (
	errRateLimited = errors.New("rate limited")
	errServerError = errors.New("server error")
	errUnexpected  = errors.New("unexpected status code")
	errCircuitOpen = errors.New("circuit breaker open")
)

// errDisabled builds the reason a keyed provider reports when its
// credential is missing. The "disabled" prefix distinguishes it from
// transport failures in the response's provider list.
func errDisabled(envVar string) error {
	return fmt.Errorf("disabled (no %s)", envVar)
}

// httpSource bundles the outbound HTTP client with per-provider
// resilience: retries with exponential backoff behind a circuit breaker.
type httpSource struct {
	client  *http.Client
	backoff BackoffConfig
	circuit *gobreaker.CircuitBreaker
}

func newHTTPSource(name string, client *http.Client) httpSource {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})
	return httpSource{
		client:  client,
		backoff: defaultBackoff,
		circuit: cb,
	}
}

// getJSON fetches url with the given headers and decodes the JSON body
// into dst. Rate limits and 5xx responses are retried with backoff; an
// open circuit fails fast.
func (s httpSource) getJSON(ctx context.Context, url string, headers map[string]string, dst any) error {
	var attempt int

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}
		for k, v := range headers {
			req.Header.Set(k, v)
		}

		result, err := s.circuit.Execute(func() (interface{}, error) {
			resp, execErr := s.client.Do(req)
			if execErr != nil {
				return nil, execErr
			}

			if resp.StatusCode == http.StatusTooManyRequests {
				resp.Body.Close()
				return nil, errRateLimited
			}
			if resp.StatusCode >= 500 {
				resp.Body.Close()
				return nil, errServerError
			}
			if resp.StatusCode < 200 || resp.StatusCode >= 300 {
				resp.Body.Close()
				return nil, fmt.Errorf("%w: %d", errUnexpected, resp.StatusCode)
			}

			return resp, nil
		})

		if err == nil {
			resp, ok := result.(*http.Response)
			if !ok {
				return fmt.Errorf("unexpected result type from circuit breaker")
			}
			decErr := json.NewDecoder(resp.Body).Decode(dst)
			resp.Body.Close()
			if decErr != nil {
				return fmt.Errorf("decode response: %w", decErr)
			}
			return nil
		}

		// An open circuit means the provider is known-bad; don't retry.
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return fmt.Errorf("%w: %v", errCircuitOpen, err)
		}

		if attempt >= s.backoff.MaxRetries {
			return err
		}

		delay := s.backoff.InitialInterval * time.Duration(math.Pow(2, float64(attempt)))
		if s.backoff.MaxInterval > 0 && delay > s.backoff.MaxInterval {
			delay = s.backoff.MaxInterval
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}

		attempt++
	}
}

// loadLocation resolves an IANA zone name, falling back to UTC when the
// zone database does not know it.
func loadLocation(tz string) *time.Location {
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return time.UTC
	}
	return loc
}

// parseDay parses a YYYY-MM-DD date in the given location.
func parseDay(date string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation("2006-01-02", date, loc)
}
