package geo

import (
	"errors"
	"fmt"

	"github.com/kelvins/geocoder"
)

// ErrDisabled is returned by Lookup when no geocoding API key is
// configured.
var ErrDisabled = errors.New("geocoding disabled (no GEOCODER_API_KEY)")

// Resolver turns a city/country pair into coordinates through the Google
// geocoding API. It lets clients address requests by place name instead
// of raw coordinates; without a key it stays disabled.
type Resolver struct {
	enabled bool
}

func NewResolver(apiKey string) *Resolver {
	if apiKey == "" {
		return &Resolver{}
	}
	geocoder.ApiKey = apiKey
	return &Resolver{enabled: true}
}

func (r *Resolver) Enabled() bool { return r.enabled }

// Lookup resolves the coordinates of a city. Country may be empty.
func (r *Resolver) Lookup(city, country string) (lat, lon float64, err error) {
	if !r.enabled {
		return 0, 0, ErrDisabled
	}

	location, err := geocoder.Geocoding(geocoder.Address{City: city, Country: country})
	if err != nil {
		return 0, 0, fmt.Errorf("geocode %q: %w", city, err)
	}
	return location.Latitude, location.Longitude, nil
}
