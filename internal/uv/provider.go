package uv

import (
	"context"
)

// Provider abstracts a UV forecast source (e.g. Open-Meteo, OpenUV,
// Weatherbit). Fetch returns the provider's hourly series for the given
// day in the resolved timezone; transport failures, malformed payloads
// and timeouts surface as errors that the service records per provider
// without failing the aggregate.
//
// Enabled reports whether the provider can contribute data. A keyed
// provider without its credential returns false; its Fetch short-circuits
// with a "disabled" reason and no network call is made.
type Provider interface {
	Name() string
	Enabled() bool
	Fetch(ctx context.Context, coord Coordinate, date, tz string) (Series, error)
}
