package uv

import (
	"time"
)

// Coordinate identifies the location a forecast is requested for.
// Range validation happens at the request boundary.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Point is a single hourly UV sample from one provider.
type Point struct {
	Time time.Time `json:"time"`
	UV   float64   `json:"uv"`
}

// Series is one provider's hourly samples for a single day,
// ordered by timestamp ascending.
type Series []Point

// ProviderStatus reports whether a provider contributed data to a response.
// An empty Error means the provider delivered a series.
type ProviderStatus struct {
	Name  string `json:"name"`
	Error string `json:"error,omitempty"`
}

// HourlyConsensus is the per-hour result of merging all provider series.
// Time is the hour bucket in UTC. Providers maps each reporting provider
// to its (clamped) value for that hour.
type HourlyConsensus struct {
	Time       time.Time          `json:"time"`
	Consensus  float64            `json:"consensus"`
	Low        float64            `json:"low"`
	High       float64            `json:"high"`
	Confidence float64            `json:"confidence"`
	Providers  map[string]float64 `json:"providers"`
	Outliers   []string           `json:"outliers,omitempty"`
}

// Window is a half-open [Start, End) time range of hours sharing an
// exposure classification.
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// ExposureWindows groups the day's hours by how safe sun exposure is.
type ExposureWindows struct {
	Best     []Window `json:"best"`
	Moderate []Window `json:"moderate"`
	Avoid    []Window `json:"avoid"`
}

// DailySummary is derived from the full consensus series. PeakUV and
// PeakTime are nil when no hour had any provider data.
type DailySummary struct {
	PeakUV   *float64        `json:"uvMax,omitempty"`
	PeakTime *time.Time      `json:"uvMaxTime,omitempty"`
	Tier     Tier            `json:"tier,omitempty"`
	Advice   []string        `json:"advice,omitempty"`
	Windows  ExposureWindows `json:"windows"`
}

// AggregatedResponse is the assembled result for one (coordinate, date,
// zone) request. It is immutable once built; the cache hands the same
// value to every caller within the TTL.
type AggregatedResponse struct {
	Coordinate
	Date      string            `json:"date"`
	Timezone  string            `json:"tz"`
	Providers []ProviderStatus  `json:"providers"`
	Hourly    []HourlyConsensus `json:"hourly"`
	Summary   DailySummary      `json:"summary"`
}
