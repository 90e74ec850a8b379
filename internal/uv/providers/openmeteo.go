package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/uvwatch/uv-index-aggregator/internal/uv"
)

// OpenMeteoProvider fetches hourly UV forecasts from Open-Meteo. The API
// is keyless, so this provider is always enabled.
type OpenMeteoProvider struct {
	name    string
	baseURL string
	source  httpSource
}

func NewOpenMeteoProvider(client *http.Client) *OpenMeteoProvider {
	return &OpenMeteoProvider{
		name:    "open_meteo",
		baseURL: "https://api.open-meteo.com/v1/forecast",
		source:  newHTTPSource("open_meteo", client),
	}
}

func (p *OpenMeteoProvider) Name() string { return p.name }

func (p *OpenMeteoProvider) Enabled() bool { return true }

// Fetch requests the day's uv_index series in the given timezone.
// Open-Meteo labels hours with naive local timestamps, so they are
// parsed in the requested zone. When the uv_index series carries no
// values the clear-sky series is used instead.
func (p *OpenMeteoProvider) Fetch(ctx context.Context, coord uv.Coordinate, date, tz string) (uv.Series, error) {
	values := url.Values{}
	values.Set("latitude", fmt.Sprintf("%f", coord.Lat))
	values.Set("longitude", fmt.Sprintf("%f", coord.Lon))
	values.Set("hourly", "uv_index,uv_index_clear_sky")
	values.Set("timezone", tz)
	values.Set("start_date", date)
	values.Set("end_date", date)

	var payload struct {
		Hourly struct {
			Time            []string   `json:"time"`
			UVIndex         []*float64 `json:"uv_index"`
			UVIndexClearSky []*float64 `json:"uv_index_clear_sky"`
		} `json:"hourly"`
	}

	u := fmt.Sprintf("%s?%s", p.baseURL, values.Encode())
	if err := p.source.getJSON(ctx, u, nil, &payload); err != nil {
		return nil, err
	}

	samples := payload.Hourly.UVIndex
	if !hasValues(samples) {
		samples = payload.Hourly.UVIndexClearSky
	}

	loc := loadLocation(tz)
	series := make(uv.Series, 0, len(payload.Hourly.Time))
	for i, label := range payload.Hourly.Time {
		if i >= len(samples) || samples[i] == nil {
			continue
		}
		ts, err := time.ParseInLocation("2006-01-02T15:04", label, loc)
		if err != nil {
			continue
		}
		series = append(series, uv.Point{Time: ts, UV: *samples[i]})
	}

	return series, nil
}

func hasValues(samples []*float64) bool {
	for _, s := range samples {
		if s != nil {
			return true
		}
	}
	return false
}
