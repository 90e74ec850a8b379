package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/uvwatch/uv-index-aggregator/internal/uv"
)

// WeatherbitProvider fetches UV data from Weatherbit. Hourly UV requires
// a paid plan, so the free daily forecast's single UV value is spread
// across all 24 local hours as a coarse series.
type WeatherbitProvider struct {
	name    string
	apiKey  string
	baseURL string
	source  httpSource
}

func NewWeatherbitProvider(client *http.Client, apiKey string) *WeatherbitProvider {
	return &WeatherbitProvider{
		name:    "weatherbit",
		apiKey:  apiKey,
		baseURL: "https://api.weatherbit.io/v2.0/forecast/daily",
		source:  newHTTPSource("weatherbit", client),
	}
}

func (p *WeatherbitProvider) Name() string { return p.name }

func (p *WeatherbitProvider) Enabled() bool { return p.apiKey != "" }

func (p *WeatherbitProvider) Fetch(ctx context.Context, coord uv.Coordinate, date, tz string) (uv.Series, error) {
	if p.apiKey == "" {
		return nil, errDisabled("WEATHERBIT_API_KEY")
	}

	values := url.Values{}
	values.Set("lat", fmt.Sprintf("%f", coord.Lat))
	values.Set("lon", fmt.Sprintf("%f", coord.Lon))
	values.Set("key", p.apiKey)

	var payload struct {
		Data []struct {
			ValidDate string   `json:"valid_date"`
			UV        *float64 `json:"uv"`
		} `json:"data"`
	}

	u := fmt.Sprintf("%s?%s", p.baseURL, values.Encode())
	if err := p.source.getJSON(ctx, u, nil, &payload); err != nil {
		return nil, err
	}

	var dayUV *float64
	for _, d := range payload.Data {
		if d.ValidDate == date {
			dayUV = d.UV
			break
		}
	}
	if dayUV == nil {
		return uv.Series{}, nil
	}

	loc := loadLocation(tz)
	day, err := parseDay(date, loc)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", date, err)
	}

	series := make(uv.Series, 0, 24)
	for h := 0; h < 24; h++ {
		series = append(series, uv.Point{Time: day.Add(time.Duration(h) * time.Hour), UV: *dayUV})
	}

	return series, nil
}
