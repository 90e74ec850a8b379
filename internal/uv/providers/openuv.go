package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/uvwatch/uv-index-aggregator/internal/uv"
)

// OpenUVProvider fetches UV readings from openuv.io. The free tier only
// exposes the current UV value, so the series is a single sample pinned
// to local noon of the requested day.
type OpenUVProvider struct {
	name    string
	apiKey  string
	baseURL string
	source  httpSource
}

func NewOpenUVProvider(client *http.Client, apiKey string) *OpenUVProvider {
	return &OpenUVProvider{
		name:    "openuv",
		apiKey:  apiKey,
		baseURL: "https://api.openuv.io/api/v1/uv",
		source:  newHTTPSource("openuv", client),
	}
}

func (p *OpenUVProvider) Name() string { return p.name }

func (p *OpenUVProvider) Enabled() bool { return p.apiKey != "" }

func (p *OpenUVProvider) Fetch(ctx context.Context, coord uv.Coordinate, date, tz string) (uv.Series, error) {
	if p.apiKey == "" {
		return nil, errDisabled("OPENUV_API_KEY")
	}

	values := url.Values{}
	values.Set("lat", fmt.Sprintf("%f", coord.Lat))
	values.Set("lng", fmt.Sprintf("%f", coord.Lon))

	var payload struct {
		Result struct {
			UV *float64 `json:"uv"`
		} `json:"result"`
	}

	u := fmt.Sprintf("%s?%s", p.baseURL, values.Encode())
	headers := map[string]string{"x-access-token": p.apiKey}
	if err := p.source.getJSON(ctx, u, headers, &payload); err != nil {
		return nil, err
	}

	if payload.Result.UV == nil {
		return uv.Series{}, nil
	}

	loc := loadLocation(tz)
	day, err := parseDay(date, loc)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", date, err)
	}
	noon := day.Add(12 * time.Hour)

	return uv.Series{{Time: noon, UV: *payload.Result.UV}}, nil
}
