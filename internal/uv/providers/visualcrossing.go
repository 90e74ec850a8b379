package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/uvwatch/uv-index-aggregator/internal/uv"
)

// VisualCrossingProvider fetches the hourly uvindex element from the
// Visual Crossing timeline API.
type VisualCrossingProvider struct {
	name    string
	apiKey  string
	baseURL string
	source  httpSource
}

func NewVisualCrossingProvider(client *http.Client, apiKey string) *VisualCrossingProvider {
	return &VisualCrossingProvider{
		name:    "visualcrossing",
		apiKey:  apiKey,
		baseURL: "https://weather.visualcrossing.com/VisualCrossingWebServices/rest/services/timeline",
		source:  newHTTPSource("visualcrossing", client),
	}
}

func (p *VisualCrossingProvider) Name() string { return p.name }

func (p *VisualCrossingProvider) Enabled() bool { return p.apiKey != "" }

func (p *VisualCrossingProvider) Fetch(ctx context.Context, coord uv.Coordinate, date, tz string) (uv.Series, error) {
	if p.apiKey == "" {
		return nil, errDisabled("VISUALCROSSING_API_KEY")
	}

	values := url.Values{}
	values.Set("key", p.apiKey)
	values.Set("include", "hours")
	values.Set("elements", "datetime,uvindex")

	var payload struct {
		Days []struct {
			Hours []struct {
				Datetime string   `json:"datetime"`
				UVIndex  *float64 `json:"uvindex"`
			} `json:"hours"`
		} `json:"days"`
	}

	u := fmt.Sprintf("%s/%f,%f/%s?%s", p.baseURL, coord.Lat, coord.Lon, date, values.Encode())
	if err := p.source.getJSON(ctx, u, nil, &payload); err != nil {
		return nil, err
	}

	if len(payload.Days) == 0 {
		return uv.Series{}, nil
	}

	loc := loadLocation(tz)
	hours := payload.Days[0].Hours
	series := make(uv.Series, 0, len(hours))
	for _, h := range hours {
		if h.UVIndex == nil || h.Datetime == "" {
			continue
		}
		// Timeline hour labels are bare local clock times like "13:00:00".
		ts, err := time.ParseInLocation("2006-01-02 15:04:05", date+" "+h.Datetime, loc)
		if err != nil {
			continue
		}
		series = append(series, uv.Point{Time: ts, UV: *h.UVIndex})
	}

	return series, nil
}
