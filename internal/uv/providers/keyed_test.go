package providers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/uvwatch/uv-index-aggregator/internal/uv"
)

func TestKeyedProvidersDisabledWithoutCredential(t *testing.T) {
	// Any HTTP call from a disabled provider is a bug.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("disabled provider made a network call")
	}))
	defer srv.Close()

	tests := []struct {
		name     string
		provider uv.Provider
		wantVar  string
	}{
		{"openuv", NewOpenUVProvider(srv.Client(), ""), "OPENUV_API_KEY"},
		{"weatherbit", NewWeatherbitProvider(srv.Client(), ""), "WEATHERBIT_API_KEY"},
		{"visualcrossing", NewVisualCrossingProvider(srv.Client(), ""), "VISUALCROSSING_API_KEY"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.provider.Enabled() {
				t.Error("provider without key should be disabled")
			}
			_, err := tt.provider.Fetch(context.Background(), uv.Coordinate{}, "2024-06-21", "UTC")
			if err == nil {
				t.Fatal("Fetch() on disabled provider should error")
			}
			want := "disabled (no " + tt.wantVar + ")"
			if err.Error() != want {
				t.Errorf("error = %q, want %q", err, want)
			}
		})
	}
}

func TestOpenUVFetchPinsSampleToLocalNoon(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("x-access-token"); got != "secret" {
			t.Errorf("x-access-token = %q", got)
		}
		w.Write([]byte(`{"result": {"uv": 7.2}}`))
	}))
	defer srv.Close()

	p := NewOpenUVProvider(srv.Client(), "secret")
	p.baseURL = srv.URL

	series, err := p.Fetch(context.Background(), uv.Coordinate{Lat: 35.6, Lon: 139.6}, "2024-06-21", "Asia/Tokyo")
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if len(series) != 1 || series[0].UV != 7.2 {
		t.Fatalf("series = %+v", series)
	}

	tokyo, _ := time.LoadLocation("Asia/Tokyo")
	noon := time.Date(2024, 6, 21, 12, 0, 0, 0, tokyo)
	if !series[0].Time.Equal(noon) {
		t.Errorf("sample time = %v, want local noon %v", series[0].Time, noon)
	}
}

func TestWeatherbitFetchSpreadsDailyValue(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data": [
			{"valid_date": "2024-06-20", "uv": 3.0},
			{"valid_date": "2024-06-21", "uv": 8.4},
			{"valid_date": "2024-06-22", "uv": 5.0}
		]}`))
	}))
	defer srv.Close()

	p := NewWeatherbitProvider(srv.Client(), "secret")
	p.baseURL = srv.URL

	series, err := p.Fetch(context.Background(), uv.Coordinate{Lat: 51.5, Lon: -0.1}, "2024-06-21", "Europe/London")
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}

	if len(series) != 24 {
		t.Fatalf("series length = %d, want 24", len(series))
	}
	for _, pt := range series {
		if pt.UV != 8.4 {
			t.Fatalf("value = %v, want the matching day's 8.4", pt.UV)
		}
	}

	london, _ := time.LoadLocation("Europe/London")
	if !series[0].Time.Equal(time.Date(2024, 6, 21, 0, 0, 0, 0, london)) {
		t.Errorf("first hour = %v, want local midnight", series[0].Time)
	}
}

func TestWeatherbitFetchNoMatchingDay(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data": [{"valid_date": "2024-06-20", "uv": 3.0}]}`))
	}))
	defer srv.Close()

	p := NewWeatherbitProvider(srv.Client(), "secret")
	p.baseURL = srv.URL

	series, err := p.Fetch(context.Background(), uv.Coordinate{}, "2024-06-21", "UTC")
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if len(series) != 0 {
		t.Errorf("series = %+v, want empty when the day is absent", series)
	}
}

func TestVisualCrossingFetchParsesHourLabels(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, "2024-06-21") {
			t.Errorf("path %q missing date segment", r.URL.Path)
		}
		w.Write([]byte(`{"days": [{"hours": [
			{"datetime": "10:00:00", "uvindex": 4.0},
			{"datetime": "11:00:00", "uvindex": null},
			{"datetime": "12:00:00", "uvindex": 9.0}
		]}]}`))
	}))
	defer srv.Close()

	p := NewVisualCrossingProvider(srv.Client(), "secret")
	p.baseURL = srv.URL

	series, err := p.Fetch(context.Background(), uv.Coordinate{Lat: 48.8, Lon: 2.3}, "2024-06-21", "Europe/Paris")
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}

	if len(series) != 2 {
		t.Fatalf("series length = %d, want 2 (null hour skipped)", len(series))
	}

	paris, _ := time.LoadLocation("Europe/Paris")
	want := time.Date(2024, 6, 21, 10, 0, 0, 0, paris)
	if !series[0].Time.Equal(want) || series[0].UV != 4.0 {
		t.Errorf("first sample = %+v, want %v / 4.0", series[0], want)
	}
	if series[1].UV != 9.0 {
		t.Errorf("second sample uv = %v, want 9.0", series[1].UV)
	}
}
