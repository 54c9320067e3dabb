package weather

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

const forecastFixture = `{
	"current": {
		"temperature_2m": 21.5,
		"relative_humidity_2m": 48,
		"wind_speed_10m": 4.2,
		"uv_index": 5.1,
		"precipitation_probability": 15,
		"visibility": 24000,
		"weather_code": 0
	},
	"daily": {
		"time": ["2026-01-05", "2026-01-06"],
		"temperature_2m_min": [10.1, 8.4],
		"temperature_2m_max": [18.9, 16.2],
		"precipitation_probability_max": [20, 65],
		"wind_speed_10m_max": [6.0, 11.5],
		"uv_index_max": [4.0, 3.2],
		"weather_code": [0, 61]
	}
}`

func TestCurrentForecastFetchesAndConverts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/forecast" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if r.URL.Query().Get("latitude") == "" {
			t.Error("missing latitude parameter")
		}
		w.Write([]byte(forecastFixture))
	}))
	defer server.Close()

	client := NewClient(server.URL, 35.6895, 139.6917, NewMemoryCache())
	forecast, err := client.CurrentForecast(context.Background())
	if err != nil {
		t.Fatalf("CurrentForecast: %v", err)
	}

	if forecast.Current.Temperature != 21.5 {
		t.Errorf("temperature = %g", forecast.Current.Temperature)
	}
	if forecast.Current.WeatherType != "clear" {
		t.Errorf("weather type = %q, want clear", forecast.Current.WeatherType)
	}
	if forecast.Current.Visibility != 24 {
		t.Errorf("visibility = %g km, want 24", forecast.Current.Visibility)
	}
	if len(forecast.Daily) != 2 {
		t.Fatalf("daily = %d entries, want 2", len(forecast.Daily))
	}
	if forecast.Daily[1].WeatherType != "rain" {
		t.Errorf("second day type = %q, want rain", forecast.Daily[1].WeatherType)
	}
	if forecast.Daily[1].TempMax != 16.2 {
		t.Errorf("second day max = %g", forecast.Daily[1].TempMax)
	}
}

func TestCurrentForecastUsesCache(t *testing.T) {
	var hits atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte(forecastFixture))
	}))
	defer server.Close()

	client := NewClient(server.URL, 35.6895, 139.6917, NewMemoryCache())
	ctx := context.Background()

	if _, err := client.CurrentForecast(ctx); err != nil {
		t.Fatalf("first fetch: %v", err)
	}
	if _, err := client.CurrentForecast(ctx); err != nil {
		t.Fatalf("second fetch: %v", err)
	}
	if hits.Load() != 1 {
		t.Errorf("upstream hits = %d, want the second call served from cache", hits.Load())
	}
}

func TestCurrentForecastUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient(server.URL, 35.6895, 139.6917, NewMemoryCache())
	if _, err := client.CurrentForecast(context.Background()); err == nil {
		t.Fatal("expected an error on upstream failure")
	}
}

func TestMemoryCacheExpiry(t *testing.T) {
	cache := NewMemoryCache()
	ctx := context.Background()

	if err := cache.Set(ctx, "k", map[string]int{"v": 1}, time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	var got map[string]int
	if err := cache.Get(ctx, "k", &got); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got["v"] != 1 {
		t.Errorf("got %v", got)
	}

	if err := cache.Set(ctx, "k", map[string]int{"v": 2}, -time.Second); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := cache.Get(ctx, "k", &got); err != ErrCacheMiss {
		t.Errorf("expected a cache miss for the expired entry, got %v", err)
	}
}

func TestClassifyWeatherCode(t *testing.T) {
	cases := []struct {
		code int
		want string
	}{
		{0, "clear"},
		{2, "clouds"},
		{45, "fog"},
		{53, "drizzle"},
		{63, "rain"},
		{75, "snow"},
		{81, "rain"},
		{95, "thunderstorm"},
	}
	for _, tc := range cases {
		if got, _ := classifyWeatherCode(tc.code); got != tc.want {
			t.Errorf("classifyWeatherCode(%d) = %q, want %q", tc.code, got, tc.want)
		}
	}
}
