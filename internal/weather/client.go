// Package weather fetches and caches forecasts from the Open-Meteo API.
package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/suu3play/hobby-weather-sub000/internal/models"
)

const (
	forecastCacheKey = "forecast:current"
	forecastTTL      = 10 * time.Minute
	requestTimeout   = 15 * time.Second
)

// Client fetches forecasts for a fixed location, consulting the cache
// before going upstream.
type Client struct {
	http    *http.Client
	baseURL string
	lat     float64
	lon     float64
	cache   Cache
}

func NewClient(baseURL string, lat, lon float64, cache Cache) *Client {
	if cache == nil {
		cache = NewMemoryCache()
	}
	return &Client{
		http:    &http.Client{Timeout: requestTimeout},
		baseURL: baseURL,
		lat:     lat,
		lon:     lon,
		cache:   cache,
	}
}

// CurrentForecast returns the cached forecast when it is still fresh,
// otherwise fetches a new one. Cache failures are logged, not fatal.
func (c *Client) CurrentForecast(ctx context.Context) (*models.Forecast, error) {
	var cached models.Forecast
	err := c.cache.Get(ctx, forecastCacheKey, &cached)
	if err == nil {
		return &cached, nil
	}
	if err != ErrCacheMiss {
		log.Printf("weather: cache read: %v", err)
	}

	forecast, err := c.fetch(ctx)
	if err != nil {
		return nil, err
	}
	if err := c.cache.Set(ctx, forecastCacheKey, forecast, forecastTTL); err != nil {
		log.Printf("weather: cache write: %v", err)
	}
	return forecast, nil
}

type apiResponse struct {
	Current struct {
		Temperature              float64 `json:"temperature_2m"`
		Humidity                 float64 `json:"relative_humidity_2m"`
		WindSpeed                float64 `json:"wind_speed_10m"`
		UVIndex                  float64 `json:"uv_index"`
		PrecipitationProbability float64 `json:"precipitation_probability"`
		Visibility               float64 `json:"visibility"`
		WeatherCode              int     `json:"weather_code"`
	} `json:"current"`
	Daily struct {
		Time                     []string  `json:"time"`
		TempMin                  []float64 `json:"temperature_2m_min"`
		TempMax                  []float64 `json:"temperature_2m_max"`
		PrecipitationProbability []float64 `json:"precipitation_probability_max"`
		WindSpeed                []float64 `json:"wind_speed_10m_max"`
		UVIndex                  []float64 `json:"uv_index_max"`
		WeatherCode              []int     `json:"weather_code"`
	} `json:"daily"`
}

func (c *Client) fetch(ctx context.Context) (*models.Forecast, error) {
	q := url.Values{}
	q.Set("latitude", fmt.Sprintf("%g", c.lat))
	q.Set("longitude", fmt.Sprintf("%g", c.lon))
	q.Set("current", "temperature_2m,relative_humidity_2m,wind_speed_10m,uv_index,precipitation_probability,visibility,weather_code")
	q.Set("daily", "temperature_2m_min,temperature_2m_max,precipitation_probability_max,wind_speed_10m_max,uv_index_max,weather_code")
	q.Set("forecast_days", "7")
	q.Set("timezone", "auto")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/forecast?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch forecast: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch forecast: unexpected status %d", resp.StatusCode)
	}

	var body apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode forecast: %w", err)
	}
	return c.convert(&body), nil
}

func (c *Client) convert(body *apiResponse) *models.Forecast {
	weatherType, description := classifyWeatherCode(body.Current.WeatherCode)
	forecast := &models.Forecast{
		FetchedAt: time.Now(),
		Current: models.CurrentConditions{
			Temperature:              body.Current.Temperature,
			Humidity:                 body.Current.Humidity,
			WindSpeed:                body.Current.WindSpeed,
			UVIndex:                  body.Current.UVIndex,
			PrecipitationProbability: body.Current.PrecipitationProbability,
			Visibility:               body.Current.Visibility / 1000, // m to km
			WeatherType:              weatherType,
			Description:              description,
		},
	}
	for i, date := range body.Daily.Time {
		day := models.DailyForecast{}
		if parsed, err := time.Parse("2006-01-02", date); err == nil {
			day.Date = parsed
		}
		if i < len(body.Daily.TempMin) {
			day.TempMin = body.Daily.TempMin[i]
		}
		if i < len(body.Daily.TempMax) {
			day.TempMax = body.Daily.TempMax[i]
		}
		if i < len(body.Daily.PrecipitationProbability) {
			day.PrecipitationProbability = body.Daily.PrecipitationProbability[i]
		}
		if i < len(body.Daily.WindSpeed) {
			day.WindSpeed = body.Daily.WindSpeed[i]
		}
		if i < len(body.Daily.UVIndex) {
			day.UVIndex = body.Daily.UVIndex[i]
		}
		if i < len(body.Daily.WeatherCode) {
			day.WeatherType, _ = classifyWeatherCode(body.Daily.WeatherCode[i])
		}
		forecast.Daily = append(forecast.Daily, day)
	}
	return forecast
}

// classifyWeatherCode maps WMO weather codes to a coarse type and a
// human-readable description.
func classifyWeatherCode(code int) (string, string) {
	switch {
	case code == 0:
		return "clear", "clear sky"
	case code <= 3:
		return "clouds", "partly cloudy"
	case code == 45 || code == 48:
		return "fog", "foggy"
	case code >= 51 && code <= 57:
		return "drizzle", "light drizzle"
	case code >= 61 && code <= 67:
		return "rain", "rain"
	case code >= 71 && code <= 77:
		return "snow", "snow"
	case code >= 80 && code <= 82:
		return "rain", "rain showers"
	case code == 85 || code == 86:
		return "snow", "snow showers"
	case code >= 95:
		return "thunderstorm", "thunderstorm"
	default:
		return "clouds", "overcast"
	}
}
