package models

import "time"

// CurrentConditions describes the weather right now.
type CurrentConditions struct {
	Temperature              float64 `json:"temperature"`
	Humidity                 float64 `json:"humidity"`
	WindSpeed                float64 `json:"wind_speed"`
	UVIndex                  float64 `json:"uv_index"`
	PrecipitationProbability float64 `json:"precipitation_probability"`
	Visibility               float64 `json:"visibility"` // km
	WeatherType              string  `json:"weather_type"`
	Description              string  `json:"description"`
}

// DailyForecast describes one forecast day.
type DailyForecast struct {
	Date                     time.Time `json:"date"`
	TempMin                  float64   `json:"temp_min"`
	TempMax                  float64   `json:"temp_max"`
	PrecipitationProbability float64   `json:"precipitation_probability"`
	WindSpeed                float64   `json:"wind_speed"`
	UVIndex                  float64   `json:"uv_index"`
	WeatherType              string    `json:"weather_type"`
}

// Forecast bundles current conditions with the multi-day outlook.
type Forecast struct {
	FetchedAt time.Time         `json:"fetched_at"`
	Current   CurrentConditions `json:"current"`
	Daily     []DailyForecast   `json:"daily"`
}
