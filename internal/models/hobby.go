package models

import "time"

// Hobby is an activity the user wants weather-matched recommendations for.
type Hobby struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Active bool   `json:"active"`
	Indoor bool   `json:"indoor"`
	// PreferredWeather lists weather types the hobby suits best
	// (e.g. "clear", "clouds").
	PreferredWeather []string  `json:"preferred_weather"`
	MinTemp          float64   `json:"min_temp"`
	MaxTemp          float64   `json:"max_temp"`
	CreatedAt        time.Time `json:"created_at"`
}

// PrefersWeather reports whether the given weather type is preferred.
func (h *Hobby) PrefersWeather(weatherType string) bool {
	for _, w := range h.PreferredWeather {
		if w == weatherType {
			return true
		}
	}
	return false
}

// TempInRange reports whether the temperature suits the hobby.
func (h *Hobby) TempInRange(temp float64) bool {
	return temp >= h.MinTemp && temp <= h.MaxTemp
}
