// Package recommend scores hobbies against a weather forecast.
package recommend

import (
	"fmt"
	"sort"

	"github.com/suu3play/hobby-weather-sub000/internal/models"
)

const (
	baseScore       = 70.0
	preferredBonus  = 20.0
	preferredMalus  = 10.0
	tempBonus       = 15.0
	precipWeight    = 0.3
	precipWarnBar   = 50.0
	windPenaltyBar  = 10.0
	windPenalty     = 10.0
	uvWarnBar       = 8.0
)

// GenerateRecommendations scores every hobby against the forecast and
// returns them ordered best-first. Indoor hobbies are weather-neutral
// and keep the base score.
func GenerateRecommendations(hobbies []*models.Hobby, forecast *models.Forecast) []models.Recommendation {
	recs := make([]models.Recommendation, 0, len(hobbies))
	for _, hobby := range hobbies {
		recs = append(recs, scoreHobby(hobby, forecast))
	}
	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].OverallScore > recs[j].OverallScore
	})
	return recs
}

func scoreHobby(hobby *models.Hobby, forecast *models.Forecast) models.Recommendation {
	rec := models.Recommendation{Hobby: hobby}
	if forecast == nil || len(forecast.Daily) == 0 {
		rec.OverallScore = scoreCurrent(hobby, nil)
		return rec
	}

	var total float64
	for _, day := range forecast.Daily {
		scored := scoreDay(hobby, day)
		rec.RecommendedDays = append(rec.RecommendedDays, scored)
		total += scored.Score
	}
	rec.OverallScore = clamp(total / float64(len(forecast.Daily)))
	return rec
}

// scoreCurrent scores a hobby against the current conditions alone, for
// forecasts with no daily outlook.
func scoreCurrent(hobby *models.Hobby, current *models.CurrentConditions) float64 {
	if hobby.Indoor || current == nil {
		return baseScore
	}
	day := models.DailyForecast{
		TempMin:                  current.Temperature,
		TempMax:                  current.Temperature,
		PrecipitationProbability: current.PrecipitationProbability,
		WindSpeed:                current.WindSpeed,
		UVIndex:                  current.UVIndex,
		WeatherType:              current.WeatherType,
	}
	return scoreDay(hobby, day).Score
}

func scoreDay(hobby *models.Hobby, day models.DailyForecast) models.RecommendedDay {
	scored := models.RecommendedDay{Date: day.Date, Score: baseScore}
	if hobby.Indoor {
		scored.MatchingFactors = append(scored.MatchingFactors, "indoor activity, weather independent")
		return scored
	}

	if hobby.PrefersWeather(day.WeatherType) {
		scored.Score += preferredBonus
		scored.MatchingFactors = append(scored.MatchingFactors, fmt.Sprintf("preferred weather (%s)", day.WeatherType))
	} else if len(hobby.PreferredWeather) > 0 {
		scored.Score -= preferredMalus
	}

	mid := (day.TempMin + day.TempMax) / 2
	if hobby.TempInRange(mid) {
		scored.Score += tempBonus
		scored.MatchingFactors = append(scored.MatchingFactors, "comfortable temperature")
	} else {
		scored.Score -= tempPenalty(hobby, mid)
		scored.WarningFactors = append(scored.WarningFactors, fmt.Sprintf("temperature %.0f°C outside %g-%g°C", mid, hobby.MinTemp, hobby.MaxTemp))
	}

	scored.Score -= day.PrecipitationProbability * precipWeight
	if day.PrecipitationProbability >= precipWarnBar {
		scored.WarningFactors = append(scored.WarningFactors, fmt.Sprintf("%.0f%% chance of rain", day.PrecipitationProbability))
	}

	if day.WindSpeed >= windPenaltyBar {
		scored.Score -= windPenalty
		scored.WarningFactors = append(scored.WarningFactors, fmt.Sprintf("strong wind %.0fm/s", day.WindSpeed))
	}

	if day.UVIndex >= uvWarnBar {
		scored.WarningFactors = append(scored.WarningFactors, fmt.Sprintf("very high UV index %.0f", day.UVIndex))
	}

	scored.Score = clamp(scored.Score)
	return scored
}

// tempPenalty grows with the distance from the hobby's comfort range.
func tempPenalty(hobby *models.Hobby, temp float64) float64 {
	var distance float64
	switch {
	case temp < hobby.MinTemp:
		distance = hobby.MinTemp - temp
	case temp > hobby.MaxTemp:
		distance = temp - hobby.MaxTemp
	}
	penalty := 10 + distance*2
	if penalty > 40 {
		penalty = 40
	}
	return penalty
}

func clamp(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
