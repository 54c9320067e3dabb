package evaluator

import (
	"context"
	"errors"
	"time"

	"github.com/suu3play/hobby-weather-sub000/internal/models"
)

// evalNow is a monday at 10:00.
var evalNow = time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC)

type stubForecast struct {
	forecast *models.Forecast
	err      error
}

func (s *stubForecast) CurrentForecast(ctx context.Context) (*models.Forecast, error) {
	return s.forecast, s.err
}

type stubHobbies struct {
	hobbies []*models.Hobby
}

func (s *stubHobbies) GetActive(ctx context.Context) ([]*models.Hobby, error) {
	return s.hobbies, nil
}

type stubHistory struct {
	records []*models.NotificationHistory
}

func (s *stubHistory) GetRecentByType(ctx context.Context, typ models.NotificationType, since time.Time) ([]*models.NotificationHistory, error) {
	var out []*models.NotificationHistory
	for _, h := range s.records {
		if h.Type == typ && !h.SentAt.Before(since) {
			out = append(out, h)
		}
	}
	return out, nil
}

func fairForecast() *models.Forecast {
	return &models.Forecast{
		FetchedAt: evalNow,
		Current: models.CurrentConditions{
			Temperature:              18,
			Humidity:                 50,
			WindSpeed:                3,
			UVIndex:                  4,
			PrecipitationProbability: 10,
			Visibility:               20,
			WeatherType:              "clear",
			Description:              "clear sky",
		},
		Daily: []models.DailyForecast{
			{Date: evalNow, TempMin: 12, TempMax: 20, WeatherType: "clear"},
		},
	}
}

func fixedRecommend(scores map[int64]float64) RecommendFunc {
	return func(hobbies []*models.Hobby, forecast *models.Forecast) []models.Recommendation {
		recs := make([]models.Recommendation, 0, len(hobbies))
		for _, h := range hobbies {
			recs = append(recs, models.Recommendation{Hobby: h, OverallScore: scores[h.ID]})
		}
		for i := 0; i < len(recs); i++ {
			for j := i + 1; j < len(recs); j++ {
				if recs[j].OverallScore > recs[i].OverallScore {
					recs[i], recs[j] = recs[j], recs[i]
				}
			}
		}
		return recs
	}
}

var errPolish = errors.New("model unavailable")

type stubPolisher struct {
	text string
	err  error
}

func (s *stubPolisher) PolishDigest(ctx context.Context, text string) (string, error) {
	return s.text, s.err
}
