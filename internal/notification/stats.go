package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/suu3play/hobby-weather-sub000/internal/models"
)

// Stats summarizes recent send history for the monitoring surface.
type Stats struct {
	Days      int                            `json:"days"`
	Total     int                            `json:"total"`
	ByType    map[models.NotificationType]int `json:"by_type"`
	Clicked   int                            `json:"clicked"`
	Dismissed int                            `json:"dismissed"`
}

// GetNotificationStats aggregates history for the trailing number of days.
func (s *Store) GetNotificationStats(ctx context.Context, days int) (*Stats, error) {
	if days <= 0 {
		days = 30
	}
	since := time.Now().AddDate(0, 0, -days)

	stats := &Stats{
		Days:   days,
		ByType: make(map[models.NotificationType]int),
	}
	for _, typ := range []models.NotificationType{models.TypeHighScore, models.TypeWeatherAlert, models.TypeRegularReport} {
		records, err := s.History.GetRecentByType(ctx, typ, since)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s history: %w", typ, err)
		}
		stats.ByType[typ] = len(records)
		stats.Total += len(records)
		for _, h := range records {
			if h.Clicked {
				stats.Clicked++
			}
			if h.Dismissed {
				stats.Dismissed++
			}
		}
	}
	return stats, nil
}
