// Package notification holds the configuration store: persistence-backed
// CRUD plus the send policy (quiet hours, daily caps, allowed windows)
// that the scheduler consults before dispatching.
package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/suu3play/hobby-weather-sub000/internal/models"
)

// ConfigRepository persists notification configs.
type ConfigRepository interface {
	Create(ctx context.Context, config *models.NotificationConfig) error
	GetByID(ctx context.Context, id string) (*models.NotificationConfig, error)
	GetAll(ctx context.Context) ([]*models.NotificationConfig, error)
	GetEnabled(ctx context.Context) ([]*models.NotificationConfig, error)
	GetByType(ctx context.Context, typ models.NotificationType) ([]*models.NotificationConfig, error)
	Update(ctx context.Context, config *models.NotificationConfig) error
	Delete(ctx context.Context, id string) error
}

// HistoryRepository persists sent-notification records.
type HistoryRepository interface {
	Create(ctx context.Context, h *models.NotificationHistory) error
	GetRecent(ctx context.Context, limit int) ([]*models.NotificationHistory, error)
	GetRecentByType(ctx context.Context, typ models.NotificationType, since time.Time) ([]*models.NotificationHistory, error)
	CountBetween(ctx context.Context, typ models.NotificationType, from, to time.Time) (int, error)
	SetClicked(ctx context.Context, id string) error
	SetDismissed(ctx context.Context, id string) error
}

// SettingsRepository persists the singleton global settings.
type SettingsRepository interface {
	GetOrCreate(ctx context.Context) (*models.NotificationSettings, error)
	Update(ctx context.Context, settings *models.NotificationSettings) error
}

// Store combines the repositories with the scheduling policy.
type Store struct {
	Configs  ConfigRepository
	History  HistoryRepository
	Settings SettingsRepository
}

func NewStore(configs ConfigRepository, history HistoryRepository, settings SettingsRepository) *Store {
	return &Store{Configs: configs, History: history, Settings: settings}
}

// IsNotificationTimeAllowed reports whether a notification for config may
// be sent at now. The returned reason names the first failing policy.
func (s *Store) IsNotificationTimeAllowed(ctx context.Context, config *models.NotificationConfig, now time.Time) (bool, string, error) {
	settings, err := s.Settings.GetOrCreate(ctx)
	if err != nil {
		return false, "", fmt.Errorf("failed to load settings: %w", err)
	}

	if !settings.GlobalEnabled {
		return false, "notifications globally disabled", nil
	}
	if settings.InQuietHours(now) {
		return false, "in quiet hours", nil
	}
	if !config.Enabled {
		return false, "config disabled", nil
	}
	if !config.Schedule.AllowsWeekday(now) {
		return false, "weekday not allowed", nil
	}
	if !config.Schedule.AllowsTime(now) {
		return false, "outside allowed time windows", nil
	}
	return true, "", nil
}

// HasReachedDailyLimit reports whether the calendar day containing now has
// already used up the daily send cap. An empty type counts every family.
func (s *Store) HasReachedDailyLimit(ctx context.Context, typ models.NotificationType, now time.Time) (bool, error) {
	settings, err := s.Settings.GetOrCreate(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to load settings: %w", err)
	}
	if settings.MaxDailyNotifications <= 0 {
		return false, nil
	}

	startOfToday := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	startOfTomorrow := startOfToday.AddDate(0, 0, 1)

	count, err := s.History.CountBetween(ctx, typ, startOfToday, startOfTomorrow)
	if err != nil {
		return false, fmt.Errorf("failed to count today's notifications: %w", err)
	}
	return count >= settings.MaxDailyNotifications, nil
}

// RecordSent appends a history row for a successfully sent notification.
func (s *Store) RecordSent(ctx context.Context, h *models.NotificationHistory) error {
	return s.History.Create(ctx, h)
}

// CreateDefaultConfigs seeds one config per notification family. Families
// that already have a config are left alone, so this is safe to call on
// every startup.
func (s *Store) CreateDefaultConfigs(ctx context.Context) error {
	for _, config := range DefaultConfigs() {
		existing, err := s.Configs.GetByType(ctx, config.Type)
		if err != nil {
			return fmt.Errorf("failed to load %s configs: %w", config.Type, err)
		}
		if len(existing) > 0 {
			continue
		}
		if err := s.Configs.Create(ctx, config); err != nil {
			return fmt.Errorf("failed to seed %s config: %w", config.Type, err)
		}
	}
	return nil
}

// DefaultConfigs returns the built-in config per notification family.
func DefaultConfigs() []*models.NotificationConfig {
	weekdays := []int{1, 2, 3, 4, 5}
	allDays := []int{0, 1, 2, 3, 4, 5, 6}

	return []*models.NotificationConfig{
		{
			Type:     models.TypeHighScore,
			Enabled:  true,
			Title:    "Hobby conditions",
			Priority: models.PriorityMedium,
			Schedule: models.Schedule{
				Frequency:             models.FrequencyCustom,
				Windows:               []models.TimeWindow{{Start: "09:00", End: "18:00"}},
				DaysOfWeek:            weekdays,
				CustomIntervalMinutes: 180,
			},
			Conditions: models.Conditions{MinScore: 80, TopN: 3, CooldownHours: 6},
		},
		{
			Type:     models.TypeWeatherAlert,
			Enabled:  true,
			Title:    "Weather alert",
			Priority: models.PriorityHigh,
			Schedule: models.Schedule{
				Frequency:  models.FrequencyImmediate,
				Windows:    []models.TimeWindow{{Start: "06:00", End: "23:00"}},
				DaysOfWeek: allDays,
			},
		},
		{
			Type:     models.TypeRegularReport,
			Enabled:  true,
			Title:    "Daily hobby report",
			Priority: models.PriorityLow,
			Schedule: models.Schedule{
				Frequency:  models.FrequencyDaily,
				Windows:    []models.TimeWindow{{Start: "08:00", End: "08:30"}},
				DaysOfWeek: allDays,
			},
			Conditions: models.Conditions{Period: "daily", DaysBack: 1, DaysAhead: 3},
		},
	}
}
