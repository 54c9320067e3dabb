package repository

import (
	"context"
	"time"

	"github.com/suu3play/hobby-weather-sub000/internal/database"
	"github.com/suu3play/hobby-weather-sub000/internal/models"
)

type NotificationSettingsRepository struct {
	db *database.DB
}

func NewNotificationSettingsRepository(db *database.DB) *NotificationSettingsRepository {
	return &NotificationSettingsRepository{db: db}
}

// GetOrCreate retrieves the singleton settings row, creating it with
// defaults if it does not exist.
func (r *NotificationSettingsRepository) GetOrCreate(ctx context.Context) (*models.NotificationSettings, error) {
	settings := &models.NotificationSettings{}
	err := r.db.Pool.QueryRow(ctx,
		`INSERT INTO notification_settings (id) VALUES (1)
		 ON CONFLICT (id) DO UPDATE SET id = EXCLUDED.id
		 RETURNING global_enabled, quiet_start, quiet_end, max_daily_notifications,
		           sound_enabled, vibration_enabled, updated_at`,
	).Scan(
		&settings.GlobalEnabled,
		&settings.QuietStart,
		&settings.QuietEnd,
		&settings.MaxDailyNotifications,
		&settings.SoundEnabled,
		&settings.VibrationEnabled,
		&settings.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return settings, nil
}

func (r *NotificationSettingsRepository) Update(ctx context.Context, settings *models.NotificationSettings) error {
	settings.UpdatedAt = time.Now()
	_, err := r.db.Pool.Exec(ctx,
		`UPDATE notification_settings
		 SET global_enabled = $1, quiet_start = $2, quiet_end = $3, max_daily_notifications = $4,
		     sound_enabled = $5, vibration_enabled = $6, updated_at = $7
		 WHERE id = 1`,
		settings.GlobalEnabled, settings.QuietStart, settings.QuietEnd, settings.MaxDailyNotifications,
		settings.SoundEnabled, settings.VibrationEnabled, settings.UpdatedAt,
	)
	return err
}
