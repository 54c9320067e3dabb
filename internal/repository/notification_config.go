package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/suu3play/hobby-weather-sub000/internal/database"
	"github.com/suu3play/hobby-weather-sub000/internal/models"
)

type NotificationConfigRepository struct {
	db *database.DB
}

func NewNotificationConfigRepository(db *database.DB) *NotificationConfigRepository {
	return &NotificationConfigRepository{db: db}
}

func (r *NotificationConfigRepository) Create(ctx context.Context, config *models.NotificationConfig) error {
	if config.ID == "" {
		config.ID = uuid.NewString()
	}
	schedule, err := config.MarshalScheduleJSON()
	if err != nil {
		return err
	}
	conditions, err := config.MarshalConditionsJSON()
	if err != nil {
		return err
	}
	return r.db.Pool.QueryRow(ctx,
		`INSERT INTO notification_configs (id, type, enabled, title, priority, schedule, conditions)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING created_at, updated_at`,
		config.ID, config.Type, config.Enabled, config.Title, config.Priority, schedule, conditions,
	).Scan(&config.CreatedAt, &config.UpdatedAt)
}

func (r *NotificationConfigRepository) GetByID(ctx context.Context, id string) (*models.NotificationConfig, error) {
	config, err := scanConfig(r.db.Pool.QueryRow(ctx,
		`SELECT id, type, enabled, title, priority, schedule, conditions, created_at, updated_at
		 FROM notification_configs WHERE id = $1`,
		id,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return config, err
}

func (r *NotificationConfigRepository) GetAll(ctx context.Context) ([]*models.NotificationConfig, error) {
	return r.query(ctx,
		`SELECT id, type, enabled, title, priority, schedule, conditions, created_at, updated_at
		 FROM notification_configs ORDER BY created_at ASC`)
}

func (r *NotificationConfigRepository) GetEnabled(ctx context.Context) ([]*models.NotificationConfig, error) {
	return r.query(ctx,
		`SELECT id, type, enabled, title, priority, schedule, conditions, created_at, updated_at
		 FROM notification_configs WHERE enabled = true ORDER BY created_at ASC`)
}

func (r *NotificationConfigRepository) GetByType(ctx context.Context, typ models.NotificationType) ([]*models.NotificationConfig, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT id, type, enabled, title, priority, schedule, conditions, created_at, updated_at
		 FROM notification_configs WHERE type = $1 ORDER BY created_at ASC`,
		typ,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanConfigs(rows)
}

func (r *NotificationConfigRepository) Update(ctx context.Context, config *models.NotificationConfig) error {
	schedule, err := config.MarshalScheduleJSON()
	if err != nil {
		return err
	}
	conditions, err := config.MarshalConditionsJSON()
	if err != nil {
		return err
	}
	config.UpdatedAt = time.Now()
	_, err = r.db.Pool.Exec(ctx,
		`UPDATE notification_configs
		 SET enabled = $1, title = $2, priority = $3, schedule = $4, conditions = $5, updated_at = $6
		 WHERE id = $7`,
		config.Enabled, config.Title, config.Priority, schedule, conditions, config.UpdatedAt, config.ID,
	)
	return err
}

// Delete removes a config. History rows cascade at the database level.
func (r *NotificationConfigRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.Pool.Exec(ctx,
		`DELETE FROM notification_configs WHERE id = $1`,
		id,
	)
	return err
}

func (r *NotificationConfigRepository) query(ctx context.Context, sql string) ([]*models.NotificationConfig, error) {
	rows, err := r.db.Pool.Query(ctx, sql)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanConfigs(rows)
}

func scanConfigs(rows pgx.Rows) ([]*models.NotificationConfig, error) {
	var configs []*models.NotificationConfig
	for rows.Next() {
		config, err := scanConfig(rows)
		if err != nil {
			return nil, err
		}
		configs = append(configs, config)
	}
	return configs, rows.Err()
}

func scanConfig(row pgx.Row) (*models.NotificationConfig, error) {
	config := &models.NotificationConfig{}
	var schedule, conditions []byte
	if err := row.Scan(&config.ID, &config.Type, &config.Enabled, &config.Title, &config.Priority,
		&schedule, &conditions, &config.CreatedAt, &config.UpdatedAt); err != nil {
		return nil, err
	}
	if err := config.UnmarshalScheduleJSON(schedule); err != nil {
		return nil, err
	}
	if err := config.UnmarshalConditionsJSON(conditions); err != nil {
		return nil, err
	}
	return config, nil
}
