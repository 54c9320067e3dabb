package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/suu3play/hobby-weather-sub000/internal/database"
	"github.com/suu3play/hobby-weather-sub000/internal/models"
)

type NotificationHistoryRepository struct {
	db *database.DB
}

func NewNotificationHistoryRepository(db *database.DB) *NotificationHistoryRepository {
	return &NotificationHistoryRepository{db: db}
}

func (r *NotificationHistoryRepository) Create(ctx context.Context, h *models.NotificationHistory) error {
	if h.ID == "" {
		h.ID = uuid.NewString()
	}
	if h.SentAt.IsZero() {
		h.SentAt = time.Now()
	}
	if h.Priority == "" {
		h.Priority = models.PriorityMedium
	}
	data := h.Data
	if data == nil {
		data = map[string]any{}
	}
	payload, err := json.Marshal(data)
	if err != nil {
		return err
	}
	_, err = r.db.Pool.Exec(ctx,
		`INSERT INTO notification_history (id, config_id, type, title, message, priority, sent_at, subject_key, data)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		h.ID, h.ConfigID, h.Type, h.Title, h.Message, h.Priority, h.SentAt, h.SubjectKey, payload,
	)
	return err
}

// GetRecent returns the newest records first, up to limit.
func (r *NotificationHistoryRepository) GetRecent(ctx context.Context, limit int) ([]*models.NotificationHistory, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT id, config_id, type, title, message, priority, sent_at, clicked, dismissed, subject_key, data
		 FROM notification_history ORDER BY sent_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanHistory(rows)
}

// GetRecentByType returns records of the given type sent at or after since,
// newest first.
func (r *NotificationHistoryRepository) GetRecentByType(ctx context.Context, typ models.NotificationType, since time.Time) ([]*models.NotificationHistory, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT id, config_id, type, title, message, priority, sent_at, clicked, dismissed, subject_key, data
		 FROM notification_history WHERE type = $1 AND sent_at >= $2 ORDER BY sent_at DESC`,
		typ, since,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanHistory(rows)
}

// CountBetween counts records with sent_at in [from, to). An empty type
// counts every family.
func (r *NotificationHistoryRepository) CountBetween(ctx context.Context, typ models.NotificationType, from, to time.Time) (int, error) {
	var count int
	var err error
	if typ == "" {
		err = r.db.Pool.QueryRow(ctx,
			`SELECT COUNT(*) FROM notification_history WHERE sent_at >= $1 AND sent_at < $2`,
			from, to,
		).Scan(&count)
	} else {
		err = r.db.Pool.QueryRow(ctx,
			`SELECT COUNT(*) FROM notification_history WHERE type = $1 AND sent_at >= $2 AND sent_at < $3`,
			typ, from, to,
		).Scan(&count)
	}
	return count, err
}

func (r *NotificationHistoryRepository) SetClicked(ctx context.Context, id string) error {
	_, err := r.db.Pool.Exec(ctx,
		`UPDATE notification_history SET clicked = true WHERE id = $1`,
		id,
	)
	return err
}

func (r *NotificationHistoryRepository) SetDismissed(ctx context.Context, id string) error {
	_, err := r.db.Pool.Exec(ctx,
		`UPDATE notification_history SET dismissed = true WHERE id = $1`,
		id,
	)
	return err
}

func (r *NotificationHistoryRepository) DeleteByConfigID(ctx context.Context, configID string) error {
	_, err := r.db.Pool.Exec(ctx,
		`DELETE FROM notification_history WHERE config_id = $1`,
		configID,
	)
	return err
}

func scanHistory(rows pgx.Rows) ([]*models.NotificationHistory, error) {
	var records []*models.NotificationHistory
	for rows.Next() {
		h := &models.NotificationHistory{}
		var data []byte
		if err := rows.Scan(&h.ID, &h.ConfigID, &h.Type, &h.Title, &h.Message, &h.Priority, &h.SentAt,
			&h.Clicked, &h.Dismissed, &h.SubjectKey, &data); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(data, &h.Data); err != nil {
			h.Data = map[string]any{}
		}
		records = append(records, h)
	}
	return records, rows.Err()
}
