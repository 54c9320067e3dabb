package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/suu3play/hobby-weather-sub000/internal/models"
)

// MemoryStore holds in-memory implementations of every repository, used by
// tests and by storage-less runs. A single mutex guards all collections so
// cascade deletes stay consistent.
type MemoryStore struct {
	Configs  *MemoryConfigRepository
	History  *MemoryHistoryRepository
	Settings *MemorySettingsRepository
	Hobbies  *MemoryHobbyRepository
}

type memoryState struct {
	mu       sync.Mutex
	configs  map[string]*models.NotificationConfig
	history  []*models.NotificationHistory
	settings *models.NotificationSettings
	hobbies  map[int64]*models.Hobby
	nextID   int64
}

func NewMemoryStore() *MemoryStore {
	s := &memoryState{
		configs: make(map[string]*models.NotificationConfig),
		hobbies: make(map[int64]*models.Hobby),
		nextID:  1,
	}
	return &MemoryStore{
		Configs:  &MemoryConfigRepository{s: s},
		History:  &MemoryHistoryRepository{s: s},
		Settings: &MemorySettingsRepository{s: s},
		Hobbies:  &MemoryHobbyRepository{s: s},
	}
}

// ---- notification configs ----

type MemoryConfigRepository struct {
	s *memoryState
}

func (r *MemoryConfigRepository) Create(ctx context.Context, config *models.NotificationConfig) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if config.ID == "" {
		config.ID = uuid.NewString()
	}
	now := time.Now()
	config.CreatedAt = now
	config.UpdatedAt = now
	cp := *config
	r.s.configs[config.ID] = &cp
	return nil
}

func (r *MemoryConfigRepository) GetByID(ctx context.Context, id string) (*models.NotificationConfig, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	config, ok := r.s.configs[id]
	if !ok {
		return nil, nil
	}
	cp := *config
	return &cp, nil
}

func (r *MemoryConfigRepository) GetAll(ctx context.Context) ([]*models.NotificationConfig, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.collect(func(*models.NotificationConfig) bool { return true }), nil
}

func (r *MemoryConfigRepository) GetEnabled(ctx context.Context) ([]*models.NotificationConfig, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.collect(func(c *models.NotificationConfig) bool { return c.Enabled }), nil
}

func (r *MemoryConfigRepository) GetByType(ctx context.Context, typ models.NotificationType) ([]*models.NotificationConfig, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.collect(func(c *models.NotificationConfig) bool { return c.Type == typ }), nil
}

func (r *MemoryConfigRepository) Update(ctx context.Context, config *models.NotificationConfig) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	config.UpdatedAt = time.Now()
	cp := *config
	r.s.configs[config.ID] = &cp
	return nil
}

// Delete removes a config and cascades to its history rows, matching the
// database-level ON DELETE CASCADE.
func (r *MemoryConfigRepository) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.configs, id)
	kept := r.s.history[:0]
	for _, h := range r.s.history {
		if h.ConfigID != id {
			kept = append(kept, h)
		}
	}
	r.s.history = kept
	return nil
}

func (r *MemoryConfigRepository) collect(keep func(*models.NotificationConfig) bool) []*models.NotificationConfig {
	var configs []*models.NotificationConfig
	for _, c := range r.s.configs {
		if keep(c) {
			cp := *c
			configs = append(configs, &cp)
		}
	}
	sort.Slice(configs, func(i, j int) bool { return configs[i].CreatedAt.Before(configs[j].CreatedAt) })
	return configs
}

// ---- notification history ----

type MemoryHistoryRepository struct {
	s *memoryState
}

func (r *MemoryHistoryRepository) Create(ctx context.Context, h *models.NotificationHistory) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if h.ID == "" {
		h.ID = uuid.NewString()
	}
	if h.SentAt.IsZero() {
		h.SentAt = time.Now()
	}
	cp := *h
	r.s.history = append(r.s.history, &cp)
	return nil
}

func (r *MemoryHistoryRepository) GetRecent(ctx context.Context, limit int) ([]*models.NotificationHistory, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	records := r.collect(func(*models.NotificationHistory) bool { return true })
	if len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}

func (r *MemoryHistoryRepository) GetRecentByType(ctx context.Context, typ models.NotificationType, since time.Time) ([]*models.NotificationHistory, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.collect(func(h *models.NotificationHistory) bool {
		return h.Type == typ && !h.SentAt.Before(since)
	}), nil
}

func (r *MemoryHistoryRepository) CountBetween(ctx context.Context, typ models.NotificationType, from, to time.Time) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	count := 0
	for _, h := range r.s.history {
		if typ != "" && h.Type != typ {
			continue
		}
		if !h.SentAt.Before(from) && h.SentAt.Before(to) {
			count++
		}
	}
	return count, nil
}

func (r *MemoryHistoryRepository) SetClicked(ctx context.Context, id string) error {
	return r.setFlag(id, func(h *models.NotificationHistory) { h.Clicked = true })
}

func (r *MemoryHistoryRepository) SetDismissed(ctx context.Context, id string) error {
	return r.setFlag(id, func(h *models.NotificationHistory) { h.Dismissed = true })
}

func (r *MemoryHistoryRepository) setFlag(id string, set func(*models.NotificationHistory)) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, h := range r.s.history {
		if h.ID == id {
			set(h)
			return nil
		}
	}
	return nil
}

func (r *MemoryHistoryRepository) collect(keep func(*models.NotificationHistory) bool) []*models.NotificationHistory {
	var records []*models.NotificationHistory
	for _, h := range r.s.history {
		if keep(h) {
			cp := *h
			records = append(records, &cp)
		}
	}
	sort.Slice(records, func(i, j int) bool { return records[i].SentAt.After(records[j].SentAt) })
	return records
}

// ---- notification settings ----

type MemorySettingsRepository struct {
	s *memoryState
}

func (r *MemorySettingsRepository) GetOrCreate(ctx context.Context) (*models.NotificationSettings, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.settings == nil {
		r.s.settings = models.NewDefaultNotificationSettings()
	}
	cp := *r.s.settings
	return &cp, nil
}

func (r *MemorySettingsRepository) Update(ctx context.Context, settings *models.NotificationSettings) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	settings.UpdatedAt = time.Now()
	cp := *settings
	r.s.settings = &cp
	return nil
}

// ---- hobbies ----

type MemoryHobbyRepository struct {
	s *memoryState
}

func (r *MemoryHobbyRepository) Create(ctx context.Context, hobby *models.Hobby) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if hobby.ID == 0 {
		hobby.ID = r.s.nextID
		r.s.nextID++
	}
	hobby.CreatedAt = time.Now()
	cp := *hobby
	r.s.hobbies[hobby.ID] = &cp
	return nil
}

func (r *MemoryHobbyRepository) GetActive(ctx context.Context) ([]*models.Hobby, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var hobbies []*models.Hobby
	for _, h := range r.s.hobbies {
		if h.Active {
			cp := *h
			hobbies = append(hobbies, &cp)
		}
	}
	sort.Slice(hobbies, func(i, j int) bool { return hobbies[i].Name < hobbies[j].Name })
	return hobbies, nil
}
