package repository

import (
	"context"
	"testing"
	"time"

	"github.com/suu3play/hobby-weather-sub000/internal/models"
)

func TestMemoryConfigCRUD(t *testing.T) {
	ctx := context.Background()
	mem := NewMemoryStore()

	config := &models.NotificationConfig{
		Type:    models.TypeHighScore,
		Enabled: true,
		Title:   "Hobby conditions",
	}
	if err := mem.Configs.Create(ctx, config); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if config.ID == "" {
		t.Fatal("Create must assign an ID")
	}

	loaded, err := mem.Configs.GetByID(ctx, config.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if loaded == nil || loaded.Title != "Hobby conditions" {
		t.Fatalf("loaded = %+v", loaded)
	}

	// Mutating the returned copy must not leak into the store.
	loaded.Title = "changed"
	again, _ := mem.Configs.GetByID(ctx, config.ID)
	if again.Title != "Hobby conditions" {
		t.Fatal("GetByID must return independent copies")
	}

	loaded.Title = "updated"
	if err := mem.Configs.Update(ctx, loaded); err != nil {
		t.Fatalf("Update: %v", err)
	}
	again, _ = mem.Configs.GetByID(ctx, config.ID)
	if again.Title != "updated" {
		t.Fatalf("title after update = %q", again.Title)
	}

	missing, err := mem.Configs.GetByID(ctx, "nope")
	if err != nil || missing != nil {
		t.Fatalf("GetByID(missing) = %+v, %v; want nil, nil", missing, err)
	}
}

func TestMemoryGetEnabledFilters(t *testing.T) {
	ctx := context.Background()
	mem := NewMemoryStore()

	if err := mem.Configs.Create(ctx, &models.NotificationConfig{Type: models.TypeHighScore, Enabled: true}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := mem.Configs.Create(ctx, &models.NotificationConfig{Type: models.TypeWeatherAlert, Enabled: false}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	enabled, err := mem.Configs.GetEnabled(ctx)
	if err != nil {
		t.Fatalf("GetEnabled: %v", err)
	}
	if len(enabled) != 1 || enabled[0].Type != models.TypeHighScore {
		t.Fatalf("enabled = %+v", enabled)
	}
}

func TestMemoryGetByTypeFilters(t *testing.T) {
	ctx := context.Background()
	mem := NewMemoryStore()

	if err := mem.Configs.Create(ctx, &models.NotificationConfig{Type: models.TypeHighScore, Enabled: true}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := mem.Configs.Create(ctx, &models.NotificationConfig{Type: models.TypeWeatherAlert, Enabled: true}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	alerts, err := mem.Configs.GetByType(ctx, models.TypeWeatherAlert)
	if err != nil {
		t.Fatalf("GetByType: %v", err)
	}
	if len(alerts) != 1 || alerts[0].Type != models.TypeWeatherAlert {
		t.Fatalf("alerts = %+v", alerts)
	}

	none, err := mem.Configs.GetByType(ctx, models.TypeRegularReport)
	if err != nil {
		t.Fatalf("GetByType: %v", err)
	}
	if len(none) != 0 {
		t.Fatalf("expected no report configs, got %+v", none)
	}
}

func TestMemoryDeleteCascadesHistory(t *testing.T) {
	ctx := context.Background()
	mem := NewMemoryStore()

	config := &models.NotificationConfig{Type: models.TypeHighScore, Enabled: true}
	if err := mem.Configs.Create(ctx, config); err != nil {
		t.Fatalf("Create: %v", err)
	}
	for i := 0; i < 3; i++ {
		if err := mem.History.Create(ctx, &models.NotificationHistory{
			ConfigID: config.ID, Type: models.TypeHighScore,
		}); err != nil {
			t.Fatalf("Create history: %v", err)
		}
	}
	if err := mem.History.Create(ctx, &models.NotificationHistory{
		ConfigID: "other", Type: models.TypeHighScore,
	}); err != nil {
		t.Fatalf("Create history: %v", err)
	}

	if err := mem.Configs.Delete(ctx, config.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	records, err := mem.History.GetRecent(ctx, 10)
	if err != nil {
		t.Fatalf("GetRecent: %v", err)
	}
	if len(records) != 1 || records[0].ConfigID != "other" {
		t.Fatalf("records = %+v, want only the unrelated row to survive", records)
	}
}

func TestMemoryHistoryFlags(t *testing.T) {
	ctx := context.Background()
	mem := NewMemoryStore()

	h := &models.NotificationHistory{ConfigID: "c", Type: models.TypeWeatherAlert}
	if err := mem.History.Create(ctx, h); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := mem.History.SetClicked(ctx, h.ID); err != nil {
		t.Fatalf("SetClicked: %v", err)
	}
	if err := mem.History.SetDismissed(ctx, h.ID); err != nil {
		t.Fatalf("SetDismissed: %v", err)
	}

	records, _ := mem.History.GetRecent(ctx, 1)
	if len(records) != 1 || !records[0].Clicked || !records[0].Dismissed {
		t.Fatalf("records = %+v, want clicked and dismissed set", records)
	}
}

func TestMemoryHistoryGetRecentByType(t *testing.T) {
	ctx := context.Background()
	mem := NewMemoryStore()

	now := time.Now()
	rows := []*models.NotificationHistory{
		{ConfigID: "c", Type: models.TypeHighScore, SentAt: now.Add(-time.Hour)},
		{ConfigID: "c", Type: models.TypeHighScore, SentAt: now.Add(-10 * time.Hour)},
		{ConfigID: "c", Type: models.TypeWeatherAlert, SentAt: now.Add(-time.Hour)},
	}
	for _, h := range rows {
		if err := mem.History.Create(ctx, h); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	records, err := mem.History.GetRecentByType(ctx, models.TypeHighScore, now.Add(-2*time.Hour))
	if err != nil {
		t.Fatalf("GetRecentByType: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("records = %d, want the one recent high-score row", len(records))
	}
}

func TestMemorySettingsSingleton(t *testing.T) {
	ctx := context.Background()
	mem := NewMemoryStore()

	settings, err := mem.Settings.GetOrCreate(ctx)
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	if !settings.GlobalEnabled {
		t.Fatal("expected defaults on first access")
	}

	settings.MaxDailyNotifications = 3
	if err := mem.Settings.Update(ctx, settings); err != nil {
		t.Fatalf("Update: %v", err)
	}

	reloaded, _ := mem.Settings.GetOrCreate(ctx)
	if reloaded.MaxDailyNotifications != 3 {
		t.Fatalf("MaxDailyNotifications = %d after update", reloaded.MaxDailyNotifications)
	}
}

func TestMemoryHobbiesActiveOnly(t *testing.T) {
	ctx := context.Background()
	mem := NewMemoryStore()

	if err := mem.Hobbies.Create(ctx, &models.Hobby{Name: "climbing", Active: true}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := mem.Hobbies.Create(ctx, &models.Hobby{Name: "skiing", Active: false}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	active, err := mem.Hobbies.GetActive(ctx)
	if err != nil {
		t.Fatalf("GetActive: %v", err)
	}
	if len(active) != 1 || active[0].Name != "climbing" {
		t.Fatalf("active = %+v", active)
	}
}
