// Package app wires storage, evaluators, dispatch and the scheduler
// into one runnable unit.
package app

import (
	"context"
	"fmt"
	"log"

	"github.com/suu3play/hobby-weather-sub000/internal/ai"
	"github.com/suu3play/hobby-weather-sub000/internal/config"
	"github.com/suu3play/hobby-weather-sub000/internal/database"
	"github.com/suu3play/hobby-weather-sub000/internal/evaluator"
	"github.com/suu3play/hobby-weather-sub000/internal/notification"
	"github.com/suu3play/hobby-weather-sub000/internal/notify"
	"github.com/suu3play/hobby-weather-sub000/internal/recommend"
	"github.com/suu3play/hobby-weather-sub000/internal/repository"
	"github.com/suu3play/hobby-weather-sub000/internal/scheduler"
	"github.com/suu3play/hobby-weather-sub000/internal/weather"
)

// App owns the process-lifetime resources of the notifier.
type App struct {
	cfg        *config.Config
	db         *database.DB
	redisCache *weather.RedisCache
	store      *notification.Store
	scheduler  *scheduler.Scheduler
}

// New builds the full dependency graph. Postgres and Redis are used
// when configured and replaced by in-memory equivalents when not, so
// the notifier always starts.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	a := &App{cfg: cfg}

	store, hobbies, err := a.buildStorage(ctx)
	if err != nil {
		return nil, err
	}
	a.store = store

	cache := a.buildCache()
	forecasts := weather.NewClient(cfg.WeatherBaseURL, cfg.Latitude, cfg.Longitude, cache)

	var polisher evaluator.TextPolisher
	if cfg.AIAPIKey != "" {
		polisher = ai.New(cfg.AIAPIKey, cfg.AIBaseURL, cfg.AIModel)
	}

	evaluators := []evaluator.Evaluator{
		evaluator.NewHighScoreEvaluator(forecasts, hobbies, recommend.GenerateRecommendations, store.History, evaluator.DefaultHighScoreOptions()),
		evaluator.NewWeatherAlertEvaluator(forecasts, store.History, evaluator.DefaultAlertRules()),
		evaluator.NewReportEvaluator(forecasts, hobbies, recommend.GenerateRecommendations, store.History, polisher, evaluator.DefaultReportOptions()),
	}

	dispatcher, err := a.buildDispatcher()
	if err != nil {
		return nil, err
	}

	a.scheduler = scheduler.New(store, dispatcher, evaluators, nil)
	return a, nil
}

func (a *App) buildStorage(ctx context.Context) (*notification.Store, evaluator.HobbySource, error) {
	if a.cfg.DatabaseURI == "" {
		log.Printf("app: DATABASE_URI not set, using in-memory storage")
		mem := repository.NewMemoryStore()
		return notification.NewStore(mem.Configs, mem.History, mem.Settings), mem.Hobbies, nil
	}

	db, err := database.New(ctx, a.cfg.DatabaseURI)
	if err != nil {
		return nil, nil, fmt.Errorf("connect database: %w", err)
	}
	if err := db.Migrate(ctx); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("run migrations: %w", err)
	}
	a.db = db

	store := notification.NewStore(
		repository.NewNotificationConfigRepository(db),
		repository.NewNotificationHistoryRepository(db),
		repository.NewNotificationSettingsRepository(db),
	)
	return store, repository.NewHobbyRepository(db), nil
}

func (a *App) buildCache() weather.Cache {
	if a.cfg.RedisAddr == "" {
		return weather.NewMemoryCache()
	}
	a.redisCache = weather.NewRedisCache(a.cfg.RedisAddr, a.cfg.RedisPassword, 0)
	return a.redisCache
}

func (a *App) buildDispatcher() (notify.Dispatcher, error) {
	if a.cfg.TelegramToken == "" {
		log.Printf("app: TELEGRAM_TOKEN not set, notifications go to the console")
		return notify.NewConsoleDispatcher(), nil
	}
	dispatcher, err := notify.NewTelegramDispatcher(a.cfg.TelegramToken, a.cfg.TelegramChatID)
	if err != nil {
		return nil, fmt.Errorf("connect telegram: %w", err)
	}
	return dispatcher, nil
}

// Start seeds default configs and settings, then starts the scheduler.
func (a *App) Start(ctx context.Context) error {
	if err := a.store.CreateDefaultConfigs(ctx); err != nil {
		return fmt.Errorf("seed default configs: %w", err)
	}
	if _, err := a.store.Settings.GetOrCreate(ctx); err != nil {
		return fmt.Errorf("seed settings: %w", err)
	}
	return a.scheduler.Start(ctx)
}

// Stop shuts the scheduler down and releases storage connections.
func (a *App) Stop() {
	a.scheduler.Stop()
	if a.redisCache != nil {
		if err := a.redisCache.Close(); err != nil {
			log.Printf("app: close redis: %v", err)
		}
	}
	if a.db != nil {
		a.db.Close()
	}
}

// Store exposes the notification store for tooling and tests.
func (a *App) Store() *notification.Store { return a.store }

// Scheduler exposes the scheduler for status inspection.
func (a *App) Scheduler() *scheduler.Scheduler { return a.scheduler }
