// Package evaluator decides, per notification family, whether current
// conditions warrant sending and builds the message. One implementation
// exists per family; the scheduler selects by config type.
package evaluator

import (
	"context"
	"time"

	"github.com/suu3play/hobby-weather-sub000/internal/models"
)

// EvalContext carries the firing config and the evaluation time.
type EvalContext struct {
	Config *models.NotificationConfig
	Now    time.Time
}

// Result is the outcome of one evaluation. Notify false with a Reason is a
// normal, expected outcome (data unavailable, threshold not met, cooldown),
// never an error.
type Result struct {
	Notify     bool
	Reason     string
	Title      string
	Message    string
	Priority   models.Priority
	SubjectKey string
	Data       map[string]any
}

// Skip builds a not-sent result with a reason.
func Skip(reason string) Result {
	return Result{Notify: false, Reason: reason}
}

// Evaluator decides whether one notification family should fire.
type Evaluator interface {
	Type() models.NotificationType
	Evaluate(ctx context.Context, ec EvalContext) (Result, error)
}

// ForecastProvider supplies the current forecast. A nil forecast or an
// error is a reportable-but-non-fatal condition for every evaluator.
type ForecastProvider interface {
	CurrentForecast(ctx context.Context) (*models.Forecast, error)
}

// HobbySource supplies the user's active hobbies.
type HobbySource interface {
	GetActive(ctx context.Context) ([]*models.Hobby, error)
}

// HistoryReader supplies recent send history for cooldown checks.
type HistoryReader interface {
	GetRecentByType(ctx context.Context, typ models.NotificationType, since time.Time) ([]*models.NotificationHistory, error)
}

// RecommendFunc scores hobbies against a forecast, sorted descending by
// overall score. It must be a pure function of its inputs.
type RecommendFunc func(hobbies []*models.Hobby, forecast *models.Forecast) []models.Recommendation

// severityIcon maps a priority to the tone marker used in titles.
func severityIcon(p models.Priority) string {
	switch p {
	case models.PriorityLow:
		return "ℹ️"
	case models.PriorityMedium:
		return "⚠️"
	case models.PriorityHigh:
		return "🚨"
	case models.PriorityUrgent:
		return "‼️"
	default:
		return "ℹ️"
	}
}
