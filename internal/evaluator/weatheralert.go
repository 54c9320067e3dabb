package evaluator

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/suu3play/hobby-weather-sub000/internal/models"
)

// Comparison direction for a threshold condition.
const (
	CompareAbove = "above"
	CompareBelow = "below"
)

// ThresholdCondition compares one current-forecast metric to a value.
type ThresholdCondition struct {
	Metric     string // precipitation, temperature, wind, uv, visibility
	Comparison string // above, below
	Value      float64
}

// AlertRule is a named weather alert: it fires only when all of its
// conditions hold simultaneously, and is suppressed while a notification
// with the same key exists inside the cooldown window.
type AlertRule struct {
	Key        string
	Name       string
	Conditions []ThresholdCondition
	Severity   models.Priority
	Cooldown   time.Duration
}

// DefaultAlertRules returns the built-in alert table.
func DefaultAlertRules() []AlertRule {
	return []AlertRule{
		{
			Key:  "heavy-rain",
			Name: "Heavy rain expected",
			Conditions: []ThresholdCondition{
				{Metric: "precipitation", Comparison: CompareAbove, Value: 70},
			},
			Severity: models.PriorityHigh,
			Cooldown: 120 * time.Minute,
		},
		{
			Key:  "strong-wind",
			Name: "Strong wind",
			Conditions: []ThresholdCondition{
				{Metric: "wind", Comparison: CompareAbove, Value: 15},
			},
			Severity: models.PriorityHigh,
			Cooldown: 120 * time.Minute,
		},
		{
			Key:  "extreme-heat",
			Name: "Extreme heat",
			Conditions: []ThresholdCondition{
				{Metric: "temperature", Comparison: CompareAbove, Value: 35},
			},
			Severity: models.PriorityUrgent,
			Cooldown: 180 * time.Minute,
		},
		{
			Key:  "freezing",
			Name: "Freezing temperature",
			Conditions: []ThresholdCondition{
				{Metric: "temperature", Comparison: CompareBelow, Value: 0},
			},
			Severity: models.PriorityMedium,
			Cooldown: 180 * time.Minute,
		},
		{
			Key:  "extreme-uv",
			Name: "Very high UV",
			Conditions: []ThresholdCondition{
				{Metric: "uv", Comparison: CompareAbove, Value: 8},
			},
			Severity: models.PriorityMedium,
			Cooldown: 240 * time.Minute,
		},
		{
			Key:  "low-visibility",
			Name: "Low visibility",
			Conditions: []ThresholdCondition{
				{Metric: "visibility", Comparison: CompareBelow, Value: 1},
			},
			Severity: models.PriorityHigh,
			Cooldown: 120 * time.Minute,
		},
	}
}

// suddenChangeWindow bounds how far apart two forecast snapshots may be
// for their delta to count as a sudden change.
const suddenChangeWindow = 60 * time.Minute

// suddenChangeCooldown suppresses repeats of the same sudden-change key.
const suddenChangeCooldown = 60 * time.Minute

type firedAlert struct {
	key      string
	name     string
	severity models.Priority
	detail   string
}

// WeatherAlertEvaluator fires on threshold rules and on sudden changes
// between two recent forecast snapshots. The previous snapshot is explicit
// per-evaluator state, never shared globally.
type WeatherAlertEvaluator struct {
	forecast ForecastProvider
	history  HistoryReader
	rules    []AlertRule

	mu     sync.Mutex
	prev   *models.Forecast
	prevAt time.Time
}

func NewWeatherAlertEvaluator(forecast ForecastProvider, history HistoryReader, rules []AlertRule) *WeatherAlertEvaluator {
	if len(rules) == 0 {
		rules = DefaultAlertRules()
	}
	return &WeatherAlertEvaluator{forecast: forecast, history: history, rules: rules}
}

func (e *WeatherAlertEvaluator) Type() models.NotificationType { return models.TypeWeatherAlert }

func (e *WeatherAlertEvaluator) Evaluate(ctx context.Context, ec EvalContext) (Result, error) {
	forecast, err := e.forecast.CurrentForecast(ctx)
	if err != nil || forecast == nil {
		return Skip("forecast unavailable"), nil
	}

	var fired []firedAlert
	for _, rule := range e.rules {
		if !ruleMatches(rule, &forecast.Current) {
			continue
		}
		suppressed, err := e.onCooldown(ctx, rule.Key, rule.Cooldown, ec.Now)
		if err != nil {
			return Result{}, err
		}
		if suppressed {
			continue
		}
		fired = append(fired, firedAlert{
			key:      rule.Key,
			name:     rule.Name,
			severity: rule.Severity,
			detail:   ruleDetail(rule, &forecast.Current),
		})
	}

	sudden, err := e.detectSuddenChanges(ctx, forecast, ec.Now)
	if err != nil {
		return Result{}, err
	}
	fired = append(fired, sudden...)

	if len(fired) == 0 {
		return Skip("no alert conditions met"), nil
	}
	return buildAlertResult(fired), nil
}

func ruleMatches(rule AlertRule, current *models.CurrentConditions) bool {
	for _, cond := range rule.Conditions {
		value, ok := metricValue(cond.Metric, current)
		if !ok {
			return false
		}
		switch cond.Comparison {
		case CompareAbove:
			if value <= cond.Value {
				return false
			}
		case CompareBelow:
			if value >= cond.Value {
				return false
			}
		default:
			return false
		}
	}
	return len(rule.Conditions) > 0
}

func metricValue(metric string, current *models.CurrentConditions) (float64, bool) {
	switch metric {
	case "precipitation":
		return current.PrecipitationProbability, true
	case "temperature":
		return current.Temperature, true
	case "wind":
		return current.WindSpeed, true
	case "uv":
		return current.UVIndex, true
	case "visibility":
		return current.Visibility, true
	}
	return 0, false
}

func ruleDetail(rule AlertRule, current *models.CurrentConditions) string {
	parts := make([]string, 0, len(rule.Conditions))
	for _, cond := range rule.Conditions {
		value, _ := metricValue(cond.Metric, current)
		parts = append(parts, fmt.Sprintf("%s %.1f (threshold %.1f)", cond.Metric, value, cond.Value))
	}
	return strings.Join(parts, ", ")
}

// detectSuddenChanges compares the previous snapshot with the current one.
// Snapshots further apart than suddenChangeWindow are unrelated data, not a
// sudden change. The current snapshot always becomes the new baseline.
func (e *WeatherAlertEvaluator) detectSuddenChanges(ctx context.Context, forecast *models.Forecast, now time.Time) ([]firedAlert, error) {
	e.mu.Lock()
	prev, prevAt := e.prev, e.prevAt
	e.prev = forecast
	e.prevAt = now
	e.mu.Unlock()

	if prev == nil || now.Sub(prevAt) > suddenChangeWindow {
		return nil, nil
	}

	var fired []firedAlert

	tempDelta := forecast.Current.Temperature - prev.Current.Temperature
	if tempDelta >= 5 || tempDelta <= -5 {
		severity := models.PriorityHigh
		if tempDelta >= 10 || tempDelta <= -10 {
			severity = models.PriorityUrgent
		}
		fired = append(fired, firedAlert{
			key:      "sudden-temperature",
			name:     "Sudden temperature change",
			severity: severity,
			detail:   fmt.Sprintf("temperature moved %+.1f°C", tempDelta),
		})
	}

	precipDelta := forecast.Current.PrecipitationProbability - prev.Current.PrecipitationProbability
	if precipDelta >= 30 {
		severity := models.PriorityHigh
		if precipDelta >= 50 {
			severity = models.PriorityUrgent
		}
		fired = append(fired, firedAlert{
			key:      "sudden-precipitation",
			name:     "Rain chance jumped",
			severity: severity,
			detail:   fmt.Sprintf("precipitation probability up %+.0f points", precipDelta),
		})
	}

	windDelta := forecast.Current.WindSpeed - prev.Current.WindSpeed
	if windDelta >= 10 {
		severity := models.PriorityHigh
		if windDelta >= 15 {
			severity = models.PriorityUrgent
		}
		fired = append(fired, firedAlert{
			key:      "sudden-wind",
			name:     "Wind picking up fast",
			severity: severity,
			detail:   fmt.Sprintf("wind speed up %+.1f", windDelta),
		})
	}

	// Sudden-change keys share the cooldown mechanism with named rules.
	kept := fired[:0]
	for _, alert := range fired {
		suppressed, err := e.onCooldown(ctx, alert.key, suddenChangeCooldown, now)
		if err != nil {
			return nil, err
		}
		if !suppressed {
			kept = append(kept, alert)
		}
	}
	return kept, nil
}

func (e *WeatherAlertEvaluator) onCooldown(ctx context.Context, key string, cooldown time.Duration, now time.Time) (bool, error) {
	if cooldown <= 0 {
		return false, nil
	}
	recent, err := e.history.GetRecentByType(ctx, models.TypeWeatherAlert, now.Add(-cooldown))
	if err != nil {
		return false, fmt.Errorf("failed to load history: %w", err)
	}
	for _, h := range recent {
		if h.SubjectKeyContains(key) {
			return true, nil
		}
	}
	return false, nil
}

func buildAlertResult(fired []firedAlert) Result {
	highest := fired[0]
	for _, alert := range fired[1:] {
		if severityRank(alert.severity) > severityRank(highest.severity) {
			highest = alert
		}
	}

	keys := make([]string, len(fired))
	lines := make([]string, len(fired))
	for i, alert := range fired {
		keys[i] = alert.key
		lines[i] = fmt.Sprintf("%s %s: %s", severityIcon(alert.severity), alert.name, alert.detail)
	}

	return Result{
		Notify:     true,
		Title:      fmt.Sprintf("%s %s", severityIcon(highest.severity), highest.name),
		Message:    strings.Join(lines, "\n"),
		Priority:   highest.severity,
		SubjectKey: models.JoinSubjectKey(keys),
		Data: map[string]any{
			"alert_keys": keys,
		},
	}
}

func severityRank(p models.Priority) int {
	switch p {
	case models.PriorityLow:
		return 0
	case models.PriorityMedium:
		return 1
	case models.PriorityHigh:
		return 2
	case models.PriorityUrgent:
		return 3
	}
	return 0
}
