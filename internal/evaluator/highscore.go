package evaluator

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/suu3play/hobby-weather-sub000/internal/models"
)

// HighScoreOptions tunes the high-score evaluator.
type HighScoreOptions struct {
	MinScore float64
	TopN     int
	Cooldown time.Duration
}

// DefaultHighScoreOptions returns the production thresholds.
func DefaultHighScoreOptions() HighScoreOptions {
	return HighScoreOptions{MinScore: 80, TopN: 3, Cooldown: 6 * time.Hour}
}

// DebugHighScoreOptions lowers the bar for manual testing triggers.
func DebugHighScoreOptions() HighScoreOptions {
	return HighScoreOptions{MinScore: 60, TopN: 5, Cooldown: 0}
}

// HighScoreEvaluator fires when at least one hobby scores above the
// threshold and no recent notification already named it.
type HighScoreEvaluator struct {
	forecast  ForecastProvider
	hobbies   HobbySource
	recommend RecommendFunc
	history   HistoryReader
	opts      HighScoreOptions
}

func NewHighScoreEvaluator(forecast ForecastProvider, hobbies HobbySource, recommend RecommendFunc, history HistoryReader, opts HighScoreOptions) *HighScoreEvaluator {
	if opts.TopN <= 0 {
		opts = DefaultHighScoreOptions()
	}
	return &HighScoreEvaluator{
		forecast:  forecast,
		hobbies:   hobbies,
		recommend: recommend,
		history:   history,
		opts:      opts,
	}
}

func (e *HighScoreEvaluator) Type() models.NotificationType { return models.TypeHighScore }

func (e *HighScoreEvaluator) Evaluate(ctx context.Context, ec EvalContext) (Result, error) {
	opts := e.optionsFor(ec.Config)

	forecast, err := e.forecast.CurrentForecast(ctx)
	if err != nil || forecast == nil {
		return Skip("forecast unavailable"), nil
	}

	hobbies, err := e.hobbies.GetActive(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("failed to load hobbies: %w", err)
	}
	if len(hobbies) == 0 {
		return Skip("no active hobbies"), nil
	}

	recs := e.recommend(hobbies, forecast)

	var qualifying []models.Recommendation
	for _, rec := range recs {
		if rec.OverallScore >= opts.MinScore {
			qualifying = append(qualifying, rec)
		}
		if len(qualifying) >= opts.TopN {
			break
		}
	}
	if len(qualifying) == 0 {
		return Skip("no hobby meets threshold"), nil
	}

	if opts.Cooldown > 0 {
		onCooldown, err := e.inCooldown(ctx, qualifying, ec.Now, opts.Cooldown)
		if err != nil {
			return Result{}, err
		}
		if onCooldown {
			return Skip("cooldown active"), nil
		}
	}

	return e.buildResult(qualifying, forecast), nil
}

// optionsFor overlays config-level thresholds on the evaluator defaults.
func (e *HighScoreEvaluator) optionsFor(config *models.NotificationConfig) HighScoreOptions {
	opts := e.opts
	if config == nil {
		return opts
	}
	if config.Conditions.MinScore > 0 {
		opts.MinScore = config.Conditions.MinScore
	}
	if config.Conditions.TopN > 0 {
		opts.TopN = config.Conditions.TopN
	}
	if config.Conditions.CooldownHours > 0 {
		opts.Cooldown = time.Duration(config.Conditions.CooldownHours * float64(time.Hour))
	}
	return opts
}

// inCooldown reports whether any qualifying hobby was already named by a
// high-score notification within the cooldown window.
func (e *HighScoreEvaluator) inCooldown(ctx context.Context, qualifying []models.Recommendation, now time.Time, cooldown time.Duration) (bool, error) {
	recent, err := e.history.GetRecentByType(ctx, models.TypeHighScore, now.Add(-cooldown))
	if err != nil {
		return false, fmt.Errorf("failed to load history: %w", err)
	}
	for _, h := range recent {
		for _, rec := range qualifying {
			if h.SubjectKeyContains(hobbySubject(rec.Hobby.ID)) {
				return true, nil
			}
		}
	}
	return false, nil
}

func (e *HighScoreEvaluator) buildResult(qualifying []models.Recommendation, forecast *models.Forecast) Result {
	subjects := make([]string, len(qualifying))
	hobbyIDs := make([]int64, len(qualifying))
	for i, rec := range qualifying {
		subjects[i] = hobbySubject(rec.Hobby.ID)
		hobbyIDs[i] = rec.Hobby.ID
	}

	var title, message string
	if len(qualifying) == 1 {
		rec := qualifying[0]
		title = fmt.Sprintf("Great conditions for %s", rec.Hobby.Name)
		message = fmt.Sprintf("%s: %s, %.0f°C (score %d)",
			rec.Hobby.Name, forecast.Current.Description, forecast.Current.Temperature,
			int(math.Round(rec.OverallScore)))
	} else {
		names := make([]string, 0, 3)
		maxScore := 0.0
		for i, rec := range qualifying {
			if i < 3 {
				names = append(names, rec.Hobby.Name)
			}
			if rec.OverallScore > maxScore {
				maxScore = rec.OverallScore
			}
		}
		title = fmt.Sprintf("%d hobbies look great right now", len(qualifying))
		message = fmt.Sprintf("%s — %s, %.0f°C (best score %d)",
			strings.Join(names, ", "), forecast.Current.Description, forecast.Current.Temperature,
			int(math.Round(maxScore)))
	}

	return Result{
		Notify:     true,
		Title:      title,
		Message:    message,
		Priority:   models.PriorityMedium,
		SubjectKey: models.JoinSubjectKey(subjects),
		Data: map[string]any{
			"hobby_ids": hobbyIDs,
		},
	}
}

func hobbySubject(id int64) string {
	return strconv.FormatInt(id, 10)
}
