package evaluator

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/suu3play/hobby-weather-sub000/internal/models"
)

// ReportOptions describes the reporting period.
type ReportOptions struct {
	Period    string // daily, weekly, monthly
	DaysBack  int
	DaysAhead int
}

// DefaultReportOptions returns the daily report defaults.
func DefaultReportOptions() ReportOptions {
	return ReportOptions{Period: "daily", DaysBack: 1, DaysAhead: 3}
}

// TextPolisher optionally rewrites the composed digest for tone. Any error
// leaves the composed text untouched.
type TextPolisher interface {
	PolishDigest(ctx context.Context, text string) (string, error)
}

const (
	reportExcellentBar = 80
	reportRestDayBar   = 60
	reportTopCount     = 5
	reportActionLimit  = 4
)

// ReportEvaluator composes the periodic digest. It has no cooldown of its
// own; cadence comes entirely from the owning config's schedule.
type ReportEvaluator struct {
	forecast  ForecastProvider
	hobbies   HobbySource
	recommend RecommendFunc
	history   HistoryReader
	polisher  TextPolisher
	opts      ReportOptions
}

func NewReportEvaluator(forecast ForecastProvider, hobbies HobbySource, recommend RecommendFunc, history HistoryReader, polisher TextPolisher, opts ReportOptions) *ReportEvaluator {
	if opts.Period == "" {
		opts = DefaultReportOptions()
	}
	return &ReportEvaluator{
		forecast:  forecast,
		hobbies:   hobbies,
		recommend: recommend,
		history:   history,
		polisher:  polisher,
		opts:      opts,
	}
}

func (e *ReportEvaluator) Type() models.NotificationType { return models.TypeRegularReport }

func (e *ReportEvaluator) Evaluate(ctx context.Context, ec EvalContext) (Result, error) {
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
	top := recs
	if len(top) > reportTopCount {
		top = top[:reportTopCount]
	}

	reportsSent, err := e.reportsInTrailing30Days(ctx, ec.Now)
	if err != nil {
		return Result{}, err
	}

	sections := []string{
		summarySection(recs),
		weatherSection(&forecast.Current),
		statsSection(recs, top, reportsSent),
	}
	if actions := actionSection(recs, &forecast.Current); actions != "" {
		sections = append(sections, actions)
	}
	message := strings.Join(sections, "\n\n")

	if e.polisher != nil {
		polished, err := e.polisher.PolishDigest(ctx, message)
		if err != nil {
			log.Printf("Digest polish failed, using composed text: %v", err)
		} else if polished != "" {
			message = polished
		}
	}

	period := e.opts.Period
	if ec.Config != nil && ec.Config.Conditions.Period != "" {
		period = ec.Config.Conditions.Period
	}

	return Result{
		Notify:   true,
		Title:    fmt.Sprintf("Your %s hobby report", period),
		Message:  message,
		Priority: models.PriorityLow,
		Data: map[string]any{
			"period":       period,
			"hobby_count":  len(hobbies),
			"reports_sent": reportsSent,
		},
	}, nil
}

func (e *ReportEvaluator) reportsInTrailing30Days(ctx context.Context, now time.Time) (int, error) {
	records, err := e.history.GetRecentByType(ctx, models.TypeRegularReport, now.AddDate(0, 0, -30))
	if err != nil {
		return 0, fmt.Errorf("failed to load report history: %w", err)
	}
	return len(records), nil
}

func summarySection(recs []models.Recommendation) string {
	excellent := 0
	for _, rec := range recs {
		if rec.OverallScore >= reportExcellentBar {
			excellent++
		}
	}
	switch excellent {
	case 0:
		return "No hobby is a standout today — check the details below."
	case 1:
		return "1 of your hobbies looks excellent today."
	default:
		return fmt.Sprintf("%d of your hobbies look excellent today.", excellent)
	}
}

func weatherSection(current *models.CurrentConditions) string {
	lines := []string{
		fmt.Sprintf("Weather: %s, %.0f°C", current.Description, current.Temperature),
	}
	switch {
	case current.PrecipitationProbability >= 50:
		lines = append(lines, fmt.Sprintf("Rain is likely (%.0f%%) — plan indoor options.", current.PrecipitationProbability))
	case current.PrecipitationProbability >= 30:
		lines = append(lines, fmt.Sprintf("Some chance of showers (%.0f%%).", current.PrecipitationProbability))
	}
	if current.WindSpeed >= 10 {
		lines = append(lines, fmt.Sprintf("Wind at %.0f — secure loose gear.", current.WindSpeed))
	}
	if current.UVIndex >= 8 {
		lines = append(lines, fmt.Sprintf("UV index %.0f is very high.", current.UVIndex))
	}
	return strings.Join(lines, "\n")
}

func statsSection(recs []models.Recommendation, top []models.Recommendation, reportsSent int) string {
	avg := 0.0
	for _, rec := range recs {
		avg += rec.OverallScore
	}
	if len(recs) > 0 {
		avg /= float64(len(recs))
	}

	indoor, outdoor := 0, 0
	for _, rec := range top {
		if rec.Hobby.Indoor {
			indoor++
		} else {
			outdoor++
		}
	}

	return fmt.Sprintf("Average score %.0f | top picks: %d outdoor, %d indoor | %d reports in the last 30 days",
		avg, outdoor, indoor, reportsSent)
}

func actionSection(recs []models.Recommendation, current *models.CurrentConditions) string {
	var actions []string
	if current.PrecipitationProbability >= 30 {
		actions = append(actions, "• Pack rain gear for anything outdoors")
	}
	if current.UVIndex >= 8 {
		actions = append(actions, "• Use sun protection during midday hours")
	}
	if current.WindSpeed >= 10 {
		actions = append(actions, "• Watch the wind for cycling or water sports")
	}
	if current.Temperature >= 30 {
		actions = append(actions, "• Stay hydrated, it is hot out there")
	} else if current.Temperature <= 0 {
		actions = append(actions, "• Dress in layers, temperatures are freezing")
	}

	allBelowRestBar := len(recs) > 0
	for _, rec := range recs {
		if rec.OverallScore >= reportRestDayBar {
			allBelowRestBar = false
			break
		}
	}
	if allBelowRestBar {
		actions = append(actions, "• Conditions are poor across the board — a rest day is fine too")
	}

	if len(actions) == 0 {
		return ""
	}
	if len(actions) > reportActionLimit {
		actions = actions[:reportActionLimit]
	}
	return "Suggestions:\n" + strings.Join(actions, "\n")
}
