package evaluator

import (
	"context"
	"strings"
	"testing"

	"github.com/suu3play/hobby-weather-sub000/internal/models"
)

func newReport(forecast *stubForecast, hobbies []*models.Hobby, scores map[int64]float64, history *stubHistory, polisher TextPolisher) *ReportEvaluator {
	return NewReportEvaluator(forecast, &stubHobbies{hobbies: hobbies}, fixedRecommend(scores), history, polisher, DefaultReportOptions())
}

func TestReportComposesDigest(t *testing.T) {
	e := newReport(
		&stubForecast{forecast: fairForecast()},
		[]*models.Hobby{hobby(1, "climbing"), hobby(2, "reading")},
		map[int64]float64{1: 85, 2: 70},
		&stubHistory{},
		nil,
	)

	result, err := e.Evaluate(context.Background(), EvalContext{Now: evalNow})
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if !result.Notify {
		t.Fatalf("expected the report to always send, got %q", result.Reason)
	}
	if result.Title != "Your daily hobby report" {
		t.Errorf("title = %q", result.Title)
	}
	if result.Priority != models.PriorityLow {
		t.Errorf("priority = %q, want low", result.Priority)
	}
	for _, want := range []string{"1 of your hobbies look", "Weather: clear sky", "Average score"} {
		if !strings.Contains(result.Message, want) {
			t.Errorf("message missing %q:\n%s", want, result.Message)
		}
	}
}

func TestReportNoHobbiesSkips(t *testing.T) {
	e := newReport(&stubForecast{forecast: fairForecast()}, nil, nil, &stubHistory{}, nil)

	result, err := e.Evaluate(context.Background(), EvalContext{Now: evalNow})
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if result.Notify || result.Reason != "no active hobbies" {
		t.Errorf("result = %+v, want no-hobbies skip", result)
	}
}

func TestReportForecastUnavailableSkips(t *testing.T) {
	e := newReport(&stubForecast{}, []*models.Hobby{hobby(1, "climbing")}, nil, &stubHistory{}, nil)

	result, err := e.Evaluate(context.Background(), EvalContext{Now: evalNow})
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if result.Notify || result.Reason != "forecast unavailable" {
		t.Errorf("result = %+v, want forecast-unavailable skip", result)
	}
}

func TestReportRestDaySuggestion(t *testing.T) {
	e := newReport(
		&stubForecast{forecast: fairForecast()},
		[]*models.Hobby{hobby(1, "climbing"), hobby(2, "cycling")},
		map[int64]float64{1: 40, 2: 55},
		&stubHistory{},
		nil,
	)

	result, err := e.Evaluate(context.Background(), EvalContext{Now: evalNow})
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if !strings.Contains(result.Message, "rest day") {
		t.Errorf("message should suggest a rest day when every score is poor:\n%s", result.Message)
	}
}

func TestReportPolisherRewritesMessage(t *testing.T) {
	e := newReport(
		&stubForecast{forecast: fairForecast()},
		[]*models.Hobby{hobby(1, "climbing")},
		map[int64]float64{1: 85},
		&stubHistory{},
		&stubPolisher{text: "A lovely day for climbing."},
	)

	result, err := e.Evaluate(context.Background(), EvalContext{Now: evalNow})
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if result.Message != "A lovely day for climbing." {
		t.Errorf("message = %q, want the polished text", result.Message)
	}
}

func TestReportPolisherFailureFallsBack(t *testing.T) {
	e := newReport(
		&stubForecast{forecast: fairForecast()},
		[]*models.Hobby{hobby(1, "climbing")},
		map[int64]float64{1: 85},
		&stubHistory{},
		&stubPolisher{err: errPolish},
	)

	result, err := e.Evaluate(context.Background(), EvalContext{Now: evalNow})
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if !result.Notify {
		t.Fatal("a polish failure must not block the report")
	}
	if !strings.Contains(result.Message, "Weather: clear sky") {
		t.Errorf("message = %q, want the composed fallback", result.Message)
	}
}

func TestReportPeriodFromConfig(t *testing.T) {
	e := newReport(
		&stubForecast{forecast: fairForecast()},
		[]*models.Hobby{hobby(1, "climbing")},
		map[int64]float64{1: 85},
		&stubHistory{},
		nil,
	)

	config := &models.NotificationConfig{
		Type:       models.TypeRegularReport,
		Conditions: models.Conditions{Period: "weekly"},
	}
	result, err := e.Evaluate(context.Background(), EvalContext{Config: config, Now: evalNow})
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if result.Title != "Your weekly hobby report" {
		t.Errorf("title = %q", result.Title)
	}
}
