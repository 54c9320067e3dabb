package models

import (
	"testing"
	"time"
)

func TestTimeWindowContains(t *testing.T) {
	day := TimeWindow{Start: "09:00", End: "18:00"}

	if !day.Contains(clockTime(9, 0)) {
		t.Error("expected window start to be inside")
	}
	if day.Contains(clockTime(18, 0)) {
		t.Error("expected window end to be outside")
	}
	if day.Contains(clockTime(8, 59)) {
		t.Error("expected time before the window to be outside")
	}

	overnight := TimeWindow{Start: "22:00", End: "06:00"}
	if !overnight.Contains(clockTime(23, 0)) {
		t.Error("expected 23:00 inside the overnight window")
	}
	if !overnight.Contains(clockTime(1, 0)) {
		t.Error("expected 01:00 inside the overnight window")
	}
	if overnight.Contains(clockTime(12, 0)) {
		t.Error("expected midday outside the overnight window")
	}

	empty := TimeWindow{Start: "10:00", End: "10:00"}
	if empty.Contains(clockTime(10, 0)) {
		t.Error("expected an empty window to contain nothing")
	}
}

func TestScheduleAllowsWeekday(t *testing.T) {
	weekdays := Schedule{DaysOfWeek: []int{1, 2, 3, 4, 5}}
	monday := time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC)
	saturday := time.Date(2026, 1, 3, 10, 0, 0, 0, time.UTC)

	if !weekdays.AllowsWeekday(monday) {
		t.Error("expected Monday to be allowed")
	}
	if weekdays.AllowsWeekday(saturday) {
		t.Error("expected Saturday to be rejected")
	}

	anyDay := Schedule{}
	if !anyDay.AllowsWeekday(saturday) {
		t.Error("expected empty day set to allow every day")
	}
}

func TestScheduleAllowsTime(t *testing.T) {
	s := Schedule{Windows: []TimeWindow{
		{Start: "09:00", End: "12:00"},
		{Start: "14:00", End: "18:00"},
	}}

	if !s.AllowsTime(clockTime(10, 0)) {
		t.Error("expected 10:00 inside the first window")
	}
	if s.AllowsTime(clockTime(13, 0)) {
		t.Error("expected 13:00 between windows to be rejected")
	}
	if !s.AllowsTime(clockTime(15, 30)) {
		t.Error("expected 15:30 inside the second window")
	}

	open := Schedule{}
	if !open.AllowsTime(clockTime(3, 0)) {
		t.Error("expected no windows to allow any time")
	}
}

func TestScheduleJSONRoundTrip(t *testing.T) {
	config := &NotificationConfig{
		Schedule: Schedule{
			Frequency:  FrequencyDaily,
			Windows:    []TimeWindow{{Start: "08:00", End: "08:30"}},
			DaysOfWeek: []int{0, 6},
		},
	}

	data, err := config.MarshalScheduleJSON()
	if err != nil {
		t.Fatalf("marshal schedule: %v", err)
	}

	decoded := &NotificationConfig{}
	if err := decoded.UnmarshalScheduleJSON(data); err != nil {
		t.Fatalf("unmarshal schedule: %v", err)
	}
	if decoded.Schedule.Frequency != FrequencyDaily {
		t.Errorf("frequency = %q, want daily", decoded.Schedule.Frequency)
	}
	if len(decoded.Schedule.Windows) != 1 || decoded.Schedule.Windows[0].Start != "08:00" {
		t.Errorf("windows = %+v, want one 08:00 window", decoded.Schedule.Windows)
	}
}

func TestSubjectKeyContains(t *testing.T) {
	h := &NotificationHistory{SubjectKey: JoinSubjectKey([]string{"7", "12"})}

	if !h.SubjectKeyContains("7") {
		t.Error("expected subject 7 to match")
	}
	if !h.SubjectKeyContains("12") {
		t.Error("expected subject 12 to match")
	}
	if h.SubjectKeyContains("1") {
		t.Error("subject 1 must not match by substring")
	}
	if h.SubjectKeyContains("") {
		t.Error("empty subject must not match")
	}
}
