package models

import (
	"encoding/json"
	"time"
)

// NotificationType identifies one notification family.
type NotificationType string

const (
	TypeHighScore     NotificationType = "high-score"
	TypeWeatherAlert  NotificationType = "weather-alert"
	TypeRegularReport NotificationType = "regular-report"
)

// Priority of a notification, lowest to highest.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// Frequency controls how next run times are computed for a config.
type Frequency string

const (
	FrequencyImmediate Frequency = "immediate"
	FrequencyDaily     Frequency = "daily"
	FrequencyWeekly    Frequency = "weekly"
	FrequencyCustom    Frequency = "custom"
)

// TimeWindow is an allowed clock-time range in "HH:MM" format.
// Start > End means the window spans midnight.
type TimeWindow struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Contains reports whether t falls inside the window. Start is inclusive,
// End exclusive. A window with Start == End is empty.
func (w TimeWindow) Contains(t time.Time) bool {
	currentMinutes := t.Hour()*60 + t.Minute()

	startHour, startMin := ParseClockTime(w.Start)
	endHour, endMin := ParseClockTime(w.End)

	startMinutes := startHour*60 + startMin
	endMinutes := endHour*60 + endMin

	// Overnight window (e.g., 22:00 - 06:00)
	if startMinutes > endMinutes {
		return currentMinutes >= startMinutes || currentMinutes < endMinutes
	}

	return currentMinutes >= startMinutes && currentMinutes < endMinutes
}

// Schedule describes when a notification config may fire.
type Schedule struct {
	Frequency Frequency `json:"frequency"`
	// Windows is the ordered set of allowed time-of-day windows.
	Windows []TimeWindow `json:"time_of_day"`
	// DaysOfWeek holds allowed weekdays, 0=Sunday .. 6=Saturday.
	// Empty means every day.
	DaysOfWeek []int `json:"days_of_week"`
	// CustomIntervalMinutes is used only when Frequency is custom.
	CustomIntervalMinutes int `json:"custom_interval_minutes"`
}

// AllowsWeekday reports whether t's weekday is in the allowed set.
func (s Schedule) AllowsWeekday(t time.Time) bool {
	if len(s.DaysOfWeek) == 0 {
		return true
	}
	wd := int(t.Weekday())
	for _, d := range s.DaysOfWeek {
		if d == wd {
			return true
		}
	}
	return false
}

// AllowsTime reports whether t falls inside any allowed window.
func (s Schedule) AllowsTime(t time.Time) bool {
	if len(s.Windows) == 0 {
		return true
	}
	for _, w := range s.Windows {
		if w.Contains(t) {
			return true
		}
	}
	return false
}

// Conditions holds type-specific thresholds for a config. Only the fields
// relevant to the config's type are meaningful; the struct is stored as a
// single JSONB column.
type Conditions struct {
	// High-score family
	MinScore      float64 `json:"min_score,omitempty"`
	TopN          int     `json:"top_n,omitempty"`
	CooldownHours float64 `json:"cooldown_hours,omitempty"`

	// Regular-report family
	Period    string `json:"period,omitempty"` // daily, weekly, monthly
	DaysBack  int    `json:"days_back,omitempty"`
	DaysAhead int    `json:"days_ahead,omitempty"`
}

// NotificationConfig is a user-editable notification rule.
type NotificationConfig struct {
	ID         string           `json:"id"`
	Type       NotificationType `json:"type"`
	Enabled    bool             `json:"enabled"`
	Title      string           `json:"title"`
	Priority   Priority         `json:"priority"`
	Schedule   Schedule         `json:"schedule"`
	Conditions Conditions       `json:"conditions"`
	CreatedAt  time.Time        `json:"created_at"`
	UpdatedAt  time.Time        `json:"updated_at"`
}

// MarshalScheduleJSON serializes the schedule for database storage.
func (c *NotificationConfig) MarshalScheduleJSON() ([]byte, error) {
	return json.Marshal(c.Schedule)
}

// UnmarshalScheduleJSON parses a schedule JSONB column.
func (c *NotificationConfig) UnmarshalScheduleJSON(data []byte) error {
	return json.Unmarshal(data, &c.Schedule)
}

// MarshalConditionsJSON serializes the conditions for database storage.
func (c *NotificationConfig) MarshalConditionsJSON() ([]byte, error) {
	return json.Marshal(c.Conditions)
}

// UnmarshalConditionsJSON parses a conditions JSONB column.
func (c *NotificationConfig) UnmarshalConditionsJSON(data []byte) error {
	return json.Unmarshal(data, &c.Conditions)
}

// ParseClockTime parses "HH:MM" format to hours and minutes.
func ParseClockTime(timeStr string) (hour, min int) {
	t, err := time.Parse("15:04", timeStr)
	if err != nil {
		return 0, 0
	}
	return t.Hour(), t.Minute()
}
