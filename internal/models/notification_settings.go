package models

import "time"

// NotificationSettings is the singleton global notification policy.
type NotificationSettings struct {
	GlobalEnabled bool `json:"global_enabled"`
	// QuietStart/QuietEnd bound the quiet hours in "HH:MM" format.
	// Both empty means no quiet hours. QuietStart > QuietEnd means the
	// range spans midnight.
	QuietStart            string    `json:"quiet_start"`
	QuietEnd              string    `json:"quiet_end"`
	MaxDailyNotifications int       `json:"max_daily_notifications"`
	SoundEnabled          bool      `json:"sound_enabled"`
	VibrationEnabled      bool      `json:"vibration_enabled"`
	UpdatedAt             time.Time `json:"updated_at"`
}

// NewDefaultNotificationSettings creates settings with default values.
func NewDefaultNotificationSettings() *NotificationSettings {
	return &NotificationSettings{
		GlobalEnabled:         true,
		QuietStart:            "22:00",
		QuietEnd:              "07:00",
		MaxDailyNotifications: 10,
		SoundEnabled:          true,
		VibrationEnabled:      false,
		UpdatedAt:             time.Now(),
	}
}

// HasQuietHours reports whether quiet hours are configured.
func (s *NotificationSettings) HasQuietHours() bool {
	return s.QuietStart != "" && s.QuietEnd != ""
}

// InQuietHours checks if the given time is within quiet hours.
func (s *NotificationSettings) InQuietHours(t time.Time) bool {
	if !s.HasQuietHours() {
		return false
	}

	currentMinutes := t.Hour()*60 + t.Minute()

	startHour, startMin := ParseClockTime(s.QuietStart)
	endHour, endMin := ParseClockTime(s.QuietEnd)

	startMinutes := startHour*60 + startMin
	endMinutes := endHour*60 + endMin

	// Handle overnight quiet hours (e.g., 22:00 - 07:00)
	if startMinutes > endMinutes {
		return currentMinutes >= startMinutes || currentMinutes < endMinutes
	}

	return currentMinutes >= startMinutes && currentMinutes < endMinutes
}
