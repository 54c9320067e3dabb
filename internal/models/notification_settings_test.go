package models

import (
	"testing"
	"time"
)

func clockTime(hour, min int) time.Time {
	return time.Date(2026, 1, 5, hour, min, 0, 0, time.UTC)
}

func TestInQuietHoursOvernight(t *testing.T) {
	s := &NotificationSettings{QuietStart: "22:00", QuietEnd: "07:00"}

	cases := []struct {
		at   time.Time
		want bool
	}{
		{clockTime(23, 30), true},
		{clockTime(2, 0), true},
		{clockTime(22, 0), true},  // start is inclusive
		{clockTime(7, 0), false},  // end is exclusive
		{clockTime(6, 59), true},
		{clockTime(12, 0), false},
		{clockTime(21, 59), false},
	}
	for _, tc := range cases {
		if got := s.InQuietHours(tc.at); got != tc.want {
			t.Errorf("InQuietHours(%s) = %v, want %v", tc.at.Format("15:04"), got, tc.want)
		}
	}
}

func TestInQuietHoursSameDay(t *testing.T) {
	s := &NotificationSettings{QuietStart: "13:00", QuietEnd: "15:00"}

	if !s.InQuietHours(clockTime(13, 0)) {
		t.Error("expected 13:00 to be quiet")
	}
	if !s.InQuietHours(clockTime(14, 30)) {
		t.Error("expected 14:30 to be quiet")
	}
	if s.InQuietHours(clockTime(15, 0)) {
		t.Error("expected 15:00 to be outside quiet hours")
	}
}

func TestInQuietHoursUnset(t *testing.T) {
	s := &NotificationSettings{}
	if s.InQuietHours(clockTime(3, 0)) {
		t.Error("expected no quiet hours when unset")
	}

	s = &NotificationSettings{QuietStart: "22:00"}
	if s.HasQuietHours() {
		t.Error("expected HasQuietHours to require both bounds")
	}
}

func TestInQuietHoursEmptyRange(t *testing.T) {
	// Start == End is an empty range, never quiet.
	s := &NotificationSettings{QuietStart: "08:00", QuietEnd: "08:00"}
	if s.InQuietHours(clockTime(8, 0)) {
		t.Error("expected start==end to never be quiet")
	}
	if s.InQuietHours(clockTime(12, 0)) {
		t.Error("expected start==end to never be quiet")
	}
}

func TestNewDefaultNotificationSettings(t *testing.T) {
	s := NewDefaultNotificationSettings()
	if !s.GlobalEnabled {
		t.Error("expected notifications enabled by default")
	}
	if s.MaxDailyNotifications != 10 {
		t.Errorf("MaxDailyNotifications = %d, want 10", s.MaxDailyNotifications)
	}
	if !s.HasQuietHours() {
		t.Error("expected default quiet hours")
	}
}
