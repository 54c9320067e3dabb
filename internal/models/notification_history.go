package models

import (
	"strings"
	"time"
)

// NotificationHistory is an append-only record of a sent notification.
// Only the Clicked/Dismissed flags are ever mutated after insert.
type NotificationHistory struct {
	ID        string           `json:"id"`
	ConfigID  string           `json:"config_id"`
	Type      NotificationType `json:"type"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	Priority  Priority         `json:"priority"`
	SentAt    time.Time        `json:"sent_at"`
	Clicked   bool             `json:"clicked"`
	Dismissed bool             `json:"dismissed"`
	// SubjectKey is a structured dedup key: comma-joined hobby IDs for
	// high-score notifications, alert rule keys for weather alerts.
	// Cooldown checks match on this field instead of the free-form Data.
	SubjectKey string `json:"subject_key"`
	// Data carries the free-form payload for the UI.
	Data map[string]any `json:"data"`
}

// SubjectKeyContains reports whether the record's subject key names the
// given subject.
func (h *NotificationHistory) SubjectKeyContains(subject string) bool {
	if h.SubjectKey == "" || subject == "" {
		return false
	}
	for _, part := range strings.Split(h.SubjectKey, ",") {
		if part == subject {
			return true
		}
	}
	return false
}

// JoinSubjectKey builds a subject key from individual subjects.
func JoinSubjectKey(subjects []string) string {
	return strings.Join(subjects, ",")
}
