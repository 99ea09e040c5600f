package model

import "time"

type NotificationKind string

const (
	NotificationInfo     NotificationKind = "info"
	NotificationReminder NotificationKind = "reminder"
)

type NotificationItem struct {
	ID      string
	Message string
	Kind    NotificationKind
	At      time.Time
}

// Suggestion is what the activity interpreter proposes for a captured task.
type Suggestion struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	NextSteps   []string `json:"nextSteps"`
}
