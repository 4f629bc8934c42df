package model

import "time"

// NotificationKind is the closed set of notification variants. Code that
// branches on kind must switch exhaustively over these constants.
type NotificationKind string

const (
	KindEventReminder NotificationKind = "event_reminder"
	KindTodoDue       NotificationKind = "todo_due"
	KindSystem        NotificationKind = "system"
)

func (k NotificationKind) Valid() bool {
	switch k {
	case KindEventReminder, KindTodoDue, KindSystem:
		return true
	}
	return false
}

// Notification is a scheduled message for a household. Invariant: a
// notification is delivered (marked sent) at most once; the sweep flips
// sent=false rows whose scheduled_for has passed in a single conditional
// batch update.
type Notification struct {
	ID           int64            `json:"id"`
	HouseholdID  int64            `json:"household_id"`
	Kind         NotificationKind `json:"kind"`
	EventID      *int64           `json:"event_id"`
	TodoID       *int64           `json:"todo_id"`
	Title        string           `json:"title"`
	Body         string           `json:"body"`
	ScheduledFor time.Time        `json:"scheduled_for"`
	Sent         bool             `json:"sent"`
	SentAt       *time.Time       `json:"sent_at"`
	Read         bool             `json:"read"`
	CreatedAt    time.Time        `json:"created_at"`
}
