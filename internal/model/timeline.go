package model

import "time"

// TimelinePhase is a planning milestone attached to an event, positioned by
// its lead time in whole weeks before the event date. Status is never
// persisted; it is derived from wall-clock time (see internal/timeline).
type TimelinePhase struct {
	ID          int64     `json:"id"`
	EventID     int64     `json:"event_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	WeeksBefore int       `json:"weeks_before"`
	CreatedAt   time.Time `json:"created_at"`
}
