package model

import "time"

type Note struct {
	ID          int64     `json:"id"`
	HouseholdID int64     `json:"household_id"`
	EventID     *int64    `json:"event_id"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	Pinned      bool      `json:"pinned"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
