package model

import "time"

// Image metadata; the bytes live in S3-compatible object storage under
// StorageKey (see internal/storage).
type Image struct {
	ID          int64     `json:"id"`
	HouseholdID int64     `json:"household_id"`
	EventID     *int64    `json:"event_id"`
	Filename    string    `json:"filename"`
	StorageKey  string    `json:"storage_key"`
	ContentType string    `json:"content_type"`
	SizeBytes   int64     `json:"size_bytes"`
	CreatedAt   time.Time `json:"created_at"`
}

type Link struct {
	ID          int64     `json:"id"`
	HouseholdID int64     `json:"household_id"`
	EventID     *int64    `json:"event_id"`
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	CreatedAt   time.Time `json:"created_at"`
}
