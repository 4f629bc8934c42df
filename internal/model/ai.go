package model

import "time"

// AIInteraction is an audit log row for a call to the AI gateway.
type AIInteraction struct {
	ID          int64     `json:"id"`
	HouseholdID int64     `json:"household_id"`
	Function    string    `json:"function"`
	Query       string    `json:"query"`
	Response    string    `json:"response"`
	CreatedAt   time.Time `json:"created_at"`
}
