package model

import "time"

// Budget amounts are stored in öre to avoid floating point drift.
type Budget struct {
	ID        int64     `json:"id"`
	EventID   int64     `json:"event_id"`
	TotalOre  int64     `json:"total_ore"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type BudgetItem struct {
	ID         int64     `json:"id"`
	BudgetID   int64     `json:"budget_id"`
	Name       string    `json:"name"`
	PlannedOre int64     `json:"planned_ore"`
	ActualOre  int64     `json:"actual_ore"`
	CreatedAt  time.Time `json:"created_at"`
}
