package model

import "time"

type ShoppingList struct {
	ID          int64     `json:"id"`
	HouseholdID int64     `json:"household_id"`
	EventID     *int64    `json:"event_id"`
	Name        string    `json:"name"`
	CreatedAt   time.Time `json:"created_at"`
}

type ShoppingListItem struct {
	ID        int64      `json:"id"`
	ListID    int64      `json:"list_id"`
	Name      string     `json:"name"`
	Quantity  string     `json:"quantity"`
	Category  string     `json:"category"`
	Checked   bool       `json:"checked"`
	CheckedAt *time.Time `json:"checked_at"`
	CreatedAt time.Time  `json:"created_at"`
}
