package model

import "time"

type TodoPriority string

const (
	PriorityLow    TodoPriority = "low"
	PriorityMedium TodoPriority = "medium"
	PriorityHigh   TodoPriority = "high"
)

func (p TodoPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

type Todo struct {
	ID          int64        `json:"id"`
	HouseholdID int64        `json:"household_id"`
	EventID     *int64       `json:"event_id"`
	PhaseID     *int64       `json:"phase_id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	DueDate     *time.Time   `json:"due_date"`
	Priority    TodoPriority `json:"priority"`
	Category    string       `json:"category"`
	Completed   bool         `json:"completed"`
	CompletedAt *time.Time   `json:"completed_at"`
	CompletedBy string       `json:"completed_by,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}
