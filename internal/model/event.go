package model

import "time"

// EventCategory is the fixed set of event categories. Categories double as
// theme overrides for major events (see internal/theme).
type EventCategory string

const (
	CategoryBirthday   EventCategory = "birthday"
	CategoryWedding    EventCategory = "wedding"
	CategoryChristmas  EventCategory = "christmas"
	CategoryMidsummer  EventCategory = "midsummer"
	CategoryEaster     EventCategory = "easter"
	CategoryGraduation EventCategory = "graduation"
	CategoryParty      EventCategory = "party"
	CategoryTrip       EventCategory = "trip"
	CategoryOther      EventCategory = "other"
)

// Categories lists every valid event category, in display order.
var Categories = []EventCategory{
	CategoryBirthday, CategoryWedding, CategoryChristmas, CategoryMidsummer,
	CategoryEaster, CategoryGraduation, CategoryParty, CategoryTrip, CategoryOther,
}

func (c EventCategory) Valid() bool {
	switch c {
	case CategoryBirthday, CategoryWedding, CategoryChristmas, CategoryMidsummer,
		CategoryEaster, CategoryGraduation, CategoryParty, CategoryTrip, CategoryOther:
		return true
	}
	return false
}

type Event struct {
	ID             int64         `json:"id"`
	HouseholdID    int64         `json:"household_id"`
	Title          string        `json:"title"`
	Description    string        `json:"description"`
	Category       EventCategory `json:"category"`
	StartTime      time.Time     `json:"start_time"`
	EndTime        time.Time     `json:"end_time"`
	AllDay         bool          `json:"all_day"`
	Recurring      bool          `json:"recurring"`
	RecurrenceRule string        `json:"recurrence_rule,omitempty"`
	ThemeOverride  bool          `json:"theme_override"`
	Location       string        `json:"location"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}
