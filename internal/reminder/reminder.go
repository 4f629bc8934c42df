// Package reminder turns a user's "remind me N hours/days/weeks before"
// declaration into a persisted scheduled notification row. The sweep in
// internal/notify later promotes and delivers it.
package reminder

import (
	"fmt"
	"time"

	"github.com/halvarsson/hemma/internal/model"
	"github.com/halvarsson/hemma/internal/store"
)

type Unit string

const (
	UnitHours Unit = "hours"
	UnitDays  Unit = "days"
	UnitWeeks Unit = "weeks"
)

func (u Unit) Valid() bool {
	switch u {
	case UnitHours, UnitDays, UnitWeeks:
		return true
	}
	return false
}

// Offset is a lead time before the target's date.
type Offset struct {
	Amount int  `json:"amount"`
	Unit   Unit `json:"unit"`
}

func (o Offset) Duration() (time.Duration, error) {
	if o.Amount <= 0 {
		return 0, fmt.Errorf("offset amount must be positive, got %d", o.Amount)
	}
	switch o.Unit {
	case UnitHours:
		return time.Duration(o.Amount) * time.Hour, nil
	case UnitDays:
		return time.Duration(o.Amount) * 24 * time.Hour, nil
	case UnitWeeks:
		return time.Duration(o.Amount) * 7 * 24 * time.Hour, nil
	default:
		return 0, fmt.Errorf("invalid offset unit: %q", o.Unit)
	}
}

// Declaration is either a relative offset before the target or an explicit
// absolute time. Exactly one must be set.
type Declaration struct {
	Offset *Offset    `json:"offset,omitempty"`
	At     *time.Time `json:"at,omitempty"`
}

// Resolve computes the delivery instant against the target's date.
func (d Declaration) Resolve(target time.Time) (time.Time, error) {
	switch {
	case d.Offset != nil && d.At != nil:
		return time.Time{}, fmt.Errorf("reminder cannot have both an offset and an absolute time")
	case d.Offset != nil:
		dur, err := d.Offset.Duration()
		if err != nil {
			return time.Time{}, err
		}
		return target.Add(-dur).UTC(), nil
	case d.At != nil:
		return d.At.UTC(), nil
	default:
		return time.Time{}, fmt.Errorf("reminder needs an offset or an absolute time")
	}
}

// Scheduler persists reminder declarations as scheduled notifications.
type Scheduler struct {
	notifications *store.NotificationStore
}

func NewScheduler(notifications *store.NotificationStore) *Scheduler {
	return &Scheduler{notifications: notifications}
}

// ScheduleForEvent creates an event_reminder notification from a
// declaration resolved against the event's start time.
func (s *Scheduler) ScheduleForEvent(event *model.Event, d Declaration) (*model.Notification, error) {
	at, err := d.Resolve(event.StartTime)
	if err != nil {
		return nil, err
	}
	return s.notifications.Create(&model.Notification{
		HouseholdID:  event.HouseholdID,
		Kind:         model.KindEventReminder,
		EventID:      &event.ID,
		Title:        "Påminnelse: " + event.Title,
		Body:         describeLead(at, event.StartTime),
		ScheduledFor: at,
	})
}

// ScheduleForTodo creates a todo_due notification. The todo must have a
// due date.
func (s *Scheduler) ScheduleForTodo(todo *model.Todo, d Declaration) (*model.Notification, error) {
	if todo.DueDate == nil {
		return nil, fmt.Errorf("todo %d has no due date", todo.ID)
	}
	at, err := d.Resolve(*todo.DueDate)
	if err != nil {
		return nil, err
	}
	return s.notifications.Create(&model.Notification{
		HouseholdID:  todo.HouseholdID,
		Kind:         model.KindTodoDue,
		TodoID:       &todo.ID,
		Title:        "Att göra: " + todo.Title,
		Body:         describeLead(at, *todo.DueDate),
		ScheduledFor: at,
	})
}

// describeLead renders the gap between delivery and target in Swedish.
func describeLead(at, target time.Time) string {
	gap := target.Sub(at)
	switch {
	case gap >= 7*24*time.Hour:
		weeks := int(gap / (7 * 24 * time.Hour))
		if weeks == 1 {
			return "Om 1 vecka"
		}
		return fmt.Sprintf("Om %d veckor", weeks)
	case gap >= 24*time.Hour:
		days := int(gap / (24 * time.Hour))
		if days == 1 {
			return "Imorgon"
		}
		return fmt.Sprintf("Om %d dagar", days)
	case gap >= time.Hour:
		hours := int(gap / time.Hour)
		if hours == 1 {
			return "Om 1 timme"
		}
		return fmt.Sprintf("Om %d timmar", hours)
	default:
		return "Nu"
	}
}
