package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/halvarsson/hemma/internal/model"
)

type EventStore struct {
	db *sql.DB
}

func NewEventStore(db *sql.DB) *EventStore {
	return &EventStore{db: db}
}

const eventCols = `id, household_id, title, description, category, start_time, end_time,
	all_day, recurring, recurrence_rule, theme_override, location, created_at, updated_at`

func scanEvent(scanner interface{ Scan(...any) error }) (*model.Event, error) {
	var e model.Event
	var allDay, recurring, themeOverride int
	err := scanner.Scan(
		&e.ID, &e.HouseholdID, &e.Title, &e.Description, &e.Category,
		&e.StartTime, &e.EndTime, &allDay, &recurring, &e.RecurrenceRule,
		&themeOverride, &e.Location, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	e.AllDay = allDay != 0
	e.Recurring = recurring != 0
	e.ThemeOverride = themeOverride != 0
	return &e, nil
}

func (s *EventStore) Create(e *model.Event) (*model.Event, error) {
	result, err := s.db.Exec(
		`INSERT INTO events (household_id, title, description, category, start_time, end_time,
		 all_day, recurring, recurrence_rule, theme_override, location)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.HouseholdID, e.Title, e.Description, e.Category,
		e.StartTime.UTC(), e.EndTime.UTC(),
		boolToInt(e.AllDay), boolToInt(e.Recurring), e.RecurrenceRule,
		boolToInt(e.ThemeOverride), e.Location,
	)
	if err != nil {
		return nil, fmt.Errorf("insert event: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id, e.HouseholdID)
}

func (s *EventStore) GetByID(id, householdID int64) (*model.Event, error) {
	row := s.db.QueryRow(
		`SELECT `+eventCols+` FROM events WHERE id = ? AND household_id = ?`,
		id, householdID,
	)
	e, err := scanEvent(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get event: %w", err)
	}
	return e, nil
}

// ListByDateRange returns non-recurring events overlapping [start, end).
// Recurring events are expanded separately (see ListRecurring).
func (s *EventStore) ListByDateRange(householdID int64, start, end time.Time) ([]model.Event, error) {
	rows, err := s.db.Query(
		`SELECT `+eventCols+` FROM events
		 WHERE household_id = ? AND recurring = 0 AND start_time < ? AND end_time > ?
		 ORDER BY all_day DESC, start_time ASC`,
		householdID, end.UTC(), start.UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()
	return collectEvents(rows)
}

// ListRecurring returns all recurring events for a household whose series
// could intersect dates up to end (start_time before the range end).
func (s *EventStore) ListRecurring(householdID int64, end time.Time) ([]model.Event, error) {
	rows, err := s.db.Query(
		`SELECT `+eventCols+` FROM events
		 WHERE household_id = ? AND recurring = 1 AND start_time < ?
		 ORDER BY start_time ASC`,
		householdID, end.UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("query recurring events: %w", err)
	}
	defer rows.Close()
	return collectEvents(rows)
}

// ListUpcoming returns the next events starting at or after now, limited.
func (s *EventStore) ListUpcoming(householdID int64, now time.Time, limit int) ([]model.Event, error) {
	rows, err := s.db.Query(
		`SELECT `+eventCols+` FROM events
		 WHERE household_id = ? AND start_time >= ?
		 ORDER BY start_time ASC LIMIT ?`,
		householdID, now.UTC(), limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query upcoming events: %w", err)
	}
	defer rows.Close()
	return collectEvents(rows)
}

func (s *EventStore) Update(e *model.Event) (*model.Event, error) {
	_, err := s.db.Exec(
		`UPDATE events
		 SET title = ?, description = ?, category = ?, start_time = ?, end_time = ?,
		     all_day = ?, recurring = ?, recurrence_rule = ?, theme_override = ?, location = ?,
		     updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND household_id = ?`,
		e.Title, e.Description, e.Category, e.StartTime.UTC(), e.EndTime.UTC(),
		boolToInt(e.AllDay), boolToInt(e.Recurring), e.RecurrenceRule,
		boolToInt(e.ThemeOverride), e.Location, e.ID, e.HouseholdID,
	)
	if err != nil {
		return nil, fmt.Errorf("update event: %w", err)
	}
	return s.GetByID(e.ID, e.HouseholdID)
}

func (s *EventStore) Delete(id, householdID int64) error {
	_, err := s.db.Exec(`DELETE FROM events WHERE id = ? AND household_id = ?`, id, householdID)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	return nil
}

func collectEvents(rows *sql.Rows) ([]model.Event, error) {
	var events []model.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, *e)
	}
	return events, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
