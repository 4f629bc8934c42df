package store

import (
	"database/sql"
	"fmt"

	"github.com/halvarsson/hemma/internal/model"
)

type TimelineStore struct {
	db *sql.DB
}

func NewTimelineStore(db *sql.DB) *TimelineStore {
	return &TimelineStore{db: db}
}

const phaseCols = `id, event_id, name, description, weeks_before, created_at`

func scanPhase(scanner interface{ Scan(...any) error }) (*model.TimelinePhase, error) {
	var p model.TimelinePhase
	err := scanner.Scan(&p.ID, &p.EventID, &p.Name, &p.Description, &p.WeeksBefore, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *TimelineStore) Create(eventID int64, name, description string, weeksBefore int) (*model.TimelinePhase, error) {
	result, err := s.db.Exec(
		`INSERT INTO event_timeline (event_id, name, description, weeks_before) VALUES (?, ?, ?, ?)`,
		eventID, name, description, weeksBefore,
	)
	if err != nil {
		return nil, fmt.Errorf("insert timeline phase: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *TimelineStore) GetByID(id int64) (*model.TimelinePhase, error) {
	row := s.db.QueryRow(`SELECT `+phaseCols+` FROM event_timeline WHERE id = ?`, id)
	p, err := scanPhase(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get timeline phase: %w", err)
	}
	return p, nil
}

// ListByEvent returns phases ordered furthest-out first (descending lead time).
func (s *TimelineStore) ListByEvent(eventID int64) ([]model.TimelinePhase, error) {
	rows, err := s.db.Query(
		`SELECT `+phaseCols+` FROM event_timeline WHERE event_id = ? ORDER BY weeks_before DESC, id ASC`,
		eventID,
	)
	if err != nil {
		return nil, fmt.Errorf("list timeline phases: %w", err)
	}
	defer rows.Close()

	var phases []model.TimelinePhase
	for rows.Next() {
		p, err := scanPhase(rows)
		if err != nil {
			return nil, fmt.Errorf("scan timeline phase: %w", err)
		}
		phases = append(phases, *p)
	}
	return phases, rows.Err()
}

func (s *TimelineStore) Update(id int64, name, description string, weeksBefore int) (*model.TimelinePhase, error) {
	_, err := s.db.Exec(
		`UPDATE event_timeline SET name = ?, description = ?, weeks_before = ? WHERE id = ?`,
		name, description, weeksBefore, id,
	)
	if err != nil {
		return nil, fmt.Errorf("update timeline phase: %w", err)
	}
	return s.GetByID(id)
}

func (s *TimelineStore) Delete(id int64) error {
	_, err := s.db.Exec(`DELETE FROM event_timeline WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete timeline phase: %w", err)
	}
	return nil
}
