package store

import (
	"database/sql"
	"fmt"

	"github.com/halvarsson/hemma/internal/model"
)

type NoteStore struct {
	db *sql.DB
}

func NewNoteStore(db *sql.DB) *NoteStore {
	return &NoteStore{db: db}
}

const noteCols = `id, household_id, event_id, title, content, pinned, created_at, updated_at`

func scanNote(scanner interface{ Scan(...any) error }) (*model.Note, error) {
	var n model.Note
	var pinned int
	var eventID sql.NullInt64
	err := scanner.Scan(
		&n.ID, &n.HouseholdID, &eventID, &n.Title, &n.Content,
		&pinned, &n.CreatedAt, &n.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	n.Pinned = pinned != 0
	if eventID.Valid {
		n.EventID = &eventID.Int64
	}
	return &n, nil
}

func (s *NoteStore) Create(n *model.Note) (*model.Note, error) {
	result, err := s.db.Exec(
		`INSERT INTO notes (household_id, event_id, title, content, pinned) VALUES (?, ?, ?, ?, ?)`,
		n.HouseholdID, nullInt64(n.EventID), n.Title, n.Content, boolToInt(n.Pinned),
	)
	if err != nil {
		return nil, fmt.Errorf("insert note: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id, n.HouseholdID)
}

func (s *NoteStore) GetByID(id, householdID int64) (*model.Note, error) {
	row := s.db.QueryRow(
		`SELECT `+noteCols+` FROM notes WHERE id = ? AND household_id = ?`,
		id, householdID,
	)
	n, err := scanNote(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get note: %w", err)
	}
	return n, nil
}

// List returns notes pinned-first, newest-first within each group. An
// eventID filter narrows to one event's notes.
func (s *NoteStore) List(householdID int64, eventID *int64) ([]model.Note, error) {
	query := `SELECT ` + noteCols + ` FROM notes WHERE household_id = ?`
	args := []any{householdID}
	if eventID != nil {
		query += ` AND event_id = ?`
		args = append(args, *eventID)
	}
	query += ` ORDER BY pinned DESC, updated_at DESC`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	defer rows.Close()
	return collectNotes(rows)
}

// Search matches note title or content.
func (s *NoteStore) Search(householdID int64, term string) ([]model.Note, error) {
	pattern := "%" + term + "%"
	rows, err := s.db.Query(
		`SELECT `+noteCols+` FROM notes
		 WHERE household_id = ? AND (title LIKE ? OR content LIKE ?)
		 ORDER BY pinned DESC, updated_at DESC`,
		householdID, pattern, pattern,
	)
	if err != nil {
		return nil, fmt.Errorf("search notes: %w", err)
	}
	defer rows.Close()
	return collectNotes(rows)
}

func (s *NoteStore) Update(n *model.Note) (*model.Note, error) {
	_, err := s.db.Exec(
		`UPDATE notes
		 SET event_id = ?, title = ?, content = ?, pinned = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND household_id = ?`,
		nullInt64(n.EventID), n.Title, n.Content, boolToInt(n.Pinned), n.ID, n.HouseholdID,
	)
	if err != nil {
		return nil, fmt.Errorf("update note: %w", err)
	}
	return s.GetByID(n.ID, n.HouseholdID)
}

func (s *NoteStore) Delete(id, householdID int64) error {
	_, err := s.db.Exec(`DELETE FROM notes WHERE id = ? AND household_id = ?`, id, householdID)
	if err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	return nil
}

func collectNotes(rows *sql.Rows) ([]model.Note, error) {
	var notes []model.Note
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, fmt.Errorf("scan note: %w", err)
		}
		notes = append(notes, *n)
	}
	return notes, rows.Err()
}
