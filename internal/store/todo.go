package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/halvarsson/hemma/internal/model"
)

type TodoStore struct {
	db *sql.DB
}

func NewTodoStore(db *sql.DB) *TodoStore {
	return &TodoStore{db: db}
}

const todoCols = `id, household_id, event_id, phase_id, title, description, due_date,
	priority, category, completed, completed_at, completed_by, created_at, updated_at`

func scanTodo(scanner interface{ Scan(...any) error }) (*model.Todo, error) {
	var t model.Todo
	var completed int
	var eventID, phaseID sql.NullInt64
	var dueDate, completedAt sql.NullTime
	err := scanner.Scan(
		&t.ID, &t.HouseholdID, &eventID, &phaseID, &t.Title, &t.Description,
		&dueDate, &t.Priority, &t.Category, &completed, &completedAt,
		&t.CompletedBy, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	t.Completed = completed != 0
	if eventID.Valid {
		t.EventID = &eventID.Int64
	}
	if phaseID.Valid {
		t.PhaseID = &phaseID.Int64
	}
	if dueDate.Valid {
		d := dueDate.Time
		t.DueDate = &d
	}
	if completedAt.Valid {
		c := completedAt.Time
		t.CompletedAt = &c
	}
	return &t, nil
}

func (s *TodoStore) Create(t *model.Todo) (*model.Todo, error) {
	var due any
	if t.DueDate != nil {
		due = t.DueDate.UTC()
	}
	result, err := s.db.Exec(
		`INSERT INTO todos (household_id, event_id, phase_id, title, description, due_date, priority, category)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		t.HouseholdID, nullInt64(t.EventID), nullInt64(t.PhaseID),
		t.Title, t.Description, due, t.Priority, t.Category,
	)
	if err != nil {
		return nil, fmt.Errorf("insert todo: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id, t.HouseholdID)
}

func (s *TodoStore) GetByID(id, householdID int64) (*model.Todo, error) {
	row := s.db.QueryRow(
		`SELECT `+todoCols+` FROM todos WHERE id = ? AND household_id = ?`,
		id, householdID,
	)
	t, err := scanTodo(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get todo: %w", err)
	}
	return t, nil
}

// List returns todos for a household, optionally filtered by event and
// completion state. Sorted by due date ascending with undated todos last.
func (s *TodoStore) List(householdID int64, eventID *int64, includeCompleted bool) ([]model.Todo, error) {
	query := `SELECT ` + todoCols + ` FROM todos WHERE household_id = ?`
	args := []any{householdID}
	if eventID != nil {
		query += ` AND event_id = ?`
		args = append(args, *eventID)
	}
	if !includeCompleted {
		query += ` AND completed = 0`
	}
	query += ` ORDER BY due_date IS NULL, due_date ASC, priority DESC`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query todos: %w", err)
	}
	defer rows.Close()
	return collectTodos(rows)
}

// ListDueOrOverdue returns incomplete todos whose due date is at or before
// the end of the given day.
func (s *TodoStore) ListDueOrOverdue(householdID int64, now time.Time) ([]model.Todo, error) {
	endOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).Add(24 * time.Hour)
	rows, err := s.db.Query(
		`SELECT `+todoCols+` FROM todos
		 WHERE household_id = ? AND completed = 0 AND due_date IS NOT NULL AND due_date < ?
		 ORDER BY due_date ASC`,
		householdID, endOfDay,
	)
	if err != nil {
		return nil, fmt.Errorf("query due todos: %w", err)
	}
	defer rows.Close()
	return collectTodos(rows)
}

func (s *TodoStore) Update(t *model.Todo) (*model.Todo, error) {
	var due any
	if t.DueDate != nil {
		due = t.DueDate.UTC()
	}
	_, err := s.db.Exec(
		`UPDATE todos
		 SET event_id = ?, phase_id = ?, title = ?, description = ?, due_date = ?,
		     priority = ?, category = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND household_id = ?`,
		nullInt64(t.EventID), nullInt64(t.PhaseID), t.Title, t.Description, due,
		t.Priority, t.Category, t.ID, t.HouseholdID,
	)
	if err != nil {
		return nil, fmt.Errorf("update todo: %w", err)
	}
	return s.GetByID(t.ID, t.HouseholdID)
}

// Complete marks a todo done, recording when and by whom.
func (s *TodoStore) Complete(id, householdID int64, by string, now time.Time) (*model.Todo, error) {
	_, err := s.db.Exec(
		`UPDATE todos
		 SET completed = 1, completed_at = ?, completed_by = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND household_id = ?`,
		now.UTC(), by, id, householdID,
	)
	if err != nil {
		return nil, fmt.Errorf("complete todo: %w", err)
	}
	return s.GetByID(id, householdID)
}

// Uncomplete reverts a completion.
func (s *TodoStore) Uncomplete(id, householdID int64) (*model.Todo, error) {
	_, err := s.db.Exec(
		`UPDATE todos
		 SET completed = 0, completed_at = NULL, completed_by = '', updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND household_id = ?`,
		id, householdID,
	)
	if err != nil {
		return nil, fmt.Errorf("uncomplete todo: %w", err)
	}
	return s.GetByID(id, householdID)
}

func (s *TodoStore) Delete(id, householdID int64) error {
	_, err := s.db.Exec(`DELETE FROM todos WHERE id = ? AND household_id = ?`, id, householdID)
	if err != nil {
		return fmt.Errorf("delete todo: %w", err)
	}
	return nil
}

func collectTodos(rows *sql.Rows) ([]model.Todo, error) {
	var todos []model.Todo
	for rows.Next() {
		t, err := scanTodo(rows)
		if err != nil {
			return nil, fmt.Errorf("scan todo: %w", err)
		}
		todos = append(todos, *t)
	}
	return todos, rows.Err()
}

func nullInt64(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}
