package store

import (
	"database/sql"
	"fmt"

	"github.com/halvarsson/hemma/internal/model"
)

type BudgetStore struct {
	db *sql.DB
}

func NewBudgetStore(db *sql.DB) *BudgetStore {
	return &BudgetStore{db: db}
}

// GetOrCreate returns the budget for an event, creating a zero budget if
// none exists. One budget per event, enforced by the schema.
func (s *BudgetStore) GetOrCreate(eventID int64) (*model.Budget, error) {
	_, err := s.db.Exec(`INSERT OR IGNORE INTO budgets (event_id) VALUES (?)`, eventID)
	if err != nil {
		return nil, fmt.Errorf("insert budget: %w", err)
	}
	return s.GetByEvent(eventID)
}

func (s *BudgetStore) GetByEvent(eventID int64) (*model.Budget, error) {
	var b model.Budget
	err := s.db.QueryRow(
		`SELECT id, event_id, total_ore, created_at, updated_at FROM budgets WHERE event_id = ?`,
		eventID,
	).Scan(&b.ID, &b.EventID, &b.TotalOre, &b.CreatedAt, &b.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get budget: %w", err)
	}
	return &b, nil
}

func (s *BudgetStore) SetTotal(eventID, totalOre int64) (*model.Budget, error) {
	_, err := s.db.Exec(
		`UPDATE budgets SET total_ore = ?, updated_at = CURRENT_TIMESTAMP WHERE event_id = ?`,
		totalOre, eventID,
	)
	if err != nil {
		return nil, fmt.Errorf("set budget total: %w", err)
	}
	return s.GetByEvent(eventID)
}

func (s *BudgetStore) AddItem(budgetID int64, name string, plannedOre, actualOre int64) (*model.BudgetItem, error) {
	result, err := s.db.Exec(
		`INSERT INTO budget_items (budget_id, name, planned_ore, actual_ore) VALUES (?, ?, ?, ?)`,
		budgetID, name, plannedOre, actualOre,
	)
	if err != nil {
		return nil, fmt.Errorf("insert budget item: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetItem(id)
}

func (s *BudgetStore) GetItem(id int64) (*model.BudgetItem, error) {
	var it model.BudgetItem
	err := s.db.QueryRow(
		`SELECT id, budget_id, name, planned_ore, actual_ore, created_at FROM budget_items WHERE id = ?`,
		id,
	).Scan(&it.ID, &it.BudgetID, &it.Name, &it.PlannedOre, &it.ActualOre, &it.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get budget item: %w", err)
	}
	return &it, nil
}

func (s *BudgetStore) ListItems(budgetID int64) ([]model.BudgetItem, error) {
	rows, err := s.db.Query(
		`SELECT id, budget_id, name, planned_ore, actual_ore, created_at
		 FROM budget_items WHERE budget_id = ? ORDER BY id ASC`,
		budgetID,
	)
	if err != nil {
		return nil, fmt.Errorf("list budget items: %w", err)
	}
	defer rows.Close()

	var items []model.BudgetItem
	for rows.Next() {
		var it model.BudgetItem
		if err := rows.Scan(&it.ID, &it.BudgetID, &it.Name, &it.PlannedOre, &it.ActualOre, &it.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan budget item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (s *BudgetStore) UpdateItem(it *model.BudgetItem) (*model.BudgetItem, error) {
	_, err := s.db.Exec(
		`UPDATE budget_items SET name = ?, planned_ore = ?, actual_ore = ? WHERE id = ?`,
		it.Name, it.PlannedOre, it.ActualOre, it.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("update budget item: %w", err)
	}
	return s.GetItem(it.ID)
}

func (s *BudgetStore) DeleteItem(id int64) error {
	_, err := s.db.Exec(`DELETE FROM budget_items WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete budget item: %w", err)
	}
	return nil
}

// Totals sums planned and actual spend across a budget's items.
func (s *BudgetStore) Totals(budgetID int64) (plannedOre, actualOre int64, err error) {
	err = s.db.QueryRow(
		`SELECT COALESCE(SUM(planned_ore), 0), COALESCE(SUM(actual_ore), 0)
		 FROM budget_items WHERE budget_id = ?`,
		budgetID,
	).Scan(&plannedOre, &actualOre)
	if err != nil {
		return 0, 0, fmt.Errorf("sum budget items: %w", err)
	}
	return plannedOre, actualOre, nil
}
