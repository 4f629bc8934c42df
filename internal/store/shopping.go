package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/halvarsson/hemma/internal/model"
)

type ShoppingStore struct {
	db *sql.DB
}

func NewShoppingStore(db *sql.DB) *ShoppingStore {
	return &ShoppingStore{db: db}
}

const shoppingListCols = `id, household_id, event_id, name, created_at`
const shoppingItemCols = `id, list_id, name, quantity, category, checked, checked_at, created_at`

func scanShoppingList(scanner interface{ Scan(...any) error }) (*model.ShoppingList, error) {
	var l model.ShoppingList
	var eventID sql.NullInt64
	err := scanner.Scan(&l.ID, &l.HouseholdID, &eventID, &l.Name, &l.CreatedAt)
	if err != nil {
		return nil, err
	}
	if eventID.Valid {
		l.EventID = &eventID.Int64
	}
	return &l, nil
}

func scanShoppingItem(scanner interface{ Scan(...any) error }) (*model.ShoppingListItem, error) {
	var it model.ShoppingListItem
	var checked int
	var checkedAt sql.NullTime
	err := scanner.Scan(
		&it.ID, &it.ListID, &it.Name, &it.Quantity, &it.Category,
		&checked, &checkedAt, &it.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	it.Checked = checked != 0
	if checkedAt.Valid {
		t := checkedAt.Time
		it.CheckedAt = &t
	}
	return &it, nil
}

func (s *ShoppingStore) CreateList(householdID int64, eventID *int64, name string) (*model.ShoppingList, error) {
	result, err := s.db.Exec(
		`INSERT INTO shopping_lists (household_id, event_id, name) VALUES (?, ?, ?)`,
		householdID, nullInt64(eventID), name,
	)
	if err != nil {
		return nil, fmt.Errorf("insert shopping list: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetList(id, householdID)
}

func (s *ShoppingStore) GetList(id, householdID int64) (*model.ShoppingList, error) {
	row := s.db.QueryRow(
		`SELECT `+shoppingListCols+` FROM shopping_lists WHERE id = ? AND household_id = ?`,
		id, householdID,
	)
	l, err := scanShoppingList(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get shopping list: %w", err)
	}
	return l, nil
}

func (s *ShoppingStore) ListLists(householdID int64) ([]model.ShoppingList, error) {
	rows, err := s.db.Query(
		`SELECT `+shoppingListCols+` FROM shopping_lists WHERE household_id = ? ORDER BY created_at DESC`,
		householdID,
	)
	if err != nil {
		return nil, fmt.Errorf("list shopping lists: %w", err)
	}
	defer rows.Close()

	var lists []model.ShoppingList
	for rows.Next() {
		l, err := scanShoppingList(rows)
		if err != nil {
			return nil, fmt.Errorf("scan shopping list: %w", err)
		}
		lists = append(lists, *l)
	}
	return lists, rows.Err()
}

func (s *ShoppingStore) RenameList(id, householdID int64, name string) (*model.ShoppingList, error) {
	_, err := s.db.Exec(
		`UPDATE shopping_lists SET name = ? WHERE id = ? AND household_id = ?`,
		name, id, householdID,
	)
	if err != nil {
		return nil, fmt.Errorf("rename shopping list: %w", err)
	}
	return s.GetList(id, householdID)
}

func (s *ShoppingStore) DeleteList(id, householdID int64) error {
	_, err := s.db.Exec(`DELETE FROM shopping_lists WHERE id = ? AND household_id = ?`, id, householdID)
	if err != nil {
		return fmt.Errorf("delete shopping list: %w", err)
	}
	return nil
}

func (s *ShoppingStore) AddItem(listID int64, name, quantity, category string) (*model.ShoppingListItem, error) {
	result, err := s.db.Exec(
		`INSERT INTO shopping_list_items (list_id, name, quantity, category) VALUES (?, ?, ?, ?)`,
		listID, name, quantity, category,
	)
	if err != nil {
		return nil, fmt.Errorf("insert shopping item: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetItem(id)
}

func (s *ShoppingStore) GetItem(id int64) (*model.ShoppingListItem, error) {
	row := s.db.QueryRow(`SELECT `+shoppingItemCols+` FROM shopping_list_items WHERE id = ?`, id)
	it, err := scanShoppingItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get shopping item: %w", err)
	}
	return it, nil
}

// ListItems returns items grouped unchecked-first, then by category and name.
func (s *ShoppingStore) ListItems(listID int64) ([]model.ShoppingListItem, error) {
	rows, err := s.db.Query(
		`SELECT `+shoppingItemCols+` FROM shopping_list_items
		 WHERE list_id = ? ORDER BY checked ASC, category ASC, name COLLATE NOCASE ASC`,
		listID,
	)
	if err != nil {
		return nil, fmt.Errorf("list shopping items: %w", err)
	}
	defer rows.Close()

	var items []model.ShoppingListItem
	for rows.Next() {
		it, err := scanShoppingItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan shopping item: %w", err)
		}
		items = append(items, *it)
	}
	return items, rows.Err()
}

func (s *ShoppingStore) UpdateItem(it *model.ShoppingListItem) (*model.ShoppingListItem, error) {
	_, err := s.db.Exec(
		`UPDATE shopping_list_items SET name = ?, quantity = ?, category = ? WHERE id = ?`,
		it.Name, it.Quantity, it.Category, it.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("update shopping item: %w", err)
	}
	return s.GetItem(it.ID)
}

// SetChecked toggles an item's checked state, stamping the check time.
func (s *ShoppingStore) SetChecked(id int64, checked bool, now time.Time) (*model.ShoppingListItem, error) {
	var checkedAt any
	if checked {
		checkedAt = now.UTC()
	}
	_, err := s.db.Exec(
		`UPDATE shopping_list_items SET checked = ?, checked_at = ? WHERE id = ?`,
		boolToInt(checked), checkedAt, id,
	)
	if err != nil {
		return nil, fmt.Errorf("set shopping item checked: %w", err)
	}
	return s.GetItem(id)
}

func (s *ShoppingStore) DeleteItem(id int64) error {
	_, err := s.db.Exec(`DELETE FROM shopping_list_items WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete shopping item: %w", err)
	}
	return nil
}

// ClearChecked removes every checked item from a list.
func (s *ShoppingStore) ClearChecked(listID int64) (int64, error) {
	result, err := s.db.Exec(`DELETE FROM shopping_list_items WHERE list_id = ? AND checked = 1`, listID)
	if err != nil {
		return 0, fmt.Errorf("clear checked items: %w", err)
	}
	n, _ := result.RowsAffected()
	return n, nil
}
