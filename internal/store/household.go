package store

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/halvarsson/hemma/internal/model"
)

type HouseholdStore struct {
	db *sql.DB
}

func NewHouseholdStore(db *sql.DB) *HouseholdStore {
	return &HouseholdStore{db: db}
}

const householdCols = `id, code, name, password_hash, created_at, updated_at`

func scanHousehold(scanner interface{ Scan(...any) error }) (*model.Household, error) {
	var h model.Household
	err := scanner.Scan(&h.ID, &h.Code, &h.Name, &h.PasswordHash, &h.CreatedAt, &h.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &h, nil
}

// Create inserts a household. Codes are stored upper-cased and must be unique.
func (s *HouseholdStore) Create(code, name, passwordHash string) (*model.Household, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	result, err := s.db.Exec(
		`INSERT INTO households (code, name, password_hash) VALUES (?, ?, ?)`,
		code, name, passwordHash,
	)
	if err != nil {
		return nil, fmt.Errorf("insert household: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *HouseholdStore) GetByID(id int64) (*model.Household, error) {
	row := s.db.QueryRow(`SELECT `+householdCols+` FROM households WHERE id = ?`, id)
	h, err := scanHousehold(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get household: %w", err)
	}
	return h, nil
}

// GetByCode looks up a household by its code, case-insensitively.
func (s *HouseholdStore) GetByCode(code string) (*model.Household, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	row := s.db.QueryRow(`SELECT `+householdCols+` FROM households WHERE code = ?`, code)
	h, err := scanHousehold(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get household by code: %w", err)
	}
	return h, nil
}

// UpdateName changes the display name. The code is immutable after creation.
func (s *HouseholdStore) UpdateName(id int64, name string) (*model.Household, error) {
	_, err := s.db.Exec(
		`UPDATE households SET name = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		name, id,
	)
	if err != nil {
		return nil, fmt.Errorf("update household: %w", err)
	}
	return s.GetByID(id)
}

func (s *HouseholdStore) Delete(id int64) error {
	_, err := s.db.Exec(`DELETE FROM households WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete household: %w", err)
	}
	return nil
}
