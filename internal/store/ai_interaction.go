package store

import (
	"database/sql"
	"fmt"

	"github.com/halvarsson/hemma/internal/model"
)

// AIInteractionStore records every AI gateway call for audit.
type AIInteractionStore struct {
	db *sql.DB
}

func NewAIInteractionStore(db *sql.DB) *AIInteractionStore {
	return &AIInteractionStore{db: db}
}

func (s *AIInteractionStore) Record(householdID int64, function, query, response string) error {
	_, err := s.db.Exec(
		`INSERT INTO ai_interactions (household_id, function, query, response) VALUES (?, ?, ?, ?)`,
		householdID, function, query, response,
	)
	if err != nil {
		return fmt.Errorf("record ai interaction: %w", err)
	}
	return nil
}

func (s *AIInteractionStore) ListByHousehold(householdID int64, limit int) ([]model.AIInteraction, error) {
	rows, err := s.db.Query(
		`SELECT id, household_id, function, query, response, created_at
		 FROM ai_interactions WHERE household_id = ?
		 ORDER BY created_at DESC, id DESC LIMIT ?`,
		householdID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list ai interactions: %w", err)
	}
	defer rows.Close()

	var interactions []model.AIInteraction
	for rows.Next() {
		var ai model.AIInteraction
		if err := rows.Scan(&ai.ID, &ai.HouseholdID, &ai.Function, &ai.Query, &ai.Response, &ai.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan ai interaction: %w", err)
		}
		interactions = append(interactions, ai)
	}
	return interactions, rows.Err()
}
