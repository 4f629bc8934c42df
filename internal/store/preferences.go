package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/halvarsson/hemma/internal/model"
)

type PreferencesStore struct {
	db *sql.DB
}

func NewPreferencesStore(db *sql.DB) *PreferencesStore {
	return &PreferencesStore{db: db}
}

// Get returns the household's preferences with stored values shallow-merged
// over the defaults. A household with no row gets pure defaults.
func (s *PreferencesStore) Get(householdID int64) (model.Preferences, error) {
	prefs := model.DefaultPreferences()

	var data string
	err := s.db.QueryRow(
		`SELECT data FROM household_preferences WHERE household_id = ?`,
		householdID,
	).Scan(&data)
	if err == sql.ErrNoRows {
		return prefs, nil
	}
	if err != nil {
		return prefs, fmt.Errorf("get preferences: %w", err)
	}

	// Unmarshal into the defaults struct: keys present in the stored blob
	// overwrite, keys absent keep their default.
	if err := json.Unmarshal([]byte(data), &prefs); err != nil {
		return model.DefaultPreferences(), fmt.Errorf("decode preferences: %w", err)
	}
	return prefs, nil
}

// Set replaces the stored blob wholesale.
func (s *PreferencesStore) Set(householdID int64, prefs model.Preferences) error {
	data, err := json.Marshal(prefs)
	if err != nil {
		return fmt.Errorf("encode preferences: %w", err)
	}
	_, err = s.db.Exec(
		`INSERT INTO household_preferences (household_id, data) VALUES (?, ?)
		 ON CONFLICT(household_id) DO UPDATE SET data = excluded.data, updated_at = CURRENT_TIMESTAMP`,
		householdID, string(data),
	)
	if err != nil {
		return fmt.Errorf("set preferences: %w", err)
	}
	return nil
}

// Seed writes the default preferences for a new household, leaving an
// existing row alone.
func (s *PreferencesStore) Seed(householdID int64) error {
	data, err := json.Marshal(model.DefaultPreferences())
	if err != nil {
		return fmt.Errorf("encode preferences: %w", err)
	}
	_, err = s.db.Exec(
		`INSERT OR IGNORE INTO household_preferences (household_id, data) VALUES (?, ?)`,
		householdID, string(data),
	)
	if err != nil {
		return fmt.Errorf("seed preferences: %w", err)
	}
	return nil
}
