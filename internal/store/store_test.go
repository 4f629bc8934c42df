package store

import (
	"database/sql"
	"testing"

	"github.com/halvarsson/hemma/internal/database"
	"github.com/halvarsson/hemma/internal/model"
)

func testDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func createHousehold(t *testing.T, db *sql.DB, code string) *model.Household {
	t.Helper()
	h, err := NewHouseholdStore(db).Create(code, "Testfamiljen", "hash")
	if err != nil {
		t.Fatalf("create household: %v", err)
	}
	return h
}
