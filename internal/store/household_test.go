package store

import (
	"testing"
	"time"
)

func TestHouseholdCodeIsCaseInsensitive(t *testing.T) {
	db := testDB(t)
	households := NewHouseholdStore(db)

	created, err := households.Create("abc123", "Familjen Svensson", "hash")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Code != "ABC123" {
		t.Errorf("code should be stored upper-cased, got %q", created.Code)
	}

	got, err := households.GetByCode("aBc123")
	if err != nil {
		t.Fatalf("get by code: %v", err)
	}
	if got == nil || got.ID != created.ID {
		t.Fatal("mixed-case lookup failed")
	}
}

func TestHouseholdCodeUnique(t *testing.T) {
	db := testDB(t)
	households := NewHouseholdStore(db)

	if _, err := households.Create("DUP123", "Första", "hash"); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := households.Create("dup123", "Andra", "hash"); err == nil {
		t.Fatal("expected unique constraint error for duplicate code")
	}
}

func TestSessionLifecycle(t *testing.T) {
	db := testDB(t)
	household := createHousehold(t, db, "SES123")
	sessions := NewSessionStore(db)

	sess, err := sessions.Create(household.ID)
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	if len(sess.Token) != 64 {
		t.Errorf("token length = %d, want 64 hex chars", len(sess.Token))
	}

	got, err := sessions.GetByToken(sess.Token)
	if err != nil {
		t.Fatalf("get by token: %v", err)
	}
	if got == nil || got.HouseholdID != household.ID {
		t.Fatal("session lookup failed")
	}

	if err := sessions.Delete(sess.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	got, err = sessions.GetByToken(sess.Token)
	if err != nil {
		t.Fatalf("get by token: %v", err)
	}
	if got != nil {
		t.Fatal("deleted session still resolvable")
	}
}

func TestSessionExpiry(t *testing.T) {
	db := testDB(t)
	household := createHousehold(t, db, "EXP123")
	sessions := NewSessionStore(db)

	sess, err := sessions.Create(household.ID)
	if err != nil {
		t.Fatalf("create session: %v", err)
	}

	// Force the session into the past.
	if _, err := db.Exec(`UPDATE sessions SET expires_at = ? WHERE id = ?`, time.Now().UTC().Add(-24*time.Hour), sess.ID); err != nil {
		t.Fatalf("expire session: %v", err)
	}

	got, err := sessions.GetByToken(sess.Token)
	if err != nil {
		t.Fatalf("get by token: %v", err)
	}
	if got != nil {
		t.Fatal("expired session still resolvable")
	}

	n, err := sessions.DeleteExpired()
	if err != nil {
		t.Fatalf("delete expired: %v", err)
	}
	if n != 1 {
		t.Errorf("deleted %d sessions, want 1", n)
	}
}
