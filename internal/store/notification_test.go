package store

import (
	"testing"
	"time"

	"github.com/halvarsson/hemma/internal/model"
)

func TestPromoteDue(t *testing.T) {
	db := testDB(t)
	household := createHousehold(t, db, "NOT123")
	notifications := NewNotificationStore(db)

	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	mk := func(title string, at time.Time) {
		t.Helper()
		if _, err := notifications.Create(&model.Notification{
			HouseholdID:  household.ID,
			Kind:         model.KindSystem,
			Title:        title,
			Body:         "test",
			ScheduledFor: at,
		}); err != nil {
			t.Fatalf("create notification: %v", err)
		}
	}

	mk("Försenad", now.Add(-time.Hour))
	mk("Precis nu", now)
	mk("Framtid", now.Add(time.Hour))

	promoted, err := notifications.PromoteDue(now)
	if err != nil {
		t.Fatalf("promote: %v", err)
	}
	if len(promoted) != 2 {
		t.Fatalf("expected 2 promoted, got %d", len(promoted))
	}
	for _, n := range promoted {
		if !n.Sent || n.SentAt == nil {
			t.Errorf("promoted notification not marked sent: %+v", n)
		}
	}

	// Running the sweep again promotes nothing: the conditional update only
	// matches unsent rows.
	again, err := notifications.PromoteDue(now)
	if err != nil {
		t.Fatalf("promote again: %v", err)
	}
	if len(again) != 0 {
		t.Fatalf("second sweep promoted %d rows, want 0", len(again))
	}

	pending, err := notifications.ListScheduled(household.ID)
	if err != nil {
		t.Fatalf("list scheduled: %v", err)
	}
	if len(pending) != 1 || pending[0].Title != "Framtid" {
		t.Fatalf("expected only the future notification pending, got %v", pending)
	}
}

func TestNotificationListAndRead(t *testing.T) {
	db := testDB(t)
	household := createHousehold(t, db, "RED123")
	notifications := NewNotificationStore(db)

	now := time.Now().UTC()
	created, err := notifications.Create(&model.Notification{
		HouseholdID:  household.ID,
		Kind:         model.KindTodoDue,
		Title:        "Att göra: Handla",
		Body:         "Imorgon",
		ScheduledFor: now.Add(-time.Minute),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// Unsent notifications are invisible in the inbox.
	inbox, err := notifications.ListByHousehold(household.ID, false, 50)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(inbox) != 0 {
		t.Fatalf("unsent notification leaked into inbox: %v", inbox)
	}

	if _, err := notifications.PromoteDue(now); err != nil {
		t.Fatalf("promote: %v", err)
	}

	inbox, err = notifications.ListByHousehold(household.ID, true, 50)
	if err != nil {
		t.Fatalf("list unread: %v", err)
	}
	if len(inbox) != 1 {
		t.Fatalf("expected 1 unread, got %d", len(inbox))
	}

	if err := notifications.MarkRead(created.ID, household.ID); err != nil {
		t.Fatalf("mark read: %v", err)
	}
	inbox, err = notifications.ListByHousehold(household.ID, true, 50)
	if err != nil {
		t.Fatalf("list unread: %v", err)
	}
	if len(inbox) != 0 {
		t.Fatalf("read notification still listed as unread")
	}
}

func TestNotificationInvalidKind(t *testing.T) {
	db := testDB(t)
	household := createHousehold(t, db, "KND123")
	notifications := NewNotificationStore(db)

	_, err := notifications.Create(&model.Notification{
		HouseholdID:  household.ID,
		Kind:         "carrier_pigeon",
		Title:        "x",
		ScheduledFor: time.Now(),
	})
	if err == nil {
		t.Fatal("expected error for invalid kind")
	}
}
