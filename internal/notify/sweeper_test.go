package notify

import (
	"log/slog"
	"testing"
	"time"

	"github.com/halvarsson/hemma/internal/database"
	"github.com/halvarsson/hemma/internal/model"
	"github.com/halvarsson/hemma/internal/push"
	"github.com/halvarsson/hemma/internal/store"
)

func setupSweeper(t *testing.T) (*Sweeper, *store.NotificationStore, int64) {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	household, err := store.NewHouseholdStore(db).Create("SWP123", "Testfamiljen", "hash")
	if err != nil {
		t.Fatalf("create household: %v", err)
	}

	notifications := store.NewNotificationStore(db)
	subscriptions := store.NewPushStore(db)
	service := push.NewService("", "", "")
	sweeper := NewSweeper(notifications, subscriptions, service, slog.Default())
	return sweeper, notifications, household.ID
}

func TestSweepOncePromotesOnlyDue(t *testing.T) {
	sweeper, notifications, householdID := setupSweeper(t)

	past := time.Now().UTC().Add(-time.Hour)
	future := time.Now().UTC().Add(time.Hour)
	if _, err := notifications.Create(&model.Notification{
		HouseholdID: householdID, Kind: model.KindSystem,
		Title: "Förfallen", ScheduledFor: past,
	}); err != nil {
		t.Fatalf("create notification: %v", err)
	}
	if _, err := notifications.Create(&model.Notification{
		HouseholdID: householdID, Kind: model.KindSystem,
		Title: "Framtid", ScheduledFor: future,
	}); err != nil {
		t.Fatalf("create notification: %v", err)
	}

	n, err := sweeper.SweepOnce()
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if n != 1 {
		t.Errorf("promoted %d, want 1", n)
	}

	// A second run finds nothing left to promote.
	n, err = sweeper.SweepOnce()
	if err != nil {
		t.Fatalf("second sweep: %v", err)
	}
	if n != 0 {
		t.Errorf("second sweep promoted %d, want 0", n)
	}
}

func TestTargetURL(t *testing.T) {
	eventID := int64(42)
	for _, tc := range []struct {
		n    model.Notification
		want string
	}{
		{model.Notification{Kind: model.KindEventReminder, EventID: &eventID}, "/calendar/events/42"},
		{model.Notification{Kind: model.KindEventReminder}, "/calendar"},
		{model.Notification{Kind: model.KindTodoDue}, "/todos"},
		{model.Notification{Kind: model.KindSystem}, "/"},
	} {
		if got := targetURL(&tc.n); got != tc.want {
			t.Errorf("targetURL(%s) = %q, want %q", tc.n.Kind, got, tc.want)
		}
	}
}
