package store

import (
	"testing"
	"time"

	"github.com/halvarsson/hemma/internal/model"
)

func TestEventRangeQuery(t *testing.T) {
	db := testDB(t)
	household := createHousehold(t, db, "ABC123")
	events := NewEventStore(db)

	start := time.Date(2024, 12, 24, 18, 0, 0, 0, time.UTC)
	created, err := events.Create(&model.Event{
		HouseholdID: household.ID,
		Title:       "Julafton hos farmor",
		Category:    model.CategoryChristmas,
		StartTime:   start,
		EndTime:     start.Add(4 * time.Hour),
	})
	if err != nil {
		t.Fatalf("create event: %v", err)
	}
	if created.ID == 0 {
		t.Fatal("expected assigned id")
	}

	rangeStart := time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC)
	rangeEnd := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	got, err := events.ListByDateRange(household.ID, rangeStart, rangeEnd)
	if err != nil {
		t.Fatalf("list events: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 event in December 2024, got %d", len(got))
	}
	if got[0].Title != "Julafton hos farmor" {
		t.Errorf("unexpected event: %q", got[0].Title)
	}
	if !got[0].StartTime.UTC().Equal(start) {
		t.Errorf("start time = %v, want %v", got[0].StartTime.UTC(), start)
	}

	// November range must not include it.
	novEnd := time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC)
	got, err = events.ListByDateRange(household.ID, novEnd.AddDate(0, -1, 0), novEnd)
	if err != nil {
		t.Fatalf("list events: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no events in November, got %d", len(got))
	}
}

func TestEventHouseholdScope(t *testing.T) {
	db := testDB(t)
	a := createHousehold(t, db, "AAAA")
	b := createHousehold(t, db, "BBBB")
	events := NewEventStore(db)

	start := time.Now().UTC().Add(24 * time.Hour)
	created, err := events.Create(&model.Event{
		HouseholdID: a.ID,
		Title:       "Kalas",
		Category:    model.CategoryBirthday,
		StartTime:   start,
		EndTime:     start.Add(2 * time.Hour),
	})
	if err != nil {
		t.Fatalf("create event: %v", err)
	}

	got, err := events.GetByID(created.ID, b.ID)
	if err != nil {
		t.Fatalf("get event: %v", err)
	}
	if got != nil {
		t.Fatal("event leaked across households")
	}

	if err := events.Delete(created.ID, b.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if got, _ := events.GetByID(created.ID, a.ID); got == nil {
		t.Fatal("delete from wrong household removed the event")
	}
}

func TestEventUpdate(t *testing.T) {
	db := testDB(t)
	household := createHousehold(t, db, "UPD123")
	events := NewEventStore(db)

	start := time.Date(2026, 6, 19, 12, 0, 0, 0, time.UTC)
	created, err := events.Create(&model.Event{
		HouseholdID: household.ID,
		Title:       "Midsommar",
		Category:    model.CategoryMidsummer,
		StartTime:   start,
		EndTime:     start.Add(6 * time.Hour),
	})
	if err != nil {
		t.Fatalf("create event: %v", err)
	}

	created.Location = "Dalarna"
	created.ThemeOverride = true
	updated, err := events.Update(created)
	if err != nil {
		t.Fatalf("update event: %v", err)
	}
	if updated.Location != "Dalarna" || !updated.ThemeOverride {
		t.Errorf("update not persisted: %+v", updated)
	}
}

func TestEventListUpcoming(t *testing.T) {
	db := testDB(t)
	household := createHousehold(t, db, "UPC123")
	events := NewEventStore(db)

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, title := range []string{"Imorgon", "Nästa vecka", "Igår"} {
		start := now.AddDate(0, 0, []int{1, 7, -1}[i])
		if _, err := events.Create(&model.Event{
			HouseholdID: household.ID,
			Title:       title,
			Category:    model.CategoryOther,
			StartTime:   start,
			EndTime:     start.Add(time.Hour),
		}); err != nil {
			t.Fatalf("create event: %v", err)
		}
	}

	got, err := events.ListUpcoming(household.ID, now, 10)
	if err != nil {
		t.Fatalf("list upcoming: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 upcoming events, got %d", len(got))
	}
	if got[0].Title != "Imorgon" || got[1].Title != "Nästa vecka" {
		t.Errorf("wrong order: %q, %q", got[0].Title, got[1].Title)
	}
}
