package store

import (
	"testing"
	"time"

	"github.com/halvarsson/hemma/internal/model"
)

func TestWeekStart(t *testing.T) {
	for _, tc := range []struct {
		in   time.Time
		want time.Time
	}{
		// A Wednesday normalizes back to Monday.
		{time.Date(2026, 1, 7, 15, 30, 0, 0, time.UTC), time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)},
		// Monday maps to itself.
		{time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC), time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)},
		// Sunday belongs to the week that started six days earlier.
		{time.Date(2026, 1, 11, 23, 59, 0, 0, time.UTC), time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)},
	} {
		if got := WeekStart(tc.in); !got.Equal(tc.want) {
			t.Errorf("WeekStart(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestMealPlanGetOrCreateIsIdempotent(t *testing.T) {
	db := testDB(t)
	household := createHousehold(t, db, "MPL123")
	plans := NewMealPlanStore(db)

	wednesday := time.Date(2026, 1, 7, 12, 0, 0, 0, time.UTC)
	friday := time.Date(2026, 1, 9, 8, 0, 0, 0, time.UTC)

	first, err := plans.GetOrCreate(household.ID, wednesday)
	if err != nil {
		t.Fatalf("get or create: %v", err)
	}
	second, err := plans.GetOrCreate(household.ID, friday)
	if err != nil {
		t.Fatalf("get or create: %v", err)
	}
	if first.ID != second.ID {
		t.Errorf("two days in the same week produced different plans: %d, %d", first.ID, second.ID)
	}
}

func TestMealPlanItems(t *testing.T) {
	db := testDB(t)
	household := createHousehold(t, db, "MPL456")
	plans := NewMealPlanStore(db)

	plan, err := plans.GetOrCreate(household.ID, time.Date(2026, 2, 2, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("get or create: %v", err)
	}

	if _, err := plans.AddItem(plan.ID, 2, model.MealDinner, nil, "Tacos"); err != nil {
		t.Fatalf("add item: %v", err)
	}
	if _, err := plans.AddItem(plan.ID, 0, model.MealBreakfast, nil, "Gröt"); err != nil {
		t.Fatalf("add item: %v", err)
	}
	if _, err := plans.AddItem(plan.ID, 7, model.MealDinner, nil, "Ogiltig dag"); err == nil {
		t.Fatal("expected error for day out of range")
	}
	if _, err := plans.AddItem(plan.ID, 1, "brunch", nil, "Ogiltig måltid"); err == nil {
		t.Fatal("expected error for invalid meal type")
	}

	items, err := plans.ListItems(plan.ID)
	if err != nil {
		t.Fatalf("list items: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].Title != "Gröt" || items[1].Title != "Tacos" {
		t.Errorf("items not in weekday order: %v", items)
	}

	if err := plans.ClearWeek(plan.ID); err != nil {
		t.Fatalf("clear week: %v", err)
	}
	items, err = plans.ListItems(plan.ID)
	if err != nil {
		t.Fatalf("list items: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("clear left %d items", len(items))
	}
}
