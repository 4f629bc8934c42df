package store

import (
	"testing"
	"time"

	"github.com/halvarsson/hemma/internal/model"
)

func TestTodoDueOrOverdue(t *testing.T) {
	db := testDB(t)
	household := createHousehold(t, db, "DUE123")
	todos := NewTodoStore(db)

	now := time.Date(2026, 5, 10, 9, 0, 0, 0, time.UTC)
	overdue := now.AddDate(0, 0, -3)
	today := time.Date(2026, 5, 10, 20, 0, 0, 0, time.UTC)
	nextWeek := now.AddDate(0, 0, 7)

	mk := func(title string, due *time.Time) *model.Todo {
		t.Helper()
		todo, err := todos.Create(&model.Todo{
			HouseholdID: household.ID,
			Title:       title,
			DueDate:     due,
			Priority:    model.PriorityMedium,
		})
		if err != nil {
			t.Fatalf("create todo: %v", err)
		}
		return todo
	}

	late := mk("Boka lokal", &overdue)
	mk("Handla", &today)
	mk("Skicka inbjudningar", &nextWeek)
	mk("Ingen deadline", nil)

	got, err := todos.ListDueOrOverdue(household.ID, now)
	if err != nil {
		t.Fatalf("list due: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 due todos, got %d", len(got))
	}
	if got[0].Title != "Boka lokal" {
		t.Errorf("overdue todo should sort first, got %q", got[0].Title)
	}

	// Completing the overdue todo removes it from the due list.
	if _, err := todos.Complete(late.ID, household.ID, "Anna", now); err != nil {
		t.Fatalf("complete: %v", err)
	}
	got, err = todos.ListDueOrOverdue(household.ID, now)
	if err != nil {
		t.Fatalf("list due: %v", err)
	}
	if len(got) != 1 || got[0].Title != "Handla" {
		t.Fatalf("expected only today's todo, got %v", got)
	}
}

func TestTodoCompleteAndUncomplete(t *testing.T) {
	db := testDB(t)
	household := createHousehold(t, db, "CMP123")
	todos := NewTodoStore(db)

	todo, err := todos.Create(&model.Todo{
		HouseholdID: household.ID,
		Title:       "Baka tårta",
		Priority:    model.PriorityHigh,
	})
	if err != nil {
		t.Fatalf("create todo: %v", err)
	}

	now := time.Now().UTC()
	done, err := todos.Complete(todo.ID, household.ID, "Erik", now)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if !done.Completed || done.CompletedBy != "Erik" || done.CompletedAt == nil {
		t.Errorf("completion not recorded: %+v", done)
	}

	undone, err := todos.Uncomplete(todo.ID, household.ID)
	if err != nil {
		t.Fatalf("uncomplete: %v", err)
	}
	if undone.Completed || undone.CompletedAt != nil || undone.CompletedBy != "" {
		t.Errorf("uncomplete did not reset fields: %+v", undone)
	}
}

func TestTodoListOrdering(t *testing.T) {
	db := testDB(t)
	household := createHousehold(t, db, "ORD123")
	todos := NewTodoStore(db)

	soon := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	later := soon.AddDate(0, 0, 14)

	for _, tc := range []struct {
		title string
		due   *time.Time
	}{
		{"Utan datum", nil},
		{"Senare", &later},
		{"Snart", &soon},
	} {
		if _, err := todos.Create(&model.Todo{
			HouseholdID: household.ID,
			Title:       tc.title,
			DueDate:     tc.due,
			Priority:    model.PriorityMedium,
		}); err != nil {
			t.Fatalf("create todo: %v", err)
		}
	}

	got, err := todos.List(household.ID, nil, false)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	want := []string{"Snart", "Senare", "Utan datum"}
	if len(got) != len(want) {
		t.Fatalf("expected %d todos, got %d", len(want), len(got))
	}
	for i, title := range want {
		if got[i].Title != title {
			t.Errorf("position %d = %q, want %q", i, got[i].Title, title)
		}
	}
}
