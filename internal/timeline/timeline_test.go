package timeline

import (
	"testing"
	"time"

	"github.com/halvarsson/hemma/internal/model"
)

func TestWeeksUntil(t *testing.T) {
	today := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	for _, tc := range []struct {
		name  string
		event time.Time
		want  int
	}{
		{"same day", today, 0},
		{"three days out", today.AddDate(0, 0, 3), 0},
		{"exactly one week", today.AddDate(0, 0, 7), 1},
		{"ten days out", today.AddDate(0, 0, 10), 1},
		{"yesterday floors to -1", today.AddDate(0, 0, -1), -1},
		{"eight days past floors to -2", today.AddDate(0, 0, -8), -2},
	} {
		t.Run(tc.name, func(t *testing.T) {
			if got := WeeksUntil(tc.event, today); got != tc.want {
				t.Errorf("WeeksUntil = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestWeeksUntilIgnoresTimeOfDay(t *testing.T) {
	// Late evening today, early morning event: still whole calendar days.
	today := time.Date(2026, 3, 2, 23, 50, 0, 0, time.UTC)
	event := time.Date(2026, 3, 9, 0, 10, 0, 0, time.UTC)
	if got := WeeksUntil(event, today); got != 1 {
		t.Errorf("WeeksUntil = %d, want 1", got)
	}
}

func TestPhaseStatus(t *testing.T) {
	if got := PhaseStatus(4, 6); got != StatusCompleted {
		t.Errorf("past lead = %v, want completed", got)
	}
	if got := PhaseStatus(4, 4); got != StatusCurrent {
		t.Errorf("matching lead = %v, want current", got)
	}
	if got := PhaseStatus(4, 2); got != StatusUpcoming {
		t.Errorf("future lead = %v, want upcoming", got)
	}
}

func TestProject(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	event := &model.Event{
		ID:        7,
		Title:     "Studentfest",
		StartTime: now.AddDate(0, 0, 28), // four weeks out
	}
	phases := []model.TimelinePhase{
		{ID: 1, EventID: 7, Name: "Skicka inbjudningar", WeeksBefore: 4},
		{ID: 2, EventID: 7, Name: "Boka lokal", WeeksBefore: 8},
		{ID: 3, EventID: 7, Name: "Handla", WeeksBefore: 1},
	}

	p := Project(event, phases, now)

	if p.WeeksUntil != 4 {
		t.Fatalf("WeeksUntil = %d, want 4", p.WeeksUntil)
	}
	if len(p.Steps) != 4 {
		t.Fatalf("expected 3 phases + event day, got %d steps", len(p.Steps))
	}

	// Sorted furthest lead first, event day last.
	wantOrder := []string{"Boka lokal", "Skicka inbjudningar", "Handla", "Studentfest"}
	wantStatus := []Status{StatusCompleted, StatusCurrent, StatusUpcoming, StatusUpcoming}
	for i := range wantOrder {
		if p.Steps[i].Name != wantOrder[i] {
			t.Errorf("step %d = %q, want %q", i, p.Steps[i].Name, wantOrder[i])
		}
		if p.Steps[i].Status != wantStatus[i] {
			t.Errorf("step %d status = %v, want %v", i, p.Steps[i].Status, wantStatus[i])
		}
	}
	if !p.Steps[3].EventDay {
		t.Error("final step should be the event day")
	}

	// Half of the 8-week lead has elapsed.
	if p.Progress != 50 {
		t.Errorf("progress = %d, want 50", p.Progress)
	}
}

func TestProjectPastEvent(t *testing.T) {
	now := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	event := &model.Event{ID: 1, Title: "Kalas", StartTime: now.AddDate(0, 0, -7)}
	phases := []model.TimelinePhase{{ID: 1, EventID: 1, Name: "Planera", WeeksBefore: 2}}

	p := Project(event, phases, now)
	if p.Progress != 100 {
		t.Errorf("past event progress = %d, want 100", p.Progress)
	}
	for _, step := range p.Steps {
		if step.Status != StatusCompleted {
			t.Errorf("step %q = %v, want completed", step.Name, step.Status)
		}
	}
}

func TestProjectEmpty(t *testing.T) {
	now := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	event := &model.Event{ID: 1, Title: "Resa", StartTime: now.AddDate(0, 0, 14)}

	p := Project(event, nil, now)
	if !p.Empty {
		t.Error("projection with no phases should be flagged empty")
	}
	if len(p.Steps) != 1 || !p.Steps[0].EventDay {
		t.Errorf("expected only the event-day step, got %v", p.Steps)
	}
	if p.Progress != 0 {
		t.Errorf("progress = %d, want 0", p.Progress)
	}
}
