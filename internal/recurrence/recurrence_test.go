package recurrence

import (
	"testing"
	"time"
)

func TestParse(t *testing.T) {
	rule, err := Parse("weekly")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if rule.Freq != Weekly || rule.Interval != 1 || rule.Until != nil {
		t.Errorf("unexpected rule: %+v", rule)
	}

	rule, err = Parse("daily;interval=3")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if rule.Freq != Daily || rule.Interval != 3 {
		t.Errorf("unexpected rule: %+v", rule)
	}

	rule, err = Parse("yearly;until=2030-12-31")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if rule.Until == nil {
		t.Fatal("until not parsed")
	}
	// The whole until day counts.
	lastMoment := time.Date(2030, 12, 31, 23, 59, 0, 0, time.UTC)
	if rule.Until.Before(lastMoment) {
		t.Errorf("until = %v, should cover the full day", rule.Until)
	}

	// Parameters in either order, case-insensitive keyword.
	rule, err = Parse("Monthly;until=2027-06-01;interval=2")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if rule.Freq != Monthly || rule.Interval != 2 || rule.Until == nil {
		t.Errorf("unexpected rule: %+v", rule)
	}
}

func TestParseRejectsMalformed(t *testing.T) {
	for _, pattern := range []string{
		"",
		"hourly",
		"weekly;interval=0",
		"weekly;interval=abc",
		"daily;until=31/12/2030",
		"daily;foo=bar",
		"daily;interval",
	} {
		if _, err := Parse(pattern); err == nil {
			t.Errorf("Parse(%q) accepted a malformed pattern", pattern)
		}
	}
}

func TestStringRoundTrip(t *testing.T) {
	for _, pattern := range []string{
		"daily",
		"weekly;interval=2",
		"monthly;until=2027-03-15",
		"yearly;interval=5;until=2040-01-01",
	} {
		rule, err := Parse(pattern)
		if err != nil {
			t.Fatalf("parse %q: %v", pattern, err)
		}
		if got := rule.String(); got != pattern {
			t.Errorf("round trip %q = %q", pattern, got)
		}
	}
}

func TestExpandWeekly(t *testing.T) {
	eventStart := time.Date(2026, 1, 5, 18, 0, 0, 0, time.UTC)
	eventEnd := eventStart.Add(time.Hour)
	rangeStart := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	rangeEnd := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	occs := Expand(Rule{Freq: Weekly, Interval: 1}, eventStart, eventEnd, rangeStart, rangeEnd)
	if len(occs) != 4 {
		t.Fatalf("expected 4 Mondays in January, got %d", len(occs))
	}
	for i, occ := range occs {
		want := eventStart.AddDate(0, 0, 7*i)
		if !occ.Start.Equal(want) {
			t.Errorf("occurrence %d = %v, want %v", i, occ.Start, want)
		}
		if occ.End.Sub(occ.Start) != time.Hour {
			t.Errorf("occurrence %d duration = %v", i, occ.End.Sub(occ.Start))
		}
	}
}

func TestExpandInterval(t *testing.T) {
	eventStart := time.Date(2026, 1, 5, 12, 0, 0, 0, time.UTC)
	eventEnd := eventStart.Add(30 * time.Minute)
	rangeStart := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	rangeEnd := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	occs := Expand(Rule{Freq: Weekly, Interval: 2}, eventStart, eventEnd, rangeStart, rangeEnd)
	if len(occs) != 2 {
		t.Fatalf("expected 2 biweekly occurrences, got %d", len(occs))
	}
	if !occs[1].Start.Equal(eventStart.AddDate(0, 0, 14)) {
		t.Errorf("second occurrence = %v", occs[1].Start)
	}
}

func TestExpandRespectsUntil(t *testing.T) {
	eventStart := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	eventEnd := eventStart.Add(time.Hour)
	until := time.Date(2026, 1, 3, 23, 59, 59, 0, time.UTC)
	rangeStart := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	rangeEnd := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	occs := Expand(Rule{Freq: Daily, Interval: 1, Until: &until}, eventStart, eventEnd, rangeStart, rangeEnd)
	if len(occs) != 3 {
		t.Fatalf("expected 3 occurrences through the until day, got %d", len(occs))
	}
}

func TestExpandOverlapWindow(t *testing.T) {
	// An occurrence that starts before the window but ends inside it counts.
	eventStart := time.Date(2026, 1, 1, 23, 0, 0, 0, time.UTC)
	eventEnd := eventStart.Add(2 * time.Hour)
	rangeStart := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)
	rangeEnd := time.Date(2026, 1, 3, 0, 0, 0, 0, time.UTC)

	occs := Expand(Rule{Freq: Weekly, Interval: 1}, eventStart, eventEnd, rangeStart, rangeEnd)
	if len(occs) != 1 {
		t.Fatalf("expected the straddling occurrence, got %d", len(occs))
	}

	// One that ends exactly at the window start does not.
	occs = Expand(Rule{Freq: Weekly, Interval: 1}, eventStart, eventStart.Add(time.Hour), rangeStart, rangeEnd)
	if len(occs) != 0 {
		t.Fatalf("occurrence ending at window start should be excluded, got %d", len(occs))
	}
}

func TestExpandMonthlyAndYearly(t *testing.T) {
	eventStart := time.Date(2026, 1, 15, 8, 0, 0, 0, time.UTC)
	eventEnd := eventStart.Add(time.Hour)

	occs := Expand(Rule{Freq: Monthly, Interval: 1}, eventStart, eventEnd,
		time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC))
	if len(occs) != 3 {
		t.Fatalf("expected 3 monthly occurrences, got %d", len(occs))
	}

	occs = Expand(Rule{Freq: Yearly, Interval: 1}, eventStart, eventEnd,
		time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2028, 12, 31, 0, 0, 0, 0, time.UTC))
	if len(occs) != 2 {
		t.Fatalf("expected 2 yearly occurrences in the window, got %d", len(occs))
	}
	if !occs[0].Start.Equal(time.Date(2027, 1, 15, 8, 0, 0, 0, time.UTC)) {
		t.Errorf("first yearly occurrence = %v", occs[0].Start)
	}
}
