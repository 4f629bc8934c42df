package theme

import (
	"log/slog"
	"testing"
	"time"

	"github.com/halvarsson/hemma/internal/model"
)

func TestForMonthTotal(t *testing.T) {
	// Every month resolves to a named theme with a non-default season name.
	for month := 0; month < 12; month++ {
		if ForMonth(month) == "standard" {
			t.Errorf("month %d has no theme", month)
		}
		if SeasonName(month) == DefaultName {
			t.Errorf("month %d has no season name", month)
		}
	}

	if got := ForMonth(11); got != "jul" {
		t.Errorf("December theme = %q, want jul", got)
	}
	if got := SeasonName(11); got != "Julkalendern" {
		t.Errorf("December name = %q, want Julkalendern", got)
	}
	if got := ForMonth(5); got != "midsommar" {
		t.Errorf("June theme = %q, want midsommar", got)
	}
}

func TestForMonthOutOfRange(t *testing.T) {
	for _, month := range []int{-1, 12, 99} {
		if got := ForMonth(month); got != "standard" {
			t.Errorf("ForMonth(%d) = %q, want standard", month, got)
		}
		if got := SeasonName(month); got != DefaultName {
			t.Errorf("SeasonName(%d) = %q, want %q", month, got, DefaultName)
		}
	}
}

func TestForCategory(t *testing.T) {
	if got := ForCategory(model.CategoryWedding); got != "brollop" {
		t.Errorf("wedding theme = %q, want brollop", got)
	}
	if got := ForCategory(model.EventCategory("unknown")); got != "standard" {
		t.Errorf("unknown category = %q, want standard", got)
	}
}

func testResolverAt(t *testing.T, at time.Time) *Resolver {
	t.Helper()
	return newResolver(func() time.Time { return at }, slog.Default())
}

func TestResolverOverrideWins(t *testing.T) {
	// July, so the base theme is sommar.
	r := testResolverAt(t, time.Date(2026, 7, 15, 12, 0, 0, 0, time.UTC))

	if got := r.Resolve(); got != "sommar" {
		t.Fatalf("base theme = %q, want sommar", got)
	}

	r.SetEventTheme(model.CategoryBirthday)
	if got := r.Resolve(); got != "kalas" {
		t.Errorf("override theme = %q, want kalas", got)
	}
	if got := r.Name(); got != DefaultName {
		t.Errorf("override name = %q, want %q", got, DefaultName)
	}

	r.ClearEventTheme()
	if got := r.Resolve(); got != "sommar" {
		t.Errorf("after clear = %q, want sommar", got)
	}
	if got := r.Name(); got != "Sommarkalendern" {
		t.Errorf("after clear name = %q, want Sommarkalendern", got)
	}
}

func TestResolverIgnoresInvalidOverride(t *testing.T) {
	r := testResolverAt(t, time.Date(2026, 7, 15, 12, 0, 0, 0, time.UTC))
	r.SetEventTheme(model.EventCategory("nonsense"))
	if got := r.Resolve(); got != "sommar" {
		t.Errorf("invalid override changed theme to %q", got)
	}
}

func TestResolverRefreshTracksMonth(t *testing.T) {
	now := time.Date(2026, 11, 30, 23, 0, 0, 0, time.UTC)
	r := newResolver(func() time.Time { return now }, slog.Default())

	if got := r.Resolve(); got != "advent" {
		t.Fatalf("November theme = %q, want advent", got)
	}

	now = time.Date(2026, 12, 1, 0, 30, 0, 0, time.UTC)
	r.Refresh()
	if got := r.Resolve(); got != "jul" {
		t.Errorf("after month rollover = %q, want jul", got)
	}
}
