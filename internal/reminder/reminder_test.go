package reminder

import (
	"testing"
	"time"
)

func TestOffsetDuration(t *testing.T) {
	for _, tc := range []struct {
		offset Offset
		want   time.Duration
	}{
		{Offset{Amount: 3, Unit: UnitHours}, 3 * time.Hour},
		{Offset{Amount: 2, Unit: UnitDays}, 48 * time.Hour},
		{Offset{Amount: 1, Unit: UnitWeeks}, 7 * 24 * time.Hour},
	} {
		got, err := tc.offset.Duration()
		if err != nil {
			t.Errorf("%+v: %v", tc.offset, err)
			continue
		}
		if got != tc.want {
			t.Errorf("%+v = %v, want %v", tc.offset, got, tc.want)
		}
	}
}

func TestOffsetDurationRejectsInvalid(t *testing.T) {
	if _, err := (Offset{Amount: 0, Unit: UnitHours}).Duration(); err == nil {
		t.Error("zero amount accepted")
	}
	if _, err := (Offset{Amount: -1, Unit: UnitDays}).Duration(); err == nil {
		t.Error("negative amount accepted")
	}
	if _, err := (Offset{Amount: 1, Unit: Unit("fortnights")}).Duration(); err == nil {
		t.Error("unknown unit accepted")
	}
}

func TestDeclarationResolve(t *testing.T) {
	target := time.Date(2026, 6, 19, 18, 0, 0, 0, time.UTC)

	d := Declaration{Offset: &Offset{Amount: 2, Unit: UnitDays}}
	at, err := d.Resolve(target)
	if err != nil {
		t.Fatalf("resolve offset: %v", err)
	}
	if !at.Equal(target.Add(-48 * time.Hour)) {
		t.Errorf("offset resolution = %v", at)
	}

	abs := time.Date(2026, 6, 18, 9, 0, 0, 0, time.UTC)
	d = Declaration{At: &abs}
	at, err = d.Resolve(target)
	if err != nil {
		t.Fatalf("resolve absolute: %v", err)
	}
	if !at.Equal(abs) {
		t.Errorf("absolute resolution = %v", at)
	}
}

func TestDeclarationResolveExactlyOne(t *testing.T) {
	target := time.Now()
	abs := target.Add(-time.Hour)

	if _, err := (Declaration{}).Resolve(target); err == nil {
		t.Error("empty declaration accepted")
	}
	both := Declaration{Offset: &Offset{Amount: 1, Unit: UnitHours}, At: &abs}
	if _, err := both.Resolve(target); err == nil {
		t.Error("declaration with both offset and absolute time accepted")
	}
}

func TestDescribeLead(t *testing.T) {
	target := time.Date(2026, 6, 19, 18, 0, 0, 0, time.UTC)
	for _, tc := range []struct {
		gap  time.Duration
		want string
	}{
		{14 * 24 * time.Hour, "Om 2 veckor"},
		{7 * 24 * time.Hour, "Om 1 vecka"},
		{3 * 24 * time.Hour, "Om 3 dagar"},
		{24 * time.Hour, "Imorgon"},
		{5 * time.Hour, "Om 5 timmar"},
		{time.Hour, "Om 1 timme"},
		{10 * time.Minute, "Nu"},
	} {
		if got := describeLead(target.Add(-tc.gap), target); got != tc.want {
			t.Errorf("gap %v = %q, want %q", tc.gap, got, tc.want)
		}
	}
}
