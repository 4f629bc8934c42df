package store

import (
	"testing"

	"github.com/halvarsson/hemma/internal/model"
)

func TestPreferencesDefaults(t *testing.T) {
	db := testDB(t)
	household := createHousehold(t, db, "PRF123")
	prefs := NewPreferencesStore(db)

	got, err := prefs.Get(household.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != model.DefaultPreferences() {
		t.Errorf("household without a row should get pure defaults, got %+v", got)
	}
}

func TestPreferencesRoundTrip(t *testing.T) {
	db := testDB(t)
	household := createHousehold(t, db, "PRF456")
	prefs := NewPreferencesStore(db)

	p := model.DefaultPreferences()
	p.DinnerTime = "18:00"
	p.DefaultReminderHr = 48
	if err := prefs.Set(household.ID, p); err != nil {
		t.Fatalf("set: %v", err)
	}

	got, err := prefs.Get(household.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.DinnerTime != "18:00" || got.DefaultReminderHr != 48 {
		t.Errorf("stored values lost: %+v", got)
	}
	if got.Locale != "sv-SE" {
		t.Errorf("untouched field changed: %q", got.Locale)
	}
}

func TestPreferencesPartialBlobMergesOverDefaults(t *testing.T) {
	db := testDB(t)
	household := createHousehold(t, db, "PRF789")
	prefs := NewPreferencesStore(db)

	// A blob written by an older version, missing newer fields.
	_, err := db.Exec(
		`INSERT INTO household_preferences (household_id, data) VALUES (?, ?)`,
		household.ID, `{"dinner_time": "19:00"}`,
	)
	if err != nil {
		t.Fatalf("seed partial blob: %v", err)
	}

	got, err := prefs.Get(household.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.DinnerTime != "19:00" {
		t.Errorf("stored key ignored: %q", got.DinnerTime)
	}
	if got.Timezone != "Europe/Stockholm" || got.DefaultReminderHr != 24 {
		t.Errorf("missing keys should keep defaults: %+v", got)
	}
}

func TestPreferencesSeedKeepsExisting(t *testing.T) {
	db := testDB(t)
	household := createHousehold(t, db, "PRF000")
	prefs := NewPreferencesStore(db)

	p := model.DefaultPreferences()
	p.PushEnabled = false
	if err := prefs.Set(household.ID, p); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := prefs.Seed(household.ID); err != nil {
		t.Fatalf("seed: %v", err)
	}

	got, err := prefs.Get(household.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.PushEnabled {
		t.Error("seed overwrote an existing row")
	}
}
