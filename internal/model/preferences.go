package model

// Preferences is the household settings blob. Stored as JSON and
// shallow-merged over DefaultPreferences on read, so adding a field here
// gives existing households the default without a migration.
type Preferences struct {
	Locale            string `json:"locale"`
	Timezone          string `json:"timezone"`
	WeekStartsMonday  bool   `json:"week_starts_monday"`
	DefaultReminderHr int    `json:"default_reminder_hours"`
	PushEnabled       bool   `json:"push_enabled"`
	ThemeOverride     string `json:"theme_override"`
	DinnerTime        string `json:"dinner_time"`
}

func DefaultPreferences() Preferences {
	return Preferences{
		Locale:            "sv-SE",
		Timezone:          "Europe/Stockholm",
		WeekStartsMonday:  true,
		DefaultReminderHr: 24,
		PushEnabled:       true,
		ThemeOverride:     "",
		DinnerTime:        "17:30",
	}
}
