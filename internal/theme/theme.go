// Package theme maps the calendar to a seasonal look. Each month has a
// fixed theme; a major event (birthday party, christmas, midsummer) can
// override the month theme while it is active.
package theme

import "github.com/halvarsson/hemma/internal/model"

// DefaultName is the fallback shown when no seasonal name applies.
const DefaultName = "Familjekalendern"

// monthThemes maps month index (0 = January) to a theme identifier used as
// a CSS class hook by the frontend.
var monthThemes = [12]string{
	"nyar",      // January
	"vinter",    // February
	"varvinter", // March
	"var",       // April
	"forsommar", // May
	"midsommar", // June
	"sommar",    // July
	"sensommar", // August
	"host",      // September
	"hostmys",   // October
	"advent",    // November
	"jul",       // December
}

// monthNames maps month index to the Swedish calendar name shown in the
// header.
var monthNames = [12]string{
	"Nyårskalendern",
	"Vinterkalendern",
	"Vårvinterkalendern",
	"Vårkalendern",
	"Försommarkalendern",
	"Midsommarkalendern",
	"Sommarkalendern",
	"Sensommarkalendern",
	"Höstkalendern",
	"Höstmyskalendern",
	"Adventskalendern",
	"Julkalendern",
}

// categoryThemes maps event categories to their override theme identifier.
var categoryThemes = map[model.EventCategory]string{
	model.CategoryBirthday:   "kalas",
	model.CategoryWedding:    "brollop",
	model.CategoryChristmas:  "jul",
	model.CategoryMidsummer:  "midsommar",
	model.CategoryEaster:     "pask",
	model.CategoryGraduation: "student",
	model.CategoryParty:      "fest",
	model.CategoryTrip:       "resa",
	model.CategoryOther:      "fest",
}

// ForMonth returns the theme identifier for a month index (0 = January).
// Out-of-range input falls back to the default theme.
func ForMonth(month int) string {
	if month < 0 || month > 11 {
		return "standard"
	}
	return monthThemes[month]
}

// SeasonName returns the Swedish calendar name for a month index
// (0 = January), or DefaultName for out-of-range input.
func SeasonName(month int) string {
	if month < 0 || month > 11 {
		return DefaultName
	}
	return monthNames[month]
}

// ForCategory returns the override theme for an event category. Unknown
// categories get the default theme.
func ForCategory(category model.EventCategory) string {
	if t, ok := categoryThemes[category]; ok {
		return t
	}
	return "standard"
}
