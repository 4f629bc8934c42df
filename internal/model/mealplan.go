package model

import "time"

type MealType string

const (
	MealBreakfast MealType = "breakfast"
	MealLunch     MealType = "lunch"
	MealDinner    MealType = "dinner"
	MealSnack     MealType = "snack"
)

func (m MealType) Valid() bool {
	switch m {
	case MealBreakfast, MealLunch, MealDinner, MealSnack:
		return true
	}
	return false
}

// MealPlan covers one week, identified by the Monday it starts on.
type MealPlan struct {
	ID          int64     `json:"id"`
	HouseholdID int64     `json:"household_id"`
	WeekStart   time.Time `json:"week_start"`
	CreatedAt   time.Time `json:"created_at"`
}

type MealPlanItem struct {
	ID        int64     `json:"id"`
	PlanID    int64     `json:"plan_id"`
	Day       int       `json:"day"` // 0 = Monday .. 6 = Sunday
	Meal      MealType  `json:"meal"`
	RecipeID  *int64    `json:"recipe_id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}
