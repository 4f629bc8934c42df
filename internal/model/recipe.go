package model

import "time"

type Recipe struct {
	ID           int64     `json:"id"`
	HouseholdID  int64     `json:"household_id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Ingredients  []string  `json:"ingredients"`
	Instructions string    `json:"instructions"`
	Category     string    `json:"category"`
	Servings     int       `json:"servings"`
	PrepMinutes  int       `json:"prep_minutes"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// EventRecipe links a recipe to an event menu.
type EventRecipe struct {
	ID        int64     `json:"id"`
	EventID   int64     `json:"event_id"`
	RecipeID  int64     `json:"recipe_id"`
	CreatedAt time.Time `json:"created_at"`
}
