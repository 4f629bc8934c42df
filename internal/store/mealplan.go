package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/halvarsson/hemma/internal/model"
)

type MealPlanStore struct {
	db *sql.DB
}

func NewMealPlanStore(db *sql.DB) *MealPlanStore {
	return &MealPlanStore{db: db}
}

// WeekStart normalizes t to 00:00 UTC on the Monday of its week.
func WeekStart(t time.Time) time.Time {
	t = t.UTC()
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	offset := (int(day.Weekday()) + 6) % 7 // Monday = 0
	return day.AddDate(0, 0, -offset)
}

// GetOrCreate returns the plan for the week containing t, creating it if
// missing. The UNIQUE(household_id, week_start) constraint makes concurrent
// creates collapse to one row.
func (s *MealPlanStore) GetOrCreate(householdID int64, t time.Time) (*model.MealPlan, error) {
	weekStart := WeekStart(t)
	_, err := s.db.Exec(
		`INSERT OR IGNORE INTO meal_plans (household_id, week_start) VALUES (?, ?)`,
		householdID, weekStart,
	)
	if err != nil {
		return nil, fmt.Errorf("insert meal plan: %w", err)
	}
	return s.GetByWeek(householdID, weekStart)
}

func (s *MealPlanStore) GetByWeek(householdID int64, weekStart time.Time) (*model.MealPlan, error) {
	var p model.MealPlan
	err := s.db.QueryRow(
		`SELECT id, household_id, week_start, created_at FROM meal_plans
		 WHERE household_id = ? AND week_start = ?`,
		householdID, WeekStart(weekStart),
	).Scan(&p.ID, &p.HouseholdID, &p.WeekStart, &p.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get meal plan: %w", err)
	}
	return &p, nil
}

func (s *MealPlanStore) GetByID(id, householdID int64) (*model.MealPlan, error) {
	var p model.MealPlan
	err := s.db.QueryRow(
		`SELECT id, household_id, week_start, created_at FROM meal_plans
		 WHERE id = ? AND household_id = ?`,
		id, householdID,
	).Scan(&p.ID, &p.HouseholdID, &p.WeekStart, &p.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get meal plan: %w", err)
	}
	return &p, nil
}

func (s *MealPlanStore) AddItem(planID int64, day int, meal model.MealType, recipeID *int64, title string) (*model.MealPlanItem, error) {
	if day < 0 || day > 6 {
		return nil, fmt.Errorf("invalid day %d: must be 0 (Monday) through 6 (Sunday)", day)
	}
	if !meal.Valid() {
		return nil, fmt.Errorf("invalid meal type: %q", meal)
	}
	result, err := s.db.Exec(
		`INSERT INTO meal_plan_items (plan_id, day, meal, recipe_id, title) VALUES (?, ?, ?, ?, ?)`,
		planID, day, meal, nullInt64(recipeID), title,
	)
	if err != nil {
		return nil, fmt.Errorf("insert meal plan item: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetItem(id)
}

func (s *MealPlanStore) GetItem(id int64) (*model.MealPlanItem, error) {
	var it model.MealPlanItem
	var recipeID sql.NullInt64
	err := s.db.QueryRow(
		`SELECT id, plan_id, day, meal, recipe_id, title, created_at
		 FROM meal_plan_items WHERE id = ?`,
		id,
	).Scan(&it.ID, &it.PlanID, &it.Day, &it.Meal, &recipeID, &it.Title, &it.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get meal plan item: %w", err)
	}
	if recipeID.Valid {
		it.RecipeID = &recipeID.Int64
	}
	return &it, nil
}

// ListItems returns a plan's items in weekday then meal order.
func (s *MealPlanStore) ListItems(planID int64) ([]model.MealPlanItem, error) {
	rows, err := s.db.Query(
		`SELECT id, plan_id, day, meal, recipe_id, title, created_at
		 FROM meal_plan_items WHERE plan_id = ?
		 ORDER BY day ASC,
		   CASE meal WHEN 'breakfast' THEN 0 WHEN 'lunch' THEN 1 WHEN 'dinner' THEN 2 ELSE 3 END`,
		planID,
	)
	if err != nil {
		return nil, fmt.Errorf("list meal plan items: %w", err)
	}
	defer rows.Close()

	var items []model.MealPlanItem
	for rows.Next() {
		var it model.MealPlanItem
		var recipeID sql.NullInt64
		if err := rows.Scan(&it.ID, &it.PlanID, &it.Day, &it.Meal, &recipeID, &it.Title, &it.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan meal plan item: %w", err)
		}
		if recipeID.Valid {
			it.RecipeID = &recipeID.Int64
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (s *MealPlanStore) DeleteItem(id int64) error {
	_, err := s.db.Exec(`DELETE FROM meal_plan_items WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete meal plan item: %w", err)
	}
	return nil
}

// ClearWeek removes every item from a plan, keeping the plan row.
func (s *MealPlanStore) ClearWeek(planID int64) error {
	_, err := s.db.Exec(`DELETE FROM meal_plan_items WHERE plan_id = ?`, planID)
	if err != nil {
		return fmt.Errorf("clear meal plan: %w", err)
	}
	return nil
}
