package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/halvarsson/hemma/internal/model"
)

type RecipeStore struct {
	db *sql.DB
}

func NewRecipeStore(db *sql.DB) *RecipeStore {
	return &RecipeStore{db: db}
}

const recipeCols = `id, household_id, name, description, ingredients, instructions,
	category, servings, prep_minutes, created_at, updated_at`

func scanRecipe(scanner interface{ Scan(...any) error }) (*model.Recipe, error) {
	var r model.Recipe
	var ingredients string
	err := scanner.Scan(
		&r.ID, &r.HouseholdID, &r.Name, &r.Description, &ingredients,
		&r.Instructions, &r.Category, &r.Servings, &r.PrepMinutes,
		&r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(ingredients), &r.Ingredients); err != nil {
		return nil, fmt.Errorf("decode ingredients: %w", err)
	}
	return &r, nil
}

func marshalIngredients(ingredients []string) (string, error) {
	if ingredients == nil {
		ingredients = []string{}
	}
	data, err := json.Marshal(ingredients)
	if err != nil {
		return "", fmt.Errorf("encode ingredients: %w", err)
	}
	return string(data), nil
}

func (s *RecipeStore) Create(r *model.Recipe) (*model.Recipe, error) {
	ingredients, err := marshalIngredients(r.Ingredients)
	if err != nil {
		return nil, err
	}
	result, err := s.db.Exec(
		`INSERT INTO recipes (household_id, name, description, ingredients, instructions, category, servings, prep_minutes)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.HouseholdID, r.Name, r.Description, ingredients, r.Instructions,
		r.Category, r.Servings, r.PrepMinutes,
	)
	if err != nil {
		return nil, fmt.Errorf("insert recipe: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id, r.HouseholdID)
}

func (s *RecipeStore) GetByID(id, householdID int64) (*model.Recipe, error) {
	row := s.db.QueryRow(
		`SELECT `+recipeCols+` FROM recipes WHERE id = ? AND household_id = ?`,
		id, householdID,
	)
	r, err := scanRecipe(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get recipe: %w", err)
	}
	return r, nil
}

// List returns recipes for a household, optionally filtered by category.
func (s *RecipeStore) List(householdID int64, category string) ([]model.Recipe, error) {
	query := `SELECT ` + recipeCols + ` FROM recipes WHERE household_id = ?`
	args := []any{householdID}
	if category != "" {
		query += ` AND category = ?`
		args = append(args, category)
	}
	query += ` ORDER BY name COLLATE NOCASE ASC`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list recipes: %w", err)
	}
	defer rows.Close()
	return collectRecipes(rows)
}

// Search matches recipe name, description or ingredient text.
func (s *RecipeStore) Search(householdID int64, term string) ([]model.Recipe, error) {
	pattern := "%" + term + "%"
	rows, err := s.db.Query(
		`SELECT `+recipeCols+` FROM recipes
		 WHERE household_id = ? AND (name LIKE ? OR description LIKE ? OR ingredients LIKE ?)
		 ORDER BY name COLLATE NOCASE ASC`,
		householdID, pattern, pattern, pattern,
	)
	if err != nil {
		return nil, fmt.Errorf("search recipes: %w", err)
	}
	defer rows.Close()
	return collectRecipes(rows)
}

func (s *RecipeStore) Update(r *model.Recipe) (*model.Recipe, error) {
	ingredients, err := marshalIngredients(r.Ingredients)
	if err != nil {
		return nil, err
	}
	_, err = s.db.Exec(
		`UPDATE recipes
		 SET name = ?, description = ?, ingredients = ?, instructions = ?,
		     category = ?, servings = ?, prep_minutes = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND household_id = ?`,
		r.Name, r.Description, ingredients, r.Instructions,
		r.Category, r.Servings, r.PrepMinutes, r.ID, r.HouseholdID,
	)
	if err != nil {
		return nil, fmt.Errorf("update recipe: %w", err)
	}
	return s.GetByID(r.ID, r.HouseholdID)
}

func (s *RecipeStore) Delete(id, householdID int64) error {
	_, err := s.db.Exec(`DELETE FROM recipes WHERE id = ? AND household_id = ?`, id, householdID)
	if err != nil {
		return fmt.Errorf("delete recipe: %w", err)
	}
	return nil
}

// LinkToEvent attaches a recipe to an event menu. Linking twice is a no-op.
func (s *RecipeStore) LinkToEvent(eventID, recipeID int64) error {
	_, err := s.db.Exec(
		`INSERT OR IGNORE INTO event_recipes (event_id, recipe_id) VALUES (?, ?)`,
		eventID, recipeID,
	)
	if err != nil {
		return fmt.Errorf("link recipe to event: %w", err)
	}
	return nil
}

func (s *RecipeStore) UnlinkFromEvent(eventID, recipeID int64) error {
	_, err := s.db.Exec(
		`DELETE FROM event_recipes WHERE event_id = ? AND recipe_id = ?`,
		eventID, recipeID,
	)
	if err != nil {
		return fmt.Errorf("unlink recipe from event: %w", err)
	}
	return nil
}

// ListByEvent returns the recipes on an event's menu.
func (s *RecipeStore) ListByEvent(eventID int64) ([]model.Recipe, error) {
	rows, err := s.db.Query(
		`SELECT r.id, r.household_id, r.name, r.description, r.ingredients, r.instructions,
		        r.category, r.servings, r.prep_minutes, r.created_at, r.updated_at
		 FROM recipes r
		 JOIN event_recipes er ON er.recipe_id = r.id
		 WHERE er.event_id = ?
		 ORDER BY r.name COLLATE NOCASE ASC`,
		eventID,
	)
	if err != nil {
		return nil, fmt.Errorf("list event recipes: %w", err)
	}
	defer rows.Close()
	return collectRecipes(rows)
}

func collectRecipes(rows *sql.Rows) ([]model.Recipe, error) {
	var recipes []model.Recipe
	for rows.Next() {
		r, err := scanRecipe(rows)
		if err != nil {
			return nil, fmt.Errorf("scan recipe: %w", err)
		}
		recipes = append(recipes, *r)
	}
	return recipes, rows.Err()
}
