package ai

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/halvarsson/hemma/internal/metrics"
	"github.com/halvarsson/hemma/internal/model"
	"github.com/halvarsson/hemma/internal/store"
)

// Service implements the assistant functions. Each one fetches a bounded
// set of household rows, embeds them in a prompt, calls the gateway and
// extracts the JSON answer. Parse failures fall back to a static value;
// only gateway rate/credit errors propagate to the caller.
type Service struct {
	client       *Client
	recipes      *store.RecipeStore
	notes        *store.NoteStore
	events       *store.EventStore
	todos        *store.TodoStore
	interactions *store.AIInteractionStore
	logger       *slog.Logger
	now          func() time.Time
}

func NewService(client *Client, recipes *store.RecipeStore, notes *store.NoteStore, events *store.EventStore, todos *store.TodoStore, interactions *store.AIInteractionStore, logger *slog.Logger) *Service {
	return &Service{
		client:       client,
		recipes:      recipes,
		notes:        notes,
		events:       events,
		todos:        todos,
		interactions: interactions,
		logger:       logger.With("component", "ai"),
		now:          time.Now,
	}
}

// contextLimit bounds how many rows get embedded into a prompt.
const contextLimit = 50

// complete runs one gateway round trip with audit logging and metrics.
// Rate/credit errors pass through; any other failure comes back as ok=false
// so the caller can take its fallback path.
func (s *Service) complete(ctx context.Context, householdID int64, function, query, prompt string, v any) (bool, error) {
	completion, err := s.client.Complete(ctx, prompt)
	if err != nil {
		switch err {
		case ErrRateLimited, ErrPaymentRequired:
			metrics.AIRequests.WithLabelValues(function, "limited").Inc()
			return false, err
		}
		metrics.AIRequests.WithLabelValues(function, "error").Inc()
		s.logger.Warn("gateway call failed", "function", function, "error", err)
		return false, nil
	}

	if err := s.interactions.Record(householdID, function, query, completion); err != nil {
		s.logger.Warn("audit insert failed", "function", function, "error", err)
	}

	if !ExtractJSON(completion, v) {
		metrics.AIRequests.WithLabelValues(function, "unparseable").Inc()
		s.logger.Warn("completion had no parseable JSON", "function", function)
		return false, nil
	}

	metrics.AIRequests.WithLabelValues(function, "ok").Inc()
	return true, nil
}

// --- ai-recipe-search ---

type RecipeSearchResult struct {
	RecipeIDs  []int64 `json:"recipe_ids"`
	Motivation string  `json:"motivation"`
}

func (s *Service) RecipeSearch(ctx context.Context, householdID int64, query string) (*RecipeSearchResult, error) {
	recipes, err := s.recipes.List(householdID, "")
	if err != nil {
		return nil, err
	}
	recipes = capRecipes(recipes)

	var b strings.Builder
	b.WriteString("Du är en kokboksassistent. Här är hushållets recept:\n")
	for _, r := range recipes {
		fmt.Fprintf(&b, "- id %d: %s (%s) ingredienser: %s\n", r.ID, r.Name, r.Category, strings.Join(r.Ingredients, ", "))
	}
	fmt.Fprintf(&b, "Frågan: %q\n", query)
	b.WriteString(`Svara med JSON: {"recipe_ids": [..], "motivation": "kort motivering på svenska"}`)

	var result RecipeSearchResult
	ok, err := s.complete(ctx, householdID, "ai-recipe-search", query, b.String(), &result)
	if err != nil {
		return nil, err
	}
	if !ok {
		return &RecipeSearchResult{RecipeIDs: []int64{}}, nil
	}
	if result.RecipeIDs == nil {
		result.RecipeIDs = []int64{}
	}
	return &result, nil
}

// --- ai-categorize ---

type CategorizeResult struct {
	Category string `json:"category"`
}

// Categorize names the shopping category for an item, falling back to the
// local keyword table when the gateway cannot help.
func (s *Service) Categorize(ctx context.Context, householdID int64, item string) (*CategorizeResult, error) {
	prompt := fmt.Sprintf(
		"Vilken varukategori tillhör %q? Välj en av: %s.\nSvara med JSON: {\"category\": \"...\"}",
		item, strings.Join([]string{
			CategoryProduce, CategoryDairy, CategoryMeatFish, CategoryBread,
			CategoryPantry, CategoryFrozen, CategoryBeverages, CategoryHousehold, CategoryOther,
		}, ", "),
	)

	var result CategorizeResult
	ok, err := s.complete(ctx, householdID, "ai-categorize", item, prompt, &result)
	if err != nil {
		return nil, err
	}
	if !ok || result.Category == "" {
		return &CategorizeResult{Category: CategorizeLocal(item)}, nil
	}
	return &result, nil
}

// --- ai-shopping-list ---

type SuggestedItem struct {
	Name     string `json:"name"`
	Quantity string `json:"quantity"`
	Category string `json:"category"`
}

type ShoppingListResult struct {
	Items []SuggestedItem `json:"items"`
}

// ShoppingList builds a shopping list from an event's menu recipes.
func (s *Service) ShoppingList(ctx context.Context, householdID, eventID int64) (*ShoppingListResult, error) {
	recipes, err := s.recipes.ListByEvent(eventID)
	if err != nil {
		return nil, err
	}

	var b strings.Builder
	b.WriteString("Skapa en inköpslista för följande recept:\n")
	for _, r := range recipes {
		fmt.Fprintf(&b, "- %s (%d portioner): %s\n", r.Name, r.Servings, strings.Join(r.Ingredients, ", "))
	}
	b.WriteString(`Slå ihop dubbletter. Svara med JSON: {"items": [{"name": "...", "quantity": "...", "category": "..."}]}`)

	var result ShoppingListResult
	ok, err := s.complete(ctx, householdID, "ai-shopping-list", fmt.Sprintf("event %d", eventID), b.String(), &result)
	if err != nil {
		return nil, err
	}
	if !ok {
		// Fallback: one item per distinct ingredient, locally categorized.
		result.Items = nil
		seen := map[string]bool{}
		for _, r := range recipes {
			for _, ing := range r.Ingredients {
				key := strings.ToLower(strings.TrimSpace(ing))
				if key == "" || seen[key] {
					continue
				}
				seen[key] = true
				result.Items = append(result.Items, SuggestedItem{Name: ing, Category: CategorizeLocal(ing)})
			}
		}
	}
	if result.Items == nil {
		result.Items = []SuggestedItem{}
	}
	return &result, nil
}

// --- ai-notes-search ---

type NotesSearchResult struct {
	NoteIDs []int64 `json:"note_ids"`
	Answer  string  `json:"answer"`
}

func (s *Service) NotesSearch(ctx context.Context, householdID int64, query string) (*NotesSearchResult, error) {
	notes, err := s.notes.List(householdID, nil)
	if err != nil {
		return nil, err
	}
	if len(notes) > contextLimit {
		notes = notes[:contextLimit]
	}

	var b strings.Builder
	b.WriteString("Här är hushållets anteckningar:\n")
	for _, n := range notes {
		fmt.Fprintf(&b, "- id %d: %s: %s\n", n.ID, n.Title, n.Content)
	}
	fmt.Fprintf(&b, "Frågan: %q\n", query)
	b.WriteString(`Svara med JSON: {"note_ids": [..], "answer": "svar på svenska"}`)

	var result NotesSearchResult
	ok, err := s.complete(ctx, householdID, "ai-notes-search", query, b.String(), &result)
	if err != nil {
		return nil, err
	}
	if !ok {
		return &NotesSearchResult{NoteIDs: []int64{}}, nil
	}
	if result.NoteIDs == nil {
		result.NoteIDs = []int64{}
	}
	return &result, nil
}

// --- ai-recipe-recommendations ---

type RecipeIdea struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Ingredients []string `json:"ingredients"`
}

type RecommendationsResult struct {
	Ideas []RecipeIdea `json:"ideas"`
}

func (s *Service) RecipeRecommendations(ctx context.Context, householdID int64, query string) (*RecommendationsResult, error) {
	recipes, err := s.recipes.List(householdID, "")
	if err != nil {
		return nil, err
	}
	recipes = capRecipes(recipes)

	var b strings.Builder
	b.WriteString("Hushållet har redan dessa recept:\n")
	for _, r := range recipes {
		fmt.Fprintf(&b, "- %s (%s)\n", r.Name, r.Category)
	}
	fmt.Fprintf(&b, "Föreslå tre nya rätter som passar: %q\n", query)
	b.WriteString(`Svara med JSON: {"ideas": [{"name": "...", "description": "...", "ingredients": ["..."]}]}`)

	var result RecommendationsResult
	ok, err := s.complete(ctx, householdID, "ai-recipe-recommendations", query, b.String(), &result)
	if err != nil {
		return nil, err
	}
	if !ok || result.Ideas == nil {
		result.Ideas = []RecipeIdea{}
	}
	return &result, nil
}

// --- ai-meal-plan-generator ---

type PlannedMeal struct {
	Day      int            `json:"day"` // 0 = Monday .. 6 = Sunday
	Meal     model.MealType `json:"meal"`
	RecipeID *int64         `json:"recipe_id,omitempty"`
	Title    string         `json:"title"`
}

type MealPlanResult struct {
	Meals []PlannedMeal `json:"meals"`
}

// MealPlanGenerator drafts a week of dinners from the household's recipes.
func (s *Service) MealPlanGenerator(ctx context.Context, householdID int64, query string) (*MealPlanResult, error) {
	recipes, err := s.recipes.List(householdID, "")
	if err != nil {
		return nil, err
	}
	recipes = capRecipes(recipes)

	var b strings.Builder
	b.WriteString("Planera middagar måndag till söndag. Tillgängliga recept:\n")
	for _, r := range recipes {
		fmt.Fprintf(&b, "- id %d: %s (%s, %d min)\n", r.ID, r.Name, r.Category, r.PrepMinutes)
	}
	if query != "" {
		fmt.Fprintf(&b, "Önskemål: %q\n", query)
	}
	b.WriteString(`Dag 0 är måndag. Svara med JSON: {"meals": [{"day": 0, "meal": "dinner", "recipe_id": 1, "title": "..."}]}`)

	var result MealPlanResult
	ok, err := s.complete(ctx, householdID, "ai-meal-plan-generator", query, b.String(), &result)
	if err != nil {
		return nil, err
	}
	if !ok || result.Meals == nil {
		result.Meals = []PlannedMeal{}
	}
	// Drop entries the gateway invented with out-of-range fields.
	valid := result.Meals[:0]
	for _, m := range result.Meals {
		if m.Day >= 0 && m.Day <= 6 && m.Meal.Valid() {
			valid = append(valid, m)
		}
	}
	result.Meals = valid
	return &result, nil
}

// --- ai-todo-suggestions ---

type SuggestedTodo struct {
	Title       string             `json:"title"`
	WeeksBefore int                `json:"weeks_before"`
	Priority    model.TodoPriority `json:"priority"`
}

type TodoSuggestionsResult struct {
	Todos []SuggestedTodo `json:"todos"`
}

// TodoSuggestions proposes planning tasks for an event.
func (s *Service) TodoSuggestions(ctx context.Context, householdID, eventID int64) (*TodoSuggestionsResult, error) {
	event, err := s.events.GetByID(eventID, householdID)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, fmt.Errorf("event %d not found", eventID)
	}

	weeksUntil := int(time.Until(event.StartTime).Hours() / 24 / 7)
	prompt := fmt.Sprintf(
		"Eventet %q (%s) är om %d veckor. Föreslå förberedelseuppgifter.\n"+
			`Svara med JSON: {"todos": [{"title": "...", "weeks_before": 2, "priority": "medium"}]}`,
		event.Title, event.Category, weeksUntil,
	)

	var result TodoSuggestionsResult
	ok, err := s.complete(ctx, householdID, "ai-todo-suggestions", event.Title, prompt, &result)
	if err != nil {
		return nil, err
	}
	if !ok || result.Todos == nil {
		result.Todos = []SuggestedTodo{}
	}
	return &result, nil
}

// --- ai-natural-language-parse ---

type ParsedEvent struct {
	Title    string              `json:"title"`
	Start    time.Time           `json:"start"`
	End      time.Time           `json:"end"`
	AllDay   bool                `json:"all_day"`
	Category model.EventCategory `json:"category"`
}

// NaturalLanguageParse turns free text like "middag hos mormor på lördag
// kl 17" into a structured event draft.
func (s *Service) NaturalLanguageParse(ctx context.Context, householdID int64, text string) (*ParsedEvent, error) {
	now := s.now().UTC()
	prompt := fmt.Sprintf(
		"Idag är %s. Tolka följande till en kalenderhändelse: %q\n"+
			`Svara med JSON: {"title": "...", "start": "RFC3339", "end": "RFC3339", "all_day": false, "category": "other"}`,
		now.Format("2006-01-02 (Monday)"), text,
	)

	var result ParsedEvent
	ok, err := s.complete(ctx, householdID, "ai-natural-language-parse", text, prompt, &result)
	if err != nil {
		return nil, err
	}
	if !ok || result.Title == "" || result.Start.IsZero() {
		// Fallback: an untyped all-day draft tomorrow; the user edits it.
		start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)
		return &ParsedEvent{
			Title:    text,
			Start:    start,
			End:      start.AddDate(0, 0, 1),
			AllDay:   true,
			Category: model.CategoryOther,
		}, nil
	}
	if !result.Category.Valid() {
		result.Category = model.CategoryOther
	}
	if !result.End.After(result.Start) {
		result.End = result.Start.Add(time.Hour)
	}
	return &result, nil
}

// --- ai-import-suggestions ---

type ImportResult struct {
	Events []ParsedEvent   `json:"events"`
	Todos  []SuggestedTodo `json:"todos"`
}

// ImportSuggestions extracts events and tasks from pasted text, e.g. a
// school newsletter.
func (s *Service) ImportSuggestions(ctx context.Context, householdID int64, text string) (*ImportResult, error) {
	now := s.now().UTC()
	prompt := fmt.Sprintf(
		"Idag är %s. Hitta händelser och uppgifter i texten nedan.\n---\n%s\n---\n"+
			`Svara med JSON: {"events": [{"title": "...", "start": "RFC3339", "end": "RFC3339", "all_day": true, "category": "other"}], "todos": [{"title": "...", "weeks_before": 0, "priority": "medium"}]}`,
		now.Format("2006-01-02"), text,
	)

	var result ImportResult
	ok, err := s.complete(ctx, householdID, "ai-import-suggestions", truncate(text, 200), prompt, &result)
	if err != nil {
		return nil, err
	}
	if !ok {
		return &ImportResult{Events: []ParsedEvent{}, Todos: []SuggestedTodo{}}, nil
	}
	if result.Events == nil {
		result.Events = []ParsedEvent{}
	}
	if result.Todos == nil {
		result.Todos = []SuggestedTodo{}
	}
	return &result, nil
}

func capRecipes(recipes []model.Recipe) []model.Recipe {
	if len(recipes) > contextLimit {
		return recipes[:contextLimit]
	}
	return recipes
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
