// Package server wires stores, services and handlers into the HTTP API.
package server

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/halvarsson/hemma/internal/ai"
	"github.com/halvarsson/hemma/internal/handler"
	"github.com/halvarsson/hemma/internal/middleware"
	"github.com/halvarsson/hemma/internal/notify"
	"github.com/halvarsson/hemma/internal/push"
	"github.com/halvarsson/hemma/internal/reminder"
	"github.com/halvarsson/hemma/internal/storage"
	"github.com/halvarsson/hemma/internal/store"
	"github.com/halvarsson/hemma/internal/theme"
	ws "github.com/halvarsson/hemma/internal/websocket"
)

// Config carries everything the server needs beyond the database handle.
type Config struct {
	SecureCookies   bool
	VAPIDPublicKey  string
	VAPIDPrivateKey string
	PushSubscriber  string
	Storage         storage.Config
	AI              ai.Config
}

type Server struct {
	db  *sql.DB
	hub *ws.Hub

	authH          *handler.AuthHandler
	eventH         *handler.EventHandler
	timelineH      *handler.TimelineHandler
	todoH          *handler.TodoHandler
	recipeH        *handler.RecipeHandler
	shoppingH      *handler.ShoppingHandler
	mealPlanH      *handler.MealPlanHandler
	noteH          *handler.NoteHandler
	guestH         *handler.GuestHandler
	budgetH        *handler.BudgetHandler
	mediaH         *handler.MediaHandler
	preferencesH   *handler.PreferencesHandler
	notificationH  *handler.NotificationHandler
	pushH          *handler.PushHandler
	themeH         *handler.ThemeHandler
	aiH            *handler.AIHandler

	sessionStore   *store.SessionStore
	householdStore *store.HouseholdStore
	rateLimiter    *middleware.RateLimiter
	sweeper        *notify.Sweeper
	themeResolver  *theme.Resolver
	logger         *slog.Logger
}

func New(db *sql.DB, cfg Config, logger *slog.Logger) *Server {
	hub := ws.NewHub(logger.With("component", "websocket"))

	householdStore := store.NewHouseholdStore(db)
	sessionStore := store.NewSessionStore(db)
	eventStore := store.NewEventStore(db)
	timelineStore := store.NewTimelineStore(db)
	todoStore := store.NewTodoStore(db)
	recipeStore := store.NewRecipeStore(db)
	shoppingStore := store.NewShoppingStore(db)
	mealPlanStore := store.NewMealPlanStore(db)
	noteStore := store.NewNoteStore(db)
	guestStore := store.NewGuestStore(db)
	budgetStore := store.NewBudgetStore(db)
	mediaStore := store.NewMediaStore(db)
	preferencesStore := store.NewPreferencesStore(db)
	notificationStore := store.NewNotificationStore(db)
	pushStore := store.NewPushStore(db)
	interactionStore := store.NewAIInteractionStore(db)

	rateLimiter := middleware.NewRateLimiter()

	pushService := push.NewService(cfg.VAPIDPublicKey, cfg.VAPIDPrivateKey, cfg.PushSubscriber)
	sweeper := notify.NewSweeper(notificationStore, pushStore, pushService, logger)
	scheduler := reminder.NewScheduler(notificationStore)
	themeResolver := theme.NewResolver(logger)
	objectStore := storage.New(cfg.Storage)

	aiClient := ai.NewClient(cfg.AI)
	aiService := ai.NewService(aiClient, recipeStore, noteStore, eventStore, todoStore, interactionStore, logger)

	return &Server{
		db:  db,
		hub: hub,

		authH:         handler.NewAuthHandler(householdStore, sessionStore, preferencesStore, rateLimiter, cfg.SecureCookies, logger),
		eventH:        handler.NewEventHandler(eventStore, hub, logger),
		timelineH:     handler.NewTimelineHandler(timelineStore, eventStore, logger),
		todoH:         handler.NewTodoHandler(todoStore, hub, logger),
		recipeH:       handler.NewRecipeHandler(recipeStore, eventStore, logger),
		shoppingH:     handler.NewShoppingHandler(shoppingStore, hub, logger),
		mealPlanH:     handler.NewMealPlanHandler(mealPlanStore, recipeStore, logger),
		noteH:         handler.NewNoteHandler(noteStore, logger),
		guestH:        handler.NewGuestHandler(guestStore, eventStore, logger),
		budgetH:       handler.NewBudgetHandler(budgetStore, eventStore, logger),
		mediaH:        handler.NewMediaHandler(mediaStore, objectStore, logger),
		preferencesH:  handler.NewPreferencesHandler(preferencesStore, logger),
		notificationH: handler.NewNotificationHandler(notificationStore, eventStore, todoStore, scheduler, sweeper, logger),
		pushH:         handler.NewPushHandler(pushStore, pushService, logger),
		themeH:        handler.NewThemeHandler(themeResolver, logger),
		aiH:           handler.NewAIHandler(aiService, logger),

		sessionStore:   sessionStore,
		householdStore: householdStore,
		rateLimiter:    rateLimiter,
		sweeper:        sweeper,
		themeResolver:  themeResolver,
		logger:         logger,
	}
}

// Sweeper returns the notification sweeper for lifecycle management.
func (s *Server) Sweeper() *notify.Sweeper {
	return s.sweeper
}

// ThemeResolver returns the theme resolver for lifecycle management.
func (s *Server) ThemeResolver() *theme.Resolver {
	return s.themeResolver
}

// SessionStore returns the session store for cleanup tasks.
func (s *Server) SessionStore() *store.SessionStore {
	return s.sessionStore
}

// RateLimiter returns the rate limiter for cleanup tasks.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

func (s *Server) Router() http.Handler {
	outerMux := http.NewServeMux()

	// Public routes
	outerMux.HandleFunc("POST /api/register", s.rateLimitedHandler(s.authH.Register))
	outerMux.HandleFunc("POST /api/login", s.rateLimitedHandler(s.authH.Login))
	outerMux.HandleFunc("GET /health", s.healthHandler)
	outerMux.Handle("GET /metrics", promhttp.Handler())

	// Protected routes behind the session check
	protectedMux := http.NewServeMux()
	s.registerProtectedRoutes(protectedMux)

	authMiddleware := middleware.RequireAuth(s.sessionStore, s.householdStore)
	outerMux.Handle("/api/", authMiddleware(protectedMux))
	outerMux.Handle("/ws", authMiddleware(protectedMux))

	return middleware.RequestLogger(s.logger.With("component", "http"))(middleware.Metrics(outerMux))
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) rateLimitedHandler(h http.HandlerFunc) http.HandlerFunc {
	keyFunc := func(r *http.Request) string {
		return middleware.RealIP(r)
	}
	rl := middleware.RateLimit(s.rateLimiter, keyFunc, 10, time.Minute)
	return func(w http.ResponseWriter, r *http.Request) {
		rl(http.HandlerFunc(h)).ServeHTTP(w, r)
	}
}

func (s *Server) registerProtectedRoutes(mux *http.ServeMux) {
	// Session + household
	mux.HandleFunc("POST /api/logout", s.authH.Logout)
	mux.HandleFunc("GET /api/me", s.authH.Me)
	mux.HandleFunc("PUT /api/household", s.authH.Rename)

	// Calendar events
	mux.HandleFunc("POST /api/events", s.eventH.Create)
	mux.HandleFunc("GET /api/events", s.eventH.List)
	mux.HandleFunc("GET /api/events/upcoming", s.eventH.Upcoming)
	mux.HandleFunc("GET /api/events/{id}", s.eventH.Get)
	mux.HandleFunc("PUT /api/events/{id}", s.eventH.Update)
	mux.HandleFunc("DELETE /api/events/{id}", s.eventH.Delete)

	// Planning timeline
	mux.HandleFunc("POST /api/events/{id}/timeline", s.timelineH.CreatePhase)
	mux.HandleFunc("GET /api/events/{id}/timeline", s.timelineH.Projection)
	mux.HandleFunc("PUT /api/timeline/{id}", s.timelineH.UpdatePhase)
	mux.HandleFunc("DELETE /api/timeline/{id}", s.timelineH.DeletePhase)

	// Guests
	mux.HandleFunc("POST /api/events/{id}/guests", s.guestH.Create)
	mux.HandleFunc("GET /api/events/{id}/guests", s.guestH.List)
	mux.HandleFunc("PUT /api/events/{id}/guests/{guestID}", s.guestH.Update)
	mux.HandleFunc("DELETE /api/events/{id}/guests/{guestID}", s.guestH.Delete)

	// Event budget
	mux.HandleFunc("GET /api/events/{id}/budget", s.budgetH.Get)
	mux.HandleFunc("PUT /api/events/{id}/budget", s.budgetH.SetTotal)
	mux.HandleFunc("POST /api/events/{id}/budget/items", s.budgetH.AddItem)
	mux.HandleFunc("PUT /api/events/{id}/budget/items/{itemID}", s.budgetH.UpdateItem)
	mux.HandleFunc("DELETE /api/events/{id}/budget/items/{itemID}", s.budgetH.DeleteItem)

	// Event menu
	mux.HandleFunc("GET /api/events/{id}/recipes", s.recipeH.EventRecipes)
	mux.HandleFunc("PUT /api/events/{id}/recipes/{recipeID}", s.recipeH.LinkToEvent)
	mux.HandleFunc("DELETE /api/events/{id}/recipes/{recipeID}", s.recipeH.UnlinkFromEvent)

	// Todos
	mux.HandleFunc("POST /api/todos", s.todoH.Create)
	mux.HandleFunc("GET /api/todos", s.todoH.List)
	mux.HandleFunc("GET /api/todos/due", s.todoH.Due)
	mux.HandleFunc("GET /api/todos/{id}", s.todoH.Get)
	mux.HandleFunc("PUT /api/todos/{id}", s.todoH.Update)
	mux.HandleFunc("DELETE /api/todos/{id}", s.todoH.Delete)
	mux.HandleFunc("POST /api/todos/{id}/complete", s.todoH.Complete)
	mux.HandleFunc("DELETE /api/todos/{id}/complete", s.todoH.Uncomplete)

	// Recipes
	mux.HandleFunc("POST /api/recipes", s.recipeH.Create)
	mux.HandleFunc("GET /api/recipes", s.recipeH.List)
	mux.HandleFunc("GET /api/recipes/{id}", s.recipeH.Get)
	mux.HandleFunc("PUT /api/recipes/{id}", s.recipeH.Update)
	mux.HandleFunc("DELETE /api/recipes/{id}", s.recipeH.Delete)

	// Shopping lists
	mux.HandleFunc("POST /api/shopping-lists", s.shoppingH.CreateList)
	mux.HandleFunc("GET /api/shopping-lists", s.shoppingH.ListLists)
	mux.HandleFunc("GET /api/shopping-lists/{id}", s.shoppingH.GetList)
	mux.HandleFunc("PUT /api/shopping-lists/{id}", s.shoppingH.RenameList)
	mux.HandleFunc("DELETE /api/shopping-lists/{id}", s.shoppingH.DeleteList)
	mux.HandleFunc("POST /api/shopping-lists/{id}/items", s.shoppingH.AddItem)
	mux.HandleFunc("PUT /api/shopping-lists/{id}/items/{itemID}", s.shoppingH.UpdateItem)
	mux.HandleFunc("DELETE /api/shopping-lists/{id}/items/{itemID}", s.shoppingH.DeleteItem)
	mux.HandleFunc("POST /api/shopping-lists/{id}/items/{itemID}/check", s.shoppingH.CheckItem)
	mux.HandleFunc("POST /api/shopping-lists/{id}/clear-checked", s.shoppingH.ClearChecked)

	// Meal plans
	mux.HandleFunc("GET /api/meal-plans/week", s.mealPlanH.GetWeek)
	mux.HandleFunc("POST /api/meal-plans/{id}/items", s.mealPlanH.AddItem)
	mux.HandleFunc("DELETE /api/meal-plans/{id}/items/{itemID}", s.mealPlanH.DeleteItem)
	mux.HandleFunc("POST /api/meal-plans/{id}/clear", s.mealPlanH.ClearWeek)

	// Notes
	mux.HandleFunc("POST /api/notes", s.noteH.Create)
	mux.HandleFunc("GET /api/notes", s.noteH.List)
	mux.HandleFunc("GET /api/notes/{id}", s.noteH.Get)
	mux.HandleFunc("PUT /api/notes/{id}", s.noteH.Update)
	mux.HandleFunc("DELETE /api/notes/{id}", s.noteH.Delete)

	// Images + links
	mux.HandleFunc("POST /api/images", s.mediaH.UploadImage)
	mux.HandleFunc("GET /api/images", s.mediaH.ListImages)
	mux.HandleFunc("GET /api/images/{id}/content", s.mediaH.ServeImage)
	mux.HandleFunc("DELETE /api/images/{id}", s.mediaH.DeleteImage)
	mux.HandleFunc("POST /api/links", s.mediaH.CreateLink)
	mux.HandleFunc("GET /api/links", s.mediaH.ListLinks)
	mux.HandleFunc("DELETE /api/links/{id}", s.mediaH.DeleteLink)

	// Preferences
	mux.HandleFunc("GET /api/preferences", s.preferencesH.Get)
	mux.HandleFunc("PUT /api/preferences", s.preferencesH.Update)

	// Notifications + reminders
	mux.HandleFunc("GET /api/notifications", s.notificationH.List)
	mux.HandleFunc("GET /api/notifications/scheduled", s.notificationH.ListScheduled)
	mux.HandleFunc("POST /api/notifications/{id}/read", s.notificationH.MarkRead)
	mux.HandleFunc("DELETE /api/notifications/{id}", s.notificationH.Delete)
	mux.HandleFunc("POST /api/notifications/process", s.notificationH.Process)
	mux.HandleFunc("POST /api/reminders", s.notificationH.CreateReminder)

	// Push subscriptions
	mux.HandleFunc("GET /api/push/vapid-key", s.pushH.VAPIDKey)
	mux.HandleFunc("POST /api/push/subscribe", s.pushH.Subscribe)
	mux.HandleFunc("POST /api/push/unsubscribe", s.pushH.Unsubscribe)
	mux.HandleFunc("GET /api/push/subscriptions", s.pushH.ListSubscriptions)
	mux.HandleFunc("POST /api/push/test", s.pushH.TestPush)

	// Seasonal theme
	mux.HandleFunc("GET /api/theme", s.themeH.Current)
	mux.HandleFunc("PUT /api/theme/override", s.themeH.SetOverride)
	mux.HandleFunc("DELETE /api/theme/override", s.themeH.ClearOverride)

	// Assistant functions
	mux.HandleFunc("POST /api/ai/recipe-search", s.aiH.RecipeSearch)
	mux.HandleFunc("POST /api/ai/categorize", s.aiH.Categorize)
	mux.HandleFunc("POST /api/ai/shopping-list", s.aiH.ShoppingList)
	mux.HandleFunc("POST /api/ai/notes-search", s.aiH.NotesSearch)
	mux.HandleFunc("POST /api/ai/recipe-recommendations", s.aiH.RecipeRecommendations)
	mux.HandleFunc("POST /api/ai/meal-plan", s.aiH.MealPlanGenerator)
	mux.HandleFunc("POST /api/ai/todo-suggestions", s.aiH.TodoSuggestions)
	mux.HandleFunc("POST /api/ai/parse", s.aiH.NaturalLanguageParse)
	mux.HandleFunc("POST /api/ai/import", s.aiH.ImportSuggestions)

	// WebSocket
	mux.HandleFunc("GET /ws", ws.HandleWebSocket(s.hub, s.logger))
}
