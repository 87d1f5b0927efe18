package server

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/dukerupert/smartfood/internal/auth"
	"github.com/dukerupert/smartfood/internal/config"
	"github.com/dukerupert/smartfood/internal/fridge"
	"github.com/dukerupert/smartfood/internal/handler"
	"github.com/dukerupert/smartfood/internal/metrics"
	"github.com/dukerupert/smartfood/internal/middleware"
	"github.com/dukerupert/smartfood/internal/store"
	ws "github.com/dukerupert/smartfood/internal/websocket"
)

// Auth endpoints allow this many attempts per client IP per window.
const (
	authRateLimit  = 10
	authRateWindow = time.Minute
)

type Server struct {
	db             *sql.DB
	cfg            *config.Config
	hub            *ws.Hub
	metrics        *metrics.Metrics
	jwt            *auth.JWTManager
	groceryH       *handler.GroceryHandler
	fridgeH        *handler.FridgeHandler
	dishH          *handler.DishHandler
	mealPlanH      *handler.MealPlanHandler
	familyMemberH  *handler.FamilyMemberHandler
	reportH        *handler.ReportHandler
	dashboardH     *handler.DashboardHandler
	authH          *handler.AuthHandler
	shoppingListH  *handler.ShoppingListHandler
	rateLimiter    *middleware.RateLimiter
	originPatterns []string
	logger         *slog.Logger
}

// New wires stores, handlers and the change hub over db. clock may be nil,
// in which case time.Now is used.
func New(db *sql.DB, cfg *config.Config, clock handler.Clock, logger *slog.Logger) *Server {
	if clock == nil {
		clock = time.Now
	}
	m := metrics.New()
	hub := ws.NewHub(logger.With("component", "websocket"), m)

	familyMemberStore := store.NewFamilyMemberStore(db)
	groceryStore := store.NewGroceryStore(db)
	fridgeStore := store.NewFridgeStore(db)
	dishStore := store.NewDishStore(db)
	mealPlanStore := store.NewMealPlanStore(db)
	userStore := store.NewUserStore(db)
	shoppingListStore := store.NewShoppingListStore(db)

	jwt := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)
	matcher := cfg.Matcher()

	return &Server{
		db:             db,
		cfg:            cfg,
		hub:            hub,
		metrics:        m,
		jwt:            jwt,
		groceryH:       handler.NewGroceryHandler(groceryStore, familyMemberStore, fridgeStore, hub, m, logger, clock),
		fridgeH:        handler.NewFridgeHandler(fridgeStore, fridge.DefaultPolicy, hub, logger, clock),
		dishH:          handler.NewDishHandler(dishStore, fridgeStore, matcher, hub, logger),
		mealPlanH:      handler.NewMealPlanHandler(mealPlanStore, dishStore, familyMemberStore, hub, logger),
		familyMemberH:  handler.NewFamilyMemberHandler(familyMemberStore, hub, logger, clock),
		reportH:        handler.NewReportHandler(groceryStore, fridgeStore, cfg.Report(), logger, clock),
		dashboardH:     handler.NewDashboardHandler(groceryStore, fridgeStore, mealPlanStore, fridge.DefaultPolicy, logger, clock),
		authH:          handler.NewAuthHandler(userStore, jwt, logger),
		shoppingListH:  handler.NewShoppingListHandler(shoppingListStore, logger),
		rateLimiter:    middleware.NewRateLimiter(authRateLimit, authRateWindow),
		originPatterns: originPatterns(cfg.CORSOrigin),
		logger:         logger,
	}
}

// RateLimiter returns the auth rate limiter for cleanup tasks.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

// Hub returns the change hub.
func (s *Server) Hub() *ws.Hub {
	return s.hub
}

func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.healthHandler)
	mux.Handle("GET /metrics", s.metrics.Handler())
	mux.HandleFunc("GET /ws", ws.HandleWebSocket(s.hub, s.logger.With("component", "websocket"), s.originPatterns))

	s.registerAPIRoutes(mux)

	// Outermost first: requests are logged even when CORS answers a preflight.
	h := middleware.CORS(s.cfg.CORSOrigin)(mux)
	return middleware.RequestLogger(s.logger.With("component", "http"), s.metrics)(h)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := s.db.PingContext(r.Context()); err != nil {
		s.logger.Error("health check failed", "error", err)
		w.WriteHeader(http.StatusServiceUnavailable)
		json.NewEncoder(w).Encode(map[string]string{"status": "unavailable"})
		return
	}
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) rateLimited(h http.HandlerFunc) http.Handler {
	return middleware.RateLimit(s.rateLimiter)(h)
}

func (s *Server) authenticated(h http.HandlerFunc) http.Handler {
	return middleware.RequireBearer(s.jwt)(h)
}

func (s *Server) registerAPIRoutes(mux *http.ServeMux) {
	// Grocery API routes
	mux.HandleFunc("GET /api/grocery-items", s.groceryH.List)
	mux.HandleFunc("POST /api/grocery-items", s.groceryH.Create)
	mux.HandleFunc("GET /api/grocery-items/{id}", s.groceryH.Get)
	mux.HandleFunc("PUT /api/grocery-items/{id}", s.groceryH.Replace)
	mux.HandleFunc("PATCH /api/grocery-items/{id}", s.groceryH.Patch)
	mux.HandleFunc("DELETE /api/grocery-items/{id}", s.groceryH.Delete)
	mux.HandleFunc("POST /api/grocery-items/{id}/complete", s.groceryH.Complete)
	mux.HandleFunc("PUT /api/grocery-items/{id}/completed", s.groceryH.SetCompleted)
	mux.HandleFunc("POST /api/grocery-items/{id}/move-to-fridge", s.groceryH.MoveToFridge)
	mux.HandleFunc("GET /api/purchase-history", s.groceryH.ListPurchases)

	// Fridge API routes
	mux.HandleFunc("GET /api/fridge-items", s.fridgeH.List)
	mux.HandleFunc("POST /api/fridge-items", s.fridgeH.Create)
	mux.HandleFunc("GET /api/fridge-items/expiry", s.fridgeH.Expiry)
	mux.HandleFunc("GET /api/fridge-items/{id}", s.fridgeH.Get)
	mux.HandleFunc("PUT /api/fridge-items/{id}", s.fridgeH.Replace)
	mux.HandleFunc("PATCH /api/fridge-items/{id}", s.fridgeH.Patch)
	mux.HandleFunc("DELETE /api/fridge-items/{id}", s.fridgeH.Delete)

	// Dish API routes
	mux.HandleFunc("GET /api/dishes", s.dishH.List)
	mux.HandleFunc("POST /api/dishes", s.dishH.Create)
	mux.HandleFunc("GET /api/dishes/availability", s.dishH.Availability)
	mux.HandleFunc("GET /api/dishes/{id}", s.dishH.Get)
	mux.HandleFunc("PUT /api/dishes/{id}", s.dishH.Replace)
	mux.HandleFunc("PATCH /api/dishes/{id}", s.dishH.Patch)
	mux.HandleFunc("DELETE /api/dishes/{id}", s.dishH.Delete)

	// Meal plan API routes
	mux.HandleFunc("GET /api/meal-plans", s.mealPlanH.List)
	mux.HandleFunc("POST /api/meal-plans", s.mealPlanH.Create)
	mux.HandleFunc("GET /api/meal-plans/slot", s.mealPlanH.Slot)
	mux.HandleFunc("GET /api/meal-plans/{id}", s.mealPlanH.Get)
	mux.HandleFunc("PUT /api/meal-plans/{id}", s.mealPlanH.Replace)
	mux.HandleFunc("PATCH /api/meal-plans/{id}", s.mealPlanH.Patch)
	mux.HandleFunc("DELETE /api/meal-plans/{id}", s.mealPlanH.Delete)

	// Family member API routes
	mux.HandleFunc("GET /api/family-members", s.familyMemberH.List)
	mux.HandleFunc("POST /api/family-members", s.familyMemberH.Create)
	mux.HandleFunc("GET /api/family-members/{id}", s.familyMemberH.Get)
	mux.HandleFunc("PUT /api/family-members/{id}", s.familyMemberH.Replace)
	mux.HandleFunc("PATCH /api/family-members/{id}", s.familyMemberH.Patch)
	mux.HandleFunc("DELETE /api/family-members/{id}", s.familyMemberH.Delete)

	// Derived views
	mux.HandleFunc("GET /api/reports/spending", s.reportH.Spending)
	mux.HandleFunc("GET /api/dashboard", s.dashboardH.Stats)

	// Auth
	mux.Handle("POST /api/auth/register", s.rateLimited(s.authH.Register))
	mux.Handle("POST /api/auth/login", s.rateLimited(s.authH.Login))

	// Shopping lists, per user
	mux.Handle("GET /api/shopping-lists", s.authenticated(s.shoppingListH.List))
	mux.Handle("POST /api/shopping-lists", s.authenticated(s.shoppingListH.Create))
	mux.Handle("PUT /api/shopping-lists/{id}", s.authenticated(s.shoppingListH.Update))
	mux.Handle("DELETE /api/shopping-lists/{id}", s.authenticated(s.shoppingListH.Delete))
}

// originPatterns turns the CORS origin into the host pattern the WebSocket
// accept check wants.
func originPatterns(origin string) []string {
	switch origin {
	case "":
		return nil
	case "*":
		return []string{"*"}
	}
	u, err := url.Parse(origin)
	if err != nil || u.Host == "" {
		return []string{origin}
	}
	return []string{u.Host}
}
