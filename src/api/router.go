package api

import (
	"budgetit-server/src/db"
	"budgetit-server/src/handlers"
	"budgetit-server/src/metrics"
	"budgetit-server/src/middleware"
	"budgetit-server/src/services"
	"budgetit-server/src/session"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

type RouterConfig struct {
	AllowedOrigins []string
	DemoMode       bool
	AuthRateLimit  float64
	AuthRateBurst  int
	Cookie         handlers.CookieConfig
}

func NewRouter(store db.Store, svc *services.Services, sessions *session.Manager, cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger)
	r.Use(chimw.Recoverer)
	r.Use(metrics.InstrumentHandler)
	r.Use(middleware.CORS(cfg.AllowedOrigins))

	r.Get("/health", handlers.Health(store))
	r.Handle("/metrics", metrics.Handler())

	authLimiter := middleware.NewRateLimiter(cfg.AuthRateLimit, cfg.AuthRateBurst)

	r.Route("/api", func(r chi.Router) {
		r.With(authLimiter.Handler).Group(func(r chi.Router) {
			r.Post("/auth/signup", handlers.Signup(svc.Auth, cfg.Cookie))
			r.Post("/auth/signin", handlers.Signin(svc.Auth, cfg.Cookie))
		})
		r.Post("/auth/logout", handlers.Logout(svc.Auth, cfg.Cookie))

		// Protected routes; demo mode is checked after auth so anonymous writes get 401
		r.With(middleware.SessionAuth(sessions), middleware.DemoMode(cfg.DemoMode)).Group(func(r chi.Router) {
			r.Get("/auth/me", handlers.CurrentUser(svc.Auth))

			// Expenses
			r.Get("/expenses", handlers.GetExpenses(svc.Expenses))
			r.Post("/expenses", handlers.AddExpense(svc.Expenses))

			// Budgets
			r.Get("/budgets", handlers.GetBudgets(svc.Budgets))
			r.Post("/budgets", handlers.SetBudget(svc.Budgets))

			// Goals
			r.Get("/goals", handlers.GetGoals(svc.Goals))
			r.Post("/goals", handlers.AddGoal(svc.Goals))

			r.Post("/chat", handlers.Chat(svc.Chat))
			r.Get("/analytics/weekly", handlers.WeeklyAnalytics(svc.Analytics))
		})
	})

	return r
}
