package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"splitledger-go/internal/auth"
	"splitledger-go/internal/config"
	"splitledger-go/internal/transport/httpserver/handler"
	authmw "splitledger-go/internal/transport/httpserver/middleware"
)

func NewRouter(cfg config.Config, handlers *handler.Handlers, tokens *auth.JWTManager) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(authmw.Metrics)
	r.Use(authmw.NewCORS(cfg.CORSOrigins))

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", handlers.Health)

		r.Post("/auth/register", handlers.Register)
		r.Post("/auth/login", handlers.Login)

		jwt := authmw.NewJWTAuth(tokens)
		r.Group(func(r chi.Router) {
			r.Use(jwt.Middleware)

			r.Get("/auth/me", handlers.Me)

			r.Get("/groups", handlers.ListGroups)
			r.Post("/groups", handlers.CreateGroup)
			r.Post("/groups/join", handlers.JoinGroup)
			r.Get("/groups/{group_id}", handlers.GetGroup)
			r.Patch("/groups/{group_id}", handlers.RenameGroup)
			r.Post("/groups/{group_id}/leave", handlers.LeaveGroup)
			r.Get("/groups/{group_id}/members", handlers.ListGroupMembers)
			r.Delete("/groups/{group_id}/members/{user_id}", handlers.RemoveGroupMember)

			r.Get("/expenses", handlers.ListExpenses)
			r.Post("/expenses", handlers.CreateExpense)
			r.Get("/expenses/{id}", handlers.GetExpense)
			r.Put("/expenses/{id}", handlers.UpdateExpense)
			r.Delete("/expenses/{id}", handlers.DeleteExpense)

			r.Get("/analytics/summary", handlers.AnalyticsSummary)
			r.Get("/analytics/by-category", handlers.AnalyticsByCategory)
			r.Get("/analytics/monthly", handlers.AnalyticsMonthly)
			r.Get("/analytics/forecast", handlers.AnalyticsForecast)

			r.Get("/shared-expenses", handlers.ListSharedExpenses)
			r.Post("/shared-expenses", handlers.CreateSharedExpense)
			r.Get("/shared-expenses/{id}", handlers.GetSharedExpense)
			r.Put("/shared-expenses/{id}", handlers.UpdateSharedExpense)
			r.Delete("/shared-expenses/{id}", handlers.DeleteSharedExpense)
			r.Post("/shared-expenses/{id}/participants/{participant_id}/settle", handlers.SettleParticipant)

			r.Get("/balances", handlers.GetBalances)

			r.Get("/settlements", handlers.ListSettlements)
			r.Post("/settlements", handlers.CreateSettlement)
			r.Get("/settlements/{id}", handlers.GetSettlement)
			r.Post("/settlements/{id}/complete", handlers.CompleteSettlement)
			r.Post("/settlements/{id}/cancel", handlers.CancelSettlement)

			r.Get("/investments", handlers.GetPortfolio)
			r.Post("/investments", handlers.CreateHolding)
			r.Get("/investments/search", handlers.SearchSymbols)
			r.Post("/investments/refresh", handlers.RefreshPrices)
			r.Get("/investments/{id}", handlers.GetHolding)
			r.Put("/investments/{id}", handlers.UpdateHolding)
			r.Delete("/investments/{id}", handlers.DeleteHolding)
		})
	})

	return r
}
