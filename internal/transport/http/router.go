package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/caravanly/caravan-api/internal/application/auth"
	"github.com/caravanly/caravan-api/internal/application/billing"
	"github.com/caravanly/caravan-api/internal/application/match"
	"github.com/caravanly/caravan-api/internal/application/notification"
	"github.com/caravanly/caravan-api/internal/application/session"
	"github.com/caravanly/caravan-api/internal/application/user"
	"github.com/caravanly/caravan-api/internal/application/vouch"
	"github.com/caravanly/caravan-api/internal/config"
	"github.com/caravanly/caravan-api/internal/domain"
	jwtinfra "github.com/caravanly/caravan-api/internal/infrastructure/jwt"
	"github.com/caravanly/caravan-api/internal/transport/http/handler"
	"github.com/caravanly/caravan-api/internal/transport/http/middleware"
)

// Deps bundles everything the router needs.
type Deps struct {
	Cfg *config.Config
	JWT *jwtinfra.Provider

	AuthService         auth.Service
	SessionService      session.Service
	UserService         user.Service
	MatchService        match.Service
	VouchService        vouch.Service
	BillingService      billing.Service
	NotificationService notification.Service
}

// NewRouter builds the chi router with all routes and middleware wired.
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(30 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   d.Cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	healthHandler := handler.NewHealthHandler()
	authHandler := handler.NewAuthHandler(d.AuthService)
	sessionHandler := handler.NewSessionHandler(d.SessionService)
	userHandler := handler.NewUserHandler(d.UserService)
	matchHandler := handler.NewMatchHandler(d.MatchService)
	vouchHandler := handler.NewVouchHandler(d.VouchService)
	billingHandler := handler.NewBillingHandler(d.BillingService)
	notificationHandler := handler.NewNotificationHandler(d.NotificationService)

	// Tight limiter on the code endpoints, a looser one on webhooks.
	authLimiter := middleware.NewRateLimiter(1, 5)
	webhookLimiter := middleware.NewRateLimiter(10, 20)

	authMw := middleware.Auth(d.JWT)
	adminOnly := middleware.RequireRole(domain.RoleAdmin)

	r.Get("/health", healthHandler.Ping)

	r.Route("/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(authLimiter.Limit)
			r.Post("/auth/request-code", authHandler.RequestCode)
			r.Post("/auth/verify-code", authHandler.VerifyCode)
			r.Post("/sessions/refresh", sessionHandler.Refresh)
		})

		r.Group(func(r chi.Router) {
			r.Use(webhookLimiter.Limit)
			r.Use(middleware.WebhookToken(d.Cfg.RevenueCatWebhookToken))
			r.Post("/webhooks/revenuecat", billingHandler.Webhook)
		})

		r.Group(func(r chi.Router) {
			r.Use(authMw)

			r.Get("/sessions/me", sessionHandler.GetCurrent)
			r.Delete("/sessions/me", sessionHandler.Logout)

			r.Get("/users/me", userHandler.GetMe)
			r.Patch("/users/me", userHandler.UpdateMe)
			r.Post("/users/me/photo", userHandler.UploadPhoto)
			r.Get("/users/{id}", userHandler.Get)
			r.Get("/users/{id}/vouches", vouchHandler.ListForUser)

			r.Post("/matches", matchHandler.Create)
			r.Post("/matches/{id}/resolve", matchHandler.Resolve)
			r.Get("/matches/sent", matchHandler.ListSent)
			r.Get("/matches/received", matchHandler.ListReceived)

			r.Post("/vouches", vouchHandler.Create)

			r.Get("/subscriptions/me", billingHandler.GetMySubscription)

			r.Get("/notifications", notificationHandler.ListUnread)
			r.Post("/notifications/{id}/read", notificationHandler.MarkAsRead)

			r.Group(func(r chi.Router) {
				r.Use(adminOnly)
				r.Get("/users", userHandler.List)
				r.Delete("/users/{id}", userHandler.Delete)
			})
		})
	})

	return r
}
