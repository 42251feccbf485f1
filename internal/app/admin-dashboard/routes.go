// Package admindashboard предоставляет маршруты для приложения админ-панели.
package admindashboard

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/admin-dashboard/internal/config"
	"github.com/magabrotheeeer/admin-dashboard/internal/http/handlers/auth/me"
	"github.com/magabrotheeeer/admin-dashboard/internal/http/handlers/auth/sendotp"
	"github.com/magabrotheeeer/admin-dashboard/internal/http/handlers/auth/verifyotp"
	"github.com/magabrotheeeer/admin-dashboard/internal/http/handlers/dashboard/analytics"
	"github.com/magabrotheeeer/admin-dashboard/internal/http/handlers/dashboard/stats"
	"github.com/magabrotheeeer/admin-dashboard/internal/http/handlers/health"
	"github.com/magabrotheeeer/admin-dashboard/internal/http/handlers/subscription/create"
	"github.com/magabrotheeeer/admin-dashboard/internal/http/handlers/subscription/expire"
	subscriptionlist "github.com/magabrotheeeer/admin-dashboard/internal/http/handlers/subscription/list"
	"github.com/magabrotheeeer/admin-dashboard/internal/http/handlers/subscription/update"
	"github.com/magabrotheeeer/admin-dashboard/internal/http/handlers/user/edit"
	userlist "github.com/magabrotheeeer/admin-dashboard/internal/http/handlers/user/list"
	"github.com/magabrotheeeer/admin-dashboard/internal/http/handlers/user/remove"
	"github.com/magabrotheeeer/admin-dashboard/internal/http/middlewarectx"
	"github.com/magabrotheeeer/admin-dashboard/internal/lib/jwt"
	analyticsservice "github.com/magabrotheeeer/admin-dashboard/internal/services/analytics"
	authservice "github.com/magabrotheeeer/admin-dashboard/internal/services/auth"
	subservice "github.com/magabrotheeeer/admin-dashboard/internal/services/subscription"
	userservice "github.com/magabrotheeeer/admin-dashboard/internal/services/user"
	"github.com/magabrotheeeer/admin-dashboard/internal/storage/repository"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, cfg *config.Config,
	db *repository.Storage, maker jwt.Maker,
	authService *authservice.AuthService,
	analyticsService *analyticsservice.AnalyticsService,
	userService *userservice.UserService,
	subscriptionService *subservice.SubscriptionService) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Get("/health", health.New(logger, db).ServeHTTP)
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.RateLimitMiddleware(logger, cfg.RatePerSec, cfg.RateBurst))
			r.Post("/auth/send-otp", sendotp.New(logger, authService).ServeHTTP)
		})
		r.Post("/auth/verify-otp", verifyotp.New(logger, authService).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(maker, logger))
			r.Get("/me", me.New(logger, authService).ServeHTTP)
			r.Get("/dashboard", stats.New(logger, analyticsService).ServeHTTP)
			r.Get("/dashboard/analytics", analytics.New(logger, analyticsService).ServeHTTP)
			r.Get("/users", userlist.New(logger, userService).ServeHTTP)
			r.Get("/subscriptions", subscriptionlist.New(logger, subscriptionService).ServeHTTP)

			// Изменяющие действия доступны только администраторам
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.AdminOnlyMiddleware(logger))
				r.Put("/users/{id}", edit.New(logger, userService).ServeHTTP)
				r.Delete("/users/{id}", remove.New(logger, userService).ServeHTTP)
				r.Post("/subscriptions", create.New(logger, subscriptionService).ServeHTTP)
				r.Put("/subscriptions/{id}", update.New(logger, subscriptionService).ServeHTTP)
				r.Post("/subscriptions/{id}/expire", expire.New(logger, subscriptionService).ServeHTTP)
			})
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
