// Package levelapi предоставляет маршруты для основного приложения.
package levelapi

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/level-4u/level-backend/internal/http/handlers/auth/login"
	"github.com/level-4u/level-backend/internal/http/handlers/auth/refresh"
	"github.com/level-4u/level-backend/internal/http/handlers/auth/register"
	"github.com/level-4u/level-backend/internal/http/handlers/health"
	"github.com/level-4u/level-backend/internal/http/handlers/order/upload"
	"github.com/level-4u/level-backend/internal/http/handlers/payment/checkout"
	"github.com/level-4u/level-backend/internal/http/handlers/payment/history"
	"github.com/level-4u/level-backend/internal/http/handlers/payment/repurchase"
	"github.com/level-4u/level-backend/internal/http/handlers/payment/upgrade"
	"github.com/level-4u/level-backend/internal/http/handlers/payment/webhook"
	"github.com/level-4u/level-backend/internal/http/handlers/review/list"
	"github.com/level-4u/level-backend/internal/http/handlers/review/public"
	"github.com/level-4u/level-backend/internal/http/handlers/review/qr"
	"github.com/level-4u/level-backend/internal/http/handlers/review/reply"
	"github.com/level-4u/level-backend/internal/http/handlers/review/submit"
	"github.com/level-4u/level-backend/internal/http/handlers/review/widget"
	"github.com/level-4u/level-backend/internal/http/handlers/user/billing"
	"github.com/level-4u/level-backend/internal/http/handlers/user/planinfo"
	"github.com/level-4u/level-backend/internal/http/handlers/user/profileread"
	"github.com/level-4u/level-backend/internal/http/handlers/user/profileupdate"
	"github.com/level-4u/level-backend/internal/http/middlewarectx"
	"github.com/level-4u/level-backend/internal/qrcode"
	authservice "github.com/level-4u/level-backend/internal/services/auth"
	orderservice "github.com/level-4u/level-backend/internal/services/order"
	paymentservice "github.com/level-4u/level-backend/internal/services/payment"
	planservice "github.com/level-4u/level-backend/internal/services/plan"
	reviewservice "github.com/level-4u/level-backend/internal/services/review"
	userservice "github.com/level-4u/level-backend/internal/services/user"
	"github.com/level-4u/level-backend/internal/storage/repository"
)

// Services собирает зависимости, необходимые для регистрации маршрутов.
type Services struct {
	Auth          *authservice.AuthService
	Plan          *planservice.Service
	User          *userservice.Service
	Review        *reviewservice.Service
	Order         *orderservice.Service
	Payment       *paymentservice.Service
	QR            *qrcode.Client
	Health        *repository.Storage
	PublicBaseURL string
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, svc *Services) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/token", login.New(logger, svc.Auth).ServeHTTP)
		r.Post("/token/refresh", refresh.New(logger, svc.Auth).ServeHTTP)
		r.Post("/users/signup", register.New(logger, svc.Auth).ServeHTTP)
		r.Get("/reviews/public-reviews/{userID}", public.New(logger, svc.Review).ServeHTTP)
		r.Get("/reviews/widget/iframe/{userID}", widget.New(logger, svc.Review).ServeHTTP)
		r.Post("/reviews/review/{token}", submit.New(logger, svc.Review).ServeHTTP)

		// Webhook endpoint (без аутентификации)
		r.Post("/payment/webhook", webhook.New(logger, svc.Payment).ServeHTTP)

		// Группа с JWT аутентификацией. Состояние тарифа здесь не проверяется,
		// чтобы пользователь с истёкшим тарифом мог посмотреть кабинет и оплатить.
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(svc.Auth, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))
			r.Get("/users/profile", profileread.New(logger, svc.User).ServeHTTP)
			r.Put("/users/profile", profileupdate.New(logger, svc.User).ServeHTTP)
			r.Get("/users/user-plan-info", planinfo.New(logger, svc.Plan).ServeHTTP)
			r.Get("/users/billing", billing.New(logger, svc.Payment).ServeHTTP)
			r.Get("/reviews/qr", qr.New(logger, svc.QR, svc.PublicBaseURL).ServeHTTP)
			r.Post("/payment/upgrade", upgrade.New(logger, svc.Payment).ServeHTTP)
			r.Post("/payment/create-checkout-session", checkout.New(logger, svc.Payment).ServeHTTP)
			r.Post("/payment/repurchase", repurchase.New(logger, svc.Payment).ServeHTTP)
			r.Get("/payment/history", history.New(logger, svc.Payment).ServeHTTP)

			// Рабочие операции кабинета блокируются при истёкшем тарифе
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.PlanStatusMiddleware(logger, svc.Plan))
				r.Post("/orders/upload-csv", upload.New(logger, svc.Order).ServeHTTP)
				r.Get("/reviews/my-reviews", list.New(logger, svc.Review).ServeHTTP)
				r.Post("/reviews/reply-to-negative/{reviewID}", reply.New(logger, svc.Review).ServeHTTP)
			})
		})
	})

	r.Get("/health", health.New(logger, svc.Health).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
