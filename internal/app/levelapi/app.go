// Package levelapi собирает и запускает основное HTTP-приложение платформы Level.
package levelapi

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/level-4u/level-backend/internal/cache"
	"github.com/level-4u/level-backend/internal/config"
	"github.com/level-4u/level-backend/internal/lib/jwt"
	"github.com/level-4u/level-backend/internal/migrations"
	"github.com/level-4u/level-backend/internal/paymentprovider"
	"github.com/level-4u/level-backend/internal/qrcode"
	"github.com/level-4u/level-backend/internal/rabbitmq"
	authservice "github.com/level-4u/level-backend/internal/services/auth"
	orderservice "github.com/level-4u/level-backend/internal/services/order"
	paymentservice "github.com/level-4u/level-backend/internal/services/payment"
	planservice "github.com/level-4u/level-backend/internal/services/plan"
	reviewservice "github.com/level-4u/level-backend/internal/services/review"
	userservice "github.com/level-4u/level-backend/internal/services/user"
	"github.com/level-4u/level-backend/internal/storage/repository"
)

// App агрегирует зависимости HTTP-приложения и управляет их жизненным циклом.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
	rabbit *amqp.Connection
	ch     *amqp.Channel
}

// New инициализирует хранилище, кэш, брокер и все сервисы приложения.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, "./migrations"); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	rabbitConn, err := rabbitmq.Connect(cfg.RabbitURL, cfg.RabbitRetries, cfg.RabbitDelay)
	if err != nil {
		return nil, err
	}
	ch, err := rabbitmq.SetupChannel(rabbitConn)
	if err != nil {
		rabbitConn.Close()
		return nil, err
	}

	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL, cfg.RefreshTTL)
	providerClient := paymentprovider.New(cfg.Stripe, logger)
	qrClient := qrcode.New("")

	authService := authservice.NewAuthService(db, jwtMaker)
	planService := planservice.New(db, cacheRedis, logger)
	userService := userservice.New(db, logger)
	reviewService := reviewservice.New(db, cacheRedis, logger)
	orderService := orderservice.New(db, ch, cfg.PublicBaseURL, logger)
	paymentService := paymentservice.New(db, providerClient, planService, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, &Services{
		Auth:          authService,
		Plan:          planService,
		User:          userService,
		Review:        reviewService,
		Order:         orderService,
		Payment:       paymentService,
		QR:            qrClient,
		Health:        db,
		PublicBaseURL: cfg.PublicBaseURL,
	})

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
		rabbit: rabbitConn,
		ch:     ch,
	}, nil
}

// Run запускает HTTP-сервер и останавливает его по отмене контекста.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.ch.Close()
		a.rabbit.Close()
		a.db.DB.Close()
		return err
	}
}
