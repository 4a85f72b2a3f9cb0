// Package invitesender собирает и запускает сервис рассылки приглашений на отзыв.
package invitesender

import (
	"context"
	"log/slog"

	"github.com/streadway/amqp"

	"github.com/level-4u/level-backend/internal/config"
	"github.com/level-4u/level-backend/internal/lib/smtp"
	"github.com/level-4u/level-backend/internal/rabbitmq"
	senderservice "github.com/level-4u/level-backend/internal/services/sender"
)

// App держит подключение к брокеру и сервис отправки писем.
type App struct {
	conn          *amqp.Connection
	ch            *amqp.Channel
	senderService *senderservice.Service
	logger        *slog.Logger
}

// New подключается к RabbitMQ и готовит SMTP-транспорт.
func New(_ context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	conn, err := rabbitmq.Connect(cfg.RabbitURL, cfg.RabbitRetries, cfg.RabbitDelay)
	if err != nil {
		return nil, err
	}

	ch, err := rabbitmq.SetupChannel(conn)
	if err != nil {
		conn.Close()
		return nil, err
	}

	newTransport := smtp.NewTransport(cfg, logger)
	senderService := senderservice.New(newTransport, logger)

	return &App{
		conn:          conn,
		ch:            ch,
		senderService: senderService,
		logger:        logger,
	}, nil
}

// Run запускает потребителя очереди приглашений и блокируется до отмены контекста.
func (a *App) Run(ctx context.Context) error {
	err := rabbitmq.ConsumerMessage(ctx, a.ch, rabbitmq.InvitesQueue, a.senderService.SendReviewInvite)
	if err != nil {
		a.logger.Error("failed to start invites consumer", slog.Any("err", err))
		return err
	}

	<-ctx.Done()
	a.logger.Info("invite sender shutting down gracefully")

	if err := a.ch.Close(); err != nil {
		a.logger.Error("failed to close channel", slog.Any("err", err))
	}

	if err := a.conn.Close(); err != nil {
		a.logger.Error("failed to close connection", slog.Any("err", err))
	}

	return nil
}
