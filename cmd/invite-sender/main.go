package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/level-4u/level-backend/internal/app/invitesender"
	"github.com/level-4u/level-backend/internal/config"
)

func main() {
	cfg := config.MustLoad()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	logger.Info("starting invite sender", slog.String("env", cfg.Env))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := invitesender.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize invite sender app", slog.Any("err", err))
		os.Exit(1)
	}

	if err := app.Run(ctx); err != nil {
		logger.Error("invite sender app stopped with error", slog.Any("err", err))
		os.Exit(1)
	}

	logger.Info("invite sender stopped gracefully")
}
