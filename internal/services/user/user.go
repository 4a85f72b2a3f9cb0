// Package user содержит бизнес-логику работы с профилем продавца.
package user

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/level-4u/level-backend/internal/models"
)

// Repository определяет методы хранилища для работы с профилем.
type Repository interface {
	GetUser(ctx context.Context, userUID string) (*models.User, error)
	UpdateProfile(ctx context.Context, userUID string, req models.DummyProfileUpdate) (int, error)
}

// Service реализует бизнес-логику профиля.
type Service struct {
	repo Repository
	log  *slog.Logger
}

// New создает новый экземпляр Service.
func New(repo Repository, log *slog.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log,
	}
}

// GetProfile возвращает публичный профиль пользователя.
func (s *Service) GetProfile(ctx context.Context, userUID string) (*models.Profile, error) {
	const op = "services.user.GetProfile"

	entry, err := s.repo.GetUser(ctx, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	profile := entry.ToProfile()
	return &profile, nil
}

// UpdateProfile применяет изменения профиля и возвращает обновлённую версию.
func (s *Service) UpdateProfile(ctx context.Context, userUID string, req models.DummyProfileUpdate) (*models.Profile, error) {
	const op = "services.user.UpdateProfile"

	if _, err := s.repo.UpdateProfile(ctx, userUID, req); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("profile updated", slog.String("user_uid", userUID))
	return s.GetProfile(ctx, userUID)
}
