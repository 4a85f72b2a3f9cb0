// Package plan содержит бизнес-логику расчёта тарифной сводки пользователя:
// текущий тариф, месячный расход лимита отзывов и признаки истечения.
package plan

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/level-4u/level-backend/internal/models"
)

// Repository определяет методы хранилища, нужные для расчёта сводки.
type Repository interface {
	// GetUser возвращает пользователя по его UID.
	GetUser(ctx context.Context, userUID string) (*models.User, error)
	// CountReviewsSince подсчитывает отзывы продавца с указанного момента.
	CountReviewsSince(ctx context.Context, userUID string, since time.Time) (int, error)
}

// Cache описывает методы для кэширования сводки.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// Service реализует расчёт тарифной сводки с кешированием.
type Service struct {
	repo  Repository
	cache Cache
	log   *slog.Logger
}

// New создает новый экземпляр Service.
func New(repo Repository, cache Cache, log *slog.Logger) *Service {
	return &Service{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

func cacheKey(userUID string) string {
	return fmt.Sprintf("planinfo:%s", userUID)
}

// GetPlanInfo возвращает тарифную сводку пользователя, используя кеш или хранилище.
func (s *Service) GetPlanInfo(ctx context.Context, userUID string) (*models.PlanInfo, error) {
	var cached models.PlanInfo
	found, err := s.cache.Get(cacheKey(userUID), &cached)
	if err != nil {
		s.log.Warn("failed to read plan info from cache", slog.String("key", cacheKey(userUID)), slog.Any("err", err))
	}
	if found {
		return &cached, nil
	}

	info, err := s.computePlanInfo(ctx, userUID)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(cacheKey(userUID), info, time.Minute); err != nil {
		s.log.Warn("failed to cache plan info", slog.String("key", cacheKey(userUID)), slog.Any("err", err))
	}
	return info, nil
}

// InvalidatePlanInfo сбрасывает кешированную сводку, например после оплаты.
func (s *Service) InvalidatePlanInfo(userUID string) {
	if err := s.cache.Invalidate(cacheKey(userUID)); err != nil {
		s.log.Warn("failed to invalidate plan info", slog.String("key", cacheKey(userUID)), slog.Any("err", err))
	}
}

func (s *Service) computePlanInfo(ctx context.Context, userUID string) (*models.PlanInfo, error) {
	const op = "services.plan.computePlanInfo"

	user, err := s.repo.GetUser(ctx, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	now := time.Now().UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	monthlyCount, err := s.repo.CountReviewsSince(ctx, userUID, monthStart)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	limit := models.PlanLimits[user.Plan]
	remaining := limit - monthlyCount
	if remaining < 0 {
		remaining = 0
	}

	info := &models.PlanInfo{
		Plan:         user.Plan,
		MonthlyCount: monthlyCount,
		Limit:        limit,
		Remaining:    remaining,
		LimitReached: monthlyCount >= limit,
		PlanExpired:  user.PlanIsExpired(now),
		Trial:        user.OnTrial(now),
	}
	info.Message = planMessage(info)
	return info, nil
}

func planMessage(info *models.PlanInfo) string {
	switch {
	case info.UpgradeRequired():
		return "Your plan has expired. Upgrade to keep collecting reviews."
	case info.Trial:
		return "Trial period is active."
	case info.LimitReached:
		return fmt.Sprintf("Monthly review limit of %d reached.", info.Limit)
	default:
		return fmt.Sprintf("%d of %d reviews used this month.", info.MonthlyCount, info.Limit)
	}
}
