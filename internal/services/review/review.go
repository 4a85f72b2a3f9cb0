// Package review содержит бизнес-логику работы с отзывами: кабинет продавца,
// публичная витрина, приём отзывов по токен-ссылке и ответы на негатив.
package review

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/level-4u/level-backend/internal/models"
)

// Ошибки бизнес-правил приёма отзывов и ответов.
var (
	ErrTokenUsed    = errors.New("review token already used")
	ErrNotEligible  = errors.New("review is not eligible for a reply")
	ErrForbidden    = errors.New("review belongs to another user")
	ErrLimitReached = errors.New("monthly review limit reached")
)

// Repository определяет методы хранилища для работы с отзывами и заказами.
type Repository interface {
	CreateReview(ctx context.Context, review models.Review) (int, error)
	ReadReview(ctx context.Context, id int) (*models.Review, error)
	ListReviews(ctx context.Context, userUID string) ([]*models.Review, error)
	ListPublishedReviews(ctx context.Context, userUID string) ([]*models.Review, error)
	SetReviewReply(ctx context.Context, id int, reply string) (*models.Review, error)
	CountReviewsSince(ctx context.Context, userUID string, since time.Time) (int, error)
	GetOrderByReviewToken(ctx context.Context, token string) (*models.Order, error)
	MarkOrderReviewed(ctx context.Context, id int) (int, error)
	GetUser(ctx context.Context, userUID string) (*models.User, error)
}

// Cache описывает методы для кэширования публичной витрины.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// Service реализует бизнес-логику работы с отзывами.
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

func publicCacheKey(userUID string) string {
	return fmt.Sprintf("public-reviews:%s", userUID)
}

// ListMyReviews возвращает полный набор отзывов продавца за сессию;
// фильтрация и пагинация выполняются на клиенте.
func (s *Service) ListMyReviews(ctx context.Context, userUID string) ([]*models.Review, error) {
	return s.repo.ListReviews(ctx, userUID)
}

// ListPublicReviews возвращает опубликованные отзывы продавца для витрины,
// используя кеш или хранилище.
func (s *Service) ListPublicReviews(ctx context.Context, userUID string) ([]*models.Review, error) {
	var cached []*models.Review
	found, err := s.cache.Get(publicCacheKey(userUID), &cached)
	if err != nil {
		s.log.Warn("failed to read public reviews from cache", slog.Any("err", err))
	}
	if found {
		return cached, nil
	}

	reviews, err := s.repo.ListPublishedReviews(ctx, userUID)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(publicCacheKey(userUID), reviews, time.Hour); err != nil {
		s.log.Warn("failed to cache public reviews", slog.Any("err", err))
	}
	return reviews, nil
}

// SubmitByToken принимает отзыв покупателя по одноразовой токен-ссылке.
// Токен расходуется при первом успешном отзыве; при достижении месячного
// лимита тарифа продавца отзыв отклоняется.
func (s *Service) SubmitByToken(ctx context.Context, token string, req models.DummyReview) (*models.Review, error) {
	const op = "services.review.SubmitByToken"

	order, err := s.repo.GetOrderByReviewToken(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if order.Reviewed {
		return nil, ErrTokenUsed
	}

	seller, err := s.repo.GetUser(ctx, order.UserUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	now := time.Now().UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	monthlyCount, err := s.repo.CountReviewsSince(ctx, order.UserUID, monthStart)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if monthlyCount >= models.PlanLimits[seller.Plan] {
		return nil, ErrLimitReached
	}

	entry := models.Review{
		OrderID:                order.OrderID,
		UserUID:                order.UserUID,
		CustomerName:           req.CustomerName,
		MainRating:             req.MainRating,
		LogisticsRating:        req.LogisticsRating,
		CommunicationRating:    req.CommunicationRating,
		WebsiteUsabilityRating: req.WebsiteUsabilityRating,
		Recommend:              req.Recommend,
		Comment:                req.Comment,
		IsPublished:            true,
	}
	id, err := s.repo.CreateReview(ctx, entry)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if _, err := s.repo.MarkOrderReviewed(ctx, order.ID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("review submitted", slog.Int("id", id), slog.String("order_id", order.OrderID))

	if err := s.cache.Invalidate(publicCacheKey(order.UserUID)); err != nil {
		s.log.Warn("failed to invalidate public reviews cache", slog.Any("err", err))
	}

	return s.repo.ReadReview(ctx, id)
}

// ReplyToNegative записывает ответ продавца на негативный отзыв и возвращает
// обновлённый отзыв. Ответ доступен только владельцу отзыва, только для
// негативного отзыва и только один раз.
func (s *Service) ReplyToNegative(ctx context.Context, userUID string, reviewID int, reply string) (*models.Review, error) {
	const op = "services.review.ReplyToNegative"

	entry, err := s.repo.ReadReview(ctx, reviewID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if entry.UserUID != userUID {
		return nil, ErrForbidden
	}
	if !entry.ReplyEligible() {
		return nil, ErrNotEligible
	}

	updated, err := s.repo.SetReviewReply(ctx, reviewID, reply)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("reply saved", slog.Int("id", reviewID))

	if err := s.cache.Invalidate(publicCacheKey(userUID)); err != nil {
		s.log.Warn("failed to invalidate public reviews cache", slog.Any("err", err))
	}
	return updated, nil
}
