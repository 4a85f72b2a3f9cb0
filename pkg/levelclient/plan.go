package levelclient

import (
	"context"
	"errors"
	"time"

	"github.com/level-4u/level-backend/internal/models"
)

// ErrUpgradeRequired возвращается разделами, закрытыми для базового тарифа.
var ErrUpgradeRequired = errors.New("plan upgrade required")

// FetchPlanInfo загружает сводку тарифа: название, счётчик отзывов за месяц,
// лимит и признаки истечения тарифа и пробного периода.
func (c *Client) FetchPlanInfo(ctx context.Context) (*models.PlanInfo, error) {
	var info models.PlanInfo
	if err := c.getObject(ctx, "/api/users/user-plan-info", &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// FetchBilling загружает биллинговую сводку: текущий тариф, историю платежей
// и оставшееся время действия.
func (c *Client) FetchBilling(ctx context.Context) (*models.Billing, error) {
	var billing models.Billing
	if err := c.getObject(ctx, "/api/users/billing", &billing); err != nil {
		return nil, err
	}
	return &billing, nil
}

// checkAdvancedAccess применяет общий предикат доступа к расширенным разделам.
func (c *Client) checkAdvancedAccess(ctx context.Context) error {
	info, err := c.FetchPlanInfo(ctx)
	if err != nil {
		return err
	}
	if !models.HasAdvancedAccess(info.Plan) {
		return ErrUpgradeRequired
	}
	return nil
}

// Statistics считает витринные показатели по отзывам текущего пользователя.
// Раздел доступен только на тарифах выше базового.
func (c *Client) Statistics(ctx context.Context) (*models.Statistics, error) {
	if err := c.checkAdvancedAccess(ctx); err != nil {
		return nil, err
	}
	reviews, err := c.FetchMyReviews(ctx)
	if err != nil {
		return nil, err
	}
	stats := models.ComputeStatistics(reviews)
	return &stats, nil
}

// ArchivedReviews возвращает отзывы прошлых месяцев, не входящие в текущий
// месячный счётчик. Раздел доступен только на тарифах выше базового.
func (c *Client) ArchivedReviews(ctx context.Context) ([]*models.Review, error) {
	if err := c.checkAdvancedAccess(ctx); err != nil {
		return nil, err
	}
	reviews, err := c.FetchMyReviews(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	var archived []*models.Review
	for _, r := range reviews {
		if r.CreatedAt.Before(monthStart) {
			archived = append(archived, r)
		}
	}
	return archived, nil
}
