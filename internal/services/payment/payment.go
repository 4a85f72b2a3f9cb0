// Package payment содержит бизнес-логику оплаты тарифов: создание
// Checkout-сессий и платёжных интентов Stripe, обработку вебхуков
// и историю платежей.
package payment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/level-4u/level-backend/internal/models"
	"github.com/level-4u/level-backend/internal/paymentprovider"
)

// Ошибки бизнес-правил оплаты.
var (
	ErrUnknownPlan = errors.New("unknown plan")
	ErrFreePlan    = errors.New("basic plan does not require payment")
)

// Repository определяет методы хранилища для работы с платежами.
type Repository interface {
	CreatePayment(ctx context.Context, payment models.Payment) (int, error)
	UpdatePaymentStatus(ctx context.Context, intentID, status string) (int, error)
	ListPayments(ctx context.Context, userUID string) ([]*models.Payment, error)
	UpdateUserPlan(ctx context.Context, userUID, plan string, planExpiry time.Time) (int, error)
	GetUser(ctx context.Context, userUID string) (*models.User, error)
}

// Provider описывает операции платёжного провайдера.
type Provider interface {
	CreateCheckoutSession(ctx context.Context, userUID, plan string, amountCents int64) (*paymentprovider.CheckoutSession, error)
	CreatePaymentIntent(ctx context.Context, userUID, plan string, amountCents int64) (*paymentprovider.PaymentIntent, error)
	ParseWebhookEvent(payload []byte, signature string) (*paymentprovider.WebhookPayment, error)
}

// PlanInvalidator сбрасывает кэш состояния тарифа после оплаты.
type PlanInvalidator interface {
	InvalidatePlanInfo(userUID string)
}

// Service реализует бизнес-логику оплаты тарифов.
type Service struct {
	repo     Repository
	provider Provider
	plans    PlanInvalidator
	log      *slog.Logger
}

// New создает новый экземпляр Service.
func New(repo Repository, provider Provider, plans PlanInvalidator, log *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		provider: provider,
		plans:    plans,
		log:      log,
	}
}

// CreateCheckoutSession создаёт Checkout-сессию оплаты тарифа и фиксирует
// платёж в статусе pending. Базовый тариф бесплатен и оплате не подлежит.
func (s *Service) CreateCheckoutSession(ctx context.Context, userUID, plan string) (*paymentprovider.CheckoutSession, error) {
	const op = "services.payment.CreateCheckoutSession"

	amount, err := planAmount(plan)
	if err != nil {
		return nil, err
	}
	session, err := s.provider.CreateCheckoutSession(ctx, userUID, plan, amount)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := s.recordPending(ctx, userUID, plan, amount, session.ID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return session, nil
}

// CreatePaymentIntent создаёт платёжный интент для оплаты тарифа без
// редиректа: клиент подтверждает оплату по client_secret.
func (s *Service) CreatePaymentIntent(ctx context.Context, userUID, plan string) (*paymentprovider.PaymentIntent, error) {
	const op = "services.payment.CreatePaymentIntent"

	amount, err := planAmount(plan)
	if err != nil {
		return nil, err
	}
	intent, err := s.provider.CreatePaymentIntent(ctx, userUID, plan, amount)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := s.recordPending(ctx, userUID, plan, amount, intent.ID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return intent, nil
}

// RepurchaseCurrentPlan продлевает действующий тариф пользователя
// новой Checkout-сессией на ту же сумму.
func (s *Service) RepurchaseCurrentPlan(ctx context.Context, userUID string) (*paymentprovider.CheckoutSession, error) {
	const op = "services.payment.RepurchaseCurrentPlan"

	user, err := s.repo.GetUser(ctx, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return s.CreateCheckoutSession(ctx, userUID, user.Plan)
}

// HandleWebhook проверяет подпись события Stripe и при завершённом платеже
// активирует тариф на месяц, помечает платёж успешным и сбрасывает кэш
// состояния тарифа. События других типов игнорируются.
func (s *Service) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	const op = "services.payment.HandleWebhook"

	settled, err := s.provider.ParseWebhookEvent(payload, signature)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if settled == nil {
		return nil
	}
	if !models.IsValidPlan(settled.Plan) {
		return ErrUnknownPlan
	}

	expiry := time.Now().UTC().AddDate(0, 1, 0)
	if _, err := s.repo.UpdateUserPlan(ctx, settled.UserUID, settled.Plan, expiry); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if _, err := s.repo.UpdatePaymentStatus(ctx, settled.IntentID, "succeeded"); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.plans.InvalidatePlanInfo(settled.UserUID)
	s.log.Info("payment settled",
		slog.String("intent_id", settled.IntentID), slog.String("plan", settled.Plan))
	return nil
}

// GetBilling собирает платёжную сводку: текущий тариф, история платежей
// и оставшееся время действия тарифа.
func (s *Service) GetBilling(ctx context.Context, userUID string) (*models.Billing, error) {
	const op = "services.payment.GetBilling"

	user, err := s.repo.GetUser(ctx, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	history, err := s.repo.ListPayments(ctx, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	payments := make([]models.Payment, 0, len(history))
	for _, item := range history {
		payments = append(payments, *item)
	}
	return &models.Billing{
		CurrentPlan:    user.Plan,
		PaymentHistory: payments,
		TimeRemaining:  timeRemaining(user, time.Now().UTC()),
	}, nil
}

// ListPayments возвращает историю платежей пользователя.
func (s *Service) ListPayments(ctx context.Context, userUID string) ([]*models.Payment, error) {
	return s.repo.ListPayments(ctx, userUID)
}

func (s *Service) recordPending(ctx context.Context, userUID, plan string, amount int64, intentID string) error {
	_, err := s.repo.CreatePayment(ctx, models.Payment{
		UserUID:   userUID,
		Plan:      plan,
		AmountUSD: amount,
		Currency:  "usd",
		IntentID:  intentID,
		Status:    "pending",
	})
	return err
}

func planAmount(plan string) (int64, error) {
	amount, ok := models.PlanPricesUSD[plan]
	if !ok {
		return 0, ErrUnknownPlan
	}
	if amount == 0 {
		return 0, ErrFreePlan
	}
	return amount, nil
}

func timeRemaining(user *models.User, now time.Time) string {
	until := user.PlanExpiry
	if user.OnTrial(now) {
		until = user.TrialEndDate
	}
	if until == nil || !now.Before(*until) {
		return "expired"
	}
	days := int(until.Sub(now).Hours() / 24)
	if days == 0 {
		return "less than a day"
	}
	if days == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", days)
}
