package levelclient

import (
	"context"
	"net/http"

	"github.com/level-4u/level-backend/internal/models"
)

// PaymentStart описывает запущенный платёж: ссылку на hosted checkout
// либо client secret для встроенной карточной формы.
type PaymentStart struct {
	SessionID    string `json:"session_id,omitempty"`
	CheckoutURL  string `json:"url,omitempty"`
	IntentID     string `json:"intent_id,omitempty"`
	ClientSecret string `json:"client_secret,omitempty"`
}

// CreateCheckoutSession создает hosted checkout-сессию для оплаты тарифа.
func (c *Client) CreateCheckoutSession(ctx context.Context, plan string) (*PaymentStart, error) {
	return c.startPayment(ctx, "/api/payment/create-checkout-session", map[string]string{"plan": plan})
}

// CreatePaymentIntent создает платёжный интент для встроенной карточной формы.
func (c *Client) CreatePaymentIntent(ctx context.Context, plan string) (*PaymentStart, error) {
	return c.startPayment(ctx, "/api/payment/upgrade", map[string]string{"plan": plan})
}

// StartPlanPurchase запускает оплату тарифа: сначала hosted checkout, при
// его отказе — встроенная форма через платёжный интент. Ошибка второго пути
// возвращается вызывающему без автоматических повторов.
func (c *Client) StartPlanPurchase(ctx context.Context, plan string) (*PaymentStart, error) {
	start, err := c.CreateCheckoutSession(ctx, plan)
	if err == nil {
		return start, nil
	}
	return c.CreatePaymentIntent(ctx, plan)
}

// RepurchaseCurrentPlan создает checkout-сессию для продления текущего тарифа.
func (c *Client) RepurchaseCurrentPlan(ctx context.Context) (*PaymentStart, error) {
	return c.startPayment(ctx, "/api/payment/repurchase", nil)
}

// PaymentHistory возвращает историю платежей текущего пользователя.
func (c *Client) PaymentHistory(ctx context.Context) ([]*models.Payment, error) {
	var data struct {
		Payments []*models.Payment `json:"payments"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/api/payment/history", nil, &data); err != nil {
		return nil, err
	}
	return data.Payments, nil
}

func (c *Client) startPayment(ctx context.Context, path string, in any) (*PaymentStart, error) {
	var start PaymentStart
	if err := c.doJSON(ctx, http.MethodPost, path, in, &start); err != nil {
		return nil, err
	}
	return &start, nil
}
