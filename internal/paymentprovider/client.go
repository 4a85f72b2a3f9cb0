// Package paymentprovider оборачивает API Stripe: создание Checkout-сессий,
// платёжных интентов и проверку подписи вебхуков.
package paymentprovider

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/stripe/stripe-go/v78"
	"github.com/stripe/stripe-go/v78/client"
	"github.com/stripe/stripe-go/v78/webhook"

	"github.com/level-4u/level-backend/internal/config"
)

// CheckoutSession — результат создания Checkout-сессии Stripe.
type CheckoutSession struct {
	ID  string `json:"session_id"`
	URL string `json:"url"`
}

// PaymentIntent — результат создания платёжного интента Stripe.
type PaymentIntent struct {
	ID           string `json:"intent_id"`
	ClientSecret string `json:"client_secret"`
}

// WebhookPayment — данные завершённого платежа, извлечённые из события вебхука.
type WebhookPayment struct {
	IntentID string
	UserUID  string
	Plan     string
}

// Client обращается к Stripe от имени платформы.
type Client struct {
	api           *client.API
	webhookSecret string
	successURL    string
	cancelURL     string
	log           *slog.Logger
}

// New создает новый экземпляр Client.
func New(cfg config.Stripe, log *slog.Logger) *Client {
	return &Client{
		api:           client.New(cfg.StripeSecretKey, nil),
		webhookSecret: cfg.StripeWebhookSecret,
		successURL:    cfg.CheckoutSuccessURL,
		cancelURL:     cfg.CheckoutCancelURL,
		log:           log,
	}
}

// CreateCheckoutSession создаёт Checkout-сессию оплаты тарифа. Идентификаторы
// пользователя и тарифа кладутся в метаданные и возвращаются вебхуком.
func (c *Client) CreateCheckoutSession(ctx context.Context, userUID, plan string, amountCents int64) (*CheckoutSession, error) {
	const op = "paymentprovider.CreateCheckoutSession"

	params := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(c.successURL),
		CancelURL:  stripe.String(c.cancelURL),
		LineItems: []*stripe.CheckoutSessionLineItemParams{{
			Quantity: stripe.Int64(1),
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:   stripe.String(string(stripe.CurrencyUSD)),
				UnitAmount: stripe.Int64(amountCents),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(fmt.Sprintf("Level %s plan, 1 month", plan)),
				},
			},
		}},
		Metadata: map[string]string{
			"user_uid": userUID,
			"plan":     plan,
		},
	}
	params.Context = ctx
	params.PaymentIntentData = &stripe.CheckoutSessionPaymentIntentDataParams{
		Metadata: map[string]string{
			"user_uid": userUID,
			"plan":     plan,
		},
	}

	session, err := c.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	c.log.Info("checkout session created",
		slog.String("session_id", session.ID), slog.String("plan", plan))
	return &CheckoutSession{ID: session.ID, URL: session.URL}, nil
}

// CreatePaymentIntent создаёт платёжный интент для оплаты тарифа картой
// без редиректа на страницу Stripe.
func (c *Client) CreatePaymentIntent(ctx context.Context, userUID, plan string, amountCents int64) (*PaymentIntent, error) {
	const op = "paymentprovider.CreatePaymentIntent"

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amountCents),
		Currency: stripe.String(string(stripe.CurrencyUSD)),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
		Metadata: map[string]string{
			"user_uid": userUID,
			"plan":     plan,
		},
	}
	params.Context = ctx

	intent, err := c.api.PaymentIntents.New(params)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	c.log.Info("payment intent created",
		slog.String("intent_id", intent.ID), slog.String("plan", plan))
	return &PaymentIntent{ID: intent.ID, ClientSecret: intent.ClientSecret}, nil
}

// ParseWebhookEvent проверяет подпись вебхука и извлекает данные завершённого
// платежа. Для событий других типов возвращается (nil, nil).
func (c *Client) ParseWebhookEvent(payload []byte, signature string) (*WebhookPayment, error) {
	const op = "paymentprovider.ParseWebhookEvent"

	event, err := webhook.ConstructEvent(payload, signature, c.webhookSecret)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	switch event.Type {
	case stripe.EventTypeCheckoutSessionCompleted:
		var session stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		// Платёж хранится под идентификатором сессии, выданным при создании.
		return &WebhookPayment{
			IntentID: session.ID,
			UserUID:  session.Metadata["user_uid"],
			Plan:     strings.ToLower(session.Metadata["plan"]),
		}, nil
	case stripe.EventTypePaymentIntentSucceeded:
		var intent stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		return &WebhookPayment{
			IntentID: intent.ID,
			UserUID:  intent.Metadata["user_uid"],
			Plan:     strings.ToLower(intent.Metadata["plan"]),
		}, nil
	default:
		c.log.Info("webhook event skipped", slog.String("type", string(event.Type)))
		return nil, nil
	}
}
