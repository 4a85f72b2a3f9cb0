// Package webhook реализует HTTP-обработчик вебхуков Stripe.
//
// Подпись события проверяется по заголовку Stripe-Signature; завершённые
// платежи активируют оплаченный тариф.
package webhook

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/level-4u/level-backend/internal/http/response"
	"github.com/level-4u/level-backend/internal/lib/sl"
)

// Тело вебхука Stripe не превышает разумного размера.
const maxWebhookBody = 64 << 10

// Handler обрабатывает вебхуки платёжного провайдера.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики обработки вебхуков.
type Service interface {
	HandleWebhook(ctx context.Context, payload []byte, signature string) error
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Вебхук Stripe
// @Description Принимает события Stripe, проверяет подпись и активирует оплаченный тариф.
// @Tags Payments
// @Accept  json
// @Produce  json
// @Success 200 {object} map[string]any "Событие обработано"
// @Failure 400 {object} response.ErrorResponse "Недействительная подпись"
// @Router /api/payment/webhook [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.webhook"

	log := h.log.With(slog.String("op", op))

	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		log.Error("failed to read webhook body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("failed to read body"))
		return
	}
	defer func() { _ = r.Body.Close() }()

	signature := r.Header.Get("Stripe-Signature")
	if signature == "" {
		log.Error("missing webhook signature")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("missing signature"))
		return
	}

	if err := h.service.HandleWebhook(r.Context(), body, signature); err != nil {
		log.Error("failed to handle webhook", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("failed to handle webhook"))
		return
	}

	log.Info("webhook handled")
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"received": true,
	}))
}
