// Package repurchase реализует HTTP-обработчик продления действующего тарифа:
// создаётся новая Checkout-сессия на тот же тариф.
package repurchase

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/level-4u/level-backend/internal/http/middlewarectx"
	"github.com/level-4u/level-backend/internal/http/response"
	"github.com/level-4u/level-backend/internal/lib/sl"
	"github.com/level-4u/level-backend/internal/paymentprovider"
	"github.com/level-4u/level-backend/internal/services/payment"
)

// Handler обрабатывает запросы продления тарифа.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики оплаты.
type Service interface {
	RepurchaseCurrentPlan(ctx context.Context, userUID string) (*paymentprovider.CheckoutSession, error)
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Продление тарифа
// @Description Создаёт Checkout-сессию оплаты текущего тарифа на следующий месяц.
// @Tags Payments
// @Produce  json
// @Success 200 {object} map[string]any "Идентификатор и адрес сессии"
// @Failure 400 {object} response.ErrorResponse "Тариф не подлежит оплате"
// @Failure 401 {object} response.ErrorResponse "Не авторизован"
// @Security BearerAuth
// @Router /api/payment/repurchase [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.repurchase"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		log.Error("user uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	session, err := h.service.RepurchaseCurrentPlan(r.Context(), userUID)
	if err != nil {
		log.Error("failed to repurchase plan", sl.Err(err))
		if errors.Is(err, payment.ErrFreePlan) || errors.Is(err, payment.ErrUnknownPlan) {
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(err.Error()))
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to repurchase plan"))
		return
	}

	log.Info("repurchase session created")
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"session_id": session.ID,
		"url":        session.URL,
	}))
}
