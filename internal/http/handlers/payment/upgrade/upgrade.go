// Package upgrade реализует HTTP-обработчик смены тарифа через платёжный
// интент: клиент получает client_secret и подтверждает оплату на своей стороне.
package upgrade

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/level-4u/level-backend/internal/http/middlewarectx"
	"github.com/level-4u/level-backend/internal/http/response"
	"github.com/level-4u/level-backend/internal/lib/sl"
	"github.com/level-4u/level-backend/internal/models"
	"github.com/level-4u/level-backend/internal/paymentprovider"
	"github.com/level-4u/level-backend/internal/services/payment"
)

// Handler обрабатывает запросы на смену тарифа.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики оплаты.
type Service interface {
	CreatePaymentIntent(ctx context.Context, userUID, plan string) (*paymentprovider.PaymentIntent, error)
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Смена тарифа
// @Description Создаёт платёжный интент для оплаты выбранного тарифа и возвращает client_secret.
// @Tags Payments
// @Accept  json
// @Produce  json
// @Param request body models.DummyUpgrade true "Выбранный тариф"
// @Success 200 {object} map[string]any "client_secret платёжного интента"
// @Failure 400 {object} response.ErrorResponse "Тариф не подлежит оплате"
// @Failure 401 {object} response.ErrorResponse "Не авторизован"
// @Security BearerAuth
// @Router /api/payment/upgrade [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.upgrade"

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

	var req models.DummyUpgrade
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	intent, err := h.service.CreatePaymentIntent(r.Context(), userUID, req.Plan)
	if err != nil {
		log.Error("failed to create payment intent", sl.Err(err))
		if errors.Is(err, payment.ErrFreePlan) || errors.Is(err, payment.ErrUnknownPlan) {
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(err.Error()))
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to create payment"))
		return
	}

	log.Info("payment intent created", slog.String("plan", req.Plan))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"client_secret": intent.ClientSecret,
		"intent_id":     intent.ID,
	}))
}
