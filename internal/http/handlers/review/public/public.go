// Package public реализует HTTP-обработчик публичной витрины отзывов.
//
// Конечная точка не требует авторизации и отдаёт только опубликованные
// отзывы указанного продавца вместе со сводной статистикой.
package public

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/level-4u/level-backend/internal/http/response"
	"github.com/level-4u/level-backend/internal/lib/sl"
	"github.com/level-4u/level-backend/internal/models"
)

// Handler обрабатывает запросы публичных отзывов продавца.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики отзывов.
type Service interface {
	ListPublicReviews(ctx context.Context, userUID string) ([]*models.Review, error)
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Публичные отзывы продавца
// @Description Возвращает опубликованные отзывы и сводную статистику. Авторизация не требуется.
// @Tags Reviews
// @Produce  json
// @Param userID path string true "Идентификатор продавца"
// @Success 200 {object} map[string]any "Отзывы и статистика"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /api/reviews/public-reviews/{userID} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.review.public"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userID := chi.URLParam(r, "userID")
	if userID == "" {
		log.Error("user id missing from url")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("missing user id"))
		return
	}

	reviews, err := h.service.ListPublicReviews(r.Context(), userID)
	if err != nil {
		log.Error("failed to list public reviews", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to list reviews"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"reviews":    reviews,
		"statistics": models.ComputeStatistics(reviews),
	}))
}
