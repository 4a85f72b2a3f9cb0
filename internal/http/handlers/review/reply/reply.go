// Package reply реализует HTTP-обработчик ответа продавца на негативный отзыв.
//
// Ответ доступен только владельцу отзыва, только когда отзыв негативный
// (recommend == "no" или основная оценка ниже 3) и только один раз.
package reply

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/level-4u/level-backend/internal/http/middlewarectx"
	"github.com/level-4u/level-backend/internal/http/response"
	"github.com/level-4u/level-backend/internal/lib/sl"
	"github.com/level-4u/level-backend/internal/models"
	"github.com/level-4u/level-backend/internal/services/review"
)

// Handler обрабатывает ответ продавца на отзыв.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики ответов на отзывы.
type Service interface {
	ReplyToNegative(ctx context.Context, userUID string, reviewID int, reply string) (*models.Review, error)
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
// @Summary Ответ на негативный отзыв
// @Description Сохраняет ответ продавца и возвращает обновлённый отзыв.
// @Tags Reviews
// @Accept  json
// @Produce  json
// @Param reviewID path int true "Идентификатор отзыва"
// @Param request body models.DummyReply true "Текст ответа"
// @Success 200 {object} map[string]any "Обновлённый отзыв"
// @Failure 400 {object} response.ErrorResponse "Некорректный запрос"
// @Failure 403 {object} response.ErrorResponse "Чужой отзыв"
// @Failure 409 {object} response.ErrorResponse "Отзыв не подходит для ответа"
// @Security BearerAuth
// @Router /api/reviews/reply-to-negative/{reviewID} [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.review.reply"

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

	reviewID, err := strconv.Atoi(chi.URLParam(r, "reviewID"))
	if err != nil {
		log.Error("failed to decode review id from url", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid review id"))
		return
	}

	var req models.DummyReply
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

	updated, err := h.service.ReplyToNegative(r.Context(), userUID, reviewID, req.Reply)
	if err != nil {
		log.Error("failed to reply to review", sl.Err(err))
		switch {
		case errors.Is(err, review.ErrForbidden):
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("review belongs to another user"))
		case errors.Is(err, review.ErrNotEligible):
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("review is not eligible for a reply"))
		default:
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to reply to review"))
		}
		return
	}

	log.Info("reply saved", slog.Int("review_id", reviewID))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"review": updated,
	}))
}
