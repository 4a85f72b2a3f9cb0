// Package submit реализует HTTP-обработчик приёма отзыва по токен-ссылке.
//
// Токен из письма-приглашения одноразовый: после успешного отзыва повторная
// отправка по той же ссылке отклоняется.
package submit

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/level-4u/level-backend/internal/http/response"
	"github.com/level-4u/level-backend/internal/lib/sl"
	"github.com/level-4u/level-backend/internal/models"
	"github.com/level-4u/level-backend/internal/services/review"
)

// Handler обрабатывает приём отзыва покупателя.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики приёма отзывов.
type Service interface {
	SubmitByToken(ctx context.Context, token string, req models.DummyReview) (*models.Review, error)
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
// @Summary Отправка отзыва по токен-ссылке
// @Description Принимает отзыв покупателя по одноразовому токену из письма-приглашения.
// @Tags Reviews
// @Accept  json
// @Produce  json
// @Param token path string true "Одноразовый токен отзыва"
// @Param request body models.DummyReview true "Отзыв покупателя"
// @Success 200 {object} map[string]any "Сохранённый отзыв"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 409 {object} response.ErrorResponse "Токен уже использован"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Router /api/reviews/review/{token} [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.review.submit"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	token := chi.URLParam(r, "token")
	if token == "" {
		log.Error("token missing from url")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("missing review token"))
		return
	}

	var req models.DummyReview
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

	saved, err := h.service.SubmitByToken(r.Context(), token, req)
	if err != nil {
		log.Error("failed to submit review", sl.Err(err))
		switch {
		case errors.Is(err, review.ErrTokenUsed):
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("review already submitted for this order"))
		case errors.Is(err, review.ErrLimitReached):
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("monthly review limit reached"))
		default:
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to submit review"))
		}
		return
	}

	log.Info("review submitted", slog.Int("id", saved.ID))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"review": saved,
	}))
}
