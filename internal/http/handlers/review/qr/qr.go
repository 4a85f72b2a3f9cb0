// Package qr реализует HTTP-обработчик выдачи QR-кода со ссылкой
// на публичную страницу отзывов продавца.
package qr

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/level-4u/level-backend/internal/http/middlewarectx"
	"github.com/level-4u/level-backend/internal/http/response"
	"github.com/level-4u/level-backend/internal/lib/sl"
)

// Handler обрабатывает запросы QR-кода публичной страницы.
type Handler struct {
	log           *slog.Logger
	generator     Generator
	publicBaseURL string
}

// Generator описывает интерфейс генератора QR-кодов.
type Generator interface {
	Generate(ctx context.Context, data string, size int) ([]byte, error)
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, generator Generator, publicBaseURL string) *Handler {
	return &Handler{
		log:           log,
		generator:     generator,
		publicBaseURL: publicBaseURL,
	}
}

// ServeHTTP godoc
// @Summary QR-код публичной страницы отзывов
// @Description Возвращает PNG с QR-кодом ссылки на публичные отзывы продавца. Размер задаётся параметром size.
// @Tags Reviews
// @Produce  png
// @Param size query int false "Размер изображения в пикселях (64..1024)"
// @Success 200 {string} binary "PNG-изображение"
// @Failure 401 {object} response.ErrorResponse "Не авторизован"
// @Security BearerAuth
// @Router /api/reviews/qr [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.review.qr"

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

	size, _ := strconv.Atoi(r.URL.Query().Get("size"))
	target := fmt.Sprintf("%s/reviews/%s", h.publicBaseURL, userUID)

	png, err := h.generator.Generate(r.Context(), target, size)
	if err != nil {
		log.Error("failed to generate qr code", sl.Err(err))
		w.WriteHeader(http.StatusBadGateway)
		render.JSON(w, r, response.Error("failed to generate qr code"))
		return
	}

	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(png)
}
