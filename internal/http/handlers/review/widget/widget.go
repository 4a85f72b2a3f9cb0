// Package widget реализует HTTP-обработчик встраиваемого виджета отзывов.
//
// Конечная точка отдаёт готовый HTML-документ для iframe на сайте продавца:
// сводную статистику и последние опубликованные отзывы.
package widget

import (
	"context"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/level-4u/level-backend/internal/http/response"
	"github.com/level-4u/level-backend/internal/lib/sl"
	"github.com/level-4u/level-backend/internal/models"
)

// Показываем в виджете не больше пяти последних отзывов.
const widgetReviewLimit = 5

var widgetTemplate = template.Must(template.New("widget").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Customer reviews</title>
<style>
body { font-family: sans-serif; margin: 0; padding: 12px; color: #1a1a2e; }
.summary { font-size: 14px; margin-bottom: 10px; }
.review { border-top: 1px solid #e3e3ef; padding: 8px 0; font-size: 13px; }
.stars { color: #f5a623; }
.reply { margin: 6px 0 0 12px; padding: 6px; background: #f4f6fb; font-size: 12px; }
</style>
</head>
<body>
<div class="summary">
<strong>{{printf "%.1f" .Statistics.AverageRating}}</strong> / 5 ·
{{.Statistics.TotalReviews}} reviews ·
{{.Statistics.RecommendationRate}}% recommend
</div>
{{range .Reviews}}
<div class="review">
<span class="stars">{{.MainRating}}/5</span>
<strong>{{.CustomerName}}</strong>
<p>{{.Comment}}</p>
{{if .Reply}}<div class="reply">Seller reply: {{.Reply}}</div>{{end}}
</div>
{{end}}
</body>
</html>
`))

type widgetData struct {
	Statistics models.Statistics
	Reviews    []*models.Review
}

// Handler обрабатывает запросы встраиваемого виджета.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики публичных отзывов.
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
// @Summary Встраиваемый виджет отзывов
// @Description Возвращает HTML-документ для iframe со статистикой и последними отзывами.
// @Tags Reviews
// @Produce  html
// @Param userID path string true "Идентификатор продавца"
// @Success 200 {string} string "HTML-документ"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /api/reviews/widget/iframe/{userID} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.review.widget"

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
		render.JSON(w, r, response.Error("failed to render widget"))
		return
	}

	data := widgetData{
		Statistics: models.ComputeStatistics(reviews),
		Reviews:    reviews,
	}
	if len(data.Reviews) > widgetReviewLimit {
		data.Reviews = data.Reviews[:widgetReviewLimit]
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("X-Frame-Options", "ALLOWALL")
	if err := widgetTemplate.Execute(w, data); err != nil {
		log.Error("failed to execute widget template", sl.Err(err))
	}
}
