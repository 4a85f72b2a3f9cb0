// Package upload реализует HTTP-обработчик загрузки CSV-файла с заказами.
//
// Файл приходит multipart-полем file; расширение и размер проверяются
// до чтения содержимого, затем строки разбираются и ставятся в очередь
// приглашений на отзыв.
package upload

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/level-4u/level-backend/internal/http/middlewarectx"
	"github.com/level-4u/level-backend/internal/http/response"
	"github.com/level-4u/level-backend/internal/lib/sl"
	"github.com/level-4u/level-backend/internal/services/order"
)

// Допуск на границы и заголовки multipart-формы поверх лимита файла.
const multipartOverhead = 1 << 20

// Handler обрабатывает загрузку CSV с заказами.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики загрузки заказов.
type Service interface {
	UploadCSV(ctx context.Context, userUID string, r io.Reader) (*order.UploadResult, error)
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Загрузка заказов из CSV
// @Description Принимает CSV-файл с заказами (поле file), рассылает приглашения на отзыв.
// @Tags Orders
// @Accept  multipart/form-data
// @Produce  json
// @Param file formData file true "CSV-файл: order_id,customer_name,customer_email"
// @Success 200 {object} map[string]any "Число принятых заказов и отправленных приглашений"
// @Failure 400 {object} response.ErrorResponse "Файл отклонён валидацией"
// @Failure 401 {object} response.ErrorResponse "Не авторизован"
// @Security BearerAuth
// @Router /api/orders/upload-csv [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.order.upload"

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

	// Запас поверх лимита файла покрывает multipart-обрамление, сам файл
	// проверяется ниже по header.Size.
	r.Body = http.MaxBytesReader(w, r.Body, order.MaxCSVSize+multipartOverhead)
	file, header, err := r.FormFile("file")
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			log.Error("upload rejected", sl.Err(order.ErrTooLarge))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(order.ErrTooLarge.Error()))
			return
		}
		log.Error("failed to read multipart file", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("missing file field"))
		return
	}
	defer func() { _ = file.Close() }()

	if err := order.ValidateUpload(header.Filename, header.Size); err != nil {
		log.Error("upload rejected", sl.Err(err), slog.String("filename", header.Filename))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error(err.Error()))
		return
	}

	result, err := h.service.UploadCSV(r.Context(), userUID, file)
	if err != nil {
		log.Error("failed to process csv", sl.Err(err))
		status := http.StatusInternalServerError
		if errors.Is(err, order.ErrBadHeader) || errors.Is(err, order.ErrEmptyFile) ||
			errors.Is(err, order.ErrMalformedRow) {
			status = http.StatusBadRequest
		}
		w.WriteHeader(status)
		render.JSON(w, r, response.Error("failed to process csv file"))
		return
	}

	log.Info("csv processed",
		slog.Int("accepted", result.Accepted), slog.Int("queued", result.Queued))
	render.JSON(w, r, response.StatusOKWithData(result))
}
