// Package order содержит бизнес-логику загрузки заказов из CSV-файла
// и постановки приглашений на отзыв в очередь отправки.
package order

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/level-4u/level-backend/internal/lib/rabbitmq"
	"github.com/level-4u/level-backend/internal/lib/sl"
	"github.com/level-4u/level-backend/internal/models"
	rabbitconn "github.com/level-4u/level-backend/internal/rabbitmq"
)

// MaxCSVSize — максимальный размер загружаемого CSV-файла.
const MaxCSVSize = 100 << 20

// Ошибки валидации CSV-файла.
var (
	ErrNotCSV       = errors.New("file must have a .csv extension")
	ErrTooLarge     = errors.New("file exceeds the 100 MiB limit")
	ErrBadHeader    = errors.New("csv header must be: order_id,customer_name,customer_email")
	ErrEmptyFile    = errors.New("csv file contains no order rows")
	ErrMalformedRow = errors.New("csv row is malformed")
)

var expectedHeader = []string{"order_id", "customer_name", "customer_email"}

// Repository определяет методы хранилища для работы с заказами.
type Repository interface {
	CreateOrder(ctx context.Context, order models.Order) (int, error)
	GetUser(ctx context.Context, userUID string) (*models.User, error)
}

// UploadResult — итог обработки CSV-файла.
type UploadResult struct {
	Accepted int `json:"accepted"`
	Queued   int `json:"queued"`
}

// Service реализует бизнес-логику загрузки заказов.
type Service struct {
	repo          Repository
	channel       rabbitmq.Channel
	publicBaseURL string
	log           *slog.Logger
}

// New создает новый экземпляр Service.
func New(repo Repository, channel rabbitmq.Channel, publicBaseURL string, log *slog.Logger) *Service {
	return &Service{
		repo:          repo,
		channel:       channel,
		publicBaseURL: publicBaseURL,
		log:           log,
	}
}

// ValidateUpload проверяет имя и размер файла до чтения содержимого.
func ValidateUpload(filename string, size int64) error {
	if !strings.HasSuffix(strings.ToLower(filename), ".csv") {
		return ErrNotCSV
	}
	if size > MaxCSVSize {
		return ErrTooLarge
	}
	return nil
}

// UploadCSV читает CSV с заказами, сохраняет каждый заказ с одноразовым
// токеном отзыва и ставит приглашение в очередь отправки. Формат файла:
// заголовок order_id,customer_name,customer_email и строки заказов.
func (s *Service) UploadCSV(ctx context.Context, userUID string, r io.Reader) (*UploadResult, error) {
	const op = "services.order.UploadCSV"

	seller, err := s.repo.GetUser(ctx, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = len(expectedHeader)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, ErrBadHeader
	}
	for i, name := range expectedHeader {
		if strings.TrimSpace(strings.ToLower(header[i])) != name {
			return nil, ErrBadHeader
		}
	}

	result := &UploadResult{}
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedRow, err)
		}

		entry := models.Order{
			OrderID:       strings.TrimSpace(record[0]),
			UserUID:       userUID,
			CustomerName:  strings.TrimSpace(record[1]),
			CustomerEmail: strings.TrimSpace(record[2]),
			ReviewToken:   uuid.NewString(),
		}
		if entry.OrderID == "" || entry.CustomerEmail == "" {
			return nil, ErrMalformedRow
		}

		if _, err := s.repo.CreateOrder(ctx, entry); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result.Accepted++

		invite := models.ReviewInvite{
			OrderID:       entry.OrderID,
			CustomerName:  entry.CustomerName,
			CustomerEmail: entry.CustomerEmail,
			BusinessName:  seller.BusinessName,
			ReviewURL:     fmt.Sprintf("%s/review/%s", s.publicBaseURL, entry.ReviewToken),
		}
		if err := rabbitmq.PublishMessage(s.channel, rabbitconn.InvitesExchange, rabbitconn.InvitesRoutingKey, invite); err != nil {
			s.log.Error("failed to publish review invite", sl.Err(err))
			continue
		}
		result.Queued++
	}
	if result.Accepted == 0 {
		return nil, ErrEmptyFile
	}
	s.log.Info("csv upload processed",
		slog.Int("accepted", result.Accepted), slog.Int("queued", result.Queued))
	return result, nil
}
