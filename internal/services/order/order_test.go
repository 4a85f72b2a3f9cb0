package order

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/level-4u/level-backend/internal/models"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) CreateOrder(ctx context.Context, order models.Order) (int, error) {
	args := m.Called(ctx, order)
	return args.Int(0), args.Error(1)
}
func (m *RepoMock) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

type ChannelMock struct{ mock.Mock }

func (m *ChannelMock) Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	args := m.Called(exchange, key, mandatory, immediate, msg)
	return args.Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestValidateUpload(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		size     int64
		wantErr  error
	}{
		{name: "valid small csv", filename: "orders.csv", size: 1024, wantErr: nil},
		{name: "uppercase extension accepted", filename: "ORDERS.CSV", size: 1024, wantErr: nil},
		{name: "not a csv file", filename: "orders.txt", size: 1024, wantErr: ErrNotCSV},
		{name: "no extension", filename: "orders", size: 1024, wantErr: ErrNotCSV},
		{name: "exactly at the limit", filename: "orders.csv", size: MaxCSVSize, wantErr: nil},
		{name: "over the limit", filename: "orders.csv", size: MaxCSVSize + 1, wantErr: ErrTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUpload(tt.filename, tt.size)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestOrderService_UploadCSV(t *testing.T) {
	seller := &models.User{UUID: "uid-1", BusinessName: "Acme Store"}

	tests := []struct {
		name       string
		csv        string
		setupMocks func(r *RepoMock, ch *ChannelMock)
		want       *UploadResult
		wantErr    error
	}{
		{
			name: "success two rows",
			csv: "order_id,customer_name,customer_email\n" +
				"ORD-1,Anna,anna@example.com\n" +
				"ORD-2,Mark,mark@example.com\n",
			setupMocks: func(r *RepoMock, ch *ChannelMock) {
				r.On("GetUser", mock.Anything, "uid-1").Return(seller, nil).Once()
				r.On("CreateOrder", mock.Anything, mock.MatchedBy(func(o models.Order) bool {
					return o.UserUID == "uid-1" && o.ReviewToken != ""
				})).Return(1, nil).Twice()
				ch.On("Publish", "invites", "review", false, false, mock.Anything).Return(nil).Twice()
			},
			want: &UploadResult{Accepted: 2, Queued: 2},
		},
		{
			name: "publish failure still accepts the order",
			csv: "order_id,customer_name,customer_email\n" +
				"ORD-1,Anna,anna@example.com\n",
			setupMocks: func(r *RepoMock, ch *ChannelMock) {
				r.On("GetUser", mock.Anything, "uid-1").Return(seller, nil).Once()
				r.On("CreateOrder", mock.Anything, mock.Anything).Return(1, nil).Once()
				ch.On("Publish", "invites", "review", false, false, mock.Anything).
					Return(errors.New("amqp down")).Once()
			},
			want: &UploadResult{Accepted: 1, Queued: 0},
		},
		{
			name: "wrong header",
			csv:  "id,name,email\nORD-1,Anna,anna@example.com\n",
			setupMocks: func(r *RepoMock, _ *ChannelMock) {
				r.On("GetUser", mock.Anything, "uid-1").Return(seller, nil).Once()
			},
			wantErr: ErrBadHeader,
		},
		{
			name: "header only",
			csv:  "order_id,customer_name,customer_email\n",
			setupMocks: func(r *RepoMock, _ *ChannelMock) {
				r.On("GetUser", mock.Anything, "uid-1").Return(seller, nil).Once()
			},
			wantErr: ErrEmptyFile,
		},
		{
			name: "row with missing email",
			csv: "order_id,customer_name,customer_email\n" +
				"ORD-1,Anna,\n",
			setupMocks: func(r *RepoMock, _ *ChannelMock) {
				r.On("GetUser", mock.Anything, "uid-1").Return(seller, nil).Once()
			},
			wantErr: ErrMalformedRow,
		},
		{
			name: "row with wrong field count",
			csv: "order_id,customer_name,customer_email\n" +
				"ORD-1,Anna\n",
			setupMocks: func(r *RepoMock, _ *ChannelMock) {
				r.On("GetUser", mock.Anything, "uid-1").Return(seller, nil).Once()
			},
			wantErr: ErrMalformedRow,
		},
		{
			name: "repo error on create",
			csv: "order_id,customer_name,customer_email\n" +
				"ORD-1,Anna,anna@example.com\n",
			setupMocks: func(r *RepoMock, _ *ChannelMock) {
				r.On("GetUser", mock.Anything, "uid-1").Return(seller, nil).Once()
				r.On("CreateOrder", mock.Anything, mock.Anything).Return(0, errors.New("db error")).Once()
			},
			wantErr: errors.New("db error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			channel := new(ChannelMock)
			svc := New(repo, channel, "https://level.example.com", newNoopLogger())

			tt.setupMocks(repo, channel)

			got, err := svc.UploadCSV(context.Background(), "uid-1", strings.NewReader(tt.csv))
			if tt.wantErr != nil {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr.Error())
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}

			repo.AssertExpectations(t)
			channel.AssertExpectations(t)
		})
	}
}
