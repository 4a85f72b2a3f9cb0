package submit

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/level-4u/level-backend/internal/models"
	"github.com/level-4u/level-backend/internal/services/review"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) SubmitByToken(ctx context.Context, token string, req models.DummyReview) (*models.Review, error) {
	args := m.Called(ctx, token, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Review), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func validReview() models.DummyReview {
	return models.DummyReview{
		CustomerName: "Anna",
		MainRating:   5,
		Recommend:    "yes",
		Comment:      "fast delivery",
	}
}

func doRequest(t *testing.T, handler *Handler, token string, body []byte) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/api/reviews/review/"+token, bytes.NewReader(body))
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("token", token)
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
	ctx = context.WithValue(ctx, middleware.RequestIDKey, "reqid123")
	req = req.WithContext(ctx)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestSubmitHandler_ServeHTTP(t *testing.T) {
	saved := &models.Review{ID: 42, OrderID: "ORD-1", MainRating: 5, Recommend: "yes"}

	tests := []struct {
		name           string
		body           interface{}
		mockReview     *models.Review
		mockErr        error
		wantStatusCode int
		wantStatus     string
	}{
		{
			name:           "valid review",
			body:           validReview(),
			mockReview:     saved,
			wantStatusCode: http.StatusOK,
			wantStatus:     "OK",
		},
		{
			name:           "invalid json body",
			body:           "not a json",
			wantStatusCode: http.StatusBadRequest,
			wantStatus:     "Error",
		},
		{
			name: "validation error - rating out of range",
			body: func() models.DummyReview {
				req := validReview()
				req.MainRating = 7
				return req
			}(),
			wantStatusCode: http.StatusUnprocessableEntity,
			wantStatus:     "Error",
		},
		{
			name:           "token already used",
			body:           validReview(),
			mockErr:        review.ErrTokenUsed,
			wantStatusCode: http.StatusConflict,
			wantStatus:     "Error",
		},
		{
			name:           "monthly limit reached",
			body:           validReview(),
			mockErr:        review.ErrLimitReached,
			wantStatusCode: http.StatusForbidden,
			wantStatus:     "Error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			serviceMock := new(ServiceMock)
			handler := New(newNoopLogger(), serviceMock)

			if tt.mockReview != nil || tt.mockErr != nil {
				serviceMock.On("SubmitByToken", mock.Anything, "tok-1", tt.body.(models.DummyReview)).
					Return(tt.mockReview, tt.mockErr).Once()
			}

			var bodyBytes []byte
			var err error
			switch v := tt.body.(type) {
			case string:
				bodyBytes = []byte(v)
			default:
				bodyBytes, err = json.Marshal(tt.body)
				if err != nil {
					t.Fatal(err)
				}
			}

			rec := doRequest(t, handler, "tok-1", bodyBytes)

			assert.Equal(t, tt.wantStatusCode, rec.Code)

			var got map[string]any
			err = json.NewDecoder(rec.Body).Decode(&got)
			assert.NoError(t, err)
			assert.Equal(t, tt.wantStatus, got["status"])

			serviceMock.AssertExpectations(t)
		})
	}
}
