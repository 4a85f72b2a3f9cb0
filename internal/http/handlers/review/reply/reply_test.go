package reply

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

	"github.com/level-4u/level-backend/internal/http/middlewarectx"
	"github.com/level-4u/level-backend/internal/models"
	"github.com/level-4u/level-backend/internal/services/review"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) ReplyToNegative(ctx context.Context, userUID string, reviewID int, reply string) (*models.Review, error) {
	args := m.Called(ctx, userUID, reviewID, reply)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Review), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func doRequest(t *testing.T, handler *Handler, userUID, reviewID string, body []byte) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/api/reviews/reply-to-negative/"+reviewID, bytes.NewReader(body))
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("reviewID", reviewID)
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
	ctx = context.WithValue(ctx, middleware.RequestIDKey, "reqid123")
	if userUID != "" {
		ctx = context.WithValue(ctx, middlewarectx.UserUID, userUID)
	}
	req = req.WithContext(ctx)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestReplyHandler_ServeHTTP(t *testing.T) {
	updated := &models.Review{ID: 1, MainRating: 2, Recommend: "no", Reply: "we apologise"}
	body, _ := json.Marshal(models.DummyReply{Reply: "we apologise"})

	tests := []struct {
		name           string
		userUID        string
		reviewID       string
		body           []byte
		mockReview     *models.Review
		mockErr        error
		skipMock       bool
		wantStatusCode int
	}{
		{
			name:           "success reply",
			userUID:        "uid-1",
			reviewID:       "1",
			body:           body,
			mockReview:     updated,
			wantStatusCode: http.StatusOK,
		},
		{
			name:           "missing user in context",
			userUID:        "",
			reviewID:       "1",
			body:           body,
			skipMock:       true,
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:           "bad review id",
			userUID:        "uid-1",
			reviewID:       "abc",
			body:           body,
			skipMock:       true,
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name:           "empty reply text",
			userUID:        "uid-1",
			reviewID:       "1",
			body:           []byte(`{"reply":""}`),
			skipMock:       true,
			wantStatusCode: http.StatusUnprocessableEntity,
		},
		{
			name:           "foreign review",
			userUID:        "uid-2",
			reviewID:       "1",
			body:           body,
			mockErr:        review.ErrForbidden,
			wantStatusCode: http.StatusForbidden,
		},
		{
			name:           "positive review",
			userUID:        "uid-1",
			reviewID:       "1",
			body:           body,
			mockErr:        review.ErrNotEligible,
			wantStatusCode: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			serviceMock := new(ServiceMock)
			handler := New(newNoopLogger(), serviceMock)

			if !tt.skipMock {
				serviceMock.On("ReplyToNegative", mock.Anything, tt.userUID, 1, "we apologise").
					Return(tt.mockReview, tt.mockErr).Once()
			}

			rec := doRequest(t, handler, tt.userUID, tt.reviewID, tt.body)

			assert.Equal(t, tt.wantStatusCode, rec.Code)
			serviceMock.AssertExpectations(t)
		})
	}
}
