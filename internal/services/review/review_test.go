package review

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/level-4u/level-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) CreateReview(ctx context.Context, review models.Review) (int, error) {
	args := m.Called(ctx, review)
	return args.Int(0), args.Error(1)
}
func (m *RepoMock) ReadReview(ctx context.Context, id int) (*models.Review, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Review), args.Error(1)
}
func (m *RepoMock) ListReviews(ctx context.Context, userUID string) ([]*models.Review, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Review), args.Error(1)
}
func (m *RepoMock) ListPublishedReviews(ctx context.Context, userUID string) ([]*models.Review, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Review), args.Error(1)
}
func (m *RepoMock) SetReviewReply(ctx context.Context, id int, reply string) (*models.Review, error) {
	args := m.Called(ctx, id, reply)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Review), args.Error(1)
}
func (m *RepoMock) CountReviewsSince(ctx context.Context, userUID string, since time.Time) (int, error) {
	args := m.Called(ctx, userUID, since)
	return args.Int(0), args.Error(1)
}
func (m *RepoMock) GetOrderByReviewToken(ctx context.Context, token string) (*models.Order, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}
func (m *RepoMock) MarkOrderReviewed(ctx context.Context, id int) (int, error) {
	args := m.Called(ctx, id)
	return args.Int(0), args.Error(1)
}
func (m *RepoMock) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

type CacheMock struct{ mock.Mock }

func (m *CacheMock) Get(key string, result any) (bool, error) {
	args := m.Called(key, result)
	return args.Bool(0), args.Error(1)
}
func (m *CacheMock) Set(key string, value any, expiration time.Duration) error {
	return m.Called(key, value, expiration).Error(0)
}
func (m *CacheMock) Invalidate(key string) error {
	return m.Called(key).Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestReviewService_ListPublicReviews(t *testing.T) {
	reviews := []*models.Review{
		{ID: 1, CustomerName: "Anna", MainRating: 5, IsPublished: true},
		{ID: 2, CustomerName: "Mark", MainRating: 2, IsPublished: true},
	}

	tests := []struct {
		name       string
		setupMocks func(r *RepoMock, c *CacheMock)
		want       []*models.Review
		wantErr    bool
	}{
		{
			name: "cache hit",
			setupMocks: func(_ *RepoMock, c *CacheMock) {
				c.On("Get", "public-reviews:uid-1", mock.Anything).Return(true, nil).Run(func(args mock.Arguments) {
					ptr := args.Get(1).(*[]*models.Review)
					*ptr = reviews
				}).Once()
			},
			want:    reviews,
			wantErr: false,
		},
		{
			name: "cache miss then repo success",
			setupMocks: func(r *RepoMock, c *CacheMock) {
				c.On("Get", "public-reviews:uid-1", mock.Anything).Return(false, nil).Once()
				r.On("ListPublishedReviews", mock.Anything, "uid-1").Return(reviews, nil).Once()
				c.On("Set", "public-reviews:uid-1", reviews, time.Hour).Return(nil).Once()
			},
			want:    reviews,
			wantErr: false,
		},
		{
			name: "cache error falls through to repo",
			setupMocks: func(r *RepoMock, c *CacheMock) {
				c.On("Get", "public-reviews:uid-1", mock.Anything).Return(false, errors.New("redis down")).Once()
				r.On("ListPublishedReviews", mock.Anything, "uid-1").Return(reviews, nil).Once()
				c.On("Set", "public-reviews:uid-1", reviews, time.Hour).Return(nil).Once()
			},
			want:    reviews,
			wantErr: false,
		},
		{
			name: "repo error",
			setupMocks: func(r *RepoMock, c *CacheMock) {
				c.On("Get", "public-reviews:uid-1", mock.Anything).Return(false, nil).Once()
				r.On("ListPublishedReviews", mock.Anything, "uid-1").Return(nil, errors.New("db error")).Once()
			},
			want:    nil,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			cache := new(CacheMock)
			svc := New(repo, cache, newNoopLogger())

			tt.setupMocks(repo, cache)

			got, err := svc.ListPublicReviews(context.Background(), "uid-1")
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}

			repo.AssertExpectations(t)
			cache.AssertExpectations(t)
		})
	}
}

func TestReviewService_SubmitByToken(t *testing.T) {
	order := &models.Order{
		ID:       7,
		OrderID:  "ORD-100",
		UserUID:  "uid-1",
		Reviewed: false,
	}
	seller := &models.User{UUID: "uid-1", Plan: models.PlanBasic}
	four := 4
	req := models.DummyReview{
		CustomerName:    "Anna",
		MainRating:      5,
		LogisticsRating: &four,
		Recommend:       "yes",
		Comment:         "fast delivery",
	}
	saved := &models.Review{ID: 42, OrderID: "ORD-100", UserUID: "uid-1", MainRating: 5}

	tests := []struct {
		name       string
		setupMocks func(r *RepoMock, c *CacheMock)
		wantErr    error
	}{
		{
			name: "success submit",
			setupMocks: func(r *RepoMock, c *CacheMock) {
				r.On("GetOrderByReviewToken", mock.Anything, "tok-1").Return(order, nil).Once()
				r.On("GetUser", mock.Anything, "uid-1").Return(seller, nil).Once()
				r.On("CountReviewsSince", mock.Anything, "uid-1", mock.Anything).Return(3, nil).Once()
				r.On("CreateReview", mock.Anything, mock.MatchedBy(func(e models.Review) bool {
					return e.OrderID == "ORD-100" && e.UserUID == "uid-1" &&
						e.MainRating == 5 && e.IsPublished
				})).Return(42, nil).Once()
				r.On("MarkOrderReviewed", mock.Anything, 7).Return(7, nil).Once()
				c.On("Invalidate", "public-reviews:uid-1").Return(nil).Once()
				r.On("ReadReview", mock.Anything, 42).Return(saved, nil).Once()
			},
			wantErr: nil,
		},
		{
			name: "token already used",
			setupMocks: func(r *RepoMock, _ *CacheMock) {
				used := *order
				used.Reviewed = true
				r.On("GetOrderByReviewToken", mock.Anything, "tok-1").Return(&used, nil).Once()
			},
			wantErr: ErrTokenUsed,
		},
		{
			name: "monthly limit reached",
			setupMocks: func(r *RepoMock, _ *CacheMock) {
				r.On("GetOrderByReviewToken", mock.Anything, "tok-1").Return(order, nil).Once()
				r.On("GetUser", mock.Anything, "uid-1").Return(seller, nil).Once()
				r.On("CountReviewsSince", mock.Anything, "uid-1", mock.Anything).
					Return(models.PlanLimits[models.PlanBasic], nil).Once()
			},
			wantErr: ErrLimitReached,
		},
		{
			name: "unknown token",
			setupMocks: func(r *RepoMock, _ *CacheMock) {
				r.On("GetOrderByReviewToken", mock.Anything, "tok-1").Return(nil, errors.New("not found")).Once()
			},
			wantErr: errors.New("not found"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			cache := new(CacheMock)
			svc := New(repo, cache, newNoopLogger())

			tt.setupMocks(repo, cache)

			got, err := svc.SubmitByToken(context.Background(), "tok-1", req)
			if tt.wantErr != nil {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr.Error())
			} else {
				assert.NoError(t, err)
				assert.Equal(t, saved, got)
			}

			repo.AssertExpectations(t)
			cache.AssertExpectations(t)
		})
	}
}

func TestReviewService_ReplyToNegative(t *testing.T) {
	negative := &models.Review{ID: 1, UserUID: "uid-1", MainRating: 2, Recommend: "no"}
	positive := &models.Review{ID: 2, UserUID: "uid-1", MainRating: 5, Recommend: "yes"}
	answered := &models.Review{ID: 3, UserUID: "uid-1", MainRating: 1, Recommend: "no", Reply: "sorry"}
	updated := &models.Review{ID: 1, UserUID: "uid-1", MainRating: 2, Recommend: "no", Reply: "we apologise"}

	tests := []struct {
		name       string
		reviewID   int
		userUID    string
		setupMocks func(r *RepoMock, c *CacheMock)
		want       *models.Review
		wantErr    error
	}{
		{
			name:     "success reply",
			reviewID: 1,
			userUID:  "uid-1",
			setupMocks: func(r *RepoMock, c *CacheMock) {
				r.On("ReadReview", mock.Anything, 1).Return(negative, nil).Once()
				r.On("SetReviewReply", mock.Anything, 1, "we apologise").Return(updated, nil).Once()
				c.On("Invalidate", "public-reviews:uid-1").Return(nil).Once()
			},
			want:    updated,
			wantErr: nil,
		},
		{
			name:     "positive review not eligible",
			reviewID: 2,
			userUID:  "uid-1",
			setupMocks: func(r *RepoMock, _ *CacheMock) {
				r.On("ReadReview", mock.Anything, 2).Return(positive, nil).Once()
			},
			wantErr: ErrNotEligible,
		},
		{
			name:     "already answered review not eligible",
			reviewID: 3,
			userUID:  "uid-1",
			setupMocks: func(r *RepoMock, _ *CacheMock) {
				r.On("ReadReview", mock.Anything, 3).Return(answered, nil).Once()
			},
			wantErr: ErrNotEligible,
		},
		{
			name:     "foreign review forbidden",
			reviewID: 1,
			userUID:  "uid-2",
			setupMocks: func(r *RepoMock, _ *CacheMock) {
				r.On("ReadReview", mock.Anything, 1).Return(negative, nil).Once()
			},
			wantErr: ErrForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			cache := new(CacheMock)
			svc := New(repo, cache, newNoopLogger())

			tt.setupMocks(repo, cache)

			got, err := svc.ReplyToNegative(context.Background(), tt.userUID, tt.reviewID, "we apologise")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}

			repo.AssertExpectations(t)
			cache.AssertExpectations(t)
		})
	}
}
