package plan

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/level-4u/level-backend/internal/models"
)

type RepoMock struct {
	mock.Mock
}

func (m *RepoMock) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	args := m.Called(ctx, userUID)
	if user := args.Get(0); user != nil {
		return user.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *RepoMock) CountReviewsSince(ctx context.Context, userUID string, since time.Time) (int, error) {
	args := m.Called(ctx, userUID, since)
	return args.Int(0), args.Error(1)
}

type CacheMock struct {
	mock.Mock
}

func (m *CacheMock) Get(key string, result any) (bool, error) {
	args := m.Called(key, result)
	return args.Bool(0), args.Error(1)
}

func (m *CacheMock) Set(key string, value any, expiration time.Duration) error {
	args := m.Called(key, value, expiration)
	return args.Error(0)
}

func (m *CacheMock) Invalidate(key string) error {
	args := m.Called(key)
	return args.Error(0)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestPlanService_GetPlanInfo(t *testing.T) {
	trialEnd := time.Now().UTC().AddDate(0, 0, 10)
	expiredTrial := time.Now().UTC().AddDate(0, 0, -5)
	activeExpiry := time.Now().UTC().AddDate(0, 1, 0)
	pastExpiry := time.Now().UTC().AddDate(0, -1, 0)

	cases := []struct {
		name         string
		user         *models.User
		monthlyCount int
		want         func(t *testing.T, info *models.PlanInfo)
	}{
		{
			name:         "active standard plan",
			user:         &models.User{UUID: "uid-1", Plan: models.PlanStandard, PlanExpiry: &activeExpiry},
			monthlyCount: 12,
			want: func(t *testing.T, info *models.PlanInfo) {
				assert.Equal(t, models.PlanStandard, info.Plan)
				assert.Equal(t, 12, info.MonthlyCount)
				assert.Equal(t, 500, info.Limit)
				assert.Equal(t, 488, info.Remaining)
				assert.False(t, info.LimitReached)
				assert.False(t, info.PlanExpired)
				assert.False(t, info.UpgradeRequired())
				assert.Contains(t, info.Message, "12 of 500")
			},
		},
		{
			name:         "trial keeps plan from expiring",
			user:         &models.User{UUID: "uid-1", Plan: models.PlanBasic, TrialEndDate: &trialEnd},
			monthlyCount: 0,
			want: func(t *testing.T, info *models.PlanInfo) {
				assert.True(t, info.Trial)
				assert.False(t, info.PlanExpired)
				assert.False(t, info.UpgradeRequired())
				assert.Contains(t, info.Message, "Trial period")
			},
		},
		{
			name:         "expired plan after trial prompts an upgrade",
			user:         &models.User{UUID: "uid-1", Plan: models.PlanStandard, PlanExpiry: &pastExpiry, TrialEndDate: &expiredTrial},
			monthlyCount: 3,
			want: func(t *testing.T, info *models.PlanInfo) {
				assert.True(t, info.PlanExpired)
				assert.False(t, info.Trial)
				assert.True(t, info.UpgradeRequired())
				assert.Contains(t, info.Message, "expired")
			},
		},
		{
			name:         "monthly limit reached",
			user:         &models.User{UUID: "uid-1", Plan: models.PlanBasic, PlanExpiry: &activeExpiry},
			monthlyCount: 50,
			want: func(t *testing.T, info *models.PlanInfo) {
				assert.True(t, info.LimitReached)
				assert.Equal(t, 0, info.Remaining)
				assert.Contains(t, info.Message, "limit of 50")
			},
		},
		{
			name:         "count above the limit does not go negative",
			user:         &models.User{UUID: "uid-1", Plan: models.PlanBasic, PlanExpiry: &activeExpiry},
			monthlyCount: 60,
			want: func(t *testing.T, info *models.PlanInfo) {
				assert.True(t, info.LimitReached)
				assert.Equal(t, 0, info.Remaining)
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := new(RepoMock)
			cache := new(CacheMock)
			cache.On("Get", "planinfo:uid-1", mock.Anything).Return(false, nil)
			cache.On("Set", "planinfo:uid-1", mock.Anything, time.Minute).Return(nil)
			repo.On("GetUser", mock.Anything, "uid-1").Return(tc.user, nil)
			repo.On("CountReviewsSince", mock.Anything, "uid-1", mock.MatchedBy(func(since time.Time) bool {
				return since.Day() == 1 && since.Hour() == 0
			})).Return(tc.monthlyCount, nil)

			service := New(repo, cache, newNoopLogger())

			info, err := service.GetPlanInfo(context.Background(), "uid-1")

			require.NoError(t, err)
			tc.want(t, info)
			repo.AssertExpectations(t)
		})
	}
}

func TestPlanService_GetPlanInfo_CacheHit(t *testing.T) {
	repo := new(RepoMock)
	cache := new(CacheMock)
	cache.On("Get", "planinfo:uid-1", mock.Anything).Run(func(args mock.Arguments) {
		info := args.Get(1).(*models.PlanInfo)
		*info = models.PlanInfo{Plan: models.PlanPro, Limit: 2000, Remaining: 1990}
	}).Return(true, nil)

	service := New(repo, cache, newNoopLogger())

	info, err := service.GetPlanInfo(context.Background(), "uid-1")

	require.NoError(t, err)
	assert.Equal(t, models.PlanPro, info.Plan)
	repo.AssertNotCalled(t, "GetUser", mock.Anything, mock.Anything)
}

func TestPlanService_GetPlanInfo_RepoError(t *testing.T) {
	repo := new(RepoMock)
	cache := new(CacheMock)
	cache.On("Get", "planinfo:uid-1", mock.Anything).Return(false, nil)
	repo.On("GetUser", mock.Anything, "uid-1").Return(nil, assert.AnError)

	service := New(repo, cache, newNoopLogger())

	_, err := service.GetPlanInfo(context.Background(), "uid-1")

	require.Error(t, err)
}

func TestPlanService_InvalidatePlanInfo(t *testing.T) {
	cache := new(CacheMock)
	cache.On("Invalidate", "planinfo:uid-1").Return(nil)

	service := New(new(RepoMock), cache, newNoopLogger())

	service.InvalidatePlanInfo("uid-1")

	cache.AssertExpectations(t)
}
