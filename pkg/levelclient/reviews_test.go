package levelclient

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/level-4u/level-backend/internal/models"
)

func TestFilter_Match(t *testing.T) {
	createdAt := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	review := newReview(1, "Maria Lopez", "Great shop, fast delivery", "yes", 5, createdAt)

	cases := []struct {
		name   string
		filter Filter
		want   bool
	}{
		{"empty filter matches everything", Filter{}, true},
		{"substring of customer name, case-insensitive", Filter{Search: "maria"}, true},
		{"substring of comment", Filter{Search: "FAST DELIVERY"}, true},
		{"no substring match", Filter{Search: "refund"}, false},
		{"recommend exact match", Filter{Recommend: "yes"}, true},
		{"recommend mismatch", Filter{Recommend: "no"}, false},
		{"recommend all passes any value", Filter{Recommend: "all"}, true},
		{"from bound inclusive", Filter{From: createdAt}, true},
		{"to bound inclusive", Filter{To: createdAt}, true},
		{"created before from bound", Filter{From: createdAt.Add(time.Hour)}, false},
		{"created after to bound", Filter{To: createdAt.Add(-time.Hour)}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.filter.Match(review))
		})
	}
}

func TestApplyFilter_Idempotent(t *testing.T) {
	createdAt := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	reviews := []*models.Review{
		newReview(1, "Maria", "great", "yes", 5, createdAt),
		newReview(2, "John", "broken package", "no", 2, createdAt),
		newReview(3, "Anna", "great service", "yes", 4, createdAt),
	}
	filter := Filter{Search: "great"}

	once := ApplyFilter(reviews, filter)
	twice := ApplyFilter(once, filter)

	assert.Equal(t, once, twice)
	assert.Len(t, once, 2)
}

func TestReviewList_Pagination(t *testing.T) {
	createdAt := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	var reviews []*models.Review
	for i := 1; i <= 25; i++ {
		recommend := "yes"
		if i%2 == 0 {
			recommend = "no"
		}
		reviews = append(reviews, newReview(i, fmt.Sprintf("Customer %d", i), "comment", recommend, 4, createdAt))
	}

	list := NewReviewList(reviews)

	assert.Equal(t, 3, list.TotalPages())
	assert.Equal(t, 1, list.PageNumber())
	assert.Len(t, list.Page(), PageSize)

	list.SetPage(3)
	assert.Equal(t, 3, list.PageNumber())
	assert.Len(t, list.Page(), 5)

	list.SetPage(99)
	assert.Equal(t, 3, list.PageNumber(), "page number is clamped to the last page")

	list.SetPage(0)
	assert.Equal(t, 1, list.PageNumber(), "page number is clamped to the first page")
}

func TestReviewList_FilterResetsPage(t *testing.T) {
	createdAt := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	var reviews []*models.Review
	for i := 1; i <= 25; i++ {
		reviews = append(reviews, newReview(i, fmt.Sprintf("Customer %d", i), "comment", "yes", 4, createdAt))
	}

	list := NewReviewList(reviews)
	list.SetPage(3)
	require.Equal(t, 3, list.PageNumber())

	list.SetFilter(Filter{Recommend: "yes"})

	assert.Equal(t, 1, list.PageNumber())
}

func TestReviewList_EmptySelection(t *testing.T) {
	list := NewReviewList(nil)

	assert.Equal(t, 1, list.TotalPages())
	assert.Equal(t, 1, list.PageNumber())
	assert.Empty(t, list.Page())
}

func TestReviewList_ReplaceByID(t *testing.T) {
	createdAt := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	reviews := []*models.Review{
		newReview(1, "Maria", "broken package", "no", 2, createdAt),
		newReview(2, "John", "all good", "yes", 5, createdAt),
	}

	list := NewReviewList(reviews)

	updated := newReview(1, "Maria", "broken package", "no", 2, createdAt)
	updated.Reply = "We are sorry, a replacement is on the way"
	list.ReplaceByID(updated)

	page := list.Page()
	require.Len(t, page, 2)
	assert.Equal(t, "We are sorry, a replacement is on the way", page[0].Reply)
	assert.False(t, page[0].ReplyEligible(), "a replied review loses reply eligibility")
}

func TestClient_Reply(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/reviews/reply-to-negative/7", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		writeJSON(w, http.StatusOK, `{"status":"OK","data":{"review":{"id":7,"main_rating":2,"recommend":"no","reply":"thanks for the feedback"}}}`)
	})

	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := New(srv.URL)
	require.NoError(t, client.tokens.SetTokens("access-1", "refresh-1"))

	review, err := client.Reply(context.Background(), 7, "thanks for the feedback")

	require.NoError(t, err)
	require.NotNil(t, review)
	assert.Equal(t, 7, review.ID)
	assert.Equal(t, "thanks for the feedback", review.Reply)
}

func TestClient_FetchPublicReviews(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/reviews/public-reviews/uid-1", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, `{"status":"OK","data":{"reviews":[{"id":1,"main_rating":5,"recommend":"yes"},{"id":2,"main_rating":4,"recommend":"no"}],"statistics":{"totalReviews":2,"averageRating":4.5,"recommendationRate":50}}}`)
	})

	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := New(srv.URL)

	reviews, stats, err := client.FetchPublicReviews(context.Background(), "uid-1")

	require.NoError(t, err)
	assert.Len(t, reviews, 2)
	assert.Equal(t, 2, stats.TotalReviews)
	assert.InDelta(t, 4.5, stats.AverageRating, 0.001)
	assert.Equal(t, 50, stats.RecommendationRate)
}
