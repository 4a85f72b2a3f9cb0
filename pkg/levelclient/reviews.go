package levelclient

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/level-4u/level-backend/internal/models"
)

// PageSize — размер страницы при клиентской пагинации списка отзывов.
const PageSize = 10

// FetchMyReviews загружает все отзывы текущего пользователя. Список
// фильтруется и разбивается на страницы на стороне клиента.
func (c *Client) FetchMyReviews(ctx context.Context) ([]*models.Review, error) {
	var data struct {
		Reviews []*models.Review `json:"reviews"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/api/reviews/my-reviews", nil, &data); err != nil {
		return nil, err
	}
	return data.Reviews, nil
}

// FetchPublicReviews загружает публичную витрину продавца вместе со сводными
// показателями. Авторизация не требуется.
func (c *Client) FetchPublicReviews(ctx context.Context, userID string) ([]*models.Review, models.Statistics, error) {
	var data struct {
		Reviews    []*models.Review  `json:"reviews"`
		Statistics models.Statistics `json:"statistics"`
	}
	path := "/api/reviews/public-reviews/" + userID
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &data); err != nil {
		return nil, models.Statistics{}, err
	}
	return data.Reviews, data.Statistics, nil
}

// SubmitReview отправляет отзыв покупателя по одноразовой токен-ссылке.
func (c *Client) SubmitReview(ctx context.Context, token string, review models.DummyReview) (*models.Review, error) {
	var data struct {
		Review *models.Review `json:"review"`
	}
	path := "/api/reviews/review/" + token
	if err := c.doJSON(ctx, http.MethodPost, path, review, &data); err != nil {
		return nil, err
	}
	return data.Review, nil
}

// Reply отправляет ответ продавца на негативный отзыв и возвращает
// представление отзыва с сервера.
func (c *Client) Reply(ctx context.Context, reviewID int, reply string) (*models.Review, error) {
	var data struct {
		Review *models.Review `json:"review"`
	}
	path := fmt.Sprintf("/api/reviews/reply-to-negative/%d", reviewID)
	if err := c.doJSON(ctx, http.MethodPost, path, models.DummyReply{Reply: reply}, &data); err != nil {
		return nil, err
	}
	return data.Review, nil
}

// Filter задает условия отбора отзывов. Нулевые значения означают
// отсутствие соответствующего условия; Recommend "all" эквивалентен пустому.
type Filter struct {
	Search    string
	Recommend string
	From      time.Time
	To        time.Time
}

// Match проверяет отзыв на соответствие фильтру: подстрока без учёта
// регистра по имени покупателя и комментарию, точное совпадение recommend
// и включительные границы дат.
func (f Filter) Match(r *models.Review) bool {
	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(r.CustomerName), needle) &&
			!strings.Contains(strings.ToLower(r.Comment), needle) {
			return false
		}
	}
	if f.Recommend != "" && f.Recommend != "all" && r.Recommend != f.Recommend {
		return false
	}
	if !f.From.IsZero() && r.CreatedAt.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && r.CreatedAt.After(f.To) {
		return false
	}
	return true
}

// ApplyFilter возвращает отзывы, прошедшие фильтр, сохраняя порядок.
func ApplyFilter(reviews []*models.Review, f Filter) []*models.Review {
	var result []*models.Review
	for _, r := range reviews {
		if f.Match(r) {
			result = append(result, r)
		}
	}
	return result
}

// ReviewList держит полный список отзывов сессии и применяет к нему
// фильтрацию и постраничную навигацию. Смена фильтра возвращает на
// первую страницу.
type ReviewList struct {
	all      []*models.Review
	filtered []*models.Review
	filter   Filter
	page     int
}

// NewReviewList создает список с пустым фильтром на первой странице.
func NewReviewList(reviews []*models.Review) *ReviewList {
	l := &ReviewList{all: reviews, page: 1}
	l.filtered = ApplyFilter(reviews, l.filter)
	return l
}

// SetFilter применяет новый фильтр и сбрасывает страницу на первую.
func (l *ReviewList) SetFilter(f Filter) {
	l.filter = f
	l.filtered = ApplyFilter(l.all, f)
	l.page = 1
}

// TotalPages возвращает число страниц; для пустой выборки — 1.
func (l *ReviewList) TotalPages() int {
	if len(l.filtered) == 0 {
		return 1
	}
	return (len(l.filtered) + PageSize - 1) / PageSize
}

// PageNumber возвращает номер текущей страницы, считая с 1.
func (l *ReviewList) PageNumber() int {
	return l.page
}

// SetPage переходит на указанную страницу, ограничивая номер допустимым диапазоном.
func (l *ReviewList) SetPage(page int) {
	if page < 1 {
		page = 1
	}
	if max := l.TotalPages(); page > max {
		page = max
	}
	l.page = page
}

// Page возвращает отзывы текущей страницы.
func (l *ReviewList) Page() []*models.Review {
	start := (l.page - 1) * PageSize
	if start >= len(l.filtered) {
		return nil
	}
	end := start + PageSize
	if end > len(l.filtered) {
		end = len(l.filtered)
	}
	return l.filtered[start:end]
}

// ReplaceByID заменяет отзыв с тем же идентификатором представлением
// с сервера, например после отправки ответа продавца.
func (l *ReviewList) ReplaceByID(updated *models.Review) {
	if updated == nil {
		return
	}
	for i, r := range l.all {
		if r.ID == updated.ID {
			l.all[i] = updated
			break
		}
	}
	for i, r := range l.filtered {
		if r.ID == updated.ID {
			l.filtered[i] = updated
			break
		}
	}
}
