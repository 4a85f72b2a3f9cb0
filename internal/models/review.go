package models

import (
	"math"
	"time"
)

// Review представляет отзыв покупателя о заказе.
// Дополнительные оценки (логистика, коммуникация, удобство сайта) могут
// отсутствовать, поэтому хранятся указателями.
type Review struct {
	ID                     int       `json:"id"`
	OrderID                string    `json:"order_id"`
	UserUID                string    `json:"-"`
	CustomerName           string    `json:"customer_name"`
	MainRating             int       `json:"main_rating"`
	LogisticsRating        *int      `json:"logistics_rating,omitempty"`
	CommunicationRating    *int      `json:"communication_rating,omitempty"`
	WebsiteUsabilityRating *int      `json:"website_usability_rating,omitempty"`
	Recommend              string    `json:"recommend"` // "yes" или "no"
	Comment                string    `json:"comment"`
	Reply                  string    `json:"reply,omitempty"`
	IsPublished            bool      `json:"is_published"`
	CreatedAt              time.Time `json:"created_at"`
}

// OverallRating считает общую оценку отзыва: среднее арифметическое
// по заполненным полям оценок. Для отзыва без оценок возвращает 0.
func (r *Review) OverallRating() float64 {
	sum := float64(r.MainRating)
	count := 1.0
	for _, extra := range []*int{r.LogisticsRating, r.CommunicationRating, r.WebsiteUsabilityRating} {
		if extra != nil {
			sum += float64(*extra)
			count++
		}
	}
	return sum / count
}

// ReplyEligible сообщает, доступен ли для отзыва ответ продавца.
// Ответить можно только на негативный отзыв (recommend == "no" или
// основная оценка ниже 3) и только один раз.
func (r *Review) ReplyEligible() bool {
	return (r.Recommend == "no" || r.MainRating < 3) && r.Reply == ""
}

// DummyReview используется для приёма отзыва из JSON-запроса по токен-ссылке.
type DummyReview struct {
	CustomerName           string `json:"customer_name" validate:"required"`
	MainRating             int    `json:"main_rating" validate:"required,min=1,max=5"`
	LogisticsRating        *int   `json:"logistics_rating" validate:"omitempty,min=1,max=5"`
	CommunicationRating    *int   `json:"communication_rating" validate:"omitempty,min=1,max=5"`
	WebsiteUsabilityRating *int   `json:"website_usability_rating" validate:"omitempty,min=1,max=5"`
	Recommend              string `json:"recommend" validate:"required,oneof=yes no"`
	Comment                string `json:"comment" validate:"omitempty,max=2000"`
}

// DummyReply используется для приёма ответа продавца на негативный отзыв.
type DummyReply struct {
	Reply string `json:"reply" validate:"required,max=2000"`
}

// Statistics агрегирует витринные показатели по списку отзывов.
type Statistics struct {
	TotalReviews       int     `json:"totalReviews"`
	AverageRating      float64 `json:"averageRating"`      // среднее по main_rating, один знак
	RecommendationRate int     `json:"recommendationRate"` // процент recommend == "yes"
}

// ComputeStatistics считает витринные показатели: средняя основная оценка
// с точностью до одного знака и округлённая доля рекомендаций в процентах.
// Для пустого списка все показатели нулевые.
func ComputeStatistics(reviews []*Review) Statistics {
	stats := Statistics{TotalReviews: len(reviews)}
	if len(reviews) == 0 {
		return stats
	}

	var ratingSum float64
	var recommends int
	for _, r := range reviews {
		ratingSum += float64(r.MainRating)
		if r.Recommend == "yes" {
			recommends++
		}
	}
	stats.AverageRating = math.Round(ratingSum/float64(len(reviews))*10) / 10
	stats.RecommendationRate = int(math.Round(float64(recommends) / float64(len(reviews)) * 100))
	return stats
}
