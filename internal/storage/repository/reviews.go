package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/level-4u/level-backend/internal/models"
)

const reviewColumns = `id, order_id, user_uid, customer_name, main_rating, logistics_rating,
			      communication_rating, website_usability_rating, recommend, comment,
			      reply, is_published, created_at`

// CreateReview вставляет новый отзыв и возвращает его ID.
func (s *Storage) CreateReview(ctx context.Context, review models.Review) (int, error) {
	const op = "storage.CreateReview"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO reviews (order_id, user_uid, customer_name, main_rating,
			      logistics_rating, communication_rating, website_usability_rating,
			      recommend, comment, is_published)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			  RETURNING id`
	var newID int
	err := s.DB.QueryRowContext(ctx, query,
		review.OrderID, review.UserUID, review.CustomerName, review.MainRating,
		review.LogisticsRating, review.CommunicationRating, review.WebsiteUsabilityRating,
		review.Recommend, review.Comment, review.IsPublished).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ReadReview возвращает отзыв по его ID.
func (s *Storage) ReadReview(ctx context.Context, id int) (*models.Review, error) {
	const op = "storage.ReadReview"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + reviewColumns + ` FROM reviews WHERE id = $1`
	return scanReview(s.DB.QueryRowContext(ctx, query, id), op)
}

// ListReviews возвращает все отзывы продавца, новые первыми.
func (s *Storage) ListReviews(ctx context.Context, userUID string) ([]*models.Review, error) {
	const op = "storage.ListReviews"
	return s.listReviews(ctx, op,
		`SELECT `+reviewColumns+`
		 FROM reviews
		 WHERE user_uid = $1
		 ORDER BY created_at DESC`, userUID)
}

// ListPublishedReviews возвращает опубликованные отзывы продавца для витрины.
func (s *Storage) ListPublishedReviews(ctx context.Context, userUID string) ([]*models.Review, error) {
	const op = "storage.ListPublishedReviews"
	return s.listReviews(ctx, op,
		`SELECT `+reviewColumns+`
		 FROM reviews
		 WHERE user_uid = $1 AND is_published = TRUE
		 ORDER BY created_at DESC`, userUID)
}

func (s *Storage) listReviews(ctx context.Context, op, query string, args ...any) ([]*models.Review, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = rows.Close() }()

	var result []*models.Review
	for rows.Next() {
		item, err := scanReviewRows(rows, op)
		if err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// SetReviewReply записывает ответ продавца и возвращает обновлённый отзыв.
func (s *Storage) SetReviewReply(ctx context.Context, id int, reply string) (*models.Review, error) {
	const op = "storage.SetReviewReply"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE reviews
			  SET reply = $1
			  WHERE id = $2
			  RETURNING ` + reviewColumns
	return scanReview(s.DB.QueryRowContext(ctx, query, reply, id), op)
}

// CountReviewsSince подсчитывает отзывы продавца с указанного момента.
// Используется для контроля месячного лимита тарифа.
func (s *Storage) CountReviewsSince(ctx context.Context, userUID string, since time.Time) (int, error) {
	const op = "storage.CountReviewsSince"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var count int
	query := `SELECT COUNT(*) FROM reviews WHERE user_uid = $1 AND created_at >= $2`
	if err := s.DB.QueryRowContext(ctx, query, userUID, since).Scan(&count); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReview(row rowScanner, op string) (*models.Review, error) {
	item := &models.Review{}
	var logistics, communication, website sql.NullInt64
	var reply sql.NullString
	if err := row.Scan(&item.ID, &item.OrderID, &item.UserUID, &item.CustomerName,
		&item.MainRating, &logistics, &communication, &website, &item.Recommend,
		&item.Comment, &reply, &item.IsPublished, &item.CreatedAt); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if logistics.Valid {
		v := int(logistics.Int64)
		item.LogisticsRating = &v
	}
	if communication.Valid {
		v := int(communication.Int64)
		item.CommunicationRating = &v
	}
	if website.Valid {
		v := int(website.Int64)
		item.WebsiteUsabilityRating = &v
	}
	if reply.Valid {
		item.Reply = reply.String
	}
	return item, nil
}

func scanReviewRows(rows *sql.Rows, op string) (*models.Review, error) {
	return scanReview(rows, op)
}
