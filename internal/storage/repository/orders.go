package repository

import (
	"context"
	"fmt"

	"github.com/level-4u/level-backend/internal/models"
)

// CreateOrder вставляет заказ с токеном для отзыва и возвращает его ID.
func (s *Storage) CreateOrder(ctx context.Context, order models.Order) (int, error) {
	const op = "storage.CreateOrder"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO orders (order_id, user_uid, customer_name, customer_email, review_token)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING id`
	var newID int
	err := s.DB.QueryRowContext(ctx, query,
		order.OrderID, order.UserUID, order.CustomerName, order.CustomerEmail,
		order.ReviewToken).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetOrderByReviewToken возвращает заказ по токену ссылки на отзыв.
func (s *Storage) GetOrderByReviewToken(ctx context.Context, token string) (*models.Order, error) {
	const op = "storage.GetOrderByReviewToken"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, order_id, user_uid, customer_name, customer_email,
			      review_token, reviewed, created_at
			  FROM orders
			  WHERE review_token = $1`
	order := &models.Order{}
	row := s.DB.QueryRowContext(ctx, query, token)
	if err := row.Scan(&order.ID, &order.OrderID, &order.UserUID, &order.CustomerName,
		&order.CustomerEmail, &order.ReviewToken, &order.Reviewed, &order.CreatedAt); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return order, nil
}

// MarkOrderReviewed помечает токен заказа использованным.
func (s *Storage) MarkOrderReviewed(ctx context.Context, id int) (int, error) {
	const op = "storage.MarkOrderReviewed"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	result, err := s.DB.ExecContext(ctx,
		`UPDATE orders SET reviewed = TRUE WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}
