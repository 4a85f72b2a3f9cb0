package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/level-4u/level-backend/internal/models"
)

const userColumns = `uid, email, username, password_hash, role, first_name, last_name,
			      business_name, website_url, contact_number, date_of_birth, country,
			      plan, plan_expiry, trial_end_date, created_at`

// RegisterUser сохраняет нового пользователя в базу данных и возвращает его UID.
func (s *Storage) RegisterUser(ctx context.Context, user models.User) (string, error) {
	const op = "storage.RegisterUser"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newID string
	query := `INSERT INTO users (email, username, password_hash, role, first_name, last_name,
			      business_name, website_url, contact_number, date_of_birth, country,
			      plan, trial_end_date)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
			  RETURNING uid;`
	if err := s.DB.QueryRowContext(ctx, query,
		user.Email, user.Username, user.PasswordHash, user.Role, user.FirstName,
		user.LastName, user.BusinessName, user.WebsiteURL, user.ContactNumber,
		user.DateOfBirth, user.Country, user.Plan, user.TrialEndDate).Scan(&newID); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetUserByUsername возвращает пользователя по его username.
func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	const op = "storage.GetUserByUsername"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userColumns + `
			  FROM users
			  WHERE username = $1`
	return s.scanUser(s.DB.QueryRowContext(ctx, query, username), op)
}

// GetUser возвращает пользователя по его UID.
func (s *Storage) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	const op = "storage.GetUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userColumns + `
			  FROM users
			  WHERE uid = $1`
	return s.scanUser(s.DB.QueryRowContext(ctx, query, userUID), op)
}

func (s *Storage) scanUser(row *sql.Row, op string) (*models.User, error) {
	u := &models.User{}
	var dateOfBirth, planExpiry, trialEndDate sql.NullTime
	if err := row.Scan(&u.UUID, &u.Email, &u.Username, &u.PasswordHash, &u.Role,
		&u.FirstName, &u.LastName, &u.BusinessName, &u.WebsiteURL, &u.ContactNumber,
		&dateOfBirth, &u.Country, &u.Plan, &planExpiry, &trialEndDate, &u.CreatedAt); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if dateOfBirth.Valid {
		u.DateOfBirth = &dateOfBirth.Time
	}
	if planExpiry.Valid {
		u.PlanExpiry = &planExpiry.Time
	}
	if trialEndDate.Valid {
		u.TrialEndDate = &trialEndDate.Time
	}
	return u, nil
}

// UpdateProfile обновляет изменяемые поля профиля и возвращает число строк.
func (s *Storage) UpdateProfile(ctx context.Context, userUID string, req models.DummyProfileUpdate) (int, error) {
	const op = "storage.UpdateProfile"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET first_name = $1, last_name = $2, business_name = $3,
			      website_url = $4, contact_number = $5, country = $6
			  WHERE uid = $7`
	result, err := s.DB.ExecContext(ctx, query,
		req.FirstName, req.LastName, req.BusinessName,
		req.WebsiteURL, req.ContactNumber, req.Country, userUID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// UpdateUserPlan фиксирует оплату тарифа: тариф и дата его истечения.
func (s *Storage) UpdateUserPlan(ctx context.Context, userUID, plan string, planExpiry time.Time) (int, error) {
	const op = "storage.UpdateUserPlan"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET plan = $1, plan_expiry = $2
			  WHERE uid = $3`
	result, err := s.DB.ExecContext(ctx, query, plan, planExpiry, userUID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}
