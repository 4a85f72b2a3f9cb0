// Package auth содержит логику бизнес-уровня для регистрации, авторизации
// и обновления пары JWT токенов.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/level-4u/level-backend/internal/lib/jwt"
	"github.com/level-4u/level-backend/internal/lib/password"
	"github.com/level-4u/level-backend/internal/models"
)

// Продолжительность пробного периода после регистрации.
const trialDuration = 30 * 24 * time.Hour

// ErrInvalidCredentials возвращается при неверной паре логин/пароль.
var ErrInvalidCredentials = errors.New("invalid credentials")

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	// RegisterUser сохраняет нового пользователя и возвращает его UID.
	RegisterUser(ctx context.Context, user models.User) (string, error)

	// GetUserByUsername возвращает пользователя по имени или ошибку, если не найден.
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)

	// GetUser возвращает пользователя по его UID.
	GetUser(ctx context.Context, userUID string) (*models.User, error)
}

// AuthService отвечает за регистрацию, авторизацию и валидацию JWT.
type AuthService struct {
	users    UserRepository
	jwtMaker jwt.Maker
}

// NewAuthService создает новый экземпляр AuthService.
func NewAuthService(users UserRepository, jwtMaker jwt.Maker) *AuthService {
	return &AuthService{
		users:    users,
		jwtMaker: jwtMaker,
	}
}

// Register создает нового пользователя с хэшированием пароля, выбранным
// тарифом и пробным периодом. Сессия при этом не создаётся: после
// регистрации пользователь входит отдельно.
func (s *AuthService) Register(ctx context.Context, req models.DummySignup) (string, error) {
	const op = "services.auth.Register"

	hashed, err := password.GetHash(req.Password)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	var dateOfBirth *time.Time
	if req.DateOfBirth != "" {
		parsed, err := time.Parse("2006-01-02", req.DateOfBirth)
		if err != nil {
			return "", fmt.Errorf("%s: invalid date of birth: %w", op, err)
		}
		dateOfBirth = &parsed
	}

	trialEndDate := time.Now().UTC().Add(trialDuration)
	user := models.User{
		Email:         req.Email,
		Username:      req.Username,
		PasswordHash:  hashed,
		Role:          "user", // дефолтная роль при регистрации
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		BusinessName:  req.BusinessName,
		WebsiteURL:    req.WebsiteURL,
		ContactNumber: req.ContactNumber,
		DateOfBirth:   dateOfBirth,
		Country:       req.Country,
		Plan:          req.Plan,
		TrialEndDate:  &trialEndDate,
	}
	return s.users.RegisterUser(ctx, user)
}

// Login проверяет пароль пользователя и генерирует пару токенов (access + refresh).
func (s *AuthService) Login(ctx context.Context, username, rawPassword string) (access, refresh string, err error) {
	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		return "", "", ErrInvalidCredentials
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return "", "", ErrInvalidCredentials
	}
	access, err = s.jwtMaker.GenerateToken(user.Username, user.Role, user.UUID)
	if err != nil {
		return "", "", err
	}
	refresh, err = s.jwtMaker.GenerateRefreshToken(user.Username, user.Role, user.UUID)
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

// Refresh обменивает действительный refresh токен на новый access токен.
func (s *AuthService) Refresh(_ context.Context, refreshToken string) (string, error) {
	const op = "services.auth.Refresh"
	claims, err := s.jwtMaker.ParseRefreshToken(refreshToken)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return s.jwtMaker.GenerateToken(claims.Username, claims.Role, claims.UserUID)
}

// ValidateToken проверяет access токен и возвращает информацию о пользователе.
func (s *AuthService) ValidateToken(_ context.Context, token string) (*models.User, error) {
	claims, err := s.jwtMaker.ParseToken(token)
	if err != nil {
		return nil, err
	}
	return &models.User{
		Username: claims.Username,
		Role:     claims.Role,
		UUID:     claims.UserUID,
	}, nil
}
