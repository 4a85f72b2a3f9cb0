package levelclient

import (
	"context"
	"net/http"

	"github.com/level-4u/level-backend/internal/models"
)

// Login обменивает учётные данные на пару токенов и помечает сессию
// аутентифицированной. При отказе сервера токены не меняются,
// а текст ошибки сервера возвращается в APIError.
func (c *Client) Login(ctx context.Context, username, password string) error {
	var data struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
	}
	credentials := map[string]string{"username": username, "password": password}
	if err := c.doJSON(ctx, http.MethodPost, "/api/token", credentials, &data); err != nil {
		return err
	}
	if err := c.tokens.SetTokens(data.AccessToken, data.RefreshToken); err != nil {
		return err
	}

	c.mu.Lock()
	c.authenticated = true
	c.mu.Unlock()
	return nil
}

// Signup регистрирует нового пользователя и возвращает его UID.
// Состояние сессии не меняется: войти нужно отдельным вызовом Login.
func (c *Client) Signup(ctx context.Context, req models.DummySignup) (string, error) {
	var data struct {
		UID string `json:"uid"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/api/users/signup", req, &data); err != nil {
		return "", err
	}
	return data.UID, nil
}

// Logout синхронно стирает токены и сессионное состояние, без обращения к серверу.
func (c *Client) Logout() {
	c.forceLogout()
}

// Restore восстанавливает сессию после перезапуска: если в хранилище
// остался access-токен, загружает профиль. Без токена ничего не делает.
func (c *Client) Restore(ctx context.Context) error {
	if c.tokens.Access() == "" {
		return nil
	}
	_, err := c.FetchProfile(ctx)
	return err
}

// FetchProfile загружает профиль текущего пользователя и сохраняет его в сессии.
func (c *Client) FetchProfile(ctx context.Context) (*models.Profile, error) {
	var data struct {
		Profile *models.Profile `json:"profile"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/api/users/profile", nil, &data); err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.profile = data.Profile
	c.authenticated = true
	c.mu.Unlock()
	return data.Profile, nil
}

// UpdateProfile изменяет профиль и сохраняет представление, возвращённое сервером.
func (c *Client) UpdateProfile(ctx context.Context, req models.DummyProfileUpdate) (*models.Profile, error) {
	var data struct {
		Profile *models.Profile `json:"profile"`
	}
	if err := c.doJSON(ctx, http.MethodPut, "/api/users/profile", req, &data); err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.profile = data.Profile
	c.mu.Unlock()
	return data.Profile, nil
}

// IsAuthenticated сообщает, аутентифицирована ли сессия.
func (c *Client) IsAuthenticated() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.authenticated
}

// Profile возвращает профиль, сохранённый последним успешным запросом,
// либо nil, если профиль ещё не загружался.
func (c *Client) Profile() *models.Profile {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.profile
}
