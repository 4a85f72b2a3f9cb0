package levelclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// ErrSessionExpired возвращается, когда обновить access-токен не удалось:
// оба токена к этому моменту уже стёрты, сессия стала неаутентифицированной.
var ErrSessionExpired = errors.New("session expired, authorization required")

// refreshState — состояние одноразового обновления токена для одного запроса.
type refreshState int

const (
	stateIdle refreshState = iota
	stateRefreshing
	stateRetried
)

// do выполняет запрос с подстановкой access-токена. На первый 401 делается
// ровно одна попытка обновить токен и ровно один повтор исходного запроса;
// повторный 401 возвращается вызывающему как есть.
func (c *Client) do(ctx context.Context, method, path, contentType string, body []byte) (*http.Response, error) {
	state := stateIdle
	for {
		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		if contentType != "" {
			req.Header.Set("Content-Type", contentType)
		}
		if access := c.tokens.Access(); access != "" {
			req.Header.Set("Authorization", "Bearer "+access)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("do request: %w", err)
		}
		if resp.StatusCode != http.StatusUnauthorized || state == stateRetried {
			return resp, nil
		}
		// Без refresh-токена обновлять нечего: 401 уходит вызывающему как есть,
		// например при неверных учётных данных на логине.
		if c.tokens.Refresh() == "" {
			return resp, nil
		}
		resp.Body.Close()

		state = stateRefreshing
		if err := c.refreshTokens(ctx); err != nil {
			c.forceLogout()
			return nil, err
		}
		state = stateRetried
	}
}

// refreshTokens обменивает сохранённый refresh-токен на новый access-токен.
func (c *Client) refreshTokens(ctx context.Context) error {
	refresh := c.tokens.Refresh()
	if refresh == "" {
		return ErrSessionExpired
	}

	payload, err := json.Marshal(map[string]string{"refresh_token": refresh})
	if err != nil {
		return fmt.Errorf("marshal refresh request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/token/refresh", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build refresh request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSessionExpired, err)
	}

	var data struct {
		AccessToken string `json:"access_token"`
	}
	if err := decodeData(resp, &data); err != nil {
		return fmt.Errorf("%w: %v", ErrSessionExpired, err)
	}
	return c.tokens.SetAccess(data.AccessToken)
}

// forceLogout стирает токены и переводит сессию в неаутентифицированное состояние.
func (c *Client) forceLogout() {
	_ = c.tokens.Clear()
	c.mu.Lock()
	c.profile = nil
	c.authenticated = false
	c.mu.Unlock()
}

// doJSON выполняет запрос с JSON-телом и декодирует поле data из конверта ответа.
func (c *Client) doJSON(ctx context.Context, method, path string, in, out any) error {
	var body []byte
	if in != nil {
		var err error
		body, err = json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
	}
	resp, err := c.do(ctx, method, path, "application/json", body)
	if err != nil {
		return err
	}
	return decodeData(resp, out)
}

// getObject выполняет GET и декодирует тело ответа как объект без конверта.
func (c *Client) getObject(ctx context.Context, path string, out any) error {
	resp, err := c.do(ctx, http.MethodGet, path, "", nil)
	if err != nil {
		return err
	}
	return decodeObject(resp, out)
}
