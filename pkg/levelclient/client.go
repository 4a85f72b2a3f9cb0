// Package levelclient реализует Go-клиент HTTP API платформы Level:
// авторизацию с одноразовым обновлением токенов, работу с отзывами,
// загрузку заказов и оплату тарифов.
package levelclient

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/level-4u/level-backend/internal/models"
)

const (
	defaultTimeout  = 30 * time.Second
	maxResponseSize = 10 << 20
)

// Client выполняет запросы к API от имени одного пользователя.
// Сессионное состояние (профиль, флаг аутентификации) хранится в клиенте,
// токены — в подключённом TokenStore.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenStore

	mu            sync.RWMutex
	profile       *models.Profile
	authenticated bool
}

// Option настраивает создаваемый Client.
type Option func(*Client)

// WithHTTPClient задает используемый http.Client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithTokenStore задает хранилище токенов вместо хранилища в памяти.
func WithTokenStore(tokens TokenStore) Option {
	return func(c *Client) {
		c.tokens = tokens
	}
}

// New создает новый экземпляр Client для указанного базового адреса API.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
		tokens:     NewMemoryTokenStore(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// APIError описывает ошибку, возвращённую сервером: HTTP-код и сообщение
// из тела ответа либо запасной текст, если тело не разобралось.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// envelope — стандартный конверт ответов сервера {status, error, data}.
type envelope struct {
	Status string          `json:"status"`
	Error  string          `json:"error"`
	Data   json.RawMessage `json:"data"`
}

func readBody(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()
	return io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
}

// decodeData разбирает ответ в конверте и декодирует поле data в out.
func decodeData(resp *http.Response, out any) error {
	body, err := readBody(resp)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	var env envelope
	if unmarshalErr := json.Unmarshal(body, &env); unmarshalErr != nil || resp.StatusCode >= http.StatusBadRequest {
		msg := env.Error
		if msg == "" {
			msg = "request failed"
		}
		if resp.StatusCode >= http.StatusBadRequest {
			return &APIError{StatusCode: resp.StatusCode, Message: msg}
		}
		return fmt.Errorf("decode response: %w", unmarshalErr)
	}
	if env.Status == "Error" {
		msg := env.Error
		if msg == "" {
			msg = "request failed"
		}
		return &APIError{StatusCode: resp.StatusCode, Message: msg}
	}
	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode response data: %w", err)
	}
	return nil
}

// decodeObject разбирает ответ, тело которого — сам объект без конверта.
// Конечные точки сводки тарифа и биллинга отвечают именно так.
func decodeObject(resp *http.Response, out any) error {
	body, err := readBody(resp)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		var env envelope
		_ = json.Unmarshal(body, &env)
		msg := env.Error
		if msg == "" {
			msg = "request failed"
		}
		return &APIError{StatusCode: resp.StatusCode, Message: msg}
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
