package levelclient

import (
	"encoding/json"
	"os"
	"sync"
)

// TokenStore хранит пару токенов клиента. Access-токен читается перед каждым
// запросом, записывается только логином, обновлением и выходом.
type TokenStore interface {
	Access() string
	Refresh() string
	SetTokens(access, refresh string) error
	SetAccess(access string) error
	Clear() error
}

// MemoryTokenStore хранит токены в памяти процесса.
type MemoryTokenStore struct {
	mu      sync.RWMutex
	access  string
	refresh string
}

// NewMemoryTokenStore создает новый экземпляр MemoryTokenStore.
func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{}
}

// Access возвращает сохранённый access-токен.
func (s *MemoryTokenStore) Access() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.access
}

// Refresh возвращает сохранённый refresh-токен.
func (s *MemoryTokenStore) Refresh() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refresh
}

// SetTokens сохраняет новую пару токенов.
func (s *MemoryTokenStore) SetTokens(access, refresh string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.access = access
	s.refresh = refresh
	return nil
}

// SetAccess заменяет только access-токен, refresh остаётся прежним.
func (s *MemoryTokenStore) SetAccess(access string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.access = access
	return nil
}

// Clear удаляет оба токена.
func (s *MemoryTokenStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.access = ""
	s.refresh = ""
	return nil
}

// FileTokenStore хранит токены в JSON-файле под фиксированными ключами
// access_token и refresh_token, переживая перезапуск процесса.
type FileTokenStore struct {
	mu   sync.Mutex
	path string
}

type storedTokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// NewFileTokenStore создает хранилище токенов по указанному пути.
func NewFileTokenStore(path string) *FileTokenStore {
	return &FileTokenStore{path: path}
}

func (s *FileTokenStore) load() storedTokens {
	var tokens storedTokens
	data, err := os.ReadFile(s.path)
	if err != nil {
		return tokens
	}
	_ = json.Unmarshal(data, &tokens)
	return tokens
}

func (s *FileTokenStore) save(tokens storedTokens) error {
	data, err := json.Marshal(tokens)
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o600)
}

// Access возвращает сохранённый access-токен.
func (s *FileTokenStore) Access() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load().AccessToken
}

// Refresh возвращает сохранённый refresh-токен.
func (s *FileTokenStore) Refresh() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load().RefreshToken
}

// SetTokens сохраняет новую пару токенов.
func (s *FileTokenStore) SetTokens(access, refresh string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(storedTokens{AccessToken: access, RefreshToken: refresh})
}

// SetAccess заменяет только access-токен, refresh остаётся прежним.
func (s *FileTokenStore) SetAccess(access string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	tokens := s.load()
	tokens.AccessToken = access
	return s.save(tokens)
}

// Clear удаляет файл с токенами.
func (s *FileTokenStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := os.Remove(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
