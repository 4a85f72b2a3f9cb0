// Package jwt реализует выпуск и парсинг пары JWT токенов (access + refresh)
// с пользовательскими claim полями.
//
// Maker определяет интерфейс для создания и проверки токенов с username,
// ролью и uid пользователя. MakerImpl — реализация на секретном ключе
// с раздельными сроками жизни access и refresh токенов.
package jwt

import (
	"time"
)

// Типы токенов, записываемые в claim token_type.
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// Maker описывает интерфейс для генерации и парсинга пары JWT токенов.
type Maker interface {
	// GenerateToken выпускает access токен с username, ролью и uid.
	GenerateToken(username, role, userUID string) (string, error)
	// GenerateRefreshToken выпускает refresh токен с увеличенным TTL.
	GenerateRefreshToken(username, role, userUID string) (string, error)
	// ParseToken проверяет подпись и срок действия access токена.
	ParseToken(tokenStr string) (*CustomClaims, error)
	// ParseRefreshToken проверяет refresh токен; access токен не принимается.
	ParseRefreshToken(tokenStr string) (*CustomClaims, error)
}

// MakerImpl реализует интерфейс Maker с использованием секретного ключа
// и времени жизни токенов (TTL).
type MakerImpl struct {
	secretKey  string        // Секретный ключ для подписи токенов.
	tokenTTL   time.Duration // Время жизни access токена.
	refreshTTL time.Duration // Время жизни refresh токена.
}

// NewJWTMaker создаёт новый экземпляр MakerImpl.
func NewJWTMaker(secretKey string, tokenTTL, refreshTTL time.Duration) *MakerImpl {
	return &MakerImpl{
		secretKey:  secretKey,
		tokenTTL:   tokenTTL,
		refreshTTL: refreshTTL,
	}
}
