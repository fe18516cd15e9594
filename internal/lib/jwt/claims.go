// Package jwt реализует генерацию и парсинг session-токенов
// с пользовательскими claim полями.
//
// Методы GenerateToken и ParseToken реализуют создание и валидацию
// подписанного токена сессии, который выдаётся после обмена кода
// у OAuth-провайдера и живёт в HTTP-only cookie.
package jwt

import (
	"time"
)

// Maker описывает интерфейс для генерации и парсинга session-токенов.
type Maker interface {
	// GenerateToken создаёт токен с данными пользователя.
	GenerateToken(uid, email, name, image string) (string, error)
	// ParseToken возвращает *SessionClaims, если токен корректен.
	ParseToken(tokenStr string) (*SessionClaims, error)
}

// MakerImpl реализует интерфейс Maker с использованием секретного ключа
// и времени жизни токена (TTL).
type MakerImpl struct {
	secretKey string        // Секретный ключ для подписи токенов.
	tokenTTL  time.Duration // Время жизни токена.
}

// NewMaker создаёт новый экземпляр MakerImpl на основе секретного ключа и TTL.
func NewMaker(secretKey string, ttl time.Duration) *MakerImpl {
	return &MakerImpl{
		secretKey: secretKey,
		tokenTTL:  ttl,
	}
}
