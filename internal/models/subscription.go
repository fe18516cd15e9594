// Package models содержит доменные структуры, описывающие подписку и пользователя,
// а также вспомогательные типы для приёма данных из JSON-запросов.
package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// SubscriptionStatus описывает статус подписки. Допустимы только два значения.
type SubscriptionStatus string

const (
	// StatusActive — подписка активна.
	StatusActive SubscriptionStatus = "ACTIVE"
	// StatusInactive — подписка отменена или приостановлена.
	StatusInactive SubscriptionStatus = "INACTIVE"
)

// Price — цена подписки. В JSON принимает как число, так и числовую строку
// (клиентские формы присылают текст), но наружу всегда сериализуется числом.
type Price float64

// UnmarshalJSON принимает число или строку с числом.
func (p *Price) UnmarshalJSON(data []byte) error {
	data = bytes.Trim(bytes.TrimSpace(data), `"`)
	value, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return fmt.Errorf("invalid price value: %w", err)
	}
	*p = Price(value)
	return nil
}

// MarshalJSON сериализует цену числом.
func (p Price) MarshalJSON() ([]byte, error) {
	return json.Marshal(float64(p))
}

// Subscription представляет собой основную модель подписки,
// используемую в бизнес-логике, хранилище и на проводе.
// Владельцем всегда является ровно один пользователь, UserUID
// назначается при создании и никогда не меняется.
type Subscription struct {
	ID          string             `json:"id"`                    // Уникальный идентификатор
	Name        string             `json:"name"`                  // Название сервиса
	Price       float64            `json:"price"`                 // Цена, всегда число
	Description *string            `json:"description,omitempty"` // Описание (опционально)
	PaymentDate time.Time          `json:"paymentDate"`           // Дата ближайшего платежа
	Status      SubscriptionStatus `json:"status"`                // ACTIVE или INACTIVE
	Logo        *string            `json:"logo,omitempty"`        // Логотип (опционально)
	UserUID     string             `json:"userId"`                // Владелец подписки
	CancelURL   *string            `json:"cancelUrl,omitempty"`   // Ссылка для отмены (опционально)
	CreatedAt   time.Time          `json:"createdAt"`             // Назначается сервером
	UpdatedAt   time.Time          `json:"updatedAt"`             // Назначается сервером
}

// DummySubscription используется для приёма данных создания подписки из JSON-запроса,
// прежде чем конвертировать их в Subscription.
// Дата приходит строкой, чтобы её можно было валидировать и парсить вручную.
type DummySubscription struct {
	Name        string `json:"name" validate:"required"`                         // Название сервиса
	Price       Price  `json:"price" validate:"required,gt=0"`                   // Цена (>0)
	PaymentDate string `json:"paymentDate" validate:"required"`                  // Дата платежа, RFC3339 или 2006-01-02
	Status      string `json:"status" validate:"required,oneof=ACTIVE INACTIVE"` // Статус
	Description string `json:"description,omitempty" validate:"omitempty"`       // Описание (опционально)
	Logo        string `json:"logo,omitempty" validate:"omitempty"`              // Логотип (опционально)
	CancelURL   string `json:"cancelUrl,omitempty" validate:"omitempty"`         // Ссылка для отмены (опционально)
}

// DummyUpdateSubscription используется для приёма данных обновления подписки.
// Обновление заменяет перечисленные поля целиком, description и logo не трогает.
type DummyUpdateSubscription struct {
	Name        string `json:"name" validate:"required"`
	Price       Price  `json:"price" validate:"required,gt=0"`
	PaymentDate string `json:"paymentDate" validate:"required"`
	Status      string `json:"status" validate:"required,oneof=ACTIVE INACTIVE"`
	CancelURL   string `json:"cancelUrl,omitempty" validate:"omitempty"`
}
