// Package models содержит структуру сессии — подтверждённую личность
// текущего запроса, извлечённую из подписанного session-токена.
package models

// Session описывает аутентифицированного пользователя текущего запроса.
// Отсутствие сессии всегда трактуется одинаково — "не аутентифицирован",
// без различимых причин для вызывающего кода.
type Session struct {
	UID   string `json:"id"`    // Идентификатор пользователя
	Email string `json:"email"` // Почта, по которой проверяется владение ресурсами
	Name  string `json:"name"`  // Отображаемое имя
	Image string `json:"image"` // Ссылка на аватар
}
