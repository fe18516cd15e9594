// Package models содержит доменную модель пользователя системы.
// Учётная запись создаётся при первом входе через OAuth-провайдера
// и в дальнейшем API подписок её не изменяет.
package models

import "time"

// User представляет пользователя, вошедшего через внешнего OAuth-провайдера.
type User struct {
	UID       string    // Уникальный идентификатор пользователя
	Email     string    // Электронная почта (уникальная, приходит от провайдера)
	Name      string    // Отображаемое имя
	Image     string    // Ссылка на аватар
	CreatedAt time.Time // Дата создания записи
	UpdatedAt time.Time // Дата последнего обновления
}
