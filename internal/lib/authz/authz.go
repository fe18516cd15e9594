// Package authz содержит проверку владения ресурсом.
// Владение подпиской определяется сравнением почты владельца записи
// с почтой аутентифицированной сессии. Проверка вынесена в одно место,
// чтобы обработчики обновления и удаления не дублировали её.
package authz

import (
	"errors"

	"github.com/magabrotheeeer/subscription-tracker/internal/models"
)

// ErrNotOwner возвращается, когда сессия не принадлежит владельцу ресурса.
var ErrNotOwner = errors.New("session user is not the resource owner")

// Authorize разрешает мутацию ресурса только его владельцу.
// Сравнение почты точное, без нормализации регистра.
func Authorize(session *models.Session, ownerEmail string) error {
	if session == nil || session.Email == "" || session.Email != ownerEmail {
		return ErrNotOwner
	}
	return nil
}
