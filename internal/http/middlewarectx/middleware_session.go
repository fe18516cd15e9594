// Package middlewarectx содержит HTTP middleware для проверки сессии.
//
// SessionMiddleware читает session-токен из HTTP-only cookie, проверяет
// его подпись и срок действия и кладёт в контекст запроса структуру
// models.Session для дальнейшего использования в обработчиках.
//
// Отсутствующая или невалидная сессия всегда даёт одинаковый ответ —
// HTTP 401 Unauthorized, без различимых причин.
package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/subscription-tracker/internal/http/response"
	"github.com/magabrotheeeer/subscription-tracker/internal/lib/jwt"
	"github.com/magabrotheeeer/subscription-tracker/internal/lib/sl"
	"github.com/magabrotheeeer/subscription-tracker/internal/models"
)

// SessionCookie — имя cookie с session-токеном.
const SessionCookie = "session_token"

// Key тип для ключей контекста HTTP-запроса.
type Key string

// SessionKey — ключ для сессии в контексте.
const SessionKey Key = "session"

// TokenParser описывает интерфейс проверки session-токена.
type TokenParser interface {
	ParseToken(tokenStr string) (*jwt.SessionClaims, error)
}

// SessionMiddleware возвращает HTTP middleware, который проверяет
// session-токен из cookie.
//
// Если токен валиден, добавляет models.Session в контекст запроса,
// иначе возвращает ошибку с HTTP статусом 401 Unauthorized.
func SessionMiddleware(tokens TokenParser, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.SessionMiddleware"

			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			cookie, err := r.Cookie(SessionCookie)
			if err != nil || cookie.Value == "" {
				log.Error("missing session cookie")
				w.WriteHeader(http.StatusUnauthorized)
				render.JSON(w, r, response.Error("unauthorized"))
				return
			}

			claims, err := tokens.ParseToken(cookie.Value)
			if err != nil {
				log.Error("invalid or expired session token", sl.Err(err))
				w.WriteHeader(http.StatusUnauthorized)
				render.JSON(w, r, response.Error("unauthorized"))
				return
			}

			session := &models.Session{
				UID:   claims.UserUID,
				Email: claims.Email,
				Name:  claims.Name,
				Image: claims.Image,
			}
			ctx := context.WithValue(r.Context(), SessionKey, session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionFromContext возвращает сессию текущего запроса или nil.
func SessionFromContext(ctx context.Context) *models.Session {
	session, ok := ctx.Value(SessionKey).(*models.Session)
	if !ok {
		return nil
	}
	return session
}
