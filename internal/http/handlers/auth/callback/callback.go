// Package callback реализует HTTP-обработчик возврата от Google OAuth.
package callback

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/subscription-tracker/internal/http/middlewarectx"
	"github.com/magabrotheeeer/subscription-tracker/internal/http/response"
	"github.com/magabrotheeeer/subscription-tracker/internal/lib/sl"
	"github.com/magabrotheeeer/subscription-tracker/internal/models"
	services "github.com/magabrotheeeer/subscription-tracker/internal/services/auth"
)

// Handler управляет HTTP-запросами обратного вызова OAuth.
type Handler struct {
	log      *slog.Logger
	service  Service
	tokenTTL time.Duration
}

// Service описывает интерфейс бизнес-логики завершения входа.
type Service interface {
	HandleCallback(ctx context.Context, state, code string) (string, *models.Session, error)
}

// New создает новый Handler с переданными логгером, сервисом и временем жизни cookie.
func New(log *slog.Logger, service Service, tokenTTL time.Duration) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		tokenTTL: tokenTTL,
	}
}

// ServeHTTP godoc
// @Summary Завершить вход через Google
// @Description Проверяет state, меняет код на профиль Google, выпускает session-токен и ставит cookie.
// @Tags Auth
// @Param state query string true "Одноразовый state"
// @Param code query string true "Код авторизации от провайдера"
// @Success 302 "Редирект на главную страницу"
// @Failure 400 {object} response.ErrorResponse "Некорректный или просроченный state"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера при завершении входа"
// @Router /auth/callback [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.callback"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	state := r.URL.Query().Get("state")
	code := r.URL.Query().Get("code")
	if state == "" || code == "" {
		log.Error("missing state or code in callback")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid callback request"))
		return
	}

	token, session, err := h.service.HandleCallback(r.Context(), state, code)
	if err != nil {
		if errors.Is(err, services.ErrInvalidState) {
			log.Error("unknown or expired oauth state")
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid oauth state"))
			return
		}
		log.Error("failed to complete login", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not complete login"))
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middlewarectx.SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.tokenTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	log.Info("login completed", slog.String("email", session.Email))
	http.Redirect(w, r, "/", http.StatusFound)
}
