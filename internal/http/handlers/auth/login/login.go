// Package login реализует HTTP-обработчик начала входа через Google OAuth.
package login

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/subscription-tracker/internal/http/response"
	"github.com/magabrotheeeer/subscription-tracker/internal/lib/sl"
)

// Handler управляет HTTP-запросами на вход пользователя.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики входа.
type Service interface {
	LoginURL(ctx context.Context) (string, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Начать вход через Google
// @Description Генерирует одноразовый state и перенаправляет на страницу согласия Google.
// @Tags Auth
// @Success 302 "Редирект на провайдера"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера при формировании ссылки входа"
// @Router /auth/login [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.login"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	url, err := h.service.LoginURL(r.Context())
	if err != nil {
		log.Error("failed to build login url", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not start login"))
		return
	}

	log.Info("redirecting to oauth provider")
	http.Redirect(w, r, url, http.StatusFound)
}
