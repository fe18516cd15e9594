// Package services содержит бизнес-логику входа через OAuth-провайдера
// и выдачи session-токенов.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/subscription-tracker/internal/models"
	"github.com/magabrotheeeer/subscription-tracker/internal/oauth"
)

// stateTTL — время жизни одноразового state-токена OAuth.
const stateTTL = 10 * time.Minute

// ErrInvalidState возвращается, когда state из callback неизвестен или уже использован.
var ErrInvalidState = errors.New("unknown or expired oauth state")

// OAuthProvider описывает внешнего провайдера аутентификации.
type OAuthProvider interface {
	// LoginURL строит ссылку на страницу входа провайдера.
	LoginURL(state string) string
	// Exchange меняет авторизационный код на профиль пользователя.
	Exchange(ctx context.Context, code string) (*oauth.UserInfo, error)
}

// UserRepository определяет методы для работы с пользователями в хранилище.
type UserRepository interface {
	// UpsertUser создаёт пользователя при первом входе и возвращает его UID.
	UpsertUser(ctx context.Context, user models.User) (string, error)
}

// StateStore хранит одноразовые state-токены с TTL.
type StateStore interface {
	Set(key string, value any, expiration time.Duration) error
	Get(key string, result any) (bool, error)
	Invalidate(key string) error
}

// TokenMaker выдаёт подписанные session-токены.
type TokenMaker interface {
	GenerateToken(uid, email, name, image string) (string, error)
}

// AuthService реализует вход через OAuth: выдачу ссылки входа,
// обработку callback и выпуск сессии.
type AuthService struct {
	provider OAuthProvider
	users    UserRepository
	states   StateStore
	tokens   TokenMaker
	log      *slog.Logger
}

// NewAuthService создает новый экземпляр AuthService.
func NewAuthService(provider OAuthProvider, users UserRepository, states StateStore, tokens TokenMaker, log *slog.Logger) *AuthService {
	return &AuthService{
		provider: provider,
		users:    users,
		states:   states,
		tokens:   tokens,
		log:      log,
	}
}

// LoginURL генерирует одноразовый state, сохраняет его с TTL
// и возвращает ссылку на страницу входа провайдера.
func (s *AuthService) LoginURL(_ context.Context) (string, error) {
	state := uuid.New().String()
	if err := s.states.Set(stateKey(state), true, stateTTL); err != nil {
		return "", fmt.Errorf("failed to store oauth state: %w", err)
	}
	return s.provider.LoginURL(state), nil
}

// HandleCallback обрабатывает возврат от провайдера: проверяет state,
// меняет код на профиль, создаёт или подбирает пользователя по почте
// и выпускает session-токен.
func (s *AuthService) HandleCallback(ctx context.Context, state, code string) (string, *models.Session, error) {
	var known bool
	found, err := s.states.Get(stateKey(state), &known)
	if err != nil {
		return "", nil, fmt.Errorf("failed to check oauth state: %w", err)
	}
	if !found || !known {
		return "", nil, ErrInvalidState
	}
	if err := s.states.Invalidate(stateKey(state)); err != nil {
		s.log.Warn("failed to invalidate oauth state", slog.String("state", state), slog.Any("err", err))
	}

	info, err := s.provider.Exchange(ctx, code)
	if err != nil {
		return "", nil, fmt.Errorf("failed to exchange oauth code: %w", err)
	}

	user := models.User{
		UID:   uuid.New().String(),
		Email: info.Email,
		Name:  info.Name,
		Image: info.Picture,
	}
	uid, err := s.users.UpsertUser(ctx, user)
	if err != nil {
		return "", nil, fmt.Errorf("failed to upsert user: %w", err)
	}

	s.log.Info("user logged in", slog.String("user_uid", uid), slog.String("email", info.Email))

	token, err := s.tokens.GenerateToken(uid, info.Email, info.Name, info.Picture)
	if err != nil {
		return "", nil, fmt.Errorf("failed to generate session token: %w", err)
	}

	session := &models.Session{
		UID:   uid,
		Email: info.Email,
		Name:  info.Name,
		Image: info.Picture,
	}
	return token, session, nil
}

func stateKey(state string) string {
	return "oauthstate:" + state
}
