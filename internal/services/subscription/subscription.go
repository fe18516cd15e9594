// Package services содержит бизнес-логику для управления подписками.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/subscription-tracker/internal/lib/authz"
	"github.com/magabrotheeeer/subscription-tracker/internal/models"
)

// Ошибки бизнес-логики, по которым обработчики выбирают HTTP-статус.
var (
	// ErrUserNotFound — у почты сессии нет записи пользователя.
	// Трактуется как рассинхронизация на стороне сервера, не ошибка клиента.
	ErrUserNotFound = errors.New("user not found")
	// ErrSubscriptionNotFound — подписки с таким ID нет.
	ErrSubscriptionNotFound = errors.New("subscription not found")
)

// SubscriptionRepository определяет методы для работы с подписками в хранилище.
type SubscriptionRepository interface {
	// CreateSubscription добавляет новую подписку и возвращает её с метками времени.
	CreateSubscription(ctx context.Context, sub models.Subscription) (*models.Subscription, error)
	// RemoveSubscription удаляет подписку по ID и возвращает количество удалённых записей.
	RemoveSubscription(ctx context.Context, id string) (int, error)
	// ReadSubscriptionWithOwner возвращает подписку и почту её владельца.
	ReadSubscriptionWithOwner(ctx context.Context, id string) (*models.Subscription, string, error)
	// UpdateSubscription обновляет данные подписки по ID.
	UpdateSubscription(ctx context.Context, id string, sub models.Subscription) (*models.Subscription, error)
	// ListSubscriptions возвращает список подписок пользователя.
	ListSubscriptions(ctx context.Context, userUID string) ([]*models.Subscription, error)
	// GetUserByEmail возвращает пользователя по почте, (nil, nil) если его нет.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// SubscriptionService реализует бизнес-логику работы с подписками.
type SubscriptionService struct {
	repo SubscriptionRepository
	log  *slog.Logger
}

// NewSubscriptionService создает новый экземпляр SubscriptionService.
func NewSubscriptionService(repo SubscriptionRepository, log *slog.Logger) *SubscriptionService {
	return &SubscriptionService{
		repo: repo,
		log:  log,
	}
}

// List возвращает все подписки пользователя сессии.
// Если записи пользователя ещё нет, возвращает пустой список, не ошибку.
func (s *SubscriptionService) List(ctx context.Context, session *models.Session) ([]*models.Subscription, error) {
	user, err := s.repo.GetUserByEmail(ctx, session.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return []*models.Subscription{}, nil
	}

	entries, err := s.repo.ListSubscriptions(ctx, user.UID)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []*models.Subscription{}
	}
	return entries, nil
}

// Create создает новую подписку, принадлежащую пользователю сессии,
// и возвращает созданную запись с назначенными сервером ID и метками времени.
// Повторный вызов с теми же данными создаёт вторую запись: уникальность
// названий сервер не навязывает, клиентская проверка носит рекомендательный характер.
func (s *SubscriptionService) Create(ctx context.Context, session *models.Session, req models.DummySubscription) (*models.Subscription, error) {
	user, err := s.repo.GetUserByEmail(ctx, session.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	paymentDate, err := parsePaymentDate(req.PaymentDate)
	if err != nil {
		return nil, err
	}

	sub := models.Subscription{
		ID:          uuid.New().String(),
		Name:        req.Name,
		Price:       float64(req.Price),
		Description: optional(req.Description),
		PaymentDate: paymentDate,
		Status:      models.SubscriptionStatus(req.Status),
		Logo:        optional(req.Logo),
		UserUID:     user.UID,
		CancelURL:   optional(req.CancelURL),
	}

	created, err := s.repo.CreateSubscription(ctx, sub)
	if err != nil {
		return nil, err
	}

	s.log.Info("created new subscription", slog.String("id", created.ID), slog.String("user_uid", user.UID))
	return created, nil
}

// Update заменяет поля name, price, paymentDate, status и cancelUrl подписки.
// Поля description и logo не затрагиваются. Повторное применение одних и тех же
// данных оставляет запись в том же состоянии.
func (s *SubscriptionService) Update(ctx context.Context, session *models.Session, id string, req models.DummyUpdateSubscription) (*models.Subscription, error) {
	existing, ownerEmail, err := s.repo.ReadSubscriptionWithOwner(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrSubscriptionNotFound
	}
	if err := authz.Authorize(session, ownerEmail); err != nil {
		return nil, err
	}

	paymentDate, err := parsePaymentDate(req.PaymentDate)
	if err != nil {
		return nil, err
	}

	sub := models.Subscription{
		Name:        req.Name,
		Price:       float64(req.Price),
		PaymentDate: paymentDate,
		Status:      models.SubscriptionStatus(req.Status),
		CancelURL:   optional(req.CancelURL),
	}
	updated, err := s.repo.UpdateSubscription(ctx, id, sub)
	if err != nil {
		return nil, err
	}

	s.log.Info("updated subscription", slog.String("id", id))
	return updated, nil
}

// Remove удаляет подписку, если она принадлежит пользователю сессии.
// Повторное удаление того же ID возвращает ErrSubscriptionNotFound.
func (s *SubscriptionService) Remove(ctx context.Context, session *models.Session, id string) error {
	existing, ownerEmail, err := s.repo.ReadSubscriptionWithOwner(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrSubscriptionNotFound
	}
	if err := authz.Authorize(session, ownerEmail); err != nil {
		return err
	}

	count, err := s.repo.RemoveSubscription(ctx, id)
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrSubscriptionNotFound
	}

	s.log.Info("deleted subscription", slog.String("id", id))
	return nil
}

// parsePaymentDate принимает дату в формате RFC3339 или 2006-01-02.
func parsePaymentDate(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid payment date: %w", err)
	}
	return t, nil
}

// optional конвертирует пустую строку в nil.
func optional(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
