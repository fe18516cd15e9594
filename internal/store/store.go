// Package store реализует клиентское in-memory зеркало подписок поверх REST API.
// Зеркало авторитетно заменяется целиком при каждом Fetch и мутируется
// только после успешного ответа сервера.
package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/magabrotheeeer/subscription-tracker/internal/http/middlewarectx"
	"github.com/magabrotheeeer/subscription-tracker/internal/models"
)

// ErrDuplicateName возвращается при попытке добавить подписку с уже
// занятым (без учёта регистра) именем. Проверка носит рекомендательный
// характер и работает только по локальному зеркалу.
var ErrDuplicateName = errors.New("subscription with this name already exists")

// SubscriptionStore хранит зеркало подписок пользователя и флаг загрузки.
// Экземпляр создаётся явно и передаётся по ссылке, глобального состояния нет.
type SubscriptionStore struct {
	baseURL      string
	sessionToken string
	httpClient   *http.Client

	subscriptions []models.Subscription
	isLoading     bool
}

// New создает новый SubscriptionStore для переданного адреса API и session-токена.
func New(baseURL, sessionToken string) *SubscriptionStore {
	return &SubscriptionStore{
		baseURL:      strings.TrimRight(baseURL, "/"),
		sessionToken: sessionToken,
		httpClient:   &http.Client{Timeout: 10 * time.Second},
	}
}

func (s *SubscriptionStore) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, &buf)
	if err != nil {
		return nil, err
	}
	req.AddCookie(&http.Cookie{Name: middlewarectx.SessionCookie, Value: s.sessionToken})
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

func (s *SubscriptionStore) do(req *http.Request, result any) error {
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errors.New("unexpected status: " + resp.Status)
	}
	if result == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(result)
}

// FetchSubscriptions загружает список с сервера и заменяет зеркало целиком.
// Флаг загрузки сбрасывается в любом исходе, успешном или нет.
func (s *SubscriptionStore) FetchSubscriptions(ctx context.Context) error {
	const op = "store.FetchSubscriptions"

	s.isLoading = true
	defer func() { s.isLoading = false }()

	req, err := s.newRequest(ctx, http.MethodGet, "/api/subscriptions", nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	var fetched []models.Subscription
	if err := s.do(req, &fetched); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.subscriptions = fetched
	return nil
}

// AddSubscription создает подписку на сервере и добавляет серверную запись
// в зеркало. При ошибке зеркало не меняется.
func (s *SubscriptionStore) AddSubscription(ctx context.Context, req models.DummySubscription) (*models.Subscription, error) {
	const op = "store.AddSubscription"

	for _, existing := range s.subscriptions {
		if strings.EqualFold(existing.Name, req.Name) {
			return nil, fmt.Errorf("%s: %w", op, ErrDuplicateName)
		}
	}

	httpReq, err := s.newRequest(ctx, http.MethodPost, "/api/subscriptions", req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var created models.Subscription
	if err := s.do(httpReq, &created); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.subscriptions = append(s.subscriptions, created)
	return &created, nil
}

// UpdateSubscription обновляет подписку на сервере и заменяет запись
// с тем же id в зеркале на серверную.
func (s *SubscriptionStore) UpdateSubscription(ctx context.Context, id string, req models.DummyUpdateSubscription) (*models.Subscription, error) {
	const op = "store.UpdateSubscription"

	httpReq, err := s.newRequest(ctx, http.MethodPut, "/api/subscriptions/"+id, req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var updated models.Subscription
	if err := s.do(httpReq, &updated); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	for i := range s.subscriptions {
		if s.subscriptions[i].ID == id {
			s.subscriptions[i] = updated
			break
		}
	}
	return &updated, nil
}

// RemoveSubscription удаляет подписку на сервере и выфильтровывает её из зеркала.
func (s *SubscriptionStore) RemoveSubscription(ctx context.Context, id string) error {
	const op = "store.RemoveSubscription"

	req, err := s.newRequest(ctx, http.MethodDelete, "/api/subscriptions/"+id, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.do(req, nil); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	filtered := s.subscriptions[:0]
	for _, sub := range s.subscriptions {
		if sub.ID != id {
			filtered = append(filtered, sub)
		}
	}
	s.subscriptions = filtered
	return nil
}

// Subscriptions возвращает текущее содержимое зеркала.
func (s *SubscriptionStore) Subscriptions() []models.Subscription {
	return s.subscriptions
}

// IsLoading сообщает, выполняется ли сейчас загрузка списка.
func (s *SubscriptionStore) IsLoading() bool {
	return s.isLoading
}
