package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/subscription-tracker/internal/lib/authz"
	"github.com/magabrotheeeer/subscription-tracker/internal/models"
)

// MockRepository реализует интерфейс SubscriptionRepository
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) CreateSubscription(ctx context.Context, sub models.Subscription) (*models.Subscription, error) {
	args := m.Called(ctx, sub)
	res, _ := args.Get(0).(*models.Subscription)
	return res, args.Error(1)
}

func (m *MockRepository) RemoveSubscription(ctx context.Context, id string) (int, error) {
	args := m.Called(ctx, id)
	return args.Int(0), args.Error(1)
}

func (m *MockRepository) ReadSubscriptionWithOwner(ctx context.Context, id string) (*models.Subscription, string, error) {
	args := m.Called(ctx, id)
	res, _ := args.Get(0).(*models.Subscription)
	return res, args.String(1), args.Error(2)
}

func (m *MockRepository) UpdateSubscription(ctx context.Context, id string, sub models.Subscription) (*models.Subscription, error) {
	args := m.Called(ctx, id, sub)
	res, _ := args.Get(0).(*models.Subscription)
	return res, args.Error(1)
}

func (m *MockRepository) ListSubscriptions(ctx context.Context, userUID string) ([]*models.Subscription, error) {
	args := m.Called(ctx, userUID)
	res, _ := args.Get(0).([]*models.Subscription)
	return res, args.Error(1)
}

func (m *MockRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	res, _ := args.Get(0).(*models.User)
	return res, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

var testSession = &models.Session{
	UID:   "550e8400-e29b-41d4-a716-446655440000",
	Email: "owner@example.com",
	Name:  "Owner",
}

func TestSubscriptionService_List(t *testing.T) {
	ctx := context.Background()

	t.Run("подписки пользователя", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewSubscriptionService(repo, newNoopLogger())

		user := &models.User{UID: testSession.UID, Email: testSession.Email}
		subs := []*models.Subscription{
			{ID: "sub-1", Name: "Netflix", Price: 15.99, UserUID: user.UID},
		}
		repo.On("GetUserByEmail", ctx, testSession.Email).Return(user, nil)
		repo.On("ListSubscriptions", ctx, user.UID).Return(subs, nil)

		got, err := svc.List(ctx, testSession)
		require.NoError(t, err)
		assert.Equal(t, subs, got)
	})

	t.Run("нет записи пользователя — пустой список", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewSubscriptionService(repo, newNoopLogger())

		repo.On("GetUserByEmail", ctx, testSession.Email).Return(nil, nil)

		got, err := svc.List(ctx, testSession)
		require.NoError(t, err)
		assert.Empty(t, got)
		assert.NotNil(t, got)
	})

	t.Run("нет подписок — пустой список, не nil", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewSubscriptionService(repo, newNoopLogger())

		user := &models.User{UID: testSession.UID, Email: testSession.Email}
		repo.On("GetUserByEmail", ctx, testSession.Email).Return(user, nil)
		repo.On("ListSubscriptions", ctx, user.UID).Return(nil, nil)

		got, err := svc.List(ctx, testSession)
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Len(t, got, 0)
	})
}

func TestSubscriptionService_Create(t *testing.T) {
	ctx := context.Background()
	req := models.DummySubscription{
		Name:        "Netflix",
		Price:       models.Price(15.99),
		PaymentDate: "2026-09-15",
		Status:      "ACTIVE",
	}

	t.Run("успешное создание", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewSubscriptionService(repo, newNoopLogger())

		user := &models.User{UID: testSession.UID, Email: testSession.Email}
		repo.On("GetUserByEmail", ctx, testSession.Email).Return(user, nil)
		repo.On("CreateSubscription", ctx, mock.MatchedBy(func(sub models.Subscription) bool {
			return sub.Name == "Netflix" &&
				sub.Price == 15.99 &&
				sub.Status == models.StatusActive &&
				sub.UserUID == user.UID &&
				sub.ID != "" &&
				sub.PaymentDate.Equal(time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC))
		})).Return(&models.Subscription{ID: "sub-1", Name: "Netflix", Price: 15.99, UserUID: user.UID}, nil)

		created, err := svc.Create(ctx, testSession, req)
		require.NoError(t, err)
		assert.Equal(t, "sub-1", created.ID)
		repo.AssertExpectations(t)
	})

	t.Run("нет записи пользователя", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewSubscriptionService(repo, newNoopLogger())

		repo.On("GetUserByEmail", ctx, testSession.Email).Return(nil, nil)

		_, err := svc.Create(ctx, testSession, req)
		require.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("некорректная дата платежа", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewSubscriptionService(repo, newNoopLogger())

		user := &models.User{UID: testSession.UID, Email: testSession.Email}
		repo.On("GetUserByEmail", ctx, testSession.Email).Return(user, nil)

		bad := req
		bad.PaymentDate = "not-a-date"
		_, err := svc.Create(ctx, testSession, bad)
		require.Error(t, err)
	})

	t.Run("дата в формате RFC3339", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewSubscriptionService(repo, newNoopLogger())

		user := &models.User{UID: testSession.UID, Email: testSession.Email}
		repo.On("GetUserByEmail", ctx, testSession.Email).Return(user, nil)
		repo.On("CreateSubscription", ctx, mock.AnythingOfType("models.Subscription")).
			Return(&models.Subscription{ID: "sub-2"}, nil)

		rfc := req
		rfc.PaymentDate = "2026-09-15T00:00:00Z"
		_, err := svc.Create(ctx, testSession, rfc)
		require.NoError(t, err)
	})
}

func TestSubscriptionService_Update(t *testing.T) {
	ctx := context.Background()
	req := models.DummyUpdateSubscription{
		Name:        "Netflix Premium",
		Price:       models.Price(19.99),
		PaymentDate: "2026-10-01",
		Status:      "INACTIVE",
		CancelURL:   "https://netflix.com/cancel",
	}

	t.Run("успешное обновление владельцем", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewSubscriptionService(repo, newNoopLogger())

		existing := &models.Subscription{ID: "sub-1", UserUID: testSession.UID}
		updated := &models.Subscription{ID: "sub-1", Name: "Netflix Premium", Price: 19.99}
		repo.On("ReadSubscriptionWithOwner", ctx, "sub-1").Return(existing, testSession.Email, nil)
		repo.On("UpdateSubscription", ctx, "sub-1", mock.MatchedBy(func(sub models.Subscription) bool {
			return sub.Name == "Netflix Premium" && sub.Status == models.StatusInactive
		})).Return(updated, nil)

		got, err := svc.Update(ctx, testSession, "sub-1", req)
		require.NoError(t, err)
		assert.Equal(t, updated, got)
	})

	t.Run("подписка не найдена", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewSubscriptionService(repo, newNoopLogger())

		repo.On("ReadSubscriptionWithOwner", ctx, "missing").Return(nil, "", nil)

		_, err := svc.Update(ctx, testSession, "missing", req)
		require.ErrorIs(t, err, ErrSubscriptionNotFound)
	})

	t.Run("чужая подписка", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewSubscriptionService(repo, newNoopLogger())

		existing := &models.Subscription{ID: "sub-1", UserUID: "other-uid"}
		repo.On("ReadSubscriptionWithOwner", ctx, "sub-1").Return(existing, "other@example.com", nil)

		_, err := svc.Update(ctx, testSession, "sub-1", req)
		require.ErrorIs(t, err, authz.ErrNotOwner)
		repo.AssertNotCalled(t, "UpdateSubscription", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("ошибка хранилища", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewSubscriptionService(repo, newNoopLogger())

		repo.On("ReadSubscriptionWithOwner", ctx, "sub-1").Return(nil, "", errors.New("db down"))

		_, err := svc.Update(ctx, testSession, "sub-1", req)
		require.Error(t, err)
	})
}

func TestSubscriptionService_Remove(t *testing.T) {
	ctx := context.Background()

	t.Run("успешное удаление владельцем", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewSubscriptionService(repo, newNoopLogger())

		existing := &models.Subscription{ID: "sub-1", UserUID: testSession.UID}
		repo.On("ReadSubscriptionWithOwner", ctx, "sub-1").Return(existing, testSession.Email, nil)
		repo.On("RemoveSubscription", ctx, "sub-1").Return(1, nil)

		err := svc.Remove(ctx, testSession, "sub-1")
		require.NoError(t, err)
	})

	t.Run("повторное удаление — не найдено", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewSubscriptionService(repo, newNoopLogger())

		repo.On("ReadSubscriptionWithOwner", ctx, "sub-1").Return(nil, "", nil)

		err := svc.Remove(ctx, testSession, "sub-1")
		require.ErrorIs(t, err, ErrSubscriptionNotFound)
	})

	t.Run("чужая подписка", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewSubscriptionService(repo, newNoopLogger())

		existing := &models.Subscription{ID: "sub-1", UserUID: "other-uid"}
		repo.On("ReadSubscriptionWithOwner", ctx, "sub-1").Return(existing, "other@example.com", nil)

		err := svc.Remove(ctx, testSession, "sub-1")
		require.ErrorIs(t, err, authz.ErrNotOwner)
		repo.AssertNotCalled(t, "RemoveSubscription", mock.Anything, mock.Anything)
	})
}
