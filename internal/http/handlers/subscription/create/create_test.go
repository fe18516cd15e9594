package create

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/subscription-tracker/internal/http/middlewarectx"
	"github.com/magabrotheeeer/subscription-tracker/internal/models"
	services "github.com/magabrotheeeer/subscription-tracker/internal/services/subscription"
)

// MockService реализует интерфейс create.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Create(ctx context.Context, session *models.Session, req models.DummySubscription) (*models.Subscription, error) {
	args := m.Called(ctx, session, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Subscription), args.Error(1)
}

func TestCreateHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	session := &models.Session{
		UID:   "4f6b5a14-9f20-4e6a-8f35-7d6d55a87e19",
		Email: "user@example.com",
		Name:  "User",
	}

	validBody := `{"name":"Spotify","price":4.99,"paymentDate":"2025-07-15","status":"ACTIVE"}`

	created := &models.Subscription{
		ID:          "a1f0b8e2-5c2d-4df5-9b1a-3f7c2a9e6d40",
		Name:        "Spotify",
		Price:       4.99,
		PaymentDate: time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC),
		Status:      models.StatusActive,
		UserUID:     session.UID,
	}

	tests := []struct {
		name           string
		body           string
		session        *models.Session
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:    "успешное создание",
			body:    validBody,
			session: session,
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, session, mock.AnythingOfType("models.DummySubscription")).Return(created, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"name":"Spotify"`,
		},
		{
			name:           "некорректный JSON",
			body:           `{"name":`,
			session:        session,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"error":"invalid request body"`,
		},
		{
			name:           "ошибка валидации: нет имени",
			body:           `{"price":4.99,"paymentDate":"2025-07-15","status":"ACTIVE"}`,
			session:        session,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `field Name is a required field`,
		},
		{
			name:           "ошибка валидации: неизвестный статус",
			body:           `{"name":"Spotify","price":4.99,"paymentDate":"2025-07-15","status":"PAUSED"}`,
			session:        session,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `field Status must be one of: ACTIVE INACTIVE`,
		},
		{
			name:           "нет сессии в контексте",
			body:           validBody,
			session:        nil,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `"error":"unauthorized"`,
		},
		{
			name:    "пользователь сессии не найден",
			body:    validBody,
			session: session,
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, session, mock.AnythingOfType("models.DummySubscription")).
					Return(nil, services.ErrUserNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `"error":"user not found"`,
		},
		{
			name:    "ошибка сервиса",
			body:    validBody,
			session: session,
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, session, mock.AnythingOfType("models.DummySubscription")).
					Return(nil, errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `"error":"could not create subscription"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodPost, "/subscriptions", strings.NewReader(tt.body))
			if tt.session != nil {
				req = req.WithContext(context.WithValue(req.Context(), middlewarectx.SessionKey, tt.session))
			}

			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())

			mockService.AssertExpectations(t)
		})
	}
}
