package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/subscription-tracker/internal/models"
)

const subscriptionColumns = `id, name, price, description, payment_date, status, logo, user_uid, cancel_url, created_at, updated_at`

// CreateSubscription вставляет новую запись подписки и возвращает её
// с назначенными сервером временными метками.
func (s *Storage) CreateSubscription(ctx context.Context, sub models.Subscription) (*models.Subscription, error) {
	const op = "storage.CreateSubscription"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO subscriptions (id, name, price, description, payment_date,
			      status, logo, user_uid, cancel_url)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			  RETURNING created_at, updated_at`
	err := s.DB.QueryRowContext(ctx, query,
		sub.ID, sub.Name, sub.Price, sub.Description, sub.PaymentDate,
		sub.Status, sub.Logo, sub.UserUID, sub.CancelURL).Scan(&sub.CreatedAt, &sub.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &sub, nil
}

// RemoveSubscription удаляет подписку по ID и возвращает количество удалённых строк.
func (s *Storage) RemoveSubscription(ctx context.Context, id string) (int, error) {
	const op = "storage.RemoveSubscription"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM subscriptions WHERE id = $1`
	result, err := s.DB.ExecContext(ctx, query, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// ReadSubscriptionWithOwner возвращает подписку по её ID вместе с почтой
// владельца, полученной через JOIN с таблицей пользователей.
// Если подписки нет, возвращает (nil, "", nil).
func (s *Storage) ReadSubscriptionWithOwner(ctx context.Context, id string) (*models.Subscription, string, error) {
	const op = "storage.ReadSubscriptionWithOwner"
	select {
	case <-ctx.Done():
		return nil, "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT s.id, s.name, s.price, s.description, s.payment_date, s.status,
			      s.logo, s.user_uid, s.cancel_url, s.created_at, s.updated_at, u.email
			  FROM subscriptions s
			  JOIN users u ON u.uid = s.user_uid
			  WHERE s.id = $1`
	row := s.DB.QueryRowContext(ctx, query, id)

	var result models.Subscription
	var ownerEmail string
	if err := row.Scan(&result.ID, &result.Name, &result.Price, &result.Description,
		&result.PaymentDate, &result.Status, &result.Logo, &result.UserUID,
		&result.CancelURL, &result.CreatedAt, &result.UpdatedAt, &ownerEmail); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, "", nil
		}
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}
	return &result, ownerEmail, nil
}

// UpdateSubscription обновляет перечисленные поля подписки по её ID
// и возвращает обновлённую запись. Поля description и logo не затрагиваются.
func (s *Storage) UpdateSubscription(ctx context.Context, id string, sub models.Subscription) (*models.Subscription, error) {
	const op = "storage.UpdateSubscription"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE subscriptions
			  SET name = $1, price = $2, payment_date = $3, status = $4,
			      cancel_url = $5, updated_at = now()
			  WHERE id = $6
			  RETURNING ` + subscriptionColumns
	row := s.DB.QueryRowContext(ctx, query,
		sub.Name, sub.Price, sub.PaymentDate, sub.Status, sub.CancelURL, id)

	var result models.Subscription
	if err := row.Scan(&result.ID, &result.Name, &result.Price, &result.Description,
		&result.PaymentDate, &result.Status, &result.Logo, &result.UserUID,
		&result.CancelURL, &result.CreatedAt, &result.UpdatedAt); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &result, nil
}

// ListSubscriptions возвращает список всех подписок пользователя.
func (s *Storage) ListSubscriptions(ctx context.Context, userUID string) ([]*models.Subscription, error) {
	const op = "storage.ListSubscriptions"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + subscriptionColumns + `
			  FROM subscriptions
			  WHERE user_uid = $1
			  ORDER BY created_at, id`
	rows, err := s.DB.QueryContext(ctx, query, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var result []*models.Subscription
	for rows.Next() {
		var item models.Subscription
		if err := rows.Scan(&item.ID, &item.Name, &item.Price, &item.Description,
			&item.PaymentDate, &item.Status, &item.Logo, &item.UserUID,
			&item.CancelURL, &item.CreatedAt, &item.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	err = rows.Close()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
