package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/magabrotheeeer/admin-dashboard/internal/models"
)

const subscriptionColumns = `id, user_id, product_id, platform, status, provider,
			      auto_renew, current_period_start, current_period_end, created_at`

func scanSubscription(row interface{ Scan(...any) error }) (*models.Subscription, error) {
	var sub models.Subscription
	if err := row.Scan(&sub.ID, &sub.UserID, &sub.ProductID, &sub.Platform, &sub.Status,
		&sub.Provider, &sub.AutoRenew, &sub.CurrentPeriodStart, &sub.CurrentPeriodEnd,
		&sub.CreatedAt); err != nil {
		return nil, err
	}
	return &sub, nil
}

// ListSubscriptionRows возвращает все подписки вместе с именем и почтой
// владельца, новые записи первыми.
func (s *Storage) ListSubscriptionRows(ctx context.Context) ([]*models.SubscriptionRow, error) {
	const op = "storage.ListSubscriptionRows"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT s.id, s.user_id, s.product_id, s.platform, s.status, s.provider,
			      s.auto_renew, s.current_period_start, s.current_period_end, s.created_at,
			      p.name, p.email
			  FROM subscriptions s
			  JOIN profiles p ON p.id = s.user_id
			  ORDER BY s.created_at DESC`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.SubscriptionRow
	for rows.Next() {
		var item models.SubscriptionRow
		if err := rows.Scan(&item.ID, &item.UserID, &item.ProductID, &item.Platform,
			&item.Status, &item.Provider, &item.AutoRenew, &item.CurrentPeriodStart,
			&item.CurrentPeriodEnd, &item.CreatedAt, &item.UserName, &item.UserEmail); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ListAllSubscriptions возвращает все подписки для агрегации.
func (s *Storage) ListAllSubscriptions(ctx context.Context) ([]*models.Subscription, error) {
	const op = "storage.ListAllSubscriptions"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + subscriptionColumns + ` FROM subscriptions`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Subscription
	for rows.Next() {
		sub, err := scanSubscription(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, sub)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// GetLatestSubscriptionByUserID возвращает подписку пользователя с самой
// поздней датой окончания периода.
func (s *Storage) GetLatestSubscriptionByUserID(ctx context.Context, userID string) (*models.Subscription, error) {
	const op = "storage.GetLatestSubscriptionByUserID"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + subscriptionColumns + `
			  FROM subscriptions
			  WHERE user_id = $1
			  ORDER BY current_period_end DESC
			  LIMIT 1`
	sub, err := scanSubscription(s.DB.QueryRowContext(ctx, query, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSubscriptionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return sub, nil
}

// GetSubscriptionByID возвращает подписку по идентификатору.
func (s *Storage) GetSubscriptionByID(ctx context.Context, id string) (*models.Subscription, error) {
	const op = "storage.GetSubscriptionByID"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + subscriptionColumns + ` FROM subscriptions WHERE id = $1`
	sub, err := scanSubscription(s.DB.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSubscriptionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return sub, nil
}

// CreateSubscription вставляет новую запись подписки и возвращает её ID.
func (s *Storage) CreateSubscription(ctx context.Context, sub models.Subscription) (string, error) {
	const op = "storage.CreateSubscription"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO subscriptions (user_id, product_id, platform, status, provider,
			      auto_renew, current_period_start, current_period_end)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			  RETURNING id`
	var newID string
	err := s.DB.QueryRowContext(ctx, query,
		sub.UserID, sub.ProductID, sub.Platform, sub.Status, sub.Provider,
		sub.AutoRenew, sub.CurrentPeriodStart, sub.CurrentPeriodEnd).Scan(&newID)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// RenewSubscription продлевает подписку: переносит дату окончания периода
// и возвращает статус active. Даты начала периода продление не трогает.
func (s *Storage) RenewSubscription(ctx context.Context, id string, newEnd time.Time) (int, error) {
	const op = "storage.RenewSubscription"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE subscriptions
			  SET current_period_end = $1, status = 'active'
			  WHERE id = $2`
	result, err := s.DB.ExecContext(ctx, query, newEnd, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// RewriteSubscription безусловно перезаписывает тариф и платформу подписки,
// переносит дату окончания периода и возвращает статус active.
func (s *Storage) RewriteSubscription(ctx context.Context, id, productID, platform string, newEnd time.Time) (int, error) {
	const op = "storage.RewriteSubscription"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE subscriptions
			  SET product_id = $1, platform = $2, current_period_end = $3, status = 'active'
			  WHERE id = $4`
	result, err := s.DB.ExecContext(ctx, query, productID, platform, newEnd, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// ExpireSubscription безусловно помечает подписку истёкшей, даты периода
// не меняются.
func (s *Storage) ExpireSubscription(ctx context.Context, id string) (int, error) {
	const op = "storage.ExpireSubscription"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE subscriptions
			  SET status = 'expired'
			  WHERE id = $1`
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
