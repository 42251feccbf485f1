package repository

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/admin-dashboard/internal/models"
)

// ListSubscriptionEvents возвращает журнал событий подписок. Журнал
// пополняется внешней системой, здесь он только читается.
func (s *Storage) ListSubscriptionEvents(ctx context.Context) ([]*models.SubscriptionEvent, error) {
	const op = "storage.ListSubscriptionEvents"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT event_type, created_at FROM subscription_events`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.SubscriptionEvent
	for rows.Next() {
		var e models.SubscriptionEvent
		if err := rows.Scan(&e.EventType, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &e)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
