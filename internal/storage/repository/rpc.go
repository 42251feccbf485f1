package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/magabrotheeeer/admin-dashboard/internal/models"
)

// SourceStatsRPC вызывает серверную функцию source_stats(). Её тело живёт
// в базе данных (миграция 000001), этот слой только разворачивает результат.
func (s *Storage) SourceStatsRPC(ctx context.Context) ([]models.SourcePoint, error) {
	const op = "storage.SourceStatsRPC"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT source, count FROM source_stats()`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []models.SourcePoint
	for rows.Next() {
		var p models.SourcePoint
		if err := rows.Scan(&p.Source, &p.Count); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// DailySignupStatsRPC вызывает серверную функцию daily_signup_stats()
// и возвращает дневной ряд регистраций с ключами YYYY-MM-DD.
func (s *Storage) DailySignupStatsRPC(ctx context.Context) ([]models.GrowthPoint, error) {
	const op = "storage.DailySignupStatsRPC"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT day, count FROM daily_signup_stats()`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []models.GrowthPoint
	for rows.Next() {
		var day time.Time
		var count int
		if err := rows.Scan(&day, &count); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, models.GrowthPoint{Label: day.Format("2006-01-02"), Count: count})
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
