// Package services собирает данные дашборда и страницы аналитики.
// Агрегаты считаются заново на каждый запрос и нигде не сохраняются,
// независимые чтения из хранилища выполняются параллельно.
package services

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/magabrotheeeer/admin-dashboard/internal/lib/labels"
	"github.com/magabrotheeeer/admin-dashboard/internal/lib/sl"
	"github.com/magabrotheeeer/admin-dashboard/internal/lib/timeseries"
	"github.com/magabrotheeeer/admin-dashboard/internal/models"
	"github.com/magabrotheeeer/admin-dashboard/internal/stats"
)

// signupWindowDays размер скользящего окна дневного ряда регистраций.
const signupWindowDays = 30

// AnalyticsRepository определяет чтения из хранилища для страниц аналитики.
type AnalyticsRepository interface {
	CountProfiles(ctx context.Context) (int, error)
	CountProfilesCreatedSince(ctx context.Context, since time.Time) (int, error)
	SourceStatsRPC(ctx context.Context) ([]models.SourcePoint, error)
	DailySignupStatsRPC(ctx context.Context) ([]models.GrowthPoint, error)
	ListAllProfiles(ctx context.Context) ([]*models.Profile, error)
	ListAllSubscriptions(ctx context.Context) ([]*models.Subscription, error)
	ListSubscriptionEvents(ctx context.Context) ([]*models.SubscriptionEvent, error)
}

// AnalyticsService реализует сборку данных дашборда и аналитики.
type AnalyticsService struct {
	repo AnalyticsRepository
	log  *slog.Logger
	now  func() time.Time
}

// NewAnalyticsService создает новый экземпляр AnalyticsService.
func NewAnalyticsService(repo AnalyticsRepository, log *slog.Logger) *AnalyticsService {
	return &AnalyticsService{
		repo: repo,
		log:  log,
		now:  time.Now,
	}
}

// Dashboard собирает данные главной страницы. Четыре независимых чтения
// выполняются параллельно; упавшее чтение не роняет страницу целиком,
// его место занимает нулевое значение, сбой остаётся в логах.
func (s *AnalyticsService) Dashboard(ctx context.Context) (*models.DashboardStats, error) {
	now := s.now()
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	result := &models.DashboardStats{
		SourceStats: []models.SourcePoint{},
		DailyStats:  []models.GrowthPoint{},
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		count, err := s.repo.CountProfilesCreatedSince(gctx, todayStart)
		if err != nil {
			s.logDefault("today_count", err)
			return nil
		}
		result.TodayCount = count
		return nil
	})
	g.Go(func() error {
		count, err := s.repo.CountProfiles(gctx)
		if err != nil {
			s.logDefault("total_users", err)
			return nil
		}
		result.TotalUsers = count
		return nil
	})
	g.Go(func() error {
		points, err := s.repo.SourceStatsRPC(gctx)
		if err != nil {
			s.logDefault("source_stats", err)
			return nil
		}
		if points != nil {
			result.SourceStats = points
		}
		return nil
	})
	g.Go(func() error {
		points, err := s.repo.DailySignupStatsRPC(gctx)
		if err != nil {
			s.logDefault("daily_signup_stats", err)
			return nil
		}
		if points != nil {
			result.DailyStats = points
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return result, nil
}

// Analytics собирает данные страницы аналитики: три чтения выполняются
// параллельно, затем агрегаты считаются в памяти. Как и на дашборде,
// упавшее чтение заменяется пустым набором и не трогает соседние.
func (s *AnalyticsService) Analytics(ctx context.Context) (*models.AnalyticsStats, error) {
	var (
		profiles []*models.Profile
		subs     []*models.Subscription
		events   []*models.SubscriptionEvent
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		list, err := s.repo.ListAllProfiles(gctx)
		if err != nil {
			s.logDefault("profiles", err)
			return nil
		}
		profiles = list
		return nil
	})
	g.Go(func() error {
		list, err := s.repo.ListAllSubscriptions(gctx)
		if err != nil {
			s.logDefault("subscriptions", err)
			return nil
		}
		subs = list
		return nil
	})
	g.Go(func() error {
		list, err := s.repo.ListSubscriptionEvents(gctx)
		if err != nil {
			s.logDefault("subscription_events", err)
			return nil
		}
		events = list
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	now := s.now()
	signupTimes := make([]time.Time, 0, len(profiles))
	genderLabels := make([]string, 0, len(profiles))
	for _, p := range profiles {
		signupTimes = append(signupTimes, p.CreatedAt)
		genderLabels = append(genderLabels, labels.Gender(labels.FromPtr(p.Gender)))
	}

	platformLabels := make([]string, 0, len(subs))
	statusLabels := make([]string, 0, len(subs))
	for _, sub := range subs {
		platformLabels = append(platformLabels, labels.Generic(sub.Platform))
		statusLabels = append(statusLabels, labels.Generic(sub.Status))
	}

	return &models.AnalyticsStats{
		Sources:       stats.SourceStats(profiles),
		AgeBuckets:    stats.AgeBucketStats(profiles),
		Goals:         stats.GoalStats(profiles),
		EventTypes:    stats.EventTypeStats(events),
		Genders:       stats.CountByLabel(genderLabels),
		Platforms:     stats.CountByLabel(platformLabels),
		Statuses:      stats.CountByLabel(statusLabels),
		SignupsDaily:  timeseries.RollingDays(now, signupWindowDays, signupTimes),
		SignupsYearly: timeseries.Yearly(now, signupTimes),
		KPIs:          stats.SubscriptionKPIs(subs, len(profiles), now),
	}, nil
}

// logDefault пишет предупреждение о подменённом чтении. Сообщение одно на
// все запросы, имя запроса уходит в атрибут.
func (s *AnalyticsService) logDefault(query string, err error) {
	s.log.Warn("query failed, defaulting to empty", slog.String("query", query), sl.Err(err))
}
