// Package services содержит бизнес-логику управления подписками:
// создание с продлением от конца периода, изменение тарифа и платформы,
// пометку истёкшей и список для страницы подписок.
package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/admin-dashboard/internal/lib/plan"
	"github.com/magabrotheeeer/admin-dashboard/internal/lib/sl"
	"github.com/magabrotheeeer/admin-dashboard/internal/models"
	"github.com/magabrotheeeer/admin-dashboard/internal/storage/repository"
)

// SubscriptionRepository определяет методы для работы с подписками в хранилище.
type SubscriptionRepository interface {
	// GetProfileByEmail возвращает профиль по почте.
	GetProfileByEmail(ctx context.Context, email string) (*models.Profile, error)
	// GetLatestSubscriptionByUserID возвращает подписку с самой поздней датой окончания.
	GetLatestSubscriptionByUserID(ctx context.Context, userID string) (*models.Subscription, error)
	// GetSubscriptionByID возвращает подписку по ID.
	GetSubscriptionByID(ctx context.Context, id string) (*models.Subscription, error)
	// CreateSubscription добавляет новую подписку и возвращает её ID.
	CreateSubscription(ctx context.Context, sub models.Subscription) (string, error)
	// RenewSubscription переносит дату окончания периода и активирует подписку.
	RenewSubscription(ctx context.Context, id string, newEnd time.Time) (int, error)
	// RewriteSubscription перезаписывает тариф и платформу и переносит дату окончания.
	RewriteSubscription(ctx context.Context, id, productID, platform string, newEnd time.Time) (int, error)
	// ExpireSubscription помечает подписку истёкшей.
	ExpireSubscription(ctx context.Context, id string) (int, error)
	// ListSubscriptionRows возвращает подписки с данными владельцев.
	ListSubscriptionRows(ctx context.Context) ([]*models.SubscriptionRow, error)
}

// AuditPublisher публикует события аудита действий администратора.
type AuditPublisher interface {
	Publish(event models.AuditEvent) error
}

// CreateResult результат действия создания: либо вставлена новая подписка,
// либо продлена существующая.
type CreateResult struct {
	ID      string `json:"id"`
	Renewed bool   `json:"renewed"`
}

// SubscriptionService реализует бизнес-логику работы с подписками.
type SubscriptionService struct {
	repo  SubscriptionRepository
	audit AuditPublisher
	log   *slog.Logger
	now   func() time.Time
}

// NewSubscriptionService создает новый экземпляр SubscriptionService.
func NewSubscriptionService(repo SubscriptionRepository, audit AuditPublisher, log *slog.Logger) *SubscriptionService {
	return &SubscriptionService{
		repo:  repo,
		audit: audit,
		log:   log,
		now:   time.Now,
	}
}

// Create оформляет подписку по почте пользователя. Если у пользователя уже
// есть запись подписки, действие трактуется как продление: новая дата
// окончания считается от конца текущего периода, если он ещё в будущем,
// иначе от текущего момента. Если записи нет, вставляется новая подписка
// с периодом от текущего момента.
func (s *SubscriptionService) Create(ctx context.Context, actor string, req models.DummySubscriptionCreate) (*CreateResult, error) {
	p, err := plan.Parse(req.Plan)
	if err != nil {
		return nil, err
	}

	profile, err := s.repo.GetProfileByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}

	now := s.now()
	existing, err := s.repo.GetLatestSubscriptionByUserID(ctx, profile.ID)
	if err != nil && !errors.Is(err, repository.ErrSubscriptionNotFound) {
		return nil, err
	}

	if existing != nil {
		newEnd := p.Extend(plan.Anchor(now, existing.CurrentPeriodEnd))
		if _, err := s.repo.RenewSubscription(ctx, existing.ID, newEnd); err != nil {
			return nil, err
		}
		s.log.Info("renewed subscription",
			slog.String("id", existing.ID), slog.Time("new_end", newEnd))
		s.publishAudit("subscription.renew", actor, existing.ID)
		return &CreateResult{ID: existing.ID, Renewed: true}, nil
	}

	sub := models.Subscription{
		UserID:             profile.ID,
		ProductID:          string(p),
		Platform:           req.Platform,
		Status:             "active",
		Provider:           "manual",
		AutoRenew:          false,
		CurrentPeriodStart: now,
		CurrentPeriodEnd:   p.Extend(now),
	}
	id, err := s.repo.CreateSubscription(ctx, sub)
	if err != nil {
		return nil, err
	}
	s.log.Info("created new subscription", slog.String("id", id))
	s.publishAudit("subscription.create", actor, id)
	return &CreateResult{ID: id}, nil
}

// Update перезаписывает тариф и платформу подписки и пересчитывает дату
// окончания от того же якоря, что и продление: конец периода в будущем
// или текущий момент.
func (s *SubscriptionService) Update(ctx context.Context, actor, id string, req models.DummySubscriptionUpdate) error {
	p, err := plan.Parse(req.Plan)
	if err != nil {
		return err
	}

	sub, err := s.repo.GetSubscriptionByID(ctx, id)
	if err != nil {
		return err
	}

	newEnd := p.Extend(plan.Anchor(s.now(), sub.CurrentPeriodEnd))
	if _, err := s.repo.RewriteSubscription(ctx, id, string(p), req.Platform, newEnd); err != nil {
		return err
	}
	s.log.Info("updated subscription", slog.String("id", id), slog.Time("new_end", newEnd))
	s.publishAudit("subscription.update", actor, id)
	return nil
}

// Expire помечает подписку истёкшей, даты периода не трогаются.
func (s *SubscriptionService) Expire(ctx context.Context, actor, id string) error {
	count, err := s.repo.ExpireSubscription(ctx, id)
	if err != nil {
		return err
	}
	if count == 0 {
		return repository.ErrSubscriptionNotFound
	}
	s.log.Info("expired subscription", slog.String("id", id))
	s.publishAudit("subscription.expire", actor, id)
	return nil
}

// List возвращает подписки с данными владельцев, новые первыми.
func (s *SubscriptionService) List(ctx context.Context) ([]*models.SubscriptionRow, error) {
	return s.repo.ListSubscriptionRows(ctx)
}

// publishAudit отправляет событие аудита. Ошибка публикации не отменяет
// действие и только логируется.
func (s *SubscriptionService) publishAudit(action, actor, subjectID string) {
	event := models.AuditEvent{
		Action:     action,
		ActorEmail: actor,
		SubjectID:  subjectID,
		OccurredAt: s.now(),
	}
	if err := s.audit.Publish(event); err != nil {
		s.log.Warn("failed to publish audit event", slog.String("action", action), sl.Err(err))
	}
}
