// Package services содержит бизнес-логику управления пользователями:
// постраничный список с поиском, редактирование и удаление профилей.
package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/admin-dashboard/internal/lib/sl"
	"github.com/magabrotheeeer/admin-dashboard/internal/models"
	"github.com/magabrotheeeer/admin-dashboard/internal/storage/repository"
)

// DefaultPageSize размер страницы списка пользователей по умолчанию.
const DefaultPageSize = 20

// UserRepository определяет методы для работы с профилями в хранилище.
type UserRepository interface {
	// CountProfilesMatching возвращает число профилей под поисковую подстроку.
	CountProfilesMatching(ctx context.Context, search string) (int, error)
	// ListProfilesPage возвращает страницу профилей, новые первыми.
	ListProfilesPage(ctx context.Context, search string, limit, offset int) ([]*models.Profile, error)
	// UpdateProfile перезаписывает редактируемые поля профиля.
	UpdateProfile(ctx context.Context, id string, req models.DummyProfileEdit) (int, error)
	// DeleteProfile удаляет профиль.
	DeleteProfile(ctx context.Context, id string) (int, error)
}

// AuditPublisher публикует события аудита действий администратора.
type AuditPublisher interface {
	Publish(event models.AuditEvent) error
}

// UserService реализует бизнес-логику управления пользователями.
type UserService struct {
	repo  UserRepository
	audit AuditPublisher
	log   *slog.Logger
}

// NewUserService создает новый экземпляр UserService.
func NewUserService(repo UserRepository, audit AuditPublisher, log *slog.Logger) *UserService {
	return &UserService{
		repo:  repo,
		audit: audit,
		log:   log,
	}
}

// List возвращает страницу профилей. Номер страницы зажимается в границы
// [1, totalPages], ответ содержит уже зажатое значение. Ошибка чтения
// отдаётся как пустая страница: для списка важнее доступность, различие
// между пустым результатом и сбоем остаётся в логах.
func (s *UserService) List(ctx context.Context, page, pageSize int, search string) (*models.ProfilePage, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}

	count, err := s.repo.CountProfilesMatching(ctx, search)
	if err != nil {
		s.log.Warn("query failed, defaulting to empty",
			slog.String("query", "count_profiles"), sl.Err(err))
		return &models.ProfilePage{Profiles: []*models.Profile{}, Page: 1, PageSize: pageSize, Search: search}, nil
	}

	totalPages := (count + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}
	if page > totalPages {
		page = totalPages
	}
	offset := (page - 1) * pageSize

	profiles, err := s.repo.ListProfilesPage(ctx, search, pageSize, offset)
	if err != nil {
		s.log.Warn("query failed, defaulting to empty",
			slog.String("query", "list_profiles"), sl.Err(err))
		return &models.ProfilePage{Profiles: []*models.Profile{}, Page: 1, PageSize: pageSize, Search: search}, nil
	}
	if profiles == nil {
		profiles = []*models.Profile{}
	}

	return &models.ProfilePage{
		Profiles: profiles,
		Count:    count,
		Page:     page,
		PageSize: pageSize,
		Search:   search,
	}, nil
}

// Edit перезаписывает редактируемые поля профиля.
func (s *UserService) Edit(ctx context.Context, actor, id string, req models.DummyProfileEdit) error {
	count, err := s.repo.UpdateProfile(ctx, id, req)
	if err != nil {
		return err
	}
	if count == 0 {
		return repository.ErrProfileNotFound
	}
	s.log.Info("updated profile", slog.String("id", id))
	s.publishAudit("user.edit", actor, id)
	return nil
}

// Delete удаляет профиль.
func (s *UserService) Delete(ctx context.Context, actor, id string) error {
	count, err := s.repo.DeleteProfile(ctx, id)
	if err != nil {
		return err
	}
	if count == 0 {
		return repository.ErrProfileNotFound
	}
	s.log.Info("deleted profile", slog.String("id", id))
	s.publishAudit("user.delete", actor, id)
	return nil
}

func (s *UserService) publishAudit(action, actor, subjectID string) {
	event := models.AuditEvent{
		Action:     action,
		ActorEmail: actor,
		SubjectID:  subjectID,
		OccurredAt: time.Now(),
	}
	if err := s.audit.Publish(event); err != nil {
		s.log.Warn("failed to publish audit event", slog.String("action", action), sl.Err(err))
	}
}
