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

	"github.com/magabrotheeeer/admin-dashboard/internal/lib/plan"
	"github.com/magabrotheeeer/admin-dashboard/internal/models"
	"github.com/magabrotheeeer/admin-dashboard/internal/storage/repository"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) GetProfileByEmail(ctx context.Context, email string) (*models.Profile, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Profile), args.Error(1)
}

func (m *RepoMock) GetLatestSubscriptionByUserID(ctx context.Context, userID string) (*models.Subscription, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Subscription), args.Error(1)
}

func (m *RepoMock) GetSubscriptionByID(ctx context.Context, id string) (*models.Subscription, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Subscription), args.Error(1)
}

func (m *RepoMock) CreateSubscription(ctx context.Context, sub models.Subscription) (string, error) {
	args := m.Called(ctx, sub)
	return args.String(0), args.Error(1)
}

func (m *RepoMock) RenewSubscription(ctx context.Context, id string, newEnd time.Time) (int, error) {
	args := m.Called(ctx, id, newEnd)
	return args.Int(0), args.Error(1)
}

func (m *RepoMock) RewriteSubscription(ctx context.Context, id, productID, platform string, newEnd time.Time) (int, error) {
	args := m.Called(ctx, id, productID, platform, newEnd)
	return args.Int(0), args.Error(1)
}

func (m *RepoMock) ExpireSubscription(ctx context.Context, id string) (int, error) {
	args := m.Called(ctx, id)
	return args.Int(0), args.Error(1)
}

func (m *RepoMock) ListSubscriptionRows(ctx context.Context) ([]*models.SubscriptionRow, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.SubscriptionRow), args.Error(1)
}

type AuditMock struct{ mock.Mock }

func (m *AuditMock) Publish(event models.AuditEvent) error {
	return m.Called(event).Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func newService(repo *RepoMock, audit *AuditMock, now time.Time) *SubscriptionService {
	svc := NewSubscriptionService(repo, audit, newNoopLogger())
	svc.now = func() time.Time { return now }
	return svc
}

func TestSubscriptionService_Create_NewUser(t *testing.T) {
	now := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)
	profile := &models.Profile{ID: "user-1", Email: "user@example.com"}

	repo := new(RepoMock)
	audit := new(AuditMock)
	svc := newService(repo, audit, now)

	repo.On("GetProfileByEmail", mock.Anything, "user@example.com").Return(profile, nil).Once()
	repo.On("GetLatestSubscriptionByUserID", mock.Anything, "user-1").
		Return(nil, repository.ErrSubscriptionNotFound).Once()
	repo.On("CreateSubscription", mock.Anything, mock.MatchedBy(func(sub models.Subscription) bool {
		return sub.UserID == "user-1" &&
			sub.ProductID == "yearly" &&
			sub.Status == "active" &&
			sub.Provider == "manual" &&
			!sub.AutoRenew &&
			sub.CurrentPeriodStart.Equal(now) &&
			sub.CurrentPeriodEnd.Equal(now.AddDate(0, 12, 0))
	})).Return("sub-42", nil).Once()
	audit.On("Publish", mock.Anything).Return(nil).Once()

	got, err := svc.Create(context.Background(), "admin@example.com", models.DummySubscriptionCreate{
		Email:    "user@example.com",
		Plan:     "yearly",
		Platform: "ios",
	})

	require.NoError(t, err)
	assert.Equal(t, "sub-42", got.ID)
	assert.False(t, got.Renewed)
	repo.AssertExpectations(t)
	audit.AssertExpectations(t)
}

func TestSubscriptionService_Create_RenewalAnchor(t *testing.T) {
	now := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		periodEnd  time.Time
		plannedEnd time.Time
	}{
		{
			// истёкшая вчера подписка продлевается от текущего момента
			name:       "продление истёкшей подписки от now",
			periodEnd:  now.AddDate(0, 0, -1),
			plannedEnd: now.AddDate(0, 1, 0),
		},
		{
			// действующая подписка продлевается от конца периода
			name:       "продление действующей подписки от конца периода",
			periodEnd:  now.AddDate(0, 1, 0),
			plannedEnd: now.AddDate(0, 1, 0).AddDate(0, 1, 0),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profile := &models.Profile{ID: "user-1", Email: "user@example.com"}
			existing := &models.Subscription{ID: "sub-1", UserID: "user-1", CurrentPeriodEnd: tt.periodEnd}

			repo := new(RepoMock)
			audit := new(AuditMock)
			svc := newService(repo, audit, now)

			repo.On("GetProfileByEmail", mock.Anything, "user@example.com").Return(profile, nil).Once()
			repo.On("GetLatestSubscriptionByUserID", mock.Anything, "user-1").Return(existing, nil).Once()
			repo.On("RenewSubscription", mock.Anything, "sub-1", tt.plannedEnd).Return(1, nil).Once()
			audit.On("Publish", mock.Anything).Return(nil).Once()

			got, err := svc.Create(context.Background(), "admin@example.com", models.DummySubscriptionCreate{
				Email:    "user@example.com",
				Plan:     "monthly",
				Platform: "ios",
			})

			require.NoError(t, err)
			assert.True(t, got.Renewed)
			assert.Equal(t, "sub-1", got.ID)
			repo.AssertExpectations(t)
		})
	}
}

func TestSubscriptionService_Create_UserNotFound(t *testing.T) {
	repo := new(RepoMock)
	audit := new(AuditMock)
	svc := newService(repo, audit, time.Now())

	repo.On("GetProfileByEmail", mock.Anything, "missing@example.com").
		Return(nil, repository.ErrProfileNotFound).Once()

	_, err := svc.Create(context.Background(), "admin@example.com", models.DummySubscriptionCreate{
		Email:    "missing@example.com",
		Plan:     "monthly",
		Platform: "ios",
	})

	require.ErrorIs(t, err, repository.ErrProfileNotFound)
	repo.AssertExpectations(t)
	audit.AssertNotCalled(t, "Publish", mock.Anything)
}

func TestSubscriptionService_Create_UnknownPlan(t *testing.T) {
	repo := new(RepoMock)
	audit := new(AuditMock)
	svc := newService(repo, audit, time.Now())

	_, err := svc.Create(context.Background(), "admin@example.com", models.DummySubscriptionCreate{
		Email:    "user@example.com",
		Plan:     "lifetime",
		Platform: "ios",
	})

	require.ErrorIs(t, err, plan.ErrUnknownPlan)
	repo.AssertNotCalled(t, "GetProfileByEmail", mock.Anything, mock.Anything)
}

func TestSubscriptionService_Create_AuditFailureDoesNotAbort(t *testing.T) {
	now := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)
	profile := &models.Profile{ID: "user-1", Email: "user@example.com"}

	repo := new(RepoMock)
	audit := new(AuditMock)
	svc := newService(repo, audit, now)

	repo.On("GetProfileByEmail", mock.Anything, "user@example.com").Return(profile, nil).Once()
	repo.On("GetLatestSubscriptionByUserID", mock.Anything, "user-1").
		Return(nil, repository.ErrSubscriptionNotFound).Once()
	repo.On("CreateSubscription", mock.Anything, mock.Anything).Return("sub-7", nil).Once()
	audit.On("Publish", mock.Anything).Return(errors.New("rabbit down")).Once()

	got, err := svc.Create(context.Background(), "admin@example.com", models.DummySubscriptionCreate{
		Email:    "user@example.com",
		Plan:     "weekly",
		Platform: "android",
	})

	require.NoError(t, err)
	assert.Equal(t, "sub-7", got.ID)
}

func TestSubscriptionService_Update(t *testing.T) {
	now := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)
	futureEnd := now.AddDate(0, 0, 10)
	sub := &models.Subscription{ID: "sub-1", ProductID: "monthly", CurrentPeriodEnd: futureEnd}

	repo := new(RepoMock)
	audit := new(AuditMock)
	svc := newService(repo, audit, now)

	repo.On("GetSubscriptionByID", mock.Anything, "sub-1").Return(sub, nil).Once()
	repo.On("RewriteSubscription", mock.Anything, "sub-1", "yearly", "web", futureEnd.AddDate(0, 12, 0)).
		Return(1, nil).Once()
	audit.On("Publish", mock.Anything).Return(nil).Once()

	err := svc.Update(context.Background(), "admin@example.com", "sub-1", models.DummySubscriptionUpdate{
		Plan:     "yearly",
		Platform: "web",
	})

	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestSubscriptionService_Update_NotFound(t *testing.T) {
	repo := new(RepoMock)
	audit := new(AuditMock)
	svc := newService(repo, audit, time.Now())

	repo.On("GetSubscriptionByID", mock.Anything, "missing").
		Return(nil, repository.ErrSubscriptionNotFound).Once()

	err := svc.Update(context.Background(), "admin@example.com", "missing", models.DummySubscriptionUpdate{
		Plan:     "monthly",
		Platform: "web",
	})

	require.ErrorIs(t, err, repository.ErrSubscriptionNotFound)
}

func TestSubscriptionService_Expire(t *testing.T) {
	repo := new(RepoMock)
	audit := new(AuditMock)
	svc := newService(repo, audit, time.Now())

	repo.On("ExpireSubscription", mock.Anything, "sub-1").Return(1, nil).Once()
	audit.On("Publish", mock.Anything).Return(nil).Once()

	require.NoError(t, svc.Expire(context.Background(), "admin@example.com", "sub-1"))
	repo.AssertExpectations(t)
}

func TestSubscriptionService_Expire_NotFound(t *testing.T) {
	repo := new(RepoMock)
	audit := new(AuditMock)
	svc := newService(repo, audit, time.Now())

	repo.On("ExpireSubscription", mock.Anything, "missing").Return(0, nil).Once()

	err := svc.Expire(context.Background(), "admin@example.com", "missing")
	require.ErrorIs(t, err, repository.ErrSubscriptionNotFound)
	audit.AssertNotCalled(t, "Publish", mock.Anything)
}
