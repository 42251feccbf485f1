// Package admindashboard собирает приложение админ-панели: хранилище,
// миграции, Redis для кодов входа, очередь аудита, SMTP транспорт,
// сервисы и HTTP сервер.
package admindashboard

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/magabrotheeeer/admin-dashboard/internal/config"
	"github.com/magabrotheeeer/admin-dashboard/internal/lib/jwt"
	"github.com/magabrotheeeer/admin-dashboard/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/admin-dashboard/internal/lib/sl"
	"github.com/magabrotheeeer/admin-dashboard/internal/lib/smtp"
	"github.com/magabrotheeeer/admin-dashboard/internal/migrations"
	"github.com/magabrotheeeer/admin-dashboard/internal/otpstore"
	analyticsservice "github.com/magabrotheeeer/admin-dashboard/internal/services/analytics"
	authservice "github.com/magabrotheeeer/admin-dashboard/internal/services/auth"
	subservice "github.com/magabrotheeeer/admin-dashboard/internal/services/subscription"
	userservice "github.com/magabrotheeeer/admin-dashboard/internal/services/user"
	"github.com/magabrotheeeer/admin-dashboard/internal/storage/repository"
)

// App инкапсулирует HTTP сервер и внешние соединения приложения.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
	otp    *otpstore.Store
}

// New инициализирует приложение: подключения, миграции, сервисы и маршруты.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}

	codes, err := otpstore.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	audit := newAuditPublisher(cfg, logger)
	transport := smtp.NewTransport(cfg.SMTP, logger)
	maker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)

	authService := authservice.NewAuthService(db, codes, transport, maker, logger, cfg.CodeTTL, cfg.CodeLength)
	analyticsService := analyticsservice.NewAnalyticsService(db, logger)
	userService := userservice.NewUserService(db, audit, logger)
	subscriptionService := subservice.NewSubscriptionService(db, audit, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, cfg, db, maker,
		authService, analyticsService, userService, subscriptionService)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
		otp:    codes,
	}, nil
}

// newAuditPublisher подключается к очереди аудита. Пустой URL и недоступный
// брокер не мешают старту: аудит заменяется заглушкой.
func newAuditPublisher(cfg *config.Config, logger *slog.Logger) subservice.AuditPublisher {
	if cfg.RabbitMQ.URL == "" {
		logger.Info("audit queue is not configured, audit disabled")
		return rabbitmq.NoopPublisher{}
	}

	conn, err := rabbitmq.Connect(cfg.RabbitMQ.URL, 5, 2*time.Second)
	if err != nil {
		logger.Warn("failed to connect to RabbitMQ, audit disabled", sl.Err(err))
		return rabbitmq.NoopPublisher{}
	}
	publisher, err := rabbitmq.NewPublisher(conn, cfg.AuditQueue)
	if err != nil {
		logger.Warn("failed to set up audit queue, audit disabled", sl.Err(err))
		return rabbitmq.NoopPublisher{}
	}
	return publisher
}

// Run запускает HTTP сервер и останавливает его при отмене контекста.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		if closeErr := a.db.DB.Close(); closeErr != nil {
			a.logger.Warn("failed to close database", sl.Err(closeErr))
		}
		if closeErr := a.otp.Db.Close(); closeErr != nil {
			a.logger.Warn("failed to close redis client", sl.Err(closeErr))
		}
		return err
	}
}
