// Package repository реализует хранилище данных на основе PostgreSQL
// для админ-панели: чтение и изменение профилей, подписок и журнала
// событий, а также вызов серверных функций статистики.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	// Регистрация драйвера pgx для использования с database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"
)

// Ошибки промахов поиска. Наверх они уходят как есть, чтобы обработчики
// могли отличить «не найдено» от ошибки базы.
var (
	// ErrProfileNotFound профиль не найден.
	ErrProfileNotFound = errors.New("profile not found")
	// ErrSubscriptionNotFound подписка не найдена.
	ErrSubscriptionNotFound = errors.New("subscription not found")
)

// Storage инкапсулирует соединение с базой данных PostgreSQL.
// Клиент конструируется один раз при старте процесса и явно передаётся
// в сервисы и обработчики.
type Storage struct {
	DB *sql.DB
}

// New создаёт подключение к PostgreSQL.
func New(storageConnectionString string) (*Storage, error) {
	const op = "storage.New"

	db, err := sql.Open("pgx", storageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = db.PingContext(context.Background()); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{
		DB: db,
	}, nil
}

// CheckDatabaseReady проверяет готовность базы данных.
func (s *Storage) CheckDatabaseReady(ctx context.Context) error {
	var exists bool
	err := s.DB.QueryRowContext(ctx, `SELECT EXISTS (
        SELECT FROM information_schema.tables
        WHERE table_name = 'profiles'
    )`).Scan(&exists)
	if err != nil || !exists {
		return fmt.Errorf("required table profiles missing or query error: %w", err)
	}
	return nil
}
