// Package otpstore хранит bcrypt-хэши одноразовых кодов входа в Redis
// с ограниченным временем жизни. Это не кеш чтения: каждый код
// записывается один раз и удаляется при первой успешной проверке.
package otpstore

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/magabrotheeeer/admin-dashboard/internal/config"
)

// Store инкапсулирует подключение к Redis.
type Store struct {
	Db *redis.Client
}

// InitServer подключается к Redis и проверяет соединение.
func InitServer(ctx context.Context, cfg config.RedisConnection) (*Store, error) {
	const op = "otpstore.InitServer"
	db := redis.NewClient(&redis.Options{
		Addr:         cfg.AddressRedis,
		Password:     cfg.Password,
		DB:           cfg.DB,
		Username:     cfg.User,
		MaxRetries:   cfg.MaxRetries,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.TimeoutRedis,
		WriteTimeout: cfg.TimeoutRedis,
	})

	if err := db.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &Store{Db: db}, nil
}

func key(email string) string {
	return "otp:" + email
}

// SaveCode сохраняет хэш кода для почты с временем жизни ttl.
// Повторная отправка кода перезаписывает предыдущий.
func (s *Store) SaveCode(ctx context.Context, email, hash string, ttl time.Duration) error {
	const op = "otpstore.SaveCode"
	if err := s.Db.Set(ctx, key(email), hash, ttl).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// GetCode возвращает сохранённый хэш кода. Второе значение false, если код
// не запрашивался или уже истёк.
func (s *Store) GetCode(ctx context.Context, email string) (string, bool, error) {
	const op = "otpstore.GetCode"
	val, err := s.Db.Get(ctx, key(email)).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("%s: %w", op, err)
	}
	return val, true, nil
}

// DeleteCode удаляет код: каждый код одноразовый.
func (s *Store) DeleteCode(ctx context.Context, email string) error {
	const op = "otpstore.DeleteCode"
	if err := s.Db.Del(ctx, key(email)).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
