// Пакет session — хранилище сессий на Redis.
// Ключи auth_<token> → hex-идентификатор пользователя, с фиксированным TTL
// и без скользящего продления. Ключами владеет исключительно AuthService;
// другие компоненты сессии не создают и не удаляют.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrNoSession — токен отсутствует или истёк.
var ErrNoSession = errors.New("сессия не найдена")

// keyPrefix — префикс ключей сессий в Redis.
const keyPrefix = "auth_"

// pingTimeout — таймаут проверки доступности Redis.
const pingTimeout = 2 * time.Second

// Store — контракт хранилища сессий.
// Реализации обязаны быть потокобезопасными и не хранить состояние в процессе.
type Store interface {
	// Get возвращает идентификатор пользователя по токену или ErrNoSession.
	// TTL ключа не изменяется.
	Get(ctx context.Context, token string) (string, error)
	// Set сохраняет отображение token → userID с указанным TTL.
	Set(ctx context.Context, token, userID string, ttl time.Duration) error
	// Del удаляет сессию. ErrNoSession если ключа не было.
	Del(ctx context.Context, token string) error
}

// RedisStore — реализация Store на go-redis.
type RedisStore struct {
	rdb    *redis.Client
	logger *slog.Logger
}

// NewRedisStore создаёт хранилище сессий на указанном адресе Redis.
func NewRedisStore(addr string, logger *slog.Logger) *RedisStore {
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	return &RedisStore{
		rdb:    rdb,
		logger: logger.With(slog.String("component", "session_store")),
	}
}

// Get возвращает идентификатор пользователя по токену.
func (s *RedisStore) Get(ctx context.Context, token string) (string, error) {
	val, err := s.rdb.Get(ctx, keyPrefix+token).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrNoSession
		}
		return "", fmt.Errorf("ошибка чтения сессии: %w", err)
	}
	return val, nil
}

// Set сохраняет сессию с TTL (EX семантика Redis).
func (s *RedisStore) Set(ctx context.Context, token, userID string, ttl time.Duration) error {
	if err := s.rdb.Set(ctx, keyPrefix+token, userID, ttl).Err(); err != nil {
		return fmt.Errorf("ошибка записи сессии: %w", err)
	}
	return nil
}

// Del удаляет сессию.
func (s *RedisStore) Del(ctx context.Context, token string) error {
	n, err := s.rdb.Del(ctx, keyPrefix+token).Result()
	if err != nil {
		return fmt.Errorf("ошибка удаления сессии: %w", err)
	}
	if n == 0 {
		return ErrNoSession
	}
	return nil
}

// CheckReady проверяет доступность Redis для readiness probe.
// Возвращает статус ("ok", "fail") и сообщение.
func (s *RedisStore) CheckReady() (status, message string) {
	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := s.rdb.Ping(ctx).Err(); err != nil {
		return "fail", err.Error()
	}
	return "ok", ""
}

// Close закрывает подключение к Redis.
func (s *RedisStore) Close() error {
	return s.rdb.Close()
}
