// auth.go — аутентификация по Basic-credentials и авторизация по токенам сессий.
// Токены — непрозрачные случайные идентификаторы, хранятся только в session
// store с фиксированным TTL (24 часа, без скользящего продления). Единственный
// владелец ключей сессий — этот сервис.
package service

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/bigkaa/gofilesmanager/internal/domain/model"
	"github.com/bigkaa/gofilesmanager/internal/repository"
	"github.com/bigkaa/gofilesmanager/internal/session"
)

// ErrUnauthorized — отказ аутентификации или авторизации.
// Причины не различаются: неизвестный email и неверный пароль дают один
// и тот же ответ, чтобы исключить перебор адресов.
var ErrUnauthorized = errors.New("не авторизован")

// sessionTTL — срок жизни сессии (86400 секунд от создания).
const sessionTTL = 86400 * time.Second

// Prometheus-метрики аутентификации.
var (
	loginsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fm_logins_total",
		Help: "Общее количество попыток входа (по результату).",
	}, []string{"status"})
)

// AuthService — выдача, проверка и отзыв токенов сессий.
type AuthService struct {
	users    repository.UserRepository
	sessions session.Store
	logger   *slog.Logger
}

// NewAuthService создаёт сервис аутентификации.
func NewAuthService(users repository.UserRepository, sessions session.Store, logger *slog.Logger) *AuthService {
	return &AuthService{
		users:    users,
		sessions: sessions,
		logger:   logger.With(slog.String("component", "auth_service")),
	}
}

// Login проверяет пару email/password и выдаёт свежий токен сессии.
// Digest пароля — legacy SHA-1 hex: формат задан сервисом регистрации,
// коллекция users здесь read-only.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	if email == "" || password == "" {
		loginsTotal.WithLabelValues("unauthorized").Inc()
		return "", ErrUnauthorized
	}

	user, err := s.users.GetByCredentials(ctx, email, sha1Hex(password))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			loginsTotal.WithLabelValues("unauthorized").Inc()
			return "", ErrUnauthorized
		}
		loginsTotal.WithLabelValues("error").Inc()
		return "", fmt.Errorf("ошибка поиска пользователя: %w", err)
	}

	token := uuid.New().String()
	if err := s.sessions.Set(ctx, token, user.ID.Hex(), sessionTTL); err != nil {
		loginsTotal.WithLabelValues("error").Inc()
		return "", fmt.Errorf("ошибка создания сессии: %w", err)
	}

	loginsTotal.WithLabelValues("success").Inc()
	s.logger.Info("Сессия создана",
		slog.String("user_id", user.ID.Hex()),
	)
	return token, nil
}

// Logout отзывает токен. ErrUnauthorized если токен неизвестен или истёк.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return ErrUnauthorized
	}

	if _, err := s.sessions.Get(ctx, token); err != nil {
		if errors.Is(err, session.ErrNoSession) {
			return ErrUnauthorized
		}
		return fmt.Errorf("ошибка чтения сессии: %w", err)
	}

	if err := s.sessions.Del(ctx, token); err != nil {
		if errors.Is(err, session.ErrNoSession) {
			return ErrUnauthorized
		}
		return fmt.Errorf("ошибка удаления сессии: %w", err)
	}

	s.logger.Info("Сессия отозвана")
	return nil
}

// ResolveUser разрешает токен в пользователя — общий примитив всех
// защищённых операций. TTL сессии не продлевается.
func (s *AuthService) ResolveUser(ctx context.Context, token string) (*model.User, error) {
	if token == "" {
		return nil, ErrUnauthorized
	}

	userID, err := s.sessions.Get(ctx, token)
	if err != nil {
		if errors.Is(err, session.ErrNoSession) {
			return nil, ErrUnauthorized
		}
		return nil, fmt.Errorf("ошибка чтения сессии: %w", err)
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		// Сессия пережила пользователя — токен недействителен
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, fmt.Errorf("ошибка чтения пользователя: %w", err)
	}
	return user, nil
}

// sha1Hex возвращает SHA-1 hex digest строки.
func sha1Hex(s string) string {
	sum := sha1.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}
