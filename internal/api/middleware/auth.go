// auth.go — middleware аутентификации по заголовку X-Token.
// Разрешает токен в пользователя через AuthService и кладёт hex-идентификатор
// пользователя в контекст запроса. Без валидного токена — 401.
package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/bigkaa/gofilesmanager/internal/api/apierrors"
	"github.com/bigkaa/gofilesmanager/internal/domain/model"
	"github.com/bigkaa/gofilesmanager/internal/service"
)

// HeaderToken — заголовок токена сессии.
const HeaderToken = "X-Token"

// contextKey — тип для ключей контекста (избегаем коллизий).
type contextKey string

// contextKeyUserID — идентификатор пользователя в контексте запроса.
const contextKeyUserID contextKey = "user_id"

// TokenResolver — разрешение токена в пользователя.
// Реализуется service.AuthService.
type TokenResolver interface {
	ResolveUser(ctx context.Context, token string) (*model.User, error)
}

// XTokenAuth возвращает middleware, требующий валидный X-Token.
// Идентификатор разрешённого пользователя доступен через UserIDFromContext.
func XTokenAuth(resolver TokenResolver, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := r.Header.Get(HeaderToken)

			user, err := resolver.ResolveUser(r.Context(), token)
			if err != nil {
				if !errors.Is(err, service.ErrUnauthorized) {
					logger.Error("Ошибка разрешения токена",
						slog.String("path", r.URL.Path),
						slog.String("error", err.Error()),
					)
					apierrors.InternalError(w)
					return
				}
				apierrors.Unauthorized(w)
				return
			}

			ctx := context.WithValue(r.Context(), contextKeyUserID, user.ID.Hex())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserIDFromContext возвращает идентификатор пользователя из контекста.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(contextKeyUserID).(string)
	return id, ok
}
