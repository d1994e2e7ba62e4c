// auth.go — middleware аутентификации API Module.
// Извлекает Bearer token, верифицирует его удалённо через Supabase Auth
// (каждый запрос — без локального кэша), подтягивает роль из таблицы ролей
// и помещает AuthClaims в контекст запроса.
package middleware

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	apierrors "github.com/minedash/api-module/internal/api/errors"
	"github.com/minedash/api-module/internal/domain/rbac"
	"github.com/minedash/api-module/internal/supabase"
)

// contextKey — тип для ключей контекста (избегаем коллизий).
type contextKey string

const (
	// ContextKeyClaims — извлечённые claims в контексте запроса.
	ContextKeyClaims contextKey = "auth_claims"
)

// AuthClaims — данные аутентифицированного пользователя.
// Помещаются в контекст запроса для downstream handlers.
type AuthClaims struct {
	// UserID — идентификатор пользователя в Supabase Auth.
	UserID string
	// Email — электронная почта.
	Email string
	// Role — роль из таблицы ролей (admin или worker).
	Role string
}

// IsAdmin проверяет, имеет ли пользователь права администратора.
func (c *AuthClaims) IsAdmin() bool {
	return rbac.CanManageUsers(c.Role)
}

// TokenVerifier — интерфейс верификации токенов и получения ролей.
// Реализуется supabase.Client.
type TokenVerifier interface {
	// GetTokenUser верифицирует пользовательский токен.
	GetTokenUser(ctx context.Context, accessToken string) (*supabase.AuthUser, error)
	// GetRole возвращает назначение роли пользователя.
	GetRole(ctx context.Context, userID string) (*supabase.UserRoleRow, error)
}

// Auth — middleware аутентификации через Supabase.
type Auth struct {
	verifier TokenVerifier
	logger   *slog.Logger
}

// NewAuth создаёт middleware аутентификации.
// verifier — клиент Supabase (или подмена в тестах).
func NewAuth(verifier TokenVerifier, logger *slog.Logger) *Auth {
	return &Auth{
		verifier: verifier,
		logger:   logger.With(slog.String("component", "auth")),
	}
}

// Middleware возвращает HTTP middleware аутентификации.
// Извлекает Bearer token, верифицирует его через Supabase Auth,
// определяет роль и помещает AuthClaims в контекст.
// Токен верифицируется удалённо при каждом запросе: отзыв пользователя
// в Supabase действует немедленно.
func (a *Auth) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Извлекаем Bearer token
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				apierrors.Unauthorized(w, "Отсутствует заголовок Authorization")
				return
			}

			// Строго "Bearer <token>", без вариаций регистра
			if !strings.HasPrefix(authHeader, "Bearer ") {
				apierrors.Unauthorized(w, "Неверный формат Authorization: ожидается Bearer <token>")
				return
			}

			tokenString := strings.TrimPrefix(authHeader, "Bearer ")
			if tokenString == "" {
				apierrors.Unauthorized(w, "Пустой Bearer token")
				return
			}

			// Верификация токена через Supabase Auth
			user, err := a.verifier.GetTokenUser(r.Context(), tokenString)
			if err != nil {
				if errors.Is(err, supabase.ErrInvalidToken) {
					a.logger.Debug("Токен отклонён",
						slog.String("remote_addr", r.RemoteAddr),
					)
					apierrors.Unauthorized(w, "Невалидный или просроченный токен")
					return
				}
				a.logger.Error("Ошибка верификации токена",
					slog.String("error", err.Error()),
				)
				apierrors.IDPUnavailable(w, "Сервис аутентификации недоступен")
				return
			}
			if user.ID == "" {
				apierrors.Unauthorized(w, "Токен не связан с пользователем")
				return
			}

			claims := &AuthClaims{
				UserID: user.ID,
				Email:  user.Email,
				Role:   a.resolveRole(r.Context(), user.ID),
			}

			// Помещаем claims в контекст
			ctx := context.WithValue(r.Context(), ContextKeyClaims, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// resolveRole возвращает роль пользователя из таблицы ролей.
// Отсутствующая строка или ошибка чтения — роль по умолчанию:
// пользователь без назначения никогда не получает admin.
func (a *Auth) resolveRole(ctx context.Context, userID string) string {
	row, err := a.verifier.GetRole(ctx, userID)
	if err != nil {
		if !errors.Is(err, supabase.ErrNotFound) {
			a.logger.Warn("Ошибка получения роли, используется роль по умолчанию",
				slog.String("user_id", userID),
				slog.String("error", err.Error()),
			)
		}
		return rbac.DefaultRole
	}

	if !rbac.IsValidRole(row.Role) {
		a.logger.Warn("Недопустимая роль в таблице ролей, используется роль по умолчанию",
			slog.String("user_id", userID),
			slog.String("role", row.Role),
		)
		return rbac.DefaultRole
	}

	return row.Role
}

// --- RBAC middleware helpers ---

// RequireAdmin возвращает middleware, требующий роль администратора.
// Должен использоваться ПОСЛЕ Auth.Middleware().
func RequireAdmin() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := ClaimsFromContext(r.Context())
			if claims == nil {
				apierrors.Unauthorized(w, "Отсутствуют claims в контексте")
				return
			}

			if !claims.IsAdmin() {
				apierrors.Forbidden(w, fmt.Sprintf("Недостаточно прав: требуется роль %s", rbac.RoleAdmin))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// ClaimsFromContext извлекает AuthClaims из контекста запроса.
// Возвращает nil, если claims не найдены.
func ClaimsFromContext(ctx context.Context) *AuthClaims {
	claims, _ := ctx.Value(ContextKeyClaims).(*AuthClaims)
	return claims
}
