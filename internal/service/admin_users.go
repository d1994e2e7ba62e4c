// Пакет service — бизнес-логика API Module.
// admin_users.go — сервис управления пользователями (Supabase Auth + таблица ролей).
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/minedash/api-module/internal/domain/model"
	"github.com/minedash/api-module/internal/domain/rbac"
	"github.com/minedash/api-module/internal/supabase"
)

// listUsersPageSize — размер страницы при чтении пользователей из Supabase.
const listUsersPageSize = 200

// AdminUserService — сервис управления пользователями.
// Объединяет пользователей Supabase Auth с назначениями из таблицы ролей.
type AdminUserService struct {
	sbClient *supabase.Client
	logger   *slog.Logger
}

// NewAdminUserService создаёт сервис управления пользователями.
func NewAdminUserService(sbClient *supabase.Client, logger *slog.Logger) *AdminUserService {
	return &AdminUserService{
		sbClient: sbClient,
		logger:   logger.With(slog.String("component", "admin_users_service")),
	}
}

// ListUsers возвращает всех пользователей с ролями.
// Пользователь без строки в таблице ролей получает роль по умолчанию.
func (s *AdminUserService) ListUsers(ctx context.Context) ([]*model.UserWithRole, error) {
	// Читаем пользователей постранично
	var authUsers []supabase.AuthUser
	for page := 1; ; page++ {
		batch, err := s.sbClient.ListUsers(ctx, page, listUsersPageSize)
		if err != nil {
			return nil, s.remoteErr("получение пользователей", err)
		}
		authUsers = append(authUsers, batch...)
		if len(batch) < listUsersPageSize {
			break
		}
	}

	// Читаем все назначения ролей одним запросом
	roleRows, err := s.sbClient.ListRoles(ctx)
	if err != nil {
		return nil, s.remoteErr("получение ролей", err)
	}

	roles := make(map[string]string, len(roleRows))
	for _, row := range roleRows {
		roles[row.UserID] = row.Role
	}

	users := make([]*model.UserWithRole, 0, len(authUsers))
	for _, au := range authUsers {
		role, ok := roles[au.ID]
		if !ok {
			role = rbac.DefaultRole
		}
		users = append(users, &model.UserWithRole{
			ID:           au.ID,
			Email:        au.Email,
			Role:         role,
			CreatedAt:    au.CreatedAt,
			LastSignInAt: au.LastSignInAt,
		})
	}

	return users, nil
}

// CreateUser создаёт пользователя в Supabase Auth и назначает ему роль.
// Если назначение роли не удалось — выполняется компенсирующее удаление
// пользователя, чтобы не оставить учётную запись без роли.
func (s *AdminUserService) CreateUser(ctx context.Context, email, password, role string) (*model.UserWithRole, error) {
	// Валидация входных данных: сначала наличие всех полей,
	// затем роль, затем длина пароля.
	if strings.TrimSpace(email) == "" {
		return nil, fmt.Errorf("%w: email обязателен", ErrValidation)
	}
	if password == "" {
		return nil, fmt.Errorf("%w: пароль обязателен", ErrValidation)
	}
	if role == "" {
		return nil, fmt.Errorf("%w: роль обязательна", ErrValidation)
	}
	if !rbac.IsValidRole(role) {
		return nil, ErrInvalidRole
	}
	if len(password) < 6 {
		return nil, fmt.Errorf("%w: пароль должен содержать минимум 6 символов", ErrValidation)
	}

	// Создаём пользователя в Supabase Auth
	authUser, err := s.sbClient.CreateUser(ctx, email, password)
	if err != nil {
		return nil, s.remoteErr("создание пользователя", err)
	}

	// Назначаем роль
	if err := s.sbClient.InsertRole(ctx, authUser.ID, role); err != nil {
		s.logger.Warn("Назначение роли не удалось, удаляем созданного пользователя",
			slog.String("user_id", authUser.ID),
			slog.String("error", err.Error()),
		)

		// Компенсирующее удаление
		if delErr := s.sbClient.DeleteUser(ctx, authUser.ID); delErr != nil {
			s.logger.Error("Компенсирующее удаление не удалось — пользователь остался без роли",
				slog.String("user_id", authUser.ID),
				slog.String("role_error", err.Error()),
				slog.String("delete_error", delErr.Error()),
			)
			return nil, fmt.Errorf("%w: %s", ErrCompensationFailed, authUser.ID)
		}

		return nil, s.remoteErr("назначение роли", err)
	}

	s.logger.Info("Пользователь создан",
		slog.String("user_id", authUser.ID),
		slog.String("email", authUser.Email),
		slog.String("role", role),
	)

	return &model.UserWithRole{
		ID:        authUser.ID,
		Email:     authUser.Email,
		Role:      role,
		CreatedAt: authUser.CreatedAt,
	}, nil
}

// UpdateUserRole обновляет роль пользователя в таблице ролей.
// Отсутствующее назначение — ErrNotFound.
func (s *AdminUserService) UpdateUserRole(ctx context.Context, userID, role string) error {
	if !rbac.IsValidRole(role) {
		return ErrInvalidRole
	}

	if err := s.sbClient.UpdateRole(ctx, userID, role); err != nil {
		if errors.Is(err, supabase.ErrNotFound) {
			return fmt.Errorf("назначение роли для %s: %w", userID, ErrNotFound)
		}
		return s.remoteErr("обновление роли", err)
	}

	s.logger.Info("Роль пользователя обновлена",
		slog.String("user_id", userID),
		slog.String("role", role),
	)

	return nil
}

// DeleteUser удаляет пользователя: сначала назначение роли, затем учётную
// запись в Supabase Auth. Порядок не оставляет осиротевших строк ролей.
func (s *AdminUserService) DeleteUser(ctx context.Context, userID string) error {
	if err := s.sbClient.DeleteRole(ctx, userID); err != nil {
		return s.remoteErr("удаление роли", err)
	}

	if err := s.sbClient.DeleteUser(ctx, userID); err != nil {
		if errors.Is(err, supabase.ErrNotFound) {
			return fmt.Errorf("пользователь %s: %w", userID, ErrNotFound)
		}
		return s.remoteErr("удаление пользователя", err)
	}

	s.logger.Info("Пользователь удалён", slog.String("user_id", userID))

	return nil
}

// remoteErr классифицирует ошибку Supabase.
// Ошибка API с текстом удалённого сервиса пробрасывается как есть —
// решение о передаче текста клиенту принимает handler.
// Транспортные ошибки становятся ErrIDPUnavailable.
func (s *AdminUserService) remoteErr(op string, err error) error {
	var apiErr *supabase.APIError
	if errors.As(err, &apiErr) {
		if apiErr.StatusCode == http.StatusConflict || apiErr.StatusCode == http.StatusUnprocessableEntity {
			return fmt.Errorf("%s: %s: %w", op, apiErr.Message, ErrConflict)
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	s.logger.Error("Supabase недоступен",
		slog.String("operation", op),
		slog.String("error", err.Error()),
	)

	return fmt.Errorf("%s: %w", op, ErrIDPUnavailable)
}
