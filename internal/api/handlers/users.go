// users.go — обработчики /api/users endpoints.
// Управление пользователями: список, создание, смена роли, удаление.
// Все операции доступны только администраторам.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"

	apierrors "github.com/minedash/api-module/internal/api/errors"
	"github.com/minedash/api-module/internal/api/generated"
	"github.com/minedash/api-module/internal/api/middleware"
	"github.com/minedash/api-module/internal/domain/model"
	"github.com/minedash/api-module/internal/service"
)

// ListUsers — GET /api/users.
// Возвращает пользователей Supabase Auth с ролями из таблицы ролей.
// Доступ: admin.
func (h *APIHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil || !claims.IsAdmin() {
		apierrors.Forbidden(w, "Недостаточно прав: требуется роль admin")
		return
	}

	users, err := h.adminUsers.ListUsers(r.Context())
	if err != nil {
		h.logger.Error("Ошибка получения списка пользователей", "error", err)
		h.writeUserError(w, err, "Ошибка получения списка пользователей")
		return
	}

	items := make([]generated.User, len(users))
	for i, u := range users {
		items[i] = mapUser(u)
	}

	writeJSON(w, http.StatusOK, generated.UserListResponse{
		Success: true,
		Message: "Пользователи получены",
		Users:   items,
	})
}

// CreateUser — POST /api/users.
// Создаёт пользователя в Supabase Auth и назначает ему роль.
// Доступ: admin.
func (h *APIHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil || !claims.IsAdmin() {
		apierrors.Forbidden(w, "Недостаточно прав: требуется роль admin")
		return
	}

	var req generated.CreateUserJSONRequestBody
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierrors.ValidationError(w, "Некорректный JSON: "+err.Error())
		return
	}

	user, err := h.adminUsers.CreateUser(r.Context(), string(req.Email), req.Password, string(req.Role))
	if err != nil {
		if !errors.Is(err, service.ErrValidation) && !errors.Is(err, service.ErrInvalidRole) {
			h.logger.Error("Ошибка создания пользователя", "email", string(req.Email), "error", err)
		}
		h.writeUserError(w, err, "Ошибка создания пользователя")
		return
	}

	userID, _ := uuid.Parse(user.ID)
	writeJSON(w, http.StatusCreated, generated.CreateUserResponse{
		Success: true,
		Message: "Пользователь создан",
		UserId:  userID,
	})
}

// UpdateUserRole — PUT /api/users/{userId}/role.
// Обновляет существующее назначение роли. Отсутствующее назначение — 404.
// Доступ: admin.
func (h *APIHandler) UpdateUserRole(w http.ResponseWriter, r *http.Request, userId generated.UserId) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil || !claims.IsAdmin() {
		apierrors.Forbidden(w, "Недостаточно прав: требуется роль admin")
		return
	}

	var req generated.UpdateUserRoleJSONRequestBody
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierrors.ValidationError(w, "Некорректный JSON: "+err.Error())
		return
	}

	if err := h.adminUsers.UpdateUserRole(r.Context(), userId.String(), string(req.Role)); err != nil {
		if !errors.Is(err, service.ErrInvalidRole) && !errors.Is(err, service.ErrNotFound) {
			h.logger.Error("Ошибка обновления роли", "user_id", userId.String(), "error", err)
		}
		h.writeUserError(w, err, "Ошибка обновления роли")
		return
	}

	writeJSON(w, http.StatusOK, generated.SuccessResponse{
		Success: true,
		Message: "Роль обновлена",
	})
}

// DeleteUser — DELETE /api/users/{userId}.
// Удаляет назначение роли, затем учётную запись в Supabase Auth.
// Доступ: admin.
func (h *APIHandler) DeleteUser(w http.ResponseWriter, r *http.Request, userId generated.UserId) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil || !claims.IsAdmin() {
		apierrors.Forbidden(w, "Недостаточно прав: требуется роль admin")
		return
	}

	if err := h.adminUsers.DeleteUser(r.Context(), userId.String()); err != nil {
		if !errors.Is(err, service.ErrNotFound) {
			h.logger.Error("Ошибка удаления пользователя", "user_id", userId.String(), "error", err)
		}
		h.writeUserError(w, err, "Ошибка удаления пользователя")
		return
	}

	writeJSON(w, http.StatusOK, generated.SuccessResponse{
		Success: true,
		Message: "Пользователь удалён",
	})
}

// writeUserError отображает ошибку сервисного слоя на HTTP-ответ.
// В режиме разработки текст ошибки Remote Service передаётся клиенту,
// в production сообщение заменяется на generic.
func (h *APIHandler) writeUserError(w http.ResponseWriter, err error, genericMsg string) {
	switch {
	case errors.Is(err, service.ErrValidation), errors.Is(err, service.ErrInvalidRole):
		apierrors.ValidationError(w, err.Error())
	case errors.Is(err, service.ErrNotFound):
		apierrors.NotFound(w, h.errMessage(err, "Ресурс не найден"))
	case errors.Is(err, service.ErrConflict):
		apierrors.Conflict(w, h.errMessage(err, "Пользователь с таким email уже существует"))
	case errors.Is(err, service.ErrIDPUnavailable):
		apierrors.IDPUnavailable(w, h.errMessage(err, "Сервис аутентификации недоступен"))
	default:
		apierrors.InternalError(w, h.errMessage(err, genericMsg))
	}
}

// errMessage выбирает текст ошибки для клиента в зависимости от режима.
func (h *APIHandler) errMessage(err error, genericMsg string) string {
	if h.devMode {
		return err.Error()
	}
	return genericMsg
}

// mapUser преобразует доменную модель в API-представление.
func mapUser(u *model.UserWithRole) generated.User {
	id, _ := uuid.Parse(u.ID)
	return generated.User{
		Id:           id,
		Email:        openapi_types.Email(u.Email),
		Role:         generated.UserRole(u.Role),
		CreatedAt:    u.CreatedAt,
		LastSignInAt: u.LastSignInAt,
	}
}
