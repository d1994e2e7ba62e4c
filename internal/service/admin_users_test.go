package service

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/minedash/api-module/internal/supabase"
)

// testLogger создаёт logger для тестов.
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// setupUserService создаёт AdminUserService поверх mock-сервера Supabase.
func setupUserService(t *testing.T, handler http.HandlerFunc) *AdminUserService {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	sbClient := supabase.New(server.URL, "anon", "service", server.Client(), testLogger())
	return NewAdminUserService(sbClient, testLogger())
}

// TestCreateUser_Validation проверяет отклонение некорректных входных данных.
// Ни один запрос к Supabase при этом выполняться не должен.
func TestCreateUser_Validation(t *testing.T) {
	requests := 0
	svc := setupUserService(t, func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name     string
		email    string
		password string
		role     string
		wantErr  error
		wantMsg  string
	}{
		{"пустой email", "", "секрет123", "worker", ErrValidation, "email обязателен"},
		{"email из пробелов", "   ", "секрет123", "worker", ErrValidation, "email обязателен"},
		{"пустой пароль", "a@mina.com", "", "worker", ErrValidation, "пароль обязателен"},
		{"короткий пароль", "a@mina.com", "12345", "worker", ErrValidation, "минимум 6 символов"},
		{"пустая роль", "a@mina.com", "секрет123", "", ErrValidation, "роль обязательна"},
		{"недопустимая роль", "a@mina.com", "секрет123", "supervisor", ErrInvalidRole, ""},
		{"роль на испанском", "a@mina.com", "секрет123", "trabajador", ErrInvalidRole, ""},
		// Несколько нарушений сразу: называется первое по порядку проверки —
		// наличие полей, затем роль, затем длина пароля.
		{"пустая роль и короткий пароль", "a@mina.com", "123", "", ErrValidation, "роль обязательна"},
		{"недопустимая роль и короткий пароль", "a@mina.com", "123", "manager", ErrInvalidRole, ""},
		{"пустой email и недопустимая роль", "", "123", "manager", ErrValidation, "email обязателен"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateUser(context.Background(), tt.email, tt.password, tt.role)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ожидалась ошибка %v, получена: %v", tt.wantErr, err)
			}
			if tt.wantMsg != "" && (err == nil || !strings.Contains(err.Error(), tt.wantMsg)) {
				t.Errorf("ожидалось сообщение с %q, получено: %v", tt.wantMsg, err)
			}
		})
	}

	if requests != 0 {
		t.Errorf("валидация не должна обращаться к Supabase, было %d запросов", requests)
	}
}

// TestCreateUser_Success проверяет создание пользователя с ролью.
func TestCreateUser_Success(t *testing.T) {
	svc := setupUserService(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/auth/v1/admin/users":
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(supabase.AuthUser{
				ID:    "new-id",
				Email: "nuevo@mina.com",
			})
		case r.Method == http.MethodPost && r.URL.Path == "/rest/v1/user_roles":
			w.WriteHeader(http.StatusCreated)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	user, err := svc.CreateUser(context.Background(), "nuevo@mina.com", "секрет123", "admin")
	if err != nil {
		t.Fatalf("Ошибка CreateUser: %v", err)
	}
	if user.ID != "new-id" {
		t.Errorf("ожидался ID=new-id, получен %s", user.ID)
	}
	if user.Role != "admin" {
		t.Errorf("ожидалась роль admin, получена %s", user.Role)
	}
}

// TestCreateUser_Compensation проверяет компенсирующее удаление:
// если назначение роли не удалось, созданный пользователь удаляется.
func TestCreateUser_Compensation(t *testing.T) {
	deleted := false
	svc := setupUserService(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/auth/v1/admin/users":
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(supabase.AuthUser{ID: "orphan-id", Email: "x@mina.com"})
		case r.Method == http.MethodPost && r.URL.Path == "/rest/v1/user_roles":
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"message":"insert failed"}`))
		case r.Method == http.MethodDelete && r.URL.Path == "/auth/v1/admin/users/orphan-id":
			deleted = true
			w.Write([]byte(`{}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	_, err := svc.CreateUser(context.Background(), "x@mina.com", "секрет123", "worker")
	if err == nil {
		t.Fatal("ожидалась ошибка, получен nil")
	}
	if !deleted {
		t.Error("компенсирующее удаление пользователя не выполнено")
	}
	if errors.Is(err, ErrCompensationFailed) {
		t.Error("компенсация прошла успешно, но ошибка помечена как ErrCompensationFailed")
	}
}

// TestCreateUser_CompensationFailed проверяет случай, когда и назначение роли,
// и компенсирующее удаление не удались.
func TestCreateUser_CompensationFailed(t *testing.T) {
	svc := setupUserService(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/auth/v1/admin/users":
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(supabase.AuthUser{ID: "stuck-id", Email: "y@mina.com"})
		default:
			// И вставка роли, и удаление пользователя падают
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"message":"storage error"}`))
		}
	})

	_, err := svc.CreateUser(context.Background(), "y@mina.com", "секрет123", "worker")
	if !errors.Is(err, ErrCompensationFailed) {
		t.Errorf("ожидался ErrCompensationFailed, получена: %v", err)
	}
	if !strings.Contains(err.Error(), "stuck-id") {
		t.Errorf("ошибка должна содержать ID пользователя: %v", err)
	}
}

// TestCreateUser_Duplicate проверяет конфликт при дублирующемся email.
func TestCreateUser_Duplicate(t *testing.T) {
	svc := setupUserService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"msg":"A user with this email address has already been registered"}`))
	})

	_, err := svc.CreateUser(context.Background(), "dup@mina.com", "секрет123", "worker")
	if !errors.Is(err, ErrConflict) {
		t.Errorf("ожидался ErrConflict, получена: %v", err)
	}
	// Текст удалённого сервиса сохраняется для dev-режима
	if !strings.Contains(err.Error(), "already been registered") {
		t.Errorf("текст ошибки Supabase потерян: %v", err)
	}
}

// TestListUsers_DefaultRole проверяет, что пользователь без строки роли
// получает роль по умолчанию.
func TestListUsers_DefaultRole(t *testing.T) {
	svc := setupUserService(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/v1/admin/users":
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"users":[
				{"id":"u-1","email":"admin@mina.com"},
				{"id":"u-2","email":"operador@mina.com"}
			]}`))
		case "/rest/v1/user_roles":
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`[{"user_id":"u-1","role":"admin"}]`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	users, err := svc.ListUsers(context.Background())
	if err != nil {
		t.Fatalf("Ошибка ListUsers: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("ожидалось 2 пользователя, получено %d", len(users))
	}
	if users[0].Role != "admin" {
		t.Errorf("ожидалась роль admin для u-1, получена %s", users[0].Role)
	}
	if users[1].Role != "worker" {
		t.Errorf("ожидалась роль worker по умолчанию для u-2, получена %s", users[1].Role)
	}
}

// TestUpdateUserRole_NotFound проверяет обновление роли без назначения.
func TestUpdateUserRole_NotFound(t *testing.T) {
	svc := setupUserService(t, func(w http.ResponseWriter, r *http.Request) {
		// PATCH совпал с нулём строк
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[]`))
	})

	err := svc.UpdateUserRole(context.Background(), "ghost", "admin")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("ожидался ErrNotFound, получена: %v", err)
	}
}

// TestUpdateUserRole_InvalidRole проверяет валидацию роли при обновлении.
func TestUpdateUserRole_InvalidRole(t *testing.T) {
	requests := 0
	svc := setupUserService(t, func(w http.ResponseWriter, r *http.Request) {
		requests++
	})

	err := svc.UpdateUserRole(context.Background(), "u-1", "superuser")
	if !errors.Is(err, ErrInvalidRole) {
		t.Errorf("ожидался ErrInvalidRole, получена: %v", err)
	}
	if requests != 0 {
		t.Errorf("валидация не должна обращаться к Supabase, было %d запросов", requests)
	}
}

// TestDeleteUser_Order проверяет порядок удаления: сначала роль, потом пользователь.
func TestDeleteUser_Order(t *testing.T) {
	var order []string
	svc := setupUserService(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodDelete && r.URL.Path == "/rest/v1/user_roles":
			order = append(order, "role")
			w.WriteHeader(http.StatusNoContent)
		case r.Method == http.MethodDelete && r.URL.Path == "/auth/v1/admin/users/u-1":
			order = append(order, "user")
			w.Write([]byte(`{}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	if err := svc.DeleteUser(context.Background(), "u-1"); err != nil {
		t.Fatalf("Ошибка DeleteUser: %v", err)
	}
	if len(order) != 2 || order[0] != "role" || order[1] != "user" {
		t.Errorf("неверный порядок удаления: %v", order)
	}
}

// TestDeleteUser_NotFound проверяет удаление несуществующего пользователя.
func TestDeleteUser_NotFound(t *testing.T) {
	svc := setupUserService(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodDelete && r.URL.Path == "/rest/v1/user_roles":
			w.WriteHeader(http.StatusNoContent)
		default:
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"msg":"User not found"}`))
		}
	})

	err := svc.DeleteUser(context.Background(), "ghost")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("ожидался ErrNotFound, получена: %v", err)
	}
}

// TestRemoteUnavailable проверяет классификацию транспортных ошибок.
func TestRemoteUnavailable(t *testing.T) {
	sbClient := supabase.New("http://localhost:1", "anon", "service", nil, testLogger())
	svc := NewAdminUserService(sbClient, testLogger())

	_, err := svc.ListUsers(context.Background())
	if !errors.Is(err, ErrIDPUnavailable) {
		t.Errorf("ожидался ErrIDPUnavailable, получена: %v", err)
	}
}
