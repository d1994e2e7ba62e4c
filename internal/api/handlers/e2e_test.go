package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/minedash/api-module/internal/api/generated"
	"github.com/minedash/api-module/internal/api/middleware"
	"github.com/minedash/api-module/internal/service"
	"github.com/minedash/api-module/internal/supabase"
)

// fakeSupabase — stateful in-memory подмена Supabase (GoTrue + PostgREST)
// для сквозного теста административного API.
type fakeSupabase struct {
	mu sync.Mutex

	// token → user ID
	sessions map[string]string
	// user ID → email
	users map[string]string
	// user ID → role
	roles map[string]string

	// счётчик вызовов admin-операций (создание/удаление пользователей)
	adminCalls int
}

func newFakeSupabase() *fakeSupabase {
	return &fakeSupabase{
		sessions: make(map[string]string),
		users:    make(map[string]string),
		roles:    make(map[string]string),
	}
}

// addUser добавляет пользователя с сессией и опциональной ролью.
func (f *fakeSupabase) addUser(token, email, role string) string {
	f.mu.Lock()
	defer f.mu.Unlock()

	id := uuid.New().String()
	f.users[id] = email
	if token != "" {
		f.sessions[token] = id
	}
	if role != "" {
		f.roles[id] = role
	}
	return id
}

func (f *fakeSupabase) handler(t *testing.T) http.Handler {
	t.Helper()

	writeJSONBody := func(w http.ResponseWriter, status int, v any) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(v)
	}

	authUser := func(id, email string) map[string]any {
		return map[string]any{
			"id":         id,
			"email":      email,
			"created_at": time.Now().UTC().Format(time.RFC3339),
		}
	}

	roleRows := func(filterID string) []map[string]any {
		rows := []map[string]any{}
		for id, role := range f.roles {
			if filterID != "" && id != filterID {
				continue
			}
			rows = append(rows, map[string]any{"user_id": id, "role": role})
		}
		return rows
	}

	// user_id=eq.<id> → <id>
	filterUserID := func(q url.Values) string {
		return strings.TrimPrefix(q.Get("user_id"), "eq.")
	}

	mux := http.NewServeMux()

	// GoTrue: верификация токена сессии
	mux.HandleFunc("/auth/v1/user", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()

		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		id, ok := f.sessions[token]
		if !ok {
			writeJSONBody(w, http.StatusUnauthorized, map[string]string{"msg": "invalid token"})
			return
		}
		writeJSONBody(w, http.StatusOK, authUser(id, f.users[id]))
	})

	// GoTrue Admin API: список и создание пользователей
	mux.HandleFunc("/auth/v1/admin/users", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.adminCalls++

		switch r.Method {
		case http.MethodGet:
			users := []map[string]any{}
			if r.URL.Query().Get("page") == "1" {
				for id, email := range f.users {
					users = append(users, authUser(id, email))
				}
			}
			writeJSONBody(w, http.StatusOK, map[string]any{"users": users})
		case http.MethodPost:
			var req struct {
				Email    string `json:"email"`
				Password string `json:"password"`
			}
			_ = json.NewDecoder(r.Body).Decode(&req)

			for _, email := range f.users {
				if email == req.Email {
					writeJSONBody(w, http.StatusUnprocessableEntity,
						map[string]string{"msg": "A user with this email address has already been registered"})
					return
				}
			}

			id := uuid.New().String()
			f.users[id] = req.Email
			writeJSONBody(w, http.StatusOK, authUser(id, req.Email))
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})

	// GoTrue Admin API: удаление пользователя
	mux.HandleFunc("/auth/v1/admin/users/", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.adminCalls++

		id := strings.TrimPrefix(r.URL.Path, "/auth/v1/admin/users/")
		if _, ok := f.users[id]; !ok {
			writeJSONBody(w, http.StatusNotFound, map[string]string{"msg": "user not found"})
			return
		}
		delete(f.users, id)
		writeJSONBody(w, http.StatusOK, map[string]any{})
	})

	// PostgREST: таблица user_roles
	mux.HandleFunc("/rest/v1/user_roles", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()

		switch r.Method {
		case http.MethodGet:
			writeJSONBody(w, http.StatusOK, roleRows(filterUserID(r.URL.Query())))
		case http.MethodPost:
			var req struct {
				UserID string `json:"user_id"`
				Role   string `json:"role"`
			}
			_ = json.NewDecoder(r.Body).Decode(&req)
			f.roles[req.UserID] = req.Role
			w.WriteHeader(http.StatusCreated)
		case http.MethodPatch:
			id := filterUserID(r.URL.Query())
			var req struct {
				Role string `json:"role"`
			}
			_ = json.NewDecoder(r.Body).Decode(&req)

			if _, ok := f.roles[id]; ok {
				f.roles[id] = req.Role
			}
			writeJSONBody(w, http.StatusOK, roleRows(id))
		case http.MethodDelete:
			delete(f.roles, filterUserID(r.URL.Query()))
			w.WriteHeader(http.StatusNoContent)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})

	return mux
}

// setupAPI поднимает полный стек: fake Supabase → клиент → сервисы →
// APIHandler → auth middleware → chi router.
func setupAPI(t *testing.T) (*httptest.Server, *fakeSupabase) {
	t.Helper()

	fake := newFakeSupabase()
	remote := httptest.NewServer(fake.handler(t))
	t.Cleanup(remote.Close)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	sbClient := supabase.New(remote.URL, "anon-key", "service-key", remote.Client(), logger)

	adminUsersSvc := service.NewAdminUserService(sbClient, logger)
	apiHandler := NewAPIHandler(NewHealthHandler(nil, sbClient), adminUsersSvc, nil, true, logger)

	auth := middleware.NewAuth(sbClient, logger)
	router := chi.NewRouter()
	router.Use(auth.Middleware())
	generated.HandlerFromMux(apiHandler, router)

	api := httptest.NewServer(router)
	t.Cleanup(api.Close)

	return api, fake
}

// doJSON выполняет запрос к API и декодирует ответ в map.
func doJSON(t *testing.T, api *httptest.Server, method, path, token string, body any) (int, map[string]any) {
	t.Helper()

	var reqBody io.Reader = http.NoBody
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("кодирование тела запроса: %v", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, api.URL+path, reqBody)
	if err != nil {
		t.Fatalf("создание запроса: %v", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("выполнение запроса %s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	payload := map[string]any{}
	_ = json.NewDecoder(resp.Body).Decode(&payload)
	return resp.StatusCode, payload
}

// rolesByID собирает карту id → роль из ответа списка.
func rolesByID(payload map[string]any) map[string]string {
	out := make(map[string]string)
	users, _ := payload["users"].([]any)
	for _, u := range users {
		user, _ := u.(map[string]any)
		id, _ := user["id"].(string)
		role, _ := user["role"].(string)
		out[id] = role
	}
	return out
}

// listedRole возвращает роль пользователя из ответа списка ("" — не найден).
func listedRole(payload map[string]any, userID string) string {
	users, _ := payload["users"].([]any)
	for _, u := range users {
		user, _ := u.(map[string]any)
		if user["id"] == userID {
			role, _ := user["role"].(string)
			return role
		}
	}
	return ""
}

// Сквозной сценарий: создание → список → смена роли → удаление.
func TestUserAdministrationScenario(t *testing.T) {
	api, fake := setupAPI(t)
	fake.addUser("admin-token", "admin@mina.pe", "admin")

	// Создание worker-пользователя
	status, payload := doJSON(t, api, http.MethodPost, "/api/users", "admin-token", map[string]string{
		"email":    "a@x.com",
		"password": "abcdef",
		"role":     "worker",
	})
	if status != http.StatusCreated {
		t.Fatalf("ожидался статус 201, получен %d (%v)", status, payload)
	}
	userID, _ := payload["userId"].(string)
	if userID == "" {
		t.Fatal("ожидался userId в ответе создания")
	}

	// Список содержит нового пользователя с ролью worker
	status, payload = doJSON(t, api, http.MethodGet, "/api/users", "admin-token", nil)
	if status != http.StatusOK {
		t.Fatalf("ожидался статус 200, получен %d", status)
	}
	if role := listedRole(payload, userID); role != "worker" {
		t.Fatalf("ожидалась роль worker для созданного пользователя, получена %q", role)
	}
	if msg, _ := payload["message"].(string); msg == "" {
		t.Error("ответ списка должен содержать message")
	}

	// Повторный список без изменений идентичен (порядок не гарантируется)
	_, payload2 := doJSON(t, api, http.MethodGet, "/api/users", "admin-token", nil)
	if !reflect.DeepEqual(rolesByID(payload), rolesByID(payload2)) {
		t.Error("повторный список без мутаций должен быть идентичен")
	}

	// Смена роли на admin
	status, _ = doJSON(t, api, http.MethodPut, "/api/users/"+userID+"/role", "admin-token", map[string]string{
		"role": "admin",
	})
	if status != http.StatusOK {
		t.Fatalf("ожидался статус 200 при смене роли, получен %d", status)
	}

	status, payload = doJSON(t, api, http.MethodGet, "/api/users", "admin-token", nil)
	if status != http.StatusOK {
		t.Fatalf("ожидался статус 200, получен %d", status)
	}
	if role := listedRole(payload, userID); role != "admin" {
		t.Fatalf("ожидалась роль admin после обновления, получена %q", role)
	}

	// Удаление
	status, _ = doJSON(t, api, http.MethodDelete, "/api/users/"+userID, "admin-token", nil)
	if status != http.StatusOK {
		t.Fatalf("ожидался статус 200 при удалении, получен %d", status)
	}

	status, payload = doJSON(t, api, http.MethodGet, "/api/users", "admin-token", nil)
	if status != http.StatusOK {
		t.Fatalf("ожидался статус 200, получен %d", status)
	}
	if role := listedRole(payload, userID); role != "" {
		t.Errorf("удалённый пользователь не должен присутствовать в списке, роль %q", role)
	}

	// Строка роли не осиротела
	fake.mu.Lock()
	_, orphan := fake.roles[userID]
	fake.mu.Unlock()
	if orphan {
		t.Error("после удаления пользователя осталась строка роли")
	}
}

// Шлюз авторизации: без токена 401, с ролью worker 403,
// admin-операции Remote Service не вызываются.
func TestUserAdministrationAuthorizationGate(t *testing.T) {
	api, fake := setupAPI(t)
	fake.addUser("worker-token", "worker@mina.pe", "")

	// Без токена
	status, payload := doJSON(t, api, http.MethodPost, "/api/users", "", map[string]string{
		"email": "b@x.com", "password": "abcdef", "role": "worker",
	})
	if status != http.StatusUnauthorized {
		t.Fatalf("ожидался статус 401 без токена, получен %d", status)
	}
	if payload["code"] != "UNAUTHORIZED" {
		t.Errorf("ожидался код UNAUTHORIZED, получен %v", payload["code"])
	}

	// Worker без строки роли получает роль по умолчанию и 403
	for _, tc := range []struct {
		method string
		path   string
		body   any
	}{
		{http.MethodPost, "/api/users", map[string]string{"email": "b@x.com", "password": "abcdef", "role": "worker"}},
		{http.MethodPut, "/api/users/" + uuid.New().String() + "/role", map[string]string{"role": "admin"}},
		{http.MethodDelete, "/api/users/" + uuid.New().String(), nil},
	} {
		status, payload := doJSON(t, api, tc.method, tc.path, "worker-token", tc.body)
		if status != http.StatusForbidden {
			t.Errorf("%s %s: ожидался статус 403 для worker, получен %d", tc.method, tc.path, status)
		}
		if payload["code"] != "FORBIDDEN" {
			t.Errorf("%s %s: ожидался код FORBIDDEN, получен %v", tc.method, tc.path, payload["code"])
		}
	}

	// Ни один запрос не дошёл до admin-операций Remote Service
	fake.mu.Lock()
	calls := fake.adminCalls
	fake.mu.Unlock()
	if calls != 0 {
		t.Errorf("запросы без прав не должны вызывать admin-операции, вызвано %d", calls)
	}
}
