// client.go — HTTP-клиент к Supabase.
// Два контура авторизации: публичный (anon key) для верификации
// пользовательских токенов и привилегированный (service role key)
// для Admin API и таблицы ролей.
// Операции: GetTokenUser, ListUsers, CreateUser, DeleteUser,
// ListRoles, GetRole, InsertRole, UpdateRole, DeleteRole.
package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Сентинельные ошибки клиента.
var (
	// ErrInvalidToken — токен отклонён Supabase Auth (401/403).
	ErrInvalidToken = errors.New("токен отклонён Supabase Auth")
	// ErrNotFound — запрошенный ресурс отсутствует в Supabase.
	ErrNotFound = errors.New("ресурс не найден в Supabase")
)

// APIError — ошибка Supabase API с HTTP-статусом и текстом удалённого сервиса.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("Supabase API вернул статус %d: %s", e.StatusCode, e.Message)
}

// Client — HTTP-клиент к Supabase (GoTrue + PostgREST).
type Client struct {
	baseURL    string // Базовый URL проекта Supabase (без trailing slash)
	anonKey    string // Публичный ключ (верификация пользовательских токенов)
	serviceKey string // Привилегированный ключ (Admin API, таблица ролей)

	httpClient *http.Client
	logger     *slog.Logger
}

// New создаёт клиент к Supabase.
// baseURL — URL проекта (например, https://xyzcompany.supabase.co).
// anonKey — публичный ключ, serviceKey — service role ключ.
// httpClient — HTTP-клиент (может содержать таймауты и TLS конфигурацию).
func New(baseURL, anonKey, serviceKey string, httpClient *http.Client, logger *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		anonKey:    anonKey,
		serviceKey: serviceKey,
		httpClient: httpClient,
		logger:     logger.With(slog.String("component", "supabase_client")),
	}
}

// --- URL helpers ---

// authURL возвращает URL endpoint'а GoTrue Auth API.
func (c *Client) authURL(path string) string {
	return c.baseURL + "/auth/v1" + path
}

// restURL возвращает URL endpoint'а PostgREST.
func (c *Client) restURL(path string) string {
	return c.baseURL + "/rest/v1" + path
}

// --- HTTP helpers ---

// doRequest выполняет HTTP-запрос с заданным ключом API и bearer-токеном.
// apikey обязателен для всех запросов к Supabase.
func (c *Client) doRequest(ctx context.Context, method, reqURL, apikey, bearer string, body any, extraHeaders map[string]string) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("сериализация тела запроса: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("создание запроса: %w", err)
	}

	req.Header.Set("apikey", apikey)
	req.Header.Set("Authorization", "Bearer "+bearer)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range extraHeaders {
		req.Header.Set(k, v)
	}

	return c.httpClient.Do(req)
}

// doAdmin выполняет запрос с service role ключом (оба заголовка).
func (c *Client) doAdmin(ctx context.Context, method, reqURL string, body any, extraHeaders map[string]string) (*http.Response, error) {
	return c.doRequest(ctx, method, reqURL, c.serviceKey, c.serviceKey, body, extraHeaders)
}

// apiError строит APIError из ответа с ошибкой. Тело читается целиком.
func apiError(resp *http.Response) *APIError {
	body, _ := io.ReadAll(resp.Body)

	// Пытаемся извлечь человекочитаемое сообщение
	var authErr authErrorResponse
	msg := string(body)
	if err := json.Unmarshal(body, &authErr); err == nil && authErr.message() != "" {
		msg = authErr.message()
	}

	return &APIError{
		StatusCode: resp.StatusCode,
		Message:    msg,
	}
}

// decodeResponse декодирует JSON ответ в target.
func decodeResponse(resp *http.Response, target any) error {
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return apiError(resp)
	}

	if target != nil {
		if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
			return fmt.Errorf("декодирование ответа Supabase: %w", err)
		}
	}

	return nil
}

// checkResponse проверяет статус ответа (для запросов без тела ответа).
func checkResponse(resp *http.Response, expectedStatus int) error {
	defer resp.Body.Close()

	if resp.StatusCode != expectedStatus {
		return apiError(resp)
	}

	return nil
}

// --- Auth API (верификация токенов) ---

// GetTokenUser верифицирует пользовательский access token через GoTrue
// и возвращает пользователя, которому он принадлежит.
// Невалидный или истёкший токен — ErrInvalidToken.
func (c *Client) GetTokenUser(ctx context.Context, accessToken string) (*AuthUser, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, c.authURL("/user"), c.anonKey, accessToken, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("запрос верификации токена: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		resp.Body.Close()
		return nil, ErrInvalidToken
	}

	var user AuthUser
	if err := decodeResponse(resp, &user); err != nil {
		return nil, fmt.Errorf("GetTokenUser: %w", err)
	}

	return &user, nil
}

// --- Admin API (управление пользователями) ---

// ListUsers возвращает страницу пользователей из Supabase Auth.
// page нумеруется с 1; perPage — размер страницы.
func (c *Client) ListUsers(ctx context.Context, page, perPage int) ([]AuthUser, error) {
	reqURL := fmt.Sprintf("%s?page=%d&per_page=%d", c.authURL("/admin/users"), page, perPage)

	resp, err := c.doAdmin(ctx, http.MethodGet, reqURL, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("запрос списка пользователей: %w", err)
	}

	var list listUsersResponse
	if err := decodeResponse(resp, &list); err != nil {
		return nil, fmt.Errorf("ListUsers: %w", err)
	}

	return list.Users, nil
}

// CreateUser создаёт пользователя в Supabase Auth.
// Пользователь создаётся с подтверждённым email (без письма верификации).
func (c *Client) CreateUser(ctx context.Context, email, password string) (*AuthUser, error) {
	createReq := adminCreateUserRequest{
		Email:        email,
		Password:     password,
		EmailConfirm: true,
	}

	resp, err := c.doAdmin(ctx, http.MethodPost, c.authURL("/admin/users"), createReq, nil)
	if err != nil {
		return nil, fmt.Errorf("запрос создания пользователя: %w", err)
	}

	var user AuthUser
	if err := decodeResponse(resp, &user); err != nil {
		return nil, fmt.Errorf("CreateUser: %w", err)
	}

	return &user, nil
}

// DeleteUser удаляет пользователя из Supabase Auth по ID.
// Отсутствующий пользователь — ErrNotFound.
func (c *Client) DeleteUser(ctx context.Context, userID string) error {
	resp, err := c.doAdmin(ctx, http.MethodDelete, c.authURL("/admin/users/"+url.PathEscape(userID)), nil, nil)
	if err != nil {
		return fmt.Errorf("запрос удаления пользователя: %w", err)
	}

	if resp.StatusCode == http.StatusNotFound {
		resp.Body.Close()
		return fmt.Errorf("DeleteUser %s: %w", userID, ErrNotFound)
	}

	if err := checkResponse(resp, http.StatusOK); err != nil {
		return fmt.Errorf("DeleteUser: %w", err)
	}

	return nil
}

// --- Таблица ролей (PostgREST) ---

// ListRoles возвращает все назначения ролей из таблицы user_roles.
func (c *Client) ListRoles(ctx context.Context) ([]UserRoleRow, error) {
	reqURL := c.restURL("/user_roles") + "?select=user_id,role,created_at"

	resp, err := c.doAdmin(ctx, http.MethodGet, reqURL, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("запрос списка ролей: %w", err)
	}

	var rows []UserRoleRow
	if err := decodeResponse(resp, &rows); err != nil {
		return nil, fmt.Errorf("ListRoles: %w", err)
	}

	return rows, nil
}

// GetRole возвращает назначение роли для пользователя.
// Отсутствующая строка — ErrNotFound.
func (c *Client) GetRole(ctx context.Context, userID string) (*UserRoleRow, error) {
	reqURL := c.restURL("/user_roles") + "?user_id=eq." + url.QueryEscape(userID) + "&select=user_id,role,created_at"

	resp, err := c.doAdmin(ctx, http.MethodGet, reqURL, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("запрос роли пользователя: %w", err)
	}

	var rows []UserRoleRow
	if err := decodeResponse(resp, &rows); err != nil {
		return nil, fmt.Errorf("GetRole: %w", err)
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("GetRole %s: %w", userID, ErrNotFound)
	}

	return &rows[0], nil
}

// InsertRole создаёт назначение роли для пользователя.
func (c *Client) InsertRole(ctx context.Context, userID, role string) error {
	insertReq := roleInsertRequest{UserID: userID, Role: role}
	headers := map[string]string{"Prefer": "return=minimal"}

	resp, err := c.doAdmin(ctx, http.MethodPost, c.restURL("/user_roles"), insertReq, headers)
	if err != nil {
		return fmt.Errorf("запрос вставки роли: %w", err)
	}

	if err := checkResponse(resp, http.StatusCreated); err != nil {
		return fmt.Errorf("InsertRole: %w", err)
	}

	return nil
}

// UpdateRole обновляет роль пользователя в user_roles.
// PostgREST возвращает 200 даже когда фильтр не совпал ни с одной строкой,
// поэтому запрашиваем return=representation и проверяем число строк.
// Отсутствующая строка — ErrNotFound.
func (c *Client) UpdateRole(ctx context.Context, userID, role string) error {
	reqURL := c.restURL("/user_roles") + "?user_id=eq." + url.QueryEscape(userID)
	patchReq := rolePatchRequest{Role: role}
	headers := map[string]string{"Prefer": "return=representation"}

	resp, err := c.doAdmin(ctx, http.MethodPatch, reqURL, patchReq, headers)
	if err != nil {
		return fmt.Errorf("запрос обновления роли: %w", err)
	}

	var rows []UserRoleRow
	if err := decodeResponse(resp, &rows); err != nil {
		return fmt.Errorf("UpdateRole: %w", err)
	}

	if len(rows) == 0 {
		return fmt.Errorf("UpdateRole %s: %w", userID, ErrNotFound)
	}

	return nil
}

// DeleteRole удаляет назначение роли пользователя.
// Отсутствие строки не считается ошибкой.
func (c *Client) DeleteRole(ctx context.Context, userID string) error {
	reqURL := c.restURL("/user_roles") + "?user_id=eq." + url.QueryEscape(userID)

	resp, err := c.doAdmin(ctx, http.MethodDelete, reqURL, nil, nil)
	if err != nil {
		return fmt.Errorf("запрос удаления роли: %w", err)
	}

	if err := checkResponse(resp, http.StatusNoContent); err != nil {
		return fmt.Errorf("DeleteRole: %w", err)
	}

	return nil
}

// --- Readiness checker ---

// CheckReady проверяет доступность Supabase Auth через health endpoint.
// Реализует handlers.ReadinessChecker.
func (c *Client) CheckReady() (string, string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	resp, err := c.doRequest(ctx, http.MethodGet, c.authURL("/health"), c.anonKey, c.anonKey, nil, nil)
	if err != nil {
		return "fail", fmt.Sprintf("Supabase недоступен: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "degraded", fmt.Sprintf("Supabase Auth вернул статус %d", resp.StatusCode)
	}

	return "ok", "Supabase Auth доступен"
}

// HealthURL возвращает URL health endpoint'а Supabase Auth
// (используется регистрацией проверок topologymetrics).
func (c *Client) HealthURL() string {
	return c.authURL("/health")
}
