// Пакет dashclient — HTTP-клиент административного API для дашборда.
// Оборачивает операции управления пользователями: прикрепляет bearer-токен
// текущей сессии и приводит ответы к единой форме результата.
package dashclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Сообщения локальных исходов. Текст ошибок сервера передаётся как есть,
// эти два случая формируются без ответа сервера.
const (
	// MsgNotAuthenticated — сессия отсутствует или токен истёк, запрос не отправлялся.
	MsgNotAuthenticated = "Сессия отсутствует или истекла, требуется вход"
	// MsgConnectivity — транспортная ошибка, ответ от сервера не получен.
	MsgConnectivity = "Нет соединения с сервером администрирования"
)

// TokenProvider возвращает bearer-токен текущей сессии.
// Пустая строка — сессии нет.
type TokenProvider func() string

// Result — единая форма результата операции.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// UserInfo — пользователь в ответе списка.
type UserInfo struct {
	ID           string     `json:"id"`
	Email        string     `json:"email"`
	Role         string     `json:"role"`
	CreatedAt    time.Time  `json:"createdAt"`
	LastSignInAt *time.Time `json:"lastSignInAt,omitempty"`
}

// ListUsersResult — результат операции списка пользователей.
type ListUsersResult struct {
	Result
	Users []UserInfo
}

// CreateUserResult — результат создания пользователя.
type CreateUserResult struct {
	Result
	UserID string
}

// Client — клиент административного API.
// Бизнес-валидацию не выполняет — правила ролей и паролей проверяет сервер;
// клиент лишь не тратит сетевой вызов при отсутствии учётных данных.
type Client struct {
	httpClient *http.Client
	baseURL    string
	tokens     TokenProvider
	logger     *slog.Logger
}

// New создаёт клиент административного API.
// baseURL — базовый URL API Module (например, http://api-module:8000).
// tokens — источник bearer-токена текущей сессии.
func New(baseURL string, tokens TokenProvider, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		tokens:     tokens,
		logger:     logger.With(slog.String("component", "dash_client")),
	}
}

// ListUsers — GET /api/users.
func (c *Client) ListUsers(ctx context.Context) *ListUsersResult {
	out := &ListUsersResult{}

	var payload struct {
		Success bool       `json:"success"`
		Message string     `json:"message"`
		Users   []UserInfo `json:"users"`
	}
	out.Result = c.call(ctx, http.MethodGet, "/api/users", nil, &payload)
	if out.Success {
		out.Users = payload.Users
	}

	return out
}

// CreateUser — POST /api/users.
func (c *Client) CreateUser(ctx context.Context, email, password, role string) *CreateUserResult {
	out := &CreateUserResult{}

	body := map[string]string{
		"email":    email,
		"password": password,
		"role":     role,
	}
	var payload struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
		UserID  string `json:"userId"`
	}
	out.Result = c.call(ctx, http.MethodPost, "/api/users", body, &payload)
	if out.Success {
		out.UserID = payload.UserID
		if payload.Message != "" {
			out.Message = payload.Message
		}
	}

	return out
}

// UpdateUserRole — PUT /api/users/{userId}/role.
func (c *Client) UpdateUserRole(ctx context.Context, userID, role string) Result {
	body := map[string]string{"role": role}

	var payload struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	res := c.call(ctx, http.MethodPut, "/api/users/"+userID+"/role", body, &payload)
	if res.Success && payload.Message != "" {
		res.Message = payload.Message
	}

	return res
}

// DeleteUser — DELETE /api/users/{userId}.
func (c *Client) DeleteUser(ctx context.Context, userID string) Result {
	var payload struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	res := c.call(ctx, http.MethodDelete, "/api/users/"+userID, nil, &payload)
	if res.Success && payload.Message != "" {
		res.Message = payload.Message
	}

	return res
}

// call выполняет запрос с токеном сессии и приводит ответ к Result.
// payload — указатель на структуру тела успешного ответа (декодируется
// при любом 2xx статусе).
func (c *Client) call(ctx context.Context, method, apiPath string, body any, payload any) Result {
	token := c.tokens()
	if !tokenUsable(token) {
		return Result{Success: false, Message: MsgNotAuthenticated}
	}

	var reqBody *bytes.Buffer
	if body != nil {
		reqBody = &bytes.Buffer{}
		if err := json.NewEncoder(reqBody).Encode(body); err != nil {
			return Result{Success: false, Message: fmt.Sprintf("кодирование запроса: %v", err)}
		}
	}

	var req *http.Request
	var err error
	if reqBody != nil {
		req, err = http.NewRequestWithContext(ctx, method, c.baseURL+apiPath, reqBody)
	} else {
		req, err = http.NewRequestWithContext(ctx, method, c.baseURL+apiPath, http.NoBody)
	}
	if err != nil {
		return Result{Success: false, Message: fmt.Sprintf("создание запроса: %v", err)}
	}

	req.Header.Set("Authorization", "Bearer "+token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Ответа нет — это ошибка связи, а не ошибка сервера
		c.logger.Warn("Запрос к API Module не удался",
			slog.String("method", method),
			slog.String("path", apiPath),
			slog.String("error", err.Error()),
		)
		return Result{Success: false, Message: MsgConnectivity}
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		// Сообщение сервера передаётся дословно
		var errBody struct {
			Message string `json:"message"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&errBody)
		if errBody.Message == "" {
			errBody.Message = fmt.Sprintf("сервер вернул статус %d", resp.StatusCode)
		}
		return Result{Success: false, Message: errBody.Message}
	}

	if err := json.NewDecoder(resp.Body).Decode(payload); err != nil {
		return Result{Success: false, Message: fmt.Sprintf("декодирование ответа: %v", err)}
	}

	return Result{Success: true, Message: "OK"}
}

// tokenUsable проверяет пригодность токена без обращения к серверу.
// Истёкший по claim exp токен отклоняется локально — сетевой вызов
// заведомо вернёт 401. Неразборчивый токен отправляется серверу:
// вердикт о валидности выносит Remote Service.
func tokenUsable(token string) bool {
	if token == "" {
		return false
	}

	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return true
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return true
	}

	return exp.After(time.Now())
}
