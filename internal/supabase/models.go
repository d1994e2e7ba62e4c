// Пакет supabase — HTTP-клиент к Supabase (GoTrue Auth API + PostgREST).
// models.go — модели данных Supabase.
package supabase

import "time"

// AuthUser — пользователь в Supabase Auth (GoTrue).
type AuthUser struct {
	ID               string     `json:"id"`
	Email            string     `json:"email"`
	CreatedAt        time.Time  `json:"created_at"`
	LastSignInAt     *time.Time `json:"last_sign_in_at,omitempty"`
	EmailConfirmedAt *time.Time `json:"email_confirmed_at,omitempty"`
}

// listUsersResponse — ответ GoTrue Admin API на список пользователей.
type listUsersResponse struct {
	Users []AuthUser `json:"users"`
}

// adminCreateUserRequest — запрос на создание пользователя через Admin API.
// EmailConfirm: true — пользователь создаётся сразу подтверждённым,
// без отправки письма верификации.
type adminCreateUserRequest struct {
	Email        string `json:"email"`
	Password     string `json:"password"`
	EmailConfirm bool   `json:"email_confirm"`
}

// UserRoleRow — строка таблицы user_roles (PostgREST).
type UserRoleRow struct {
	UserID    string    `json:"user_id"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// roleInsertRequest — запрос на вставку строки в user_roles.
type roleInsertRequest struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
}

// rolePatchRequest — запрос на обновление роли в user_roles.
type rolePatchRequest struct {
	Role string `json:"role"`
}

// authErrorResponse — тело ошибки GoTrue.
// Разные версии GoTrue используют разные поля.
type authErrorResponse struct {
	Message  string `json:"message,omitempty"`
	Msg      string `json:"msg,omitempty"`
	ErrorMsg string `json:"error,omitempty"`
}

// message возвращает текст ошибки из первого непустого поля.
func (e *authErrorResponse) message() string {
	switch {
	case e.Message != "":
		return e.Message
	case e.Msg != "":
		return e.Msg
	default:
		return e.ErrorMsg
	}
}
