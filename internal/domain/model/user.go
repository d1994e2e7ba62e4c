// Пакет model — доменные модели API Module.
package model

import "time"

// ManagedUser — учётная запись в Supabase Auth.
// API Module не хранит пользователей локально — все данные
// запрашиваются у Remote Service (GoTrue Admin API).
type ManagedUser struct {
	// ID — Supabase user ID (UUID, выдаётся Remote Service)
	ID string
	// Email — адрес электронной почты
	Email string
	// CreatedAt — дата создания учётной записи
	CreatedAt time.Time
	// LastSignInAt — время последнего входа (nil — не входил ни разу)
	LastSignInAt *time.Time
}

// RoleAssignment — назначение роли пользователю.
// Хранится в таблице user_roles на стороне Remote Service (PostgREST).
// Один пользователь — не более одной записи.
type RoleAssignment struct {
	// UserID — идентификатор пользователя (ссылка на ManagedUser.ID)
	UserID string
	// Role — роль (admin, worker)
	Role string
	// AssignedAt — время назначения роли
	AssignedAt time.Time
}

// UserWithRole — пользователь с вычисленной ролью.
// Формируется join'ом ManagedUser + RoleAssignment в памяти;
// пользователь без записи в user_roles получает роль worker.
type UserWithRole struct {
	ID           string
	Email        string
	Role         string
	CreatedAt    time.Time
	LastSignInAt *time.Time
}
