// errors.go — ошибки бизнес-логики сервисного слоя.
package service

import "errors"

var (
	// ErrNotFound — ресурс не найден.
	ErrNotFound = errors.New("ресурс не найден")
	// ErrConflict — конфликт (дублирующийся ресурс).
	ErrConflict = errors.New("конфликт — ресурс уже существует")
	// ErrInvalidRole — некорректная роль.
	ErrInvalidRole = errors.New("некорректная роль: допустимые значения — admin, worker")
	// ErrIDPUnavailable — Supabase недоступен.
	ErrIDPUnavailable = errors.New("сервис аутентификации недоступен")
	// ErrValidation — ошибка валидации входных данных.
	ErrValidation = errors.New("ошибка валидации")
	// ErrCompensationFailed — создание роли не удалось, и компенсирующее
	// удаление пользователя тоже не удалось. Требуется ручное вмешательство.
	ErrCompensationFailed = errors.New("пользователь создан без роли — компенсация не удалась")
)
