// Пакет rbac — роли пользователей и правила доступа.
// Роли хранятся в таблице user_roles на стороне Remote Service;
// отсутствие записи трактуется как роль по умолчанию (worker).
package rbac

// Роли в порядке возрастания привилегий.
const (
	RoleWorker = "worker"
	RoleAdmin  = "admin"
)

// DefaultRole — роль пользователя без записи в user_roles.
const DefaultRole = RoleWorker

// roleWeight — вес роли для сравнения.
// Чем выше вес, тем больше привилегий.
var roleWeight = map[string]int{
	RoleWorker: 1,
	RoleAdmin:  2,
}

// IsValidRole проверяет, является ли строка допустимой ролью.
func IsValidRole(role string) bool {
	_, ok := roleWeight[role]
	return ok
}

// CanManageUsers проверяет, даёт ли роль доступ к администрированию пользователей.
func CanManageUsers(role string) bool {
	return role == RoleAdmin
}

// AtLeast проверяет, что роль a имеет не меньше привилегий, чем роль b.
// Неизвестные роли имеют вес 0.
func AtLeast(a, b string) bool {
	return roleWeight[a] >= roleWeight[b]
}
