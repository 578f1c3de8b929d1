package auth

// Role — закрытый перечень ролей. Сравнение ролей в обработчиках
// запрещено, проверки идут только через Allowed.
type Role string

const (
	RoleOperator Role = "operator" // оператор РМ: ввод факта
	RoleMaster   Role = "master"   // мастер участка: бланки и мониторинг
	RoleChief    Role = "chief"    // начальник цеха: аналитика и отчёты
	RoleAdmin    Role = "admin"    // администратор: справочники
)

// Capability — действие, на которое выдаётся право.
type Capability string

const (
	CapFillActual      Capability = "fill_actual"      // ввод факта за час
	CapCreateBlank     Capability = "create_blank"     // создание бланков
	CapCloseBlank      Capability = "close_blank"      // смена статуса бланка
	CapViewMonitoring  Capability = "view_monitoring"  // мониторинг участка
	CapViewAnalytics   Capability = "view_analytics"   // аналитика и отчёты
	CapManageReference Capability = "manage_reference" // справочники и шаблоны
	CapImportExport    Capability = "import_export"    // CSV импорт/экспорт
)

// Единая матрица прав. Права строго расширяются вверх по иерархии,
// кроме manage_reference: справочники правит только администратор.
var capabilities = map[Role]map[Capability]bool{
	RoleOperator: {
		CapFillActual: true,
	},
	RoleMaster: {
		CapFillActual:     true,
		CapCreateBlank:    true,
		CapCloseBlank:     true,
		CapViewMonitoring: true,
	},
	RoleChief: {
		CapFillActual:     true,
		CapCreateBlank:    true,
		CapCloseBlank:     true,
		CapViewMonitoring: true,
		CapViewAnalytics:  true,
		CapImportExport:   true,
	},
	RoleAdmin: {
		CapFillActual:      true,
		CapCreateBlank:     true,
		CapCloseBlank:      true,
		CapViewMonitoring:  true,
		CapViewAnalytics:   true,
		CapManageReference: true,
		CapImportExport:    true,
	},
}

// Allowed проверяет право роли. Неизвестная роль не имеет прав.
func Allowed(role Role, cap Capability) bool {
	return capabilities[role][cap]
}

// ParseRole валидирует строку роли из хранилища.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleOperator, RoleMaster, RoleChief, RoleAdmin:
		return Role(s), true
	}
	return "", false
}
