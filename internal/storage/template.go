package storage

import "time"

// Template — шаблон бланка ПА для быстрого создания типовых заданий.
// Дни недели ограничивают применимость шаблона.
type Template struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	WorkplaceID int64  `json:"workplace_id"`
	ProductID   int64  `json:"product_id"`

	// Если смена не указана, при создании бланка её задаёт вызывающий
	ShiftID *int64 `json:"shift_id"`

	BlankType       string `json:"blank_type"`
	PlannedQuantity int    `json:"planned_quantity"`

	Monday    bool `json:"monday"`
	Tuesday   bool `json:"tuesday"`
	Wednesday bool `json:"wednesday"`
	Thursday  bool `json:"thursday"`
	Friday    bool `json:"friday"`
	Saturday  bool `json:"saturday"`
	Sunday    bool `json:"sunday"`

	Description string `json:"description"`
	IsActive    bool   `json:"is_active"`

	CreatedBy *int64 `json:"created_by"`
}

// ApplicableFor — применим ли шаблон в указанный день недели.
func (t *Template) ApplicableFor(weekday time.Weekday) bool {
	switch weekday {
	case time.Monday:
		return t.Monday
	case time.Tuesday:
		return t.Tuesday
	case time.Wednesday:
		return t.Wednesday
	case time.Thursday:
		return t.Thursday
	case time.Friday:
		return t.Friday
	case time.Saturday:
		return t.Saturday
	case time.Sunday:
		return t.Sunday
	}
	return false
}
