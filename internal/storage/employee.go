package storage

// Employee — сотрудник. Идентификация по табельному номеру,
// вместо пароля PIN-код (хранится bcrypt-хешем).
type Employee struct {
	ID              int64  `json:"id"`
	PersonnelNumber string `json:"personnel_number"`
	PinHash         string `json:"-"`

	LastName   string `json:"last_name"`
	FirstName  string `json:"first_name"`
	MiddleName string `json:"middle_name"`

	Role string `json:"role"`

	// Привязка к подразделению (любой уровень может быть пустым)
	WorkshopID  *int64 `json:"workshop_id"`
	SectorID    *int64 `json:"sector_id"`
	WorkplaceID *int64 `json:"workplace_id"`

	IsActive bool `json:"is_active"`
}
