package storage

type Workshop struct {
	ID          int64  `json:"id"`
	Number      int    `json:"number"`
	Name        string `json:"name"`
	Description string `json:"description"`
	IsActive    bool   `json:"is_active"`
}

type Sector struct {
	ID          int64  `json:"id"`
	WorkshopID  int64  `json:"workshop_id"`
	Number      int    `json:"number"`
	Name        string `json:"name"`
	Description string `json:"description"`
	IsActive    bool   `json:"is_active"`
}

// Workplace — рабочее место, нижний уровень иерархии цех → участок → РМ.
type Workplace struct {
	ID            int64  `json:"id"`
	SectorID      int64  `json:"sector_id"`
	Number        int    `json:"number"`
	Name          string `json:"name"`
	EquipmentType string `json:"equipment_type"`

	// Мощности, шт/час; используются для бланков Типа 2
	PassportCapacity *int `json:"passport_capacity"`
	AchievedCapacity *int `json:"achieved_capacity"`

	Description string `json:"description"`
	IsActive    bool   `json:"is_active"`
}

// Capacity — паспортная мощность, при её отсутствии достигнутая.
func (w *Workplace) Capacity() *int {
	if w.PassportCapacity != nil {
		return w.PassportCapacity
	}
	return w.AchievedCapacity
}
