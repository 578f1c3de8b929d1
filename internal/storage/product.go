package storage

// Product — номенклатура с нормативными показателями времени.
type Product struct {
	ID      int64  `json:"id"`
	Article string `json:"article"`
	Name    string `json:"name"`
	Unit    string `json:"unit"`

	// Нормативное время такта и фактическое время цикла, сек
	TaktTime  *int `json:"takt_time"`
	CycleTime *int `json:"cycle_time"`

	Description string `json:"description"`
	IsActive    bool   `json:"is_active"`
}
