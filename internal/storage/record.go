package storage

import "time"

// Record — почасовая запись ПА: план и факт за один интервал смены.
// Уникальна по (бланк, номер часа), номер часа в диапазоне 1..24.
type Record struct {
	ID         int64 `json:"id"`
	BlankID    int64 `json:"blank_id"`
	HourNumber int   `json:"hour_number"`

	StartTime string `json:"start_time"` // "HH:MM"
	EndTime   string `json:"end_time"`

	PlannedQuantity int `json:"planned_quantity"`
	CumulativePlan  int `json:"cumulative_plan"`

	ActualQuantity int `json:"actual_quantity"`
	CumulativeFact int `json:"cumulative_fact"`

	// Факт - план, может быть отрицательным
	Deviation           int `json:"deviation"`
	CumulativeDeviation int `json:"cumulative_deviation"`

	DowntimeMinutes int `json:"downtime_minutes"`

	IsFilled bool       `json:"is_filled"`
	FilledAt *time.Time `json:"filled_at"`
	FilledBy *int64     `json:"filled_by"`
}
