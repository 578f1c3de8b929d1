package storage

import "time"

// Типы бланков производственного анализа.
// Автоматически выбираются только типы 1 и 2; типы 3-5 задаются вручную.
const (
	BlankType1 = "type_1" // по времени такта
	BlankType2 = "type_2" // по мощности РМ
	BlankType3 = "type_3" // несколько номенклатур
	BlankType4 = "type_4" // менее 1 изделия в час
	BlankType5 = "type_5" // менее 1 изделия в смену
)

const (
	BlankStatusDraft     = "draft"
	BlankStatusActive    = "active"
	BlankStatusCompleted = "completed"
	BlankStatusCancelled = "cancelled"
)

// Blank — бланк производственного анализа (ПА), основной документ
// почасового учёта выполнения плана на одно РМ на одну смену.
type Blank struct {
	ID          int64  `json:"id"`
	WorkplaceID int64  `json:"workplace_id"`
	Date        string `json:"date"` // "2006-01-02"
	ShiftID     int64  `json:"shift_id"`
	ProductID   int64  `json:"product_id"`

	BlankType string `json:"blank_type"`
	Status    string `json:"status"`

	PlannedQuantity int `json:"planned_quantity"`

	// Расчётные показатели, заполняются один раз при создании
	TaktTime          Fixed2 `json:"takt_time"`       // сек на единицу
	ProductionRate    Fixed2 `json:"production_rate"` // шт/час
	HourlyPlan        int    `json:"hourly_plan"`     // округлённый вверх темп
	WorkplaceCapacity *int   `json:"workplace_capacity"`

	// Итоговые показатели, пересчитываются при каждом изменении записей
	TotalPlan            int    `json:"total_plan"`
	TotalFact            int    `json:"total_fact"`
	TotalDeviation       int    `json:"total_deviation"` // положительное = перевыполнение
	TotalDowntime        int    `json:"total_downtime"`  // мин
	CompletionPercentage Fixed2 `json:"completion_percentage"`

	Notes string `json:"notes"`

	CreatedBy *int64    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsEditable — редактировать можно только черновик или активный бланк.
func (b *Blank) IsEditable() bool {
	return b.Status == BlankStatusDraft || b.Status == BlankStatusActive
}

// BlankUpdate — результат пересчёта под блокировкой бланка: что
// сохранить в той же транзакции.
type BlankUpdate struct {
	Record  *Record           // запись часа с новым фактом, может быть nil
	Changed []*Record         // записи с изменёнными накопительными полями
	Entries []*DeviationEntry // причины отклонения записи, замена целиком
}

// BlankFilter — фильтр списка бланков.
type BlankFilter struct {
	DateFrom    string
	DateTo      string
	WorkplaceID int64
	SectorID    int64
	WorkshopID  int64
	Status      string
}
