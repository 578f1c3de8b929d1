package storage

import "time"

// DeviationGroup — группа причин отклонений (классификатор МУ-55-2024):
// организационные, технические, нет поставок, регламентные работы, качество.
type DeviationGroup struct {
	ID          int64  `json:"id"`
	Code        string `json:"code"`
	Name        string `json:"name"`
	Color       string `json:"color"` // HEX для отчётов
	Order       int    `json:"order"`
	Description string `json:"description"`
	IsActive    bool   `json:"is_active"`
}

// DeviationReason — конкретная причина простоя внутри группы.
// Статистика использования не хранится: топ причин считается
// агрегатом по записям об отклонениях на момент запроса.
type DeviationReason struct {
	ID          int64  `json:"id"`
	GroupID     int64  `json:"group_id"`
	Code        string `json:"code"`
	Name        string `json:"name"`
	Order       int    `json:"order"`
	Description string `json:"description"`
	IsActive    bool   `json:"is_active"`
}

// Типы мер, принимаемых мастером по отклонению.
const (
	MeasureFixed            = "fixed"             // устранено
	MeasureInRepair         = "in_repair"         // в ремонте
	MeasureOperatorReplaced = "operator_replaced" // заменён оператор
	MeasurePlanAdjusted     = "plan_adjusted"     // скорректирован план
	MeasureEscalated        = "escalated"         // эскалировано
	MeasureOther            = "other"             // другое
)

func ValidMeasureType(t string) bool {
	switch t {
	case MeasureFixed, MeasureInRepair, MeasureOperatorReplaced,
		MeasurePlanAdjusted, MeasureEscalated, MeasureOther:
		return true
	}
	return false
}

// TakenMeasure — мера, принятая мастером по зафиксированному
// отклонению. Одно отклонение может собрать несколько мер.
type TakenMeasure struct {
	ID               int64  `json:"id"`
	DeviationEntryID int64  `json:"deviation_entry_id"`
	MeasureType      string `json:"measure_type"`
	Description      string `json:"description"`

	ResolvedAt *time.Time `json:"resolved_at"`

	CreatedBy *int64    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}

func (m *TakenMeasure) IsResolved() bool { return m.ResolvedAt != nil }

// DeviationEntry — зафиксированная причина отклонения для почасовой
// записи. Одна запись может иметь несколько причин.
type DeviationEntry struct {
	ID       int64 `json:"id"`
	RecordID int64 `json:"record_id"`
	ReasonID int64 `json:"reason_id"`

	DurationMinutes int `json:"duration_minutes"`

	ResponsibleID *int64 `json:"responsible_id"`
	Comment       string `json:"comment"`

	CreatedBy *int64    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}
