package storage

// Агрегаты для аналитики. Процентные поля
// заполняет сервис, хранилище отдаёт только суммы и счётчики.

type BlankTotals struct {
	TotalPlan      int `json:"total_plan"`
	TotalFact      int `json:"total_fact"`
	TotalDeviation int `json:"total_deviation"`
	TotalDowntime  int `json:"total_downtime"`
	BlanksCount    int `json:"blanks_count"`
}

type DashboardSummary struct {
	BlankTotals
	CompletionPercentage Fixed2         `json:"completion_percentage"`
	DeviationsCount      int            `json:"deviations_count"`
	Statuses             map[string]int `json:"statuses"`
}

type DailyTotals struct {
	Date        string `json:"date"`
	Plan        int    `json:"plan"`
	Fact        int    `json:"fact"`
	Deviation   int    `json:"deviation"`
	BlanksCount int    `json:"blanks"`
}

type DailyDynamics struct {
	DailyTotals
	Completion Fixed2 `json:"completion"`
}

type DeviationCategory struct {
	GroupName  string `json:"group_name"`
	GroupCode  string `json:"group_code"`
	GroupColor string `json:"group_color"`
	Count      int    `json:"count"`
	Duration   int    `json:"duration"` // мин
	Percentage Fixed2 `json:"percentage"`
}

type TopReason struct {
	ReasonName string `json:"reason_name"`
	ReasonCode string `json:"reason_code"`
	GroupName  string `json:"group_name"`
	GroupColor string `json:"group_color"`
	Count      int    `json:"count"`
	Duration   int    `json:"duration"` // мин
}

type WorkplaceTotals struct {
	WorkplaceID   int64  `json:"workplace_id"`
	WorkplaceName string `json:"workplace_name"`
	SectorName    string `json:"sector_name"`
	BlankTotals
}

type WorkplaceComparison struct {
	WorkplaceTotals
	Completion Fixed2 `json:"completion"`
}

type ShiftTotals struct {
	ShiftNumber int    `json:"shift_number"`
	ShiftName   string `json:"shift_name"`
	BlankTotals
}

type ShiftComparison struct {
	ShiftTotals
	Completion Fixed2 `json:"completion"`
}

type HourlyTotals struct {
	HourNumber   int    `json:"hour"`
	AvgPlan      Fixed2 `json:"avg_plan"`
	AvgFact      Fixed2 `json:"avg_fact"`
	TotalPlan    int    `json:"total_plan"`
	TotalFact    int    `json:"total_fact"`
	RecordsCount int    `json:"records_count"`
}

type HourlyPattern struct {
	HourlyTotals
	Completion Fixed2 `json:"completion"`
}

type ParetoItem struct {
	TopReason
	Percentage           Fixed2 `json:"percentage"`
	CumulativePercentage Fixed2 `json:"cumulative_percentage"`
}

type ParetoAnalysis struct {
	Data          []ParetoItem `json:"data"`
	TotalDuration int          `json:"total_duration"`
}

// AnalyticsFilter — период и срез по подразделению.
type AnalyticsFilter struct {
	DateFrom   string
	DateTo     string
	WorkshopID int64
	SectorID   int64
}
