package blank

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/AcryCxde/shift-report/internal/storage"
)

func testRecords() []*storage.Record {
	return []*storage.Record{
		{ID: 1, HourNumber: 1, StartTime: "08:00", EndTime: "09:00", PlannedQuantity: 10},
		{ID: 2, HourNumber: 2, StartTime: "09:00", EndTime: "10:00", PlannedQuantity: 10},
		{ID: 3, HourNumber: 3, StartTime: "10:00", EndTime: "11:00", PlannedQuantity: 10},
		{ID: 4, HourNumber: 4, StartTime: "11:00", EndTime: "11:30", PlannedQuantity: 5},
	}
}

func TestRecalculateCumulatives(t *testing.T) {
	records := testRecords()
	records[0].ActualQuantity = 8
	records[1].ActualQuantity = 12
	records[2].ActualQuantity = 10

	changed := RecalculateCumulatives(records)

	// Накопительные суммы по всем предшествующим часам
	assert.Equal(t, 10, records[0].CumulativePlan)
	assert.Equal(t, 8, records[0].CumulativeFact)
	assert.Equal(t, -2, records[0].CumulativeDeviation)
	assert.Equal(t, -2, records[0].Deviation)

	assert.Equal(t, 20, records[1].CumulativePlan)
	assert.Equal(t, 20, records[1].CumulativeFact)
	assert.Equal(t, 0, records[1].CumulativeDeviation)
	assert.Equal(t, 2, records[1].Deviation)

	assert.Equal(t, 30, records[2].CumulativePlan)
	assert.Equal(t, 30, records[2].CumulativeFact)

	assert.Equal(t, 35, records[3].CumulativePlan)
	assert.Equal(t, 30, records[3].CumulativeFact)
	assert.Equal(t, -5, records[3].CumulativeDeviation)

	assert.Len(t, changed, 4)
}

// Исправление исторического часа каскадно обновляет последующие записи
func TestRecalculateCumulatives_HistoricalEdit(t *testing.T) {
	records := testRecords()
	records[0].ActualQuantity = 10
	records[1].ActualQuantity = 10
	records[2].ActualQuantity = 10
	RecalculateCumulatives(records)

	// Оператор исправляет 1-й час после того, как внесён 3-й
	records[0].ActualQuantity = 5
	changed := RecalculateCumulatives(records)

	assert.Equal(t, 5, records[0].CumulativeFact)
	assert.Equal(t, 15, records[1].CumulativeFact)
	assert.Equal(t, 25, records[2].CumulativeFact)
	assert.Equal(t, -5, records[2].CumulativeDeviation)
	assert.Equal(t, 25, records[3].CumulativeFact)

	// Изменились все записи начиная с исправленной
	assert.Len(t, changed, 4)
}

// Повторный пересчёт без изменений данных ничего не трогает
func TestRecalculateCumulatives_Idempotent(t *testing.T) {
	records := testRecords()
	records[1].ActualQuantity = 7

	first := RecalculateCumulatives(records)
	assert.NotEmpty(t, first)

	second := RecalculateCumulatives(records)
	assert.Empty(t, second)
}

func TestRecalculateTotals(t *testing.T) {
	b := &storage.Blank{PlannedQuantity: 35}
	records := testRecords()
	records[0].ActualQuantity = 8
	records[1].ActualQuantity = 12
	records[0].DowntimeMinutes = 15

	RecalculateTotals(b, records)

	assert.Equal(t, 35, b.TotalPlan)
	assert.Equal(t, 20, b.TotalFact)
	assert.Equal(t, -15, b.TotalDeviation)
	assert.Equal(t, 15, b.TotalDowntime)
	// 20/35 = 57.14%
	assert.Equal(t, "57.14", b.CompletionPercentage.String())
}

func TestRecalculateTotals_EmptyPlan(t *testing.T) {
	b := &storage.Blank{}

	RecalculateTotals(b, nil)

	assert.Equal(t, 0, b.TotalPlan)
	assert.Equal(t, "0.00", b.CompletionPercentage.String())
}

// Идемпотентность итогов: два пересчёта подряд дают одно и то же
func TestRecalculateTotals_Idempotent(t *testing.T) {
	b := &storage.Blank{}
	records := testRecords()
	records[0].ActualQuantity = 9

	RecalculateTotals(b, records)
	firstPlan, firstPct := b.TotalPlan, b.CompletionPercentage

	RecalculateTotals(b, records)

	assert.Equal(t, firstPlan, b.TotalPlan)
	assert.True(t, firstPct.Equal(b.CompletionPercentage.Decimal))
}

func TestCurrentCompletionPercentage_Today(t *testing.T) {
	b := &storage.Blank{Date: "2026-08-31"}
	records := testRecords()
	records[0].ActualQuantity = 9
	records[1].ActualQuantity = 11
	records[2].ActualQuantity = 50 // час ещё не завершился, не учитывается

	// 10:30 — завершились только часы 1 и 2
	now := time.Date(2026, 8, 31, 10, 30, 0, 0, time.Local)

	pct := CurrentCompletionPercentage(b, records, now)

	// (9+11) / (10+10) = 100%
	assert.Equal(t, "100.00", pct.String())
}

func TestCurrentCompletionPercentage_NoElapsedHours(t *testing.T) {
	b := &storage.Blank{Date: "2026-08-31"}
	now := time.Date(2026, 8, 31, 8, 15, 0, 0, time.Local)

	pct := CurrentCompletionPercentage(b, testRecords(), now)

	assert.Equal(t, "0.00", pct.String())
}

// Для бланка не на сегодня возвращается сохранённый общий процент
func TestCurrentCompletionPercentage_PastBlank(t *testing.T) {
	b := &storage.Blank{
		Date:                 "2026-08-30",
		CompletionPercentage: storage.Fixed(decimal.RequireFromString("87.50")),
	}
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.Local)

	pct := CurrentCompletionPercentage(b, testRecords(), now)

	assert.Equal(t, "87.50", pct.String())
}

func TestStatusColor(t *testing.T) {
	assert.Equal(t, "success", StatusColor(decimal.NewFromInt(100)))
	assert.Equal(t, "success", StatusColor(decimal.NewFromInt(120)))
	assert.Equal(t, "warning", StatusColor(decimal.RequireFromString("95.5")))
	assert.Equal(t, "warning", StatusColor(decimal.NewFromInt(90)))
	assert.Equal(t, "danger", StatusColor(decimal.RequireFromString("89.99")))
	assert.Equal(t, "danger", StatusColor(decimal.Zero))
}
