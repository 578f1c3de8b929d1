package blank

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/AcryCxde/shift-report/internal/storage"
)

// Полных 11 часов + неполный хвост 10 минут
func TestGenerateRecords_PartialLastHour(t *testing.T) {
	sh := dayShift() // 08:00-20:00, перерывы 50 мин, фонд 670

	working, err := WorkingTimeMinutes(sh)
	assert.NoError(t, err)
	assert.Equal(t, 670, working)

	records, err := GenerateRecords(sh, working, 9)
	assert.NoError(t, err)

	// Количество записей = ceil(фонд/60)
	assert.Len(t, records, 12)

	for i, rec := range records {
		assert.Equal(t, i+1, rec.HourNumber)
		if i < 11 {
			assert.Equal(t, 9, rec.PlannedQuantity)
		}
	}

	// Неполный час: ceil(9 * 10 / 60) = 2
	last := records[11]
	assert.Equal(t, 2, last.PlannedQuantity)
	assert.Equal(t, "19:00", last.StartTime)
	assert.Equal(t, "19:10", last.EndTime)

	// Интервалы непрерывны, без разрывов
	for i := 1; i < len(records); i++ {
		assert.Equal(t, records[i-1].EndTime, records[i].StartTime)
	}

	// Накопительный план — бегущая сумма
	sum := 0
	for _, rec := range records {
		sum += rec.PlannedQuantity
		assert.Equal(t, sum, rec.CumulativePlan)
	}
}

// Фонд кратен часу — неполного интервала нет
func TestGenerateRecords_NoRemainder(t *testing.T) {
	sh := &storage.Shift{StartTime: "08:00", EndTime: "16:00"}

	records, err := GenerateRecords(sh, 480, 7)
	assert.NoError(t, err)

	assert.Len(t, records, 8)
	assert.Equal(t, "15:00", records[7].StartTime)
	assert.Equal(t, "16:00", records[7].EndTime)
	assert.Equal(t, 56, records[7].CumulativePlan)
}

// Сумма плана по часам не меньше сменного плана (округление вверх)
func TestGenerateRecords_PlanSumBound(t *testing.T) {
	cases := []struct {
		working int
		qty     int
	}{
		{660, 100},
		{670, 97},
		{480, 55},
		{455, 33},
		{725, 1},
	}

	sh := &storage.Shift{StartTime: "08:00", EndTime: "23:00"}

	for _, tc := range cases {
		params, err := ComputeParameters(tc.working, tc.qty, nil, storage.BlankType1)
		assert.NoError(t, err)

		records, err := GenerateRecords(sh, tc.working, params.HourlyPlan)
		assert.NoError(t, err)

		total := 0
		for _, rec := range records {
			total += rec.PlannedQuantity
		}
		assert.GreaterOrEqual(t, total, tc.qty,
			"фонд=%d план=%d", tc.working, tc.qty)

		expectedCount := tc.working / 60
		if tc.working%60 > 0 {
			expectedCount++
		}
		assert.Len(t, records, expectedCount)
	}
}

// Ночная смена: интервалы корректно переходят через полночь
func TestGenerateRecords_Overnight(t *testing.T) {
	sh := &storage.Shift{StartTime: "20:00", EndTime: "08:00", LunchBreak: 60}

	records, err := GenerateRecords(sh, 660, 10)
	assert.NoError(t, err)

	assert.Len(t, records, 11)
	assert.Equal(t, "20:00", records[0].StartTime)
	assert.Equal(t, "23:00", records[3].StartTime)
	assert.Equal(t, "00:00", records[3].EndTime)
	assert.Equal(t, "00:00", records[4].StartTime)
	assert.Equal(t, "07:00", records[10].EndTime)
}

func TestProrate(t *testing.T) {
	assert.Equal(t, 2, prorate(9, 10))  // ceil(1.5)
	assert.Equal(t, 5, prorate(10, 30)) // ровно 5
	assert.Equal(t, 1, prorate(1, 1))   // ceil(0.016..)
	assert.Equal(t, 9, prorate(10, 50)) // ceil(8.33)
}
