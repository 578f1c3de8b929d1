package mysql

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AcryCxde/shift-report/internal/storage"
)

type TestBlankFixture struct {
	Date            string
	ShiftID         int64
	WorkplaceID     int64
	ProductID       int64
	PlannedQuantity int
	HourlyPlans     []int
}

// createTestPlacement создаёт цех, участок и РМ, возвращает id РМ.
func createTestPlacement(t *testing.T) int64 {
	res, err := testDB.Exec(`
		INSERT INTO workshops (number, name, description, is_active)
		VALUES (1, 'Тестовый цех', '', TRUE)`)
	require.NoError(t, err)
	workshopID, err := res.LastInsertId()
	require.NoError(t, err)

	res, err = testDB.Exec(`
		INSERT INTO sectors (workshop_id, number, name, description, is_active)
		VALUES (?, 1, 'Тестовый участок', '', TRUE)`, workshopID)
	require.NoError(t, err)
	sectorID, err := res.LastInsertId()
	require.NoError(t, err)

	res, err = testDB.Exec(`
		INSERT INTO workplaces (sector_id, number, name, equipment_type,
			passport_capacity, achieved_capacity, description, is_active)
		VALUES (?, 1, 'Тестовое РМ', 'станок', NULL, NULL, '', TRUE)`, sectorID)
	require.NoError(t, err)
	workplaceID, err := res.LastInsertId()
	require.NoError(t, err)

	return workplaceID
}

func createTestShift(t *testing.T) int64 {
	res, err := testDB.Exec(`
		INSERT INTO shifts (number, name, start_time, end_time,
			lunch_break, personal_break, handover_break, other_break, is_active)
		VALUES (1, 'Первая смена', '08:00', '20:00', 30, 10, 10, 0, TRUE)`)
	require.NoError(t, err)
	id, err := res.LastInsertId()
	require.NoError(t, err)
	return id
}

func createTestProduct(t *testing.T) int64 {
	res, err := testDB.Exec(`
		INSERT INTO products (article, name, unit, takt_time, cycle_time, description, is_active)
		VALUES ('АРТ-001', 'Тестовое изделие', 'шт', NULL, NULL, '', TRUE)`)
	require.NoError(t, err)
	id, err := res.LastInsertId()
	require.NoError(t, err)
	return id
}

func testBlank(fixture TestBlankFixture) (*storage.Blank, []*storage.Record) {
	b := &storage.Blank{
		WorkplaceID:          fixture.WorkplaceID,
		Date:                 fixture.Date,
		ShiftID:              fixture.ShiftID,
		ProductID:            fixture.ProductID,
		BlankType:            storage.BlankType1,
		Status:               storage.BlankStatusActive,
		PlannedQuantity:      fixture.PlannedQuantity,
		TaktTime:             storage.Fixed(decimal.RequireFromString("396")),
		ProductionRate:       storage.Fixed(decimal.RequireFromString("9.09")),
		HourlyPlan:           10,
		CompletionPercentage: storage.Fixed2{},
	}

	var records []*storage.Record
	cumulative := 0
	start := 8 * 60
	for i, plan := range fixture.HourlyPlans {
		cumulative += plan
		records = append(records, &storage.Record{
			HourNumber:      i + 1,
			StartTime:       formatMinutes(start + i*60),
			EndTime:         formatMinutes(start + (i+1)*60),
			PlannedQuantity: plan,
			CumulativePlan:  cumulative,
		})
		b.TotalPlan += plan
	}

	return b, records
}

func formatMinutes(m int) string {
	m %= 24 * 60
	return time.Date(2000, 1, 1, m/60, m%60, 0, 0, time.UTC).Format("15:04")
}

func cleanupBlankTables(t *testing.T) {
	tables := []string{"deviation_entries", "pa_records", "pa_blanks",
		"workplaces", "sectors", "workshops", "shifts", "products"}
	for _, table := range tables {
		_, err := testDB.Exec("DELETE FROM " + table)
		require.NoError(t, err)
	}
}

func TestStorage_CreateAndGetBlank(t *testing.T) {
	cleanupBlankTables(t)

	wpID := createTestPlacement(t)
	shiftID := createTestShift(t)
	productID := createTestProduct(t)

	b, records := testBlank(TestBlankFixture{
		Date:            "2026-08-31",
		ShiftID:         shiftID,
		WorkplaceID:     wpID,
		ProductID:       productID,
		PlannedQuantity: 100,
		HourlyPlans:     []int{10, 10, 10, 10, 10, 10, 10, 10, 10, 10, 10},
	})

	s := &Storage{db: testDB}
	id, err := s.CreateBlank(context.Background(), b, records)
	require.NoError(t, err)
	require.NotZero(t, id)

	got, err := s.GetBlank(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, storage.BlankStatusActive, got.Status)
	assert.Equal(t, 110, got.TotalPlan)
	assert.True(t, got.TaktTime.Equal(decimal.RequireFromString("396")))

	gotRecords, err := s.GetBlankRecords(context.Background(), id)
	require.NoError(t, err)
	require.Len(t, gotRecords, 11)
	assert.Equal(t, "08:00", gotRecords[0].StartTime)
	assert.Equal(t, 110, gotRecords[10].CumulativePlan)
}

func TestStorage_CreateBlank_Duplicate(t *testing.T) {
	cleanupBlankTables(t)

	wpID := createTestPlacement(t)
	shiftID := createTestShift(t)
	productID := createTestProduct(t)

	fixture := TestBlankFixture{
		Date:            "2026-08-31",
		ShiftID:         shiftID,
		WorkplaceID:     wpID,
		ProductID:       productID,
		PlannedQuantity: 100,
		HourlyPlans:     []int{10, 10},
	}

	s := &Storage{db: testDB}

	b, records := testBlank(fixture)
	_, err := s.CreateBlank(context.Background(), b, records)
	require.NoError(t, err)

	b2, records2 := testBlank(fixture)
	_, err = s.CreateBlank(context.Background(), b2, records2)
	require.ErrorIs(t, err, storage.ErrDuplicateBlank)
}

// UpdateBlank читает бланк и записи под блокировкой, а возвращённые
// изменения сохраняет в той же транзакции
func TestStorage_UpdateBlank(t *testing.T) {
	cleanupBlankTables(t)

	wpID := createTestPlacement(t)
	shiftID := createTestShift(t)
	productID := createTestProduct(t)

	b, records := testBlank(TestBlankFixture{
		Date:            "2026-08-31",
		ShiftID:         shiftID,
		WorkplaceID:     wpID,
		ProductID:       productID,
		PlannedQuantity: 100,
		HourlyPlans:     []int{10, 10},
	})

	s := &Storage{db: testDB}
	id, err := s.CreateBlank(context.Background(), b, records)
	require.NoError(t, err)

	err = s.UpdateBlank(context.Background(), id, func(locked *storage.Blank, recs []*storage.Record) (*storage.BlankUpdate, error) {
		require.Len(t, recs, 2)

		rec := recs[0]
		rec.ActualQuantity = 7
		rec.IsFilled = true
		rec.Deviation = -3
		rec.CumulativeFact = 7
		rec.CumulativeDeviation = -3

		locked.TotalFact = 7
		locked.TotalDeviation = -13
		locked.CompletionPercentage = storage.Fixed(decimal.RequireFromString("35"))

		return &storage.BlankUpdate{Record: rec, Changed: recs[:1]}, nil
	})
	require.NoError(t, err)

	got, err := s.GetBlank(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, 7, got.TotalFact)
	assert.Equal(t, "35.00", got.CompletionPercentage.String())

	gotRecords, err := s.GetBlankRecords(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, 7, gotRecords[0].ActualQuantity)
	assert.True(t, gotRecords[0].IsFilled)
	assert.Equal(t, 7, gotRecords[0].CumulativeFact)
}

// Ошибка из колбэка откатывает транзакцию целиком
func TestStorage_UpdateBlank_CallbackError(t *testing.T) {
	cleanupBlankTables(t)

	wpID := createTestPlacement(t)
	shiftID := createTestShift(t)
	productID := createTestProduct(t)

	b, records := testBlank(TestBlankFixture{
		Date:            "2026-08-31",
		ShiftID:         shiftID,
		WorkplaceID:     wpID,
		ProductID:       productID,
		PlannedQuantity: 100,
		HourlyPlans:     []int{10, 10},
	})

	s := &Storage{db: testDB}
	id, err := s.CreateBlank(context.Background(), b, records)
	require.NoError(t, err)

	require.NoError(t, s.UpdateBlankStatus(context.Background(), id, storage.BlankStatusCompleted))

	err = s.UpdateBlank(context.Background(), id, func(locked *storage.Blank, recs []*storage.Record) (*storage.BlankUpdate, error) {
		if !locked.IsEditable() {
			return nil, storage.ErrBlankNotEditable
		}
		return &storage.BlankUpdate{}, nil
	})
	require.ErrorIs(t, err, storage.ErrBlankNotEditable)

	gotRecords, err := s.GetBlankRecords(context.Background(), id)
	require.NoError(t, err)
	assert.False(t, gotRecords[0].IsFilled)
}

func TestStorage_ListBlanks_Filter(t *testing.T) {
	cleanupBlankTables(t)

	wpID := createTestPlacement(t)
	shiftID := createTestShift(t)
	productID := createTestProduct(t)

	s := &Storage{db: testDB}
	for _, date := range []string{"2026-08-30", "2026-08-31"} {
		b, records := testBlank(TestBlankFixture{
			Date:            date,
			ShiftID:         shiftID,
			WorkplaceID:     wpID,
			ProductID:       productID,
			PlannedQuantity: 100,
			HourlyPlans:     []int{10, 10},
		})
		_, err := s.CreateBlank(context.Background(), b, records)
		require.NoError(t, err)
	}

	blanks, err := s.ListBlanks(context.Background(), storage.BlankFilter{
		DateFrom: "2026-08-31",
		DateTo:   "2026-08-31",
	})
	require.NoError(t, err)
	require.Len(t, blanks, 1)
	assert.Equal(t, "2026-08-31", blanks[0].Date)

	blanks, err = s.ListBlanks(context.Background(), storage.BlankFilter{Status: storage.BlankStatusCancelled})
	require.NoError(t, err)
	assert.Empty(t, blanks)
}
