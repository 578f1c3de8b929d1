package blank

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/AcryCxde/shift-report/internal/storage"
)

type MockBlankStorage struct {
	mock.Mock

	// Что последний UpdateBlank отдал на сохранение
	lastUpdate *storage.BlankUpdate
}

func (m *MockBlankStorage) BlankExists(ctx context.Context, workplaceID int64, date string, shiftID int64) (bool, error) {
	args := m.Called(ctx, workplaceID, date, shiftID)
	return args.Bool(0), args.Error(1)
}

func (m *MockBlankStorage) CreateBlank(ctx context.Context, b *storage.Blank, records []*storage.Record) (int64, error) {
	args := m.Called(ctx, b, records)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockBlankStorage) GetBlank(ctx context.Context, id int64) (*storage.Blank, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storage.Blank), args.Error(1)
}

func (m *MockBlankStorage) GetBlankRecords(ctx context.Context, blankID int64) ([]*storage.Record, error) {
	args := m.Called(ctx, blankID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*storage.Record), args.Error(1)
}

func (m *MockBlankStorage) GetRecord(ctx context.Context, id int64) (*storage.Record, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storage.Record), args.Error(1)
}

func (m *MockBlankStorage) GetShift(ctx context.Context, id int64) (*storage.Shift, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storage.Shift), args.Error(1)
}

func (m *MockBlankStorage) GetWorkplace(ctx context.Context, id int64) (*storage.Workplace, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storage.Workplace), args.Error(1)
}

func (m *MockBlankStorage) GetTemplate(ctx context.Context, id int64) (*storage.Template, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storage.Template), args.Error(1)
}

func (m *MockBlankStorage) GetSectorTemplates(ctx context.Context, sectorID int64) ([]*storage.Template, error) {
	args := m.Called(ctx, sectorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*storage.Template), args.Error(1)
}

func (m *MockBlankStorage) GetDeviationReason(ctx context.Context, id int64) (*storage.DeviationReason, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storage.DeviationReason), args.Error(1)
}

// UpdateBlank отдаёт в колбэк бланк и записи из Return(b, records, err) —
// это снимок «под блокировкой», который видит пересчёт.
func (m *MockBlankStorage) UpdateBlank(ctx context.Context, blankID int64,
	update func(b *storage.Blank, records []*storage.Record) (*storage.BlankUpdate, error)) error {
	args := m.Called(ctx, blankID)
	if args.Get(0) == nil {
		return args.Error(2)
	}

	upd, err := update(args.Get(0).(*storage.Blank), args.Get(1).([]*storage.Record))
	if err != nil {
		return err
	}
	m.lastUpdate = upd
	return args.Error(2)
}

func TestCreateBlank(t *testing.T) {
	mockStorage := new(MockBlankStorage)

	sh := &storage.Shift{
		ID: 3, Number: 2, StartTime: "20:00", EndTime: "08:00", LunchBreak: 60,
	}
	wp := &storage.Workplace{ID: 7, Number: 12}

	mockStorage.On("BlankExists", mock.Anything, int64(7), "2026-08-31", int64(3)).Return(false, nil)
	mockStorage.On("GetShift", mock.Anything, int64(3)).Return(sh, nil)
	mockStorage.On("GetWorkplace", mock.Anything, int64(7)).Return(wp, nil)
	mockStorage.On("CreateBlank", mock.Anything, mock.Anything, mock.Anything).Return(int64(42), nil)

	service := NewService(mockStorage)

	b, records, err := service.CreateBlank(context.Background(), CreateBlankInput{
		WorkplaceID:     7,
		Date:            "2026-08-31",
		ShiftID:         3,
		ProductID:       5,
		PlannedQuantity: 100,
	})

	assert.NoError(t, err)
	assert.Equal(t, int64(42), b.ID)
	assert.Equal(t, storage.BlankStatusActive, b.Status)
	// Мощностей у РМ нет — автоматически тип 1
	assert.Equal(t, storage.BlankType1, b.BlankType)
	// Фонд 660, план 100: Тт=396, темп 9.09, часовой план 10
	assert.Equal(t, "396.00", b.TaktTime.String())
	assert.Equal(t, 10, b.HourlyPlan)

	assert.Len(t, records, 11)
	for _, rec := range records {
		assert.Equal(t, int64(42), rec.BlankID)
	}

	// Итоги заполнены уже при создании
	assert.Equal(t, 110, b.TotalPlan)
	assert.Equal(t, 0, b.TotalFact)
	assert.Equal(t, "0.00", b.CompletionPercentage.String())

	mockStorage.AssertExpectations(t)
}

// Повторное создание бланка на ту же тройку — ошибка,
// до генерации записей дело не доходит
func TestCreateBlank_Duplicate(t *testing.T) {
	mockStorage := new(MockBlankStorage)
	mockStorage.On("BlankExists", mock.Anything, int64(7), "2026-08-31", int64(3)).Return(true, nil)

	service := NewService(mockStorage)

	_, _, err := service.CreateBlank(context.Background(), CreateBlankInput{
		WorkplaceID: 7, Date: "2026-08-31", ShiftID: 3, ProductID: 5, PlannedQuantity: 100,
	})

	assert.True(t, errors.Is(err, storage.ErrDuplicateBlank))
	mockStorage.AssertNotCalled(t, "CreateBlank", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateFromTemplate(t *testing.T) {
	mockStorage := new(MockBlankStorage)

	shiftID := int64(3)
	tpl := &storage.Template{
		ID: 1, WorkplaceID: 7, ProductID: 5, ShiftID: &shiftID,
		BlankType: storage.BlankType2, PlannedQuantity: 80,
		Monday: true,
	}
	sh := &storage.Shift{ID: 3, StartTime: "08:00", EndTime: "17:00", LunchBreak: 30}
	wp := &storage.Workplace{ID: 7, PassportCapacity: intPtr(12)}

	mockStorage.On("GetTemplate", mock.Anything, int64(1)).Return(tpl, nil)
	mockStorage.On("BlankExists", mock.Anything, int64(7), "2026-08-31", int64(3)).Return(false, nil)
	mockStorage.On("GetShift", mock.Anything, int64(3)).Return(sh, nil)
	mockStorage.On("GetWorkplace", mock.Anything, int64(7)).Return(wp, nil)
	mockStorage.On("CreateBlank", mock.Anything, mock.Anything, mock.Anything).Return(int64(9), nil)

	service := NewService(mockStorage)

	b, _, err := service.CreateFromTemplate(context.Background(), 1, "2026-08-31", nil, nil)

	assert.NoError(t, err)
	assert.Equal(t, storage.BlankType2, b.BlankType)
	assert.Equal(t, 80, b.PlannedQuantity)
	assert.Equal(t, 12, *b.WorkplaceCapacity)
}

func TestApplyHourlyActual(t *testing.T) {
	mockStorage := new(MockBlankStorage)

	b := &storage.Blank{ID: 42, Status: storage.BlankStatusActive, Date: "2026-08-31"}
	records := testRecords()
	for _, rec := range records {
		rec.BlankID = 42
	}
	RecalculateCumulatives(records)

	mockStorage.On("GetDeviationReason", mock.Anything, int64(4)).
		Return(&storage.DeviationReason{ID: 4, GroupID: 1}, nil)
	mockStorage.On("GetRecord", mock.Anything, int64(2)).Return(records[1], nil)
	mockStorage.On("UpdateBlank", mock.Anything, int64(42)).Return(b, records, nil)

	service := NewService(mockStorage)

	filledBy := int64(15)
	now := time.Date(2026, 8, 31, 10, 5, 0, 0, time.Local)

	rec, err := service.ApplyHourlyActual(context.Background(), ApplyActualInput{
		RecordID:       2,
		ActualQuantity: 7,
		FilledBy:       &filledBy,
		Now:            now,
		Entries: []*storage.DeviationEntry{
			{ReasonID: 4, DurationMinutes: 20, Comment: "наладка"},
		},
	})

	assert.NoError(t, err)
	assert.True(t, rec.IsFilled)
	assert.Equal(t, 7, rec.ActualQuantity)
	assert.Equal(t, -3, rec.Deviation)
	assert.Equal(t, 20, rec.DowntimeMinutes)
	assert.Equal(t, &filledBy, rec.FilledBy)

	// Накопительные показатели каскадно пересчитаны
	assert.Equal(t, 7, records[1].CumulativeFact)
	assert.Equal(t, 7, records[3].CumulativeFact)

	// Итоги бланка обновлены
	assert.Equal(t, 35, b.TotalPlan)
	assert.Equal(t, 7, b.TotalFact)
	assert.Equal(t, 20, b.TotalDowntime)
	assert.Equal(t, "20.00", b.CompletionPercentage.String())

	// На сохранение ушли запись и её причины отклонений
	assert.Equal(t, rec, mockStorage.lastUpdate.Record)
	assert.Len(t, mockStorage.lastUpdate.Entries, 1)
	assert.Equal(t, int64(2), mockStorage.lastUpdate.Entries[0].RecordID)

	mockStorage.AssertExpectations(t)
}

// Факт, внесённый параллельным оператором в другой час, не теряется:
// пересчёт идёт по записям, прочитанным под блокировкой бланка, а не
// по снимку, сделанному до неё.
func TestApplyHourlyActual_SeesConcurrentFill(t *testing.T) {
	mockStorage := new(MockBlankStorage)

	b := &storage.Blank{ID: 42, Status: storage.BlankStatusActive, Date: "2026-08-31"}

	// Снимок до блокировки: 1-й час ещё пуст
	stale := &storage.Record{ID: 2, BlankID: 42, HourNumber: 2, PlannedQuantity: 10}
	mockStorage.On("GetRecord", mock.Anything, int64(2)).Return(stale, nil)

	// Под блокировкой уже виден факт другого оператора за 1-й час
	locked := testRecords()
	locked[0].ActualQuantity = 10
	locked[0].IsFilled = true
	RecalculateCumulatives(locked)
	mockStorage.On("UpdateBlank", mock.Anything, int64(42)).Return(b, locked, nil)

	service := NewService(mockStorage)

	rec, err := service.ApplyHourlyActual(context.Background(), ApplyActualInput{
		RecordID: 2, ActualQuantity: 7, Now: time.Now(),
	})

	assert.NoError(t, err)
	assert.Equal(t, 7, rec.ActualQuantity)

	// Итоги включают оба часа
	assert.Equal(t, 17, b.TotalFact)
	assert.Equal(t, 17, locked[1].CumulativeFact)
	assert.Equal(t, 17, locked[3].CumulativeFact)
}

// Неизвестная причина отклонения отклоняется до открытия транзакции
func TestApplyHourlyActual_UnknownReason(t *testing.T) {
	mockStorage := new(MockBlankStorage)
	mockStorage.On("GetDeviationReason", mock.Anything, int64(99)).
		Return(nil, storage.ErrNotFound)

	service := NewService(mockStorage)

	_, err := service.ApplyHourlyActual(context.Background(), ApplyActualInput{
		RecordID: 2, ActualQuantity: 5, Now: time.Now(),
		Entries: []*storage.DeviationEntry{{ReasonID: 99, DurationMinutes: 10}},
	})

	assert.True(t, errors.Is(err, storage.ErrNotFound))
	mockStorage.AssertNotCalled(t, "UpdateBlank", mock.Anything, mock.Anything)
}

// Запись завершённого бланка недоступна для редактирования
func TestApplyHourlyActual_NotEditable(t *testing.T) {
	mockStorage := new(MockBlankStorage)

	b := &storage.Blank{ID: 42, Status: storage.BlankStatusCompleted, TotalFact: 33}
	rec := &storage.Record{ID: 2, BlankID: 42, PlannedQuantity: 10}

	mockStorage.On("GetRecord", mock.Anything, int64(2)).Return(rec, nil)
	mockStorage.On("UpdateBlank", mock.Anything, int64(42)).Return(b, []*storage.Record{rec}, nil)

	service := NewService(mockStorage)

	_, err := service.ApplyHourlyActual(context.Background(), ApplyActualInput{
		RecordID: 2, ActualQuantity: 5, Now: time.Now(),
	})

	assert.True(t, errors.Is(err, storage.ErrBlankNotEditable))
	// Ничего не изменилось и не сохранялось
	assert.Equal(t, 33, b.TotalFact)
	assert.False(t, rec.IsFilled)
	assert.Nil(t, mockStorage.lastUpdate)
}

func TestRecalculateBlank_Idempotent(t *testing.T) {
	mockStorage := new(MockBlankStorage)

	b := &storage.Blank{ID: 42, Status: storage.BlankStatusActive}
	records := testRecords()
	records[0].ActualQuantity = 10
	records[1].ActualQuantity = 9

	mockStorage.On("UpdateBlank", mock.Anything, int64(42)).Return(b, records, nil)

	service := NewService(mockStorage)

	first, err := service.RecalculateBlank(context.Background(), 42)
	assert.NoError(t, err)
	firstFact := first.TotalFact
	firstPct := first.CompletionPercentage

	second, err := service.RecalculateBlank(context.Background(), 42)
	assert.NoError(t, err)

	assert.Equal(t, firstFact, second.TotalFact)
	assert.True(t, firstPct.Equal(second.CompletionPercentage.Decimal))
}

func TestCreateBlanksForSector_SkipsDuplicatesAndWeekdays(t *testing.T) {
	mockStorage := new(MockBlankStorage)

	shiftID := int64(3)
	sh := &storage.Shift{ID: 3, StartTime: "08:00", EndTime: "17:00", LunchBreak: 30}

	// 2026-08-31 — понедельник
	applicable := &storage.Template{
		ID: 1, WorkplaceID: 7, ProductID: 5, ShiftID: &shiftID,
		PlannedQuantity: 50, Monday: true,
	}
	wrongDay := &storage.Template{
		ID: 2, WorkplaceID: 8, ProductID: 5, ShiftID: &shiftID,
		PlannedQuantity: 50, Saturday: true,
	}
	duplicate := &storage.Template{
		ID: 3, WorkplaceID: 9, ProductID: 5, ShiftID: &shiftID,
		PlannedQuantity: 50, Monday: true,
	}

	mockStorage.On("GetSectorTemplates", mock.Anything, int64(1)).
		Return([]*storage.Template{applicable, wrongDay, duplicate}, nil)
	mockStorage.On("GetTemplate", mock.Anything, int64(1)).Return(applicable, nil)
	mockStorage.On("GetTemplate", mock.Anything, int64(3)).Return(duplicate, nil)
	mockStorage.On("BlankExists", mock.Anything, int64(7), "2026-08-31", int64(3)).Return(false, nil)
	mockStorage.On("BlankExists", mock.Anything, int64(9), "2026-08-31", int64(3)).Return(true, nil)
	mockStorage.On("GetShift", mock.Anything, int64(3)).Return(sh, nil)
	mockStorage.On("GetWorkplace", mock.Anything, int64(7)).Return(&storage.Workplace{ID: 7}, nil)
	mockStorage.On("CreateBlank", mock.Anything, mock.Anything, mock.Anything).Return(int64(100), nil)

	service := NewService(mockStorage)

	blanks, err := service.CreateBlanksForSector(context.Background(), 1, "2026-08-31", nil, nil)

	assert.NoError(t, err)
	assert.Len(t, blanks, 1)
	assert.Equal(t, int64(7), blanks[0].WorkplaceID)
}
