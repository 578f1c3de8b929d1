package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/AcryCxde/shift-report/internal/storage"
)

type MockTemplateStorage struct {
	mock.Mock
}

func (m *MockTemplateStorage) ListActiveTemplates(ctx context.Context) ([]*storage.Template, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*storage.Template), args.Error(1)
}

type MockBlankCreator struct {
	mock.Mock
}

func (m *MockBlankCreator) CreateFromTemplate(ctx context.Context, templateID int64, date string, shiftID *int64, createdBy *int64) (*storage.Blank, []*storage.Record, error) {
	args := m.Called(ctx, templateID, date, shiftID, createdBy)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*storage.Blank), nil, args.Error(2)
}

func allWeekdays(id int64) *storage.Template {
	return &storage.Template{
		ID: id, WorkplaceID: id, ProductID: 1, PlannedQuantity: 100,
		Monday: true, Tuesday: true, Wednesday: true, Thursday: true,
		Friday: true, Saturday: true, Sunday: true,
		IsActive: true,
	}
}

func TestCreateDailyBlanks(t *testing.T) {
	today := time.Now().Format("2006-01-02")

	// Шаблон 2 не применим ни к одному дню недели
	weekend := &storage.Template{ID: 2, WorkplaceID: 2, ProductID: 1, PlannedQuantity: 50, IsActive: true}

	templatesMock := new(MockTemplateStorage)
	templatesMock.On("ListActiveTemplates", mock.Anything).
		Return([]*storage.Template{allWeekdays(1), weekend, allWeekdays(3)}, nil)

	blanksMock := new(MockBlankCreator)
	blanksMock.On("CreateFromTemplate", mock.Anything, int64(1), today, (*int64)(nil), (*int64)(nil)).
		Return(&storage.Blank{ID: 10}, nil, nil)
	// Бланк по шаблону 3 уже создан вручную
	blanksMock.On("CreateFromTemplate", mock.Anything, int64(3), today, (*int64)(nil), (*int64)(nil)).
		Return(nil, nil, fmt.Errorf("service.blank.CreateBlank: %w", storage.ErrDuplicateBlank))

	s := New("0 6 * * *", templatesMock, blanksMock, slog.Default())
	s.createDailyBlanks()

	blanksMock.AssertNumberOfCalls(t, "CreateFromTemplate", 2)
	blanksMock.AssertNotCalled(t, "CreateFromTemplate", mock.Anything, int64(2), today, (*int64)(nil), (*int64)(nil))
}
