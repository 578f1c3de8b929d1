package create

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/AcryCxde/shift-report/internal/service/blank"
	"github.com/AcryCxde/shift-report/internal/storage"
)

type MockBlankCreator struct {
	mock.Mock
}

func (m *MockBlankCreator) CreateBlank(ctx context.Context, in blank.CreateBlankInput) (*storage.Blank, []*storage.Record, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*storage.Blank), args.Get(1).([]*storage.Record), args.Error(2)
}

func (m *MockBlankCreator) CreateFromTemplate(ctx context.Context, templateID int64, date string, shiftID *int64, createdBy *int64) (*storage.Blank, []*storage.Record, error) {
	args := m.Called(ctx, templateID, date, shiftID, createdBy)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*storage.Blank), args.Get(1).([]*storage.Record), args.Error(2)
}

func (m *MockBlankCreator) CreateBlanksForSector(ctx context.Context, sectorID int64, date string, shiftID *int64, createdBy *int64) ([]*storage.Blank, error) {
	args := m.Called(ctx, sectorID, date, shiftID, createdBy)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*storage.Blank), args.Error(1)
}

func TestNewBlank_Success(t *testing.T) {
	mockService := new(MockBlankCreator)

	mockService.On("CreateBlank", mock.Anything, blank.CreateBlankInput{
		WorkplaceID:     5,
		Date:            "2026-08-31",
		ShiftID:         1,
		ProductID:       3,
		PlannedQuantity: 100,
	}).Return(
		&storage.Blank{ID: 10, Status: storage.BlankStatusActive},
		[]*storage.Record{{ID: 1, HourNumber: 1}},
		nil,
	)

	handler := NewBlank(slog.Default(), mockService)

	body := `{"workplace_id":5,"date":"2026-08-31","shift_id":1,"product_id":3,"planned_quantity":100}`
	req := httptest.NewRequest(http.MethodPost, "/blanks", strings.NewReader(body))
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Contains(t, rr.Body.String(), `"id":10`)
	mockService.AssertExpectations(t)
}

func TestNewBlank_Duplicate(t *testing.T) {
	mockService := new(MockBlankCreator)

	mockService.On("CreateBlank", mock.Anything, mock.Anything).
		Return(nil, nil, fmt.Errorf("service.blank.CreateBlank: %w", storage.ErrDuplicateBlank))

	handler := NewBlank(slog.Default(), mockService)

	body := `{"workplace_id":5,"date":"2026-08-31","shift_id":1,"product_id":3,"planned_quantity":100}`
	req := httptest.NewRequest(http.MethodPost, "/blanks", strings.NewReader(body))
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusConflict, rr.Code)
}

func TestNewBlank_BadDate(t *testing.T) {
	mockService := new(MockBlankCreator)
	handler := NewBlank(slog.Default(), mockService)

	body := `{"workplace_id":5,"date":"31.08.2026","shift_id":1,"product_id":3,"planned_quantity":100}`
	req := httptest.NewRequest(http.MethodPost, "/blanks", strings.NewReader(body))
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	mockService.AssertNotCalled(t, "CreateBlank", mock.Anything, mock.Anything)
}

func TestNewBlank_InvalidParameters(t *testing.T) {
	mockService := new(MockBlankCreator)

	mockService.On("CreateBlank", mock.Anything, mock.Anything).
		Return(nil, nil, fmt.Errorf("params: %w", storage.ErrInvalidBlankParameters))

	handler := NewBlank(slog.Default(), mockService)

	body := `{"workplace_id":5,"date":"2026-08-31","shift_id":1,"product_id":3,"planned_quantity":0}`
	req := httptest.NewRequest(http.MethodPost, "/blanks", strings.NewReader(body))
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestForSector_Success(t *testing.T) {
	mockService := new(MockBlankCreator)

	mockService.On("CreateBlanksForSector", mock.Anything, int64(2), "2026-08-31", (*int64)(nil), (*int64)(nil)).
		Return([]*storage.Blank{{ID: 1}, {ID: 2}}, nil)

	handler := ForSector(slog.Default(), mockService)

	body := `{"sector_id":2,"date":"2026-08-31"}`
	req := httptest.NewRequest(http.MethodPost, "/blanks/sector", strings.NewReader(body))
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Contains(t, rr.Body.String(), `"created":2`)
}
