package get

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/AcryCxde/shift-report/internal/storage"
)

type MockAnalyticsProvider struct {
	mock.Mock
}

func (m *MockAnalyticsProvider) Dashboard(ctx context.Context, filter storage.AnalyticsFilter) (*storage.DashboardSummary, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storage.DashboardSummary), args.Error(1)
}

func (m *MockAnalyticsProvider) DailyDynamics(ctx context.Context, filter storage.AnalyticsFilter) ([]*storage.DailyDynamics, error) {
	args := m.Called(ctx, filter)
	return nil, args.Error(1)
}

func (m *MockAnalyticsProvider) DeviationCategories(ctx context.Context, filter storage.AnalyticsFilter) ([]*storage.DeviationCategory, error) {
	args := m.Called(ctx, filter)
	return nil, args.Error(1)
}

func (m *MockAnalyticsProvider) TopReasons(ctx context.Context, filter storage.AnalyticsFilter) ([]*storage.TopReason, error) {
	args := m.Called(ctx, filter)
	return nil, args.Error(1)
}

func (m *MockAnalyticsProvider) WorkplaceComparison(ctx context.Context, filter storage.AnalyticsFilter) ([]*storage.WorkplaceComparison, error) {
	args := m.Called(ctx, filter)
	return nil, args.Error(1)
}

func (m *MockAnalyticsProvider) ShiftComparison(ctx context.Context, filter storage.AnalyticsFilter) ([]*storage.ShiftComparison, error) {
	args := m.Called(ctx, filter)
	return nil, args.Error(1)
}

func (m *MockAnalyticsProvider) HourlyPattern(ctx context.Context, filter storage.AnalyticsFilter) ([]*storage.HourlyPattern, error) {
	args := m.Called(ctx, filter)
	return nil, args.Error(1)
}

func (m *MockAnalyticsProvider) Pareto(ctx context.Context, filter storage.AnalyticsFilter) (*storage.ParetoAnalysis, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storage.ParetoAnalysis), args.Error(1)
}

func TestDashboard_FilterFromQuery(t *testing.T) {
	mockService := new(MockAnalyticsProvider)

	mockService.On("Dashboard", mock.Anything, storage.AnalyticsFilter{
		DateFrom:   "2026-08-01",
		DateTo:     "2026-08-31",
		WorkshopID: 1,
		SectorID:   4,
	}).Return(&storage.DashboardSummary{
		BlankTotals:          storage.BlankTotals{TotalPlan: 200, TotalFact: 185, BlanksCount: 3},
		CompletionPercentage: storage.Fixed(decimal.RequireFromString("92.50")),
	}, nil)

	req := httptest.NewRequest(http.MethodGet,
		"/analytics/dashboard?date_from=2026-08-01&date_to=2026-08-31&workshop_id=1&sector_id=4", nil)
	rr := httptest.NewRecorder()
	Dashboard(slog.Default(), mockService)(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"completion_percentage":"92.50"`)
	mockService.AssertExpectations(t)
}

func TestDashboard_StorageError(t *testing.T) {
	mockService := new(MockAnalyticsProvider)

	mockService.On("Dashboard", mock.Anything, mock.Anything).
		Return(nil, errors.New("база недоступна"))

	req := httptest.NewRequest(http.MethodGet, "/analytics/dashboard", nil)
	rr := httptest.NewRecorder()
	Dashboard(slog.Default(), mockService)(rr, req)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}
