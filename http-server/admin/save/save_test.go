package save

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"

	"github.com/AcryCxde/shift-report/internal/storage"
)

type MockReferenceSaver struct {
	mock.Mock
}

func (m *MockReferenceSaver) SaveWorkshop(ctx context.Context, w *storage.Workshop) (int64, error) {
	args := m.Called(ctx, w)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockReferenceSaver) SaveSector(ctx context.Context, sec *storage.Sector) (int64, error) {
	args := m.Called(ctx, sec)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockReferenceSaver) SaveWorkplace(ctx context.Context, wp *storage.Workplace) (int64, error) {
	args := m.Called(ctx, wp)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockReferenceSaver) SaveProduct(ctx context.Context, p *storage.Product) (int64, error) {
	args := m.Called(ctx, p)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockReferenceSaver) SaveShift(ctx context.Context, sh *storage.Shift) (int64, error) {
	args := m.Called(ctx, sh)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockReferenceSaver) SaveDeviationGroup(ctx context.Context, g *storage.DeviationGroup) (int64, error) {
	args := m.Called(ctx, g)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockReferenceSaver) SaveDeviationReason(ctx context.Context, r *storage.DeviationReason) (int64, error) {
	args := m.Called(ctx, r)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockReferenceSaver) SaveEmployee(ctx context.Context, e *storage.Employee) (int64, error) {
	args := m.Called(ctx, e)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockReferenceSaver) SaveTemplate(ctx context.Context, t *storage.Template) (int64, error) {
	args := m.Called(ctx, t)
	return args.Get(0).(int64), args.Error(1)
}

func TestSaveProduct(t *testing.T) {
	mockStorage := new(MockReferenceSaver)

	mockStorage.On("SaveProduct", mock.Anything, mock.MatchedBy(func(p *storage.Product) bool {
		return p.Article == "АРТ-100" && p.Name == "Корпус"
	})).Return(int64(15), nil)

	body := `{"article":"АРТ-100","name":"Корпус","is_active":true}`
	req := httptest.NewRequest(http.MethodPost, "/admin/products", strings.NewReader(body))
	rr := httptest.NewRecorder()
	SaveProduct(slog.Default(), mockStorage)(rr, req)

	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Contains(t, rr.Body.String(), `"id":15`)
	mockStorage.AssertExpectations(t)
}

func TestSaveProduct_BadJSON(t *testing.T) {
	mockStorage := new(MockReferenceSaver)

	req := httptest.NewRequest(http.MethodPost, "/admin/products", strings.NewReader("{не json"))
	rr := httptest.NewRecorder()
	SaveProduct(slog.Default(), mockStorage)(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	mockStorage.AssertNotCalled(t, "SaveProduct", mock.Anything, mock.Anything)
}

func TestSaveEmployee_HashesPin(t *testing.T) {
	mockStorage := new(MockReferenceSaver)

	var saved *storage.Employee
	mockStorage.On("SaveEmployee", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			saved = args.Get(1).(*storage.Employee)
		}).
		Return(int64(3), nil)

	body := `{"personnel_number":"00123","last_name":"Иванов","role":"operator","pin":"1234","is_active":true}`
	req := httptest.NewRequest(http.MethodPost, "/admin/employees", strings.NewReader(body))
	rr := httptest.NewRecorder()
	SaveEmployee(slog.Default(), mockStorage)(rr, req)

	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.NotEqual(t, "1234", saved.PinHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(saved.PinHash), []byte("1234")))
}

func TestSaveEmployee_MissingPin(t *testing.T) {
	mockStorage := new(MockReferenceSaver)

	body := `{"personnel_number":"00123","role":"operator"}`
	req := httptest.NewRequest(http.MethodPost, "/admin/employees", strings.NewReader(body))
	rr := httptest.NewRecorder()
	SaveEmployee(slog.Default(), mockStorage)(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	mockStorage.AssertNotCalled(t, "SaveEmployee", mock.Anything, mock.Anything)
}

func TestSaveEmployee_UnknownRole(t *testing.T) {
	mockStorage := new(MockReferenceSaver)

	body := `{"personnel_number":"00123","role":"superuser","pin":"1234"}`
	req := httptest.NewRequest(http.MethodPost, "/admin/employees", strings.NewReader(body))
	rr := httptest.NewRecorder()
	SaveEmployee(slog.Default(), mockStorage)(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	mockStorage.AssertNotCalled(t, "SaveEmployee", mock.Anything, mock.Anything)
}
