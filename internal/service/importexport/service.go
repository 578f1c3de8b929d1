package importexport

import (
	"context"

	"github.com/AcryCxde/shift-report/internal/storage"
)

// Storage — справочники и отчётные выборки для CSV импорта/экспорта.
type Storage interface {
	SaveWorkshop(ctx context.Context, w *storage.Workshop) (int64, error)
	SaveSector(ctx context.Context, sec *storage.Sector) (int64, error)
	SaveWorkplace(ctx context.Context, wp *storage.Workplace) (int64, error)
	SaveProduct(ctx context.Context, p *storage.Product) (int64, error)
	SaveShift(ctx context.Context, sh *storage.Shift) (int64, error)
	SaveDeviationGroup(ctx context.Context, g *storage.DeviationGroup) (int64, error)
	SaveDeviationReason(ctx context.Context, r *storage.DeviationReason) (int64, error)
	SaveEmployee(ctx context.Context, e *storage.Employee) (int64, error)

	ListWorkshops(ctx context.Context) ([]*storage.Workshop, error)
	ListSectors(ctx context.Context, workshopID int64) ([]*storage.Sector, error)
	ListWorkplaces(ctx context.Context, sectorID int64) ([]*storage.Workplace, error)
	ListProducts(ctx context.Context, onlyActive bool) ([]*storage.Product, error)
	ListShifts(ctx context.Context, onlyActive bool) ([]*storage.Shift, error)
	ListDeviationGroups(ctx context.Context, onlyActive bool) ([]*storage.DeviationGroup, error)
	ListDeviationReasons(ctx context.Context, groupID int64) ([]*storage.DeviationReason, error)
	ListEmployees(ctx context.Context, onlyActive bool) ([]*storage.Employee, error)

	ListBlanks(ctx context.Context, filter storage.BlankFilter) ([]*storage.Blank, error)
	TopReasons(ctx context.Context, filter storage.AnalyticsFilter, limit int) ([]*storage.TopReason, error)
}

type Service struct {
	storage Storage
}

func NewService(storage Storage) *Service {
	return &Service{storage: storage}
}

// RowError — ошибка одной строки импорта. Импорт не прерывается:
// валидные строки сохраняются, ошибки собираются построчно.
type RowError struct {
	Line    int    `json:"line"`
	Message string `json:"message"`
}

// ImportResult — итог импорта одного CSV-файла.
type ImportResult struct {
	Saved  int        `json:"saved"`
	Errors []RowError `json:"errors"`
}
