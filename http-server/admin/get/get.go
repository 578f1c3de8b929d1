package get

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/render"

	"github.com/AcryCxde/shift-report/internal/storage"
)

type ReferenceProvider interface {
	ListWorkshops(ctx context.Context) ([]*storage.Workshop, error)
	ListSectors(ctx context.Context, workshopID int64) ([]*storage.Sector, error)
	ListWorkplaces(ctx context.Context, sectorID int64) ([]*storage.Workplace, error)
	ListProducts(ctx context.Context, onlyActive bool) ([]*storage.Product, error)
	ListShifts(ctx context.Context, onlyActive bool) ([]*storage.Shift, error)
	ListDeviationGroups(ctx context.Context, onlyActive bool) ([]*storage.DeviationGroup, error)
	ListDeviationReasons(ctx context.Context, groupID int64) ([]*storage.DeviationReason, error)
	SearchReasons(ctx context.Context, query string, limit int) ([]*storage.DeviationReason, error)
	ListEmployees(ctx context.Context, onlyActive bool) ([]*storage.Employee, error)
	GetSectorTemplates(ctx context.Context, sectorID int64) ([]*storage.Template, error)
}

const reasonSearchLimit = 20

func writeList[T any](log *slog.Logger, w http.ResponseWriter, r *http.Request, op string, list []T, err error) {
	if err != nil {
		log.With(slog.String("op", op), slog.String("error", err.Error())).
			Error("ошибка получения справочника")
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}
	render.JSON(w, r, list)
}

func GetWorkshops(log *slog.Logger, ref ReferenceProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.admin.GetWorkshops"

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		workshops, err := ref.ListWorkshops(ctx)
		writeList(log, w, r, op, workshops, err)
	}
}

func GetSectors(log *slog.Logger, ref ReferenceProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.admin.GetSectors"

		workshopID, _ := strconv.ParseInt(r.URL.Query().Get("workshop_id"), 10, 64)

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		sectors, err := ref.ListSectors(ctx, workshopID)
		writeList(log, w, r, op, sectors, err)
	}
}

func GetWorkplaces(log *slog.Logger, ref ReferenceProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.admin.GetWorkplaces"

		sectorID, _ := strconv.ParseInt(r.URL.Query().Get("sector_id"), 10, 64)

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		workplaces, err := ref.ListWorkplaces(ctx, sectorID)
		writeList(log, w, r, op, workplaces, err)
	}
}

func GetProducts(log *slog.Logger, ref ReferenceProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.admin.GetProducts"

		onlyActive := r.URL.Query().Get("active") == "1"

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		products, err := ref.ListProducts(ctx, onlyActive)
		writeList(log, w, r, op, products, err)
	}
}

func GetShifts(log *slog.Logger, ref ReferenceProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.admin.GetShifts"

		onlyActive := r.URL.Query().Get("active") == "1"

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		shifts, err := ref.ListShifts(ctx, onlyActive)
		writeList(log, w, r, op, shifts, err)
	}
}

func GetDeviationGroups(log *slog.Logger, ref ReferenceProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.admin.GetDeviationGroups"

		onlyActive := r.URL.Query().Get("active") == "1"

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		groups, err := ref.ListDeviationGroups(ctx, onlyActive)
		writeList(log, w, r, op, groups, err)
	}
}

func GetDeviationReasons(log *slog.Logger, ref ReferenceProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.admin.GetDeviationReasons"

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		// Поиск по подстроке для быстрого выбора причины оператором
		if query := r.URL.Query().Get("q"); query != "" {
			reasons, err := ref.SearchReasons(ctx, query, reasonSearchLimit)
			writeList(log, w, r, op, reasons, err)
			return
		}

		groupID, _ := strconv.ParseInt(r.URL.Query().Get("group_id"), 10, 64)
		reasons, err := ref.ListDeviationReasons(ctx, groupID)
		writeList(log, w, r, op, reasons, err)
	}
}

func GetEmployees(log *slog.Logger, ref ReferenceProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.admin.GetEmployees"

		onlyActive := r.URL.Query().Get("active") == "1"

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		employees, err := ref.ListEmployees(ctx, onlyActive)
		writeList(log, w, r, op, employees, err)
	}
}

func GetTemplates(log *slog.Logger, ref ReferenceProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.admin.GetTemplates"

		sectorID, err := strconv.ParseInt(r.URL.Query().Get("sector_id"), 10, 64)
		if err != nil || sectorID == 0 {
			http.Error(w, "требуется параметр sector_id", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		templates, err := ref.GetSectorTemplates(ctx, sectorID)
		writeList(log, w, r, op, templates, err)
	}
}
