package importexport

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	ie "github.com/AcryCxde/shift-report/internal/service/importexport"
	"github.com/AcryCxde/shift-report/internal/storage"
)

type ImportExportService interface {
	ImportWorkshops(ctx context.Context, r io.Reader) (*ie.ImportResult, error)
	ImportSectors(ctx context.Context, r io.Reader) (*ie.ImportResult, error)
	ImportWorkplaces(ctx context.Context, r io.Reader) (*ie.ImportResult, error)
	ImportProducts(ctx context.Context, r io.Reader) (*ie.ImportResult, error)
	ImportShifts(ctx context.Context, r io.Reader) (*ie.ImportResult, error)
	ImportDeviationGroups(ctx context.Context, r io.Reader) (*ie.ImportResult, error)
	ImportDeviationReasons(ctx context.Context, r io.Reader) (*ie.ImportResult, error)
	ImportEmployees(ctx context.Context, r io.Reader) (*ie.ImportResult, error)

	ExportWorkshops(ctx context.Context, w io.Writer) error
	ExportSectors(ctx context.Context, w io.Writer) error
	ExportWorkplaces(ctx context.Context, w io.Writer) error
	ExportProducts(ctx context.Context, w io.Writer) error
	ExportShifts(ctx context.Context, w io.Writer) error
	ExportDeviationGroups(ctx context.Context, w io.Writer) error
	ExportDeviationReasons(ctx context.Context, w io.Writer) error
	ExportEmployees(ctx context.Context, w io.Writer) error

	ExportBlanksReport(ctx context.Context, w io.Writer, filter storage.BlankFilter) error
	ExportDeviationsReport(ctx context.Context, w io.Writer, filter storage.AnalyticsFilter) error
}

// importers и exporters сопоставляют имя сущности из пути методам
// сервиса, чтобы не плодить по обработчику на справочник.
func importers(svc ImportExportService) map[string]func(context.Context, io.Reader) (*ie.ImportResult, error) {
	return map[string]func(context.Context, io.Reader) (*ie.ImportResult, error){
		"workshops":         svc.ImportWorkshops,
		"sectors":           svc.ImportSectors,
		"workplaces":        svc.ImportWorkplaces,
		"products":          svc.ImportProducts,
		"shifts":            svc.ImportShifts,
		"deviation-groups":  svc.ImportDeviationGroups,
		"deviation-reasons": svc.ImportDeviationReasons,
		"employees":         svc.ImportEmployees,
	}
}

func exporters(svc ImportExportService) map[string]func(context.Context, io.Writer) error {
	return map[string]func(context.Context, io.Writer) error{
		"workshops":         svc.ExportWorkshops,
		"sectors":           svc.ExportSectors,
		"workplaces":        svc.ExportWorkplaces,
		"products":          svc.ExportProducts,
		"shifts":            svc.ExportShifts,
		"deviation-groups":  svc.ExportDeviationGroups,
		"deviation-reasons": svc.ExportDeviationReasons,
		"employees":         svc.ExportEmployees,
	}
}

// ImportCSV — POST /import/{entity}, тело запроса — CSV-файл.
// Ошибки строк не прерывают импорт и возвращаются в ответе.
func ImportCSV(log *slog.Logger, svc ImportExportService) http.HandlerFunc {
	byEntity := importers(svc)

	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.importexport.ImportCSV"

		entity := entityParam(r)
		importFn, ok := byEntity[entity]
		if !ok {
			http.Error(w, "неизвестный справочник: "+entity, http.StatusNotFound)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
		defer cancel()

		result, err := importFn(ctx, r.Body)
		if err != nil {
			log.With(slog.String("op", op), slog.String("entity", entity),
				slog.String("error", err.Error())).Error("ошибка импорта CSV")
			http.Error(w, "некорректный CSV: "+err.Error(), http.StatusBadRequest)
			return
		}

		render.JSON(w, r, result)
	}
}

// ExportCSV — GET /export/{entity}.
func ExportCSV(log *slog.Logger, svc ImportExportService) http.HandlerFunc {
	byEntity := exporters(svc)

	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.importexport.ExportCSV"

		entity := entityParam(r)
		exportFn, ok := byEntity[entity]
		if !ok {
			http.Error(w, "неизвестный справочник: "+entity, http.StatusNotFound)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
		defer cancel()

		setCSVHeaders(w, entity)
		if err := exportFn(ctx, w); err != nil {
			log.With(slog.String("op", op), slog.String("entity", entity),
				slog.String("error", err.Error())).Error("ошибка экспорта CSV")
		}
	}
}

// ExportBlanksReport — GET /export/reports/blanks с фильтром периода.
func ExportBlanksReport(log *slog.Logger, svc ImportExportService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.importexport.ExportBlanksReport"

		q := r.URL.Query()
		filter := storage.BlankFilter{
			DateFrom: q.Get("date_from"),
			DateTo:   q.Get("date_to"),
			Status:   q.Get("status"),
		}
		filter.WorkplaceID, _ = strconv.ParseInt(q.Get("workplace_id"), 10, 64)
		filter.SectorID, _ = strconv.ParseInt(q.Get("sector_id"), 10, 64)
		filter.WorkshopID, _ = strconv.ParseInt(q.Get("workshop_id"), 10, 64)

		ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
		defer cancel()

		setCSVHeaders(w, "blanks-report")
		if err := svc.ExportBlanksReport(ctx, w, filter); err != nil {
			log.With(slog.String("op", op), slog.String("error", err.Error())).
				Error("ошибка экспорта отчёта по бланкам")
		}
	}
}

// ExportDeviationsReport — GET /export/reports/deviations.
func ExportDeviationsReport(log *slog.Logger, svc ImportExportService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.importexport.ExportDeviationsReport"

		q := r.URL.Query()
		filter := storage.AnalyticsFilter{
			DateFrom: q.Get("date_from"),
			DateTo:   q.Get("date_to"),
		}
		filter.WorkshopID, _ = strconv.ParseInt(q.Get("workshop_id"), 10, 64)
		filter.SectorID, _ = strconv.ParseInt(q.Get("sector_id"), 10, 64)

		ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
		defer cancel()

		setCSVHeaders(w, "deviations-report")
		if err := svc.ExportDeviationsReport(ctx, w, filter); err != nil {
			log.With(slog.String("op", op), slog.String("error", err.Error())).
				Error("ошибка экспорта отчёта по отклонениям")
		}
	}
}

func entityParam(r *http.Request) string {
	return chi.URLParam(r, "entity")
}

func setCSVHeaders(w http.ResponseWriter, entity string) {
	fileName := fmt.Sprintf("%s_%s.csv", entity, time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", "attachment; filename="+fileName)
}
