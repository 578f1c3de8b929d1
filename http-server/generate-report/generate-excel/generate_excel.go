package generate_excel

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/AcryCxde/shift-report/internal/storage"
)

type GenerateExcelHandler interface {
	GenerateBlankReport(ctx context.Context, blankID int64) ([]byte, error)
}

// BlankReportExcel отдаёт печатную форму бланка ПА файлом .xlsx.
func BlankReportExcel(log *slog.Logger, gen GenerateExcelHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.report.BlankReportExcel"

		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			http.Error(w, "некорректный id бланка", http.StatusBadRequest)
			return
		}

		// На Excel можно побольше времени
		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()

		excelBytes, err := gen.GenerateBlankReport(ctx, id)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				http.Error(w, "бланк не найден", http.StatusNotFound)
				return
			}
			log.With(slog.String("op", op), slog.String("error", err.Error())).
				Error("не удалось сформировать отчёт")
			http.Error(w, "Internal error", http.StatusInternalServerError)
			return
		}

		fileName := fmt.Sprintf("PA_Blank_%d_%s.xlsx", id, time.Now().Format("2006-01-02_150405"))

		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", "attachment; filename="+fileName)
		w.Write(excelBytes)
	}
}
