package update

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	mwauth "github.com/AcryCxde/shift-report/internal/middleware/auth"
	"github.com/AcryCxde/shift-report/internal/service/blank"
	"github.com/AcryCxde/shift-report/internal/storage"
)

type ActualApplier interface {
	ApplyHourlyActual(ctx context.Context, in blank.ApplyActualInput) (*storage.Record, error)
}

type deviationRequest struct {
	ReasonID        int64  `json:"reason_id"`
	DurationMinutes int    `json:"duration_minutes"`
	ResponsibleID   *int64 `json:"responsible_id"`
	Comment         string `json:"comment"`
}

// ApplyActual — ввод факта за час с причинами отклонения. Полный
// пересчёт бланка выполняется сервисом в одной транзакции.
func ApplyActual(log *slog.Logger, records ActualApplier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.records.ApplyActual"

		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			http.Error(w, "некорректный id записи", http.StatusBadRequest)
			return
		}

		var req struct {
			ActualQuantity int                `json:"actual_quantity"`
			Deviations     []deviationRequest `json:"deviations"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "ошибка парсинга JSON", http.StatusBadRequest)
			return
		}
		if req.ActualQuantity < 0 {
			http.Error(w, "факт не может быть отрицательным", http.StatusBadRequest)
			return
		}

		var filledBy *int64
		if emp, ok := mwauth.EmployeeFromContext(r.Context()); ok {
			filledBy = &emp.ID
		}

		entries := make([]*storage.DeviationEntry, 0, len(req.Deviations))
		for _, d := range req.Deviations {
			entries = append(entries, &storage.DeviationEntry{
				ReasonID:        d.ReasonID,
				DurationMinutes: d.DurationMinutes,
				ResponsibleID:   d.ResponsibleID,
				Comment:         d.Comment,
			})
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		rec, err := records.ApplyHourlyActual(ctx, blank.ApplyActualInput{
			RecordID:       id,
			ActualQuantity: req.ActualQuantity,
			FilledBy:       filledBy,
			Now:            time.Now(),
			Entries:        entries,
		})
		if err != nil {
			switch {
			case errors.Is(err, storage.ErrNotFound):
				http.Error(w, "запись не найдена", http.StatusNotFound)
			case errors.Is(err, storage.ErrBlankNotEditable):
				http.Error(w, "бланк завершён или отменён", http.StatusConflict)
			default:
				log.With(slog.String("op", op), slog.String("error", err.Error())).
					Error("не удалось сохранить факт за час")
				http.Error(w, "Internal server error", http.StatusInternalServerError)
			}
			return
		}

		render.JSON(w, r, rec)
	}
}
