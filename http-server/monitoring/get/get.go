package get

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/render"

	"github.com/AcryCxde/shift-report/internal/service/blank"
	"github.com/AcryCxde/shift-report/internal/storage"
)

type MonitoringStorage interface {
	ListBlanks(ctx context.Context, filter storage.BlankFilter) ([]*storage.Blank, error)
	GetBlankRecords(ctx context.Context, blankID int64) ([]*storage.Record, error)
}

type BlankState struct {
	Blank      *storage.Blank `json:"blank"`
	Completion storage.Fixed2 `json:"completion"`
	Color      string         `json:"color"`
}

type Response struct {
	Date   string       `json:"date"`
	Blanks []BlankState `json:"blanks"`
}

// SectorMonitoring — картина дня для мастера: активные бланки участка
// с выполнением по завершившимся часам и цветом светофора.
func SectorMonitoring(log *slog.Logger, monitoring MonitoringStorage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.monitoring.SectorMonitoring"

		sectorID, err := strconv.ParseInt(r.URL.Query().Get("sector_id"), 10, 64)
		if err != nil || sectorID == 0 {
			http.Error(w, "требуется параметр sector_id", http.StatusBadRequest)
			return
		}

		now := time.Now()
		today := now.Format("2006-01-02")

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		blanks, err := monitoring.ListBlanks(ctx, storage.BlankFilter{
			DateFrom: today,
			DateTo:   today,
			SectorID: sectorID,
			Status:   storage.BlankStatusActive,
		})
		if err != nil {
			log.With(slog.String("op", op), slog.String("error", err.Error())).
				Error("не удалось получить бланки участка")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		resp := Response{Date: today, Blanks: make([]BlankState, 0, len(blanks))}
		for _, b := range blanks {
			records, err := monitoring.GetBlankRecords(ctx, b.ID)
			if err != nil {
				log.With(slog.String("op", op), slog.Int64("blank_id", b.ID),
					slog.String("error", err.Error())).
					Error("не удалось получить записи бланка")
				http.Error(w, "Internal server error", http.StatusInternalServerError)
				return
			}

			pct := blank.CurrentCompletionPercentage(b, records, now)
			resp.Blanks = append(resp.Blanks, BlankState{
				Blank:      b,
				Completion: pct,
				Color:      blank.StatusColor(pct.Decimal),
			})
		}

		render.JSON(w, r, resp)
	}
}
