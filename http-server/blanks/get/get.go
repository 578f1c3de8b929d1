package get

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/AcryCxde/shift-report/internal/storage"
)

type BlankProvider interface {
	GetBlank(ctx context.Context, id int64) (*storage.Blank, error)
	GetBlankRecords(ctx context.Context, blankID int64) ([]*storage.Record, error)
	GetRecordDeviations(ctx context.Context, recordID int64) ([]*storage.DeviationEntry, error)
	ListBlanks(ctx context.Context, filter storage.BlankFilter) ([]*storage.Blank, error)
}

type CompletionProvider interface {
	CurrentCompletion(ctx context.Context, blankID int64, now time.Time) (storage.Fixed2, string, error)
}

// RecordDetail — почасовая запись вместе с её причинами отклонений.
type RecordDetail struct {
	*storage.Record
	Deviations []*storage.DeviationEntry `json:"deviations"`
}

type DetailResponse struct {
	Blank   *storage.Blank  `json:"blank"`
	Records []*RecordDetail `json:"records"`
}

// BlankID берётся из пути: /blanks/{id}
func blankID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

func GetBlank(log *slog.Logger, blanks BlankProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.blanks.GetBlank"

		id, err := blankID(r)
		if err != nil {
			http.Error(w, "некорректный id бланка", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		b, err := blanks.GetBlank(ctx, id)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				http.Error(w, "бланк не найден", http.StatusNotFound)
				return
			}
			log.With(slog.String("op", op), slog.String("error", err.Error())).
				Error("не удалось получить бланк")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		records, err := blanks.GetBlankRecords(ctx, id)
		if err != nil {
			log.With(slog.String("op", op), slog.String("error", err.Error())).
				Error("не удалось получить записи бланка")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		details := make([]*RecordDetail, 0, len(records))
		for _, rec := range records {
			entries, err := blanks.GetRecordDeviations(ctx, rec.ID)
			if err != nil {
				log.With(slog.String("op", op), slog.String("error", err.Error())).
					Error("не удалось получить причины отклонений записи")
				http.Error(w, "Internal server error", http.StatusInternalServerError)
				return
			}
			details = append(details, &RecordDetail{Record: rec, Deviations: entries})
		}

		render.JSON(w, r, DetailResponse{Blank: b, Records: details})
	}
}

func ListBlanks(log *slog.Logger, blanks BlankProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.blanks.ListBlanks"

		q := r.URL.Query()
		filter := storage.BlankFilter{
			DateFrom: q.Get("date_from"),
			DateTo:   q.Get("date_to"),
			Status:   q.Get("status"),
		}
		filter.WorkplaceID, _ = strconv.ParseInt(q.Get("workplace_id"), 10, 64)
		filter.SectorID, _ = strconv.ParseInt(q.Get("sector_id"), 10, 64)
		filter.WorkshopID, _ = strconv.ParseInt(q.Get("workshop_id"), 10, 64)

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		list, err := blanks.ListBlanks(ctx, filter)
		if err != nil {
			log.With(slog.String("op", op), slog.String("error", err.Error())).
				Error("не удалось получить список бланков")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, map[string]any{"blanks": list, "count": len(list)})
	}
}

type CompletionResponse struct {
	Percentage storage.Fixed2 `json:"percentage"`
	Color      string         `json:"color"`
}

// CurrentCompletion — процент выполнения на текущий момент по
// завершившимся часам и цвет светофора.
func CurrentCompletion(log *slog.Logger, completion CompletionProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.blanks.CurrentCompletion"

		id, err := blankID(r)
		if err != nil {
			http.Error(w, "некорректный id бланка", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		pct, color, err := completion.CurrentCompletion(ctx, id, time.Now())
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				http.Error(w, "бланк не найден", http.StatusNotFound)
				return
			}
			log.With(slog.String("op", op), slog.String("error", err.Error())).
				Error("не удалось рассчитать выполнение")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, CompletionResponse{Percentage: pct, Color: color})
	}
}
