package get

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/AcryCxde/shift-report/internal/storage"
)

type MeasureProvider interface {
	ListEntryMeasures(ctx context.Context, entryID int64) ([]*storage.TakenMeasure, error)
	GetEmployee(ctx context.Context, id int64) (*storage.Employee, error)
}

// MeasureItem — мера вместе с ФИО внёсшего её сотрудника.
type MeasureItem struct {
	*storage.TakenMeasure
	CreatedByName string `json:"created_by_name"`
}

// ListMeasures — принятые меры по отклонению:
// GET /api/deviations/{id}/measures.
func ListMeasures(log *slog.Logger, measures MeasureProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.measures.ListMeasures"

		entryID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			http.Error(w, "некорректный id отклонения", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		list, err := measures.ListEntryMeasures(ctx, entryID)
		if err != nil {
			log.With(slog.String("op", op), slog.String("error", err.Error())).
				Error("не удалось получить меры по отклонению")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		items := make([]*MeasureItem, 0, len(list))
		for _, m := range list {
			item := &MeasureItem{TakenMeasure: m}
			if m.CreatedBy != nil {
				emp, err := measures.GetEmployee(ctx, *m.CreatedBy)
				switch {
				case err == nil:
					item.CreatedByName = employeeName(emp)
				case !errors.Is(err, storage.ErrNotFound):
					log.With(slog.String("op", op), slog.String("error", err.Error())).
						Error("не удалось получить сотрудника")
					http.Error(w, "Internal server error", http.StatusInternalServerError)
					return
				}
			}
			items = append(items, item)
		}

		render.JSON(w, r, map[string]any{"measures": items, "count": len(items)})
	}
}

func employeeName(e *storage.Employee) string {
	parts := []string{e.LastName, e.FirstName, e.MiddleName}
	nonEmpty := parts[:0]
	for _, p := range parts {
		if p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	return strings.Join(nonEmpty, " ")
}
