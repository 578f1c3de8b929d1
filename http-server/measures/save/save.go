package save

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
	"github.com/AcryCxde/shift-report/internal/storage"
)

type MeasureSaver interface {
	GetDeviationEntry(ctx context.Context, id int64) (*storage.DeviationEntry, error)
	SaveTakenMeasure(ctx context.Context, m *storage.TakenMeasure) (int64, error)
}

// SaveMeasure — фиксация принятой мастером меры по отклонению:
// POST /api/deviations/{id}/measures. Признак resolved проставляет
// время устранения.
func SaveMeasure(log *slog.Logger, measures MeasureSaver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.measures.SaveMeasure"

		entryID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			http.Error(w, "некорректный id отклонения", http.StatusBadRequest)
			return
		}

		var req struct {
			MeasureType string `json:"measure_type"`
			Description string `json:"description"`
			Resolved    bool   `json:"resolved"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "ошибка парсинга JSON", http.StatusBadRequest)
			return
		}
		if req.MeasureType == "" || req.Description == "" {
			http.Error(w, "заполните все обязательные поля", http.StatusBadRequest)
			return
		}
		if !storage.ValidMeasureType(req.MeasureType) {
			http.Error(w, "неизвестный тип меры", http.StatusBadRequest)
			return
		}

		var createdBy *int64
		if emp, ok := mwauth.EmployeeFromContext(r.Context()); ok {
			createdBy = &emp.ID
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		if _, err := measures.GetDeviationEntry(ctx, entryID); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				http.Error(w, "отклонение не найдено", http.StatusNotFound)
				return
			}
			log.With(slog.String("op", op), slog.String("error", err.Error())).
				Error("не удалось получить отклонение")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		m := &storage.TakenMeasure{
			DeviationEntryID: entryID,
			MeasureType:      req.MeasureType,
			Description:      req.Description,
			CreatedBy:        createdBy,
		}
		if req.Resolved {
			now := time.Now()
			m.ResolvedAt = &now
		}

		id, err := measures.SaveTakenMeasure(ctx, m)
		if err != nil {
			log.With(slog.String("op", op), slog.String("error", err.Error())).
				Error("не удалось сохранить меру")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}
		m.ID = id

		w.WriteHeader(http.StatusCreated)
		render.JSON(w, r, m)
	}
}
