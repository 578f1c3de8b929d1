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

	"github.com/AcryCxde/shift-report/internal/storage"
)

type BlankUpdater interface {
	GetBlank(ctx context.Context, id int64) (*storage.Blank, error)
	UpdateBlankStatus(ctx context.Context, id int64, status string) error
}

type BlankRecalculator interface {
	RecalculateBlank(ctx context.Context, blankID int64) (*storage.Blank, error)
}

// Допустимые переходы статусов: завершать и отменять можно только
// редактируемый бланк, черновик активируется.
var statusTransitions = map[string][]string{
	storage.BlankStatusDraft:  {storage.BlankStatusActive, storage.BlankStatusCancelled},
	storage.BlankStatusActive: {storage.BlankStatusCompleted, storage.BlankStatusCancelled},
}

func allowedTransition(from, to string) bool {
	for _, s := range statusTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

func UpdateStatus(log *slog.Logger, blanks BlankUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.blanks.UpdateStatus"

		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			http.Error(w, "некорректный id бланка", http.StatusBadRequest)
			return
		}

		var req struct {
			Status string `json:"status"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "ошибка парсинга JSON", http.StatusBadRequest)
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

		if !allowedTransition(b.Status, req.Status) {
			http.Error(w, "недопустимый переход статуса", http.StatusConflict)
			return
		}

		if err := blanks.UpdateBlankStatus(ctx, id, req.Status); err != nil {
			log.With(slog.String("op", op), slog.String("error", err.Error())).
				Error("не удалось обновить статус бланка")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, map[string]string{"status": req.Status})
	}
}

// Recalculate — повторный полный пересчёт накопительных показателей
// и итогов бланка. Идемпотентен.
func Recalculate(log *slog.Logger, blanks BlankRecalculator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.blanks.Recalculate"

		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			http.Error(w, "некорректный id бланка", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		b, err := blanks.RecalculateBlank(ctx, id)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				http.Error(w, "бланк не найден", http.StatusNotFound)
				return
			}
			log.With(slog.String("op", op), slog.String("error", err.Error())).
				Error("не удалось пересчитать бланк")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, b)
	}
}
