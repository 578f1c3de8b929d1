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

type TemplateUpdater interface {
	GetTemplate(ctx context.Context, id int64) (*storage.Template, error)
	UpdateTemplate(ctx context.Context, t *storage.Template) error
}

func UpdateTemplate(log *slog.Logger, templates TemplateUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.admin.UpdateTemplate"

		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			http.Error(w, "некорректный id шаблона", http.StatusBadRequest)
			return
		}

		var tpl storage.Template
		if err := json.NewDecoder(r.Body).Decode(&tpl); err != nil {
			http.Error(w, "Неверный JSON", http.StatusBadRequest)
			return
		}
		tpl.ID = id

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		if err := templates.UpdateTemplate(ctx, &tpl); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				http.Error(w, "шаблон не найден", http.StatusNotFound)
				return
			}
			log.With(slog.String("op", op), slog.String("error", err.Error())).
				Error("ошибка обновления шаблона")
			http.Error(w, "Ошибка сервера", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, map[string]string{"status": "updated"})
	}
}
