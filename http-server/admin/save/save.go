package save

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"
	"golang.org/x/crypto/bcrypt"

	"github.com/AcryCxde/shift-report/internal/auth"
	"github.com/AcryCxde/shift-report/internal/storage"
)

type ReferenceSaver interface {
	SaveWorkshop(ctx context.Context, w *storage.Workshop) (int64, error)
	SaveSector(ctx context.Context, sec *storage.Sector) (int64, error)
	SaveWorkplace(ctx context.Context, wp *storage.Workplace) (int64, error)
	SaveProduct(ctx context.Context, p *storage.Product) (int64, error)
	SaveShift(ctx context.Context, sh *storage.Shift) (int64, error)
	SaveDeviationGroup(ctx context.Context, g *storage.DeviationGroup) (int64, error)
	SaveDeviationReason(ctx context.Context, r *storage.DeviationReason) (int64, error)
	SaveEmployee(ctx context.Context, e *storage.Employee) (int64, error)
	SaveTemplate(ctx context.Context, t *storage.Template) (int64, error)
}

// saveEntity декодирует JSON-тело и сохраняет сущность справочника.
func saveEntity[T any](log *slog.Logger, op string,
	save func(ctx context.Context, entity *T) (int64, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var entity T
		if err := json.NewDecoder(r.Body).Decode(&entity); err != nil {
			http.Error(w, "Неверный JSON", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		id, err := save(ctx, &entity)
		if err != nil {
			log.With(slog.String("op", op), slog.String("error", err.Error())).
				Error("ошибка сохранения справочника")
			http.Error(w, "Ошибка сервера", http.StatusInternalServerError)
			return
		}

		w.WriteHeader(http.StatusCreated)
		render.JSON(w, r, map[string]int64{"id": id})
	}
}

func SaveWorkshop(log *slog.Logger, ref ReferenceSaver) http.HandlerFunc {
	return saveEntity(log, "handlers.admin.SaveWorkshop", ref.SaveWorkshop)
}

func SaveSector(log *slog.Logger, ref ReferenceSaver) http.HandlerFunc {
	return saveEntity(log, "handlers.admin.SaveSector", ref.SaveSector)
}

func SaveWorkplace(log *slog.Logger, ref ReferenceSaver) http.HandlerFunc {
	return saveEntity(log, "handlers.admin.SaveWorkplace", ref.SaveWorkplace)
}

func SaveProduct(log *slog.Logger, ref ReferenceSaver) http.HandlerFunc {
	return saveEntity(log, "handlers.admin.SaveProduct", ref.SaveProduct)
}

func SaveShift(log *slog.Logger, ref ReferenceSaver) http.HandlerFunc {
	return saveEntity(log, "handlers.admin.SaveShift", ref.SaveShift)
}

func SaveDeviationGroup(log *slog.Logger, ref ReferenceSaver) http.HandlerFunc {
	return saveEntity(log, "handlers.admin.SaveDeviationGroup", ref.SaveDeviationGroup)
}

func SaveDeviationReason(log *slog.Logger, ref ReferenceSaver) http.HandlerFunc {
	return saveEntity(log, "handlers.admin.SaveDeviationReason", ref.SaveDeviationReason)
}

func SaveTemplate(log *slog.Logger, ref ReferenceSaver) http.HandlerFunc {
	return saveEntity(log, "handlers.admin.SaveTemplate", ref.SaveTemplate)
}

// SaveEmployee принимает PIN открытым текстом и хеширует его перед
// сохранением. Роль проверяется по закрытому перечню.
func SaveEmployee(log *slog.Logger, ref ReferenceSaver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.admin.SaveEmployee"

		var req struct {
			storage.Employee
			Pin string `json:"pin"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Неверный JSON", http.StatusBadRequest)
			return
		}

		if req.Pin == "" || req.PersonnelNumber == "" {
			http.Error(w, "требуются табельный номер и PIN", http.StatusBadRequest)
			return
		}
		if _, ok := auth.ParseRole(req.Role); !ok {
			http.Error(w, "неизвестная роль", http.StatusBadRequest)
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Pin), bcrypt.DefaultCost)
		if err != nil {
			log.With(slog.String("op", op), slog.String("error", err.Error())).
				Error("ошибка хеширования PIN")
			http.Error(w, "Ошибка сервера", http.StatusInternalServerError)
			return
		}
		req.PinHash = string(hash)

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		id, err := ref.SaveEmployee(ctx, &req.Employee)
		if err != nil {
			log.With(slog.String("op", op), slog.String("error", err.Error())).
				Error("ошибка сохранения сотрудника")
			http.Error(w, "Ошибка сервера", http.StatusInternalServerError)
			return
		}

		w.WriteHeader(http.StatusCreated)
		render.JSON(w, r, map[string]int64{"id": id})
	}
}
