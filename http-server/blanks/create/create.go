package create

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	mwauth "github.com/AcryCxde/shift-report/internal/middleware/auth"
	"github.com/AcryCxde/shift-report/internal/service/blank"
	"github.com/AcryCxde/shift-report/internal/storage"
)

type BlankCreator interface {
	CreateBlank(ctx context.Context, in blank.CreateBlankInput) (*storage.Blank, []*storage.Record, error)
	CreateFromTemplate(ctx context.Context, templateID int64, date string, shiftID *int64, createdBy *int64) (*storage.Blank, []*storage.Record, error)
	CreateBlanksForSector(ctx context.Context, sectorID int64, date string, shiftID *int64, createdBy *int64) ([]*storage.Blank, error)
}

type Response struct {
	Blank   *storage.Blank    `json:"blank"`
	Records []*storage.Record `json:"records"`
}

func NewBlank(log *slog.Logger, blanks BlankCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.blanks.NewBlank"

		var req struct {
			WorkplaceID     int64  `json:"workplace_id"`
			Date            string `json:"date"`
			ShiftID         int64  `json:"shift_id"`
			ProductID       int64  `json:"product_id"`
			PlannedQuantity int    `json:"planned_quantity"`
			BlankType       string `json:"blank_type"`
		}

		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "ошибка парсинга JSON", http.StatusBadRequest)
			return
		}

		if _, err := time.Parse("2006-01-02", req.Date); err != nil {
			http.Error(w, "дата в формате 2006-01-02", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		b, records, err := blanks.CreateBlank(ctx, blank.CreateBlankInput{
			WorkplaceID:     req.WorkplaceID,
			Date:            req.Date,
			ShiftID:         req.ShiftID,
			ProductID:       req.ProductID,
			PlannedQuantity: req.PlannedQuantity,
			BlankType:       req.BlankType,
			CreatedBy:       creatorID(r.Context()),
		})
		if err != nil {
			writeCreateError(log, w, op, err)
			return
		}

		w.WriteHeader(http.StatusCreated)
		render.JSON(w, r, Response{Blank: b, Records: records})
	}
}

func FromTemplate(log *slog.Logger, blanks BlankCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.blanks.FromTemplate"

		var req struct {
			TemplateID int64  `json:"template_id"`
			Date       string `json:"date"`
			ShiftID    *int64 `json:"shift_id"`
		}

		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "ошибка парсинга JSON", http.StatusBadRequest)
			return
		}

		if _, err := time.Parse("2006-01-02", req.Date); err != nil {
			http.Error(w, "дата в формате 2006-01-02", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		b, records, err := blanks.CreateFromTemplate(ctx, req.TemplateID, req.Date, req.ShiftID, creatorID(r.Context()))
		if err != nil {
			writeCreateError(log, w, op, err)
			return
		}

		w.WriteHeader(http.StatusCreated)
		render.JSON(w, r, Response{Blank: b, Records: records})
	}
}

// ForSector — массовое создание бланков по шаблонам участка.
func ForSector(log *slog.Logger, blanks BlankCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.blanks.ForSector"

		var req struct {
			SectorID int64  `json:"sector_id"`
			Date     string `json:"date"`
			ShiftID  *int64 `json:"shift_id"`
		}

		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "ошибка парсинга JSON", http.StatusBadRequest)
			return
		}

		if _, err := time.Parse("2006-01-02", req.Date); err != nil {
			http.Error(w, "дата в формате 2006-01-02", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
		defer cancel()

		created, err := blanks.CreateBlanksForSector(ctx, req.SectorID, req.Date, req.ShiftID, creatorID(r.Context()))
		if err != nil {
			writeCreateError(log, w, op, err)
			return
		}

		w.WriteHeader(http.StatusCreated)
		render.JSON(w, r, map[string]any{"created": len(created), "blanks": created})
	}
}

func writeCreateError(log *slog.Logger, w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, storage.ErrDuplicateBlank):
		http.Error(w, "бланк на это РМ, дату и смену уже существует", http.StatusConflict)
	case errors.Is(err, storage.ErrInvalidShiftConfig),
		errors.Is(err, storage.ErrInvalidBlankParameters):
		http.Error(w, "некорректные параметры бланка", http.StatusBadRequest)
	case errors.Is(err, storage.ErrNotFound):
		http.Error(w, "справочные данные не найдены", http.StatusNotFound)
	default:
		log.With(slog.String("op", op), slog.String("error", err.Error())).
			Error("не удалось создать бланк")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func creatorID(ctx context.Context) *int64 {
	if emp, ok := mwauth.EmployeeFromContext(ctx); ok {
		return &emp.ID
	}
	return nil
}
