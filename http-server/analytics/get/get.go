package get

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/render"

	"github.com/AcryCxde/shift-report/internal/storage"
)

type AnalyticsProvider interface {
	Dashboard(ctx context.Context, filter storage.AnalyticsFilter) (*storage.DashboardSummary, error)
	DailyDynamics(ctx context.Context, filter storage.AnalyticsFilter) ([]*storage.DailyDynamics, error)
	DeviationCategories(ctx context.Context, filter storage.AnalyticsFilter) ([]*storage.DeviationCategory, error)
	TopReasons(ctx context.Context, filter storage.AnalyticsFilter) ([]*storage.TopReason, error)
	WorkplaceComparison(ctx context.Context, filter storage.AnalyticsFilter) ([]*storage.WorkplaceComparison, error)
	ShiftComparison(ctx context.Context, filter storage.AnalyticsFilter) ([]*storage.ShiftComparison, error)
	HourlyPattern(ctx context.Context, filter storage.AnalyticsFilter) ([]*storage.HourlyPattern, error)
	Pareto(ctx context.Context, filter storage.AnalyticsFilter) (*storage.ParetoAnalysis, error)
}

func parseFilter(r *http.Request) storage.AnalyticsFilter {
	q := r.URL.Query()
	filter := storage.AnalyticsFilter{
		DateFrom: q.Get("date_from"),
		DateTo:   q.Get("date_to"),
	}
	filter.WorkshopID, _ = strconv.ParseInt(q.Get("workshop_id"), 10, 64)
	filter.SectorID, _ = strconv.ParseInt(q.Get("sector_id"), 10, 64)
	return filter
}

// serve оборачивает аналитический запрос: фильтр из query, таймаут,
// единая обработка ошибок.
func serve[T any](log *slog.Logger, op string,
	fetch func(ctx context.Context, filter storage.AnalyticsFilter) (T, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()

		result, err := fetch(ctx, parseFilter(r))
		if err != nil {
			log.With(slog.String("op", op), slog.String("error", err.Error())).
				Error("не удалось получить аналитику")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, result)
	}
}

func Dashboard(log *slog.Logger, analytics AnalyticsProvider) http.HandlerFunc {
	return serve(log, "handlers.analytics.Dashboard", analytics.Dashboard)
}

func DailyDynamics(log *slog.Logger, analytics AnalyticsProvider) http.HandlerFunc {
	return serve(log, "handlers.analytics.DailyDynamics", analytics.DailyDynamics)
}

func DeviationCategories(log *slog.Logger, analytics AnalyticsProvider) http.HandlerFunc {
	return serve(log, "handlers.analytics.DeviationCategories", analytics.DeviationCategories)
}

func TopReasons(log *slog.Logger, analytics AnalyticsProvider) http.HandlerFunc {
	return serve(log, "handlers.analytics.TopReasons", analytics.TopReasons)
}

func WorkplaceComparison(log *slog.Logger, analytics AnalyticsProvider) http.HandlerFunc {
	return serve(log, "handlers.analytics.WorkplaceComparison", analytics.WorkplaceComparison)
}

func ShiftComparison(log *slog.Logger, analytics AnalyticsProvider) http.HandlerFunc {
	return serve(log, "handlers.analytics.ShiftComparison", analytics.ShiftComparison)
}

func HourlyPattern(log *slog.Logger, analytics AnalyticsProvider) http.HandlerFunc {
	return serve(log, "handlers.analytics.HourlyPattern", analytics.HourlyPattern)
}

func Pareto(log *slog.Logger, analytics AnalyticsProvider) http.HandlerFunc {
	return serve(log, "handlers.analytics.Pareto", analytics.Pareto)
}
