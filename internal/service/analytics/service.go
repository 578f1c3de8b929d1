package analytics

import (
	"context"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/AcryCxde/shift-report/internal/storage"
)

var hundred = decimal.NewFromInt(100)

const topReasonsLimit = 10

type AnalyticsStorage interface {
	BlankTotals(ctx context.Context, filter storage.AnalyticsFilter) (*storage.BlankTotals, error)
	BlankStatusCounts(ctx context.Context, filter storage.AnalyticsFilter) (map[string]int, error)
	DeviationsCount(ctx context.Context, filter storage.AnalyticsFilter) (int, error)
	DailyTotals(ctx context.Context, filter storage.AnalyticsFilter) ([]*storage.DailyTotals, error)
	DeviationCategories(ctx context.Context, filter storage.AnalyticsFilter) ([]*storage.DeviationCategory, error)
	TopReasons(ctx context.Context, filter storage.AnalyticsFilter, limit int) ([]*storage.TopReason, error)
	WorkplaceTotals(ctx context.Context, filter storage.AnalyticsFilter) ([]*storage.WorkplaceTotals, error)
	ShiftTotals(ctx context.Context, filter storage.AnalyticsFilter) ([]*storage.ShiftTotals, error)
	HourlyTotals(ctx context.Context, filter storage.AnalyticsFilter) ([]*storage.HourlyTotals, error)
}

type Service struct {
	storage AnalyticsStorage
}

func NewService(storage AnalyticsStorage) *Service {
	return &Service{storage: storage}
}

// Dashboard собирает сводку за период: суммы, процент выполнения,
// статусы бланков и число отклонений. Три запроса идут параллельно.
func (s *Service) Dashboard(ctx context.Context, filter storage.AnalyticsFilter) (*storage.DashboardSummary, error) {
	const op = "service.analytics.Dashboard"

	var (
		totals     *storage.BlankTotals
		statuses   map[string]int
		deviations int
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		totals, err = s.storage.BlankTotals(gCtx, filter)
		if err != nil {
			return fmt.Errorf("totals: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		statuses, err = s.storage.BlankStatusCounts(gCtx, filter)
		if err != nil {
			return fmt.Errorf("statuses: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		deviations, err = s.storage.DeviationsCount(gCtx, filter)
		if err != nil {
			return fmt.Errorf("deviations: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &storage.DashboardSummary{
		BlankTotals:          *totals,
		CompletionPercentage: percentage(totals.TotalFact, totals.TotalPlan),
		DeviationsCount:      deviations,
		Statuses:             statuses,
	}, nil
}

// DailyDynamics — динамика план/факт по дням периода.
func (s *Service) DailyDynamics(ctx context.Context, filter storage.AnalyticsFilter) ([]*storage.DailyDynamics, error) {
	const op = "service.analytics.DailyDynamics"

	days, err := s.storage.DailyTotals(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	dynamics := make([]*storage.DailyDynamics, 0, len(days))
	for _, d := range days {
		dynamics = append(dynamics, &storage.DailyDynamics{
			DailyTotals: *d,
			Completion:  percentage(d.Fact, d.Plan),
		})
	}

	return dynamics, nil
}

// DeviationCategories — распределение отклонений по группам
// классификатора с долей каждой группы от общего числа.
func (s *Service) DeviationCategories(ctx context.Context, filter storage.AnalyticsFilter) ([]*storage.DeviationCategory, error) {
	const op = "service.analytics.DeviationCategories"

	categories, err := s.storage.DeviationCategories(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	total := 0
	for _, c := range categories {
		total += c.Count
	}
	for _, c := range categories {
		c.Percentage = percentage(c.Count, total)
	}

	return categories, nil
}

func (s *Service) TopReasons(ctx context.Context, filter storage.AnalyticsFilter) ([]*storage.TopReason, error) {
	const op = "service.analytics.TopReasons"

	top, err := s.storage.TopReasons(ctx, filter, topReasonsLimit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return top, nil
}

// WorkplaceComparison — сравнение выработки рабочих мест за период.
func (s *Service) WorkplaceComparison(ctx context.Context, filter storage.AnalyticsFilter) ([]*storage.WorkplaceComparison, error) {
	const op = "service.analytics.WorkplaceComparison"

	totals, err := s.storage.WorkplaceTotals(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	comparison := make([]*storage.WorkplaceComparison, 0, len(totals))
	for _, t := range totals {
		comparison = append(comparison, &storage.WorkplaceComparison{
			WorkplaceTotals: *t,
			Completion:      percentage(t.TotalFact, t.TotalPlan),
		})
	}

	return comparison, nil
}

// ShiftComparison — сравнение выработки по сменам за период.
func (s *Service) ShiftComparison(ctx context.Context, filter storage.AnalyticsFilter) ([]*storage.ShiftComparison, error) {
	const op = "service.analytics.ShiftComparison"

	totals, err := s.storage.ShiftTotals(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	comparison := make([]*storage.ShiftComparison, 0, len(totals))
	for _, t := range totals {
		comparison = append(comparison, &storage.ShiftComparison{
			ShiftTotals: *t,
			Completion:  percentage(t.TotalFact, t.TotalPlan),
		})
	}

	return comparison, nil
}

// HourlyPattern — средняя выработка по номеру часа внутри смены.
func (s *Service) HourlyPattern(ctx context.Context, filter storage.AnalyticsFilter) ([]*storage.HourlyPattern, error) {
	const op = "service.analytics.HourlyPattern"

	totals, err := s.storage.HourlyTotals(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	pattern := make([]*storage.HourlyPattern, 0, len(totals))
	for _, t := range totals {
		if t.RecordsCount > 0 {
			n := decimal.NewFromInt(int64(t.RecordsCount))
			t.AvgPlan = storage.Fixed(decimal.NewFromInt(int64(t.TotalPlan)).Div(n))
			t.AvgFact = storage.Fixed(decimal.NewFromInt(int64(t.TotalFact)).Div(n))
		}
		pattern = append(pattern, &storage.HourlyPattern{
			HourlyTotals: *t,
			Completion:   percentage(t.TotalFact, t.TotalPlan),
		})
	}

	return pattern, nil
}

// Pareto строит АВС-анализ причин простоев по суммарной длительности:
// доля каждой причины и накопленная доля для правила 80/20.
func (s *Service) Pareto(ctx context.Context, filter storage.AnalyticsFilter) (*storage.ParetoAnalysis, error) {
	const op = "service.analytics.Pareto"

	top, err := s.storage.TopReasons(ctx, filter, topReasonsLimit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	// Топ отдаётся по частоте, для Парето важна длительность
	sort.SliceStable(top, func(i, j int) bool {
		return top[i].Duration > top[j].Duration
	})

	totalDuration := 0
	for _, t := range top {
		totalDuration += t.Duration
	}

	analysis := &storage.ParetoAnalysis{
		Data:          make([]storage.ParetoItem, 0, len(top)),
		TotalDuration: totalDuration,
	}

	cumulative := decimal.Zero
	for _, t := range top {
		share := percentage(t.Duration, totalDuration)
		cumulative = cumulative.Add(share.Decimal)
		analysis.Data = append(analysis.Data, storage.ParetoItem{
			TopReason:            *t,
			Percentage:           share,
			CumulativePercentage: storage.Fixed(cumulative),
		})
	}

	return analysis, nil
}

// percentage — fact/plan в процентах, два знака. Ноль в знаменателе
// трактуется как 0%.
func percentage(fact, plan int) storage.Fixed2 {
	if plan == 0 {
		return storage.Fixed2{}
	}
	return storage.Fixed(decimal.NewFromInt(int64(fact)).
		Mul(hundred).
		Div(decimal.NewFromInt(int64(plan))))
}
