package mysql

import (
	"context"
	"fmt"
	"time"

	"github.com/AcryCxde/shift-report/internal/storage"
)

// Агрегатные запросы для аналитики. Процентные поля считает сервис,
// здесь только суммы и счётчики.

const analyticsFrom = `
	FROM pa_blanks b
	JOIN workplaces w ON w.id = b.workplace_id
	JOIN sectors sec ON sec.id = w.sector_id
	WHERE 1=1`

func (s *Storage) BlankTotals(ctx context.Context, filter storage.AnalyticsFilter) (*storage.BlankTotals, error) {
	const op = "storage.mysql.BlankTotals"

	query := `
		SELECT COALESCE(SUM(b.total_plan), 0), COALESCE(SUM(b.total_fact), 0),
		       COALESCE(SUM(b.total_deviation), 0), COALESCE(SUM(b.total_downtime), 0),
		       COUNT(*)` + analyticsFrom
	args := []any{}
	query, args = applyAnalyticsFilter(query, args, filter)

	t := &storage.BlankTotals{}
	err := s.db.QueryRowContext(ctx, query, args...).Scan(
		&t.TotalPlan, &t.TotalFact, &t.TotalDeviation, &t.TotalDowntime, &t.BlanksCount)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return t, nil
}

func (s *Storage) BlankStatusCounts(ctx context.Context, filter storage.AnalyticsFilter) (map[string]int, error) {
	const op = "storage.mysql.BlankStatusCounts"

	query := "SELECT b.status, COUNT(*)" + analyticsFrom
	args := []any{}
	query, args = applyAnalyticsFilter(query, args, filter)
	query += " GROUP BY b.status"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	statuses := make(map[string]int)
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("%s: ошибка сканирования строки: %w", op, err)
		}
		statuses[status] = count
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: ошибка при итерации по строкам: %w", op, err)
	}

	return statuses, nil
}

func (s *Storage) DeviationsCount(ctx context.Context, filter storage.AnalyticsFilter) (int, error) {
	const op = "storage.mysql.DeviationsCount"

	query := `
		SELECT COUNT(*)
		FROM deviation_entries e
		JOIN pa_records rec ON rec.id = e.record_id
		JOIN pa_blanks b ON b.id = rec.blank_id
		JOIN workplaces w ON w.id = b.workplace_id
		JOIN sectors sec ON sec.id = w.sector_id
		WHERE 1=1`
	args := []any{}
	query, args = applyAnalyticsFilter(query, args, filter)

	var count int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return count, nil
}

// DailyTotals — суммы по дням для графика динамики.
func (s *Storage) DailyTotals(ctx context.Context, filter storage.AnalyticsFilter) ([]*storage.DailyTotals, error) {
	const op = "storage.mysql.DailyTotals"

	query := `
		SELECT b.date, COALESCE(SUM(b.total_plan), 0), COALESCE(SUM(b.total_fact), 0),
		       COALESCE(SUM(b.total_deviation), 0), COUNT(*)` + analyticsFrom
	args := []any{}
	query, args = applyAnalyticsFilter(query, args, filter)
	query += " GROUP BY b.date ORDER BY b.date"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var days []*storage.DailyTotals
	for rows.Next() {
		d := &storage.DailyTotals{}
		var date time.Time
		err := rows.Scan(&date, &d.Plan, &d.Fact, &d.Deviation, &d.BlanksCount)
		if err != nil {
			return nil, fmt.Errorf("%s: ошибка сканирования строки: %w", op, err)
		}
		d.Date = date.Format("2006-01-02")
		days = append(days, d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: ошибка при итерации по строкам: %w", op, err)
	}

	return days, nil
}

// DeviationCategories — распределение отклонений по группам классификатора.
func (s *Storage) DeviationCategories(ctx context.Context, filter storage.AnalyticsFilter) ([]*storage.DeviationCategory, error) {
	const op = "storage.mysql.DeviationCategories"

	query := `
		SELECT g.name, g.code, g.color, COUNT(*), COALESCE(SUM(e.duration_minutes), 0)
		FROM deviation_entries e
		JOIN deviation_reasons r ON r.id = e.reason_id
		JOIN deviation_groups g ON g.id = r.group_id
		JOIN pa_records rec ON rec.id = e.record_id
		JOIN pa_blanks b ON b.id = rec.blank_id
		JOIN workplaces w ON w.id = b.workplace_id
		JOIN sectors sec ON sec.id = w.sector_id
		WHERE 1=1`
	args := []any{}
	query, args = applyAnalyticsFilter(query, args, filter)
	query += `
		GROUP BY g.id, g.name, g.code, g.color
		ORDER BY COUNT(*) DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var categories []*storage.DeviationCategory
	for rows.Next() {
		c := &storage.DeviationCategory{}
		err := rows.Scan(&c.GroupName, &c.GroupCode, &c.GroupColor, &c.Count, &c.Duration)
		if err != nil {
			return nil, fmt.Errorf("%s: ошибка сканирования строки: %w", op, err)
		}
		categories = append(categories, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: ошибка при итерации по строкам: %w", op, err)
	}

	return categories, nil
}

// WorkplaceTotals — суммы по рабочим местам для сравнения.
func (s *Storage) WorkplaceTotals(ctx context.Context, filter storage.AnalyticsFilter) ([]*storage.WorkplaceTotals, error) {
	const op = "storage.mysql.WorkplaceTotals"

	query := `
		SELECT w.id, w.name, sec.name,
		       COALESCE(SUM(b.total_plan), 0), COALESCE(SUM(b.total_fact), 0),
		       COALESCE(SUM(b.total_deviation), 0), COALESCE(SUM(b.total_downtime), 0),
		       COUNT(*)` + analyticsFrom
	args := []any{}
	query, args = applyAnalyticsFilter(query, args, filter)
	query += `
		GROUP BY w.id, w.name, sec.name
		ORDER BY SUM(b.total_fact) DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var totals []*storage.WorkplaceTotals
	for rows.Next() {
		t := &storage.WorkplaceTotals{}
		err := rows.Scan(&t.WorkplaceID, &t.WorkplaceName, &t.SectorName,
			&t.TotalPlan, &t.TotalFact, &t.TotalDeviation, &t.TotalDowntime, &t.BlanksCount)
		if err != nil {
			return nil, fmt.Errorf("%s: ошибка сканирования строки: %w", op, err)
		}
		totals = append(totals, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: ошибка при итерации по строкам: %w", op, err)
	}

	return totals, nil
}

// ShiftTotals — суммы по сменам для сравнения.
func (s *Storage) ShiftTotals(ctx context.Context, filter storage.AnalyticsFilter) ([]*storage.ShiftTotals, error) {
	const op = "storage.mysql.ShiftTotals"

	query := `
		SELECT sh.number, sh.name,
		       COALESCE(SUM(b.total_plan), 0), COALESCE(SUM(b.total_fact), 0),
		       COALESCE(SUM(b.total_deviation), 0), COALESCE(SUM(b.total_downtime), 0),
		       COUNT(*)
		FROM pa_blanks b
		JOIN shifts sh ON sh.id = b.shift_id
		JOIN workplaces w ON w.id = b.workplace_id
		JOIN sectors sec ON sec.id = w.sector_id
		WHERE 1=1`
	args := []any{}
	query, args = applyAnalyticsFilter(query, args, filter)
	query += `
		GROUP BY sh.id, sh.number, sh.name
		ORDER BY sh.number`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var totals []*storage.ShiftTotals
	for rows.Next() {
		t := &storage.ShiftTotals{}
		err := rows.Scan(&t.ShiftNumber, &t.ShiftName,
			&t.TotalPlan, &t.TotalFact, &t.TotalDeviation, &t.TotalDowntime, &t.BlanksCount)
		if err != nil {
			return nil, fmt.Errorf("%s: ошибка сканирования строки: %w", op, err)
		}
		totals = append(totals, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: ошибка при итерации по строкам: %w", op, err)
	}

	return totals, nil
}

// HourlyTotals — суммы по номеру часа внутри смены. Показывает
// типичный провал выработки в начале и конце смены.
func (s *Storage) HourlyTotals(ctx context.Context, filter storage.AnalyticsFilter) ([]*storage.HourlyTotals, error) {
	const op = "storage.mysql.HourlyTotals"

	query := `
		SELECT rec.hour_number,
		       COALESCE(SUM(rec.planned_quantity), 0), COALESCE(SUM(rec.actual_quantity), 0),
		       COUNT(*)
		FROM pa_records rec
		JOIN pa_blanks b ON b.id = rec.blank_id
		JOIN workplaces w ON w.id = b.workplace_id
		JOIN sectors sec ON sec.id = w.sector_id
		WHERE rec.is_filled = TRUE`
	args := []any{}
	query, args = applyAnalyticsFilter(query, args, filter)
	query += `
		GROUP BY rec.hour_number
		ORDER BY rec.hour_number`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var totals []*storage.HourlyTotals
	for rows.Next() {
		t := &storage.HourlyTotals{}
		err := rows.Scan(&t.HourNumber, &t.TotalPlan, &t.TotalFact, &t.RecordsCount)
		if err != nil {
			return nil, fmt.Errorf("%s: ошибка сканирования строки: %w", op, err)
		}
		totals = append(totals, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: ошибка при итерации по строкам: %w", op, err)
	}

	return totals, nil
}
