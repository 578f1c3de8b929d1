package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/AcryCxde/shift-report/internal/storage"
)

func (s *Storage) ListDeviationGroups(ctx context.Context, onlyActive bool) ([]*storage.DeviationGroup, error) {
	const op = "storage.mysql.ListDeviationGroups"

	query := "SELECT id, code, name, color, sort_order, description, is_active FROM deviation_groups"
	if onlyActive {
		query += " WHERE is_active = TRUE"
	}
	query += " ORDER BY sort_order, code"

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var groups []*storage.DeviationGroup
	for rows.Next() {
		g := &storage.DeviationGroup{}
		err := rows.Scan(&g.ID, &g.Code, &g.Name, &g.Color, &g.Order, &g.Description, &g.IsActive)
		if err != nil {
			return nil, fmt.Errorf("%s: ошибка сканирования строки: %w", op, err)
		}
		groups = append(groups, g)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: ошибка при итерации по строкам: %w", op, err)
	}

	return groups, nil
}

func (s *Storage) SaveDeviationGroup(ctx context.Context, g *storage.DeviationGroup) (int64, error) {
	const op = "storage.mysql.SaveDeviationGroup"

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO deviation_groups (code, name, color, sort_order, description, is_active)
		VALUES (?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			name = VALUES(name),
			color = VALUES(color),
			sort_order = VALUES(sort_order),
			description = VALUES(description),
			is_active = VALUES(is_active)`,
		g.Code, g.Name, g.Color, g.Order, g.Description, g.IsActive,
	)
	if err != nil {
		return 0, fmt.Errorf("%s: ошибка сохранения группы отклонений: %w", op, err)
	}

	return res.LastInsertId()
}

func (s *Storage) GetDeviationReason(ctx context.Context, id int64) (*storage.DeviationReason, error) {
	const op = "storage.mysql.GetDeviationReason"

	r := &storage.DeviationReason{}
	err := s.db.QueryRowContext(ctx, `
		SELECT id, group_id, code, name, sort_order, description, is_active
		FROM deviation_reasons WHERE id = ?`, id,
	).Scan(&r.ID, &r.GroupID, &r.Code, &r.Name, &r.Order, &r.Description, &r.IsActive)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: причина %d: %w", op, id, storage.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return r, nil
}

func (s *Storage) ListDeviationReasons(ctx context.Context, groupID int64) ([]*storage.DeviationReason, error) {
	const op = "storage.mysql.ListDeviationReasons"

	query := "SELECT id, group_id, code, name, sort_order, description, is_active FROM deviation_reasons"
	var args []any
	if groupID != 0 {
		query += " WHERE group_id = ?"
		args = append(args, groupID)
	}
	query += " ORDER BY group_id, sort_order, code"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	return scanReasons(op, rows)
}

// SearchReasons ищет активные причины по подстроке в коде или названии.
func (s *Storage) SearchReasons(ctx context.Context, query string, limit int) ([]*storage.DeviationReason, error) {
	const op = "storage.mysql.SearchReasons"

	pattern := "%" + query + "%"
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, group_id, code, name, sort_order, description, is_active
		FROM deviation_reasons
		WHERE is_active = TRUE AND (code LIKE ? OR name LIKE ?)
		ORDER BY code
		LIMIT ?`, pattern, pattern, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	return scanReasons(op, rows)
}

func scanReasons(op string, rows *sql.Rows) ([]*storage.DeviationReason, error) {
	var reasons []*storage.DeviationReason
	for rows.Next() {
		r := &storage.DeviationReason{}
		err := rows.Scan(&r.ID, &r.GroupID, &r.Code, &r.Name, &r.Order, &r.Description, &r.IsActive)
		if err != nil {
			return nil, fmt.Errorf("%s: ошибка сканирования строки: %w", op, err)
		}
		reasons = append(reasons, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: ошибка при итерации по строкам: %w", op, err)
	}

	return reasons, nil
}

func (s *Storage) SaveDeviationReason(ctx context.Context, r *storage.DeviationReason) (int64, error) {
	const op = "storage.mysql.SaveDeviationReason"

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO deviation_reasons (group_id, code, name, sort_order, description, is_active)
		VALUES (?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			name = VALUES(name),
			sort_order = VALUES(sort_order),
			description = VALUES(description),
			is_active = VALUES(is_active)`,
		r.GroupID, r.Code, r.Name, r.Order, r.Description, r.IsActive,
	)
	if err != nil {
		return 0, fmt.Errorf("%s: ошибка сохранения причины отклонения: %w", op, err)
	}

	return res.LastInsertId()
}

// TopReasons считает частоту причин агрегатом по записям об отклонениях
// за период. Счётчики использования нигде не хранятся.
func (s *Storage) TopReasons(ctx context.Context, filter storage.AnalyticsFilter, limit int) ([]*storage.TopReason, error) {
	const op = "storage.mysql.TopReasons"

	query := `
		SELECT r.name, r.code, g.name, g.color,
		       COUNT(*), COALESCE(SUM(e.duration_minutes), 0)
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
		GROUP BY r.id, r.name, r.code, g.name, g.color
		ORDER BY COUNT(*) DESC, r.code
		LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var top []*storage.TopReason
	for rows.Next() {
		t := &storage.TopReason{}
		err := rows.Scan(&t.ReasonName, &t.ReasonCode, &t.GroupName, &t.GroupColor,
			&t.Count, &t.Duration)
		if err != nil {
			return nil, fmt.Errorf("%s: ошибка сканирования строки: %w", op, err)
		}
		top = append(top, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: ошибка при итерации по строкам: %w", op, err)
	}

	return top, nil
}

// applyAnalyticsFilter дописывает условия периода и подразделения. Запрос
// должен содержать алиасы b (pa_blanks), w (workplaces) и sec (sectors).
func applyAnalyticsFilter(query string, args []any, filter storage.AnalyticsFilter) (string, []any) {
	if filter.DateFrom != "" {
		query += " AND b.date >= ?"
		args = append(args, filter.DateFrom)
	}
	if filter.DateTo != "" {
		query += " AND b.date <= ?"
		args = append(args, filter.DateTo)
	}
	if filter.WorkshopID != 0 {
		query += " AND sec.workshop_id = ?"
		args = append(args, filter.WorkshopID)
	}
	if filter.SectorID != 0 {
		query += " AND w.sector_id = ?"
		args = append(args, filter.SectorID)
	}
	return query, args
}
