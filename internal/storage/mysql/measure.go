package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/AcryCxde/shift-report/internal/storage"
)

func (s *Storage) GetDeviationEntry(ctx context.Context, id int64) (*storage.DeviationEntry, error) {
	const op = "storage.mysql.GetDeviationEntry"

	e := &storage.DeviationEntry{}
	err := s.db.QueryRowContext(ctx, `
		SELECT id, record_id, reason_id, duration_minutes, responsible_id, comment, created_by, created_at
		FROM deviation_entries WHERE id = ?`, id,
	).Scan(&e.ID, &e.RecordID, &e.ReasonID, &e.DurationMinutes,
		&e.ResponsibleID, &e.Comment, &e.CreatedBy, &e.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: отклонение %d: %w", op, id, storage.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return e, nil
}

func (s *Storage) SaveTakenMeasure(ctx context.Context, m *storage.TakenMeasure) (int64, error) {
	const op = "storage.mysql.SaveTakenMeasure"

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO taken_measures
			(deviation_entry_id, measure_type, description, resolved_at, created_by)
		VALUES (?, ?, ?, ?, ?)`,
		m.DeviationEntryID, m.MeasureType, m.Description, m.ResolvedAt, m.CreatedBy,
	)
	if err != nil {
		return 0, fmt.Errorf("%s: ошибка сохранения меры: %w", op, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return id, nil
}

// ListEntryMeasures — принятые меры по отклонению, свежие первыми.
func (s *Storage) ListEntryMeasures(ctx context.Context, entryID int64) ([]*storage.TakenMeasure, error) {
	const op = "storage.mysql.ListEntryMeasures"

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, deviation_entry_id, measure_type, description, resolved_at, created_by, created_at
		FROM taken_measures
		WHERE deviation_entry_id = ?
		ORDER BY created_at DESC`, entryID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var measures []*storage.TakenMeasure
	for rows.Next() {
		m := &storage.TakenMeasure{}
		err := rows.Scan(&m.ID, &m.DeviationEntryID, &m.MeasureType, &m.Description,
			&m.ResolvedAt, &m.CreatedBy, &m.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("%s: ошибка сканирования строки: %w", op, err)
		}
		measures = append(measures, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: ошибка при итерации по строкам: %w", op, err)
	}

	return measures, nil
}
