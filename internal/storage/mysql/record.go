package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/AcryCxde/shift-report/internal/storage"
)

const recordColumns = `id, blank_id, hour_number, start_time, end_time,
	planned_quantity, cumulative_plan, actual_quantity, cumulative_fact,
	deviation, cumulative_deviation, downtime_minutes, is_filled, filled_at, filled_by`

func scanRecord(row interface{ Scan(...any) error }) (*storage.Record, error) {
	rec := &storage.Record{}
	err := row.Scan(
		&rec.ID, &rec.BlankID, &rec.HourNumber, &rec.StartTime, &rec.EndTime,
		&rec.PlannedQuantity, &rec.CumulativePlan, &rec.ActualQuantity, &rec.CumulativeFact,
		&rec.Deviation, &rec.CumulativeDeviation, &rec.DowntimeMinutes,
		&rec.IsFilled, &rec.FilledAt, &rec.FilledBy,
	)
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *Storage) GetRecord(ctx context.Context, id int64) (*storage.Record, error) {
	const op = "storage.mysql.GetRecord"

	query := "SELECT " + recordColumns + " FROM pa_records WHERE id = ?"

	rec, err := scanRecord(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: запись %d: %w", op, id, storage.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return rec, nil
}

// GetBlankRecords — все записи бланка по возрастанию номера часа;
// порядок важен для пересчёта накопительных показателей.
func (s *Storage) GetBlankRecords(ctx context.Context, blankID int64) ([]*storage.Record, error) {
	return blankRecords(ctx, s.db, blankID)
}

// querier — общий срез *sql.DB и *sql.Tx: записи бланка читаются и
// вне транзакции, и под блокировкой в UpdateBlank.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func blankRecords(ctx context.Context, q querier, blankID int64) ([]*storage.Record, error) {
	const op = "storage.mysql.GetBlankRecords"

	query := "SELECT " + recordColumns + " FROM pa_records WHERE blank_id = ? ORDER BY hour_number"

	rows, err := q.QueryContext(ctx, query, blankID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var records []*storage.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: ошибка сканирования строки: %w", op, err)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: ошибка при итерации по строкам: %w", op, err)
	}

	return records, nil
}

// GetRecordDeviations — причины отклонений одной почасовой записи.
func (s *Storage) GetRecordDeviations(ctx context.Context, recordID int64) ([]*storage.DeviationEntry, error) {
	const op = "storage.mysql.GetRecordDeviations"

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, record_id, reason_id, duration_minutes, responsible_id, comment, created_by, created_at
		FROM deviation_entries
		WHERE record_id = ?
		ORDER BY created_at`, recordID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var entries []*storage.DeviationEntry
	for rows.Next() {
		e := &storage.DeviationEntry{}
		err := rows.Scan(&e.ID, &e.RecordID, &e.ReasonID, &e.DurationMinutes,
			&e.ResponsibleID, &e.Comment, &e.CreatedBy, &e.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("%s: ошибка сканирования строки: %w", op, err)
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: ошибка при итерации по строкам: %w", op, err)
	}

	return entries, nil
}
