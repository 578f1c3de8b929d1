package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/AcryCxde/shift-report/internal/storage"
)

func (s *Storage) BlankExists(ctx context.Context, workplaceID int64, date string, shiftID int64) (bool, error) {
	const op = "storage.mysql.BlankExists"

	var exists bool
	err := s.db.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM pa_blanks WHERE workplace_id = ? AND date = ? AND shift_id = ?)",
		workplaceID, date, shiftID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	return exists, nil
}

// CreateBlank сохраняет бланк вместе со всеми почасовыми записями в
// одной транзакции: либо бланк создан целиком, либо не создан вовсе.
// Уникальный ключ (workplace_id, date, shift_id) страхует проверку
// уникальности от гонки между двумя создателями.
func (s *Storage) CreateBlank(ctx context.Context, b *storage.Blank, records []*storage.Record) (int64, error) {
	const op = "storage.mysql.CreateBlank"

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%s: begin transaction: %w", op, err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO pa_blanks
			(workplace_id, date, shift_id, product_id, blank_type, status,
			 planned_quantity, takt_time, production_rate, hourly_plan,
			 workplace_capacity, total_plan, total_fact, total_deviation,
			 total_downtime, completion_percentage, notes, created_by)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		b.WorkplaceID, b.Date, b.ShiftID, b.ProductID, b.BlankType, b.Status,
		b.PlannedQuantity, b.TaktTime, b.ProductionRate, b.HourlyPlan,
		b.WorkplaceCapacity, b.TotalPlan, b.TotalFact, b.TotalDeviation,
		b.TotalDowntime, b.CompletionPercentage, b.Notes, b.CreatedBy,
	)
	if err != nil {
		if isDuplicateKey(err) {
			return 0, fmt.Errorf("%s: %w", op, storage.ErrDuplicateBlank)
		}
		return 0, fmt.Errorf("%s: ошибка сохранения бланка: %w", op, err)
	}

	blankID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO pa_records
			(blank_id, hour_number, start_time, end_time,
			 planned_quantity, cumulative_plan)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("%s: prepare statement: %w", op, err)
	}
	defer stmt.Close()

	for _, rec := range records {
		_, err := stmt.ExecContext(ctx, blankID, rec.HourNumber,
			rec.StartTime, rec.EndTime, rec.PlannedQuantity, rec.CumulativePlan)
		if err != nil {
			return 0, fmt.Errorf("%s: ошибка сохранения записи часа %d: %w", op, rec.HourNumber, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("%s: commit: %w", op, err)
	}

	return blankID, nil
}

const blankColumns = `id, workplace_id, date, shift_id, product_id, blank_type, status,
	planned_quantity, takt_time, production_rate, hourly_plan, workplace_capacity,
	total_plan, total_fact, total_deviation, total_downtime, completion_percentage,
	notes, created_by, created_at, updated_at`

func scanBlank(row interface{ Scan(...any) error }) (*storage.Blank, error) {
	b := &storage.Blank{}
	// parseTime=true отдаёт колонку DATE как time.Time
	var date time.Time
	err := row.Scan(
		&b.ID, &b.WorkplaceID, &date, &b.ShiftID, &b.ProductID, &b.BlankType, &b.Status,
		&b.PlannedQuantity, &b.TaktTime, &b.ProductionRate, &b.HourlyPlan, &b.WorkplaceCapacity,
		&b.TotalPlan, &b.TotalFact, &b.TotalDeviation, &b.TotalDowntime, &b.CompletionPercentage,
		&b.Notes, &b.CreatedBy, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	b.Date = date.Format("2006-01-02")
	return b, nil
}

func (s *Storage) GetBlank(ctx context.Context, id int64) (*storage.Blank, error) {
	const op = "storage.mysql.GetBlank"

	query := "SELECT " + blankColumns + " FROM pa_blanks WHERE id = ?"

	b, err := scanBlank(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: бланк %d: %w", op, id, storage.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return b, nil
}

func (s *Storage) ListBlanks(ctx context.Context, filter storage.BlankFilter) ([]*storage.Blank, error) {
	const op = "storage.mysql.ListBlanks"

	var conds []string
	var args []any

	if filter.DateFrom != "" {
		conds = append(conds, "b.date >= ?")
		args = append(args, filter.DateFrom)
	}
	if filter.DateTo != "" {
		conds = append(conds, "b.date <= ?")
		args = append(args, filter.DateTo)
	}
	if filter.WorkplaceID != 0 {
		conds = append(conds, "b.workplace_id = ?")
		args = append(args, filter.WorkplaceID)
	}
	if filter.SectorID != 0 {
		conds = append(conds, "w.sector_id = ?")
		args = append(args, filter.SectorID)
	}
	if filter.WorkshopID != 0 {
		conds = append(conds, "sec.workshop_id = ?")
		args = append(args, filter.WorkshopID)
	}
	if filter.Status != "" {
		conds = append(conds, "b.status = ?")
		args = append(args, filter.Status)
	}

	query := `SELECT ` + prefixColumns("b", blankColumns) + `
		FROM pa_blanks b
		JOIN workplaces w ON w.id = b.workplace_id
		JOIN sectors sec ON sec.id = w.sector_id`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY b.date DESC, b.shift_id, w.number"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var blanks []*storage.Blank
	for rows.Next() {
		b, err := scanBlank(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: ошибка сканирования строки: %w", op, err)
		}
		blanks = append(blanks, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: ошибка при итерации по строкам: %w", op, err)
	}

	return blanks, nil
}

func (s *Storage) UpdateBlankStatus(ctx context.Context, id int64, status string) error {
	const op = "storage.mysql.UpdateBlankStatus"

	res, err := s.db.ExecContext(ctx, "UPDATE pa_blanks SET status = ? WHERE id = ?", status, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s: бланк %d: %w", op, id, storage.ErrNotFound)
	}

	return nil
}

// UpdateBlank — единая транзакция пересчёта бланка. Строка бланка
// блокируется FOR UPDATE, записи читаются уже под блокировкой, и
// только после этого update получает их на пересчёт: конкурирующие
// операторы сериализуются и каждый видит факт, зафиксированный
// предыдущим. Всё, что вернул update, сохраняется в той же
// транзакции.
func (s *Storage) UpdateBlank(ctx context.Context, blankID int64,
	update func(b *storage.Blank, records []*storage.Record) (*storage.BlankUpdate, error)) error {
	const op = "storage.mysql.UpdateBlank"

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: begin transaction: %w", op, err)
	}
	defer tx.Rollback()

	query := "SELECT " + blankColumns + " FROM pa_blanks WHERE id = ? FOR UPDATE"

	b, err := scanBlank(tx.QueryRowContext(ctx, query, blankID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%s: бланк %d: %w", op, blankID, storage.ErrNotFound)
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	records, err := blankRecords(ctx, tx, blankID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	upd, err := update(b, records)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if rec := upd.Record; rec != nil {
		_, err = tx.ExecContext(ctx, `
			UPDATE pa_records
			SET actual_quantity = ?, downtime_minutes = ?, is_filled = ?,
			    filled_at = ?, filled_by = ?
			WHERE id = ?`,
			rec.ActualQuantity, rec.DowntimeMinutes, rec.IsFilled,
			rec.FilledAt, rec.FilledBy, rec.ID,
		)
		if err != nil {
			return fmt.Errorf("%s: ошибка сохранения записи: %w", op, err)
		}

		// Причины отклонения записи заменяются целиком
		if _, err := tx.ExecContext(ctx, "DELETE FROM deviation_entries WHERE record_id = ?", rec.ID); err != nil {
			return fmt.Errorf("%s: очистка причин отклонений: %w", op, err)
		}

		for _, e := range upd.Entries {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO deviation_entries
					(record_id, reason_id, duration_minutes, responsible_id, comment, created_by)
				VALUES (?, ?, ?, ?, ?, ?)`,
				e.RecordID, e.ReasonID, e.DurationMinutes, e.ResponsibleID, e.Comment, e.CreatedBy,
			)
			if err != nil {
				return fmt.Errorf("%s: ошибка сохранения причины отклонения: %w", op, err)
			}
		}
	}

	if err := updateCumulatives(ctx, tx, upd.Changed); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := updateTotals(ctx, tx, b); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return tx.Commit()
}

func updateCumulatives(ctx context.Context, tx *sql.Tx, changed []*storage.Record) error {
	if len(changed) == 0 {
		return nil
	}

	stmt, err := tx.PrepareContext(ctx, `
		UPDATE pa_records
		SET cumulative_plan = ?, cumulative_fact = ?,
		    cumulative_deviation = ?, deviation = ?
		WHERE id = ?`)
	if err != nil {
		return fmt.Errorf("prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, rec := range changed {
		_, err := stmt.ExecContext(ctx, rec.CumulativePlan, rec.CumulativeFact,
			rec.CumulativeDeviation, rec.Deviation, rec.ID)
		if err != nil {
			return fmt.Errorf("ошибка обновления накопительных полей часа %d: %w", rec.HourNumber, err)
		}
	}

	return nil
}

func updateTotals(ctx context.Context, tx *sql.Tx, b *storage.Blank) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE pa_blanks
		SET total_plan = ?, total_fact = ?, total_deviation = ?,
		    total_downtime = ?, completion_percentage = ?
		WHERE id = ?`,
		b.TotalPlan, b.TotalFact, b.TotalDeviation,
		b.TotalDowntime, b.CompletionPercentage, b.ID,
	)
	if err != nil {
		return fmt.Errorf("ошибка обновления итогов бланка: %w", err)
	}
	return nil
}

// prefixColumns добавляет алиас таблицы к списку колонок.
func prefixColumns(alias, columns string) string {
	parts := strings.Split(columns, ",")
	for i, p := range parts {
		parts[i] = alias + "." + strings.TrimSpace(p)
	}
	return strings.Join(parts, ", ")
}
