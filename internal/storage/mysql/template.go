package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/AcryCxde/shift-report/internal/storage"
)

const templateColumns = `id, name, workplace_id, product_id, shift_id, blank_type,
	planned_quantity, monday, tuesday, wednesday, thursday, friday, saturday, sunday,
	description, is_active, created_by`

func scanTemplate(row interface{ Scan(...any) error }) (*storage.Template, error) {
	t := &storage.Template{}
	err := row.Scan(&t.ID, &t.Name, &t.WorkplaceID, &t.ProductID, &t.ShiftID, &t.BlankType,
		&t.PlannedQuantity, &t.Monday, &t.Tuesday, &t.Wednesday, &t.Thursday, &t.Friday,
		&t.Saturday, &t.Sunday, &t.Description, &t.IsActive, &t.CreatedBy)
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (s *Storage) GetTemplate(ctx context.Context, id int64) (*storage.Template, error) {
	const op = "storage.mysql.GetTemplate"

	row := s.db.QueryRowContext(ctx,
		"SELECT "+templateColumns+" FROM pa_templates WHERE id = ?", id)

	t, err := scanTemplate(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: шаблон %d: %w", op, id, storage.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return t, nil
}

// GetSectorTemplates возвращает активные шаблоны для РМ указанного участка.
func (s *Storage) GetSectorTemplates(ctx context.Context, sectorID int64) ([]*storage.Template, error) {
	const op = "storage.mysql.GetSectorTemplates"

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+prefixColumns("t", templateColumns)+`
		FROM pa_templates t
		JOIN workplaces w ON w.id = t.workplace_id
		WHERE w.sector_id = ? AND t.is_active = TRUE
		ORDER BY t.workplace_id`, sectorID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var templates []*storage.Template
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: ошибка сканирования строки: %w", op, err)
		}
		templates = append(templates, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: ошибка при итерации по строкам: %w", op, err)
	}

	return templates, nil
}

// ListActiveTemplates используется планировщиком при ежедневном создании бланков.
func (s *Storage) ListActiveTemplates(ctx context.Context) ([]*storage.Template, error) {
	const op = "storage.mysql.ListActiveTemplates"

	rows, err := s.db.QueryContext(ctx,
		"SELECT "+templateColumns+" FROM pa_templates WHERE is_active = TRUE ORDER BY workplace_id")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var templates []*storage.Template
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: ошибка сканирования строки: %w", op, err)
		}
		templates = append(templates, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: ошибка при итерации по строкам: %w", op, err)
	}

	return templates, nil
}

func (s *Storage) SaveTemplate(ctx context.Context, t *storage.Template) (int64, error) {
	const op = "storage.mysql.SaveTemplate"

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO pa_templates (name, workplace_id, product_id, shift_id, blank_type,
			planned_quantity, monday, tuesday, wednesday, thursday, friday, saturday, sunday,
			description, is_active, created_by)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.Name, t.WorkplaceID, t.ProductID, t.ShiftID, t.BlankType,
		t.PlannedQuantity, t.Monday, t.Tuesday, t.Wednesday, t.Thursday, t.Friday,
		t.Saturday, t.Sunday, t.Description, t.IsActive, t.CreatedBy,
	)
	if err != nil {
		return 0, fmt.Errorf("%s: ошибка сохранения шаблона: %w", op, err)
	}

	return res.LastInsertId()
}

func (s *Storage) UpdateTemplate(ctx context.Context, t *storage.Template) error {
	const op = "storage.mysql.UpdateTemplate"

	res, err := s.db.ExecContext(ctx, `
		UPDATE pa_templates SET
			name = ?, product_id = ?, shift_id = ?, blank_type = ?, planned_quantity = ?,
			monday = ?, tuesday = ?, wednesday = ?, thursday = ?,
			friday = ?, saturday = ?, sunday = ?, description = ?, is_active = ?
		WHERE id = ?`,
		t.Name, t.ProductID, t.ShiftID, t.BlankType, t.PlannedQuantity,
		t.Monday, t.Tuesday, t.Wednesday, t.Thursday,
		t.Friday, t.Saturday, t.Sunday, t.Description, t.IsActive,
		t.ID,
	)
	if err != nil {
		return fmt.Errorf("%s: ошибка обновления шаблона: %w", op, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: шаблон %d: %w", op, t.ID, storage.ErrNotFound)
	}

	return nil
}
