package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/AcryCxde/shift-report/internal/storage"
)

// Справочники: цеха, участки, рабочие места, продукция, смены.

func (s *Storage) GetShift(ctx context.Context, id int64) (*storage.Shift, error) {
	const op = "storage.mysql.GetShift"

	sh := &storage.Shift{}
	err := s.db.QueryRowContext(ctx, `
		SELECT id, number, name, start_time, end_time,
		       lunch_break, personal_break, handover_break, other_break, is_active
		FROM shifts WHERE id = ?`, id,
	).Scan(&sh.ID, &sh.Number, &sh.Name, &sh.StartTime, &sh.EndTime,
		&sh.LunchBreak, &sh.PersonalBreak, &sh.HandoverBreak, &sh.OtherBreak, &sh.IsActive)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: смена %d: %w", op, id, storage.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return sh, nil
}

func (s *Storage) ListShifts(ctx context.Context, onlyActive bool) ([]*storage.Shift, error) {
	const op = "storage.mysql.ListShifts"

	query := `SELECT id, number, name, start_time, end_time,
		lunch_break, personal_break, handover_break, other_break, is_active
		FROM shifts`
	if onlyActive {
		query += " WHERE is_active = TRUE"
	}
	query += " ORDER BY number"

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var shifts []*storage.Shift
	for rows.Next() {
		sh := &storage.Shift{}
		err := rows.Scan(&sh.ID, &sh.Number, &sh.Name, &sh.StartTime, &sh.EndTime,
			&sh.LunchBreak, &sh.PersonalBreak, &sh.HandoverBreak, &sh.OtherBreak, &sh.IsActive)
		if err != nil {
			return nil, fmt.Errorf("%s: ошибка сканирования строки: %w", op, err)
		}
		shifts = append(shifts, sh)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: ошибка при итерации по строкам: %w", op, err)
	}

	return shifts, nil
}

func (s *Storage) SaveShift(ctx context.Context, sh *storage.Shift) (int64, error) {
	const op = "storage.mysql.SaveShift"

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO shifts (number, name, start_time, end_time,
			lunch_break, personal_break, handover_break, other_break, is_active)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			name = VALUES(name),
			start_time = VALUES(start_time),
			end_time = VALUES(end_time),
			lunch_break = VALUES(lunch_break),
			personal_break = VALUES(personal_break),
			handover_break = VALUES(handover_break),
			other_break = VALUES(other_break),
			is_active = VALUES(is_active)`,
		sh.Number, sh.Name, sh.StartTime, sh.EndTime,
		sh.LunchBreak, sh.PersonalBreak, sh.HandoverBreak, sh.OtherBreak, sh.IsActive,
	)
	if err != nil {
		return 0, fmt.Errorf("%s: ошибка сохранения смены: %w", op, err)
	}

	return res.LastInsertId()
}

func (s *Storage) GetWorkplace(ctx context.Context, id int64) (*storage.Workplace, error) {
	const op = "storage.mysql.GetWorkplace"

	wp := &storage.Workplace{}
	err := s.db.QueryRowContext(ctx, `
		SELECT id, sector_id, number, name, equipment_type,
		       passport_capacity, achieved_capacity, description, is_active
		FROM workplaces WHERE id = ?`, id,
	).Scan(&wp.ID, &wp.SectorID, &wp.Number, &wp.Name, &wp.EquipmentType,
		&wp.PassportCapacity, &wp.AchievedCapacity, &wp.Description, &wp.IsActive)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: РМ %d: %w", op, id, storage.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return wp, nil
}

func (s *Storage) ListWorkplaces(ctx context.Context, sectorID int64) ([]*storage.Workplace, error) {
	const op = "storage.mysql.ListWorkplaces"

	query := `SELECT id, sector_id, number, name, equipment_type,
		passport_capacity, achieved_capacity, description, is_active
		FROM workplaces`
	var args []any
	if sectorID != 0 {
		query += " WHERE sector_id = ?"
		args = append(args, sectorID)
	}
	query += " ORDER BY sector_id, number"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var workplaces []*storage.Workplace
	for rows.Next() {
		wp := &storage.Workplace{}
		err := rows.Scan(&wp.ID, &wp.SectorID, &wp.Number, &wp.Name, &wp.EquipmentType,
			&wp.PassportCapacity, &wp.AchievedCapacity, &wp.Description, &wp.IsActive)
		if err != nil {
			return nil, fmt.Errorf("%s: ошибка сканирования строки: %w", op, err)
		}
		workplaces = append(workplaces, wp)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: ошибка при итерации по строкам: %w", op, err)
	}

	return workplaces, nil
}

func (s *Storage) SaveWorkplace(ctx context.Context, wp *storage.Workplace) (int64, error) {
	const op = "storage.mysql.SaveWorkplace"

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO workplaces (sector_id, number, name, equipment_type,
			passport_capacity, achieved_capacity, description, is_active)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			name = VALUES(name),
			equipment_type = VALUES(equipment_type),
			passport_capacity = VALUES(passport_capacity),
			achieved_capacity = VALUES(achieved_capacity),
			description = VALUES(description),
			is_active = VALUES(is_active)`,
		wp.SectorID, wp.Number, wp.Name, wp.EquipmentType,
		wp.PassportCapacity, wp.AchievedCapacity, wp.Description, wp.IsActive,
	)
	if err != nil {
		return 0, fmt.Errorf("%s: ошибка сохранения РМ: %w", op, err)
	}

	return res.LastInsertId()
}

func (s *Storage) ListWorkshops(ctx context.Context) ([]*storage.Workshop, error) {
	const op = "storage.mysql.ListWorkshops"

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, number, name, description, is_active FROM workshops ORDER BY number")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var workshops []*storage.Workshop
	for rows.Next() {
		w := &storage.Workshop{}
		if err := rows.Scan(&w.ID, &w.Number, &w.Name, &w.Description, &w.IsActive); err != nil {
			return nil, fmt.Errorf("%s: ошибка сканирования строки: %w", op, err)
		}
		workshops = append(workshops, w)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: ошибка при итерации по строкам: %w", op, err)
	}

	return workshops, nil
}

func (s *Storage) SaveWorkshop(ctx context.Context, w *storage.Workshop) (int64, error) {
	const op = "storage.mysql.SaveWorkshop"

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO workshops (number, name, description, is_active)
		VALUES (?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			name = VALUES(name),
			description = VALUES(description),
			is_active = VALUES(is_active)`,
		w.Number, w.Name, w.Description, w.IsActive,
	)
	if err != nil {
		return 0, fmt.Errorf("%s: ошибка сохранения цеха: %w", op, err)
	}

	return res.LastInsertId()
}

func (s *Storage) ListSectors(ctx context.Context, workshopID int64) ([]*storage.Sector, error) {
	const op = "storage.mysql.ListSectors"

	query := "SELECT id, workshop_id, number, name, description, is_active FROM sectors"
	var args []any
	if workshopID != 0 {
		query += " WHERE workshop_id = ?"
		args = append(args, workshopID)
	}
	query += " ORDER BY workshop_id, number"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var sectors []*storage.Sector
	for rows.Next() {
		sec := &storage.Sector{}
		if err := rows.Scan(&sec.ID, &sec.WorkshopID, &sec.Number, &sec.Name, &sec.Description, &sec.IsActive); err != nil {
			return nil, fmt.Errorf("%s: ошибка сканирования строки: %w", op, err)
		}
		sectors = append(sectors, sec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: ошибка при итерации по строкам: %w", op, err)
	}

	return sectors, nil
}

func (s *Storage) SaveSector(ctx context.Context, sec *storage.Sector) (int64, error) {
	const op = "storage.mysql.SaveSector"

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO sectors (workshop_id, number, name, description, is_active)
		VALUES (?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			name = VALUES(name),
			description = VALUES(description),
			is_active = VALUES(is_active)`,
		sec.WorkshopID, sec.Number, sec.Name, sec.Description, sec.IsActive,
	)
	if err != nil {
		return 0, fmt.Errorf("%s: ошибка сохранения участка: %w", op, err)
	}

	return res.LastInsertId()
}

func (s *Storage) GetProduct(ctx context.Context, id int64) (*storage.Product, error) {
	const op = "storage.mysql.GetProduct"

	p := &storage.Product{}
	err := s.db.QueryRowContext(ctx, `
		SELECT id, article, name, unit, takt_time, cycle_time, description, is_active
		FROM products WHERE id = ?`, id,
	).Scan(&p.ID, &p.Article, &p.Name, &p.Unit, &p.TaktTime, &p.CycleTime, &p.Description, &p.IsActive)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: продукция %d: %w", op, id, storage.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return p, nil
}

func (s *Storage) ListProducts(ctx context.Context, onlyActive bool) ([]*storage.Product, error) {
	const op = "storage.mysql.ListProducts"

	query := "SELECT id, article, name, unit, takt_time, cycle_time, description, is_active FROM products"
	if onlyActive {
		query += " WHERE is_active = TRUE"
	}
	query += " ORDER BY name"

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var products []*storage.Product
	for rows.Next() {
		p := &storage.Product{}
		err := rows.Scan(&p.ID, &p.Article, &p.Name, &p.Unit, &p.TaktTime, &p.CycleTime, &p.Description, &p.IsActive)
		if err != nil {
			return nil, fmt.Errorf("%s: ошибка сканирования строки: %w", op, err)
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: ошибка при итерации по строкам: %w", op, err)
	}

	return products, nil
}

func (s *Storage) SaveProduct(ctx context.Context, p *storage.Product) (int64, error) {
	const op = "storage.mysql.SaveProduct"

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO products (article, name, unit, takt_time, cycle_time, description, is_active)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			name = VALUES(name),
			unit = VALUES(unit),
			takt_time = VALUES(takt_time),
			cycle_time = VALUES(cycle_time),
			description = VALUES(description),
			is_active = VALUES(is_active)`,
		p.Article, p.Name, p.Unit, p.TaktTime, p.CycleTime, p.Description, p.IsActive,
	)
	if err != nil {
		return 0, fmt.Errorf("%s: ошибка сохранения продукции: %w", op, err)
	}

	return res.LastInsertId()
}
