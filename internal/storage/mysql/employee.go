package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/AcryCxde/shift-report/internal/storage"
)

const employeeColumns = `id, personnel_number, pin_hash, last_name, first_name, middle_name,
	role, workshop_id, sector_id, workplace_id, is_active`

func scanEmployee(row interface{ Scan(...any) error }) (*storage.Employee, error) {
	e := &storage.Employee{}
	err := row.Scan(&e.ID, &e.PersonnelNumber, &e.PinHash, &e.LastName, &e.FirstName, &e.MiddleName,
		&e.Role, &e.WorkshopID, &e.SectorID, &e.WorkplaceID, &e.IsActive)
	if err != nil {
		return nil, err
	}
	return e, nil
}

// GetEmployeeByPersonnelNumber используется при входе по табельному номеру.
func (s *Storage) GetEmployeeByPersonnelNumber(ctx context.Context, personnelNumber string) (*storage.Employee, error) {
	const op = "storage.mysql.GetEmployeeByPersonnelNumber"

	row := s.db.QueryRowContext(ctx,
		"SELECT "+employeeColumns+" FROM employees WHERE personnel_number = ?", personnelNumber)

	e, err := scanEmployee(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: табельный %s: %w", op, personnelNumber, storage.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return e, nil
}

func (s *Storage) GetEmployee(ctx context.Context, id int64) (*storage.Employee, error) {
	const op = "storage.mysql.GetEmployee"

	row := s.db.QueryRowContext(ctx,
		"SELECT "+employeeColumns+" FROM employees WHERE id = ?", id)

	e, err := scanEmployee(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: сотрудник %d: %w", op, id, storage.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return e, nil
}

func (s *Storage) ListEmployees(ctx context.Context, onlyActive bool) ([]*storage.Employee, error) {
	const op = "storage.mysql.ListEmployees"

	query := "SELECT " + employeeColumns + " FROM employees"
	if onlyActive {
		query += " WHERE is_active = TRUE"
	}
	query += " ORDER BY last_name, first_name"

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var employees []*storage.Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: ошибка сканирования строки: %w", op, err)
		}
		employees = append(employees, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: ошибка при итерации по строкам: %w", op, err)
	}

	return employees, nil
}

func (s *Storage) SaveEmployee(ctx context.Context, e *storage.Employee) (int64, error) {
	const op = "storage.mysql.SaveEmployee"

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO employees (personnel_number, pin_hash, last_name, first_name, middle_name,
			role, workshop_id, sector_id, workplace_id, is_active)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			pin_hash = VALUES(pin_hash),
			last_name = VALUES(last_name),
			first_name = VALUES(first_name),
			middle_name = VALUES(middle_name),
			role = VALUES(role),
			workshop_id = VALUES(workshop_id),
			sector_id = VALUES(sector_id),
			workplace_id = VALUES(workplace_id),
			is_active = VALUES(is_active)`,
		e.PersonnelNumber, e.PinHash, e.LastName, e.FirstName, e.MiddleName,
		e.Role, e.WorkshopID, e.SectorID, e.WorkplaceID, e.IsActive,
	)
	if err != nil {
		return 0, fmt.Errorf("%s: ошибка сохранения сотрудника: %w", op, err)
	}

	return res.LastInsertId()
}
