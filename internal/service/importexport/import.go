package importexport

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"golang.org/x/crypto/bcrypt"

	"github.com/AcryCxde/shift-report/internal/auth"
	"github.com/AcryCxde/shift-report/internal/storage"
)

// readRows читает CSV с заголовком и проверяет число колонок.
// Возвращает строки данных, нумерация с учётом заголовка.
func readRows(r io.Reader, wantColumns int) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = wantColumns

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения CSV: %w", err)
	}
	if len(rows) < 1 {
		return nil, fmt.Errorf("пустой файл: ожидается строка заголовка")
	}

	return rows[1:], nil
}

func rowErr(line int, format string, args ...any) RowError {
	return RowError{Line: line, Message: fmt.Sprintf(format, args...)}
}

func parseInt(s, field string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%s: не число: %q", field, s)
	}
	return n, nil
}

// parseOptInt — пустое значение трактуется как NULL.
func parseOptInt(s, field string) (*int, error) {
	if s == "" {
		return nil, nil
	}
	n, err := parseInt(s, field)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func parseBool(s, field string) (bool, error) {
	switch s {
	case "1", "true", "да":
		return true, nil
	case "0", "false", "нет", "":
		return false, nil
	}
	return false, fmt.Errorf("%s: ожидается 1/0: %q", field, s)
}

// ImportWorkshops — CSV: номер;название;описание;активен
func (s *Service) ImportWorkshops(ctx context.Context, r io.Reader) (*ImportResult, error) {
	const op = "service.importexport.ImportWorkshops"

	rows, err := readRows(r, 4)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	result := &ImportResult{}
	for i, row := range rows {
		line := i + 2

		number, err := parseInt(row[0], "номер")
		if err != nil {
			result.Errors = append(result.Errors, rowErr(line, "%v", err))
			continue
		}
		active, err := parseBool(row[3], "активен")
		if err != nil {
			result.Errors = append(result.Errors, rowErr(line, "%v", err))
			continue
		}

		w := &storage.Workshop{Number: number, Name: row[1], Description: row[2], IsActive: active}
		if _, err := s.storage.SaveWorkshop(ctx, w); err != nil {
			result.Errors = append(result.Errors, rowErr(line, "сохранение: %v", err))
			continue
		}
		result.Saved++
	}

	return result, nil
}

// ImportSectors — CSV: id цеха;номер;название;описание;активен
func (s *Service) ImportSectors(ctx context.Context, r io.Reader) (*ImportResult, error) {
	const op = "service.importexport.ImportSectors"

	rows, err := readRows(r, 5)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	result := &ImportResult{}
	for i, row := range rows {
		line := i + 2

		workshopID, err := parseInt(row[0], "id цеха")
		if err != nil {
			result.Errors = append(result.Errors, rowErr(line, "%v", err))
			continue
		}
		number, err := parseInt(row[1], "номер")
		if err != nil {
			result.Errors = append(result.Errors, rowErr(line, "%v", err))
			continue
		}
		active, err := parseBool(row[4], "активен")
		if err != nil {
			result.Errors = append(result.Errors, rowErr(line, "%v", err))
			continue
		}

		sec := &storage.Sector{
			WorkshopID: int64(workshopID), Number: number,
			Name: row[2], Description: row[3], IsActive: active,
		}
		if _, err := s.storage.SaveSector(ctx, sec); err != nil {
			result.Errors = append(result.Errors, rowErr(line, "сохранение: %v", err))
			continue
		}
		result.Saved++
	}

	return result, nil
}

// ImportWorkplaces — CSV: id участка;номер;название;тип оборудования;
// паспортная мощность;достигнутая мощность;описание;активно
func (s *Service) ImportWorkplaces(ctx context.Context, r io.Reader) (*ImportResult, error) {
	const op = "service.importexport.ImportWorkplaces"

	rows, err := readRows(r, 8)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	result := &ImportResult{}
	for i, row := range rows {
		line := i + 2

		sectorID, err := parseInt(row[0], "id участка")
		if err != nil {
			result.Errors = append(result.Errors, rowErr(line, "%v", err))
			continue
		}
		number, err := parseInt(row[1], "номер")
		if err != nil {
			result.Errors = append(result.Errors, rowErr(line, "%v", err))
			continue
		}
		passport, err := parseOptInt(row[4], "паспортная мощность")
		if err != nil {
			result.Errors = append(result.Errors, rowErr(line, "%v", err))
			continue
		}
		achieved, err := parseOptInt(row[5], "достигнутая мощность")
		if err != nil {
			result.Errors = append(result.Errors, rowErr(line, "%v", err))
			continue
		}
		active, err := parseBool(row[7], "активно")
		if err != nil {
			result.Errors = append(result.Errors, rowErr(line, "%v", err))
			continue
		}

		wp := &storage.Workplace{
			SectorID: int64(sectorID), Number: number, Name: row[2], EquipmentType: row[3],
			PassportCapacity: passport, AchievedCapacity: achieved,
			Description: row[6], IsActive: active,
		}
		if _, err := s.storage.SaveWorkplace(ctx, wp); err != nil {
			result.Errors = append(result.Errors, rowErr(line, "сохранение: %v", err))
			continue
		}
		result.Saved++
	}

	return result, nil
}

// ImportProducts — CSV: артикул;название;ед. изм.;время такта;
// время цикла;описание;активна
func (s *Service) ImportProducts(ctx context.Context, r io.Reader) (*ImportResult, error) {
	const op = "service.importexport.ImportProducts"

	rows, err := readRows(r, 7)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	result := &ImportResult{}
	for i, row := range rows {
		line := i + 2

		if row[0] == "" {
			result.Errors = append(result.Errors, rowErr(line, "артикул обязателен"))
			continue
		}
		takt, err := parseOptInt(row[3], "время такта")
		if err != nil {
			result.Errors = append(result.Errors, rowErr(line, "%v", err))
			continue
		}
		cycle, err := parseOptInt(row[4], "время цикла")
		if err != nil {
			result.Errors = append(result.Errors, rowErr(line, "%v", err))
			continue
		}
		active, err := parseBool(row[6], "активна")
		if err != nil {
			result.Errors = append(result.Errors, rowErr(line, "%v", err))
			continue
		}

		p := &storage.Product{
			Article: row[0], Name: row[1], Unit: row[2],
			TaktTime: takt, CycleTime: cycle,
			Description: row[5], IsActive: active,
		}
		if _, err := s.storage.SaveProduct(ctx, p); err != nil {
			result.Errors = append(result.Errors, rowErr(line, "сохранение: %v", err))
			continue
		}
		result.Saved++
	}

	return result, nil
}

// ImportShifts — CSV: номер;название;начало;окончание;обед;личные нужды;
// передача смены;прочее;активна
func (s *Service) ImportShifts(ctx context.Context, r io.Reader) (*ImportResult, error) {
	const op = "service.importexport.ImportShifts"

	rows, err := readRows(r, 9)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	result := &ImportResult{}
	for i, row := range rows {
		line := i + 2

		number, err := parseInt(row[0], "номер")
		if err != nil {
			result.Errors = append(result.Errors, rowErr(line, "%v", err))
			continue
		}
		lunch, err := parseInt(row[4], "обед")
		if err != nil {
			result.Errors = append(result.Errors, rowErr(line, "%v", err))
			continue
		}
		personal, err := parseInt(row[5], "личные нужды")
		if err != nil {
			result.Errors = append(result.Errors, rowErr(line, "%v", err))
			continue
		}
		handover, err := parseInt(row[6], "передача смены")
		if err != nil {
			result.Errors = append(result.Errors, rowErr(line, "%v", err))
			continue
		}
		other, err := parseInt(row[7], "прочее")
		if err != nil {
			result.Errors = append(result.Errors, rowErr(line, "%v", err))
			continue
		}
		active, err := parseBool(row[8], "активна")
		if err != nil {
			result.Errors = append(result.Errors, rowErr(line, "%v", err))
			continue
		}

		sh := &storage.Shift{
			Number: number, Name: row[1], StartTime: row[2], EndTime: row[3],
			LunchBreak: lunch, PersonalBreak: personal,
			HandoverBreak: handover, OtherBreak: other,
			IsActive: active,
		}
		if _, err := s.storage.SaveShift(ctx, sh); err != nil {
			result.Errors = append(result.Errors, rowErr(line, "сохранение: %v", err))
			continue
		}
		result.Saved++
	}

	return result, nil
}

// ImportDeviationGroups — CSV: код;название;цвет;порядок;описание;активна
func (s *Service) ImportDeviationGroups(ctx context.Context, r io.Reader) (*ImportResult, error) {
	const op = "service.importexport.ImportDeviationGroups"

	rows, err := readRows(r, 6)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	result := &ImportResult{}
	for i, row := range rows {
		line := i + 2

		if row[0] == "" {
			result.Errors = append(result.Errors, rowErr(line, "код обязателен"))
			continue
		}
		order, err := parseInt(row[3], "порядок")
		if err != nil {
			result.Errors = append(result.Errors, rowErr(line, "%v", err))
			continue
		}
		active, err := parseBool(row[5], "активна")
		if err != nil {
			result.Errors = append(result.Errors, rowErr(line, "%v", err))
			continue
		}

		g := &storage.DeviationGroup{
			Code: row[0], Name: row[1], Color: row[2], Order: order,
			Description: row[4], IsActive: active,
		}
		if _, err := s.storage.SaveDeviationGroup(ctx, g); err != nil {
			result.Errors = append(result.Errors, rowErr(line, "сохранение: %v", err))
			continue
		}
		result.Saved++
	}

	return result, nil
}

// ImportDeviationReasons — CSV: id группы;код;название;порядок;описание;активна
func (s *Service) ImportDeviationReasons(ctx context.Context, r io.Reader) (*ImportResult, error) {
	const op = "service.importexport.ImportDeviationReasons"

	rows, err := readRows(r, 6)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	result := &ImportResult{}
	for i, row := range rows {
		line := i + 2

		groupID, err := parseInt(row[0], "id группы")
		if err != nil {
			result.Errors = append(result.Errors, rowErr(line, "%v", err))
			continue
		}
		order, err := parseInt(row[3], "порядок")
		if err != nil {
			result.Errors = append(result.Errors, rowErr(line, "%v", err))
			continue
		}
		active, err := parseBool(row[5], "активна")
		if err != nil {
			result.Errors = append(result.Errors, rowErr(line, "%v", err))
			continue
		}

		reason := &storage.DeviationReason{
			GroupID: int64(groupID), Code: row[1], Name: row[2], Order: order,
			Description: row[4], IsActive: active,
		}
		if _, err := s.storage.SaveDeviationReason(ctx, reason); err != nil {
			result.Errors = append(result.Errors, rowErr(line, "сохранение: %v", err))
			continue
		}
		result.Saved++
	}

	return result, nil
}

// ImportEmployees — CSV: табельный;PIN;фамилия;имя;отчество;роль;
// id цеха;id участка;id РМ;активен. PIN хешируется bcrypt.
func (s *Service) ImportEmployees(ctx context.Context, r io.Reader) (*ImportResult, error) {
	const op = "service.importexport.ImportEmployees"

	rows, err := readRows(r, 10)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	result := &ImportResult{}
	for i, row := range rows {
		line := i + 2

		if row[0] == "" || row[1] == "" {
			result.Errors = append(result.Errors, rowErr(line, "табельный номер и PIN обязательны"))
			continue
		}
		if _, ok := auth.ParseRole(row[5]); !ok {
			result.Errors = append(result.Errors, rowErr(line, "неизвестная роль: %q", row[5]))
			continue
		}
		workshopID, err := parseOptInt(row[6], "id цеха")
		if err != nil {
			result.Errors = append(result.Errors, rowErr(line, "%v", err))
			continue
		}
		sectorID, err := parseOptInt(row[7], "id участка")
		if err != nil {
			result.Errors = append(result.Errors, rowErr(line, "%v", err))
			continue
		}
		workplaceID, err := parseOptInt(row[8], "id РМ")
		if err != nil {
			result.Errors = append(result.Errors, rowErr(line, "%v", err))
			continue
		}
		active, err := parseBool(row[9], "активен")
		if err != nil {
			result.Errors = append(result.Errors, rowErr(line, "%v", err))
			continue
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(row[1]), bcrypt.DefaultCost)
		if err != nil {
			result.Errors = append(result.Errors, rowErr(line, "хеширование PIN: %v", err))
			continue
		}

		e := &storage.Employee{
			PersonnelNumber: row[0], PinHash: string(hash),
			LastName: row[2], FirstName: row[3], MiddleName: row[4],
			Role:        row[5],
			WorkshopID:  optInt64(workshopID),
			SectorID:    optInt64(sectorID),
			WorkplaceID: optInt64(workplaceID),
			IsActive:    active,
		}
		if _, err := s.storage.SaveEmployee(ctx, e); err != nil {
			result.Errors = append(result.Errors, rowErr(line, "сохранение: %v", err))
			continue
		}
		result.Saved++
	}

	return result, nil
}

func optInt64(n *int) *int64 {
	if n == nil {
		return nil
	}
	v := int64(*n)
	return &v
}
