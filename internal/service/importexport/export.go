package importexport

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/AcryCxde/shift-report/internal/storage"
)

const deviationReportLimit = 1000

func writeCSV(w io.Writer, header []string, rows [][]string) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(header); err != nil {
		return fmt.Errorf("запись заголовка: %w", err)
	}
	if err := writer.WriteAll(rows); err != nil {
		return fmt.Errorf("запись строк: %w", err)
	}

	writer.Flush()
	return writer.Error()
}

func boolCell(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

func optIntCell(n *int) string {
	if n == nil {
		return ""
	}
	return strconv.Itoa(*n)
}

func optInt64Cell(n *int64) string {
	if n == nil {
		return ""
	}
	return strconv.FormatInt(*n, 10)
}

func (s *Service) ExportWorkshops(ctx context.Context, w io.Writer) error {
	const op = "service.importexport.ExportWorkshops"

	workshops, err := s.storage.ListWorkshops(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	rows := make([][]string, 0, len(workshops))
	for _, ws := range workshops {
		rows = append(rows, []string{
			strconv.Itoa(ws.Number), ws.Name, ws.Description, boolCell(ws.IsActive),
		})
	}

	if err := writeCSV(w, []string{"номер", "название", "описание", "активен"}, rows); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *Service) ExportSectors(ctx context.Context, w io.Writer) error {
	const op = "service.importexport.ExportSectors"

	sectors, err := s.storage.ListSectors(ctx, 0)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	rows := make([][]string, 0, len(sectors))
	for _, sec := range sectors {
		rows = append(rows, []string{
			strconv.FormatInt(sec.WorkshopID, 10), strconv.Itoa(sec.Number),
			sec.Name, sec.Description, boolCell(sec.IsActive),
		})
	}

	if err := writeCSV(w, []string{"id цеха", "номер", "название", "описание", "активен"}, rows); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *Service) ExportWorkplaces(ctx context.Context, w io.Writer) error {
	const op = "service.importexport.ExportWorkplaces"

	workplaces, err := s.storage.ListWorkplaces(ctx, 0)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	rows := make([][]string, 0, len(workplaces))
	for _, wp := range workplaces {
		rows = append(rows, []string{
			strconv.FormatInt(wp.SectorID, 10), strconv.Itoa(wp.Number),
			wp.Name, wp.EquipmentType,
			optIntCell(wp.PassportCapacity), optIntCell(wp.AchievedCapacity),
			wp.Description, boolCell(wp.IsActive),
		})
	}

	header := []string{"id участка", "номер", "название", "тип оборудования",
		"паспортная мощность", "достигнутая мощность", "описание", "активно"}
	if err := writeCSV(w, header, rows); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *Service) ExportProducts(ctx context.Context, w io.Writer) error {
	const op = "service.importexport.ExportProducts"

	products, err := s.storage.ListProducts(ctx, false)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	rows := make([][]string, 0, len(products))
	for _, p := range products {
		rows = append(rows, []string{
			p.Article, p.Name, p.Unit,
			optIntCell(p.TaktTime), optIntCell(p.CycleTime),
			p.Description, boolCell(p.IsActive),
		})
	}

	header := []string{"артикул", "название", "ед. изм.", "время такта",
		"время цикла", "описание", "активна"}
	if err := writeCSV(w, header, rows); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *Service) ExportShifts(ctx context.Context, w io.Writer) error {
	const op = "service.importexport.ExportShifts"

	shifts, err := s.storage.ListShifts(ctx, false)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	rows := make([][]string, 0, len(shifts))
	for _, sh := range shifts {
		rows = append(rows, []string{
			strconv.Itoa(sh.Number), sh.Name, sh.StartTime, sh.EndTime,
			strconv.Itoa(sh.LunchBreak), strconv.Itoa(sh.PersonalBreak),
			strconv.Itoa(sh.HandoverBreak), strconv.Itoa(sh.OtherBreak),
			boolCell(sh.IsActive),
		})
	}

	header := []string{"номер", "название", "начало", "окончание", "обед",
		"личные нужды", "передача смены", "прочее", "активна"}
	if err := writeCSV(w, header, rows); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *Service) ExportDeviationGroups(ctx context.Context, w io.Writer) error {
	const op = "service.importexport.ExportDeviationGroups"

	groups, err := s.storage.ListDeviationGroups(ctx, false)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	rows := make([][]string, 0, len(groups))
	for _, g := range groups {
		rows = append(rows, []string{
			g.Code, g.Name, g.Color, strconv.Itoa(g.Order),
			g.Description, boolCell(g.IsActive),
		})
	}

	header := []string{"код", "название", "цвет", "порядок", "описание", "активна"}
	if err := writeCSV(w, header, rows); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *Service) ExportDeviationReasons(ctx context.Context, w io.Writer) error {
	const op = "service.importexport.ExportDeviationReasons"

	reasons, err := s.storage.ListDeviationReasons(ctx, 0)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	rows := make([][]string, 0, len(reasons))
	for _, r := range reasons {
		rows = append(rows, []string{
			strconv.FormatInt(r.GroupID, 10), r.Code, r.Name,
			strconv.Itoa(r.Order), r.Description, boolCell(r.IsActive),
		})
	}

	header := []string{"id группы", "код", "название", "порядок", "описание", "активна"}
	if err := writeCSV(w, header, rows); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ExportEmployees выгружает сотрудников без PIN: хеш не покидает БД.
func (s *Service) ExportEmployees(ctx context.Context, w io.Writer) error {
	const op = "service.importexport.ExportEmployees"

	employees, err := s.storage.ListEmployees(ctx, false)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	rows := make([][]string, 0, len(employees))
	for _, e := range employees {
		rows = append(rows, []string{
			e.PersonnelNumber, e.LastName, e.FirstName, e.MiddleName, e.Role,
			optInt64Cell(e.WorkshopID), optInt64Cell(e.SectorID), optInt64Cell(e.WorkplaceID),
			boolCell(e.IsActive),
		})
	}

	header := []string{"табельный", "фамилия", "имя", "отчество", "роль",
		"id цеха", "id участка", "id РМ", "активен"}
	if err := writeCSV(w, header, rows); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ExportBlanksReport — сводный отчёт по бланкам за период.
func (s *Service) ExportBlanksReport(ctx context.Context, w io.Writer, filter storage.BlankFilter) error {
	const op = "service.importexport.ExportBlanksReport"

	blanks, err := s.storage.ListBlanks(ctx, filter)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	rows := make([][]string, 0, len(blanks))
	for _, b := range blanks {
		rows = append(rows, []string{
			b.Date, strconv.FormatInt(b.WorkplaceID, 10), strconv.FormatInt(b.ShiftID, 10),
			b.BlankType, b.Status,
			strconv.Itoa(b.PlannedQuantity), strconv.Itoa(b.TotalPlan), strconv.Itoa(b.TotalFact),
			strconv.Itoa(b.TotalDeviation), strconv.Itoa(b.TotalDowntime),
			b.CompletionPercentage.String(),
		})
	}

	header := []string{"дата", "id РМ", "id смены", "тип", "статус",
		"план", "план по часам", "факт", "отклонение", "простой, мин", "выполнение, %"}
	if err := writeCSV(w, header, rows); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ExportDeviationsReport — отчёт по причинам отклонений за период.
func (s *Service) ExportDeviationsReport(ctx context.Context, w io.Writer, filter storage.AnalyticsFilter) error {
	const op = "service.importexport.ExportDeviationsReport"

	reasons, err := s.storage.TopReasons(ctx, filter, deviationReportLimit)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	rows := make([][]string, 0, len(reasons))
	for _, r := range reasons {
		rows = append(rows, []string{
			r.ReasonCode, r.ReasonName, r.GroupName,
			strconv.Itoa(r.Count), strconv.Itoa(r.Duration),
		})
	}

	header := []string{"код", "причина", "группа", "случаев", "длительность, мин"}
	if err := writeCSV(w, header, rows); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
