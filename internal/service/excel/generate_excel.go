package excel

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/AcryCxde/shift-report/internal/storage"
)

type ExcelStorage interface {
	GetBlank(ctx context.Context, id int64) (*storage.Blank, error)
	GetBlankRecords(ctx context.Context, blankID int64) ([]*storage.Record, error)
	GetWorkplace(ctx context.Context, id int64) (*storage.Workplace, error)
	GetShift(ctx context.Context, id int64) (*storage.Shift, error)
	GetProduct(ctx context.Context, id int64) (*storage.Product, error)
}

type ExcelService struct {
	storage ExcelStorage
}

func NewExcelService(storage ExcelStorage) *ExcelService {
	return &ExcelService{storage: storage}
}

// GenerateBlankReport собирает печатную форму бланка ПА: шапка с
// параметрами, почасовая таблица и итоговая строка.
func (g *ExcelService) GenerateBlankReport(ctx context.Context, blankID int64) ([]byte, error) {
	const op = "service.excel.GenerateBlankReport"

	b, err := g.storage.GetBlank(ctx, blankID)
	if err != nil {
		return nil, fmt.Errorf("%s: бланк: %w", op, err)
	}

	records, err := g.storage.GetBlankRecords(ctx, blankID)
	if err != nil {
		return nil, fmt.Errorf("%s: записи: %w", op, err)
	}

	wp, err := g.storage.GetWorkplace(ctx, b.WorkplaceID)
	if err != nil {
		return nil, fmt.Errorf("%s: рабочее место: %w", op, err)
	}

	sh, err := g.storage.GetShift(ctx, b.ShiftID)
	if err != nil {
		return nil, fmt.Errorf("%s: смена: %w", op, err)
	}

	product, err := g.storage.GetProduct(ctx, b.ProductID)
	if err != nil {
		return nil, fmt.Errorf("%s: продукция: %w", op, err)
	}

	f := excelize.NewFile()
	defer f.Close()
	sheet := "Бланк ПА"
	f.SetSheetName("Sheet1", sheet)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true},
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"E0E0E0"}, Pattern: 1},
		Border: []excelize.Border{{Type: "bottom", Color: "000000", Style: 2}},
	})

	// Шапка бланка
	f.SetCellValue(sheet, "A1", "Бланк производственного анализа")
	f.SetCellValue(sheet, "A2", "Дата")
	f.SetCellValue(sheet, "B2", b.Date)
	f.SetCellValue(sheet, "A3", "Рабочее место")
	f.SetCellValue(sheet, "B3", wp.Name)
	f.SetCellValue(sheet, "A4", "Смена")
	f.SetCellValue(sheet, "B4", fmt.Sprintf("%s (%s–%s)", sh.Name, sh.StartTime, sh.EndTime))
	f.SetCellValue(sheet, "A5", "Продукция")
	f.SetCellValue(sheet, "B5", fmt.Sprintf("%s (%s)", product.Name, product.Article))
	f.SetCellValue(sheet, "A6", "План на смену")
	f.SetCellValue(sheet, "B6", b.PlannedQuantity)
	f.SetCellValue(sheet, "A7", "Время такта, сек")
	f.SetCellValue(sheet, "B7", b.TaktTime.String())
	f.SetCellValue(sheet, "A8", "Темп, шт/час")
	f.SetCellValue(sheet, "B8", b.ProductionRate.String())

	// Почасовая таблица
	headers := []string{"Час", "Интервал", "План", "Факт", "Откл.",
		"План нараст.", "Факт нараст.", "Откл. нараст.", "Простой, мин"}
	const tableRow = 10
	for i, name := range headers {
		f.SetCellValue(sheet, cellName(i+1, tableRow), name)
	}
	lastCol, _ := excelize.CoordinatesToCellName(len(headers), tableRow)
	f.SetCellStyle(sheet, cellName(1, tableRow), lastCol, headerStyle)

	for i, rec := range records {
		rowNum := tableRow + 1 + i
		f.SetCellValue(sheet, cellName(1, rowNum), rec.HourNumber)
		f.SetCellValue(sheet, cellName(2, rowNum), rec.StartTime+"–"+rec.EndTime)
		f.SetCellValue(sheet, cellName(3, rowNum), rec.PlannedQuantity)
		if rec.IsFilled {
			f.SetCellValue(sheet, cellName(4, rowNum), rec.ActualQuantity)
			f.SetCellValue(sheet, cellName(5, rowNum), rec.Deviation)
		}
		f.SetCellValue(sheet, cellName(6, rowNum), rec.CumulativePlan)
		if rec.IsFilled {
			f.SetCellValue(sheet, cellName(7, rowNum), rec.CumulativeFact)
			f.SetCellValue(sheet, cellName(8, rowNum), rec.CumulativeDeviation)
			f.SetCellValue(sheet, cellName(9, rowNum), rec.DowntimeMinutes)
		}
	}

	// Итоговая строка
	totalRow := tableRow + 1 + len(records)
	f.SetCellValue(sheet, cellName(1, totalRow), "Итого")
	f.SetCellValue(sheet, cellName(3, totalRow), b.TotalPlan)
	f.SetCellValue(sheet, cellName(4, totalRow), b.TotalFact)
	f.SetCellValue(sheet, cellName(5, totalRow), b.TotalDeviation)
	f.SetCellValue(sheet, cellName(9, totalRow), b.TotalDowntime)
	f.SetCellValue(sheet, cellName(2, totalRow), "Выполнение: "+b.CompletionPercentage.String()+"%")
	f.SetCellStyle(sheet, cellName(1, totalRow), cellName(len(headers), totalRow), headerStyle)

	f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		Split:       false,
		XSplit:      0,
		YSplit:      tableRow,
		TopLeftCell: cellName(1, tableRow+1),
	})

	f.SetColWidth(sheet, "A", "I", 14)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return buf.Bytes(), nil
}

func cellName(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}
