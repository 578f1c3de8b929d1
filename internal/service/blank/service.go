package blank

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/AcryCxde/shift-report/internal/storage"
)

// BlankStorage — хранилище, необходимое сервису бланков.
type BlankStorage interface {
	BlankExists(ctx context.Context, workplaceID int64, date string, shiftID int64) (bool, error)
	CreateBlank(ctx context.Context, b *storage.Blank, records []*storage.Record) (int64, error)

	GetBlank(ctx context.Context, id int64) (*storage.Blank, error)
	GetBlankRecords(ctx context.Context, blankID int64) ([]*storage.Record, error)
	GetRecord(ctx context.Context, id int64) (*storage.Record, error)
	GetDeviationReason(ctx context.Context, id int64) (*storage.DeviationReason, error)

	GetShift(ctx context.Context, id int64) (*storage.Shift, error)
	GetWorkplace(ctx context.Context, id int64) (*storage.Workplace, error)
	GetTemplate(ctx context.Context, id int64) (*storage.Template, error)
	GetSectorTemplates(ctx context.Context, sectorID int64) ([]*storage.Template, error)

	// UpdateBlank выполняет пересчёт под блокировкой бланка: открывает
	// транзакцию, блокирует строку бланка, читает записи уже внутри
	// транзакции и передаёт их в update. Возвращённые изменения
	// сохраняются в той же транзакции. Конкурирующие операторы
	// сериализуются на блокировке и каждый пересчитывает поверх
	// зафиксированного состояния предыдущего.
	UpdateBlank(ctx context.Context, blankID int64,
		update func(b *storage.Blank, records []*storage.Record) (*storage.BlankUpdate, error)) error
}

type Service struct {
	storage BlankStorage
}

func NewService(storage BlankStorage) *Service {
	return &Service{storage: storage}
}

// CreateBlankInput — параметры создания бланка ПА.
type CreateBlankInput struct {
	WorkplaceID     int64
	Date            string // "2006-01-02"
	ShiftID         int64
	ProductID       int64
	PlannedQuantity int
	BlankType       string // пусто = автоматический выбор
	CreatedBy       *int64
}

// CreateBlank создаёт бланк ПА: выбор типа, расчёт параметров,
// генерация почасовых записей и итогов — всё в одной транзакции.
// Нарушение уникальности (РМ, дата, смена) — ErrDuplicateBlank.
func (s *Service) CreateBlank(ctx context.Context, in CreateBlankInput) (*storage.Blank, []*storage.Record, error) {
	const op = "service.blank.CreateBlank"

	exists, err := s.storage.BlankExists(ctx, in.WorkplaceID, in.Date, in.ShiftID)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: проверка уникальности: %w", op, err)
	}
	if exists {
		return nil, nil, fmt.Errorf("%s: РМ %d, дата %s, смена %d: %w",
			op, in.WorkplaceID, in.Date, in.ShiftID, storage.ErrDuplicateBlank)
	}

	sh, err := s.storage.GetShift(ctx, in.ShiftID)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: смена: %w", op, err)
	}

	wp, err := s.storage.GetWorkplace(ctx, in.WorkplaceID)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: рабочее место: %w", op, err)
	}

	workingMinutes, err := WorkingTimeMinutes(sh)
	if err != nil {
		return nil, nil, err
	}

	blankType := SelectType(wp, in.BlankType)

	params, err := ComputeParameters(workingMinutes, in.PlannedQuantity, wp, blankType)
	if err != nil {
		return nil, nil, err
	}

	records, err := GenerateRecords(sh, workingMinutes, params.HourlyPlan)
	if err != nil {
		return nil, nil, err
	}

	b := &storage.Blank{
		WorkplaceID:       in.WorkplaceID,
		Date:              in.Date,
		ShiftID:           in.ShiftID,
		ProductID:         in.ProductID,
		BlankType:         blankType,
		Status:            storage.BlankStatusActive,
		PlannedQuantity:   in.PlannedQuantity,
		TaktTime:          params.TaktTime,
		ProductionRate:    params.ProductionRate,
		HourlyPlan:        params.HourlyPlan,
		WorkplaceCapacity: params.WorkplaceCapacity,
		CreatedBy:         in.CreatedBy,
	}

	RecalculateTotals(b, records)

	id, err := s.storage.CreateBlank(ctx, b, records)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	b.ID = id
	for _, rec := range records {
		rec.BlankID = id
	}

	return b, records, nil
}

// CreateFromTemplate создаёт бланк по шаблону. Применимость шаблона
// к дню недели проверяет вызывающий.
func (s *Service) CreateFromTemplate(ctx context.Context, templateID int64, date string, shiftID *int64, createdBy *int64) (*storage.Blank, []*storage.Record, error) {
	const op = "service.blank.CreateFromTemplate"

	tpl, err := s.storage.GetTemplate(ctx, templateID)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: шаблон: %w", op, err)
	}

	sid := shiftID
	if sid == nil {
		sid = tpl.ShiftID
	}
	if sid == nil {
		return nil, nil, fmt.Errorf("%s: шаблон %d: смена не указана: %w",
			op, templateID, storage.ErrInvalidBlankParameters)
	}

	return s.CreateBlank(ctx, CreateBlankInput{
		WorkplaceID:     tpl.WorkplaceID,
		Date:            date,
		ShiftID:         *sid,
		ProductID:       tpl.ProductID,
		PlannedQuantity: tpl.PlannedQuantity,
		BlankType:       tpl.BlankType,
		CreatedBy:       createdBy,
	})
}

// CreateBlanksForSector — массовое создание бланков для всех активных
// шаблонов участка, применимых к дню недели. Уже существующие бланки
// пропускаются.
func (s *Service) CreateBlanksForSector(ctx context.Context, sectorID int64, date string, shiftID *int64, createdBy *int64) ([]*storage.Blank, error) {
	const op = "service.blank.CreateBlanksForSector"

	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return nil, fmt.Errorf("%s: дата %q: %w", op, date, err)
	}

	templates, err := s.storage.GetSectorTemplates(ctx, sectorID)
	if err != nil {
		return nil, fmt.Errorf("%s: шаблоны участка: %w", op, err)
	}

	var blanks []*storage.Blank
	for _, tpl := range templates {
		if !tpl.ApplicableFor(day.Weekday()) {
			continue
		}

		b, _, err := s.CreateFromTemplate(ctx, tpl.ID, date, shiftID, createdBy)
		if err != nil {
			if errors.Is(err, storage.ErrDuplicateBlank) {
				continue
			}
			return blanks, err
		}
		blanks = append(blanks, b)
	}

	return blanks, nil
}

// ApplyActualInput — ввод фактических данных за час.
type ApplyActualInput struct {
	RecordID       int64
	ActualQuantity int
	FilledBy       *int64
	Now            time.Time

	// Причины отклонения; простой записи = сумма минут
	Entries []*storage.DeviationEntry
}

// ApplyHourlyActual вносит факт за час: отклонение записи, полный
// пересчёт накопительных показателей и итогов бланка. Пересчёт идёт
// по записям, прочитанным под блокировкой бланка, поэтому факт,
// внесённый параллельным оператором в другой час, не теряется.
// На завершённом или отменённом бланке — ErrBlankNotEditable, при
// неизвестной причине отклонения — ErrNotFound.
func (s *Service) ApplyHourlyActual(ctx context.Context, in ApplyActualInput) (*storage.Record, error) {
	const op = "service.blank.ApplyHourlyActual"

	for _, e := range in.Entries {
		if _, err := s.storage.GetDeviationReason(ctx, e.ReasonID); err != nil {
			return nil, fmt.Errorf("%s: причина %d: %w", op, e.ReasonID, err)
		}
	}

	// Вне блокировки — только чтобы узнать бланк записи
	rec, err := s.storage.GetRecord(ctx, in.RecordID)
	if err != nil {
		return nil, fmt.Errorf("%s: запись: %w", op, err)
	}

	var target *storage.Record
	err = s.storage.UpdateBlank(ctx, rec.BlankID, func(b *storage.Blank, records []*storage.Record) (*storage.BlankUpdate, error) {
		if !b.IsEditable() {
			return nil, fmt.Errorf("бланк %d (%s): %w", b.ID, b.Status, storage.ErrBlankNotEditable)
		}

		target = nil
		for _, r := range records {
			if r.ID == in.RecordID {
				target = r
				break
			}
		}
		if target == nil {
			return nil, fmt.Errorf("запись %d не принадлежит бланку %d: %w",
				in.RecordID, b.ID, storage.ErrNotFound)
		}

		now := in.Now
		target.ActualQuantity = in.ActualQuantity
		target.IsFilled = true
		target.FilledAt = &now
		target.FilledBy = in.FilledBy
		target.Deviation = target.ActualQuantity - target.PlannedQuantity

		downtime := 0
		for _, e := range in.Entries {
			e.RecordID = target.ID
			e.CreatedBy = in.FilledBy
			downtime += e.DurationMinutes
		}
		target.DowntimeMinutes = downtime

		changed := RecalculateCumulatives(records)
		RecalculateTotals(b, records)

		return &storage.BlankUpdate{Record: target, Changed: changed, Entries: in.Entries}, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return target, nil
}

// RecalculateBlank повторно прогоняет полный пересчёт накопительных
// показателей и итогов. Используется после внешних правок плана или
// исторических исправлений; идемпотентен.
func (s *Service) RecalculateBlank(ctx context.Context, blankID int64) (*storage.Blank, error) {
	const op = "service.blank.RecalculateBlank"

	var b *storage.Blank
	err := s.storage.UpdateBlank(ctx, blankID, func(blank *storage.Blank, records []*storage.Record) (*storage.BlankUpdate, error) {
		changed := RecalculateCumulatives(records)
		RecalculateTotals(blank, records)
		b = blank
		return &storage.BlankUpdate{Changed: changed}, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return b, nil
}

// CurrentCompletion — процент выполнения на текущий момент (только
// завершившиеся часы) и цвет светофора.
func (s *Service) CurrentCompletion(ctx context.Context, blankID int64, now time.Time) (storage.Fixed2, string, error) {
	const op = "service.blank.CurrentCompletion"

	b, err := s.storage.GetBlank(ctx, blankID)
	if err != nil {
		return storage.Fixed2{}, "", fmt.Errorf("%s: бланк: %w", op, err)
	}

	records, err := s.storage.GetBlankRecords(ctx, blankID)
	if err != nil {
		return storage.Fixed2{}, "", fmt.Errorf("%s: записи бланка: %w", op, err)
	}

	pct := CurrentCompletionPercentage(b, records, now)
	return pct, StatusColor(pct.Decimal), nil
}
