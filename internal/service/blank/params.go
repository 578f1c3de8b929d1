package blank

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/AcryCxde/shift-report/internal/storage"
)

var (
	secondsPerHour = decimal.NewFromInt(3600)
	hundred        = decimal.NewFromInt(100)
)

// SelectType — автоматическое определение типа бланка.
// Явно заданный тип всегда побеждает. Автоматически выбираются только
// типы 1 и 2: при наличии у РМ паспортной или достигнутой мощности —
// тип 2, иначе тип 1.
func SelectType(wp *storage.Workplace, explicit string) string {
	if explicit != "" {
		return explicit
	}
	if wp.PassportCapacity != nil || wp.AchievedCapacity != nil {
		return storage.BlankType2
	}
	return storage.BlankType1
}

// Parameters — расчётные показатели бланка, вычисляются один раз при
// создании и больше не пересчитываются.
type Parameters struct {
	TaktTime          storage.Fixed2 // сек на единицу
	ProductionRate    storage.Fixed2 // шт/час
	HourlyPlan        int
	WorkplaceCapacity *int
}

// ComputeParameters — расчёт времени такта, темпа производства и
// часового плана.
//
//	Тт = фонд времени (сек) / плановый объём
//	Темп = 3600 / Тт
//	Часовой план = Темп, округлённый вверх
//
// Округление всегда вверх: лучше чуть более жёсткий почасовой план,
// чем занижение доступной мощности.
func ComputeParameters(workingMinutes, plannedQuantity int, wp *storage.Workplace, blankType string) (Parameters, error) {
	const op = "service.blank.ComputeParameters"

	if plannedQuantity < 1 || workingMinutes <= 0 {
		return Parameters{}, fmt.Errorf("%s: план=%d, фонд=%d мин: %w",
			op, plannedQuantity, workingMinutes, storage.ErrInvalidBlankParameters)
	}

	taktTime := decimal.NewFromInt(int64(workingMinutes) * 60).
		Div(decimal.NewFromInt(int64(plannedQuantity)))

	productionRate := secondsPerHour.Div(taktTime)

	params := Parameters{
		TaktTime:       storage.Fixed(taktTime),
		ProductionRate: storage.Fixed(productionRate),
		HourlyPlan:     int(productionRate.Ceil().IntPart()),
	}

	if blankType == storage.BlankType2 && wp != nil {
		params.WorkplaceCapacity = wp.Capacity()
	}

	return params, nil
}
