package blank

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/AcryCxde/shift-report/internal/storage"
)

// GenerateRecords разбивает фонд рабочего времени смены на часовые
// интервалы и строит почасовые записи бланка. Полные часы получают
// часовой план, неполный последний интервал — пропорциональную долю,
// округлённую вверх. Из-за округлений сумма плана по часам может
// немного превышать сменный план — это принятое поведение, запас
// в сторону более жёсткого плана, а не дефект.
func GenerateRecords(sh *storage.Shift, workingMinutes, hourlyPlan int) ([]*storage.Record, error) {
	const op = "service.blank.GenerateRecords"

	start, err := parseClock(sh.StartTime)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	workingHours := workingMinutes / 60
	remainder := workingMinutes % 60

	var records []*storage.Record
	current := start
	cumulativePlan := 0

	for hourNumber := 1; hourNumber <= workingHours+1; hourNumber++ {
		var intervalMinutes, plan int

		switch {
		case hourNumber <= workingHours:
			intervalMinutes = 60
			plan = hourlyPlan
		case remainder > 0:
			intervalMinutes = remainder
			plan = prorate(hourlyPlan, remainder)
		default:
			return records, nil
		}

		cumulativePlan += plan

		records = append(records, &storage.Record{
			HourNumber:      hourNumber,
			StartTime:       formatClock(current),
			EndTime:         formatClock(current + intervalMinutes),
			PlannedQuantity: plan,
			CumulativePlan:  cumulativePlan,
		})

		current += intervalMinutes
	}

	return records, nil
}

// prorate — план неполного часа: hourlyPlan * minutes / 60,
// округление вверх.
func prorate(hourlyPlan, minutes int) int {
	p := decimal.NewFromInt(int64(hourlyPlan)).
		Mul(decimal.NewFromInt(int64(minutes))).
		Div(decimal.NewFromInt(60))
	return int(p.Ceil().IntPart())
}
