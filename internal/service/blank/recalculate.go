package blank

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/AcryCxde/shift-report/internal/storage"
)

// RecalculateCumulatives переписывает накопительные показатели всех
// записей бланка. Записи должны быть упорядочены по номеру часа.
// Это всегда полный проход, а не инкрементальная дельта: исправление
// исторического часа должно каскадно обновить все последующие записи.
// Возвращает записи, у которых накопительные поля реально изменились.
func RecalculateCumulatives(records []*storage.Record) []*storage.Record {
	var changed []*storage.Record

	cumPlan := 0
	cumFact := 0

	for _, rec := range records {
		cumPlan += rec.PlannedQuantity
		cumFact += rec.ActualQuantity

		deviation := rec.ActualQuantity - rec.PlannedQuantity
		cumDeviation := cumFact - cumPlan

		if rec.CumulativePlan != cumPlan || rec.CumulativeFact != cumFact ||
			rec.CumulativeDeviation != cumDeviation || rec.Deviation != deviation {
			rec.CumulativePlan = cumPlan
			rec.CumulativeFact = cumFact
			rec.CumulativeDeviation = cumDeviation
			rec.Deviation = deviation
			changed = append(changed, rec)
		}
	}

	return changed
}

// RecalculateTotals пересчитывает итоговые показатели бланка по всем
// его записям. Вызывается после каждого изменения любой записи.
func RecalculateTotals(b *storage.Blank, records []*storage.Record) {
	b.TotalPlan = 0
	b.TotalFact = 0
	b.TotalDowntime = 0

	for _, rec := range records {
		b.TotalPlan += rec.PlannedQuantity
		b.TotalFact += rec.ActualQuantity
		b.TotalDowntime += rec.DowntimeMinutes
	}

	b.TotalDeviation = b.TotalFact - b.TotalPlan
	b.CompletionPercentage = percentage(b.TotalFact, b.TotalPlan)
}

// CurrentCompletionPercentage — процент выполнения на текущий момент:
// факт против плана только за уже завершившиеся часы, а не за всю
// смену. Для бланка не на сегодня возвращает сохранённый общий
// процент. Суммы считаются по самим записям, а не по накопительным
// полям, чтобы не зависеть от частично пересчитанного состояния.
func CurrentCompletionPercentage(b *storage.Blank, records []*storage.Record, now time.Time) storage.Fixed2 {
	if b.Date != now.Format("2006-01-02") {
		return b.CompletionPercentage
	}

	nowMinutes := now.Hour()*60 + now.Minute()

	plan := 0
	fact := 0
	for _, rec := range records {
		end, err := parseClock(rec.EndTime)
		if err != nil {
			continue
		}
		if end <= nowMinutes {
			plan += rec.PlannedQuantity
			fact += rec.ActualQuantity
		}
	}

	// Ещё не прошло ни одного часа
	if plan == 0 {
		return storage.Fixed2{}
	}

	return percentage(fact, plan)
}

// StatusColor — светофор по проценту выполнения.
func StatusColor(pct decimal.Decimal) string {
	switch {
	case pct.GreaterThanOrEqual(hundred):
		return "success"
	case pct.GreaterThanOrEqual(decimal.NewFromInt(90)):
		return "warning"
	default:
		return "danger"
	}
}

func percentage(fact, plan int) storage.Fixed2 {
	if plan <= 0 {
		return storage.Fixed2{}
	}
	return storage.Fixed(decimal.NewFromInt(int64(fact)).
		Div(decimal.NewFromInt(int64(plan))).
		Mul(hundred))
}
