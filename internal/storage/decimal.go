package storage

import "github.com/shopspring/decimal"

// Fixed2 — десятичное значение, которое всегда отображается с двумя
// знаками после запятой: "92.50", а не "92.5". shopspring обрезает
// хвостовые нули в String и MarshalJSON, а для процентов и нормативов
// нужна фиксированная точность.
type Fixed2 struct {
	decimal.Decimal
}

// Fixed округляет до двух знаков и фиксирует представление.
func Fixed(d decimal.Decimal) Fixed2 { return Fixed2{d.Round(2)} }

func (f Fixed2) String() string { return f.Decimal.StringFixed(2) }

func (f Fixed2) MarshalJSON() ([]byte, error) {
	return []byte(`"` + f.Decimal.StringFixed(2) + `"`), nil
}
