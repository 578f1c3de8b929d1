package storage

// Shift — смена. Время начала/окончания хранится как "HH:MM",
// окончание может быть "раньше" начала — смена через полночь.
type Shift struct {
	ID        int64  `json:"id"`
	Number    int    `json:"number"`
	Name      string `json:"name"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`

	// Перерывы в минутах
	LunchBreak    int `json:"lunch_break"`
	PersonalBreak int `json:"personal_break"`
	HandoverBreak int `json:"handover_break"`
	OtherBreak    int `json:"other_break"`

	IsActive bool `json:"is_active"`
}

// TotalBreaks — сумма всех перерывов смены в минутах.
func (s *Shift) TotalBreaks() int {
	return s.LunchBreak + s.PersonalBreak + s.HandoverBreak + s.OtherBreak
}
