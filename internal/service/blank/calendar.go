package blank

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/AcryCxde/shift-report/internal/storage"
)

const minutesPerDay = 24 * 60

// parseClock разбирает время суток "HH:MM" (секунды, если есть,
// отбрасываются) в минуты от полуночи.
func parseClock(s string) (int, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, fmt.Errorf("некорректное время %q", s)
	}

	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("некорректное время %q", s)
	}

	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("некорректное время %q", s)
	}

	return h*60 + m, nil
}

func formatClock(minutes int) string {
	minutes %= minutesPerDay
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// DurationMinutes — продолжительность смены в минутах.
// Если окончание не позже начала, смена переходит через полночь.
func DurationMinutes(sh *storage.Shift) (int, error) {
	const op = "service.blank.DurationMinutes"

	start, err := parseClock(sh.StartTime)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	end, err := parseClock(sh.EndTime)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	if end <= start {
		end += minutesPerDay
	}

	return end - start, nil
}

// WorkingTimeMinutes — фонд рабочего времени смены:
// продолжительность минус все перерывы. Если перерывы съедают смену
// целиком, возвращает ErrInvalidShiftConfig.
func WorkingTimeMinutes(sh *storage.Shift) (int, error) {
	const op = "service.blank.WorkingTimeMinutes"

	duration, err := DurationMinutes(sh)
	if err != nil {
		return 0, err
	}

	working := duration - sh.TotalBreaks()
	if working <= 0 {
		return 0, fmt.Errorf("%s: смена %d: %w", op, sh.Number, storage.ErrInvalidShiftConfig)
	}

	return working, nil
}
