package storage

import "errors"

var (
	ErrNotFound = errors.New("запись не найдена")

	// Один бланк на (РМ, дата, смена)
	ErrDuplicateBlank = errors.New("бланк для этого рабочего места, даты и смены уже существует")

	// Перерывы съедают всю смену или больше
	ErrInvalidShiftConfig = errors.New("некорректная конфигурация смены: фонд рабочего времени <= 0")

	ErrInvalidBlankParameters = errors.New("некорректные параметры бланка")

	// Запись на завершённом или отменённом бланке
	ErrBlankNotEditable = errors.New("бланк недоступен для редактирования")
)
