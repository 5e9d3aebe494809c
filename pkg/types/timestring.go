package types

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrInvalidFormat возвращается при некорректном формате строки времени
	ErrInvalidFormat = errors.New("invalid time string format, expected HH:MM")

	// ErrOutOfRange возвращается, когда результат операции выходит за пределы суток
	ErrOutOfRange = errors.New("time value out of range")
)

// TimeString локальное время внутри суток в формате "HH:MM" (например, "09:30").
// Значение "24:00" допустимо как конец диапазона.
type TimeString string

// NewTimeString создает TimeString из time.Time (берёт только часы и минуты)
func NewTimeString(t time.Time) TimeString {
	return TimeString(fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute()))
}

// NewTimeStringFromString создает TimeString из строки с валидацией
func NewTimeStringFromString(s string) (TimeString, error) {
	ts := TimeString(s)
	if err := ts.Validate(); err != nil {
		return "", err
	}
	return ts, nil
}

// Validate проверяет формат "HH:MM"
func (t TimeString) Validate() error {
	if len(t) != 5 || t[2] != ':' {
		return ErrInvalidFormat
	}

	h, m, ok := t.clock()
	if !ok {
		return ErrInvalidFormat
	}

	// "24:00" разрешаем как границу конца диапазона
	if h == 24 && m == 0 {
		return nil
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return ErrInvalidFormat
	}

	return nil
}

// IsZero возвращает true для пустого значения
func (t TimeString) IsZero() bool {
	return t == ""
}

// String возвращает строковое представление
func (t TimeString) String() string {
	return string(t)
}

// Clock возвращает часы и минуты
func (t TimeString) Clock() (hour, minute int) {
	h, m, _ := t.clock()
	return h, m
}

// Minutes возвращает количество минут с начала суток
func (t TimeString) Minutes() int {
	h, m, _ := t.clock()
	return h*60 + m
}

// AddMinutes возвращает время, сдвинутое на minutes минут вперёд.
// Выход за пределы "24:00" считается ошибкой.
func (t TimeString) AddMinutes(minutes int) (TimeString, error) {
	total := t.Minutes() + minutes
	if total < 0 || total > 24*60 {
		return "", fmt.Errorf("%w: %s + %d min", ErrOutOfRange, t, minutes)
	}
	return TimeString(fmt.Sprintf("%02d:%02d", total/60, total%60)), nil
}

// IsBefore возвращает true, если t строго раньше other
func (t TimeString) IsBefore(other TimeString) bool {
	return t.Minutes() < other.Minutes()
}

// IsAfter возвращает true, если t строго позже other
func (t TimeString) IsAfter(other TimeString) bool {
	return t.Minutes() > other.Minutes()
}

func (t TimeString) clock() (hour, minute int, ok bool) {
	// Ровно "HH:MM" из цифр: Sscanf здесь не годится, он молча
	// пропускает пробелы и хвостовой мусор
	if len(t) != 5 || t[2] != ':' {
		return 0, 0, false
	}
	for _, i := range [...]int{0, 1, 3, 4} {
		if t[i] < '0' || t[i] > '9' {
			return 0, 0, false
		}
	}
	h := int(t[0]-'0')*10 + int(t[1]-'0')
	m := int(t[3]-'0')*10 + int(t[4]-'0')
	return h, m, true
}
