// Package localtime конвертирует локальное настенное время (дата + "HH:MM" +
// IANA-зона) в абсолютный UTC-момент с учётом переходов на летнее/зимнее время.
package localtime

import (
	"fmt"
	"time"

	"github.com/v-gridnev/MH-BookingService/pkg/types"
)

// DisplayFormat формат отображения момента в зоне ментора (12-часовой циферблат).
// Дата включена, чтобы строку можно было распарсить обратно. Смещение зоны
// не включено, поэтому настенное время из повторяющегося часа осеннего
// перевода парсится в первое (раннее) вхождение - так же, как его выбирает
// ResolveWallClock.
const DisplayFormat = "2006-01-02 03:04 PM"

// ResolveWallClock возвращает UTC-момент, который при форматировании в зоне loc
// на дату (year, month, day) даёт настенное время wall.
//
// Переходы DST:
//   - осенний перевод назад (одно настенное время встречается дважды) —
//     выбирается первое (раннее) вхождение;
//   - весенний перевод вперёд (настенное время не существует) — возвращается
//     нормализованный момент после перехода (запрос "02:30" в день перехода
//     America/New_York даёт 03:30 EDT).
func ResolveWallClock(year int, month time.Month, day int, wall types.TimeString, loc *time.Location) time.Time {
	hour, minute := wall.Clock()

	t := time.Date(year, month, day, hour, minute, 0, 0, loc)

	// time.Date не гарантирует выбор вхождения при осеннем переводе.
	// Проверяем сдвиги назад на типичные величины перехода: если более ранний
	// момент даёт то же настенное время, берём его.
	for _, shift := range []time.Duration{-time.Hour, -30 * time.Minute} {
		if earlier := t.Add(shift); sameWallClock(earlier, year, month, day, hour, minute, loc) {
			t = earlier
			break
		}
	}

	return t.UTC()
}

// FormatDisplay форматирует UTC-момент в зоне loc по DisplayFormat
func FormatDisplay(instant time.Time, loc *time.Location) string {
	return instant.In(loc).Format(DisplayFormat)
}

// ParseDisplay разбирает строку DisplayFormat обратно в UTC-момент.
// Для настенного времени из повторяющегося часа осеннего перевода
// возвращается первое вхождение
func ParseDisplay(s string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(DisplayFormat, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("localtime: parse display time %q: %w", s, err)
	}
	return t.UTC(), nil
}

func sameWallClock(t time.Time, year int, month time.Month, day, hour, minute int, loc *time.Location) bool {
	lt := t.In(loc)
	y, m, d := lt.Date()
	return y == year && m == month && d == day && lt.Hour() == hour && lt.Minute() == minute
}
