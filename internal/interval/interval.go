package interval

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/datatypes"
)

var (
	ErrInvalidSpan  = errors.New("start must be before end")
	ErrInvalidClock = errors.New("invalid time of day")
	ErrInvalidDate  = errors.New("invalid date")
)

const (
	DateLayout  = "2006-01-02"
	clockLayout = "15:04"
)

// Span — интервал времени суток [Start, End) внутри одного календарного дня.
type Span struct {
	Start datatypes.Time
	End   datatypes.Time
}

// NewSpan создаёт интервал и проверяет Start < End.
func NewSpan(start, end datatypes.Time) (Span, error) {
	s := Span{Start: start, End: end}
	if !s.Valid() {
		return Span{}, ErrInvalidSpan
	}
	return s, nil
}

func (s Span) Valid() bool {
	return s.Start < s.End
}

func (s Span) Equal(o Span) bool {
	return s.Start == o.Start && s.End == o.End
}

func (s Span) String() string {
	return FormatClock(s.Start) + "–" + FormatClock(s.End)
}

// BookingsOverlap — пересечение полуоткрытых интервалов.
// Касание концами (a.End == b.Start) пересечением не считается.
func BookingsOverlap(a, b Span) bool {
	return a.Start < b.End && b.Start < a.End
}

// AvailabilityTouches — пересечение с включёнными границами:
// соседние интервалы свободного времени тоже конфликтуют.
func AvailabilityTouches(a, b Span) bool {
	return a.Start <= b.End && b.Start <= a.End
}

// Covers сообщает, лежит ли inner целиком внутри outer.
func Covers(outer, inner Span) bool {
	return outer.Start <= inner.Start && outer.End >= inner.End
}

// Remainders возвращает остатки outer после вырезания inner:
// ведущий [outer.Start, inner.Start) и хвостовой [inner.End, outer.End).
// Пустые остатки возвращаются как nil. Ожидается Covers(outer, inner).
func Remainders(outer, inner Span) (leading, trailing *Span) {
	if outer.Start < inner.Start {
		leading = &Span{Start: outer.Start, End: inner.Start}
	}
	if outer.End > inner.End {
		trailing = &Span{Start: inner.End, End: outer.End}
	}
	return leading, trailing
}

// ===== Даты =====

// DateOf отбрасывает время и зону: календарная дата t как полночь UTC.
func DateOf(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// IsBusinessDay — понедельник–пятница.
func IsBusinessDay(d time.Time) bool {
	switch d.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	default:
		return true
	}
}

// Days возвращает все календарные даты отрезка [from, to] включительно.
// Если from позже to, результат пустой.
func Days(from, to time.Time) []time.Time {
	from, to = DateOf(from), DateOf(to)
	var days []time.Time
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// DaysInRange — количество календарных дней в [from, to]; 0, если from позже to.
func DaysInRange(from, to time.Time) int {
	from, to = DateOf(from), DateOf(to)
	if from.After(to) {
		return 0
	}
	return int(to.Sub(from).Hours()/24) + 1
}

func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return t, nil
}

// ===== Время суток =====

// ParseClock разбирает "15:04" или "15:04:05".
func ParseClock(s string) (datatypes.Time, error) {
	s = strings.TrimSpace(s)
	layout := clockLayout
	if strings.Count(s, ":") == 2 {
		layout = time.TimeOnly
	}
	t, err := time.Parse(layout, s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	return datatypes.NewTime(t.Hour(), t.Minute(), t.Second(), 0), nil
}

// Clock собирает время суток из часов и минут.
func Clock(hour, min int) datatypes.Time {
	return datatypes.NewTime(hour, min, 0, 0)
}

// FormatClock печатает время как "ЧЧ:ММ" (секунды добавляются, только если они есть).
func FormatClock(t datatypes.Time) string {
	d := time.Duration(t)
	h := d / time.Hour
	m := (d % time.Hour) / time.Minute
	sec := (d % time.Minute) / time.Second
	if sec != 0 {
		return fmt.Sprintf("%02d:%02d:%02d", h, m, sec)
	}
	return fmt.Sprintf("%02d:%02d", h, m)
}

// Format форматирует интервал для сообщений пользователю:
// "Monday, 10.11.2025, 10:00–11:00".
func Format(date time.Time, s Span) string {
	return fmt.Sprintf("%s, %s, %s", date.Weekday(), date.Format("02.01.2006"), s)
}
