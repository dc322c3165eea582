package interval

import (
	"strings"
	"testing"
	"time"
)

func span(h1, m1, h2, m2 int) Span {
	return Span{Start: Clock(h1, m1), End: Clock(h2, m2)}
}

func mustDate(t *testing.T, year int, month time.Month, day int) time.Time {
	t.Helper()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

//
// Предикаты пересечения
//

func TestBookingsOverlap(t *testing.T) {
	cases := []struct {
		name string
		a, b Span
		want bool
	}{
		{"disjoint", span(9, 0, 10, 0), span(11, 0, 12, 0), false},
		{"touching", span(9, 0, 10, 0), span(10, 0, 11, 0), false},
		{"touching reversed", span(10, 0, 11, 0), span(9, 0, 10, 0), false},
		{"partial", span(9, 0, 10, 30), span(10, 0, 11, 0), true},
		{"contained", span(9, 0, 13, 0), span(10, 0, 11, 0), true},
		{"equal", span(10, 0, 11, 0), span(10, 0, 11, 0), true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := BookingsOverlap(tc.a, tc.b); got != tc.want {
				t.Fatalf("BookingsOverlap(%v, %v) = %v, want %v", tc.a, tc.b, got, tc.want)
			}
		})
	}
}

func TestAvailabilityTouches(t *testing.T) {
	if !AvailabilityTouches(span(9, 0, 10, 0), span(10, 0, 11, 0)) {
		t.Fatalf("expected touching intervals to conflict")
	}
	if AvailabilityTouches(span(9, 0, 10, 0), span(10, 1, 11, 0)) {
		t.Fatalf("expected separated intervals not to conflict")
	}
}

func TestCovers(t *testing.T) {
	outer := span(9, 0, 13, 0)
	if !Covers(outer, span(9, 0, 13, 0)) {
		t.Fatalf("expected exact match to be covered")
	}
	if !Covers(outer, span(10, 0, 11, 0)) {
		t.Fatalf("expected inner span to be covered")
	}
	if Covers(outer, span(12, 0, 14, 0)) {
		t.Fatalf("expected span crossing the end not to be covered")
	}
}

//
// Остатки после вырезания
//

func TestRemainders(t *testing.T) {
	lead, trail := Remainders(span(9, 0, 13, 0), span(10, 0, 11, 0))
	if lead == nil || !lead.Equal(span(9, 0, 10, 0)) {
		t.Fatalf("leading = %v, want 09:00–10:00", lead)
	}
	if trail == nil || !trail.Equal(span(11, 0, 13, 0)) {
		t.Fatalf("trailing = %v, want 11:00–13:00", trail)
	}

	lead, trail = Remainders(span(9, 0, 13, 0), span(9, 0, 13, 0))
	if lead != nil || trail != nil {
		t.Fatalf("exact match must leave no remainders, got %v / %v", lead, trail)
	}
}

func TestNewSpan_Invalid(t *testing.T) {
	if _, err := NewSpan(Clock(10, 0), Clock(10, 0)); err != ErrInvalidSpan {
		t.Fatalf("expected ErrInvalidSpan for equal bounds, got %v", err)
	}
	if _, err := NewSpan(Clock(11, 0), Clock(10, 0)); err != ErrInvalidSpan {
		t.Fatalf("expected ErrInvalidSpan for inverted bounds, got %v", err)
	}
}

//
// Даты
//

func TestDays_BusinessFilter(t *testing.T) {
	// 2025-11-07 — пятница, 2025-11-10 — понедельник.
	days := Days(mustDate(t, 2025, 11, 7), mustDate(t, 2025, 11, 10))
	if len(days) != 4 {
		t.Fatalf("expected 4 days, got %d", len(days))
	}
	var business int
	for _, d := range days {
		if IsBusinessDay(d) {
			business++
		}
	}
	if business != 2 {
		t.Fatalf("expected 2 business days, got %d", business)
	}
}

func TestDays_Reversed(t *testing.T) {
	if days := Days(mustDate(t, 2025, 11, 10), mustDate(t, 2025, 11, 7)); len(days) != 0 {
		t.Fatalf("expected no days, got %d", len(days))
	}
	if n := DaysInRange(mustDate(t, 2025, 11, 10), mustDate(t, 2025, 11, 7)); n != 0 {
		t.Fatalf("expected 0, got %d", n)
	}
	if n := DaysInRange(mustDate(t, 2025, 1, 1), mustDate(t, 2025, 12, 31)); n != 365 {
		t.Fatalf("expected 365, got %d", n)
	}
}

func TestDateOf_DropsClockAndZone(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*3600)
	d := DateOf(time.Date(2025, 11, 10, 23, 30, 0, 0, loc))
	if !d.Equal(mustDate(t, 2025, 11, 10)) {
		t.Fatalf("DateOf = %v, want 2025-11-10 UTC", d)
	}
}

//
// Время суток
//

func TestParseClock(t *testing.T) {
	c, err := ParseClock("09:30")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c != Clock(9, 30) {
		t.Fatalf("ParseClock = %v, want 09:30", FormatClock(c))
	}

	c, err = ParseClock("13:00:15")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if FormatClock(c) != "13:00:15" {
		t.Fatalf("FormatClock = %q", FormatClock(c))
	}

	if _, err := ParseClock("25:00"); err == nil {
		t.Fatalf("expected error for 25:00")
	}
	if _, err := ParseClock(""); err == nil {
		t.Fatalf("expected error for empty clock")
	}
}

func TestFormat(t *testing.T) {
	s := Format(mustDate(t, 2025, 11, 10), span(10, 0, 11, 0))
	for _, part := range []string{"Monday", "10.11.2025", "10:00", "11:00"} {
		if !strings.Contains(s, part) {
			t.Fatalf("unexpected format %q, missing %q", s, part)
		}
	}
}
