package domain

import (
	"fmt"
	"strings"
	"time"
)

// Day identifies one of the seven board columns.
// Days are ordered Monday first, which is also the column order on the board.
type Day int

const (
	Monday Day = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

// DayCount is the number of day columns on a board.
const DayCount = 7

var dayNames = [DayCount]string{
	"Monday",
	"Tuesday",
	"Wednesday",
	"Thursday",
	"Friday",
	"Saturday",
	"Sunday",
}

// AllDays returns every day in week order.
func AllDays() []Day {
	return []Day{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}
}

// String returns the canonical day name ("Monday").
func (d Day) String() string {
	if !d.IsValid() {
		return fmt.Sprintf("Day(%d)", int(d))
	}
	return dayNames[d]
}

// Short returns the three-letter abbreviation ("Mon").
func (d Day) Short() string {
	if !d.IsValid() {
		return "???"
	}
	return dayNames[d][:3]
}

// IsValid reports whether d is one of the seven days.
func (d Day) IsValid() bool {
	return d >= Monday && d <= Sunday
}

// IsWeekend reports whether d is Saturday or Sunday.
func (d Day) IsWeekend() bool {
	return d == Saturday || d == Sunday
}

// Next returns the following day, wrapping from Sunday to Monday.
func (d Day) Next() Day {
	return Day((int(d) + 1) % DayCount)
}

// Prev returns the preceding day, wrapping from Monday to Sunday.
func (d Day) Prev() Day {
	return Day((int(d) + DayCount - 1) % DayCount)
}

// ParseDay parses a day name. Full names and three-letter abbreviations are
// accepted case-insensitively.
func ParseDay(s string) (Day, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	if v == "" {
		return 0, fmt.Errorf("%w: empty", ErrInvalidDay)
	}
	for i, name := range dayNames {
		lower := strings.ToLower(name)
		if v == lower || v == lower[:3] {
			return Day(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidDay, s)
}

// DayFromName returns the day whose canonical name is exactly name.
// It is used by the document codec, where keys are case-sensitive.
func DayFromName(name string) (Day, bool) {
	for i, n := range dayNames {
		if n == name {
			return Day(i), true
		}
	}
	return 0, false
}

// DayOf returns the board day of t's weekday.
func DayOf(t time.Time) Day {
	return Day((int(t.Weekday()) + 6) % DayCount)
}
