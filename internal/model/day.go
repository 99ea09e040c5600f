package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrInvalidDay = errors.New("model: invalid calendar day")

const dayLayout = "2006-01-02"

// Day is a calendar day in the user's local time zone. It is the single
// representation used for due dates, reminder gating and the recap checkpoint.
type Day struct {
	Year  int
	Month time.Month
	Day   int
}

// DayOf returns the calendar day of t in t's own location.
func DayOf(t time.Time) Day {
	y, m, d := t.Date()
	return Day{Year: y, Month: m, Day: d}
}

func ParseDay(raw string) (Day, error) {
	trimmed := strings.TrimSpace(raw)
	tm, err := time.Parse(dayLayout, trimmed)
	if err != nil || tm.Format(dayLayout) != trimmed {
		return Day{}, fmt.Errorf("%w: %q", ErrInvalidDay, raw)
	}
	return DayOf(tm), nil
}

// String renders the zero-padded ISO form, which sorts lexicographically.
func (d Day) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

func (d Day) IsZero() bool {
	return d == Day{}
}

// Start is midnight of d in loc.
func (d Day) Start(loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

func (d Day) AddDays(n int) Day {
	return DayOf(d.Start(time.UTC).AddDate(0, 0, n))
}

func (d Day) Before(other Day) bool {
	return d.String() < other.String()
}
