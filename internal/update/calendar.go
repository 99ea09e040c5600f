package update

import (
	"time"

	"github.com/sandeepkv93/focusflow/internal/model"
	"github.com/sandeepkv93/focusflow/internal/views"
)

func (m *Model) shiftCalendarDays(delta int) {
	m.Calendar.Focus = m.Calendar.Focus.AddDays(delta)
	m.Cursor = 0
}

// shiftCalendarMonths moves to the same day of another month, clamped to
// that month's length.
func (m *Model) shiftCalendarMonths(delta int) {
	f := m.Calendar.Focus
	first := time.Date(f.Year, f.Month+time.Month(delta), 1, 0, 0, 0, 0, time.Local)
	last := first.AddDate(0, 1, -1).Day()
	m.Calendar.Focus = model.Day{Year: first.Year(), Month: first.Month(), Day: min(f.Day, last)}
	m.Cursor = 0
}

func monthTitle(d model.Day) string {
	return d.Start(time.Local).Format("January 2006")
}

// monthGrid lays the focused month out in Monday-first weeks. Blank cells
// have Day zero.
func monthGrid(focus, today model.Day, tasks []model.Task) [][]views.CalendarDayData {
	counts := make(map[string]int)
	for _, t := range tasks {
		if !t.IsArchived {
			counts[t.DueDate]++
		}
	}

	first := time.Date(focus.Year, focus.Month, 1, 0, 0, 0, 0, time.Local)
	days := first.AddDate(0, 1, -1).Day()
	lead := (int(first.Weekday()) + 6) % 7

	var weeks [][]views.CalendarDayData
	week := make([]views.CalendarDayData, lead, 7)
	for d := 1; d <= days; d++ {
		day := model.Day{Year: focus.Year, Month: focus.Month, Day: d}
		week = append(week, views.CalendarDayData{
			Day:     d,
			Count:   counts[day.String()],
			IsToday: day == today,
			Focused: day == focus,
		})
		if len(week) == 7 {
			weeks = append(weeks, week)
			week = make([]views.CalendarDayData, 0, 7)
		}
	}
	if len(week) > 0 {
		weeks = append(weeks, append(week, make([]views.CalendarDayData, 7-len(week))...))
	}
	return weeks
}
