package views

import (
	"fmt"
	"strings"
)

type TaskRowData struct {
	ID       string
	ShortID  string
	Title    string
	Status   string
	Category string
	DueDate  string
	Reminder string
	NextStep string
	Overdue  bool
	Auto     bool
}

type DashboardPanelData struct {
	Today          string
	Items          []TaskRowData
	SelectedID     string
	CompletedToday int
}

type BoardColumnData struct {
	Title string
	Items []TaskRowData
}

type BoardPanelData struct {
	Columns    []BoardColumnData
	SelectedID string
}

type CalendarDayData struct {
	Day     int
	Count   int
	IsToday bool
	Focused bool
}

type CalendarPanelData struct {
	Month      string
	Weeks      [][]CalendarDayData
	FocusDate  string
	Items      []TaskRowData
	SelectedID string
}

type ArchiveRowData struct {
	TaskRowData
	ArchivedOn string
	Permanent  bool
	DaysLeft   int
}

type ArchivePanelData struct {
	Items      []ArchiveRowData
	SelectedID string
}

type DetailPanelData struct {
	Task        *TaskRowData
	Description string
	Steps       []string
	Source      string
}

type NotificationData struct {
	Kind    string
	Message string
	At      string
}

type HelpPanelData struct {
	CurrentView string
	Bindings    []string
	HelpView    string
}

func RenderDashboardPanel(data DashboardPanelData) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("dashboard: %s\n", data.Today))
	b.WriteString(fmt.Sprintf("open: %d | completed today: %d\n", len(data.Items), data.CompletedToday))
	b.WriteString("actions: [j/k]move [s]start [t]todo [d]done [x]delete\n")
	if len(data.Items) == 0 {
		b.WriteString("\n(nothing due, enjoy the calm)")
		return b.String()
	}

	var overdue, today []TaskRowData
	for _, item := range data.Items {
		if item.Overdue {
			overdue = append(overdue, item)
		} else {
			today = append(today, item)
		}
	}
	renderTaskSection(&b, "Overdue", overdue, data.SelectedID)
	renderTaskSection(&b, "Today", today, data.SelectedID)
	return strings.TrimSpace(b.String())
}

func RenderBoardPanel(data BoardPanelData) string {
	var b strings.Builder
	b.WriteString("board:\n")
	b.WriteString("actions: [j/k]move [s]start [t]todo [d]done\n")
	for _, col := range data.Columns {
		b.WriteString(fmt.Sprintf("\n%s (%d):\n", col.Title, len(col.Items)))
		if len(col.Items) == 0 {
			b.WriteString("  -\n")
			continue
		}
		for _, item := range col.Items {
			b.WriteString(taskLine(item, data.SelectedID) + "\n")
		}
	}
	return strings.TrimSpace(b.String())
}

func RenderCalendarPanel(data CalendarPanelData) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("calendar: %s\n", data.Month))
	b.WriteString("actions: [h/l]day [H/L]week [[/]]month [j/k]task\n\n")
	b.WriteString(" Mo  Tu  We  Th  Fr  Sa  Su\n")
	for _, week := range data.Weeks {
		for _, d := range week {
			b.WriteString(calendarCell(d))
		}
		b.WriteString("\n")
	}

	b.WriteString(fmt.Sprintf("\n%s:\n", data.FocusDate))
	if len(data.Items) == 0 {
		b.WriteString("(no tasks)")
		return b.String()
	}
	for _, item := range data.Items {
		b.WriteString(taskLine(item, data.SelectedID) + "\n")
	}
	return strings.TrimSpace(b.String())
}

func calendarCell(d CalendarDayData) string {
	if d.Day == 0 {
		return "    "
	}
	mark := " "
	switch {
	case d.Focused:
		mark = ">"
	case d.IsToday:
		mark = "*"
	}
	if d.Count > 0 {
		return fmt.Sprintf("%s%2d%s", mark, d.Day, countMark(d.Count))
	}
	return fmt.Sprintf("%s%2d ", mark, d.Day)
}

func countMark(n int) string {
	if n > 9 {
		return "+"
	}
	return fmt.Sprintf("%d", n)
}

func RenderArchivePanel(data ArchivePanelData) string {
	var b strings.Builder
	b.WriteString("archive:\n")
	b.WriteString("actions: [j/k]move [r]restore [p]keep/unkeep [x]delete\n")
	if len(data.Items) == 0 {
		b.WriteString("\n(archive is empty, get some work done)")
		return b.String()
	}
	b.WriteString("\n")
	for _, item := range data.Items {
		cursor := " "
		if item.ID == data.SelectedID {
			cursor = ">"
		}
		b.WriteString(fmt.Sprintf("%s ✓ %s [%s] completed %s\n", cursor, item.Title, item.ShortID, item.ArchivedOn))
		if item.Permanent {
			b.WriteString("    kept forever\n")
		} else {
			b.WriteString(fmt.Sprintf("    will auto-clear in %d days\n", item.DaysLeft))
		}
	}
	return strings.TrimSpace(b.String())
}

func RenderDetailPanel(data DetailPanelData) string {
	if data.Task == nil {
		return "details:\n(no selection)"
	}
	t := data.Task
	var b strings.Builder
	b.WriteString("details:\n")
	b.WriteString(fmt.Sprintf("id: %s\n", t.ID))
	b.WriteString(fmt.Sprintf("title: %s\n", t.Title))
	b.WriteString(fmt.Sprintf("status: %s | %s | source: %s\n", t.Status, t.Category, data.Source))
	b.WriteString(fmt.Sprintf("due: %s", t.DueDate))
	if t.Reminder != "" {
		b.WriteString(" at " + t.Reminder)
	}
	b.WriteString("\n")
	if strings.TrimSpace(data.Description) != "" {
		b.WriteString("\n" + data.Description + "\n")
	}
	if len(data.Steps) > 0 {
		b.WriteString("\nnext steps:\n")
		for i, s := range data.Steps {
			b.WriteString(fmt.Sprintf("%d. %s\n", i+1, s))
		}
	}
	return strings.TrimSpace(b.String())
}

func RenderNotifications(items []NotificationData) string {
	if len(items) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("notifications: [n]dismiss newest\n")
	for _, n := range items {
		b.WriteString(fmt.Sprintf("%s [%s] %s\n", n.At, strings.ToUpper(n.Kind), n.Message))
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func RenderCommandPalette(active bool, input string) string {
	if !active {
		return ""
	}
	return fmt.Sprintf("command: %s", input)
}

func RenderHelpPanel(data HelpPanelData) string {
	return fmt.Sprintf("help:\nglobal:\n%s view:\n%s\n%s",
		strings.ToLower(data.CurrentView),
		strings.Join(data.Bindings, "\n"),
		data.HelpView,
	)
}

func renderTaskSection(b *strings.Builder, title string, items []TaskRowData, selectedID string) {
	b.WriteString(fmt.Sprintf("\n%s:\n", title))
	if len(items) == 0 {
		b.WriteString("  -\n")
		return
	}
	for _, item := range items {
		b.WriteString(taskLine(item, selectedID) + "\n")
	}
}

func taskLine(item TaskRowData, selectedID string) string {
	cursor := " "
	if item.ID == selectedID {
		cursor = ">"
	}
	line := fmt.Sprintf("%s [%s] %s (%s)", cursor, item.Category, item.Title, item.ShortID)
	if item.Auto {
		line += " ✨"
	}
	if item.Reminder != "" {
		line += " ⏰" + item.Reminder
	}
	if item.Overdue {
		line += " 📅 overdue: " + item.DueDate
	}
	if item.NextStep != "" {
		line += "\n    next: " + item.NextStep
	}
	return line
}
