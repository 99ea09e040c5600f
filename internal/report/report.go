package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/sandeepkv93/focusflow/internal/model"
)

// Entry is one line of the daily report.
type Entry struct {
	ID       string
	Title    string
	Category string
	NextStep string
}

// Daily lists what was finished on a day and what is still open.
type Daily struct {
	Day       model.Day
	Completed []Entry
	Pending   []Entry
}

// Build collects tasks completed on day (judged by archivedAt in loc) and
// every task that is neither completed nor archived.
func Build(tasks []model.Task, day model.Day, loc *time.Location) Daily {
	if loc == nil {
		loc = time.Local
	}
	d := Daily{Day: day}
	for _, t := range tasks {
		switch {
		case t.Status == model.StatusCompleted:
			if t.ArchivedAt != nil && model.DayOf(t.ArchivedAt.Time().In(loc)) == day {
				d.Completed = append(d.Completed, entryOf(t))
			}
		case !t.IsArchived:
			d.Pending = append(d.Pending, entryOf(t))
		}
	}
	return d
}

func entryOf(t model.Task) Entry {
	step, _ := t.CurrentStep()
	return Entry{ID: t.ID, Title: t.Title, Category: t.CategoryLabel(), NextStep: step}
}

// Text renders the plain report meant for the clipboard.
func (d Daily) Text() string {
	var b strings.Builder
	fmt.Fprintf(&b, "📅 Daily Report - %s\n\n", d.Day)

	b.WriteString("✅ Completed Today:\n")
	if len(d.Completed) == 0 {
		b.WriteString("  - None\n")
	}
	for _, e := range d.Completed {
		fmt.Fprintf(&b, "  - [%s] %s\n", e.Category, e.Title)
	}

	b.WriteString("\n🚧 Pending / In Progress:\n")
	if len(d.Pending) == 0 {
		b.WriteString("  - None\n")
	}
	for _, e := range d.Pending {
		fmt.Fprintf(&b, "  - [%s] %s%s\n", e.Category, e.Title, nextSuffix(e))
	}
	return b.String()
}

// Markdown renders the same content for the terminal renderer.
func (d Daily) Markdown() string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Daily Report: %s\n\n", d.Day)

	b.WriteString("## ✅ Completed Today\n\n")
	writeMarkdownList(&b, d.Completed, false)

	b.WriteString("\n## 🚧 Pending / In Progress\n\n")
	writeMarkdownList(&b, d.Pending, true)
	return b.String()
}

func writeMarkdownList(b *strings.Builder, entries []Entry, withNext bool) {
	if len(entries) == 0 {
		b.WriteString("- None\n")
		return
	}
	for _, e := range entries {
		line := fmt.Sprintf("- `%s` %s", e.Category, e.Title)
		if withNext && e.NextStep != "" {
			line += fmt.Sprintf(" _(Next: %s)_", e.NextStep)
		}
		b.WriteString(line + "\n")
	}
}

func nextSuffix(e Entry) string {
	if e.NextStep == "" {
		return ""
	}
	return fmt.Sprintf(" (Next: %s)", e.NextStep)
}
