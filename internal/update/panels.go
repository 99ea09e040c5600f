package update

import (
	"slices"

	"github.com/sandeepkv93/focusflow/internal/commands"
	"github.com/sandeepkv93/focusflow/internal/model"
	"github.com/sandeepkv93/focusflow/internal/views"
)

// dashboardTasks are the active tasks due today or earlier, overdue first.
func dashboardTasks(all []model.Task, today model.Day) []model.Task {
	var overdue, due []model.Task
	for _, t := range all {
		if !t.IsActive() {
			continue
		}
		switch {
		case t.IsOverdue(today):
			overdue = append(overdue, t)
		case t.DueDate == today.String():
			due = append(due, t)
		}
	}
	return append(overdue, due...)
}

var boardColumns = []struct {
	title  string
	status model.Status
}{
	{"To Do", model.StatusTodo},
	{"In Progress", model.StatusInProgress},
	{"Completed", model.StatusCompleted},
}

// boardTasks groups tasks by status. Archived tasks only show up in the
// completed column.
func boardTasks(all []model.Task) [][]model.Task {
	out := make([][]model.Task, len(boardColumns))
	for _, t := range all {
		for i, col := range boardColumns {
			if t.Status != col.status {
				continue
			}
			if t.IsArchived && col.status != model.StatusCompleted {
				continue
			}
			out[i] = append(out[i], t)
		}
	}
	return out
}

func dayTasks(all []model.Task, day model.Day) []model.Task {
	var out []model.Task
	for _, t := range all {
		if !t.IsArchived && t.DueDate == day.String() {
			out = append(out, t)
		}
	}
	return out
}

func archivedTasks(all []model.Task) []model.Task {
	var out []model.Task
	for _, t := range all {
		if t.IsArchived {
			out = append(out, t)
		}
	}
	return out
}

// visibleTasks is the cursor order of the current view.
func (m Model) visibleTasks() []model.Task {
	switch m.CurrentView {
	case ViewBoard:
		return slices.Concat(boardTasks(m.Tasks)...)
	case ViewCalendar:
		return dayTasks(m.Tasks, m.Calendar.Focus)
	case ViewArchive:
		return archivedTasks(m.Tasks)
	default:
		return dashboardTasks(m.Tasks, m.today())
	}
}

func (m Model) selectedTask() (model.Task, bool) {
	visible := m.visibleTasks()
	if m.Cursor < 0 || m.Cursor >= len(visible) {
		return model.Task{}, false
	}
	return visible[m.Cursor], true
}

func (m Model) selectedID() string {
	t, ok := m.selectedTask()
	if !ok {
		return ""
	}
	return t.ID
}

func (m *Model) clampCursor() {
	n := len(m.visibleTasks())
	if m.Cursor >= n {
		m.Cursor = n - 1
	}
	if m.Cursor < 0 {
		m.Cursor = 0
	}
}

func (m *Model) moveCursor(delta int) {
	m.Cursor += delta
	m.clampCursor()
}

func (m Model) today() model.Day {
	return model.DayOf(m.now())
}

func (m Model) taskRow(t model.Task) views.TaskRowData {
	row := views.TaskRowData{
		ID:       t.ID,
		ShortID:  commands.ShortID(t.ID),
		Title:    t.Title,
		Status:   string(t.Status),
		Category: t.CategoryLabel(),
		DueDate:  t.DueDate,
		Overdue:  t.IsOverdue(m.today()),
		Auto:     t.Source != nil && *t.Source == model.SourceAuto,
	}
	if t.ReminderTime != nil {
		row.Reminder = *t.ReminderTime
	}
	if step, ok := t.CurrentStep(); ok {
		row.NextStep = step
	}
	return row
}

func (m Model) taskRows(tasks []model.Task) []views.TaskRowData {
	rows := make([]views.TaskRowData, 0, len(tasks))
	for _, t := range tasks {
		rows = append(rows, m.taskRow(t))
	}
	return rows
}

func (m Model) renderDashboardView() string {
	today := m.today()
	completed := 0
	for _, t := range m.Tasks {
		if t.Status == model.StatusCompleted && t.ArchivedAt != nil && model.DayOf(t.ArchivedAt.Time()) == today {
			completed++
		}
	}
	return views.RenderDashboardPanel(views.DashboardPanelData{
		Today:          today.String(),
		Items:          m.taskRows(dashboardTasks(m.Tasks, today)),
		SelectedID:     m.selectedID(),
		CompletedToday: completed,
	})
}

func (m Model) renderBoardView() string {
	groups := boardTasks(m.Tasks)
	cols := make([]views.BoardColumnData, 0, len(groups))
	for i, g := range groups {
		cols = append(cols, views.BoardColumnData{Title: boardColumns[i].title, Items: m.taskRows(g)})
	}
	return views.RenderBoardPanel(views.BoardPanelData{Columns: cols, SelectedID: m.selectedID()})
}

func (m Model) renderCalendarView() string {
	return views.RenderCalendarPanel(views.CalendarPanelData{
		Month:      monthTitle(m.Calendar.Focus),
		Weeks:      monthGrid(m.Calendar.Focus, m.today(), m.Tasks),
		FocusDate:  m.Calendar.Focus.String(),
		Items:      m.taskRows(dayTasks(m.Tasks, m.Calendar.Focus)),
		SelectedID: m.selectedID(),
	})
}

func (m Model) renderArchiveView() string {
	now := m.now()
	archived := archivedTasks(m.Tasks)
	rows := make([]views.ArchiveRowData, 0, len(archived))
	for _, t := range archived {
		row := views.ArchiveRowData{
			TaskRowData: m.taskRow(t),
			Permanent:   t.IsPermanent,
			DaysLeft:    t.DaysUntilExpiry(now, model.ArchiveRetention),
		}
		if t.ArchivedAt != nil {
			row.ArchivedOn = model.DayOf(t.ArchivedAt.Time()).String()
		}
		rows = append(rows, row)
	}
	return views.RenderArchivePanel(views.ArchivePanelData{Items: rows, SelectedID: m.selectedID()})
}

func (m Model) renderDetailPane() string {
	t, ok := m.selectedTask()
	if !ok {
		return views.RenderDetailPanel(views.DetailPanelData{})
	}
	row := m.taskRow(t)
	source := string(model.SourceManual)
	if t.Source != nil {
		source = string(*t.Source)
	}
	return views.RenderDetailPanel(views.DetailPanelData{
		Task:        &row,
		Description: t.Description,
		Steps:       t.NextSteps,
		Source:      source,
	})
}

func (m Model) renderNotificationsView() string {
	items := m.session.Sink.Items()
	data := make([]views.NotificationData, 0, len(items))
	for _, n := range items {
		data = append(data, views.NotificationData{
			Kind:    string(n.Kind),
			Message: n.Message,
			At:      n.At.Format("15:04"),
		})
	}
	return views.RenderNotifications(data)
}
