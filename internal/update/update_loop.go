package update

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/focusflow/internal/commands"
	"github.com/sandeepkv93/focusflow/internal/model"
	"github.com/sandeepkv93/focusflow/internal/views"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.KeyMsg:
		if typed.String() == "ctrl+c" {
			m.Quitting = true
			return m, tea.Quit
		}
		if m.Modal.Kind != ModalNone {
			return m.handleModalKey(typed)
		}
		if m.Palette.Active {
			return m.handlePaletteKey(typed)
		}

		switch keyStr := typed.String(); keyStr {
		case "/":
			m.openPalette()
			return m, nil
		case m.Keys.Dashboard:
			return m.switchView(ViewDashboard), nil
		case m.Keys.Board:
			return m.switchView(ViewBoard), nil
		case m.Keys.Calendar:
			return m.switchView(ViewCalendar), nil
		case m.Keys.Archive:
			return m.switchView(ViewArchive), nil
		case m.Keys.Report:
			m.openReport()
			return m, nil
		case m.Keys.Help:
			m.HelpVisible = !m.HelpVisible
			if m.HelpVisible {
				m.Status = StatusBar{Text: "help shown"}
			} else {
				m.Status = StatusBar{Text: "help hidden"}
			}
			return m, nil
		case "n":
			if items := m.session.Sink.Items(); len(items) > 0 {
				m.session.Sink.Dismiss(items[0].ID)
			}
			return m, nil
		case m.Keys.Quit:
			m.Quitting = true
			return m, tea.Quit
		}
		return m.handleViewKey(typed)
	case spinner.TickMsg:
		if m.Busy {
			var cmd tea.Cmd
			m.busySpinner, cmd = m.busySpinner.Update(typed)
			return m, cmd
		}
	case ClearStatusMsg:
		if typed.Seq == m.statusSeq && !m.Busy {
			m.Status = StatusBar{}
		}
		return m, nil
	case TasksChangedMsg:
		m.Tasks = typed.Tasks
		m.clampCursor()
		return m, waitForTasksCmd(m.changes)
	case NotificationMsg:
		if typed.Item.Kind == model.NotificationReminder {
			m.Status = StatusBar{Text: typed.Item.Message}
		}
		return m, waitForNotificationCmd(m.session.Sink.C())
	case RecapMsg:
		body := fmt.Sprintf("_%d overdue task(s) on %s_\n\n%s", typed.Recap.Overdue, typed.Recap.Day, typed.Recap.Text)
		m.openModal(ModalState{Kind: ModalRecap, Title: "🌅 Daily Recap", Body: body})
		return m, waitForRecapCmd(m.session.Housekeeper.Recaps())
	case CommandResultMsg:
		m.Busy = false
		m.Tasks = m.session.Store.Snapshot()
		m.clampCursor()
		if typed.Err != nil {
			m.LastError = typed.Err
			m.Status = StatusBar{Text: typed.Err.Error(), IsError: true}
			return m, nil
		}
		m.Status = StatusBar{Text: typed.Result.Message}
		m.statusSeq++
		return m, clearStatusAfter(m.statusSeq)
	}

	return m, nil
}

func (m Model) switchView(v View) Model {
	if m.CurrentView != v {
		m.CurrentView = v
		m.Cursor = 0
	}
	if v == ViewCalendar && m.Calendar.Focus.IsZero() {
		m.Calendar.Focus = m.today()
	}
	return m
}

func (m Model) handleViewKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keyStr := msg.String()
	switch keyStr {
	case "j", "down":
		m.moveCursor(1)
		return m, nil
	case "k", "up":
		m.moveCursor(-1)
		return m, nil
	}

	if m.CurrentView == ViewCalendar {
		switch keyStr {
		case "h", "left":
			m.shiftCalendarDays(-1)
			return m, nil
		case "l", "right":
			m.shiftCalendarDays(1)
			return m, nil
		case "H":
			m.shiftCalendarDays(-7)
			return m, nil
		case "L":
			m.shiftCalendarDays(7)
			return m, nil
		case "[":
			m.shiftCalendarMonths(-1)
			return m, nil
		case "]":
			m.shiftCalendarMonths(1)
			return m, nil
		case "g":
			m.Calendar.Focus = m.today()
			m.Cursor = 0
			return m, nil
		}
	}

	t, ok := m.selectedTask()
	if !ok {
		return m, nil
	}
	var line string
	switch keyStr {
	case "s":
		line = "start"
	case "t":
		line = "todo"
	case "d":
		line = "done"
	case "x":
		m.openModal(ModalState{
			Kind:    ModalConfirm,
			Title:   "Delete task",
			Body:    fmt.Sprintf("Are you sure you want to permanently delete **%s**?", t.Title),
			Confirm: "rm " + t.ID,
		})
		return m, nil
	case "r":
		if m.CurrentView == ViewArchive {
			line = "restore"
		}
	case "p":
		if m.CurrentView == ViewArchive {
			line = "keep"
			if t.IsPermanent {
				line = "unkeep"
			}
		}
	}
	if line == "" {
		return m, nil
	}
	return m.runCommandLine(line + " " + t.ID)
}

func (m Model) View() string {
	status := ""
	if m.Status.Text != "" {
		if m.Status.IsError {
			status = fmt.Sprintf("status: error: %s", m.Status.Text)
		} else {
			status = fmt.Sprintf("status: %s", m.Status.Text)
		}
	}
	if m.Busy {
		status = strings.TrimSpace(m.busySpinner.View() + " " + status)
	}

	leftPane := ""
	switch m.CurrentView {
	case ViewBoard:
		leftPane = m.renderBoardView()
	case ViewCalendar:
		leftPane = m.renderCalendarView()
	case ViewArchive:
		leftPane = m.renderArchiveView()
	default:
		leftPane = m.renderDashboardView()
	}
	rightPane := m.renderDetailPane() + m.renderHelpIfVisible()

	notificationView := m.renderNotificationsView()
	if palette := views.RenderCommandPalette(m.Palette.Active, m.commandInput.View()); palette != "" {
		notificationView = strings.TrimSpace(palette + "\n" + notificationView)
	}

	selected := m.selectedID()
	if selected != "" {
		selected = commands.ShortID(selected)
	}
	return views.RenderApp(views.AppData{
		Header:       fmt.Sprintf("FocusFlow | %s | today: %s | selected: %s", m.CurrentView, m.today(), selected),
		Tabs:         m.renderTabs(),
		LeftPane:     leftPane,
		RightPane:    rightPane,
		StatusLine:   status,
		StatusError:  m.Status.IsError,
		Notification: notificationView,
		Modal:        m.renderModal(),
		Footer: fmt.Sprintf("keys: %s dash | %s board | %s cal | %s archive | / cmd | %s report | %s help | %s quit",
			m.Keys.Dashboard, m.Keys.Board, m.Keys.Calendar, m.Keys.Archive, m.Keys.Report, m.Keys.Help, m.Keys.Quit),
	})
}

func (m Model) renderTabs() string {
	tabs := []struct {
		key  string
		view View
	}{
		{m.Keys.Dashboard, ViewDashboard},
		{m.Keys.Board, ViewBoard},
		{m.Keys.Calendar, ViewCalendar},
		{m.Keys.Archive, ViewArchive},
	}
	parts := make([]string, 0, len(tabs))
	for _, t := range tabs {
		label := fmt.Sprintf("%s %s", t.key, t.view)
		if t.view == m.CurrentView {
			label = "[" + label + "]"
		}
		parts = append(parts, label)
	}
	return strings.Join(parts, "  ")
}
