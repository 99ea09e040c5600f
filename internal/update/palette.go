package update

import (
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/focusflow/internal/commands"
	"github.com/sandeepkv93/focusflow/internal/views"
)

func (m Model) handlePaletteKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.closePalette()
		m.Status = StatusBar{Text: "command palette closed"}
		return m, nil
	case "enter":
		m.Palette.Input = m.commandInput.Value()
		line := m.Palette.Input
		m.closePalette()
		return m.runCommandLine(line)
	default:
		if msg.Type == tea.KeyRunes {
			m.commandInput.SetValue(m.commandInput.Value() + string(msg.Runes))
			m.Palette.Input = m.commandInput.Value()
			return m, nil
		}
		var cmd tea.Cmd
		m.commandInput, cmd = m.commandInput.Update(msg)
		m.Palette.Input = m.commandInput.Value()
		return m, cmd
	}
}

func (m *Model) openPalette() {
	m.Palette.Active = true
	m.Palette.Input = ""
	m.commandInput.SetValue("")
	m.commandInput.Focus()
	m.Status = StatusBar{Text: "command palette active"}
}

func (m *Model) closePalette() {
	m.Palette.Active = false
	m.Palette.Input = ""
	m.commandInput.SetValue("")
	m.commandInput.Blur()
}

// runCommandLine parses line and runs it against the session off the UI
// goroutine. The report opens in a modal instead.
func (m Model) runCommandLine(line string) (Model, tea.Cmd) {
	cmd, err := commands.Parse(strings.TrimSpace(line))
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return m, nil
	}
	if cmd.Type == commands.TypeReport {
		m.openReport()
		return m, nil
	}
	if m.Busy {
		m.Status = StatusBar{Text: "still working on the last command", IsError: true}
		return m, nil
	}

	m.Busy = true
	m.Status = StatusBar{Text: string(cmd.Type) + "..."}
	handlers := m.session.Handlers(m.ctx, m.selectedID())
	run := func() tea.Msg {
		res, err := commands.Execute(cmd, handlers)
		return CommandResultMsg{Type: cmd.Type, Result: res, Err: err}
	}
	return m, tea.Batch(m.busySpinner.Tick, run)
}

func (m *Model) openReport() {
	r := m.session.Report()
	m.openModal(ModalState{Kind: ModalReport, Title: "Daily Report", Body: r.Markdown(), Plain: r.Text()})
}

func (m *Model) openModal(s ModalState) {
	m.Modal = s
	m.modalView.SetContent(views.RenderMarkdown(s.Body))
	m.modalView.GotoTop()
}

func (m Model) handleModalKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if m.Modal.Kind == ModalConfirm {
		return m.handleConfirmKey(msg)
	}
	switch msg.String() {
	case "esc", "enter", "q":
		m.Modal = ModalState{}
		return m, nil
	case "y":
		if m.Modal.Plain == "" {
			return m, nil
		}
		if err := m.clipboard(m.Modal.Plain); err != nil {
			m.Status = StatusBar{Text: "copy failed: " + err.Error(), IsError: true}
			return m, nil
		}
		m.Status = StatusBar{Text: "report copied to clipboard"}
		return m, nil
	}
	var cmd tea.Cmd
	m.modalView, cmd = m.modalView.Update(msg)
	return m, cmd
}

func (m Model) handleConfirmKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		line := m.Modal.Confirm
		m.Modal = ModalState{}
		return m.runCommandLine(line)
	case "n", "N", "esc", "q":
		m.Modal = ModalState{}
		m.Status = StatusBar{Text: "delete cancelled"}
		return m, nil
	}
	return m, nil
}

func (m Model) renderModal() string {
	if m.Modal.Kind == ModalNone {
		return ""
	}
	if m.Modal.Kind == ModalConfirm {
		return m.Modal.Title + "\n\n" + m.modalView.View() + "\n[y] delete  [n] cancel"
	}
	hint := "[esc] close  [j/k] scroll"
	if m.Modal.Plain != "" {
		hint += "  [y] copy"
	}
	return m.Modal.Title + "\n\n" + m.modalView.View() + "\n" + hint
}

func writeClipboard(text string) error {
	return clipboard.WriteAll(text)
}
