package update

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/sandeepkv93/focusflow/internal/views"
)

type KeyBinding struct {
	Key    string
	Action string
}

type helpKeyMap struct {
	short []key.Binding
	full  [][]key.Binding
}

func (k helpKeyMap) ShortHelp() []key.Binding  { return k.short }
func (k helpKeyMap) FullHelp() [][]key.Binding { return k.full }

func (m Model) renderHelpIfVisible() string {
	if !m.HelpVisible {
		return ""
	}
	return "\n\n" + m.renderHelpView()
}

func (m Model) renderHelpView() string {
	bindings := m.helpBindings()
	var plain []string
	for _, kb := range m.viewBindings() {
		plain = append(plain, fmt.Sprintf("- %s: %s", kb.Key, kb.Action))
	}
	return views.RenderHelpPanel(views.HelpPanelData{
		CurrentView: string(m.CurrentView),
		Bindings:    plain,
		HelpView: m.helpModel.View(helpKeyMap{
			short: bindings,
			full:  [][]key.Binding{bindings},
		}),
	})
}

func (m Model) globalBindings() []KeyBinding {
	return []KeyBinding{
		{Key: m.Keys.Dashboard, Action: "switch to Dashboard"},
		{Key: m.Keys.Board, Action: "switch to Board"},
		{Key: m.Keys.Calendar, Action: "switch to Calendar"},
		{Key: m.Keys.Archive, Action: "switch to Archive"},
		{Key: "/", Action: "open command palette"},
		{Key: m.Keys.Report, Action: "daily report"},
		{Key: "n", Action: "dismiss newest notification"},
		{Key: m.Keys.Help, Action: "toggle help panel"},
		{Key: m.Keys.Quit, Action: "quit app"},
	}
}

func (m Model) viewBindings() []KeyBinding {
	switch m.CurrentView {
	case ViewDashboard, ViewBoard:
		return []KeyBinding{
			{Key: "j/k", Action: "move selection"},
			{Key: "s/t/d", Action: "start / back to todo / done"},
			{Key: "x", Action: "delete task"},
		}
	case ViewCalendar:
		return []KeyBinding{
			{Key: "h/l", Action: "previous/next day"},
			{Key: "H/L", Action: "previous/next week"},
			{Key: "[/]", Action: "previous/next month"},
			{Key: "g", Action: "jump to today"},
			{Key: "j/k", Action: "move task cursor"},
			{Key: "s/t/d", Action: "start / back to todo / done"},
		}
	case ViewArchive:
		return []KeyBinding{
			{Key: "j/k", Action: "move selection"},
			{Key: "r", Action: "restore to active"},
			{Key: "p", Action: "keep forever / unkeep"},
			{Key: "x", Action: "delete permanently"},
		}
	default:
		return []KeyBinding{{Key: "-", Action: "no contextual bindings"}}
	}
}

func (m Model) helpBindings() []key.Binding {
	out := make([]key.Binding, 0, len(m.globalBindings())+len(m.viewBindings()))
	for _, kb := range m.globalBindings() {
		out = append(out, key.NewBinding(key.WithKeys(kb.Key), key.WithHelp(kb.Key, kb.Action)))
	}
	for _, kb := range m.viewBindings() {
		out = append(out, key.NewBinding(key.WithKeys(kb.Key), key.WithHelp(kb.Key, kb.Action)))
	}
	return out
}
