package update

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/focusflow/internal/commands"
	"github.com/sandeepkv93/focusflow/internal/model"
	"github.com/sandeepkv93/focusflow/internal/scheduler"
	"github.com/sandeepkv93/focusflow/internal/session"
)

type View string

const (
	ViewDashboard View = "Dashboard"
	ViewBoard     View = "Board"
	ViewCalendar  View = "Calendar"
	ViewArchive   View = "Archive"
)

type StatusBar struct {
	Text    string
	IsError bool
}

type GlobalKeyMap struct {
	Dashboard string
	Board     string
	Calendar  string
	Archive   string
	Report    string
	Help      string
	Quit      string
}

type ModalKind string

const (
	ModalNone    ModalKind = ""
	ModalRecap   ModalKind = "recap"
	ModalReport  ModalKind = "report"
	ModalConfirm ModalKind = "confirm"
)

// statusTTL is how long a command result stays in the status bar.
const statusTTL = 4 * time.Second

type ModalState struct {
	Kind  ModalKind
	Title string
	Body  string
	// Plain is what [y] copies; empty disables copying.
	Plain string
	// Confirm is the command line a confirm modal runs on [y].
	Confirm string
}

type CommandPaletteState struct {
	Active bool
	Input  string
}

type CalendarState struct {
	Focus model.Day
}

// Model is the bubbletea model. Task data always comes from the session's
// store; the model only keeps the latest published snapshot.
type Model struct {
	CurrentView View
	Tasks       []model.Task
	Cursor      int
	Calendar    CalendarState
	Palette     CommandPaletteState
	Modal       ModalState
	HelpVisible bool
	Busy        bool
	Status      StatusBar
	Keys        GlobalKeyMap
	Quitting    bool
	LastError   error

	statusSeq    int
	session      *session.Session
	ctx          context.Context
	changes      chan []model.Task
	unsubscribe  func()
	commandInput textinput.Model
	busySpinner  spinner.Model
	helpModel    help.Model
	modalView    viewport.Model
	clipboard    func(string) error
}

// ClearStatusMsg clears the status bar unless a newer status replaced the
// one it was scheduled for.
type ClearStatusMsg struct {
	Seq int
}

// TasksChangedMsg carries a snapshot published by the store.
type TasksChangedMsg struct {
	Tasks []model.Task
}

type NotificationMsg struct {
	Item model.NotificationItem
}

type RecapMsg struct {
	Recap scheduler.Recap
}

type CommandResultMsg struct {
	Type   commands.Type
	Result commands.Result
	Err    error
}

type Option func(*Model)

// WithContext sets the context command handlers run under.
func WithContext(ctx context.Context) Option {
	return func(m *Model) { m.ctx = ctx }
}

// WithClipboard replaces the system clipboard used by the report modal.
func WithClipboard(write func(string) error) Option {
	return func(m *Model) { m.clipboard = write }
}

func NewModel(s *session.Session, opts ...Option) Model {
	m := Model{
		CurrentView: ViewDashboard,
		Tasks:       s.Store.Snapshot(),
		Calendar:    CalendarState{Focus: s.Today()},
		Keys: GlobalKeyMap{
			Dashboard: "1",
			Board:     "2",
			Calendar:  "3",
			Archive:   "4",
			Report:    "R",
			Help:      "?",
			Quit:      "q",
		},
		session:   s,
		ctx:       context.Background(),
		changes:   make(chan []model.Task, 1),
		clipboard: writeClipboard,
	}
	for _, opt := range opts {
		opt(&m)
	}
	changes := m.changes
	m.unsubscribe = s.Store.OnChange(func(snapshot []model.Task) {
		// keep only the newest snapshot
		select {
		case <-changes:
		default:
		}
		select {
		case changes <- snapshot:
		default:
		}
	})
	m.initBubbleComponents()
	return m
}

func (m *Model) initBubbleComponents() {
	m.commandInput = textinput.New()
	m.commandInput.Prompt = "/"
	m.commandInput.Placeholder = "add Write report due:2026-01-02 at:09:30 cat:work"
	m.commandInput.CharLimit = 256
	m.commandInput.Width = 64

	m.busySpinner = spinner.New()
	m.busySpinner.Spinner = spinner.Dot

	m.helpModel = help.New()
	m.modalView = viewport.New(112, 18)
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		waitForTasksCmd(m.changes),
		waitForNotificationCmd(m.session.Sink.C()),
		waitForRecapCmd(m.session.Housekeeper.Recaps()),
	)
}

// Close detaches the model from the store.
func (m Model) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
}

func (m Model) now() time.Time {
	return m.session.Clock().Now()
}

func clearStatusAfter(seq int) tea.Cmd {
	return tea.Tick(statusTTL, func(time.Time) tea.Msg {
		return ClearStatusMsg{Seq: seq}
	})
}

func waitForTasksCmd(ch <-chan []model.Task) tea.Cmd {
	return func() tea.Msg {
		snapshot, ok := <-ch
		if !ok {
			return nil
		}
		return TasksChangedMsg{Tasks: snapshot}
	}
}

func waitForNotificationCmd(ch <-chan model.NotificationItem) tea.Cmd {
	return func() tea.Msg {
		item, ok := <-ch
		if !ok {
			return nil
		}
		return NotificationMsg{Item: item}
	}
}

func waitForRecapCmd(ch <-chan scheduler.Recap) tea.Cmd {
	return func() tea.Msg {
		r, ok := <-ch
		if !ok {
			return nil
		}
		return RecapMsg{Recap: r}
	}
}
