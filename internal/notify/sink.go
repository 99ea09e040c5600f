package notify

import (
	"slices"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/sandeepkv93/focusflow/internal/model"
	"github.com/sirupsen/logrus"
)

// MaxItems is how many notifications the sink keeps.
const MaxItems = 5

// Sink keeps the most recent notifications, newest first, and fans each
// post out to a listener channel and an optional desktop notifier.
type Sink struct {
	mu      sync.Mutex
	items   []model.NotificationItem
	out     chan model.NotificationItem
	dropped uint64

	clock    clockwork.Clock
	log      logrus.FieldLogger
	desktop  DesktopNotifier
	granted  atomic.Bool
	newID    func() string
	maxItems int
}

type Option func(*Sink)

func WithClock(c clockwork.Clock) Option {
	return func(s *Sink) { s.clock = c }
}

func WithLogger(l logrus.FieldLogger) Option {
	return func(s *Sink) { s.log = l.WithField("component", "notify") }
}

// WithDesktop forwards posts to n once permission is granted.
func WithDesktop(n DesktopNotifier, granted bool) Option {
	return func(s *Sink) {
		s.desktop = n
		s.granted.Store(granted)
	}
}

// WithBuffer sets the listener channel capacity.
func WithBuffer(size int) Option {
	return func(s *Sink) {
		if size <= 0 {
			size = 1
		}
		s.out = make(chan model.NotificationItem, size)
	}
}

func NewSink(opts ...Option) *Sink {
	s := &Sink{
		items:    []model.NotificationItem{},
		out:      make(chan model.NotificationItem, 16),
		clock:    clockwork.NewRealClock(),
		log:      logrus.StandardLogger().WithField("component", "notify"),
		desktop:  NoopDesktopNotifier{},
		newID:    uuid.NewString,
		maxItems: MaxItems,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// C delivers every posted item. Items that do not fit in the buffer are
// dropped and counted.
func (s *Sink) C() <-chan model.NotificationItem {
	return s.out
}

func (s *Sink) Dropped() uint64 {
	return atomic.LoadUint64(&s.dropped)
}

// Post prepends a notification and trims the list to MaxItems.
func (s *Sink) Post(message string, kind model.NotificationKind) model.NotificationItem {
	item := model.NotificationItem{
		ID:      s.newID(),
		Message: message,
		Kind:    kind,
		At:      s.clock.Now(),
	}

	s.mu.Lock()
	next := make([]model.NotificationItem, 0, s.maxItems)
	next = append(next, item)
	next = append(next, s.items...)
	if len(next) > s.maxItems {
		next = next[:s.maxItems]
	}
	s.items = next
	s.mu.Unlock()

	select {
	case s.out <- item:
	default:
		atomic.AddUint64(&s.dropped, 1)
	}

	if s.granted.Load() && s.desktop != nil {
		go func() {
			if err := s.desktop.Send(item); err != nil {
				s.log.WithError(err).Debug("desktop notification failed")
			}
		}()
	}
	return item
}

// Dismiss removes the notification with id. Unknown ids are ignored.
func (s *Sink) Dismiss(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = slices.DeleteFunc(slices.Clone(s.items), func(n model.NotificationItem) bool {
		return n.ID == id
	})
}

// Items returns the retained notifications, newest first.
func (s *Sink) Items() []model.NotificationItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.items)
}

func title(kind model.NotificationKind) string {
	switch kind {
	case model.NotificationReminder:
		return "FocusFlow reminder"
	default:
		return "FocusFlow"
	}
}

func escapeAppleScript(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `"`, `\"`)
}
