package notify

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/sandeepkv93/focusflow/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingNotifier struct {
	mu   sync.Mutex
	sent []model.NotificationItem
	done chan struct{}
}

func (r *recordingNotifier) Send(n model.NotificationItem) error {
	r.mu.Lock()
	r.sent = append(r.sent, n)
	r.mu.Unlock()
	if r.done != nil {
		r.done <- struct{}{}
	}
	return nil
}

func TestPostKeepsFiveNewestFirst(t *testing.T) {
	s := NewSink(WithBuffer(16))
	for i := 1; i <= 7; i++ {
		s.Post(fmt.Sprintf("msg %d", i), model.NotificationInfo)
	}

	items := s.Items()
	require.Len(t, items, MaxItems)
	for i, item := range items {
		assert.Equal(t, fmt.Sprintf("msg %d", 7-i), item.Message)
	}
}

func TestPostStampsClockAndKind(t *testing.T) {
	now := time.Date(2026, 2, 9, 9, 0, 0, 0, time.Local)
	s := NewSink(WithClock(clockwork.NewFakeClockAt(now)))

	item := s.Post("⏰ Reminder: stand-up", model.NotificationReminder)

	assert.NotEmpty(t, item.ID)
	assert.Equal(t, now, item.At)
	assert.Equal(t, model.NotificationReminder, item.Kind)
}

func TestDismissRemovesByID(t *testing.T) {
	s := NewSink()
	a := s.Post("a", model.NotificationInfo)
	b := s.Post("b", model.NotificationInfo)

	s.Dismiss(a.ID)
	s.Dismiss("unknown")

	items := s.Items()
	require.Len(t, items, 1)
	assert.Equal(t, b.ID, items[0].ID)
}

func TestItemsSnapshotIsIsolated(t *testing.T) {
	s := NewSink()
	s.Post("a", model.NotificationInfo)
	snap := s.Items()
	s.Post("b", model.NotificationInfo)
	assert.Len(t, snap, 1)
}

func TestChannelDropsWhenFull(t *testing.T) {
	s := NewSink(WithBuffer(1))
	s.Post("a", model.NotificationInfo)
	s.Post("b", model.NotificationInfo)

	assert.Equal(t, uint64(1), s.Dropped())
	got := <-s.C()
	assert.Equal(t, "a", got.Message)
}

func TestDesktopForwardingRequiresPermission(t *testing.T) {
	rec := &recordingNotifier{done: make(chan struct{}, 4)}
	NewSink(WithDesktop(rec, false)).Post("silent", model.NotificationInfo)
	NewSink(WithDesktop(rec, true)).Post("loud", model.NotificationReminder)

	select {
	case <-rec.done:
	case <-time.After(2 * time.Second):
		t.Fatal("desktop notifier was not called")
	}
	rec.mu.Lock()
	defer rec.mu.Unlock()
	require.Len(t, rec.sent, 1)
	assert.Equal(t, "loud", rec.sent[0].Message)
}

func TestEscapeAppleScript(t *testing.T) {
	assert.Equal(t, `say \"hi\" \\ bye`, escapeAppleScript(`say "hi" \ bye`))
}
