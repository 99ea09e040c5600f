package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/sandeepkv93/focusflow/internal/capture"
	"github.com/sandeepkv93/focusflow/internal/config"
	"github.com/sandeepkv93/focusflow/internal/model"
	"github.com/sandeepkv93/focusflow/internal/notify"
	"github.com/sandeepkv93/focusflow/internal/storage"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingInterpreter struct{}

func (failingInterpreter) Interpret(context.Context, string) (model.Suggestion, error) {
	return model.Suggestion{}, errors.New("offline")
}

type countingSummarizer struct{ calls int }

func (c *countingSummarizer) Summarize(context.Context, []model.Task, []model.Task) (string, error) {
	c.calls++
	return "briefing", nil
}

func testConfig(t *testing.T, backend string) config.Config {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.DataDir = t.TempDir()
	cfg.Storage.Backend = backend
	return cfg
}

func TestOpenPersistsAcrossSessions(t *testing.T) {
	for _, backend := range []string{storage.BackendSQLite, storage.BackendFile} {
		t.Run(backend, func(t *testing.T) {
			cfg := testConfig(t, backend)
			log, _ := test.NewNullLogger()
			clock := clockwork.NewFakeClockAt(time.Date(2026, 2, 9, 10, 0, 0, 0, time.Local))

			first, err := Open(t.Context(), cfg, log, WithClock(clock), WithInterpreter(failingInterpreter{}))
			require.NoError(t, err)
			task, err := first.Capture(t.Context(), capture.ActivityFile, nil)
			require.NoError(t, err)
			require.NoError(t, first.Close())
			require.NoError(t, first.Close())

			second, err := Open(t.Context(), cfg, log, WithClock(clock))
			require.NoError(t, err)
			defer second.Close()

			got, ok := second.Store.Get(task.ID)
			require.True(t, ok)
			assert.Equal(t, capture.FallbackTitle, got.Title)
			assert.Equal(t, "2026-02-09", got.DueDate)
		})
	}
}

func TestCapturePostsNotification(t *testing.T) {
	cfg := testConfig(t, storage.BackendFile)
	log, _ := test.NewNullLogger()
	s, err := Open(t.Context(), cfg, log, WithInterpreter(failingInterpreter{}))
	require.NoError(t, err)
	defer s.Close()

	_, err = s.Capture(t.Context(), "Edited budget.xlsx", nil)
	require.NoError(t, err)

	items := s.Sink.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "✨ Captured: "+capture.FallbackTitle, items[0].Message)
}

func TestRunSweepsAndReport(t *testing.T) {
	cfg := testConfig(t, storage.BackendFile)
	log, _ := test.NewNullLogger()
	clock := clockwork.NewFakeClockAt(time.Date(2026, 2, 9, 9, 0, 0, 0, time.Local))
	summarizer := &countingSummarizer{}
	s, err := Open(t.Context(), cfg, log, WithClock(clock), WithSummarizer(summarizer))
	require.NoError(t, err)
	defer s.Close()

	ctx := t.Context()
	require.NoError(t, s.Store.Create(ctx, model.Task{
		ID: "late", Title: "Late", Status: model.StatusTodo, DueDate: "2026-02-01",
		CreatedAt: model.MillisOf(clock.Now()), NextSteps: []string{},
	}))
	require.NoError(t, s.Store.Create(ctx, model.Task{
		ID: "ring", Title: "Ring", Status: model.StatusTodo, DueDate: "2026-02-09",
		ReminderTime: model.Ptr("09:00"), CreatedAt: model.MillisOf(clock.Now()), NextSteps: []string{},
	}))
	require.NoError(t, s.Store.UpdateStatus(ctx, "ring", model.StatusInProgress))

	reminders, expired, err := s.RunSweeps(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, reminders)
	assert.Zero(t, expired)
	assert.Equal(t, 1, summarizer.calls)

	select {
	case r := <-s.Housekeeper.Recaps():
		assert.Equal(t, "briefing", r.Text)
	default:
		t.Fatal("expected a recap")
	}

	require.NoError(t, s.Store.UpdateStatus(ctx, "ring", model.StatusCompleted))
	rep := s.Report()
	require.Len(t, rep.Completed, 1)
	assert.Equal(t, "Ring", rep.Completed[0].Title)
	require.Len(t, rep.Pending, 1)
	assert.Equal(t, s.Today(), rep.Day)
}

func TestOpenRejectsUnknownBackend(t *testing.T) {
	cfg := testConfig(t, "redis")
	_, err := Open(t.Context(), cfg, nil)
	assert.ErrorIs(t, err, storage.ErrUnknownBackend)
}

func TestCloseReportsUndeliveredNotifications(t *testing.T) {
	cfg := testConfig(t, storage.BackendFile)
	log, hook := test.NewNullLogger()
	s, err := Open(t.Context(), cfg, log, WithDesktopNotifier(notify.NoopDesktopNotifier{}))
	require.NoError(t, err)

	for i := 0; i < 17; i++ {
		s.Sink.Post("ping", model.NotificationInfo)
	}
	require.NoError(t, s.Close())

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.WarnLevel, entry.Level)
	assert.Equal(t, uint64(1), entry.Data["dropped_notifications"])
	assert.Equal(t, uint64(0), entry.Data["dropped_recaps"])
}
