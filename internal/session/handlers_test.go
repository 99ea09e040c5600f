package session

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/sandeepkv93/focusflow/internal/commands"
	"github.com/sandeepkv93/focusflow/internal/model"
	"github.com/sandeepkv93/focusflow/internal/storage"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, s *Session, selected, input string) (commands.Result, error) {
	t.Helper()
	cmd, err := commands.Parse(input)
	require.NoError(t, err)
	return commands.Execute(cmd, s.Handlers(t.Context(), selected))
}

func TestHandlersDriveTheStore(t *testing.T) {
	cfg := testConfig(t, storage.BackendFile)
	log, _ := test.NewNullLogger()
	clock := clockwork.NewFakeClockAt(time.Date(2026, 3, 2, 9, 0, 0, 0, time.Local))
	s, err := Open(t.Context(), cfg, log, WithClock(clock), WithInterpreter(failingInterpreter{}))
	require.NoError(t, err)
	defer s.Close()

	_, err = run(t, s, "", "add Write plan due:2026-03-04 at:14:30 cat:work")
	require.NoError(t, err)
	task := s.Store.Snapshot()[0]
	assert.Equal(t, "Write plan", task.Title)
	assert.Equal(t, "2026-03-04", task.DueDate)
	require.NotNil(t, task.ReminderTime)
	assert.Equal(t, "14:30", *task.ReminderTime)
	assert.Equal(t, model.CategoryWork, *task.Category)
	assert.Equal(t, model.SourceManual, *task.Source)
	assert.Equal(t, []string{}, task.NextSteps)

	short := commands.ShortID(task.ID)
	_, err = run(t, s, "", "start "+short)
	require.NoError(t, err)
	got, _ := s.Store.Get(task.ID)
	assert.Equal(t, model.StatusInProgress, got.Status)

	_, err = run(t, s, task.ID, "step . Draft outline")
	require.NoError(t, err)
	_, err = run(t, s, task.ID, "remind . off")
	require.NoError(t, err)
	got, _ = s.Store.Get(task.ID)
	assert.Equal(t, []string{"Draft outline"}, got.NextSteps)
	assert.Nil(t, got.ReminderTime)

	_, err = run(t, s, task.ID, "done .")
	require.NoError(t, err)
	_, err = run(t, s, task.ID, "keep .")
	require.NoError(t, err)
	got, _ = s.Store.Get(task.ID)
	assert.True(t, got.IsArchived)
	assert.True(t, got.IsPermanent)
	require.NotNil(t, got.ArchivedAt)
	assert.Equal(t, model.MillisOf(clock.Now()), *got.ArchivedAt)

	res, err := run(t, s, "", "report")
	require.NoError(t, err)
	assert.Contains(t, res.Message, "[WORK] Write plan")

	_, err = run(t, s, task.ID, "restore .")
	require.NoError(t, err)
	got, _ = s.Store.Get(task.ID)
	assert.Equal(t, model.StatusTodo, got.Status)
	assert.False(t, got.IsArchived)

	_, err = run(t, s, task.ID, "rm .")
	require.NoError(t, err)
	assert.Empty(t, s.Store.Snapshot())
}

func TestHandlersReportUnknownTarget(t *testing.T) {
	cfg := testConfig(t, storage.BackendFile)
	log, _ := test.NewNullLogger()
	s, err := Open(t.Context(), cfg, log)
	require.NoError(t, err)
	defer s.Close()

	_, err = run(t, s, "", "done nope")
	var ce *commands.CommandError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, commands.ErrCodeNotFound, ce.Code)
}

func TestHandlersCaptureFallsBack(t *testing.T) {
	cfg := testConfig(t, storage.BackendFile)
	log, _ := test.NewNullLogger()
	s, err := Open(t.Context(), cfg, log, WithInterpreter(failingInterpreter{}))
	require.NoError(t, err)
	defer s.Close()

	res, err := run(t, s, "", "capture web")
	require.NoError(t, err)
	assert.Contains(t, res.Message, "New Activity Task")
	task := s.Store.Snapshot()[0]
	assert.Equal(t, model.SourceAuto, *task.Source)
}

func TestHandlersRenameAndUnstep(t *testing.T) {
	cfg := testConfig(t, storage.BackendFile)
	log, _ := test.NewNullLogger()
	s, err := Open(t.Context(), cfg, log)
	require.NoError(t, err)
	defer s.Close()

	_, err = run(t, s, "", "add Write plan")
	require.NoError(t, err)
	id := s.Store.Snapshot()[0].ID
	for _, step := range []string{"outline", "draft", "review"} {
		_, err = run(t, s, id, "step . "+step)
		require.NoError(t, err)
	}

	res, err := run(t, s, id, "rename . Write launch plan")
	require.NoError(t, err)
	assert.Equal(t, "renamed Write plan to Write launch plan", res.Message)

	_, err = run(t, s, id, "unstep . 2")
	require.NoError(t, err)
	got, _ := s.Store.Get(id)
	assert.Equal(t, "Write launch plan", got.Title)
	assert.Equal(t, []string{"outline", "review"}, got.NextSteps)

	_, err = run(t, s, id, "unstep . 3")
	var ce *commands.CommandError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, commands.ErrCodeInvalidArgument, ce.Code)

	_, err = run(t, s, id, "unstep . 1")
	require.NoError(t, err)
	_, err = run(t, s, id, "unstep . 1")
	require.NoError(t, err)
	got, _ = s.Store.Get(id)
	assert.Empty(t, got.NextSteps)
}

func TestHandlersCaptureFromPath(t *testing.T) {
	cfg := testConfig(t, storage.BackendFile)
	log, _ := test.NewNullLogger()
	s, err := Open(t.Context(), cfg, log, WithInterpreter(failingInterpreter{}))
	require.NoError(t, err)
	defer s.Close()

	path := filepath.Join(t.TempDir(), "invoice.pdf")
	require.NoError(t, os.WriteFile(path, make([]byte, 4096), 0o600))

	_, err = run(t, s, "", "capture path:"+path)
	require.NoError(t, err)
	task := s.Store.Snapshot()[0]
	assert.Equal(t, model.SourceAuto, *task.Source)
	assert.Equal(t, "User dropped a file: invoice.pdf (Type: application/pdf, Size: 4KB)", task.Description)

	_, err = run(t, s, "", "capture path:"+filepath.Join(t.TempDir(), "gone.pdf"))
	var ce *commands.CommandError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, commands.ErrCodeInvalidArgument, ce.Code)
	assert.Len(t, s.Store.Snapshot(), 1)
}
