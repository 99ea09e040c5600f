package capture

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/sandeepkv93/focusflow/internal/ai"
	"github.com/sandeepkv93/focusflow/internal/model"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubInterpreter struct {
	s   model.Suggestion
	err error
}

func (s stubInterpreter) Interpret(context.Context, string) (model.Suggestion, error) {
	return s.s, s.err
}

func newCapturer(interp ai.Interpreter) *Capturer {
	log, _ := test.NewNullLogger()
	clock := clockwork.NewFakeClockAt(time.Date(2026, 2, 9, 23, 30, 0, 0, time.Local))
	c := NewCapturer(interp, clock, log)
	c.newID = func() string { return "task-1" }
	return c
}

func TestFromActivityUsesSuggestion(t *testing.T) {
	c := newCapturer(stubInterpreter{s: model.Suggestion{
		Title:       "Draft marketing strategy",
		Description: "Continue the 2025 plan",
		NextSteps:   []string{"Outline", "Share"},
	}})
	cat := model.CategoryWork

	task, err := c.FromActivity(context.Background(), ActivityFile, &cat)
	require.NoError(t, err)

	assert.Equal(t, "task-1", task.ID)
	assert.Equal(t, "Draft marketing strategy", task.Title)
	assert.Equal(t, []string{"Outline", "Share"}, task.NextSteps)
	assert.Equal(t, model.StatusTodo, task.Status)
	assert.Equal(t, "2026-02-09", task.DueDate)
	require.NotNil(t, task.Source)
	assert.Equal(t, model.SourceAuto, *task.Source)
	require.NotNil(t, task.Category)
	assert.Equal(t, model.CategoryWork, *task.Category)
	assert.False(t, task.IsArchived)
	require.NoError(t, task.Validate())
}

func TestFromActivityFallsBackOnInterpreterError(t *testing.T) {
	c := newCapturer(stubInterpreter{err: ai.ErrMalformedResponse})

	task, err := c.FromActivity(context.Background(), ActivityWeb, nil)
	require.NoError(t, err)

	assert.Equal(t, FallbackTitle, task.Title)
	assert.Equal(t, ActivityWeb, task.Description)
	assert.Equal(t, []string{FallbackStep}, task.NextSteps)
	assert.Nil(t, task.Category)
}

func TestFromActivityFallsBackWithoutInterpreter(t *testing.T) {
	c := newCapturer(nil)
	task, err := c.FromActivity(context.Background(), "Edited notes.md", nil)
	require.NoError(t, err)
	assert.Equal(t, FallbackTitle, task.Title)
}

func TestFromActivityRejectsEmpty(t *testing.T) {
	c := newCapturer(nil)
	_, err := c.FromActivity(context.Background(), "   ", nil)
	assert.ErrorIs(t, err, ErrEmptyActivity)
}

func TestPresetAndDescribeFile(t *testing.T) {
	got, ok := Preset("WEB")
	require.True(t, ok)
	assert.Equal(t, ActivityWeb, got)
	_, ok = Preset("email")
	assert.False(t, ok)

	assert.Equal(t, "User dropped a file: report.pdf (Type: application/pdf, Size: 3KB)",
		DescribeFile("report.pdf", "application/pdf", 2600))
}

func TestDescribePath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "budget.json")
	require.NoError(t, os.WriteFile(path, make([]byte, 2048), 0o600))

	got, err := DescribePath(path)
	require.NoError(t, err)
	assert.Equal(t, "User dropped a file: budget.json (Type: application/json, Size: 2KB)", got)

	_, err = DescribePath(dir)
	assert.Error(t, err)
	_, err = DescribePath(filepath.Join(dir, "missing.pdf"))
	assert.Error(t, err)
}
