package model

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"
	"time"
)

func validTask(now time.Time) Task {
	return Task{
		ID:        "task-1",
		Title:     "Draft marketing strategy",
		Status:    StatusTodo,
		CreatedAt: MillisOf(now),
		DueDate:   "2026-02-09",
		NextSteps: []string{},
		Source:    Ptr(SourceManual),
	}
}

func TestTaskValidateSuccess(t *testing.T) {
	now := time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC)
	task := validTask(now)
	task.ReminderTime = Ptr("09:30")
	task.Category = Ptr(CategoryWork)
	if err := task.Validate(); err != nil {
		t.Fatalf("expected valid task, got error: %v", err)
	}
}

func TestTaskValidateCompletedRequiresArchive(t *testing.T) {
	now := time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC)
	task := validTask(now)
	task.Status = StatusCompleted
	err := task.Validate()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if err.Error() != "model: completed task must be archived" {
		t.Fatalf("unexpected error: %v", err)
	}

	task.IsArchived = true
	if err := task.Validate(); err == nil {
		t.Fatal("expected archived_at error, got nil")
	}
	task.ArchivedAt = Ptr(MillisOf(now))
	if err := task.Validate(); err != nil {
		t.Fatalf("expected valid completed task, got %v", err)
	}
}

func TestTaskValidateInvalidFields(t *testing.T) {
	now := time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC)
	task := validTask(now)
	task.Status = Status("Invalid")
	if err := task.Validate(); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got: %v", err)
	}

	task.Status = StatusTodo
	task.DueDate = "2026-2-9"
	if err := task.Validate(); !errors.Is(err, ErrInvalidDay) {
		t.Fatalf("expected ErrInvalidDay, got: %v", err)
	}

	task.DueDate = "2026-02-09"
	task.ReminderTime = Ptr("25:00")
	if err := task.Validate(); !errors.Is(err, ErrInvalidReminderTime) {
		t.Fatalf("expected ErrInvalidReminderTime, got: %v", err)
	}

	task.ReminderTime = nil
	task.Category = Ptr(Category("hobby"))
	if err := task.Validate(); !errors.Is(err, ErrInvalidCategory) {
		t.Fatalf("expected ErrInvalidCategory, got: %v", err)
	}
}

func TestTaskExpired(t *testing.T) {
	now := time.Date(2026, 2, 20, 12, 0, 0, 0, time.UTC)
	archived := func(age time.Duration, permanent bool) Task {
		task := validTask(now)
		task.IsArchived = true
		task.Status = StatusCompleted
		task.ArchivedAt = Ptr(MillisOf(now.Add(-age)))
		task.IsPermanent = permanent
		return task
	}

	if !archived(8*24*time.Hour, false).Expired(now, ArchiveRetention) {
		t.Fatal("expected 8 day old archive to expire")
	}
	if archived(6*24*time.Hour, false).Expired(now, ArchiveRetention) {
		t.Fatal("expected 6 day old archive to be kept")
	}
	if archived(30*24*time.Hour, true).Expired(now, ArchiveRetention) {
		t.Fatal("expected permanent archive to be kept")
	}
	if archived(ArchiveRetention, false).Expired(now, ArchiveRetention) {
		t.Fatal("expected archive exactly at retention to be kept")
	}

	missing := archived(30*24*time.Hour, false)
	missing.ArchivedAt = nil
	if missing.Expired(now, ArchiveRetention) {
		t.Fatal("expected archive without archived_at to be kept")
	}

	active := validTask(now)
	if active.Expired(now, ArchiveRetention) {
		t.Fatal("expected active task to be kept")
	}
}

func TestTaskIsOverdue(t *testing.T) {
	now := time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC)
	today := DayOf(now)
	task := validTask(now)

	task.DueDate = "2026-02-08"
	if !task.IsOverdue(today) {
		t.Fatal("expected yesterday's task to be overdue")
	}
	task.DueDate = "2026-02-09"
	if task.IsOverdue(today) {
		t.Fatal("expected today's task not to be overdue")
	}
	task.DueDate = "2026-01-01"
	task.IsArchived = true
	if task.IsOverdue(today) {
		t.Fatal("expected archived task not to be overdue")
	}
	task.IsArchived = false
	task.DueDate = ""
	if task.IsOverdue(today) {
		t.Fatal("expected task without a due day not to be overdue")
	}
}

func TestTaskPatchApply(t *testing.T) {
	now := time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC)
	task := validTask(now)
	task.ReminderTime = Ptr("08:00")
	task.Category = Ptr(CategoryPersonal)

	patched := TaskPatch{
		Title:         Ptr("Renamed"),
		ClearReminder: true,
		NextSteps:     []string{"outline", "review"},
		ClearCategory: true,
		IsPermanent:   Ptr(true),
	}.Apply(task)

	if patched.Title != "Renamed" || patched.ReminderTime != nil || patched.Category != nil || !patched.IsPermanent {
		t.Fatalf("unexpected patched task: %+v", patched)
	}
	if step, ok := patched.CurrentStep(); !ok || step != "review" {
		t.Fatalf("unexpected current step: %q", step)
	}
	if task.Title != "Draft marketing strategy" || task.ReminderTime == nil {
		t.Fatalf("patch mutated the original: %+v", task)
	}
}

func TestTaskJSONKeepsOptionalPresence(t *testing.T) {
	now := time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC)
	bare := Task{ID: "a", Title: "bare", Status: StatusTodo, CreatedAt: MillisOf(now), DueDate: "2026-02-09"}
	full := validTask(now)
	full.ReminderTime = Ptr("09:00")
	full.Category = Ptr(CategoryWork)
	full.IsArchived = true
	full.ArchivedAt = Ptr(MillisOf(now))

	raw, err := json.Marshal([]Task{bare, full})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back []Task
	if err := json.Unmarshal(raw, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !reflect.DeepEqual(back, []Task{bare, full}) {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", back, []Task{bare, full})
	}
}

func TestParseStatus(t *testing.T) {
	cases := map[string]Status{
		"todo":        StatusTodo,
		"IN_PROGRESS": StatusInProgress,
		"start":       StatusInProgress,
		"done":        StatusCompleted,
	}
	for in, want := range cases {
		got, err := ParseStatus(in)
		if err != nil || got != want {
			t.Fatalf("ParseStatus(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := ParseStatus("later"); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
}

func TestTaskDaysUntilExpiry(t *testing.T) {
	archived := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	task := Task{IsArchived: true, ArchivedAt: Ptr(MillisOf(archived))}

	cases := []struct {
		now  time.Time
		want int
	}{
		{archived, 7},
		{archived.Add(23 * time.Hour), 7},
		{archived.Add(50 * time.Hour), 5},
		{archived.Add(30 * 24 * time.Hour), 0},
	}
	for _, tc := range cases {
		if got := task.DaysUntilExpiry(tc.now, ArchiveRetention); got != tc.want {
			t.Fatalf("DaysUntilExpiry(%v) = %d, want %d", tc.now, got, tc.want)
		}
	}
}
