package model

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidStatus   = errors.New("model: invalid task status")
	ErrInvalidSource   = errors.New("model: invalid task source")
	ErrInvalidCategory = errors.New("model: invalid task category")
)

// ArchiveRetention is how long a non-permanent archived task survives.
const ArchiveRetention = 7 * 24 * time.Hour

type Status string

const (
	StatusTodo       Status = "TODO"
	StatusInProgress Status = "IN_PROGRESS"
	StatusCompleted  Status = "COMPLETED"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusCompleted:
		return true
	default:
		return false
	}
}

func ParseStatus(raw string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "todo", "to-do", "to_do":
		return StatusTodo, nil
	case "in_progress", "in-progress", "inprogress", "doing", "start", "started":
		return StatusInProgress, nil
	case "completed", "complete", "done":
		return StatusCompleted, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, raw)
	}
}

type Source string

const (
	SourceManual Source = "manual"
	SourceAuto   Source = "auto"
)

func (s Source) IsValid() bool {
	return s == SourceManual || s == SourceAuto
}

type Category string

const (
	CategoryWork     Category = "work"
	CategoryPersonal Category = "personal"
)

func (c Category) IsValid() bool {
	return c == CategoryWork || c == CategoryPersonal
}

func ParseCategory(raw string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(raw)))
	if !c.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidCategory, raw)
	}
	return c, nil
}

// EpochMillis is a wall-clock instant stored as milliseconds since the Unix epoch.
type EpochMillis int64

func MillisOf(t time.Time) EpochMillis {
	return EpochMillis(t.UnixMilli())
}

func (m EpochMillis) Time() time.Time {
	return time.UnixMilli(int64(m))
}

type Task struct {
	ID           string       `json:"id"`
	Title        string       `json:"title"`
	Description  string       `json:"description"`
	Status       Status       `json:"status"`
	CreatedAt    EpochMillis  `json:"createdAt"`
	DueDate      string       `json:"dueDate"`
	ReminderTime *string      `json:"reminderTime,omitempty"`
	NextSteps    []string     `json:"nextSteps"`
	Source       *Source      `json:"source,omitempty"`
	Category     *Category    `json:"category,omitempty"`
	IsArchived   bool         `json:"isArchived"`
	ArchivedAt   *EpochMillis `json:"archivedAt,omitempty"`
	IsPermanent  bool         `json:"isPermanent,omitempty"`
}

// NewTaskID returns a time-ordered id with a random tail, so ids created in
// the same millisecond still differ.
func NewTaskID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// Validate checks a freshly built task. The store itself never validates.
func (t Task) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return errors.New("model: task id is required")
	}
	if strings.TrimSpace(t.Title) == "" {
		return errors.New("model: task title is required")
	}
	if !t.Status.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, t.Status)
	}
	if t.CreatedAt == 0 {
		return errors.New("model: task created_at is required")
	}
	if _, err := ParseDay(t.DueDate); err != nil {
		return err
	}
	if t.ReminderTime != nil {
		if _, err := ParseReminderTime(*t.ReminderTime); err != nil {
			return err
		}
	}
	if t.Source != nil && !t.Source.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidSource, *t.Source)
	}
	if t.Category != nil && !t.Category.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidCategory, *t.Category)
	}
	if t.Status == StatusCompleted && !t.IsArchived {
		return errors.New("model: completed task must be archived")
	}
	if t.IsArchived != (t.ArchivedAt != nil) {
		return errors.New("model: archived_at must be set exactly when task is archived")
	}
	return nil
}

// IsActive reports whether the task is still in the working lifecycle.
func (t Task) IsActive() bool {
	return !t.IsArchived && t.Status != StatusCompleted
}

// IsOverdue reports an active task whose due day is strictly before today.
// A task without a due day is never overdue.
func (t Task) IsOverdue(today Day) bool {
	return t.IsActive() && t.DueDate != "" && t.DueDate < today.String()
}

// Expired reports whether an archived task has outlived the retention window.
// An archived task without archivedAt is kept.
func (t Task) Expired(now time.Time, retention time.Duration) bool {
	if !t.IsArchived || t.IsPermanent || t.ArchivedAt == nil {
		return false
	}
	return now.Sub(t.ArchivedAt.Time()) > retention
}

// CurrentStep is the last recorded next step, if any.
func (t Task) CurrentStep() (string, bool) {
	if len(t.NextSteps) == 0 {
		return "", false
	}
	return t.NextSteps[len(t.NextSteps)-1], true
}

func (t Task) CategoryLabel() string {
	if t.Category == nil || *t.Category == "" {
		return "TASK"
	}
	return strings.ToUpper(string(*t.Category))
}

// Clone returns a copy that shares no mutable state with t.
func (t Task) Clone() Task {
	out := t
	if t.ReminderTime != nil {
		v := *t.ReminderTime
		out.ReminderTime = &v
	}
	if t.Source != nil {
		v := *t.Source
		out.Source = &v
	}
	if t.Category != nil {
		v := *t.Category
		out.Category = &v
	}
	if t.ArchivedAt != nil {
		v := *t.ArchivedAt
		out.ArchivedAt = &v
	}
	if t.NextSteps != nil {
		out.NextSteps = append([]string{}, t.NextSteps...)
	}
	return out
}

// TaskPatch is a shallow update. Nil fields are left untouched; the Clear
// flags set the matching optional field back to absent.
type TaskPatch struct {
	Title           *string
	Description     *string
	Status          *Status
	DueDate         *string
	ReminderTime    *string
	ClearReminder   bool
	NextSteps       []string
	Category        *Category
	ClearCategory   bool
	IsArchived      *bool
	ArchivedAt      *EpochMillis
	ClearArchivedAt bool
	IsPermanent     *bool
}

func (p TaskPatch) Apply(t Task) Task {
	out := t.Clone()
	if p.Title != nil {
		out.Title = *p.Title
	}
	if p.Description != nil {
		out.Description = *p.Description
	}
	if p.Status != nil {
		out.Status = *p.Status
	}
	if p.DueDate != nil {
		out.DueDate = *p.DueDate
	}
	if p.ReminderTime != nil {
		v := *p.ReminderTime
		out.ReminderTime = &v
	}
	if p.ClearReminder {
		out.ReminderTime = nil
	}
	if p.NextSteps != nil {
		out.NextSteps = append([]string{}, p.NextSteps...)
	}
	if p.Category != nil {
		v := *p.Category
		out.Category = &v
	}
	if p.ClearCategory {
		out.Category = nil
	}
	if p.IsArchived != nil {
		out.IsArchived = *p.IsArchived
	}
	if p.ArchivedAt != nil {
		v := *p.ArchivedAt
		out.ArchivedAt = &v
	}
	if p.ClearArchivedAt {
		out.ArchivedAt = nil
	}
	if p.IsPermanent != nil {
		out.IsPermanent = *p.IsPermanent
	}
	return out
}

// Ptr is a small helper for building patches and optional fields.
func Ptr[T any](v T) *T {
	return &v
}

// DaysUntilExpiry is the whole number of days left before an archived task
// is cleared, never negative.
func (t Task) DaysUntilExpiry(now time.Time, retention time.Duration) int {
	if t.ArchivedAt == nil {
		return int(retention / (24 * time.Hour))
	}
	elapsed := int(now.Sub(t.ArchivedAt.Time()) / (24 * time.Hour))
	return max(0, int(retention/(24*time.Hour))-elapsed)
}
