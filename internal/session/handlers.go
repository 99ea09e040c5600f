package session

import (
	"context"
	"fmt"

	"github.com/sandeepkv93/focusflow/internal/capture"
	"github.com/sandeepkv93/focusflow/internal/commands"
	"github.com/sandeepkv93/focusflow/internal/model"
)

// NewTask builds a manual TODO task. An empty due day means today.
func (s *Session) NewTask(args commands.AddArgs) (model.Task, error) {
	now := s.clock.Now()
	due := args.DueDate
	if due == "" {
		due = model.DayOf(now).String()
	}
	source := model.SourceManual
	task := model.Task{
		ID:        model.NewTaskID(),
		Title:     args.Title,
		Status:    model.StatusTodo,
		CreatedAt: model.MillisOf(now),
		DueDate:   due,
		NextSteps: []string{},
		Source:    &source,
	}
	if args.ReminderTime != nil {
		task.ReminderTime = model.Ptr(*args.ReminderTime)
	}
	if args.Category != nil {
		task.Category = model.Ptr(*args.Category)
	}
	if err := task.Validate(); err != nil {
		return model.Task{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: err.Error()}
	}
	return task, nil
}

// Activity is the text fed to the interpreter for a capture, describing the
// file on disk when a path is given.
func (s *Session) Activity(a commands.CaptureArgs) (string, error) {
	if a.Path == "" {
		return a.Activity, nil
	}
	activity, err := capture.DescribePath(a.Path)
	if err != nil {
		return "", &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: err.Error()}
	}
	return activity, nil
}

// Handlers binds every palette and CLI command to this session. selected is
// the task "." refers to.
func (s *Session) Handlers(ctx context.Context, selected string) commands.Handlers {
	resolve := func(target string) (model.Task, error) {
		id, err := commands.Resolve(target, s.Store.Snapshot(), selected)
		if err != nil {
			return model.Task{}, err
		}
		t, ok := s.Store.Get(id)
		if !ok {
			return model.Task{}, &commands.CommandError{Code: commands.ErrCodeNotFound, Message: fmt.Sprintf("no task matches %q", target)}
		}
		return t, nil
	}
	patch := func(target string, p model.TaskPatch, format string) (commands.Result, error) {
		t, err := resolve(target)
		if err != nil {
			return commands.Result{}, err
		}
		if err := s.Store.Update(ctx, t.ID, p); err != nil {
			return commands.Result{}, err
		}
		return commands.Result{Message: fmt.Sprintf(format, t.Title)}, nil
	}

	return commands.Handlers{
		Add: func(a commands.AddArgs) (commands.Result, error) {
			task, err := s.NewTask(a)
			if err != nil {
				return commands.Result{}, err
			}
			if err := s.Store.Create(ctx, task); err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: fmt.Sprintf("added %s (%s)", task.Title, commands.ShortID(task.ID))}, nil
		},
		SetStatus: func(a commands.StatusArgs) (commands.Result, error) {
			t, err := resolve(a.Target)
			if err != nil {
				return commands.Result{}, err
			}
			if err := s.Store.UpdateStatus(ctx, t.ID, a.Status); err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: fmt.Sprintf("%s -> %s", t.Title, a.Status)}, nil
		},
		Due: func(a commands.DueArgs) (commands.Result, error) {
			return patch(a.Target, model.TaskPatch{DueDate: model.Ptr(a.Day.String())}, "%s due "+a.Day.String())
		},
		Remind: func(a commands.RemindArgs) (commands.Result, error) {
			if a.Time == nil {
				return patch(a.Target, model.TaskPatch{ClearReminder: true}, "reminder cleared for %s")
			}
			return patch(a.Target, model.TaskPatch{ReminderTime: a.Time}, "%s reminds at "+*a.Time)
		},
		Rename: func(a commands.RenameArgs) (commands.Result, error) {
			t, err := resolve(a.Target)
			if err != nil {
				return commands.Result{}, err
			}
			if err := s.Store.Update(ctx, t.ID, model.TaskPatch{Title: model.Ptr(a.Title)}); err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: fmt.Sprintf("renamed %s to %s", t.Title, a.Title)}, nil
		},
		Step: func(a commands.StepArgs) (commands.Result, error) {
			t, err := resolve(a.Target)
			if err != nil {
				return commands.Result{}, err
			}
			steps := append(append([]string{}, t.NextSteps...), a.Text)
			return patch(t.ID, model.TaskPatch{NextSteps: steps}, "next step added to %s")
		},
		Unstep: func(a commands.UnstepArgs) (commands.Result, error) {
			t, err := resolve(a.Target)
			if err != nil {
				return commands.Result{}, err
			}
			if a.Index < 1 || a.Index > len(t.NextSteps) {
				return commands.Result{}, &commands.CommandError{
					Code:    commands.ErrCodeInvalidArgument,
					Message: fmt.Sprintf("%s has %d next steps, no step %d", t.Title, len(t.NextSteps), a.Index),
				}
			}
			steps := make([]string, 0, len(t.NextSteps)-1)
			steps = append(steps, t.NextSteps[:a.Index-1]...)
			steps = append(steps, t.NextSteps[a.Index:]...)
			return patch(t.ID, model.TaskPatch{NextSteps: steps}, "next step removed from %s")
		},
		Keep: func(a commands.KeepArgs) (commands.Result, error) {
			format := "%s will auto-clear"
			if a.Keep {
				format = "%s kept forever"
			}
			return patch(a.Target, model.TaskPatch{IsPermanent: model.Ptr(a.Keep)}, format)
		},
		Restore: func(a commands.TargetArgs) (commands.Result, error) {
			t, err := resolve(a.Target)
			if err != nil {
				return commands.Result{}, err
			}
			if err := s.Store.Restore(ctx, t.ID); err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: "restored " + t.Title}, nil
		},
		Remove: func(a commands.TargetArgs) (commands.Result, error) {
			t, err := resolve(a.Target)
			if err != nil {
				return commands.Result{}, err
			}
			if err := s.Store.Delete(ctx, t.ID); err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: "deleted " + t.Title}, nil
		},
		Capture: func(a commands.CaptureArgs) (commands.Result, error) {
			activity, err := s.Activity(a)
			if err != nil {
				return commands.Result{}, err
			}
			task, err := s.Capture(ctx, activity, nil)
			if err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: fmt.Sprintf("captured %s (%s)", task.Title, commands.ShortID(task.ID))}, nil
		},
		Report: func() (commands.Result, error) {
			return commands.Result{Message: s.Report().Text()}, nil
		},
	}
}
