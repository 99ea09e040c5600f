package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sandeepkv93/focusflow/internal/capture"
	"github.com/sandeepkv93/focusflow/internal/model"
)

type Type string

const (
	TypeAdd     Type = "add"
	TypeStart   Type = "start"
	TypeTodo    Type = "todo"
	TypeDone    Type = "done"
	TypeDue     Type = "due"
	TypeRemind  Type = "remind"
	TypeRename  Type = "rename"
	TypeStep    Type = "step"
	TypeUnstep  Type = "unstep"
	TypeKeep    Type = "keep"
	TypeUnkeep  Type = "unkeep"
	TypeRestore Type = "restore"
	TypeRemove  Type = "rm"
	TypeCapture Type = "capture"
	TypeReport  Type = "report"
)

type ErrorCode string

const (
	ErrCodeEmptyInput      ErrorCode = "empty_input"
	ErrCodeUnknownCommand  ErrorCode = "unknown_command"
	ErrCodeInvalidArgument ErrorCode = "invalid_argument"
	ErrCodeHandlerMissing  ErrorCode = "handler_missing"
	ErrCodeNotFound        ErrorCode = "not_found"
	ErrCodeAmbiguous       ErrorCode = "ambiguous_target"
)

type CommandError struct {
	Code    ErrorCode
	Message string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func invalid(format string, args ...any) error {
	return &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf(format, args...)}
}

// AddArgs carries the optional due:, at: and cat: modifiers. An empty
// DueDate means today.
type AddArgs struct {
	Title        string
	DueDate      string
	ReminderTime *string
	Category     *model.Category
}

type StatusArgs struct {
	Target string
	Status model.Status
}

type DueArgs struct {
	Target string
	Day    model.Day
}

// RemindArgs clears the reminder when Time is nil.
type RemindArgs struct {
	Target string
	Time   *string
}

type RenameArgs struct {
	Target string
	Title  string
}

type StepArgs struct {
	Target string
	Text   string
}

// UnstepArgs removes the Index-th next step, counted from 1 as listed.
type UnstepArgs struct {
	Target string
	Index  int
}

type KeepArgs struct {
	Target string
	Keep   bool
}

type TargetArgs struct {
	Target string
}

// CaptureArgs carries either an activity description or a file Path to
// describe at execution time.
type CaptureArgs struct {
	Activity string
	Path     string
}

type Command struct {
	Type    Type
	Raw     string
	Add     *AddArgs
	Status  *StatusArgs
	Due     *DueArgs
	Remind  *RemindArgs
	Rename  *RenameArgs
	Step    *StepArgs
	Unstep  *UnstepArgs
	Keep    *KeepArgs
	Target  *TargetArgs
	Capture *CaptureArgs
}

func Parse(input string) (Command, error) {
	raw := strings.TrimSpace(input)
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}
	if strings.HasPrefix(raw, "/") {
		raw = strings.TrimSpace(strings.TrimPrefix(raw, "/"))
	}
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}

	parts := strings.Fields(raw)
	head := strings.ToLower(parts[0])
	args := parts[1:]

	switch Type(head) {
	case TypeAdd:
		return parseAdd(input, args)
	case TypeStart:
		return parseStatus(input, TypeStart, model.StatusInProgress, args)
	case TypeTodo:
		return parseStatus(input, TypeTodo, model.StatusTodo, args)
	case TypeDone:
		return parseStatus(input, TypeDone, model.StatusCompleted, args)
	case TypeDue:
		return parseDue(input, args)
	case TypeRemind:
		return parseRemind(input, args)
	case TypeRename, "title":
		return parseRename(input, args)
	case TypeStep:
		return parseStep(input, args)
	case TypeUnstep:
		return parseUnstep(input, args)
	case TypeKeep, TypeUnkeep:
		if len(args) != 1 {
			return Command{}, invalid("%s requires a task", head)
		}
		return Command{Type: Type(head), Raw: input, Keep: &KeepArgs{Target: args[0], Keep: Type(head) == TypeKeep}}, nil
	case TypeRestore, TypeRemove, "delete":
		if len(args) != 1 {
			return Command{}, invalid("%s requires a task", head)
		}
		t := Type(head)
		if head == "delete" {
			t = TypeRemove
		}
		return Command{Type: t, Raw: input, Target: &TargetArgs{Target: args[0]}}, nil
	case TypeCapture:
		return parseCapture(input, args)
	case TypeReport:
		return Command{Type: TypeReport, Raw: input}, nil
	default:
		return Command{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unsupported command: %s", head)}
	}
}

func parseAdd(raw string, args []string) (Command, error) {
	out := AddArgs{}
	title := make([]string, 0, len(args))
	for _, arg := range args {
		key, value, found := strings.Cut(arg, ":")
		switch {
		case found && strings.EqualFold(key, "due"):
			day, err := model.ParseDay(value)
			if err != nil {
				return Command{}, invalid("due: expects YYYY-MM-DD, got %q", value)
			}
			out.DueDate = day.String()
		case found && strings.EqualFold(key, "at"):
			at, err := model.ParseReminderTime(value)
			if err != nil {
				return Command{}, invalid("at: expects HH:MM, got %q", value)
			}
			out.ReminderTime = &at
		case found && strings.EqualFold(key, "cat"):
			c, err := model.ParseCategory(value)
			if err != nil {
				return Command{}, invalid("cat: expects work or personal, got %q", value)
			}
			out.Category = &c
		default:
			title = append(title, arg)
		}
	}
	out.Title = strings.TrimSpace(strings.Join(title, " "))
	if out.Title == "" {
		return Command{}, invalid("add requires a title")
	}
	return Command{Type: TypeAdd, Raw: raw, Add: &out}, nil
}

func parseStatus(raw string, t Type, status model.Status, args []string) (Command, error) {
	if len(args) != 1 {
		return Command{}, invalid("%s requires a task", t)
	}
	return Command{Type: t, Raw: raw, Status: &StatusArgs{Target: args[0], Status: status}}, nil
}

func parseDue(raw string, args []string) (Command, error) {
	if len(args) != 2 {
		return Command{}, invalid("due requires a task and a date")
	}
	day, err := model.ParseDay(args[1])
	if err != nil {
		return Command{}, invalid("due expects YYYY-MM-DD, got %q", args[1])
	}
	return Command{Type: TypeDue, Raw: raw, Due: &DueArgs{Target: args[0], Day: day}}, nil
}

func parseRemind(raw string, args []string) (Command, error) {
	if len(args) != 2 {
		return Command{}, invalid("remind requires a task and HH:MM or off")
	}
	out := RemindArgs{Target: args[0]}
	if !strings.EqualFold(args[1], "off") {
		at, err := model.ParseReminderTime(args[1])
		if err != nil {
			return Command{}, invalid("remind expects HH:MM or off, got %q", args[1])
		}
		out.Time = &at
	}
	return Command{Type: TypeRemind, Raw: raw, Remind: &out}, nil
}

func parseStep(raw string, args []string) (Command, error) {
	if len(args) < 2 {
		return Command{}, invalid("step requires a task and text")
	}
	return Command{Type: TypeStep, Raw: raw, Step: &StepArgs{Target: args[0], Text: strings.Join(args[1:], " ")}}, nil
}

func parseRename(raw string, args []string) (Command, error) {
	if len(args) < 2 {
		return Command{}, invalid("rename requires a task and a title")
	}
	return Command{Type: TypeRename, Raw: raw, Rename: &RenameArgs{Target: args[0], Title: strings.Join(args[1:], " ")}}, nil
}

func parseUnstep(raw string, args []string) (Command, error) {
	if len(args) != 2 {
		return Command{}, invalid("unstep requires a task and a step number")
	}
	n, err := strconv.Atoi(args[1])
	if err != nil || n < 1 {
		return Command{}, invalid("unstep expects a step number from 1, got %q", args[1])
	}
	return Command{Type: TypeUnstep, Raw: raw, Unstep: &UnstepArgs{Target: args[0], Index: n}}, nil
}

func parseCapture(raw string, args []string) (Command, error) {
	if len(args) == 0 {
		return Command{}, invalid("capture requires file, web, path:<file> or a description")
	}
	activity := strings.Join(args, " ")
	if key, value, found := strings.Cut(activity, ":"); found && strings.EqualFold(key, "path") {
		path := strings.TrimSpace(value)
		if path == "" {
			return Command{}, invalid("capture path: requires a file")
		}
		return Command{Type: TypeCapture, Raw: raw, Capture: &CaptureArgs{Path: path}}, nil
	}
	if len(args) == 1 {
		if preset, ok := capture.Preset(args[0]); ok {
			activity = preset
		}
	}
	return Command{Type: TypeCapture, Raw: raw, Capture: &CaptureArgs{Activity: activity}}, nil
}
