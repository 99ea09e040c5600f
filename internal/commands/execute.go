package commands

import "fmt"

type Result struct {
	Message string
}

type Handlers struct {
	Add       func(AddArgs) (Result, error)
	SetStatus func(StatusArgs) (Result, error)
	Due       func(DueArgs) (Result, error)
	Remind    func(RemindArgs) (Result, error)
	Rename    func(RenameArgs) (Result, error)
	Step      func(StepArgs) (Result, error)
	Unstep    func(UnstepArgs) (Result, error)
	Keep      func(KeepArgs) (Result, error)
	Restore   func(TargetArgs) (Result, error)
	Remove    func(TargetArgs) (Result, error)
	Capture   func(CaptureArgs) (Result, error)
	Report    func() (Result, error)
}

func missing(name string) error {
	return &CommandError{Code: ErrCodeHandlerMissing, Message: name + " handler not configured"}
}

func Execute(cmd Command, handlers Handlers) (Result, error) {
	switch cmd.Type {
	case TypeAdd:
		if handlers.Add == nil {
			return Result{}, missing("add")
		}
		return handlers.Add(*cmd.Add)
	case TypeStart, TypeTodo, TypeDone:
		if handlers.SetStatus == nil {
			return Result{}, missing("status")
		}
		return handlers.SetStatus(*cmd.Status)
	case TypeDue:
		if handlers.Due == nil {
			return Result{}, missing("due")
		}
		return handlers.Due(*cmd.Due)
	case TypeRemind:
		if handlers.Remind == nil {
			return Result{}, missing("remind")
		}
		return handlers.Remind(*cmd.Remind)
	case TypeRename:
		if handlers.Rename == nil {
			return Result{}, missing("rename")
		}
		return handlers.Rename(*cmd.Rename)
	case TypeStep:
		if handlers.Step == nil {
			return Result{}, missing("step")
		}
		return handlers.Step(*cmd.Step)
	case TypeUnstep:
		if handlers.Unstep == nil {
			return Result{}, missing("unstep")
		}
		return handlers.Unstep(*cmd.Unstep)
	case TypeKeep, TypeUnkeep:
		if handlers.Keep == nil {
			return Result{}, missing("keep")
		}
		return handlers.Keep(*cmd.Keep)
	case TypeRestore:
		if handlers.Restore == nil {
			return Result{}, missing("restore")
		}
		return handlers.Restore(*cmd.Target)
	case TypeRemove:
		if handlers.Remove == nil {
			return Result{}, missing("rm")
		}
		return handlers.Remove(*cmd.Target)
	case TypeCapture:
		if handlers.Capture == nil {
			return Result{}, missing("capture")
		}
		return handlers.Capture(*cmd.Capture)
	case TypeReport:
		if handlers.Report == nil {
			return Result{}, missing("report")
		}
		return handlers.Report()
	default:
		return Result{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unknown command type: %s", cmd.Type)}
	}
}
