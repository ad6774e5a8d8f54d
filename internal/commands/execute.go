package commands

import "fmt"

type Result struct {
	Message string
}

type Handlers struct {
	Add    func(AddArgs) (Result, error)
	Done   func(TargetArgs) (Result, error)
	Delete func(TargetArgs) (Result, error)
	Goto   func(GotoArgs) (Result, error)
	Shift  func(ShiftArgs) (Result, error)
	Today  func() (Result, error)
	Week   func(WeekArgs) (Result, error)
	View   func(ViewArgs) (Result, error)
	Move   func(MoveArgs) (Result, error)
	Swap   func(SwapArgs) (Result, error)
	Goal   func(GoalArgs) (Result, error)
	Sync   func() (Result, error)
	URL    func(URLArgs) (Result, error)
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
	case TypeDone:
		if handlers.Done == nil {
			return Result{}, missing("done")
		}
		return handlers.Done(*cmd.Target)
	case TypeDelete:
		if handlers.Delete == nil {
			return Result{}, missing("delete")
		}
		return handlers.Delete(*cmd.Target)
	case TypeGoto:
		if handlers.Goto == nil {
			return Result{}, missing("goto")
		}
		return handlers.Goto(*cmd.Goto)
	case TypeShift:
		if handlers.Shift == nil {
			return Result{}, missing("shift")
		}
		return handlers.Shift(*cmd.Shift)
	case TypeToday:
		if handlers.Today == nil {
			return Result{}, missing("today")
		}
		return handlers.Today()
	case TypeWeek:
		if handlers.Week == nil {
			return Result{}, missing("week")
		}
		return handlers.Week(*cmd.Week)
	case TypeView:
		if handlers.View == nil {
			return Result{}, missing("view")
		}
		return handlers.View(*cmd.View)
	case TypeMove:
		if handlers.Move == nil {
			return Result{}, missing("move")
		}
		return handlers.Move(*cmd.Move)
	case TypeSwap:
		if handlers.Swap == nil {
			return Result{}, missing("swap")
		}
		return handlers.Swap(*cmd.Swap)
	case TypeGoal:
		if handlers.Goal == nil {
			return Result{}, missing("goal")
		}
		return handlers.Goal(*cmd.Goal)
	case TypeSync:
		if handlers.Sync == nil {
			return Result{}, missing("sync")
		}
		return handlers.Sync()
	case TypeURL:
		if handlers.URL == nil {
			return Result{}, missing("url")
		}
		return handlers.URL(*cmd.URL)
	default:
		return Result{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unknown command type: %s", cmd.Type)}
	}
}
