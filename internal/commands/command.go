package commands

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sandeepkv93/timetable/internal/model"
)

type Type string

const (
	TypeAdd    Type = "add"
	TypeDone   Type = "done"
	TypeDelete Type = "delete"
	TypeGoto   Type = "goto"
	TypeShift  Type = "shift"
	TypeToday  Type = "today"
	TypeWeek   Type = "week"
	TypeView   Type = "view"
	TypeMove   Type = "move"
	TypeSwap   Type = "swap"
	TypeGoal   Type = "goal"
	TypeSync   Type = "sync"
	TypeURL    Type = "url"
)

// TargetSelected refers to the instance under the cursor.
const TargetSelected = "selected"

type ErrorCode string

const (
	ErrCodeEmptyInput      ErrorCode = "empty_input"
	ErrCodeUnknownCommand  ErrorCode = "unknown_command"
	ErrCodeInvalidArgument ErrorCode = "invalid_argument"
	ErrCodeHandlerMissing  ErrorCode = "handler_missing"
)

type CommandError struct {
	Code    ErrorCode
	Message string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

type AddArgs struct {
	Text string
}

type TargetArgs struct {
	Target string
}

// GotoArgs carries a resolved date key.
type GotoArgs struct {
	Date string
}

type ShiftArgs struct {
	Days int
}

type WeekArgs struct {
	Weeks int
}

type ViewArgs struct {
	Name string
}

type MoveArgs struct {
	Target string
	Date   string
}

type SwapArgs struct {
	Dragged string
	Target  string
}

type GoalAction string

const (
	GoalAdd    GoalAction = "add"
	GoalRemove GoalAction = "rm"
)

type GoalArgs struct {
	Action GoalAction
	Month  int
	Title  string
	ID     string
}

type URLArgs struct {
	URL string
}

// Views accepted by the view command.
var Views = []string{"timeline", "grid", "week", "tasks", "planner"}

type Command struct {
	Type   Type
	Raw    string
	Add    *AddArgs
	Target *TargetArgs
	Goto   *GotoArgs
	Shift  *ShiftArgs
	Week   *WeekArgs
	View   *ViewArgs
	Move   *MoveArgs
	Swap   *SwapArgs
	Goal   *GoalArgs
	URL    *URLArgs
}

var aliases = map[string]Type{
	"a":        TypeAdd,
	"new":      TypeAdd,
	"x":        TypeDone,
	"toggle":   TypeDone,
	"rm":       TypeDelete,
	"del":      TypeDelete,
	"g":        TypeGoto,
	"go":       TypeGoto,
	"next":     TypeShift,
	"prev":     TypeShift,
	"n":        TypeShift,
	"p":        TypeShift,
	"calendar": TypeURL,
}

// Parse reads one command line. today anchors relative dates such as
// "tomorrow" and "+3".
func Parse(input string, today string) (Command, error) {
	raw := strings.TrimSpace(input)
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}
	if strings.HasPrefix(raw, "/") || strings.HasPrefix(raw, ":") {
		raw = strings.TrimSpace(raw[1:])
	}
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}

	parts := strings.Fields(raw)
	head := strings.ToLower(parts[0])
	args := parts[1:]

	typ := Type(head)
	if alias, ok := aliases[head]; ok {
		typ = alias
	}

	switch typ {
	case TypeAdd:
		return parseAdd(input, args)
	case TypeDone, TypeDelete:
		return parseTarget(input, typ, args)
	case TypeGoto:
		return parseGoto(input, args, today)
	case TypeShift:
		return parseShift(input, head, args)
	case TypeToday:
		return Command{Type: TypeToday, Raw: input}, nil
	case TypeWeek:
		return parseWeek(input, args)
	case TypeView:
		return parseView(input, args)
	case TypeMove:
		return parseMove(input, args, today)
	case TypeSwap:
		return parseSwap(input, args)
	case TypeGoal:
		return parseGoal(input, args)
	case TypeSync:
		return Command{Type: TypeSync, Raw: input}, nil
	case TypeURL:
		return parseURL(input, args)
	default:
		return Command{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unsupported command: %s", head)}
	}
}

func parseAdd(raw string, args []string) (Command, error) {
	text := strings.TrimSpace(strings.Join(args, " "))
	if text == "" {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "add requires a title"}
	}
	return Command{Type: TypeAdd, Raw: raw, Add: &AddArgs{Text: text}}, nil
}

func parseTarget(raw string, typ Type, args []string) (Command, error) {
	target := TargetSelected
	if len(args) > 0 {
		target = args[0]
	}
	return Command{Type: typ, Raw: raw, Target: &TargetArgs{Target: target}}, nil
}

func parseGoto(raw string, args []string, today string) (Command, error) {
	if len(args) == 0 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "goto requires a date"}
	}
	date, err := ResolveDate(args[0], today)
	if err != nil {
		return Command{}, err
	}
	return Command{Type: TypeGoto, Raw: raw, Goto: &GotoArgs{Date: date}}, nil
}

func parseShift(raw, head string, args []string) (Command, error) {
	n := 1
	if len(args) > 0 {
		v, err := strconv.Atoi(args[0])
		if err != nil || v <= 0 {
			return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("invalid day count: %s", args[0])}
		}
		n = v
	}
	if head == "prev" || head == "p" {
		n = -n
	}
	return Command{Type: TypeShift, Raw: raw, Shift: &ShiftArgs{Days: n}}, nil
}

func parseWeek(raw string, args []string) (Command, error) {
	weeks := 0
	if len(args) > 0 {
		switch strings.ToLower(args[0]) {
		case "next", "+":
			weeks = 1
		case "prev", "-":
			weeks = -1
		case "this":
		default:
			v, err := strconv.Atoi(args[0])
			if err != nil {
				return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("invalid week offset: %s", args[0])}
			}
			weeks = v
		}
	}
	return Command{Type: TypeWeek, Raw: raw, Week: &WeekArgs{Weeks: weeks}}, nil
}

func parseView(raw string, args []string) (Command, error) {
	if len(args) == 0 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "view requires a name"}
	}
	name := strings.ToLower(args[0])
	for _, v := range Views {
		if v == name {
			return Command{Type: TypeView, Raw: raw, View: &ViewArgs{Name: name}}, nil
		}
	}
	return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("unknown view: %s", name)}
}

func parseMove(raw string, args []string, today string) (Command, error) {
	switch len(args) {
	case 0:
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "move requires a date"}
	case 1:
		date, err := ResolveDate(args[0], today)
		if err != nil {
			return Command{}, err
		}
		return Command{Type: TypeMove, Raw: raw, Move: &MoveArgs{Target: TargetSelected, Date: date}}, nil
	default:
		date, err := ResolveDate(args[1], today)
		if err != nil {
			return Command{}, err
		}
		return Command{Type: TypeMove, Raw: raw, Move: &MoveArgs{Target: args[0], Date: date}}, nil
	}
}

func parseSwap(raw string, args []string) (Command, error) {
	switch len(args) {
	case 1:
		return Command{Type: TypeSwap, Raw: raw, Swap: &SwapArgs{Dragged: TargetSelected, Target: args[0]}}, nil
	case 2:
		return Command{Type: TypeSwap, Raw: raw, Swap: &SwapArgs{Dragged: args[0], Target: args[1]}}, nil
	default:
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "swap requires one or two event ids"}
	}
}

func parseGoal(raw string, args []string) (Command, error) {
	if len(args) == 0 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "goal requires add or rm"}
	}
	switch GoalAction(strings.ToLower(args[0])) {
	case GoalAdd:
		if len(args) < 3 {
			return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "goal add requires a month and a title"}
		}
		month, err := ParseMonth(args[1])
		if err != nil {
			return Command{}, err
		}
		return Command{Type: TypeGoal, Raw: raw, Goal: &GoalArgs{Action: GoalAdd, Month: month, Title: strings.Join(args[2:], " ")}}, nil
	case GoalRemove, "delete":
		if len(args) < 2 {
			return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "goal rm requires an id"}
		}
		return Command{Type: TypeGoal, Raw: raw, Goal: &GoalArgs{Action: GoalRemove, ID: args[1]}}, nil
	default:
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("unknown goal action: %s", args[0])}
	}
}

func parseURL(raw string, args []string) (Command, error) {
	if len(args) == 0 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "url requires a feed address or clear"}
	}
	url := args[0]
	if strings.EqualFold(url, "clear") || url == "-" {
		url = ""
	}
	return Command{Type: TypeURL, Raw: raw, URL: &URLArgs{URL: url}}, nil
}

// ResolveDate accepts a date key, today, tomorrow, yesterday or a signed
// day offset such as +3.
func ResolveDate(arg, today string) (string, error) {
	lower := strings.ToLower(strings.TrimSpace(arg))
	offset := 0
	switch {
	case model.IsDateKey(lower):
		return lower, nil
	case lower == "today":
	case lower == "tomorrow":
		offset = 1
	case lower == "yesterday":
		offset = -1
	case strings.HasPrefix(lower, "+") || strings.HasPrefix(lower, "-"):
		v, err := strconv.Atoi(lower)
		if err != nil {
			return "", &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("invalid date: %s", arg)}
		}
		offset = v
	default:
		return "", &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("invalid date: %s", arg)}
	}
	date, err := model.AddDays(today, offset)
	if err != nil {
		return "", &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("invalid anchor date: %s", today)}
	}
	return date, nil
}

// ParseMonth accepts 1-12 or an English month name and returns 0..11.
func ParseMonth(arg string) (int, error) {
	if v, err := strconv.Atoi(arg); err == nil {
		if v < 1 || v > 12 {
			return 0, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("month out of range: %s", arg)}
		}
		return v - 1, nil
	}
	lower := strings.ToLower(arg)
	for m := time.January; m <= time.December; m++ {
		name := strings.ToLower(m.String())
		if lower == name || (len(lower) >= 3 && strings.HasPrefix(name, lower)) {
			return int(m) - 1, nil
		}
	}
	return 0, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("unknown month: %s", arg)}
}
