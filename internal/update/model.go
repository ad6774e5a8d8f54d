package update

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	"go.uber.org/zap"

	"github.com/sandeepkv93/timetable/internal/agenda"
	"github.com/sandeepkv93/timetable/internal/feed"
	"github.com/sandeepkv93/timetable/internal/logging"
	"github.com/sandeepkv93/timetable/internal/model"
	"github.com/sandeepkv93/timetable/internal/scheduler"
)

type View string

const (
	ViewTimeline View = "Timeline"
	ViewGrid     View = "Grid"
	ViewWeek     View = "Week"
	ViewTasks    View = "Tasks"
	ViewPlanner  View = "Planner"
)

var viewOrder = []View{ViewTimeline, ViewGrid, ViewWeek, ViewTasks, ViewPlanner}

type StatusBar struct {
	Text    string
	IsError bool
}

type GlobalKeyMap struct {
	Timeline string
	Grid     string
	Week     string
	Tasks    string
	Planner  string
	Help     string
	Quit     string
}

// Options tunes the TUI. Zero values fall back to defaults.
type Options struct {
	Order                scheduler.Order
	RowsPerHour          int
	NotifyLeadMinutes    int
	DesktopNotifications bool
	Now                  func() time.Time
	Logger               *zap.Logger
}

const (
	defaultRowsPerHour   = 2
	defaultNotifyLead    = 10
	maxNotifications     = 40
	titleSuggestionLimit = 10
	upcomingLimit        = 8
	previewCount         = 5
)

type Model struct {
	CurrentView View
	Cursor      int
	WeekCursor  int
	Status      StatusBar
	Keys        GlobalKeyMap
	HelpVisible bool
	Quitting    bool
	LastError   error

	Notifications []Notification
	Palette       CommandPaletteState
	QuickAdd      QuickAddState
	Move          MoveState
	Planner       PlannerState
	Sync          SyncState

	recurrenceEditor RecurrenceEditorState

	store       *agenda.Store
	syncer      *feed.Syncer
	interaction *agenda.Interaction
	notifier    DesktopNotifier
	announced   map[string]bool
	opts        Options
	ctx         context.Context
	log         *zap.Logger

	width  int
	height int

	quickAddInput textinput.Model
	commandInput  textinput.Model
	goalInput     textinput.Model
	dayProgress   progress.Model
	syncSpinner   spinner.Model
	helpModel     help.Model
	noteViewport  viewport.Model
	noteSource    string
}

type CommandPaletteState struct {
	Active bool
	Input  string
}

// QuickAddState also serves the edit dialog when EditID is set.
type QuickAddState struct {
	Active bool
	Input  string
	Chip   int
	Err    string
	EditID string
}

type RecurrenceEditorState struct {
	Active       bool
	EventID      string
	Title        string
	RuleType     model.RecurrenceType
	IntervalText string
	EndDate      string
	Field        int
	Preview      []string
	Err          string
}

type MoveState struct {
	Active        bool
	EventID       string
	Title         string
	From          string
	Target        string
	TargetEventID string
}

type PlannerState struct {
	Cursor int
	Adding bool
}

type SyncState struct {
	Running bool
	HasRun  bool
	Last    feed.Status
}

type Notification struct {
	Title string
	Body  string
	Level string
	At    time.Time
}

type DesktopNotifier interface {
	Send(Notification) error
}

type NoopDesktopNotifier struct{}

func (NoopDesktopNotifier) Send(Notification) error { return nil }

type ExecDesktopNotifier struct{}

func (ExecDesktopNotifier) Send(n Notification) error {
	switch runtime.GOOS {
	case "linux":
		return exec.Command("notify-send", n.Title, n.Body).Run()
	case "darwin":
		script := fmt.Sprintf(`display notification "%s" with title "%s"`, escapeAppleScript(n.Body), escapeAppleScript(n.Title))
		return exec.Command("osascript", "-e", script).Run()
	default:
		return nil
	}
}

type SwitchViewMsg struct {
	View View
}

type SetStatusMsg struct {
	Text    string
	IsError bool
}

type ClearStatusMsg struct{}

type AppErrorMsg struct {
	Err error
}

// TickMsg drives the day rollover check and starting-soon notices.
type TickMsg struct {
	At time.Time
}

// SyncResultMsg carries a finished feed sync, from a key press or the
// background runner.
type SyncResultMsg struct {
	Status feed.Status
}

// NewModel builds the TUI over store. syncer may be nil when calendar
// sync is not configured.
func NewModel(store *agenda.Store, syncer *feed.Syncer, opts Options) Model {
	if opts.RowsPerHour <= 0 {
		opts.RowsPerHour = defaultRowsPerHour
	}
	if opts.NotifyLeadMinutes <= 0 {
		opts.NotifyLeadMinutes = defaultNotifyLead
	}
	if opts.Order == "" {
		opts.Order = scheduler.OrderTime
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	m := Model{
		CurrentView: ViewTimeline,
		Keys: GlobalKeyMap{
			Timeline: "1",
			Grid:     "2",
			Week:     "3",
			Tasks:    "4",
			Planner:  "5",
			Help:     "?",
			Quit:     "q",
		},
		store:       store,
		syncer:      syncer,
		interaction: &agenda.Interaction{},
		notifier:    NoopDesktopNotifier{},
		announced:   make(map[string]bool),
		opts:        opts,
		ctx:         context.Background(),
		log:         logging.OrNop(opts.Logger),
		recurrenceEditor: RecurrenceEditorState{
			RuleType:     model.RecurrenceDaily,
			IntervalText: "1",
		},
	}
	if opts.DesktopNotifications {
		m.notifier = ExecDesktopNotifier{}
	}
	m.initBubbleComponents()
	m.syncBubbleData()
	return m
}

// WithNotifier swaps the desktop notifier; tests use it to capture sends.
func (m Model) WithNotifier(n DesktopNotifier) Model {
	if n != nil {
		m.notifier = n
	}
	return m
}

func (m *Model) initBubbleComponents() {
	m.quickAddInput = textinput.New()
	m.quickAddInput.Prompt = "add> "
	m.quickAddInput.Placeholder = "lunch with sam at 12:30 tomorrow"
	m.quickAddInput.CharLimit = 256
	m.quickAddInput.Width = 48
	m.quickAddInput.ShowSuggestions = true

	m.commandInput = textinput.New()
	m.commandInput.Prompt = ":"
	m.commandInput.CharLimit = 256
	m.commandInput.Width = 48

	m.goalInput = textinput.New()
	m.goalInput.Prompt = "goal> "
	m.goalInput.Placeholder = "mar run a 10k"
	m.goalInput.CharLimit = 200
	m.goalInput.Width = 40

	m.dayProgress = progress.New(progress.WithDefaultGradient(), progress.WithWidth(20), progress.WithoutPercentage())

	m.syncSpinner = spinner.New()
	m.syncSpinner.Spinner = spinner.Dot

	m.helpModel = help.New()
	m.noteViewport = viewport.New(48, 10)
}

func (m Model) now() time.Time {
	return m.opts.Now()
}

func (m Model) planOptions() scheduler.Options {
	return scheduler.Options{Order: m.opts.Order}
}
