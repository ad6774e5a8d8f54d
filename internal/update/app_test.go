package update

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/timetable/internal/agenda"
	"github.com/sandeepkv93/timetable/internal/feed"
	"github.com/sandeepkv93/timetable/internal/model"
	"github.com/sandeepkv93/timetable/internal/storage"
)

var testNow = time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC)

const testToday = "2026-02-10"

func newTestModel(t *testing.T) (Model, *agenda.Store) {
	t.Helper()
	n := 0
	store, err := agenda.Open(context.Background(), storage.NewMemoryStore(),
		agenda.WithClock(func() time.Time { return testNow }),
		agenda.WithIDGenerator(func() string {
			n++
			return fmt.Sprintf("evt-%d", n)
		}))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	return NewModel(store, nil, Options{Now: func() time.Time { return testNow }}), store
}

func addEvent(t *testing.T, store *agenda.Store, d agenda.Draft) model.Event {
	t.Helper()
	e, err := store.Add(context.Background(), d)
	if err != nil {
		t.Fatalf("add %q: %v", d.Title, err)
	}
	return e
}

func press(t *testing.T, m Model, keys ...tea.KeyMsg) Model {
	t.Helper()
	for _, k := range keys {
		updated, _ := m.Update(k)
		m = updated.(Model)
	}
	return m
}

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

var (
	enter = tea.KeyMsg{Type: tea.KeyEnter}
	tab   = tea.KeyMsg{Type: tea.KeyTab}
	space = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
)

type captureNotifier struct {
	sent []Notification
}

func (c *captureNotifier) Send(n Notification) error {
	c.sent = append(c.sent, n)
	return nil
}

func TestNewModelDefaults(t *testing.T) {
	m, _ := newTestModel(t)
	if m.CurrentView != ViewTimeline {
		t.Fatalf("expected default view %q, got %q", ViewTimeline, m.CurrentView)
	}
	if m.opts.RowsPerHour != defaultRowsPerHour || m.opts.NotifyLeadMinutes != defaultNotifyLead {
		t.Fatalf("unexpected defaults: %+v", m.opts)
	}
	if m.Keys.Quit != "q" {
		t.Fatalf("expected quit key q, got %q", m.Keys.Quit)
	}
}

func TestUpdateKeySwitchesView(t *testing.T) {
	m, _ := newTestModel(t)
	next := press(t, m, runes("3"))
	if next.CurrentView != ViewWeek {
		t.Fatalf("expected week view, got %q", next.CurrentView)
	}
	next = press(t, next, tab)
	if next.CurrentView != ViewTasks {
		t.Fatalf("expected tab to cycle to tasks, got %q", next.CurrentView)
	}
}

func TestUpdateSwitchViewMsg(t *testing.T) {
	m, _ := newTestModel(t)
	updated, _ := m.Update(SwitchViewMsg{View: ViewPlanner})
	next := updated.(Model)
	if next.CurrentView != ViewPlanner {
		t.Fatalf("expected planner view, got %q", next.CurrentView)
	}

	updated, _ = next.Update(SwitchViewMsg{View: View("Unknown")})
	next = updated.(Model)
	if next.CurrentView != ViewPlanner {
		t.Fatalf("expected view unchanged for unknown view, got %q", next.CurrentView)
	}
}

func TestUpdateStatusAndError(t *testing.T) {
	m, _ := newTestModel(t)
	updated, _ := m.Update(SetStatusMsg{Text: "ready"})
	next := updated.(Model)
	if next.Status.Text != "ready" || next.Status.IsError {
		t.Fatalf("unexpected status: %+v", next.Status)
	}

	updated, _ = next.Update(AppErrorMsg{Err: errors.New("boom")})
	next = updated.(Model)
	if next.LastError == nil || next.LastError.Error() != "boom" {
		t.Fatalf("expected last error boom, got: %v", next.LastError)
	}
	if !next.Status.IsError || next.Status.Text != "boom" {
		t.Fatalf("unexpected error status: %+v", next.Status)
	}

	updated, _ = next.Update(ClearStatusMsg{})
	next = updated.(Model)
	if next.Status.Text != "" || next.Status.IsError {
		t.Fatalf("expected cleared status, got: %+v", next.Status)
	}
}

func TestUpdateQuitKey(t *testing.T) {
	m, _ := newTestModel(t)
	updated, cmd := m.Update(runes("q"))
	next := updated.(Model)
	if !next.Quitting {
		t.Fatal("expected quitting flag true")
	}
	if cmd == nil {
		t.Fatal("expected quit command")
	}
}

func TestQuickAddUsesExtractedTime(t *testing.T) {
	m, store := newTestModel(t)
	next := press(t, m, runes("a"), runes("lunch with sam at 12:30"), enter)

	if next.QuickAdd.Active {
		t.Fatal("expected quick add to close after saving")
	}
	events := store.Events()
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	e := events[0]
	if e.Title != "lunch with sam" || e.Time != "12:30" || e.Date != testToday {
		t.Fatalf("unexpected event: %+v", e)
	}
}

func TestQuickAddFallsBackToTimeChip(t *testing.T) {
	m, store := newTestModel(t)
	next := press(t, m, runes("a"), runes("stretch"), tab, enter)
	if next.QuickAdd.Active {
		t.Fatalf("quick add still open: %+v", next.QuickAdd)
	}
	events := store.Events()
	if len(events) != 1 || events[0].Time != "09:15" {
		t.Fatalf("expected +15 chip to give 09:15, got %+v", events)
	}
}

func TestQuickAddEmptyKeepsDialogOpen(t *testing.T) {
	m, store := newTestModel(t)
	next := press(t, m, runes("a"), enter)
	if !next.QuickAdd.Active || next.QuickAdd.Err == "" {
		t.Fatalf("expected validation error, got %+v", next.QuickAdd)
	}
	if len(store.Events()) != 0 {
		t.Fatal("nothing should be stored")
	}
}

func TestEditKeepsTimeWhenTextHasNone(t *testing.T) {
	m, store := newTestModel(t)
	e := addEvent(t, store, agenda.Draft{Date: testToday, Time: "10:00", Title: "standup"})

	next := press(t, m, runes("e"))
	if next.QuickAdd.EditID != e.ID {
		t.Fatalf("expected edit of %s, got %+v", e.ID, next.QuickAdd)
	}
	next.quickAddInput.SetValue("team standup")
	next = press(t, next, enter)

	got, _ := store.Event(e.ID)
	if got.Title != "team standup" || got.Time != "10:00" {
		t.Fatalf("unexpected edit result: %+v", got)
	}
}

func TestSpaceTogglesRecurringInstanceOnly(t *testing.T) {
	m, store := newTestModel(t)
	e := addEvent(t, store, agenda.Draft{
		Date:       "2026-02-09",
		Time:       "07:00",
		Title:      "run",
		Recurrence: &model.Recurrence{Type: model.RecurrenceDaily, Interval: 1},
	})

	press(t, m, space)

	if done, _ := store.IsDoneOn(e.ID, testToday); !done {
		t.Fatal("expected today's instance to be done")
	}
	if done, _ := store.IsDoneOn(e.ID, "2026-02-11"); done {
		t.Fatal("tomorrow's instance should stay open")
	}
}

func TestImportedEntriesAreReadOnly(t *testing.T) {
	m, store := newTestModel(t)
	err := store.ReplaceImportedEvents(context.Background(), []model.ImportedEvent{
		{ID: "cal-1", Date: testToday, Time: "08:00", Title: "Lecture"},
	})
	if err != nil {
		t.Fatalf("replace imported: %v", err)
	}

	next := press(t, m, space)
	if !next.Status.IsError || !errors.Is(next.LastError, errReadOnly) {
		t.Fatalf("expected read-only error, got %+v", next.Status)
	}
}

func TestDayNavigationResetsCursor(t *testing.T) {
	m, store := newTestModel(t)
	addEvent(t, store, agenda.Draft{Date: testToday, Time: "08:00", Title: "one"})
	addEvent(t, store, agenda.Draft{Date: testToday, Time: "09:00", Title: "two"})

	next := press(t, m, runes("j"))
	if next.Cursor != 1 {
		t.Fatalf("expected cursor 1, got %d", next.Cursor)
	}
	next = press(t, next, runes("l"))
	if store.SelectedDate() != "2026-02-11" || next.Cursor != 0 {
		t.Fatalf("expected next day with cursor reset, got %s cursor %d", store.SelectedDate(), next.Cursor)
	}
	press(t, next, runes("t"))
	if store.SelectedDate() != testToday {
		t.Fatalf("expected t to return to today, got %s", store.SelectedDate())
	}
}

func TestRecurrenceEditorSavesRule(t *testing.T) {
	m, store := newTestModel(t)
	e := addEvent(t, store, agenda.Draft{Date: testToday, Time: "18:00", Title: "gym"})

	next := press(t, m, runes("r"), tab, tab)
	if next.recurrenceEditor.RuleType != model.RecurrenceWeekly {
		t.Fatalf("expected weekly after two tabs, got %q", next.recurrenceEditor.RuleType)
	}
	if len(next.recurrenceEditor.Preview) != previewCount || next.recurrenceEditor.Preview[1] != "2026-02-17" {
		t.Fatalf("unexpected preview: %v", next.recurrenceEditor.Preview)
	}
	next = press(t, next, enter)
	if next.recurrenceEditor.Active {
		t.Fatal("editor should close on save")
	}
	got, _ := store.Event(e.ID)
	if got.Recurrence == nil || got.Recurrence.Type != model.RecurrenceWeekly || got.Recurrence.Interval != 1 {
		t.Fatalf("unexpected recurrence: %+v", got.Recurrence)
	}
}

func TestRecurrenceEditorRejectsBadInterval(t *testing.T) {
	m, store := newTestModel(t)
	addEvent(t, store, agenda.Draft{Date: testToday, Time: "18:00", Title: "gym"})

	next := press(t, m, runes("r"), tab, tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeyBackspace}, enter)
	if !next.recurrenceEditor.Active || next.recurrenceEditor.Err == "" {
		t.Fatalf("expected interval error, got %+v", next.recurrenceEditor)
	}
}

func TestMoveReschedulesToTargetDay(t *testing.T) {
	m, store := newTestModel(t)
	e := addEvent(t, store, agenda.Draft{Date: testToday, Time: "14:00", Title: "dentist"})

	next := press(t, m, runes("m"), runes("l"), runes("l"), enter)
	if next.Move.Active {
		t.Fatal("move should finish")
	}
	got, _ := store.Event(e.ID)
	if got.Date != "2026-02-12" {
		t.Fatalf("expected rescheduled to 2026-02-12, got %s", got.Date)
	}
	if next.interaction.Current().Kind != agenda.InteractionNone {
		t.Fatal("interaction should reset after drop")
	}
}

func TestMoveSwapsOrderWithTarget(t *testing.T) {
	m, store := newTestModel(t)
	a := addEvent(t, store, agenda.Draft{Date: testToday, Time: "08:00", Title: "a"})
	b := addEvent(t, store, agenda.Draft{Date: testToday, Time: "08:00", Title: "b"})

	press(t, m, runes("m"), runes("j"), enter)

	ga, _ := store.Event(a.ID)
	gb, _ := store.Event(b.ID)
	if *ga.SortOrder != 1 || *gb.SortOrder != 0 {
		t.Fatalf("expected swapped orders, got a=%d b=%d", *ga.SortOrder, *gb.SortOrder)
	}
}

func TestMoveSwapSkipsOccurrencesOfOtherDays(t *testing.T) {
	m, store := newTestModel(t)
	daily := &model.Recurrence{Type: model.RecurrenceDaily, Interval: 1}
	standup := addEvent(t, store, agenda.Draft{Date: "2026-02-09", Time: "08:00", Title: "standup", Recurrence: daily})
	a := addEvent(t, store, agenda.Draft{Date: testToday, Time: "08:00", Title: "a"})
	b := addEvent(t, store, agenda.Draft{Date: testToday, Time: "08:00", Title: "b"})

	next := press(t, m, runes("j"), runes("m"), runes("j"))
	if next.Move.TargetEventID != b.ID {
		t.Fatalf("expected swap target %s, got %q", b.ID, next.Move.TargetEventID)
	}
	next = press(t, next, enter)
	if next.Status.IsError {
		t.Fatalf("unexpected error: %+v", next.Status)
	}
	ga, _ := store.Event(a.ID)
	gb, _ := store.Event(b.ID)
	if ga.SortOrder == nil || gb.SortOrder == nil || *ga.SortOrder < *gb.SortOrder {
		t.Fatalf("expected a after b, got a=%v b=%v", ga.SortOrder, gb.SortOrder)
	}

	next = press(t, next, runes("k"), runes("k"), runes("m"), runes("j"))
	if next.Move.TargetEventID != "" {
		t.Fatalf("an occurrence away from its anchor has no swap targets, got %q", next.Move.TargetEventID)
	}
	next = press(t, next, enter)
	got, _ := store.Event(standup.ID)
	if next.Status.IsError || got.Date != "2026-02-09" || *got.SortOrder != *standup.SortOrder {
		t.Fatalf("expected untouched standup, got %+v status %+v", got, next.Status)
	}
}

func TestMoveEscapeCancels(t *testing.T) {
	m, store := newTestModel(t)
	e := addEvent(t, store, agenda.Draft{Date: testToday, Time: "14:00", Title: "dentist"})

	next := press(t, m, runes("m"), runes("l"), tea.KeyMsg{Type: tea.KeyEsc})
	got, _ := store.Event(e.ID)
	if next.Move.Active || got.Date != testToday {
		t.Fatalf("expected cancelled move, got %+v date %s", next.Move, got.Date)
	}
}

func TestWeekEnterOpensDay(t *testing.T) {
	m, store := newTestModel(t)
	next := press(t, m, runes("3"))
	if next.WeekCursor != 1 {
		t.Fatalf("tuesday should be column 1, got %d", next.WeekCursor)
	}
	next = press(t, next, runes("l"), runes("l"), enter)
	if next.CurrentView != ViewTimeline || store.SelectedDate() != "2026-02-12" {
		t.Fatalf("expected timeline on 2026-02-12, got %q %s", next.CurrentView, store.SelectedDate())
	}
}

func TestWeekEdgeShiftsWeek(t *testing.T) {
	m, store := newTestModel(t)
	next := press(t, m, runes("3"), runes("h"), runes("h"))
	if store.WeekStart() != "2026-02-02" || next.WeekCursor != 6 {
		t.Fatalf("expected previous week sunday, got %s col %d", store.WeekStart(), next.WeekCursor)
	}
}

func TestTasksViewMarksOverdue(t *testing.T) {
	m, store := newTestModel(t)
	addEvent(t, store, agenda.Draft{Date: "2026-02-01", Time: "08:00", Title: "taxes"})
	addEvent(t, store, agenda.Draft{Date: "2026-02-20", Time: "08:00", Title: "trip"})

	next := press(t, m, runes("4"))
	out := next.View()
	if !strings.Contains(out, "taxes") || !strings.Contains(out, "trip") || !strings.Contains(out, "overdue") {
		t.Fatalf("unexpected tasks view: %q", out)
	}

	next = press(t, next, space)
	if items := next.taskItems(); len(items) != 1 || items[0].Title != "trip" {
		t.Fatalf("expected only trip left, got %+v", items)
	}
}

func TestPlannerAddsGoalForNamedMonth(t *testing.T) {
	m, store := newTestModel(t)
	next := press(t, m, runes("5"), runes("a"), runes("mar run a 10k"), enter)
	if next.Planner.Adding {
		t.Fatal("goal input should close")
	}
	goals := store.Goals()
	if len(goals) != 1 || goals[0].Month != 2 || goals[0].Title != "run a 10k" {
		t.Fatalf("unexpected goals: %+v", goals)
	}

	press(t, next, runes("d"))
	if len(store.Goals()) != 0 {
		t.Fatal("expected goal removed")
	}
}

func TestPaletteGotoAndAdd(t *testing.T) {
	m, store := newTestModel(t)
	next := press(t, m, runes(":"), runes("goto 2026-03-01"), enter)
	if next.Palette.Active || store.SelectedDate() != "2026-03-01" {
		t.Fatalf("expected goto applied, got %s status %+v", store.SelectedDate(), next.Status)
	}

	next = press(t, next, runes(":"), runes("add call mom at 7pm"), enter)
	events := store.Events()
	if len(events) != 1 || events[0].Date != "2026-03-01" || events[0].Time != "19:00" {
		t.Fatalf("unexpected palette add: %+v status %+v", events, next.Status)
	}
}

func TestPaletteUnknownCommandShowsError(t *testing.T) {
	m, _ := newTestModel(t)
	next := press(t, m, runes(":"), runes("fly away"), enter)
	if !next.Status.IsError {
		t.Fatalf("expected error status, got %+v", next.Status)
	}
}

func TestSyncKeyWithoutSyncer(t *testing.T) {
	m, _ := newTestModel(t)
	updated, cmd := m.Update(runes("S"))
	next := updated.(Model)
	if cmd != nil || !errors.Is(next.LastError, errSyncUnavailable) {
		t.Fatalf("expected sync unavailable, got %v", next.LastError)
	}
}

func TestSyncResultUpdatesState(t *testing.T) {
	m, _ := newTestModel(t)
	m.Sync.Running = true
	updated, _ := m.Update(SyncResultMsg{Status: feed.Status{Outcome: feed.OK, Imported: 3, At: testNow}})
	next := updated.(Model)
	if next.Sync.Running || !next.Sync.HasRun || next.Sync.Last.Imported != 3 {
		t.Fatalf("unexpected sync state: %+v", next.Sync)
	}
	if !strings.Contains(next.renderSyncLine(), "3 event(s)") {
		t.Fatalf("unexpected sync line: %q", next.renderSyncLine())
	}
}

func TestTickAnnouncesStartingSoonOnce(t *testing.T) {
	m, store := newTestModel(t)
	m.opts.DesktopNotifications = true
	notifier := &captureNotifier{}
	m = m.WithNotifier(notifier)
	addEvent(t, store, agenda.Draft{Date: testToday, Time: "09:05", Title: "call"})
	addEvent(t, store, agenda.Draft{Date: testToday, Time: "11:00", Title: "later"})

	updated, cmd := m.Update(TickMsg{At: testNow})
	next := updated.(Model)
	if cmd == nil {
		t.Fatal("expected next tick to be scheduled")
	}
	updated, _ = next.Update(TickMsg{At: testNow.Add(time.Minute)})
	next = updated.(Model)

	if len(notifier.sent) != 1 || !strings.Contains(notifier.sent[0].Body, "call") {
		t.Fatalf("expected one desktop notice for call, got %+v", notifier.sent)
	}
}

func TestViewRendersTimeline(t *testing.T) {
	m, store := newTestModel(t)
	addEvent(t, store, agenda.Draft{Date: testToday, Time: "10:00", EndTime: "11:30", Title: "review", Note: "bring **notes**"})
	m.Status = StatusBar{Text: "all good"}

	out := m.View()
	for _, want := range []string{"Timeline", "10:00-11:30 review", "all good", "Tue 10 Feb"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output: %q", want, out)
		}
	}
}

func TestGridViewShowsNowMarker(t *testing.T) {
	m, store := newTestModel(t)
	addEvent(t, store, agenda.Draft{Date: testToday, Time: "06:00", Title: "early"})

	out := press(t, m, runes("2")).View()
	if !strings.Contains(out, "06:00") || !strings.Contains(out, "-- now --") {
		t.Fatalf("expected grid to extend to 06:00 with now marker: %q", out)
	}
}
