package model

import (
	"errors"
	"testing"
)

func TestEventValidateSuccess(t *testing.T) {
	e := Event{ID: "evt-1", Date: "2026-02-09", Time: "09:00", EndTime: "10:00", Title: "Review"}
	if err := e.Validate(); err != nil {
		t.Fatalf("expected valid event, got error: %v", err)
	}
}

func TestEventValidateRejectsBadTime(t *testing.T) {
	e := Event{ID: "evt-1", Date: "2026-02-09", Time: "9:00", Title: "Review"}
	if err := e.Validate(); !errors.Is(err, ErrInvalidTime) {
		t.Fatalf("expected ErrInvalidTime, got %v", err)
	}
	e.Time = "24:00"
	if err := e.Validate(); !errors.Is(err, ErrInvalidTime) {
		t.Fatalf("expected ErrInvalidTime, got %v", err)
	}
}

func TestEventValidateRequiresTitle(t *testing.T) {
	e := Event{ID: "evt-1", Date: "2026-02-09", Time: "09:00", Title: "  "}
	err := e.Validate()
	if err == nil || err.Error() != "model: event title is required" {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestEndTimeBeforeStartIsAccepted(t *testing.T) {
	e := Event{ID: "evt-1", Date: "2026-02-09", Time: "18:00", EndTime: "09:00", Title: "Late"}
	if err := e.Validate(); err != nil {
		t.Fatalf("end before start should not be rejected: %v", err)
	}
}

func TestImportedEventAsInstance(t *testing.T) {
	inst := ImportedEvent{ID: "ics-1", Date: "2026-02-09", Time: "08:00", Title: "Class"}.AsInstance()
	if !inst.Imported || inst.InstanceDate != "2026-02-09" || inst.IsRecurring() {
		t.Fatalf("unexpected instance: %+v", inst)
	}
}

func TestGoalValidateMonthRange(t *testing.T) {
	g := MonthlyGoal{ID: "g", Month: 12, Title: "Run"}
	if err := g.Validate(); !errors.Is(err, ErrInvalidMonth) {
		t.Fatalf("expected ErrInvalidMonth, got %v", err)
	}
}

func TestCompletionKey(t *testing.T) {
	if got := CompletionKey("abc", "2026-02-01"); got != "abc:2026-02-01" {
		t.Fatalf("unexpected key %q", got)
	}
}
