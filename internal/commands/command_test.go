package commands

import (
	"errors"
	"testing"
)

const today = "2026-02-10"

func TestParseSupportedCommands(t *testing.T) {
	cases := []struct {
		in       string
		typeWant Type
	}{
		{"/add lunch at 12:30 tomorrow", TypeAdd},
		{":done", TypeDone},
		{"x evt-1", TypeDone},
		{"rm evt-1", TypeDelete},
		{"goto 2026-03-01", TypeGoto},
		{"next 3", TypeShift},
		{"today", TypeToday},
		{"week next", TypeWeek},
		{"view grid", TypeView},
		{"move tomorrow", TypeMove},
		{"swap a b", TypeSwap},
		{"goal add march Run a 10k", TypeGoal},
		{"sync", TypeSync},
		{"url webcal://example.com/a.ics", TypeURL},
	}

	for _, tc := range cases {
		cmd, err := Parse(tc.in, today)
		if err != nil {
			t.Fatalf("parse %q failed: %v", tc.in, err)
		}
		if cmd.Type != tc.typeWant {
			t.Fatalf("parse %q type = %s, want %s", tc.in, cmd.Type, tc.typeWant)
		}
	}
}

func TestParseArguments(t *testing.T) {
	cmd, _ := Parse("done", today)
	if cmd.Target.Target != TargetSelected {
		t.Fatalf("done without id should target selection, got %q", cmd.Target.Target)
	}

	cmd, _ = Parse("prev 2", today)
	if cmd.Shift.Days != -2 {
		t.Fatalf("prev 2 = %d days, want -2", cmd.Shift.Days)
	}

	cmd, _ = Parse("move evt-9 +3", today)
	if cmd.Move.Target != "evt-9" || cmd.Move.Date != "2026-02-13" {
		t.Fatalf("unexpected move args: %+v", cmd.Move)
	}

	cmd, _ = Parse("goal add 12 Ship it", today)
	if cmd.Goal.Month != 11 || cmd.Goal.Title != "Ship it" {
		t.Fatalf("unexpected goal args: %+v", cmd.Goal)
	}

	cmd, _ = Parse("url clear", today)
	if cmd.URL.URL != "" {
		t.Fatalf("url clear should empty the url, got %q", cmd.URL.URL)
	}
}

func TestParseInvalidArguments(t *testing.T) {
	for _, in := range []string{"add", "goto someday", "next zero", "view calendar", "swap", "goal add 13 x", "goal", "url", ""} {
		_, err := Parse(in, today)
		if err == nil {
			t.Fatalf("expected error for %q", in)
		}
		var ce *CommandError
		if !errors.As(err, &ce) {
			t.Fatalf("expected command error for %q, got %v", in, err)
		}
	}
}

func TestParseUnknownCommand(t *testing.T) {
	_, err := Parse("/unknown do x", today)
	if err == nil {
		t.Fatal("expected error")
	}
	var ce *CommandError
	if !errors.As(err, &ce) || ce.Code != ErrCodeUnknownCommand {
		t.Fatalf("expected unknown command error, got %v", err)
	}
}

func TestResolveDate(t *testing.T) {
	cases := map[string]string{
		"today":      "2026-02-10",
		"Tomorrow":   "2026-02-11",
		"yesterday":  "2026-02-09",
		"-10":        "2026-01-31",
		"2027-01-01": "2027-01-01",
	}
	for in, want := range cases {
		got, err := ResolveDate(in, today)
		if err != nil || got != want {
			t.Fatalf("ResolveDate(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
}

func TestParseMonth(t *testing.T) {
	for in, want := range map[string]int{"1": 0, "sep": 8, "December": 11} {
		got, err := ParseMonth(in)
		if err != nil || got != want {
			t.Fatalf("ParseMonth(%q) = %d, %v; want %d", in, got, err, want)
		}
	}
	if _, err := ParseMonth("ju"); err == nil {
		t.Fatal("ambiguous short month should fail")
	}
}

func TestExecuteDispatch(t *testing.T) {
	cmd, err := Parse("/add write docs", today)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	called := false
	res, err := Execute(cmd, Handlers{
		Add: func(a AddArgs) (Result, error) {
			called = true
			if a.Text != "write docs" {
				t.Fatalf("unexpected text: %q", a.Text)
			}
			return Result{Message: "ok"}, nil
		},
	})
	if err != nil {
		t.Fatalf("execute failed: %v", err)
	}
	if !called || res.Message != "ok" {
		t.Fatalf("dispatch failed, called=%v res=%+v", called, res)
	}
}

func TestExecuteMissingHandler(t *testing.T) {
	cmd, err := Parse("sync", today)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	_, err = Execute(cmd, Handlers{})
	if err == nil {
		t.Fatal("expected error")
	}
	var ce *CommandError
	if !errors.As(err, &ce) || ce.Code != ErrCodeHandlerMissing {
		t.Fatalf("expected missing handler error, got %v", err)
	}
}
