package cli

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/sandeepkv93/timetable/internal/agenda"
	"github.com/sandeepkv93/timetable/internal/commands"
	"github.com/sandeepkv93/timetable/internal/model"
	"github.com/sandeepkv93/timetable/internal/nlp"
)

type addInput struct {
	text      string
	date      string
	time      string
	end       string
	note      string
	important bool
}

func newAddCmd(app *App) *cobra.Command {
	var in addInput

	cmd := &cobra.Command{
		Use:   "add [text...]",
		Short: "Add an event; times, dates and repeats are read from the text",
		Example: `  timetable add lunch with sam at 12:30 tomorrow
  timetable add standup every day --time 9:15
  timetable add --date 2026-03-01 --time 10:00 dentist`,
		RunE: func(cmd *cobra.Command, args []string) error {
			in.text = strings.TrimSpace(strings.Join(args, " "))
			if in.text == "" {
				if !app.interactive() {
					return errors.New("add: text is required")
				}
				if err := addForm(&in).Run(); err != nil {
					return err
				}
			}
			draft, err := app.buildDraft(in)
			if err != nil {
				return err
			}
			e, err := app.Store.Add(cmd.Context(), draft)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "added %s %q on %s at %s\n", e.ID, e.Title, e.Date, e.Time)
			return nil
		},
	}

	cmd.Flags().StringVar(&in.date, "date", "", "Date (YYYY-MM-DD, today, tomorrow or +N)")
	cmd.Flags().StringVar(&in.time, "time", "", "Start time (14:30, now, +15, in 2h)")
	cmd.Flags().StringVar(&in.end, "end", "", "End time")
	cmd.Flags().StringVar(&in.note, "note", "", "Note, markdown allowed")
	cmd.Flags().BoolVar(&in.important, "important", false, "Mark as important")

	return cmd
}

// buildDraft merges flags over what the extractor found in the text. Flags
// win; missing time falls back to now rounded to five minutes.
func (a *App) buildDraft(in addInput) (agenda.Draft, error) {
	now := a.now()
	x := nlp.Extract(in.text, now)
	title := x.CleanTitle
	if title == "" {
		title = in.text
	}
	d := agenda.Draft{
		Date:       x.Date,
		Time:       x.Time,
		EndTime:    x.EndTime,
		Title:      title,
		Note:       in.note,
		Important:  in.important,
		Recurrence: x.Rule(),
	}

	if in.date != "" {
		date, err := commands.ResolveDate(in.date, a.Store.Today())
		if err != nil {
			return agenda.Draft{}, err
		}
		d.Date = date
	}
	if d.Date == "" {
		d.Date = a.Store.Today()
	}
	if in.time != "" {
		t, ok := model.ParseTimeFlexible(in.time, now)
		if !ok {
			return agenda.Draft{}, fmt.Errorf("add: invalid time %q", in.time)
		}
		d.Time = t
	}
	if d.Time == "" {
		d.Time = model.ClockOf(model.RoundTo5Minutes(now))
	}
	if in.end != "" {
		t, ok := model.ParseTimeFlexible(in.end, now)
		if !ok {
			return agenda.Draft{}, fmt.Errorf("add: invalid end time %q", in.end)
		}
		d.EndTime = t
	}
	return d, nil
}

func addForm(in *addInput) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("What").
				Placeholder("lunch with sam at 12:30 tomorrow").
				Value(&in.text).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("required")
					}
					return nil
				}),
			huh.NewInput().
				Title("Date (blank to read it from the text)").
				Placeholder("tomorrow").
				Value(&in.date),
			huh.NewInput().
				Title("Time (blank to read it from the text)").
				Placeholder("14:30").
				Value(&in.time).
				Validate(validateOptionalTime),
			huh.NewText().
				Title("Note").
				Value(&in.note),
			huh.NewConfirm().
				Title("Important?").
				Value(&in.important),
		),
	).WithShowHelp(false)
}

func validateOptionalTime(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	if _, ok := model.ParseTimeFlexible(s, time.Now()); !ok {
		return errors.New("use HH:MM, now or +15")
	}
	return nil
}
