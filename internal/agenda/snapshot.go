package agenda

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/sandeepkv93/timetable/internal/model"
)

const snapshotVersion = 1

type snapshot struct {
	Version        int             `json:"version"`
	ExportedAt     time.Time       `json:"exportedAt"`
	Events         json.RawMessage `json:"events"`
	MonthlyGoals   json.RawMessage `json:"monthlyGoals"`
	ImportedEvents json.RawMessage `json:"importedEvents"`
	RecurrenceDone json.RawMessage `json:"recurrenceDone"`
	SelectedDate   string          `json:"selectedDate"`
	WeekStart      string          `json:"weekStart"`
	CalendarURL    string          `json:"calendarUrl"`
}

// Export writes every collection to path atomically.
func (s *Store) Export(path string) error {
	s.mu.RLock()
	snap := snapshot{
		Version:      snapshotVersion,
		ExportedAt:   s.now().UTC(),
		SelectedDate: s.selectedDate,
		WeekStart:    s.weekStart,
		CalendarURL:  s.calendarURL,
	}
	sections := []struct {
		dst *json.RawMessage
		v   any
	}{
		{&snap.Events, s.events},
		{&snap.MonthlyGoals, s.goals},
		{&snap.ImportedEvents, s.imported},
		{&snap.RecurrenceDone, s.done},
	}
	var err error
	for _, sec := range sections {
		if *sec.dst, err = json.Marshal(sec.v); err != nil {
			break
		}
	}
	s.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("agenda: encode snapshot: %w", err)
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("agenda: encode snapshot: %w", err)
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// Import replaces every collection with the snapshot at path, normalizing
// records the same way Open does. Corrupt sections become empty.
func (s *Store) Import(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("%w: snapshot: %v", model.ErrMalformedPayload, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	defaults := s.decodeDefaults()

	events, err := model.DecodeEvents(snap.Events, defaults)
	s.recovered(KeyEvents, err)
	goals, err := model.DecodeGoals(snap.MonthlyGoals, defaults)
	s.recovered(KeyMonthlyGoals, err)
	imported, err := model.DecodeImported(snap.ImportedEvents)
	s.recovered(KeyImportedEvents, err)
	if err != nil {
		imported = []model.ImportedEvent{}
	}
	done, err := model.DecodeCompletion(snap.RecurrenceDone)
	s.recovered(KeyRecurrenceDone, err)

	selected := snap.SelectedDate
	if !model.IsDateKey(selected) {
		selected = s.today
	}
	weekStart, err := model.WeekStart(snap.WeekStart)
	if err != nil {
		weekStart, _ = model.WeekStart(s.today)
	}

	writes := []struct {
		key string
		v   any
	}{
		{KeyEvents, events},
		{KeyMonthlyGoals, goals},
		{KeyImportedEvents, imported},
		{KeyRecurrenceDone, done},
		{KeySelectedDate, selected},
		{KeyWeekStart, weekStart},
		{KeyCalendarURL, snap.CalendarURL},
	}
	for _, w := range writes {
		if err := s.put(ctx, w.key, w.v); err != nil {
			return err
		}
	}

	s.events, s.goals, s.imported, s.done = events, goals, imported, done
	s.selectedDate, s.weekStart, s.calendarURL = selected, weekStart, snap.CalendarURL
	s.log.Info("snapshot_imported", zap.String("path", path), zap.Int("events", len(events)))
	return nil
}
