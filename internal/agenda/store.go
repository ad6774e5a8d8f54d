package agenda

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sandeepkv93/timetable/internal/logging"
	"github.com/sandeepkv93/timetable/internal/model"
	"github.com/sandeepkv93/timetable/internal/storage"
)

// Persisted collection keys.
const (
	KeyEvents         = "events"
	KeySelectedDate   = "selectedDate"
	KeyWeekStart      = "weekStart"
	KeyMonthlyGoals   = "monthlyGoals"
	KeyRecurrenceDone = "recurrenceDone"
	KeyCalendarURL    = "calendarUrl"
	KeyImportedEvents = "importedEvents"
)

var (
	ErrNotFound     = errors.New("agenda: event not found")
	ErrGoalNotFound = errors.New("agenda: goal not found")
	ErrEmptyTitle   = errors.New("agenda: title is required")
	ErrInvalidTime  = errors.New("agenda: invalid time")
	ErrOutOfScope   = errors.New("agenda: reorder outside date scope")
)

type Option func(*Store)

func WithLogger(l *zap.Logger) Option {
	return func(s *Store) { s.log = logging.OrNop(l) }
}

// WithClock replaces time.Now; the returned time's calendar fields define "today".
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

func WithIDGenerator(newID func() string) Option {
	return func(s *Store) {
		if newID != nil {
			s.newID = newID
		}
	}
}

// Store owns every persisted collection. Each mutation writes the full
// affected collection before it updates memory, so a failed write leaves the
// in-memory state untouched.
type Store struct {
	mu    sync.RWMutex
	kv    storage.Store
	log   *zap.Logger
	now   func() time.Time
	newID func() string

	events       []model.Event
	goals        []model.MonthlyGoal
	imported     []model.ImportedEvent
	done         map[string]bool
	selectedDate string
	weekStart    string
	calendarURL  string
	today        string
}

// Open loads all collections from kv. Unreadable or corrupt collections are
// logged and replaced by empty ones.
func Open(ctx context.Context, kv storage.Store, opts ...Option) (*Store, error) {
	if kv == nil {
		return nil, errors.New("agenda: nil storage")
	}
	s := &Store{
		kv:    kv,
		log:   zap.NewNop(),
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.today = model.DateKey(s.now())
	s.load(ctx)
	return s, nil
}

func (s *Store) load(ctx context.Context) {
	defaults := s.decodeDefaults()

	s.events = []model.Event{}
	if raw, ok := s.read(ctx, KeyEvents); ok {
		events, err := model.DecodeEvents(raw, defaults)
		s.recovered(KeyEvents, err)
		s.events = events
	}

	s.goals = []model.MonthlyGoal{}
	if raw, ok := s.read(ctx, KeyMonthlyGoals); ok {
		goals, err := model.DecodeGoals(raw, defaults)
		s.recovered(KeyMonthlyGoals, err)
		s.goals = goals
	}

	s.imported = []model.ImportedEvent{}
	if raw, ok := s.read(ctx, KeyImportedEvents); ok {
		imported, err := model.DecodeImported(raw)
		s.recovered(KeyImportedEvents, err)
		if err == nil {
			s.imported = imported
		}
	}

	s.done = map[string]bool{}
	if raw, ok := s.read(ctx, KeyRecurrenceDone); ok {
		done, err := model.DecodeCompletion(raw)
		s.recovered(KeyRecurrenceDone, err)
		s.done = done
	}

	s.selectedDate = s.today
	if v, ok := s.readString(ctx, KeySelectedDate); ok && model.IsDateKey(v) {
		s.selectedDate = v
	}
	s.weekStart, _ = model.WeekStart(s.today)
	if v, ok := s.readString(ctx, KeyWeekStart); ok {
		if monday, err := model.WeekStart(v); err == nil {
			s.weekStart = monday
		}
	}
	if v, ok := s.readString(ctx, KeyCalendarURL); ok {
		s.calendarURL = v
	}

	s.log.Debug("agenda_loaded",
		zap.Int("events", len(s.events)),
		zap.Int("goals", len(s.goals)),
		zap.Int("imported", len(s.imported)),
		zap.String("selected_date", s.selectedDate),
	)
}

func (s *Store) read(ctx context.Context, key string) ([]byte, bool) {
	raw, err := s.kv.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.log.Warn("collection_read_failed", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	return raw, true
}

func (s *Store) readString(ctx context.Context, key string) (string, bool) {
	raw, ok := s.read(ctx, key)
	if !ok {
		return "", false
	}
	var v string
	if err := json.Unmarshal(raw, &v); err != nil {
		s.recovered(key, err)
		return "", false
	}
	return v, true
}

func (s *Store) recovered(key string, err error) {
	if err != nil {
		s.log.Warn("collection_recovered_empty", zap.String("key", key), zap.Error(err))
	}
}

func (s *Store) put(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("agenda: encode %s: %w", key, err)
	}
	if err := s.kv.Put(ctx, key, raw); err != nil {
		return fmt.Errorf("agenda: persist %s: %w", key, err)
	}
	return nil
}

func (s *Store) decodeDefaults() model.DecodeDefaults {
	return model.DecodeDefaults{
		Today: s.today,
		Now:   s.nowMillis(),
		NewID: s.newID,
	}
}

func (s *Store) nowMillis() int64 {
	return s.now().UnixMilli()
}

func (s *Store) indexOf(id string) int {
	for i, e := range s.events {
		if e.ID == id {
			return i
		}
	}
	return -1
}

func cloneEvents(in []model.Event) []model.Event {
	out := make([]model.Event, len(in))
	for i, e := range in {
		out[i] = e.Clone()
	}
	return out
}
