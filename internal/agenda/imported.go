package agenda

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/sandeepkv93/timetable/internal/model"
)

func (s *Store) Imported() []model.ImportedEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.ImportedEvent(nil), s.imported...)
}

func (s *Store) ImportedOn(date string) []model.Instance {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []model.Instance{}
	for _, e := range s.imported {
		if e.Date == date {
			out = append(out, e.AsInstance())
		}
	}
	return out
}

// ReplaceImported decodes a JSON array of imported records and replaces the
// collection wholesale. On any failure the previous collection is kept.
func (s *Store) ReplaceImported(ctx context.Context, raw []byte) error {
	list, err := model.DecodeImported(raw)
	if err != nil {
		s.log.Warn("import_rejected", zap.Error(err))
		return err
	}
	return s.replaceImported(ctx, list)
}

// ReplaceImportedEvents is ReplaceImported for already-decoded records.
func (s *Store) ReplaceImportedEvents(ctx context.Context, list []model.ImportedEvent) error {
	for i, e := range list {
		if err := e.Validate(); err != nil {
			err = fmt.Errorf("%w: record %d: %v", model.ErrMalformedPayload, i, err)
			s.log.Warn("import_rejected", zap.Error(err))
			return err
		}
	}
	return s.replaceImported(ctx, append([]model.ImportedEvent{}, list...))
}

func (s *Store) replaceImported(ctx context.Context, list []model.ImportedEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.put(ctx, KeyImportedEvents, list); err != nil {
		s.log.Warn("import_persist_failed", zap.Error(err))
		return err
	}
	s.imported = list
	s.log.Info("imported_events_replaced", zap.Int("count", len(list)))
	return nil
}
