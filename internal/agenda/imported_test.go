package agenda

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandeepkv93/timetable/internal/model"
	"github.com/sandeepkv93/timetable/internal/storage"
)

func TestReplaceImportedIsWholesale(t *testing.T) {
	s, _ := openTestStore(t, storage.NewMemoryStore())
	ctx := context.Background()

	require.NoError(t, s.ReplaceImported(ctx, []byte(`[
		{"id":"a","date":"2026-02-09","time":"08:00","title":"A"},
		{"id":"b","date":"2026-02-10","time":"08:00","title":"B"}]`)))
	require.NoError(t, s.ReplaceImportedEvents(ctx, []model.ImportedEvent{
		{ID: "c", Date: "2026-02-09", Time: "13:00", Title: "C"},
	}))

	got := s.Imported()
	require.Len(t, got, 1)
	assert.Equal(t, "c", got[0].ID)
	assert.Empty(t, s.ImportedOn("2026-02-10"))
}

func TestReplaceImportedKeepsPriorOnFailure(t *testing.T) {
	s, _ := openTestStore(t, storage.NewMemoryStore())
	ctx := context.Background()
	require.NoError(t, s.ReplaceImportedEvents(ctx, []model.ImportedEvent{
		{ID: "keep", Date: "2026-02-09", Time: "08:00", Title: "Keep"},
	}))

	assert.ErrorIs(t, s.ReplaceImported(ctx, []byte(`{"not":"array"}`)), model.ErrMalformedPayload)
	assert.ErrorIs(t, s.ReplaceImportedEvents(ctx, []model.ImportedEvent{{ID: "x", Date: "bad", Time: "08:00"}}), model.ErrMalformedPayload)

	got := s.Imported()
	require.Len(t, got, 1)
	assert.Equal(t, "keep", got[0].ID)
}

func TestImportedDoNotAffectUserInstances(t *testing.T) {
	s, _ := openTestStore(t, storage.NewMemoryStore())
	ctx := context.Background()
	require.NoError(t, s.ReplaceImportedEvents(ctx, []model.ImportedEvent{
		{ID: "ics", Date: "2026-02-09", Time: "08:00", Title: "Lecture"},
	}))
	assert.Empty(t, s.InstancesOn("2026-02-09"))
	_, err := s.ToggleDone(ctx, "ics", "2026-02-09")
	assert.ErrorIs(t, err, ErrNotFound)
}
